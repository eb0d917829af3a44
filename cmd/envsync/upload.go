package main

import (
	"context"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var uploadCmd = &cobra.Command{
	Use:   "upload <app> <file>",
	Short: "Parse an env file and push its config vars to an app in one batch",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		setAlt := viper.GetViper().GetBool("set_alt")
		s, cleanup, err := newSyncer(ctx)
		if err != nil {
			return err
		}
		defer cleanup()
		return s.Upload(ctx, args[0], resolveEnvFile(args[1]), setAlt)
	},
}
