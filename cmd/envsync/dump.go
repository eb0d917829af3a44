package main

import (
	"context"

	"github.com/spf13/cobra"
)

var dumpCmd = &cobra.Command{
	Use:   "dump <app> <file>",
	Short: "Fetch an app's config vars and write them to an env file",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		s, cleanup, err := newSyncer(ctx)
		if err != nil {
			return err
		}
		defer cleanup()
		return s.Dump(ctx, args[0], resolveEnvFile(args[1]))
	},
}
