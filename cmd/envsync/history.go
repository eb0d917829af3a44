package main

import (
	"fmt"

	"github.com/loykin/envsync"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recent sync runs from the local history store",
	RunE: func(cmd *cobra.Command, args []string) error {
		v := viper.GetViper()
		if v.GetBool("no_store") {
			fmt.Println("Store is disabled - no sync history available")
			return nil
		}

		doc, err := loadDoc()
		if err != nil {
			return err
		}
		sc, err := doc.StoreConfig()
		if err != nil {
			return err
		}
		if sc == nil {
			fmt.Println("Store is disabled - no sync history available")
			return nil
		}
		st, err := sc.Open()
		if err != nil {
			return err
		}
		defer func() { _ = st.Close() }()

		runs, err := st.ListRuns(v.GetInt("limit"))
		if err != nil {
			return err
		}
		if len(runs) == 0 {
			fmt.Println("No sync runs recorded yet.")
			return nil
		}
		for _, r := range runs {
			printRun(r)
		}
		return nil
	},
}

func printRun(r envsync.Run) {
	status := "ok"
	if !r.Succeeded {
		status = "failed"
	}
	fmt.Printf("%s  %-6s  %-6s  keys=%d  app=%s\n", r.RanAt, r.Operation, status, r.Keys, r.App)
}
