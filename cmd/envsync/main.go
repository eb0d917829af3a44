package main

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var rootCmd = &cobra.Command{
	Use:   "envsync",
	Short: "Sync config vars between a local env file and a remote platform app",
}

func init() {
	// Defaults
	v := viper.GetViper()
	v.SetDefault("config", "")
	v.SetDefault("api_key", "")
	v.SetDefault("no_store", false)
	v.SetDefault("set_alt", false)
	v.SetDefault("limit", 20)

	// Environment variables support: ENVSYNC_API_KEY, ENVSYNC_CONFIG, ...
	v.SetEnvPrefix("ENVSYNC")
	v.AutomaticEnv()
	// Bind flags via Cobra and then bind to Viper
	rootCmd.PersistentFlags().String("config", v.GetString("config"), "path to a config yaml")
	rootCmd.PersistentFlags().Bool("no-store", v.GetBool("no_store"), "disable the local sync history store")
	uploadCmd.Flags().Bool("set-alt", v.GetBool("set_alt"), "honor alt_value= directive comments when parsing the env file")
	historyCmd.Flags().Int("limit", v.GetInt("limit"), "show up to N latest sync runs (newest first)")

	_ = v.BindPFlag("config", rootCmd.PersistentFlags().Lookup("config"))
	_ = v.BindPFlag("no_store", rootCmd.PersistentFlags().Lookup("no-store"))
	_ = v.BindPFlag("set_alt", uploadCmd.Flags().Lookup("set-alt"))
	_ = v.BindPFlag("limit", historyCmd.Flags().Lookup("limit"))

	rootCmd.AddCommand(dumpCmd)
	rootCmd.AddCommand(uploadCmd)
	rootCmd.AddCommand(historyCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		exitHandler.LogFatalError(err, "command execution failed")
	}
}
