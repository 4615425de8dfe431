package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var rootCmd = &cobra.Command{
	Use:   "flare2adoc",
	Short: "Convert Flare topic exports to AsciiDoc",
	Long: `flare2adoc converts a tree of Flare XHTML topics into AsciiDoc
documents, resolving snippets and variables along the way.

Point it at an exported project directory and it mirrors the tree into
an output directory, one .adoc per topic.`,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./flare2adoc.yaml)")
}

// initConfig reads in a config file and environment variables if set.
func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("flare2adoc")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "flare2adoc"))
		}
	}

	viper.SetEnvPrefix("FLARE2ADOC")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil && !viper.GetBool("quiet") {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}
