package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version of flare2adoc",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("flare2adoc %s\n", version)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
