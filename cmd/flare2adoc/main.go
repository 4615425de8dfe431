// Package main is the entry point for the flare2adoc CLI.
package main

import (
	"os"

	"go.uber.org/automaxprocs/maxprocs"
)

// version is set at build time via ldflags.
var version = "dev"

func main() {
	// Error ignored: maxprocs.Set only fails on an invalid GOMAXPROCS
	// value, and the runtime default applies then.
	_, _ = maxprocs.Set(maxprocs.Logger(func(string, ...interface{}) {}))

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
