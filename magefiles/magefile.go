//go:build mage

// Package main contains Mage build targets for flare2adoc developer tooling.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

const (
	binDir  = "bin"
	binName = "flare2adoc"
	cmdPkg  = "./cmd/flare2adoc"
)

// Default is the target run when mage is invoked without arguments.
var Default = Build

// Build compiles the CLI binary into bin/ with the version stamped in.
func Build() error {
	if err := os.MkdirAll(binDir, 0o755); err != nil {
		return fmt.Errorf("creating %s: %w", binDir, err)
	}
	out := filepath.Join(binDir, binName)
	ldflags := fmt.Sprintf("-X main.version=%s", version())
	if err := sh.RunV("go", "build", "-ldflags", ldflags, "-o", out, cmdPkg); err != nil {
		return fmt.Errorf("go build: %w", err)
	}
	fmt.Printf("Built %s\n", out)
	return nil
}

// Test runs the full test suite.
func Test() error {
	return sh.RunV("go", "test", "./...")
}

// UpdateGolden regenerates the golden files under testdata/.
func UpdateGolden() error {
	return sh.RunV("go", "test", "./converter", "-run", "TestGoldenFiles", "-update")
}

// Lint vets the module.
func Lint() error {
	return sh.RunV("go", "vet", "./...")
}

// All lints, tests and builds in order.
func All() {
	mg.SerialDeps(Lint, Test, Build)
}

// Clean removes build artifacts.
func Clean() error {
	return sh.Rm(binDir)
}

// version asks git for a describe string, falling back to "dev".
func version() string {
	v, err := sh.Output("git", "describe", "--tags", "--always", "--dirty")
	if err != nil || v == "" {
		return "dev"
	}
	return v
}
