// Package main is the entry point for the importcheck CLI.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/input-output-hk/atala-prism-sub004/internal/cli"
)

// Version information, injected at build time.
var Version = "dev"

func main() {
	rootCmd := cli.NewRootCmd()
	rootCmd.Version = Version
	if err := rootCmd.Execute(); err != nil {
		if !errors.Is(err, cli.ErrInvalidFile) {
			fmt.Fprintln(os.Stderr, err)
		}
		os.Exit(1)
	}
}
