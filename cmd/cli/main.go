// Package main is the entry point for the idle-profit CLI.
package main

import (
	"os"

	"idle-profit/cmd/cli/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
