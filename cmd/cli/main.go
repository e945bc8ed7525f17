// Package main is the entry point for the pricing-guard CLI.
package main

import (
	"os"

	"pricing-guard/cmd/cli/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
