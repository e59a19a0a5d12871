// Package main provides the entry point for the amorph CLI.
package main

import (
	"os"

	"github.com/Shadojus/amorph/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
