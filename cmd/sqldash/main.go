// Package main is the entry point for the sqldash CLI.
package main

import (
	"os"

	"github.com/sqldash-labs/sqldash/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
