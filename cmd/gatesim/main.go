// Package main provides the gatesim command-line interface.
package main

import (
	"os"

	"github.com/gatework-labs/gatesim/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
