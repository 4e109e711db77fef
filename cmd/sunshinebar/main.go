// Package main is the entry point for the sunshinebar agent and CLI.
package main

import (
	"os"

	"github.com/sunshinebar/sunshinebar/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
