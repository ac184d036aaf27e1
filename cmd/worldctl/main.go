// Package main provides the worldctl CLI.
package main

import (
	"os"

	"github.com/frontierlabs/worldctl/internal/cli"
)

func main() {
	os.Exit(cli.ExitCode(cli.Execute()))
}
