// Package main provides the valgen command.
package main

import (
	"os"

	"github.com/leapstack-labs/valgen/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
