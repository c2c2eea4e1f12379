// Package main is the entry point for the idmctl CLI binary.
package main

import (
	"os"

	cli "identity-console/pkg/cli"
)

func main() {
	os.Exit(cli.Execute())
}
