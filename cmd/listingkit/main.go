// Package main is the entry point for the listingkit CLI.
package main

import (
	"os"

	"github.com/listingkit/listingkit/cmd/listingkit/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
