// Package main is the entry point for catalog-eda.
package main

import (
	"fmt"
	"os"

	"github.com/j-veylop/catalog-eda/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
