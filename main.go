package main

import (
	"os"

	"github.com/halcyonsec/forge/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
