// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

// Command rize runs, steps and views Rize-1 programs.
package main

import (
	"os"
)

func main() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}
