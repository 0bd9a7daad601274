package main

import (
	"os"

	"github.com/ethetl/ethetl/internal/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
