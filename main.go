package main

import (
	"os"

	"github.com/bimmerbailey/fieldprompt/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
