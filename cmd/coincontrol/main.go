package main

import (
	"os"

	"github.com/coincontrol-dev/coincontrol/internal/commands"
)

func main() {
	if err := commands.NewRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}
