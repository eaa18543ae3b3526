package main

import (
	"os"

	"github.com/balkashynov/grind/internal/commands"
)

// Set at build time with -ldflags "-X main.version=..."
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	commands.SetVersion(version, commit, date)
	// cobra already reports the error
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
