// Talkboard is the speech daemon behind an AAC pictogram board. It speaks
// composed phrases through an offline or platform voice, suggests the next
// pictogram and keeps a history of what was said.
//
// Usage:
//
//	talkboard serve [--config /path/to/talkboard.yaml]
//	talkboard say 1 13 --lang fr
//	talkboard speak --lang mg Misaotra
//
//	@title			Talkboard API
//	@version		1.0
//	@description	Speech, phrase composition, suggestions, history and translation for an AAC pictogram board.
//	@BasePath		/
package main

import (
	"os"

	"github.com/nadzzz/talkboard/internal/cli"
)

// version is set at build time via ldflags.
var version = "dev"

func main() {
	cli.Version = version
	if err := cli.RootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
