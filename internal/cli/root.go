// Package cli implements the talkboard commands.
package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/nadzzz/talkboard/internal/config"
)

var cfgFile string

// Version is set by main from the build-time version.
var Version = "dev"

// RootCmd is the top-level command.
var RootCmd = &cobra.Command{
	Use:   "talkboard",
	Short: "Pictogram board speech daemon",
	Long: `Talkboard speaks phrases composed on an AAC pictogram board.

It routes speech between an offline voice and the platform engine, suggests
the next pictogram from past phrases, keeps a history of what was said and
caches translations between fr, en, ar and mg.`,
	SilenceUsage: true,
}

func init() {
	RootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "path to config file (default: ./talkboard.yaml, ./configs/talkboard.yaml, /etc/talkboard/talkboard.yaml)")
}

// loadConfig reads the configuration and installs the logger.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("loading configuration: %w", err)
	}
	config.SetupLogging(cfg.Logging)
	return cfg, nil
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
