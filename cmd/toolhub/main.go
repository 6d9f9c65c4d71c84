package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
)

func main() {
	if err := buildRoot().Execute(); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// GlobalFlags holds persistent flags shared by every subcommand.
type GlobalFlags struct {
	ConfigPath string
	APIUrl     string
	APITimeout time.Duration
}

func buildRoot() *cobra.Command {
	flags := &GlobalFlags{}

	root := &cobra.Command{
		Use:   "toolhub",
		Short: "Desktop control hub for productivity tools",
		Long: `Toolhub supervises a fixed set of helper tools: it starts and stops
them, registers their global hotkeys, and tracks copies launched outside
the hub.

Examples:
  toolhub serve                     # Start the hub daemon
  toolhub start speak-selected --hotkey=ctrl+alt+F13
  toolhub status
  toolhub hotkeys`,
	}

	root.PersistentFlags().StringVar(&flags.ConfigPath, "config", "", "path to TOML config file (optional)")
	root.PersistentFlags().StringVar(&flags.APIUrl, "api-url", "", "daemon API base URL (default http://127.0.0.1:8390/api)")
	root.PersistentFlags().DurationVar(&flags.APITimeout, "api-timeout", 10*time.Second, "daemon API request timeout")

	root.AddCommand(
		newServeCommand(flags),
		newStartCommand(flags),
		newStopCommand(flags),
		newStopAllCommand(flags),
		newStatusCommand(flags),
		newScanCommand(flags),
		newHotkeysCommand(flags),
		newLicenseCommand(flags),
	)
	return root
}
