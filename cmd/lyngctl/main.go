// Lyngctl is a command line controller for Lyngdorf MP-50 and MP-60
// surround sound processors.
//
// It speaks the processors' line-oriented control protocol over TCP or
// RS-232, and provides discovery, one-shot control commands, a live
// status dashboard, and a WebSocket bridge for home automation.
//
// Usage:
//
//	lyngctl [command] [flags]
//
// See 'lyngctl --help' for available commands.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/nkarlsen/lyngctl/internal/logging"
	"github.com/nkarlsen/lyngctl/internal/version"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "lyngctl",
	Short: "Lyngdorf processor controller",
	Long: `Control Lyngdorf MP-50 and MP-60 surround sound processors from the
command line.

Connects over the network (port 84) or RS-232 and speaks the processors'
control protocol: power, volume, sources, RoomPerfect, audio modes,
Zone 2 and more. Processors can be saved by name with 'lyngctl devices
add' so commands don't need to repeat endpoints.`,
	Version:       version.Version,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return logging.InitializeFromEnv()
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		logging.Sync()
	},
}

func init() {
	rootCmd.CompletionOptions.DisableDefaultCmd = true

	rootCmd.AddCommand(versionCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("lyngctl %s (commit: %s)\n", version.Version, version.Commit)
	},
}
