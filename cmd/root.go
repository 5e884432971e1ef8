package cmd

import (
	"fmt"
	"os"

	"mapwize-api/core/logger"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// RootCmd represents the base command when called without any subcommands
var RootCmd = &cobra.Command{
	Use:   "mapwize-api",
	Short: "Mapwize venue content synchronizer",
	Long: `mapwize-api keeps the content of Mapwize venues (layers, places, place lists,
connectors, beacons and templates) in line with a declared list of objects.
It runs as a one-shot CLI or as an HTTP service.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the command line and exits with status 1 when a command fails.
func Execute() {
	err := RootCmd.Execute()
	if err == nil {
		return
	}

	// Errors are printed for a terminal: console encoding, ISO8601 timestamps.
	l, logErr := logger.New(&logger.Config{Level: "debug", Format: "console"})
	if logErr != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	l.Error("command failed", zap.Error(err))
	_ = l.Sync()
	os.Exit(1)
}
