package internal

import (
	"github.com/atelierhub/sheetmirror/internal/config"
	"github.com/atelierhub/sheetmirror/internal/logger"
	"github.com/spf13/cobra"
)

func NewRootCmd() *cobra.Command {
	var debug, jsonLogs bool

	cmd := &cobra.Command{
		Use:   "sheetmirror",
		Short: "Local cache and mirror for a remote sheet-backed workspace",
		Long: `Sheetmirror keeps the workshop running when the sheet API does not.
It caches table reads with a three-tier fallback (live, stale, snapshot),
keeps a durable full snapshot of every table, and mirrors referenced
images into a local directory.`,
		Example:       `sheetmirror get students`,
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			level := "info"
			if debug {
				level = "debug"
			}
			logger.Configure(logger.Options{Level: level, JSON: jsonLogs})
		},
	}

	cmd.PersistentFlags().String("config", config.DefaultFile, "Path to the YAML config file")
	cmd.PersistentFlags().BoolVar(&debug, "debug", false, "Enable debug logging")
	cmd.PersistentFlags().BoolVar(&jsonLogs, "json", false, "Log as JSON (CI)")

	RegisterSubCommands(cmd)

	return cmd
}

func Execute() error {
	root := NewRootCmd()

	if err := root.Execute(); err != nil {
		logger.Debug("command failed: %v", err)
		return err
	}
	return nil
}
