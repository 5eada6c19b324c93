package internal

import (
	"errors"
	"os/signal"
	"syscall"
	"time"

	"github.com/atelierhub/sheetmirror/internal/errs"
	"github.com/atelierhub/sheetmirror/internal/logger"
	"github.com/spf13/cobra"
)

const minWatchInterval = time.Second

func NewWatchCmd() *cobra.Command {
	var interval time.Duration

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Run sync and mirror cycles until interrupted",
		Long: `Run one cycle immediately, then repeat on the configured interval.
Per-cycle failures are logged and retried on the next tick.

Examples:
  sheetmirror watch
  sheetmirror watch --interval 2m`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			comps, err := buildComponents(cmd)
			if err != nil {
				return err
			}

			if interval == 0 {
				interval = comps.cfg.Watch.Interval.Std()
			}
			if interval < minWatchInterval {
				return errors.New(errs.Msg(errs.WatchIntervalShort, interval, minWatchInterval))
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			logger.Info("watching every %s (ctrl-c to stop)", interval)
			return comps.runner.Run(ctx, interval)
		},
	}

	cmd.Flags().DurationVar(&interval, "interval", 0, "Cycle interval (defaults to watch.interval from the config)")
	return cmd
}
