package internal

import (
	"fmt"
	"time"

	"github.com/atelierhub/sheetmirror/internal/logger"
	"github.com/spf13/cobra"
)

func NewStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show snapshot and mirror state",
		Long: `Show what the last-resort fallback currently holds: the snapshot's
capture time and per-table row counts, plus how many assets are mirrored.

Examples:
  sheetmirror status`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			comps, err := buildComponents(cmd)
			if err != nil {
				return err
			}

			snap, ok := comps.store.Current()
			if !ok {
				logger.Warn("no snapshot yet; run 'sheetmirror sync' first")
				return nil
			}

			table := logger.CreateTable([]string{"Table", "Rows"})
			for _, name := range comps.cfg.Tables {
				rows, present := snap.Rows(name)
				count := "—"
				if present {
					count = fmt.Sprintf("%d", len(rows))
				}
				if err := table.Append([]string{name, count}); err != nil {
					return fmt.Errorf("append row: %w", err)
				}
			}
			if err := table.Render(); err != nil {
				return fmt.Errorf("render table: %w", err)
			}

			logger.Info("snapshot captured %s (age %s)",
				snap.CapturedAt.Format(time.RFC3339),
				time.Since(snap.CapturedAt).Truncate(time.Second))

			present, err := comps.assets.List()
			if err != nil {
				return err
			}
			logger.Info("assets mirrored: %d (dir %s)", len(present), comps.cfg.Mirror.Dir)
			return nil
		},
	}
}
