package internal

import (
	"context"
	"errors"
	"fmt"

	"github.com/atelierhub/sheetmirror/internal/cache"
	"github.com/atelierhub/sheetmirror/internal/datasets"
	"github.com/atelierhub/sheetmirror/internal/errs"
	"github.com/atelierhub/sheetmirror/internal/logger"
	"github.com/atelierhub/sheetmirror/internal/printer"
	"github.com/spf13/cobra"
)

func NewGetCmd() *cobra.Command {
	var refresh bool

	cmd := &cobra.Command{
		Use:   "get <dataset>",
		Short: "Read a dataset through the tiered cache",
		Long: `Read a dataset and render it as a table.

The read degrades gracefully: if the sheet API is unreachable it serves
the last in-memory value, then the durable snapshot, before giving up.

Examples:
  sheetmirror get students
  sheetmirror get bookings --refresh`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return errors.New(errs.Msg(errs.ProvideDatasetKey))
			}

			comps, err := buildComponents(cmd)
			if err != nil {
				return err
			}
			return renderDataset(cmd.Context(), comps.manager, args[0], refresh)
		},
	}

	cmd.Flags().BoolVarP(&refresh, "refresh", "r", false, "Force a live fetch even when the cache is fresh")
	return cmd
}

func renderDataset(ctx context.Context, mgr *cache.Manager, key string, refresh bool) error {
	p := printer.NewColorPrinter()

	var headers []string
	var rows [][]string

	switch key {
	case datasets.KeyStudents:
		students, err := datasets.Students(ctx, mgr, refresh)
		if err != nil {
			return err
		}
		headers = []string{"ID", "Name", "Group", "Status"}
		for _, s := range students {
			status := p.Success("active")
			if !s.Active {
				status = p.Muted("inactive")
			}
			rows = append(rows, []string{s.ID, s.Name, s.Group, status})
		}

	case datasets.KeyProjectLog:
		entries, err := datasets.ProjectLog(ctx, mgr, refresh)
		if err != nil {
			return err
		}
		headers = []string{"Date", "Student", "Project", "Note"}
		for _, e := range entries {
			rows = append(rows, []string{e.Date, e.StudentID, e.Project, e.Note})
		}

	case datasets.KeyBookings:
		bookings, err := datasets.Bookings(ctx, mgr, refresh)
		if err != nil {
			return err
		}
		headers = []string{"Date", "Slot", "Student", "Machine"}
		for _, b := range bookings {
			rows = append(rows, []string{b.Date, b.Slot, b.StudentID, b.Machine})
		}

	default:
		return errors.New(errs.Msg(errs.UnknownDataset, key))
	}

	table := logger.CreateTable(headers)
	for _, row := range rows {
		if err := table.Append(row); err != nil {
			return fmt.Errorf("append row: %w", err)
		}
	}
	if err := table.Render(); err != nil {
		return fmt.Errorf("render table: %w", err)
	}

	warnIfDegraded(mgr, key, len(rows))
	return nil
}

// warnIfDegraded tells the operator when the table above did not come from
// a live fetch.
func warnIfDegraded(mgr *cache.Manager, key string, rendered int) {
	for _, st := range mgr.Stats() {
		if st.Key != key {
			continue
		}
		if st.FetchedAt.IsZero() {
			logger.Warn("%d rows served from fallback data; the sheet API was unreachable", rendered)
		}
		return
	}
}
