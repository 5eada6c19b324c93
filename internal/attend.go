package internal

import (
	"errors"
	"time"

	"github.com/atelierhub/sheetmirror/internal/errs"
	"github.com/atelierhub/sheetmirror/internal/logger"
	"github.com/atelierhub/sheetmirror/internal/models"
	"github.com/spf13/cobra"
)

func NewAttendCmd() *cobra.Command {
	var project, note, date string

	cmd := &cobra.Command{
		Use:   "attend <student-id>",
		Short: "Record an attendance row in the project log",
		Long: `Append an attendance entry to the remote project-log table.

On success the cached project-log dataset is evicted, so the next read
reflects the new row instead of a pre-mutation value.

Examples:
  sheetmirror attend s42 --project cnc --note "finished base plate"`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return errors.New(errs.Msg(errs.ProvideStudentID))
			}

			comps, err := buildComponents(cmd)
			if err != nil {
				return err
			}

			if date == "" {
				date = time.Now().Format("2006-01-02")
			}
			entry := models.LogEntry{
				Date:      date,
				StudentID: args[0],
				Project:   project,
				Note:      note,
			}
			if err := comps.mutator.RecordAttendance(cmd.Context(), entry); err != nil {
				return err
			}

			logger.Success("attendance recorded for %s on %s", args[0], date)
			return nil
		},
	}

	cmd.Flags().StringVar(&project, "project", "", "Project the student worked on")
	cmd.Flags().StringVar(&note, "note", "", "Free-form note")
	cmd.Flags().StringVar(&date, "date", "", "Entry date (defaults to today)")
	return cmd
}
