// Package datasets defines the per-dataset positional column mappings of
// the remote sheet and the typed accessors the rest of the application
// uses. Each dataset registers exactly one row transform; the cache runs
// it on live rows and on snapshot rows alike.
package datasets

import (
	"context"
	"fmt"
	"strings"

	"github.com/atelierhub/sheetmirror/internal/cache"
	"github.com/atelierhub/sheetmirror/internal/models"
)

// Dataset keys double as remote table names; the sheet tabs are named
// after the datasets they hold.
const (
	KeyStudents   = "students"
	KeyProjectLog = "project-log"
	KeyBookings   = "bookings"
)

// All returns the dataset registry handed to the cache manager.
func All() []cache.Dataset {
	return []cache.Dataset{
		{Key: KeyStudents, Table: KeyStudents, Transform: studentsTransform},
		{Key: KeyProjectLog, Table: KeyProjectLog, Transform: logTransform},
		{Key: KeyBookings, Table: KeyBookings, Transform: bookingsTransform},
	}
}

// col reads a positional column, tolerating short rows.
func col(row []string, i int) string {
	if i < len(row) {
		return strings.TrimSpace(row[i])
	}
	return ""
}

// ParseStudents maps raw rows [id, name, group, image_ref, active].
// Rows without an id and a name are skipped; the sheet regularly carries
// blank or half-filled lines.
func ParseStudents(rows [][]string) []models.Student {
	out := make([]models.Student, 0, len(rows))
	for i, row := range rows {
		id, name := col(row, 0), col(row, 1)
		if id == "" || name == "" {
			continue
		}
		out = append(out, models.Student{
			ID:        id,
			Name:      name,
			Group:     col(row, 2),
			ImageRef:  col(row, 3),
			Active:    parseFlag(col(row, 4)),
			SortIndex: i,
		})
	}
	return out
}

// ParseLog maps raw rows [date, student_id, project, note].
func ParseLog(rows [][]string) []models.LogEntry {
	out := make([]models.LogEntry, 0, len(rows))
	for _, row := range rows {
		date, studentID := col(row, 0), col(row, 1)
		if date == "" || studentID == "" {
			continue
		}
		out = append(out, models.LogEntry{
			Date:      date,
			StudentID: studentID,
			Project:   col(row, 2),
			Note:      col(row, 3),
		})
	}
	return out
}

// ParseBookings maps raw rows [date, slot, student_id, machine].
func ParseBookings(rows [][]string) []models.Booking {
	out := make([]models.Booking, 0, len(rows))
	for _, row := range rows {
		date, slot := col(row, 0), col(row, 1)
		if date == "" || slot == "" {
			continue
		}
		out = append(out, models.Booking{
			Date:      date,
			Slot:      slot,
			StudentID: col(row, 2),
			Machine:   col(row, 3),
		})
	}
	return out
}

// parseFlag treats an absent flag column as active; the sheet only fills
// it in to deactivate someone.
func parseFlag(s string) bool {
	switch strings.ToLower(s) {
	case "", "1", "true", "yes", "y":
		return true
	default:
		return false
	}
}

func studentsTransform(rows [][]string) (any, error) { return ParseStudents(rows), nil }
func logTransform(rows [][]string) (any, error)      { return ParseLog(rows), nil }
func bookingsTransform(rows [][]string) (any, error) { return ParseBookings(rows), nil }

// Students reads the students dataset through the cache.
func Students(ctx context.Context, mgr *cache.Manager, forceRefresh bool) ([]models.Student, error) {
	v, err := mgr.Read(ctx, KeyStudents, forceRefresh)
	if err != nil {
		return nil, err
	}
	records, ok := v.([]models.Student)
	if !ok {
		return nil, fmt.Errorf("dataset %s holds unexpected type %T", KeyStudents, v)
	}
	return records, nil
}

// ProjectLog reads the project-log dataset through the cache.
func ProjectLog(ctx context.Context, mgr *cache.Manager, forceRefresh bool) ([]models.LogEntry, error) {
	v, err := mgr.Read(ctx, KeyProjectLog, forceRefresh)
	if err != nil {
		return nil, err
	}
	records, ok := v.([]models.LogEntry)
	if !ok {
		return nil, fmt.Errorf("dataset %s holds unexpected type %T", KeyProjectLog, v)
	}
	return records, nil
}

// Bookings reads the bookings dataset through the cache.
func Bookings(ctx context.Context, mgr *cache.Manager, forceRefresh bool) ([]models.Booking, error) {
	v, err := mgr.Read(ctx, KeyBookings, forceRefresh)
	if err != nil {
		return nil, err
	}
	records, ok := v.([]models.Booking)
	if !ok {
		return nil, fmt.Errorf("dataset %s holds unexpected type %T", KeyBookings, v)
	}
	return records, nil
}
