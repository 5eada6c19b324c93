package datasets

import (
	"context"
	"fmt"

	"github.com/atelierhub/sheetmirror/internal/cache"
	"github.com/atelierhub/sheetmirror/internal/models"
	"github.com/atelierhub/sheetmirror/internal/remote"
)

// Mutation names. The invalidation table below is the single place that
// records which cached datasets each remote write makes stale.
const (
	OpRecordAttendance = "record-attendance"
	OpRecordBooking    = "record-booking"
)

// InvalidationTable is static: maintained here, next to the mutations,
// rather than discovered through any pub/sub machinery.
var InvalidationTable = map[string][]string{
	OpRecordAttendance: {KeyProjectLog},
	OpRecordBooking:    {KeyBookings},
}

// Mutator performs write-through operations against the remote source and
// evicts the affected cache slots on success. A failed write leaves the
// cache untouched so readers keep seeing the pre-mutation value.
type Mutator struct {
	src   remote.Source
	coord *cache.Coordinator
}

func NewMutator(src remote.Source, coord *cache.Coordinator) *Mutator {
	return &Mutator{src: src, coord: coord}
}

// RecordAttendance appends one project-log row.
func (m *Mutator) RecordAttendance(ctx context.Context, entry models.LogEntry) error {
	row := []string{entry.Date, entry.StudentID, entry.Project, entry.Note}
	if err := m.src.AppendRow(ctx, KeyProjectLog, row); err != nil {
		return fmt.Errorf("record attendance: %w", err)
	}
	m.coord.OnSuccess(OpRecordAttendance)
	return nil
}

// RecordBooking appends one bookings row.
func (m *Mutator) RecordBooking(ctx context.Context, b models.Booking) error {
	row := []string{b.Date, b.Slot, b.StudentID, b.Machine}
	if err := m.src.AppendRow(ctx, KeyBookings, row); err != nil {
		return fmt.Errorf("record booking: %w", err)
	}
	m.coord.OnSuccess(OpRecordBooking)
	return nil
}
