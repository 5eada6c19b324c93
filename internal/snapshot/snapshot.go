// Package snapshot maintains the durable full-mirror of every remote table.
// The snapshot is the last-resort read tier: it survives process restarts
// and is the only data available on a cold start during an outage.
package snapshot

import "time"

// Snapshot is one timestamped capture of all tables. It is immutable once
// built; a sync cycle always produces a wholly new document.
type Snapshot struct {
	CapturedAt time.Time             `json:"captured_at"`
	Tables     map[string][][]string `json:"tables"`
}

// Rows returns the raw rows captured for table, if any.
func (s Snapshot) Rows(table string) ([][]string, bool) {
	rows, ok := s.Tables[table]
	return rows, ok
}

// Reader is the narrow view the cache manager needs for its fallback tier.
type Reader interface {
	Current() (Snapshot, bool)
}
