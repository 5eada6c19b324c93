// Package cache implements the tiered read path: live fetch, stale
// in-memory value, durable snapshot. A read only fails once all three
// tiers are exhausted.
package cache

import (
	"context"
	"fmt"
	"reflect"
	"sort"
	"sync"
	"time"

	"github.com/atelierhub/sheetmirror/internal/logger"
	"github.com/atelierhub/sheetmirror/internal/snapshot"
	"golang.org/x/sync/singleflight"
)

// DataUnavailableError is terminal for a single read: no tier had data.
// It is not sticky; a later read may succeed once the source recovers.
type DataUnavailableError struct {
	Key string
}

func (e *DataUnavailableError) Error() string {
	return fmt.Sprintf("no data available for dataset %q", e.Key)
}

// Transform converts raw positional rows into the dataset's record shape.
// The same transform runs on live rows and on snapshot rows, so the two
// tiers can never diverge in interpretation.
type Transform func(rows [][]string) (any, error)

// Dataset binds a cache key to its remote table and its row transform.
type Dataset struct {
	Key       string
	Table     string
	Transform Transform
}

// TableFetcher is the slice of the remote source the manager needs.
type TableFetcher interface {
	FetchTable(ctx context.Context, name string) ([][]string, error)
}

type slot struct {
	value     any
	rows      int
	fetchedAt time.Time // zero when the value came from a fallback read
}

// Manager owns one slot per dataset key. Slots are replaced wholesale,
// never mutated in place, and fetchedAt only advances on a live fetch.
type Manager struct {
	src      TableFetcher
	snaps    snapshot.Reader
	ttl      time.Duration
	datasets map[string]Dataset

	mu     sync.RWMutex
	slots  map[string]slot
	flight singleflight.Group
	now    func() time.Time
}

func NewManager(src TableFetcher, snaps snapshot.Reader, ttl time.Duration, datasets []Dataset) *Manager {
	byKey := make(map[string]Dataset, len(datasets))
	for _, ds := range datasets {
		byKey[ds.Key] = ds
	}
	return &Manager{
		src:      src,
		snaps:    snaps,
		ttl:      ttl,
		datasets: byKey,
		slots:    make(map[string]slot, len(datasets)),
		now:      time.Now,
	}
}

// Read returns the dataset's records, degrading through tiers when the
// source is unreachable. forceRefresh skips the freshness gate but keeps
// the full fallback chain: forcing a refresh never makes a read less
// available than a normal one.
func (m *Manager) Read(ctx context.Context, key string, forceRefresh bool) (any, error) {
	ds, ok := m.datasets[key]
	if !ok {
		return nil, fmt.Errorf("unknown dataset %q", key)
	}

	if !forceRefresh {
		if v, ok := m.freshValue(key); ok {
			return v, nil
		}
	}

	// Concurrent refreshes of one key share a single fetch and outcome.
	v, err, _ := m.flight.Do(key, func() (any, error) {
		rows, err := m.src.FetchTable(ctx, ds.Table)
		if err != nil {
			return nil, err
		}
		value, err := ds.Transform(rows)
		if err != nil {
			// Malformed rows are treated like any other source failure.
			return nil, fmt.Errorf("transform %s: %w", key, err)
		}
		m.store(key, value, m.now())
		return value, nil
	})
	if err == nil {
		return v, nil
	}
	logger.Debug("read %s: live fetch failed, degrading: %v", key, err)

	// Tier 2: stale in-memory value. Freshness is sacrificed for
	// availability; fetchedAt stays honest about the age.
	if v, ok := m.anyValue(key); ok {
		return v, nil
	}

	// Tier 3: materialize from the durable snapshot with the same transform.
	if snap, ok := m.snaps.Current(); ok {
		if rows, ok := snap.Rows(ds.Table); ok {
			value, terr := ds.Transform(rows)
			if terr == nil {
				m.store(key, value, time.Time{})
				return value, nil
			}
			logger.Warn("read %s: snapshot rows unusable: %v", key, terr)
		}
	}

	return nil, &DataUnavailableError{Key: key}
}

// Invalidate evicts the slot so the next read must attempt a live fetch.
// An invalidated slot never resurrects: a failing fetch afterwards degrades
// straight to the snapshot tier.
func (m *Manager) Invalidate(key string) {
	m.mu.Lock()
	delete(m.slots, key)
	m.mu.Unlock()
	m.flight.Forget(key)
	logger.Debug("invalidated dataset %s", key)
}

// Stat describes one slot for observability.
type Stat struct {
	Key       string
	Rows      int
	FetchedAt time.Time
	Fresh     bool
}

// Stats reports every known dataset, cached or not, sorted by key.
func (m *Manager) Stats() []Stat {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]Stat, 0, len(m.datasets))
	for key := range m.datasets {
		st := Stat{Key: key}
		if s, ok := m.slots[key]; ok {
			st.Rows = s.rows
			st.FetchedAt = s.fetchedAt
			st.Fresh = !s.fetchedAt.IsZero() && m.now().Sub(s.fetchedAt) < m.ttl
		}
		out = append(out, st)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out
}

func (m *Manager) freshValue(key string) (any, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.slots[key]
	if !ok || s.fetchedAt.IsZero() {
		return nil, false
	}
	if m.now().Sub(s.fetchedAt) >= m.ttl {
		return nil, false
	}
	return s.value, true
}

func (m *Manager) anyValue(key string) (any, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.slots[key]
	if !ok {
		return nil, false
	}
	return s.value, true
}

func (m *Manager) store(key string, value any, fetchedAt time.Time) {
	m.mu.Lock()
	m.slots[key] = slot{value: value, rows: countRows(value), fetchedAt: fetchedAt}
	m.mu.Unlock()
}

func countRows(value any) int {
	rv := reflect.ValueOf(value)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array, reflect.Map:
		return rv.Len()
	default:
		return 0
	}
}
