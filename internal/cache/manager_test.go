package cache

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/atelierhub/sheetmirror/internal/logger"
	"github.com/atelierhub/sheetmirror/internal/remote"
	"github.com/atelierhub/sheetmirror/internal/snapshot"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	logger.UseTestMode()
	m.Run()
}

type stubSnaps struct {
	snap snapshot.Snapshot
	ok   bool
}

func (s stubSnaps) Current() (snapshot.Snapshot, bool) { return s.snap, s.ok }

// names keeps the test datasets simple: one column, one string per row.
func namesTransform(rows [][]string) (any, error) {
	out := make([]string, 0, len(rows))
	for _, row := range rows {
		if len(row) > 0 {
			out = append(out, row[0])
		}
	}
	return out, nil
}

func testDatasets() []Dataset {
	return []Dataset{
		{Key: "students", Table: "students", Transform: namesTransform},
		{Key: "bookings", Table: "bookings", Transform: namesTransform},
	}
}

func newManager(src TableFetcher, snaps snapshot.Reader) *Manager {
	return NewManager(src, snaps, 5*time.Minute, testDatasets())
}

func TestRead_FreshSlotSkipsRemoteCall(t *testing.T) {
	src := remote.NewMockSource()
	src.Tables["students"] = [][]string{{"Alice"}, {"Bob"}}
	mgr := newManager(src, stubSnaps{})
	ctx := context.Background()

	v1, err := mgr.Read(ctx, "students", false)
	require.NoError(t, err)
	v2, err := mgr.Read(ctx, "students", false)
	require.NoError(t, err)

	assert.Equal(t, []string{"Alice", "Bob"}, v1)
	assert.Equal(t, v1, v2)
	assert.Equal(t, 1, src.TableCalls("students"), "fresh read must not hit the source")
}

func TestRead_ExpiredSlotRefetches(t *testing.T) {
	src := remote.NewMockSource()
	src.Tables["students"] = [][]string{{"Alice"}}
	mgr := newManager(src, stubSnaps{})
	ctx := context.Background()

	_, err := mgr.Read(ctx, "students", false)
	require.NoError(t, err)

	src.Tables["students"] = [][]string{{"Alice"}, {"Bob"}}
	mgr.now = func() time.Time { return time.Now().Add(10 * time.Minute) }

	v, err := mgr.Read(ctx, "students", false)
	require.NoError(t, err)
	assert.Equal(t, []string{"Alice", "Bob"}, v)
	assert.Equal(t, 2, src.TableCalls("students"))
}

func TestRead_StaleSlotBeatsSnapshot(t *testing.T) {
	src := remote.NewMockSource()
	src.Tables["students"] = [][]string{{"Alice"}, {"Bob"}}

	snaps := stubSnaps{
		snap: snapshot.Snapshot{
			CapturedAt: time.Now().Add(-24 * time.Hour),
			Tables:     map[string][][]string{"students": {{"Alice"}}},
		},
		ok: true,
	}
	mgr := newManager(src, snaps)
	ctx := context.Background()

	_, err := mgr.Read(ctx, "students", false)
	require.NoError(t, err)

	// Slot is now 10 minutes old (TTL 5m) and the source is down.
	mgr.now = func() time.Time { return time.Now().Add(10 * time.Minute) }
	src.FailTable("students")

	v, err := mgr.Read(ctx, "students", false)
	require.NoError(t, err)
	assert.Equal(t, []string{"Alice", "Bob"}, v, "stale slot wins over older snapshot")
}

func TestRead_ColdStartFallsBackToSnapshot(t *testing.T) {
	src := remote.NewMockSource()
	src.FailTable("students")

	snaps := stubSnaps{
		snap: snapshot.Snapshot{Tables: map[string][][]string{"students": {{"Alice"}}}},
		ok:   true,
	}
	mgr := newManager(src, snaps)

	v, err := mgr.Read(context.Background(), "students", false)
	require.NoError(t, err)
	assert.Equal(t, []string{"Alice"}, v)
}

func TestRead_AllTiersExhausted(t *testing.T) {
	src := remote.NewMockSource()
	src.FailTable("students")
	mgr := newManager(src, stubSnaps{})

	_, err := mgr.Read(context.Background(), "students", false)
	require.Error(t, err)

	var unavailable *DataUnavailableError
	require.True(t, errors.As(err, &unavailable))
	assert.Equal(t, "students", unavailable.Key)
}

func TestRead_NotSticky(t *testing.T) {
	src := remote.NewMockSource()
	src.FailTable("students")
	mgr := newManager(src, stubSnaps{})
	ctx := context.Background()

	_, err := mgr.Read(ctx, "students", false)
	require.Error(t, err)

	src.RestoreTable("students")
	src.Tables["students"] = [][]string{{"Alice"}}

	v, err := mgr.Read(ctx, "students", false)
	require.NoError(t, err)
	assert.Equal(t, []string{"Alice"}, v)
}

func TestRead_ForceRefreshBypassesFreshSlot(t *testing.T) {
	src := remote.NewMockSource()
	src.Tables["students"] = [][]string{{"Alice"}}
	mgr := newManager(src, stubSnaps{})
	ctx := context.Background()

	_, err := mgr.Read(ctx, "students", false)
	require.NoError(t, err)

	src.Tables["students"] = [][]string{{"Alice"}, {"Bob"}}
	v, err := mgr.Read(ctx, "students", true)
	require.NoError(t, err)
	assert.Equal(t, []string{"Alice", "Bob"}, v)
	assert.Equal(t, 2, src.TableCalls("students"))
}

func TestRead_ForceRefreshStillDegrades(t *testing.T) {
	src := remote.NewMockSource()
	src.Tables["students"] = [][]string{{"Alice"}}
	mgr := newManager(src, stubSnaps{})
	ctx := context.Background()

	_, err := mgr.Read(ctx, "students", false)
	require.NoError(t, err)

	src.FailTable("students")
	v, err := mgr.Read(ctx, "students", true)
	require.NoError(t, err, "a forced refresh must never be less available than a normal read")
	assert.Equal(t, []string{"Alice"}, v)
}

func TestRead_MalformedRowsDegrade(t *testing.T) {
	src := remote.NewMockSource()
	src.Tables["students"] = [][]string{{"whatever"}}

	bad := []Dataset{{
		Key:   "students",
		Table: "students",
		Transform: func(rows [][]string) (any, error) {
			return nil, errors.New("unexpected column count")
		},
	}}
	snaps := stubSnaps{} // nothing to fall back to
	mgr := NewManager(src, snaps, time.Minute, bad)

	_, err := mgr.Read(context.Background(), "students", false)
	var unavailable *DataUnavailableError
	assert.True(t, errors.As(err, &unavailable), "malformed response behaves like an outage")
}

func TestRead_UnknownDataset(t *testing.T) {
	mgr := newManager(remote.NewMockSource(), stubSnaps{})
	_, err := mgr.Read(context.Background(), "nope", false)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown dataset")
}

func TestInvalidate_ForcesLiveFetch(t *testing.T) {
	src := remote.NewMockSource()
	src.Tables["bookings"] = [][]string{{"b1"}}
	mgr := newManager(src, stubSnaps{})
	ctx := context.Background()

	_, err := mgr.Read(ctx, "bookings", false)
	require.NoError(t, err)

	mgr.Invalidate("bookings")

	src.Tables["bookings"] = [][]string{{"b1"}, {"b2"}}
	v, err := mgr.Read(ctx, "bookings", false)
	require.NoError(t, err)
	assert.Equal(t, []string{"b1", "b2"}, v)
	assert.Equal(t, 2, src.TableCalls("bookings"), "exactly one live fetch after invalidation")
}

func TestInvalidate_NeverResurrectsEvictedValue(t *testing.T) {
	src := remote.NewMockSource()
	src.Tables["students"] = [][]string{{"Alice"}, {"Bob"}}

	snaps := stubSnaps{
		snap: snapshot.Snapshot{Tables: map[string][][]string{"students": {{"Alice"}}}},
		ok:   true,
	}
	mgr := newManager(src, snaps)
	ctx := context.Background()

	_, err := mgr.Read(ctx, "students", false)
	require.NoError(t, err)

	mgr.Invalidate("students")
	src.FailTable("students")

	v, err := mgr.Read(ctx, "students", false)
	require.NoError(t, err)
	assert.Equal(t, []string{"Alice"}, v, "evicted slot degrades to the snapshot, not the old value")
}

func TestRead_SingleFlight(t *testing.T) {
	src := remote.NewMockSource()
	src.Tables["students"] = [][]string{{"Alice"}}
	src.FetchHook = func(string) { time.Sleep(100 * time.Millisecond) } // slow source

	mgr := newManager(src, stubSnaps{})
	ctx := context.Background()

	const readers = 20
	results := make([]any, readers)
	var wg sync.WaitGroup
	for i := 0; i < readers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			v, err := mgr.Read(ctx, "students", false)
			assert.NoError(t, err)
			results[i] = v
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 1, src.TableCalls("students"), "concurrent readers must share one fetch")
	for _, v := range results {
		assert.Equal(t, []string{"Alice"}, v)
	}
}

func TestStats(t *testing.T) {
	src := remote.NewMockSource()
	src.Tables["students"] = [][]string{{"Alice"}, {"Bob"}}
	mgr := newManager(src, stubSnaps{})

	_, err := mgr.Read(context.Background(), "students", false)
	require.NoError(t, err)

	stats := mgr.Stats()
	require.Len(t, stats, 2)
	assert.Equal(t, "bookings", stats[0].Key)
	assert.False(t, stats[0].Fresh, "never-read dataset is not fresh")

	assert.Equal(t, "students", stats[1].Key)
	assert.True(t, stats[1].Fresh)
	assert.Equal(t, 2, stats[1].Rows)
	assert.False(t, stats[1].FetchedAt.IsZero())
}
