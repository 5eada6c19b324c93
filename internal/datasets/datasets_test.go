package datasets

import (
	"context"
	"testing"
	"time"

	"github.com/atelierhub/sheetmirror/internal/cache"
	"github.com/atelierhub/sheetmirror/internal/logger"
	"github.com/atelierhub/sheetmirror/internal/models"
	"github.com/atelierhub/sheetmirror/internal/remote"
	"github.com/atelierhub/sheetmirror/internal/snapshot"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	logger.UseTestMode()
	m.Run()
}

func TestParseStudents(t *testing.T) {
	rows := [][]string{
		{"s1", "Alice", "mon-am", "img-s1", "1"},
		{"s2", "Bob", "", "", "no"},
		{"", ""},                    // blank sheet line
		{"s3"},                      // half-filled line
		{"s4", "Chloé", "wed-pm "}, // short row, flag column absent
	}

	students := ParseStudents(rows)
	require.Len(t, students, 3)

	assert.Equal(t, models.Student{ID: "s1", Name: "Alice", Group: "mon-am", ImageRef: "img-s1", Active: true}, students[0])
	assert.False(t, students[1].Active)
	assert.True(t, students[2].Active, "absent flag column means active")
	assert.Equal(t, "wed-pm", students[2].Group)
	assert.Equal(t, 4, students[2].SortIndex, "sheet order is preserved")
}

func TestParseLogAndBookings(t *testing.T) {
	log := ParseLog([][]string{
		{"2026-08-20", "s1", "cnc", "finished base plate"},
		{"2026-08-20", ""}, // missing student id
	})
	require.Len(t, log, 1)
	assert.Equal(t, "cnc", log[0].Project)

	bookings := ParseBookings([][]string{
		{"2026-08-21", "am", "s2", "laser"},
		{"", "pm"},
	})
	require.Len(t, bookings, 1)
	assert.Equal(t, "laser", bookings[0].Machine)
}

func TestTypedAccessors_ShareTransformAcrossTiers(t *testing.T) {
	rows := [][]string{{"s1", "Alice", "", "img-s1"}}

	// Live path.
	src := remote.NewMockSource()
	src.Tables[KeyStudents] = rows
	mgr := cache.NewManager(src, stubSnaps{}, time.Minute, All())

	live, err := Students(context.Background(), mgr, false)
	require.NoError(t, err)

	// Snapshot path: same raw rows, failing source, fresh manager.
	srcDown := remote.NewMockSource()
	srcDown.FailTable(KeyStudents)
	snaps := stubSnaps{
		snap: snapshot.Snapshot{Tables: map[string][][]string{KeyStudents: rows}},
		ok:   true,
	}
	mgrDown := cache.NewManager(srcDown, snaps, time.Minute, All())

	fromSnap, err := Students(context.Background(), mgrDown, false)
	require.NoError(t, err)

	assert.Equal(t, live, fromSnap, "both tiers must materialize identical records")
}

type stubSnaps struct {
	snap snapshot.Snapshot
	ok   bool
}

func (s stubSnaps) Current() (snapshot.Snapshot, bool) { return s.snap, s.ok }

func TestDesiredAssets(t *testing.T) {
	students := []models.Student{
		{ID: "s1", ImageRef: "img-s1"},
		{ID: "s2"}, // no image
		{ID: "s3", ImageRef: "img-s3.png"},
	}

	assets := DesiredAssets(students)
	require.Len(t, assets, 2)
	assert.Equal(t, models.AssetRecord{ID: "img-s1", Filename: "img-s1.jpg"}, assets[0])
	assert.Equal(t, models.AssetRecord{ID: "img-s3.png", Filename: "img-s3.png"}, assets[1])
}
