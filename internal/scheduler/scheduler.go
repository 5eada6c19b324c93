// Package scheduler drives the background cycle: capture a fresh snapshot
// of every table, then mirror the assets the new snapshot references.
package scheduler

import (
	"context"
	"errors"
	"time"

	"github.com/atelierhub/sheetmirror/internal/datasets"
	"github.com/atelierhub/sheetmirror/internal/logger"
	"github.com/atelierhub/sheetmirror/internal/mirror"
	"github.com/atelierhub/sheetmirror/internal/models"
	"github.com/atelierhub/sheetmirror/internal/snapshot"
)

type Runner struct {
	engine   *snapshot.Engine
	pipeline *mirror.Pipeline
	snaps    snapshot.Reader
}

func New(engine *snapshot.Engine, pipeline *mirror.Pipeline, snaps snapshot.Reader) *Runner {
	return &Runner{engine: engine, pipeline: pipeline, snaps: snaps}
}

// Cycle runs one sync followed by one mirror pass. A snapshot persist
// failure is reported but does not stop the mirror: the hot snapshot is
// current either way.
func (r *Runner) Cycle(ctx context.Context) (snapshot.Result, mirror.Result, error) {
	syncRes, syncErr := r.engine.SyncAll(ctx)
	if syncErr != nil && !errors.Is(syncErr, snapshot.ErrPersist) {
		return syncRes, mirror.Result{}, syncErr
	}
	if syncErr != nil {
		logger.Warn("cycle: %v", syncErr)
	}

	mirrorRes, err := r.pipeline.Mirror(ctx, r.desiredAssets())
	if err != nil {
		return syncRes, mirrorRes, err
	}
	return syncRes, mirrorRes, syncErr
}

// Run executes a cycle immediately and then on every tick until ctx is
// done. Cycle errors are logged, never fatal: the next tick retries.
func (r *Runner) Run(ctx context.Context, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	r.runOnce(ctx)
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			r.runOnce(ctx)
		}
	}
}

func (r *Runner) runOnce(ctx context.Context) {
	syncRes, mirrorRes, err := r.Cycle(ctx)
	if err != nil {
		logger.LogError("cycle failed: %v", err)
		return
	}
	logger.Info("cycle: %d tables synced, %d failed; %d assets downloaded, %d failed",
		len(syncRes.Succeeded), len(syncRes.Failed), mirrorRes.Downloaded, mirrorRes.Failed)
}

func (r *Runner) desiredAssets() []models.AssetRecord {
	snap, ok := r.snaps.Current()
	if !ok {
		return nil
	}
	rows, ok := snap.Rows(datasets.KeyStudents)
	if !ok {
		return nil
	}
	return datasets.DesiredAssets(datasets.ParseStudents(rows))
}
