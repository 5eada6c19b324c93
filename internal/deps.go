package internal

import (
	"github.com/atelierhub/sheetmirror/internal/cache"
	"github.com/atelierhub/sheetmirror/internal/config"
	"github.com/atelierhub/sheetmirror/internal/datasets"
	"github.com/atelierhub/sheetmirror/internal/middleware"
	"github.com/atelierhub/sheetmirror/internal/mirror"
	"github.com/atelierhub/sheetmirror/internal/remote"
	"github.com/atelierhub/sheetmirror/internal/scheduler"
	"github.com/atelierhub/sheetmirror/internal/snapshot"
	"github.com/spf13/cobra"
)

// components is the wired object graph every command works against.
// Construction order follows ownership: source, stores, then the layers
// that consume them.
type components struct {
	cfg      *config.Config
	store    *snapshot.FSStore
	assets   *mirror.FSStore
	manager  *cache.Manager
	engine   *snapshot.Engine
	pipeline *mirror.Pipeline
	runner   *scheduler.Runner
	mutator  *datasets.Mutator
}

func buildComponents(cmd *cobra.Command) (*components, error) {
	cfg, err := middleware.Get[*config.Config](cmd, middleware.CtxKeyConfig)
	if err != nil {
		return nil, err
	}

	src := remote.NewHTTPSource(cfg.Remote.BaseURL, cfg.Remote.APIKey, cfg.Remote.Timeout.Std())

	store, err := snapshot.NewFSStore(cfg.Snapshot.Path)
	if err != nil {
		return nil, err
	}
	assets, err := mirror.NewFSStore(cfg.Mirror.Dir)
	if err != nil {
		return nil, err
	}

	manager := cache.NewManager(src, store, cfg.Cache.TTL.Std(), datasets.All())
	engine := snapshot.NewEngine(src, store, cfg.Tables)
	pipeline := mirror.NewPipeline(src, assets, cfg.Mirror.Concurrency)
	coord := cache.NewCoordinator(manager, datasets.InvalidationTable)

	return &components{
		cfg:      cfg,
		store:    store,
		assets:   assets,
		manager:  manager,
		engine:   engine,
		pipeline: pipeline,
		runner:   scheduler.New(engine, pipeline, store),
		mutator:  datasets.NewMutator(src, coord),
	}, nil
}
