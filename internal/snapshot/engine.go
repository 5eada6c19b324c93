package snapshot

import (
	"context"
	"time"

	"github.com/atelierhub/sheetmirror/internal/logger"
	"github.com/atelierhub/sheetmirror/internal/remote"
)

// Engine pulls every configured table and writes one merged snapshot per
// cycle. A table that fails to fetch keeps its rows from the previous
// snapshot, so a partial blip never erases known-good data.
type Engine struct {
	src    remote.Source
	store  Store
	tables []string
}

func NewEngine(src remote.Source, store Store, tables []string) *Engine {
	return &Engine{src: src, store: store, tables: tables}
}

type Result struct {
	Succeeded []string
	Failed    []string
}

// SyncAll runs one full capture cycle. A per-table fetch failure never
// aborts the cycle; even an all-tables outage completes and re-stamps the
// carried-forward content. Only the final persist can return an error
// (wrapping ErrPersist), and by then the hot copy is already current.
func (e *Engine) SyncAll(ctx context.Context) (Result, error) {
	start := time.Now()
	prev, _ := e.store.Current()

	merged := Snapshot{
		CapturedAt: time.Now().UTC(),
		Tables:     make(map[string][][]string, len(e.tables)),
	}

	var res Result
	for _, name := range e.tables {
		rows, err := e.src.FetchTable(ctx, name)
		if err != nil {
			res.Failed = append(res.Failed, name)
			if prevRows, ok := prev.Rows(name); ok {
				merged.Tables[name] = prevRows
			}
			logger.Warn("sync: table %s failed, carrying forward previous rows: %v", name, err)
			continue
		}
		merged.Tables[name] = rows
		res.Succeeded = append(res.Succeeded, name)
	}

	if err := e.store.Write(ctx, merged); err != nil {
		return res, err
	}

	logger.Debug("sync: cycle done in %s (%d ok, %d failed)",
		time.Since(start).Truncate(time.Millisecond), len(res.Succeeded), len(res.Failed))
	return res, nil
}
