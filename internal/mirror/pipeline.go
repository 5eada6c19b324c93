// Package mirror keeps a local copy of remote binary assets. The sync is
// one-way and presence-based: no hashes, sizes or modification times are
// compared, so an asset is downloaded once and never re-fetched unless its
// local copy is removed. That is a deliberate bandwidth trade-off.
package mirror

import (
	"context"
	"io"
	"sync/atomic"

	"github.com/atelierhub/sheetmirror/internal/logger"
	"github.com/atelierhub/sheetmirror/internal/models"
	"github.com/atelierhub/sheetmirror/internal/utils"
	"golang.org/x/sync/errgroup"
)

// AssetFetcher is the slice of the remote source the pipeline needs.
type AssetFetcher interface {
	FetchAsset(ctx context.Context, id string) (io.ReadCloser, error)
}

type Pipeline struct {
	src         AssetFetcher
	store       LocalStore
	concurrency int
}

func NewPipeline(src AssetFetcher, store LocalStore, concurrency int) *Pipeline {
	if concurrency < 1 {
		concurrency = 1
	}
	return &Pipeline{src: src, store: store, concurrency: concurrency}
}

type Result struct {
	Downloaded int
	Failed     int
	Skipped    int
}

// task is one transfer selected for this cycle; it lives only until the
// transfer succeeds or fails.
type task struct {
	remoteID  string
	localName string
}

// Mirror downloads every desired asset that is not already present. Tasks
// run in batches of the configured concurrency; batches are strictly
// sequential, transfers within a batch are unordered. A failed transfer is
// counted, cleaned up and left for the next cycle to re-select. There is
// no retry here on purpose.
func (p *Pipeline) Mirror(ctx context.Context, desired []models.AssetRecord) (Result, error) {
	present, err := p.store.List()
	if err != nil {
		return Result{}, err
	}

	var res Result
	queue := make([]task, 0, len(desired))
	queued := make(map[string]struct{}, len(desired))
	for _, a := range desired {
		if _, ok := present[a.Filename]; ok {
			res.Skipped++
			continue
		}
		// Students sharing one image must not race on the same file.
		if _, ok := queued[a.Filename]; ok {
			continue
		}
		queued[a.Filename] = struct{}{}
		queue = append(queue, task{remoteID: a.ID, localName: a.Filename})
	}

	var downloaded, failed atomic.Int64
	for _, batch := range chunkTasks(queue, p.concurrency) {
		var g errgroup.Group
		for _, tk := range batch {
			tk := tk
			g.Go(func() error {
				if err := p.transfer(ctx, tk); err != nil {
					logger.Warn("mirror: asset %s failed: %v", tk.remoteID, err)
					failed.Add(1)
					return nil // per-asset failures never abort the batch
				}
				downloaded.Add(1)
				return nil
			})
		}
		_ = g.Wait()
	}

	res.Downloaded = int(downloaded.Load())
	res.Failed = int(failed.Load())
	logger.Debug("mirror: %d downloaded, %d failed, %d already present",
		res.Downloaded, res.Failed, res.Skipped)
	return res, nil
}

func (p *Pipeline) transfer(ctx context.Context, tk task) error {
	rc, err := p.src.FetchAsset(ctx, tk.remoteID)
	if err != nil {
		return err
	}
	defer utils.Try(rc.Close)

	w, err := p.store.Create(tk.localName)
	if err != nil {
		return err
	}

	if _, err := io.Copy(w, rc); err != nil {
		_ = w.Close()
		_ = p.store.Remove(tk.localName)
		return err
	}
	if err := w.Close(); err != nil {
		_ = p.store.Remove(tk.localName)
		return err
	}
	return p.store.Commit(tk.localName)
}

func chunkTasks(items []task, size int) [][]task {
	if size <= 0 {
		size = 1
	}
	chunks := make([][]task, 0, (len(items)+size-1)/size)
	for i := 0; i < len(items); i += size {
		end := i + size
		if end > len(items) {
			end = len(items)
		}
		chunks = append(chunks, items[i:end])
	}
	return chunks
}
