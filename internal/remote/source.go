// Package remote adapts the upstream tabular API. Everything above this
// package treats the source as opaque and unreliable: any transport, auth,
// rate-limit or malformed-response problem surfaces as ErrUnavailable.
package remote

import (
	"context"
	"errors"
	"io"
)

// ErrUnavailable is the single transient failure mode exposed to callers.
// The cache and sync layers never distinguish why the source was unreachable.
var ErrUnavailable = errors.New("remote source unavailable")

// Source is the fetch capability this system consumes. Tables come back as
// positional rows exactly as the source stores them; per-dataset meaning is
// applied later by the dataset transforms.
type Source interface {
	FetchTable(ctx context.Context, name string) ([][]string, error)
	FetchAsset(ctx context.Context, id string) (io.ReadCloser, error)
	AppendRow(ctx context.Context, table string, row []string) error
}
