package remote

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"sync"
)

// MockSource is an in-memory Source for tests. Call counts are tracked per
// table so tests can assert exactly how many live fetches happened.
type MockSource struct {
	mu sync.Mutex

	Tables     map[string][][]string
	Assets     map[string][]byte
	TableErr   map[string]error
	AssetErr   map[string]error
	AppendErr  error
	Appended   map[string][][]string
	FetchHook  func(table string) // runs before each FetchTable, outside the lock
	tableCalls map[string]int
	assetCalls map[string]int
}

func NewMockSource() *MockSource {
	return &MockSource{
		Tables:     make(map[string][][]string),
		Assets:     make(map[string][]byte),
		TableErr:   make(map[string]error),
		AssetErr:   make(map[string]error),
		Appended:   make(map[string][][]string),
		tableCalls: make(map[string]int),
		assetCalls: make(map[string]int),
	}
}

func (m *MockSource) FetchTable(ctx context.Context, name string) ([][]string, error) {
	if hook := m.hook(); hook != nil {
		hook(name)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.tableCalls[name]++

	if err, ok := m.TableErr[name]; ok && err != nil {
		return nil, err
	}
	rows, ok := m.Tables[name]
	if !ok {
		return nil, fmt.Errorf("%w: unknown table %s", ErrUnavailable, name)
	}
	out := make([][]string, len(rows))
	copy(out, rows)
	return out, nil
}

func (m *MockSource) FetchAsset(ctx context.Context, id string) (io.ReadCloser, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.assetCalls[id]++

	if err, ok := m.AssetErr[id]; ok && err != nil {
		return nil, err
	}
	data, ok := m.Assets[id]
	if !ok {
		return nil, fmt.Errorf("%w: unknown asset %s", ErrUnavailable, id)
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

func (m *MockSource) AppendRow(ctx context.Context, table string, row []string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.AppendErr != nil {
		return m.AppendErr
	}
	m.Appended[table] = append(m.Appended[table], row)
	return nil
}

// FailTable makes every FetchTable for name return ErrUnavailable.
func (m *MockSource) FailTable(name string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.TableErr[name] = fmt.Errorf("%w: injected failure for %s", ErrUnavailable, name)
}

// RestoreTable clears an injected failure.
func (m *MockSource) RestoreTable(name string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.TableErr, name)
}

func (m *MockSource) TableCalls(name string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.tableCalls[name]
}

func (m *MockSource) AssetCalls(id string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.assetCalls[id]
}

func (m *MockSource) hook() func(string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.FetchHook
}
