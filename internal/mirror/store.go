package mirror

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

const partialSuffix = ".partial"

// LocalStore abstracts the asset directory. Transfers write to a partial
// name and only become visible to List after Commit, so a presence check
// never mistakes an interrupted download for a complete asset.
type LocalStore interface {
	List() (map[string]struct{}, error)
	Create(name string) (io.WriteCloser, error)
	Commit(name string) error
	Remove(name string) error
}

// FSStore keeps mirrored assets as plain files in one directory.
type FSStore struct {
	dir string
}

func NewFSStore(dir string) (*FSStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("mkdir %s: %w", dir, err)
	}
	return &FSStore{dir: dir}, nil
}

// List returns the filenames already mirrored. Leftover partial files from
// a crashed transfer are not counted as present.
func (s *FSStore) List() (map[string]struct{}, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", s.dir, err)
	}

	present := make(map[string]struct{}, len(entries))
	for _, e := range entries {
		if e.IsDir() || strings.HasSuffix(e.Name(), partialSuffix) {
			continue
		}
		present[e.Name()] = struct{}{}
	}
	return present, nil
}

func (s *FSStore) Create(name string) (io.WriteCloser, error) {
	f, err := os.OpenFile(s.partialPath(name), os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", name, err)
	}
	return f, nil
}

func (s *FSStore) Commit(name string) error {
	if err := os.Rename(s.partialPath(name), filepath.Join(s.dir, name)); err != nil {
		return fmt.Errorf("commit %s: %w", name, err)
	}
	return nil
}

func (s *FSStore) Remove(name string) error {
	if err := os.Remove(s.partialPath(name)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove %s: %w", name, err)
	}
	return nil
}

func (s *FSStore) partialPath(name string) string {
	return filepath.Join(s.dir, name+partialSuffix)
}
