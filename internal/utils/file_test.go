package utils

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/atelierhub/sheetmirror/internal/logger"
)

func TestMain(m *testing.M) {
	logger.UseTestMode()
	m.Run()
}

func TestWriteFileAtomic_Roundtrip(t *testing.T) {
	dir := t.TempDir()
	final := filepath.Join(dir, "out.bin")

	if err := WriteFileAtomic(final+".tmp", final, strings.NewReader("payload")); err != nil {
		t.Fatalf("WriteFileAtomic: %v", err)
	}

	data, err := os.ReadFile(final)
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	if string(data) != "payload" {
		t.Errorf("wrong content: %q", data)
	}
	if _, err := os.Stat(final + ".tmp"); !os.IsNotExist(err) {
		t.Errorf("tmp file left behind")
	}
}

type failReader struct{}

func (failReader) Read(_ []byte) (int, error) { return 0, os.ErrClosed }

func TestWriteFileAtomic_FailureLeavesNothing(t *testing.T) {
	dir := t.TempDir()
	final := filepath.Join(dir, "out.bin")

	if err := WriteFileAtomic(final+".tmp", final, failReader{}); err == nil {
		t.Fatal("expected error")
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("readdir: %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("expected empty dir, got %d entries", len(entries))
	}
}

func TestWriteJSONAtomic(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "doc.json")

	if err := WriteJSONAtomic(path, map[string]int{"rows": 3}); err != nil {
		t.Fatalf("WriteJSONAtomic: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	if !strings.Contains(string(data), `"rows":3`) {
		t.Errorf("unexpected content: %s", data)
	}
}

func TestFileExists(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "f")

	ok, err := FileExists(path)
	if err != nil || ok {
		t.Errorf("missing file: ok=%v err=%v", ok, err)
	}

	if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	ok, err = FileExists(path)
	if err != nil || !ok {
		t.Errorf("existing file: ok=%v err=%v", ok, err)
	}

	if _, err := FileExists(dir); err == nil {
		t.Error("directory should be an error")
	}
}
