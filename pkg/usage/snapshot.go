package usage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Persister writes ledger snapshots to durable storage. Implementations
// must fully replace any prior snapshot on each call. Persistence is
// best-effort: the ledger logs and swallows returned errors, and
// in-memory accounting never depends on a write succeeding.
type Persister interface {
	Persist(snap *Snapshot) error
}

// FilePersister writes snapshots as an indented JSON document at a
// fixed path, overwriting the previous one.
type FilePersister struct {
	path string
}

// NewFilePersister creates a persister targeting path. Parent
// directories are created on first write.
func NewFilePersister(path string) *FilePersister {
	return &FilePersister{path: path}
}

// Path returns the snapshot file path.
func (p *FilePersister) Path() string {
	return p.path
}

// Persist serializes the snapshot and replaces the file contents.
func (p *FilePersister) Persist(snap *Snapshot) error {
	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal snapshot: %w", err)
	}

	if dir := filepath.Dir(p.path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create snapshot directory: %w", err)
		}
	}

	if err := os.WriteFile(p.path, data, 0644); err != nil {
		return fmt.Errorf("write snapshot: %w", err)
	}

	return nil
}
