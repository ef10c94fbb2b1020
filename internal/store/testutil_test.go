package store

import (
	"path/filepath"
	"testing"

	"go.uber.org/zap"
)

// newTestStore opens a fresh temp-file-backed store per test. A real
// file (not :memory:) is used so tests that open a second *sql.DB
// handle on the same path — simulating a second worker process — see
// the same database, matching the pack's habit of testing against a
// real backing store rather than a mock.
func newTestStore(t *testing.T) *Store {
	t.Helper()
	dir := t.TempDir()
	s, err := Open(filepath.Join(dir, "queue.db"), zap.NewNop())
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}
