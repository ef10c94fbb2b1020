// Package registry is the thin read/write wrapper over the workers
// heartbeat table shared by internal/queue (status.active_workers)
// and internal/worker (heartbeating), so the two don't duplicate
// heartbeat SQL. Grounded on the teacher's worker-status file
// (_examples/Pranav1703-FlamAssignment/cmd/list.go's WorkerStatus
// read), generalized from a single JSON file to the store's workers
// table per spec.md's Worker Registry component.
package registry

import "queuectl/internal/store"

// Registry reports and records worker liveness.
type Registry struct {
	store *store.Store
}

// New builds a Registry over store.
func New(s *store.Store) *Registry {
	return &Registry{store: s}
}

// Heartbeat records that id (running as OS process pid) is alive now.
func (r *Registry) Heartbeat(id string, pid int) error {
	return r.store.Heartbeat(id, pid)
}

// ActiveCount returns how many workers have heartbeated within the
// last 10 seconds.
func (r *Registry) ActiveCount() (int, error) {
	return r.store.ActiveWorkerCount()
}
