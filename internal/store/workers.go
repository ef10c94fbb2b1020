package store

import (
	"fmt"

	"queuectl/internal/clock"
)

// activeWindowSeconds is how recent a worker's heartbeat must be to
// count as active, per spec.md §4.2.
const activeWindowSeconds = 10

// Heartbeat upserts the workers row for id, preserving started_at on
// repeat calls and refreshing heartbeat_at to now. pid is informational.
func (s *Store) Heartbeat(id string, pid int) error {
	now := clock.Now()
	_, err := s.db.Exec(
		`INSERT INTO workers (id, pid, started_at, heartbeat_at) VALUES (?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET heartbeat_at = excluded.heartbeat_at, pid = excluded.pid`,
		id, pid, now, now,
	)
	if err != nil {
		return fmt.Errorf("heartbeat %s: %w", id, err)
	}
	return nil
}

// ActiveWorkerCount returns the number of workers whose heartbeat_at
// is within the last activeWindowSeconds.
func (s *Store) ActiveWorkerCount() (int, error) {
	now := clock.Now()
	cutoff, err := clock.AddSeconds(now, -activeWindowSeconds)
	if err != nil {
		return 0, fmt.Errorf("compute active cutoff: %w", err)
	}
	var count int
	err = s.db.QueryRow(`SELECT COUNT(*) FROM workers WHERE heartbeat_at >= ?`, cutoff).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("active worker count: %w", err)
	}
	return count, nil
}
