package store

import (
	"database/sql"
	"encoding/json"
	"fmt"

	"queuectl/internal/clock"
	"queuectl/internal/model"
)

// ListDLQ returns DLQ entries ordered by dead_at descending.
func (s *Store) ListDLQ() ([]model.DLQEntry, error) {
	rows, err := s.db.Query(`SELECT id, job_id, payload, dead_at FROM dlq ORDER BY dead_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("list dlq: %w", err)
	}
	defer rows.Close()

	var out []model.DLQEntry
	for rows.Next() {
		var e model.DLQEntry
		if err := rows.Scan(&e.ID, &e.JobID, &e.Payload, &e.DeadAt); err != nil {
			return nil, fmt.Errorf("scan dlq row: %w", err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// RetryDLQ deletes the DLQ row dlqID and inserts a fresh pending job
// with attempts reset to 0, preserving {id, command, max_retries,
// priority}, atomically. It returns the new job's id (the original
// job_id). ErrNotFound is returned if dlqID doesn't exist.
func (s *Store) RetryDLQ(dlqID string) (string, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return "", fmt.Errorf("begin dlq retry tx: %w", err)
	}
	defer tx.Rollback()

	var payloadStr string
	var jobID string
	err = tx.QueryRow(`SELECT job_id, payload FROM dlq WHERE id = ?`, dlqID).Scan(&jobID, &payloadStr)
	if err != nil {
		if err == sql.ErrNoRows {
			return "", ErrNotFound
		}
		return "", fmt.Errorf("lookup dlq %s: %w", dlqID, err)
	}

	var payload deadLetterPayload
	if err := json.Unmarshal([]byte(payloadStr), &payload); err != nil {
		return "", fmt.Errorf("unmarshal dlq payload %s: %w", dlqID, err)
	}

	if _, err := tx.Exec(`DELETE FROM dlq WHERE id = ?`, dlqID); err != nil {
		return "", fmt.Errorf("delete dlq %s: %w", dlqID, err)
	}

	// The original job row (same id, state='dead') is still present —
	// moving to DLQ never deletes it, it only marks it dead — so a
	// plain INSERT would collide on the primary key. Upsert instead:
	// this both recreates the row if something ever deleted it and
	// resets it in place in the common case, preserving {id, command,
	// max_retries, priority} and zeroing attempts as specified.
	now := clock.Now()
	if _, err := tx.Exec(
		`INSERT INTO jobs (`+jobColumns+`) VALUES (?,?,?,?,?,?,?,?,?,?,?,?)
		 ON CONFLICT(id) DO UPDATE SET
		   command = excluded.command,
		   state = excluded.state,
		   attempts = 0,
		   max_retries = excluded.max_retries,
		   updated_at = excluded.updated_at,
		   run_at = NULL,
		   last_error = NULL,
		   priority = excluded.priority,
		   locked_by = NULL,
		   lock_until = NULL`,
		payload.ID, payload.Command, string(model.StatePending), 0, payload.MaxRetries,
		now, now, nil, nil, payload.Priority, nil, nil,
	); err != nil {
		return "", fmt.Errorf("re-enqueue %s: %w", payload.ID, err)
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("commit dlq retry %s: %w", dlqID, err)
	}
	return payload.ID, nil
}

// ErrNotFound is returned when a lookup by id finds no row.
var ErrNotFound = fmt.Errorf("not found")
