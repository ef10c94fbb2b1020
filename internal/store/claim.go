package store

import (
	"database/sql"
	"encoding/json"
	"fmt"

	"queuectl/internal/clock"
	"queuectl/internal/model"
)

// leaseSeconds is the visibility-timeout lease duration granted at
// claim time and refreshed periodically by the worker runtime while a
// job is in flight.
const leaseSeconds = 60

// Claim atomically selects and locks the next runnable job for
// workerID, or returns (nil, nil) if none is due.
//
// Selection predicate: state in (pending, failed, processing), (run_at
// is null or run_at <= now), (lock_until is null or lock_until <= now).
// A processing row always carries a lock_until, so it only qualifies
// once its lease has expired. The last clause both reclaims abandoned
// leases and — per the Open Question
// decision in DESIGN.md — hides a failed job whose retry lock_until
// (set equal to its run_at, see Fail below) hasn't elapsed yet, even
// if its run_at has. A dead worker's lease always wins over the ideal
// retry schedule; this is the specified, intentional behavior.
//
// Order: priority DESC, created_at ASC. The single UPDATE ... WHERE id
// = (SELECT ... LIMIT 1) statement makes selection and mutation atomic
// with respect to other writers serialized by SQLite; two concurrent
// claims cannot select the same row.
func (s *Store) Claim(workerID string) (*model.Job, error) {
	now := clock.Now()
	lockUntil, err := clock.AddSeconds(now, leaseSeconds)
	if err != nil {
		return nil, fmt.Errorf("compute lock_until: %w", err)
	}

	const claimSQL = `
UPDATE jobs SET
	state = ?,
	locked_by = ?,
	lock_until = ?,
	attempts = attempts + 1,
	updated_at = ?
WHERE id = (
	SELECT id FROM jobs
	WHERE
		state IN (?, ?, ?)
		AND (run_at IS NULL OR run_at <= ?)
		AND (lock_until IS NULL OR lock_until <= ?)
	ORDER BY priority DESC, created_at ASC
	LIMIT 1
)`
	res, err := s.db.Exec(claimSQL,
		string(model.StateProcessing), workerID, lockUntil, now,
		string(model.StatePending), string(model.StateFailed), string(model.StateProcessing), now, now,
	)
	if err != nil {
		return nil, fmt.Errorf("claim: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("claim rows affected: %w", err)
	}
	if affected == 0 {
		return nil, nil
	}

	row := s.db.QueryRow(
		`SELECT `+jobColumns+` FROM jobs WHERE locked_by = ? AND state = ? ORDER BY updated_at DESC LIMIT 1`,
		workerID, string(model.StateProcessing),
	)
	j, err := scanJob(row)
	if err != nil {
		if err == sql.ErrNoRows {
			// Another writer raced us between the UPDATE and the
			// re-read (e.g. a concurrent RetryDLQ replay under
			// the same id); treat it like a miss.
			return nil, nil
		}
		return nil, fmt.Errorf("read claimed job: %w", err)
	}
	return &j, nil
}

// RefreshLock extends the lease on a job still held by workerID. It
// is guarded by locked_by so a lease already stolen by another worker
// is not accidentally extended back to life.
func (s *Store) RefreshLock(jobID, workerID string) error {
	now := clock.Now()
	lockUntil, err := clock.AddSeconds(now, leaseSeconds)
	if err != nil {
		return fmt.Errorf("compute lock_until: %w", err)
	}
	_, err = s.db.Exec(
		`UPDATE jobs SET lock_until = ? WHERE id = ? AND locked_by = ? AND state = ?`,
		lockUntil, jobID, workerID, string(model.StateProcessing),
	)
	if err != nil {
		return fmt.Errorf("refresh lock %s: %w", jobID, err)
	}
	return nil
}

// Complete marks a job as successfully finished.
func (s *Store) Complete(jobID string) error {
	now := clock.Now()
	_, err := s.db.Exec(
		`UPDATE jobs SET state = ?, locked_by = NULL, lock_until = NULL, last_error = NULL, updated_at = ? WHERE id = ?`,
		string(model.StateCompleted), now, jobID,
	)
	if err != nil {
		return fmt.Errorf("complete job %s: %w", jobID, err)
	}
	return nil
}

// Fail schedules a retry for a job that hasn't exhausted max_retries.
// lock_until is set equal to run_at (the Open Question decision in
// DESIGN.md), so the claim predicate correctly hides the job until
// its retry time even though its state is already back to 'failed'.
func (s *Store) Fail(jobID string, attemptsNow int, backoffBase float64, lastError string) error {
	now := clock.Now()
	delay := clock.Backoff(backoffBase, attemptsNow)
	runAt, err := clock.AddSeconds(now, delay)
	if err != nil {
		return fmt.Errorf("compute run_at: %w", err)
	}
	truncated := model.Truncate(lastError)
	_, err = s.db.Exec(
		`UPDATE jobs SET state = ?, locked_by = NULL, lock_until = ?, run_at = ?, last_error = ?, updated_at = ? WHERE id = ?`,
		string(model.StateFailed), runAt, runAt, truncated, now, jobID,
	)
	if err != nil {
		return fmt.Errorf("fail job %s: %w", jobID, err)
	}
	return nil
}

// deadLetterPayload is the serialized DLQ snapshot: {id, command,
// max_retries, priority}.
type deadLetterPayload struct {
	ID         string `json:"id"`
	Command    string `json:"command"`
	MaxRetries int    `json:"max_retries"`
	Priority   int    `json:"priority"`
}

// DeadLetter moves a job that exhausted its retries into the DLQ and
// marks the original row dead, atomically.
func (s *Store) DeadLetter(job model.Job, lastError string) error {
	now := clock.Now()
	payload, err := json.Marshal(deadLetterPayload{
		ID:         job.ID,
		Command:    job.Command,
		MaxRetries: job.MaxRetries,
		Priority:   job.Priority,
	})
	if err != nil {
		return fmt.Errorf("marshal dlq payload for %s: %w", job.ID, err)
	}
	truncated := model.Truncate(lastError)

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin dead-letter tx for %s: %w", job.ID, err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(
		`INSERT INTO dlq (id, job_id, payload, dead_at) VALUES (?, ?, ?, ?)`,
		"dlq_"+job.ID, job.ID, string(payload), now,
	); err != nil {
		return fmt.Errorf("insert dlq row for %s: %w", job.ID, err)
	}
	if _, err := tx.Exec(
		`UPDATE jobs SET state = ?, locked_by = NULL, lock_until = NULL, last_error = ?, updated_at = ? WHERE id = ?`,
		string(model.StateDead), truncated, now, job.ID,
	); err != nil {
		return fmt.Errorf("mark job dead %s: %w", job.ID, err)
	}
	return tx.Commit()
}
