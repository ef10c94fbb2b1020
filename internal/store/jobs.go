package store

import (
	"database/sql"
	"fmt"

	"queuectl/internal/clock"
	"queuectl/internal/model"
)

const jobColumns = `id, command, state, attempts, max_retries, created_at, updated_at, run_at, last_error, priority, locked_by, lock_until`

func scanJob(row interface{ Scan(...any) error }) (model.Job, error) {
	var j model.Job
	var state string
	var runAt, lastError, lockedBy, lockUntil sql.NullString
	err := row.Scan(&j.ID, &j.Command, &state, &j.Attempts, &j.MaxRetries,
		&j.CreatedAt, &j.UpdatedAt, &runAt, &lastError, &j.Priority, &lockedBy, &lockUntil)
	if err != nil {
		return model.Job{}, err
	}
	j.State = model.State(state)
	if runAt.Valid {
		j.RunAt = &runAt.String
	}
	if lastError.Valid {
		j.LastError = &lastError.String
	}
	if lockedBy.Valid {
		j.LockedBy = &lockedBy.String
	}
	if lockUntil.Valid {
		j.LockUntil = &lockUntil.String
	}
	return j, nil
}

// CreateJob inserts a fresh job row. Callers are responsible for ID
// generation and for defaulting max_retries and priority
// (internal/queue does this); Store itself fills only an empty
// created_at/updated_at (with now) and an empty state (with pending).
func (s *Store) CreateJob(j model.Job) error {
	now := clock.Now()
	if j.CreatedAt == "" {
		j.CreatedAt = now
	}
	if j.UpdatedAt == "" {
		j.UpdatedAt = now
	}
	if j.State == "" {
		j.State = model.StatePending
	}
	_, err := s.db.Exec(
		`INSERT INTO jobs (`+jobColumns+`) VALUES (?,?,?,?,?,?,?,?,?,?,?,?)`,
		j.ID, j.Command, string(j.State), j.Attempts, j.MaxRetries,
		j.CreatedAt, j.UpdatedAt, j.RunAt, j.LastError, j.Priority, j.LockedBy, j.LockUntil,
	)
	if err != nil {
		return fmt.Errorf("create job %s: %w", j.ID, err)
	}
	return nil
}

// GetJob fetches a single job by id.
func (s *Store) GetJob(id string) (*model.Job, error) {
	row := s.db.QueryRow(`SELECT `+jobColumns+` FROM jobs WHERE id = ?`, id)
	j, err := scanJob(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("get job %s: %w", id, err)
	}
	return &j, nil
}

// ListByState returns jobs in the given state ordered by created_at
// ascending. An invalid state name yields an empty slice, not an
// error, per the queue API contract.
func (s *Store) ListByState(state model.State) ([]model.Job, error) {
	if !state.Valid() {
		return nil, nil
	}
	rows, err := s.db.Query(`SELECT `+jobColumns+` FROM jobs WHERE state = ? ORDER BY created_at ASC`, string(state))
	if err != nil {
		return nil, fmt.Errorf("list jobs by state %s: %w", state, err)
	}
	defer rows.Close()

	var out []model.Job
	for rows.Next() {
		j, err := scanJob(rows)
		if err != nil {
			return nil, fmt.Errorf("scan job: %w", err)
		}
		out = append(out, j)
	}
	return out, rows.Err()
}

// StateCounts returns the number of jobs in each of the five states,
// including states with zero rows.
func (s *Store) StateCounts() (map[model.State]int, error) {
	counts := map[model.State]int{
		model.StatePending:    0,
		model.StateProcessing: 0,
		model.StateCompleted:  0,
		model.StateFailed:     0,
		model.StateDead:       0,
	}
	rows, err := s.db.Query(`SELECT state, COUNT(*) FROM jobs GROUP BY state`)
	if err != nil {
		return nil, fmt.Errorf("state counts: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var state string
		var count int
		if err := rows.Scan(&state, &count); err != nil {
			return nil, fmt.Errorf("scan state count: %w", err)
		}
		counts[model.State(state)] = count
	}
	return counts, rows.Err()
}

// OldestPendingCreatedAt returns the created_at of the oldest pending
// job, or nil if there are none.
func (s *Store) OldestPendingCreatedAt() (*string, error) {
	var createdAt string
	err := s.db.QueryRow(`SELECT created_at FROM jobs WHERE state = ? ORDER BY created_at ASC LIMIT 1`, string(model.StatePending)).Scan(&createdAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("oldest pending: %w", err)
	}
	return &createdAt, nil
}
