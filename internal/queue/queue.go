// Package queue implements the producer/operator-facing operations
// built on top of internal/store: enqueue, list-by-state, status,
// dlq-list, dlq-retry. It owns ID generation and default-filling;
// internal/store only persists exactly what it's handed.
package queue

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"queuectl/internal/clock"
	"queuectl/internal/model"
	"queuectl/internal/registry"
	"queuectl/internal/store"
)

// Queue is the producer/operator API over a Store.
type Queue struct {
	store    *store.Store
	registry *registry.Registry
}

// New builds a Queue over store, sharing its worker registry.
func New(s *store.Store) *Queue {
	return &Queue{store: s, registry: registry.New(s)}
}

// EnqueueInput is the caller-supplied job description. Command is the
// only required field.
type EnqueueInput struct {
	ID         string
	Command    string
	MaxRetries *int
	Priority   *int
	RunAt      *string
}

// shortID mints an id of the form prefix_<8 lowercase hex chars>,
// matching spec.md's job_<8-char-random> / worker_<8-char-random>
// convention. The randomness source is a UUIDv4, truncated.
func shortID(prefix string) string {
	return fmt.Sprintf("%s_%s", prefix, strings.ReplaceAll(uuid.NewString(), "-", "")[:8])
}

// normalizeRunAt parses a caller-supplied ISO-8601 timestamp and
// re-formats it through clock.Format, so it always ends up in the same
// fixed-width layout every internally generated clock.Now() value
// uses. Without this, a valid-but-differently-shaped input (no
// fractional seconds, "+00:00" instead of "Z") would be persisted
// verbatim and could compare incorrectly against clock.Now() in the
// claim predicate.
func normalizeRunAt(raw string) (string, error) {
	t, err := time.Parse(time.RFC3339Nano, raw)
	if err != nil {
		return "", err
	}
	return clock.Format(t), nil
}

// Enqueue validates and stores a new job, returning its id.
func (q *Queue) Enqueue(in EnqueueInput) (string, error) {
	if strings.TrimSpace(in.Command) == "" {
		return "", fmt.Errorf("enqueue: command is required")
	}

	id := in.ID
	if id == "" {
		id = shortID("job")
	}

	maxRetries := 3
	if in.MaxRetries != nil {
		maxRetries = *in.MaxRetries
	}
	priority := 0
	if in.Priority != nil {
		priority = *in.Priority
	}

	var runAt *string
	if in.RunAt != nil {
		normalized, err := normalizeRunAt(*in.RunAt)
		if err != nil {
			return "", fmt.Errorf("enqueue: invalid run_at %q: %w", *in.RunAt, err)
		}
		runAt = &normalized
	}

	now := clock.Now()
	job := model.Job{
		ID:         id,
		Command:    in.Command,
		State:      model.StatePending,
		Attempts:   0,
		MaxRetries: maxRetries,
		CreatedAt:  now,
		UpdatedAt:  now,
		RunAt:      runAt,
		Priority:   priority,
	}
	if err := q.store.CreateJob(job); err != nil {
		return "", err
	}
	return id, nil
}

// ListByState lists jobs in state s. "dead" lists the DLQ instead of
// the jobs table, per spec.md §4.2.
func (q *Queue) ListByState(s string) ([]model.Job, error) {
	if model.State(s) == model.StateDead {
		entries, err := q.store.ListDLQ()
		if err != nil {
			return nil, err
		}
		out := make([]model.Job, 0, len(entries))
		for _, e := range entries {
			out = append(out, dlqEntryAsJob(e))
		}
		return out, nil
	}
	return q.store.ListByState(model.State(s))
}

// dlqEntryAsJob renders a DLQ entry as a Job-shaped view for list
// output, decoding its payload snapshot. Unknown/corrupt payloads
// still surface the entry with just id/job_id/dead_at populated.
func dlqEntryAsJob(e model.DLQEntry) model.Job {
	j := model.Job{
		ID:        e.JobID,
		State:     model.StateDead,
		CreatedAt: e.DeadAt,
		UpdatedAt: e.DeadAt,
	}

	var payload struct {
		Command    string `json:"command"`
		MaxRetries int    `json:"max_retries"`
		Priority   int    `json:"priority"`
	}
	if err := json.Unmarshal([]byte(e.Payload), &payload); err == nil {
		j.Command = payload.Command
		j.MaxRetries = payload.MaxRetries
		j.Priority = payload.Priority
	}
	return j
}

// Status is the result of Status().
type Status struct {
	Pending       int     `json:"pending"`
	Processing    int     `json:"processing"`
	Completed     int     `json:"completed"`
	Failed        int     `json:"failed"`
	Dead          int     `json:"dead"`
	ActiveWorkers int     `json:"active_workers"`
	OldestPending *string `json:"oldest_pending"`
}

// Status summarizes queue and worker-pool state.
func (q *Queue) Status() (Status, error) {
	counts, err := q.store.StateCounts()
	if err != nil {
		return Status{}, err
	}
	active, err := q.registry.ActiveCount()
	if err != nil {
		return Status{}, err
	}
	oldest, err := q.store.OldestPendingCreatedAt()
	if err != nil {
		return Status{}, err
	}
	return Status{
		Pending:       counts[model.StatePending],
		Processing:    counts[model.StateProcessing],
		Completed:     counts[model.StateCompleted],
		Failed:        counts[model.StateFailed],
		Dead:          counts[model.StateDead],
		ActiveWorkers: active,
		OldestPending: oldest,
	}, nil
}

// DLQList returns DLQ entries ordered by dead_at descending.
func (q *Queue) DLQList() ([]model.DLQEntry, error) {
	return q.store.ListDLQ()
}

// DLQRetry re-enqueues the DLQ entry dlqID as a fresh pending job,
// returning its job id.
func (q *Queue) DLQRetry(dlqID string) (string, error) {
	return q.store.RetryDLQ(dlqID)
}
