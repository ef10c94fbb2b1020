package queue

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"queuectl/internal/model"
	"queuectl/internal/store"
)

func newTestQueue(t *testing.T) *Queue {
	t.Helper()
	dir := t.TempDir()
	s, err := store.Open(filepath.Join(dir, "queue.db"), zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return New(s)
}

func TestEnqueueRequiresCommand(t *testing.T) {
	q := newTestQueue(t)
	_, err := q.Enqueue(EnqueueInput{})
	assert.Error(t, err)
}

func TestEnqueueGeneratesID(t *testing.T) {
	q := newTestQueue(t)
	id, err := q.Enqueue(EnqueueInput{Command: "echo hi"})
	require.NoError(t, err)
	assert.Contains(t, id, "job_")
	assert.Len(t, id, len("job_")+8)
}

func TestEnqueueDefaultsMaxRetriesAndPriority(t *testing.T) {
	q := newTestQueue(t)
	id, err := q.Enqueue(EnqueueInput{ID: "t1", Command: "echo hi"})
	require.NoError(t, err)

	jobs, err := q.ListByState("pending")
	require.NoError(t, err)
	require.Len(t, jobs, 1)
	assert.Equal(t, id, jobs[0].ID)
	assert.Equal(t, 3, jobs[0].MaxRetries)
	assert.Equal(t, 0, jobs[0].Priority)
}

func TestListByStateDeadListsDLQ(t *testing.T) {
	q := newTestQueue(t)
	_, err := q.Enqueue(EnqueueInput{ID: "t1", Command: "false"})
	require.NoError(t, err)
	job, err := q.store.Claim("worker_a")
	require.NoError(t, err)
	require.NoError(t, q.store.DeadLetter(*job, "boom"))

	jobs, err := q.ListByState("dead")
	require.NoError(t, err)
	require.Len(t, jobs, 1)
	assert.Equal(t, "t1", jobs[0].ID)
	assert.Equal(t, model.StateDead, jobs[0].State)
}

func TestStatusCounts(t *testing.T) {
	q := newTestQueue(t)
	_, err := q.Enqueue(EnqueueInput{ID: "t1", Command: "echo hi"})
	require.NoError(t, err)
	_, err = q.Enqueue(EnqueueInput{ID: "t2", Command: "echo hi"})
	require.NoError(t, err)

	st, err := q.Status()
	require.NoError(t, err)
	assert.Equal(t, 2, st.Pending)
	assert.Equal(t, 0, st.ActiveWorkers)
	require.NotNil(t, st.OldestPending)
}

func TestStatusIsIdempotent(t *testing.T) {
	q := newTestQueue(t)
	_, err := q.Enqueue(EnqueueInput{ID: "t1", Command: "echo hi"})
	require.NoError(t, err)

	first, err := q.Status()
	require.NoError(t, err)
	second, err := q.Status()
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestDLQRetryRoundTrip(t *testing.T) {
	q := newTestQueue(t)
	_, err := q.Enqueue(EnqueueInput{ID: "t2", Command: "false", MaxRetries: intPtr(0)})
	require.NoError(t, err)
	job, err := q.store.Claim("worker_a")
	require.NoError(t, err)
	require.NoError(t, q.store.DeadLetter(*job, "boom"))

	newID, err := q.DLQRetry("dlq_t2")
	require.NoError(t, err)
	assert.Equal(t, "t2", newID)

	entries, err := q.DLQList()
	require.NoError(t, err)
	assert.Empty(t, entries)

	jobs, err := q.ListByState("pending")
	require.NoError(t, err)
	require.Len(t, jobs, 1)
	assert.Equal(t, "t2", jobs[0].ID)
	assert.Equal(t, 0, jobs[0].Attempts)
}

func TestEnqueueNormalizesRunAt(t *testing.T) {
	q := newTestQueue(t)
	// No fractional seconds and a numeric UTC offset instead of "Z" —
	// both valid RFC 3339, neither in the store's fixed-width layout.
	runAt := "2030-01-02T03:04:05+00:00"
	id, err := q.Enqueue(EnqueueInput{ID: "t1", Command: "echo hi", RunAt: &runAt})
	require.NoError(t, err)

	job, err := q.store.GetJob(id)
	require.NoError(t, err)
	require.NotNil(t, job.RunAt)
	assert.NotEqual(t, runAt, *job.RunAt)
	assert.Contains(t, *job.RunAt, ".000000000Z")
}

func TestEnqueueRejectsUnparsableRunAt(t *testing.T) {
	q := newTestQueue(t)
	bad := "not-a-timestamp"
	_, err := q.Enqueue(EnqueueInput{ID: "t1", Command: "echo hi", RunAt: &bad})
	assert.Error(t, err)
}

func intPtr(i int) *int { return &i }
