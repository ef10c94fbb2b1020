package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"queuectl/internal/clock"
)

func TestActiveWorkerCount(t *testing.T) {
	s := newTestStore(t)

	count, err := s.ActiveWorkerCount()
	require.NoError(t, err)
	assert.Equal(t, 0, count)

	require.NoError(t, s.Heartbeat("worker_a", 100))
	count, err = s.ActiveWorkerCount()
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestHeartbeatPreservesStartedAt(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, s.Heartbeat("worker_a", 100))

	var startedAt string
	require.NoError(t, s.db.QueryRow(`SELECT started_at FROM workers WHERE id = ?`, "worker_a").Scan(&startedAt))

	require.NoError(t, s.Heartbeat("worker_a", 100))
	var startedAtAgain string
	require.NoError(t, s.db.QueryRow(`SELECT started_at FROM workers WHERE id = ?`, "worker_a").Scan(&startedAtAgain))

	assert.Equal(t, startedAt, startedAtAgain)
}

func TestStaleHeartbeatIsNotActive(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, s.Heartbeat("worker_a", 100))

	stale, err := clock.AddSeconds(clock.Now(), -30)
	require.NoError(t, err)
	_, err = s.db.Exec(`UPDATE workers SET heartbeat_at = ? WHERE id = ?`, stale, "worker_a")
	require.NoError(t, err)

	count, err := s.ActiveWorkerCount()
	require.NoError(t, err)
	assert.Equal(t, 0, count)
}
