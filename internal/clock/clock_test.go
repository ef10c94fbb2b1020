package clock

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsDue(t *testing.T) {
	now := Now()
	assert.True(t, IsDue(nil, now), "nil run_at is always due")

	future, err := AddSeconds(now, 60)
	require.NoError(t, err)
	assert.False(t, IsDue(&future, now))

	past, err := AddSeconds(now, -60)
	require.NoError(t, err)
	assert.True(t, IsDue(&past, now))
}

func TestBackoffIsExponential(t *testing.T) {
	assert.Equal(t, 1.0, Backoff(2, 0))
	assert.Equal(t, 2.0, Backoff(2, 1))
	assert.Equal(t, 4.0, Backoff(2, 2))
	assert.Equal(t, 8.0, Backoff(2, 3))
}

func TestFormatParseRoundTrip(t *testing.T) {
	s := Now()
	parsed, err := Parse(s)
	require.NoError(t, err)
	assert.Equal(t, s, Format(parsed))
}

func TestTimestampsAreLexicallyMonotonic(t *testing.T) {
	now := Now()
	later, err := AddSeconds(now, 1)
	require.NoError(t, err)
	assert.Less(t, now, later)
}

func TestZeroFractionTimestampsStayLexicallyMonotonic(t *testing.T) {
	base := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	zeroFraction := Format(base)
	assert.Contains(t, zeroFraction, ".000000000Z", "zero nanoseconds must still be zero-padded, not omitted")

	oneNanoLater := Format(base.Add(1))
	assert.Less(t, zeroFraction, oneNanoLater)
}
