package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigDefaults(t *testing.T) {
	s := newTestStore(t)

	v, err := s.GetConfig("max_retries")
	require.NoError(t, err)
	require.NotNil(t, v)
	assert.Equal(t, "3", *v)

	v, err = s.GetConfig("backoff_base")
	require.NoError(t, err)
	require.NotNil(t, v)
	assert.Equal(t, "2", *v)

	v, err = s.GetConfig("unknown_key")
	require.NoError(t, err)
	assert.Nil(t, v)
}

func TestConfigSetOverridesDefault(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, s.SetConfig("max_retries", "5"))

	v, err := s.GetConfig("max_retries")
	require.NoError(t, err)
	require.NotNil(t, v)
	assert.Equal(t, "5", *v)
}

func TestConfigSetIsUpsert(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, s.SetConfig("max_retries", "5"))
	require.NoError(t, s.SetConfig("max_retries", "7"))

	v, err := s.GetConfig("max_retries")
	require.NoError(t, err)
	assert.Equal(t, "7", *v)
}

func TestGetConfigIntFallsBackToZero(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, s.SetConfig("weird", "not-a-number"))

	n, err := s.GetConfigInt("weird")
	require.NoError(t, err)
	assert.Equal(t, 0, n)

	n, err = s.GetConfigInt("absent")
	require.NoError(t, err)
	assert.Equal(t, 0, n)
}
