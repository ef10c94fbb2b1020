package worker

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunSuccess(t *testing.T) {
	res, err := Run(context.Background(), "exit 0")
	require.NoError(t, err)
	assert.Equal(t, 0, res.ExitCode)
}

func TestRunFailureExitCode(t *testing.T) {
	res, err := Run(context.Background(), "exit 7")
	require.Error(t, err)
	assert.Equal(t, 7, res.ExitCode)
}

func TestRunCapturesStderr(t *testing.T) {
	res, err := Run(context.Background(), "echo boom 1>&2; exit 1")
	require.Error(t, err)
	assert.Contains(t, res.Stderr, "boom")
}

func TestRunEmptyCommandIsFailure(t *testing.T) {
	_, err := Run(context.Background(), "")
	assert.Error(t, err)
}
