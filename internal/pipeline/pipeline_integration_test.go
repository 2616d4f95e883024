//go:build integration

package pipeline

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestPipelineStartStopIntegration(t *testing.T) {
	p, err := New(Config{})
	require.NoError(t, err)

	out := make(chan string, 32)
	require.NoError(t, p.Start(out))
	require.True(t, p.IsRunning())

	require.ErrorIs(t, p.Start(out), ErrAlreadyRunning)

	time.Sleep(300 * time.Millisecond)
	require.NoError(t, p.Stop())
	require.False(t, p.IsRunning())
	require.NoError(t, p.Stop())
}
