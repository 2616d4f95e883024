//go:build integration

package doctor

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dictate-sh/dictate/internal/config"
)

func TestCheckClipboardReachable(t *testing.T) {
	check := checkClipboard()
	require.True(t, check.Pass)
}

func TestCheckAudioDeviceSelectsDefault(t *testing.T) {
	check := checkAudioDevice(config.Default())
	require.True(t, check.Pass)
}
