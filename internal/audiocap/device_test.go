package audiocap

import (
	"testing"

	"github.com/gordonklaus/portaudio"
	"github.com/stretchr/testify/require"
)

func TestDeviceIDFormatsIndexAndName(t *testing.T) {
	info := &portaudio.DeviceInfo{Index: 3, Name: "USB Microphone"}
	require.Equal(t, "3:USB Microphone", deviceID(info))
}

func TestCanonicalRatesCoversCommonDeviceRates(t *testing.T) {
	require.Contains(t, CanonicalRates, 16000)
	require.Contains(t, CanonicalRates, 48000)
	require.Len(t, CanonicalRates, 7)
}
