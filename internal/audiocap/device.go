package audiocap

import (
	"fmt"
	"strings"

	"github.com/gordonklaus/portaudio"
)

// CanonicalRates is the fixed set of sample rates probed against every
// input device to populate Device.SupportedRates.
var CanonicalRates = []int{8000, 16000, 22050, 32000, 44100, 48000, 96000}

// Device describes one host input device.
type Device struct {
	ID             string
	Name           string
	Default        bool
	Channels       int
	SupportedRates []int
}

// ListDevices enumerates host input devices, probing each against
// CanonicalRates to report which rates the device can actually open a
// stream at.
func ListDevices() ([]Device, error) {
	if err := portaudio.Initialize(); err != nil {
		return nil, fmt.Errorf("audiocap: initialize host api: %w", err)
	}
	defer portaudio.Terminate()

	infos, err := portaudio.Devices()
	if err != nil {
		return nil, fmt.Errorf("audiocap: list devices: %w", err)
	}

	var defaultID string
	if def, derr := portaudio.DefaultInputDevice(); derr == nil && def != nil {
		defaultID = deviceID(def)
	}

	devices := make([]Device, 0, len(infos))
	for _, info := range infos {
		if info == nil || info.MaxInputChannels <= 0 {
			continue
		}
		id := deviceID(info)
		devices = append(devices, Device{
			ID:             id,
			Name:           info.Name,
			Default:        id == defaultID,
			Channels:       min(info.MaxInputChannels, 1),
			SupportedRates: probeRates(info),
		})
	}
	return devices, nil
}

// FindDevice resolves a device by id, or the host default when id is empty
// or "default". Returns ErrDeviceNotFound when no match exists.
func FindDevice(id string) (Device, error) {
	if strings.TrimSpace(id) == "" || strings.EqualFold(id, "default") {
		return defaultDevice()
	}

	devices, err := ListDevices()
	if err != nil {
		return Device{}, err
	}
	for _, d := range devices {
		if d.ID == id {
			return d, nil
		}
	}
	return Device{}, fmt.Errorf("%s %q: %w", "audiocap: no device with id", id, ErrDeviceNotFound)
}

func defaultDevice() (Device, error) {
	if err := portaudio.Initialize(); err != nil {
		return Device{}, fmt.Errorf("audiocap: initialize host api: %w", err)
	}
	defer portaudio.Terminate()

	info, err := portaudio.DefaultInputDevice()
	if err != nil || info == nil {
		return Device{}, fmt.Errorf("audiocap: no default input device: %w", ErrDeviceNotFound)
	}
	return Device{
		ID:             deviceID(info),
		Name:           info.Name,
		Default:        true,
		Channels:       min(info.MaxInputChannels, 1),
		SupportedRates: probeRates(info),
	}, nil
}

// probeRates attempts to open (and immediately close) a mono input stream
// at each canonical rate, recording which ones succeed. Probing never
// starts the stream, so it has no audible side effect.
func probeRates(info *portaudio.DeviceInfo) []int {
	var supported []int
	for _, rate := range CanonicalRates {
		params := portaudio.StreamParameters{
			Input: portaudio.StreamDeviceParameters{
				Device:   info,
				Channels: 1,
				Latency:  info.DefaultLowInputLatency,
			},
			SampleRate:      float64(rate),
			FramesPerBuffer: rate / 100,
		}
		stream, err := portaudio.OpenStream(params, make([]float32, rate/100))
		if err != nil {
			continue
		}
		supported = append(supported, rate)
		stream.Close()
	}
	return supported
}

func deviceID(info *portaudio.DeviceInfo) string {
	return fmt.Sprintf("%d:%s", info.Index, info.Name)
}
