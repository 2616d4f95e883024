package audiocap

import (
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/gordonklaus/portaudio"
)

// burstDivisor divides the device's native rate to give the number of
// samples read per burst: 10ms of audio, so a burst lines up with the
// resampler's expected chunk cadence.
const burstDivisor = 100

// Capture owns one open PortAudio input stream for a single device. A
// Capture is not reusable across devices; build a new one per session.
type Capture struct {
	device     Device
	sampleRate int
	channels   int

	stream    *portaudio.Stream
	buf       []float32
	out       chan<- []float32
	capturing atomic.Bool

	mu sync.Mutex
}

// New selects deviceID (or the host default when empty) and prepares a
// Capture without opening the stream yet. Returns ErrDeviceNotFound on
// selection failure.
func New(deviceID string) (*Capture, error) {
	dev, err := FindDevice(deviceID)
	if err != nil {
		return nil, err
	}
	rate := 48000
	if len(dev.SupportedRates) > 0 {
		rate = dev.SupportedRates[len(dev.SupportedRates)-1]
		for _, r := range dev.SupportedRates {
			if r == 48000 {
				rate = 48000
				break
			}
		}
	}
	return &Capture{
		device:     dev,
		sampleRate: rate,
		channels:   1,
	}, nil
}

// Start opens and begins an input stream, pushing each burst of mono f32
// samples onto sender via a non-blocking send. A full channel drops the
// burst rather than blocking the audio callback, per the capture
// component's backpressure policy. A second Start while already capturing
// logs a warning and returns nil without rebuilding the stream.
func (c *Capture) Start(sender chan<- []float32) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.capturing.Load() {
		slog.Warn("audiocap: start called while already capturing", "device", c.device.ID)
		return nil
	}

	if err := portaudio.Initialize(); err != nil {
		return fmt.Errorf("audiocap: initialize host api: %w", err)
	}

	burstLen := c.sampleRate / burstDivisor
	c.buf = make([]float32, burstLen)
	c.out = sender

	info, err := findDeviceInfo(c.device.ID)
	if err != nil {
		portaudio.Terminate()
		return err
	}

	params := portaudio.StreamParameters{
		Input: portaudio.StreamDeviceParameters{
			Device:   info,
			Channels: c.channels,
			Latency:  info.DefaultLowInputLatency,
		},
		SampleRate:      float64(c.sampleRate),
		FramesPerBuffer: burstLen,
	}

	stream, err := portaudio.OpenStream(params, c.buf)
	if err != nil {
		portaudio.Terminate()
		return fmt.Errorf("%s: %w", err.Error(), ErrStreamBuildFailed)
	}
	c.stream = stream

	if err := stream.Start(); err != nil {
		stream.Close()
		portaudio.Terminate()
		return fmt.Errorf("%s: %w", err.Error(), ErrStreamBuildFailed)
	}

	c.capturing.Store(true)
	go c.readLoop()
	return nil
}

// readLoop blocks on Read in a dedicated goroutine (never on the PortAudio
// callback thread, which must not touch the Go runtime) and forwards
// copies of each filled burst buffer.
func (c *Capture) readLoop() {
	for c.capturing.Load() {
		if err := c.stream.Read(); err != nil {
			if c.capturing.Load() {
				slog.Warn("audiocap: stream read error", "device", c.device.ID, "err", err)
			}
			return
		}

		burst := make([]float32, len(c.buf))
		copy(burst, c.buf)

		select {
		case c.out <- burst:
		default:
			// Consumer too slow: drop this burst. Intended under load, not a
			// bug — the audio thread must never block.
		}
	}
}

// Stop halts and releases the stream. Idempotent.
func (c *Capture) Stop() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.capturing.CompareAndSwap(true, false) {
		return nil
	}

	var err error
	if c.stream != nil {
		if serr := c.stream.Stop(); serr != nil {
			err = fmt.Errorf("%s: %w", serr.Error(), ErrStreamError)
		}
		c.stream.Close()
		c.stream = nil
	}
	portaudio.Terminate()
	return err
}

// Close is an alias for Stop, matching the teacher's Drop-equivalent idiom.
func (c *Capture) Close() { _ = c.Stop() }

// IsCapturing reports whether the stream is currently running.
func (c *Capture) IsCapturing() bool { return c.capturing.Load() }

// SampleRate returns the device's native capture rate.
func (c *Capture) SampleRate() int { return c.sampleRate }

// Channels returns the number of channels captured (always 1: mono).
func (c *Capture) Channels() int { return c.channels }

// Device returns the resolved device descriptor.
func (c *Capture) Device() Device { return c.device }

func findDeviceInfo(id string) (*portaudio.DeviceInfo, error) {
	if id == "" || id == "default" {
		info, err := portaudio.DefaultInputDevice()
		if err != nil || info == nil {
			return nil, fmt.Errorf("audiocap: no default input device: %w", ErrDeviceNotFound)
		}
		return info, nil
	}
	infos, err := portaudio.Devices()
	if err != nil {
		return nil, fmt.Errorf("audiocap: list devices: %w", err)
	}
	for _, info := range infos {
		if info != nil && deviceID(info) == id {
			return info, nil
		}
	}
	return nil, fmt.Errorf("%s %q: %w", "audiocap: no device with id", id, ErrInvalidDeviceName)
}
