// Package pipeline orchestrates device capture, resampling, and PCM16/base64
// framing into the steady cadence of payloads the transcription session
// feeds onto the wire.
package pipeline

import (
	"encoding/binary"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/dictate-sh/dictate/internal/audiocap"
	"github.com/dictate-sh/dictate/internal/resample"
	"github.com/dictate-sh/dictate/internal/ringbuf"
)

const (
	// OutputSampleRate is the fixed wire rate every pipeline resamples to,
	// unconditionally, regardless of device's native input rate.
	OutputSampleRate = 16000

	// FrameSamples is exactly 100ms of mono PCM16 at OutputSampleRate.
	FrameSamples = OutputSampleRate / 10

	audioChanCap = 100
)

// Config selects the capture device and optional debug behavior for a
// Pipeline.
type Config struct {
	DeviceID string

	// EnableAudioDump writes the resampled 16kHz PCM stream to a timestamped
	// WAV file under $XDG_STATE_HOME/dictate/debug on Stop.
	EnableAudioDump bool
}

// Pipeline owns one capture device and one resampler, draining bursts of
// native-rate float32 audio into exactly-1600-sample base64 frames.
type Pipeline struct {
	cfg       Config
	capture   *audiocap.Capture
	resampler *resample.Resampler
	frameBuf  *ringbuf.PcmBuffer

	mu      sync.Mutex
	running atomic.Bool
	stopCh  chan struct{}
	doneCh  chan struct{}

	debugMu  sync.Mutex
	debugPCM []byte
}

// New resolves deviceID (or the host default when empty) and builds a
// resampler from its native rate to OutputSampleRate.
func New(cfg Config) (*Pipeline, error) {
	device, err := audiocap.New(cfg.DeviceID)
	if err != nil {
		return nil, err
	}
	resampler, err := resample.New(device.SampleRate(), OutputSampleRate)
	if err != nil {
		return nil, err
	}
	return &Pipeline{
		cfg:       cfg,
		capture:   device,
		resampler: resampler,
		frameBuf:  ringbuf.NewPcmBuffer(FrameSamples),
	}, nil
}

// Start begins capture and spawns the processing loop, which feeds
// resampled, base64-encoded 100ms frames to output until Stop is called or
// the capture channel closes. A second Start while already running
// returns ErrAlreadyRunning.
func (p *Pipeline) Start(output chan<- string) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.running.Load() {
		return ErrAlreadyRunning
	}

	audioIn := make(chan []float32, audioChanCap)
	if err := p.capture.Start(audioIn); err != nil {
		return fmt.Errorf("pipeline: start capture: %w", err)
	}

	p.stopCh = make(chan struct{})
	p.doneCh = make(chan struct{})
	p.resampler.Reset()

	p.debugMu.Lock()
	p.debugPCM = nil
	p.debugMu.Unlock()

	go p.loop(audioIn, output)

	p.running.Store(true)
	return nil
}

// loop drains audioIn, resampling and framing until stopped or input
// closes. The trailing partial frame, if any, is discarded. The pipeline
// is the sole writer to output and closes it on exit, which is what
// unblocks a downstream sender task ranging over the same channel.
func (p *Pipeline) loop(audioIn <-chan []float32, output chan<- string) {
	defer close(p.doneCh)
	defer close(output)

	var resampleTail []float32
	var pcmAccum []float32

	for {
		select {
		case burst, ok := <-audioIn:
			if !ok {
				return
			}
			produced, err := p.resampler.ProcessBuffered(burst, &resampleTail)
			if err != nil {
				slog.Warn("pipeline: resample error, dropping burst", "err", err)
				continue
			}
			pcmAccum = append(pcmAccum, produced...)
			p.recordDebugSamples(produced)

			var stopped bool
			pcmAccum, stopped = drainFrames(pcmAccum, p.frameBuf, output, p.stopCh)
			if stopped {
				return
			}
		case <-p.stopCh:
			return
		}
	}
}

// drainFrames encodes and sends every complete FrameSamples-sized frame in
// pcmAccum, in order, returning the undrained remainder. It stops early
// (stopped=true) if stop fires before a send completes.
func drainFrames(pcmAccum []float32, frameBuf *ringbuf.PcmBuffer, output chan<- string, stop <-chan struct{}) ([]float32, bool) {
	for len(pcmAccum) >= FrameSamples {
		frame := pcmAccum[:FrameSamples]
		encoded := frameBuf.Process(frame)
		select {
		case output <- encoded:
		case <-stop:
			return pcmAccum, true
		}
		pcmAccum = pcmAccum[FrameSamples:]
	}
	return pcmAccum, false
}

// Stop signals the processing loop, waits for it to exit, then stops
// capture. Idempotent; a second call on an already-stopped Pipeline is a
// no-op.
func (p *Pipeline) Stop() error {
	p.mu.Lock()
	if !p.running.CompareAndSwap(true, false) {
		p.mu.Unlock()
		return nil
	}
	stopCh := p.stopCh
	doneCh := p.doneCh
	p.mu.Unlock()

	close(stopCh)
	<-doneCh

	err := p.capture.Stop()
	p.writeDebugAudio()
	return err
}

// IsRunning reports whether the pipeline is currently capturing.
func (p *Pipeline) IsRunning() bool { return p.running.Load() }

// InputSampleRate returns the capture device's native sample rate.
func (p *Pipeline) InputSampleRate() int { return p.capture.SampleRate() }

// OutputSampleRate returns the fixed wire sample rate, always 16000.
func (p *Pipeline) OutputSampleRate() int { return OutputSampleRate }

func (p *Pipeline) recordDebugSamples(samples []float32) {
	if !p.cfg.EnableAudioDump || len(samples) == 0 {
		return
	}
	pcm := ringbuf.NewPcmBuffer(len(samples))
	pcm.Process(samples)

	p.debugMu.Lock()
	p.debugPCM = append(p.debugPCM, pcm.Bytes...)
	p.debugMu.Unlock()
}

func (p *Pipeline) writeDebugAudio() {
	if !p.cfg.EnableAudioDump {
		return
	}

	p.debugMu.Lock()
	pcm := p.debugPCM
	p.debugPCM = nil
	p.debugMu.Unlock()

	if len(pcm) == 0 {
		return
	}

	file, err := createDebugFile("audio", "wav")
	if err != nil {
		slog.Warn("pipeline: unable to create debug audio dump", "err", err)
		return
	}
	defer file.Close()

	if err := writePCM16WAV(file, pcm, OutputSampleRate, 1); err != nil {
		slog.Warn("pipeline: unable to write debug audio dump", "err", err)
	}
}

// createDebugFile creates a timestamped debug artifact under
// $XDG_STATE_HOME/dictate/debug (or ~/.local/state/dictate/debug).
func createDebugFile(prefix, extension string) (*os.File, error) {
	stateDir, err := resolveStateDir()
	if err != nil {
		return nil, err
	}
	debugDir := filepath.Join(stateDir, "dictate", "debug")
	if err := os.MkdirAll(debugDir, 0o700); err != nil {
		return nil, fmt.Errorf("create debug dir: %w", err)
	}

	timestamp := time.Now().Format("20060102-150405.000")
	path := filepath.Join(debugDir, fmt.Sprintf("%s-%s.%s", prefix, timestamp, extension))
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o600)
	if err != nil {
		return nil, fmt.Errorf("open debug file %q: %w", path, err)
	}
	return file, nil
}

func resolveStateDir() (string, error) {
	if xdg := strings.TrimSpace(os.Getenv("XDG_STATE_HOME")); xdg != "" {
		return xdg, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home directory for state: %w", err)
	}
	return filepath.Join(home, ".local", "state"), nil
}

// writePCM16WAV writes raw little-endian PCM16 bytes with a minimal WAV
// header.
func writePCM16WAV(file *os.File, pcm []byte, sampleRate, channels int) error {
	if channels <= 0 {
		channels = 1
	}
	const bitsPerSample = 16
	byteRate := sampleRate * channels * (bitsPerSample / 8)
	blockAlign := channels * (bitsPerSample / 8)

	header := make([]byte, 44)
	copy(header[0:4], []byte("RIFF"))
	binary.LittleEndian.PutUint32(header[4:8], uint32(36+len(pcm)))
	copy(header[8:12], []byte("WAVE"))
	copy(header[12:16], []byte("fmt "))
	binary.LittleEndian.PutUint32(header[16:20], 16)
	binary.LittleEndian.PutUint16(header[20:22], 1)
	binary.LittleEndian.PutUint16(header[22:24], uint16(channels))
	binary.LittleEndian.PutUint32(header[24:28], uint32(sampleRate))
	binary.LittleEndian.PutUint32(header[28:32], uint32(byteRate))
	binary.LittleEndian.PutUint16(header[32:34], uint16(blockAlign))
	binary.LittleEndian.PutUint16(header[34:36], bitsPerSample)
	copy(header[36:40], []byte("data"))
	binary.LittleEndian.PutUint32(header[40:44], uint32(len(pcm)))

	if _, err := file.Write(header); err != nil {
		return err
	}
	_, err := file.Write(pcm)
	return err
}
