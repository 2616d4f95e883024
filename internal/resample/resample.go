// Package resample converts mono float32 audio between sample rates using a
// windowed-sinc interpolation filter, the same family of resampler the
// capture pipeline needs to bring arbitrary device rates down to the fixed
// wire rate the transcription socket expects.
package resample

import (
	"errors"
	"fmt"
	"math"
)

const (
	// SincLength is the total number of taps in the interpolation filter.
	SincLength = 256
	// Cutoff is the normalized filter cutoff relative to Nyquist.
	Cutoff = 0.95
	// Oversampling is the number of precomputed filter phases between
	// adjacent integer sample offsets; Process interpolates linearly
	// between the two nearest phases for a given fractional position.
	Oversampling = 256
	// MaxRatioBound is the largest input/output (or output/input) rate
	// ratio a Resampler will accept.
	MaxRatioBound = 2.0

	halfTaps = SincLength / 2
)

// ErrResampleFailed is the sentinel wrapped by every failure this package
// returns, so callers can use errors.Is regardless of the specific cause.
var ErrResampleFailed = errors.New("resample failed")

// Resampler converts a steady stream of fixed-size input chunks from
// inputRate to outputRate using a windowed-sinc filter. A Resampler holds
// carry-over filter state between calls to Process and is not safe for
// concurrent use; one goroutine owns it for the lifetime of a session.
type Resampler struct {
	inputRate  int
	outputRate int
	chunkSize  int
	ratio      float64 // input samples consumed per output sample produced
	table      [][]float64

	history []float64 // last SincLength samples of filter lookback, carried across calls
	pos     float64    // read position into history+chunk, in extended-buffer coordinates
}

// New builds a Resampler for the given input and output rates. The chunk
// size Process requires is inputRate/100 (10ms of audio). MaxRatioBound
// governs how far a later ratio adjustment may drift from this initial
// ratio (this package exposes no such adjustment today, since every caller
// builds a fixed input→output conversion for the lifetime of a session).
func New(inputRate, outputRate int) (*Resampler, error) {
	if inputRate <= 0 || outputRate <= 0 {
		return nil, fmt.Errorf("resample: rates must be positive (in=%d out=%d): %w", inputRate, outputRate, ErrResampleFailed)
	}
	ratio := float64(inputRate) / float64(outputRate)

	r := &Resampler{
		inputRate:  inputRate,
		outputRate: outputRate,
		chunkSize:  inputRate / 100,
		ratio:      ratio,
		table:      buildSincTable(Cutoff, Oversampling, SincLength),
	}
	r.Reset()
	return r, nil
}

// ChunkSize returns the exact input length Process requires.
func (r *Resampler) ChunkSize() int { return r.chunkSize }

// InputRate returns the configured input sample rate.
func (r *Resampler) InputRate() int { return r.inputRate }

// OutputRate returns the configured output sample rate.
func (r *Resampler) OutputRate() int { return r.outputRate }

// Reset flushes filter state, zeroing the lookback history and repositioning
// the read cursor at the start of fresh input.
func (r *Resampler) Reset() {
	r.history = make([]float64, SincLength)
	r.pos = float64(halfTaps)
}

// Process resamples exactly one chunk of ChunkSize input samples, returning
// the produced output (approximately chunkSize*outputRate/inputRate samples,
// varying by a few due to carried filter state). Returns ErrResampleFailed
// if chunk is not exactly ChunkSize samples long.
func (r *Resampler) Process(chunk []float32) ([]float32, error) {
	if len(chunk) != r.chunkSize {
		return nil, fmt.Errorf("resample: chunk length %d != %d: %w", len(chunk), r.chunkSize, ErrResampleFailed)
	}

	extended := make([]float64, len(r.history)+len(chunk))
	copy(extended, r.history)
	for i, s := range chunk {
		extended[len(r.history)+i] = float64(s)
	}

	var out []float32
	limit := float64(len(extended)-halfTaps) - 1
	for r.pos <= limit {
		out = append(out, float32(r.interpolate(extended, r.pos)))
		r.pos += r.ratio
	}

	copyStart := len(extended) - len(r.history)
	newHistory := make([]float64, len(r.history))
	copy(newHistory, extended[copyStart:])
	r.pos -= float64(copyStart)
	r.history = newHistory

	return out, nil
}

// ProcessBuffered appends input to buffer, drains every complete chunk in
// order through Process, and returns the concatenated output. Any partial
// tail shorter than ChunkSize is left in buffer for the next call.
func (r *Resampler) ProcessBuffered(input []float32, buffer *[]float32) ([]float32, error) {
	*buffer = append(*buffer, input...)

	var out []float32
	for len(*buffer) >= r.chunkSize {
		produced, err := r.Process((*buffer)[:r.chunkSize])
		if err != nil {
			return out, err
		}
		out = append(out, produced...)
		*buffer = (*buffer)[r.chunkSize:]
	}

	if len(*buffer) == 0 {
		*buffer = (*buffer)[:0]
		return out, nil
	}
	tail := make([]float32, len(*buffer))
	copy(tail, *buffer)
	*buffer = tail
	return out, nil
}

// interpolate evaluates the windowed-sinc filter centered at a fractional
// position within buf, using linear interpolation between the two nearest
// precomputed filter phases.
func (r *Resampler) interpolate(buf []float64, pos float64) float64 {
	i0 := int(math.Floor(pos))
	frac := pos - float64(i0)

	phase := frac * float64(Oversampling)
	p0 := int(phase)
	pFrac := phase - float64(p0)
	p1 := p0 + 1
	if p1 > Oversampling {
		p1 = Oversampling
	}

	row0 := r.table[p0]
	row1 := r.table[p1]

	var sum float64
	for k := 0; k < SincLength; k++ {
		idx := i0 - halfTaps + 1 + k
		if idx < 0 || idx >= len(buf) {
			continue
		}
		tap := row0[k]*(1-pFrac) + row1[k]*pFrac
		sum += buf[idx] * tap
	}
	return sum
}

// buildSincTable precomputes oversampling+1 phases of a windowed-sinc
// filter, each holding `length` taps. Phase p/oversampling represents the
// filter evaluated with its center shifted by that fraction of a sample.
func buildSincTable(cutoff float64, oversampling, length int) [][]float64 {
	half := length / 2
	table := make([][]float64, oversampling+1)
	for p := 0; p <= oversampling; p++ {
		frac := float64(p) / float64(oversampling)
		row := make([]float64, length)
		for k := 0; k < length; k++ {
			x := float64(k-half) + 1 - frac
			row[k] = sinc(x*cutoff) * cutoff * blackmanHarris2(float64(k)/float64(length-1))
		}
		table[p] = row
	}
	return table
}

// sinc is the normalized sinc function, sin(pi*x)/(pi*x), defined as 1 at 0.
func sinc(x float64) float64 {
	if x == 0 {
		return 1
	}
	px := math.Pi * x
	return math.Sin(px) / px
}

// blackmanHarris2 is the four-term Blackman-Harris window, evaluated at
// u in [0, 1] across the filter length.
func blackmanHarris2(u float64) float64 {
	const (
		a0 = 0.35875
		a1 = 0.48829
		a2 = 0.14128
		a3 = 0.01168
	)
	return a0 - a1*math.Cos(2*math.Pi*u) + a2*math.Cos(4*math.Pi*u) - a3*math.Cos(6*math.Pi*u)
}
