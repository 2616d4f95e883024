package ringbuf

import (
	"encoding/base64"
	"encoding/binary"
)

// PcmBuffer bundles the scratch buffers one frame conversion reuses across
// its lifetime: captured float samples, the clamped PCM16 view, its
// little-endian byte packing, and the base64 encoding of those bytes.
// None of these slices are safe for concurrent use; a PcmBuffer is owned by
// exactly one pipeline loop.
type PcmBuffer struct {
	Samples []float32
	PCM     []int16
	Bytes   []byte
	Base64  string
}

// NewPcmBuffer preallocates scratch storage sized for n samples per frame.
func NewPcmBuffer(n int) *PcmBuffer {
	return &PcmBuffer{
		Samples: make([]float32, 0, n),
		PCM:     make([]int16, 0, n),
		Bytes:   make([]byte, 0, n*2),
	}
}

// ConvertToPCM clamps each sample to [-1, 1], scales by 32767, and truncates
// to int16, replacing the buffer's PCM slice in place.
func (b *PcmBuffer) ConvertToPCM(samples []float32) {
	if cap(b.PCM) < len(samples) {
		b.PCM = make([]int16, len(samples))
	} else {
		b.PCM = b.PCM[:len(samples)]
	}
	for i, s := range samples {
		if s > 1 {
			s = 1
		} else if s < -1 {
			s = -1
		}
		b.PCM[i] = int16(s * 32767)
	}
}

// ConvertToBytes packs the buffer's PCM slice into little-endian bytes.
func (b *PcmBuffer) ConvertToBytes() {
	need := len(b.PCM) * 2
	if cap(b.Bytes) < need {
		b.Bytes = make([]byte, need)
	} else {
		b.Bytes = b.Bytes[:need]
	}
	for i, sample := range b.PCM {
		binary.LittleEndian.PutUint16(b.Bytes[i*2:], uint16(sample))
	}
}

// EncodeBase64 encodes the buffer's byte slice with the standard padded
// alphabet.
func (b *PcmBuffer) EncodeBase64() {
	b.Base64 = base64.StdEncoding.EncodeToString(b.Bytes)
}

// Process runs ConvertToPCM, ConvertToBytes, and EncodeBase64 in order over
// samples and returns the resulting base64 string.
func (b *PcmBuffer) Process(samples []float32) string {
	b.ConvertToPCM(samples)
	b.ConvertToBytes()
	b.EncodeBase64()
	return b.Base64
}
