// Package wire defines the JSON message schema exchanged with the
// speech-to-text realtime socket: the client messages this process sends
// and the server messages it receives and dispatches on message_type.
package wire

import "encoding/json"

// ClientMessage is the interface every outbound message satisfies; it
// exists purely to document intent, since each concrete type marshals
// itself through its own json tags.
type ClientMessage interface {
	clientMessage()
}

// InputAudioChunk carries one base64-encoded PCM16 frame. SampleRate is set
// only on the first chunk of a session; Commit and PreviousText are left
// nil unless the caller explicitly wants them serialized.
type InputAudioChunk struct {
	MessageType  string  `json:"message_type"`
	AudioBase64  string  `json:"audio_base_64"`
	SampleRate   *int    `json:"sample_rate,omitempty"`
	Commit       *bool   `json:"commit,omitempty"`
	PreviousText *string `json:"previous_text,omitempty"`
}

func (InputAudioChunk) clientMessage() {}

// NewInputAudioChunk builds a chunk message with only audio_base_64 set.
func NewInputAudioChunk(audioBase64 string) InputAudioChunk {
	return InputAudioChunk{MessageType: "input_audio_chunk", AudioBase64: audioBase64}
}

// WithSampleRate returns a copy of the chunk carrying sample_rate, for use
// on the first chunk of a session only.
func (c InputAudioChunk) WithSampleRate(rate int) InputAudioChunk {
	c.SampleRate = &rate
	return c
}

// WithCommit returns a copy of the chunk carrying an explicit commit flag.
func (c InputAudioChunk) WithCommit(commit bool) InputAudioChunk {
	c.Commit = &commit
	return c
}

// WithPreviousText returns a copy of the chunk carrying previous_text.
func (c InputAudioChunk) WithPreviousText(text string) InputAudioChunk {
	c.PreviousText = &text
	return c
}

// Commit signals the server to finalize the current utterance.
type Commit struct {
	MessageType string `json:"message_type"`
}

func (Commit) clientMessage() {}

// NewCommit builds a commit message.
func NewCommit() Commit { return Commit{MessageType: "commit"} }

// Close signals the client is ending the session.
type Close struct {
	MessageType string `json:"message_type"`
}

func (Close) clientMessage() {}

// NewClose builds a close message.
func NewClose() Close { return Close{MessageType: "close"} }

// MarshalClient serializes a client message to JSON text. Optional fields
// left nil are omitted from the output, never serialized as null.
func MarshalClient(msg ClientMessage) ([]byte, error) {
	return json.Marshal(msg)
}
