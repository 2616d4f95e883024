package wire

import (
	"encoding/json"
	"fmt"
)

// Server message_type tag values.
const (
	TypeSessionStarted                   = "session_started"
	TypePartialTranscript                = "partial_transcript"
	TypeCommittedTranscript              = "committed_transcript"
	TypeCommittedTranscriptWithTimestamp = "committed_transcript_with_timestamps"
	TypeInputError                       = "input_error"
)

// SessionConfig describes the session_started config object.
type SessionConfig struct {
	SampleRate        int     `json:"sample_rate"`
	AudioFormat       string  `json:"audio_format"`
	LanguageCode      *string `json:"language_code,omitempty"`
	ModelID           string  `json:"model_id"`
	VadCommitStrategy *string `json:"vad_commit_strategy,omitempty"`
}

// WordTimestamp is one word or punctuation token in a timestamped commit.
type WordTimestamp struct {
	Word    string   `json:"word"`
	Start   float64  `json:"start"`
	End     float64  `json:"end"`
	Type    string   `json:"type"` // "word" or "punctuation"
	Logprob *float64 `json:"logprob,omitempty"`
}

// Duration returns the token's span, end minus start.
func (w WordTimestamp) Duration() float64 { return w.End - w.Start }

// ServerMessage is the parsed, tag-dispatched union of every server
// message_type. Exactly one of the typed fields is non-nil, matching the
// message's Type.
type ServerMessage struct {
	Type string

	SessionStarted         *SessionStartedPayload
	Partial                *PartialTranscriptPayload
	Committed              *CommittedTranscriptPayload
	CommittedWithTimestamp *CommittedTranscriptWithTimestampsPayload
	InputError             *InputErrorPayload
}

// SessionStartedPayload is the session_started message body.
type SessionStartedPayload struct {
	SessionID string         `json:"session_id"`
	Config    *SessionConfig `json:"config,omitempty"`
}

// PartialTranscriptPayload is the partial_transcript message body.
type PartialTranscriptPayload struct {
	Text string `json:"text"`
}

// CommittedTranscriptPayload is the committed_transcript message body.
type CommittedTranscriptPayload struct {
	Text string `json:"text"`
}

// CommittedTranscriptWithTimestampsPayload is the
// committed_transcript_with_timestamps message body.
type CommittedTranscriptWithTimestampsPayload struct {
	Text         string          `json:"text"`
	LanguageCode string          `json:"language_code"`
	Words        []WordTimestamp `json:"words"`
}

// InputErrorPayload is the input_error message body.
type InputErrorPayload struct {
	ErrorMessage string `json:"error_message"`
}

type envelope struct {
	MessageType string `json:"message_type"`
}

// ErrUnknownMessageType is returned by ParseServer for an unrecognized
// message_type tag.
type ErrUnknownMessageType struct {
	Type string
}

func (e *ErrUnknownMessageType) Error() string {
	return fmt.Sprintf("wire: unknown server message_type %q", e.Type)
}

// ParseServer dispatches raw JSON text on its message_type field and
// decodes the matching payload.
func ParseServer(data []byte) (ServerMessage, error) {
	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return ServerMessage{}, fmt.Errorf("wire: decode envelope: %w", err)
	}

	msg := ServerMessage{Type: env.MessageType}
	switch env.MessageType {
	case TypeSessionStarted:
		var p SessionStartedPayload
		if err := json.Unmarshal(data, &p); err != nil {
			return ServerMessage{}, fmt.Errorf("wire: decode session_started: %w", err)
		}
		msg.SessionStarted = &p
	case TypePartialTranscript:
		var p PartialTranscriptPayload
		if err := json.Unmarshal(data, &p); err != nil {
			return ServerMessage{}, fmt.Errorf("wire: decode partial_transcript: %w", err)
		}
		msg.Partial = &p
	case TypeCommittedTranscript:
		var p CommittedTranscriptPayload
		if err := json.Unmarshal(data, &p); err != nil {
			return ServerMessage{}, fmt.Errorf("wire: decode committed_transcript: %w", err)
		}
		msg.Committed = &p
	case TypeCommittedTranscriptWithTimestamp:
		var p CommittedTranscriptWithTimestampsPayload
		if err := json.Unmarshal(data, &p); err != nil {
			return ServerMessage{}, fmt.Errorf("wire: decode committed_transcript_with_timestamps: %w", err)
		}
		msg.CommittedWithTimestamp = &p
	case TypeInputError:
		var p InputErrorPayload
		if err := json.Unmarshal(data, &p); err != nil {
			return ServerMessage{}, fmt.Errorf("wire: decode input_error: %w", err)
		}
		msg.InputError = &p
	default:
		return ServerMessage{}, &ErrUnknownMessageType{Type: env.MessageType}
	}
	return msg, nil
}

// IsPartial reports whether the message is a partial_transcript.
func (m ServerMessage) IsPartial() bool { return m.Partial != nil }

// IsCommitted reports whether the message is either committed variant.
func (m ServerMessage) IsCommitted() bool {
	return m.Committed != nil || m.CommittedWithTimestamp != nil
}

// IsError reports whether the message is an input_error.
func (m ServerMessage) IsError() bool { return m.InputError != nil }

// Text returns the transcript text carried by a partial or committed
// message, or "" for any other message type.
func (m ServerMessage) Text() string {
	switch {
	case m.Partial != nil:
		return m.Partial.Text
	case m.Committed != nil:
		return m.Committed.Text
	case m.CommittedWithTimestamp != nil:
		return m.CommittedWithTimestamp.Text
	default:
		return ""
	}
}

// ErrorMessage returns the input_error's message, or "" for any other
// message type.
func (m ServerMessage) ErrorMessage() string {
	if m.InputError == nil {
		return ""
	}
	return m.InputError.ErrorMessage
}

// SessionID returns the session_started session id, or "" for any other
// message type.
func (m ServerMessage) SessionID() string {
	if m.SessionStarted == nil {
		return ""
	}
	return m.SessionStarted.SessionID
}
