package transcribe

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dictate-sh/dictate/internal/events"
	"github.com/dictate-sh/dictate/internal/wire"
)

func parse(t *testing.T, raw string) wire.ServerMessage {
	t.Helper()
	msg, err := wire.ParseServer([]byte(raw))
	require.NoError(t, err)
	return msg
}

func TestMapServerMessageSessionStarted(t *testing.T) {
	msg := parse(t, `{"message_type":"session_started","session_id":"sess-1"}`)
	evt := mapServerMessage(msg)
	require.Equal(t, events.TranscriptSessionStarted, evt.Kind)
	require.Equal(t, "sess-1", evt.SessionID)
}

func TestMapServerMessagePartial(t *testing.T) {
	msg := parse(t, `{"message_type":"partial_transcript","text":"hello wor"}`)
	evt := mapServerMessage(msg)
	require.Equal(t, events.TranscriptPartial, evt.Kind)
	require.Equal(t, "hello wor", evt.Text)
}

func TestMapServerMessageCommittedPlain(t *testing.T) {
	msg := parse(t, `{"message_type":"committed_transcript","text":"hello world"}`)
	evt := mapServerMessage(msg)
	require.Equal(t, events.TranscriptCommitted, evt.Kind)
	require.Equal(t, "hello world", evt.Text)
}

func TestMapServerMessageCommittedWithTimestamps(t *testing.T) {
	msg := parse(t, `{"message_type":"committed_transcript_with_timestamps","text":"hi","language_code":"en","words":[]}`)
	evt := mapServerMessage(msg)
	require.Equal(t, events.TranscriptCommitted, evt.Kind)
	require.Equal(t, "hi", evt.Text)
}

func TestMapServerMessageInputError(t *testing.T) {
	msg := parse(t, `{"message_type":"input_error","error_message":"bad audio"}`)
	evt := mapServerMessage(msg)
	require.Equal(t, events.TranscriptError, evt.Kind)
	require.Equal(t, "bad audio", evt.Message)
}
