package transcribe

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/coder/websocket"
	"github.com/stretchr/testify/require"

	"github.com/dictate-sh/dictate/internal/transport"
)

func dialTestConnection(t *testing.T, handler http.HandlerFunc) (*transport.Connection, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	base := "ws://" + srv.URL[len("http://"):]
	restore := transport.OverrideBaseURLForTesting(base)
	t.Cleanup(restore)

	conn, err := transport.Connect(context.Background(), "test-key", transport.Config{SampleRate: 16000})
	require.NoError(t, err)
	return conn, srv
}

func TestSenderTaskStampsSampleRateOnFirstChunkOnly(t *testing.T) {
	received := make(chan string, 4)

	conn, _ := dialTestConnection(t, func(w http.ResponseWriter, r *http.Request) {
		c, err := websocket.Accept(w, r, nil)
		require.NoError(t, err)
		defer c.Close(websocket.StatusNormalClosure, "")

		for i := 0; i < 2; i++ {
			_, data, err := c.Read(r.Context())
			if err != nil {
				return
			}
			received <- string(data)
		}
	})

	reader, writer := conn.Split()
	_ = reader

	audioTx := make(chan string, 4)
	audioTx <- "chunk-one"
	audioTx <- "chunk-two"
	close(audioTx)

	err := senderTask(context.Background(), conn, writer, audioTx)
	require.NoError(t, err)

	first := <-received
	second := <-received

	var firstPayload map[string]any
	require.NoError(t, json.Unmarshal([]byte(first), &firstPayload))
	require.Equal(t, float64(16000), firstPayload["sample_rate"])

	var secondPayload map[string]any
	require.NoError(t, json.Unmarshal([]byte(second), &secondPayload))
	require.NotContains(t, secondPayload, "sample_rate")
}

func TestSenderTaskExitsWhenAudioChannelCloses(t *testing.T) {
	conn, _ := dialTestConnection(t, func(w http.ResponseWriter, r *http.Request) {
		c, err := websocket.Accept(w, r, nil)
		require.NoError(t, err)
		defer c.Close(websocket.StatusNormalClosure, "")
		time.Sleep(200 * time.Millisecond)
	})

	_, writer := conn.Split()
	audioTx := make(chan string)
	close(audioTx)

	done := make(chan error, 1)
	go func() { done <- senderTask(context.Background(), conn, writer, audioTx) }()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("senderTask did not exit after audio channel close")
	}
}
