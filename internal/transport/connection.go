package transport

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/coder/websocket"

	"github.com/dictate-sh/dictate/internal/wire"
)

// Connection is an established, authenticated WebSocket session to the
// realtime endpoint. Use Split to obtain independent read/write halves.
type Connection struct {
	conn *websocket.Conn

	closeOnce sync.Once
	closeErr  error
}

// Connect builds the handshake URL from cfg, dials it with the xi-api-key
// header, and returns the established Connection. The handshake is bounded
// by cfg's configured timeout.
func Connect(ctx context.Context, apiKey string, cfg Config) (*Connection, error) {
	target := cfg.URL()
	if _, err := url.Parse(target); err != nil {
		return nil, fmt.Errorf("transport: parse url: %w", errors.Join(err, ErrInvalidConfig))
	}

	timeout := time.Duration(cfg.timeoutMs()) * time.Millisecond
	dialCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	header := http.Header{}
	header.Set("xi-api-key", apiKey)

	conn, resp, err := websocket.Dial(dialCtx, target, &websocket.DialOptions{
		HTTPHeader: header,
	})
	if err != nil {
		if dialCtx.Err() != nil && ctx.Err() == nil {
			return nil, fmt.Errorf("transport: %w", &ErrTimeout{Ms: cfg.timeoutMs()})
		}
		if resp != nil && resp.StatusCode == http.StatusUnauthorized {
			return nil, fmt.Errorf("transport: handshake rejected: %w", ErrAuthenticationFailed)
		}
		return nil, fmt.Errorf("transport: dial %s: %w", target, errors.Join(err, ErrConnectionFailed))
	}

	return &Connection{conn: conn}, nil
}

// Split returns independent reader and writer halves sharing this
// Connection's underlying socket.
func (c *Connection) Split() (*Reader, *Writer) {
	return &Reader{conn: c.conn}, &Writer{conn: c.conn}
}

// Close sends a close frame. Idempotent; subsequent calls return the first
// close's result.
func (c *Connection) Close() error {
	c.closeOnce.Do(func() {
		c.closeErr = c.conn.Close(websocket.StatusNormalClosure, "")
	})
	return c.closeErr
}

// Writer is the send half of a Connection.
type Writer struct {
	conn *websocket.Conn
}

// Send JSON-serializes msg and transmits it as a Text frame.
func (w *Writer) Send(ctx context.Context, msg wire.ClientMessage) error {
	data, err := wire.MarshalClient(msg)
	if err != nil {
		return fmt.Errorf("transport: marshal client message: %w", ErrSerializationError)
	}
	if err := w.conn.Write(ctx, websocket.MessageText, data); err != nil {
		return fmt.Errorf("transport: write: %w", errors.Join(err, ErrWebSocketError))
	}
	return nil
}

// Reader is the receive half of a Connection.
type Reader struct {
	conn *websocket.Conn
}

// Recv returns the next deserialized server message. Ping/pong frames are
// handled transparently by the underlying library and never surfaced;
// binary frames are logged and skipped. A Close frame returns
// ErrConnectionClosed; any other read failure, including EOF without a
// Close frame, is wrapped with ErrWebSocketError.
func (r *Reader) Recv(ctx context.Context) (wire.ServerMessage, error) {
	for {
		typ, data, err := r.conn.Read(ctx)
		if err != nil {
			if websocket.CloseStatus(err) != -1 {
				return wire.ServerMessage{}, ErrConnectionClosed
			}
			return wire.ServerMessage{}, fmt.Errorf("transport: read: %w", errors.Join(err, ErrWebSocketError))
		}

		if typ == websocket.MessageBinary {
			slog.Warn("transport: binary frame received, skipping", "bytes", len(data))
			continue
		}

		msg, err := wire.ParseServer(data)
		if err != nil {
			return wire.ServerMessage{}, fmt.Errorf("transport: decode server message: %w", errors.Join(err, ErrSerializationError))
		}
		return msg, nil
	}
}
