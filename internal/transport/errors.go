package transport

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidConfig is returned when the connection URL cannot be built
	// or parsed.
	ErrInvalidConfig = errors.New("transport: invalid config")
	// ErrAuthenticationFailed is returned when the handshake responds 401.
	ErrAuthenticationFailed = errors.New("transport: authentication failed")
	// ErrConnectionFailed wraps any other handshake HTTP/IO failure.
	ErrConnectionFailed = errors.New("transport: connection failed")
	// ErrWebSocketError wraps a lower-level protocol/transport failure.
	ErrWebSocketError = errors.New("transport: websocket error")
	// ErrSerializationError is returned when a server frame fails to decode.
	ErrSerializationError = errors.New("transport: serialization error")
	// ErrConnectionClosed is returned by Recv once the peer has closed.
	ErrConnectionClosed = errors.New("transport: connection closed")
	// ErrServerError marks a server-reported failure. Recv does not return
	// it: an input_error arrives as an ordinary ServerMessage.
	ErrServerError = errors.New("transport: server error")
	// ErrProtocolError is returned for violations of the wire protocol.
	ErrProtocolError = errors.New("transport: protocol error")
)

// ErrTimeout is returned when the handshake exceeds its configured
// timeout.
type ErrTimeout struct {
	Ms int
}

func (e *ErrTimeout) Error() string {
	return fmt.Sprintf("transport: handshake timed out after %dms", e.Ms)
}
