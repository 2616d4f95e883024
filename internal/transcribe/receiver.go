package transcribe

import (
	"context"
	"errors"

	"github.com/dictate-sh/dictate/internal/transport"
	"github.com/dictate-sh/dictate/internal/wire"
)

// receiverTask reads server messages until the socket closes, forwarding
// each to msgTx. It returns nil on a clean close, ctx's error when
// cancelled while forwarding, and a wrapped error on a decode/transport
// failure (including a read cut short by cancellation).
func receiverTask(ctx context.Context, reader *transport.Reader, msgTx chan<- wire.ServerMessage) error {
	defer close(msgTx)

	for {
		msg, err := reader.Recv(ctx)
		if err != nil {
			if errors.Is(err, transport.ErrConnectionClosed) {
				return nil
			}
			return err
		}

		select {
		case msgTx <- msg:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}
