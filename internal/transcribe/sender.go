package transcribe

import (
	"context"

	"github.com/dictate-sh/dictate/internal/transport"
	"github.com/dictate-sh/dictate/internal/wire"
)

// wireSampleRate is stamped onto the first chunk of every session so the
// server's sample_rate query parameter is corroborated once, in-band.
const wireSampleRate = 16000

// senderTask pulls base64 audio payloads from audioRx, wraps chunk #1 with
// sample_rate, and writes one Text frame per chunk. It exits when audioRx
// closes (attempting a graceful socket close) or when a write fails.
func senderTask(ctx context.Context, conn *transport.Connection, writer *transport.Writer, audioRx <-chan string) error {
	chunkNum := 0
	for {
		select {
		case payload, ok := <-audioRx:
			if !ok {
				_ = conn.Close()
				return nil
			}
			chunkNum++

			var msg wire.ClientMessage
			if chunkNum == 1 {
				msg = wire.NewInputAudioChunk(payload).WithSampleRate(wireSampleRate)
			} else {
				msg = wire.NewInputAudioChunk(payload)
			}

			if err := writer.Send(ctx, msg); err != nil {
				return err
			}
		case <-ctx.Done():
			_ = conn.Close()
			return ctx.Err()
		}
	}
}
