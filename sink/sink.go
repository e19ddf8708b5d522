package sink

import (
	"context"
	"time"

	"github.com/rewardStyle/rowloader/message"
)

// Sink consumes the messages a producer offers on its hand-off.  Consume returns nil once the producer closes the
// channel and a non-nil error when the sink can no longer accept messages.  Either way, returning from Consume is
// what closes the receiving end of the hand-off.
type Sink interface {
	Consume(ctx context.Context, messages <-chan *message.Message) error
}

// Factory builds the sink for the producer with the given id.
type Factory func(id int) (Sink, error)

// writeFn durably writes one batch of rows for origin.
type writeFn func(ctx context.Context, origin string, rows *message.RowBatch) error

// consume is the receive loop shared by every sink: take the payload, write it, then acknowledge.
func consume(ctx context.Context, messages <-chan *message.Message, write writeFn) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case msg, ok := <-messages:
			if !ok {
				return nil
			}
			if chunk := msg.Take(); chunk.Kind == message.ChunkRows {
				if err := write(ctx, msg.Origin(), chunk.Rows); err != nil {
					return err
				}
			}
			msg.Ack()
		}
	}
}

// sleep waits for d or until ctx is done.
func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
