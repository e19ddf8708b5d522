package sink

import (
	"context"

	"github.com/rewardStyle/rowloader/message"
)

// Discard is a sink that acknowledges every message without storing it, optionally after a fixed latency.  It
// is useful for measuring the generator on its own and for simulating a slow consumer.
type Discard struct {
	*discardOptions
}

// NewDiscard creates a new Discard sink.
func NewDiscard(fn ...func(*DiscardConfig)) *Discard {
	cfg := NewDiscardConfig()
	for _, f := range fn {
		f(cfg)
	}
	return &Discard{discardOptions: cfg.discardOptions}
}

// Consume acknowledges messages until the channel is closed.
func (d *Discard) Consume(ctx context.Context, messages <-chan *message.Message) error {
	return consume(ctx, messages, func(ctx context.Context, origin string, rows *message.RowBatch) error {
		if err := sleep(ctx, d.latency); err != nil {
			return err
		}
		d.Stats.AddRowsWritten(rows.Len())
		d.Stats.AddBatchesWritten(1)
		return nil
	})
}
