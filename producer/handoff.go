package producer

import (
	"context"
	"sync"

	"github.com/rewardStyle/rowloader/errs"
	"github.com/rewardStyle/rowloader/message"
	"github.com/rewardStyle/rowloader/sink"
)

// handoff is the single-slot mailbox between one producer and its sink.  The sink owns the receiving end: when
// its Consume returns, done is closed and result holds what it returned.
type handoff struct {
	messages  chan *message.Message
	done      chan empty
	result    error
	closeOnce sync.Once
}

func newHandoff() *handoff {
	return &handoff{
		messages: make(chan *message.Message, 1),
		done:     make(chan empty),
	}
}

// serve runs the sink against the receiving end until it returns.
func (h *handoff) serve(ctx context.Context, s sink.Sink) {
	h.result = s.Consume(ctx, h.messages)
	close(h.done)
}

// offer suspends until the slot is free.  It returns errs.ErrSinkClosed once the sink has stopped consuming.
func (h *handoff) offer(ctx context.Context, msg *message.Message) error {
	select {
	case <-h.done:
		return errs.ErrSinkClosed
	default:
	}

	select {
	case h.messages <- msg:
		return nil
	case <-h.done:
		return errs.ErrSinkClosed
	case <-ctx.Done():
		return ctx.Err()
	}
}

// close tells the sink that no more messages will be offered.
func (h *handoff) close() {
	h.closeOnce.Do(func() {
		close(h.messages)
	})
}

// wait blocks until the sink has returned and reports its result.
func (h *handoff) wait() error {
	<-h.done
	return h.result
}
