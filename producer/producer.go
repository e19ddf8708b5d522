package producer

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/pkg/errors"

	"github.com/rewardStyle/rowloader/errs"
	"github.com/rewardStyle/rowloader/generator"
	"github.com/rewardStyle/rowloader/logging"
	"github.com/rewardStyle/rowloader/message"
	"github.com/rewardStyle/rowloader/sink"
	"github.com/rewardStyle/rowloader/stats"
)

// State is the position of a Producer in its run loop.
type State int32

const (
	// Generating builds the next row batch.
	Generating State = iota

	// Offering waits for the sink to accept the current batch.
	Offering

	// QuotaReached means the batch quota was sent; the producer no longer feeds its sink but stays alive until
	// it is cancelled.
	QuotaReached

	// Failed means the sink stopped consuming.
	Failed
)

func (s State) String() string {
	switch s {
	case Generating:
		return "Generating"
	case Offering:
		return "Offering"
	case QuotaReached:
		return "QuotaReached"
	case Failed:
		return "Failed"
	}
	return fmt.Sprintf("State(%d)", int32(s))
}

// Producer generates row batches and hands them, one at a time, to its own sink.  Every batch the sink accepts
// is reported as a sample on the stats channel.
type Producer struct {
	*producerOptions   // contains all of the configuration settings for the Producer
	*logging.LogHelper // object for help with logging

	id          int                 // identifies the producer in logs and errors
	rng         *generator.XorShift // row source, owned by this producer only
	sink        sink.Sink           // consumer of the handed off batches
	sender      *stats.Sender       // this producer's clone of the stats channel
	rateLimiter *rateLimiter        // throttles the number of batches sent per cycle, nil when disabled
	state       int32               // current State, read atomically
	sent        int                 // batches accepted by the sink so far
	sendFailed  bool                // whether a failed stats send has already been logged
}

// NewProducer creates a producer seeded with seed that feeds s and reports to sender.  The producer takes
// ownership of sender and closes it when it stops sending.
func NewProducer(id int, seed uint64, s sink.Sink, sender *stats.Sender, fn ...func(*Config)) (*Producer, error) {
	cfg := NewConfig()
	for _, f := range fn {
		f(cfg)
	}
	return newProducer(id, seed, s, sender, cfg)
}

func newProducer(id int, seed uint64, s sink.Sink, sender *stats.Sender, cfg *Config) (*Producer, error) {
	if s == nil {
		return nil, errs.ErrNilSink
	}
	if cfg.batchSize < 1 {
		return nil, errs.ErrInvalidBatchSize
	}
	if cfg.batchQuota < 0 {
		return nil, errs.ErrInvalidBatchQuota
	}
	if cfg.rateLimit < 0 || (cfg.rateLimit > 0 && cfg.resetFrequency <= 0) {
		return nil, errs.ErrInvalidRateLimit
	}

	p := &Producer{
		producerOptions: cfg.producerOptions,
		LogHelper: &logging.LogHelper{
			LogLevel: cfg.LogLevel,
			Logger:   cfg.Logger,
		},
		id:     id,
		rng:    generator.NewXorShift(seed),
		sink:   s,
		sender: sender,
	}
	if cfg.rateLimit > 0 {
		p.rateLimiter = newRateLimiter(cfg.rateLimit, cfg.resetFrequency)
	}
	return p, nil
}

// State returns the current state of the producer.
func (p *Producer) State() State {
	return State(atomic.LoadInt32(&p.state))
}

func (p *Producer) setState(s State) {
	atomic.StoreInt32(&p.state, int32(s))
}

// Run drives the producer until ctx is cancelled or its sink fails.  Cancellation returns nil once the sink has
// exited.  A sink that stops consuming is reported as errs.ErrSinkClosed carrying the sink's own result.  After
// the batch quota is reached Run keeps waiting for ctx, so a caller joining on every producer must cancel.
func (p *Producer) Run(ctx context.Context) error {
	h := newHandoff()
	go h.serve(ctx, p.sink)
	defer p.sender.Close()

	if p.rateLimiter != nil {
		p.rateLimiter.start()
		defer p.rateLimiter.stop()
	}

	p.LogDebug(fmt.Sprintf("Producer %d started", p.id))
	var msg *message.Message
	for {
		switch p.State() {
		case Generating:
			if p.quotaReached() {
				p.setState(QuotaReached)
				continue
			}
			if p.rateLimiter != nil {
				if err := p.rateLimiter.wait(ctx, 1); err != nil {
					return p.stop(h)
				}
			}
			msg = p.generate()
			p.setState(Offering)

		case Offering:
			start := time.Now()
			err := h.offer(ctx, msg)
			p.Stats.UpdateOfferDuration(time.Since(start))
			if err != nil && ctx.Err() != nil {
				return p.stop(h)
			}
			if err != nil {
				p.setState(Failed)
				continue
			}

			msg = nil
			p.sent++
			p.Stats.AddBatchesSent(1)
			p.Stats.AddRowsSent(p.batchSize)
			p.report(stats.Sample(p.batchSize))

			if p.quotaReached() {
				p.setState(QuotaReached)
			} else {
				p.setState(Generating)
			}

		case QuotaReached:
			h.close()
			p.sender.Close()
			p.Stats.AddQuotaReached(1)
			p.LogInfo(fmt.Sprintf("Producer %d sent its quota of %d batches", p.id, p.batchQuota))
			<-ctx.Done()
			if err := h.wait(); err != nil && err != ctx.Err() {
				p.LogError(fmt.Sprintf("Producer %d sink exited with:", p.id), err.Error())
			}
			return nil

		case Failed:
			p.Stats.AddSinkFailures(1)
			result := h.wait()
			p.LogError(fmt.Sprintf("Producer %d lost its sink after %d batches", p.id, p.sent))
			if result == nil {
				return errors.Wrapf(errs.ErrSinkClosed, "producer %d, sink exited cleanly", p.id)
			}
			return errors.Wrapf(errs.ErrSinkClosed, "producer %d, sink exited with: %v", p.id, result)
		}
	}
}

func (p *Producer) quotaReached() bool {
	return p.hasQuota && p.sent >= p.batchQuota
}

// generate builds the next batch and wraps it in a message whose acknowledgment is counted.
func (p *Producer) generate() *message.Message {
	rows := generator.NewRowBatch(p.rng, p.batchSize)
	n := rows.Len()
	return message.New(p.origin, rows, func() {
		p.Stats.AddRowsAcked(n)
	})
}

// report sends a sample on the stats channel.  The dashboard going away does not stop the producer.
func (p *Producer) report(sample stats.Sample) {
	if err := p.sender.Send(sample); err != nil && !p.sendFailed {
		p.sendFailed = true
		p.LogDebug(fmt.Sprintf("Producer %d stats dropped:", p.id), err.Error())
	}
}

// stop releases the hand-off after cancellation and waits for the sink to exit.
func (p *Producer) stop(h *handoff) error {
	h.close()
	if err := h.wait(); err != nil && err != context.Canceled && err != context.DeadlineExceeded {
		p.LogError(fmt.Sprintf("Producer %d sink exited with:", p.id), err.Error())
	}
	p.LogDebug(fmt.Sprintf("Producer %d stopped after %d batches", p.id, p.sent))
	return nil
}
