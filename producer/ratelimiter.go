package producer

import (
	"context"
	"sync"
	"time"
)

// empty is used a as a dummy type for signalling channels.
type empty struct{}

// rateLimiter is used by a producer to cap the number of batches it sends per cycle.
type rateLimiter struct {
	limit       int           // upper limit of throughput per cycle
	duration    time.Duration // frequency with which to reset the remaining tokens count
	tokenCount  int           // remaining tokens available for the cycle
	tokenMu     sync.Mutex    // mutex to protect remaining token count and the reset channel
	resetCh     chan empty    // closed and replaced every time the tokens are reset
	stopChannel chan empty    // channel for communicating when to stop rate limiting
	startOnce   sync.Once     // startOnce is used to ensure that start is called once and only once
	stopOnce    sync.Once     // stopOnce is used to ensure that stop is called once and only once
}

// newRateLimiter creates a new rateLimiter.
func newRateLimiter(limit int, duration time.Duration) *rateLimiter {
	return &rateLimiter{
		limit:       limit,
		duration:    duration,
		tokenCount:  limit,
		resetCh:     make(chan empty),
		stopChannel: make(chan empty),
	}
}

// start runs a ticker in a background go routine which refills the tokens every cycle.
func (r *rateLimiter) start() {
	r.startOnce.Do(func() {
		ticker := time.NewTicker(r.duration)
		go func() {
			defer ticker.Stop()
			for {
				select {
				case <-r.stopChannel:
					return
				case <-ticker.C:
					r.reset()
				}
			}
		}()
	})
}

// stop ends the background refill.  A stopped rateLimiter cannot be started again.
func (r *rateLimiter) stop() {
	r.stopOnce.Do(func() {
		close(r.stopChannel)
	})
}

// reset is called to reset the rateLimiter's tokens to the initial values and wake up every waiter
func (r *rateLimiter) reset() {
	r.tokenMu.Lock()
	defer r.tokenMu.Unlock()
	r.tokenCount = r.limit
	close(r.resetCh)
	r.resetCh = make(chan empty)
}

// getTokenCount is used to retrieve the current token count.
func (r *rateLimiter) getTokenCount() int {
	r.tokenMu.Lock()
	defer r.tokenMu.Unlock()
	return r.tokenCount
}

// tryToClaimTokens attempts to claim the wanted number of tokens and returns the number actually claimed along
// with the channel that is closed on the next reset.
func (r *rateLimiter) tryToClaimTokens(want int) (got int, reset <-chan empty) {
	r.tokenMu.Lock()
	defer r.tokenMu.Unlock()

	if want <= r.tokenCount {
		got = want
	} else {
		got = r.tokenCount
	}
	r.tokenCount -= got
	return got, r.resetCh
}

// wait blocks until the wanted number of tokens has been claimed, possibly across several cycles.
func (r *rateLimiter) wait(ctx context.Context, want int) error {
	for want > 0 {
		got, reset := r.tryToClaimTokens(want)
		want -= got
		if want == 0 {
			return nil
		}
		select {
		case <-reset:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return nil
}
