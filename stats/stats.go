package stats

import (
	"sync"

	"github.com/rewardStyle/rowloader/errs"
)

// Sample is the number of rows a producer handed off successfully.
type Sample uint64

// queue is the shared state behind a stats channel.  It is unbounded so a send never waits on the receiver.
type queue struct {
	mu       sync.Mutex
	samples  []Sample
	senders  int
	received bool // set once the receiver has been released
}

// Sender is one producer's handle on a stats channel.  Each producer owns its own clone; the channel reports
// disconnection once every clone has been closed.
type Sender struct {
	q        *queue
	closed   bool
	closedMu sync.Mutex
}

// Receiver is the single consuming end of a stats channel.
type Receiver struct {
	q *queue
}

// NewChannel creates an unbounded many-producer, single-consumer stats channel.
func NewChannel() (*Sender, *Receiver) {
	q := &queue{senders: 1}
	return &Sender{q: q}, &Receiver{q: q}
}

// Clone returns a new Sender on the same channel.  Cloning a closed Sender returns a closed Sender.
func (s *Sender) Clone() *Sender {
	s.closedMu.Lock()
	defer s.closedMu.Unlock()
	if s.closed {
		return &Sender{q: s.q, closed: true}
	}

	s.q.mu.Lock()
	s.q.senders++
	s.q.mu.Unlock()
	return &Sender{q: s.q}
}

// Send enqueues a sample.  It never blocks on the receiver and fails only if this Sender or the Receiver has
// been closed.
func (s *Sender) Send(sample Sample) error {
	s.closedMu.Lock()
	closed := s.closed
	s.closedMu.Unlock()
	if closed {
		return errs.ErrStatsClosed
	}

	s.q.mu.Lock()
	defer s.q.mu.Unlock()
	if s.q.received {
		return errs.ErrStatsClosed
	}
	s.q.samples = append(s.q.samples, sample)
	return nil
}

// Close releases this Sender.  It is safe to call more than once.
func (s *Sender) Close() {
	s.closedMu.Lock()
	defer s.closedMu.Unlock()
	if s.closed {
		return
	}
	s.closed = true

	s.q.mu.Lock()
	s.q.senders--
	s.q.mu.Unlock()
}

// TryRecv returns the oldest pending sample without blocking.  It returns errs.ErrStatsEmpty when nothing is
// pending and errs.ErrStatsDisconnected when nothing is pending and every Sender has been closed.
func (r *Receiver) TryRecv() (Sample, error) {
	r.q.mu.Lock()
	defer r.q.mu.Unlock()

	if len(r.q.samples) > 0 {
		sample := r.q.samples[0]
		r.q.samples[0] = 0
		r.q.samples = r.q.samples[1:]
		if len(r.q.samples) == 0 {
			r.q.samples = nil
		}
		return sample, nil
	}
	if r.q.senders <= 0 {
		return 0, errs.ErrStatsDisconnected
	}
	return 0, errs.ErrStatsEmpty
}

// Close releases the Receiver.  Pending samples are discarded and later sends fail with errs.ErrStatsClosed.
func (r *Receiver) Close() {
	r.q.mu.Lock()
	defer r.q.mu.Unlock()
	r.q.received = true
	r.q.samples = nil
}
