package producer

import (
	"context"
	"fmt"
	"sync"

	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"

	"github.com/rewardStyle/rowloader/errs"
	"github.com/rewardStyle/rowloader/logging"
	"github.com/rewardStyle/rowloader/sink"
	"github.com/rewardStyle/rowloader/stats"
)

// Pool runs a fixed number of producers, each with its own sink, seed and stats sender.
type Pool struct {
	*producerOptions
	*logging.LogHelper

	cfg      *Config
	factory  sink.Factory
	sender   *stats.Sender
	active   int        // number of running producers
	activeMu sync.Mutex // protects active
}

// NewPool creates a pool that builds one sink per producer with factory and reports every producer's samples
// on sender.  The pool takes ownership of sender.
func NewPool(factory sink.Factory, sender *stats.Sender, fn ...func(*Config)) (*Pool, error) {
	cfg := NewConfig()
	for _, f := range fn {
		f(cfg)
	}
	if factory == nil {
		return nil, errs.ErrNilSinkFactory
	}
	if cfg.workerCount < 1 {
		return nil, errs.ErrInvalidWorkerCount
	}
	return &Pool{
		producerOptions: cfg.producerOptions,
		LogHelper: &logging.LogHelper{
			LogLevel: cfg.LogLevel,
			Logger:   cfg.Logger,
		},
		cfg:     cfg,
		factory: factory,
		sender:  sender,
	}, nil
}

// Run starts every producer and waits for all of them to return.  It returns the first producer error.  A
// producer that reached its quota only returns once ctx is cancelled.
func (p *Pool) Run(ctx context.Context) error {
	producers, err := p.build()
	p.sender.Close()
	if err != nil {
		return err
	}

	var g errgroup.Group
	for _, producer := range producers {
		producer := producer
		g.Go(func() error {
			p.track(1)
			defer p.track(-1)
			return producer.Run(ctx)
		})
	}
	p.LogInfo(fmt.Sprintf("Started %d producers", len(producers)))
	return g.Wait()
}

// build creates every producer up front so a sink that cannot be created fails the pool before anything runs.
func (p *Pool) build() ([]*Producer, error) {
	producers := make([]*Producer, 0, p.workerCount)
	release := func() {
		for _, producer := range producers {
			producer.sender.Close()
		}
	}

	for id := 0; id < p.workerCount; id++ {
		s, err := p.factory(id)
		if err != nil {
			release()
			return nil, errors.Wrapf(err, "creating sink for producer %d", id)
		}
		sender := p.sender.Clone()
		producer, err := newProducer(id, p.seed(id), s, sender, p.cfg)
		if err != nil {
			sender.Close()
			release()
			return nil, errors.Wrapf(err, "creating producer %d", id)
		}
		producers = append(producers, producer)
	}
	return producers, nil
}

// track updates the active producer count and reports it.
func (p *Pool) track(delta int) {
	p.activeMu.Lock()
	defer p.activeMu.Unlock()
	p.active += delta
	p.Stats.UpdateActiveProducers(p.active)
}
