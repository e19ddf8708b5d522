package producer

import (
	. "github.com/smartystreets/goconvey/convey"

	"context"
	"errors"
	"testing"
	"time"

	pkgerrors "github.com/pkg/errors"
	"github.com/rcrowley/go-metrics"

	"github.com/rewardStyle/rowloader/errs"
	"github.com/rewardStyle/rowloader/generator"
	"github.com/rewardStyle/rowloader/sink"
	"github.com/rewardStyle/rowloader/stats"
)

func TestNewPool(t *testing.T) {
	Convey("given the pool constructor", t, func() {
		sender, _ := stats.NewChannel()
		factory := func(id int) (sink.Sink, error) { return &recordingSink{}, nil }

		Convey("check that a nil factory is rejected", func() {
			_, err := NewPool(nil, sender)
			So(err, ShouldEqual, errs.ErrNilSinkFactory)
		})

		Convey("check that a pool without workers is rejected", func() {
			_, err := NewPool(factory, sender, func(c *Config) {
				c.SetWorkerCount(0)
			})
			So(err, ShouldEqual, errs.ErrInvalidWorkerCount)
		})

		Convey("check the default values", func() {
			p, err := NewPool(factory, sender)
			So(err, ShouldBeNil)
			So(p.workerCount, ShouldEqual, 1)
			So(p.batchSize, ShouldEqual, 512)
			So(p.origin, ShouldEqual, "metrics")
		})
	})
}

func TestPool(t *testing.T) {
	Convey("given a pool of producers with a quota", t, func() {
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		sinks := make([]*recordingSink, 3)
		factory := func(id int) (sink.Sink, error) {
			sinks[id] = &recordingSink{}
			return sinks[id], nil
		}
		sc := NewDefaultStatsCollector(metrics.NewRegistry())
		sender, receiver := stats.NewChannel()
		p, err := NewPool(factory, sender, func(c *Config) {
			c.SetWorkerCount(3)
			c.SetBatchSize(5)
			c.SetBatchQuota(2)
			c.SetSeedFunc(func(id int) uint64 { return uint64(100 + id) })
			c.SetStatsCollector(sc)
		})
		So(err, ShouldBeNil)

		result := make(chan error, 1)
		go func() {
			result <- p.Run(ctx)
		}()

		Convey("check that every producer reports its quota before the channel disconnects", func() {
			samples, err := drain(receiver, 2*time.Second)
			So(err, ShouldEqual, errs.ErrStatsDisconnected)
			So(len(samples), ShouldEqual, 6)
			So(total(samples), ShouldEqual, 30)
		})

		Convey("check that the pool only returns once cancelled", func() {
			_, err := drain(receiver, 2*time.Second)
			So(err, ShouldEqual, errs.ErrStatsDisconnected)
			select {
			case <-result:
				t.Fatal("pool returned before it was cancelled")
			case <-time.After(50 * time.Millisecond):
			}
			So(sc.ActiveProducers.Value(), ShouldEqual, 3)

			cancel()
			So(<-result, ShouldBeNil)
			So(sc.ActiveProducers.Value(), ShouldEqual, 0)
		})

		Convey("check that each producer was seeded by the seed func", func() {
			_, err := drain(receiver, 2*time.Second)
			So(err, ShouldEqual, errs.ErrStatsDisconnected)
			cancel()
			So(<-result, ShouldBeNil)

			for id, s := range sinks {
				expected := generator.NewRowBatch(generator.NewXorShift(uint64(100+id)), 10).Rows
				So(s.Rows(), ShouldResemble, expected)
			}
		})
	})

	Convey("given a pool whose sinks crash", t, func() {
		sender, receiver := stats.NewChannel()
		p, err := NewPool(func(id int) (sink.Sink, error) {
			return &failingSink{err: errors.New("connection refused")}, nil
		}, sender, func(c *Config) {
			c.SetWorkerCount(2)
		})
		So(err, ShouldBeNil)

		Convey("check that the pool returns the sink failure", func() {
			err := p.Run(context.Background())
			So(pkgerrors.Cause(err), ShouldEqual, errs.ErrSinkClosed)

			_, err = drain(receiver, time.Second)
			So(err, ShouldEqual, errs.ErrStatsDisconnected)
		})
	})

	Convey("given a pool whose factory fails", t, func() {
		boom := errors.New("no such stream")
		sender, receiver := stats.NewChannel()
		p, err := NewPool(func(id int) (sink.Sink, error) {
			if id == 1 {
				return nil, boom
			}
			return &recordingSink{}, nil
		}, sender, func(c *Config) {
			c.SetWorkerCount(3)
		})
		So(err, ShouldBeNil)

		Convey("check that no producer starts and every sender is released", func() {
			err := p.Run(context.Background())
			So(pkgerrors.Cause(err), ShouldEqual, boom)

			_, err = receiver.TryRecv()
			So(err, ShouldEqual, errs.ErrStatsDisconnected)
		})
	})
}
