package main

import (
	. "github.com/smartystreets/goconvey/convey"

	"context"
	"testing"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/pkg/errors"

	"github.com/rewardStyle/rowloader/config"
	"github.com/rewardStyle/rowloader/errs"
	"github.com/rewardStyle/rowloader/sink"
)

func TestNewSinkFactory(t *testing.T) {
	Convey("given a loader config", t, func() {
		ctx := context.Background()
		cfg := config.DefaultLoaderConfig()
		logger := aws.NewDefaultLogger()
		stats := &sink.NilStatsCollector{}

		Convey("check that the discard sink is built per producer", func() {
			cfg.Sink = config.SinkDiscard
			factory, closeSinks, err := newSinkFactory(ctx, cfg, logger, stats)
			So(err, ShouldBeNil)
			defer closeSinks()

			a, err := factory(0)
			So(err, ShouldBeNil)
			b, err := factory(1)
			So(err, ShouldBeNil)
			So(a, ShouldHaveSameTypeAs, &sink.Discard{})
			So(a, ShouldNotPointTo, b)
		})

		Convey("check that the kinesis sink is built for the configured stream", func() {
			cfg.Sink = config.SinkKinesis
			cfg.ConnectionString = "some-stream"
			cfg.Region = "us-east-1"
			cfg.Endpoint = "http://127.0.0.1:4567"
			factory, _, err := newSinkFactory(ctx, cfg, logger, stats)
			So(err, ShouldBeNil)

			s, err := factory(0)
			So(err, ShouldBeNil)
			So(s, ShouldHaveSameTypeAs, &sink.Kinesis{})
		})

		Convey("check that the firehose sink is built for the configured stream", func() {
			cfg.Sink = config.SinkFirehose
			cfg.ConnectionString = "some-stream"
			cfg.Region = "us-east-1"
			factory, _, err := newSinkFactory(ctx, cfg, logger, stats)
			So(err, ShouldBeNil)

			s, err := factory(0)
			So(err, ShouldBeNil)
			So(s, ShouldHaveSameTypeAs, &sink.Firehose{})
		})

		Convey("check that an unknown sink is rejected", func() {
			cfg.Sink = "kafka"
			_, _, err := newSinkFactory(ctx, cfg, logger, stats)
			So(errors.Cause(err), ShouldEqual, errs.ErrUnknownSink)
		})
	})
}

func TestTotal(t *testing.T) {
	Convey("check that the history is summed", t, func() {
		So(total(nil), ShouldEqual, 0)
		So(total([]uint64{3, 4, 5}), ShouldEqual, 12)
	})
}
