package main

import (
	"context"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/pkg/errors"

	"github.com/rewardStyle/rowloader/config"
	"github.com/rewardStyle/rowloader/errs"
	"github.com/rewardStyle/rowloader/sink"
)

// newSinkFactory returns the factory building each producer's sink for the configured kind, and a function
// releasing whatever the sinks share.  Postgres producers share a single connection pool; the stream sinks get
// their own client each.
func newSinkFactory(ctx context.Context, cfg *config.LoaderConfig, logger aws.Logger,
	stats sink.StatsCollector) (sink.Factory, func(), error) {

	noop := func() {}
	switch cfg.Sink {
	case config.SinkDiscard:
		return func(int) (sink.Sink, error) {
			return sink.NewDiscard(func(c *sink.DiscardConfig) {
				c.SetLatency(cfg.SinkLatency)
				c.SetStatsCollector(stats)
			}), nil
		}, noop, nil

	case config.SinkPostgres:
		pg, err := sink.NewPostgres(ctx, cfg.ConnectionString, func(c *sink.PostgresConfig) {
			c.SetSchema(cfg.Schema)
			c.SetStatsCollector(stats)
			c.SetLogger(logger)
			c.SetLogLevel(cfg.LogLevel())
		})
		if err != nil {
			return nil, nil, err
		}
		return func(int) (sink.Sink, error) {
			return pg, nil
		}, pg.Close, nil

	case config.SinkKinesis, config.SinkFirehose:
		awsCfg := cfg.AwsConfig(logger)
		streamFn := func(c *sink.StreamConfig) {
			c.SetStatsCollector(stats)
			c.SetLogLevel(cfg.LogLevel())
		}
		if cfg.Sink == config.SinkKinesis {
			return func(int) (sink.Sink, error) {
				return sink.NewKinesis(awsCfg, cfg.ConnectionString, streamFn)
			}, noop, nil
		}
		return func(int) (sink.Sink, error) {
			return sink.NewFirehose(awsCfg, cfg.ConnectionString, streamFn)
		}, noop, nil
	}
	return nil, nil, errors.Wrapf(errs.ErrUnknownSink, "%q", cfg.Sink)
}
