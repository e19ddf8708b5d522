package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/aws/aws-sdk-go/aws"
	metrics "github.com/rcrowley/go-metrics"

	"github.com/rewardStyle/rowloader/config"
	"github.com/rewardStyle/rowloader/dashboard"
	"github.com/rewardStyle/rowloader/logging"
	"github.com/rewardStyle/rowloader/producer"
	"github.com/rewardStyle/rowloader/sink"
	"github.com/rewardStyle/rowloader/stats"
)

func main() {
	os.Exit(run())
}

func run() int {
	cfg, err := config.ParseLoaderConfig(os.Args[1:], os.Getenv, os.Stderr)
	if err == flag.ErrHelp {
		return 0
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 2
	}

	// The terminal belongs to the dashboard, everything else is logged to a file.
	f, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	defer f.Close()
	log.SetOutput(f)
	logger := aws.LoggerFunc(log.New(f, "", log.LstdFlags).Println)
	l := &logging.LogHelper{
		LogLevel: cfg.LogLevel(),
		Logger:   logger,
	}
	cfg.Print(l)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	registry := metrics.NewRegistry()
	producerStats := producer.NewDefaultStatsCollector(registry)
	sinkStats := sink.NewDefaultStatsCollector(registry)

	factory, closeSinks, err := newSinkFactory(ctx, cfg, logger, sinkStats)
	if err != nil {
		l.LogError("Unable to set up the sink:", err)
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	defer closeSinks()

	sender, receiver := stats.NewChannel()
	defer receiver.Close()

	pool, err := producer.NewPool(factory, sender, func(c *producer.Config) {
		c.SetWorkerCount(cfg.NumLoaders)
		c.SetBatchSize(cfg.BatchSize)
		c.SetOrigin(cfg.Origin)
		if cfg.NumChunks != nil {
			c.SetBatchQuota(*cfg.NumChunks)
		}
		c.SetRateLimit(cfg.RateLimit)
		c.SetStatsCollector(producerStats)
		c.SetLogger(logger)
		c.SetLogLevel(cfg.LogLevel())
	})
	if err != nil {
		sender.Close()
		l.LogError("Unable to create the producer pool:", err)
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	d, err := dashboard.NewDashboard(dashboard.NewTermScreen(), receiver, func(c *dashboard.Config) {
		c.SetHistorySize(cfg.HistorySize)
		c.SetLogger(logger)
		c.SetLogLevel(cfg.LogLevel())
	})
	if err != nil {
		sender.Close()
		l.LogError("Unable to create the dashboard:", err)
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	producerCtx, cancelProducers := context.WithCancel(ctx)
	poolErr := make(chan error, 1)
	go func() {
		poolErr <- pool.Run(producerCtx)
	}()

	status := 0
	if err := d.Run(ctx); err != nil {
		l.LogError("Dashboard exited with:", err)
		fmt.Fprintln(os.Stderr, err)
		status = 1
	}

	cancelProducers()
	if err := <-poolErr; err != nil {
		l.LogError("Producers exited with:", err)
		fmt.Fprintln(os.Stderr, err)
		status = 1
	}
	l.LogInfo("Rows shown on the dashboard:", total(d.App().History()))

	producerStats.PrintStats()
	sinkStats.PrintStats()
	return status
}

func total(history []uint64) uint64 {
	var sum uint64
	for _, v := range history {
		sum += v
	}
	return sum
}
