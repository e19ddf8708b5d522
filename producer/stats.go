package producer

import (
	"log"
	"time"

	"github.com/rcrowley/go-metrics"
)

// StatsCollector allows for a collector to collect various metrics produced by the producers.  This was really
// built with rcrowley/go-metrics in mind.
type StatsCollector interface {
	AddBatchesSent(int)
	AddRowsSent(int)
	AddRowsAcked(int)
	AddQuotaReached(int)
	AddSinkFailures(int)
	UpdateOfferDuration(time.Duration)
	UpdateActiveProducers(int)
}

// NilStatsCollector is a stats listener that ignores all metrics.
type NilStatsCollector struct{}

// AddBatchesSent records the number of batches handed off to a sink.
func (nsc *NilStatsCollector) AddBatchesSent(int) {}

// AddRowsSent records the number of rows handed off to a sink.
func (nsc *NilStatsCollector) AddRowsSent(int) {}

// AddRowsAcked records the number of rows a sink acknowledged as durably written.
func (nsc *NilStatsCollector) AddRowsAcked(int) {}

// AddQuotaReached records the number of producers that sent their full batch quota.
func (nsc *NilStatsCollector) AddQuotaReached(int) {}

// AddSinkFailures records the number of producers that stopped because their sink went away.
func (nsc *NilStatsCollector) AddSinkFailures(int) {}

// UpdateOfferDuration records how long a producer waited for its sink to accept a batch.
func (nsc *NilStatsCollector) UpdateOfferDuration(time.Duration) {}

// UpdateActiveProducers records the number of producers currently running.
func (nsc *NilStatsCollector) UpdateActiveProducers(int) {}

// Metric names to be exported
const (
	MetricsBatchesSent     = "rowloader.producer.batches.sent"
	MetricsRowsSent        = "rowloader.producer.rows.sent"
	MetricsRowsAcked       = "rowloader.producer.rows.acked"
	MetricsQuotaReached    = "rowloader.producer.quotareached"
	MetricsSinkFailures    = "rowloader.producer.sink.failures"
	MetricsOfferDuration   = "rowloader.producer.offer.duration"
	MetricsActiveProducers = "rowloader.producer.active"
)

// DefaultStatsCollector is a type that implements the producers's StatsCollector interface using the
// rcrowley/go-metrics library
type DefaultStatsCollector struct {
	BatchesSent     metrics.Counter
	RowsSent        metrics.Counter
	RowsAcked       metrics.Counter
	QuotaReached    metrics.Counter
	SinkFailures    metrics.Counter
	OfferDuration   metrics.Timer
	ActiveProducers metrics.Gauge
}

// NewDefaultStatsCollector instantiates a new DefaultStatsCollector object
func NewDefaultStatsCollector(r metrics.Registry) *DefaultStatsCollector {
	return &DefaultStatsCollector{
		BatchesSent:     metrics.GetOrRegisterCounter(MetricsBatchesSent, r),
		RowsSent:        metrics.GetOrRegisterCounter(MetricsRowsSent, r),
		RowsAcked:       metrics.GetOrRegisterCounter(MetricsRowsAcked, r),
		QuotaReached:    metrics.GetOrRegisterCounter(MetricsQuotaReached, r),
		SinkFailures:    metrics.GetOrRegisterCounter(MetricsSinkFailures, r),
		OfferDuration:   metrics.GetOrRegisterTimer(MetricsOfferDuration, r),
		ActiveProducers: metrics.GetOrRegisterGauge(MetricsActiveProducers, r),
	}
}

// AddBatchesSent records the number of batches handed off to a sink.
func (dsc *DefaultStatsCollector) AddBatchesSent(count int) {
	dsc.BatchesSent.Inc(int64(count))
}

// AddRowsSent records the number of rows handed off to a sink.
func (dsc *DefaultStatsCollector) AddRowsSent(count int) {
	dsc.RowsSent.Inc(int64(count))
}

// AddRowsAcked records the number of rows a sink acknowledged as durably written.
func (dsc *DefaultStatsCollector) AddRowsAcked(count int) {
	dsc.RowsAcked.Inc(int64(count))
}

// AddQuotaReached records the number of producers that sent their full batch quota.
func (dsc *DefaultStatsCollector) AddQuotaReached(count int) {
	dsc.QuotaReached.Inc(int64(count))
}

// AddSinkFailures records the number of producers that stopped because their sink went away.
func (dsc *DefaultStatsCollector) AddSinkFailures(count int) {
	dsc.SinkFailures.Inc(int64(count))
}

// UpdateOfferDuration records how long a producer waited for its sink to accept a batch.
func (dsc *DefaultStatsCollector) UpdateOfferDuration(duration time.Duration) {
	dsc.OfferDuration.Update(duration)
}

// UpdateActiveProducers records the number of producers currently running.
func (dsc *DefaultStatsCollector) UpdateActiveProducers(count int) {
	dsc.ActiveProducers.Update(int64(count))
}

// PrintStats logs the stats
func (dsc *DefaultStatsCollector) PrintStats() {
	log.Printf("Producer Stats: Batches Sent: [%d]\n", dsc.BatchesSent.Count())
	log.Printf("Producer Stats: Rows Sent: [%d]\n", dsc.RowsSent.Count())
	log.Printf("Producer Stats: Rows Acked: [%d]\n", dsc.RowsAcked.Count())
	log.Printf("Producer Stats: Quota Reached: [%d]\n", dsc.QuotaReached.Count())
	log.Printf("Producer Stats: Sink Failures: [%d]\n", dsc.SinkFailures.Count())
	log.Printf("Producer Stats: Offer Duration (mean ns): [%.0f]\n", dsc.OfferDuration.Mean())
	log.Printf("Producer Stats: Offer Duration (max ns): [%d]\n", dsc.OfferDuration.Max())
	log.Printf("Producer Stats: Active Producers: [%d]\n", dsc.ActiveProducers.Value())
}
