package sink

import (
	"log"
	"time"

	"github.com/rcrowley/go-metrics"
)

// StatsCollector allows for a collector to collect various metrics produced by the sinks.  This was really built
// with rcrowley/go-metrics in mind.
type StatsCollector interface {
	AddRowsWritten(int)
	AddBatchesWritten(int)
	AddRecordsRetried(int)
	AddRecordsFailed(int)
	AddPutRecordsCalled(int)
	AddProvisionedThroughputExceeded(int)
	AddServiceUnavailable(int)
	UpdateWriteDuration(time.Duration)
}

// NilStatsCollector is a stats collector that ignores all metrics.
type NilStatsCollector struct{}

// AddRowsWritten records the number of rows durably written by a sink.
func (nsc *NilStatsCollector) AddRowsWritten(int) {}

// AddBatchesWritten records the number of row batches durably written by a sink.
func (nsc *NilStatsCollector) AddBatchesWritten(int) {}

// AddRecordsRetried records the number of records that were sent again after a partial failure.
func (nsc *NilStatsCollector) AddRecordsRetried(int) {}

// AddRecordsFailed records the number of records given up on after the max number of retries.
func (nsc *NilStatsCollector) AddRecordsFailed(int) {}

// AddPutRecordsCalled records the number of times the PutRecords (or PutRecordBatch) API was called.
func (nsc *NilStatsCollector) AddPutRecordsCalled(int) {}

// AddProvisionedThroughputExceeded records the number of records rejected because the stream was throttled.
func (nsc *NilStatsCollector) AddProvisionedThroughputExceeded(int) {}

// AddServiceUnavailable records the number of records Firehose rejected as ServiceUnavailable.
func (nsc *NilStatsCollector) AddServiceUnavailable(int) {}

// UpdateWriteDuration records how long the last write of a batch took.
func (nsc *NilStatsCollector) UpdateWriteDuration(time.Duration) {}

// Metric names to be exported
const (
	MetricsRowsWritten                   = "rowloader.sink.rows.written"
	MetricsBatchesWritten                = "rowloader.sink.batches.written"
	MetricsRecordsRetried                = "rowloader.sink.records.retried"
	MetricsRecordsFailed                 = "rowloader.sink.records.failed"
	MetricsPutRecordsCalled              = "rowloader.sink.putrecords.called"
	MetricsProvisionedThroughputExceeded = "rowloader.sink.provisionedthroughputexceeded"
	MetricsServiceUnavailable            = "rowloader.sink.serviceunavailable"
	MetricsWriteDuration                 = "rowloader.sink.write.duration"
)

// DefaultStatsCollector is a type that implements the sink's StatsCollector interface using the
// rcrowley/go-metrics library
type DefaultStatsCollector struct {
	RowsWritten                   metrics.Counter
	BatchesWritten                metrics.Counter
	RecordsRetried                metrics.Counter
	RecordsFailed                 metrics.Counter
	PutRecordsCalled              metrics.Counter
	ProvisionedThroughputExceeded metrics.Counter
	ServiceUnavailable            metrics.Counter
	WriteDuration                 metrics.Timer
}

// NewDefaultStatsCollector instantiates a new DefaultStatsCollector object
func NewDefaultStatsCollector(r metrics.Registry) *DefaultStatsCollector {
	return &DefaultStatsCollector{
		RowsWritten:                   metrics.GetOrRegisterCounter(MetricsRowsWritten, r),
		BatchesWritten:                metrics.GetOrRegisterCounter(MetricsBatchesWritten, r),
		RecordsRetried:                metrics.GetOrRegisterCounter(MetricsRecordsRetried, r),
		RecordsFailed:                 metrics.GetOrRegisterCounter(MetricsRecordsFailed, r),
		PutRecordsCalled:              metrics.GetOrRegisterCounter(MetricsPutRecordsCalled, r),
		ProvisionedThroughputExceeded: metrics.GetOrRegisterCounter(MetricsProvisionedThroughputExceeded, r),
		ServiceUnavailable:            metrics.GetOrRegisterCounter(MetricsServiceUnavailable, r),
		WriteDuration:                 metrics.GetOrRegisterTimer(MetricsWriteDuration, r),
	}
}

// AddRowsWritten records the number of rows durably written by a sink.
func (dsc *DefaultStatsCollector) AddRowsWritten(count int) {
	dsc.RowsWritten.Inc(int64(count))
}

// AddBatchesWritten records the number of row batches durably written by a sink.
func (dsc *DefaultStatsCollector) AddBatchesWritten(count int) {
	dsc.BatchesWritten.Inc(int64(count))
}

// AddRecordsRetried records the number of records that were sent again after a partial failure.
func (dsc *DefaultStatsCollector) AddRecordsRetried(count int) {
	dsc.RecordsRetried.Inc(int64(count))
}

// AddRecordsFailed records the number of records given up on after the max number of retries.
func (dsc *DefaultStatsCollector) AddRecordsFailed(count int) {
	dsc.RecordsFailed.Inc(int64(count))
}

// AddPutRecordsCalled records the number of times the PutRecords (or PutRecordBatch) API was called.
func (dsc *DefaultStatsCollector) AddPutRecordsCalled(count int) {
	dsc.PutRecordsCalled.Inc(int64(count))
}

// AddProvisionedThroughputExceeded records the number of records rejected because the stream was throttled.
func (dsc *DefaultStatsCollector) AddProvisionedThroughputExceeded(count int) {
	dsc.ProvisionedThroughputExceeded.Inc(int64(count))
}

// AddServiceUnavailable records the number of records Firehose rejected as ServiceUnavailable.
func (dsc *DefaultStatsCollector) AddServiceUnavailable(count int) {
	dsc.ServiceUnavailable.Inc(int64(count))
}

// UpdateWriteDuration records how long the last write of a batch took.
func (dsc *DefaultStatsCollector) UpdateWriteDuration(duration time.Duration) {
	dsc.WriteDuration.Update(duration)
}

// PrintStats logs the stats
func (dsc *DefaultStatsCollector) PrintStats() {
	log.Printf("Sink Stats: Rows Written: [%d]\n", dsc.RowsWritten.Count())
	log.Printf("Sink Stats: Batches Written: [%d]\n", dsc.BatchesWritten.Count())
	log.Printf("Sink Stats: Records Retried: [%d]\n", dsc.RecordsRetried.Count())
	log.Printf("Sink Stats: Records Failed: [%d]\n", dsc.RecordsFailed.Count())
	log.Printf("Sink Stats: PutRecords Called: [%d]\n", dsc.PutRecordsCalled.Count())
	log.Printf("Sink Stats: Provisioned Throughput Exceeded: [%d]\n", dsc.ProvisionedThroughputExceeded.Count())
	log.Printf("Sink Stats: Service Unavailable: [%d]\n", dsc.ServiceUnavailable.Count())
	log.Printf("Sink Stats: Write Duration (mean ns): [%.0f]\n", dsc.WriteDuration.Mean())
}
