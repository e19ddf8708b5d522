package errs

import (
	"errors"
)

var (
	// ErrSinkClosed is returned by a Producer when the receiving end of its hand-off is gone, i.e. the sink
	// stopped consuming while the producer still had messages to offer.
	ErrSinkClosed = errors.New("Sink closed the hand-off, failed to send message")

	// ErrNilSink is returned when a Producer is created without a sink
	ErrNilSink = errors.New("Producer requires a non-nil sink")

	// ErrNilSinkFactory is returned when a Pool is created without a way to build sinks
	ErrNilSinkFactory = errors.New("Pool requires a non-nil sink factory")

	// ErrInvalidBatchSize is returned when the batch size is configured incorrectly
	ErrInvalidBatchSize = errors.New("Invalid batch size")

	// ErrInvalidWorkerCount is returned when the number of producers is configured incorrectly
	ErrInvalidWorkerCount = errors.New("Invalid worker count")

	// ErrInvalidBatchQuota is returned when the batch quota is configured incorrectly
	ErrInvalidBatchQuota = errors.New("Invalid batch quota")

	// ErrInvalidRateLimit is returned when a rate limit is configured incorrectly
	ErrInvalidRateLimit = errors.New("Invalid rate limit")
)

var (
	// ErrStatsEmpty is returned by a non-blocking receive on the stats channel when nothing is pending.
	ErrStatsEmpty = errors.New("Stats channel is empty")

	// ErrStatsDisconnected is returned by a receive on the stats channel once every sender has been
	// released and the pending samples have been drained.
	ErrStatsDisconnected = errors.New("Stats channel disconnected")

	// ErrStatsClosed is returned when sending on a stats channel whose sender or receiver has been released
	ErrStatsClosed = errors.New("Stats channel closed")
)

var (
	// ErrTerminalInit is returned when the terminal backend cannot be initialized
	ErrTerminalInit = errors.New("Unable to initialize terminal")

	// ErrTerminalClosed is returned when the terminal event stream ends unexpectedly
	ErrTerminalClosed = errors.New("Terminal event stream closed")

	// ErrInvalidHistorySize is returned when the rolling history cap is configured incorrectly
	ErrInvalidHistorySize = errors.New("Invalid history size")

	// ErrInvalidTickRate is returned when the dashboard tick rate is configured incorrectly
	ErrInvalidTickRate = errors.New("Invalid tick rate")
)

var (
	// ErrUnknownSink is returned when the configured sink kind is not supported
	ErrUnknownSink = errors.New("Unknown sink")

	// ErrNilPutRecordsResponse is returned when the PutRecords call returns a nil response.
	ErrNilPutRecordsResponse = errors.New("PutRecords returned a nil response")

	// ErrNilFailedRecordCount is returned when the PutRecords call returns a nil FailedRecordCount.
	ErrNilFailedRecordCount = errors.New("GetFailedRecordCount returned a nil FailedRecordCount")

	// ErrRetriesExhausted is returned by a sink when records keep failing after the max number of retries
	ErrRetriesExhausted = errors.New("Records failed after max retry attempts")

	// ErrShortCopy is returned by the postgres sink when COPY wrote fewer rows than it was given
	ErrShortCopy = errors.New("COPY wrote fewer rows than requested")

	// ErrInvalidMaxRetryAttempts is returned when the Max Retry Attempts is configured incorrectly
	ErrInvalidMaxRetryAttempts = errors.New("Invalid Max Retry Attempts")
)
