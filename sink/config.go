package sink

import (
	"time"

	"github.com/aws/aws-sdk-go/aws"

	"github.com/rewardStyle/rowloader/logging"
)

// streamOptions holds the settings shared by the Kinesis and Firehose sinks
type streamOptions struct {
	batchLimit       int            // maximum number of records per API call
	maxRetryAttempts int            // maximum number of retry attempts for failed records
	retryDelay       time.Duration  // pause between retries of failed records
	Stats            StatsCollector // stats collection mechanism
}

// StreamConfig is used to configure a Kinesis or Firehose sink.
type StreamConfig struct {
	*streamOptions
	AwsConfig *aws.Config
	LogLevel  aws.LogLevelType
}

// NewStreamConfig creates a new instance of StreamConfig.
func NewStreamConfig(cfg *aws.Config) *StreamConfig {
	return &StreamConfig{
		AwsConfig: cfg,
		streamOptions: &streamOptions{
			batchLimit:       500,
			maxRetryAttempts: 10,
			retryDelay:       100 * time.Millisecond,
			Stats:            &NilStatsCollector{},
		},
		LogLevel: logging.Mask(cfg.LogLevel.Value()),
	}
}

// SetBatchLimit caps the number of records sent per API call.  Both PutRecords and PutRecordBatch accept at most
// 500 records, larger values are ignored.
func (c *StreamConfig) SetBatchLimit(limit int) {
	if limit > 0 && limit <= 500 {
		c.batchLimit = limit
	}
}

// SetMaxRetryAttempts controls the number of times a record can be retried before the sink gives up.
func (c *StreamConfig) SetMaxRetryAttempts(attempts int) {
	c.maxRetryAttempts = attempts
}

// SetRetryDelay sets the pause between retries of failed records.
func (c *StreamConfig) SetRetryDelay(delay time.Duration) {
	c.retryDelay = delay
}

// SetStatsCollector configures a listener to handle sink metrics.
func (c *StreamConfig) SetStatsCollector(stats StatsCollector) {
	c.Stats = stats
}

// SetLogLevel configures the rowloader log level.
func (c *StreamConfig) SetLogLevel(logLevel aws.LogLevelType) {
	c.LogLevel = logging.Mask(logLevel)
}

// discardOptions holds the settings of a Discard sink
type discardOptions struct {
	latency time.Duration  // time spent "writing" each message
	Stats   StatsCollector // stats collection mechanism
}

// DiscardConfig is used to configure a Discard sink.
type DiscardConfig struct {
	*discardOptions
}

// NewDiscardConfig creates a new instance of DiscardConfig.
func NewDiscardConfig() *DiscardConfig {
	return &DiscardConfig{
		discardOptions: &discardOptions{
			Stats: &NilStatsCollector{},
		},
	}
}

// SetLatency makes the sink hold each message for the given duration before acknowledging it.
func (c *DiscardConfig) SetLatency(latency time.Duration) {
	c.latency = latency
}

// SetStatsCollector configures a listener to handle sink metrics.
func (c *DiscardConfig) SetStatsCollector(stats StatsCollector) {
	c.Stats = stats
}

// postgresOptions holds the settings of a Postgres sink
type postgresOptions struct {
	schema      string         // schema the origin tables live in
	createTable bool           // whether to create the origin table on first use
	Stats       StatsCollector // stats collection mechanism
}

// PostgresConfig is used to configure a Postgres sink.
type PostgresConfig struct {
	*postgresOptions
	Logger   aws.Logger
	LogLevel aws.LogLevelType
}

// NewPostgresConfig creates a new instance of PostgresConfig.
func NewPostgresConfig() *PostgresConfig {
	return &PostgresConfig{
		postgresOptions: &postgresOptions{
			schema:      "public",
			createTable: true,
			Stats:       &NilStatsCollector{},
		},
		LogLevel: logging.LogOff,
	}
}

// SetSchema sets the schema the origin tables are written to.
func (c *PostgresConfig) SetSchema(schema string) {
	if schema != "" {
		c.schema = schema
	}
}

// SetCreateTable controls whether the sink creates missing origin tables.
func (c *PostgresConfig) SetCreateTable(create bool) {
	c.createTable = create
}

// SetStatsCollector configures a listener to handle sink metrics.
func (c *PostgresConfig) SetStatsCollector(stats StatsCollector) {
	c.Stats = stats
}

// SetLogger configures the logger used by the sink.
func (c *PostgresConfig) SetLogger(logger aws.Logger) {
	c.Logger = logger
}

// SetLogLevel configures the rowloader log level.
func (c *PostgresConfig) SetLogLevel(logLevel aws.LogLevelType) {
	c.LogLevel = logging.Mask(logLevel)
}
