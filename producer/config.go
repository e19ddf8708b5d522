package producer

import (
	"time"

	"github.com/aws/aws-sdk-go/aws"

	"github.com/rewardStyle/rowloader/logging"
)

// SeedFunc returns the generator seed for the producer with the given id.
type SeedFunc func(id int) uint64

// producerOptions holds all of the configurable settings for a Producer and the Pool running it
type producerOptions struct {
	batchSize      int            // number of rows per generated batch
	origin         string         // tag attached to every message
	batchQuota     int            // number of batches to send before idling
	hasQuota       bool           // whether batchQuota applies, unset means send indefinitely
	rateLimit      int            // maximum batches to be sent per cycle, 0 to disable rate limiting
	resetFrequency time.Duration  // duration of a cycle for the rate limiting model
	workerCount    int            // number of concurrent producers run by a Pool
	seed           SeedFunc       // seed source used by a Pool
	Stats          StatsCollector // stats collection mechanism
}

// Config is used to configure a Producer or a Pool instance.
type Config struct {
	*producerOptions
	Logger   aws.Logger
	LogLevel aws.LogLevelType
}

// NewConfig creates a new instance of Config.
func NewConfig() *Config {
	return &Config{
		producerOptions: &producerOptions{
			batchSize:      512,
			origin:         "metrics",
			resetFrequency: time.Second,
			workerCount:    1,
			seed:           wallClockSeed,
			Stats:          &NilStatsCollector{},
		},
		LogLevel: logging.LogOff,
	}
}

// SetBatchSize configures the number of rows in every generated batch.
func (c *Config) SetBatchSize(batchSize int) {
	c.batchSize = batchSize
}

// SetOrigin configures the origin tag attached to every message.
func (c *Config) SetOrigin(origin string) {
	c.origin = origin
}

// SetBatchQuota configures the number of batches each producer sends before it stops feeding its sink.  Without a
// quota the producer never stops on its own; a quota of 0 sends nothing.
func (c *Config) SetBatchQuota(quota int) {
	c.batchQuota = quota
	c.hasQuota = true
}

// SetRateLimit defines the maximum number of batches each producer sends per cycle.  0 disables rate limiting.
func (c *Config) SetRateLimit(limit int) {
	c.rateLimit = limit
}

// SetResetFrequency defines the frequency at which the rateLimiter resets
func (c *Config) SetResetFrequency(freq time.Duration) {
	c.resetFrequency = freq
}

// SetWorkerCount defines the number of concurrent producers a Pool runs
func (c *Config) SetWorkerCount(count int) {
	c.workerCount = count
}

// SetSeedFunc overrides how a Pool seeds the generator of each producer.
func (c *Config) SetSeedFunc(fn SeedFunc) {
	if fn != nil {
		c.seed = fn
	}
}

// SetStatsCollector configures a listener to handle producer metrics.
func (c *Config) SetStatsCollector(stats StatsCollector) {
	c.Stats = stats
}

// SetLogger configures the logger used by the producers.
func (c *Config) SetLogger(logger aws.Logger) {
	c.Logger = logger
}

// SetLogLevel configures the rowloader log level.
func (c *Config) SetLogLevel(logLevel aws.LogLevelType) {
	c.LogLevel = logging.Mask(logLevel)
}

func wallClockSeed(id int) uint64 {
	return uint64(time.Now().UnixNano()) + uint64(id)
}
