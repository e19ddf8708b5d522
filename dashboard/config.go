package dashboard

import (
	"time"

	"github.com/aws/aws-sdk-go/aws"

	"github.com/rewardStyle/rowloader/logging"
)

// dashboardOptions holds all of the configurable settings for a Dashboard
type dashboardOptions struct {
	tickRate    time.Duration // time between two aggregations of the stats channel
	historySize int           // number of ticks kept in the rolling history
	quitKeys    []string      // termui key ids that end the dashboard
}

// Config is used to configure a Dashboard instance.
type Config struct {
	*dashboardOptions
	Logger   aws.Logger
	LogLevel aws.LogLevelType
}

// NewConfig creates a new instance of Config.
func NewConfig() *Config {
	return &Config{
		dashboardOptions: &dashboardOptions{
			tickRate:    time.Second,
			historySize: 200,
			quitKeys:    []string{"q", "<C-c>"},
		},
		LogLevel: logging.LogOff,
	}
}

// SetTickRate configures the time between two aggregations of the stats channel.
func (c *Config) SetTickRate(rate time.Duration) {
	c.tickRate = rate
}

// SetHistorySize configures how many ticks the rolling history keeps.
func (c *Config) SetHistorySize(size int) {
	c.historySize = size
}

// SetQuitKeys replaces the keys that end the dashboard.
func (c *Config) SetQuitKeys(keys ...string) {
	c.quitKeys = keys
}

// SetLogger configures the logger used by the dashboard.
func (c *Config) SetLogger(logger aws.Logger) {
	c.Logger = logger
}

// SetLogLevel configures the rowloader log level.
func (c *Config) SetLogLevel(logLevel aws.LogLevelType) {
	c.LogLevel = logging.Mask(logLevel)
}
