package logging

import (
	"github.com/aws/aws-sdk-go/aws"
)

// Log levels live in the upper 16 bits of aws.LogLevelType so a single value can configure both the SDK and
// rowloader.  Each level includes the ones below it.
const (
	// LogOff disables all logging.
	LogOff aws.LogLevelType = 0

	// LogBug enables logging of bugs in code.
	LogBug = LogOff | 1<<16

	// LogError enables logging of errors.
	LogError = LogBug | 1<<17

	// LogInfo enables logging of informational messages.
	LogInfo = LogError | 1<<18

	// LogDebug enables debug logging.
	LogDebug = LogInfo | 1<<19
)

// Mask strips the SDK bits from a log level.
func Mask(level aws.LogLevelType) aws.LogLevelType {
	return level & 0xffff0000
}

// LogHelper is used for defining log configuration
type LogHelper struct {
	LogLevel aws.LogLevelType
	Logger   aws.Logger
}

// Log handles levelled logging
func (l *LogHelper) Log(level aws.LogLevelType, args ...interface{}) {
	if l == nil || l.Logger == nil {
		return
	}
	if l.LogLevel.Matches(level) {
		l.Logger.Log(args...)
	}
}

// LogBug logs a BUG in the code.
func (l *LogHelper) LogBug(args ...interface{}) {
	l.Log(LogBug, args...)
}

// LogError logs an error.
func (l *LogHelper) LogError(args ...interface{}) {
	l.Log(LogError, args...)
}

// LogInfo logs an informational message.
func (l *LogHelper) LogInfo(args ...interface{}) {
	l.Log(LogInfo, args...)
}

// LogDebug logs a debug message.
func (l *LogHelper) LogDebug(args ...interface{}) {
	l.Log(LogDebug, args...)
}
