package logging

import (
	. "github.com/smartystreets/goconvey/convey"

	"fmt"
	"testing"

	"github.com/aws/aws-sdk-go/aws"
)

type recordingLogger struct {
	lines []string
}

func (r *recordingLogger) Log(args ...interface{}) {
	r.lines = append(r.lines, fmt.Sprint(args...))
}

func TestLogHelper(t *testing.T) {
	Convey("given a LogHelper at the info level", t, func() {
		logger := &recordingLogger{}
		l := &LogHelper{LogLevel: LogInfo, Logger: logger}

		Convey("check that errors and info messages are logged", func() {
			l.LogError("error")
			l.LogInfo("info")
			So(logger.lines, ShouldResemble, []string{"error", "info"})
		})

		Convey("check that debug messages are dropped", func() {
			l.LogDebug("debug")
			So(logger.lines, ShouldBeEmpty)
		})
	})

	Convey("given a LogHelper that is turned off", t, func() {
		logger := &recordingLogger{}
		l := &LogHelper{LogLevel: LogOff, Logger: logger}
		l.LogBug("bug")
		l.LogError("error")
		So(logger.lines, ShouldBeEmpty)
	})

	Convey("given a nil LogHelper", t, func() {
		var l *LogHelper
		So(func() { l.LogError("error") }, ShouldNotPanic)
	})

	Convey("check that Mask strips the sdk bits", t, func() {
		So(Mask(LogDebug|aws.LogDebugWithHTTPBody), ShouldEqual, LogDebug)
	})
}
