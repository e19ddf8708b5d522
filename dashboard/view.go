package dashboard

import (
	"fmt"

	"github.com/dustin/go-humanize"
	ui "github.com/gizak/termui/v3"
	"github.com/gizak/termui/v3/widgets"
)

// view is a single bordered sparkline of rows per tick with the summary in its title.
type view struct {
	line  *widgets.Sparkline
	group *widgets.SparklineGroup
}

func newView(width, height int) *view {
	line := widgets.NewSparkline()
	line.LineColor = ui.ColorRed

	group := widgets.NewSparklineGroup(line)
	group.TitleStyle.Fg = ui.ColorWhite

	v := &view{line: line, group: group}
	v.resize(width, height)
	return v
}

func (v *view) resize(width, height int) {
	v.group.SetRect(0, 0, width, height)
}

// update refreshes the title and sparkline from a newest-first history.
func (v *view) update(history []uint64, state State) {
	s := Summarize(history)
	v.group.Title = fmt.Sprintf(" Rate |state: %s |min: %s |avg: %s |max: %s |last: %s ",
		state,
		humanize.Comma(int64(s.Min)),
		humanize.Comma(int64(s.Avg)),
		humanize.Comma(int64(s.Max)),
		humanize.Comma(int64(s.Last)),
	)

	if state == Stopped {
		v.group.BorderStyle.Fg = ui.ColorYellow
	} else {
		v.group.BorderStyle.Fg = ui.ColorGreen
	}

	data, max := sparklineData(history, v.group.Inner.Dx())
	v.line.Data = data
	v.line.MaxVal = max
}

// sparklineData lays a newest-first history out oldest to newest so the newest tick sits at the right edge,
// keeping only the newest width ticks.  The returned scale is never below 1 so an all-zero history still draws.
func sparklineData(history []uint64, width int) ([]float64, float64) {
	n := len(history)
	if width < n {
		n = width
	}
	if n < 0 {
		n = 0
	}

	data := make([]float64, n)
	max := 1.0
	for i := 0; i < n; i++ {
		value := float64(history[n-1-i])
		data[i] = value
		if value > max {
			max = value
		}
	}
	return data, max
}
