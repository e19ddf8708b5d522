package dashboard

import (
	. "github.com/smartystreets/goconvey/convey"

	"testing"

	ui "github.com/gizak/termui/v3"
)

func TestSparklineData(t *testing.T) {
	Convey("given a newest-first history", t, func() {
		history := []uint64{30, 20, 10}

		Convey("check that the newest value ends up on the right", func() {
			data, max := sparklineData(history, 10)
			So(data, ShouldResemble, []float64{10, 20, 30})
			So(max, ShouldEqual, 30)
		})

		Convey("check that only the newest values that fit are kept", func() {
			data, max := sparklineData(history, 2)
			So(data, ShouldResemble, []float64{20, 30})
			So(max, ShouldEqual, 30)
		})

		Convey("check that a widget without room gets no data", func() {
			data, _ := sparklineData(history, 0)
			So(data, ShouldBeEmpty)
			data, _ = sparklineData(history, -2)
			So(data, ShouldBeEmpty)
		})

		Convey("check that an all-zero history is scaled to at least 1", func() {
			data, max := sparklineData([]uint64{0, 0}, 10)
			So(data, ShouldResemble, []float64{0, 0})
			So(max, ShouldEqual, 1)
		})
	})
}

func TestView(t *testing.T) {
	Convey("given a view", t, func() {
		v := newView(40, 10)
		So(v.group.Inner.Dx(), ShouldEqual, 38)

		Convey("check that the title carries the state and the humanized summary", func() {
			v.update([]uint64{1234, 0, 5000}, Running)
			So(v.group.Title, ShouldContainSubstring, "state: Running")
			So(v.group.Title, ShouldContainSubstring, "min: 0")
			So(v.group.Title, ShouldContainSubstring, "avg: 2,078")
			So(v.group.Title, ShouldContainSubstring, "max: 5,000")
			So(v.group.Title, ShouldContainSubstring, "last: 1,234")
			So(v.line.Data, ShouldResemble, []float64{5000, 0, 1234})
			So(v.line.MaxVal, ShouldEqual, 5000)
			So(v.group.BorderStyle.Fg, ShouldEqual, ui.ColorGreen)
		})

		Convey("check that a stopped view is marked", func() {
			v.update(nil, Stopped)
			So(v.group.Title, ShouldContainSubstring, "state: Stopped")
			So(v.group.Title, ShouldContainSubstring, "last: 0")
			So(v.group.BorderStyle.Fg, ShouldEqual, ui.ColorYellow)
		})

		Convey("check that resizing changes how much history is drawn", func() {
			v.resize(4, 10)
			v.update([]uint64{3, 2, 1}, Running)
			So(v.line.Data, ShouldResemble, []float64{2, 3})
		})
	})
}
