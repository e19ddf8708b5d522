package dashboard

import (
	"github.com/rewardStyle/rowloader/errs"
	"github.com/rewardStyle/rowloader/stats"
)

// State is whether the producers feeding the dashboard are still connected.
type State int

const (
	// Running means at least one producer still holds a stats sender.
	Running State = iota

	// Stopped means every producer has released its sender.  A dashboard never leaves Stopped.
	Stopped
)

func (s State) String() string {
	if s == Stopped {
		return "Stopped"
	}
	return "Running"
}

// App aggregates the stats channel into a rolling history of per-tick row counts, newest first.  An App belongs
// to the goroutine running the dashboard; read it from elsewhere only after Run has returned.
type App struct {
	receiver    *stats.Receiver
	historySize int
	history     []uint64
	state       State
}

// NewApp creates an App that keeps at most historySize ticks.
func NewApp(receiver *stats.Receiver, historySize int) *App {
	return &App{
		receiver:    receiver,
		historySize: historySize,
		history:     make([]uint64, 0, historySize),
		state:       Running,
	}
}

// OnTick drains every pending sample.  When the channel runs empty the sum is pushed to the front of the
// history.  When the channel reports that every sender is gone the App switches to Stopped and the history is
// left untouched.
func (a *App) OnTick() {
	if a.state == Stopped {
		return
	}

	var count uint64
	for {
		sample, err := a.receiver.TryRecv()
		switch err {
		case nil:
			count += uint64(sample)
			continue
		case errs.ErrStatsEmpty:
			a.push(count)
		default:
			a.state = Stopped
		}
		return
	}
}

// push inserts value at the front and drops whatever falls past the cap.
func (a *App) push(value uint64) {
	if len(a.history) < a.historySize {
		a.history = append(a.history, 0)
	}
	copy(a.history[1:], a.history)
	a.history[0] = value
}

// History returns a copy of the rolling history, newest first.
func (a *App) History() []uint64 {
	return append([]uint64(nil), a.history...)
}

// State returns the current dashboard state.
func (a *App) State() State {
	return a.state
}

// Summary holds the figures shown next to the sparkline.
type Summary struct {
	Min  uint64
	Avg  uint64
	Max  uint64
	Last uint64
}

// Summarize computes the minimum, integer mean, maximum and most recent value of a newest-first history.  An
// empty history summarizes to all zeros.
func Summarize(history []uint64) Summary {
	if len(history) == 0 {
		return Summary{}
	}

	s := Summary{Min: history[0], Last: history[0]}
	var sum uint64
	for _, value := range history {
		if value < s.Min {
			s.Min = value
		}
		if value > s.Max {
			s.Max = value
		}
		sum += value
	}
	s.Avg = sum / uint64(len(history))
	return s
}
