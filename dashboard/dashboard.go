package dashboard

import (
	"context"
	"time"

	ui "github.com/gizak/termui/v3"

	"github.com/rewardStyle/rowloader/errs"
	"github.com/rewardStyle/rowloader/logging"
	"github.com/rewardStyle/rowloader/stats"
)

// Dashboard renders the throughput reported on a stats channel once per tick until a quit key is pressed.
type Dashboard struct {
	*dashboardOptions
	*logging.LogHelper

	screen Screen
	app    *App
	view   *view
}

// NewDashboard creates a dashboard drawing on screen and reading from receiver.
func NewDashboard(screen Screen, receiver *stats.Receiver, fn ...func(*Config)) (*Dashboard, error) {
	cfg := NewConfig()
	for _, f := range fn {
		f(cfg)
	}
	if cfg.tickRate <= 0 {
		return nil, errs.ErrInvalidTickRate
	}
	if cfg.historySize < 1 {
		return nil, errs.ErrInvalidHistorySize
	}
	return &Dashboard{
		dashboardOptions: cfg.dashboardOptions,
		LogHelper: &logging.LogHelper{
			LogLevel: cfg.LogLevel,
			Logger:   cfg.Logger,
		},
		screen: screen,
		app:    NewApp(receiver, cfg.historySize),
	}, nil
}

// App returns the aggregation state behind the dashboard.
func (d *Dashboard) App() *App {
	return d.app
}

// Run takes over the screen until a quit key is pressed or ctx is cancelled, both of which return nil.  Each
// pass renders, waits for a terminal event for what is left of the tick, then aggregates once a full tick has
// passed since the previous aggregation finished.
func (d *Dashboard) Run(ctx context.Context) error {
	if err := d.screen.Init(); err != nil {
		return err
	}
	defer d.screen.Close()

	d.view = newView(d.screen.Dimensions())
	events := d.screen.PollEvents()

	timer := time.NewTimer(d.tickRate)
	defer timer.Stop()

	lastTick := time.Now()
	for {
		d.render()

		timeout := d.tickRate - time.Since(lastTick)
		if timeout < 0 {
			timeout = 0
		}
		if !timer.Stop() {
			select {
			case <-timer.C:
			default:
			}
		}
		timer.Reset(timeout)

		select {
		case <-ctx.Done():
			return nil
		case e, ok := <-events:
			if !ok {
				return errs.ErrTerminalClosed
			}
			if d.isQuit(e) {
				d.LogDebug("Quit key pressed:", e.ID)
				return nil
			}
			if e.Type == ui.ResizeEvent {
				if payload, ok := e.Payload.(ui.Resize); ok {
					d.view.resize(payload.Width, payload.Height)
					d.screen.Clear()
				}
			}
		case <-timer.C:
		}

		if time.Since(lastTick) >= d.tickRate {
			before := d.app.State()
			d.app.OnTick()
			if before == Running && d.app.State() == Stopped {
				d.LogInfo("Every producer disconnected, dashboard stopped")
			}
			lastTick = time.Now()
		}
	}
}

func (d *Dashboard) render() {
	d.view.update(d.app.History(), d.app.State())
	d.screen.Render(d.view.group)
}

func (d *Dashboard) isQuit(e ui.Event) bool {
	if e.Type != ui.KeyboardEvent {
		return false
	}
	for _, key := range d.quitKeys {
		if e.ID == key {
			return true
		}
	}
	return false
}
