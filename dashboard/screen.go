package dashboard

import (
	ui "github.com/gizak/termui/v3"
	"github.com/pkg/errors"

	"github.com/rewardStyle/rowloader/errs"
)

// Screen is the terminal the dashboard draws on.
type Screen interface {
	Init() error
	Close()
	Clear()
	Render(items ...ui.Drawable)
	PollEvents() <-chan ui.Event
	Dimensions() (width, height int)
}

// termScreen is the termui backed Screen.
type termScreen struct{}

// NewTermScreen returns a Screen drawing on the process terminal.
func NewTermScreen() Screen {
	return termScreen{}
}

func (termScreen) Init() error {
	if err := ui.Init(); err != nil {
		return errors.Wrap(errs.ErrTerminalInit, err.Error())
	}
	return nil
}

func (termScreen) Close() {
	ui.Close()
}

func (termScreen) Clear() {
	ui.Clear()
}

func (termScreen) Render(items ...ui.Drawable) {
	ui.Render(items...)
}

func (termScreen) PollEvents() <-chan ui.Event {
	return ui.PollEvents()
}

func (termScreen) Dimensions() (int, int) {
	return ui.TerminalDimensions()
}
