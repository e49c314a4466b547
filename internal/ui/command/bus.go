package command

import (
	"context"
	"errors"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/atomicstack/tmux-popup-links/internal/logging/events"
	"github.com/atomicstack/tmux-popup-links/internal/nav"
)

var ErrNoNavigator = errors.New("no navigator configured")

// Request describes a link activation.
type Request struct {
	MenuID     int
	Menu       string
	To         string
	Generation uint64
	NewContext bool
}

// Result is delivered to the model once the navigator returns.
type Result struct {
	Request
	Err error
}

// Bus runs navigation requests off the UI loop.
type Bus struct {
	nav     nav.Navigator
	timeout time.Duration
}

// New initialises a command bus. A zero timeout leaves in-place navigation
// unbounded.
func New(n nav.Navigator, timeout time.Duration) *Bus {
	return &Bus{nav: n, timeout: timeout}
}

// Execute wraps a navigation into a Bubble Tea command while emitting trace logs.
func (b *Bus) Execute(req Request) tea.Cmd {
	events.Command.Queue(req.Menu, req.To)
	return func() tea.Msg {
		if b == nil || b.nav == nil {
			events.Command.Skip(req.Menu, req.To)
			return Result{Request: req, Err: ErrNoNavigator}
		}
		var err error
		if req.NewContext {
			err = b.nav.OpenInNewContext(req.To)
		} else {
			ctx := context.Background()
			if b.timeout > 0 {
				var cancel context.CancelFunc
				ctx, cancel = context.WithTimeout(ctx, b.timeout)
				defer cancel()
			}
			err = b.nav.Navigate(ctx, req.To)
		}
		outcome := "ok"
		if err != nil {
			outcome = err.Error()
		}
		events.Command.Result(req.Menu, req.To, outcome)
		return Result{Request: req, Err: err}
	}
}
