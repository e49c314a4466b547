package events

import "github.com/atomicstack/tmux-popup-links/internal/logging"

type AppTracer struct{}

var App = AppTracer{}

func (AppTracer) Start(payload map[string]interface{}) {
	logging.Trace("app.start", payload)
}

func (AppTracer) Terminal(details interface{}) {
	logging.Trace("app.terminal", details)
}

func (AppTracer) Quit(reason string) {
	logging.Trace("app.quit", map[string]interface{}{"reason": reason})
}

// Exit records where in-place navigation left the origin pane.
func (AppTracer) Exit(current string, history []string) {
	logging.Trace("app.exit", map[string]interface{}{"route": current, "history": history})
}
