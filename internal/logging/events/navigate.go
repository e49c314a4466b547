package events

import "github.com/atomicstack/tmux-popup-links/internal/logging"

type NavigateTracer struct{}

var Navigate = NavigateTracer{}

func (NavigateTracer) Start(menu, to string) {
	logging.Trace("navigate.start", map[string]interface{}{"menu": menu, "to": to})
}

func (NavigateTracer) Done(menu, to string, err error) {
	payload := map[string]interface{}{"menu": menu, "to": to}
	if err != nil {
		payload["error"] = err.Error()
	}
	logging.Trace("navigate.done", payload)
}

func (NavigateTracer) Dropped(menu, to string) {
	logging.Trace("navigate.dropped", map[string]interface{}{"menu": menu, "to": to})
}

func (NavigateTracer) NewContext(menu, to string) {
	logging.Trace("navigate.new-context", map[string]interface{}{"menu": menu, "to": to})
}

func (NavigateTracer) Route(from, to string) {
	logging.Trace("navigate.route", map[string]interface{}{"from": from, "to": to})
}
