package events

import "github.com/atomicstack/tmux-popup-links/internal/logging"

type LinksTracer struct{}

var Links = LinksTracer{}

func (LinksTracer) Loaded(paths []string, menus int) {
	logging.Trace("links.loaded", map[string]interface{}{"paths": paths, "menus": menus})
}

func (LinksTracer) Duplicate(menu, to string) {
	logging.Trace("links.duplicate", map[string]interface{}{"menu": menu, "to": to})
}

func (LinksTracer) Reload(path string, err error) {
	payload := map[string]interface{}{"path": path}
	if err != nil {
		payload["error"] = err.Error()
	}
	logging.Trace("links.reload", payload)
}
