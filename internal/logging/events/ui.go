package events

import "github.com/atomicstack/tmux-popup-links/internal/logging"

type MenuTracer struct{}

type FilterTracer struct{}

type ActionTracer struct{}

type CommandTracer struct{}

// HideReason records why a panel closed.
type HideReason string

const (
	HideEscape    HideReason = "escape"
	HideOutside   HideReason = "outside"
	HideSelection HideReason = "selection"
	HideReload    HideReason = "reload"
	HideTrigger   HideReason = "trigger"
)

var (
	Menu    = MenuTracer{}
	Filter  = FilterTracer{}
	Action  = ActionTracer{}
	Command = CommandTracer{}
)

func (MenuTracer) Focus(menu string, index int) {
	logging.Trace("menu.focus", map[string]interface{}{"menu": menu, "index": index})
}

func (MenuTracer) Show(menu string, options int) {
	logging.Trace("menu.show", map[string]interface{}{"menu": menu, "options": options})
}

func (MenuTracer) Hide(menu string, reason HideReason) {
	logging.Trace("menu.hide", map[string]interface{}{"menu": menu, "reason": string(reason)})
}

func (MenuTracer) SeeMore(menu string, visible int) {
	logging.Trace("menu.see-more", map[string]interface{}{"menu": menu, "visible": visible})
}

func (MenuTracer) Cursor(menu string, cursor int) {
	logging.Trace("menu.cursor", map[string]interface{}{"menu": menu, "cursor": cursor})
}

func (MenuTracer) Dispose(menu string) {
	logging.Trace("menu.dispose", map[string]interface{}{"menu": menu})
}

func (FilterTracer) Query(menu, query string, seq uint64) {
	logging.Trace("filter.query", map[string]interface{}{"menu": menu, "query": query, "seq": seq})
}

func (FilterTracer) Applied(menu, query string, matches int) {
	logging.Trace("filter.applied", map[string]interface{}{"menu": menu, "query": query, "matches": matches})
}

func (FilterTracer) Stale(menu string, seq, latest uint64) {
	logging.Trace("filter.stale", map[string]interface{}{"menu": menu, "seq": seq, "latest": latest})
}

func (ActionTracer) Error(err error) {
	if err == nil {
		return
	}
	logging.Trace("action.error", map[string]interface{}{"error": err.Error()})
}

func (ActionTracer) Success(info string) {
	logging.Trace("action.success", map[string]interface{}{"info": info})
}

func (ActionTracer) Copy(url string) {
	logging.Trace("action.copy", map[string]interface{}{"url": url})
}

func (CommandTracer) Queue(id, label string) {
	logging.Trace("command.queue", map[string]interface{}{"id": id, "label": label})
}

func (CommandTracer) Skip(id, label string) {
	logging.Trace("command.skip", map[string]interface{}{"id": id, "label": label})
}

func (CommandTracer) Result(id, label, outcome string) {
	logging.Trace("command.result", map[string]interface{}{"id": id, "label": label, "outcome": outcome})
}
