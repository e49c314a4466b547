package ui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/atomicstack/tmux-popup-links/internal/links"
	"github.com/atomicstack/tmux-popup-links/internal/logging/events"
	"github.com/atomicstack/tmux-popup-links/internal/match"
	uistate "github.com/atomicstack/tmux-popup-links/internal/ui/state"
)

// filterResultMsg carries a ranked option list back to the loop.
type filterResultMsg struct {
	menuID  int
	seq     uint64
	query   string
	matches []links.LinkOption
}

var byLabel = func(o links.LinkOption) string { return o.Label }

// handleTextInput echoes a keystroke into the search box right away and
// schedules the match recompute as a separate command.
func (m *Model) handleTextInput(menu *uistate.Menu, msg tea.KeyMsg) tea.Cmd {
	before := m.input.Value()
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	after := m.input.Value()
	if after == before {
		return cmd
	}
	m.errMsg = ""
	m.forceClearInfo()
	recompute := m.requestQuery(menu, after)
	if cmd == nil {
		return recompute
	}
	return tea.Batch(cmd, recompute)
}

func (m *Model) requestQuery(menu *uistate.Menu, text string) tea.Cmd {
	seq := menu.RequestQuery(text)
	events.Filter.Query(menu.Name, text, seq)
	return m.recomputeCmd(menu, seq)
}

// recomputeCmd ranks a snapshot of the menu's options. Options slices are
// replaced on reload, never mutated, so the snapshot is safe to read off the
// loop.
func (m *Model) recomputeCmd(menu *uistate.Menu, seq uint64) tea.Cmd {
	id := menu.ID
	query := menu.Input
	options := menu.Options
	opts := match.Options[links.LinkOption]{Key: byLabel, Threshold: m.threshold}
	return func() tea.Msg {
		return filterResultMsg{
			menuID:  id,
			seq:     seq,
			query:   query,
			matches: match.Rank(options, query, opts),
		}
	}
}

func (m *Model) handleFilterResultMsg(msg tea.Msg) tea.Cmd {
	res, ok := msg.(filterResultMsg)
	if !ok {
		return nil
	}
	menu := m.menuByID(res.menuID)
	if menu == nil {
		return nil
	}
	if !menu.ApplyMatches(res.seq, res.query, res.matches) {
		events.Filter.Stale(menu.Name, res.seq, menu.Latest())
		return nil
	}
	events.Filter.Applied(menu.Name, res.query, len(res.matches))
	m.syncViewport(menu)
	return nil
}
