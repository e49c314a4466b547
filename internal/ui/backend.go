package ui

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/atomicstack/tmux-popup-links/internal/backend"
	"github.com/atomicstack/tmux-popup-links/internal/links"
	"github.com/atomicstack/tmux-popup-links/internal/logging"
	"github.com/atomicstack/tmux-popup-links/internal/logging/events"
	uistate "github.com/atomicstack/tmux-popup-links/internal/ui/state"
)

func waitForBackendEvent(w *backend.Watcher) tea.Cmd {
	return func() tea.Msg {
		evt, ok := <-w.Events()
		if !ok {
			return backendDoneMsg{}
		}
		return backendEventMsg{event: evt}
	}
}

type backendEventMsg struct {
	event backend.Event
}

type backendDoneMsg struct{}

func (m *Model) handleBackendEventMsg(msg tea.Msg) tea.Cmd {
	eventMsg, ok := msg.(backendEventMsg)
	if !ok {
		return nil
	}
	cmd := m.applyBackendEvent(eventMsg.event)
	if m.backend != nil {
		waitCmd := waitForBackendEvent(m.backend)
		if cmd != nil {
			return tea.Batch(cmd, waitCmd)
		}
		return waitCmd
	}
	return cmd
}

func (m *Model) handleBackendDoneMsg(msg tea.Msg) tea.Cmd {
	m.backend = nil
	return nil
}

// applyBackendEvent feeds a reload through the dispatcher and rebuilds the
// trigger row from the stored catalog. A failed reload keeps the current
// menus and shows a warning.
func (m *Model) applyBackendEvent(evt backend.Event) tea.Cmd {
	res := m.dispatcher.Handle(evt)
	if res.Err != nil {
		m.backendLastErr = res.Err.Error()
		logging.Errorf("reload links", res.Err)
		return nil
	}
	m.backendLastErr = ""
	if !res.LinksUpdated {
		return nil
	}
	return m.syncMenus(m.catalog.Menus())
}

// syncMenus matches menus to specs by name. Surviving menus keep their
// query and visible count and recompute against the new options; menus
// with no spec are disposed; new specs get fresh closed menus.
func (m *Model) syncMenus(specs []links.MenuSpec) tea.Cmd {
	var focusID int
	if focused := m.focusedMenu(); focused != nil {
		focusID = focused.ID
	}
	existing := make(map[string]*uistate.Menu, len(m.menus))
	for _, menu := range m.menus {
		existing[strings.ToLower(menu.Name)] = menu
	}

	var cmds []tea.Cmd
	next := make([]*uistate.Menu, 0, len(specs))
	for _, spec := range specs {
		key := strings.ToLower(spec.Name)
		menu, ok := existing[key]
		if !ok {
			next = append(next, m.newMenu(spec))
			continue
		}
		delete(existing, key)
		seq := menu.SetOptions(spec)
		if menu.Input != "" {
			cmds = append(cmds, m.recomputeCmd(menu, seq))
		}
		next = append(next, menu)
	}
	for _, gone := range existing {
		if gone.Open {
			m.hideMenu(gone, events.HideReload)
		}
		gone.Dispose()
		events.Menu.Dispose(gone.Name)
	}
	m.menus = next

	m.focus = 0
	for i, menu := range m.menus {
		if menu.ID == focusID {
			m.focus = i
			break
		}
	}
	if open := m.openMenu(); open != nil {
		m.syncViewport(open)
	}
	if len(cmds) == 0 {
		return nil
	}
	return tea.Batch(cmds...)
}
