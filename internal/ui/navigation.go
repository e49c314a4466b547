package ui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/atomicstack/tmux-popup-links/internal/links"
	"github.com/atomicstack/tmux-popup-links/internal/logging/events"
	"github.com/atomicstack/tmux-popup-links/internal/ui/command"
	uistate "github.com/atomicstack/tmux-popup-links/internal/ui/state"
)

func (m *Model) handleKeyMsg(msg tea.Msg) tea.Cmd {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return nil
	}
	if keyMsg.String() == "ctrl+c" {
		events.App.Quit("ctrl+c")
		return tea.Quit
	}
	if open := m.openMenu(); open != nil {
		return m.handlePanelKey(open, keyMsg)
	}
	return m.handleTriggerKey(keyMsg)
}

// handleTriggerKey handles keys while every panel is closed.
func (m *Model) handleTriggerKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "q", "esc":
		events.App.Quit(msg.String())
		return tea.Quit
	case "left", "h", "shift+tab":
		m.moveFocus(-1)
	case "right", "l", "tab":
		m.moveFocus(1)
	case "enter", " ", "down", "j":
		m.showMenu(m.focusedMenu())
	}
	return nil
}

// handlePanelKey handles keys while a panel is open. Anything not bound
// here goes to the search box.
func (m *Model) handlePanelKey(menu *uistate.Menu, msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "esc":
		m.hideMenu(menu, events.HideEscape)
		return nil
	case "up", "ctrl+p":
		m.moveCursor(menu, menu.MoveCursorUp)
		return nil
	case "down", "ctrl+n":
		m.moveCursor(menu, menu.MoveCursorDown)
		return nil
	case "pgup":
		m.moveCursor(menu, func() bool { return menu.MoveCursorPageUp(m.maxVisibleRows()) })
		return nil
	case "pgdown":
		m.moveCursor(menu, func() bool { return menu.MoveCursorPageDown(m.maxVisibleRows()) })
		return nil
	case "home":
		m.moveCursor(menu, menu.MoveCursorHome)
		return nil
	case "end":
		m.moveCursor(menu, menu.MoveCursorEnd)
		return nil
	case "tab":
		m.switchPanel(menu, 1)
		return nil
	case "shift+tab":
		m.switchPanel(menu, -1)
		return nil
	case "enter":
		return m.activateCursor(menu, false)
	case "alt+enter", "ctrl+o":
		return m.activateCursor(menu, true)
	case "ctrl+y":
		return m.copyCursorLink(menu)
	}
	return m.handleTextInput(menu, msg)
}

func (m *Model) moveCursor(menu *uistate.Menu, move func() bool) {
	if move() {
		events.Menu.Cursor(menu.Name, menu.Cursor)
	}
	m.syncViewport(menu)
}

func (m *Model) moveFocus(delta int) {
	n := len(m.menus)
	if n == 0 {
		return
	}
	m.focus = ((m.focus+delta)%n + n) % n
	events.Menu.Focus(m.menus[m.focus].Name, m.focus)
}

func (m *Model) switchPanel(open *uistate.Menu, delta int) {
	if len(m.menus) < 2 {
		return
	}
	m.hideMenu(open, events.HideSelection)
	m.moveFocus(delta)
	m.showMenu(m.focusedMenu())
}

// activateCursor acts on the row under the cursor: the "see more" row
// reveals another page, a link row navigates.
func (m *Model) activateCursor(menu *uistate.Menu, newContext bool) tea.Cmd {
	if menu.Cursor == menu.SeeMoreRow() {
		m.seeMore(menu)
		return nil
	}
	item, ok := menu.CursorItem()
	if !ok {
		return nil
	}
	return m.activateItem(menu, item, newContext)
}

func (m *Model) seeMore(menu *uistate.Menu) {
	if !menu.SeeMore() {
		return
	}
	events.Menu.SeeMore(menu.Name, menu.Visible)
	m.syncViewport(menu)
}

// activateItem opens item in a new context when newContext is set, without a
// loading flag. Otherwise it marks the item loading and navigates in place.
func (m *Model) activateItem(menu *uistate.Menu, item links.LinkOption, newContext bool) tea.Cmd {
	req := command.Request{MenuID: menu.ID, Menu: menu.Name, To: item.To}
	if newContext {
		req.NewContext = true
		events.Navigate.NewContext(menu.Name, item.To)
		m.hideMenu(menu, events.HideSelection)
		return m.bus.Execute(req)
	}
	if menu.IsLoading(item.To) {
		events.Command.Skip(menu.Name, item.To)
		return nil
	}
	req.Generation = menu.BeginNavigation(item.To)
	events.Navigate.Start(menu.Name, item.To)
	return m.bus.Execute(req)
}
