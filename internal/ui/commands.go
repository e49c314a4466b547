package ui

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/atomicstack/tmux-popup-links/internal/logging"
	"github.com/atomicstack/tmux-popup-links/internal/logging/events"
	"github.com/atomicstack/tmux-popup-links/internal/ui/command"
	uistate "github.com/atomicstack/tmux-popup-links/internal/ui/state"
)

// copyResultMsg reports the outcome of a clipboard write.
type copyResultMsg struct {
	url string
	err error
}

func (m *Model) handleNavigationResultMsg(msg tea.Msg) tea.Cmd {
	res, ok := msg.(command.Result)
	if !ok {
		return nil
	}
	if res.Err != nil {
		logging.Errorf(fmt.Sprintf("navigate %s", res.To), res.Err)
	}
	if res.NewContext {
		if res.Err != nil {
			events.Action.Error(res.Err)
		} else {
			events.Action.Success(fmt.Sprintf("opened %s", res.To))
		}
		return nil
	}
	// A completion from a hidden or disposed session leaves the current
	// panel alone, but the viewer has still moved.
	menu := m.menuByID(res.MenuID)
	current := menu != nil && menu.EndNavigation(res.To, res.Generation)
	if current {
		events.Navigate.Done(menu.Name, res.To, res.Err)
	} else {
		events.Navigate.Dropped(res.Menu, res.To)
	}
	if res.Err != nil {
		return nil
	}
	if !m.stay {
		events.App.Quit("navigated")
		return tea.Quit
	}
	if current {
		m.hideMenu(menu, events.HideSelection)
	}
	return nil
}

func (m *Model) copyCursorLink(menu *uistate.Menu) tea.Cmd {
	item, ok := menu.CursorItem()
	if !ok {
		return nil
	}
	url, err := m.resolver.Resolve(item.To)
	if err != nil {
		m.errMsg = err.Error()
		return nil
	}
	write := m.clipboard
	return func() tea.Msg {
		return copyResultMsg{url: url, err: write(url)}
	}
}

func (m *Model) handleCopyResultMsg(msg tea.Msg) tea.Cmd {
	res, ok := msg.(copyResultMsg)
	if !ok {
		return nil
	}
	if res.err != nil {
		m.errMsg = fmt.Sprintf("copy failed: %v", res.err)
		events.Action.Error(res.err)
		return nil
	}
	m.setInfo(fmt.Sprintf("Copied %s", res.url))
	events.Action.Copy(res.url)
	return nil
}
