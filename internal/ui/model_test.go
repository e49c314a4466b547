package ui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/atomicstack/tmux-popup-links/internal/links"
	"github.com/atomicstack/tmux-popup-links/internal/nav"
	"github.com/atomicstack/tmux-popup-links/internal/ui/command"
	uistate "github.com/atomicstack/tmux-popup-links/internal/ui/state"
)

type stubNavigator struct {
	navigated []string
	opened    []string
	err       error
}

func (s *stubNavigator) Navigate(_ context.Context, path string) error {
	s.navigated = append(s.navigated, path)
	return s.err
}

func (s *stubNavigator) OpenInNewContext(path string) error {
	s.opened = append(s.opened, path)
	return s.err
}

func runes(text string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(text)}
}

func scenarioCatalog() links.Catalog {
	return links.Catalog{Menus: []links.MenuSpec{
		{Name: "Yields", Active: true, Links: []links.LinkOption{
			{Label: "A", To: "/a"},
			{Label: "B", To: "/b"},
			{Label: "Ab", To: "/ab"},
		}},
		{Name: "Chains", Links: []links.LinkOption{
			{Label: "Ethereum", To: "/chain/ethereum"},
		}},
	}}
}

func pagedCatalog(n int) links.Catalog {
	options := make([]links.LinkOption, n)
	for i := range options {
		options[i] = links.LinkOption{Label: fmt.Sprintf("Pool %02d", i), To: fmt.Sprintf("/pool/%d", i)}
	}
	return links.Catalog{Menus: []links.MenuSpec{{Name: "Yields", Links: options}}}
}

func newTestModel(cat links.Catalog, n nav.Navigator) *Model {
	return NewModel(Options{Catalog: cat, Navigator: n, InitialMenu: cat.Menus[0].Name})
}

func labelsOf(options []links.LinkOption) []string {
	out := make([]string, len(options))
	for i, o := range options {
		out[i] = o.Label
	}
	return out
}

func TestNewModelBuildsMenusAndFocusesActive(t *testing.T) {
	m := NewModel(Options{Catalog: scenarioCatalog()})
	if len(m.menus) != 2 {
		t.Fatalf("expected 2 menus, got %d", len(m.menus))
	}
	if m.focus != 0 {
		t.Fatalf("expected active menu focused, got %d", m.focus)
	}
	if m.openMenu() != nil {
		t.Fatalf("expected all panels closed without an initial menu")
	}
	if m.menus[0].ID == m.menus[1].ID {
		t.Fatalf("expected distinct menu ids")
	}
}

func TestInitialMenuStartsOpen(t *testing.T) {
	m := NewModel(Options{Catalog: scenarioCatalog(), InitialMenu: "chains"})
	open := m.openMenu()
	if open == nil || open.Name != "Chains" {
		t.Fatalf("expected Chains open, got %#v", open)
	}
	if m.focus != 1 {
		t.Fatalf("expected focus on Chains, got %d", m.focus)
	}
}

func TestUnknownInitialMenuStartsClosed(t *testing.T) {
	m := NewModel(Options{Catalog: scenarioCatalog(), InitialMenu: "Stables"})
	if open := m.openMenu(); open != nil {
		t.Fatalf("expected no panel open, got %q", open.Name)
	}
	if m.focus != 0 {
		t.Fatalf("expected focus on the active menu, got %d", m.focus)
	}
}

func TestKeystrokeEchoesBeforeFilterApplies(t *testing.T) {
	m := newTestModel(scenarioCatalog(), &stubNavigator{})
	menu := m.openMenu()

	_, cmd := m.Update(runes("a"))
	if got := m.input.Value(); got != "a" {
		t.Fatalf("expected echo of typed text, got %q", got)
	}
	if !strings.Contains(m.View(), "» a") {
		t.Fatalf("expected typed text in view before recompute, view =\n%s", m.View())
	}
	if menu.Query != "" || len(menu.Matches) != 3 {
		t.Fatalf("expected matches untouched until recompute lands, got %q/%d", menu.Query, len(menu.Matches))
	}
	if cmd == nil {
		t.Fatalf("expected recompute command")
	}

	m.Update(cmd())
	if menu.Query != "a" {
		t.Fatalf("expected applied query a, got %q", menu.Query)
	}
	got := labelsOf(menu.Matches)
	if len(got) != 2 || got[0] != "A" || got[1] != "Ab" {
		t.Fatalf("expected [A Ab], got %v", got)
	}
}

func TestStaleRecomputeIsDropped(t *testing.T) {
	m := newTestModel(scenarioCatalog(), &stubNavigator{})
	menu := m.openMenu()

	_, first := m.Update(runes("b"))
	_, second := m.Update(tea.KeyMsg{Type: tea.KeyBackspace})
	if m.input.Value() != "" {
		t.Fatalf("expected input cleared by backspace, got %q", m.input.Value())
	}

	m.Update(second())
	m.Update(first())
	if menu.Query != "" {
		t.Fatalf("expected stale result for %q to be dropped, query %q", "b", menu.Query)
	}
	if len(menu.Matches) != 3 {
		t.Fatalf("expected identity list, got %v", labelsOf(menu.Matches))
	}
}

func TestQueryNoResultsMessage(t *testing.T) {
	h := NewHarness(newTestModel(scenarioCatalog(), &stubNavigator{}))
	h.Send(runes("zzz"))
	view := h.View()
	if !strings.Contains(view, noResultsText) {
		t.Fatalf("expected no results message, view =\n%s", view)
	}
	if strings.Contains(view, "See more") {
		t.Fatalf("expected see more suppressed, view =\n%s", view)
	}
}

func TestEmptyMenuShowsNoResultsImmediately(t *testing.T) {
	cat := links.Catalog{Menus: []links.MenuSpec{{Name: "Empty"}}}
	h := NewHarness(NewModel(Options{Catalog: cat, InitialMenu: "Empty"}))
	if !strings.Contains(h.View(), noResultsText) {
		t.Fatalf("expected no results for empty option list, view =\n%s", h.View())
	}
}

func TestSeeMoreRevealsNextPage(t *testing.T) {
	h := NewHarness(newTestModel(pagedCatalog(25), &stubNavigator{}))
	menu := h.Model().openMenu()

	view := h.View()
	if !strings.Contains(view, "Pool 20") {
		t.Fatalf("expected the extra 21st row to render, view =\n%s", view)
	}
	if strings.Contains(view, "Pool 21") {
		t.Fatalf("expected rows past 21 hidden, view =\n%s", view)
	}
	if !strings.Contains(view, "See more") {
		t.Fatalf("expected see more control, view =\n%s", view)
	}

	h.Send(tea.KeyMsg{Type: tea.KeyEnd})
	if menu.Cursor != menu.SeeMoreRow() {
		t.Fatalf("expected cursor on see more row, got %d", menu.Cursor)
	}
	h.Send(tea.KeyMsg{Type: tea.KeyEnter})
	if menu.Visible != 40 {
		t.Fatalf("expected visible 40, got %d", menu.Visible)
	}
	view = h.View()
	if !strings.Contains(view, "Pool 24") || strings.Contains(view, "See more") {
		t.Fatalf("expected all rows and no see more, view =\n%s", view)
	}
}

func TestQueryChangeKeepsVisibleCount(t *testing.T) {
	h := NewHarness(newTestModel(pagedCatalog(60), &stubNavigator{}))
	menu := h.Model().openMenu()
	h.Model().seeMore(menu)
	h.Send(runes("pool"))
	if menu.Visible != 40 {
		t.Fatalf("expected visible count kept across query change, got %d", menu.Visible)
	}
}

func TestEscapeHidesAndResets(t *testing.T) {
	h := NewHarness(newTestModel(pagedCatalog(60), &stubNavigator{}))
	menu := h.Model().openMenu()
	h.Model().seeMore(menu)
	h.Send(runes("pool 1"))

	h.Send(tea.KeyMsg{Type: tea.KeyEsc})
	if menu.Open {
		t.Fatalf("expected panel closed")
	}
	if menu.Visible != uistate.PageSize || menu.Query != "" || h.Model().input.Value() != "" {
		t.Fatalf("expected reset on hide, visible=%d query=%q", menu.Visible, menu.Query)
	}

	h.Send(tea.KeyMsg{Type: tea.KeyEnter})
	if !menu.Open || len(menu.Matches) != 60 {
		t.Fatalf("expected reopened panel with identity list, open=%v matches=%d", menu.Open, len(menu.Matches))
	}
}

func TestPlainActivationTracksLoadingFlag(t *testing.T) {
	navigator := &stubNavigator{}
	m := newTestModel(scenarioCatalog(), navigator)
	menu := m.openMenu()

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if !menu.IsLoading("/a") {
		t.Fatalf("expected loading flag set immediately")
	}
	if !menu.Open {
		t.Fatalf("expected panel to stay open while navigating")
	}
	if !strings.Contains(m.View(), m.spinner.View()) {
		t.Fatalf("expected spinner next to loading item")
	}

	res := cmd()
	_, next := m.Update(res)
	if menu.IsLoading("/a") {
		t.Fatalf("expected flag cleared on completion")
	}
	if len(navigator.navigated) != 1 || navigator.navigated[0] != "/a" {
		t.Fatalf("expected navigation to /a, got %v", navigator.navigated)
	}
	if next == nil {
		t.Fatalf("expected quit after navigating in place")
	}
	if _, ok := next().(tea.QuitMsg); !ok {
		t.Fatalf("expected quit message")
	}
}

func TestFailedNavigationStillClearsFlag(t *testing.T) {
	navigator := &stubNavigator{err: errors.New("viewer crashed")}
	h := NewHarness(newTestModel(scenarioCatalog(), navigator))
	menu := h.Model().openMenu()

	h.Send(tea.KeyMsg{Type: tea.KeyEnter})
	if menu.Navigating() {
		t.Fatalf("expected flag cleared after failure")
	}
	if h.Quit() {
		t.Fatalf("expected popup to stay after failed navigation")
	}
	if strings.Contains(h.View(), "viewer crashed") {
		t.Fatalf("expected navigation failure not to be surfaced")
	}
}

func TestStayKeepsPopupAndClosesPanel(t *testing.T) {
	navigator := &stubNavigator{}
	m := NewModel(Options{Catalog: scenarioCatalog(), Navigator: navigator, InitialMenu: "Yields", Stay: true})
	h := NewHarness(m)
	h.Send(tea.KeyMsg{Type: tea.KeyEnter})
	if h.Quit() {
		t.Fatalf("expected stay to keep the popup running")
	}
	if m.openMenu() != nil {
		t.Fatalf("expected panel closed after selection")
	}
}

func TestModifierActivationOpensNewContext(t *testing.T) {
	for _, key := range []tea.KeyMsg{
		{Type: tea.KeyEnter, Alt: true},
		{Type: tea.KeyCtrlO},
	} {
		navigator := &stubNavigator{}
		m := newTestModel(scenarioCatalog(), navigator)
		menu := m.openMenu()
		menu.Cursor = 2

		_, cmd := m.Update(key)
		if menu.Navigating() {
			t.Fatalf("%s: expected no loading flag for new context", key)
		}
		if menu.Open {
			t.Fatalf("%s: expected panel dismissed", key)
		}
		m.Update(cmd())
		if len(navigator.opened) != 1 || navigator.opened[0] != "/ab" {
			t.Fatalf("%s: expected /ab opened, got %v", key, navigator.opened)
		}
		if len(navigator.navigated) != 0 {
			t.Fatalf("%s: expected no in-place navigation", key)
		}
	}
}

func TestCompletionAfterHideLeavesReopenedPanel(t *testing.T) {
	navigator := &stubNavigator{}
	m := NewModel(Options{Catalog: scenarioCatalog(), Navigator: navigator, InitialMenu: "Yields", Stay: true})
	menu := m.openMenu()
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	m.Update(tea.KeyMsg{Type: tea.KeyEnter})

	_, next := m.Update(cmd())
	if next != nil {
		t.Fatalf("expected stale completion to produce no command")
	}
	if !menu.Open || menu.Navigating() {
		t.Fatalf("expected reopened panel untouched, open=%v navigating=%v", menu.Open, menu.Navigating())
	}
}

func TestCompletionAfterHideStillQuits(t *testing.T) {
	navigator := &stubNavigator{}
	m := newTestModel(scenarioCatalog(), navigator)
	menu := m.openMenu()
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if menu.Open {
		t.Fatalf("expected panel hidden while navigating")
	}

	_, next := m.Update(cmd())
	if len(navigator.navigated) != 1 || navigator.navigated[0] != "/a" {
		t.Fatalf("expected navigation to /a, got %v", navigator.navigated)
	}
	if next == nil {
		t.Fatalf("expected quit once the hidden navigation landed")
	}
	if _, ok := next().(tea.QuitMsg); !ok {
		t.Fatalf("expected quit message")
	}
	if menu.Open || menu.Navigating() {
		t.Fatalf("expected hidden panel untouched, open=%v navigating=%v", menu.Open, menu.Navigating())
	}
}

func TestFailedCompletionAfterHideStaysRunning(t *testing.T) {
	navigator := &stubNavigator{err: errors.New("viewer crashed")}
	m := newTestModel(scenarioCatalog(), navigator)
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m.Update(tea.KeyMsg{Type: tea.KeyEsc})

	if _, next := m.Update(cmd()); next != nil {
		t.Fatalf("expected failed stale completion to be a no-op")
	}
}

func TestCompletionAfterDisposeSkipsFlags(t *testing.T) {
	m := NewModel(Options{Catalog: scenarioCatalog(), Navigator: &stubNavigator{}, InitialMenu: "Yields", Stay: true})
	menu := m.openMenu()
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})

	reloaded := links.Catalog{Menus: scenarioCatalog().Menus[1:]}
	m.Update(backendEventMsg{event: backendLinksEvent(reloaded)})
	if !menu.Disposed {
		t.Fatalf("expected removed menu to be disposed")
	}

	res := cmd().(command.Result)
	if _, next := m.Update(res); next != nil {
		t.Fatalf("expected completion on disposed menu to be a no-op")
	}
	if menu.Navigating() {
		t.Fatalf("expected no flag mutation on disposed menu")
	}
}

func TestTabSwitchesPanels(t *testing.T) {
	h := NewHarness(newTestModel(scenarioCatalog(), &stubNavigator{}))
	h.Send(runes("a"))
	h.Send(tea.KeyMsg{Type: tea.KeyTab})

	open := h.Model().openMenu()
	if open == nil || open.Name != "Chains" {
		t.Fatalf("expected Chains open after tab, got %#v", open)
	}
	if h.Model().input.Value() != "" {
		t.Fatalf("expected fresh search box for the new panel")
	}
	if h.Model().menus[0].Open || h.Model().menus[0].Input != "" {
		t.Fatalf("expected previous panel hidden and reset")
	}
}

func TestTriggerKeysMoveFocus(t *testing.T) {
	h := NewHarness(NewModel(Options{Catalog: scenarioCatalog()}))
	h.Send(tea.KeyMsg{Type: tea.KeyRight})
	if h.Model().focus != 1 {
		t.Fatalf("expected focus 1, got %d", h.Model().focus)
	}
	h.Send(tea.KeyMsg{Type: tea.KeyRight})
	if h.Model().focus != 0 {
		t.Fatalf("expected focus to wrap, got %d", h.Model().focus)
	}
	h.Send(tea.KeyMsg{Type: tea.KeyEnter})
	if open := h.Model().openMenu(); open == nil || open.Name != "Yields" {
		t.Fatalf("expected Yields open")
	}
	h.Send(tea.KeyMsg{Type: tea.KeyEsc})
	h.Send(runes("q"))
	if !h.Quit() {
		t.Fatalf("expected q to quit with panels closed")
	}
}

func TestCopyWritesResolvedURL(t *testing.T) {
	resolver, err := nav.NewResolver("https://defillama.com")
	if err != nil {
		t.Fatalf("resolver: %v", err)
	}
	var copied string
	m := NewModel(Options{
		Catalog:     scenarioCatalog(),
		Resolver:    resolver,
		InitialMenu: "Yields",
		Clipboard: func(s string) error {
			copied = s
			return nil
		},
	})
	h := NewHarness(m)
	h.Send(tea.KeyMsg{Type: tea.KeyCtrlY})
	if copied != "https://defillama.com/a" {
		t.Fatalf("expected resolved url copied, got %q", copied)
	}
	if !strings.Contains(h.View(), "Copied https://defillama.com/a") {
		t.Fatalf("expected copy confirmation, view =\n%s", h.View())
	}
}

func TestRoutesColumn(t *testing.T) {
	m := NewModel(Options{Catalog: scenarioCatalog(), InitialMenu: "Yields", ShowRoutes: true})
	view := m.View()
	if !strings.Contains(view, "Ab  /ab") {
		t.Fatalf("expected aligned route column, view =\n%s", view)
	}
}
