package ui

import (
	"reflect"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/atomicstack/tmux-popup-links/internal/backend"
	"github.com/atomicstack/tmux-popup-links/internal/data/dispatcher"
	"github.com/atomicstack/tmux-popup-links/internal/links"
	"github.com/atomicstack/tmux-popup-links/internal/logging/events"
	"github.com/atomicstack/tmux-popup-links/internal/match"
	"github.com/atomicstack/tmux-popup-links/internal/nav"
	"github.com/atomicstack/tmux-popup-links/internal/state"
	"github.com/atomicstack/tmux-popup-links/internal/theme"
	"github.com/atomicstack/tmux-popup-links/internal/ui/command"
	uistate "github.com/atomicstack/tmux-popup-links/internal/ui/state"
)

var styles = theme.Default()

type msgHandler func(tea.Msg) tea.Cmd

// Options configures a Model.
type Options struct {
	Catalog   links.Catalog
	Navigator nav.Navigator
	Resolver  nav.Resolver
	Watcher   *backend.Watcher

	Width      int
	Height     int
	ShowFooter bool
	ShowRoutes bool
	Stay       bool

	// InitialMenu names the trigger that starts open.
	InitialMenu string
	Threshold   match.Tier
	// NavigateTimeout bounds an in-place navigation. Zero means no bound.
	NavigateTimeout time.Duration
	// Animate enables the spinner tick loop while items are loading.
	Animate bool
	// Clipboard receives copied URLs. Defaults to the system clipboard.
	Clipboard func(string) error
}

// Model implements the Bubble Tea model for the row of link menus.
type Model struct {
	menus  []*uistate.Menu
	focus  int
	nextID int

	input    textinput.Model
	spinner  spinner.Model
	spinning bool
	animate  bool

	errMsg         string
	infoMsg        string
	infoExpire     time.Time
	width          int
	height         int
	fixedWidth     bool
	fixedHeight    bool
	showFooter     bool
	showRoutes     bool
	stay           bool
	backend        *backend.Watcher
	backendLastErr string

	handlers map[reflect.Type]msgHandler

	bus        *command.Bus
	resolver   nav.Resolver
	threshold  match.Tier
	clipboard  func(string) error
	catalog    state.CatalogStore
	dispatcher *dispatcher.Dispatcher
}

// NewModel builds one menu per catalog entry.
func NewModel(opts Options) *Model {
	catalog := state.NewCatalogStore(opts.Catalog)
	m := &Model{
		bus:        command.New(opts.Navigator, opts.NavigateTimeout),
		resolver:   opts.Resolver,
		threshold:  opts.Threshold,
		clipboard:  opts.Clipboard,
		backend:    opts.Watcher,
		showFooter: opts.ShowFooter,
		showRoutes: opts.ShowRoutes,
		stay:       opts.Stay,
		animate:    opts.Animate,
		catalog:    catalog,
		dispatcher: dispatcher.New(catalog),
	}
	if m.clipboard == nil {
		m.clipboard = clipboard.WriteAll
	}
	for _, spec := range catalog.Menus() {
		m.menus = append(m.menus, m.newMenu(spec))
	}
	for i, menu := range m.menus {
		if menu.Active {
			m.focus = i
			break
		}
	}
	if opts.Width > 0 {
		m.width = opts.Width
		m.fixedWidth = true
	}
	if opts.Height > 0 {
		m.height = opts.Height
		m.fixedHeight = true
	}

	ti := textinput.New()
	ti.Prompt = "» "
	ti.Placeholder = "Search…"
	ti.Cursor.SetMode(cursor.CursorStatic)
	if styles.FilterPrompt != nil {
		ti.PromptStyle = *styles.FilterPrompt
	}
	if styles.Filter != nil {
		ti.TextStyle = *styles.Filter
	}
	if styles.FilterPlaceholder != nil {
		ti.PlaceholderStyle = *styles.FilterPlaceholder
	}
	if styles.Cursor != nil {
		ti.Cursor.Style = *styles.Cursor
	}
	m.input = ti

	sp := spinner.New(spinner.WithSpinner(spinner.MiniDot))
	if styles.Loading != nil {
		sp.Style = *styles.Loading
	}
	m.spinner = sp

	if name := strings.TrimSpace(opts.InitialMenu); name != "" {
		if spec, ok := opts.Catalog.Find(name); ok {
			if idx := m.indexOf(spec.Name); idx >= 0 {
				m.focus = idx
				m.showMenu(m.menus[idx])
			}
		}
	}
	m.registerHandlers()
	return m
}

func (m *Model) newMenu(spec links.MenuSpec) *uistate.Menu {
	m.nextID++
	return uistate.NewMenu(m.nextID, spec)
}

// Init is part of the tea.Model interface.
func (m *Model) Init() tea.Cmd {
	if m.backend != nil {
		return waitForBackendEvent(m.backend)
	}
	return nil
}

// Update responds to Bubble Tea messages.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	cmds := make([]tea.Cmd, 0, 2)
	if handler := m.handlerFor(msg); handler != nil {
		if cmd := handler(msg); cmd != nil {
			cmds = append(cmds, cmd)
		}
	}
	return m, m.finishUpdate(cmds)
}

func (m *Model) registerHandlers() {
	m.handlers = map[reflect.Type]msgHandler{
		reflect.TypeOf(tea.KeyMsg{}):        m.handleKeyMsg,
		reflect.TypeOf(tea.MouseMsg{}):      m.handleMouseMsg,
		reflect.TypeOf(tea.WindowSizeMsg{}): m.handleWindowSizeMsg,
		reflect.TypeOf(filterResultMsg{}):   m.handleFilterResultMsg,
		reflect.TypeOf(command.Result{}):    m.handleNavigationResultMsg,
		reflect.TypeOf(copyResultMsg{}):     m.handleCopyResultMsg,
		reflect.TypeOf(spinner.TickMsg{}):   m.handleSpinnerTickMsg,
		reflect.TypeOf(backendEventMsg{}):   m.handleBackendEventMsg,
		reflect.TypeOf(backendDoneMsg{}):    m.handleBackendDoneMsg,
	}
}

func (m *Model) handlerFor(msg tea.Msg) msgHandler {
	if msg == nil || m.handlers == nil {
		return nil
	}
	t := reflect.TypeOf(msg)
	if handler, ok := m.handlers[t]; ok {
		return handler
	}
	if t.Kind() == reflect.Ptr {
		if handler, ok := m.handlers[t.Elem()]; ok {
			return handler
		}
	}
	return nil
}

// finishUpdate starts the spinner loop when an item begins loading.
func (m *Model) finishUpdate(cmds []tea.Cmd) tea.Cmd {
	if m.animate && !m.spinning && m.anyLoading() {
		m.spinning = true
		cmds = append(cmds, m.spinner.Tick)
	}
	if len(cmds) == 0 {
		return nil
	}
	return tea.Batch(cmds...)
}

func (m *Model) handleSpinnerTickMsg(msg tea.Msg) tea.Cmd {
	tick, ok := msg.(spinner.TickMsg)
	if !ok {
		return nil
	}
	if !m.anyLoading() {
		m.spinning = false
		return nil
	}
	var cmd tea.Cmd
	m.spinner, cmd = m.spinner.Update(tick)
	return cmd
}

func (m *Model) anyLoading() bool {
	for _, menu := range m.menus {
		if menu.Navigating() {
			return true
		}
	}
	return false
}

// openMenu returns the menu whose panel is showing, if any.
func (m *Model) openMenu() *uistate.Menu {
	for _, menu := range m.menus {
		if menu.Open {
			return menu
		}
	}
	return nil
}

func (m *Model) focusedMenu() *uistate.Menu {
	if m.focus < 0 || m.focus >= len(m.menus) {
		return nil
	}
	return m.menus[m.focus]
}

func (m *Model) menuByID(id int) *uistate.Menu {
	for _, menu := range m.menus {
		if menu.ID == id {
			return menu
		}
	}
	return nil
}

func (m *Model) indexOf(name string) int {
	for i, menu := range m.menus {
		if menu.Name == name {
			return i
		}
	}
	return -1
}

func (m *Model) showMenu(menu *uistate.Menu) {
	if menu == nil {
		return
	}
	if open := m.openMenu(); open != nil && open != menu {
		m.hideMenu(open, events.HideSelection)
	}
	if !menu.Show() {
		return
	}
	m.input.Reset()
	m.input.Focus()
	m.errMsg = ""
	events.Menu.Show(menu.Name, len(menu.Options))
}

func (m *Model) hideMenu(menu *uistate.Menu, reason events.HideReason) {
	if menu == nil || !menu.Hide() {
		return
	}
	m.input.Reset()
	m.input.Blur()
	events.Menu.Hide(menu.Name, reason)
}
