package app

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/atomicstack/tmux-popup-links/internal/backend"
	"github.com/atomicstack/tmux-popup-links/internal/links"
	"github.com/atomicstack/tmux-popup-links/internal/logging"
	"github.com/atomicstack/tmux-popup-links/internal/logging/events"
	"github.com/atomicstack/tmux-popup-links/internal/match"
	"github.com/atomicstack/tmux-popup-links/internal/nav"
	"github.com/atomicstack/tmux-popup-links/internal/tmux"
	"github.com/atomicstack/tmux-popup-links/internal/ui"
)

const (
	NavigatorTmux = "tmux"
	NavigatorOpen = "open"

	MatchContains = "contains"
	MatchFuzzy    = "fuzzy"

	reloadDebounce = 250 * time.Millisecond
)

// Config describes user-provided application options.
type Config struct {
	LinkFiles       []string
	BaseURL         string
	Navigator       string
	Viewer          []string
	Opener          []string
	SocketPath      string
	TargetPane      string
	Width           int
	Height          int
	ShowFooter      bool
	ShowRoutes      bool
	Stay            bool
	InitialMenu     string
	Match           string
	Watch           bool
	NavigateTimeout time.Duration
}

// Run loads the links, wires the navigator and watcher, and executes the
// Bubble Tea program.
func Run(cfg Config) error {
	catalog, err := links.Load(context.Background(), cfg.LinkFiles)
	if err != nil {
		return fmt.Errorf("load links: %w", err)
	}
	resolver, err := nav.NewResolver(cfg.BaseURL)
	if err != nil {
		return err
	}
	terminal := ProbeTerminal()
	events.App.Terminal(terminal)
	if !terminal.Detected() {
		return ErrNoTerminal
	}
	width, height := fitToTerminal(cfg.Width, cfg.Height, terminal)

	router, err := buildNavigator(cfg, resolver)
	if err != nil {
		return err
	}
	defer traceExit(router)

	var watcher *backend.Watcher
	if cfg.Watch {
		watcher, err = backend.NewWatcher(cfg.LinkFiles, reloadDebounce, nil)
		if err != nil {
			logging.Errorf("watch links", err)
			watcher = nil
		} else {
			defer watcher.Stop()
		}
	}

	model := ui.NewModel(ui.Options{
		Catalog:         catalog,
		Navigator:       router,
		Resolver:        resolver,
		Watcher:         watcher,
		Width:           width,
		Height:          height,
		ShowFooter:      cfg.ShowFooter,
		ShowRoutes:      cfg.ShowRoutes,
		Stay:            cfg.Stay,
		InitialMenu:     cfg.InitialMenu,
		Threshold:       thresholdFor(cfg.Match),
		NavigateTimeout: cfg.NavigateTimeout,
		Animate:         true,
	})
	program := tea.NewProgram(model, tea.WithAltScreen(), tea.WithMouseCellMotion())
	_, err = program.Run()
	if errors.Is(err, tea.ErrProgramKilled) {
		return nil
	}
	return err
}

// buildNavigator returns the configured navigator wrapped in a Router.
func buildNavigator(cfg Config, resolver nav.Resolver) (*nav.Router, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.Navigator)) {
	case NavigatorOpen:
		return nav.NewRouter(nav.NewOpener(cfg.Opener, resolver)), nil
	case NavigatorTmux, "":
		socketPath, err := tmux.ResolveSocketPath(cfg.SocketPath)
		if err != nil {
			return nil, fmt.Errorf("resolve socket path: %w", err)
		}
		pane, err := tmux.OriginPane(socketPath, cfg.TargetPane)
		if err != nil {
			return nil, fmt.Errorf("resolve origin pane: %w", err)
		}
		return nav.NewRouter(nav.NewTmux(socketPath, pane, cfg.Viewer, resolver)), nil
	default:
		return nil, fmt.Errorf("unknown navigator %q", cfg.Navigator)
	}
}

func traceExit(router *nav.Router) {
	events.App.Exit(router.Current(), router.History())
}

func thresholdFor(name string) match.Tier {
	if strings.EqualFold(strings.TrimSpace(name), MatchFuzzy) {
		return match.Fuzzy
	}
	return match.Contains
}
