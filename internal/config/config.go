package config

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/pflag"

	"github.com/atomicstack/tmux-popup-links/internal/app"
)

// Config captures runtime configuration for the application.
type Config struct {
	App     app.Config
	Logging Logging
	Flags   map[string]string
	Args    []string
}

type Logging struct {
	FilePath string
	Trace    bool
}

const (
	envPrefix = "TMUX_POPUP_LINKS_"

	envLinks      = envPrefix + "LINKS"
	envBaseURL    = envPrefix + "BASE_URL"
	envNavigator  = envPrefix + "NAVIGATOR"
	envViewer     = envPrefix + "VIEWER"
	envOpener     = envPrefix + "OPENER"
	envSocketPath = envPrefix + "SOCKET"
	envTargetPane = envPrefix + "TARGET_PANE"
	envWidth      = envPrefix + "WIDTH"
	envHeight     = envPrefix + "HEIGHT"
	envShowFooter = envPrefix + "FOOTER"
	envRoutes     = envPrefix + "ROUTES"
	envStay       = envPrefix + "STAY"
	envMenu       = envPrefix + "MENU"
	envMatch      = envPrefix + "MATCH"
	envTimeout    = envPrefix + "TIMEOUT"
	envNoWatch    = envPrefix + "NO_WATCH"
	envTrace      = envPrefix + "TRACE"
	envLogFile    = envPrefix + "LOG_FILE"

	defaultViewer  = "w3m"
	defaultTimeout = 30 * time.Second
)

const usageHeader = "Usage: tmux-popup-links [flags] [links files...]\n\nFlags:\n"

// HelpRequested is returned when --help or -h is parsed. Usage holds the
// rendered flag list.
type HelpRequested struct {
	Usage string
}

func (h *HelpRequested) Error() string { return pflag.ErrHelp.Error() }

func (h *HelpRequested) Unwrap() error { return pflag.ErrHelp }

// LoadArgs parses args against environ. Flags override environment
// variables, which override defaults. --help yields *HelpRequested.
func LoadArgs(args []string, environ []string) (Config, error) {
	env := parseEnv(environ)

	fs := pflag.NewFlagSet("tmux-popup-links", pflag.ContinueOnError)
	fs.SetOutput(new(strings.Builder))

	linkFiles := fs.StringSlice("links", envOrSlice(env, envLinks), "links file (yaml, toml, json, jsonc); repeat or comma-separate to merge several")
	baseURL := fs.String("base-url", envOrDefault(env, envBaseURL, ""), "base URL joined onto relative link targets")
	navigator := fs.String("navigator", envOrDefault(env, envNavigator, app.NavigatorTmux), "how links are opened: tmux or open")
	viewer := fs.String("viewer", envOrDefault(env, envViewer, defaultViewer), "viewer command respawned in the origin pane (tmux navigator)")
	opener := fs.String("opener", envOrDefault(env, envOpener, ""), "opener command (open navigator; defaults to xdg-open or open)")
	socket := fs.String("socket", envOrDefault(env, envSocketPath, ""), "path to the tmux socket (overrides environment detection)")
	targetPane := fs.String("target-pane", envOrDefault(env, envTargetPane, ""), "pane navigated in place (defaults to the pane that opened the popup)")
	width := fs.Int("width", envOrInt(env, envWidth, 0), "desired viewport width in cells (0 uses terminal width)")
	height := fs.Int("height", envOrInt(env, envHeight, 0), "desired viewport height in rows (0 uses terminal height)")
	footer := fs.Bool("footer", envOrBool(env, envShowFooter, false), "enable footer hint row (disabled by default)")
	routes := fs.Bool("routes", envOrBool(env, envRoutes, false), "show each link's route next to its label")
	stay := fs.Bool("stay", envOrBool(env, envStay, false), "keep the popup open after navigating")
	menu := fs.String("menu", envOrDefault(env, envMenu, ""), "menu opened on start")
	matchMode := fs.String("match", envOrDefault(env, envMatch, app.MatchContains), "match threshold: contains or fuzzy")
	timeout := fs.Duration("timeout", envOrDuration(env, envTimeout, defaultTimeout), "limit on a single in-place navigation (0 disables)")
	noWatch := fs.Bool("no-watch", envOrBool(env, envNoWatch, false), "do not reload links files when they change")
	trace := fs.Bool("trace", envOrBool(env, envTrace, false), "enable verbose JSON trace logging")
	logFile := fs.String("log-file", envOrDefault(env, envLogFile, ""), "path to the log file")

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return Config{}, &HelpRequested{Usage: usageHeader + fs.FlagUsages()}
		}
		return Config{}, err
	}
	files := append(cleanList(*linkFiles), cleanList(fs.Args())...)

	if *width < 0 {
		return Config{}, fmt.Errorf("width must be >= 0 (got %d)", *width)
	}
	if *height < 0 {
		return Config{}, fmt.Errorf("height must be >= 0 (got %d)", *height)
	}
	if *timeout < 0 {
		return Config{}, fmt.Errorf("timeout must be >= 0 (got %s)", *timeout)
	}

	cfg := Config{
		App: app.Config{
			LinkFiles:       files,
			BaseURL:         strings.TrimSpace(*baseURL),
			Navigator:       strings.ToLower(strings.TrimSpace(*navigator)),
			Viewer:          strings.Fields(*viewer),
			Opener:          strings.Fields(*opener),
			SocketPath:      *socket,
			TargetPane:      *targetPane,
			Width:           *width,
			Height:          *height,
			ShowFooter:      *footer,
			ShowRoutes:      *routes,
			Stay:            *stay,
			InitialMenu:     *menu,
			Match:           strings.ToLower(strings.TrimSpace(*matchMode)),
			Watch:           !*noWatch,
			NavigateTimeout: *timeout,
		},
		Logging: Logging{
			FilePath: *logFile,
			Trace:    *trace,
		},
		Flags: map[string]string{
			"links":      strings.Join(files, ","),
			"baseURL":    *baseURL,
			"navigator":  *navigator,
			"viewer":     *viewer,
			"opener":     *opener,
			"socket":     *socket,
			"targetPane": *targetPane,
			"width":      strconv.Itoa(*width),
			"height":     strconv.Itoa(*height),
			"footer":     strconv.FormatBool(*footer),
			"routes":     strconv.FormatBool(*routes),
			"stay":       strconv.FormatBool(*stay),
			"menu":       *menu,
			"match":      *matchMode,
			"timeout":    timeout.String(),
			"noWatch":    strconv.FormatBool(*noWatch),
			"trace":      strconv.FormatBool(*trace),
			"logFile":    *logFile,
		},
		Args: append([]string(nil), args...),
	}

	return cfg, nil
}

func parseEnv(environ []string) map[string]string {
	values := make(map[string]string, len(environ))
	for _, entry := range environ {
		if entry == "" {
			continue
		}
		parts := strings.SplitN(entry, "=", 2)
		if len(parts) != 2 {
			continue
		}
		values[parts[0]] = parts[1]
	}
	return values
}

func cleanList(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}

func envOrDefault(env map[string]string, key, fallback string) string {
	if v, ok := env[key]; ok {
		return v
	}
	return fallback
}

func envOrSlice(env map[string]string, key string) []string {
	v, ok := env[key]
	if !ok || strings.TrimSpace(v) == "" {
		return nil
	}
	return cleanList(strings.Split(v, ","))
}

func envOrInt(env map[string]string, key string, fallback int) int {
	v, ok := env[key]
	if !ok || strings.TrimSpace(v) == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return parsed
}

func envOrBool(env map[string]string, key string, fallback bool) bool {
	v, ok := env[key]
	if !ok || strings.TrimSpace(v) == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return parsed
}

func envOrDuration(env map[string]string, key string, fallback time.Duration) time.Duration {
	v, ok := env[key]
	if !ok || strings.TrimSpace(v) == "" {
		return fallback
	}
	parsed, err := time.ParseDuration(v)
	if err != nil {
		return fallback
	}
	return parsed
}

// Validate ensures required minimum configuration is present.
func Validate(cfg Config) error {
	if len(cfg.App.LinkFiles) == 0 {
		return fmt.Errorf("at least one links file is required (--links or %s)", envLinks)
	}
	switch cfg.App.Navigator {
	case app.NavigatorTmux:
		if len(cfg.App.Viewer) == 0 {
			return fmt.Errorf("--viewer is required for the tmux navigator")
		}
	case app.NavigatorOpen:
	default:
		return fmt.Errorf("navigator must be %q or %q (got %q)", app.NavigatorTmux, app.NavigatorOpen, cfg.App.Navigator)
	}
	switch cfg.App.Match {
	case app.MatchContains, app.MatchFuzzy:
	default:
		return fmt.Errorf("match must be %q or %q (got %q)", app.MatchContains, app.MatchFuzzy, cfg.App.Match)
	}
	return nil
}
