package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/atomicstack/tmux-popup-links/internal/app"
	"github.com/atomicstack/tmux-popup-links/internal/config"
	"github.com/atomicstack/tmux-popup-links/internal/links"
	"github.com/atomicstack/tmux-popup-links/internal/logging"
	"github.com/atomicstack/tmux-popup-links/internal/logging/events"
)

const (
	exitOK     = 0
	exitFailed = 1
	exitUsage  = 2
)

func main() {
	os.Exit(run(os.Args[1:], os.Environ(), os.Stdout, os.Stderr))
}

// run returns the process exit code: 0 on success or --help, 2 for bad
// flags or links configuration, 1 when the popup itself fails.
func run(args, environ []string, stdout, stderr io.Writer) int {
	cfg, err := config.LoadArgs(args, environ)
	var help *config.HelpRequested
	if errors.As(err, &help) {
		fmt.Fprint(stdout, help.Usage)
		return exitOK
	}
	if err == nil {
		err = config.Validate(cfg)
	}
	if err != nil {
		fmt.Fprintf(stderr, "Configuration error: %v\n", err)
		return exitUsage
	}

	logging.Configure(cfg.Logging.FilePath)
	logging.SetTraceEnabled(cfg.Logging.Trace)
	events.App.Start(startupTracePayload(cfg))

	if err := app.Run(cfg.App); err != nil {
		logging.Error(err)
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return exitFailed
	}
	return exitOK
}

type linkFileInfo struct {
	Path   string       `json:"path"`
	Format links.Format `json:"format,omitempty"`
	Error  string       `json:"error,omitempty"`
}

// startupTracePayload records what the popup is about to load and how it
// will navigate.
func startupTracePayload(cfg config.Config) map[string]interface{} {
	files := make([]linkFileInfo, 0, len(cfg.App.LinkFiles))
	for _, path := range cfg.App.LinkFiles {
		info := linkFileInfo{Path: path}
		if abs, err := filepath.Abs(path); err == nil {
			info.Path = abs
		}
		if format, err := links.FormatFor(path); err != nil {
			info.Error = err.Error()
		} else {
			info.Format = format
		}
		files = append(files, info)
	}

	payload := map[string]interface{}{
		"argv":      cfg.Args,
		"flags":     cfg.Flags,
		"links":     files,
		"navigator": cfg.App.Navigator,
		"match":     cfg.App.Match,
		"timeout":   cfg.App.NavigateTimeout.String(),
		"baseURL":   cfg.App.BaseURL,
		"menu":      cfg.App.InitialMenu,
		"stay":      cfg.App.Stay,
		"watch":     cfg.App.Watch,
		"logFile":   logging.Path(),
	}
	switch cfg.App.Navigator {
	case app.NavigatorTmux:
		payload["viewer"] = cfg.App.Viewer
		payload["targetPane"] = cfg.App.TargetPane
	case app.NavigatorOpen:
		payload["opener"] = cfg.App.Opener
	}
	return payload
}
