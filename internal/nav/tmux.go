package nav

import (
	"context"
	"fmt"

	"github.com/atomicstack/tmux-popup-links/internal/tmux"
)

// Tmux navigates by restarting a viewer in the origin pane, or in a new
// window for a new context.
type Tmux struct {
	SocketPath string
	Pane       string
	Viewer     []string
	Resolver   Resolver

	respawn   func(socketPath, target string, argv []string) error
	newWindow func(socketPath, name string, argv []string) error
}

func NewTmux(socketPath, pane string, viewer []string, resolver Resolver) *Tmux {
	return &Tmux{
		SocketPath: socketPath,
		Pane:       pane,
		Viewer:     append([]string(nil), viewer...),
		Resolver:   resolver,
		respawn:    tmux.RespawnPane,
		newWindow:  tmux.NewWindow,
	}
}

func (t *Tmux) Navigate(ctx context.Context, path string) error {
	argv, err := t.argv(path)
	if err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := t.respawn(t.SocketPath, t.Pane, argv); err != nil {
		return fmt.Errorf("navigate %s: %w", path, err)
	}
	return nil
}

func (t *Tmux) OpenInNewContext(path string) error {
	argv, err := t.argv(path)
	if err != nil {
		return err
	}
	if err := t.newWindow(t.SocketPath, path, argv); err != nil {
		return fmt.Errorf("open %s: %w", path, err)
	}
	return nil
}

func (t *Tmux) argv(path string) ([]string, error) {
	if len(t.Viewer) == 0 {
		return nil, fmt.Errorf("tmux navigator: viewer command required")
	}
	target, err := t.Resolver.Resolve(path)
	if err != nil {
		return nil, err
	}
	argv := append([]string(nil), t.Viewer...)
	return append(argv, target), nil
}
