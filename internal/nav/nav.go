// Package nav moves the dashboard view to a link target, either in place or
// in a fresh context.
package nav

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"sync"

	"github.com/atomicstack/tmux-popup-links/internal/logging/events"
)

var ErrEmptyPath = errors.New("nav: empty path")

// Navigator performs route transitions. Navigate blocks until the transition
// completes; OpenInNewContext returns once the new context has been started.
type Navigator interface {
	Navigate(ctx context.Context, path string) error
	OpenInNewContext(path string) error
}

// Resolver turns link targets into absolute URLs.
type Resolver struct {
	base *url.URL
}

// NewResolver parses base. An empty base leaves targets untouched.
func NewResolver(base string) (Resolver, error) {
	base = strings.TrimSpace(base)
	if base == "" {
		return Resolver{}, nil
	}
	u, err := url.Parse(base)
	if err != nil {
		return Resolver{}, fmt.Errorf("parse base url: %w", err)
	}
	if !u.IsAbs() {
		return Resolver{}, fmt.Errorf("base url %q must be absolute", base)
	}
	return Resolver{base: u}, nil
}

// Resolve joins path onto the base URL unless path is already absolute.
func (r Resolver) Resolve(path string) (string, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return "", ErrEmptyPath
	}
	ref, err := url.Parse(path)
	if err != nil {
		return "", fmt.Errorf("parse link %q: %w", path, err)
	}
	if ref.IsAbs() || r.base == nil {
		return ref.String(), nil
	}
	return r.base.ResolveReference(ref).String(), nil
}

// Router wraps a Navigator and remembers where in-place navigation landed.
type Router struct {
	next Navigator

	mu      sync.Mutex
	current string
	history []string
}

func NewRouter(next Navigator) *Router {
	return &Router{next: next}
}

func (r *Router) Navigate(ctx context.Context, path string) error {
	if err := r.next.Navigate(ctx, path); err != nil {
		return err
	}
	r.mu.Lock()
	from := r.current
	if from != "" {
		r.history = append(r.history, from)
	}
	r.current = path
	r.mu.Unlock()
	events.Navigate.Route(from, path)
	return nil
}

func (r *Router) OpenInNewContext(path string) error {
	return r.next.OpenInNewContext(path)
}

// Current returns the last path reached in place.
func (r *Router) Current() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.current
}

// History returns previously visited paths, oldest first.
func (r *Router) History() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.history...)
}
