package nav

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolverJoinsRelativePaths(t *testing.T) {
	r, err := NewResolver("https://defillama.com/")
	require.NoError(t, err)

	got, err := r.Resolve("/yields/borrow")
	require.NoError(t, err)
	assert.Equal(t, "https://defillama.com/yields/borrow", got)

	got, err = r.Resolve("https://other.example/x?y=1")
	require.NoError(t, err)
	assert.Equal(t, "https://other.example/x?y=1", got)

	_, err = r.Resolve("  ")
	assert.ErrorIs(t, err, ErrEmptyPath)
}

func TestResolverWithoutBase(t *testing.T) {
	r, err := NewResolver("")
	require.NoError(t, err)
	got, err := r.Resolve("/yields")
	require.NoError(t, err)
	assert.Equal(t, "/yields", got)

	_, err = NewResolver("relative/base")
	assert.Error(t, err)
}

func TestTmuxNavigateRespawnsOriginPane(t *testing.T) {
	r, _ := NewResolver("https://defillama.com")
	n := NewTmux("sock", "%4", []string{"w3m", "-o", "confirm_qq=false"}, r)
	var gotTarget string
	var gotArgv []string
	n.respawn = func(socket, target string, argv []string) error {
		assert.Equal(t, "sock", socket)
		gotTarget = target
		gotArgv = argv
		return nil
	}

	require.NoError(t, n.Navigate(context.Background(), "/yields"))
	assert.Equal(t, "%4", gotTarget)
	assert.Equal(t, []string{"w3m", "-o", "confirm_qq=false", "https://defillama.com/yields"}, gotArgv)
	assert.Equal(t, []string{"w3m", "-o", "confirm_qq=false"}, n.Viewer, "viewer argv must not grow")
}

func TestTmuxNavigateHonoursCancelledContext(t *testing.T) {
	n := NewTmux("sock", "%4", []string{"w3m"}, Resolver{})
	called := false
	n.respawn = func(string, string, []string) error {
		called = true
		return nil
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, n.Navigate(ctx, "/yields"), context.Canceled)
	assert.False(t, called)
}

func TestTmuxOpenInNewContextCreatesWindow(t *testing.T) {
	n := NewTmux("sock", "%4", []string{"w3m"}, Resolver{})
	var name string
	n.newWindow = func(_ string, windowName string, argv []string) error {
		name = windowName
		assert.Equal(t, []string{"w3m", "/chains"}, argv)
		return nil
	}
	require.NoError(t, n.OpenInNewContext("/chains"))
	assert.Equal(t, "/chains", name)
}

func TestTmuxRequiresViewer(t *testing.T) {
	n := NewTmux("sock", "%4", nil, Resolver{})
	assert.Error(t, n.Navigate(context.Background(), "/x"))
}

func TestOpenerRunsAndStarts(t *testing.T) {
	o := NewOpener([]string{"firefox", "--new-tab"}, Resolver{})
	var ran, started []string
	o.run = func(_ context.Context, argv []string) error {
		ran = argv
		return nil
	}
	o.start = func(argv []string) error {
		started = argv
		return nil
	}
	require.NoError(t, o.Navigate(context.Background(), "/a"))
	require.NoError(t, o.OpenInNewContext("/b"))
	assert.Equal(t, []string{"firefox", "--new-tab", "/a"}, ran)
	assert.Equal(t, []string{"firefox", "--new-tab", "/b"}, started)
}

func TestOpenerDefaultsToPlatformCommand(t *testing.T) {
	o := NewOpener(nil, Resolver{})
	assert.Equal(t, DefaultOpener(), o.Command)
}

type stubNavigator struct {
	err    error
	opened []string
}

func (s *stubNavigator) Navigate(context.Context, string) error { return s.err }

func (s *stubNavigator) OpenInNewContext(path string) error {
	s.opened = append(s.opened, path)
	return nil
}

func TestRouterRecordsSuccessfulNavigation(t *testing.T) {
	stub := &stubNavigator{}
	r := NewRouter(stub)
	require.NoError(t, r.Navigate(context.Background(), "/yields"))
	require.NoError(t, r.Navigate(context.Background(), "/borrow"))
	assert.Equal(t, "/borrow", r.Current())
	assert.Equal(t, []string{"/yields"}, r.History())

	stub.err = errors.New("viewer crashed")
	assert.Error(t, r.Navigate(context.Background(), "/chains"))
	assert.Equal(t, "/borrow", r.Current())

	require.NoError(t, r.OpenInNewContext("/new"))
	assert.Equal(t, []string{"/new"}, stub.opened)
	assert.Equal(t, "/borrow", r.Current())
}
