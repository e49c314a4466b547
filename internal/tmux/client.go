package tmux

import (
	"fmt"
	"os"
	"os/user"
	"path/filepath"
	"strings"

	gotmux "github.com/atomicstack/gotmuxcc/gotmuxcc"
)

type tmuxClient interface {
	Command(parts ...string) (string, error)
	DisplayMessage(target, format string) (string, error)
	Close() error
}

var newTmux = func(socketPath string) (tmuxClient, error) {
	if socketPath != "" {
		return gotmux.NewTmux(socketPath)
	}
	return gotmux.DefaultTmux()
}

// ResolveSocketPath picks the tmux socket: explicit flag, then
// TMUX_POPUP_LINKS_SOCKET, then $TMUX, then the per-user default.
func ResolveSocketPath(flagValue string) (string, error) {
	if flagValue != "" {
		return flagValue, nil
	}
	if envSocket := os.Getenv("TMUX_POPUP_LINKS_SOCKET"); envSocket != "" {
		return envSocket, nil
	}
	if tmuxEnv := os.Getenv("TMUX"); tmuxEnv != "" {
		parts := strings.Split(tmuxEnv, ",")
		if len(parts) > 0 && parts[0] != "" {
			return parts[0], nil
		}
	}
	baseDir := os.Getenv("TMUX_TMPDIR")
	if baseDir == "" {
		baseDir = "/tmp"
	}
	u, err := user.Current()
	if err != nil {
		return "", err
	}
	return filepath.Join(baseDir, fmt.Sprintf("tmux-%s", u.Uid), "default"), nil
}

// OriginPane returns the pane that launched the popup. An explicit target
// wins; otherwise $TMUX_PANE is resolved to its pane id.
func OriginPane(socketPath, explicit string) (string, error) {
	if target := strings.TrimSpace(explicit); target != "" {
		return target, nil
	}
	target := strings.TrimSpace(os.Getenv("TMUX_PANE"))
	if target == "" {
		return "", fmt.Errorf("no origin pane: set --target-pane or run inside tmux")
	}
	client, err := newTmux(socketPath)
	if err != nil {
		return "", err
	}
	defer client.Close()
	id, err := client.DisplayMessage(target, "#{pane_id}")
	if err != nil {
		return "", fmt.Errorf("resolve pane %s: %w", target, err)
	}
	id = strings.TrimSpace(id)
	if id == "" {
		return target, nil
	}
	return id, nil
}

// RespawnPane replaces whatever runs in target with argv.
func RespawnPane(socketPath, target string, argv []string) error {
	target = strings.TrimSpace(target)
	if target == "" {
		return fmt.Errorf("respawn-pane: target required")
	}
	if len(argv) == 0 {
		return fmt.Errorf("respawn-pane: command required")
	}
	client, err := newTmux(socketPath)
	if err != nil {
		return err
	}
	defer client.Close()
	parts := append([]string{"respawn-pane", "-k", "-t", target}, shellCommand(argv))
	_, err = client.Command(parts...)
	return err
}

// NewWindow opens a window running argv, named after name when given.
func NewWindow(socketPath, name string, argv []string) error {
	if len(argv) == 0 {
		return fmt.Errorf("new-window: command required")
	}
	client, err := newTmux(socketPath)
	if err != nil {
		return err
	}
	defer client.Close()
	parts := []string{"new-window"}
	if n := strings.TrimSpace(name); n != "" {
		parts = append(parts, "-n", n)
	}
	parts = append(parts, shellCommand(argv))
	_, err = client.Command(parts...)
	return err
}

// shellCommand joins argv into a single shell word list, quoting each
// argument so URLs with '&' or '?' survive tmux's shell invocation.
func shellCommand(argv []string) string {
	quoted := make([]string, len(argv))
	for i, arg := range argv {
		quoted[i] = shellQuote(arg)
	}
	return strings.Join(quoted, " ")
}

func shellQuote(s string) string {
	if s == "" {
		return "''"
	}
	if !strings.ContainsAny(s, " \t\n'\"\\$&;|<>()*?[]#~`!{}") {
		return s
	}
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}
