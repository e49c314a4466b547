package app

import (
	"errors"
	"os"

	"golang.org/x/term"
)

// ErrNoTerminal is returned when none of the standard descriptors is a tty.
var ErrNoTerminal = errors.New("tmux-popup-links must run in a terminal (tmux display-popup -E)")

// Terminal describes the tty the popup draws into.
type Terminal struct {
	Source string `json:"source,omitempty"`
	Width  int    `json:"width,omitempty"`
	Height int    `json:"height,omitempty"`
	// Checked lists the descriptors inspected, in order.
	Checked []string `json:"checked"`
	// Errors maps a descriptor to the size lookup failure, if any.
	Errors map[string]string `json:"errors,omitempty"`
}

// Detected reports whether a usable tty was found.
func (t Terminal) Detected() bool {
	return t.Source != ""
}

type descriptor struct {
	name string
	fd   int
}

// ProbeTerminal returns the size of the first standard descriptor that is a
// terminal. Output descriptors are tried first since that is where the popup
// renders.
func ProbeTerminal() Terminal {
	return probeDescriptors([]descriptor{
		{"stdout", int(os.Stdout.Fd())},
		{"stderr", int(os.Stderr.Fd())},
		{"stdin", int(os.Stdin.Fd())},
	}, term.IsTerminal, term.GetSize)
}

func probeDescriptors(fds []descriptor, isTerminal func(int) bool, size func(int) (int, int, error)) Terminal {
	var t Terminal
	for _, d := range fds {
		t.Checked = append(t.Checked, d.name)
		if d.fd < 0 || !isTerminal(d.fd) {
			continue
		}
		w, h, err := size(d.fd)
		if err != nil {
			if t.Errors == nil {
				t.Errors = map[string]string{}
			}
			t.Errors[d.name] = err.Error()
			continue
		}
		t.Source, t.Width, t.Height = d.name, w, h
		break
	}
	return t
}

// fitToTerminal clamps a requested popup size to the terminal. Zero keeps
// following the window size reported by Bubble Tea.
func fitToTerminal(width, height int, t Terminal) (int, int) {
	if t.Width > 0 && width > t.Width {
		width = t.Width
	}
	if t.Height > 0 && height > t.Height {
		height = t.Height
	}
	return width, height
}
