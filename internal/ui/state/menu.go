package state

import (
	"slices"

	"github.com/atomicstack/tmux-popup-links/internal/links"
)

// PageSize is both the initial visible count and the "see more" increment.
const PageSize = 20

// Menu holds one trigger's panel state: the applied query, the ranked
// matches, the visible count, and which items are navigating.
type Menu struct {
	ID      int
	Name    string
	Active  bool
	Class   string
	Options []links.LinkOption

	// Input is the latest text typed into the search box. Query is the text
	// Matches were computed for; it trails Input until a recompute lands.
	Input   string
	Query   string
	Matches []links.LinkOption
	Visible int

	Open           bool
	Cursor         int
	ViewportOffset int

	Loading    map[string]bool
	Generation uint64
	Disposed   bool

	seq uint64
}

// NewMenu builds closed panel state for spec.
func NewMenu(id int, spec links.MenuSpec) *Menu {
	m := &Menu{
		ID:      id,
		Name:    spec.Name,
		Active:  spec.Active,
		Class:   spec.Class,
		Options: links.CloneOptions(spec.Links),
		Visible: PageSize,
		Loading: map[string]bool{},
	}
	m.Matches = links.CloneOptions(m.Options)
	return m
}

// Show opens the panel with an empty query.
func (m *Menu) Show() bool {
	if m.Disposed || m.Open {
		return false
	}
	m.reset()
	m.Open = true
	return true
}

// Hide closes the panel, resets the query and the visible count, and drops
// in-flight loading flags. Completions from the closed session are ignored.
func (m *Menu) Hide() bool {
	if m.Disposed || !m.Open {
		return false
	}
	m.reset()
	m.Open = false
	return true
}

func (m *Menu) reset() {
	m.Input = ""
	m.Query = ""
	m.Matches = links.CloneOptions(m.Options)
	m.Visible = PageSize
	m.Cursor = 0
	m.ViewportOffset = 0
	m.Loading = map[string]bool{}
	m.Generation++
	m.seq++
}

// RequestQuery records text as the latest input and returns the sequence
// number a recompute for it must present to ApplyMatches.
func (m *Menu) RequestQuery(text string) uint64 {
	m.Input = text
	m.seq++
	return m.seq
}

// Latest returns the sequence number of the newest recompute request.
func (m *Menu) Latest() uint64 {
	return m.seq
}

// ApplyMatches installs a recompute result if seq is still the newest
// request. A changed query moves the cursor back to the first row. Visible
// is left alone.
func (m *Menu) ApplyMatches(seq uint64, query string, matches []links.LinkOption) bool {
	if m.Disposed || seq != m.seq {
		return false
	}
	if query != m.Query {
		m.Cursor = 0
		m.ViewportOffset = 0
	}
	m.Query = query
	m.Matches = matches
	m.clampCursor()
	return true
}

// SetOptions swaps the option list and returns the sequence number for the
// recompute it requires. The current input is kept.
func (m *Menu) SetOptions(spec links.MenuSpec) uint64 {
	m.Name = spec.Name
	m.Active = spec.Active
	m.Class = spec.Class
	m.Options = links.CloneOptions(spec.Links)
	if m.Input == "" {
		m.Matches = links.CloneOptions(m.Options)
		m.Query = ""
		m.clampCursor()
	}
	for to := range m.Loading {
		if !m.hasOption(to) {
			delete(m.Loading, to)
		}
	}
	m.seq++
	return m.seq
}

func (m *Menu) hasOption(to string) bool {
	return slices.ContainsFunc(m.Options, func(o links.LinkOption) bool { return o.To == to })
}

// CanSeeMore reports whether matches exist beyond the visible count.
func (m *Menu) CanSeeMore() bool {
	return len(m.Matches) > m.Visible
}

// SeeMore reveals another page of matches.
func (m *Menu) SeeMore() bool {
	if m.Disposed || !m.CanSeeMore() {
		return false
	}
	m.Visible += PageSize
	return true
}

// Rendered returns the match rows on screen: the first Visible+1 matches.
func (m *Menu) Rendered() []links.LinkOption {
	n := min(len(m.Matches), m.Visible+1)
	return m.Matches[:n]
}

// Empty reports whether the panel shows the no-results message.
func (m *Menu) Empty() bool {
	return len(m.Matches) == 0
}

// RowCount is the number of selectable rows, the "see more" row included.
func (m *Menu) RowCount() int {
	n := len(m.Rendered())
	if m.CanSeeMore() {
		n++
	}
	return n
}

// SeeMoreRow returns the row index of the "see more" control, or -1.
func (m *Menu) SeeMoreRow() int {
	if !m.CanSeeMore() {
		return -1
	}
	return len(m.Rendered())
}

// CursorItem returns the link under the cursor, if the cursor is on one.
func (m *Menu) CursorItem() (links.LinkOption, bool) {
	rows := m.Rendered()
	if m.Cursor < 0 || m.Cursor >= len(rows) {
		return links.LinkOption{}, false
	}
	return rows[m.Cursor], true
}

// BeginNavigation marks to as loading and returns the generation its
// completion must present to EndNavigation.
func (m *Menu) BeginNavigation(to string) uint64 {
	if m.Disposed {
		return 0
	}
	m.Loading[to] = true
	return m.Generation
}

// EndNavigation clears the loading flag for to. Completions for a disposed
// menu or an earlier show session are ignored.
func (m *Menu) EndNavigation(to string, generation uint64) bool {
	if m.Disposed || generation != m.Generation {
		return false
	}
	if !m.Loading[to] {
		return false
	}
	delete(m.Loading, to)
	return true
}

// IsLoading reports whether to is navigating.
func (m *Menu) IsLoading(to string) bool {
	return m.Loading[to]
}

// Navigating reports whether any item is in flight.
func (m *Menu) Navigating() bool {
	return len(m.Loading) > 0
}

// Dispose tears the menu down. Later completions become no-ops.
func (m *Menu) Dispose() {
	m.Disposed = true
	m.Open = false
	m.Loading = map[string]bool{}
	m.seq++
}
