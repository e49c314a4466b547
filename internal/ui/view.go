package ui

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/atomicstack/tmux-popup-links/internal/format/table"
	"github.com/atomicstack/tmux-popup-links/internal/logging/events"
	uistate "github.com/atomicstack/tmux-popup-links/internal/ui/state"
)

const (
	// panelRowsTop is the screen row of the first list row: the trigger
	// row and the search box sit above it.
	panelRowsTop     = 2
	triggerSeparator = " "
	activeMarker     = "● "
	noResultsText    = "No results found"
	footerText       = "←/→ menus  ↑/↓ move  enter open  alt+enter new window  ctrl+y copy  esc close"
)

type styledLine struct {
	text          string
	style         *lipgloss.Style
	prefixStyle   *lipgloss.Style
	highlightFrom int
}

type triggerSpan struct {
	start, end int
}

// View implements tea.Model.
func (m *Model) View() string {
	lines := []string{m.renderTriggers()}
	body := make([]styledLine, 0, 24)
	if open := m.openMenu(); open != nil {
		m.syncViewport(open)
		lines = append(lines, truncateText(m.input.View(), m.width))
		body = append(body, m.panelLines(open)...)
	}
	body = append(body, m.statusLines()...)
	body = applyWidth(body, m.width)
	rendered := renderLines(body)
	if rendered != "" {
		lines = append(lines, rendered)
	}
	return strings.Join(lines, "\n")
}

func (m *Model) triggerLabel(menu *uistate.Menu) string {
	if menu.Active {
		return activeMarker + menu.Name
	}
	return menu.Name
}

func (m *Model) triggerStyle(i int, menu *uistate.Menu) *lipgloss.Style {
	switch {
	case i == m.focus || menu.Open:
		return styles.FocusedTrigger
	case menu.Active:
		return styles.ActiveTrigger
	default:
		return styles.Trigger
	}
}

func renderStyled(style *lipgloss.Style, text string) string {
	if style == nil {
		return text
	}
	return style.Render(text)
}

func (m *Model) renderTriggers() string {
	parts := make([]string, len(m.menus))
	for i, menu := range m.menus {
		parts[i] = renderStyled(m.triggerStyle(i, menu), m.triggerLabel(menu))
	}
	return truncateText(strings.Join(parts, triggerSeparator), m.width)
}

// triggerSpans returns the screen columns each trigger occupies on row 0.
func (m *Model) triggerSpans() []triggerSpan {
	spans := make([]triggerSpan, len(m.menus))
	x := 0
	for i, menu := range m.menus {
		w := lipgloss.Width(renderStyled(m.triggerStyle(i, menu), m.triggerLabel(menu)))
		spans[i] = triggerSpan{start: x, end: x + w}
		x += w + lipgloss.Width(triggerSeparator)
	}
	return spans
}

func (m *Model) triggerAt(x int) int {
	for i, span := range m.triggerSpans() {
		if x >= span.start && x < span.end {
			return i
		}
	}
	return -1
}

func (m *Model) panelLines(menu *uistate.Menu) []styledLine {
	if menu.Empty() {
		return []styledLine{{text: noResultsText, style: styles.NoResults}}
	}
	texts := m.rowTexts(menu)
	start, end := m.visibleRange(menu)
	lines := make([]styledLine, 0, end-start)
	for idx := start; idx < end; idx++ {
		if idx == menu.SeeMoreRow() {
			style := styles.SeeMore
			if idx == menu.Cursor {
				style = styles.SelectedSeeMore
			}
			hidden := len(menu.Matches) - len(menu.Rendered())
			lines = append(lines, styledLine{text: fmt.Sprintf("  See more… (%d more)", hidden), style: style})
			continue
		}
		lines = append(lines, m.buildItemLine(menu, idx, texts[idx]))
	}
	return lines
}

// rowTexts returns the label text of each rendered match, aligned with its
// route when routes are shown.
func (m *Model) rowTexts(menu *uistate.Menu) []string {
	rendered := menu.Rendered()
	if !m.showRoutes {
		texts := make([]string, len(rendered))
		for i, item := range rendered {
			texts[i] = item.Label
		}
		return texts
	}
	rows := make([][]string, len(rendered))
	for i, item := range rendered {
		rows[i] = []string{item.Label, renderStyled(styles.Route, item.To)}
	}
	return table.FormatWidth(rows, []table.Alignment{table.AlignLeft, table.AlignLeft}, max(m.width-2, 0))
}

func (m *Model) buildItemLine(menu *uistate.Menu, idx int, label string) styledLine {
	indicator := "▌"
	lineStyle := styles.Item
	indicatorStyle := styles.ItemIndicator
	if idx == menu.Cursor {
		indicatorStyle = styles.SelectedItemIndicator
		lineStyle = styles.SelectedItem
	}
	text := indicator + " " + label
	if item := menu.Rendered()[idx]; menu.IsLoading(item.To) {
		text += " " + m.spinner.View()
	}
	if m.width > 0 {
		if pad := m.width - ansi.StringWidth(text); pad > 0 {
			text += strings.Repeat(" ", pad)
		}
	}
	return styledLine{
		text:          text,
		style:         lineStyle,
		prefixStyle:   indicatorStyle,
		highlightFrom: 1,
	}
}

// visibleRange returns the row indices inside the viewport.
func (m *Model) visibleRange(menu *uistate.Menu) (int, int) {
	total := menu.RowCount()
	start := min(max(menu.ViewportOffset, 0), total)
	end := total
	if maxRows := m.maxVisibleRows(); maxRows > 0 && start+maxRows < end {
		end = start + maxRows
	}
	return start, end
}

func (m *Model) statusLines() []styledLine {
	var lines []styledLine
	if m.errMsg != "" {
		lines = append(lines, styledLine{text: fmt.Sprintf("Error: %s", m.errMsg), style: styles.Error})
	}
	if m.backendLastErr != "" {
		lines = append(lines, styledLine{text: fmt.Sprintf("Reload failed: %s", m.backendLastErr), style: styles.Error})
	}
	if info := m.currentInfo(); info != "" {
		lines = append(lines, styledLine{text: info, style: styles.Info})
	}
	if m.showFooter {
		lines = append(lines, styledLine{text: footerText, style: styles.Footer})
	}
	if len(lines) == 0 {
		return nil
	}
	return append([]styledLine{{}}, lines...)
}

func (m *Model) handleWindowSizeMsg(msg tea.Msg) tea.Cmd {
	resize, ok := msg.(tea.WindowSizeMsg)
	if !ok {
		return nil
	}
	if !m.fixedWidth {
		m.width = resize.Width
	}
	if !m.fixedHeight {
		m.height = resize.Height
	}
	if m.width > 0 {
		m.input.Width = max(m.width-lipgloss.Width(m.input.Prompt)-1, 1)
	}
	if open := m.openMenu(); open != nil {
		m.syncViewport(open)
	}
	return nil
}

// maxVisibleRows is the number of list rows that fit, or -1 when the
// height is unknown.
func (m *Model) maxVisibleRows() int {
	if m.height <= 0 {
		return -1
	}
	used := panelRowsTop
	if status := m.statusLines(); len(status) > 0 {
		used += len(status)
	}
	return max(m.height-used, 1)
}

func (m *Model) syncViewport(menu *uistate.Menu) {
	if menu == nil {
		return
	}
	menu.EnsureCursorVisible(m.maxVisibleRows())
}

// handleMouseMsg maps clicks onto triggers and rows. A click anywhere else
// dismisses the open panel. Ctrl or alt held on a row opens the link in a
// new context.
func (m *Model) handleMouseMsg(msg tea.Msg) tea.Cmd {
	ev, ok := msg.(tea.MouseMsg)
	if !ok {
		return nil
	}
	open := m.openMenu()
	switch ev.Button {
	case tea.MouseButtonWheelUp:
		if open != nil {
			m.moveCursor(open, open.MoveCursorUp)
		}
		return nil
	case tea.MouseButtonWheelDown:
		if open != nil {
			m.moveCursor(open, open.MoveCursorDown)
		}
		return nil
	}
	if ev.Action != tea.MouseActionPress || ev.Button != tea.MouseButtonLeft {
		return nil
	}
	if ev.Y == 0 {
		if idx := m.triggerAt(ev.X); idx >= 0 {
			m.focus = idx
			menu := m.menus[idx]
			if menu.Open {
				m.hideMenu(menu, events.HideTrigger)
			} else {
				m.showMenu(menu)
			}
			return nil
		}
	}
	if open == nil {
		return nil
	}
	switch {
	case ev.Y == panelRowsTop-1:
		return nil
	case ev.Y == panelRowsTop && open.Empty():
		return nil
	case ev.Y >= panelRowsTop:
		start, end := m.visibleRange(open)
		if row := start + ev.Y - panelRowsTop; row < end {
			open.Cursor = row
			return m.activateCursor(open, ev.Ctrl || ev.Alt)
		}
	}
	m.hideMenu(open, events.HideOutside)
	return nil
}

func (m *Model) setInfo(message string) {
	m.infoMsg = message
	m.infoExpire = time.Now().Add(5 * time.Second)
}

func (m *Model) forceClearInfo() {
	m.infoMsg = ""
	m.infoExpire = time.Time{}
}

func (m *Model) currentInfo() string {
	if m.infoMsg != "" && !m.infoExpire.IsZero() && time.Now().After(m.infoExpire) {
		m.infoMsg = ""
		m.infoExpire = time.Time{}
	}
	return m.infoMsg
}

func applyWidth(lines []styledLine, width int) []styledLine {
	if width <= 0 {
		return lines
	}
	result := make([]styledLine, len(lines))
	for i, line := range lines {
		line.text = truncateText(line.text, width)
		result[i] = line
	}
	return result
}

func renderLines(lines []styledLine) string {
	out := make([]string, len(lines))
	for i, line := range lines {
		text := line.text
		if line.highlightFrom > 0 && line.highlightFrom < len([]rune(text)) {
			runes := []rune(text)
			head := renderStyled(line.prefixStyle, string(runes[:line.highlightFrom]))
			tail := renderStyled(line.style, string(runes[line.highlightFrom:]))
			text = head + tail
		} else if line.style != nil {
			text = line.style.Render(text)
		}
		out[i] = text
	}
	return strings.Join(out, "\n")
}

func truncateText(text string, width int) string {
	if width <= 0 || ansi.StringWidth(text) <= width {
		return text
	}
	return ansi.Truncate(text, width, "…")
}
