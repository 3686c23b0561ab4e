package ui

import (
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/samber/lo"

	"selkit/internal/collection"
	"selkit/internal/config"
	"selkit/internal/domain"
	"selkit/internal/log"
	"selkit/internal/selection"
)

const (
	maxEvents    = 1000
	recentEvents = 3
)

// Model is a list widget whose selection is driven by a selection.Model
type Model struct {
	items   *collection.List[string]
	sel     *selection.Model[string]
	initial []string

	cursor int
	offset int
	nextID int

	events      []string
	status      string
	statusErr   bool
	readyMarker string

	width  int
	height int
	keys   keyMap
	help   help.Model
	styles *Styles
	logger *slog.Logger

	// Program reference for terminal management
	program *tea.Program
	pager   *Pager
}

// NewModel creates a new UI model over the configured items
func NewModel(cfg *config.Config, logger *slog.Logger) *Model {
	if logger == nil {
		logger = log.Discard()
	}

	m := &Model{
		items:   collection.NewList(cfg.Items...),
		initial: slices.Clone(cfg.Items),
		keys:    newKeyMap(),
		help:    help.New(),
		styles:  NewStyles(),
		logger:  logger,
		height:  24,
	}

	m.sel = selection.New[string](
		selection.WithSingleSelect(cfg.SingleSelect),
		selection.WithLogger(logger),
	)
	m.sel.OnSelectionChanged(m.onSelectionChanged)
	m.sel.OnIndexesChanged(func(e domain.IndexesChangedEvent) {
		m.record("indexes from %d shifted by %+d", e.StartIndex, e.Delta)
	})
	m.sel.OnSourceReset(func() { m.record("source reset") })
	m.sel.OnPropertyChanged(func(p domain.Property) {
		switch p {
		case domain.PropAnchorIndex:
			m.record("anchor = %d", m.sel.AnchorIndex())
		case domain.PropSingleSelect:
			m.record("single select = %t", m.sel.SingleSelect())
		}
	})
	m.sel.OnLostSelection(m.recoverSelection)

	m.sel.SetSource(m.items)
	if m.items.Len() > 0 {
		m.sel.Select(0)
	}
	return m
}

// SetProgram sets the program reference for terminal management
func (m *Model) SetProgram(p *tea.Program) {
	m.program = p
	m.pager = NewPager(p)
}

// SetReadyMarker makes View render marker above the title, so a driver
// can tell the first frame was drawn
func (m *Model) SetReadyMarker(marker string) {
	m.readyMarker = marker
}

// Selection exposes the engine driving the widget
func (m *Model) Selection() *selection.Model[string] { return m.sel }

func (m *Model) onSelectionChanged(e domain.SelectionChangedEvent[string]) {
	pairs := func(indexes []int, items []string) string {
		return strings.Join(lo.Map(indexes, func(i int, k int) string {
			return fmt.Sprintf("%d:%s", i, items[k])
		}), " ")
	}
	m.record("selection changed: -[%s] +[%s]",
		pairs(e.DeselectedIndexes, e.DeselectedItems),
		pairs(e.SelectedIndexes, e.SelectedItems))
}

// recoverSelection re-selects the item nearest the cursor after the
// collection took the whole selection away
func (m *Model) recoverSelection() {
	n := m.items.Len()
	if n == 0 {
		m.record("selection lost, nothing left to select")
		return
	}
	i := min(m.cursor, n-1)
	m.record("selection lost, recovering at %d", i)
	m.sel.Select(i)
}

func (m *Model) record(format string, args ...any) {
	line := fmt.Sprintf(format, args...)
	m.logger.Debug("event", "line", line)
	m.events = append(m.events, line)
	if len(m.events) > maxEvents {
		m.events = slices.Delete(m.events, 0, len(m.events)-maxEvents)
	}
}

// Init returns an initial command
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update handles messages
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.ensureVisible()

	case tea.KeyMsg:
		cmd := m.handleKey(msg)
		m.clampCursor()
		m.ensureVisible()
		return m, cmd

	case pagerMsg:
		if msg.err != nil {
			m.logger.Error("pager failed", "err", msg.err)
			return m, m.setStatus(fmt.Sprintf("Pager failed: %v", msg.err), true)
		}

	case clearStatusMsg:
		m.status = ""
		m.statusErr = false
	}

	return m, nil
}

func (m *Model) handleKey(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return tea.Quit

	case key.Matches(msg, m.keys.Up):
		m.cursor--
	case key.Matches(msg, m.keys.Down):
		m.cursor++
	case key.Matches(msg, m.keys.ExtendUp):
		return m.extend(-1)
	case key.Matches(msg, m.keys.ExtendDown):
		return m.extend(1)

	case key.Matches(msg, m.keys.Toggle):
		if m.sel.IsSelected(m.cursor) {
			m.sel.Deselect(m.cursor)
		} else {
			m.sel.Select(m.cursor)
		}
	case key.Matches(msg, m.keys.SelectAll):
		if err := m.sel.SelectAll(); err != nil {
			return m.setStatus(err.Error(), true)
		}
	case key.Matches(msg, m.keys.Clear):
		m.sel.Clear()
	case key.Matches(msg, m.keys.SingleMode):
		m.sel.SetSingleSelect(!m.sel.SingleSelect())

	case key.Matches(msg, m.keys.Insert):
		m.nextID++
		return m.mutate(m.items.Insert(max(m.cursor, 0), fmt.Sprintf("new-%d", m.nextID)))
	case key.Matches(msg, m.keys.Delete):
		if m.items.Len() == 0 {
			return nil
		}
		return m.mutate(m.items.RemoveAt(m.cursor))
	case key.Matches(msg, m.keys.Replace):
		if m.items.Len() == 0 {
			return nil
		}
		return m.mutate(m.items.Set(m.cursor, m.items.At(m.cursor)+"*"))
	case key.Matches(msg, m.keys.MoveUp):
		if m.cursor <= 0 {
			return nil
		}
		m.cursor--
		return m.mutate(m.items.Move(m.cursor+1, m.cursor))
	case key.Matches(msg, m.keys.Reset):
		return m.mutate(m.items.Reset(m.initial))

	case key.Matches(msg, m.keys.EventLog):
		if m.pager == nil {
			return m.setStatus("pager unavailable", true)
		}
		return m.showEventLog()
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
	}
	return nil
}

// extend grows or shrinks a range selection from the anchor to the cursor
func (m *Model) extend(delta int) tea.Cmd {
	from := m.cursor
	m.cursor += delta
	m.clampCursor()

	if m.sel.SingleSelect() {
		m.sel.SetSelectedIndex(m.cursor)
		return nil
	}

	anchor := m.sel.AnchorIndex()
	if anchor < 0 {
		anchor = from
	}
	err := m.sel.Batch(func() error {
		m.sel.Clear()
		if err := m.sel.SelectRange(min(anchor, m.cursor), max(anchor, m.cursor)+1); err != nil {
			return err
		}
		m.sel.SetAnchorIndex(anchor)
		return nil
	})
	if err != nil {
		return m.setStatus(err.Error(), true)
	}
	return nil
}

func (m *Model) mutate(err error) tea.Cmd {
	if err != nil {
		m.logger.Error("collection change failed", "err", err)
		return m.setStatus(err.Error(), true)
	}
	return nil
}

func (m *Model) setStatus(text string, isErr bool) tea.Cmd {
	m.status = text
	m.statusErr = isErr
	return tea.Tick(3*time.Second, func(time.Time) tea.Msg { return clearStatusMsg{} })
}

func (m *Model) clampCursor() {
	m.cursor = max(0, min(m.cursor, m.items.Len()-1))
}

func (m *Model) listHeight() int {
	return max(m.height-12, 3)
}

// ensureVisible scrolls the viewport so the cursor stays on screen
func (m *Model) ensureVisible() {
	h := m.listHeight()
	if m.cursor < m.offset {
		m.offset = m.cursor
	}
	if m.cursor >= m.offset+h {
		m.offset = m.cursor - h + 1
	}
	m.offset = max(0, min(m.offset, m.items.Len()-h))
}

// View renders the UI
func (m *Model) View() string {
	var b strings.Builder

	if m.readyMarker != "" {
		b.WriteString(m.styles.Dim.Render(m.readyMarker))
		b.WriteString("\n")
	}
	b.WriteString(m.styles.Title.Render("selkit"))
	b.WriteString("\n")

	if m.items.Len() == 0 {
		b.WriteString(m.styles.Dim.Render("(empty)"))
		b.WriteString("\n")
	}
	end := min(m.offset+m.listHeight(), m.items.Len())
	for i := m.offset; i < end; i++ {
		b.WriteString(m.renderItem(i))
		b.WriteString("\n")
	}

	b.WriteString(m.styles.Status.Render(m.summary()))
	b.WriteString("\n")
	if m.status != "" {
		style := m.styles.Dim
		if m.statusErr {
			style = m.styles.StatusError
		}
		b.WriteString(style.Render(m.status))
		b.WriteString("\n")
	}
	for _, line := range m.events[max(0, len(m.events)-recentEvents):] {
		b.WriteString(m.styles.Event.Render(line))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(m.help.View(m.keys))

	return m.styles.Main.Render(b.String())
}

func (m *Model) renderItem(i int) string {
	mark := "[ ]"
	name := m.items.At(i)
	if m.sel.IsSelected(i) {
		mark = "[x]"
		name = m.styles.Selected.Render(name)
	}
	anchor := " "
	if i == m.sel.AnchorIndex() {
		anchor = m.styles.Anchor.Render("»")
	}

	line := fmt.Sprintf("%s %s %3d %s", anchor, mark, i, name)
	if i == m.cursor {
		line = m.styles.Cursor.Render(line)
	}
	return line
}

func (m *Model) summary() string {
	mode := "multi"
	if m.sel.SingleSelect() {
		mode = "single"
	}
	return fmt.Sprintf("mode: %s  selected: %d  index: %d  anchor: %d  items: %d",
		mode, len(m.sel.SelectedIndexes()), m.sel.SelectedIndex(), m.sel.AnchorIndex(), m.items.Len())
}
