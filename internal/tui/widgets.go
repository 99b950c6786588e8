package tui

import (
	"fmt"
	"strings"

	"github.com/jask/selsync/internal/collection"
	"github.com/jask/selsync/internal/database/repository"
)

// host is a focusable pane the app can bind a mirror collection to.
type host interface {
	Name() string
	HandleKey(key string) error
	SetQuery(q string)
	Query() string
	View(width int, focused bool) string
}

// selector is the cursor, filter and selection state shared by the
// selection widgets.
type selector struct {
	name      string
	items     []*repository.Item
	filtered  []*repository.Item
	query     string
	cursor    int
	selection *collection.List[*repository.Item]
}

func newSelector(name string, items []*repository.Item) selector {
	s := selector{
		name:      name,
		items:     append([]*repository.Item(nil), items...),
		selection: collection.New[*repository.Item](),
	}
	s.rebuildFiltered()
	return s
}

func (s *selector) Name() string { return s.name }

func (s *selector) String() string { return s.name }

// SelectedItems exposes the selection collection a mirror binds to.
func (s *selector) SelectedItems() *collection.List[*repository.Item] { return s.selection }

func (s *selector) Query() string { return s.query }

func (s *selector) SetQuery(q string) {
	s.query = q
	s.rebuildFiltered()
}

func (s *selector) rebuildFiltered() {
	s.filtered = filterItems(s.items, s.query)
	if s.cursor >= len(s.filtered) {
		s.cursor = len(s.filtered) - 1
	}
	if s.cursor < 0 {
		s.cursor = 0
	}
}

func (s *selector) current() *repository.Item {
	if s.cursor < 0 || s.cursor >= len(s.filtered) {
		return nil
	}
	return s.filtered[s.cursor]
}

// navigate handles the cursor keys and reports whether key was one.
func (s *selector) navigate(key string) bool {
	switch key {
	case "k", "up":
		if s.cursor > 0 {
			s.cursor--
		}
	case "j", "down":
		if s.cursor < len(s.filtered)-1 {
			s.cursor++
		}
	case "g", "home":
		s.cursor = 0
	case "G", "end":
		if len(s.filtered) > 0 {
			s.cursor = len(s.filtered) - 1
		}
	default:
		return false
	}
	return true
}

func (s *selector) toggle() error {
	it := s.current()
	if it == nil {
		return nil
	}
	if s.selection.Contains(it) {
		return s.selection.Remove(it)
	}
	return s.selection.Add(it)
}

func (s *selector) render(width int, focused bool, mark func(it *repository.Item, selected bool) string) string {
	lines := []string{titleStyle.Render(s.name)}
	if q := strings.TrimSpace(s.query); q != "" {
		lines = append(lines, metaStyle.Render("filter: ")+labelStyle.Render(q))
	}
	if len(s.filtered) == 0 {
		lines = append(lines, mutedStyle.Render("(no items)"))
	}
	section := ""
	for i, it := range s.filtered {
		if s.query == "" && it.Section != section {
			section = it.Section
			lines = append(lines, sectionTitleStyle.Render(section+":"))
		}
		selected := s.selection.Contains(it)
		row := "  " + mark(it, selected) + " " + it.Label
		lines = append(lines, rowStyle(selected, focused && i == s.cursor).Render(padStyledLine(row, width)))
	}
	return strings.Join(lines, "\n")
}

// ListBox is a checklist. space toggles the row under the cursor, a selects
// every visible row, c clears the selection.
type ListBox struct {
	selector
}

// NewListBox returns a list box over items.
func NewListBox(name string, items []*repository.Item) *ListBox {
	return &ListBox{selector: newSelector(name, items)}
}

func (l *ListBox) HandleKey(key string) error {
	if l.navigate(key) {
		return nil
	}
	switch key {
	case " ", "space":
		return l.toggle()
	case "a":
		return l.selection.Reset(l.filtered)
	case "c":
		return l.selection.Clear()
	}
	return nil
}

func (l *ListBox) View(width int, focused bool) string {
	return l.render(width, focused, func(_ *repository.Item, selected bool) string {
		if selected {
			return "[x]"
		}
		return "[ ]"
	})
}

// MultiSelector keeps the selection in the order it was made and shows it.
// space toggles, x inverts against the full catalog, J and K move the item
// under the cursor later or earlier in the selection order.
type MultiSelector struct {
	selector
}

// NewMultiSelector returns a multi selector over items.
func NewMultiSelector(name string, items []*repository.Item) *MultiSelector {
	return &MultiSelector{selector: newSelector(name, items)}
}

func (m *MultiSelector) HandleKey(key string) error {
	if m.navigate(key) {
		return nil
	}
	switch key {
	case " ", "space":
		return m.toggle()
	case "x":
		return m.invert()
	case "J":
		return m.shift(1)
	case "K":
		return m.shift(-1)
	}
	return nil
}

func (m *MultiSelector) invert() error {
	next := make([]*repository.Item, 0, len(m.items))
	for _, it := range m.items {
		if !m.selection.Contains(it) {
			next = append(next, it)
		}
	}
	return m.selection.Reset(next)
}

func (m *MultiSelector) shift(delta int) error {
	it := m.current()
	if it == nil {
		return nil
	}
	from := m.selection.IndexOf(it)
	if from < 0 {
		return nil
	}
	to := from + delta
	if to < 0 || to >= m.selection.Len() {
		return nil
	}
	return m.selection.Move(from, to)
}

func (m *MultiSelector) View(width int, focused bool) string {
	return m.render(width, focused, func(it *repository.Item, selected bool) string {
		if !selected {
			return "[  ]"
		}
		return fmt.Sprintf("[%2d]", m.selection.IndexOf(it)+1)
	})
}

// Label is a static text pane. It has no selection, so a mirror cannot be
// bound to it.
type Label struct {
	name string
	text string
}

// NewLabel returns a text pane.
func NewLabel(name, text string) *Label {
	return &Label{name: name, text: text}
}

func (l *Label) Name() string { return l.name }

func (l *Label) String() string { return l.name }

func (l *Label) HandleKey(string) error { return nil }

func (l *Label) SetQuery(string) {}

func (l *Label) Query() string { return "" }

func (l *Label) View(width int, _ bool) string {
	return titleStyle.Render(l.name) + "\n" + labelStyle.Width(width).Render(l.text)
}
