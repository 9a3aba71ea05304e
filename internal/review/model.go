package review

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/fieldnotes-dev/recoder/internal/clean"
)

// Item is one unmatched value queued for review.
type Item struct {
	Column     string
	Value      string
	Count      int
	Suggestion string
}

// Mapping is an accepted source-key to canonical-value pair, to be
// appended to the dictionary for Column.
type Mapping struct {
	Column string
	From   string
	To     string
}

const (
	colorText     lipgloss.Color = "#cdd6f4"
	colorSubtext0 lipgloss.Color = "#a6adc8"
	colorYellow   lipgloss.Color = "#f9e2af"
	colorBlue     lipgloss.Color = "#89b4fa"
	colorSurface0 lipgloss.Color = "#313244"
)

var (
	headerStyle   = lipgloss.NewStyle().Foreground(colorBlue).Bold(true)
	valueStyle    = lipgloss.NewStyle().Foreground(colorYellow).Bold(true)
	hintStyle     = lipgloss.NewStyle().Foreground(colorSubtext0)
	selectedStyle = lipgloss.NewStyle().Foreground(colorText).Background(colorSurface0)
	itemStyle     = lipgloss.NewStyle().Foreground(colorText)
)

// Model is the bubbletea program that walks the review queue. Candidates
// per column come from the canonical values of the tables that governed
// that column.
type Model struct {
	queue      []Item
	candidates map[string][]Candidate
	picker     *Picker
	pos        int
	accepted   []Mapping
	done       bool
}

// NewModel builds a review session from a diagnostics report and the
// per-column candidate values.
func NewModel(rep *clean.Report, candidates map[string][]string) Model {
	m := Model{candidates: make(map[string][]Candidate)}
	for col, vals := range candidates {
		m.candidates[col] = SortedCandidates(vals)
	}
	if rep != nil {
		for _, c := range rep.Columns {
			for _, w := range c.Warnings {
				m.queue = append(m.queue, Item{
					Column:     c.Name,
					Value:      w.Value,
					Count:      w.Count,
					Suggestion: w.Suggestion,
				})
			}
		}
	}
	m.picker = NewPicker(nil)
	m.loadCurrent()
	return m
}

// Accepted returns the mappings confirmed during the session.
func (m Model) Accepted() []Mapping { return m.accepted }

// Done reports whether the session has ended.
func (m Model) Done() bool { return m.done }

func (m *Model) current() (Item, bool) {
	if m.pos >= len(m.queue) {
		return Item{}, false
	}
	return m.queue[m.pos], true
}

func (m *Model) loadCurrent() {
	it, ok := m.current()
	if !ok {
		m.done = true
		return
	}
	m.picker.SetItems(m.candidates[it.Column])
	if it.Suggestion != "" {
		m.picker.SetQuery(it.Suggestion)
	}
}

func (m *Model) advance() {
	m.pos++
	m.loadCurrent()
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd { return nil }

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	if m.done {
		return m, tea.Quit
	}

	switch key.String() {
	case "ctrl+c":
		m.done = true
		return m, tea.Quit
	case "tab":
		// accept the typed query verbatim as the canonical value
		it, ok := m.current()
		if ok && strings.TrimSpace(m.picker.Query()) != "" {
			m.accepted = append(m.accepted, Mapping{Column: it.Column, From: it.Value, To: strings.TrimSpace(m.picker.Query())})
			m.advance()
		}
	case "ctrl+s":
		// skip this value
		m.advance()
	default:
		res := m.picker.HandleKey(key.String())
		switch res.Action {
		case ActionSelected:
			if it, ok := m.current(); ok {
				m.accepted = append(m.accepted, Mapping{Column: it.Column, From: it.Value, To: res.Item.Value})
				m.advance()
			}
		case ActionCancelled:
			m.done = true
			return m, tea.Quit
		}
	}

	if m.done {
		return m, tea.Quit
	}
	return m, nil
}

// View implements tea.Model.
func (m Model) View() string {
	if m.done {
		return ""
	}
	it, ok := m.current()
	if !ok {
		return ""
	}

	var b strings.Builder
	b.WriteString(headerStyle.Render(fmt.Sprintf("review %d/%d — column %s", m.pos+1, len(m.queue), it.Column)))
	b.WriteString("\n\n")
	b.WriteString(itemStyle.Render("unmatched value: "))
	b.WriteString(valueStyle.Render(fmt.Sprintf("%q (x%d)", it.Value, it.Count)))
	b.WriteString("\n\n")
	b.WriteString(itemStyle.Render("map to: " + m.picker.Query()))
	b.WriteString("\n")

	items := m.picker.Items()
	for i, cand := range items {
		if i >= 8 {
			b.WriteString(hintStyle.Render(fmt.Sprintf("  … %d more", len(items)-i)))
			b.WriteString("\n")
			break
		}
		line := "  " + cand.Value
		if i == m.picker.Cursor() {
			b.WriteString(selectedStyle.Render("> " + cand.Value))
		} else {
			b.WriteString(itemStyle.Render(line))
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(hintStyle.Render("enter: pick   tab: use typed text   ctrl+s: skip   esc: quit"))
	return b.String()
}
