// Package review is the interactive follow-up to a cleaning run: it walks
// the unmatched values from the diagnostics report and lets the analyst
// map each one to a canonical value, so the dictionary can be extended and
// the next run comes out cleaner.
package review

import (
	"sort"
	"strings"
)

// Candidate is one selectable canonical value.
type Candidate struct {
	Value string
}

// Action is the outcome of one key handled by the picker.
type Action int

const (
	ActionNone Action = iota
	ActionMoved
	ActionSelected
	ActionCancelled
)

// Result pairs an action with the candidate it selected, if any.
type Result struct {
	Action Action
	Item   Candidate
}

// Picker is the pure selection state behind the review UI: a candidate
// list, a filter query, and a cursor. It knows nothing about rendering.
type Picker struct {
	items    []Candidate
	filtered []Candidate
	query    string
	cursor   int
}

// NewPicker builds a picker over the given candidates.
func NewPicker(items []Candidate) *Picker {
	p := &Picker{}
	p.SetItems(items)
	return p
}

// Query returns the current filter text.
func (p *Picker) Query() string {
	if p == nil {
		return ""
	}
	return p.query
}

// Cursor returns the highlighted index within the filtered items.
func (p *Picker) Cursor() int {
	if p == nil {
		return 0
	}
	return p.cursor
}

// Items returns a copy of the filtered candidates.
func (p *Picker) Items() []Candidate {
	if p == nil {
		return nil
	}
	return append([]Candidate(nil), p.filtered...)
}

// SetItems replaces the candidate list and resets the filter.
func (p *Picker) SetItems(items []Candidate) {
	if p == nil {
		return
	}
	p.items = append([]Candidate(nil), items...)
	p.query = ""
	p.rebuildFiltered()
}

// SetQuery replaces the filter text.
func (p *Picker) SetQuery(q string) {
	if p == nil {
		return
	}
	p.query = q
	p.rebuildFiltered()
}

// Current returns the highlighted candidate.
func (p *Picker) Current() (Candidate, bool) {
	if p == nil || len(p.filtered) == 0 {
		return Candidate{}, false
	}
	idx := p.cursor
	if idx >= len(p.filtered) {
		idx = len(p.filtered) - 1
	}
	return p.filtered[idx], true
}

// HandleKey advances the picker state for one named key.
func (p *Picker) HandleKey(keyName string) Result {
	if p == nil {
		return Result{Action: ActionNone}
	}
	switch keyName {
	case "up", "ctrl+p":
		if p.cursor > 0 {
			p.cursor--
			return Result{Action: ActionMoved}
		}
		return Result{Action: ActionNone}
	case "down", "ctrl+n":
		if p.cursor < len(p.filtered)-1 {
			p.cursor++
			return Result{Action: ActionMoved}
		}
		return Result{Action: ActionNone}
	case "enter":
		item, ok := p.Current()
		if !ok {
			return Result{Action: ActionNone}
		}
		return Result{Action: ActionSelected, Item: item}
	case "esc":
		return Result{Action: ActionCancelled}
	case "backspace":
		if len(p.query) > 0 {
			p.SetQuery(p.query[:len(p.query)-1])
		}
		return Result{Action: ActionNone}
	default:
		if len(keyName) == 1 && keyName[0] >= ' ' && keyName[0] <= '~' {
			p.SetQuery(p.query + keyName)
		}
		return Result{Action: ActionNone}
	}
}

// rebuildFiltered keeps candidates whose value contains the query,
// case-insensitively, prefix matches first.
func (p *Picker) rebuildFiltered() {
	q := strings.ToLower(strings.TrimSpace(p.query))
	if q == "" {
		p.filtered = append([]Candidate(nil), p.items...)
	} else {
		p.filtered = nil
		var contains []Candidate
		for _, it := range p.items {
			v := strings.ToLower(it.Value)
			switch {
			case strings.HasPrefix(v, q):
				p.filtered = append(p.filtered, it)
			case strings.Contains(v, q):
				contains = append(contains, it)
			}
		}
		p.filtered = append(p.filtered, contains...)
	}
	if p.cursor >= len(p.filtered) {
		p.cursor = 0
	}
}

// SortedCandidates turns a set of canonical values into a stable candidate
// list.
func SortedCandidates(values []string) []Candidate {
	vals := append([]string(nil), values...)
	sort.Strings(vals)
	out := make([]Candidate, len(vals))
	for i, v := range vals {
		out[i] = Candidate{Value: v}
	}
	return out
}
