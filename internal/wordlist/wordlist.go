// Package wordlist implements lookup tables of source-key to canonical-value
// pairs and the single-column substitution they drive. A table's first
// column holds source keys, its second canonical values; further columns
// (group, sort order) are addressed by header name or 1-based position.
package wordlist

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"
)

// Reserved identifiers. KeyDefault as a source key matches any value with
// no exact key; KeyGlobal names the fallback table applied to every
// eligible column. The two may never meet in one table.
const (
	KeyDefault = ".default"
	KeyGlobal  = ".global"
)

// Wordlist is an ordered lookup table. Row order is significant: it drives
// canonical label ordering for categorical output.
type Wordlist struct {
	header []string
	rows   [][]string
}

// New builds a wordlist from a header and rows. At least two columns
// (source key, canonical value) are required.
func New(header []string, rows [][]string) (*Wordlist, error) {
	if len(header) < 2 {
		return nil, fmt.Errorf("wordlist needs at least 2 columns (from, to), got %d", len(header))
	}
	for i, row := range rows {
		if len(row) < len(header) {
			return nil, fmt.Errorf("wordlist row %d has %d fields, header has %d", i+1, len(row), len(header))
		}
	}
	return &Wordlist{header: header, rows: rows}, nil
}

// ReadCSV parses a headered CSV into a wordlist.
func ReadCSV(r io.Reader) (*Wordlist, error) {
	cr := csv.NewReader(r)
	recs, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read wordlist csv: %w", err)
	}
	if len(recs) == 0 {
		return nil, fmt.Errorf("wordlist csv is empty")
	}
	return New(recs[0], recs[1:])
}

// ReadCSVFile is ReadCSV over a file path.
func ReadCSVFile(path string) (*Wordlist, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open wordlist: %w", err)
	}
	defer f.Close()
	return ReadCSV(f)
}

// Len returns the number of entries.
func (w *Wordlist) Len() int { return len(w.rows) }

// Header returns the column names.
func (w *Wordlist) Header() []string { return w.header }

// From returns the source key of entry i.
func (w *Wordlist) From(i int) string { return w.rows[i][0] }

// To returns the canonical value of entry i.
func (w *Wordlist) To(i int) string { return w.rows[i][1] }

// Row returns the raw fields of entry i.
func (w *Wordlist) Row(i int) []string { return w.rows[i] }

// Column resolves a column reference, either a header name or a 1-based
// position, to a 0-based index.
func (w *Wordlist) Column(ref string) (int, bool) {
	for i, h := range w.header {
		if h == ref {
			return i, true
		}
	}
	if n, err := strconv.Atoi(ref); err == nil && n >= 1 && n <= len(w.header) {
		return n - 1, true
	}
	return 0, false
}

// HasKey reports whether key appears as a source key.
func (w *Wordlist) HasKey(key string) bool {
	for i := range w.rows {
		if w.rows[i][0] == key {
			return true
		}
	}
	return false
}

// Keys returns the set of source keys.
func (w *Wordlist) Keys() map[string]struct{} {
	out := make(map[string]struct{}, len(w.rows))
	for i := range w.rows {
		out[w.rows[i][0]] = struct{}{}
	}
	return out
}

// SortBy stably reorders entries ascending by the referenced column,
// numerically when every value parses as a number, lexically otherwise.
// Returns false without reordering when the column does not exist.
func (w *Wordlist) SortBy(ref string) bool {
	col, ok := w.Column(ref)
	if !ok {
		return false
	}
	numeric := true
	nums := make([]float64, len(w.rows))
	for i, row := range w.rows {
		n, err := strconv.ParseFloat(strings.TrimSpace(row[col]), 64)
		if err != nil {
			numeric = false
			break
		}
		nums[i] = n
	}
	idx := make([]int, len(w.rows))
	for i := range idx {
		idx[i] = i
	}
	if numeric {
		sort.SliceStable(idx, func(a, b int) bool { return nums[idx[a]] < nums[idx[b]] })
	} else {
		sort.SliceStable(idx, func(a, b int) bool { return w.rows[idx[a]][col] < w.rows[idx[b]][col] })
	}
	sorted := make([][]string, len(w.rows))
	for i, j := range idx {
		sorted[i] = w.rows[j]
	}
	w.rows = sorted
	return true
}

// SplitBy partitions entries by the values of the referenced group column.
// Each part keeps the full header and the parent's row order.
func (w *Wordlist) SplitBy(ref string) (map[string]*Wordlist, error) {
	col, ok := w.Column(ref)
	if !ok {
		return nil, fmt.Errorf("group column %q not found in wordlist (columns: %s)", ref, strings.Join(w.header, ", "))
	}
	parts := make(map[string]*Wordlist)
	for _, row := range w.rows {
		g := row[col]
		p, ok := parts[g]
		if !ok {
			p = &Wordlist{header: w.header}
			parts[g] = p
		}
		p.rows = append(p.rows, row)
	}
	return parts, nil
}

// Without returns a wordlist holding only entries whose source key is not
// in exclude. Used to trim a global table down to the keys a specific
// table does not already define.
func (w *Wordlist) Without(exclude map[string]struct{}) *Wordlist {
	out := &Wordlist{header: w.header}
	for _, row := range w.rows {
		if _, hit := exclude[row[0]]; !hit {
			out.rows = append(out.rows, row)
		}
	}
	return out
}

// Levels returns the canonical values in row order, deduplicated. This is
// the explicit label ordering categorical output columns adopt.
func (w *Wordlist) Levels() []string {
	seen := make(map[string]struct{}, len(w.rows))
	var out []string
	for i := range w.rows {
		to := w.rows[i][1]
		if _, dup := seen[to]; dup {
			continue
		}
		seen[to] = struct{}{}
		out = append(out, to)
	}
	return out
}

// Append adds an entry with the given source key and canonical value,
// leaving any extra columns blank.
func (w *Wordlist) Append(from, to string) {
	row := make([]string, len(w.header))
	row[0] = from
	row[1] = to
	w.rows = append(w.rows, row)
}
