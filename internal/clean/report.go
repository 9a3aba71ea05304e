package clean

import (
	"fmt"
	"strings"

	"github.com/fieldnotes-dev/recoder/internal/wordlist"
)

// ColumnDiag carries every warning and table error collected for one
// column, in pass order. Label is the sanitized display name, padded so
// labels align across the report.
type ColumnDiag struct {
	Name     string
	Label    string
	Warnings []wordlist.Warning
	Errors   []string
}

// Report is the consolidated diagnostic for one run, ordered by the
// iteration order of the columns.
type Report struct {
	Columns []ColumnDiag
}

// Empty reports whether no column produced any warning or error.
func (r *Report) Empty() bool {
	if r == nil {
		return true
	}
	for _, c := range r.Columns {
		if len(c.Warnings) > 0 || len(c.Errors) > 0 {
			return false
		}
	}
	return true
}

// TotalWarnings counts warnings across all columns.
func (r *Report) TotalWarnings() int {
	if r == nil {
		return 0
	}
	n := 0
	for _, c := range r.Columns {
		n += len(c.Warnings)
	}
	return n
}

// TotalErrors counts table errors across all columns.
func (r *Report) TotalErrors() int {
	if r == nil {
		return 0
	}
	n := 0
	for _, c := range r.Columns {
		n += len(c.Errors)
	}
	return n
}

// Summary renders the report as one plain-text warning message, one line
// per issue, suitable for log output.
func (r *Report) Summary() string {
	var b strings.Builder
	for _, c := range r.Columns {
		for _, w := range c.Warnings {
			fmt.Fprintf(&b, "%s: %s\n", c.Label, w)
		}
		for _, e := range c.Errors {
			fmt.Fprintf(&b, "%s: bad wordlist: %s\n", c.Label, e)
		}
	}
	return strings.TrimRight(b.String(), "\n")
}

// finalize sanitizes labels (spaces become underscores) and pads them to a
// common width so the report columns line up.
func (r *Report) finalize() {
	width := 0
	for i := range r.Columns {
		r.Columns[i].Label = strings.ReplaceAll(r.Columns[i].Name, " ", "_")
		if n := len(r.Columns[i].Label); n > width {
			width = n
		}
	}
	for i := range r.Columns {
		r.Columns[i].Label = fmt.Sprintf("%-*s", width, r.Columns[i].Label)
	}
}
