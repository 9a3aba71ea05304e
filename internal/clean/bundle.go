// Package clean orchestrates dictionary-based recoding across the columns
// of a dataset: it validates the supplied wordlists, resolves which table
// governs each column, merges global and column-specific rules with
// specific-wins precedence, and aggregates per-column diagnostics into one
// report.
package clean

import (
	"sort"

	"github.com/fieldnotes-dev/recoder/internal/dataset"
	"github.com/fieldnotes-dev/recoder/internal/wordlist"
)

// Bundle is the full set of wordlists for one run. It is a closed union:
// exactly SingleTable or Collection.
type Bundle interface {
	bundle()
}

// SingleTable supplies one grouped table that is split into per-column
// tables by the group column. GroupRef is a header name or 1-based
// position; DefaultGroupRef applies when it is empty.
type SingleTable struct {
	Table    *wordlist.Wordlist
	GroupRef string
}

// DefaultGroupRef is the conventional position of the group column in a
// grouped wordlist (from, to, group).
const DefaultGroupRef = "3"

func (SingleTable) bundle() {}

// Collection supplies named per-column tables. Names holds the caller's
// order; Tables maps each name, including the optional reserved
// wordlist.KeyGlobal entry, to its table.
type Collection struct {
	Names  []string
	Tables map[string]*wordlist.Wordlist
}

func (Collection) bundle() {}

// names returns the table names in caller order, falling back to sorted
// map keys when Names was not populated.
func (c Collection) names() []string {
	if len(c.Names) == len(c.Tables) {
		return c.Names
	}
	out := make([]string, 0, len(c.Tables))
	for n := range c.Tables {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}

// Options tunes one cleaning run.
type Options struct {
	// SortBy names a wordlist column used to reorder each table's rows
	// ascending before application. Tables lacking the column keep their
	// order.
	SortBy string

	// Kinds overrides column-kind classification. When nil, kinds are
	// inferred with dataset.Classify.
	Kinds map[string]dataset.Kind

	// Diagnostics requests the consolidated per-column report. When false
	// the run is quiet and per-column warnings are discarded.
	Diagnostics bool

	// Normalize forwards to the substitution primitive: NFKC + trim on
	// keys and values before exact comparison.
	Normalize bool
}
