package clean

import (
	"github.com/fieldnotes-dev/recoder/internal/dataset"
	"github.com/fieldnotes-dev/recoder/internal/wordlist"
)

// plan is the resolved execution state for one run: which columns to walk,
// in dataset order, and the tables that govern each.
type plan struct {
	columns  []string
	specific map[string]*wordlist.Wordlist
	global   *wordlist.Wordlist
}

// resolve normalizes either bundle shape into a plan. Both shapes converge
// on the same structure: a per-column table map plus an optional global
// fallback extracted from the reserved entry.
//
// Single-table mode iterates every eligible column, whether or not its
// group appears in the table. Collection mode iterates only columns with a
// specific table, widened to all eligible columns when a global table
// exists so uncovered columns still get the global pass.
func resolve(ds *dataset.Dataset, bundle Bundle, kinds map[string]dataset.Kind, sortBy string) (*plan, error) {
	p := &plan{specific: make(map[string]*wordlist.Wordlist)}

	switch b := bundle.(type) {
	case SingleTable:
		ref := b.GroupRef
		if ref == "" {
			ref = DefaultGroupRef
		}
		table := b.Table
		if sortBy != "" {
			table.SortBy(sortBy)
		}
		groups, err := table.SplitBy(ref)
		if err != nil {
			return nil, configErrf("%v", err)
		}
		p.global = groups[wordlist.KeyGlobal]
		delete(groups, wordlist.KeyGlobal)
		p.specific = groups
		for _, c := range ds.Columns() {
			if kinds[c.Name].Eligible() {
				p.columns = append(p.columns, c.Name)
			}
		}

	case Collection:
		for _, name := range b.names() {
			wl := b.Tables[name]
			if sortBy != "" {
				wl.SortBy(sortBy)
			}
			if name == wordlist.KeyGlobal {
				p.global = wl
				continue
			}
			p.specific[name] = wl
		}
		for _, c := range ds.Columns() {
			if !kinds[c.Name].Eligible() {
				continue
			}
			if _, ok := p.specific[c.Name]; ok || p.global != nil {
				p.columns = append(p.columns, c.Name)
			}
		}
	}

	return p, nil
}
