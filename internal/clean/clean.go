package clean

import (
	"github.com/fieldnotes-dev/recoder/internal/dataset"
	"github.com/fieldnotes-dev/recoder/internal/wordlist"
)

// Clean recodes every eligible column of ds through the bundle and returns
// a new dataset; ds itself is never mutated. The returned report is nil
// unless opts.Diagnostics is set. The only error is a *ConfigError from
// upfront validation: per-column warnings and table errors are carried in
// the report and never abort the run.
func Clean(ds *dataset.Dataset, bundle Bundle, opts Options) (*dataset.Dataset, *Report, error) {
	if ds == nil || ds.NumCols() == 0 {
		return nil, nil, configErrf("dataset must have at least one column")
	}
	kinds := opts.Kinds
	if kinds == nil {
		kinds = dataset.Classify(ds)
	}

	if err := validate(ds, bundle, kinds); err != nil {
		return nil, nil, err
	}
	p, err := resolve(ds, bundle, kinds, opts.SortBy)
	if err != nil {
		return nil, nil, err
	}

	out := ds.Clone()
	var report *Report
	if opts.Diagnostics {
		report = &Report{}
	}

	for _, name := range p.columns {
		col := out.Column(name)
		diag := cleanColumn(col, p.specific[name], p.global, opts)
		if report != nil {
			report.Columns = append(report.Columns, diag)
		}
	}
	if report != nil {
		report.finalize()
	}
	return out, report, nil
}

// cleanColumn applies the resolved pass sequence for one column. With both
// a specific table and a global one, the global remainder (keys the
// specific table does not define) runs first and the specific table last,
// so column-specific rules always win. Passes compose left to right on the
// column's current values; a nil pass result leaves the column as it was.
func cleanColumn(col *dataset.Column, specific, global *wordlist.Wordlist, opts Options) ColumnDiag {
	diag := ColumnDiag{Name: col.Name}

	var passes []*wordlist.Wordlist
	switch {
	case specific != nil && global != nil:
		if rem := global.Without(specific.Keys()); rem.Len() > 0 {
			passes = append(passes, rem)
		}
		passes = append(passes, specific)
	case specific != nil:
		passes = append(passes, specific)
	case global != nil:
		passes = append(passes, global)
	default:
		return diag
	}

	mopts := wordlist.Options{Normalize: opts.Normalize}
	var levels []string
	warned := make(map[string]struct{})
	produced := make(map[string]struct{})
	for pi, wl := range passes {
		res := wordlist.MatchWith(col.Values, wl, mopts)
		for _, w := range res.Warnings {
			// A warning means "left unchanged for good". Skip it when a
			// later pass still gets a shot at the value, when the value is
			// itself canonical output of an earlier pass, or when an
			// earlier pass already reported it.
			if _, dup := warned[w.Value]; dup {
				continue
			}
			if _, canon := produced[w.Value]; canon {
				continue
			}
			if matchedLater(w.Value, passes[pi+1:]) {
				continue
			}
			warned[w.Value] = struct{}{}
			diag.Warnings = append(diag.Warnings, w)
		}
		diag.Errors = append(diag.Errors, res.Errors...)
		if res.Values != nil {
			col.Values = res.Values
		}
		if len(res.Errors) == 0 {
			for _, l := range wl.Levels() {
				if _, dup := produced[l]; !dup {
					produced[l] = struct{}{}
					levels = append(levels, l)
				}
			}
		}
	}
	if col.Kind == dataset.KindCategorical {
		col.Levels = levels
	}
	return diag
}

func matchedLater(value string, rest []*wordlist.Wordlist) bool {
	for _, wl := range rest {
		if wl.HasKey(value) || wl.HasKey(wordlist.KeyDefault) {
			return true
		}
	}
	return false
}
