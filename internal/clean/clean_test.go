package clean

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/fieldnotes-dev/recoder/internal/dataset"
	"github.com/fieldnotes-dev/recoder/internal/wordlist"
)

func mustWordlist(t *testing.T, header []string, rows [][]string) *wordlist.Wordlist {
	t.Helper()
	wl, err := wordlist.New(header, rows)
	require.NoError(t, err)
	return wl
}

func mustDataset(t *testing.T, cols ...*dataset.Column) *dataset.Dataset {
	t.Helper()
	ds, err := dataset.New(cols...)
	require.NoError(t, err)
	return ds
}

func textKinds(names ...string) map[string]dataset.Kind {
	kinds := make(map[string]dataset.Kind, len(names))
	for _, n := range names {
		kinds[n] = dataset.KindText
	}
	return kinds
}

func TestSingleTableGroupedScenario(t *testing.T) {
	t.Parallel()

	ds := mustDataset(t, &dataset.Column{Name: "grp", Kind: dataset.KindText, Values: []string{"y", "n", "u"}})
	wl := mustWordlist(t, []string{"from", "to", "grp"}, [][]string{
		{"y", "yes", "grp"},
		{"n", "no", "grp"},
		{"u", "unknown", "grp"},
	})

	out, rep, err := Clean(ds, SingleTable{Table: wl}, Options{Kinds: textKinds("grp"), Diagnostics: true})
	require.NoError(t, err)
	require.Equal(t, []string{"yes", "no", "unknown"}, out.Column("grp").Values)
	require.Equal(t, 0, rep.TotalWarnings())
	require.Equal(t, 0, rep.TotalErrors())
}

func TestGlobalOnlyScenario(t *testing.T) {
	t.Parallel()

	ds := mustDataset(t, &dataset.Column{Name: "sym", Kind: dataset.KindText, Values: []string{"y", "oui", "xx"}})
	global := mustWordlist(t, []string{"from", "to"}, [][]string{
		{"y", "yes"},
		{"oui", "yes"},
	})
	bundle := Collection{
		Names:  []string{wordlist.KeyGlobal},
		Tables: map[string]*wordlist.Wordlist{wordlist.KeyGlobal: global},
	}

	out, rep, err := Clean(ds, bundle, Options{Kinds: textKinds("sym"), Diagnostics: true})
	require.NoError(t, err)
	require.Equal(t, []string{"yes", "yes", "xx"}, out.Column("sym").Values)
	require.Equal(t, 1, rep.TotalWarnings())
	require.Equal(t, "xx", rep.Columns[0].Warnings[0].Value)
}

func TestDefaultKeyAbsorbsUnmatched(t *testing.T) {
	t.Parallel()

	ds := mustDataset(t, &dataset.Column{Name: "num", Kind: dataset.KindText, Values: []string{"1", "2", "3"}})
	wl := mustWordlist(t, []string{"from", "to"}, [][]string{
		{"1", "Yes"},
		{wordlist.KeyDefault, "Unknown"},
	})
	bundle := Collection{
		Names:  []string{"num"},
		Tables: map[string]*wordlist.Wordlist{"num": wl},
	}

	out, rep, err := Clean(ds, bundle, Options{Kinds: textKinds("num"), Diagnostics: true})
	require.NoError(t, err)
	require.Equal(t, []string{"Yes", "Unknown", "Unknown"}, out.Column("num").Values)
	require.Equal(t, 0, rep.TotalWarnings())
}

func TestDefaultInsideGlobalIsConfigError(t *testing.T) {
	t.Parallel()

	ds := mustDataset(t, &dataset.Column{Name: "sym", Kind: dataset.KindText, Values: []string{"y"}})
	global := mustWordlist(t, []string{"from", "to"}, [][]string{
		{"y", "yes"},
		{wordlist.KeyDefault, "unknown"},
	})
	bundle := Collection{
		Names:  []string{wordlist.KeyGlobal},
		Tables: map[string]*wordlist.Wordlist{wordlist.KeyGlobal: global},
	}

	out, rep, err := Clean(ds, bundle, Options{Kinds: textKinds("sym"), Diagnostics: true})
	var cfgErr *ConfigError
	require.ErrorAs(t, err, &cfgErr)
	require.Nil(t, out)
	require.Nil(t, rep)
	// zero mutation: input untouched
	require.Equal(t, []string{"y"}, ds.Column("sym").Values)
}

func TestDefaultInsideGlobalGroupSingleTable(t *testing.T) {
	t.Parallel()

	ds := mustDataset(t, &dataset.Column{Name: "sym", Kind: dataset.KindText, Values: []string{"y"}})
	wl := mustWordlist(t, []string{"from", "to", "grp"}, [][]string{
		{"y", "yes", wordlist.KeyGlobal},
		{wordlist.KeyDefault, "unknown", wordlist.KeyGlobal},
	})

	_, _, err := Clean(ds, SingleTable{Table: wl}, Options{Kinds: textKinds("sym")})
	var cfgErr *ConfigError
	require.ErrorAs(t, err, &cfgErr)
}

func TestSpecificOverridesGlobal(t *testing.T) {
	t.Parallel()

	ds := mustDataset(t, &dataset.Column{Name: "sym", Kind: dataset.KindText, Values: []string{"y", "oui", "foo"}})
	specific := mustWordlist(t, []string{"from", "to"}, [][]string{{"y", "YES"}})
	global := mustWordlist(t, []string{"from", "to"}, [][]string{
		{"y", "yes"},
		{"oui", "aye"},
	})
	bundle := Collection{
		Names: []string{wordlist.KeyGlobal, "sym"},
		Tables: map[string]*wordlist.Wordlist{
			"sym":              specific,
			wordlist.KeyGlobal: global,
		},
	}

	out, rep, err := Clean(ds, bundle, Options{Kinds: textKinds("sym"), Diagnostics: true})
	require.NoError(t, err)
	// key present in both tables takes the specific value
	require.Equal(t, []string{"YES", "aye", "foo"}, out.Column("sym").Values)
	// only the genuinely unmatched value is reported, exactly once
	require.Equal(t, 1, rep.TotalWarnings())
	require.Equal(t, "foo", rep.Columns[0].Warnings[0].Value)
}

func TestGlobalAppliesToUncoveredColumns(t *testing.T) {
	t.Parallel()

	ds := mustDataset(t,
		&dataset.Column{Name: "a", Kind: dataset.KindText, Values: []string{"y"}},
		&dataset.Column{Name: "b", Kind: dataset.KindText, Values: []string{"y"}},
	)
	specific := mustWordlist(t, []string{"from", "to"}, [][]string{{"y", "YES"}})
	global := mustWordlist(t, []string{"from", "to"}, [][]string{{"y", "yes"}})
	bundle := Collection{
		Names: []string{"a", wordlist.KeyGlobal},
		Tables: map[string]*wordlist.Wordlist{
			"a":                specific,
			wordlist.KeyGlobal: global,
		},
	}

	out, _, err := Clean(ds, bundle, Options{Kinds: textKinds("a", "b")})
	require.NoError(t, err)
	require.Equal(t, []string{"YES"}, out.Column("a").Values)
	require.Equal(t, []string{"yes"}, out.Column("b").Values)
}

func TestCollectionWithoutGlobalTouchesOnlyNamedColumns(t *testing.T) {
	t.Parallel()

	ds := mustDataset(t,
		&dataset.Column{Name: "a", Kind: dataset.KindText, Values: []string{"y"}},
		&dataset.Column{Name: "b", Kind: dataset.KindText, Values: []string{"y"}},
	)
	bundle := Collection{
		Names:  []string{"a"},
		Tables: map[string]*wordlist.Wordlist{"a": mustWordlist(t, []string{"from", "to"}, [][]string{{"y", "yes"}})},
	}

	out, rep, err := Clean(ds, bundle, Options{Kinds: textKinds("a", "b"), Diagnostics: true})
	require.NoError(t, err)
	require.Equal(t, []string{"yes"}, out.Column("a").Values)
	require.Equal(t, []string{"y"}, out.Column("b").Values)
	require.Len(t, rep.Columns, 1, "column b is not iterated without a global table")
}

func TestNonEligibleColumnsPassThrough(t *testing.T) {
	t.Parallel()

	ds := mustDataset(t,
		&dataset.Column{Name: "age", Kind: dataset.KindNumeric, Values: []string{"30", "41"}},
		&dataset.Column{Name: "sym", Kind: dataset.KindText, Values: []string{"y", "n"}},
	)
	global := mustWordlist(t, []string{"from", "to"}, [][]string{
		{"y", "yes"},
		{"n", "no"},
		{"30", "thirty"},
	})
	bundle := Collection{
		Names:  []string{wordlist.KeyGlobal},
		Tables: map[string]*wordlist.Wordlist{wordlist.KeyGlobal: global},
	}
	kinds := map[string]dataset.Kind{"age": dataset.KindNumeric, "sym": dataset.KindText}

	out, _, err := Clean(ds, bundle, Options{Kinds: kinds})
	require.NoError(t, err)
	require.Equal(t, []string{"30", "41"}, out.Column("age").Values)
	require.Equal(t, []string{"yes", "no"}, out.Column("sym").Values)
}

func TestEmptyEffectTableWarnsPerUnmatchedValue(t *testing.T) {
	t.Parallel()

	ds := mustDataset(t, &dataset.Column{Name: "sym", Kind: dataset.KindText, Values: []string{"a", "b", "a", ""}})
	bundle := Collection{
		Names:  []string{"sym"},
		Tables: map[string]*wordlist.Wordlist{"sym": mustWordlist(t, []string{"from", "to"}, [][]string{{"zz", "ZZ"}})},
	}

	out, rep, err := Clean(ds, bundle, Options{Kinds: textKinds("sym"), Diagnostics: true})
	require.NoError(t, err)
	require.Equal(t, []string{"a", "b", "a", ""}, out.Column("sym").Values)

	total := 0
	for _, w := range rep.Columns[0].Warnings {
		total += w.Count
	}
	require.Equal(t, 3, total, "one no-match record per non-missing value lacking a key")
}

func TestIdempotence(t *testing.T) {
	t.Parallel()

	ds := mustDataset(t, &dataset.Column{Name: "grp", Kind: dataset.KindText, Values: []string{"y", "n", "u"}})
	wl := mustWordlist(t, []string{"from", "to", "grp"}, [][]string{
		{"y", "yes", "grp"},
		{"n", "no", "grp"},
		{"u", "unknown", "grp"},
	})

	once, _, err := Clean(ds, SingleTable{Table: wl}, Options{Kinds: textKinds("grp")})
	require.NoError(t, err)
	twice, _, err := Clean(once, SingleTable{Table: wl}, Options{Kinds: textKinds("grp")})
	require.NoError(t, err)
	require.Equal(t, once.Column("grp").Values, twice.Column("grp").Values)
}

func TestInputDatasetNeverMutated(t *testing.T) {
	t.Parallel()

	ds := mustDataset(t, &dataset.Column{Name: "grp", Kind: dataset.KindText, Values: []string{"y"}})
	wl := mustWordlist(t, []string{"from", "to", "grp"}, [][]string{{"y", "yes", "grp"}})

	_, _, err := Clean(ds, SingleTable{Table: wl}, Options{Kinds: textKinds("grp")})
	require.NoError(t, err)
	require.Equal(t, []string{"y"}, ds.Column("grp").Values)
}

func TestSingleTableColumnWithoutGroupIsUntouched(t *testing.T) {
	t.Parallel()

	ds := mustDataset(t,
		&dataset.Column{Name: "grp", Kind: dataset.KindText, Values: []string{"y"}},
		&dataset.Column{Name: "other", Kind: dataset.KindText, Values: []string{"y"}},
	)
	wl := mustWordlist(t, []string{"from", "to", "grp"}, [][]string{{"y", "yes", "grp"}})

	out, _, err := Clean(ds, SingleTable{Table: wl}, Options{Kinds: textKinds("grp", "other")})
	require.NoError(t, err)
	require.Equal(t, []string{"yes"}, out.Column("grp").Values)
	require.Equal(t, []string{"y"}, out.Column("other").Values)
}

func TestBrokenTableSkipsPassButRunContinues(t *testing.T) {
	t.Parallel()

	ds := mustDataset(t,
		&dataset.Column{Name: "a", Kind: dataset.KindText, Values: []string{"y"}},
		&dataset.Column{Name: "b", Kind: dataset.KindText, Values: []string{"y"}},
	)
	broken := mustWordlist(t, []string{"from", "to"}, [][]string{
		{"y", "yes"},
		{"y", "maybe"},
	})
	good := mustWordlist(t, []string{"from", "to"}, [][]string{{"y", "yes"}})
	bundle := Collection{
		Names:  []string{"a", "b"},
		Tables: map[string]*wordlist.Wordlist{"a": broken, "b": good},
	}

	out, rep, err := Clean(ds, bundle, Options{Kinds: textKinds("a", "b"), Diagnostics: true})
	require.NoError(t, err, "column errors never abort the run")
	require.Equal(t, []string{"y"}, out.Column("a").Values, "broken pass falls back to unchanged values")
	require.Equal(t, []string{"yes"}, out.Column("b").Values)
	require.Equal(t, 1, rep.TotalErrors())
}

func TestValidationErrors(t *testing.T) {
	t.Parallel()

	ds := mustDataset(t, &dataset.Column{Name: "sym", Kind: dataset.KindText, Values: []string{"y"}})
	wl := mustWordlist(t, []string{"from", "to"}, [][]string{{"y", "yes"}})

	tests := []struct {
		name   string
		ds     *dataset.Dataset
		bundle Bundle
	}{
		{"nil dataset", nil, Collection{Names: []string{"sym"}, Tables: map[string]*wordlist.Wordlist{"sym": wl}}},
		{"empty dataset", &dataset.Dataset{}, Collection{Names: []string{"sym"}, Tables: map[string]*wordlist.Wordlist{"sym": wl}}},
		{"nil bundle", ds, nil},
		{"empty collection", ds, Collection{}},
		{"unnamed table", ds, Collection{Names: []string{""}, Tables: map[string]*wordlist.Wordlist{"": wl}}},
		{"name matches no column", ds, Collection{Names: []string{"nope"}, Tables: map[string]*wordlist.Wordlist{"nope": wl}}},
		{"bad group ref", ds, SingleTable{Table: wl, GroupRef: "grp"}},
		{"empty wordlist", ds, SingleTable{Table: &wordlist.Wordlist{}}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			_, _, err := Clean(tc.ds, tc.bundle, Options{Kinds: textKinds("sym")})
			var cfgErr *ConfigError
			require.ErrorAs(t, err, &cfgErr)
		})
	}
}

func TestSortByOrdersLevels(t *testing.T) {
	t.Parallel()

	ds := mustDataset(t, &dataset.Column{Name: "severity", Kind: dataset.KindCategorical, Values: []string{"hi", "lo", "mid"}})
	wl := mustWordlist(t, []string{"from", "to", "order"}, [][]string{
		{"hi", "High", "3"},
		{"lo", "Low", "1"},
		{"mid", "Moderate", "2"},
	})
	bundle := Collection{
		Names:  []string{"severity"},
		Tables: map[string]*wordlist.Wordlist{"severity": wl},
	}
	kinds := map[string]dataset.Kind{"severity": dataset.KindCategorical}

	out, _, err := Clean(ds, bundle, Options{Kinds: kinds, SortBy: "order"})
	require.NoError(t, err)
	require.Equal(t, []string{"High", "Low", "Moderate"}, out.Column("severity").Values)
	require.Equal(t, []string{"Low", "Moderate", "High"}, out.Column("severity").Levels)
}

func TestQuietByDefault(t *testing.T) {
	t.Parallel()

	ds := mustDataset(t, &dataset.Column{Name: "sym", Kind: dataset.KindText, Values: []string{"zz"}})
	bundle := Collection{
		Names:  []string{"sym"},
		Tables: map[string]*wordlist.Wordlist{"sym": mustWordlist(t, []string{"from", "to"}, [][]string{{"y", "yes"}})},
	}

	_, rep, err := Clean(ds, bundle, Options{Kinds: textKinds("sym")})
	require.NoError(t, err)
	require.Nil(t, rep, "diagnostics are discarded unless requested")
}

func TestReportLabelsAreSanitizedAndAligned(t *testing.T) {
	t.Parallel()

	ds := mustDataset(t,
		&dataset.Column{Name: "first col", Kind: dataset.KindText, Values: []string{"zz"}},
		&dataset.Column{Name: "b", Kind: dataset.KindText, Values: []string{"zz"}},
	)
	global := mustWordlist(t, []string{"from", "to"}, [][]string{{"y", "yes"}})
	bundle := Collection{
		Names:  []string{wordlist.KeyGlobal},
		Tables: map[string]*wordlist.Wordlist{wordlist.KeyGlobal: global},
	}

	_, rep, err := Clean(ds, bundle, Options{Kinds: textKinds("first col", "b"), Diagnostics: true})
	require.NoError(t, err)
	require.Len(t, rep.Columns, 2)
	require.Equal(t, "first_col", rep.Columns[0].Label)
	require.Equal(t, "b        ", rep.Columns[1].Label)
	require.NotEmpty(t, rep.Summary())
}

func TestLaterPassCanRemapEarlierResult(t *testing.T) {
	t.Parallel()

	// global remainder maps oui -> yes, then the specific table remaps
	// yes -> YES: passes compose left to right.
	ds := mustDataset(t, &dataset.Column{Name: "sym", Kind: dataset.KindText, Values: []string{"oui"}})
	specific := mustWordlist(t, []string{"from", "to"}, [][]string{{"yes", "YES"}})
	global := mustWordlist(t, []string{"from", "to"}, [][]string{{"oui", "yes"}})
	bundle := Collection{
		Names: []string{"sym", wordlist.KeyGlobal},
		Tables: map[string]*wordlist.Wordlist{
			"sym":              specific,
			wordlist.KeyGlobal: global,
		},
	}

	out, rep, err := Clean(ds, bundle, Options{Kinds: textKinds("sym"), Diagnostics: true})
	require.NoError(t, err)
	require.Equal(t, []string{"YES"}, out.Column("sym").Values)
	require.Equal(t, 0, rep.TotalWarnings())
}
