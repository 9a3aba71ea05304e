package clean

import (
	"fmt"

	"github.com/fieldnotes-dev/recoder/internal/dataset"
	"github.com/fieldnotes-dev/recoder/internal/wordlist"
)

// ConfigError is the only fatal failure mode: a malformed dataset or
// bundle, detected before any column is touched. Everything else is a
// per-column diagnostic that never aborts a run.
type ConfigError struct {
	Reason string
}

func (e *ConfigError) Error() string { return "clean: " + e.Reason }

func configErrf(format string, args ...any) error {
	return &ConfigError{Reason: fmt.Sprintf(format, args...)}
}

// validate runs every upfront check. It is pure: no dataset or bundle
// state is modified.
func validate(ds *dataset.Dataset, bundle Bundle, kinds map[string]dataset.Kind) error {
	if ds == nil || ds.NumCols() == 0 {
		return configErrf("dataset must have at least one column")
	}

	switch b := bundle.(type) {
	case SingleTable:
		return validateSingle(b)
	case Collection:
		return validateCollection(ds, b, kinds)
	case nil:
		return configErrf("no wordlist supplied")
	default:
		return configErrf("unsupported bundle type %T", bundle)
	}
}

func validateSingle(b SingleTable) error {
	if b.Table == nil || b.Table.Len() == 0 {
		return configErrf("wordlist is empty")
	}
	ref := b.GroupRef
	if ref == "" {
		ref = DefaultGroupRef
	}
	if _, ok := b.Table.Column(ref); !ok {
		return configErrf("group column %q does not exist in the wordlist", ref)
	}
	groups, err := b.Table.SplitBy(ref)
	if err != nil {
		return configErrf("%v", err)
	}
	if g, ok := groups[wordlist.KeyGlobal]; ok && g.HasKey(wordlist.KeyDefault) {
		return configErrf("%s keys are not allowed in the %s group", wordlist.KeyDefault, wordlist.KeyGlobal)
	}
	return nil
}

func validateCollection(ds *dataset.Dataset, b Collection, kinds map[string]dataset.Kind) error {
	if len(b.Tables) == 0 {
		return configErrf("wordlist collection is empty")
	}
	for _, name := range b.names() {
		wl := b.Tables[name]
		if name == "" {
			return configErrf("every wordlist in a collection must be named")
		}
		if wl == nil || wl.Len() == 0 {
			return configErrf("wordlist %q is empty", name)
		}
		if name == wordlist.KeyGlobal {
			if wl.HasKey(wordlist.KeyDefault) {
				return configErrf("%s keys are not allowed in the %s wordlist", wordlist.KeyDefault, wordlist.KeyGlobal)
			}
			continue
		}
		col := ds.Column(name)
		if col == nil {
			return configErrf("wordlist %q does not match any dataset column", name)
		}
		if k, ok := kinds[name]; ok && !k.Eligible() {
			return configErrf("wordlist %q targets column of kind %s; only text and categorical columns can be recoded", name, k)
		}
	}
	return nil
}
