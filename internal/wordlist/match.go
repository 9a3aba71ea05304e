package wordlist

import (
	"fmt"
	"sort"
	"strings"

	"github.com/agnivade/levenshtein"

	"golang.org/x/text/unicode/norm"
)

// suggestMaxDistance caps the edit distance for "did you mean" hints on
// unmatched values. Hints never influence matching, which stays exact.
const suggestMaxDistance = 2

// Warning records one distinct unmatched value in a column: it had no
// exact key and the table carried no catch-all, so it was left unchanged.
type Warning struct {
	Value      string
	Count      int
	Suggestion string
}

func (w Warning) String() string {
	s := fmt.Sprintf("%q not matched (x%d)", w.Value, w.Count)
	if w.Suggestion != "" {
		s += fmt.Sprintf(", closest key %q", w.Suggestion)
	}
	return s
}

// MatchResult is the outcome of one substitution pass. A nil Values slice
// means the pass changed nothing (a no-op, not a failure). Errors report a
// structurally broken table; the pass is then skipped entirely.
type MatchResult struct {
	Values   []string
	Warnings []Warning
	Errors   []string
}

// Options tunes a substitution pass.
type Options struct {
	// Normalize applies NFKC normalization and whitespace trimming to both
	// source keys and data values before the exact comparison.
	Normalize bool
}

// Match rewrites values through the wordlist by exact source-key equality.
// Missing values (empty strings) pass through silently. A KeyDefault entry
// absorbs every value without an exact key; otherwise unmatched values are
// kept and reported as warnings.
func Match(values []string, wl *Wordlist) *MatchResult {
	return MatchWith(values, wl, Options{})
}

// MatchWith is Match with explicit options.
func MatchWith(values []string, wl *Wordlist, opts Options) *MatchResult {
	res := &MatchResult{}

	canon := func(s string) string { return s }
	if opts.Normalize {
		canon = func(s string) string { return strings.TrimSpace(norm.NFKC.String(s)) }
	}

	mapping := make(map[string]string, wl.Len())
	defaultTo := ""
	hasDefault := false
	for i := 0; i < wl.Len(); i++ {
		from, to := canon(wl.From(i)), wl.To(i)
		if from == KeyDefault {
			if hasDefault && defaultTo != to {
				res.Errors = append(res.Errors, fmt.Sprintf("conflicting %s entries: %q vs %q", KeyDefault, defaultTo, to))
			}
			defaultTo, hasDefault = to, true
			continue
		}
		if prev, dup := mapping[from]; dup && prev != to {
			res.Errors = append(res.Errors, fmt.Sprintf("key %q maps to both %q and %q", from, prev, to))
		}
		mapping[from] = to
	}
	if len(res.Errors) > 0 {
		// Broken table: skip the pass rather than guess at intent.
		return res
	}

	out := make([]string, len(values))
	changed := false
	misses := make(map[string]int)
	for i, v := range values {
		out[i] = v
		if v == "" {
			continue
		}
		key := canon(v)
		if to, ok := mapping[key]; ok {
			out[i] = to
		} else if hasDefault {
			out[i] = defaultTo
		} else {
			misses[v]++
			continue
		}
		if out[i] != v {
			changed = true
		}
	}

	for v, n := range misses {
		res.Warnings = append(res.Warnings, Warning{Value: v, Count: n, Suggestion: closestKey(canon(v), mapping)})
	}
	sort.Slice(res.Warnings, func(a, b int) bool { return res.Warnings[a].Value < res.Warnings[b].Value })

	if changed {
		res.Values = out
	}
	return res
}

// closestKey returns the nearest source key within suggestMaxDistance, or
// "" when nothing is close enough. Ties break lexically for determinism.
func closestKey(v string, mapping map[string]string) string {
	best, bestDist := "", suggestMaxDistance+1
	for k := range mapping {
		d := levenshtein.ComputeDistance(strings.ToLower(v), strings.ToLower(k))
		if d < bestDist || (d == bestDist && best != "" && k < best) {
			best, bestDist = k, d
		}
	}
	if bestDist > suggestMaxDistance {
		return ""
	}
	return best
}
