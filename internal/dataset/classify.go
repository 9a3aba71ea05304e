package dataset

import (
	"strconv"
	"strings"
	"time"
)

// classifySampleSize caps how many values are inspected per column.
const classifySampleSize = 1000

// categoricalMaxRatio is the distinct/non-missing ratio below which a text
// column is treated as categorical.
const categoricalMaxRatio = 0.5

var dateLayouts = []string{
	"2006-01-02",
	"02/01/2006",
	"2/01/2006",
	"01/02/2006",
	"2006/01/02",
	"02-01-2006",
	"Jan 2, 2006",
	time.RFC3339,
}

// Classify infers a kind for every column by sampling its values. Columns
// whose non-missing values all parse as numbers or dates are protected;
// boolean-looking columns are KindOther; the rest are text, downgraded to
// categorical when the distinct-value ratio is low. Used when the caller
// supplies no explicit kinds.
func Classify(ds *Dataset) map[string]Kind {
	kinds := make(map[string]Kind, ds.NumCols())
	for _, c := range ds.Columns() {
		kinds[c.Name] = classifyValues(c.Values)
	}
	return kinds
}

func classifyValues(values []string) Kind {
	sample := values
	if len(sample) > classifySampleSize {
		sample = sample[:classifySampleSize]
	}

	seen := make(map[string]struct{})
	var nonMissing, numeric, date, boolean int
	for _, v := range sample {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		nonMissing++
		seen[v] = struct{}{}
		if isNumeric(v) {
			numeric++
		}
		if isDate(v) {
			date++
		}
		if isBool(v) {
			boolean++
		}
	}
	if nonMissing == 0 {
		return KindText
	}

	switch {
	case numeric == nonMissing:
		return KindNumeric
	case date == nonMissing:
		return KindDate
	case boolean == nonMissing:
		return KindOther
	}

	if float64(len(seen))/float64(nonMissing) <= categoricalMaxRatio {
		return KindCategorical
	}
	return KindText
}

func isNumeric(v string) bool {
	v = strings.ReplaceAll(v, ",", "")
	_, err := strconv.ParseFloat(v, 64)
	return err == nil
}

func isDate(v string) bool {
	for _, layout := range dateLayouts {
		if _, err := time.Parse(layout, v); err == nil {
			return true
		}
	}
	return false
}

func isBool(v string) bool {
	switch strings.ToLower(v) {
	case "true", "false":
		return true
	}
	return false
}
