// Package dataset holds the tabular container the cleaners operate on:
// named columns of string values with a per-column kind. The empty string
// is the missing value.
package dataset

import "fmt"

// Kind classifies what a column holds. Only KindText and KindCategorical
// columns are rewritten by the cleaners; everything else passes through
// untouched.
type Kind string

const (
	KindText        Kind = "text"
	KindCategorical Kind = "categorical"
	KindNumeric     Kind = "numeric"
	KindDate        Kind = "date"
	KindOther       Kind = "other"
)

// Eligible reports whether columns of this kind may be recoded.
func (k Kind) Eligible() bool {
	return k == KindText || k == KindCategorical
}

// Column is one named column. Levels, when set on a categorical column,
// records the canonical label order resolved during cleaning.
type Column struct {
	Name   string
	Kind   Kind
	Values []string
	Levels []string
}

// Dataset is an ordered collection of uniquely named columns.
type Dataset struct {
	cols  []*Column
	index map[string]int
}

// New builds a dataset from columns, rejecting duplicate names and ragged
// column lengths.
func New(cols ...*Column) (*Dataset, error) {
	ds := &Dataset{index: make(map[string]int, len(cols))}
	for _, c := range cols {
		if err := ds.AddColumn(c); err != nil {
			return nil, err
		}
	}
	return ds, nil
}

// AddColumn appends a column, keeping names unique and lengths equal.
func (ds *Dataset) AddColumn(c *Column) error {
	if c.Name == "" {
		return fmt.Errorf("column has no name")
	}
	if _, dup := ds.index[c.Name]; dup {
		return fmt.Errorf("duplicate column %q", c.Name)
	}
	if len(ds.cols) > 0 && len(c.Values) != ds.NumRows() {
		return fmt.Errorf("column %q has %d rows, dataset has %d", c.Name, len(c.Values), ds.NumRows())
	}
	if ds.index == nil {
		ds.index = make(map[string]int)
	}
	ds.index[c.Name] = len(ds.cols)
	ds.cols = append(ds.cols, c)
	return nil
}

// Columns returns the columns in declaration order. The slice is shared;
// callers must not reorder it.
func (ds *Dataset) Columns() []*Column {
	return ds.cols
}

// Column returns the named column, or nil when absent.
func (ds *Dataset) Column(name string) *Column {
	i, ok := ds.index[name]
	if !ok {
		return nil
	}
	return ds.cols[i]
}

// Names returns the column names in order.
func (ds *Dataset) Names() []string {
	out := make([]string, len(ds.cols))
	for i, c := range ds.cols {
		out[i] = c.Name
	}
	return out
}

// NumCols returns the number of columns.
func (ds *Dataset) NumCols() int { return len(ds.cols) }

// NumRows returns the number of rows (0 for an empty dataset).
func (ds *Dataset) NumRows() int {
	if len(ds.cols) == 0 {
		return 0
	}
	return len(ds.cols[0].Values)
}

// Clone deep-copies the dataset so cleaning never mutates caller data.
func (ds *Dataset) Clone() *Dataset {
	out := &Dataset{
		cols:  make([]*Column, len(ds.cols)),
		index: make(map[string]int, len(ds.cols)),
	}
	for i, c := range ds.cols {
		cc := &Column{Name: c.Name, Kind: c.Kind}
		cc.Values = append([]string(nil), c.Values...)
		if c.Levels != nil {
			cc.Levels = append([]string(nil), c.Levels...)
		}
		out.cols[i] = cc
		out.index[c.Name] = i
	}
	return out
}
