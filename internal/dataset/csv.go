package dataset

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
)

// ReadCSV loads a headered CSV into a dataset. Every column starts as
// KindText; callers run Classify or supply explicit kinds afterwards.
func ReadCSV(r io.Reader) (*Dataset, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("read csv header: %w", err)
	}
	if len(header) == 0 {
		return nil, fmt.Errorf("csv has no columns")
	}

	values := make([][]string, len(header))
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read csv row: %w", err)
		}
		for i := range header {
			if i < len(rec) {
				values[i] = append(values[i], rec[i])
			} else {
				values[i] = append(values[i], "")
			}
		}
	}

	ds := &Dataset{}
	for i, name := range header {
		if err := ds.AddColumn(&Column{Name: name, Kind: KindText, Values: values[i]}); err != nil {
			return nil, err
		}
	}
	return ds, nil
}

// ReadCSVFile is ReadCSV over a file path.
func ReadCSVFile(path string) (*Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open csv: %w", err)
	}
	defer f.Close()
	return ReadCSV(f)
}

// WriteCSV writes the dataset back out with a header row.
func (ds *Dataset) WriteCSV(w io.Writer) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(ds.Names()); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	row := make([]string, ds.NumCols())
	for r := 0; r < ds.NumRows(); r++ {
		for i, c := range ds.cols {
			row[i] = c.Values[r]
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write csv row %d: %w", r+1, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteCSVFile writes the dataset to path, truncating any existing file.
func (ds *Dataset) WriteCSVFile(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create csv: %w", err)
	}
	if err := ds.WriteCSV(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
