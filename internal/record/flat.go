package record

import (
	"encoding/csv"
	"fmt"
	"io"
)

// FlatRecord is an insertion-ordered mapping from dotted field path to
// scalar string, directly serializable as one CSV row or as flat JSON.
type FlatRecord struct {
	paths  []string
	values map[string]string
}

// NewFlat returns an empty flat record.
func NewFlat() *FlatRecord {
	return &FlatRecord{values: make(map[string]string)}
}

// Len returns the number of fields.
func (f *FlatRecord) Len() int {
	return len(f.paths)
}

// Get returns the value stored under path.
func (f *FlatRecord) Get(path string) (string, bool) {
	v, ok := f.values[path]
	return v, ok
}

// Paths returns all field paths in insertion order. The returned slice is
// the record's backing storage and must not be mutated.
func (f *FlatRecord) Paths() []string {
	return f.paths
}

// Set stores value under path. A repeated path keeps its original position
// and is silently overwritten (last-write-wins).
func (f *FlatRecord) Set(path, value string) {
	if _, ok := f.values[path]; !ok {
		f.paths = append(f.paths, path)
	}
	f.values[path] = value
}

// WriteCSV writes the record as two CSV rows: a header of field paths and a
// row of values, in insertion order.
func (f *FlatRecord) WriteCSV(w io.Writer) error {
	cw := csv.NewWriter(w)
	row := make([]string, len(f.paths))
	for i, p := range f.paths {
		row[i] = f.values[p]
	}
	if err := cw.Write(f.paths); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	if err := cw.Write(row); err != nil {
		return fmt.Errorf("write csv row: %w", err)
	}
	cw.Flush()
	return cw.Error()
}
