// Package flatten turns a nested structured record into a single flat
// record keyed by dot-joined ancestor paths.
package flatten

import "github.com/dgallion1/statflat/internal/record"

// Flatten walks the record depth-first in insertion order and returns a
// flat record mapping dotted paths to leaf strings. Path collisions are
// last-write-wins; the walk visits every node exactly once.
func Flatten(rec *record.Record) *record.FlatRecord {
	flat := record.NewFlat()
	flattenRecord(rec, "", flat)
	return flat
}

func flattenRecord(rec *record.Record, parent string, flat *record.FlatRecord) {
	for _, f := range rec.Fields() {
		switch v := f.Value.(type) {
		case record.Scalar:
			flat.Set(join(parent, f.Name), string(v))
		case *record.Record:
			flattenRecord(v, join(parent, f.Name), flat)
		case record.List:
			flattenList(v, parent, f.Name, flat)
		}
	}
}

func flattenList(list record.List, parent, key string, flat *record.FlatRecord) {
	for _, el := range list {
		switch v := el.(type) {
		case *record.Record:
			if name, ok := nameField(v); ok {
				// A name-bearing element branches the path under its own
				// name; the sequence's tag is dropped from the path.
				flattenRecord(v, join(parent, name), flat)
			} else {
				// Unnamed elements share the parent path, so later
				// elements overwrite earlier scalar fields.
				flattenRecord(v, parent, flat)
			}
		case record.Scalar:
			flat.Set(join(parent, key), string(v))
		case record.List:
			flattenList(v, parent, key, flat)
		}
	}
}

// nameField returns the element's identifying "name" field, when present
// as a scalar.
func nameField(rec *record.Record) (string, bool) {
	for _, key := range []string{"name", "Name"} {
		if v, ok := rec.Get(key); ok {
			if s, ok := v.(record.Scalar); ok {
				return string(s), true
			}
		}
	}
	return "", false
}

func join(parent, key string) string {
	if parent == "" {
		return key
	}
	return parent + "." + key
}
