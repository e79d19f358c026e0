package record

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// MarshalJSON renders the record as a JSON object whose key order matches
// insertion order. encoding/json sorts map keys, so the object is built by
// hand.
func (r *Record) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, f := range r.fields {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, err := json.Marshal(f.Name)
		if err != nil {
			return nil, fmt.Errorf("marshal field name %q: %w", f.Name, err)
		}
		buf.Write(k)
		buf.WriteByte(':')
		v, err := json.Marshal(f.Value)
		if err != nil {
			return nil, fmt.Errorf("marshal field %q: %w", f.Name, err)
		}
		buf.Write(v)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// MarshalJSON renders the flat record as a single-level JSON object in
// insertion order.
func (f *FlatRecord) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, p := range f.paths {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, err := json.Marshal(p)
		if err != nil {
			return nil, fmt.Errorf("marshal path %q: %w", p, err)
		}
		buf.Write(k)
		buf.WriteByte(':')
		v, err := json.Marshal(f.values[p])
		if err != nil {
			return nil, fmt.Errorf("marshal value at %q: %w", p, err)
		}
		buf.Write(v)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
