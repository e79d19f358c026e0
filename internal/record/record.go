package record

// Value is one cell of a structured document: a scalar string, a nested
// *Record, or an ordered List. XML content is always string-typed, so
// scalars carry no numeric interpretation.
type Value interface {
	value()
}

// Scalar is a leaf string: element text, attribute value, or CDATA payload.
type Scalar string

func (Scalar) value() {}

// List is an ordered sequence of values, used for repeated sibling elements.
type List []Value

func (List) value() {}

// Field is a single named entry of a Record.
type Field struct {
	Name  string
	Value Value
}

// Record is an insertion-ordered mapping from field name to Value.
// Downstream consumers (CSV column order) depend on the order, so a plain
// Go map is not usable here.
type Record struct {
	fields []Field
	index  map[string]int
}

func (*Record) value() {}

// New returns an empty record.
func New() *Record {
	return &Record{index: make(map[string]int)}
}

// Len returns the number of fields.
func (r *Record) Len() int {
	return len(r.fields)
}

// Get returns the value stored under name.
func (r *Record) Get(name string) (Value, bool) {
	i, ok := r.index[name]
	if !ok {
		return nil, false
	}
	return r.fields[i].Value, true
}

// Fields returns the fields in insertion order. The returned slice is the
// record's backing storage and must not be mutated.
func (r *Record) Fields() []Field {
	return r.fields
}

// Set assigns value under name. An existing field keeps its position and is
// overwritten; a new field is appended.
func (r *Record) Set(name string, v Value) {
	if i, ok := r.index[name]; ok {
		r.fields[i].Value = v
		return
	}
	r.index[name] = len(r.fields)
	r.fields = append(r.fields, Field{Name: name, Value: v})
}

// Append adds value under name with pseudo-array semantics: an absent field
// is set directly, an existing non-list field is converted in place to a
// one-element list before pushing, and an existing list is pushed onto.
func (r *Record) Append(name string, v Value) {
	i, ok := r.index[name]
	if !ok {
		r.Set(name, v)
		return
	}
	switch existing := r.fields[i].Value.(type) {
	case List:
		r.fields[i].Value = append(existing, v)
	default:
		r.fields[i].Value = List{existing, v}
	}
}

// AppendText accumulates text under name by string concatenation. Adjacent
// text nodes merge into one scalar rather than forming a list.
func (r *Record) AppendText(name, text string) {
	if v, ok := r.Get(name); ok {
		if s, ok := v.(Scalar); ok {
			r.Set(name, s+Scalar(text))
			return
		}
	}
	r.Set(name, Scalar(text))
}
