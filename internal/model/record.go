package model

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

const (
	// FieldID is the identity field of a search result.
	FieldID = "id"

	// FieldImageLink is the derived screenshot URL added by the fetcher.
	FieldImageLink = "imagelink"
)

// ErrNotObject is returned when a record is decoded from anything other
// than a JSON object.
var ErrNotObject = errors.New("record is not a JSON object")

// Field is one key/value pair of a Record.
type Field struct {
	Key   string
	Value Value
}

// Record is one search result: an ordered mapping from field name to Value.
// Setting an existing key replaces the value in place and keeps its position.
type Record struct {
	fields []Field
	index  map[string]int
}

// NewRecord creates a Record from the given fields in order.
func NewRecord(fields ...Field) *Record {
	r := &Record{}
	for _, f := range fields {
		r.Set(f.Key, f.Value)
	}
	return r
}

// Set adds key with value, or replaces the value if key is already present.
func (r *Record) Set(key string, value Value) {
	if r.index == nil {
		r.index = make(map[string]int)
	}
	if i, ok := r.index[key]; ok {
		r.fields[i].Value = value
		return
	}
	r.index[key] = len(r.fields)
	r.fields = append(r.fields, Field{Key: key, Value: value})
}

// Get returns the value for key and whether it was present.
func (r *Record) Get(key string) (Value, bool) {
	i, ok := r.index[key]
	if !ok {
		return Value{}, false
	}
	return r.fields[i].Value, true
}

// Fields returns a copy of the fields in insertion order.
func (r *Record) Fields() []Field {
	out := make([]Field, len(r.fields))
	copy(out, r.fields)
	return out
}

// Keys returns the field names in insertion order.
func (r *Record) Keys() []string {
	keys := make([]string, len(r.fields))
	for i, f := range r.fields {
		keys[i] = f.Key
	}
	return keys
}

// Len returns the number of fields.
func (r *Record) Len() int {
	return len(r.fields)
}

// ID returns the string form of the id field, or "" when it is missing.
func (r *Record) ID() string {
	v, ok := r.Get(FieldID)
	if !ok {
		return ""
	}
	return v.String()
}

// HasID reports whether the record carries a non-empty id.
func (r *Record) HasID() bool {
	return r.ID() != ""
}

// ImageLink returns the derived screenshot URL, or "" when not set.
func (r *Record) ImageLink() string {
	v, ok := r.Get(FieldImageLink)
	if !ok {
		return ""
	}
	return v.String()
}

// MarshalJSON writes the record as a JSON object with keys in order.
func (r *Record) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, f := range r.fields {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := marshalJSON(f.Key)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')

		val, err := f.Value.MarshalJSON()
		if err != nil {
			return nil, fmt.Errorf("field %q: %w", f.Key, err)
		}
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON decodes a JSON object, keeping the key order of the input.
func (r *Record) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return ErrNotObject
	}

	*r = Record{}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := tok.(string)
		if !ok {
			return fmt.Errorf("unexpected object key %v", tok)
		}

		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return fmt.Errorf("field %q: %w", key, err)
		}

		var v Value
		if err := v.UnmarshalJSON(raw); err != nil {
			return fmt.Errorf("field %q: %w", key, err)
		}
		r.Set(key, v)
	}

	// Consume the closing brace.
	if _, err := dec.Token(); err != nil {
		return err
	}
	return nil
}
