package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// Kind identifies which variant a Value holds.
type Kind int

const (
	// KindNull is a JSON null.
	KindNull Kind = iota

	// KindString is a JSON string.
	KindString

	// KindNumber is a JSON number. The literal text is kept so that an id
	// of 7 renders as "7" and not "7.000000".
	KindNumber

	// KindBool is a JSON true or false.
	KindBool

	// KindRaw is a nested object or array, kept as compact JSON text.
	KindRaw
)

// String returns the name of the kind.
func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindString:
		return "string"
	case KindNumber:
		return "number"
	case KindBool:
		return "bool"
	case KindRaw:
		return "raw"
	default:
		return "unknown"
	}
}

// Value is one field value of a Record.
// The zero Value is a JSON null.
type Value struct {
	kind Kind
	text string
}

// Null returns a null Value.
func Null() Value {
	return Value{kind: KindNull}
}

// String returns a string Value.
func String(s string) Value {
	return Value{kind: KindString, text: s}
}

// Number returns a number Value from its JSON literal text.
func Number(n json.Number) Value {
	return Value{kind: KindNumber, text: n.String()}
}

// Int returns a number Value for an integer.
func Int(i int64) Value {
	return Value{kind: KindNumber, text: strconv.FormatInt(i, 10)}
}

// Bool returns a bool Value.
func Bool(b bool) Value {
	return Value{kind: KindBool, text: strconv.FormatBool(b)}
}

// Kind reports which variant v holds.
func (v Value) Kind() Kind {
	return v.kind
}

// IsNull reports whether v is a JSON null.
func (v Value) IsNull() bool {
	return v.kind == KindNull
}

// String returns the text form used by the HTML and XML exporters.
// Null renders as the empty string; nested values render as compact JSON.
func (v Value) String() string {
	if v.kind == KindNull {
		return ""
	}
	return v.text
}

// MarshalJSON writes v back out as the JSON it was decoded from.
func (v Value) MarshalJSON() ([]byte, error) {
	switch v.kind {
	case KindNull:
		return []byte("null"), nil
	case KindString:
		return marshalJSON(v.text)
	case KindNumber, KindBool, KindRaw:
		return []byte(v.text), nil
	default:
		return nil, fmt.Errorf("unknown value kind %d", v.kind)
	}
}

// UnmarshalJSON classifies a raw JSON value by its first byte.
func (v *Value) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return fmt.Errorf("empty JSON value")
	}

	switch data[0] {
	case 'n':
		*v = Null()
		return nil
	case '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*v = String(s)
		return nil
	case 't', 'f':
		var b bool
		if err := json.Unmarshal(data, &b); err != nil {
			return err
		}
		*v = Bool(b)
		return nil
	case '{', '[':
		var buf bytes.Buffer
		if err := json.Compact(&buf, data); err != nil {
			return err
		}
		*v = Value{kind: KindRaw, text: buf.String()}
		return nil
	default:
		var n json.Number
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.UseNumber()
		if err := dec.Decode(&n); err != nil {
			return fmt.Errorf("invalid JSON number %q: %w", data, err)
		}
		*v = Number(n)
		return nil
	}
}

// marshalJSON encodes v like json.Marshal but leaves <, > and & as they
// are, so exported text stays readable.
func marshalJSON(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}
