package domain

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
)

// ValueKind identifies the JSON type held by a Value.
type ValueKind int

// JSON value kinds.
const (
	KindNull ValueKind = iota
	KindBool
	KindNumber
	KindString
	KindArray
	KindObject
)

// String returns the JSON name of the kind.
func (k ValueKind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBool:
		return "bool"
	case KindNumber:
		return "number"
	case KindString:
		return "string"
	case KindArray:
		return "array"
	case KindObject:
		return "object"
	default:
		return unknownDescription
	}
}

const unknownDescription = "unknown"

// Value is a JSON value taken from a captured response body.
// Objects keep their keys in document order and numbers keep their literal text,
// so heuristics that pick "the first" match are deterministic and ids such as
// 1234567890123 survive without float rounding.
//
// A nil *Value behaves as JSON null.
type Value struct {
	kind   ValueKind
	b      bool
	s      string
	items  []*Value
	keys   []string
	fields map[string]*Value
}

// ParsePayload decodes a JSON document into a Value.
func ParsePayload(data []byte) (*Value, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	v, err := decodeValue(dec)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidPayload, err)
	}

	// Trailing garbage makes the whole body invalid.
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: trailing data", ErrInvalidPayload)
	}
	return v, nil
}

func decodeValue(dec *json.Decoder) (*Value, error) {
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	return decodeToken(dec, tok)
}

func decodeToken(dec *json.Decoder, tok json.Token) (*Value, error) {
	switch t := tok.(type) {
	case nil:
		return &Value{kind: KindNull}, nil
	case bool:
		return &Value{kind: KindBool, b: t}, nil
	case json.Number:
		return &Value{kind: KindNumber, s: t.String()}, nil
	case string:
		return &Value{kind: KindString, s: t}, nil
	case json.Delim:
		switch t {
		case '[':
			arr := &Value{kind: KindArray}
			for dec.More() {
				item, err := decodeValue(dec)
				if err != nil {
					return nil, err
				}
				arr.items = append(arr.items, item)
			}
			if _, err := dec.Token(); err != nil {
				return nil, err
			}
			return arr, nil
		case '{':
			obj := &Value{kind: KindObject, fields: make(map[string]*Value)}
			for dec.More() {
				keyTok, err := dec.Token()
				if err != nil {
					return nil, err
				}
				key, ok := keyTok.(string)
				if !ok {
					return nil, fmt.Errorf("object key is %T", keyTok)
				}
				val, err := decodeValue(dec)
				if err != nil {
					return nil, err
				}
				if _, dup := obj.fields[key]; !dup {
					obj.keys = append(obj.keys, key)
				}
				obj.fields[key] = val
			}
			if _, err := dec.Token(); err != nil {
				return nil, err
			}
			return obj, nil
		}
	}
	return nil, fmt.Errorf("unexpected token %v", tok)
}

// Kind returns the JSON type of the value.
func (v *Value) Kind() ValueKind {
	if v == nil {
		return KindNull
	}
	return v.kind
}

// IsNull reports whether the value is JSON null or absent.
func (v *Value) IsNull() bool { return v.Kind() == KindNull }

// IsArray reports whether the value is a JSON array.
func (v *Value) IsArray() bool { return v.Kind() == KindArray }

// IsObject reports whether the value is a JSON object.
func (v *Value) IsObject() bool { return v.Kind() == KindObject }

// Len returns the number of array items or object keys.
func (v *Value) Len() int {
	switch v.Kind() {
	case KindArray:
		return len(v.items)
	case KindObject:
		return len(v.keys)
	default:
		return 0
	}
}

// Items returns the elements of an array value.
func (v *Value) Items() []*Value {
	if v.Kind() != KindArray {
		return nil
	}
	return v.items
}

// Keys returns the keys of an object value in document order.
func (v *Value) Keys() []string {
	if v.Kind() != KindObject {
		return nil
	}
	return v.keys
}

// Field returns the value stored under key in an object.
func (v *Value) Field(key string) (*Value, bool) {
	if v.Kind() != KindObject {
		return nil, false
	}
	f, ok := v.fields[key]
	return f, ok
}

// Str returns the string content of a string value.
func (v *Value) Str() (string, bool) {
	if v.Kind() != KindString {
		return "", false
	}
	return v.s, true
}

// Scalar returns the textual form of a string or number value.
func (v *Value) Scalar() (string, bool) {
	switch v.Kind() {
	case KindString, KindNumber:
		return v.s, true
	default:
		return "", false
	}
}

// Truthy follows JavaScript truthiness: null, false, 0 and "" are falsy,
// every array and object is truthy.
func (v *Value) Truthy() bool {
	switch v.Kind() {
	case KindNull:
		return false
	case KindBool:
		return v.b
	case KindNumber:
		return !isZeroNumber(v.s)
	case KindString:
		return v.s != ""
	default:
		return true
	}
}

func isZeroNumber(lit string) bool {
	f, err := strconv.ParseFloat(lit, 64)
	if err != nil {
		return false
	}
	return f == 0
}

// MarshalJSON writes the value back out, keeping object key order.
func (v *Value) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	if err := v.encode(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (v *Value) encode(buf *bytes.Buffer) error {
	switch v.Kind() {
	case KindNull:
		buf.WriteString("null")
	case KindBool:
		if v.b {
			buf.WriteString("true")
		} else {
			buf.WriteString("false")
		}
	case KindNumber:
		buf.WriteString(v.s)
	case KindString:
		s, err := json.Marshal(v.s)
		if err != nil {
			return err
		}
		buf.Write(s)
	case KindArray:
		buf.WriteByte('[')
		for i, item := range v.items {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := item.encode(buf); err != nil {
				return err
			}
		}
		buf.WriteByte(']')
	case KindObject:
		buf.WriteByte('{')
		for i, key := range v.keys {
			if i > 0 {
				buf.WriteByte(',')
			}
			k, err := json.Marshal(key)
			if err != nil {
				return err
			}
			buf.Write(k)
			buf.WriteByte(':')
			if err := v.fields[key].encode(buf); err != nil {
				return err
			}
		}
		buf.WriteByte('}')
	}
	return nil
}

// UnmarshalJSON decodes into the value, keeping object key order.
func (v *Value) UnmarshalJSON(data []byte) error {
	parsed, err := ParsePayload(data)
	if err != nil {
		return err
	}
	*v = *parsed
	return nil
}
