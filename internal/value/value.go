// Package value implements the annotated value model described in the
// upstream relay's wire contract: a tagged JSON-shaped tree (Value) whose
// nodes can each carry an Annotated[T] wrapper with parse diagnostics
// (Meta), so a forwarded payload never silently drops malformed fields.
package value

import (
	"bytes"
	"encoding/json"
	"strconv"
)

// Kind discriminates the variants of Value. Go has no native sum type, so
// Value is a single struct with a Kind tag and per-variant storage, the way
// a hand-rolled tagged union is usually written in this codebase's style.
type Kind uint8

const (
	KindNull Kind = iota
	KindBool
	KindU64
	KindI64
	KindF64
	KindString
	KindArray
	KindObject
)

// String-ish descriptions used verbatim in "expected <kind>" error messages.
// These match the phrasing baked into the original metastructure macros.
const (
	descBool      = "a boolean"
	descU64       = "an unsigned integer"
	descI64       = "a signed integer"
	descF64       = "a floating point value"
	descString    = "a string"
	descUUID      = "a uuid"
	descArray     = "array"
	descObject    = "object"
	descTuple     = "tuple"
	descTimestamp = "timestamp"
)

// Value is a tagged sum over {Null, Bool, U64, I64, F64, String, Array,
// Object}. Array and Object own their children; Object preserves insertion
// order via OrderedMap.
type Value struct {
	kind Kind
	b    bool
	u    uint64
	i    int64
	f    float64
	s    string
	arr  []Annotated[Value]
	obj  *OrderedMap[Value]
}

func Null() Value                         { return Value{kind: KindNull} }
func Bool(b bool) Value                   { return Value{kind: KindBool, b: b} }
func U64(u uint64) Value                  { return Value{kind: KindU64, u: u} }
func I64(i int64) Value                   { return Value{kind: KindI64, i: i} }
func F64(f float64) Value                 { return Value{kind: KindF64, f: f} }
func String(s string) Value               { return Value{kind: KindString, s: s} }
func Array(items []Annotated[Value]) Value { return Value{kind: KindArray, arr: items} }
func Object(obj *OrderedMap[Value]) Value  { return Value{kind: KindObject, obj: obj} }

func (v Value) Kind() Kind { return v.kind }

func (v Value) AsBool() (bool, bool)     { return v.b, v.kind == KindBool }
func (v Value) AsU64() (uint64, bool)    { return v.u, v.kind == KindU64 }
func (v Value) AsI64() (int64, bool)     { return v.i, v.kind == KindI64 }
func (v Value) AsF64() (float64, bool)   { return v.f, v.kind == KindF64 }
func (v Value) AsString() (string, bool) { return v.s, v.kind == KindString }

func (v Value) AsArray() ([]Annotated[Value], bool) {
	if v.kind != KindArray {
		return nil, false
	}
	return v.arr, true
}

func (v Value) AsObject() (*OrderedMap[Value], bool) {
	if v.kind != KindObject {
		return nil, false
	}
	return v.obj, true
}

// Equal reports deep equality, treating two Values as equal iff their
// variants and contents match. Used by tests; production code rarely needs
// to compare Values for equality.
func (v Value) Equal(other Value) bool {
	if v.kind != other.kind {
		return false
	}
	switch v.kind {
	case KindNull:
		return true
	case KindBool:
		return v.b == other.b
	case KindU64:
		return v.u == other.u
	case KindI64:
		return v.i == other.i
	case KindF64:
		return v.f == other.f
	case KindString:
		return v.s == other.s
	case KindArray:
		if len(v.arr) != len(other.arr) {
			return false
		}
		for idx := range v.arr {
			if !annotatedValueEqual(v.arr[idx], other.arr[idx]) {
				return false
			}
		}
		return true
	case KindObject:
		if v.obj.Len() != other.obj.Len() {
			return false
		}
		for _, k := range v.obj.Keys() {
			a, _ := v.obj.Get(k)
			b, ok := other.obj.Get(k)
			if !ok || !annotatedValueEqual(a, b) {
				return false
			}
		}
		return true
	}
	return false
}

func annotatedValueEqual(a, b Annotated[Value]) bool {
	if (a.Value == nil) != (b.Value == nil) {
		return false
	}
	if a.Value == nil {
		return true
	}
	return a.Value.Equal(*b.Value)
}

// MarshalJSON renders the value directly, the way ToValue::serialize_payload
// does for the identity Value impl: straight serialization, no skip
// filtering (skip_serialization only applies to annotated record fields).
func (v Value) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	if err := v.appendJSON(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (v Value) appendJSON(buf *bytes.Buffer) error {
	switch v.kind {
	case KindNull:
		buf.WriteString("null")
	case KindBool:
		if v.b {
			buf.WriteString("true")
		} else {
			buf.WriteString("false")
		}
	case KindU64:
		buf.WriteString(strconv.FormatUint(v.u, 10))
	case KindI64:
		buf.WriteString(strconv.FormatInt(v.i, 10))
	case KindF64:
		buf.WriteString(formatFloat(v.f))
	case KindString:
		b, err := json.Marshal(v.s)
		if err != nil {
			return err
		}
		buf.Write(b)
	case KindArray:
		buf.WriteByte('[')
		for idx, item := range v.arr {
			if idx > 0 {
				buf.WriteByte(',')
			}
			if err := appendAnnotatedPayload(buf, item); err != nil {
				return err
			}
		}
		buf.WriteByte(']')
	case KindObject:
		buf.WriteByte('{')
		for idx, k := range v.obj.Keys() {
			if idx > 0 {
				buf.WriteByte(',')
			}
			kb, err := json.Marshal(k)
			if err != nil {
				return err
			}
			buf.Write(kb)
			buf.WriteByte(':')
			val, _ := v.obj.Get(k)
			if err := appendAnnotatedPayload(buf, val); err != nil {
				return err
			}
		}
		buf.WriteByte('}')
	}
	return nil
}

func appendAnnotatedPayload(buf *bytes.Buffer, av Annotated[Value]) error {
	if av.Value == nil {
		buf.WriteString("null")
		return nil
	}
	return av.Value.appendJSON(buf)
}

// formatFloat renders a float64 the way a JSON number serializer that
// distinguishes floats from integers would: always with a decimal point,
// so 0.0 round-trips as "0.0" rather than collapsing to "0" as
// encoding/json would.
func formatFloat(f float64) string {
	s := strconv.FormatFloat(f, 'f', -1, 64)
	for i := 0; i < len(s); i++ {
		if s[i] == '.' || s[i] == 'e' || s[i] == 'E' {
			return s
		}
	}
	return s + ".0"
}
