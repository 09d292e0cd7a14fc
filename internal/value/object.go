package value

import (
	"bytes"
	"encoding/json"
)

// DecodeObject implements FromValue for Object<T>: accept an Object,
// decoding each field with elem while preserving source key order; Null is
// absent; anything else is rejected with "expected object".
func DecodeObject[T any](av Annotated[Value], elem func(Annotated[Value]) Annotated[T]) Annotated[*OrderedMap[T]] {
	if av.Value == nil {
		return Annotated[*OrderedMap[T]]{Meta: av.Meta}
	}
	switch av.Value.kind {
	case KindObject:
		out := NewOrderedMap[T]()
		for _, k := range av.Value.obj.Keys() {
			raw, _ := av.Value.obj.Get(k)
			out.Set(k, elem(raw))
		}
		return Annotated[*OrderedMap[T]]{Value: &out, Meta: av.Meta}
	case KindNull:
		return Annotated[*OrderedMap[T]]{Meta: av.Meta}
	default:
		m := av.Meta
		m.AddUnexpectedValueError(descObject, *av.Value)
		return Annotated[*OrderedMap[T]]{Meta: m}
	}
}

func EncodeObject[T any](av Annotated[*OrderedMap[T]], elem func(Annotated[T]) Annotated[Value]) Annotated[Value] {
	if av.Value == nil {
		return Annotated[Value]{Meta: av.Meta}
	}
	om := NewOrderedMap[Value]()
	(*av.Value).Range(func(k string, v Annotated[T]) bool {
		om.Set(k, elem(v))
		return true
	})
	v := Object(om)
	return Annotated[Value]{Value: &v, Meta: av.Meta}
}

// SkipObject implements skip_serialization for Object<T>: skip iff absent,
// empty, or every field itself skips.
func SkipObject[T any](av Annotated[*OrderedMap[T]], fieldSkip func(Annotated[T]) bool) bool {
	if av.Value == nil {
		return true
	}
	skip := true
	(*av.Value).Range(func(_ string, v Annotated[T]) bool {
		if !fieldSkip(v) {
			skip = false
			return false
		}
		return true
	})
	return skip
}

// SerializeObjectPayload writes the JSON object payload for Object<T>,
// filtering out fields whose fieldSkip predicate is true.
func SerializeObjectPayload[T any](buf *bytes.Buffer, av Annotated[*OrderedMap[T]], fieldSkip func(Annotated[T]) bool, fieldSerialize func(*bytes.Buffer, Annotated[T]) error) error {
	if av.Value == nil {
		buf.WriteString("null")
		return nil
	}
	buf.WriteByte('{')
	first := true
	var outerErr error
	(*av.Value).Range(func(k string, v Annotated[T]) bool {
		if fieldSkip(v) {
			return true
		}
		if !first {
			buf.WriteByte(',')
		}
		first = false
		kb, err := json.Marshal(k)
		if err != nil {
			outerErr = err
			return false
		}
		buf.Write(kb)
		buf.WriteByte(':')
		if err := fieldSerialize(buf, v); err != nil {
			outerErr = err
			return false
		}
		return true
	})
	buf.WriteByte('}')
	return outerErr
}

// ExtractObjectChildMeta collects the non-empty per-field meta subtrees,
// keyed by field name.
func ExtractObjectChildMeta[T any](av Annotated[*OrderedMap[T]], fieldExtract func(Annotated[T]) MetaTree) MetaMap {
	children := MetaMap{}
	if av.Value == nil {
		return children
	}
	(*av.Value).Range(func(k string, v Annotated[T]) bool {
		children.Insert(k, fieldExtract(v))
		return true
	})
	return children
}
