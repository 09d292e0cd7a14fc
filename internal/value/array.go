package value

import (
	"bytes"
	"strconv"
)

// DecodeArray implements FromValue for Array<T>: accept an Array, decoding
// each element with elem; Null is absent; anything else is rejected with
// "expected array".
func DecodeArray[T any](av Annotated[Value], elem func(Annotated[Value]) Annotated[T]) Annotated[[]Annotated[T]] {
	if av.Value == nil {
		return Annotated[[]Annotated[T]]{Meta: av.Meta}
	}
	switch av.Value.kind {
	case KindArray:
		items := av.Value.arr
		out := make([]Annotated[T], len(items))
		for idx, it := range items {
			out[idx] = elem(it)
		}
		return Annotated[[]Annotated[T]]{Value: &out, Meta: av.Meta}
	case KindNull:
		return Annotated[[]Annotated[T]]{Meta: av.Meta}
	default:
		m := av.Meta
		m.AddUnexpectedValueError(descArray, *av.Value)
		return Annotated[[]Annotated[T]]{Meta: m}
	}
}

func EncodeArray[T any](av Annotated[[]Annotated[T]], elem func(Annotated[T]) Annotated[Value]) Annotated[Value] {
	if av.Value == nil {
		return Annotated[Value]{Meta: av.Meta}
	}
	items := make([]Annotated[Value], len(*av.Value))
	for idx, it := range *av.Value {
		items[idx] = elem(it)
	}
	v := Array(items)
	return Annotated[Value]{Value: &v, Meta: av.Meta}
}

// SkipArray implements skip_serialization for Array<T>: skip iff absent,
// empty, or every element itself skips.
func SkipArray[T any](av Annotated[[]Annotated[T]], elemSkip func(Annotated[T]) bool) bool {
	if av.Value == nil {
		return true
	}
	for _, it := range *av.Value {
		if !elemSkip(it) {
			return false
		}
	}
	return true
}

// SerializeArrayPayload writes the JSON array payload for Array<T>,
// filtering out elements whose elemSkip predicate is true.
func SerializeArrayPayload[T any](buf *bytes.Buffer, av Annotated[[]Annotated[T]], elemSkip func(Annotated[T]) bool, elemSerialize func(*bytes.Buffer, Annotated[T]) error) error {
	if av.Value == nil {
		buf.WriteString("null")
		return nil
	}
	buf.WriteByte('[')
	first := true
	for _, it := range *av.Value {
		if elemSkip(it) {
			continue
		}
		if !first {
			buf.WriteByte(',')
		}
		first = false
		if err := elemSerialize(buf, it); err != nil {
			return err
		}
	}
	buf.WriteByte(']')
	return nil
}

// ExtractArrayChildMeta collects the non-empty per-element meta subtrees,
// keyed by array index.
func ExtractArrayChildMeta[T any](av Annotated[[]Annotated[T]], elemExtract func(Annotated[T]) MetaTree) MetaMap {
	children := MetaMap{}
	if av.Value == nil {
		return children
	}
	for idx, it := range *av.Value {
		children.Insert(strconv.Itoa(idx), elemExtract(it))
	}
	return children
}
