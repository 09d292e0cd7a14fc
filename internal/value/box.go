package value

// DecodeBox/EncodeBox implement FromValue/ToValue for a heap-indirected T
// (the original's Box<T> impl, which simply defers to T's own impl — Go
// has no boxing distinct from a plain pointer, so these exist only to keep
// generated-style call sites uniform with the other primitive helpers).
func DecodeBox[T any](av Annotated[Value], elem func(Annotated[Value]) Annotated[T]) Annotated[*T] {
	inner := elem(av)
	if inner.Value == nil {
		return Annotated[*T]{Meta: inner.Meta}
	}
	ptr := inner.Value
	return Annotated[*T]{Value: &ptr, Meta: inner.Meta}
}

func EncodeBox[T any](av Annotated[*T], elem func(Annotated[T]) Annotated[Value]) Annotated[Value] {
	if av.Value == nil {
		return Annotated[Value]{Meta: av.Meta}
	}
	return elem(Annotated[T]{Value: *av.Value, Meta: av.Meta})
}
