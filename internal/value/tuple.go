package value

// Tuple represents a fixed-arity heterogeneous array. The original derive
// macro generates one concrete tuple type per arity (1..12); since that
// codegen machinery is explicitly out of scope (spec.md §1 only specifies
// the runtime contract generated serializers must satisfy), Tuple instead
// carries its arity at runtime and lets the caller type-assert or convert
// each item with the decoder appropriate to its position.
type Tuple struct {
	Items []Annotated[Value]
}

func (t Tuple) At(i int) Annotated[Value] {
	if i < 0 || i >= len(t.Items) {
		return Annotated[Value]{}
	}
	return t.Items[i]
}

func (t Tuple) Len() int {
	return len(t.Items)
}

// DecodeTuple implements FromValue for a tuple of the given arity: accept
// an Array of exactly that length, Null is absent, anything else
// (including a wrong-length array) is rejected with "expected tuple".
func DecodeTuple(av Annotated[Value], arity int) Annotated[Tuple] {
	if av.Value == nil {
		return Annotated[Tuple]{Meta: av.Meta}
	}
	switch av.Value.kind {
	case KindArray:
		if len(av.Value.arr) != arity {
			m := av.Meta
			m.AddUnexpectedValueError(descTuple, *av.Value)
			return Annotated[Tuple]{Meta: m}
		}
		t := Tuple{Items: av.Value.arr}
		return Annotated[Tuple]{Value: &t, Meta: av.Meta}
	case KindNull:
		return Annotated[Tuple]{Meta: av.Meta}
	default:
		m := av.Meta
		m.AddUnexpectedValueError(descTuple, *av.Value)
		return Annotated[Tuple]{Meta: m}
	}
}

func EncodeTuple(av Annotated[Tuple]) Annotated[Value] {
	if av.Value == nil {
		return Annotated[Value]{Meta: av.Meta}
	}
	v := Array(av.Value.Items)
	return Annotated[Value]{Value: &v, Meta: av.Meta}
}
