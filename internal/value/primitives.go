package value

import "math"

// DecodeBool implements FromValue for bool: accept Bool, treat Null as
// absent, reject everything else with "expected a boolean".
func DecodeBool(av Annotated[Value]) Annotated[bool] {
	if av.Value == nil {
		return Annotated[bool]{Meta: av.Meta}
	}
	switch av.Value.kind {
	case KindBool:
		b := av.Value.b
		return Annotated[bool]{Value: &b, Meta: av.Meta}
	case KindNull:
		return Annotated[bool]{Meta: av.Meta}
	default:
		m := av.Meta
		m.AddUnexpectedValueError(descBool, *av.Value)
		return Annotated[bool]{Meta: m}
	}
}

func EncodeBool(av Annotated[bool]) Annotated[Value] {
	if av.Value == nil {
		return Annotated[Value]{Meta: av.Meta}
	}
	v := Bool(*av.Value)
	return Annotated[Value]{Value: &v, Meta: av.Meta}
}

// DecodeString implements FromValue for string.
func DecodeString(av Annotated[Value]) Annotated[string] {
	if av.Value == nil {
		return Annotated[string]{Meta: av.Meta}
	}
	switch av.Value.kind {
	case KindString:
		s := av.Value.s
		return Annotated[string]{Value: &s, Meta: av.Meta}
	case KindNull:
		return Annotated[string]{Meta: av.Meta}
	default:
		m := av.Meta
		m.AddUnexpectedValueError(descString, *av.Value)
		return Annotated[string]{Meta: m}
	}
}

func EncodeString(av Annotated[string]) Annotated[Value] {
	if av.Value == nil {
		return Annotated[Value]{Meta: av.Meta}
	}
	v := String(*av.Value)
	return Annotated[Value]{Value: &v, Meta: av.Meta}
}

// DecodeU64 implements FromValue for u64. JSON numbers without a decimal
// point decode as U64 when non-negative and I64 when negative (see
// codec.go), so "reject negative numbers for u64" is exactly "reject the
// I64 variant" — the one case the original test suite exercises directly
// (Annotated::<u64>::from_json("-1")).
func DecodeU64(av Annotated[Value]) Annotated[uint64] {
	if av.Value == nil {
		return Annotated[uint64]{Meta: av.Meta}
	}
	switch av.Value.kind {
	case KindU64:
		u := av.Value.u
		return Annotated[uint64]{Value: &u, Meta: av.Meta}
	case KindNull:
		return Annotated[uint64]{Meta: av.Meta}
	default:
		m := av.Meta
		m.AddUnexpectedValueError(descU64, *av.Value)
		return Annotated[uint64]{Meta: m}
	}
}

func EncodeU64(av Annotated[uint64]) Annotated[Value] {
	if av.Value == nil {
		return Annotated[Value]{Meta: av.Meta}
	}
	v := U64(*av.Value)
	return Annotated[Value]{Value: &v, Meta: av.Meta}
}

// DecodeI64 implements FromValue for i64. A non-negative JSON integer
// literal decodes as U64 (see codec.go); i64 fields accept that
// representation too as long as it fits, since otherwise every ordinary
// positive literal assigned to a signed field would spuriously fail.
func DecodeI64(av Annotated[Value]) Annotated[int64] {
	if av.Value == nil {
		return Annotated[int64]{Meta: av.Meta}
	}
	switch av.Value.kind {
	case KindI64:
		i := av.Value.i
		return Annotated[int64]{Value: &i, Meta: av.Meta}
	case KindU64:
		if av.Value.u <= math.MaxInt64 {
			i := int64(av.Value.u)
			return Annotated[int64]{Value: &i, Meta: av.Meta}
		}
		m := av.Meta
		m.AddUnexpectedValueError(descI64, *av.Value)
		return Annotated[int64]{Meta: m}
	case KindNull:
		return Annotated[int64]{Meta: av.Meta}
	default:
		m := av.Meta
		m.AddUnexpectedValueError(descI64, *av.Value)
		return Annotated[int64]{Meta: m}
	}
}

func EncodeI64(av Annotated[int64]) Annotated[Value] {
	if av.Value == nil {
		return Annotated[Value]{Meta: av.Meta}
	}
	v := I64(*av.Value)
	return Annotated[Value]{Value: &v, Meta: av.Meta}
}

// DecodeF64 implements FromValue for f64, widening from either integer
// representation; integers beyond 2^53 in magnitude are rounded to the
// nearest float64.
func DecodeF64(av Annotated[Value]) Annotated[float64] {
	if av.Value == nil {
		return Annotated[float64]{Meta: av.Meta}
	}
	switch av.Value.kind {
	case KindF64:
		f := av.Value.f
		return Annotated[float64]{Value: &f, Meta: av.Meta}
	case KindU64:
		f := float64(av.Value.u)
		return Annotated[float64]{Value: &f, Meta: av.Meta}
	case KindI64:
		f := float64(av.Value.i)
		return Annotated[float64]{Value: &f, Meta: av.Meta}
	case KindNull:
		return Annotated[float64]{Meta: av.Meta}
	default:
		m := av.Meta
		m.AddUnexpectedValueError(descF64, *av.Value)
		return Annotated[float64]{Meta: m}
	}
}

func EncodeF64(av Annotated[float64]) Annotated[Value] {
	if av.Value == nil {
		return Annotated[Value]{Meta: av.Meta}
	}
	v := F64(*av.Value)
	return Annotated[Value]{Value: &v, Meta: av.Meta}
}

// ScalarSkip is the skip_serialization predicate for any scalar-valued
// annotated field: skip iff the field has no value. Containers use their
// own predicate (see array.go/object.go) since an empty-but-present
// container also skips.
func ScalarSkip[T any](av Annotated[T]) bool {
	return av.Value == nil
}
