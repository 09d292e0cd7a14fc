package value

import "github.com/google/uuid"

// DecodeUUID implements FromValue for uuid.UUID: accept a String, parse it,
// and report a parse failure distinctly from a wrong-variant rejection so
// callers can tell "not a uuid-shaped value" from "a malformed uuid".
func DecodeUUID(av Annotated[Value]) Annotated[uuid.UUID] {
	if av.Value == nil {
		return Annotated[uuid.UUID]{Meta: av.Meta}
	}
	switch av.Value.kind {
	case KindString:
		parsed, err := uuid.Parse(av.Value.s)
		if err != nil {
			m := av.Meta
			m.AddError(err.Error(), av.Value)
			return Annotated[uuid.UUID]{Meta: m}
		}
		return Annotated[uuid.UUID]{Value: &parsed, Meta: av.Meta}
	case KindNull:
		return Annotated[uuid.UUID]{Meta: av.Meta}
	default:
		m := av.Meta
		m.AddUnexpectedValueError(descUUID, *av.Value)
		return Annotated[uuid.UUID]{Meta: m}
	}
}

func EncodeUUID(av Annotated[uuid.UUID]) Annotated[Value] {
	if av.Value == nil {
		return Annotated[Value]{Meta: av.Meta}
	}
	v := String(av.Value.String())
	return Annotated[Value]{Value: &v, Meta: av.Meta}
}
