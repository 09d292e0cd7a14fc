package value

import "time"

const naiveDateTimeLayout = "2006-01-02T15:04:05.999999999"

// DecodeDateTime implements FromValue for time.Time (always normalized to
// UTC). Strings are tried as a naive (offset-less) timestamp first and as
// RFC3339 second, matching the original's NaiveDateTime-then-DateTime
// fallback; numeric variants are treated as seconds since the epoch, with
// F64 carrying microsecond resolution in its fractional part.
func DecodeDateTime(av Annotated[Value]) Annotated[time.Time] {
	if av.Value == nil {
		return Annotated[time.Time]{Meta: av.Meta}
	}
	switch av.Value.kind {
	case KindString:
		if t, err := time.Parse(naiveDateTimeLayout, av.Value.s); err == nil {
			t = t.UTC()
			return Annotated[time.Time]{Value: &t, Meta: av.Meta}
		}
		if t, err := time.Parse(time.RFC3339Nano, av.Value.s); err == nil {
			t = t.UTC()
			return Annotated[time.Time]{Value: &t, Meta: av.Meta}
		}
		m := av.Meta
		m.AddUnexpectedValueError(descTimestamp, *av.Value)
		return Annotated[time.Time]{Meta: m}
	case KindU64:
		t := time.Unix(int64(av.Value.u), 0).UTC()
		return Annotated[time.Time]{Value: &t, Meta: av.Meta}
	case KindI64:
		t := time.Unix(av.Value.i, 0).UTC()
		return Annotated[time.Time]{Value: &t, Meta: av.Meta}
	case KindF64:
		secs := int64(av.Value.f)
		micros := int64((av.Value.f - float64(secs)) * 1e6)
		t := time.Unix(secs, micros*1000).UTC()
		return Annotated[time.Time]{Value: &t, Meta: av.Meta}
	case KindNull:
		return Annotated[time.Time]{Meta: av.Meta}
	default:
		m := av.Meta
		m.AddUnexpectedValueError(descTimestamp, *av.Value)
		return Annotated[time.Time]{Meta: m}
	}
}

// EncodeDateTime serializes to an F64 of seconds since the epoch with
// microsecond resolution in the fractional part, the wire shape
// DecodeDateTime's F64 branch reads back.
func EncodeDateTime(av Annotated[time.Time]) Annotated[Value] {
	if av.Value == nil {
		return Annotated[Value]{Meta: av.Meta}
	}
	t := av.Value.UTC()
	subsecMicros := t.Nanosecond() / 1000
	seconds := float64(t.Unix()) + float64(subsecMicros)/1e6
	v := F64(seconds)
	return Annotated[Value]{Value: &v, Meta: av.Meta}
}
