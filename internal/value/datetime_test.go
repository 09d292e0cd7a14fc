package value

import (
	"testing"
	"time"
)

func TestDecodeDateTimeRFC3339WithOffset(t *testing.T) {
	av := mustParse(t, `"1970-01-01T00:00:00Z"`)
	out := DecodeDateTime(av)
	if out.Value == nil {
		t.Fatalf("expected a value")
	}
	if !out.Value.Equal(time.Unix(0, 0).UTC()) {
		t.Fatalf("expected epoch, got %v", out.Value)
	}
}

func TestDecodeDateTimeFromF64Microseconds(t *testing.T) {
	av := mustParse(t, "1000.5")
	out := DecodeDateTime(av)
	if out.Value == nil {
		t.Fatalf("expected a value")
	}
	want := time.Unix(1000, 500000*1000).UTC()
	if !out.Value.Equal(want) {
		t.Fatalf("expected %v, got %v", want, out.Value)
	}
}

func TestEncodeDateTimeRoundTripsThroughF64(t *testing.T) {
	tm := time.Unix(1000, 500000*1000).UTC()
	encoded := EncodeDateTime(New(tm))
	f, ok := encoded.Value.AsF64()
	if !ok {
		t.Fatalf("expected F64 variant")
	}
	if f != 1000.5 {
		t.Fatalf("expected 1000.5, got %v", f)
	}
	decoded := DecodeDateTime(Annotated[Value]{Value: encoded.Value})
	if decoded.Value == nil || !decoded.Value.Equal(tm) {
		t.Fatalf("round trip mismatch: %v", decoded.Value)
	}
}

func TestDecodeDateTimeRejectsWrongVariant(t *testing.T) {
	av := mustParse(t, "true")
	out := DecodeDateTime(av)
	if out.Value != nil {
		t.Fatalf("expected no value")
	}
	if out.Meta.Errors[0].Message != "expected timestamp" {
		t.Fatalf("unexpected message: %q", out.Meta.Errors[0].Message)
	}
}
