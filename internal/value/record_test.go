package value

import (
	"bytes"
	"encoding/json"
	"testing"
)

// helperRecord mimics what generated code would hand-assemble for a struct
// with one Array<u64> field whose empty value is skipped by default.
type helperRecord struct {
	Items Annotated[[]Annotated[uint64]]
}

func (h helperRecord) serializePayload() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	if !SkipArray(h.Items, ScalarSkip[uint64]) {
		buf.WriteString(`"items":`)
		if err := SerializeArrayPayload(&buf, h.Items, ScalarSkip[uint64], func(b *bytes.Buffer, av Annotated[uint64]) error {
			if av.Value == nil {
				b.WriteString("null")
				return nil
			}
			enc, err := json.Marshal(*av.Value)
			if err != nil {
				return err
			}
			b.Write(enc)
			return nil
		}); err != nil {
			return nil, err
		}
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// neverSkipHelperRecord is the same shape but with skip_serialization
// overridden to "never" on the field, the way a record author opts a
// specific field out of empty-container elision.
type neverSkipHelperRecord struct {
	Items Annotated[[]Annotated[uint64]]
}

func (h neverSkipHelperRecord) serializePayload() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString(`{"items":`)
	if err := SerializeArrayPayload(&buf, h.Items, func(Annotated[uint64]) bool { return false }, func(b *bytes.Buffer, av Annotated[uint64]) error {
		if av.Value == nil {
			b.WriteString("null")
			return nil
		}
		enc, err := json.Marshal(*av.Value)
		if err != nil {
			return err
		}
		b.Write(enc)
		return nil
	}); err != nil {
		return nil, err
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func TestEmptyContainersSkippedByDefault(t *testing.T) {
	rec := helperRecord{Items: New([]Annotated[uint64]{})}
	out, err := rec.serializePayload()
	if err != nil {
		t.Fatalf("serializePayload: %v", err)
	}
	if string(out) != `{}` {
		t.Fatalf("expected empty object, got %s", out)
	}
}

func TestEmptyContainersNotSkippedWhenNeverConfigured(t *testing.T) {
	rec := neverSkipHelperRecord{Items: New([]Annotated[uint64]{})}
	out, err := rec.serializePayload()
	if err != nil {
		t.Fatalf("serializePayload: %v", err)
	}
	if string(out) != `{"items":[]}` {
		t.Fatalf("expected explicit empty array, got %s", out)
	}
}

func TestNonEmptyContainerSerializes(t *testing.T) {
	rec := helperRecord{Items: New([]Annotated[uint64]{New(uint64(1)), New(uint64(2))})}
	out, err := rec.serializePayload()
	if err != nil {
		t.Fatalf("serializePayload: %v", err)
	}
	if string(out) != `{"items":[1,2]}` {
		t.Fatalf("unexpected payload: %s", out)
	}
}
