package value

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

// ParseJSON decodes raw JSON bytes into an Annotated[Value] tree with empty
// Meta throughout (no FromValue typing has happened yet — that's the
// caller's job via Decode*). Object key order is preserved using gjson's
// ForEach, which walks objects in source order.
func ParseJSON(data []byte) (Annotated[Value], error) {
	if !gjson.ValidBytes(data) {
		return Annotated[Value]{}, fmt.Errorf("value: invalid json")
	}
	result := gjson.ParseBytes(data)
	v := fromGJSON(result)
	return Annotated[Value]{Value: &v}, nil
}

func fromGJSON(r gjson.Result) Value {
	switch r.Type {
	case gjson.Null:
		return Null()
	case gjson.True:
		return Bool(true)
	case gjson.False:
		return Bool(false)
	case gjson.Number:
		return numberFromRaw(r.Raw)
	case gjson.String:
		return String(r.String())
	default:
		if r.IsArray() {
			var items []Annotated[Value]
			r.ForEach(func(_, val gjson.Result) bool {
				v := fromGJSON(val)
				items = append(items, Annotated[Value]{Value: &v})
				return true
			})
			return Array(items)
		}
		if r.IsObject() {
			om := NewOrderedMap[Value]()
			r.ForEach(func(key, val gjson.Result) bool {
				v := fromGJSON(val)
				om.Set(key.String(), Annotated[Value]{Value: &v})
				return true
			})
			return Object(om)
		}
		return Null()
	}
}

// numberFromRaw classifies a raw JSON number token the way serde_json
// does: a literal containing '.' or an exponent becomes F64; otherwise a
// leading '-' makes it I64 and anything else U64.
func numberFromRaw(raw string) Value {
	trimmed := strings.TrimSpace(raw)
	if strings.ContainsAny(trimmed, ".eE") {
		f, err := strconv.ParseFloat(trimmed, 64)
		if err != nil {
			return Null()
		}
		return F64(f)
	}
	if strings.HasPrefix(trimmed, "-") {
		i, err := strconv.ParseInt(trimmed, 10, 64)
		if err != nil {
			f, ferr := strconv.ParseFloat(trimmed, 64)
			if ferr != nil {
				return Null()
			}
			return F64(f)
		}
		return I64(i)
	}
	u, err := strconv.ParseUint(trimmed, 10, 64)
	if err != nil {
		f, ferr := strconv.ParseFloat(trimmed, 64)
		if ferr != nil {
			return Null()
		}
		return F64(f)
	}
	return U64(u)
}

// metaJSON is the wire shape of a single Meta node within the sibling
// "_meta" document.
type metaJSON struct {
	Errors         []errorJSON `json:"errors,omitempty"`
	Remarks        []string    `json:"remarks,omitempty"`
	OriginalLength *int        `json:"original_length,omitempty"`
}

type errorJSON struct {
	Message string          `json:"message"`
	Value   json.RawMessage `json:"value,omitempty"`
}

// MarshalJSON renders a MetaTree as an object with an empty-string key for
// the node's own Meta (when non-empty) and one key per non-empty child
// subtree, sorted for deterministic output.
func (t MetaTree) MarshalJSON() ([]byte, error) {
	out := make(map[string]json.RawMessage)
	if !t.Own.IsEmpty() {
		mj := metaJSON{Remarks: t.Own.Remarks, OriginalLength: t.Own.OriginalLength}
		for _, e := range t.Own.Errors {
			ej := errorJSON{Message: e.Message}
			if e.Original != nil {
				raw, err := e.Original.MarshalJSON()
				if err != nil {
					return nil, err
				}
				ej.Value = raw
			}
			mj.Errors = append(mj.Errors, ej)
		}
		raw, err := json.Marshal(mj)
		if err != nil {
			return nil, err
		}
		out[""] = raw
	}
	for _, key := range t.Children.SortedKeys() {
		raw, err := t.Children[key].MarshalJSON()
		if err != nil {
			return nil, err
		}
		out[key] = raw
	}
	return json.Marshal(out)
}

// AttachMeta patches a serialized payload's sibling "_meta" document onto
// it, mirroring the protocol's envelope convention where diagnostics ride
// alongside the value they describe rather than inline in it. Uses
// sjson.SetRawBytes the way chutes_executor.go patches a JSON body field
// in place, rather than decoding the whole payload back into a generic map.
func AttachMeta(payload []byte, meta MetaTree) ([]byte, error) {
	if meta.IsEmpty() {
		return payload, nil
	}
	metaBytes, err := meta.MarshalJSON()
	if err != nil {
		return nil, err
	}
	return sjson.SetRawBytes(payload, "_meta", metaBytes)
}
