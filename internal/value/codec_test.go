package value

import (
	"strings"
	"testing"
)

func TestParseJSONRejectsInvalid(t *testing.T) {
	if _, err := ParseJSON([]byte(`{not json`)); err == nil {
		t.Fatalf("expected error for invalid json")
	}
}

func TestParseJSONObjectPreservesOrder(t *testing.T) {
	av := mustParse(t, `{"b":1,"a":2}`)
	obj, ok := av.Value.AsObject()
	if !ok {
		t.Fatalf("expected object")
	}
	keys := obj.Keys()
	if len(keys) != 2 || keys[0] != "b" || keys[1] != "a" {
		t.Fatalf("unexpected key order: %v", keys)
	}
}

func TestAttachMetaNoopWhenEmpty(t *testing.T) {
	payload := []byte(`{"a":1}`)
	out, err := AttachMeta(payload, MetaTree{})
	if err != nil {
		t.Fatalf("AttachMeta: %v", err)
	}
	if string(out) != string(payload) {
		t.Fatalf("expected unchanged payload, got %s", out)
	}
}

func TestAttachMetaAddsSiblingDocument(t *testing.T) {
	payload := []byte(`{"a":1}`)
	tree := MetaTree{Children: MetaMap{}}
	child := MetaTree{}
	child.Own.AddError("expected a string", nil)
	tree.Children.Insert("a", child)

	out, err := AttachMeta(payload, tree)
	if err != nil {
		t.Fatalf("AttachMeta: %v", err)
	}
	if !strings.Contains(string(out), `"_meta"`) {
		t.Fatalf("expected _meta sibling document, got %s", out)
	}
	if !strings.Contains(string(out), "expected a string") {
		t.Fatalf("expected error message embedded, got %s", out)
	}
}

func TestZeroValueMetaTreeIsEmpty(t *testing.T) {
	tree := MetaTree{}
	if !tree.IsEmpty() {
		t.Fatalf("zero-value MetaTree must be empty")
	}
}
