package value

import "sort"

// Error is a single decode/validation diagnostic attached to a node, with
// the offending original value preserved so the failure can be inspected
// or re-surfaced without re-parsing the source payload.
type Error struct {
	Message  string
	Original *Value
}

// Meta carries the diagnostics for one node in the value tree: zero or
// more errors, free-form remarks (e.g. PII scrubbing annotations), and the
// original length of a value that was truncated before storage.
type Meta struct {
	Errors         []Error
	Remarks        []string
	OriginalLength *int
}

func (m *Meta) AddError(message string, original *Value) {
	m.Errors = append(m.Errors, Error{Message: message, Original: original})
}

// AddUnexpectedValueError records a type-mismatch error using the fixed
// "expected <kind>" phrasing shared by every FromValue implementation.
func (m *Meta) AddUnexpectedValueError(kind string, original Value) {
	o := original
	m.AddError("expected "+kind, &o)
}

func (m *Meta) AddRemark(remark string) {
	m.Remarks = append(m.Remarks, remark)
}

func (m *Meta) SetOriginalLength(n int) {
	m.OriginalLength = &n
}

func (m Meta) IsEmpty() bool {
	return len(m.Errors) == 0 && len(m.Remarks) == 0 && m.OriginalLength == nil
}

// MetaTree is one node of the sibling "_meta" document: its own Meta plus
// the (non-empty) subtrees of its children, keyed by field name or array
// index as a string.
type MetaTree struct {
	Own      Meta
	Children MetaMap
}

// MetaMap maps a child key (object field name or array index) to its
// MetaTree. Only non-empty subtrees should ever be inserted.
type MetaMap map[string]MetaTree

func (t MetaTree) IsEmpty() bool {
	if !t.Own.IsEmpty() {
		return false
	}
	for _, child := range t.Children {
		if !child.IsEmpty() {
			return false
		}
	}
	return true
}

// Insert adds child's subtree under key, if and only if it is non-empty.
func (m MetaMap) Insert(key string, child MetaTree) {
	if !child.IsEmpty() {
		m[key] = child
	}
}

// SortedKeys returns the map's keys in deterministic order, used when
// serializing the meta tree so output is stable across runs.
func (m MetaMap) SortedKeys() []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
