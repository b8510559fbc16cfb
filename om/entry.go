package om

import (
	"reflect"

	"github.com/cayleygraph/quad"
)

// Set is an unordered attribute value ("@set" container, also the default
// multi-value shape).
type Set map[interface{}]bool

// NewSet builds a Set from the given values.
func NewSet(vs ...interface{}) Set {
	s := make(Set, len(vs))
	for _, v := range vs {
		s[v] = true
	}
	return s
}

// List is an ordered attribute value ("@list" container).
type List []interface{}

// NewList builds a List from the given values.
func NewList(vs ...interface{}) List { return List(vs) }

// LangMap maps BCP-47 language tags to values ("@language" container).
type LangMap map[string]interface{}

// cloneValue makes a shallow copy of container values so external mutation
// of a returned container never corrupts internal state.
func cloneValue(v interface{}) interface{} {
	switch v := v.(type) {
	case Set:
		out := make(Set, len(v))
		for k, ok := range v {
			out[k] = ok
		}
		return out
	case List:
		out := make(List, len(v))
		copy(out, v)
		return out
	case LangMap:
		out := make(LangMap, len(v))
		for k, e := range v {
			out[k] = e
		}
		return out
	}
	return v
}

// valueEqual compares two attribute values. A nil and a non-nil value are
// never equal, so assigning false over a committed nil registers as a
// change.
func valueEqual(a, b interface{}) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return reflect.DeepEqual(a, b)
}

// Entry is the per-attribute, per-resource record of a value's former
// (persisted) and current (in-memory) state.
type Entry struct {
	former  interface{}
	current interface{}

	// cons-cell IRIs of the persisted "@list" structure, kept so the
	// whole list can be removed on rewrite
	formerCells  []quad.IRI
	pendingCells []quad.IRI
}

// NewEntry returns an empty entry.
func NewEntry() *Entry { return &Entry{} }

// Current returns a clone of the current value.
func (e *Entry) Current() interface{} { return cloneValue(e.current) }

// Former returns a clone of the last value acknowledged by the store.
func (e *Entry) Former() interface{} { return cloneValue(e.former) }

// SetCurrent stores a clone of the new value. The committed baseline is
// untouched, so repeated writes before a flush keep diffing against the
// same former value.
func (e *Entry) SetCurrent(v interface{}) {
	e.current = cloneValue(v)
}

// HasChanged reports whether the current value differs from the former
// value.
func (e *Entry) HasChanged() bool { return !valueEqual(e.former, e.current) }

// Diff returns the (former, current) pair. It fails with ErrNoChange when
// nothing has changed.
func (e *Entry) Diff() (interface{}, interface{}, error) {
	if !e.HasChanged() {
		return nil, nil, ErrNoChange
	}
	return cloneValue(e.former), cloneValue(e.current), nil
}

// ReceiveStorageAck promotes the current value to the committed baseline
// after the store confirmed the write.
func (e *Entry) ReceiveStorageAck() {
	e.former = cloneValue(e.current)
	if e.pendingCells != nil {
		e.formerCells = e.pendingCells
		e.pendingCells = nil
	} else if e.current == nil {
		e.formerCells = nil
	}
}

// Clone copies the entry. Used when converting resources across the
// client/store boundary, where both sides need independent diff baselines.
func (e *Entry) Clone() *Entry {
	out := &Entry{
		former:  cloneValue(e.former),
		current: cloneValue(e.current),
	}
	out.formerCells = append([]quad.IRI(nil), e.formerCells...)
	out.pendingCells = append([]quad.IRI(nil), e.pendingCells...)
	return out
}
