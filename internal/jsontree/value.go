// Package jsontree implements the generic JSON-like value tree shared by the
// profile store and the XML model: objects keep their member order, arrays are
// plain slices, scalars are nil, bool, string, json.Number or float64.
//
// Both the strict JSON and the JSON5 dialects decode into the same tree, and
// the tree serializes back to JSON, JSON5 or YAML without losing member order.
package jsontree

import (
	"encoding/json"
	"iter"

	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// Value is any node of the tree: nil, bool, string, json.Number, float64,
// []Value or *Object.
type Value = any

// Object is a JSON object whose members keep insertion order.
type Object struct {
	entries *orderedmap.OrderedMap[string, Value]
}

// NewObject creates an empty object.
func NewObject() *Object {
	return &Object{entries: orderedmap.New[string, Value]()}
}

// Set stores value under key, keeping the key's existing position when the
// key is already present.
func (o *Object) Set(key string, value Value) {
	o.entries.Set(key, value)
}

// Get returns the value stored under key.
func (o *Object) Get(key string) (Value, bool) {
	return o.entries.Get(key)
}

// Has reports whether key is present.
func (o *Object) Has(key string) bool {
	_, ok := o.entries.Get(key)
	return ok
}

// Delete removes key and reports whether it was present.
func (o *Object) Delete(key string) bool {
	_, present := o.entries.Delete(key)
	return present
}

// Len returns the number of members.
func (o *Object) Len() int {
	return o.entries.Len()
}

// Keys returns the member names in insertion order.
func (o *Object) Keys() []string {
	keys := make([]string, 0, o.entries.Len())
	for pair := o.entries.Oldest(); pair != nil; pair = pair.Next() {
		keys = append(keys, pair.Key)
	}
	return keys
}

// Members yields (key, value) pairs in insertion order.
func (o *Object) Members() iter.Seq2[string, Value] {
	return func(yield func(string, Value) bool) {
		for pair := o.entries.Oldest(); pair != nil; pair = pair.Next() {
			if !yield(pair.Key, pair.Value) {
				return
			}
		}
	}
}

// IsScalar reports whether v is a JSON scalar (null, bool, string or number).
func IsScalar(v Value) bool {
	switch v.(type) {
	case nil, bool, string, json.Number, float64:
		return true
	default:
		return false
	}
}

// Clone returns a deep copy of v. Scalars are shared (they are immutable),
// objects and arrays are copied recursively.
func Clone(v Value) Value {
	switch x := v.(type) {
	case *Object:
		out := NewObject()
		for key, value := range x.Members() {
			out.Set(key, Clone(value))
		}
		return out
	case []Value:
		out := make([]Value, len(x))
		for i, item := range x {
			out[i] = Clone(item)
		}
		return out
	default:
		return v
	}
}
