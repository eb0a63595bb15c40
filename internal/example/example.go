// Package example provides the ordered value set that templates render from
// and extract into.
//
// An Example maps variable names to values in insertion order. Two names are
// reserved and live outside the value map: "demos" holds prior demonstrations
// and "augmented" marks an example that has already been rendered in the
// verbose format.
package example

import (
	"errors"
	"fmt"

	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// Reserved key names.
const (
	KeyDemos     = "demos"
	KeyAugmented = "augmented"
)

// ErrNotMapping is returned when a serialized example is not a key/value mapping.
var ErrNotMapping = errors.New("example: value is not a mapping")

// Example is an ordered set of variable values plus demo bookkeeping.
// The zero value is not usable; construct with [New].
type Example struct {
	values *orderedmap.OrderedMap[string, any]

	// Demos are prior demonstrations, in the order they should be shown.
	Demos []*Example

	// Augmented reports whether the example has been rendered verbosely.
	Augmented bool
}

// New returns an example holding the given alternating key/value pairs.
// It panics on an odd argument count or a non-string key.
func New(kv ...any) *Example {
	if len(kv)%2 != 0 {
		panic("example: New requires key/value pairs")
	}
	e := &Example{values: orderedmap.New[string, any]()}
	for i := 0; i < len(kv); i += 2 {
		key, ok := kv[i].(string)
		if !ok {
			panic(fmt.Sprintf("example: key %v is not a string", kv[i]))
		}
		e.Set(key, kv[i+1])
	}
	return e
}

// IsReserved reports whether key is one of the bookkeeping names.
func IsReserved(key string) bool {
	return key == KeyDemos || key == KeyAugmented
}

// Has reports whether key is present, even when its value is nil.
func (e *Example) Has(key string) bool {
	_, ok := e.values.Get(key)
	return ok
}

// Get returns the value for key. ok is false when the key is absent or nil.
func (e *Example) Get(key string) (value any, ok bool) {
	v, present := e.values.Get(key)
	if !present || v == nil {
		return nil, false
	}
	return v, true
}

// Set stores value under key, keeping the key's original position if it was
// already present. Reserved keys must be set through Demos and Augmented;
// Set panics if given one.
func (e *Example) Set(key string, value any) {
	if IsReserved(key) {
		panic(fmt.Sprintf("example: %q is a reserved key", key))
	}
	e.values.Set(key, value)
}

// Delete removes key and reports whether it was present.
func (e *Example) Delete(key string) bool {
	_, ok := e.values.Delete(key)
	return ok
}

// Keys returns the value keys in insertion order.
func (e *Example) Keys() []string {
	keys := make([]string, 0, e.values.Len())
	for pair := e.values.Oldest(); pair != nil; pair = pair.Next() {
		keys = append(keys, pair.Key)
	}
	return keys
}

// Len returns the number of stored values, excluding reserved keys.
func (e *Example) Len() int {
	return e.values.Len()
}

// Clone returns a copy with its own value map and demo slice. Values and the
// demos themselves are shared.
func (e *Example) Clone() *Example {
	c := &Example{
		values:    orderedmap.New[string, any](e.values.Len()),
		Augmented: e.Augmented,
	}
	for pair := e.values.Oldest(); pair != nil; pair = pair.Next() {
		c.values.Set(pair.Key, pair.Value)
	}
	if e.Demos != nil {
		c.Demos = append([]*Example(nil), e.Demos...)
	}
	return c
}
