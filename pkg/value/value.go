// Copyright 2024 The LykiaDB Authors.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package value implements §3's runtime value union (V): a tagged set of Go
// types, one per variant, the same interface-per-variant shape as pkg/lang/ast.
package value

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/spf13/cast"
)

// Value is implemented by every runtime value kind.
type Value interface {
	valueNode()
	fmt.Stringer
}

// Num is a double-precision number.
type Num float64

func (Num) valueNode() {}
func (n Num) String() string {
	return strconv.FormatFloat(float64(n), 'g', -1, 64)
}

// Str is an immutable UTF-8 string.
type Str string

func (Str) valueNode()      {}
func (s Str) String() string { return string(s) }

// Bool is a boolean.
type Bool bool

func (Bool) valueNode() {}
func (b Bool) String() string {
	if b {
		return "true"
	}
	return "false"
}

// Undefined is the `undefined` literal value, distinct from Null.
type Undefined struct{}

func (Undefined) valueNode()      {}
func (Undefined) String() string { return "undefined" }

// NaN is the not-a-number sentinel produced by invalid arithmetic.
type NaN struct{}

func (NaN) valueNode()      {}
func (NaN) String() string { return "NaN" }

// Null is the `null` literal value.
type Null struct{}

func (Null) valueNode()      {}
func (Null) String() string { return "null" }

// Object is a shared, mutable name->value mapping. Field insertion order is
// preserved for stringification and projection (§3).
type Object struct {
	mu     *sync.RWMutex
	fields map[string]Value
	order  []string
}

// NewObject allocates an empty Object.
func NewObject() *Object {
	return &Object{mu: &sync.RWMutex{}, fields: make(map[string]Value)}
}

func (*Object) valueNode() {}

// Get reads a field, reporting whether it was present.
func (o *Object) Get(name string) (Value, bool) {
	o.mu.RLock()
	defer o.mu.RUnlock()
	v, ok := o.fields[name]
	return v, ok
}

// Set writes a field, appending to the insertion order on first write.
func (o *Object) Set(name string, v Value) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if _, exists := o.fields[name]; !exists {
		o.order = append(o.order, name)
	}
	o.fields[name] = v
}

// Names returns field names in insertion order.
func (o *Object) Names() []string {
	o.mu.RLock()
	defer o.mu.RUnlock()
	out := make([]string, len(o.order))
	copy(out, o.order)
	return out
}

func (o *Object) String() string {
	o.mu.RLock()
	defer o.mu.RUnlock()
	parts := make([]string, 0, len(o.order))
	for _, name := range o.order {
		parts = append(parts, fmt.Sprintf("%s: %s", name, o.fields[name]))
	}
	return "{" + strings.Join(parts, ", ") + "}"
}

// Array is a shared, mutable ordered sequence of values.
type Array struct {
	mu       *sync.RWMutex
	elements []Value
}

// NewArray allocates an Array, taking ownership of elements.
func NewArray(elements []Value) *Array {
	return &Array{mu: &sync.RWMutex{}, elements: elements}
}

func (*Array) valueNode() {}

// Elements returns a snapshot copy of the array's contents.
func (a *Array) Elements() []Value {
	a.mu.RLock()
	defer a.mu.RUnlock()
	out := make([]Value, len(a.elements))
	copy(out, a.elements)
	return out
}

// Append adds v to the end of the array.
func (a *Array) Append(v Value) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.elements = append(a.elements, v)
}

// Len returns the current element count.
func (a *Array) Len() int {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return len(a.elements)
}

func (a *Array) String() string {
	els := a.Elements()
	parts := make([]string, len(els))
	for i, e := range els {
		parts[i] = e.String()
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

// CallableKind tags what role a Callable plays: a plain function, or a named
// aggregator recognized by the planner (§4.5 step 2).
type CallableKind int

const (
	KindGeneric CallableKind = iota
	KindAggregator
)

// NativeFn is a pure native implementation: (interpreter-agnostic args) -> (Value, error).
// The concrete interpreter type is passed as `interface{}` to avoid an
// import cycle between pkg/value and pkg/interpreter; callers type-assert.
type NativeFn func(interp interface{}, args []Value) (Value, error)

// Callable is a value that can be invoked (§3).
type Callable struct {
	Arity          *int // nil => variadic/unchecked
	Kind           CallableKind
	AggregatorName string // non-"" iff Kind == KindAggregator

	Native NativeFn // set for native-lambda callables

	Stateful StatefulCallable // set for stateful callables (e.g. TestUtils.out)

	// User-defined callable fields.
	Name       string
	Parameters []string
	Closure    interface{} // *env.Environment; interface{} to avoid an import cycle
	Body       interface{} // []ast.Stmt; interface{} for the same reason
}

func (*Callable) valueNode() {}
func (c *Callable) String() string {
	if c.Name != "" {
		return fmt.Sprintf("<fn %s>", c.Name)
	}
	return "<fn>"
}

// StatefulCallable is held behind shared mutable access; Call receives the
// already-evaluated argument values.
type StatefulCallable interface {
	Call(interp interface{}, args []Value) (Value, error)
}

// Datatype is a first-class descriptor for one of the value kinds, used by
// the `dtype` stdlib module.
type Datatype struct {
	Name string
}

func (Datatype) valueNode()      {}
func (d Datatype) String() string { return d.Name }

// Truthy implements §4.4's truthiness rules.
func Truthy(v Value) bool {
	switch t := v.(type) {
	case Num:
		f := float64(t)
		return f == f && f != 0 // f == f excludes NaN-as-Num, which shouldn't occur, but is defensive
	case Str:
		return len(t) > 0
	case Bool:
		return bool(t)
	case Null, Undefined, NaN:
		return false
	case nil:
		return false
	default:
		return true
	}
}

// AsNumber coerces v to a float64 per the binary coercion table: Num as-is,
// Bool promotes to 0/1, everything else is not a number.
func AsNumber(v Value) (float64, bool) {
	switch t := v.(type) {
	case Num:
		return float64(t), true
	case Bool:
		if t {
			return 1, true
		}
		return 0, true
	default:
		return 0, false
	}
}

// Stringify renders any Value the way string-concatenation coercion does.
func Stringify(v Value) string {
	if v == nil {
		return "undefined"
	}
	return v.String()
}

// FromGo lifts a plain Go value (as produced by the scanner/parser literal
// slots, or returned from cast-based stdlib helpers) into a Value.
func FromGo(v interface{}) Value {
	switch t := v.(type) {
	case nil:
		return Null{}
	case Value:
		return t
	case float64:
		return Num(t)
	case string:
		return Str(t)
	case bool:
		return Bool(t)
	default:
		f, err := cast.ToFloat64E(v)
		if err == nil {
			return Num(f)
		}
		return Str(cast.ToString(v))
	}
}

// SortKey produces an equality key for GROUP BY / set-operation dedup use
// (same key iff same value), grounded on the same "treat booleans as 0/1,
// strings lexicographically" rule as the binary coercion table. It is not
// a total order over its own output — use Compare for ORDER BY.
func SortKey(v Value) string {
	switch t := v.(type) {
	case Num:
		return "n:" + strconv.FormatFloat(float64(t), 'g', -1, 64)
	case Bool:
		if t {
			return "n:1"
		}
		return "n:0"
	case Str:
		return "s:" + string(t)
	default:
		return "z:" + Stringify(v)
	}
}

// Compare returns a negative number, zero, or a positive number as a sorts
// before, equals, or sorts after b, for use wherever ordering (not just
// equality) matters, e.g. ORDER BY terms. Num compares numerically rather
// than through SortKey's text encoding, so negative magnitudes order
// correctly; Bool compares as 0/1; Str compares lexically; anything else
// falls back to comparing Stringify output.
func Compare(a, b Value) int {
	if na, ok := a.(Num); ok {
		if nb, ok := b.(Num); ok {
			switch {
			case float64(na) < float64(nb):
				return -1
			case float64(na) > float64(nb):
				return 1
			default:
				return 0
			}
		}
	}
	if ba, ok := a.(Bool); ok {
		if bb, ok := b.(Bool); ok {
			return boolRank(ba) - boolRank(bb)
		}
	}
	if sa, ok := a.(Str); ok {
		if sb, ok := b.(Str); ok {
			return strings.Compare(string(sa), string(sb))
		}
	}
	return strings.Compare(Stringify(a), Stringify(b))
}

func boolRank(b Bool) int {
	if b {
		return 1
	}
	return 0
}

// SortValues sorts a slice of Values ascending by Compare, used by Compound
// set-operation dedup ordering where a stable, correctly-ordered key is
// required.
func SortValues(vs []Value) {
	sort.SliceStable(vs, func(i, j int) bool { return Compare(vs[i], vs[j]) < 0 })
}
