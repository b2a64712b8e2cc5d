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

// Package lsm implements the storage engine described in §4.8-§4.10: a
// size-bounded block format, an SSTable writer/reader over that format, and
// an in-memory sorted memtable. It is a standalone component, independently
// testable, not wired into pkg/executor's Scan (see DESIGN.md's executor
// entry for why).
package lsm

import "bytes"

// Key is an opaque, lexicographically ordered byte string (§3 "opaque byte
// string" invariant). Newtype over []byte rather than a bare slice so every
// ordering comparison in this package goes through one place.
type Key []byte

// Value is an opaque byte string stored alongside a Key.
type Value []byte

// Less reports whether k sorts strictly before other.
func (k Key) Less(other Key) bool {
	return bytes.Compare(k, other) < 0
}

// Equal reports byte-for-byte equality.
func (k Key) Equal(other Key) bool {
	return bytes.Equal(k, other)
}

// Clone returns an independent copy, safe to retain past the lifetime of the
// buffer k currently aliases.
func (k Key) Clone() Key {
	out := make(Key, len(k))
	copy(out, k)
	return out
}

// Clone returns an independent copy of v.
func (v Value) Clone() Value {
	out := make(Value, len(v))
	copy(out, v)
	return out
}
