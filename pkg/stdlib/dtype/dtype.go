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

// Package dtype mirrors original_source/.../libs/stdlib/dtype.rs: a small
// set of named Datatype constants plus an `of(value)` callable reflecting a
// runtime Value back to its Datatype descriptor.
package dtype

import "github.com/lykia-rs/lykiadb-sub002/pkg/value"

// Constants returns the namespace's named Datatype descriptors.
func Constants() map[string]value.Value {
	return map[string]value.Value{
		"str":       value.Datatype{Name: "str"},
		"num":       value.Datatype{Name: "num"},
		"bool":      value.Datatype{Name: "bool"},
		"null":      value.Datatype{Name: "null"},
		"undefined": value.Datatype{Name: "undefined"},
		"object":    value.Datatype{Name: "object"},
		"array":     value.Datatype{Name: "array"},
		"callable":  value.Datatype{Name: "callable"},
		"dtype":     value.Datatype{Name: "dtype"},
	}
}

// Functions returns the `dtype` namespace's callables.
func Functions() map[string]*value.Callable {
	arity := 1
	return map[string]*value.Callable{
		"of": {
			Arity: &arity,
			Name:  "dtype.of",
			Native: func(_ interface{}, args []value.Value) (value.Value, error) {
				return value.Datatype{Name: nameOf(args[0])}, nil
			},
		},
	}
}

func nameOf(v value.Value) string {
	switch v.(type) {
	case value.Num:
		return "num"
	case value.Str:
		return "str"
	case value.Bool:
		return "bool"
	case value.Null:
		return "null"
	case value.Undefined:
		return "undefined"
	case *value.Object:
		return "object"
	case *value.Array:
		return "array"
	case *value.Callable:
		return "callable"
	case value.Datatype:
		return "dtype"
	default:
		return "undefined"
	}
}
