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

// Package jsonlib mirrors original_source/.../engine/stdlib/json.rs:
// `json.encode(value)` / `json.decode(string)` convert between the runtime
// value union and JSON text.
package jsonlib

import (
	"encoding/json"

	"github.com/lykia-rs/lykiadb-sub002/pkg/errs"
	"github.com/lykia-rs/lykiadb-sub002/pkg/value"
)

// Functions returns the `json` namespace's members.
func Functions() map[string]*value.Callable {
	arity1 := 1
	return map[string]*value.Callable{
		"encode": {
			Arity: &arity1,
			Name:  "json.encode",
			Native: func(_ interface{}, args []value.Value) (value.Value, error) {
				b, err := json.Marshal(toGo(args[0]))
				if err != nil {
					return nil, errs.ErrOther.New(err.Error())
				}
				return value.Str(string(b)), nil
			},
		},
		"decode": {
			Arity: &arity1,
			Name:  "json.decode",
			Native: func(_ interface{}, args []value.Value) (value.Value, error) {
				s, ok := args[0].(value.Str)
				if !ok {
					return nil, errs.ErrInvalidArgumentType.New("string")
				}
				var raw interface{}
				if err := json.Unmarshal([]byte(s), &raw); err != nil {
					return nil, errs.ErrOther.New(err.Error())
				}
				return fromGo(raw), nil
			},
		},
	}
}

// toGo converts a runtime Value into a plain Go value encoding/json can
// marshal, recursing through Objects (preserving field order is not
// possible with a plain map, which matches the original's serde_json
// round-trip not promising field order either) and Arrays.
func toGo(v value.Value) interface{} {
	switch t := v.(type) {
	case value.Num:
		return float64(t)
	case value.Str:
		return string(t)
	case value.Bool:
		return bool(t)
	case value.Null, value.Undefined, value.NaN:
		return nil
	case *value.Object:
		out := make(map[string]interface{}, len(t.Names()))
		for _, name := range t.Names() {
			fv, _ := t.Get(name)
			out[name] = toGo(fv)
		}
		return out
	case *value.Array:
		els := t.Elements()
		out := make([]interface{}, len(els))
		for i, e := range els {
			out[i] = toGo(e)
		}
		return out
	default:
		return nil
	}
}

func fromGo(v interface{}) value.Value {
	switch t := v.(type) {
	case nil:
		return value.Null{}
	case float64:
		return value.Num(t)
	case string:
		return value.Str(t)
	case bool:
		return value.Bool(t)
	case map[string]interface{}:
		obj := value.NewObject()
		for k, fv := range t {
			obj.Set(k, fromGo(fv))
		}
		return obj
	case []interface{}:
		elems := make([]value.Value, len(t))
		for i, e := range t {
			elems[i] = fromGo(e)
		}
		return value.NewArray(elems)
	default:
		return value.Undefined{}
	}
}
