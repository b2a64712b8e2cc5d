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

// Package out mirrors the original's Output-backed Function::Stateful
// registration (engine/stdlib/mod.rs's `test_utils.out`): a single
// Stateful callable that appends every call's argument to a shared sink,
// used by the concrete test scenarios in §8.
package out

import (
	"github.com/lykia-rs/lykiadb-sub002/pkg/interpreter"
	"github.com/lykia-rs/lykiadb-sub002/pkg/value"
)

// sink appends a single argument's value to an *interpreter.OutputSink.
type sink struct {
	out *interpreter.OutputSink
}

func (s *sink) Call(_ interface{}, args []value.Value) (value.Value, error) {
	if len(args) > 0 {
		s.out.Append(args[0])
	} else {
		s.out.Append(value.Undefined{})
	}
	return value.Undefined{}, nil
}

// Functions returns the `TestUtils` namespace's members, bound to the given
// sink (normally an Interpreter's own Output()).
func Functions(out *interpreter.OutputSink) map[string]*value.Callable {
	return map[string]*value.Callable{
		"out": {
			Arity:    nil,
			Name:     "TestUtils.out",
			Stateful: &sink{out: out},
		},
	}
}
