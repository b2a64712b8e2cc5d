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

// Package stdlib wires every built-in module into a root environment at
// session startup, mirroring original_source/.../libs/stdlib/mod.rs's
// `stdlib(out)` assembly function.
package stdlib

import (
	"io"

	"github.com/lykia-rs/lykiadb-sub002/pkg/env"
	"github.com/lykia-rs/lykiadb-sub002/pkg/interpreter"
	"github.com/lykia-rs/lykiadb-sub002/pkg/stdlib/agg"
	"github.com/lykia-rs/lykiadb-sub002/pkg/stdlib/arith"
	"github.com/lykia-rs/lykiadb-sub002/pkg/stdlib/arr"
	"github.com/lykia-rs/lykiadb-sub002/pkg/stdlib/bench"
	"github.com/lykia-rs/lykiadb-sub002/pkg/stdlib/dtype"
	"github.com/lykia-rs/lykiadb-sub002/pkg/stdlib/iolib"
	"github.com/lykia-rs/lykiadb-sub002/pkg/stdlib/jsonlib"
	"github.com/lykia-rs/lykiadb-sub002/pkg/stdlib/out"
	"github.com/lykia-rs/lykiadb-sub002/pkg/stdlib/timelib"
	"github.com/lykia-rs/lykiadb-sub002/pkg/value"
)

// Install declares every stdlib module's globals in root. stdout is where
// io.print writes; includeTestUtils gates whether the TestUtils.out capture
// callable is registered (only test/REPL sessions need it, per the
// original's `out: Option<Shared<Output>>` gate in libs/stdlib/mod.rs).
func Install(root *env.Environment, it *interpreter.Interpreter, stdout io.Writer, includeTestUtils bool) {
	installAggregators(root)
	installNamespace(root, "bench", bench.Functions(), nil)
	installNamespace(root, "arith", arith.Functions(), nil)
	installNamespace(root, "arr", arr.Functions(), nil)
	installNamespace(root, "time", timelib.Functions(), nil)
	installNamespace(root, "json", jsonlib.Functions(), nil)
	installNamespace(root, "dtype", dtype.Functions(), dtype.Constants())
	installNamespace(root, "io", iolib.Functions(stdout), nil)
	if includeTestUtils {
		installNamespace(root, "TestUtils", out.Functions(it.Output()), nil)
	}
}

func installAggregators(root *env.Environment) {
	arity := 1
	for _, name := range agg.Names {
		root.Declare(name, &value.Callable{
			Arity:          &arity,
			Kind:           value.KindAggregator,
			AggregatorName: name,
			Name:           name,
		})
	}
}

func installNamespace(root *env.Environment, name string, fns map[string]*value.Callable, consts map[string]value.Value) {
	obj := value.NewObject()
	for k, c := range fns {
		obj.Set(k, c)
	}
	for k, v := range consts {
		obj.Set(k, v)
	}
	root.Declare(name, obj)
}
