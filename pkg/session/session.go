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

// Package session implements §4.11: a Session owns one Interpreter and one
// persistent source-processing pipeline (scanner+parser+resolver with
// carried scope state across calls), so a sequence of requests on the same
// connection behaves like a REPL rather than independent scripts.
package session

import (
	"io"
	"time"

	"github.com/opentracing/opentracing-go"

	"github.com/lykia-rs/lykiadb-sub002/pkg/executor"
	"github.com/lykia-rs/lykiadb-sub002/pkg/interpreter"
	"github.com/lykia-rs/lykiadb-sub002/pkg/lang/parser"
	"github.com/lykia-rs/lykiadb-sub002/pkg/lang/resolver"
	"github.com/lykia-rs/lykiadb-sub002/pkg/lang/scanner"
	"github.com/lykia-rs/lykiadb-sub002/pkg/protocol"
	"github.com/lykia-rs/lykiadb-sub002/pkg/stdlib"
	"github.com/lykia-rs/lykiadb-sub002/pkg/value"
)

// nowFunc is swappable by tests; defaults to the real wall clock.
var nowFunc = time.Now

// Session owns one Interpreter plus the persistent locals map carried
// forward across every Run call on this connection (§4.11's "REPL
// continuity").
type Session struct {
	it     *interpreter.Interpreter
	locals resolver.Locals
	engine *executor.Engine
}

// New allocates a Session with a fresh Interpreter, stdlib installed into its
// root environment, and a fresh in-memory Catalog backing SQL execution.
func New(stdout io.Writer) *Session {
	locals := make(resolver.Locals)
	it := interpreter.New(locals)

	engine := executor.New()
	it.SetSQLEngine(engine)

	stdlib.Install(it.Root(), it, stdout, false)

	return &Session{it: it, locals: locals, engine: engine}
}

// Engine exposes the session's SQL engine, e.g. for seeding data before
// accepting requests.
func (s *Session) Engine() *executor.Engine { return s.engine }

// Run scans, parses, resolves (against this session's carried locals), and
// interprets src, returning a framed protocol.Response. It never returns a Go
// error for a script failure — every failure is captured into
// Response.Error, matching §7's "all errors inside the core are recoverable
// at the session boundary."
func (s *Session) Run(src string) protocol.Response {
	span := opentracing.StartSpan("session.run")
	defer span.Finish()

	start := nowFunc()
	result, err := s.process(src)
	elapsed := nowFunc().Sub(start).Milliseconds()

	if err != nil {
		span.SetTag("error", true)
		return protocol.NewErrorResponse(err, elapsed)
	}
	return protocol.NewValueResponse(value.Stringify(result), elapsed)
}

// process runs the scan -> parse -> resolve -> interpret pipeline, updating
// the session's carried locals map on a successful resolve so subsequent
// requests see names declared by this one.
func (s *Session) process(src string) (value.Value, error) {
	toks, err := scanner.New(src).ScanTokens()
	if err != nil {
		return nil, err
	}

	prog, err := parser.Parse(toks)
	if err != nil {
		return nil, err
	}

	locals, err := resolver.Resolve(prog, s.locals)
	if err != nil {
		return nil, err
	}
	s.locals = locals
	s.it.SetLocals(locals)

	return s.it.Run(prog)
}
