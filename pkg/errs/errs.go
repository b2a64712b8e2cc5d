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

// Package errs defines the closed error-kind union of §7, a set of typed
// error kinds built on gopkg.in/src-d/go-errors.v1. Each *errors.Kind is a
// named, matchable error family; .New(...) produces a concrete
// *errors.Error carrying a span and a stable error code for the wire
// envelope in §6.
package errs

import (
	"fmt"

	"github.com/lykia-rs/lykiadb-sub002/pkg/token"
	errors "gopkg.in/src-d/go-errors.v1"
)

// Kind families, one per closed-union member named in §7.
var (
	// Scan errors
	ErrUnexpectedCharacter    = errors.NewKind("unexpected character %q")
	ErrUnterminatedString     = errors.NewKind("unterminated string literal")
	ErrMalformedNumberLiteral = errors.NewKind("malformed number literal %q")

	// Parse errors
	ErrMissingToken           = errors.NewKind("expected %s, found %q")
	ErrUnexpectedToken        = errors.NewKind("unexpected token %q")
	ErrInvalidAssignmentTarget = errors.NewKind("invalid assignment target")

	// Resolve errors
	ErrVariableInitializerReference = errors.NewKind("can't read local variable in its own initializer")

	// Interpret errors
	ErrNotCallable          = errors.NewKind("expression is not callable")
	ErrUnexpectedStatement  = errors.NewKind("unexpected break/continue/return outside of a loop or function")
	ErrPropertyNotFound     = errors.NewKind("property %q not found")
	ErrInvalidPropertyAccess = errors.NewKind("only objects have properties, found %s")
	ErrInvalidArgumentType  = errors.NewKind("argument type mismatch, expected %s")
	ErrArityMismatch        = errors.NewKind("expected %d arguments, found %d")
	ErrInvalidRangeExpression = errors.NewKind("range can only be created with numbers")
	ErrInvalidExplainTarget = errors.NewKind("only select expressions can be explained")
	ErrOther                = errors.NewKind("%s")

	// Planner errors
	ErrNestedAggregationNotAllowed       = errors.NewKind("aggregate calls cannot be nested")
	ErrAggregationNotAllowed             = errors.NewKind("aggregate calls are not allowed in %s")
	ErrHavingWithoutAggregationNotAllowed = errors.NewKind("HAVING requires at least one aggregation")
	ErrSubqueryNotAllowed                = errors.NewKind("subqueries are not allowed here")
	ErrObjectNotFoundInScope             = errors.NewKind("object %q not found in scope")
	ErrDuplicateObjectInScope            = errors.NewKind("duplicate alias %q in scope")
	ErrSelectAllWithAggregationNotAllowed = errors.NewKind("SELECT * cannot be combined with aggregation")

	// Environment errors
	ErrUndefinedVariable   = errors.NewKind("variable %q was not found")
	ErrAssignUndefinedVariable = errors.NewKind("cannot assign to undefined variable %q")
)

// WithSpan wraps an *errors.Error (or any error) together with the source
// span it occurred at, so the session can populate the {span} field of the
// wire envelope (§6/§7).
type WithSpan struct {
	Err  error
	Span token.Span
}

func (e *WithSpan) Error() string {
	return fmt.Sprintf("%s (at %s)", e.Err.Error(), e.Span)
}

func (e *WithSpan) Unwrap() error { return e.Err }

// Spanned constructs a WithSpan, the shape used throughout the scanner,
// parser, resolver and interpreter to attach the offending source region to
// an otherwise plain *errors.Error.
func Spanned(err error, span token.Span) error {
	return &WithSpan{Err: err, Span: span}
}

// Envelope is the closed shape every surfaced error maps to, per §6.
type Envelope struct {
	Code    string      `bson:"error_code"`
	Message string      `bson:"message"`
	Hint    string       `bson:"hint"`
	Span    *token.Span `bson:"span,omitempty"`
}

// detail bundles the short wire code and remediation hint for a Kind. Codes
// mirror the hint table recovered from
// original_source/lykiadb-server/src/interpreter/error.rs.
type detail struct {
	code string
	hint string
}

var details = map[*errors.Kind]detail{
	ErrUnexpectedCharacter:    {"SCAN001", "remove or escape the offending character"},
	ErrUnterminatedString:     {"SCAN002", "add the missing closing quote"},
	ErrMalformedNumberLiteral: {"SCAN003", "check the numeric literal's digits and exponent"},
	ErrMissingToken:           {"PARSE001", "insert the expected token"},
	ErrUnexpectedToken:        {"PARSE002", "remove or replace the unexpected token"},
	ErrInvalidAssignmentTarget: {"PARSE003", "assign only to a variable or property access"},
	ErrVariableInitializerReference: {"RESOLVE001", "reference the variable after its initializer runs"},
	ErrNotCallable:              {"RUNTIME001", "ensure the expression evaluates to a callable function"},
	ErrUnexpectedStatement:      {"RUNTIME002", "check that break/continue/return is used inside a loop or function"},
	ErrPropertyNotFound:         {"RUNTIME003", "verify the property name exists on the object"},
	ErrInvalidPropertyAccess:    {"RUNTIME004", "ensure the expression evaluates to an object"},
	ErrInvalidArgumentType:      {"RUNTIME005", "check that the argument matches the expected type"},
	ErrArityMismatch:            {"RUNTIME006", "check the number of arguments passed to the call"},
	ErrInvalidRangeExpression:   {"RUNTIME007", "ensure the range expression is built with numbers"},
	ErrInvalidExplainTarget:     {"RUNTIME008", "try replacing this with a SELECT expression"},
	ErrOther:                    {"RUNTIME999", ""},
	ErrNestedAggregationNotAllowed: {"PLAN001", "move the nested aggregate call to its own projection"},
	ErrAggregationNotAllowed:       {"PLAN002", "move the aggregate call to the projection or HAVING clause"},
	ErrHavingWithoutAggregationNotAllowed: {"PLAN003", "add an aggregate call to the projection or HAVING clause"},
	ErrSubqueryNotAllowed:       {"PLAN004", "subqueries are only allowed in WHERE or the projection list"},
	ErrObjectNotFoundInScope:    {"PLAN005", "check the FROM clause for the referenced alias"},
	ErrDuplicateObjectInScope:   {"PLAN006", "give each FROM source a distinct alias"},
	ErrSelectAllWithAggregationNotAllowed: {"PLAN007", "list explicit projections alongside the aggregate call"},
	ErrUndefinedVariable:         {"ENV001", "declare the variable before referencing it"},
	ErrAssignUndefinedVariable:   {"ENV002", "declare the variable with `var` before assigning to it"},
}

// ToEnvelope builds the wire envelope for an error, defaulting the error
// code to "000" per §6 when the error isn't one of our typed kinds.
func ToEnvelope(err error) Envelope {
	env := Envelope{Code: "000", Message: err.Error()}

	// Unwrap WithSpan wrappers to recover the span and the inner typed error.
	cur := err
	for {
		if ws, ok := cur.(*WithSpan); ok {
			s := ws.Span
			env.Span = &s
			cur = ws.Err
			continue
		}
		break
	}

	if kerr, ok := cur.(*errors.Error); ok {
		env.Message = kerr.Message
		for kind, d := range details {
			if kind.Is(kerr) {
				env.Code = d.code
				env.Hint = d.hint
				break
			}
		}
	}

	return env
}
