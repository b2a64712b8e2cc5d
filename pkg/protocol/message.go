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

// Package protocol implements §6's wire protocol: length-framed BSON
// documents carrying Request/Response messages, grounded on
// original_source/lykiadb-common/src/comm/mod.rs (the Request/Response/
// Message enums) and src/net/tcp.rs (the read-into-growing-buffer framing
// loop).
package protocol

import "github.com/lykia-rs/lykiadb-sub002/pkg/errs"

// Request is the one message kind a client sends: run a script and wait for
// its Response (§6 "Request::Run(script: String)").
type Request struct {
	Run string `bson:"run"`
}

// ValueResponse carries a successful script result: its stringified value
// plus elapsed execution time (§6 "Response::Value").
type ValueResponse struct {
	Stringified string `bson:"stringified"`
	ElapsedMs   int64  `bson:"elapsed_ms"`
}

// ErrorResponse carries a failed script's error envelope plus elapsed
// execution time (§6 "Response::Error").
type ErrorResponse struct {
	errs.Envelope `bson:",inline"`
	ElapsedMs     int64 `bson:"elapsed_ms"`
}

// Response is the server's reply: exactly one of Value or Error is set.
type Response struct {
	Value *ValueResponse `bson:"value,omitempty"`
	Error *ErrorResponse `bson:"error,omitempty"`
}

// NewValueResponse builds a successful Response.
func NewValueResponse(stringified string, elapsedMs int64) Response {
	return Response{Value: &ValueResponse{Stringified: stringified, ElapsedMs: elapsedMs}}
}

// NewErrorResponse builds a failed Response from err's wire envelope.
func NewErrorResponse(err error, elapsedMs int64) Response {
	env := errs.ToEnvelope(err)
	return Response{Error: &ErrorResponse{Envelope: env, ElapsedMs: elapsedMs}}
}
