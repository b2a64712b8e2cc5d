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

package session

import (
	"io"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSessionRunReturnsValue(t *testing.T) {
	s := New(io.Discard)
	resp := s.Run("1 + 2;")
	require.NotNil(t, resp.Value)
	require.Equal(t, "3", resp.Value.Stringified)
	require.Nil(t, resp.Error)
}

func TestSessionRunCapturesError(t *testing.T) {
	s := New(io.Discard)
	resp := s.Run("undefinedThing();")
	require.Nil(t, resp.Value)
	require.NotNil(t, resp.Error)
	require.NotEmpty(t, resp.Error.Code)
}

func TestSessionCarriesScopeAcrossRuns(t *testing.T) {
	s := New(io.Discard)
	first := s.Run("var counter = 10;")
	require.Nil(t, first.Error)

	second := s.Run("counter = counter + 5; counter;")
	require.NotNil(t, second.Value)
	require.Equal(t, "15", second.Value.Stringified)
}

func TestSessionSQLRoundTrip(t *testing.T) {
	s := New(io.Discard)
	resp := s.Run(`INSERT INTO widgets VALUES ({ name: "bolt", qty: 2 });`)
	require.Nil(t, resp.Error)

	resp = s.Run(`SELECT * FROM widgets;`)
	require.Nil(t, resp.Error)
	require.Contains(t, resp.Value.Stringified, "bolt")
}

func TestSessionRunAfterErrorStaysAlive(t *testing.T) {
	s := New(io.Discard)
	bad := s.Run("1 +;")
	require.NotNil(t, bad.Error)

	ok := s.Run("2 + 2;")
	require.Nil(t, ok.Error)
	require.Equal(t, "4", ok.Value.Stringified)
}
