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

package server

import (
	"io"
	"net"
	"testing"
	"time"

	"github.com/lykia-rs/lykiadb-sub002/pkg/protocol"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T) (net.Listener, *Server) {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	log := logrus.New()
	log.SetOutput(io.Discard)

	cfg := NewConfig()
	cfg.MaxConnections = 2
	srv := New(cfg, log)

	go srv.Serve(ln)
	return ln, srv
}

func TestServeRunsOneScriptPerRequest(t *testing.T) {
	ln, _ := newTestServer(t)
	defer ln.Close()

	conn, err := net.Dial("tcp", ln.Addr().String())
	require.NoError(t, err)
	defer conn.Close()

	wire := protocol.NewConn(conn)
	require.NoError(t, wire.WriteMessage(protocol.Request{Run: "2 + 2;"}))

	var resp protocol.Response
	require.NoError(t, wire.ReadMessage(&resp))
	require.NotNil(t, resp.Value)
	require.Equal(t, "4", resp.Value.Stringified)
}

func TestServeRequestsAreSequentialAndOrdered(t *testing.T) {
	ln, _ := newTestServer(t)
	defer ln.Close()

	conn, err := net.Dial("tcp", ln.Addr().String())
	require.NoError(t, err)
	defer conn.Close()

	wire := protocol.NewConn(conn)
	require.NoError(t, wire.WriteMessage(protocol.Request{Run: "var x = 1; x;"}))
	var first protocol.Response
	require.NoError(t, wire.ReadMessage(&first))
	require.Equal(t, "1", first.Value.Stringified)

	require.NoError(t, wire.WriteMessage(protocol.Request{Run: "x = x + 1; x;"}))
	var second protocol.Response
	require.NoError(t, wire.ReadMessage(&second))
	require.Equal(t, "2", second.Value.Stringified)
}

func TestServeSurfacesScriptErrorsAsResponses(t *testing.T) {
	ln, _ := newTestServer(t)
	defer ln.Close()

	conn, err := net.Dial("tcp", ln.Addr().String())
	require.NoError(t, err)
	defer conn.Close()

	wire := protocol.NewConn(conn)
	require.NoError(t, wire.WriteMessage(protocol.Request{Run: "1 +;"}))

	var resp protocol.Response
	require.NoError(t, wire.ReadMessage(&resp))
	require.NotNil(t, resp.Error)
	require.NotEmpty(t, resp.Error.Code)
}

func TestServeRejectsConnectionsBeyondMaxConnections(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer ln.Close()

	log := logrus.New()
	log.SetOutput(io.Discard)
	cfg := NewConfig()
	cfg.MaxConnections = 1
	srv := New(cfg, log)
	go srv.Serve(ln)

	held, err := net.Dial("tcp", ln.Addr().String())
	require.NoError(t, err)
	defer held.Close()

	rejected, err := net.Dial("tcp", ln.Addr().String())
	require.NoError(t, err)
	defer rejected.Close()

	buf := make([]byte, 1)
	rejected.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, err = rejected.Read(buf)
	require.Error(t, err)
}
