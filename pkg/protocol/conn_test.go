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

package protocol

import (
	"bytes"
	"io"
	"testing"

	"github.com/lykia-rs/lykiadb-sub002/pkg/errs"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
)

// loopback is an io.ReadWriter backed by two independent buffers, so writes
// made by one Conn can be read back by another without a real socket.
type loopback struct {
	in  *bytes.Buffer
	out *bytes.Buffer
}

func (l *loopback) Read(p []byte) (int, error)  { return l.in.Read(p) }
func (l *loopback) Write(p []byte) (int, error) { return l.out.Write(p) }

func TestConnRoundTripRequest(t *testing.T) {
	var wire bytes.Buffer
	writer := NewConn(&loopback{in: &bytes.Buffer{}, out: &wire})
	require.NoError(t, writer.WriteMessage(Request{Run: "1 + 1;"}))

	reader := NewConn(&loopback{in: &wire, out: &bytes.Buffer{}})
	var got Request
	require.NoError(t, reader.ReadMessage(&got))
	require.Equal(t, "1 + 1;", got.Run)
}

func TestConnRoundTripValueResponse(t *testing.T) {
	var wire bytes.Buffer
	writer := NewConn(&loopback{in: &bytes.Buffer{}, out: &wire})
	resp := NewValueResponse("2", 5)
	require.NoError(t, writer.WriteMessage(resp))

	reader := NewConn(&loopback{in: &wire, out: &bytes.Buffer{}})
	var got Response
	require.NoError(t, reader.ReadMessage(&got))
	require.NotNil(t, got.Value)
	require.Equal(t, "2", got.Value.Stringified)
	require.Equal(t, int64(5), got.Value.ElapsedMs)
	require.Nil(t, got.Error)
}

func TestConnRoundTripErrorResponse(t *testing.T) {
	var wire bytes.Buffer
	writer := NewConn(&loopback{in: &bytes.Buffer{}, out: &wire})
	resp := NewErrorResponse(errs.ErrNotCallable.New(), 3)
	require.NoError(t, writer.WriteMessage(resp))

	reader := NewConn(&loopback{in: &wire, out: &bytes.Buffer{}})
	var got Response
	require.NoError(t, reader.ReadMessage(&got))
	require.NotNil(t, got.Error)
	require.Equal(t, "RUNTIME001", got.Error.Code)
	require.Nil(t, got.Value)
}

// slowReader dribbles out the underlying bytes a few at a time, exercising
// ReadMessage's growing-buffer accumulation across multiple partial reads.
type slowReader struct {
	data  []byte
	pos   int
	chunk int
}

func (r *slowReader) Read(p []byte) (int, error) {
	if r.pos >= len(r.data) {
		return 0, io.EOF
	}
	n := r.chunk
	if n > len(p) {
		n = len(p)
	}
	if r.pos+n > len(r.data) {
		n = len(r.data) - r.pos
	}
	copy(p, r.data[r.pos:r.pos+n])
	r.pos += n
	return n, nil
}

func (r *slowReader) Write(p []byte) (int, error) { return len(p), nil }

func TestConnReadMessageAcrossPartialReads(t *testing.T) {
	doc, err := bson.Marshal(Request{Run: "SELECT 1;"})
	require.NoError(t, err)

	conn := NewConn(&slowReader{data: doc, chunk: 3})
	var got Request
	require.NoError(t, conn.ReadMessage(&got))
	require.Equal(t, "SELECT 1;", got.Run)
}

func TestConnReadMessageMidStreamDisconnect(t *testing.T) {
	doc, err := bson.Marshal(Request{Run: "SELECT 1;"})
	require.NoError(t, err)

	conn := NewConn(&slowReader{data: doc[:len(doc)-2], chunk: 1024})
	var got Request
	err = conn.ReadMessage(&got)
	require.ErrorIs(t, err, ErrConnectionResetMidMessage)
}

func TestConnReadMessageCleanEOF(t *testing.T) {
	conn := NewConn(&slowReader{data: nil})
	var got Request
	err := conn.ReadMessage(&got)
	require.ErrorIs(t, err, io.EOF)
}

func TestConnTwoFramesBackToBack(t *testing.T) {
	var wire bytes.Buffer
	writer := NewConn(&loopback{in: &bytes.Buffer{}, out: &wire})
	require.NoError(t, writer.WriteMessage(Request{Run: "a"}))
	require.NoError(t, writer.WriteMessage(Request{Run: "b"}))

	reader := NewConn(&loopback{in: &wire, out: &bytes.Buffer{}})
	var first, second Request
	require.NoError(t, reader.ReadMessage(&first))
	require.NoError(t, reader.ReadMessage(&second))
	require.Equal(t, "a", first.Run)
	require.Equal(t, "b", second.Run)
}
