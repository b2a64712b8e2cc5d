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
	"encoding/binary"
	"errors"
	"io"

	"go.mongodb.org/mongo-driver/bson"
)

// ErrConnectionResetMidMessage is returned by ReadMessage when the peer
// closes the connection after sending a partial frame (§6 "a disconnect
// mid-message surfaces as a transport error").
var ErrConnectionResetMidMessage = errors.New("protocol: connection reset mid-message")

// Conn frames messages over rw as length-framed BSON documents: every BSON
// document begins with its own little-endian int32 total length, so no
// additional outer length prefix is written (§6's framing description:
// "reads into a growing buffer, attempts to decode a complete BSON document
// on each append, and when one succeeds consumes those bytes").
type Conn struct {
	rw  io.ReadWriter
	buf []byte
}

// NewConn wraps rw (typically a net.Conn) for framed message exchange.
func NewConn(rw io.ReadWriter) *Conn {
	return &Conn{rw: rw}
}

// pendingDocLen reports the byte length the next buffered document declares
// for itself, once at least its 4-byte header has arrived.
func (c *Conn) pendingDocLen() (int, bool) {
	if len(c.buf) < 4 {
		return 0, false
	}
	n := int(binary.LittleEndian.Uint32(c.buf[:4]))
	return n, n > 0
}

// ReadMessage blocks until one complete BSON document has arrived, decodes
// it into v, and removes the consumed bytes from the pending buffer.
// Returns io.EOF if the peer closed the connection with nothing pending.
func (c *Conn) ReadMessage(v interface{}) error {
	for {
		if n, ok := c.pendingDocLen(); ok && len(c.buf) >= n {
			if err := bson.Unmarshal(c.buf[:n], v); err != nil {
				return err
			}
			rest := make([]byte, len(c.buf)-n)
			copy(rest, c.buf[n:])
			c.buf = rest
			return nil
		}

		chunk := make([]byte, 4096)
		read, err := c.rw.Read(chunk)
		if read > 0 {
			c.buf = append(c.buf, chunk[:read]...)
		}
		if err != nil {
			if err == io.EOF {
				if len(c.buf) > 0 {
					return ErrConnectionResetMidMessage
				}
				return io.EOF
			}
			return err
		}
	}
}

// WriteMessage encodes v as a single BSON document and writes it whole.
func (c *Conn) WriteMessage(v interface{}) error {
	doc, err := bson.Marshal(v)
	if err != nil {
		return err
	}
	_, err = c.rw.Write(doc)
	return err
}
