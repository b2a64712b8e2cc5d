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

	uuid "github.com/satori/go.uuid"
	"github.com/sirupsen/logrus"

	"github.com/lykia-rs/lykiadb-sub002/pkg/protocol"
	"github.com/lykia-rs/lykiadb-sub002/pkg/session"
)

// Server accepts TCP connections and spawns one cooperative goroutine per
// connection, per §5's "one cooperative task per connection" scheduling
// model. Logging uses a shared *logrus.Logger with WithFields for
// structured per-connection/per-request context.
type Server struct {
	cfg    Config
	log    *logrus.Logger
	stdout io.Writer
}

// New builds a Server from cfg. log may be nil, in which case a default
// logrus.Logger is used.
func New(cfg Config, log *logrus.Logger) *Server {
	if log == nil {
		log = logrus.New()
	}
	if lvl, err := logrus.ParseLevel(cfg.LogLevel); err == nil {
		log.SetLevel(lvl)
	}
	return &Server{cfg: cfg, log: log, stdout: io.Discard}
}

// ListenAndServe binds cfg.Addr and serves connections until the listener is
// closed or an Accept error occurs.
func (s *Server) ListenAndServe() error {
	ln, err := net.Listen("tcp", s.cfg.Addr)
	if err != nil {
		return err
	}
	defer ln.Close()

	s.log.WithField("addr", s.cfg.Addr).Info("listening")
	return s.Serve(ln)
}

// Serve accepts connections from ln until it returns an error (e.g. once
// closed), dispatching each to its own goroutine.
func (s *Server) Serve(ln net.Listener) error {
	sem := make(chan struct{}, s.cfg.MaxConnections)
	for {
		conn, err := ln.Accept()
		if err != nil {
			return err
		}

		select {
		case sem <- struct{}{}:
			go func() {
				defer func() { <-sem }()
				s.handleConnection(conn)
			}()
		default:
			s.log.WithField("addr", conn.RemoteAddr().String()).Warn("max connections reached, rejecting")
			conn.Close()
		}
	}
}

// handleConnection runs the strictly sequential read -> interpret -> write
// loop of §5 for one connection: every suspension point is a network read or
// write; interpretation is synchronous and non-suspending.
func (s *Server) handleConnection(conn net.Conn) {
	addr := conn.RemoteAddr().String()
	connID := uuid.NewV4().String()
	log := s.log.WithFields(logrus.Fields{"addr": addr, "conn_id": connID})
	log.Info("connection accepted")
	defer func() {
		conn.Close()
		log.Info("connection closed")
	}()

	wire := protocol.NewConn(conn)
	sess := session.New(s.stdout)

	for {
		var req protocol.Request
		if err := wire.ReadMessage(&req); err != nil {
			if err != io.EOF {
				log.WithError(err).Warn("read failed")
			}
			return
		}

		resp := sess.Run(req.Run)
		logResponse(log, resp)

		if err := wire.WriteMessage(resp); err != nil {
			log.WithError(err).Warn("write failed")
			return
		}
	}
}

func logResponse(log *logrus.Entry, resp protocol.Response) {
	if resp.Error != nil {
		log.WithFields(logrus.Fields{
			"error_code": resp.Error.Code,
			"elapsed_ms": resp.Error.ElapsedMs,
		}).Warn("request failed")
		return
	}
	log.WithField("elapsed_ms", resp.Value.ElapsedMs).Trace("request completed")
}
