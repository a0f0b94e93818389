//----------------------------------------------------------------------
// This file is part of wifista.
// Copyright (C) 2024-present Bernd Fix   >Y<
//
// wifista is free software: you can redistribute it and/or modify it
// under the terms of the GNU Affero General Public License as published
// by the Free Software Foundation, either version 3 of the License,
// or (at your option) any later version.
//
// wifista is distributed in the hope that it will be useful, but
// WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the GNU
// Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program.  If not, see <http://www.gnu.org/licenses/>.
//
// SPDX-License-Identifier: AGPL3.0-or-later
//----------------------------------------------------------------------

package wifista

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/netip"
)

// handshake parameters
const (
	ReadBufferSize = 1024    // capacity of the response buffer
	Greeting       = "HELLO" // expected handshake reply
)

// Error kinds of a stream session
var (
	ErrSocketCreation = errors.New("failed to create a socket")
	ErrConnectFailed  = errors.New("failed to connect")
	ErrReadFailed     = errors.New("failed to read")
)

// SessionError reports a failed step of a stream session.
type SessionError struct {
	Kind error          // one of the ErrSocketCreation, ErrConnectFailed, ErrReadFailed
	Addr netip.AddrPort // remote endpoint
	Err  error          // underlying transport error
}

// Error returns a diagnostic message including the remote address.
func (e *SessionError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%v to %s", e.Kind, e.Addr)
	}
	return fmt.Sprintf("%v to %s: %v", e.Kind, e.Addr, e.Err)
}

// Unwrap exposes the error kind and the transport error.
func (e *SessionError) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

//----------------------------------------------------------------------

// Socket is a stream socket allocated by a transport.
type Socket interface {
	// Connect to remote endpoint (blocking).
	Connect(addr netip.AddrPort) error
	io.ReadCloser
}

// Transport allocates stream sockets.
type Transport interface {
	Socket() (Socket, error)
}

// Handshake is the result of a verified session.
type Handshake struct {
	Reply   []byte // bytes read (up to the first NUL)
	Matched bool   // reply equals Greeting
}

// Session opens a single outbound stream and checks the greeting.
type Session struct {
	tr     Transport
	logger *slog.Logger
}

// NewSession creates a session on the given transport.
func NewSession(tr Transport, logger *slog.Logger) *Session {
	return &Session{
		tr:     tr,
		logger: orDiscard(logger),
	}
}

// OpenAndVerify connects to target, reads the handshake once and compares
// it with Greeting. A mismatching reply is not an error. The socket is
// closed on every path once it has been allocated.
func (s *Session) OpenAndVerify(target netip.AddrPort) (hs *Handshake, err error) {
	s.logger.Info("init connection to TCP server", slog.String("endpoint", target.String()))
	sock, err := s.tr.Socket()
	if err != nil {
		s.logger.Error("failed to create a socket", slog.String("err", err.Error()))
		return nil, &SessionError{Kind: ErrSocketCreation, Addr: target, Err: err}
	}
	defer func() {
		if cerr := sock.Close(); cerr != nil {
			s.logger.Debug("socket close", slog.String("err", cerr.Error()))
		}
	}()

	s.logger.Info("open socket")
	if err = sock.Connect(target); err != nil {
		s.logger.Error("failed to connect", slog.String("endpoint", target.String()))
		return nil, &SessionError{Kind: ErrConnectFailed, Addr: target, Err: err}
	}
	s.logger.Info("connected to TCP server")

	// the last byte always stays NUL
	buf := make([]byte, ReadBufferSize)
	n, err := sock.Read(buf[:ReadBufferSize-1])
	if err != nil && !errors.Is(err, io.EOF) {
		return nil, &SessionError{Kind: ErrReadFailed, Addr: target, Err: err}
	}
	s.logger.Info("handshake received", slog.Int("size", n), slog.String("data", string(buf[:n])))

	reply := buf[:bytes.IndexByte(buf, 0)]
	hs = &Handshake{
		Reply:   bytes.Clone(reply),
		Matched: string(reply) == Greeting,
	}
	if hs.Matched {
		s.logger.Info("WE DID IT!")
	}
	return hs, nil
}
