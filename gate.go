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

import "sync"

// Outcome of an association attempt as observed by the gate.
type Outcome int

// association outcomes
const (
	OutcomePending    Outcome = iota // no terminal state reached yet
	OutcomeConnected                 // address acquired
	OutcomeFailed                    // retries exhausted
	OutcomeUnexpected                // woken without a terminal flag
)

// String returns the outcome name.
func (o Outcome) String() string {
	switch o {
	case OutcomePending:
		return "pending"
	case OutcomeConnected:
		return "connected"
	case OutcomeFailed:
		return "failed"
	}
	return "unexpected"
}

// Gate lets the initiating task block until the controller reached a
// terminal state. Each of the two terminal flags is set at most once and
// only one of them can ever be set.
type Gate struct {
	mu        sync.Mutex
	done      chan struct{} // closed when a flag is set
	connected bool
	failed    bool
}

// NewGate returns an unsignalled gate.
func NewGate() *Gate {
	return &Gate{
		done: make(chan struct{}),
	}
}

// set a terminal flag. Returns false if a terminal flag was already set.
func (g *Gate) set(o Outcome) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.connected || g.failed {
		return false
	}
	switch o {
	case OutcomeConnected:
		g.connected = true
	case OutcomeFailed:
		g.failed = true
	default:
		return false
	}
	close(g.done)
	return true
}

// Done is closed once a terminal flag is set.
func (g *Gate) Done() <-chan struct{} {
	return g.done
}

// Outcome returns the current state of the flags without blocking.
func (g *Gate) Outcome() Outcome {
	g.mu.Lock()
	defer g.mu.Unlock()
	switch {
	case g.connected:
		return OutcomeConnected
	case g.failed:
		return OutcomeFailed
	}
	return OutcomePending
}

// Await blocks (without timeout) until a terminal flag is set.
func (g *Gate) Await() Outcome {
	<-g.done
	if o := g.Outcome(); o != OutcomePending {
		return o
	}
	return OutcomeUnexpected
}
