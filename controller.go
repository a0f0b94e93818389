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
	"log/slog"
	"sync"
)

// MaxFailures is the default number of reconnect attempts after the
// initial connect command.
const MaxFailures = 10

// State of the connection controller.
type State int

// controller states
const (
	StateIdle State = iota
	StateConnecting
	StateConnected
	StateFailed
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateConnecting:
		return "connecting"
	case StateConnected:
		return "connected"
	case StateFailed:
		return "failed"
	}
	return "invalid"
}

// Terminal returns true for states the controller never leaves.
func (s State) Terminal() bool {
	return s == StateConnected || s == StateFailed
}

// Associator issues connect commands to the network stack. Connect must
// not block; a failing association is reported later as a link-stop
// notification.
type Associator interface {
	Connect() error
}

// Observer is notified about controller activity.
type Observer interface {
	// ConnectIssued after a connect command; retry is 0 for the initial one.
	ConnectIssued(retry int)
	// Transition between two controller states.
	Transition(from, to State)
}

// Controller drives the association of a station. It owns the retry
// counter and reports terminal states to its gate.
type Controller struct {
	mu          sync.Mutex
	state       State
	retries     int
	maxFailures int
	radio       Associator
	gate        *Gate
	obs         Observer
	logger      *slog.Logger
}

// NewController creates a controller in state Idle that issues connect
// commands to radio and gives up after maxFailures disconnections.
func NewController(radio Associator, maxFailures int, logger *slog.Logger) *Controller {
	return &Controller{
		state:       StateIdle,
		maxFailures: max(maxFailures, 0),
		radio:       radio,
		gate:        NewGate(),
		logger:      orDiscard(logger),
	}
}

// SetObserver attaches an observer (before events are delivered).
func (c *Controller) SetObserver(obs Observer) {
	c.mu.Lock()
	c.obs = obs
	c.mu.Unlock()
}

// Gate returns the gate signalled on terminal states.
func (c *Controller) Gate() *Gate {
	return c.gate
}

// State returns the current controller state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Retries returns the current value of the retry counter.
func (c *Controller) Retries() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.retries
}

// HandleEvent advances the state machine. It never blocks on the network
// and never fails; events in a terminal state are ignored.
func (c *Controller) HandleEvent(ev Event) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state.Terminal() {
		c.logger.Debug("event after terminal state",
			slog.String("event", ev.Kind.String()),
			slog.String("state", c.state.String()))
		return
	}
	switch ev.Kind {
	case EvLinkStart:
		if c.state != StateIdle {
			c.logger.Debug("duplicate link start")
			return
		}
		c.logger.Info("station started, connecting")
		c.transition(StateConnecting)
		c.connect()

	case EvLinkStop:
		c.logger.Info("failed connection to AP", slog.Int("retries", c.retries))
		if c.retries < c.maxFailures {
			c.retries++
			c.transition(StateConnecting)
			c.logger.Info("retrying to connect to the AP", slog.Int("retry", c.retries))
			c.connect()
			return
		}
		c.transition(StateFailed)
		c.gate.set(OutcomeFailed)

	case EvAddrAcquired:
		c.logger.Info("got ip", slog.String("addr", ev.Addr.String()))
		c.retries = 0
		c.transition(StateConnected)
		c.gate.set(OutcomeConnected)
	}
}

// issue a connect command (fire-and-forget).
func (c *Controller) connect() {
	if err := c.radio.Connect(); err != nil {
		c.logger.Warn("connect command failed", slog.String("err", err.Error()))
	}
	if c.obs != nil {
		c.obs.ConnectIssued(c.retries)
	}
}

// change state and notify observer
func (c *Controller) transition(to State) {
	from := c.state
	c.state = to
	if c.obs != nil && from != to {
		c.obs.Transition(from, to)
	}
}
