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
	"errors"
	"log/slog"
	"sync"
)

// Error messages
var (
	ErrClosed  = errors.New("device closed")
	ErrStarted = errors.New("device already started")
)

// subscription of a listener
type subscription struct {
	class EventClass
	id    int32
	l     Listener
}

// dispatcher is the worker context of a network stack: jobs and
// notification deliveries run serially in the order they were queued.
// Queueing never blocks.
type dispatcher struct {
	logger  *slog.Logger
	mu      sync.Mutex
	subs    []subscription
	queue   []func()
	wake    chan struct{}
	quit    chan struct{}
	running bool
	closed  bool
}

// create a new (not running) dispatcher
func newDispatcher(logger *slog.Logger) *dispatcher {
	return &dispatcher{
		logger: orDiscard(logger),
		wake:   make(chan struct{}, 1),
		quit: make(chan struct{}),
	}
}

// Subscribe listener to notifications.
func (d *dispatcher) Subscribe(class EventClass, id int32, l Listener) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return ErrClosed
	}
	d.subs = append(d.subs, subscription{class: class, id: id, l: l})
	return nil
}

// start the worker loop
func (d *dispatcher) start() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return ErrClosed
	}
	if d.running {
		return ErrStarted
	}
	d.running = true
	go d.run()
	return nil
}

// exec queues a job on the worker context.
func (d *dispatcher) exec(job func()) error {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return ErrClosed
	}
	d.queue = append(d.queue, job)
	d.mu.Unlock()

	select {
	case d.wake <- struct{}{}:
	default:
	}
	return nil
}

// post queues the delivery of a notification. Notifications posted
// after close are dropped (and logged).
func (d *dispatcher) post(n Notification) {
	err := d.exec(func() {
		d.mu.Lock()
		subs := d.subs
		d.mu.Unlock()
		for _, s := range subs {
			if s.class == n.Class && (s.id == IDAny || s.id == n.ID) {
				s.l(n)
			}
		}
	})
	if err != nil {
		d.logger.Debug("notification dropped",
			slog.String("class", n.Class.String()),
			slog.Int("id", int(n.ID)),
			slog.String("err", err.Error()))
	}
}

// worker loop
func (d *dispatcher) run() {
	for {
		d.mu.Lock()
		var job func()
		if len(d.queue) > 0 {
			job = d.queue[0]
			d.queue[0] = nil
			d.queue = d.queue[1:]
		}
		d.mu.Unlock()

		if job != nil {
			job()
			continue
		}
		select {
		case <-d.wake:
		case <-d.quit:
			return
		}
	}
}

// close stops the worker; pending jobs are dropped.
func (d *dispatcher) close() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return
	}
	d.closed = true
	d.queue = nil
	close(d.quit)
}
