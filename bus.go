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
	"io"
	"log/slog"
	"net/netip"
)

// Adapter forwards notifications from an event source as typed events
// to a handler. Forwarding is synchronous on the delivering context.
type Adapter struct {
	handler EventHandler
	logger  *slog.Logger
}

// NewAdapter creates an adapter forwarding to handler.
func NewAdapter(handler EventHandler, logger *slog.Logger) *Adapter {
	return &Adapter{
		handler: handler,
		logger:  orDiscard(logger),
	}
}

// Attach subscribes to all link-layer notifications and to address
// acquisition. A failed subscription is returned unchanged; the caller
// can not proceed without notifications.
func (a *Adapter) Attach(src EventSource) (err error) {
	if err = src.Subscribe(ClassWiFi, IDAny, a.forward); err != nil {
		return
	}
	return src.Subscribe(ClassIP, IPStaGotIP, a.forward)
}

// translate a notification and hand it to the controller.
func (a *Adapter) forward(n Notification) {
	ev, ok := translate(n)
	if !ok {
		a.logger.Debug("ignored notification",
			slog.String("class", n.Class.String()),
			slog.Int("id", int(n.ID)))
		return
	}
	a.handler.HandleEvent(ev)
}

// translate raw notification to typed event
func translate(n Notification) (ev Event, ok bool) {
	switch n.Class {
	case ClassWiFi:
		switch n.ID {
		case WiFiStaStart:
			return Event{Kind: EvLinkStart}, true
		case WiFiStaStop, WiFiStaDisconnected:
			return Event{Kind: EvLinkStop}, true
		}
	case ClassIP:
		if n.ID == IPStaGotIP {
			ev = Event{Kind: EvAddrAcquired}
			if addr, isAddr := n.Payload.(netip.Addr); isAddr {
				ev.Addr = addr
			}
			return ev, true
		}
	}
	return
}

// orDiscard returns logger or a logger that drops everything.
func orDiscard(logger *slog.Logger) *slog.Logger {
	if logger != nil {
		return logger
	}
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{
		Level: slog.Level(127),
	}))
}
