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
	"net/netip"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// event source keeping listeners for direct delivery
type stubSource struct {
	subs []subscription
	fail error
}

func (s *stubSource) Subscribe(class EventClass, id int32, l Listener) error {
	if s.fail != nil {
		return s.fail
	}
	s.subs = append(s.subs, subscription{class: class, id: id, l: l})
	return nil
}

func (s *stubSource) deliver(n Notification) {
	for _, sub := range s.subs {
		if sub.class == n.Class && (sub.id == IDAny || sub.id == n.ID) {
			sub.l(n)
		}
	}
}

// handler recording events
type eventLog []Event

func (l *eventLog) HandleEvent(ev Event) {
	*l = append(*l, ev)
}

func TestAdapterForwardsInOrder(t *testing.T) {
	src := new(stubSource)
	var got eventLog
	require.NoError(t, NewAdapter(&got, nil).Attach(src))
	require.Len(t, src.subs, 2)

	addr := netip.MustParseAddr("10.0.0.7")
	src.deliver(Notification{Class: ClassWiFi, ID: WiFiStaStart})
	src.deliver(Notification{Class: ClassWiFi, ID: WiFiStaConnected})
	src.deliver(Notification{Class: ClassWiFi, ID: WiFiStaDisconnected})
	src.deliver(Notification{Class: ClassWiFi, ID: WiFiStaStop})
	src.deliver(Notification{Class: ClassIP, ID: IPStaLostIP})
	src.deliver(Notification{Class: ClassIP, ID: IPStaGotIP, Payload: addr})

	assert.Equal(t, eventLog{
		{Kind: EvLinkStart},
		{Kind: EvLinkStop},
		{Kind: EvLinkStop},
		{Kind: EvAddrAcquired, Addr: addr},
	}, got)
}

func TestAdapterBadPayload(t *testing.T) {
	ev, ok := translate(Notification{Class: ClassIP, ID: IPStaGotIP, Payload: "10.0.0.7"})
	require.True(t, ok)
	assert.Equal(t, EvAddrAcquired, ev.Kind)
	assert.False(t, ev.Addr.IsValid())
}

func TestAdapterSubscribeFailure(t *testing.T) {
	fail := errors.New("no event loop")
	err := NewAdapter(new(eventLog), nil).Attach(&stubSource{fail: fail})
	assert.ErrorIs(t, err, fail)
}

func TestAdapterDrivesController(t *testing.T) {
	src := new(stubSource)
	radio := new(countingRadio)
	c := NewController(radio, MaxFailures, nil)
	require.NoError(t, NewAdapter(c, nil).Attach(src))

	src.deliver(Notification{Class: ClassWiFi, ID: WiFiStaStart})
	src.deliver(Notification{Class: ClassIP, ID: IPStaGotIP, Payload: netip.MustParseAddr("10.0.0.7")})
	assert.Equal(t, StateConnected, c.State())
	assert.Equal(t, OutcomeConnected, c.Gate().Await())
	assert.Equal(t, 1, radio.connects)
}
