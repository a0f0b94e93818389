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
	"fmt"
	"net/netip"
)

// EventClass groups notifications delivered by the network stack.
type EventClass int

// notification classes
const (
	ClassWiFi EventClass = iota // link-layer lifecycle
	ClassIP                     // address acquisition
)

// String returns a human-readable class name.
func (c EventClass) String() string {
	switch c {
	case ClassWiFi:
		return "WIFI_EVENT"
	case ClassIP:
		return "IP_EVENT"
	}
	return fmt.Sprintf("EVENT_CLASS(%d)", int(c))
}

// notification identifiers (per class)
const (
	IDAny int32 = -1 // subscribe to all identifiers of a class

	WiFiStaStart        int32 = 2 // station started
	WiFiStaStop         int32 = 3 // station stopped
	WiFiStaConnected    int32 = 4 // associated (no address yet)
	WiFiStaDisconnected int32 = 5 // association lost or failed

	IPStaGotIP  int32 = 0 // station received an address
	IPStaLostIP int32 = 1 // station lost its address
)

// Notification is a raw message from the network stack as delivered
// to subscribers. The payload of IPStaGotIP is a netip.Addr.
type Notification struct {
	Class   EventClass
	ID      int32
	Payload any
}

// Listener receives raw notifications from an EventSource.
type Listener func(n Notification)

// EventSource delivers notifications from the network stack. Listeners
// are invoked serially on the delivering context, in arrival order.
type EventSource interface {
	// Subscribe listener to notifications of class with identifier id
	// (or IDAny for all identifiers of that class).
	Subscribe(class EventClass, id int32, l Listener) error
}

//----------------------------------------------------------------------

// EventKind is the type of a typed connection event.
type EventKind int

// event kinds consumed by the controller
const (
	EvLinkStart    EventKind = iota // link layer started
	EvLinkStop                      // link layer stopped/disconnected
	EvAddrAcquired                  // address assigned to the station
)

// String returns the event name.
func (k EventKind) String() string {
	switch k {
	case EvLinkStart:
		return "link-start"
	case EvLinkStop:
		return "link-stop"
	case EvAddrAcquired:
		return "address-acquired"
	}
	return fmt.Sprintf("event(%d)", int(k))
}

// Event is a typed notification for the connection controller.
type Event struct {
	Kind EventKind
	Addr netip.Addr // assigned address (EvAddrAcquired only)
}

// EventHandler consumes typed events.
type EventHandler interface {
	HandleEvent(ev Event)
}
