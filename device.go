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

// Device is a hardware abstraction of a wireless station.
type Device interface {
	// LED on or off (if applicable)
	LED(on bool)

	// Storage returns the persistent storage of the device.
	Storage() Storage

	// Events returns the notification source of the network stack.
	Events() EventSource

	// Start the link layer in station mode. A successful start is
	// notified with WiFiStaStart.
	Start() error

	// Connect issues an association command without blocking.
	Associator

	// Transport for outbound stream connections.
	Transport() Transport

	// Close releases the device; notifications stop.
	Close() error
}
