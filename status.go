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
	"sync/atomic"
	"time"
)

// status codes (number of LED blinks)
const (
	StatUNK       = iota // unknown status (init)
	StatOK               // station up, handshake done
	StatDEV              // device failure
	StatCONFIG           // invalid configuration
	StatSTORAGE          // persistent storage initialisation failed
	StatSUBSCRIBE        // event subscription failed
	StatWIFI             // can't start the WiFi chip
	StatASSOC            // association to AP failed
	StatUNEXP            // gate woke without outcome
	StatSOCKET           // socket allocation failed
	StatCONNECT          // connect to endpoint failed
	StatREAD             // reading the handshake failed
	StatEXCP             // exception (panic) occured
)

// StatusName returns a short name for a status code.
func StatusName(code int) string {
	names := []string{
		"UNK", "OK", "DEV", "CONFIG", "STORAGE", "SUBSCRIBE", "WIFI",
		"ASSOC", "UNEXP", "SOCKET", "CONNECT", "READ", "EXCP",
	}
	if code < 0 || code >= len(names) {
		return fmt.Sprintf("STAT(%d)", code)
	}
	return names[code]
}

// Status handler.
// Show current status depending on hardware device.
type Status struct {
	dev    Device       // reference to device
	curr   atomic.Int32 // current state
	repeat atomic.Int32 // current repeat counter
}

// NewStatus creates a new status display
func NewStatus(dev Device) (state *Status) {
	state = new(Status)
	state.dev = dev
	state.curr.Store(StatUNK)
	go state.blink()
	return
}

// blink LED <state> times (long pulses count 5); repeat <repeat> times
// before falling back to UNK. A repeat of 0 shows the state forever.
func (state *Status) blink() {
	for {
		time.Sleep(5 * time.Second)
		num := state.curr.Load()
		for num > 5 {
			state.dev.LED(true)
			time.Sleep(1000 * time.Millisecond)
			state.dev.LED(false)
			time.Sleep(300 * time.Millisecond)
			num -= 5
		}
		for range num {
			state.dev.LED(true)
			time.Sleep(150 * time.Millisecond)
			state.dev.LED(false)
			time.Sleep(150 * time.Millisecond)
		}
		if state.repeat.Add(-1) == 0 {
			state.curr.Store(StatUNK)
		}
	}
}

// Set status and repeat <num> times.
func (state *Status) Set(flag, num int) {
	if state != nil {
		state.curr.Store(int32(flag))
		state.repeat.Store(int32(num))
	}
}

// Get current state and repeat counter
func (state *Status) Get() (int, int) {
	if state == nil {
		return StatUNK, 0
	}
	return int(state.curr.Load()), int(state.repeat.Load())
}

// Trap critical failures (panic). Keeps the status visible for t.
func (state *Status) Trap(t time.Duration) {
	if r := recover(); r != nil {
		fmt.Printf("EXCP: %v\n", r)
		state.Set(StatEXCP, 0)
	}
	time.Sleep(t)
}
