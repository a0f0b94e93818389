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
	"strconv"
)

// NewDiagnostics builds a read-only namespace exposing the state of a
// station:
//
//	/ssid       network name
//	/endpoint   handshake server
//	/state      controller state
//	/retries    retry counter
//	/outcome    association outcome
//	/handshake  last handshake reply and match result
func NewDiagnostics(st *Station) (*Namespace, error) {
	ns := NewNamespace("sys", "sys")
	cfg := st.Config()
	ctrl := st.Controller()

	text := func(fcn func() string) *FuncFile {
		return NewFuncFile(func() ([]byte, error) {
			return []byte(fcn() + "\n"), nil
		})
	}
	files := []struct {
		path string
		impl File
	}{
		{"/ssid", NewStaticFile(cfg.SSID + "\n")},
		{"/endpoint", NewStaticFile(cfg.Endpoint + "\n")},
		{"/state", text(func() string { return ctrl.State().String() })},
		{"/retries", text(func() string { return strconv.Itoa(ctrl.Retries()) })},
		{"/outcome", text(func() string { return ctrl.Gate().Outcome().String() })},
		{"/handshake", text(func() string {
			hs := st.Handshake()
			if hs == nil {
				return "none"
			}
			verdict := "mismatch"
			if hs.Matched {
				verdict = "match"
			}
			return fmt.Sprintf("%q %s", hs.Reply, verdict)
		})},
	}
	for _, f := range files {
		if err := ns.NewFile(f.path, 0444, f.impl); err != nil {
			return nil, err
		}
	}
	return ns, nil
}
