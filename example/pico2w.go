//go:build rp2350

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

package main

import (
	"log/slog"
	"machine"
	"strconv"
	"time"

	"github.com/bfix/wifista"
)

// WiFi credentials and handshake server (set with -ldflags "-X main.SSID=...")
var (
	SSID     string
	Passwd   string
	Host     string
	IP       string
	Endpoint string
	Failures string
)

// associate and greet the handshake server
func main() {
	logger := slog.New(slog.NewTextHandler(machine.Serial, &slog.HandlerOptions{Level: slog.LevelDebug - 1}))
	time.Sleep(2 * time.Second)

	cfg := wifista.DefaultConfig()
	cfg.SSID, cfg.Passphrase = SSID, Passwd
	if len(Passwd) == 0 {
		cfg.AuthMode = wifista.AuthOpen
	}
	if Host != "" {
		cfg.Hostname = Host
	}
	cfg.RequestedIP = IP
	if Endpoint != "" {
		cfg.Endpoint = Endpoint
	}
	if n, err := strconv.Atoi(Failures); err == nil {
		cfg.MaxFailures = n
	}

	// validate (and normalise) before the device takes its copy
	verr := cfg.Validate()

	// access device
	dev := wifista.InitDevice(cfg, logger)
	state := wifista.NewStatus(dev)
	defer state.Trap(30 * time.Second)

	if err := verr; err != nil {
		logger.Error("invalid configuration", slog.String("err", err.Error()))
		state.Set(wifista.StatCONFIG, 0)
		return
	}
	st := wifista.NewStation(dev, cfg, logger)
	st.SetStatus(state)
	stat := st.Run()
	logger.Info("bring-up finished", slog.String("status", wifista.StatusName(stat)))

	// keep the status display alive; restarts are up to the watchdog
	select {}
}
