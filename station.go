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
	"net/netip"
	"sync"
)

// Station runs the bring-up sequence of a device: associate to the
// access point, then open one stream to the endpoint and check the
// handshake. Nothing is retried at this level.
type Station struct {
	dev     Device
	cfg     Config
	logger  *slog.Logger
	ctrl    *Controller
	session *Session
	status  *Status

	mu sync.Mutex
	hs *Handshake // last handshake (or nil)
}

// NewStation creates a station for dev.
func NewStation(dev Device, cfg Config, logger *slog.Logger) *Station {
	logger = orDiscard(logger)
	return &Station{
		dev:     dev,
		cfg:     cfg,
		logger:  logger,
		ctrl:    NewController(dev, cfg.MaxFailures, logger.With(slog.String("tag", "WIFI"))),
		session: NewSession(dev.Transport(), logger.With(slog.String("tag", "TCP"))),
	}
}

// Controller of the station.
func (st *Station) Controller() *Controller {
	return st.ctrl
}

// Config of the station.
func (st *Station) Config() Config {
	return st.cfg
}

// SetStatus attaches a status display.
func (st *Station) SetStatus(status *Status) {
	st.status = status
}

// Handshake returns the result of the last session (or nil).
func (st *Station) Handshake() *Handshake {
	st.mu.Lock()
	defer st.mu.Unlock()
	return st.hs
}

// Associate initialises storage, subscribes to notifications, starts the
// device and waits until the controller reached a terminal state.
func (st *Station) Associate() (Outcome, int) {
	if err := InitStorage(st.dev.Storage()); err != nil {
		st.logger.Error("storage initialisation failed", slog.String("err", err.Error()))
		return OutcomePending, StatSTORAGE
	}
	if err := NewAdapter(st.ctrl, st.logger).Attach(st.dev.Events()); err != nil {
		st.logger.Error("event subscription failed", slog.String("err", err.Error()))
		return OutcomePending, StatSUBSCRIBE
	}
	if err := st.dev.Start(); err != nil {
		st.logger.Error("device start failed", slog.String("err", err.Error()))
		return OutcomePending, StatWIFI
	}

	switch o := st.ctrl.Gate().Await(); o {
	case OutcomeConnected:
		st.logger.Info("connected to ap", slog.String("ssid", st.cfg.SSID))
		return o, StatOK
	case OutcomeFailed:
		st.logger.Info("failed connect to ap", slog.String("ssid", st.cfg.SSID))
		return o, StatASSOC
	default:
		st.logger.Error("UNEXPECTED EVENT")
		return o, StatUNEXP
	}
}

// Run the complete bring-up sequence and return a status code. Failures
// are logged; the caller decides whether to keep the process alive.
func (st *Station) Run() (stat int) {
	defer func() {
		st.status.Set(stat, 0)
	}()
	target, err := st.cfg.Target()
	if err != nil {
		st.logger.Error("invalid endpoint", slog.String("err", err.Error()))
		return StatCONFIG
	}
	if _, stat = st.Associate(); stat != StatOK {
		st.logger.Info("Failed to associate to AP, dying...")
		return
	}
	if stat = st.Verify(target); stat != StatOK {
		st.logger.Info("Failed to remote server, dying...")
	}
	return
}

// Verify opens the session to target and records the handshake.
func (st *Station) Verify(target netip.AddrPort) int {
	hs, err := st.session.OpenAndVerify(target)
	if err != nil {
		st.logger.Error("session failed", slog.String("err", err.Error()))
		switch {
		case errors.Is(err, ErrSocketCreation):
			return StatSOCKET
		case errors.Is(err, ErrConnectFailed):
			return StatCONNECT
		default:
			return StatREAD
		}
	}
	st.mu.Lock()
	st.hs = hs
	st.mu.Unlock()
	return StatOK
}
