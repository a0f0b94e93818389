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
	"github.com/bfix/wifista"
	"github.com/prometheus/client_golang/prometheus"
)

// metrics is a controller observer backed by Prometheus collectors.
type metrics struct {
	connects    *prometheus.CounterVec
	transitions *prometheus.CounterVec
	state       *prometheus.GaugeVec
}

// newMetrics creates and registers the collectors with reg.
func newMetrics(reg prometheus.Registerer) *metrics {
	m := &metrics{
		connects: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "wifista",
				Subsystem: "controller",
				Name:      "connect_commands_total",
				Help:      "Connect commands issued to the network stack.",
			},
			[]string{"kind"},
		),
		transitions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "wifista",
				Subsystem: "controller",
				Name:      "transitions_total",
				Help:      "State transitions of the connection controller.",
			},
			[]string{"from", "to"},
		),
		state: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: "wifista",
				Subsystem: "controller",
				Name:      "state",
				Help:      "Current controller state (1 for the active state).",
			},
			[]string{"state"},
		),
	}
	reg.MustRegister(m.connects, m.transitions, m.state)
	m.state.WithLabelValues(wifista.StateIdle.String()).Set(1)
	return m
}

// ConnectIssued counts initial and retried connect commands.
func (m *metrics) ConnectIssued(retry int) {
	kind := "initial"
	if retry > 0 {
		kind = "retry"
	}
	m.connects.WithLabelValues(kind).Inc()
}

// Transition updates the state gauge.
func (m *metrics) Transition(from, to wifista.State) {
	m.transitions.WithLabelValues(from.String(), to.String()).Inc()
	m.state.WithLabelValues(from.String()).Set(0)
	m.state.WithLabelValues(to.String()).Set(1)
}
