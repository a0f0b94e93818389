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
	"errors"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/bfix/wifista"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// run the station bring-up on a hosted system
func main() {
	var cfgPath string
	flag.StringVar(&cfgPath, "c", "", "configuration file (TOML)")
	flag.Parse()

	os.Exit(run(cfgPath))
}

// run returns the process exit code.
func run(cfgPath string) int {
	cfg, err := loadConfig(cfgPath)
	if err != nil {
		slog.Error("configuration failed", slog.String("err", err.Error()))
		return 2
	}
	level, _ := wifista.ParseLevel(cfg.LogLevel)
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	dev := wifista.InitDevice(cfg, logger)
	defer dev.Close()
	st := wifista.NewStation(dev, cfg, logger)

	if cfg.MetricsListen != "" {
		reg := prometheus.NewRegistry()
		st.Controller().SetObserver(newMetrics(reg))
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
		go func() {
			if err := http.ListenAndServe(cfg.MetricsListen, mux); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error("metrics server failed", slog.String("err", err.Error()))
			}
		}()
	}
	if cfg.DiagListen != "" {
		ns, err := wifista.NewDiagnostics(st)
		if err != nil {
			logger.Error("diagnostics namespace failed", slog.String("err", err.Error()))
			return 1
		}
		go func() {
			if err := ns.Serve(cfg.DiagListen); err != nil {
				logger.Error("diagnostics server failed", slog.String("err", err.Error()))
			}
		}()
	}

	stat := st.Run()
	logger.Info("bring-up finished", slog.String("status", wifista.StatusName(stat)))

	// with diagnostics enabled the process stays up for inspection
	if cfg.DiagListen != "" {
		sig := make(chan os.Signal, 1)
		signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
		<-sig
	}
	if stat != wifista.StatOK {
		return 1
	}
	return 0
}
