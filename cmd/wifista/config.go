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
	"fmt"
	"os"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/bfix/wifista"
)

// environment overrides
const (
	EnvSSID       = "WIFISTA_SSID"
	EnvPassphrase = "WIFISTA_PASSPHRASE"
	EnvLogLevel   = "WIFISTA_LOG_LEVEL"
)

// loadConfig reads a TOML configuration file (if path is not empty),
// applies environment overrides and validates the result.
func loadConfig(path string) (cfg wifista.Config, err error) {
	cfg = wifista.DefaultConfig()
	if path != "" {
		meta, err := toml.DecodeFile(path, &cfg)
		if err != nil {
			return cfg, fmt.Errorf("decode %s: %w", path, err)
		}
		if undecoded := meta.Undecoded(); len(undecoded) > 0 {
			keys := make([]string, 0, len(undecoded))
			for _, k := range undecoded {
				keys = append(keys, k.String())
			}
			return cfg, fmt.Errorf("%s: unknown keys: %s", path, strings.Join(keys, ", "))
		}
	}
	applyEnvOverrides(&cfg)
	if err = cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// applyEnvOverrides replaces settings with non-empty environment values.
func applyEnvOverrides(cfg *wifista.Config) {
	if v := os.Getenv(EnvSSID); v != "" {
		cfg.SSID = v
	}
	if v := os.Getenv(EnvPassphrase); v != "" {
		cfg.Passphrase = v
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		cfg.LogLevel = v
	}
}
