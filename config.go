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
	"fmt"
	"log/slog"
	"net/netip"
	"strings"
)

// authentication modes
const (
	AuthOpen    = "open"
	AuthWPA2PSK = "wpa2-psk"
)

// DefaultEndpoint of the handshake server.
const DefaultEndpoint = "192.168.1.33:12345"

// Error messages
var (
	errSSID      = errors.New("SSID must have 1 to 32 bytes")
	errPassLen   = errors.New("WPA2 passphrase must have 8 to 63 characters")
	errAuthMode  = errors.New("unknown authentication mode")
	errEndpoint  = errors.New("endpoint must be an IPv4 address with port")
	errFailures  = errors.New("max_failures must not be negative")
	errRequested = errors.New("requested IP is not an IPv4 address")
)

// Config of a station. It is immutable after startup.
type Config struct {
	SSID        string `toml:"ssid"`
	Passphrase  string `toml:"passphrase"`
	AuthMode    string `toml:"auth_mode"`
	Hostname    string `toml:"hostname"`
	RequestedIP string `toml:"requested_ip"` // static fallback if DHCP fails
	Endpoint    string `toml:"endpoint"`     // handshake server "a.b.c.d:port"
	MaxFailures int    `toml:"max_failures"`

	// hosted build only
	Interface     string `toml:"interface"`
	StorageDir    string `toml:"storage_dir"`
	LogLevel      string `toml:"log_level"`
	DiagListen    string `toml:"diag_listen"`
	MetricsListen string `toml:"metrics_listen"`
}

// DefaultConfig returns a configuration with defaults for all optional
// settings; network credentials are left empty.
func DefaultConfig() Config {
	return Config{
		AuthMode:    AuthWPA2PSK,
		Hostname:    "wifista",
		Endpoint:    DefaultEndpoint,
		MaxFailures: MaxFailures,
		LogLevel:    "info",
	}
}

// Validate configuration settings. The authentication mode is
// normalised to lower case.
func (cfg *Config) Validate() error {
	if n := len(cfg.SSID); n == 0 || n > 32 {
		return errSSID
	}
	cfg.AuthMode = strings.ToLower(strings.TrimSpace(cfg.AuthMode))
	switch cfg.AuthMode {
	case AuthOpen:
	case AuthWPA2PSK:
		if n := len(cfg.Passphrase); n < 8 || n > 63 {
			return errPassLen
		}
	default:
		return fmt.Errorf("%w: %q", errAuthMode, cfg.AuthMode)
	}
	if _, err := cfg.Target(); err != nil {
		return err
	}
	if cfg.MaxFailures < 0 {
		return errFailures
	}
	if cfg.RequestedIP != "" {
		ip, err := netip.ParseAddr(cfg.RequestedIP)
		if err != nil || !ip.Is4() {
			return errRequested
		}
	}
	if _, err := ParseLevel(cfg.LogLevel); err != nil {
		return err
	}
	return nil
}

// Open returns true if the network is joined without authentication.
func (cfg *Config) Open() bool {
	return strings.EqualFold(strings.TrimSpace(cfg.AuthMode), AuthOpen)
}

// JoinPassphrase returns the passphrase used to join the network; it
// is empty for open networks.
func (cfg *Config) JoinPassphrase() string {
	if cfg.Open() {
		return ""
	}
	return cfg.Passphrase
}

// Target returns the handshake endpoint.
func (cfg *Config) Target() (netip.AddrPort, error) {
	ap, err := netip.ParseAddrPort(cfg.Endpoint)
	if err != nil || !ap.Addr().Is4() || ap.Port() == 0 {
		return netip.AddrPort{}, fmt.Errorf("%w: %q", errEndpoint, cfg.Endpoint)
	}
	return ap, nil
}

// ParseLevel converts a level name into a log level.
func ParseLevel(name string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return slog.LevelInfo, fmt.Errorf("unknown log level %q", name)
}
