//go:build !rp2350

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
	"net"
	"net/netip"
)

// Error messages
var (
	errNoIface = errors.New("no usable network interface")
	errNoIPv4  = errors.New("interface has no IPv4 address")
)

// LinuxDevice runs a station on a hosted system: association succeeds
// if the configured network interface is up and has an IPv4 address.
type LinuxDevice struct {
	cfg     Config
	logger  *slog.Logger
	events  *dispatcher
	storage Storage
	lookup  func(name string) (netip.Addr, error)
	dialer  net.Dialer
}

// InitDevice for a hosted system.
func InitDevice(cfg Config, logger *slog.Logger) Device {
	dev := &LinuxDevice{
		cfg:    cfg,
		logger: orDiscard(logger),
		events: newDispatcher(logger),
		lookup: interfaceAddr,
	}
	if cfg.StorageDir != "" {
		dev.storage = &DirStorage{Path: cfg.StorageDir}
	} else {
		dev.storage = NopStorage{}
	}
	return dev
}

// LED on or off (not applicable)
func (dev *LinuxDevice) LED(on bool) {}

// Storage returns the persistent storage.
func (dev *LinuxDevice) Storage() Storage {
	return dev.storage
}

// Events returns the notification source.
func (dev *LinuxDevice) Events() EventSource {
	return dev.events
}

// Start the station.
func (dev *LinuxDevice) Start() error {
	if err := dev.events.start(); err != nil {
		return err
	}
	dev.logger.Info("STA initialized", slog.String("ssid", dev.cfg.SSID))
	dev.events.post(Notification{Class: ClassWiFi, ID: WiFiStaStart})
	return nil
}

// Connect queues an association attempt.
func (dev *LinuxDevice) Connect() error {
	return dev.events.exec(dev.associate)
}

// association attempt (on the worker context)
func (dev *LinuxDevice) associate() {
	addr, err := dev.lookup(dev.cfg.Interface)
	if err != nil {
		dev.logger.Debug("association failed", slog.String("err", err.Error()))
		dev.events.post(Notification{Class: ClassWiFi, ID: WiFiStaDisconnected})
		return
	}
	dev.events.post(Notification{Class: ClassWiFi, ID: WiFiStaConnected})
	dev.events.post(Notification{Class: ClassIP, ID: IPStaGotIP, Payload: addr})
}

// Transport returns a TCP transport.
func (dev *LinuxDevice) Transport() Transport {
	return &netTransport{dialer: &dev.dialer}
}

// Close the device.
func (dev *LinuxDevice) Close() error {
	dev.events.close()
	return nil
}

// interfaceAddr returns the first IPv4 address of the named interface
// (or of the first running non-loopback interface if name is empty).
func interfaceAddr(name string) (netip.Addr, error) {
	var list []net.Interface
	if name != "" {
		ifc, err := net.InterfaceByName(name)
		if err != nil {
			return netip.Addr{}, err
		}
		list = append(list, *ifc)
	} else {
		all, err := net.Interfaces()
		if err != nil {
			return netip.Addr{}, err
		}
		for _, ifc := range all {
			if ifc.Flags&net.FlagLoopback == 0 {
				list = append(list, ifc)
			}
		}
	}
	for _, ifc := range list {
		if ifc.Flags&net.FlagUp == 0 {
			continue
		}
		addrs, err := ifc.Addrs()
		if err != nil {
			continue
		}
		for _, a := range addrs {
			ipn, ok := a.(*net.IPNet)
			if !ok {
				continue
			}
			if ip, ok := netip.AddrFromSlice(ipn.IP.To4()); ok {
				return ip, nil
			}
		}
		if name != "" {
			return netip.Addr{}, fmt.Errorf("%s: %w", name, errNoIPv4)
		}
	}
	return netip.Addr{}, errNoIface
}

//----------------------------------------------------------------------

// netTransport allocates TCP sockets of the host.
type netTransport struct {
	dialer *net.Dialer
}

// Socket returns an unconnected socket.
func (t *netTransport) Socket() (Socket, error) {
	return &netSocket{dialer: t.dialer}, nil
}

// netSocket is a TCP socket of the host.
type netSocket struct {
	dialer *net.Dialer
	conn   net.Conn
}

// Connect to remote endpoint.
func (s *netSocket) Connect(addr netip.AddrPort) (err error) {
	s.conn, err = s.dialer.Dial("tcp4", addr.String())
	return
}

// Read from connection.
func (s *netSocket) Read(buf []byte) (int, error) {
	if s.conn == nil {
		return 0, net.ErrClosed
	}
	return s.conn.Read(buf)
}

// Close connection (if any).
func (s *netSocket) Close() error {
	if s.conn == nil {
		return nil
	}
	return s.conn.Close()
}
