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

package wifista

import (
	"errors"
	"log/slog"
	"net"
	"net/netip"
	"time"

	"github.com/soypat/cyw43439"
	"github.com/soypat/seqs"
	"github.com/soypat/seqs/eth/dhcp"
	"github.com/soypat/seqs/stacks"
)

const mtu = cyw43439.MTU

// Error messages
var (
	errNoStack    = errors.New("network stack not up")
	errDHCP       = errors.New("no DHCP reply")
	errARP        = errors.New("arp timed out")
	errInvalidIP  = errors.New("invalid ip")
	errTCPTimeout = errors.New("tcp handshake timed out")
)

// Raspberry Pico2 W  [RP2350]
type Pico2WDevice struct {
	ref    *cyw43439.Device // reference to device
	cfg    Config
	logger *slog.Logger
	events *dispatcher
	stack  *stacks.PortStack
	router netip.Addr
}

// Initialize device
func InitDevice(cfg Config, logger *slog.Logger) Device {
	return &Pico2WDevice{
		ref:    cyw43439.NewPicoWDevice(),
		cfg:    cfg,
		logger: orDiscard(logger),
		events: newDispatcher(logger),
	}
}

// LED on or off (if applicable)
func (dev *Pico2WDevice) LED(on bool) {
	dev.ref.GPIOSet(0, on)
}

// Storage is not available; credentials are compiled in.
func (dev *Pico2WDevice) Storage() Storage {
	return NopStorage{}
}

// Events returns the notification source.
func (dev *Pico2WDevice) Events() EventSource {
	return dev.events
}

// Start initializes the WiFi chip in station mode.
func (dev *Pico2WDevice) Start() error {
	wificfg := cyw43439.DefaultWifiConfig()
	wificfg.Logger = dev.logger
	dev.logger.Info("initializing pico W device...")
	devInitTime := time.Now()
	if err := dev.ref.Init(wificfg); err != nil {
		return err
	}
	dev.logger.Info("cyw43439:Init", slog.Duration("duration", time.Since(devInitTime)))
	if err := dev.events.start(); err != nil {
		return err
	}
	dev.events.post(Notification{Class: ClassWiFi, ID: WiFiStaStart})
	return nil
}

// Connect queues a join attempt.
func (dev *Pico2WDevice) Connect() error {
	return dev.events.exec(dev.join)
}

// join the access point and acquire an address (on the worker context)
func (dev *Pico2WDevice) join() {
	passwd := dev.cfg.JoinPassphrase()
	if len(passwd) == 0 {
		dev.logger.Info("joining open network", slog.String("ssid", dev.cfg.SSID))
	} else {
		dev.logger.Info("joining WPA secure network", slog.String("ssid", dev.cfg.SSID), slog.Int("passlen", len(passwd)))
	}
	if err := dev.ref.JoinWPA2(dev.cfg.SSID, passwd); err != nil {
		dev.logger.Error("wifi join failed", slog.String("err", err.Error()))
		dev.events.post(Notification{Class: ClassWiFi, ID: WiFiStaDisconnected})
		return
	}
	mac, _ := dev.ref.HardwareAddr6()
	dev.logger.Info("wifi join success!", slog.String("mac", net.HardwareAddr(mac[:]).String()))
	dev.events.post(Notification{Class: ClassWiFi, ID: WiFiStaConnected})

	if dev.stack == nil {
		dev.stack = stacks.NewPortStack(stacks.PortStackConfig{
			MAC:             mac,
			MaxOpenPortsUDP: 1, // DHCP client
			MaxOpenPortsTCP: 1, // handshake session
			MTU:             mtu,
			Logger:          dev.logger,
		})
		dev.ref.RecvEthHandle(dev.stack.RecvEth)

		// Begin asynchronous packet handling.
		go nicLoop(dev.ref, dev.stack)
	}
	ip, err := dev.acquire()
	if err != nil {
		dev.logger.Error("address acquisition failed", slog.String("err", err.Error()))
		dev.events.post(Notification{Class: ClassWiFi, ID: WiFiStaDisconnected})
		return
	}
	dev.stack.SetAddr(ip) // It's important to set the IP address after DHCP completes.
	dev.events.post(Notification{Class: ClassIP, ID: IPStaGotIP, Payload: ip})
}

// acquire an address with DHCP. If DHCP fails, the requested address is
// used as static IP (if set).
func (dev *Pico2WDevice) acquire() (netip.Addr, error) {
	var reqAddr netip.Addr
	if dev.cfg.RequestedIP != "" {
		reqAddr, _ = netip.ParseAddr(dev.cfg.RequestedIP)
	}
	dhcpClient := stacks.NewDHCPClient(dev.stack, dhcp.DefaultClientPort)
	err := dhcpClient.BeginRequest(stacks.DHCPRequestConfig{
		RequestedAddr: reqAddr,
		Xid:           uint32(time.Now().Nanosecond()),
		Hostname:      dev.cfg.Hostname,
	})
	if err != nil {
		return netip.Addr{}, err
	}
	for i := 0; dhcpClient.State() != dhcp.StateBound; i++ {
		dev.logger.Debug("DHCP ongoing...")
		time.Sleep(time.Second / 2)
		if i > 15 {
			if !reqAddr.IsValid() {
				return netip.Addr{}, errDHCP
			}
			dev.logger.Info("DHCP did not complete, assigning static IP", slog.String("ip", dev.cfg.RequestedIP))
			return reqAddr, nil
		}
	}
	dev.router = dhcpClient.Router()
	dev.logger.Info("DHCP complete",
		slog.Uint64("cidrbits", uint64(dhcpClient.CIDRBits())),
		slog.String("ourIP", dhcpClient.Offer().String()),
		slog.String("router", dev.router.String()),
		slog.Duration("lease", dhcpClient.IPLeaseTime()),
	)
	return dhcpClient.Offer(), nil
}

// Transport returns the TCP transport of the network stack.
func (dev *Pico2WDevice) Transport() Transport {
	return &picoTransport{dev: dev}
}

// Close stops event delivery. The chip stays powered.
func (dev *Pico2WDevice) Close() error {
	dev.events.close()
	return nil
}

//----------------------------------------------------------------------

// picoTransport allocates TCP connections on the port stack.
type picoTransport struct {
	dev *Pico2WDevice
}

// Socket allocates a TCP connection.
func (t *picoTransport) Socket() (Socket, error) {
	if t.dev.stack == nil {
		return nil, errNoStack
	}
	conn, err := stacks.NewTCPConn(t.dev.stack, stacks.TCPConnConfig{
		TxBufSize: 512,
		RxBufSize: ReadBufferSize,
	})
	if err != nil {
		return nil, err
	}
	return &picoSocket{dev: t.dev, conn: conn}, nil
}

// picoSocket is a TCP connection on the port stack.
type picoSocket struct {
	dev  *Pico2WDevice
	conn *stacks.TCPConn
}

// Connect to remote endpoint (routed through the gateway).
func (s *picoSocket) Connect(addr netip.AddrPort) error {
	gw := s.dev.router
	if !gw.IsValid() {
		gw = addr.Addr()
	}
	hw, err := ResolveHardwareAddr(s.dev.stack, gw)
	if err != nil {
		return err
	}
	localPort := uint16(time.Now().UnixNano()%16384) + 49152
	if err = s.conn.OpenDialTCP(localPort, hw, addr, seqs.Value(time.Now().UnixNano())); err != nil {
		return err
	}
	for retries := 50; s.conn.State() != seqs.StateEstablished; retries-- {
		if retries == 0 {
			return errTCPTimeout
		}
		time.Sleep(100 * time.Millisecond)
	}
	return nil
}

// Read from connection.
func (s *picoSocket) Read(buf []byte) (int, error) {
	return s.conn.Read(buf)
}

// Close connection.
func (s *picoSocket) Close() error {
	return s.conn.Close()
}

//----------------------------------------------------------------------

// ResolveHardwareAddr obtains the hardware address of the given IP address.
func ResolveHardwareAddr(stack *stacks.PortStack, ip netip.Addr) ([6]byte, error) {
	if !ip.IsValid() {
		return [6]byte{}, errInvalidIP
	}
	arpc := stack.ARP()
	arpc.Abort() // Remove any previous ARP requests.
	err := arpc.BeginResolve(ip)
	if err != nil {
		return [6]byte{}, err
	}
	time.Sleep(4 * time.Millisecond)
	// ARP exchanges should be fast, don't wait too long for them.
	const timeout = time.Second
	const maxretries = 20
	for retries := maxretries; !arpc.IsDone(); retries-- {
		if retries == 0 {
			return [6]byte{}, errARP
		}
		time.Sleep(timeout / maxretries)
	}
	_, hw, err := arpc.ResultAs6()
	return hw, err
}

// nicLoop moves packets between chip and port stack.
func nicLoop(dev *cyw43439.Device, stack *stacks.PortStack) {
	// Maximum number of packets to queue before sending them.
	const (
		queueSize                = 3
		maxRetriesBeforeDropping = 3
	)
	var queue [queueSize][mtu]byte
	var lenBuf [queueSize]int
	var retries [queueSize]int
	markSent := func(i int) {
		lenBuf[i] = 0
		retries[i] = 0
	}
	for {
		stallRx := true
		gotPacket, err := dev.PollOne()
		if err != nil {
			println("poll error:", err.Error())
		}
		if gotPacket {
			stallRx = false
		}

		// Queue packets to be sent.
		for i := range queue {
			if retries[i] != 0 {
				continue // Packet currently queued for retransmission.
			}
			lenBuf[i], err = stack.HandleEth(queue[i][:])
			if err != nil {
				println("stack error n(should be 0)=", lenBuf[i], "err=", err.Error())
				lenBuf[i] = 0
				continue
			}
			if lenBuf[i] == 0 {
				break
			}
		}
		if lenBuf == [queueSize]int{} {
			if stallRx {
				// Avoid busy waiting when both Rx and Tx stall.
				time.Sleep(51 * time.Millisecond)
			}
			continue
		}

		// Send queued packets.
		for i := range queue {
			n := lenBuf[i]
			if n <= 0 {
				continue
			}
			if err := dev.SendEth(queue[i][:n]); err != nil {
				retries[i]++
				if retries[i] > maxRetriesBeforeDropping {
					markSent(i)
					println("dropped outgoing packet:", err.Error())
				}
			} else {
				markSent(i)
			}
		}
	}
}
