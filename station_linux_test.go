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
	"net/netip"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// test configuration for a station greeting target
func testConfig(target netip.AddrPort) Config {
	cfg := DefaultConfig()
	cfg.SSID = "testnet"
	cfg.Passphrase = "secret-passphrase"
	cfg.Endpoint = target.String()
	return cfg
}

// hosted device with a stubbed association
func testDevice(t *testing.T, cfg Config, attempts *atomic.Int32, addr netip.Addr) *LinuxDevice {
	dev := InitDevice(cfg, nil).(*LinuxDevice)
	dev.lookup = func(string) (netip.Addr, error) {
		attempts.Add(1)
		if !addr.IsValid() {
			return netip.Addr{}, errNoIface
		}
		return addr, nil
	}
	t.Cleanup(func() { dev.Close() })
	return dev
}

func TestStationRun(t *testing.T) {
	reply := make([]byte, 16)
	copy(reply, Greeting)
	cfg := testConfig(serve(t, reply))

	var attempts atomic.Int32
	dev := testDevice(t, cfg, &attempts, netip.MustParseAddr("192.168.1.50"))
	st := NewStation(dev, cfg, nil)

	require.Equal(t, StatOK, st.Run())
	assert.Equal(t, StateConnected, st.Controller().State())
	assert.Zero(t, st.Controller().Retries())
	assert.Equal(t, int32(1), attempts.Load())
	require.NotNil(t, st.Handshake())
	assert.True(t, st.Handshake().Matched)
}

func TestStationAssociationFails(t *testing.T) {
	cfg := testConfig(anyTarget)
	var attempts atomic.Int32
	dev := testDevice(t, cfg, &attempts, netip.Addr{})
	st := NewStation(dev, cfg, nil)

	assert.Equal(t, StatASSOC, st.Run())
	assert.Equal(t, StateFailed, st.Controller().State())
	assert.Equal(t, int32(MaxFailures+1), attempts.Load())
	assert.Nil(t, st.Handshake())
}

func TestStationSessionFails(t *testing.T) {
	lis, err := netListen()
	require.NoError(t, err)
	target := addrOf(lis)
	lis.Close()

	cfg := testConfig(target)
	var attempts atomic.Int32
	dev := testDevice(t, cfg, &attempts, netip.MustParseAddr("192.168.1.50"))
	st := NewStation(dev, cfg, nil)
	assert.Equal(t, StatCONNECT, st.Run())
	assert.Equal(t, StateConnected, st.Controller().State())
}

func TestStationStorageFailure(t *testing.T) {
	blocker := filepath.Join(t.TempDir(), "file")
	require.NoError(t, os.WriteFile(blocker, nil, 0o600))

	cfg := testConfig(anyTarget)
	cfg.StorageDir = filepath.Join(blocker, "store")
	var attempts atomic.Int32
	st := NewStation(testDevice(t, cfg, &attempts, netip.Addr{}), cfg, nil)

	assert.Equal(t, StatSTORAGE, st.Run())
	assert.Zero(t, attempts.Load())
	assert.Equal(t, StateIdle, st.Controller().State())
}

func TestStationSubscribeFailure(t *testing.T) {
	cfg := testConfig(anyTarget)
	var attempts atomic.Int32
	dev := testDevice(t, cfg, &attempts, netip.Addr{})
	dev.Close()

	_, stat := NewStation(dev, cfg, nil).Associate()
	assert.Equal(t, StatSUBSCRIBE, stat)
}

func TestStationInvalidEndpoint(t *testing.T) {
	cfg := testConfig(anyTarget)
	cfg.Endpoint = "server.local:12345"
	var attempts atomic.Int32
	st := NewStation(testDevice(t, cfg, &attempts, netip.Addr{}), cfg, nil)
	assert.Equal(t, StatCONFIG, st.Run())
	assert.Zero(t, attempts.Load())
}

func TestLinuxDeviceStartTwice(t *testing.T) {
	var attempts atomic.Int32
	dev := testDevice(t, testConfig(anyTarget), &attempts, netip.Addr{})
	require.NoError(t, dev.Start())
	assert.True(t, errors.Is(dev.Start(), ErrStarted))
}

func TestInterfaceAddrUnknown(t *testing.T) {
	_, err := interfaceAddr("no-such-interface0")
	assert.Error(t, err)
}
