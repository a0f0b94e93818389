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
	"net/netip"
	"testing"

	"git.sr.ht/~moody/ninep"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// build a test namespace
func newNamespace() (ns *Namespace, err error) {
	ns = NewNamespace("sys", "sys")
	if err = ns.NewFile("/readme", 0444, NewStaticFile("Just a test...\n")); err != nil {
		return
	}
	if err = ns.NewDir("/sensors", 0555); err != nil {
		return
	}
	err = ns.NewFile("/sensors/temp", 0444, NewFuncFile(
		func() ([]byte, error) {
			return []byte("21.5\n"), nil
		},
	))
	return
}

func TestNamespaceNew(t *testing.T) {
	ns, err := newNamespace()
	require.NoError(t, err)

	e, err := ns.Get("/sensors/temp")
	require.NoError(t, err)
	assert.False(t, e.IsDir())
	data, err := e.Read()
	require.NoError(t, err)
	assert.Equal(t, "21.5\n", string(data))

	dir, err := ns.Get("/sensors/")
	require.NoError(t, err)
	assert.True(t, dir.IsDir())
	assert.Equal(t, "sensors", dir.Name())
}

func TestNamespaceErrors(t *testing.T) {
	ns, err := newNamespace()
	require.NoError(t, err)

	_, err = ns.Get("readme")
	assert.ErrorIs(t, err, errNoAbs)
	_, err = ns.Get("/missing")
	assert.ErrorIs(t, err, errNoFile)
	_, err = ns.Get("/readme/child")
	assert.ErrorIs(t, err, errNoDir)
	assert.ErrorIs(t, ns.NewFile("/readme", 0444, NewStaticFile("")), errExists)
	assert.ErrorIs(t, ns.NewDir("/readme/sub", 0555), errNoDir)
	assert.ErrorIs(t, ns.NewFile("/missing/x", 0444, NewStaticFile("")), errNoFile)

	e, err := ns.Get("/readme")
	require.NoError(t, err)
	assert.ErrorIs(t, e.file.Write([]byte("x")), errReadOnly)
}

func TestDiagnostics(t *testing.T) {
	cfg := validConfig()
	radio := new(countingRadio)
	st := &Station{
		cfg:  cfg,
		ctrl: NewController(radio, MaxFailures, nil),
	}
	ns, err := NewDiagnostics(st)
	require.NoError(t, err)

	read := func(p string) string {
		e, err := ns.Get(p)
		require.NoError(t, err)
		data, err := e.Read()
		require.NoError(t, err)
		return string(data)
	}
	assert.Equal(t, "home\n", read("/ssid"))
	assert.Equal(t, DefaultEndpoint+"\n", read("/endpoint"))
	assert.Equal(t, "idle\n", read("/state"))
	assert.Equal(t, "pending\n", read("/outcome"))
	assert.Equal(t, "none\n", read("/handshake"))

	st.ctrl.HandleEvent(Event{Kind: EvLinkStart})
	st.ctrl.HandleEvent(Event{Kind: EvLinkStop})
	assert.Equal(t, "connecting\n", read("/state"))
	assert.Equal(t, "1\n", read("/retries"))

	st.ctrl.HandleEvent(Event{Kind: EvAddrAcquired, Addr: netip.MustParseAddr("10.1.1.1")})
	st.hs = &Handshake{Reply: []byte("WORLD")}
	assert.Equal(t, "connected\n", read("/outcome"))
	assert.Equal(t, "0\n", read("/retries"))
	assert.Equal(t, "\"WORLD\" mismatch\n", read("/handshake"))
}

// walk a path from the attach Qid the way a 9p client does
func walkPath(ns *Namespace, names ...string) *ninep.Qid {
	q := ns.rootQid()
	for _, name := range names {
		if q = ns.Walk(q, name); q == nil {
			return nil
		}
	}
	return q
}

func TestNamespaceHandlers(t *testing.T) {
	ns, err := newNamespace()
	require.NoError(t, err)

	root := ns.rootQid()
	require.NotNil(t, root)
	assert.Equal(t, uint8(ninep.QTDir), root.Type)

	// directory listing of the root
	_, kids, err := ns.content(root)
	require.NoError(t, err)
	names := make([]string, 0, len(kids))
	for _, k := range kids {
		names = append(names, k.Name)
	}
	assert.ElementsMatch(t, []string{"readme", "sensors"}, names)

	// walk and read a file
	q := walkPath(ns, "sensors", "temp")
	require.NotNil(t, q)
	data, kids, err := ns.content(q)
	require.NoError(t, err)
	assert.Nil(t, kids)
	assert.Equal(t, "21.5\n", string(data))

	d := ns.stat(q)
	require.NotNil(t, d)
	assert.Equal(t, "temp", d.Name)
	assert.Equal(t, "sys", d.Uid)

	// empty directories list as empty, not as files
	require.NoError(t, ns.NewDir("/empty", 0555))
	data, kids, err = ns.content(walkPath(ns, "empty"))
	require.NoError(t, err)
	assert.Nil(t, data)
	assert.NotNil(t, kids)
	assert.Empty(t, kids)

	// walking into missing entries or through files fails
	assert.Nil(t, walkPath(ns, "missing"))
	assert.Nil(t, walkPath(ns, "readme", "child"))

	gone := &ninep.Qid{Path: 4711}
	_, _, err = ns.content(gone)
	assert.ErrorIs(t, err, errNoFile)
	assert.Nil(t, ns.stat(gone))
}
