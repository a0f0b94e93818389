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
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDirStorage(t *testing.T) {
	st := &DirStorage{Path: filepath.Join(t.TempDir(), "nvs")}
	require.NoError(t, InitStorage(st))
	require.NoError(t, st.Init())

	// outdated format is erased and recreated
	require.NoError(t, os.WriteFile(st.marker(), []byte("0\n"), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(st.dir(), "stale"), []byte("x"), 0o600))
	assert.ErrorIs(t, st.Init(), ErrStorageNewVersion)
	require.NoError(t, InitStorage(st))

	_, err := os.Stat(filepath.Join(st.dir(), "stale"))
	assert.True(t, os.IsNotExist(err))
	data, err := os.ReadFile(st.marker())
	require.NoError(t, err)
	assert.Equal(t, storageVersion+"\n", string(data))
}

// files in the configured directory that belong to others survive an
// erase-and-retry
func TestDirStorageKeepsForeignFiles(t *testing.T) {
	base := t.TempDir()
	foreign := map[string]string{
		"VERSION":    "2.3.1\n",
		"thesis.tex": "\\documentclass{article}\n",
	}
	for name, body := range foreign {
		require.NoError(t, os.WriteFile(filepath.Join(base, name), []byte(body), 0o600))
	}
	st := &DirStorage{Path: base}
	require.NoError(t, InitStorage(st))

	// outdated station storage forces an erase
	require.NoError(t, os.WriteFile(st.marker(), []byte("0\n"), 0o600))
	require.NoError(t, InitStorage(st))

	for name, body := range foreign {
		data, err := os.ReadFile(filepath.Join(base, name))
		require.NoError(t, err, name)
		assert.Equal(t, body, string(data))
	}
	data, err := os.ReadFile(st.marker())
	require.NoError(t, err)
	assert.Equal(t, storageVersion+"\n", string(data))
}
