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
	"bytes"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
)

// storage format version written to the version marker
const storageVersion = "1"

// DirStorage keeps persistent state in a "wifista" subdirectory of Path.
// Only that subdirectory is ever erased.
type DirStorage struct {
	Path string
}

// dir owned by the station
func (st *DirStorage) dir() string {
	return filepath.Join(st.Path, "wifista")
}

// marker file
func (st *DirStorage) marker() string {
	return filepath.Join(st.dir(), "VERSION")
}

// Init creates the directory and checks the format version.
func (st *DirStorage) Init() error {
	if err := os.MkdirAll(st.dir(), 0o700); err != nil {
		return err
	}
	data, err := os.ReadFile(st.marker())
	if errors.Is(err, fs.ErrNotExist) {
		return os.WriteFile(st.marker(), []byte(storageVersion+"\n"), 0o600)
	}
	if err != nil {
		return err
	}
	if string(bytes.TrimSpace(data)) != storageVersion {
		return ErrStorageNewVersion
	}
	return nil
}

// Erase removes the station directory and its content.
func (st *DirStorage) Erase() error {
	return os.RemoveAll(st.dir())
}
