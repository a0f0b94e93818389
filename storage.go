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

import "errors"

// Storage initialisation errors that are cured by erasing the storage.
var (
	ErrStorageNoFreePages = errors.New("storage has no free pages")
	ErrStorageNewVersion  = errors.New("storage has a new format version")
)

// Storage is the persistent storage of a device.
type Storage interface {
	Init() error
	Erase() error
}

// InitStorage initialises st. A full or outdated storage is erased and
// initialised once more; every other failure is returned.
func InitStorage(st Storage) error {
	err := st.Init()
	if errors.Is(err, ErrStorageNoFreePages) || errors.Is(err, ErrStorageNewVersion) {
		if err = st.Erase(); err != nil {
			return err
		}
		err = st.Init()
	}
	return err
}

// NopStorage for devices without persistent storage.
type NopStorage struct{}

// Init does nothing.
func (NopStorage) Init() error { return nil }

// Erase does nothing.
func (NopStorage) Erase() error { return nil }
