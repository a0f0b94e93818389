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

// errReadOnly is returned on writes to diagnostic files
var errReadOnly = errors.New("write prohibited")

// File interface for file handler implementations:
// The interface methods are called by the 9p protocol handler on demand.
type File interface {
	Read() ([]byte, error)
	Write([]byte) error
}

//----------------------------------------------------------------------

// StaticFile with (small) static content.
type StaticFile struct {
	content []byte
}

// NewStaticFile with given text content.
func NewStaticFile(content string) *StaticFile {
	return &StaticFile{
		content: []byte(content),
	}
}

// Read implementation: return file content.
func (f *StaticFile) Read() ([]byte, error) {
	return f.content, nil
}

// Write implementation: we are read only
func (f *StaticFile) Write([]byte) error {
	return errReadOnly
}

//----------------------------------------------------------------------

// FuncFile content is returned by a function.
type FuncFile struct {
	fcn func() ([]byte, error)
}

// NewFuncFile with specified function.
func NewFuncFile(fcn func() ([]byte, error)) *FuncFile {
	return &FuncFile{
		fcn: fcn,
	}
}

// Read implementation: return current content.
func (f *FuncFile) Read() ([]byte, error) {
	return f.fcn()
}

// Write implementation: we are read only
func (f *FuncFile) Write([]byte) error {
	return errReadOnly
}
