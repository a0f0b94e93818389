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
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatusName(t *testing.T) {
	assert.Equal(t, "OK", StatusName(StatOK))
	assert.Equal(t, "ASSOC", StatusName(StatASSOC))
	assert.Equal(t, "EXCP", StatusName(StatEXCP))
	assert.Equal(t, "STAT(99)", StatusName(99))
}

func TestStatusNil(t *testing.T) {
	var state *Status
	state.Set(StatCONNECT, 3)
	s, n := state.Get()
	assert.Equal(t, StatUNK, s)
	assert.Zero(t, n)
}
