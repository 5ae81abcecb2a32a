/*
   MZDisk - Vector Graphic MZOS disk image tool
   Copyright (c) 2022, Alexander Vollschwitz

   This file is part of MZDisk.

   MZDisk is free software: you can redistribute it and/or modify
   it under the terms of the GNU General Public License as published by
   the Free Software Foundation, either version 3 of the License, or
   (at your option) any later version.

   MZDisk is distributed in the hope that it will be useful,
   but WITHOUT ANY WARRANTY; without even the implied warranty of
   MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
   GNU General Public License for more details.

   You should have received a copy of the GNU General Public License
   along with MZDisk. If not, see <http://www.gnu.org/licenses/>.
*/

package raw

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testIndex = map[string][2]int{
	"name": {0, 4},
	"word": {4, 2},
	"flag": {6, 1},
	"wide": {7, 3},
}

func TestLength(t *testing.T) {
	assert.Equal(t, 10, Length(testIndex))
	assert.Zero(t, Length(map[string][2]int{}))
}

func TestBlockGet(t *testing.T) {
	b := NewBlock(testIndex,
		[]byte{'A', 'B', ' ', ' ', 0x34, 0x12, 0x85, 1, 2, 3})

	assert.Equal(t, "AB  ", b.GetString("name"))
	assert.Equal(t, 0x1234, b.GetInt("word"))
	assert.Equal(t, 0x85, b.GetInt("flag"))
	assert.Equal(t, byte(0x85), b.GetByte("flag"))
	assert.Equal(t, []byte{1, 2, 3}, b.GetSlice("wide"))

	// unsupported width, unknown field
	assert.Zero(t, b.GetInt("wide"))
	assert.Zero(t, b.GetInt("nope"))
	assert.Nil(t, b.GetSlice("nope"))
}

func TestBlockShortData(t *testing.T) {
	b := NewBlock(testIndex, make([]byte, 5))
	assert.Nil(t, b.GetSlice("word"))
	assert.Zero(t, b.GetInt("word"))
	assert.Error(t, b.SetInt("word", 1))
}

func TestBlockSet(t *testing.T) {
	b := NewBlock(testIndex, make([]byte, Length(testIndex)))

	require.NoError(t, b.SetString("name", "XY", ' '))
	require.NoError(t, b.SetInt("word", 0xbeef))
	require.NoError(t, b.SetByte("flag", 7))

	assert.Equal(t, []byte{'X', 'Y', ' ', ' ', 0xef, 0xbe, 7, 0, 0, 0}, b.Data)

	assert.Error(t, b.SetString("name", "TOOLONG", ' '))
	assert.Error(t, b.SetInt("wide", 1))
	assert.Error(t, b.SetByte("nope", 1))
}
