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

package mzos_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xelalexv/mzdisk/pkg/mzos"
)

func TestDecodeEntry(t *testing.T) {
	data := []byte{
		'P', 'R', 'O', 'G', ' ', ' ', ' ', ' ',
		0x34, 0x02, // disk address
		0x05, 0x00, // block count
		0x81,       // object code, high bit set
		0x00, 0x10, // load address
		0x7e,
	}

	e, err := mzos.DecodeEntry(3, data)
	require.NoError(t, err)

	assert.Equal(t, 3, e.Slot)
	assert.Equal(t, "PROG    ", e.RawName)
	assert.Equal(t, "PROG", e.Name())
	assert.Equal(t, 0x234, e.DiskAddress)
	assert.Equal(t, 5, e.BlockCount)
	assert.Equal(t, mzos.TypeObject, e.Type)
	assert.Equal(t, 0x1000, e.Start)
	assert.Equal(t, byte(0x7e), e.Special)
	assert.False(t, e.IsFree())
	assert.Equal(t, "PROG.OBJECT_L1000", e.FileName())
	assert.Equal(t, "Load addr: 1000", e.Metadata())
	assert.Equal(t, 5*mzos.BlockSize, e.Length())

	_, err = mzos.DecodeEntry(0, data[:15])
	assert.Error(t, err)
}

func TestFileTypes(t *testing.T) {
	tests := []struct {
		typ    mzos.FileType
		label  string
		suffix string
	}{
		{mzos.TypeDefault, "Default", ".DEFAULT"},
		{mzos.TypeObject, "Object Code", ".OBJECT_L0C00"},
		{mzos.TypeBasicSource, "BASIC Program", ".BASIC"},
		{mzos.TypeBasicData, "BASIC Data", ".BASIC_DATA"},
		{mzos.TypeASCIIText, "ASCII Text", ".TXT"},
		{mzos.TypeReserved5, "Reserved", ".TYPE_5"},
		{mzos.TypeReserved6, "Reserved", ".TYPE_6"},
		{mzos.TypeReserved7, "Reserved", ".TYPE_7"},
		{mzos.TypeDEX, "DEX Asm src", ".DEX"},
		{mzos.TypeReserved9, "Reserved", ".TYPE_9"},
		{mzos.FileType(42), "(Unknown)", ".TYPE_42"},
	}

	for _, tc := range tests {
		assert.Equal(t, tc.label, tc.typ.String(), "type %d", tc.typ)
		assert.Equal(t, tc.suffix, tc.typ.Suffix(0xc00), "type %d", tc.typ)
	}
}

func TestEntryNames(t *testing.T) {
	tests := []struct {
		raw  string
		base string
		free bool
	}{
		{"HELLO   ", "HELLO", false},
		{"A/B*C   ", "A-BsC", false},
		{"**//****", "ss--ssss", false},
		{"MY FILE ", "MY FILE", false},
		{"ABCDEFGH", "ABCDEFGH", false},
		{"        ", "", true},
		{"\x00\x00\x00\x00\x00\x00\x00\x00", "", true},
		{"AB\x00CD   ", "AB", false},
		{"AB \x00\x00\x00\x00\x00", "AB", false},
		{"\x00ABCDEFG", "", true},
	}

	for _, tc := range tests {
		e := mzos.Entry{RawName: tc.raw}
		assert.Equal(t, tc.base, e.BaseName(), "name %q", tc.raw)
		assert.Equal(t, tc.free, e.IsFree(), "name %q", tc.raw)
	}
}

func TestEntryLength(t *testing.T) {
	e := mzos.Entry{Type: mzos.TypeBasicSource, BlockCount: 2, Start: 300}
	assert.Equal(t, 300, e.Length())
	assert.Equal(t, 512, e.Allocation())
	assert.Equal(t, "Actual Size: 300", e.Metadata())

	e.Start = 600
	assert.Equal(t, 512, e.Length())

	e = mzos.Entry{Type: mzos.TypeBasicData, BlockCount: 3, Start: 300, Special: 0x12}
	assert.Equal(t, 768, e.Length())
	assert.Equal(t, "012C,12", e.Metadata())
}

func TestEntryValidate(t *testing.T) {
	assert.NoError(t, (&mzos.Entry{DiskAddress: 1232, BlockCount: 1232}).Validate())
	assert.ErrorIs(t, (&mzos.Entry{DiskAddress: 1233}).Validate(),
		mzos.ErrInvalidEntryGeometry)
	assert.ErrorIs(t, (&mzos.Entry{BlockCount: 1233}).Validate(),
		mzos.ErrInvalidEntryGeometry)
}
