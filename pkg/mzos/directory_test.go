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
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xelalexv/mzdisk/pkg/mzos"
	"github.com/xelalexv/mzdisk/pkg/mzos/mztest"
)

func TestReadDirectory(t *testing.T) {
	for _, m := range []mzos.Mode{mzos.ModeRaw, mzos.ModeVGI} {
		b := mztest.NewBuilder(m)
		require.NoError(t, b.SetEntry(0, mztest.File{
			Name: "        ", DiskAddress: 20, BlockCount: 3, Type: 4}))
		require.NoError(t, b.SetEntry(1, mztest.File{
			Name: "FIRST", DiskAddress: 4, BlockCount: 2, Type: 4}))
		require.NoError(t, b.SetEntry(17, mztest.File{
			Name: "SECOND", DiskAddress: 6, BlockCount: 10, Type: 1, Start: 0xe000}))
		require.NoError(t, b.SetEntry(63, mztest.File{
			Name: "LAST", DiskAddress: 16, BlockCount: 1, Type: 0x88}))

		dir, err := mzos.ReadDirectory(b.Image())
		require.NoError(t, err, "mode %v", m)

		assert.Len(t, dir.Entries(), mzos.DirectoryEntries)

		used := dir.Used()
		require.Len(t, used, 3, "mode %v", m)

		assert.Equal(t, 1, used[0].Slot)
		assert.Equal(t, "FIRST", used[0].Name())
		assert.Equal(t, mzos.TypeASCIIText, used[0].Type)

		assert.Equal(t, 17, used[1].Slot)
		assert.Equal(t, "SECOND", used[1].Name())
		assert.Equal(t, 0xe000, used[1].Start)

		assert.Equal(t, 63, used[2].Slot)
		assert.Equal(t, mzos.TypeDEX, used[2].Type)

		free, ok := dir.Entry(0)
		require.True(t, ok)
		assert.True(t, free.IsFree())
		_, ok = dir.Entry(64)
		assert.False(t, ok)

		assert.Equal(t, 4+2+10+1, dir.UsedSectors())
	}
}

func TestReadDirectoryTruncated(t *testing.T) {
	b := mztest.NewBuilder(mzos.ModeRaw)
	require.NoError(t, b.SetEntry(0, mztest.File{
		Name: "FIRST", DiskAddress: 4, BlockCount: 2, Type: 4}))

	// sector 0 is there, sector 1 in physical slot 2 is not
	for _, data := range [][]byte{b.Bytes()[:2*mzos.BlockSize], {}} {
		img := mzos.NewImage(bytes.NewReader(data), mzos.ModeRaw)
		dir, err := mzos.ReadDirectory(img)
		require.ErrorIs(t, err, mzos.ErrDirectoryCorrupt)
		require.NotNil(t, dir)
		assert.Empty(t, dir.Used())
		assert.Len(t, dir.Entries(), mzos.DirectoryEntries)
	}
}

func TestReadDirectoryUnreadable(t *testing.T) {
	img := mzos.NewImage(&failingReader{failAt: 0}, mzos.ModeRaw)
	dir, err := mzos.ReadDirectory(img)
	assert.ErrorIs(t, err, mzos.ErrImageUnreadable)
	assert.Nil(t, dir)
}

func TestDirectoryFind(t *testing.T) {
	b := mztest.NewBuilder(mzos.ModeRaw)
	require.NoError(t, b.SetEntry(2, mztest.File{
		Name: "HELLO", DiskAddress: 10, BlockCount: 1, Type: 4}))

	dir, err := mzos.ReadDirectory(b.Image())
	require.NoError(t, err)

	for _, n := range []string{"HELLO", "hello", " HELLO ", "HELLO.TXT", "hello.txt"} {
		e, err := dir.Find(n)
		require.NoError(t, err, "name %q", n)
		assert.Equal(t, 2, e.Slot)
	}

	_, err = dir.Find("HELLO.BASIC")
	assert.ErrorIs(t, err, mzos.ErrFileNotFound)
	_, err = dir.Find("")
	assert.ErrorIs(t, err, mzos.ErrFileNotFound)
}

func TestDecodeDirectoryIsSnapshot(t *testing.T) {
	b := mztest.NewBuilder(mzos.ModeRaw)
	require.NoError(t, b.SetEntry(0, mztest.File{Name: "A", BlockCount: 1}))

	data, _, err := b.Image().ReadSectors(0, mzos.DirectorySectors)
	require.NoError(t, err)

	dir := mzos.DecodeDirectory(data)
	for ix := range data {
		data[ix] = 'X'
	}

	entries := dir.Entries()
	entries[0].RawName = "CHANGED "

	e, _ := dir.Entry(0)
	assert.Equal(t, "A", e.Name())
	assert.Len(t, dir.Used(), 1)
}
