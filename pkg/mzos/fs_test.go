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
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xelalexv/mzdisk/pkg/mzos"
)

func bytesReader(b []byte) io.ReaderAt {
	return bytes.NewReader(b)
}

func TestFSLs(t *testing.T) {
	img, _ := newTestDisk(t)

	fs, err := mzos.NewFS(img)
	require.NoError(t, err)

	stats, files, err := fs.Ls()
	require.NoError(t, err)

	assert.Equal(t, mzos.SectorCount, stats.Sectors())
	assert.Equal(t, 4+2+1+3, stats.Used())
	assert.Equal(t, mzos.SectorCount-10, stats.Free())

	require.Len(t, files, 4)
	assert.Equal(t, "ONE.TXT", files[0].Name())
	assert.Equal(t, 512, files[0].Size())
	assert.Equal(t, "ASCII Text", files[0].GetAnnotation("file-type").String())
	assert.Equal(t, 4, files[0].GetAnnotation("disk-address").Int())
	assert.False(t, files[0].HasAnnotation("load-address"))

	assert.Equal(t, "TWO.OBJECT_L4000", files[2].Name())
	assert.Equal(t, 0x4000, files[2].GetAnnotation("load-address").Int())
	assert.Equal(t, 3, files[2].GetAnnotation("slot").Int())

	assert.Equal(t, "THREE.BASIC", files[3].Name())
	assert.Equal(t, 700, files[3].Size())
	assert.Equal(t, "Actual Size: 700", files[3].GetAnnotation("metadata").String())
}

func TestFSOpen(t *testing.T) {
	img, _ := newTestDisk(t)

	fs, err := mzos.NewFS(img)
	require.NoError(t, err)

	f, err := fs.Open("three")
	require.NoError(t, err)
	assert.Equal(t, "THREE.BASIC", f.Name())
	assert.Equal(t, 700, f.Size())

	data, err := f.Bytes()
	require.NoError(t, err)
	require.Len(t, data, 700)
	for ix, b := range data {
		require.Equal(t, byte(3+ix), b, "byte %d", ix)
	}

	_, err = fs.Open("NOPE")
	assert.ErrorIs(t, err, mzos.ErrFileNotFound)

	_, err = fs.Open("BROKEN")
	assert.ErrorIs(t, err, mzos.ErrInvalidEntryGeometry)
}
