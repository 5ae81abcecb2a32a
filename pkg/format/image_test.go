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

package format

import (
	"archive/zip"
	"bytes"
	"compress/gzip"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/klauspost/compress/zstd"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xelalexv/mzdisk/pkg/mzos"
	"github.com/xelalexv/mzdisk/pkg/mzos/mztest"
)

func TestSplitNameTypeCompressor(t *testing.T) {
	tests := []struct {
		file, name, typ, comp string
	}{
		{"disk.vgi", "disk", "vgi", ""},
		{"/a/b/DISK.VGI.GZ", "DISK", "vgi", "gz"},
		{"disk.img.zst", "disk", "img", "zst"},
		{"games.zip", "games", "", "zip"},
		{"my.disk.img", "my.disk", "img", ""},
		{"notes.txt", "notes.txt", "", ""},
		{"plain", "plain", "", ""},
		{"disk.img.vgi", "disk.img", "vgi", ""},
		{"disk.dsk.VGI", "disk.dsk", "vgi", ""},
		{"disk.vgi.img", "disk.vgi", "img", ""},
		{"disk.img.vgi.gz", "disk.img", "vgi", "gz"},
		{"disk.vgi.gz.zip", "disk.vgi.gz", "", "zip"},
	}

	for _, tc := range tests {
		name, typ, comp := SplitNameTypeCompressor(tc.file)
		assert.Equal(t, tc.name, name, tc.file)
		assert.Equal(t, tc.typ, typ, tc.file)
		assert.Equal(t, tc.comp, comp, tc.file)
	}

	assert.True(t, IsImage("x.vgi.7z"))
	assert.False(t, IsImage("x.txt"))
}

func testImage(t *testing.T, m mzos.Mode) []byte {
	t.Helper()
	b := mztest.NewBuilder(m)
	require.NoError(t, b.AddFile(0, mztest.File{
		Name: "HELLO", DiskAddress: 10, BlockCount: 1, Type: 4},
		mztest.Repeat('A', 256)))
	return b.Bytes()
}

func checkImage(t *testing.T, img *Image, m mzos.Mode) {
	t.Helper()
	defer img.Close()

	assert.Equal(t, m, img.Mode())

	dir, err := mzos.ReadDirectory(img.Image)
	require.NoError(t, err)
	e, err := dir.Find("HELLO")
	require.NoError(t, err)

	data, err := mzos.ReadFile(img.Image, e)
	require.NoError(t, err)
	assert.Equal(t, mztest.Repeat('A', 256), data)
}

func TestOpenPlain(t *testing.T) {
	dir := t.TempDir()

	for file, m := range map[string]mzos.Mode{
		"disk.img": mzos.ModeRaw, "disk.VGI": mzos.ModeVGI} {

		path := filepath.Join(dir, file)
		require.NoError(t, os.WriteFile(path, testImage(t, m), 0644))

		img, err := Open(path)
		require.NoError(t, err)
		assert.Equal(t, "disk", img.Name())
		assert.Empty(t, img.Compressor())
		checkImage(t, img, m)
	}
}

func TestOpenModeFromSuffix(t *testing.T) {
	dir := t.TempDir()

	for file, m := range map[string]mzos.Mode{
		"disk.img.vgi": mzos.ModeVGI,
		"disk.dsk.VGI": mzos.ModeVGI,
		"disk.vgi.img": mzos.ModeRaw,
	} {
		path := filepath.Join(dir, file)
		require.NoError(t, os.WriteFile(path, testImage(t, m), 0644))

		img, err := Open(path)
		require.NoError(t, err, file)
		assert.Equal(t, mzos.ModeFromName(file), img.Mode(), file)
		checkImage(t, img, m)
	}
}

func TestOpenCompressed(t *testing.T) {
	dir := t.TempDir()
	data := testImage(t, mzos.ModeVGI)

	var gz bytes.Buffer
	gw := gzip.NewWriter(&gz)
	gw.Name = "inner.vgi"
	_, err := gw.Write(data)
	require.NoError(t, err)
	require.NoError(t, gw.Close())
	gzPath := filepath.Join(dir, "disk.gz")
	require.NoError(t, os.WriteFile(gzPath, gz.Bytes(), 0644))

	var zs bytes.Buffer
	zw, err := zstd.NewWriter(&zs)
	require.NoError(t, err)
	_, err = zw.Write(data)
	require.NoError(t, err)
	require.NoError(t, zw.Close())
	zsPath := filepath.Join(dir, "disk.vgi.zst")
	require.NoError(t, os.WriteFile(zsPath, zs.Bytes(), 0644))

	var zp bytes.Buffer
	zpw := zip.NewWriter(&zp)
	f, err := zpw.Create("archived.vgi")
	require.NoError(t, err)
	_, err = f.Write(data)
	require.NoError(t, err)
	require.NoError(t, zpw.Close())
	zpPath := filepath.Join(dir, "disk.zip")
	require.NoError(t, os.WriteFile(zpPath, zp.Bytes(), 0644))

	for path, want := range map[string][2]string{
		gzPath: {"inner", "gzip"},
		zsPath: {"disk", "zst"},
		zpPath: {"archived", "zip"},
	} {
		img, err := Open(path)
		require.NoError(t, err, path)
		assert.Equal(t, want[0], img.Name(), path)
		assert.Equal(t, "vgi", img.Type(), path)
		checkImage(t, img, mzos.ModeVGI)
	}
}

func TestOpenRemote(t *testing.T) {
	data := testImage(t, mzos.ModeRaw)

	srv := httptest.NewServer(http.HandlerFunc(
		func(w http.ResponseWriter, req *http.Request) {
			if req.URL.Path != "/images/disk.img" {
				http.NotFound(w, req)
				return
			}
			w.Write(data)
		}))
	defer srv.Close()

	img, err := Open(srv.URL + "/images/disk.img?raw=1")
	require.NoError(t, err)
	checkImage(t, img, mzos.ModeRaw)

	_, err = Open(srv.URL + "/images/missing.img")
	assert.ErrorIs(t, err, mzos.ErrImageUnreadable)
}

func TestOpenErrors(t *testing.T) {
	_, err := Open(filepath.Join(t.TempDir(), "missing.img"))
	assert.ErrorIs(t, err, mzos.ErrImageUnreadable)

	_, err = Load(bytes.NewReader(make([]byte, MaxImageSize+1)), "big", "img")
	assert.ErrorIs(t, err, mzos.ErrImageUnreadable)
	assert.ErrorIs(t, err, mzos.ErrAllocationFailure)

	path := filepath.Join(t.TempDir(), "broken.img.gz")
	require.NoError(t, os.WriteFile(path, []byte("not gzip"), 0644))
	_, err = Open(path)
	assert.ErrorIs(t, err, mzos.ErrImageUnreadable)
}
