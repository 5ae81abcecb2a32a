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

package repo

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xelalexv/mzdisk/pkg/mzos"
	"github.com/xelalexv/mzdisk/pkg/mzos/mztest"
)

func writeImage(t *testing.T, path string, m mzos.Mode, files ...mztest.File) {
	t.Helper()
	b := mztest.NewBuilder(m)
	for ix, f := range files {
		require.NoError(t, b.SetEntry(ix, f))
	}
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, b.WriteFile(path))
}

func TestIndexSearch(t *testing.T) {
	repo := t.TempDir()

	writeImage(t, filepath.Join(repo, "games", "adventure.vgi"), mzos.ModeVGI,
		mztest.File{Name: "ZORK", DiskAddress: 4, BlockCount: 10, Type: 1, Start: 0x100},
		mztest.File{Name: "README", DiskAddress: 14, BlockCount: 1, Type: 4})
	writeImage(t, filepath.Join(repo, "basic.img"), mzos.ModeRaw,
		mztest.File{Name: "STARTREK", DiskAddress: 4, BlockCount: 20, Type: 2, Start: 5000})
	require.NoError(t, os.WriteFile(filepath.Join(repo, "notes.txt"),
		[]byte("zork startrek"), 0644))

	idx, err := NewIndex(filepath.Join(t.TempDir(), "index"), repo)
	require.NoError(t, err)
	require.NoError(t, idx.Start())
	defer idx.Stop()

	res, err := idx.Search("zork", 10)
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join("games", "adventure.vgi")}, res.Hits)
	assert.True(t, res.Complete)

	res, err = idx.Search("startrek", 10)
	require.NoError(t, err)
	assert.Equal(t, []string{"basic.img"}, res.Hits)

	res, err = idx.Search("adventure", 10)
	require.NoError(t, err)
	assert.Len(t, res.Hits, 1)

	_, err = idx.Search("  ", 10)
	assert.Error(t, err)
	_, err = idx.Search("zork", 0)
	assert.Error(t, err)
}

func TestIndexSearchLimit(t *testing.T) {
	repo := t.TempDir()
	for _, n := range []string{"a.img", "b.img", "c.img"} {
		writeImage(t, filepath.Join(repo, n), mzos.ModeRaw,
			mztest.File{Name: "COMMON", DiskAddress: 4, BlockCount: 1, Type: 4})
	}

	idx, err := NewIndex(filepath.Join(t.TempDir(), "index"), repo)
	require.NoError(t, err)
	require.NoError(t, idx.Start())
	defer idx.Stop()

	res, err := idx.Search("common", 2)
	require.NoError(t, err)
	assert.Len(t, res.Hits, 2)
	assert.Equal(t, uint64(3), res.Total)
	assert.False(t, res.Complete)
}

func TestDescribe(t *testing.T) {
	b := mztest.NewBuilder(mzos.ModeRaw)
	require.NoError(t, b.SetEntry(0, mztest.File{
		Name: "HELLO", DiskAddress: 4, BlockCount: 1, Type: 4}))

	files, types := describe(b.Image())
	assert.Equal(t, "HELLO HELLO TXT", files)
	assert.Equal(t, "ASCII Text", types)
}

func TestIndexSearchDuringUpdates(t *testing.T) {
	repo := t.TempDir()
	writeImage(t, filepath.Join(repo, "first.img"), mzos.ModeRaw,
		mztest.File{Name: "SHARED", DiskAddress: 4, BlockCount: 1, Type: 4})

	idx, err := NewIndex(filepath.Join(t.TempDir(), "index"), repo)
	require.NoError(t, err)
	require.NoError(t, idx.Start())
	defer idx.Stop()

	done := make(chan error)
	go func() {
		for n := 0; n < 20; n++ {
			name := fmt.Sprintf("disk%02d.img", n)
			b := mztest.NewBuilder(mzos.ModeRaw)
			if err := b.SetEntry(0, mztest.File{
				Name: "SHARED", DiskAddress: 4, BlockCount: 1, Type: 4}); err != nil {
				done <- err
				return
			}
			if err := b.WriteFile(filepath.Join(repo, name)); err != nil {
				done <- err
				return
			}
			if err := idx.addEntry(name); err != nil {
				done <- err
				return
			}
			if err := idx.Flush(); err != nil {
				done <- err
				return
			}
		}
		done <- nil
	}()

	for searching := true; searching; {
		select {
		case err := <-done:
			require.NoError(t, err)
			searching = false
		default:
			_, err := idx.Search("shared", 100)
			require.NoError(t, err)
		}
	}

	res, err := idx.Search("shared", 100)
	require.NoError(t, err)
	assert.Equal(t, uint64(21), res.Total)
}
