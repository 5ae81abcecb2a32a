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

package util

import (
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recorder struct {
	mutex   sync.Mutex
	changed []string
	flushed chan bool
}

func (r *recorder) Changed(evt fsnotify.Event) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	r.changed = append(r.changed, filepath.Base(evt.Name))
	return nil
}

func (r *recorder) Flush() error {
	r.flushed <- true
	return nil
}

func (r *recorder) names() []string {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	return append([]string(nil), r.changed...)
}

func TestDirWatcher(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(dir, "sub"), 0755))

	dw, err := NewDirWatcher(dir, func(path string) bool {
		return strings.HasSuffix(path, ".img")
	})
	require.NoError(t, err)

	rec := &recorder{flushed: make(chan bool, 10)}
	require.NoError(t, dw.Start(50*time.Millisecond, rec))
	assert.Error(t, dw.Start(time.Second, rec))

	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), nil, 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "sub", "disk.img"), nil, 0644))

	select {
	case <-rec.flushed:
	case <-time.After(5 * time.Second):
		t.Fatal("no flush")
	}

	assert.Contains(t, rec.names(), "disk.img")
	assert.NotContains(t, rec.names(), "notes.txt")

	dw.Stop()
	dw.Stop()
	assert.Error(t, dw.Start(time.Second, rec))
}
