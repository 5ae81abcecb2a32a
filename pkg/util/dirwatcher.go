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
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	log "github.com/sirupsen/logrus"
)

// WatchHandler receives the changes seen by a DirWatcher. Both methods are
// always called from the watcher's go routine, never concurrently.
type WatchHandler interface {
	// Changed is called for every change to a file accepted by the filter
	Changed(evt fsnotify.Event) error
	// Flush is called once changes have settled
	Flush() error
}

/*
	NewDirWatcher creates a recursive watcher for the directory tree rooted in
	dir. Directories created later on are included in the watch. Only changes
	to files for which filter returns true are passed on; a nil filter accepts
	all files. The watcher does not start until Start is called.
*/
func NewDirWatcher(dir string, filter func(path string) bool) (*DirWatcher, error) {

	ret := &DirWatcher{
		filter:  filter,
		stopped: make(chan bool),
	}

	var err error
	if ret.watcher, err = fsnotify.NewWatcher(); err != nil {
		return nil, err
	}

	if err := filepath.Walk(dir, ret.addDirWalking); err != nil {
		log.Errorf("error walking directory '%s': %v", dir, err)
		ret.watcher.Close()
		return nil, err
	}

	return ret, nil
}

//
type DirWatcher struct {
	watcher *fsnotify.Watcher
	filter  func(path string) bool
	stopped chan bool
	//
	mutex   sync.Mutex
	running bool
}

/*
	Start starts the watcher. Accepted changes are passed to the handler's
	Changed method right away. After the last change, the watcher waits for
	backoff before calling Flush, so that bursts of changes are flushed once.
*/
func (dw *DirWatcher) Start(backoff time.Duration, h WatchHandler) error {

	dw.mutex.Lock()
	defer dw.mutex.Unlock()

	if dw.watcher == nil {
		return fmt.Errorf("directory watcher not initialized or stopped")
	}
	if dw.running {
		return fmt.Errorf("directory watcher already started")
	}
	dw.running = true

	go dw.loop(dw.watcher, backoff, h)
	return nil
}

//
func (dw *DirWatcher) loop(w *fsnotify.Watcher, backoff time.Duration,
	h WatchHandler) {

	defer close(dw.stopped)

	timer := time.NewTimer(backoff)
	timer.Stop()
	pending := false

	for {
		select {

		case evt, ok := <-w.Events:
			if !ok {
				log.Debug("directory watcher routine exiting")
				return
			}
			if !dw.handleEvent(w, evt) {
				continue
			}
			if err := h.Changed(evt); err != nil {
				log.Errorf("error in watch event handler: %v", err)
			}
			pending = true
			timer.Reset(backoff)

		case err, ok := <-w.Errors:
			if ok {
				log.Errorf("directory watcher error: %v", err)
			}

		case <-timer.C:
			if !pending {
				continue
			}
			pending = false
			if err := h.Flush(); err != nil {
				log.Errorf("error flushing: %v", err)
			}
		}
	}
}

/*
	Stop stops this watcher and waits until its go routine has exited. A stopped
	watcher cannot be started again.
*/
func (dw *DirWatcher) Stop() {

	dw.mutex.Lock()
	w, running := dw.watcher, dw.running
	dw.watcher = nil
	dw.mutex.Unlock()

	if w == nil {
		return
	}

	log.Info("closing directory watcher")
	if err := w.Close(); err != nil {
		log.Errorf("could not close file watcher: %v", err)
	}
	if running {
		<-dw.stopped
	}
}

// handleEvent adds newly created directories to the watch, and determines
// whether the event needs to be passed on to the handler.
func (dw *DirWatcher) handleEvent(w *fsnotify.Watcher, evt fsnotify.Event) bool {

	log.WithFields(
		log.Fields{"path": evt.Name, "op": evt.Op}).Debug("handling event")

	if evt.Op&fsnotify.Create != 0 {
		if info, err := os.Lstat(evt.Name); err == nil && info.IsDir() {
			watchDir(w, evt.Name)
			return false
		}
	}

	return dw.filter == nil || dw.filter(evt.Name)
}

//
func (dw *DirWatcher) addDirWalking(
	path string, info os.FileInfo, err error) error {
	if err != nil {
		return err
	}
	if info.IsDir() {
		return watchDir(dw.watcher, path)
	}
	return nil
}

//
func watchDir(w *fsnotify.Watcher, path string) error {
	if err := w.Add(path); err != nil {
		log.Errorf("error adding watch for directory '%s': %v", path, err)
		return err
	}
	log.WithField("path", path).Debug("starting directory watch")
	return nil
}
