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
	"strings"
	"sync"
	"time"

	"github.com/blevesearch/bleve/v2"
	"github.com/fsnotify/fsnotify"
	log "github.com/sirupsen/logrus"

	"github.com/xelalexv/mzdisk/pkg/format"
	"github.com/xelalexv/mzdisk/pkg/mzos"
	"github.com/xelalexv/mzdisk/pkg/util"
)

//
const replaceChars = "`~!@#$%^&*_-+=()[]{}|;:',.<>?/\\"

var nameCleaner *strings.Replacer

//
func init() {
	rep := make([]string, 2*len(replaceChars))
	for ix, c := range replaceChars {
		rep[ix*2] = string(c)
		rep[ix*2+1] = " "
	}
	nameCleaner = strings.NewReplacer(rep...)
}

// NewIndex opens the search index located at base, or creates a new one if
// there is none yet. The index covers the disk images in directory repo.
func NewIndex(base, repo string) (*Index, error) {
	if ret, err := createOrOpen(base, repo); err != nil {
		return nil, err
	} else {
		return ret, nil
	}
}

//
func createOrOpen(base, repo string) (*Index, error) {

	var err error
	i := &Index{}

	if i.base, err = filepath.Abs(base); err != nil {
		return nil, err
	}
	if i.repo, err = filepath.Abs(repo); err != nil {
		return nil, err
	}

	logger := log.WithFields(log.Fields{"base": i.base, "repo": i.repo})

	if _, err := os.Stat(i.base); err != nil {
		if os.IsNotExist(err) {
			logger.Info("creating new index")
			i.index, err = bleve.New(i.base, bleve.NewIndexMapping())
		}

		if err != nil {
			logger.Errorf("cannot create index: %v", err)
			return nil, err
		}

		logger.Info("new index created")
		i.empty = true

	} else {
		logger.Info("opening index")
		i.index, err = bleve.Open(i.base)
		if err != nil {
			logger.Errorf("cannot open index: %v", err)
			return nil, err
		}

		logger.Info("index opened")
	}

	i.batch = i.index.NewBatch()
	return i, nil
}

// Entry is what gets indexed for each disk image
type Entry struct {
	// cleaned up path of the image, relative to the repo
	Name string
	// names of the files contained in the image
	Files string
	// file types present in the image
	Types string
}

//
type Index struct {
	base    string
	repo    string
	stopped bool
	//
	index   bleve.Index
	empty   bool
	watcher *util.DirWatcher
	//
	mutex      sync.Mutex
	batch      *bleve.Batch
	batchCount int
}

// Start brings the index up to date with the repo and starts watching the
// repo for changes.
func (i *Index) Start() error {

	start := time.Now()
	log.Info("pruning index")
	if err := i.prune(); err != nil {
		return fmt.Errorf("error pruning index: %v", err)
	}
	log.WithField(
		"duration", time.Since(start)).Info("index pruning finished")

	start = time.Now()
	log.Info("updating index")
	if err := i.update(); err != nil {
		return fmt.Errorf("error updating index: %v", err)
	}
	log.WithField(
		"duration", time.Since(start)).Info("index update finished")

	if err := i.batched(true); err != nil {
		return err
	}

	if err := i.startWatching(); err != nil {
		return fmt.Errorf("error starting repo watcher: %v", err)
	}

	log.Info("index ready")
	return nil
}

//
func (i *Index) Stop() {

	i.stopped = true

	if i.watcher != nil {
		i.watcher.Stop()
	}

	if i.index != nil {
		i.index.Close()
	}
}

//
func (i *Index) prune() error {

	if i.empty {
		return nil
	}

	ix, err := i.index.Advanced()
	if err != nil {
		return err
	}

	rd, err := ix.Reader()
	if err != nil {
		return err
	}
	defer rd.Close()

	docs, err := rd.DocIDReaderAll()
	if err != nil {
		return err
	}
	defer docs.Close()

	for {
		d, err := docs.Next()
		if err != nil {
			return err
		}
		if d == nil {
			return nil
		}
		id, err := rd.ExternalID(d)
		if err != nil {
			return err
		}
		if _, err := os.Stat(filepath.Join(i.repo, id)); os.IsNotExist(err) {
			i.removeEntry(id)
		}
	}
}

//
func (i *Index) update() error {

	var lastMod time.Time
	if !i.empty {
		if store, err := os.Stat(filepath.Join(i.base, "store")); err == nil {
			lastMod = store.ModTime()
			log.Debugf("last index mod time: %v", lastMod)
		}
	}

	i.empty = false

	return filepath.Walk(i.repo,

		func(path string, info os.FileInfo, err error) error {

			if i.stopped {
				return fmt.Errorf("forced exit")
			}

			if err != nil {
				log.Warnf("skipping %s: %v", path, err)
				return nil
			}

			if !info.IsDir() && format.IsImage(path) &&
				info.ModTime().After(lastMod) {
				i.addEntry(i.makeRelative(path))
			}

			return nil
		})
}

//
func (i *Index) startWatching() error {
	log.Info("starting index repo watcher")
	var err error
	if i.watcher, err = util.NewDirWatcher(i.repo, format.IsImage); err != nil {
		return err
	}
	return i.watcher.Start(5*time.Second, i)
}

// Changed updates the index for a changed image in the repo.
func (i *Index) Changed(evt fsnotify.Event) error {

	rel := i.makeRelative(evt.Name)
	log.WithFields(log.Fields{"path": rel, "op": evt.Op}).Debug("index update")

	switch {

	case evt.Op&(fsnotify.Create|fsnotify.Write) != 0:
		if info, err := os.Stat(evt.Name); err != nil {
			log.Errorf("cannot add new entry: %v", err)
		} else if !info.IsDir() {
			return i.addEntry(rel)
		}

	case evt.Op&(fsnotify.Rename|fsnotify.Remove) != 0:
		return i.removeEntry(rel)

	default:
		log.Debug("no index update required")
	}

	return nil
}

// Flush commits pending index changes.
func (i *Index) Flush() error {
	return i.batched(true)
}

//
func (i *Index) addEntry(path string) error {

	logger := log.WithField("file", path)
	logger.Debug("adding new entry to index")

	entry := Entry{Name: nameCleaner.Replace(path)}

	if img, err := format.Open(filepath.Join(i.repo, path)); err != nil {
		logger.Warnf("cannot open image, indexing name only: %v", err)
	} else {
		entry.Files, entry.Types = describe(img.Image)
		img.Close()
	}

	i.mutex.Lock()
	err := i.batch.Index(path, entry)
	i.mutex.Unlock()

	if err != nil {
		logger.Errorf("failed to batch entry add: %v", err)
		return err
	}

	return i.batched(false)
}

// describe lists names & types of the files in an image, space separated
func describe(img *mzos.Image) (string, string) {

	dir, err := mzos.ReadDirectory(img)
	if dir == nil {
		log.Warnf("cannot read directory: %v", err)
		return "", ""
	}

	var files []string
	types := make(map[string]bool)

	for _, e := range dir.Used() {
		files = append(files, e.Name(), nameCleaner.Replace(e.FileName()))
		types[e.Type.String()] = true
	}

	var ts []string
	for t := range types {
		ts = append(ts, t)
	}

	return strings.Join(files, " "), strings.Join(ts, " ")
}

//
func (i *Index) removeEntry(path string) error {
	log.WithField("file", path).Debug("removing deleted entry from index")
	i.mutex.Lock()
	i.batch.Delete(path)
	i.mutex.Unlock()
	return i.batched(false)
}

// After start-up, add & remove are only called from the dir watcher routine.
// The mutex serializes access to the pending batch, and keeps searches from
// running while a batch is flushed.
func (i *Index) batched(flush bool) error {

	i.mutex.Lock()
	defer i.mutex.Unlock()

	if i.batchCount++; flush || i.batchCount > 100 {
		log.Debug("flushing pending index actions")
		if err := i.index.Batch(i.batch); err != nil {
			log.Errorf("failed to execute index batch: %v", err)
			return err
		}
		i.batch = i.index.NewBatch()
		i.batchCount = 0
	}

	return nil
}

//
func (i *Index) makeRelative(path string) string {
	if len(path) > len(i.repo) && strings.HasPrefix(path, i.repo) {
		return path[len(i.repo)+1:]
	}
	return path
}
