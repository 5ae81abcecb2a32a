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

package mzos

import (
	"fmt"
	"strings"

	log "github.com/sirupsen/logrus"
)

// The directory occupies the first four logical sectors, holding 16 entries
// each.
const (
	DirectorySectors = 4
	EntriesPerBlock  = BlockSize / EntryLength
	DirectoryEntries = DirectorySectors * EntriesPerBlock
)

// Directory is a snapshot of an image's directory. It is not updated when the
// image changes.
type Directory struct {
	entries [DirectoryEntries]Entry
}

// ReadDirectory reads and decodes the directory of img. If the directory
// sectors cannot be read completely, an empty directory is returned together
// with an error wrapping ErrDirectoryCorrupt. Callers may continue with that
// directory. A hard read error on the image is returned as
// ErrImageUnreadable, without directory.
func ReadDirectory(img *Image) (*Directory, error) {

	data, read, err := img.ReadSectors(0, DirectorySectors)
	if err != nil {
		return nil, err
	}

	if read < DirectorySectors {
		log.WithFields(log.Fields{
			"read": read, "expected": DirectorySectors,
		}).Warn("incomplete directory, treating as empty")
		return DecodeDirectory(nil), fmt.Errorf(
			"%w: read %d of %d directory sectors",
			ErrDirectoryCorrupt, read, DirectorySectors)
	}

	d := DecodeDirectory(data)
	log.WithFields(log.Fields{
		"mode": img.Mode(), "files": len(d.Used())}).Debug("directory read")

	return d, nil
}

// DecodeDirectory decodes the directory entries contained in data. Missing
// data yields free entries.
func DecodeDirectory(data []byte) *Directory {

	d := &Directory{}

	for ix := range d.entries {
		d.entries[ix] = Entry{Slot: ix, RawName: strings.Repeat(" ", NameLength)}
		start := ix * EntryLength
		if start+EntryLength > len(data) {
			continue
		}
		if e, err := DecodeEntry(ix, data[start:start+EntryLength]); err == nil {
			d.entries[ix] = *e
		}
	}

	return d
}

// Entries returns all entries of the directory, including free slots.
func (d *Directory) Entries() []Entry {
	ret := make([]Entry, len(d.entries))
	copy(ret, d.entries[:])
	return ret
}

// Entry returns the entry in the given slot.
func (d *Directory) Entry(slot int) (Entry, bool) {
	if slot < 0 || slot >= len(d.entries) {
		return Entry{}, false
	}
	return d.entries[slot], true
}

// Used returns the entries of all non-free slots, in slot order.
func (d *Directory) Used() []Entry {
	var ret []Entry
	for _, e := range d.entries {
		if !e.IsFree() {
			ret = append(ret, e)
		}
	}
	return ret
}

// Find looks up a file by name. Both the MZOS name and the extraction file
// name are accepted, case does not matter.
func (d *Directory) Find(name string) (Entry, error) {
	name = strings.TrimSpace(name)
	for _, e := range d.Used() {
		if strings.EqualFold(e.Name(), name) ||
			strings.EqualFold(e.FileName(), name) {
			return e, nil
		}
	}
	return Entry{}, fmt.Errorf("%w: %s", ErrFileNotFound, name)
}

// UsedSectors returns the number of sectors taken up by directory & files.
// Files with invalid geometry are not counted.
func (d *Directory) UsedSectors() int {
	used := DirectorySectors
	for _, e := range d.Used() {
		if e.Validate() == nil {
			used += e.BlockCount
		}
	}
	if used > SectorCount {
		return SectorCount
	}
	return used
}
