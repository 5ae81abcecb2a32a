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

// Package mztest builds synthetic MZOS disk images for tests.
package mztest

import (
	"bytes"
	"fmt"
	"os"

	"github.com/xelalexv/mzdisk/pkg/mzos"
	"github.com/xelalexv/mzdisk/pkg/raw"
)

// the on-disk layout of a directory entry, kept separate from the decoder
var entryLayout = map[string][2]int{
	"name":        {0, 8},
	"diskAddress": {8, 2},
	"blockCount":  {10, 2},
	"fileType":    {12, 1},
	"start":       {13, 2},
	"special":     {15, 1},
}

// File describes a directory entry to place into an image
type File struct {
	Name        string
	DiskAddress int
	BlockCount  int
	Type        byte
	Start       int
	Special     byte
}

// Builder assembles an image in memory
type Builder struct {
	mode mzos.Mode
	data []byte
}

// NewBuilder creates a builder for a complete, zeroed image. For VGI images,
// each sector header is filled with 0xee and each trailer with 0xdd, so that
// leaking wrapper bytes show up in tests.
func NewBuilder(m mzos.Mode) *Builder {

	size := m.PhysicalSectorLength()
	b := &Builder{mode: m, data: make([]byte, mzos.SectorCount*size)}

	if m == mzos.ModeVGI {
		for off := 0; off < len(b.data); off += size {
			fill(b.data[off:off+mzos.VGIHeaderLength], 0xee)
			fill(b.data[off+mzos.VGIHeaderLength+mzos.BlockSize:off+size], 0xdd)
		}
	}

	return b
}

//
func fill(b []byte, v byte) {
	for ix := range b {
		b[ix] = v
	}
}

// SetSector places payload into logical sector s. Payloads shorter than a
// block are zero padded.
func (b *Builder) SetSector(s int, payload []byte) error {
	if len(payload) > mzos.BlockSize {
		return fmt.Errorf("payload too long: %d", len(payload))
	}
	off, err := mzos.SectorOffset(s, b.mode)
	if err != nil {
		return err
	}
	block := b.data[off : off+mzos.BlockSize]
	fill(block, 0)
	copy(block, payload)
	return nil
}

// SetData places data into consecutive logical sectors, starting at s.
func (b *Builder) SetData(s int, data []byte) error {
	for off := 0; off < len(data); off += mzos.BlockSize {
		end := off + mzos.BlockSize
		if end > len(data) {
			end = len(data)
		}
		if err := b.SetSector(s, data[off:end]); err != nil {
			return err
		}
		s++
	}
	return nil
}

// SetEntry writes f into the given directory slot.
func (b *Builder) SetEntry(slot int, f File) error {

	if slot < 0 || slot >= mzos.DirectoryEntries {
		return fmt.Errorf("invalid slot: %d", slot)
	}

	sector := slot / mzos.EntriesPerBlock
	off, err := mzos.SectorOffset(sector, b.mode)
	if err != nil {
		return err
	}
	off += int64((slot % mzos.EntriesPerBlock) * mzos.EntryLength)

	blk := raw.NewBlock(entryLayout, b.data[off:off+mzos.EntryLength])

	for _, err := range []error{
		blk.SetString("name", f.Name, ' '),
		blk.SetInt("diskAddress", f.DiskAddress),
		blk.SetInt("blockCount", f.BlockCount),
		blk.SetByte("fileType", f.Type),
		blk.SetInt("start", f.Start),
		blk.SetByte("special", f.Special),
	} {
		if err != nil {
			return err
		}
	}

	return nil
}

// AddFile writes f into the directory slot, and data at its disk address.
func (b *Builder) AddFile(slot int, f File, data []byte) error {
	if err := b.SetEntry(slot, f); err != nil {
		return err
	}
	return b.SetData(f.DiskAddress, data)
}

// Bytes returns the image data. Changes made to the returned slice affect the
// builder.
func (b *Builder) Bytes() []byte {
	return b.data
}

//
func (b *Builder) Image() *mzos.Image {
	return mzos.NewImage(bytes.NewReader(b.data), b.mode)
}

// WriteFile saves the image to path.
func (b *Builder) WriteFile(path string) error {
	return os.WriteFile(path, b.data, 0644)
}

// Repeat returns n copies of c.
func Repeat(c byte, n int) []byte {
	return bytes.Repeat([]byte{c}, n)
}

// Pattern returns n bytes with values counting up from seed, wrapping at 256.
func Pattern(seed byte, n int) []byte {
	ret := make([]byte, n)
	for ix := range ret {
		ret[ix] = seed + byte(ix)
	}
	return ret
}
