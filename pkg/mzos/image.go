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
	"errors"
	"fmt"
	"io"

	log "github.com/sirupsen/logrus"
)

// Image is an MZOS disk image. All reads are done at absolute positions, so an
// image can be used from several go routines at once, as long as the
// underlying reader supports that.
type Image struct {
	src  io.ReaderAt
	mode Mode
}

// NewImage wraps src, which stays owned by the caller.
func NewImage(src io.ReaderAt, m Mode) *Image {
	return &Image{src: src, mode: m}
}

//
func (i *Image) Mode() Mode {
	return i.mode
}

// ReadSectors reads count logical sectors starting at start. The returned
// buffer always holds count*BlockSize bytes, in logical order. The returned
// int is the number of sectors that could be read completely; sectors beyond
// the end of a truncated image are left zeroed. Reading stops at the first
// I/O error.
func (i *Image) ReadSectors(start, count int) ([]byte, int, error) {

	if start < 0 || count < 0 || start+count > SectorCount {
		return nil, 0, fmt.Errorf("%w: sectors %d to %d (%d max.)",
			ErrSectorRange, start, start+count, SectorCount)
	}

	buf := make([]byte, count*BlockSize)
	read, err := i.readInto(buf, start, count)
	return buf, read, err
}

//
func (i *Image) readInto(buf []byte, start, count int) (int, error) {

	read := 0

	for ix := 0; ix < count; ix++ {

		sector := start + ix
		off, err := SectorOffset(sector, i.mode)
		if err != nil {
			return read, err
		}

		n, err := i.src.ReadAt(buf[ix*BlockSize:(ix+1)*BlockSize], off)

		if n == BlockSize {
			read++
			continue
		}

		if err != nil && !errors.Is(err, io.EOF) {
			log.WithFields(log.Fields{
				"sector": sector, "offset": off}).Errorf("read failed: %v", err)
			return read, fmt.Errorf("%w: reading sector %d: %v",
				ErrImageUnreadable, sector, err)
		}

		log.WithFields(log.Fields{
			"sector": sector, "offset": off, "bytes": n}).Trace("short sector")
	}

	log.WithFields(log.Fields{
		"start": start, "count": count, "read": read}).Trace("sectors read")

	return read, nil
}
