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

package base

import (
	"fmt"
	"io"
)

// NewFile creates a file made up of blocks. All blocks need to have length
// blockLength, except for the last, which may be shorter. The file's size may
// be smaller than the combined length of its blocks, in which case the excess
// data of the last block(s) is not part of the file.
func NewFile(name string, size, blockLength int, blocks [][]byte) *File {
	return &File{
		fInfo:       *NewFileInfo(name, size),
		blockLength: blockLength,
		blocks:      blocks,
	}
}

// for keeping embedded anonymous fields package private
type fInfo = FileInfo

//
type File struct {
	//
	fInfo
	//
	blockLength int
	blocks      [][]byte
	readPos     int
}

// Bytes returns the complete content of the file, regardless of the current
// read position. The read position is at the end of the file afterwards.
func (f *File) Bytes() ([]byte, error) {

	f.Rewind()
	b := make([]byte, f.Size())

	n, err := io.ReadFull(f, b)
	if err != nil && err != io.EOF {
		return nil, err
	}

	return b[:n], nil
}

//
func (f *File) Read(p []byte) (int, error) {

	if len(p) == 0 {
		return 0, nil
	}

	if f.readPos >= f.Size() {
		return 0, io.EOF
	}

	read := 0

	for read < len(p) && f.readPos < f.Size() {

		bIx := f.readPos / f.blockLength
		off := f.readPos % f.blockLength

		if bIx >= len(f.blocks) || f.blocks[bIx] == nil {
			return read, fmt.Errorf("missing block at index %d", bIx)
		}

		end := len(f.blocks[bIx])
		if rest := f.Size() - f.readPos + off; rest < end {
			end = rest
		}

		if off >= end {
			return read, fmt.Errorf("short block at index %d", bIx)
		}

		n := copy(p[read:], f.blocks[bIx][off:end])
		read += n
		f.readPos += n
	}

	return read, nil
}

// Rewind resets the read position to the start of the file
func (f *File) Rewind() {
	f.readPos = 0
}
