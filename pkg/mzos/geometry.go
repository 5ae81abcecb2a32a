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
	"path/filepath"
	"strings"
)

// MZOS disk geometry; fixed for all disks
const (
	Tracks          = 77
	SectorsPerTrack = 16
	SectorCount     = Tracks * SectorsPerTrack
	BlockSize       = 256
)

// A VGI sector wraps the 256 payload bytes into a 13 byte header (sync,
// track & sector, 10 bytes of metadata) and 6 trailing bytes (checksum &
// ECC), none of which we need.
const (
	VGISectorLength = 275
	VGIHeaderLength = 1 + 2 + 10
)

//
type Mode int

const (
	ModeRaw Mode = iota
	ModeVGI
)

//
func (m Mode) String() string {
	if m == ModeVGI {
		return "vgi"
	}
	return "raw"
}

// PhysicalSectorLength is the length of one sector in the image file,
// including any wrapper bytes.
func (m Mode) PhysicalSectorLength() int {
	if m == ModeVGI {
		return VGISectorLength
	}
	return BlockSize
}

// headerLength is the number of bytes preceding the payload of a sector
func (m Mode) headerLength() int {
	if m == ModeVGI {
		return VGIHeaderLength
	}
	return 0
}

// ModeFromName determines the image mode from a file name. Only names ending
// in .vgi (any case) denote wrapped images.
func ModeFromName(name string) Mode {
	return ModeFromType(strings.TrimPrefix(filepath.Ext(name), "."))
}

// ModeFromType determines the image mode from an image type such as "vgi" or
// "img".
func ModeFromType(typ string) Mode {
	if strings.EqualFold(typ, "vgi") {
		return ModeVGI
	}
	return ModeRaw
}

// MZOS lays out sectors within a track with a skew of 2: logical sectors 0-7
// go to the even, sectors 8-15 to the odd physical slots.
var skew = [SectorsPerTrack]int{0, 2, 4, 6, 8, 10, 12, 14, 1, 3, 5, 7, 9, 11, 13, 15}

// SectorOffset returns the position of the payload of logical sector in an
// image of the given mode.
func SectorOffset(sector int, m Mode) (int64, error) {

	if sector < 0 || sector >= SectorCount {
		return -1, fmt.Errorf("%w: sector %d (%d max.)",
			ErrSectorRange, sector, SectorCount-1)
	}

	size := int64(m.PhysicalSectorLength())
	track := int64(sector / SectorsPerTrack)

	return track*size*SectorsPerTrack +
		int64(skew[sector%SectorsPerTrack])*size +
		int64(m.headerLength()), nil
}
