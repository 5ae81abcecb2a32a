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

	"github.com/xelalexv/mzdisk/pkg/raw"
)

// NameLength is the length of a file name in a directory entry
const NameLength = 8

// layout of a directory entry
var entryIndex = map[string][2]int{
	"name":        {0, NameLength},
	"diskAddress": {8, 2},
	"blockCount":  {10, 2},
	"fileType":    {12, 1},
	"start":       {13, 2},
	"special":     {15, 1},
}

// EntryLength is the length of a directory entry on disk
const EntryLength = 16

//
type FileType byte

const (
	TypeDefault FileType = iota
	TypeObject
	TypeBasicSource
	TypeBasicData
	TypeASCIIText
	TypeReserved5
	TypeReserved6
	TypeReserved7
	TypeDEX
	TypeReserved9
)

// the high bit of the file type byte is not part of the type
const fileTypeMask = 0x7f

var typeLabels = [...]string{
	TypeDefault:     "Default",
	TypeObject:      "Object Code",
	TypeBasicSource: "BASIC Program",
	TypeBasicData:   "BASIC Data",
	TypeASCIIText:   "ASCII Text",
	TypeReserved5:   "Reserved",
	TypeReserved6:   "Reserved",
	TypeReserved7:   "Reserved",
	TypeDEX:         "DEX Asm src",
	TypeReserved9:   "Reserved",
}

//
func (t FileType) String() string {
	if int(t) < len(typeLabels) {
		return typeLabels[t]
	}
	return "(Unknown)"
}

// Suffix returns the extension appended to extracted files of this type. The
// start field of the entry is needed for object code, where the load address
// becomes part of the suffix.
func (t FileType) Suffix(start int) string {
	switch t {
	case TypeDefault:
		return ".DEFAULT"
	case TypeObject:
		return fmt.Sprintf(".OBJECT_L%04X", start)
	case TypeBasicSource:
		return ".BASIC"
	case TypeBasicData:
		return ".BASIC_DATA"
	case TypeASCIIText:
		return ".TXT"
	case TypeDEX:
		return ".DEX"
	}
	return fmt.Sprintf(".TYPE_%d", t)
}

// Entry is a decoded MZOS directory entry
type Entry struct {
	// position within the directory, 0-63
	Slot int
	// name as stored, i.e. space padded
	RawName     string
	DiskAddress int
	BlockCount  int
	Type        FileType
	// type dependent: load address for object code, size in bytes for BASIC
	// programs
	Start   int
	Special byte
}

// DecodeEntry decodes the directory entry contained in data, which has to be
// at least EntryLength long.
func DecodeEntry(slot int, data []byte) (*Entry, error) {

	if len(data) < EntryLength {
		return nil, fmt.Errorf(
			"directory entry too short: %d bytes, want %d", len(data), EntryLength)
	}

	b := raw.NewBlock(entryIndex, data[:EntryLength])

	return &Entry{
		Slot:        slot,
		RawName:     b.GetString("name"),
		DiskAddress: b.GetInt("diskAddress"),
		BlockCount:  b.GetInt("blockCount"),
		Type:        FileType(b.GetByte("fileType") & fileTypeMask),
		Start:       b.GetInt("start"),
		Special:     b.GetByte("special"),
	}, nil
}

// IsFree determines whether this entry is an unused slot. Slots are free when
// their name is blank. A name starting with a zero byte counts as blank, which
// is what a zeroed directory contains.
func (e *Entry) IsFree() bool {
	return strings.TrimLeft(e.Name(), " ") == ""
}

// Name returns the entry's name with the padding removed. A zero byte ends
// the name.
func (e *Entry) Name() string {
	name := e.RawName
	if ix := strings.IndexByte(name, 0); ix >= 0 {
		name = name[:ix]
	}
	return strings.TrimRight(name, " ")
}

var nameCleaner = strings.NewReplacer("/", "-", "*", "s")

// BaseName returns the name as usable on a host file system. MZOS permits '/'
// and '*' in names, which become '-' and 's'.
func (e *Entry) BaseName() string {
	return nameCleaner.Replace(e.Name())
}

// FileName is the name under which this entry is extracted
func (e *Entry) FileName() string {
	return e.BaseName() + e.Type.Suffix(e.Start)
}

// Allocation is the number of bytes occupied on disk
func (e *Entry) Allocation() int {
	return e.BlockCount * BlockSize
}

// Length is the number of payload bytes. For BASIC programs, it is stored in
// the start field. Anything else occupies its blocks completely.
func (e *Entry) Length() int {
	if e.Type == TypeBasicSource {
		if e.Start > e.Allocation() {
			return e.Allocation()
		}
		return e.Start
	}
	return e.Allocation()
}

// Validate checks that the entry's disk address & block count are within the
// limits of the disk geometry.
func (e *Entry) Validate() error {
	if e.DiskAddress > SectorCount {
		return fmt.Errorf("%w: invalid disk address %d",
			ErrInvalidEntryGeometry, e.DiskAddress)
	}
	if e.BlockCount > SectorCount {
		return fmt.Errorf("%w: invalid block count %d",
			ErrInvalidEntryGeometry, e.BlockCount)
	}
	return nil
}

// Metadata returns the type dependent information of the entry in human
// readable form.
func (e *Entry) Metadata() string {
	switch e.Type {
	case TypeObject:
		return fmt.Sprintf("Load addr: %04X", e.Start)
	case TypeBasicSource:
		return fmt.Sprintf("Actual Size: %d", e.Start)
	}
	return fmt.Sprintf("%04X,%02X", e.Start, e.Special)
}

// String renders the entry as a directory listing line
func (e *Entry) String() string {
	return fmt.Sprintf("%-8s %4d %4d %3d %-13s %s", e.Name(), e.DiskAddress,
		e.BlockCount, e.Type, e.Type, e.Metadata())
}
