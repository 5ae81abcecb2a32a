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

package raw

import (
	"encoding/binary"
	"fmt"
)

// Block gives named access to the fields of a fixed layout record. The index
// maps each field name to its offset & length within Data. All multi byte
// fields are little endian.
type Block struct {
	index map[string][2]int
	Data  []byte
}

//
func NewBlock(index map[string][2]int, data []byte) *Block {
	return &Block{index: index, Data: data}
}

// Length returns the number of bytes covered by the block's index, i.e. the
// end of the field that reaches furthest into the data.
func Length(index map[string][2]int) int {
	l := 0
	for _, f := range index {
		if e := f[0] + f[1]; e > l {
			l = e
		}
	}
	return l
}

//
func (b *Block) field(name string) ([]byte, error) {
	f, ok := b.index[name]
	if !ok {
		return nil, fmt.Errorf("unknown field: %s", name)
	}
	if f[0] < 0 || f[0]+f[1] > len(b.Data) {
		return nil, fmt.Errorf("field %s out of range: [%d:%d] of %d",
			name, f[0], f[0]+f[1], len(b.Data))
	}
	return b.Data[f[0] : f[0]+f[1]], nil
}

//
func (b *Block) GetSlice(name string) []byte {
	if f, err := b.field(name); err == nil {
		return f
	}
	return nil
}

//
func (b *Block) GetByte(name string) byte {
	if f, err := b.field(name); err == nil && len(f) > 0 {
		return f[0]
	}
	return 0
}

// GetInt returns the field as an unsigned integer. Fields of length 1 and 2
// are supported.
func (b *Block) GetInt(name string) int {
	f, err := b.field(name)
	if err != nil {
		return 0
	}
	switch len(f) {
	case 1:
		return int(f[0])
	case 2:
		return int(binary.LittleEndian.Uint16(f))
	}
	return 0
}

//
func (b *Block) GetString(name string) string {
	return string(b.GetSlice(name))
}

//
func (b *Block) SetByte(name string, v byte) error {
	f, err := b.field(name)
	if err != nil {
		return err
	}
	f[0] = v
	return nil
}

//
func (b *Block) SetInt(name string, v int) error {
	f, err := b.field(name)
	if err != nil {
		return err
	}
	switch len(f) {
	case 1:
		f[0] = byte(v)
	case 2:
		binary.LittleEndian.PutUint16(f, uint16(v))
	default:
		return fmt.Errorf("field %s is not an integer field", name)
	}
	return nil
}

// SetString copies s into the field, padding with pad if s is shorter than the
// field. Longer strings are rejected.
func (b *Block) SetString(name, s string, pad byte) error {
	f, err := b.field(name)
	if err != nil {
		return err
	}
	if len(s) > len(f) {
		return fmt.Errorf("value for field %s too long: %q", name, s)
	}
	n := copy(f, s)
	for ; n < len(f); n++ {
		f[n] = pad
	}
	return nil
}
