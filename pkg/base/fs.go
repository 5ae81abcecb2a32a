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

// FileSystem is a read-only view on the files contained in a disk image
type FileSystem interface {

	// Ls lists all files, together with usage statistics
	Ls() (*FsStats, []*FileInfo, error)

	// Open opens the file with the given name
	Open(name string) (*File, error)
}

//
func NewFsStats(sectors, used int) *FsStats {
	return &FsStats{sectors: sectors, used: used}
}

//
type FsStats struct {
	sectors int
	used    int
}

//
func (s *FsStats) Sectors() int {
	return s.sectors
}

//
func (s *FsStats) Used() int {
	return s.used
}

//
func (s *FsStats) Free() int {
	return s.sectors - s.used
}
