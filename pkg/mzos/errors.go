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

import "errors"

var (
	// fatal for a whole run
	ErrImageUnreadable = errors.New("image unreadable")

	// directory could not be read completely, it is treated as empty
	ErrDirectoryCorrupt = errors.New("directory corrupt")

	// the following only concern a single entry
	ErrInvalidEntryGeometry  = errors.New("invalid entry geometry")
	ErrDestinationUnwritable = errors.New("destination unwritable")
	ErrAllocationFailure     = errors.New("allocation failure")
	ErrEmptySlot             = errors.New("empty directory slot")

	ErrSectorRange  = errors.New("sector out of range")
	ErrFileNotFound = errors.New("file not found")
)
