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

package control

import (
	"fmt"
	"io"

	"github.com/xelalexv/mzdisk/pkg/base"
)

// FileEntry is a file in a directory listing
type FileEntry struct {
	File        string `json:"file"`
	Name        string `json:"name"`
	Slot        int    `json:"slot"`
	DiskAddress int    `json:"diskAddress"`
	Blocks      int    `json:"blocks"`
	Size        int    `json:"size"`
	TypeID      int    `json:"typeId"`
	Type        string `json:"type"`
	Metadata    string `json:"metadata"`
	LoadAddress *int   `json:"loadAddress,omitempty"`
}

// Listing is the directory listing of an image
type Listing struct {
	Image   string      `json:"image"`
	Sectors int         `json:"sectors"`
	Used    int         `json:"used"`
	Files   []FileEntry `json:"files"`
}

// NewListing gathers the listing of the files in fs
func NewListing(image string, fs base.FileSystem) (*Listing, error) {

	stats, files, err := fs.Ls()
	if err != nil {
		return nil, err
	}

	ret := &Listing{
		Image:   image,
		Sectors: stats.Sectors(),
		Used:    stats.Used(),
		Files:   make([]FileEntry, len(files)),
	}

	for ix, f := range files {
		e := &ret.Files[ix]
		e.File = f.Name()
		e.Size = f.Size()
		e.Name = f.GetAnnotation("name").String()
		e.Slot = f.GetAnnotation("slot").Int()
		e.DiskAddress = f.GetAnnotation("disk-address").Int()
		e.Blocks = f.GetAnnotation("blocks").Int()
		e.TypeID = f.GetAnnotation("type-id").Int()
		e.Type = f.GetAnnotation("file-type").String()
		e.Metadata = f.GetAnnotation("metadata").String()
		if f.HasAnnotation("load-address") {
			la := f.GetAnnotation("load-address").Int()
			e.LoadAddress = &la
		}
	}

	return ret, nil
}

// WriteFileList writes the listing in the classic MZOS column layout
func WriteFileList(w io.Writer, l *Listing) {

	fmt.Fprintf(w, "\n%s\n\n", l.Image)
	fmt.Fprintf(w, "Filename  DA BLKS D TYP Type        Metadata\n")

	for _, f := range l.Files {
		fmt.Fprintf(w, "%-8s %3d  %3d %3d %-12s %s\n",
			f.Name, f.DiskAddress, f.Blocks, f.TypeID, f.Type, f.Metadata)
	}

	fmt.Fprintf(w, "\n%d files, %d of %d sectors used\n\n",
		len(l.Files), l.Used, l.Sectors)
}
