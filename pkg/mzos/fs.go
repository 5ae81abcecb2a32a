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
	"github.com/xelalexv/mzdisk/pkg/base"
	"github.com/xelalexv/mzdisk/pkg/util"
)

var _ base.FileSystem = (*FS)(nil)

// NewFS reads the directory of img and returns a file system view of it. A
// corrupt directory yields an empty file system, along with the error.
func NewFS(img *Image) (*FS, error) {
	dir, err := ReadDirectory(img)
	if dir == nil {
		return nil, err
	}
	return &FS{img: img, dir: dir}, err
}

// FS presents the files of an image via the base.FileSystem interface. Files
// are named by their extraction file name, e.g. HELLO.TXT.
type FS struct {
	img *Image
	dir *Directory
}

//
func (fs *FS) Image() *Image {
	return fs.img
}

//
func (fs *FS) Directory() *Directory {
	return fs.dir
}

//
func (fs *FS) Ls() (*base.FsStats, []*base.FileInfo, error) {

	used := fs.dir.Used()
	ret := make([]*base.FileInfo, len(used))

	for ix, e := range used {
		ret[ix] = base.NewFileInfo(e.FileName(), e.Length())
		annotate(ret[ix].Annotations, e)
	}

	return base.NewFsStats(SectorCount, fs.dir.UsedSectors()), ret, nil
}

//
func (fs *FS) Open(name string) (*base.File, error) {

	e, err := fs.dir.Find(name)
	if err != nil {
		return nil, err
	}

	data, err := ReadFile(fs.img, e)
	if err != nil {
		return nil, err
	}

	var blocks [][]byte
	for off := 0; off < len(data); off += BlockSize {
		end := off + BlockSize
		if end > len(data) {
			end = len(data)
		}
		blocks = append(blocks, data[off:end])
	}

	ret := base.NewFile(e.FileName(), len(data), BlockSize, blocks)
	annotate(ret.Annotations, e)

	return ret, nil
}

//
func annotate(a util.Annotations, e Entry) {
	a.Annotate("name", e.Name())
	a.Annotate("slot", e.Slot)
	a.Annotate("file-type", e.Type.String())
	a.Annotate("type-id", int(e.Type))
	a.Annotate("disk-address", e.DiskAddress)
	a.Annotate("blocks", e.BlockCount)
	a.Annotate("metadata", e.Metadata())
	if e.Type == TypeObject {
		a.Annotate("load-address", e.Start)
	}
}
