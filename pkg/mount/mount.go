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

package mount

import (
	"context"
	"sync"
	"syscall"

	"github.com/hanwen/go-fuse/v2/fs"
	"github.com/hanwen/go-fuse/v2/fuse"
	log "github.com/sirupsen/logrus"

	"github.com/xelalexv/mzdisk/pkg/mzos"
)

const inodeBase = 1000

// Root is the root directory of a mounted image. It contains one read-only
// file per valid directory entry.
type Root struct {
	fs.Inode
	img   *mzos.Image
	files []*file
}

var _ = (fs.NodeOnAdder)((*Root)(nil))

// NewRoot creates the root node for img. Entries with invalid geometry are
// left out.
func NewRoot(img *mzos.Image) (*Root, error) {

	dir, err := mzos.ReadDirectory(img)
	if dir == nil {
		return nil, err
	}
	if err != nil {
		log.Warnf("mounting image: %v", err)
	}

	r := &Root{img: img}

	for _, e := range dir.Used() {
		if err := e.Validate(); err != nil {
			log.WithField("slot", e.Slot).Warnf("not mounting file: %v", err)
			continue
		}
		r.files = append(r.files, &file{img: img, entry: e})
	}

	return r, nil
}

//
func (r *Root) OnAdd(ctx context.Context) {
	p := &r.Inode
	for _, f := range r.files {
		child := p.NewPersistentInode(ctx, f, fs.StableAttr{
			Ino: inodeBase + uint64(f.entry.Slot),
		})
		p.AddChild(f.entry.FileName(), child, true)
	}
}

// Mount mounts img read-only at mountPoint. Use Wait on the returned server
// to block until the file system is unmounted.
func Mount(mountPoint string, img *mzos.Image, debug bool) (*fuse.Server, error) {

	root, err := NewRoot(img)
	if err != nil {
		return nil, err
	}

	opts := &fs.Options{}
	opts.Debug = debug
	opts.Name = "mzdisk"
	opts.Options = append(opts.Options, "ro")

	return fs.Mount(mountPoint, root, opts)
}

//
type file struct {
	fs.Inode

	img   *mzos.Image
	entry mzos.Entry

	once sync.Once
	data []byte
	err  error
}

var _ = (fs.NodeReader)((*file)(nil))
var _ = (fs.NodeOpener)((*file)(nil))
var _ = (fs.NodeGetattrer)((*file)(nil))

//
func (f *file) content() ([]byte, error) {
	f.once.Do(func() {
		f.data, f.err = mzos.ReadFile(f.img, f.entry)
	})
	return f.data, f.err
}

//
func (f *file) Read(ctx context.Context, fh fs.FileHandle, dest []byte,
	off int64) (fuse.ReadResult, syscall.Errno) {

	content, err := f.content()
	if err != nil {
		log.WithField("file", f.entry.Name()).Errorf("read failed: %v", err)
		return fuse.ReadResultData([]byte{}), syscall.EIO
	}

	if off >= int64(len(content)) {
		return fuse.ReadResultData([]byte{}), 0
	}

	end := off + int64(len(dest))
	if end > int64(len(content)) {
		end = int64(len(content))
	}

	return fuse.ReadResultData(content[off:end]), 0
}

//
func (f *file) Open(ctx context.Context, openFlags uint32) (fh fs.FileHandle,
	fuseFlags uint32, errno syscall.Errno) {

	if openFlags&(syscall.O_WRONLY|syscall.O_RDWR) != 0 {
		return nil, 0, syscall.EROFS
	}
	return f, fuse.FOPEN_KEEP_CACHE, 0
}

//
func (f *file) Getattr(ctx context.Context, fh fs.FileHandle,
	out *fuse.AttrOut) syscall.Errno {
	out.Mode = syscall.S_IFREG | 0444
	out.Size = uint64(f.entry.Length())
	out.Blocks = uint64(f.entry.Allocation()+511) / 512
	out.Blksize = mzos.BlockSize
	return 0
}
