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

package format

import (
	"archive/zip"
	"bytes"
	"compress/gzip"
	"fmt"
	"io"
	"net/url"
	"path/filepath"
	"strings"

	"github.com/bodgit/sevenzip"
	"github.com/klauspost/compress/zstd"
	log "github.com/sirupsen/logrus"

	"github.com/xelalexv/mzdisk/pkg/mzos"
)

// MaxImageSize limits the amount of data read from compressed or remote
// images. A full VGI image is 338,800 bytes.
const MaxImageSize = 1048576

// Open opens the disk image referenced by ref, which is either a local file
// path or an http(s) URL. Compressed images are decompressed into memory,
// plain local images are read directly from the file. The geometry mode is
// determined from the name of the image, i.e. for compressed images from the
// name of the archive entry.
func Open(ref string) (*Image, error) {

	file := ref
	if IsRemote(ref) {
		if u, err := url.Parse(ref); err == nil {
			file = u.Path
		}
	}

	name, typ, comp := SplitNameTypeCompressor(file)
	logger := log.WithFields(log.Fields{
		"ref": ref, "type": typ, "compressor": comp})

	src, err := Resolve(ref)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", mzos.ErrImageUnreadable, err)
	}

	if fs, ok := src.(*FileSource); ok && comp == "" {
		logger.Debug("opening plain image file")
		return &Image{
			Image:  mzos.NewImage(fs, mzos.ModeFromType(typ)),
			name:   name,
			typ:    typ,
			closer: fs,
		}, nil
	}

	defer src.Close()

	rd, err := NewImageReader(src, comp)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", mzos.ErrImageUnreadable, err)
	}
	defer rd.Close()

	if rd.Type() != "" {
		typ = rd.Type()
	}
	if rd.Name() != "" {
		name = rd.Name()
	}

	ret, err := Load(rd, name, typ)
	if err != nil {
		return nil, err
	}
	ret.compressor = comp

	logger.WithField("mode", ret.Mode()).Debug("image loaded into memory")
	return ret, nil
}

// Load reads an uncompressed image from r into memory.
func Load(r io.Reader, name, typ string) (*Image, error) {

	data, err := io.ReadAll(io.LimitReader(r, MaxImageSize+1))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", mzos.ErrImageUnreadable, err)
	}

	if len(data) > MaxImageSize {
		return nil, fmt.Errorf("%w: %w: image exceeds %d bytes",
			mzos.ErrImageUnreadable, mzos.ErrAllocationFailure, MaxImageSize)
	}

	return &Image{
		Image: mzos.NewImage(bytes.NewReader(data), mzos.ModeFromType(typ)),
		name:  name,
		typ:   typ,
	}, nil
}

// Image is an opened disk image. It needs to be closed after use.
type Image struct {
	*mzos.Image
	//
	name       string
	typ        string
	compressor string
	closer     io.Closer
}

//
func (i *Image) Name() string {
	return i.name
}

//
func (i *Image) Type() string {
	return i.typ
}

//
func (i *Image) Compressor() string {
	return i.compressor
}

//
func (i *Image) Close() error {
	if i.closer != nil {
		return i.closer.Close()
	}
	return nil
}

//
func NewImageReader(r io.ReadCloser, compressor string) (*ImageReader, error) {

	log.WithField("compressor", compressor).Debug("image reader requested")

	var ret *ImageReader
	var err error

	switch compressor {

	case "gzip":
		fallthrough
	case "gz":
		ret, err = getGZipReader(r)

	case "zst":
		ret, err = getZstdReader(r)

	case "zip":
		ret, err = getZipReader(r, false)

	case "7z":
		ret, err = getZipReader(r, true)

	case "":
		ret = &ImageReader{r, "", "", ""}
	}

	if ret == nil && err == nil {
		err = fmt.Errorf("unsupported compressor: %s", compressor)
	}

	if err != nil {
		return nil, err
	}

	log.WithFields(log.Fields{
		"compressor": ret.compressor,
		"name":       ret.name,
		"type":       ret.typ}).Debug("image reader created")

	return ret, nil
}

// ImageReader reads the uncompressed data of an image
type ImageReader struct {
	readCloser io.ReadCloser
	//
	name       string
	typ        string
	compressor string
}

//
func (r *ImageReader) Read(p []byte) (n int, err error) {
	return r.readCloser.Read(p)
}

//
func (r *ImageReader) Close() error {
	return r.readCloser.Close()
}

//
func (r *ImageReader) Name() string {
	return r.name
}

//
func (r *ImageReader) Type() string {
	return r.typ
}

//
func (r *ImageReader) Compressor() string {
	return r.compressor
}

//
func getGZipReader(r io.ReadCloser) (*ImageReader, error) {

	gzr, err := gzip.NewReader(r)
	if err != nil {
		return nil, err
	}

	ret := &ImageReader{readCloser: gzr}
	ret.name, ret.typ, _ = SplitNameTypeCompressor(gzr.Name)
	ret.compressor = "gzip"

	return ret, nil
}

//
func getZstdReader(r io.ReadCloser) (*ImageReader, error) {

	zr, err := zstd.NewReader(r, zstd.WithDecoderMaxMemory(4*MaxImageSize))
	if err != nil {
		return nil, err
	}

	return &ImageReader{readCloser: zr.IOReadCloser(), compressor: "zst"}, nil
}

//
func getZipReader(r io.ReadCloser, zip7 bool) (*ImageReader, error) {

	var sponge bytes.Buffer
	size, err := io.Copy(&sponge, io.LimitReader(r, 4*MaxImageSize))
	if err != nil {
		return nil, err
	}
	r.Close()

	ret := &ImageReader{}

	if zip7 {
		zr, err := sevenzip.NewReader(bytes.NewReader(sponge.Bytes()), size)
		if err != nil {
			return nil, err
		}
		if len(zr.File) == 0 {
			return nil, fmt.Errorf("empty 7-zip archive")
		}
		if len(zr.File) > 1 {
			log.Warn("7-zip archive has more than one entry, using first")
		}

		ret.name, ret.typ, _ = SplitNameTypeCompressor(zr.File[0].Name)
		ret.compressor = "7z"
		ret.readCloser, err = zr.File[0].Open()
		if err != nil {
			return nil, err
		}

	} else {
		zr, err := zip.NewReader(bytes.NewReader(sponge.Bytes()), size)
		if err != nil {
			return nil, err
		}
		if len(zr.File) == 0 {
			return nil, fmt.Errorf("empty zip archive")
		}
		if len(zr.File) > 1 {
			log.Warn("zip archive has more than one entry, using first")
		}

		ret.name, ret.typ, _ = SplitNameTypeCompressor(zr.File[0].Name)
		ret.compressor = "zip"
		ret.readCloser, err = zr.File[0].Open()
		if err != nil {
			return nil, err
		}
	}

	return ret, nil
}

// SplitNameTypeCompressor splits a file name such as disk.vgi.gz into name,
// image type & compressor, here disk, vgi & gz. Compressor extensions are
// stripped first. The image type is only taken from the extension right
// before them, so disk.img.vgi is of type vgi with name disk.img. Extensions
// that are neither a known image type nor a compressor remain part of the
// name.
func SplitNameTypeCompressor(file string) (name, typ, compressor string) {

	_, name = filepath.Split(file)

	for {
		ext := filepath.Ext(name)
		if ext == "" || ext == name {
			return name, typ, compressor
		}

		switch lext := strings.ToLower(strings.TrimPrefix(ext, ".")); lext {

		case "gz", "gzip", "zst", "zip", "7z":
			if compressor != "" {
				// only the outermost compressor is unpacked
				return name, typ, compressor
			}
			compressor = lext
			name = strings.TrimSuffix(name, ext)

		case "vgi", "img", "dsk":
			typ = lext
			return strings.TrimSuffix(name, ext), typ, compressor

		default:
			return name, typ, compressor
		}
	}
}

// IsImage determines from its name whether a file could be a disk image
func IsImage(file string) bool {
	_, typ, _ := SplitNameTypeCompressor(file)
	return typ != ""
}
