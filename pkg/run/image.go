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

package run

import (
	"errors"
	"fmt"
	"os"

	log "github.com/sirupsen/logrus"

	"github.com/xelalexv/mzdisk/pkg/format"
	"github.com/xelalexv/mzdisk/pkg/mzos"
)

// openFS opens the image at input, and reads its directory. A corrupt
// directory is reported as a warning, and an empty file system returned.
func openFS(input string) (*format.Image, *mzos.FS, error) {

	if input == "" {
		return nil, nil, fmt.Errorf("no input image specified")
	}

	img, err := format.Open(input)
	if err != nil {
		return nil, nil, err
	}

	fs, err := mzos.NewFS(img.Image)
	if fs == nil {
		img.Close()
		return nil, nil, err
	}

	if errors.Is(err, mzos.ErrDirectoryCorrupt) {
		fmt.Fprintf(os.Stderr, "warning: %v\n", err)
	} else if err != nil {
		log.Warnf("reading directory: %v", err)
	}

	log.WithFields(log.Fields{
		"image": img.Name(), "mode": img.Mode(),
		"compressor": img.Compressor()}).Debug("image opened")

	return img, fs, nil
}
