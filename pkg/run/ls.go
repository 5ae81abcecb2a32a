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
	"encoding/json"
	"os"

	"github.com/xelalexv/mzdisk/pkg/control"
)

//
func NewLs() *Ls {

	l := &Ls{}
	l.Runner = *NewRunner(
		"ls -i|--input {image} [-j|--json]",
		"list files in image",
		`
Use the ls command to list the directory of an MZOS disk image. The image may
be a local file or an http(s) URL, and may be compressed.`,
		"", runnerHelpEpilogue, l.Run)

	l.AddBaseSettings()
	l.AddSetting(&l.Input, "input", "i", "", nil, "image file or URL", true)
	l.AddSetting(&l.JSON, "json", "j", "", false, "output listing as JSON", false)

	return l
}

//
type Ls struct {
	Runner
	//
	Input string
	JSON  bool
}

//
func (l *Ls) Run() error {

	if err := l.ParseSettings(); err != nil {
		return err
	}

	img, fs, err := openFS(l.Input)
	if err != nil {
		return err
	}
	defer img.Close()

	listing, err := control.NewListing(l.Input, fs)
	if err != nil {
		return err
	}

	if l.JSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(listing)
	}

	control.WriteFileList(os.Stdout, listing)
	return nil
}
