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
	"encoding/hex"
	"fmt"
	"os"

	"github.com/xelalexv/mzdisk/pkg/mzos"
)

//
func NewDump() *Dump {

	d := &Dump{}
	d.Runner = *NewRunner(
		`dump -i|--input {image} [-n|--name {file}]
      [-s|--sector {first logical sector} -c|--count {sector count}]`,
		"hex dump of file or sectors in image",
		`
Use the dump command to output a hex dump of a file contained in an image, or
of a range of logical sectors. Without any options, the directory sectors are
dumped.`,
		"", runnerHelpEpilogue, d.Run)

	d.AddBaseSettings()
	d.AddSetting(&d.Input, "input", "i", "", nil, "image file or URL", true)
	d.AddSetting(&d.Name, "name", "n", "", nil, "file in image to dump", false)
	d.AddSetting(&d.Sector, "sector", "s", "", 0, "first logical sector", false)
	d.AddSetting(&d.Count, "count", "c", "", mzos.DirectorySectors,
		"number of sectors", false)

	return d
}

//
type Dump struct {
	//
	Runner
	//
	Input  string
	Name   string
	Sector int
	Count  int
}

//
func (d *Dump) Run() error {

	if err := d.ParseSettings(); err != nil {
		return err
	}

	if d.Name != "" && (d.IsSet("sector") || d.IsSet("count")) {
		return fmt.Errorf("file name cannot be combined with sector range")
	}

	img, fs, err := openFS(d.Input)
	if err != nil {
		return err
	}
	defer img.Close()

	var data []byte

	if d.Name != "" {
		f, err := fs.Open(d.Name)
		if err != nil {
			return err
		}
		if data, err = f.Bytes(); err != nil {
			return err
		}

	} else {
		var read int
		if data, read, err = img.ReadSectors(d.Sector, d.Count); err != nil {
			return err
		}
		if read < d.Count {
			fmt.Fprintf(os.Stderr,
				"warning: only %d of %d sectors present in image\n", read, d.Count)
		}
	}

	dumper := hex.Dumper(os.Stdout)
	dumper.Write(data)
	dumper.Close()

	fmt.Println()
	return nil
}
