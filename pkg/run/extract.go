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
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"

	"github.com/xelalexv/mzdisk/pkg/mzos"
)

//
func NewExtract() *Extract {

	x := &Extract{}
	x.Runner = *NewRunner(
		`extract -i|--input {image} [-o|--output {dir}] [-q|--quiet] [-f|--force]
      [-w|--workers {count}] [-p|--pattern {glob}]`,
		"extract files from image",
		`
Use the extract command to extract all files contained in an MZOS disk image
into a directory. File names get a suffix according to the file type. Entries
with invalid geometry are skipped. Existing files are only replaced with the
--force option.`,
		"", runnerHelpEpilogue, x.Run)

	x.AddBaseSettings()
	x.AddSetting(&x.Input, "input", "i", "", nil, "image file or URL", true)
	x.AddSetting(&x.Output, "output", "o", "", ".", "output directory", false)
	x.AddSetting(&x.Quiet, "quiet", "q", "", false,
		"do not list extracted files", false)
	x.AddSetting(&x.Force, "force", "f", "", false,
		"overwrite existing files", false)
	x.AddSetting(&x.Workers, "workers", "w", "", 1,
		"number of files to extract in parallel", false)
	x.AddSetting(&x.Pattern, "pattern", "p", "", "",
		"only extract files whose name matches this glob pattern", false)

	return x
}

//
type Extract struct {
	Runner
	//
	Input   string
	Output  string
	Quiet   bool
	Force   bool
	Workers int
	Pattern string
}

//
func (x *Extract) Run() error {

	if err := x.ParseSettings(); err != nil {
		return err
	}

	img, fs, err := openFS(x.Input)
	if err != nil {
		return err
	}
	defer img.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	report, err := mzos.ExtractAll(ctx, img.Image, fs.Directory(), x.Output,
		&mzos.ExtractOptions{
			Workers:   x.Workers,
			Overwrite: x.Force,
			Pattern:   x.Pattern,
		})
	if err != nil {
		return err
	}

	for _, r := range report.Results {
		switch {
		case r.Err == nil:
			if !x.Quiet {
				fmt.Printf("%s -> %s (%d bytes)\n", r.Entry.Name(), r.Path, r.Bytes)
			}
		case errors.Is(r.Err, os.ErrExist):
			fmt.Printf("%s exists, skipping extraction.\n", r.Path)
		default:
			fmt.Printf("%v, skipping extraction.\n", r.Err)
		}
	}

	fmt.Printf("Extracted %d files.\n", report.Extracted)
	return nil
}
