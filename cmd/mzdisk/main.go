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

package main

import (
	"fmt"
	"os"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/xelalexv/mzdisk/pkg/run"
	"github.com/xelalexv/mzdisk/pkg/util"
)

//
func main() {

	log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	log.SetOutput(os.Stderr)

	root := &cobra.Command{
		Use:     "mzdisk",
		Short:   "Vector Graphic MZOS disk image tool",
		Version: util.MZDiskVersion,
		Long: `
mzdisk lists, extracts, and serves the files contained in Vector Graphic MZOS
floppy disk images, in raw or VGI format.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(
		run.NewLs().Command(),
		run.NewExtract().Command(),
		run.NewDump().Command(),
		run.NewServe().Command(),
		run.NewSearch().Command(),
		run.NewMount().Command(),
		run.NewShell().Command(),
		run.NewVersion().Command(),
	)

	if err := root.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
