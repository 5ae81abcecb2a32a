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
	"fmt"
	"io"
	"strings"

	"github.com/xelalexv/mzdisk/pkg/util"
)

//
func NewVersion() *Version {
	v := &Version{}
	v.Runner = *NewRunner(
		"version", "get client & server version info", "", "", "", v.Run)
	v.AddBaseSettings()
	v.AddAPISettings()
	return v
}

//
type Version struct {
	Runner
}

//
func (v *Version) Run() error {

	if err := v.ParseSettings(); err != nil {
		return err
	}

	resp, err := v.apiCall("GET", "/version", false, nil)
	if err != nil {
		PrintVersion("server:     not reachable\n")
		return nil
	}
	defer resp.Close()

	buf := new(strings.Builder)
	if _, err = io.Copy(buf, resp); err != nil {
		return err
	}

	PrintVersion(buf.String())
	return nil
}

//
func PrintVersion(remote string) {
	fmt.Printf(`
  __  __ _____   ____  _     _
 |  \/  |__  /  |  _ \(_)___| | __
 | |\/| | / /   | | | | / __| |/ /
 | |  | |/ /_   | |_| | \__ \   <
 |_|  |_/____|  |____/|_|___/_|\_\

 for the Vector Graphic MZOS

mzdisk:     %s
`, util.MZDiskVersion)
	if remote != "" {
		fmt.Printf("%s", remote)
	}
	fmt.Println()
}
