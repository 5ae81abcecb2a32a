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
	"net/url"
	"os"
)

//
func NewSearch() *Search {

	s := &Search{}
	s.Runner = *NewRunner(
		"search [-a|--address {address}] -t|--term {search term} [-n|--items {max results}]",
		"search for images in server repo",
		`
Use the search command to find images in the API server's repository, if indexing
is enabled. Searches cover image paths and the names of the files in images.`,
		"", runnerHelpEpilogue, s.Run)

	s.AddBaseSettings()
	s.AddAPISettings()
	s.AddSetting(&s.Term, "term", "t", "", nil,
		"search term; used to search through image paths and contained files", true)
	s.AddSetting(&s.Items, "items", "n", "", 100,
		"max number of search results to return", false)

	return s
}

//
type Search struct {
	Runner
	//
	Term  string
	Items int
}

//
func (s *Search) Run() error {

	if err := s.ParseSettings(); err != nil {
		return err
	}

	resp, err := s.apiCall("GET",
		fmt.Sprintf("/search?items=%d&term=%s", s.Items, url.QueryEscape(s.Term)),
		false, nil)
	if err != nil {
		return err
	}
	defer resp.Close()

	fmt.Println()
	if _, err := io.Copy(os.Stdout, resp); err != nil {
		return err
	}
	fmt.Println()

	return nil
}
