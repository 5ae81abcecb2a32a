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
	"os"
	"os/signal"
	"syscall"

	log "github.com/sirupsen/logrus"

	"github.com/xelalexv/mzdisk/pkg/control"
	"github.com/xelalexv/mzdisk/pkg/repo"
)

//
func NewServe() *Serve {

	s := &Serve{}
	s.Runner = *NewRunner(
		"serve -r|--repo {dir} [-a|--address {address}] [-x|--index {dir}]",
		"serve images in a repository via HTTP",
		`
Use the serve command to start an API server for the images contained in a
repository directory. Images can be listed, dumped, and their files downloaded.
When an index directory is given, the repository is indexed for searching, and
the index kept up to date while the server is running.`,
		"", runnerHelpEpilogue, s.Run)

	s.AddBaseSettings()
	s.AddAPISettings()
	s.AddSetting(&s.Repo, "repo", "r", "", nil, "repository directory", true)
	s.AddSetting(&s.Index, "index", "x", "", "",
		"directory for search index; no searching when empty", false)

	return s
}

//
type Serve struct {
	Runner
	//
	Repo  string
	Index string
}

//
func (s *Serve) Run() error {

	if err := s.ParseSettings(); err != nil {
		return err
	}

	if info, err := os.Stat(s.Repo); err != nil {
		return err
	} else if !info.IsDir() {
		return fmt.Errorf("not a directory: %s", s.Repo)
	}

	var index *repo.Index

	if s.Index != "" {
		var err error
		if index, err = repo.NewIndex(s.Index, s.Repo); err != nil {
			return err
		}
		if err := index.Start(); err != nil {
			return err
		}
		defer index.Stop()
	}

	api := control.NewAPIServer(s.Address, s.Repo, index)

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sig
		log.Info("shutting down")
		if err := api.Stop(); err != nil {
			log.Errorf("error stopping API server: %v", err)
		}
	}()

	return api.Serve()
}
