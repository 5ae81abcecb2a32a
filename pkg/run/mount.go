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

	"github.com/xelalexv/mzdisk/pkg/format"
	"github.com/xelalexv/mzdisk/pkg/mount"
)

//
func NewMount() *Mount {

	m := &Mount{}
	m.Runner = *NewRunner(
		"mount -i|--input {image} -m|--mountpoint {dir} [-d|--debug]",
		"mount image read-only via FUSE",
		`
Use the mount command to mount an MZOS disk image as a read-only file system. The
files appear under their extraction names. The command blocks until the file
system is unmounted, or it is interrupted.`,
		"", runnerHelpEpilogue, m.Run)

	m.AddBaseSettings()
	m.AddSetting(&m.Input, "input", "i", "", nil, "image file or URL", true)
	m.AddSetting(&m.MountPoint, "mountpoint", "m", "", nil, "mount point", true)
	m.AddSetting(&m.Debug, "debug", "d", "", false, "print FUSE debug info", false)

	return m
}

//
type Mount struct {
	Runner
	//
	Input      string
	MountPoint string
	Debug      bool
}

//
func (m *Mount) Run() error {

	if err := m.ParseSettings(); err != nil {
		return err
	}

	img, err := format.Open(m.Input)
	if err != nil {
		return err
	}
	defer img.Close()

	server, err := mount.Mount(m.MountPoint, img.Image, m.Debug)
	if err != nil {
		return err
	}

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sig
		log.Info("unmounting")
		if err := server.Unmount(); err != nil {
			log.Errorf("unmount failed: %v", err)
		}
	}()

	fmt.Printf("%s mounted at %s\n", m.Input, m.MountPoint)
	server.Wait()
	return nil
}
