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

package control

import (
	"bytes"
	"encoding/hex"
	"fmt"
	"net/http"

	log "github.com/sirupsen/logrus"

	"github.com/xelalexv/mzdisk/pkg/mzos"
)

//
func (a *api) list(w http.ResponseWriter, req *http.Request) {

	img := a.openImage(w, req)
	if img == nil {
		return
	}
	defer img.Close()

	fs, err := mzos.NewFS(img.Image)
	if fs == nil {
		handleError(err, http.StatusUnprocessableEntity, w)
		return
	}
	if err != nil {
		log.Warnf("listing %s: %v", getArg(req, "image"), err)
	}

	listing, err := NewListing(getArg(req, "image"), fs)
	if handleError(err, http.StatusInternalServerError, w) {
		return
	}

	if wantsJSON(req) {
		sendJSONReply(listing, http.StatusOK, w)
		return
	}

	var buf bytes.Buffer
	WriteFileList(&buf, listing)

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	sendStreamReply(&buf, http.StatusOK, w)
}

// dump sends a hex dump of either a file, or if none is given, of the
// directory sectors
func (a *api) dump(w http.ResponseWriter, req *http.Request) {

	img := a.openImage(w, req)
	if img == nil {
		return
	}
	defer img.Close()

	var data []byte
	var err error

	if name := getArg(req, "file"); name != "" {
		data, err = readFile(img.Image, name)
	} else {
		data, _, err = img.ReadSectors(0, mzos.DirectorySectors)
	}

	if handleError(err, http.StatusUnprocessableEntity, w) {
		return
	}

	var buf bytes.Buffer
	d := hex.Dumper(&buf)
	d.Write(data)
	d.Close()

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	sendStreamReply(&buf, http.StatusOK, w)
}

// file sends the payload of a file, as it would be extracted
func (a *api) file(w http.ResponseWriter, req *http.Request) {

	img := a.openImage(w, req)
	if img == nil {
		return
	}
	defer img.Close()

	dir, err := mzos.ReadDirectory(img.Image)
	if dir == nil {
		handleError(err, http.StatusUnprocessableEntity, w)
		return
	}

	e, err := dir.Find(getArg(req, "file"))
	if handleError(err, http.StatusNotFound, w) {
		return
	}

	data, err := mzos.ReadFile(img.Image, e)
	if handleError(err, http.StatusUnprocessableEntity, w) {
		return
	}

	w.Header().Set("Content-Type", "application/octet-stream")
	w.Header().Set("Content-Disposition",
		fmt.Sprintf("attachment; filename=%q", e.FileName()))
	w.Header().Set("Content-Length", fmt.Sprintf("%d", len(data)))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(data); err != nil {
		log.Errorf("problem sending file: %v", err)
	}
}

//
func readFile(img *mzos.Image, name string) ([]byte, error) {
	dir, err := mzos.ReadDirectory(img)
	if dir == nil {
		return nil, err
	}
	e, err := dir.Find(name)
	if err != nil {
		return nil, err
	}
	return mzos.ReadFile(img, e)
}
