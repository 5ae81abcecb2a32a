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
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"

	"github.com/xelalexv/mzdisk/pkg/format"
	"github.com/xelalexv/mzdisk/pkg/mzos"
	"github.com/xelalexv/mzdisk/pkg/repo"
)

//
type APIServer interface {
	Serve() error
	Stop() error
	Handler() http.Handler
}

// NewAPIServer creates an API server for the images found in directory
// repository. index may be nil, in which case search is not available.
func NewAPIServer(address, repository string, index *repo.Index) APIServer {
	ret := &api{address: address, repository: repository, index: index}
	ret.router = ret.routes()
	return ret
}

//
type api struct {
	address    string
	repository string
	index      *repo.Index
	router     *mux.Router
	server     *http.Server
}

//
func (a *api) routes() *mux.Router {
	r := mux.NewRouter()
	r.HandleFunc("/ls", a.list).Methods("GET")
	r.HandleFunc("/dump", a.dump).Methods("GET")
	r.HandleFunc("/file", a.file).Methods("GET")
	r.HandleFunc("/search", a.search).Methods("GET")
	r.HandleFunc("/version", a.version).Methods("GET")
	r.Use(logRequests)
	return r
}

//
func (a *api) Handler() http.Handler {
	return a.router
}

//
func (a *api) Serve() error {

	a.server = &http.Server{
		Addr:         a.address,
		Handler:      a.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	log.WithFields(log.Fields{
		"address": a.address, "repo": a.repository}).Info("API server starting")

	if err := a.server.ListenAndServe(); err != http.ErrServerClosed {
		return err
	}

	log.Info("API server stopped")
	return nil
}

//
func (a *api) Stop() error {
	if a.server == nil {
		return nil
	}
	log.Info("API server stopping")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return a.server.Shutdown(ctx)
}

//
func logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		log.WithFields(log.Fields{
			"method": req.Method, "uri": req.RequestURI}).Debug("API call")
		next.ServeHTTP(w, req)
	})
}

// openImage opens the image named by the request's image argument. The path
// is taken relative to the repository, and cannot leave it.
func (a *api) openImage(w http.ResponseWriter, req *http.Request) *format.Image {

	rel := getArg(req, "image")
	if rel == "" {
		handleError(fmt.Errorf("no image specified"), http.StatusBadRequest, w)
		return nil
	}

	path := filepath.Join(a.repository, filepath.Clean("/"+rel))
	if !format.IsImage(path) {
		handleError(fmt.Errorf("not a disk image: %s", rel),
			http.StatusUnprocessableEntity, w)
		return nil
	}

	if _, err := os.Stat(path); err != nil {
		handleError(fmt.Errorf("image not found: %s", rel), http.StatusNotFound, w)
		return nil
	}

	img, err := format.Open(path)
	if handleError(err, http.StatusUnprocessableEntity, w) {
		return nil
	}

	return img
}

//
func getArg(req *http.Request, arg string) string {
	if v, ok := mux.Vars(req)[arg]; ok {
		return v
	}
	return req.URL.Query().Get(arg)
}

//
func getIntArg(req *http.Request, arg string, def int) (int, error) {
	v := getArg(req, arg)
	if v == "" {
		return def, nil
	}
	ret, err := strconv.Atoi(v)
	if err != nil {
		return def, fmt.Errorf("invalid value for %s: %s", arg, v)
	}
	return ret, nil
}

//
func isFlagSet(req *http.Request, flag string) bool {
	v := strings.ToLower(getArg(req, flag))
	return v == "true" || v == "1" || v == "yes"
}

//
func wantsJSON(req *http.Request) bool {
	return strings.Contains(req.Header.Get("Accept"), "application/json") ||
		isFlagSet(req, "json")
}

// errorStatus maps errors from the disk layer to HTTP status codes, falling
// back to def for anything else.
func errorStatus(err error, def int) int {
	switch {
	case errors.Is(err, mzos.ErrFileNotFound):
		return http.StatusNotFound
	case errors.Is(err, mzos.ErrInvalidEntryGeometry),
		errors.Is(err, mzos.ErrImageUnreadable):
		return http.StatusUnprocessableEntity
	}
	return def
}

//
func handleError(e error, statusCode int, w http.ResponseWriter) bool {
	if e == nil {
		return false
	}
	statusCode = errorStatus(e, statusCode)
	log.WithField("status", statusCode).Errorf("API error: %v", e)
	sendReply([]byte(e.Error()), statusCode, w)
	return true
}

//
func sendReply(body []byte, statusCode int, w http.ResponseWriter) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(statusCode)
	if _, err := w.Write(append(body, '\n')); err != nil {
		log.Errorf("problem sending reply: %v", err)
	}
}

//
func sendJSONReply(obj interface{}, statusCode int, w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(obj); err != nil {
		log.Errorf("problem sending JSON reply: %v", err)
	}
}

//
func sendStreamReply(r io.Reader, statusCode int, w http.ResponseWriter) {
	w.WriteHeader(statusCode)
	if _, err := io.Copy(w, r); err != nil {
		log.Errorf("problem sending stream reply: %v", err)
	}
}
