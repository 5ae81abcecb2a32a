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

package mzos

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// ReadFile returns the payload of the file described by e, cut to the file's
// length. Data missing from a truncated image reads as zeros.
func ReadFile(img *Image, e Entry) ([]byte, error) {

	if e.IsFree() {
		return nil, fmt.Errorf("%w: slot %d", ErrEmptySlot, e.Slot)
	}

	if err := e.Validate(); err != nil {
		return nil, err
	}

	buf, read, err := img.ReadSectors(e.DiskAddress, e.BlockCount)
	if err != nil {
		if errors.Is(err, ErrSectorRange) {
			return nil, fmt.Errorf("%w: %s spans sectors %d to %d (%d max.)",
				ErrInvalidEntryGeometry, e.Name(), e.DiskAddress,
				e.DiskAddress+e.BlockCount, SectorCount)
		}
		return nil, err
	}

	if read < e.BlockCount {
		log.WithFields(log.Fields{
			"file": e.Name(), "blocks": e.BlockCount, "read": read,
		}).Warn("image truncated, file is zero padded")
	}

	return buf[:e.Length()], nil
}

// output files are created through this
var openOutput = func(path string, flags int) (io.WriteCloser, error) {
	return os.OpenFile(path, flags, 0644)
}

// Extract writes the file described by e into directory dir, under the name
// given by e.FileName. Existing files are overwritten. Returns the number of
// bytes written.
func Extract(img *Image, e Entry, dir string) (int, error) {
	return extract(img, e, dir, true)
}

//
func extract(img *Image, e Entry, dir string, overwrite bool) (int, error) {

	data, err := ReadFile(img, e)
	if err != nil {
		return 0, err
	}

	path := filepath.Join(dir, e.FileName())
	logger := log.WithFields(log.Fields{"file": e.Name(), "path": path})

	flags := os.O_WRONLY | os.O_CREATE | os.O_TRUNC
	if !overwrite {
		flags |= os.O_EXCL
	}

	out, err := openOutput(path, flags)
	if err != nil {
		logger.Debugf("cannot create output file: %v", err)
		return 0, fmt.Errorf("%w: %w", ErrDestinationUnwritable, err)
	}

	n, err := out.Write(data)
	if err != nil {
		out.Close()
		discard(path, logger)
		return n, fmt.Errorf("%w: %w", ErrDestinationUnwritable, err)
	}

	if err := out.Close(); err != nil {
		discard(path, logger)
		return n, fmt.Errorf("%w: %w", ErrDestinationUnwritable, err)
	}

	logger.WithField("bytes", n).Debug("file extracted")
	return n, nil
}

// discard removes a partially written output file
func discard(path string, logger *log.Entry) {
	if err := os.Remove(path); err != nil {
		logger.Warnf("cannot remove partial output file: %v", err)
	}
}

// ExtractOptions configures ExtractAll
type ExtractOptions struct {
	// number of files extracted in parallel, values < 1 mean 1
	Workers int
	// when false, existing files are not replaced and reported as failures
	Overwrite bool
	// optional glob pattern, matched against the base names of files
	Pattern string
}

//
func DefaultExtractOptions() *ExtractOptions {
	return &ExtractOptions{Workers: 1, Overwrite: true}
}

// Result is the outcome of extracting a single file
type Result struct {
	Entry Entry
	Path  string
	Bytes int
	Err   error
}

// Report lists the results of ExtractAll, in directory order
type Report struct {
	Results   []Result
	Extracted int
}

// Failed returns the results of files that could not be extracted
func (r *Report) Failed() []Result {
	var ret []Result
	for _, res := range r.Results {
		if res.Err != nil {
			ret = append(ret, res)
		}
	}
	return ret
}

// ExtractAll extracts all files in dir into directory dest. Failing to extract
// a file does not stop extraction of the others; the outcome for each file is
// contained in the returned report. An error is only returned when dest cannot
// be used at all, or ctx is done.
func ExtractAll(ctx context.Context, img *Image, dir *Directory, dest string,
	opts *ExtractOptions) (*Report, error) {

	if opts == nil {
		opts = DefaultExtractOptions()
	}

	if info, err := os.Stat(dest); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDestinationUnwritable, err)
	} else if !info.IsDir() {
		return nil, fmt.Errorf("%w: %s is not a directory",
			ErrDestinationUnwritable, dest)
	}

	var entries []Entry
	for _, e := range dir.Used() {
		if opts.Pattern != "" {
			match, err := filepath.Match(opts.Pattern, e.BaseName())
			if err != nil {
				return nil, fmt.Errorf("invalid pattern: %v", err)
			}
			if !match {
				continue
			}
		}
		entries = append(entries, e)
	}

	report := &Report{Results: make([]Result, len(entries))}

	// Entries with the same output file are extracted one after the other in
	// slot order, so the last one wins as with a single worker.
	var groups [][]int
	byPath := make(map[string]int)
	for ix, e := range entries {
		path := filepath.Join(dest, e.FileName())
		if g, ok := byPath[path]; ok {
			groups[g] = append(groups[g], ix)
			continue
		}
		byPath[path] = len(groups)
		groups = append(groups, []int{ix})
	}

	workers := opts.Workers
	if workers < 1 {
		workers = 1
	}

	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(workers)

	for _, g := range groups {
		g := g
		eg.Go(func() error {
			for _, ix := range g {
				if err := ctx.Err(); err != nil {
					return err
				}
				e := entries[ix]
				res := &report.Results[ix]
				res.Entry = e
				res.Path = filepath.Join(dest, e.FileName())
				res.Bytes, res.Err = extract(img, e, dest, opts.Overwrite)
				if res.Err != nil {
					log.WithFields(log.Fields{
						"file": e.Name(), "slot": e.Slot,
					}).Warnf("skipping file: %v", res.Err)
				}
			}
			return nil
		})
	}

	if err := eg.Wait(); err != nil {
		return report, err
	}

	for _, res := range report.Results {
		if res.Err == nil {
			report.Extracted++
		}
	}

	return report, nil
}
