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
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/chzyer/readline"
	log "github.com/sirupsen/logrus"

	"github.com/xelalexv/mzdisk/pkg/control"
	"github.com/xelalexv/mzdisk/pkg/mzos"
)

//
func NewShell() *Shell {

	s := &Shell{}
	s.Runner = *NewRunner(
		"shell -i|--input {image}",
		"interactive shell for an image",
		`
Use the shell command to browse an image interactively. Type help at the prompt
for the available commands.`,
		"", runnerHelpEpilogue, s.Run)

	s.AddBaseSettings()
	s.AddSetting(&s.Input, "input", "i", "", nil, "image file or URL", true)

	return s
}

//
type Shell struct {
	Runner
	//
	Input string
}

//
func (s *Shell) Run() error {

	if err := s.ParseSettings(); err != nil {
		return err
	}

	img, fs, err := openFS(s.Input)
	if err != nil {
		return err
	}
	defer img.Close()

	sh := &shell{name: s.Input, fs: fs}

	rl, err := readline.NewEx(&readline.Config{
		Prompt:          fmt.Sprintf("%s> ", filepath.Base(s.Input)),
		HistoryFile:     historyFile(),
		AutoComplete:    sh.completer(),
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})
	if err != nil {
		return err
	}
	defer rl.Close()

	sh.out = rl.Stdout()

	for {
		line, err := rl.Readline()
		if err == readline.ErrInterrupt {
			continue
		} else if err != nil {
			return nil
		}

		quit, err := sh.process(line)
		if err != nil {
			fmt.Fprintf(sh.out, "error: %v\n", err)
		}
		if quit {
			return nil
		}
	}
}

//
func historyFile() string {
	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, ".mzdisk_history")
	}
	return ""
}

//
type shell struct {
	name string
	fs   *mzos.FS
	out  io.Writer
}

const shellHelp = `
ls              list files
cat {file}      print file
dump {file}     hex dump of file
extract [{dir}] extract all files, into current directory if none given
help            show this help
exit            leave shell
`

// process runs a single command line, and returns whether the shell should
// quit
func (s *shell) process(line string) (bool, error) {

	args := strings.Fields(line)
	if len(args) == 0 {
		return false, nil
	}

	log.WithField("command", line).Debug("shell")

	switch strings.ToLower(args[0]) {

	case "exit", "quit":
		return true, nil

	case "help", "?":
		fmt.Fprint(s.out, shellHelp)

	case "ls":
		listing, err := control.NewListing(s.name, s.fs)
		if err != nil {
			return false, err
		}
		control.WriteFileList(s.out, listing)

	case "cat", "dump":
		if len(args) < 2 {
			return false, fmt.Errorf("file name required")
		}
		f, err := s.fs.Open(args[1])
		if err != nil {
			return false, err
		}
		if strings.ToLower(args[0]) == "cat" {
			_, err = io.Copy(s.out, f)
			fmt.Fprintln(s.out)
			return false, err
		}
		data, err := f.Bytes()
		if err != nil {
			return false, err
		}
		d := hex.Dumper(s.out)
		d.Write(data)
		d.Close()

	case "extract":
		dest := "."
		if len(args) > 1 {
			dest = args[1]
		}
		report, err := mzos.ExtractAll(context.Background(), s.fs.Image(),
			s.fs.Directory(), dest, mzos.DefaultExtractOptions())
		if err != nil {
			return false, err
		}
		for _, r := range report.Failed() {
			fmt.Fprintf(s.out, "%v, skipping extraction.\n", r.Err)
		}
		fmt.Fprintf(s.out, "Extracted %d files.\n", report.Extracted)

	default:
		return false, errors.New("unknown command, type help for a list")
	}

	return false, nil
}

//
func (s *shell) completer() *readline.PrefixCompleter {
	files := func(string) []string {
		var ret []string
		for _, e := range s.fs.Directory().Used() {
			ret = append(ret, e.FileName())
		}
		return ret
	}
	return readline.NewPrefixCompleter(
		readline.PcItem("ls"),
		readline.PcItem("cat", readline.PcItemDynamic(files)),
		readline.PcItem("dump", readline.PcItemDynamic(files)),
		readline.PcItem("extract"),
		readline.PcItem("help"),
		readline.PcItem("exit"),
	)
}
