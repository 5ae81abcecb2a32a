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
	"net/http"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const runnerHelpEpilogue = `- Settings can also be passed via environment variables. For a setting
  --some-setting, use MZDISK_SOME_SETTING. Command line flags take precedence.

`

const envPrefix = "MZDISK"

//
type setting struct {
	ref      interface{}
	name     string
	required bool
}

// Runner is the base for all commands. It takes care of turning flags and
// environment variables into settings.
type Runner struct {
	//
	Address  string
	LogLevel string
	//
	cmd      *cobra.Command
	exec     func() error
	viper    *viper.Viper
	settings []*setting
}

//
func NewRunner(use, short, long, helpPrefix, helpSuffix string,
	exec func() error) *Runner {

	r := &Runner{exec: exec, viper: viper.New()}

	r.viper.SetEnvPrefix(envPrefix)
	r.viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	r.viper.AutomaticEnv()

	r.cmd = &cobra.Command{
		Use:           use,
		Short:         short,
		Long:          long,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return r.exec()
		},
	}

	if helpPrefix != "" || helpSuffix != "" {
		tmpl := r.cmd.UsageTemplate()
		r.cmd.SetUsageTemplate(
			fmt.Sprintf("%s%s\n%s", helpPrefix, tmpl, helpSuffix))
	}

	return r
}

//
func (r *Runner) Command() *cobra.Command {
	return r.cmd
}

// AddBaseSettings adds the settings every command has
func (r *Runner) AddBaseSettings() {
	r.AddSetting(&r.LogLevel, "log-level", "", "", "info",
		"log level: trace, debug, info, warn, error", false)
}

// AddAPISettings adds the settings for commands that talk to the API server
func (r *Runner) AddAPISettings() {
	r.AddSetting(&r.Address, "address", "a", "", "localhost:8888",
		"listen address and port of API server", false)
}

// AddSetting registers a setting. ref needs to point to a string, int, or
// bool. If env is empty, the environment variable name is derived from the
// setting name.
func (r *Runner) AddSetting(ref interface{}, name, short, env string,
	dflt interface{}, usage string, required bool) {

	flags := r.cmd.Flags()

	switch v := ref.(type) {
	case *string:
		d, _ := dflt.(string)
		flags.StringP(name, short, d, usage)
	case *int:
		d, _ := dflt.(int)
		flags.IntP(name, short, d, usage)
	case *bool:
		d, _ := dflt.(bool)
		flags.BoolP(name, short, d, usage)
	default:
		panic(fmt.Sprintf("unsupported setting type for %s: %T", name, v))
	}

	if err := r.viper.BindPFlag(name, r.flag(name)); err != nil {
		panic(fmt.Sprintf("cannot bind setting %s: %v", name, err))
	}

	if env != "" {
		if err := r.viper.BindEnv(name, env); err != nil {
			panic(fmt.Sprintf("cannot bind environment for %s: %v", name, err))
		}
	}

	r.settings = append(r.settings,
		&setting{ref: ref, name: name, required: required})
}

// ParseSettings fills in all settings from flags, environment, and defaults,
// and sets the log level.
func (r *Runner) ParseSettings() error {

	for _, s := range r.settings {

		if s.required && !r.viper.IsSet(s.name) {
			return fmt.Errorf("required setting missing: --%s", s.name)
		}

		switch v := s.ref.(type) {
		case *string:
			*v = r.viper.GetString(s.name)
		case *int:
			*v = r.viper.GetInt(s.name)
		case *bool:
			*v = r.viper.GetBool(s.name)
		}
	}

	if r.LogLevel != "" {
		level, err := log.ParseLevel(r.LogLevel)
		if err != nil {
			return err
		}
		log.SetLevel(level)
	}

	return nil
}

// IsSet determines whether setting name was explicitly given, either as a
// flag or via the environment.
func (r *Runner) IsSet(name string) bool {
	if f := r.flag(name); f != nil && f.Changed {
		return true
	}
	return r.viper.IsSet(name)
}

//
func (r *Runner) flag(name string) *pflag.Flag {
	return r.cmd.Flags().Lookup(name)
}

//
var apiClient = &http.Client{Timeout: 30 * time.Second}

//
func (r *Runner) apiCall(method, path string, json bool,
	body io.Reader) (io.ReadCloser, error) {

	addr := r.Address
	if !strings.HasPrefix(addr, "http://") && !strings.HasPrefix(addr, "https://") {
		addr = "http://" + addr
	}

	req, err := http.NewRequest(method, addr+path, body)
	if err != nil {
		return nil, err
	}

	if json {
		req.Header.Set("Accept", "application/json")
	}

	log.WithFields(log.Fields{"method": method, "url": req.URL}).Debug("API call")

	resp, err := apiClient.Do(req)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		defer resp.Body.Close()
		msg, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("%s (%d)",
			strings.TrimSpace(string(msg)), resp.StatusCode)
	}

	return resp.Body, nil
}
