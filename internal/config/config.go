// © 2024 Ilya Mateyko. All rights reserved.
// Use of this source code is governed by the ISC
// license that can be found in the LICENSE.md file.

// Package config loads the optional TOML project file shared by devserve and
// imglist.
//
// A project file looks like this:
//
//	[server]
//	port = 8000
//	max_tries = 20
//	static_dir = "static"
//	fallback_to_index = false
//	idle_timeout = "30m"
//
//	[images]
//	dir = "images"
//	script = "script.js"
//	extensions = [".png", ".jpg", ".jpeg", ".gif", ".webp"]
//
// Every key is optional. Keys that are absent leave the built-in defaults
// alone.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"go.astrophena.name/devsite/internal/devserver"
	"go.astrophena.name/devsite/internal/imagelist"

	"github.com/BurntSushi/toml"
)

// ErrUnknownKeys is returned by [Load] when the file contains keys that
// aren't recognized.
var ErrUnknownKeys = errors.New("unknown configuration keys")

// File is the contents of a project file.
type File struct {
	Server Server `toml:"server"`
	Images Images `toml:"images"`
}

// Server holds the [server] table.
type Server struct {
	Host            *string `toml:"host"`
	Port            *int    `toml:"port"`
	MaxTries        *int    `toml:"max_tries"`
	BaseDir         *string `toml:"base_dir"`
	StaticDir       *string `toml:"static_dir"`
	DefaultDocument *string `toml:"default_document"`
	ImagesPrefix    *string `toml:"images_prefix"`
	FallbackToIndex *bool   `toml:"fallback_to_index"`
	Gzip            *bool   `toml:"gzip"`
	OpenBrowser     *bool   `toml:"open_browser"`
	// IdleTimeout is a duration string, like "30m".
	IdleTimeout *duration `toml:"idle_timeout"`
}

// Images holds the [images] table.
type Images struct {
	Dir        *string  `toml:"dir"`
	Script     *string  `toml:"script"`
	Extensions []string `toml:"extensions"`
	Backup     *bool    `toml:"backup"`
}

// Load reads and parses the project file at path.
func Load(path string) (*File, error) {
	var f File
	md, err := toml.DecodeFile(path, &f)
	if err != nil {
		return nil, fmt.Errorf("loading %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return nil, fmt.Errorf("%w in %s: %s", ErrUnknownKeys, path, strings.Join(keys, ", "))
	}
	return &f, nil
}

type duration time.Duration

func (d *duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	*d = duration(v)
	return nil
}

// Override reports whether the setting controlled by the named command-line
// flag was given explicitly and must not be taken from the file.
type Override func(flag string) bool

// Apply copies every setting present in s into cfg, except those
// overridden on the command line.
func (s Server) Apply(cfg *devserver.Config, override Override) {
	set(&cfg.Host, s.Host, override, "host")
	set(&cfg.BasePort, s.Port, override, "port")
	set(&cfg.MaxTries, s.MaxTries, override, "tries")
	set(&cfg.BaseDir, s.BaseDir, override, "base")
	set(&cfg.StaticDir, s.StaticDir, override, "dir")
	set(&cfg.DefaultDocument, s.DefaultDocument, override, "index")
	set(&cfg.ImagesPrefix, s.ImagesPrefix, override, "images-prefix")
	set(&cfg.FallbackToIndex, s.FallbackToIndex, override, "spa")
	set(&cfg.Gzip, s.Gzip, override, "gzip")
	set(&cfg.OpenBrowser, s.OpenBrowser, override, "no-browser")
	if s.IdleTimeout != nil && !overridden(override, "idle") {
		cfg.IdleTimeout = time.Duration(*s.IdleTimeout)
	}
}

// Apply copies every setting present in i into cfg, except those
// overridden on the command line.
func (i Images) Apply(cfg *imagelist.Config, override Override) {
	set(&cfg.ImagesDir, i.Dir, override, "images")
	set(&cfg.ScriptFile, i.Script, override, "script")
	set(&cfg.Backup, i.Backup, override, "backup")
	if i.Extensions != nil && !overridden(override, "ext") {
		cfg.Extensions = imagelist.ParseExtensions(strings.Join(i.Extensions, ","))
	}
}

func set[T any](dst *T, src *T, override Override, flag string) {
	if src == nil || overridden(override, flag) {
		return
	}
	*dst = *src
}

func overridden(override Override, flag string) bool {
	return override != nil && override(flag)
}
