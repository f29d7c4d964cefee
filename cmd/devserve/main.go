// © 2024 Ilya Mateyko. All rights reserved.
// Use of this source code is governed by the ISC
// license that can be found in the LICENSE.md file.

package main

import (
	"context"
	"flag"
	"fmt"

	"go.astrophena.name/devsite/internal/cli"
	"go.astrophena.name/devsite/internal/cli/envflag"
	"go.astrophena.name/devsite/internal/config"
	"go.astrophena.name/devsite/internal/devserver"
)

func main() { cli.Main(new(app)) }

type app struct {
	cfg        devserver.Config
	noBrowser  bool
	configFile *string

	// used in tests
	serve func(context.Context, devserver.Config) error
}

func (a *app) Flags(fs *flag.FlagSet) {
	a.cfg = devserver.DefaultConfig()
	fs.StringVar(&a.cfg.Host, "host", a.cfg.Host, "Listen on `host`. Empty means all interfaces.")
	fs.IntVar(&a.cfg.BasePort, "port", a.cfg.BasePort, "First `port` to try.")
	fs.IntVar(&a.cfg.MaxTries, "tries", a.cfg.MaxTries, "How many consecutive ports to try.")
	fs.StringVar(&a.cfg.BaseDir, "base", a.cfg.BaseDir, "Look up the static directory in `dir`.")
	fs.StringVar(&a.cfg.StaticDir, "dir", a.cfg.StaticDir, "Serve the site from `dir`.")
	fs.StringVar(&a.cfg.DefaultDocument, "index", a.cfg.DefaultDocument, "Serve `file` for the root path.")
	fs.StringVar(&a.cfg.ImagesPrefix, "images-prefix", a.cfg.ImagesPrefix, "Always serve paths under `prefix` as requested.")
	fs.BoolVar(&a.cfg.FallbackToIndex, "spa", a.cfg.FallbackToIndex, "Serve the default document for paths outside of the images prefix.")
	fs.BoolVar(&a.cfg.Gzip, "gzip", a.cfg.Gzip, "Compress responses.")
	fs.BoolVar(&a.noBrowser, "no-browser", false, "Don't open the site in a browser.")
	fs.DurationVar(&a.cfg.IdleTimeout, "idle", 0, "Stop after `duration` without requests. Zero means never.")
	a.configFile = envflag.Value(fs, "config", "DEVSITE_CONFIG", "", "Load settings from TOML `file`.")
}

func (a *app) Run(ctx context.Context) error {
	env := cli.GetEnv(ctx)

	if len(env.Args) > 0 {
		return fmt.Errorf("%w: unexpected arguments %q", cli.ErrInvalidArgs, env.Args)
	}

	if *a.configFile != "" {
		f, err := config.Load(*a.configFile)
		if err != nil {
			return err
		}
		f.Server.Apply(&a.cfg, env.FlagWasSet)
	}
	if a.noBrowser {
		a.cfg.OpenBrowser = false
	}
	a.cfg.Stdout = env.Stdout

	serve := a.serve
	if serve == nil {
		serve = devserver.Run
	}
	return serve(ctx, a.cfg)
}
