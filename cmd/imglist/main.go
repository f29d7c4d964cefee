// © 2024 Ilya Mateyko. All rights reserved.
// Use of this source code is governed by the ISC
// license that can be found in the LICENSE.md file.

package main

import (
	"context"
	"flag"
	"fmt"
	"strings"

	"go.astrophena.name/devsite/internal/cli"
	"go.astrophena.name/devsite/internal/cli/envflag"
	"go.astrophena.name/devsite/internal/config"
	"go.astrophena.name/devsite/internal/imagelist"
)

func main() { cli.Main(new(app)) }

type app struct {
	cfg        imagelist.Config
	exts       string
	check      bool
	configFile *string
}

func (a *app) Flags(fs *flag.FlagSet) {
	a.cfg = imagelist.DefaultConfig()
	fs.StringVar(&a.cfg.ImagesDir, "images", a.cfg.ImagesDir, "Look for images in `dir`.")
	fs.StringVar(&a.cfg.ScriptFile, "script", a.cfg.ScriptFile, "Update the imageUrls declaration in `file`.")
	fs.StringVar(&a.exts, "ext", strings.Join(imagelist.DefaultExtensions, ","), "Comma-separated `list` of image extensions.")
	fs.BoolVar(&a.cfg.Backup, "backup", false, "Keep the previous version of the script file.")
	fs.BoolVar(&a.cfg.DryRun, "dry", false, "Print the new declaration instead of writing it.")
	fs.BoolVar(&a.check, "check", false, "Don't write anything, fail if the script file is out of date.")
	a.configFile = envflag.Value(fs, "config", "DEVSITE_CONFIG", "", "Load settings from TOML `file`.")
}

func (a *app) Run(ctx context.Context) error {
	env := cli.GetEnv(ctx)

	if len(env.Args) > 0 {
		return fmt.Errorf("%w: unexpected arguments %q", cli.ErrInvalidArgs, env.Args)
	}

	a.cfg.Extensions = imagelist.ParseExtensions(a.exts)
	if *a.configFile != "" {
		f, err := config.Load(*a.configFile)
		if err != nil {
			return err
		}
		f.Images.Apply(&a.cfg, env.FlagWasSet)
	}
	if len(a.cfg.Extensions) == 0 {
		return fmt.Errorf("%w: no image extensions", cli.ErrInvalidArgs)
	}
	if a.check {
		a.cfg.DryRun = true
	}

	res, err := imagelist.Regenerate(ctx, a.cfg)
	if err != nil {
		return err
	}

	switch {
	case a.check:
		if res.Changed {
			return fmt.Errorf("%w: run imglist to update '%s'", imagelist.ErrOutOfDate, a.cfg.ScriptFile)
		}
		fmt.Fprintf(env.Stdout, "'%s' is up to date with %d images.\n", a.cfg.ScriptFile, len(res.Images))
	case a.cfg.DryRun:
		fmt.Fprintln(env.Stdout, imagelist.Statement(res.Images))
	default:
		fmt.Fprintf(env.Stdout, "Successfully updated '%s' with %d images.\n", a.cfg.ScriptFile, len(res.Images))
	}
	return nil
}
