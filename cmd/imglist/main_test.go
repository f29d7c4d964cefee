// © 2024 Ilya Mateyko. All rights reserved.
// Use of this source code is governed by the ISC
// license that can be found in the LICENSE.md file.

package main

import (
	"flag"
	"os"
	"path/filepath"
	"testing"

	"go.astrophena.name/devsite/internal/cli"
	"go.astrophena.name/devsite/internal/cli/clitest"
	"go.astrophena.name/devsite/internal/config"
	"go.astrophena.name/devsite/internal/imagelist"
	"go.astrophena.name/devsite/internal/testutil"
)

const staleScript = `const imageUrls = [
    'images/old.png'
];
`

// site creates a directory with images and a script file and returns paths
// to both.
func site(t *testing.T, images ...string) (imagesDir, script string) {
	t.Helper()
	dir := t.TempDir()
	files := map[string]string{"script.js": staleScript}
	for _, img := range images {
		files["images/"+img] = ""
	}
	testutil.WriteFiles(t, dir, files)
	imagesDir = filepath.Join(dir, "images")
	if err := os.MkdirAll(imagesDir, 0o755); err != nil {
		t.Fatal(err)
	}
	return imagesDir, filepath.Join(dir, "script.js")
}

func readFile(t *testing.T, name string) string {
	t.Helper()
	b, err := os.ReadFile(name)
	if err != nil {
		t.Fatal(err)
	}
	return string(b)
}

func TestRun(t *testing.T) {
	t.Parallel()

	updImages, updScript := site(t, "b.png", "a.jpg", "notes.txt")
	dryImages, dryScript := site(t, "a.png")
	staleImages, staleScriptFile := site(t, "a.png")
	freshImages, freshScript := site(t)
	extImages, extScript := site(t, "a.png", "b.svg")
	cfgImages, cfgScript := site(t, "a.png", "b.svg")
	noPatternImages, noPatternScript := site(t, "a.png")
	if err := os.WriteFile(noPatternScript, []byte("const urls = [];\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(freshScript, []byte("const imageUrls = [];\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	cfgFile := filepath.Join(t.TempDir(), "devsite.toml")
	testutil.WriteFiles(t, filepath.Dir(cfgFile), map[string]string{
		"devsite.toml": "[images]\ndir = '" + filepath.ToSlash(cfgImages) + "'\nscript = '" + filepath.ToSlash(cfgScript) + "'\nextensions = ['svg']\n",
		"bad.toml":     "[images]\nscripts = 'x.js'\n",
	})
	badCfgFile := filepath.Join(filepath.Dir(cfgFile), "bad.toml")

	clitest.Run(t, func(t *testing.T) *app {
		return new(app)
	}, map[string]clitest.Case[*app]{
		"prints usage with help flag": {
			Args:    []string{"-h"},
			WantErr: flag.ErrHelp,
		},
		"version": {
			Args:    []string{"-version"},
			WantErr: cli.ErrExitVersion,
		},
		"unexpected arguments": {
			Args:    []string{"images"},
			WantErr: cli.ErrInvalidArgs,
		},
		"no extensions": {
			Args:    []string{"-ext", ","},
			WantErr: cli.ErrInvalidArgs,
		},
		"updates script": {
			Args:       []string{"-images", updImages, "-script", updScript},
			WantStdout: "Successfully updated '" + updScript + "' with 2 images.\n",
			CheckFunc: func(t *testing.T, _ *app) {
				prefix := filepath.ToSlash(updImages)
				want := "const imageUrls = [\n        '" + prefix + "/a.jpg',\n        '" + prefix + "/b.png'\n    ];\n"
				testutil.AssertEqual(t, readFile(t, updScript), want)
			},
		},
		"dry run": {
			Args:       []string{"-images", dryImages, "-script", dryScript, "-dry"},
			WantStdout: "const imageUrls = [\n        '" + filepath.ToSlash(dryImages) + "/a.png'\n    ];\n",
			CheckFunc: func(t *testing.T, _ *app) {
				testutil.AssertEqual(t, readFile(t, dryScript), staleScript)
			},
		},
		"check fails when out of date": {
			Args:    []string{"-images", staleImages, "-script", staleScriptFile, "-check"},
			WantErr: imagelist.ErrOutOfDate,
			CheckFunc: func(t *testing.T, _ *app) {
				testutil.AssertEqual(t, readFile(t, staleScriptFile), staleScript)
			},
		},
		"check passes when up to date": {
			Args:         []string{"-images", freshImages, "-script", freshScript, "-check"},
			WantInStdout: "is up to date with 0 images.",
		},
		"custom extensions": {
			Args:         []string{"-images", extImages, "-script", extScript, "-ext", "svg"},
			WantInStdout: "with 1 images.",
			CheckFunc: func(t *testing.T, _ *app) {
				want := "const imageUrls = [\n        '" + filepath.ToSlash(extImages) + "/b.svg'\n    ];\n"
				testutil.AssertEqual(t, readFile(t, extScript), want)
			},
		},
		"config file from environment": {
			Env:          map[string]string{"DEVSITE_CONFIG": cfgFile},
			WantInStdout: "Successfully updated '" + cfgScript + "' with 1 images.\n",
		},
		"unknown keys in config file": {
			Args:    []string{"-config", badCfgFile},
			WantErr: config.ErrUnknownKeys,
		},
		"missing images directory": {
			Args:    []string{"-images", filepath.Join(t.TempDir(), "images"), "-script", updScript},
			WantErr: imagelist.ErrImagesDirNotFound,
		},
		"missing script": {
			Args:    []string{"-images", updImages, "-script", filepath.Join(t.TempDir(), "script.js")},
			WantErr: imagelist.ErrScriptNotFound,
		},
		"missing declaration": {
			Args:    []string{"-images", noPatternImages, "-script", noPatternScript},
			WantErr: imagelist.ErrPatternNotFound,
			CheckFunc: func(t *testing.T, _ *app) {
				testutil.AssertEqual(t, readFile(t, noPatternScript), "const urls = [];\n")
			},
		},
	})
}
