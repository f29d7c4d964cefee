// © 2024 Ilya Mateyko. All rights reserved.
// Use of this source code is governed by the ISC
// license that can be found in the LICENSE.md file.

package main

import (
	"context"
	"flag"
	"fmt"
	"io/fs"
	"net"
	"strconv"
	"testing"
	"time"

	"go.astrophena.name/devsite/internal/cli"
	"go.astrophena.name/devsite/internal/cli/clitest"
	"go.astrophena.name/devsite/internal/config"
	"go.astrophena.name/devsite/internal/devserver"
	"go.astrophena.name/devsite/internal/testutil"
	"go.astrophena.name/devsite/internal/web"
)

type fakeServer struct {
	*app
	got *devserver.Config
}

func TestRun(t *testing.T) {
	t.Parallel()

	clitest.Run(t, func(t *testing.T) *fakeServer {
		s := &fakeServer{app: new(app)}
		s.serve = func(_ context.Context, cfg devserver.Config) error {
			s.got = &cfg
			return nil
		}
		return s
	}, map[string]clitest.Case[*fakeServer]{
		"prints usage with help flag": {
			Args:    []string{"-h"},
			WantErr: flag.ErrHelp,
		},
		"version": {
			Args:    []string{"-version"},
			WantErr: cli.ErrExitVersion,
		},
		"unexpected arguments": {
			Args:    []string{"static"},
			WantErr: cli.ErrInvalidArgs,
		},
		"defaults": {
			Args: []string{},
			CheckFunc: func(t *testing.T, s *fakeServer) {
				want := devserver.DefaultConfig()
				testutil.AssertEqual(t, s.got.BasePort, want.BasePort)
				testutil.AssertEqual(t, s.got.MaxTries, want.MaxTries)
				testutil.AssertEqual(t, s.got.StaticDir, want.StaticDir)
				testutil.AssertEqual(t, s.got.FallbackToIndex, false)
				testutil.AssertEqual(t, s.got.Gzip, true)
				testutil.AssertEqual(t, s.got.OpenBrowser, true)
				if s.got.Stdout == nil {
					t.Error("Stdout isn't set")
				}
			},
		},
		"flags": {
			Args: []string{"-host", "127.0.0.1", "-port", "3000", "-tries", "3", "-dir", "public", "-spa", "-gzip=false", "-no-browser", "-idle", "10m"},
			CheckFunc: func(t *testing.T, s *fakeServer) {
				testutil.AssertEqual(t, s.got.Host, "127.0.0.1")
				testutil.AssertEqual(t, s.got.BasePort, 3000)
				testutil.AssertEqual(t, s.got.MaxTries, 3)
				testutil.AssertEqual(t, s.got.StaticDir, "public")
				testutil.AssertEqual(t, s.got.FallbackToIndex, true)
				testutil.AssertEqual(t, s.got.Gzip, false)
				testutil.AssertEqual(t, s.got.OpenBrowser, false)
				testutil.AssertEqual(t, s.got.IdleTimeout, 10*time.Minute)
			},
		},
		"config file": {
			Args: []string{"-config", "testdata/devsite.toml"},
			CheckFunc: func(t *testing.T, s *fakeServer) {
				testutil.AssertEqual(t, s.got.BasePort, 9000)
				testutil.AssertEqual(t, s.got.MaxTries, 5)
				testutil.AssertEqual(t, s.got.StaticDir, "public")
				testutil.AssertEqual(t, s.got.FallbackToIndex, true)
				testutil.AssertEqual(t, s.got.Gzip, false)
				testutil.AssertEqual(t, s.got.OpenBrowser, false)
				testutil.AssertEqual(t, s.got.IdleTimeout, 30*time.Minute)
			},
		},
		"config file from environment": {
			Args: []string{"-port", "4000"},
			Env:  map[string]string{"DEVSITE_CONFIG": "testdata/devsite.toml"},
			CheckFunc: func(t *testing.T, s *fakeServer) {
				testutil.AssertEqual(t, s.got.BasePort, 4000)
				testutil.AssertEqual(t, s.got.MaxTries, 5)
				testutil.AssertEqual(t, s.got.StaticDir, "public")
			},
		},
		"flags override config file": {
			Args: []string{"-config", "testdata/devsite.toml", "-dir", "static", "-tries", "1", "-gzip"},
			CheckFunc: func(t *testing.T, s *fakeServer) {
				testutil.AssertEqual(t, s.got.BasePort, 9000)
				testutil.AssertEqual(t, s.got.MaxTries, 1)
				testutil.AssertEqual(t, s.got.StaticDir, "static")
				testutil.AssertEqual(t, s.got.Gzip, true)
			},
		},
		"missing config file": {
			Args:    []string{"-config", "testdata/nonexistent.toml"},
			WantErr: fs.ErrNotExist,
		},
		"unknown keys in config file": {
			Args:    []string{"-config", "testdata/unknown.toml"},
			WantErr: config.ErrUnknownKeys,
		},
	})
}

func TestServe(t *testing.T) {
	t.Parallel()

	l, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { l.Close() })
	busy := strconv.Itoa(web.ListenerPort(l))

	clitest.Run(t, func(t *testing.T) *app {
		return new(app)
	}, map[string]clitest.Case[*app]{
		"missing static directory": {
			Args:               []string{"-base", "testdata/site", "-dir", "nonexistent", "-no-browser"},
			WantErr:            devserver.ErrNoStaticRoot,
			WantNothingPrinted: true,
		},
		"invalid port range": {
			Args:    []string{"-port", "65535", "-tries", "2", "-no-browser"},
			WantErr: devserver.ErrInvalidConfig,
		},
		"all ports are busy": {
			Args:         []string{"-host", "127.0.0.1", "-port", busy, "-tries", "1", "-base", "testdata/site", "-no-browser"},
			WantErr:      web.ErrNoFreePort,
			WantErrType:  (*web.PortRangeError)(nil),
			WantInStdout: fmt.Sprintf("Port %s is busy", busy),
		},
	})
}
