// © 2024 Ilya Mateyko. All rights reserved.
// Use of this source code is governed by the ISC
// license that can be found in the LICENSE.md file.

package cli

import (
	"bytes"
	"context"
	"errors"
	"flag"
	"fmt"
	"strings"
	"testing"

	"go.astrophena.name/devsite/internal/logger"
	"go.astrophena.name/devsite/internal/testutil"
)

type testApp struct {
	name    string
	ran     bool
	nameSet bool
}

func (a *testApp) Flags(fs *flag.FlagSet) {
	fs.StringVar(&a.name, "name", "world", "Who to greet.")
}

func (a *testApp) Run(ctx context.Context) error {
	a.ran = true
	env := GetEnv(ctx)
	a.nameSet = env.FlagWasSet("name")
	fmt.Fprintf(env.Stdout, "Hello, %s!\n", a.name)
	logger.Debug(ctx, "greeted")
	return nil
}

func TestRun(t *testing.T) {
	cases := map[string]struct {
		args         []string
		wantErr      error
		wantStdout   string
		wantInStderr string
		wantNameSet  bool
		wantRan      bool
	}{
		"default flags": {
			wantStdout: "Hello, world!\n",
			wantRan:    true,
		},
		"flag set": {
			args:        []string{"-name", "gopher"},
			wantStdout:  "Hello, gopher!\n",
			wantNameSet: true,
			wantRan:     true,
		},
		"verbose logging": {
			args:         []string{"-v"},
			wantStdout:   "Hello, world!\n",
			wantInStderr: "msg=greeted",
			wantRan:      true,
		},
		"version": {
			args:    []string{"-version"},
			wantErr: ErrExitVersion,
		},
		"help": {
			args:         []string{"-h"},
			wantErr:      flag.ErrHelp,
			wantInStderr: "Available flags:",
		},
	}

	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			var stdout, stderr bytes.Buffer
			app := new(testApp)
			err := Run(WithEnv(context.Background(), &Env{
				Args:   tc.args,
				Stdout: &stdout,
				Stderr: &stderr,
			}), app)

			if tc.wantErr != nil {
				if !errors.Is(err, tc.wantErr) {
					t.Fatalf("want error %v, got %v", tc.wantErr, err)
				}
			} else if err != nil {
				t.Fatal(err)
			}

			testutil.AssertEqual(t, stdout.String(), tc.wantStdout)
			testutil.AssertEqual(t, app.ran, tc.wantRan)
			testutil.AssertEqual(t, app.nameSet, tc.wantNameSet)
			if !strings.Contains(stderr.String(), tc.wantInStderr) {
				t.Errorf("stderr must contain %q, got %q", tc.wantInStderr, stderr.String())
			}
		})
	}
}

func TestIsPrintableError(t *testing.T) {
	cases := map[string]struct {
		err  error
		want bool
	}{
		"plain":        {err: errors.New("boom"), want: true},
		"invalid args": {err: fmt.Errorf("%w: need a dir", ErrInvalidArgs), want: true},
		"help":         {err: flag.ErrHelp, want: false},
		"version":      {err: ErrExitVersion, want: false},
		"wrapped help": {err: &unprintableError{flag.ErrHelp}, want: false},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			testutil.AssertEqual(t, isPrintableError(tc.err), tc.want)
		})
	}
}

func TestGetEnvWithoutEnv(t *testing.T) {
	env := GetEnv(context.Background())
	// Must not panic.
	env.Logger().Info("nothing")
	fmt.Fprintln(env.Stdout, "discarded")
	testutil.AssertEqual(t, env.getenv("HOME"), "")
}

func TestParseDocComment(t *testing.T) {
	old := docSrc
	t.Cleanup(func() { docSrc = old })

	docSrc = []byte(`// header

/*
Tool does things.

# Usage

	$ tool
*/
package main
`)
	want := "Tool does things.\n\n# Usage\n\n\t$ tool\n"
	testutil.AssertEqual(t, parseDocComment(), want)
}
