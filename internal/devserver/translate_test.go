// © 2024 Ilya Mateyko. All rights reserved.
// Use of this source code is governed by the ISC
// license that can be found in the LICENSE.md file.

package devserver

import (
	"path/filepath"
	"testing"

	"go.astrophena.name/devsite/internal/testutil"
)

func TestTranslatePath(t *testing.T) {
	root := t.TempDir()

	cases := map[string]struct {
		path     string
		fallback bool
		want     string
	}{
		"root": {
			path: "/",
			want: "index.html",
		},
		"root with fallback": {
			path:     "/",
			fallback: true,
			want:     "index.html",
		},
		"image": {
			path: "/images/foo.png",
			want: "images/foo.png",
		},
		"image with fallback": {
			path:     "/images/foo.png",
			fallback: true,
			want:     "images/foo.png",
		},
		"images prefix without slash": {
			path: "/imagesets/a.png",
			want: "imagesets/a.png",
		},
		"other path is served literally": {
			path: "/style.css",
			want: "style.css",
		},
		"nested path is served literally": {
			path: "/js/app/main.js",
			want: "js/app/main.js",
		},
		"other path with fallback": {
			path:     "/style.css",
			fallback: true,
			want:     "index.html",
		},
		"parent references stay inside root": {
			path: "/../../etc/passwd",
			want: "etc/passwd",
		},
		"parent references inside images stay inside root": {
			path: "/images/../../secret.txt",
			want: "secret.txt",
		},
	}

	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			cfg := DefaultConfig()
			cfg.FallbackToIndex = tc.fallback

			got, err := TranslatePath(root, tc.path, cfg)
			if err != nil {
				t.Fatal(err)
			}
			testutil.AssertEqual(t, got, filepath.Join(root, filepath.FromSlash(tc.want)))
		})
	}
}

func TestTranslatePathCustomConfig(t *testing.T) {
	root := t.TempDir()
	cfg := DefaultConfig()
	cfg.DefaultDocument = "home.html"
	cfg.ImagesPrefix = "/img"
	cfg.FallbackToIndex = true

	got, err := TranslatePath(root, "/", cfg)
	if err != nil {
		t.Fatal(err)
	}
	testutil.AssertEqual(t, got, filepath.Join(root, "home.html"))

	got, err = TranslatePath(root, "/img/cat.gif", cfg)
	if err != nil {
		t.Fatal(err)
	}
	testutil.AssertEqual(t, got, filepath.Join(root, "img", "cat.gif"))

	got, err = TranslatePath(root, "/images/cat.gif", cfg)
	if err != nil {
		t.Fatal(err)
	}
	testutil.AssertEqual(t, got, filepath.Join(root, "home.html"))
}
