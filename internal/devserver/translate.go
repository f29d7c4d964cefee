// © 2024 Ilya Mateyko. All rights reserved.
// Use of this source code is governed by the ISC
// license that can be found in the LICENSE.md file.

package devserver

import (
	"path/filepath"
	"strings"

	securejoin "github.com/cyphar/filepath-securejoin"
)

// TranslatePath maps the URL path reqPath onto a file under root.
//
// The result always stays inside root, even for paths with ".." elements or
// symlinks pointing outside of it.
func TranslatePath(root, reqPath string, cfg Config) (string, error) {
	p := reqPath
	switch {
	case p == "/" || p == "":
		p = "/" + cfg.DefaultDocument
	case cfg.ImagesPrefix != "" && strings.HasPrefix(p, cfg.ImagesPrefix):
		// Served as requested.
	case cfg.FallbackToIndex:
		p = "/" + cfg.DefaultDocument
	}
	return securejoin.SecureJoin(root, filepath.FromSlash(strings.TrimLeft(p, "/")))
}
