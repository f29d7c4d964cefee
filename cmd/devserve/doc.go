// © 2024 Ilya Mateyko. All rights reserved.
// Use of this source code is governed by the ISC
// license that can be found in the LICENSE.md file.

/*
Devserve serves a static site for local development.

It binds the first free port starting from 8000, opens the site in the
default browser and serves files until interrupted with Ctrl+C.

Requests are mapped onto the static directory like this:

  - / serves index.html;
  - paths under /images are served as requested;
  - other paths are served as requested too, unless -spa is given, in which
    case index.html is served instead.

With -idle, the server stops by itself once no requests were received for the
given duration.

The static directory is looked up next to the devserve executable first and
in the working directory otherwise. Use -base to pick another location.

Settings can also be loaded from a TOML file given with -config:

	[server]
	port = 8080
	static_dir = "public"
	fallback_to_index = true

Flags given on the command line take precedence over the file.

# Usage

	$ devserve [flags...]
*/
package main

import (
	_ "embed"

	"go.astrophena.name/devsite/internal/cli"
)

//go:embed doc.go
var doc []byte

func init() { cli.SetDocComment(doc) }
