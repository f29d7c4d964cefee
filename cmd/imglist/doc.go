// © 2024 Ilya Mateyko. All rights reserved.
// Use of this source code is governed by the ISC
// license that can be found in the LICENSE.md file.

/*
Imglist updates the list of images embedded in a script file.

It scans the images directory for files with known image extensions and
replaces the first declaration of the form

	const imageUrls = [ ... ];

in the script file with one listing every image found, sorted by file name.
Run it after adding or removing images and before starting devserve.

With -dry the new declaration is printed instead of written. With -check
nothing is written and imglist fails if the script file is out of date,
which is useful in CI.

Settings can also be loaded from the [images] table of a TOML file given
with -config:

	[images]
	dir = "static/images"
	script = "static/script.js"
	extensions = [".png", ".svg"]

# Usage

	$ imglist [flags...]
*/
package main

import (
	_ "embed"

	"go.astrophena.name/devsite/internal/cli"
)

//go:embed doc.go
var doc []byte

func init() { cli.SetDocComment(doc) }
