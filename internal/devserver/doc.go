// © 2024 Ilya Mateyko. All rights reserved.
// Use of this source code is governed by the ISC
// license that can be found in the LICENSE.md file.

// Package devserver implements a local development server for a static site.
//
// [Run] binds the first free port in a small range, opens the site in the
// default browser and serves files from the static root until its context is
// canceled.
//
// # Path translation
//
// Every request path is mapped onto the static root by [TranslatePath]:
//
//   - "/" is served from the default document (index.html).
//   - Paths starting with the images prefix (/images) are served as requested.
//   - Any other path is also served as requested, unless
//     [Config.FallbackToIndex] is set, in which case the default document is
//     served instead. The literal behavior is the default because that's what
//     existing sites built for this server expect.
package devserver
