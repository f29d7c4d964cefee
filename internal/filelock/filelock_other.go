// © 2026 Ilya Mateyko. All rights reserved.
// Use of this source code is governed by the ISC
// license that can be found in the LICENSE.md file.

//go:build !unix && !windows

package filelock

import "os"

// Locking isn't supported here, so every Acquire succeeds.

func lock(*os.File) error     { return nil }
func unlock(*os.File) error   { return nil }
func isWouldBlock(error) bool { return false }
