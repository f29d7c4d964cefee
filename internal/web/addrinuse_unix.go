// © 2024 Ilya Mateyko. All rights reserved.
// Use of this source code is governed by the ISC
// license that can be found in the LICENSE.md file.

//go:build unix

package web

import (
	"errors"

	"golang.org/x/sys/unix"
)

func isAddrInUse(err error) bool { return errors.Is(err, unix.EADDRINUSE) }
