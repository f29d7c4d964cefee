// © 2024 Ilya Mateyko. All rights reserved.
// Use of this source code is governed by the ISC
// license that can be found in the LICENSE.md file.

package web

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strconv"
)

// ErrNoFreePort is returned (wrapped in a [*PortRangeError]) by
// [ListenConfig.Listen] when every port in the range is already in use.
var ErrNoFreePort = errors.New("no free port")

// PortRangeError reports that no port in [Base, Base+Tries) could be bound
// because all of them were in use.
type PortRangeError struct {
	Base  int
	Tries int
}

func (e *PortRangeError) Error() string {
	return fmt.Sprintf("could not find a free port between %d and %d", e.Base, e.Base+e.Tries-1)
}

// Unwrap returns [ErrNoFreePort].
func (e *PortRangeError) Unwrap() error { return ErrNoFreePort }

// ListenConfig describes a range of TCP ports to listen on.
type ListenConfig struct {
	// Host is the host to bind. Empty means all interfaces.
	Host string
	// BasePort is the first port tried.
	BasePort int
	// MaxTries is the number of consecutive ports tried, starting from
	// BasePort.
	MaxTries int
	// Busy, if not nil, is called for every port that is already in use
	// before the next one is tried.
	Busy func(port int)
}

// used in tests
var listen = func(ctx context.Context, network, addr string) (net.Listener, error) {
	var lc net.ListenConfig
	return lc.Listen(ctx, network, addr)
}

// Listen binds the first free port in the configured range.
//
// Only "address already in use" errors move on to the next port. Any other
// error is returned immediately. If the whole range is busy, Listen returns a
// [*PortRangeError] and no listener is left open.
func (c *ListenConfig) Listen(ctx context.Context) (net.Listener, error) {
	for port := c.BasePort; port < c.BasePort+c.MaxTries; port++ {
		l, err := listen(ctx, "tcp", net.JoinHostPort(c.Host, strconv.Itoa(port)))
		if err == nil {
			return l, nil
		}
		if !isAddrInUse(err) {
			return nil, err
		}
		if c.Busy != nil {
			c.Busy(port)
		}
	}
	return nil, &PortRangeError{Base: c.BasePort, Tries: c.MaxTries}
}

// ListenerPort returns the TCP port l is bound to, or 0 if l isn't a TCP
// listener.
func ListenerPort(l net.Listener) int {
	if addr, ok := l.Addr().(*net.TCPAddr); ok {
		return addr.Port
	}
	return 0
}
