// © 2024 Ilya Mateyko. All rights reserved.
// Use of this source code is governed by the ISC
// license that can be found in the LICENSE.md file.

package web

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net"
	"net/http"
	"time"

	"go.astrophena.name/devsite/internal/logger"
)

// ListenAndServeConfig is used to configure the HTTP server started by
// [ListenAndServe].
//
// All fields of ListenAndServeConfig can't be modified after [ListenAndServe]
// is called.
type ListenAndServeConfig struct {
	// Addr is a network address to listen on (in the form of "host:port").
	// It's ignored if Listener is set.
	Addr string
	// Listener is an already bound listener to serve on. ListenAndServe takes
	// ownership of it and closes it on return.
	Listener net.Listener
	// Handler is a http.Handler to serve.
	Handler http.Handler
	// Logf specifies a logger to use. If nil, log.Printf is used.
	Logf logger.Logf
	// Ready, if not nil, is called once the server accepts connections.
	Ready func()
	// ShutdownTimeout limits the time spent waiting for in-flight requests on
	// shutdown. Defaults to 30 seconds.
	ShutdownTimeout time.Duration
}

var (
	errNoAddr     = errors.New("c.Addr is empty and c.Listener is nil")
	errNilHandler = errors.New("c.Handler is nil")
)

// ListenAndServe starts the HTTP server based on the provided
// [ListenAndServeConfig] and serves until ctx is canceled, then shuts the
// server down gracefully.
//
// Request contexts carry the values of ctx, but not its cancelation.
func ListenAndServe(ctx context.Context, c *ListenAndServeConfig) error {
	if c.Logf == nil {
		c.Logf = log.Printf
	}
	if c.ShutdownTimeout == 0 {
		c.ShutdownTimeout = 30 * time.Second
	}
	if c.Handler == nil {
		if c.Listener != nil {
			c.Listener.Close()
		}
		return errNilHandler
	}

	l := c.Listener
	if l == nil {
		if c.Addr == "" {
			return errNoAddr
		}
		var err error
		l, err = net.Listen("tcp", c.Addr)
		if err != nil {
			return fmt.Errorf("failed to listen: %w", err)
		}
	}
	defer l.Close()

	baseCtx := context.WithoutCancel(ctx)
	s := &http.Server{
		ErrorLog:          log.New(c.Logf, "", 0),
		Handler:           c.Handler,
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return baseCtx },
	}

	errCh := make(chan error, 1)

	go func() {
		if err := s.Serve(l); err != nil {
			if !errors.Is(err, http.ErrServerClosed) {
				errCh <- err
			}
		}
	}()

	if c.Ready != nil {
		c.Ready()
	}

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), c.ShutdownTimeout)
		defer cancel()

		if err := s.Shutdown(shutdownCtx); err != nil {
			return err
		}
	}

	return nil
}
