// © 2024 Ilya Mateyko. All rights reserved.
// Use of this source code is governed by the ISC
// license that can be found in the LICENSE.md file.

package devserver

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"go.astrophena.name/devsite/internal/idle"
	"go.astrophena.name/devsite/internal/logger"
	"go.astrophena.name/devsite/internal/web"

	"github.com/pkg/browser"
)

const rule = "---------------------------------------------------"

// Run starts the development server and blocks until ctx is canceled or, if
// cfg.IdleTimeout is set, until the server has been idle for that long.
//
// If every port in the configured range is in use, Run returns a
// [*web.PortRangeError] without binding anything. Other errors from binding a
// port are returned as is. Failing to open a browser is reported to the user
// and otherwise ignored.
func Run(ctx context.Context, cfg Config) error {
	if err := cfg.validate(); err != nil {
		return err
	}
	out := cfg.Stdout
	if out == nil {
		out = io.Discard
	}
	browse := cfg.Browse
	if browse == nil {
		browse = browser.OpenURL
	}

	root, err := ResolveRoot(cfg)
	if err != nil {
		return err
	}

	lc := &web.ListenConfig{
		Host:     cfg.Host,
		BasePort: cfg.BasePort,
		MaxTries: cfg.MaxTries,
		Busy: func(port int) {
			fmt.Fprintf(out, "Port %d is busy, trying port %d...\n", port, port+1)
		},
	}
	l, err := lc.Listen(ctx)
	if err != nil {
		return err
	}

	port := web.ListenerPort(l)
	url := fmt.Sprintf("http://localhost:%d", port)
	logger.Info(ctx, "listening", slog.String("addr", l.Addr().String()), slog.String("root", root))
	fmt.Fprintf(out, "Successfully started server on %s\n", url)

	if cfg.OpenBrowser {
		fmt.Fprintln(out, "Opening in your default browser...")
		if err := browse(url); err != nil {
			logger.Debug(ctx, "opening browser failed", slog.Any("err", err))
			printBox(out,
				"Could not automatically open your browser.",
				"Please manually open this URL: "+url,
			)
		}
	}

	printBox(out,
		"Your project is now running.",
		"Keep this terminal window open to keep it running.",
		"To stop the server, close this window or press Ctrl+C.",
	)

	serveCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	tracker := idle.NewTracker(cfg.IdleTimeout, cancel)
	tracker.Run(serveCtx)

	if err := web.ListenAndServe(serveCtx, &web.ListenAndServeConfig{
		Listener: l,
		Handler:  tracker.Handler(Handler(root, cfg)),
		Logf: func(format string, args ...any) {
			logger.Warn(ctx, strings.TrimSuffix(fmt.Sprintf(format, args...), "\n"))
		},
		Ready: func() {
			if cfg.Ready != nil {
				cfg.Ready(url)
			}
		},
	}); err != nil {
		return err
	}

	if tracker.Expired() {
		fmt.Fprintf(out, "\nNo requests for %v.", cfg.IdleTimeout)
	}
	fmt.Fprintln(out, "\nServer stopped.")
	return nil
}

func printBox(w io.Writer, lines ...string) {
	fmt.Fprintf(w, "\n%s\n", rule)
	for _, line := range lines {
		fmt.Fprintln(w, line)
	}
	fmt.Fprintf(w, "%s\n\n", rule)
}
