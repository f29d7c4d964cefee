// © 2024 Ilya Mateyko. All rights reserved.
// Use of this source code is governed by the ISC
// license that can be found in the LICENSE.md file.

package devserver

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"syscall"
	"time"

	"go.astrophena.name/devsite/internal/logger"
	"go.astrophena.name/devsite/internal/web"

	"github.com/NYTimes/gziphandler"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Handler returns the HTTP handler that serves the static root.
func Handler(root string, cfg Config) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(logRequests)
	r.Use(middleware.Recoverer)
	if cfg.Gzip {
		r.Use(gziphandler.GzipHandler)
	}

	s := &static{root: root, cfg: cfg}
	for _, pattern := range []string{"/", "/*"} {
		r.Get(pattern, s.ServeHTTP)
		r.Head(pattern, s.ServeHTTP)
	}
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		web.RespondError(w, r, web.ErrMethodNotAllowed)
	})
	return r
}

type static struct {
	root string
	cfg  Config
}

func (s *static) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	p, err := TranslatePath(s.root, r.URL.Path, s.cfg)
	if err != nil {
		web.RespondError(w, r, fmt.Errorf("%w: %v", web.ErrBadRequest, err))
		return
	}

	f, fi, err := open(p)
	if err == nil && fi.IsDir() {
		// Directories are served through their default document, if any.
		f.Close()
		f, fi, err = open(filepath.Join(p, s.cfg.DefaultDocument))
		if err == nil && fi.IsDir() {
			f.Close()
			err = fs.ErrNotExist
		}
	}
	if err != nil {
		s.respondOpenError(w, r, err)
		return
	}
	defer f.Close()

	http.ServeContent(w, r, fi.Name(), fi.ModTime(), f)
}

func open(name string) (*os.File, fs.FileInfo, error) {
	f, err := os.Open(name)
	if err != nil {
		return nil, nil, err
	}
	fi, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, nil, err
	}
	return f, fi, nil
}

func (s *static) respondOpenError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, fs.ErrNotExist), errors.Is(err, syscall.ENOTDIR):
		web.RespondError(w, r, web.ErrNotFound)
	case errors.Is(err, fs.ErrPermission):
		web.RespondError(w, r, web.ErrForbidden)
	default:
		web.RespondError(w, r, fmt.Errorf("opening %s: %w", r.URL.Path, err))
	}
}

func logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		defer func() {
			logger.Info(r.Context(), "request",
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
				slog.Int("status", ww.Status()),
				slog.Int("bytes", ww.BytesWritten()),
				slog.Duration("took", time.Since(start)),
				slog.String("remote", r.RemoteAddr),
				slog.String("id", middleware.GetReqID(r.Context())),
			)
		}()
		next.ServeHTTP(ww, r)
	})
}
