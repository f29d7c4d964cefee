// © 2024 Ilya Mateyko. All rights reserved.
// Use of this source code is governed by the ISC
// license that can be found in the LICENSE.md file.

package devserver

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"time"
)

// Defaults.
const (
	DefaultBasePort        = 8000
	DefaultMaxTries        = 20
	DefaultStaticDir       = "static"
	DefaultDefaultDocument = "index.html"
	DefaultImagesPrefix    = "/images"
)

// Config configures the development server.
type Config struct {
	// Host is the host to bind. Empty means all interfaces.
	Host string
	// BasePort is the first port tried.
	BasePort int
	// MaxTries is the number of consecutive ports tried.
	MaxTries int
	// BaseDir is the directory StaticDir is relative to. If empty, it's the
	// directory of the running executable when that directory contains
	// StaticDir, and the working directory otherwise.
	BaseDir string
	// StaticDir is the directory with the site.
	StaticDir string
	// DefaultDocument is served for the root path.
	DefaultDocument string
	// ImagesPrefix is the path prefix that is always served as requested.
	ImagesPrefix string
	// FallbackToIndex makes paths other than the root and the images prefix
	// serve the default document.
	FallbackToIndex bool
	// Gzip enables compression of responses.
	Gzip bool
	// OpenBrowser makes Run open the site in the default browser.
	OpenBrowser bool
	// IdleTimeout, if positive, stops the server once no requests were
	// received for that long.
	IdleTimeout time.Duration

	// Stdout receives messages for the user. If nil, they are discarded.
	Stdout io.Writer
	// Browse opens url in a browser. If nil, the system default browser is
	// used.
	Browse func(url string) error
	// Ready, if not nil, is called with the site URL once the server accepts
	// connections.
	Ready func(url string)
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		BasePort:        DefaultBasePort,
		MaxTries:        DefaultMaxTries,
		StaticDir:       DefaultStaticDir,
		DefaultDocument: DefaultDefaultDocument,
		ImagesPrefix:    DefaultImagesPrefix,
		Gzip:            true,
		OpenBrowser:     true,
	}
}

var (
	// ErrInvalidConfig is returned when the configuration can't be used.
	ErrInvalidConfig = errors.New("invalid configuration")
	// ErrNoStaticRoot is returned when the static root doesn't exist or isn't
	// a directory.
	ErrNoStaticRoot = errors.New("static directory not found")
)

func (c *Config) validate() error {
	switch {
	case c.BasePort < 0 || c.BasePort > 65535:
		return fmt.Errorf("%w: port %d is out of range", ErrInvalidConfig, c.BasePort)
	case c.MaxTries < 1:
		return fmt.Errorf("%w: number of ports to try must be positive, got %d", ErrInvalidConfig, c.MaxTries)
	case c.BasePort+c.MaxTries-1 > 65535:
		return fmt.Errorf("%w: ports %d-%d are out of range", ErrInvalidConfig, c.BasePort, c.BasePort+c.MaxTries-1)
	case c.StaticDir == "":
		return fmt.Errorf("%w: static directory is empty", ErrInvalidConfig)
	case c.DefaultDocument == "":
		return fmt.Errorf("%w: default document is empty", ErrInvalidConfig)
	case c.IdleTimeout < 0:
		return fmt.Errorf("%w: negative idle timeout %v", ErrInvalidConfig, c.IdleTimeout)
	}
	return nil
}

// used in tests
var executable = os.Executable

// ResolveRoot returns the absolute path of the static root described by cfg.
// It fails with [ErrNoStaticRoot] if the directory doesn't exist.
func ResolveRoot(cfg Config) (string, error) {
	root := cfg.StaticDir
	if !filepath.IsAbs(root) {
		base := cfg.BaseDir
		if base == "" {
			base = defaultBaseDir(cfg.StaticDir)
		}
		root = filepath.Join(base, root)
	}
	root, err := filepath.Abs(root)
	if err != nil {
		return "", err
	}

	fi, err := os.Stat(root)
	if errors.Is(err, fs.ErrNotExist) || (err == nil && !fi.IsDir()) {
		return "", fmt.Errorf("%w: %s", ErrNoStaticRoot, root)
	}
	if err != nil {
		return "", err
	}
	return root, nil
}

func defaultBaseDir(staticDir string) string {
	exe, err := executable()
	if err != nil {
		return "."
	}
	if resolved, err := filepath.EvalSymlinks(exe); err == nil {
		exe = resolved
	}
	dir := filepath.Dir(exe)
	if fi, err := os.Stat(filepath.Join(dir, staticDir)); err == nil && fi.IsDir() {
		return dir
	}
	return "."
}
