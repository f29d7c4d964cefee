// © 2024 Ilya Mateyko. All rights reserved.
// Use of this source code is governed by the ISC
// license that can be found in the LICENSE.md file.

// Package imagelist keeps the list of images embedded in a script file in sync
// with the contents of an images directory.
//
// The script file must declare the list as
//
//	const imageUrls = [ ... ];
//
// The first such statement is replaced with one that lists every image found,
// as forward-slash paths sorted by file name.
package imagelist

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"regexp"
	"slices"
	"strings"

	"go.astrophena.name/devsite/internal/atomicio"
	"go.astrophena.name/devsite/internal/filelock"
	"go.astrophena.name/devsite/internal/logger"
)

// Config configures [Regenerate].
type Config struct {
	// ImagesDir is the directory with images. It's also the prefix of every
	// path in the generated list.
	ImagesDir string
	// ScriptFile is the script file to update.
	ScriptFile string
	// Extensions are the file name suffixes treated as images. They are
	// matched case-insensitively.
	Extensions []string
	// Backup keeps the previous version of the script file next to it.
	Backup bool
	// DryRun computes the new content without writing it.
	DryRun bool
}

// DefaultExtensions are the extensions recognized as images by default.
var DefaultExtensions = []string{".png", ".jpg", ".jpeg", ".gif", ".webp"}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		ImagesDir:  "images",
		ScriptFile: "script.js",
		Extensions: slices.Clone(DefaultExtensions),
	}
}

var (
	// ErrImagesDirNotFound is returned when the images directory doesn't
	// exist.
	ErrImagesDirNotFound = errors.New("images directory not found")
	// ErrScriptNotFound is returned when the script file doesn't exist.
	ErrScriptNotFound = errors.New("script file not found")
	// ErrPatternNotFound is returned when the script file has no imageUrls
	// declaration.
	ErrPatternNotFound = errors.New("could not find the 'imageUrls' array in the script; it must be defined like: const imageUrls = [];")
	// ErrOutOfDate is returned by callers checking that the script file is
	// up to date when it isn't.
	ErrOutOfDate = errors.New("script file is out of date")
)

// Result describes the outcome of [Regenerate].
type Result struct {
	// Images is the generated list.
	Images []string
	// Content is the new content of the script file.
	Content string
	// Changed reports whether Content differs from what the file had.
	Changed bool
	// Written reports whether the script file was rewritten.
	Written bool
}

// Scan returns the web paths of images in dir, sorted by file name in byte
// order. Directories are never listed.
func Scan(dir string, exts []string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: '%s'", ErrImagesDirNotFound, dir)
	}
	if err != nil {
		return nil, err
	}

	lower := make([]string, len(exts))
	for i, ext := range exts {
		lower[i] = strings.ToLower(ext)
	}

	prefix := filepath.ToSlash(dir)
	var images []string
	for _, e := range entries {
		if e.IsDir() || !hasExt(e.Name(), lower) {
			continue
		}
		images = append(images, path.Join(prefix, e.Name()))
	}
	slices.Sort(images)
	return images, nil
}

func hasExt(name string, exts []string) bool {
	name = strings.ToLower(name)
	return slices.ContainsFunc(exts, func(ext string) bool {
		return ext != "" && strings.HasSuffix(name, ext)
	})
}

var quoter = strings.NewReplacer(`\`, `\\`, `'`, `\'`)

// FormatArray formats images as a script array literal of single-quoted
// strings.
func FormatArray(images []string) string {
	if len(images) == 0 {
		return "[]"
	}
	var sb strings.Builder
	sb.WriteString("[\n")
	for i, img := range images {
		sb.WriteString("        '")
		sb.WriteString(quoter.Replace(img))
		sb.WriteString("'")
		if i < len(images)-1 {
			sb.WriteString(",")
		}
		sb.WriteString("\n")
	}
	sb.WriteString("    ]")
	return sb.String()
}

var declRe = regexp.MustCompile(`(?s)const imageUrls = \[.*?\];`)

// Rewrite replaces the first imageUrls declaration in content with one
// listing images. It returns [ErrPatternNotFound] if there is none.
func Rewrite(content string, images []string) (string, error) {
	loc := declRe.FindStringIndex(content)
	if loc == nil {
		return "", ErrPatternNotFound
	}
	return content[:loc[0]] + Statement(images) + content[loc[1]:], nil
}

// Statement returns the imageUrls declaration listing images.
func Statement(images []string) string {
	return "const imageUrls = " + FormatArray(images) + ";"
}

// Regenerate scans the images directory and updates the script file.
//
// Nothing is written if the images directory or the script file is missing,
// if the script has no imageUrls declaration, or if the content wouldn't
// change. Concurrent updates of the same script file fail with
// [filelock.ErrAlreadyLocked].
func Regenerate(ctx context.Context, cfg Config) (*Result, error) {
	images, err := Scan(cfg.ImagesDir, cfg.Extensions)
	if err != nil {
		return nil, err
	}
	logger.Debug(ctx, "scanned images", slog.String("dir", cfg.ImagesDir), slog.Int("count", len(images)))

	fi, err := os.Stat(cfg.ScriptFile)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: '%s'", ErrScriptNotFound, cfg.ScriptFile)
	}
	if err != nil {
		return nil, err
	}
	if !cfg.DryRun {
		lock, err := filelock.Acquire(lockPath(cfg.ScriptFile))
		if err != nil {
			return nil, fmt.Errorf("locking %s: %w", cfg.ScriptFile, err)
		}
		defer lock.Release()
	}
	b, err := os.ReadFile(cfg.ScriptFile)
	if err != nil {
		return nil, err
	}
	old := string(b)

	content, err := Rewrite(old, images)
	if err != nil {
		return nil, err
	}

	res := &Result{
		Images:  images,
		Content: content,
		Changed: content != old,
	}
	if !res.Changed || cfg.DryRun {
		return res, nil
	}

	write := atomicio.WriteFile
	if cfg.Backup {
		write = atomicio.WriteFileWithBackup
	}
	if err := write(cfg.ScriptFile, []byte(content), fi.Mode().Perm()); err != nil {
		return nil, fmt.Errorf("writing script file: %w", err)
	}
	res.Written = true
	logger.Info(ctx, "updated script", slog.String("file", cfg.ScriptFile), slog.Int("images", len(images)))
	return res, nil
}

// lockPath returns the path of the lock file that guards updates of script.
func lockPath(script string) string {
	return filepath.Join(filepath.Dir(script), "."+filepath.Base(script)+".lock")
}

// ParseExtensions parses a comma-separated list of extensions. A leading dot
// is added where missing.
func ParseExtensions(s string) []string {
	var exts []string
	for _, ext := range strings.Split(s, ",") {
		ext = strings.ToLower(strings.TrimSpace(ext))
		if ext == "" {
			continue
		}
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		exts = append(exts, ext)
	}
	return exts
}
