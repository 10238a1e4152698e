// Package writer persists rendered license text to disk. Writes are atomic:
// content goes to a temporary file in the destination directory which is
// then linked into place (new files) or renamed over the target
// (overwrites), so a reader never observes a partial file.
package writer

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// Sentinel errors for the writer.
var (
	// ErrAlreadyExists indicates the destination exists and overwrite was not requested.
	ErrAlreadyExists = errors.New("writer: file already exists")

	// ErrPathNotFound indicates the destination's parent directory does not exist.
	ErrPathNotFound = errors.New("writer: path not found")

	// ErrIsDirectory indicates the destination is a directory.
	ErrIsDirectory = errors.New("writer: destination is a directory")

	// ErrIO indicates any other file system failure.
	ErrIO = errors.New("writer: i/o error")
)

// DefaultPerm is the mode of newly created license files.
const DefaultPerm fs.FileMode = 0o644

// OutputTarget describes where rendered content goes.
type OutputTarget struct {
	Path      string
	Overwrite bool
}

// Writer writes files atomically. The zero value is not usable; call New.
type Writer struct {
	rename func(oldpath, newpath string) error
	link   func(oldpath, newpath string) error
	perm   fs.FileMode
	logger *slog.Logger
}

// Option configures a Writer.
type Option func(*Writer)

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(w *Writer) {
		if l != nil {
			w.logger = l
		}
	}
}

// WithRename replaces the rename that publishes an overwrite. Used to
// inject faults.
func WithRename(fn func(oldpath, newpath string) error) Option {
	return func(w *Writer) { w.rename = fn }
}

// WithLink replaces the hard link that publishes a new file. Used to
// inject faults.
func WithLink(fn func(oldpath, newpath string) error) Option {
	return func(w *Writer) { w.link = fn }
}

// WithPerm sets the mode of newly created files.
func WithPerm(perm fs.FileMode) Option {
	return func(w *Writer) { w.perm = perm }
}

// New creates a Writer.
func New(opts ...Option) *Writer {
	w := &Writer{
		rename: os.Rename,
		link:   os.Link,
		perm:   DefaultPerm,
		logger: slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// ResolveTarget turns a user-supplied path into an OutputTarget. When path
// names an existing directory, or ends with a path separator, defaultName
// is joined to it. An empty path means defaultName in the working directory.
func ResolveTarget(path, defaultName string, overwrite bool) OutputTarget {
	switch {
	case path == "":
		path = defaultName
	case strings.HasSuffix(path, string(filepath.Separator)) || strings.HasSuffix(path, "/"):
		path = filepath.Join(path, defaultName)
	default:
		if info, err := os.Stat(path); err == nil && info.IsDir() {
			path = filepath.Join(path, defaultName)
		}
	}
	return OutputTarget{Path: filepath.Clean(path), Overwrite: overwrite}
}

// Check reports whether target could be written, without modifying the file
// system. It returns the same errors Write would return for its preconditions.
func (w *Writer) Check(target OutputTarget) error {
	_, _, err := w.check(target)
	return err
}

// check validates preconditions. It returns the path to replace, which is
// the link target when target.Path is a symlink, and the mode the written
// file should get.
func (w *Writer) check(target OutputTarget) (string, fs.FileMode, error) {
	dir := filepath.Dir(target.Path)
	dinfo, err := os.Stat(dir)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return "", 0, fmt.Errorf("%w: %s", ErrPathNotFound, dir)
	case err != nil:
		return "", 0, fmt.Errorf("%w: stat %s: %v", ErrIO, dir, err)
	case !dinfo.IsDir():
		return "", 0, fmt.Errorf("%w: %s is not a directory", ErrPathNotFound, dir)
	}

	info, err := os.Lstat(target.Path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return target.Path, w.perm, nil
	case err != nil:
		return "", 0, fmt.Errorf("%w: stat %s: %v", ErrIO, target.Path, err)
	case info.IsDir():
		return "", 0, fmt.Errorf("%w: %s", ErrIsDirectory, target.Path)
	case !target.Overwrite:
		return "", 0, fmt.Errorf("%w: %s", ErrAlreadyExists, target.Path)
	case info.Mode()&fs.ModeSymlink == 0:
		return target.Path, info.Mode().Perm(), nil
	}

	dest, err := filepath.EvalSymlinks(target.Path)
	if err != nil {
		return "", 0, fmt.Errorf("%w: resolve symlink %s: %v", ErrIO, target.Path, err)
	}
	info, err = os.Stat(dest)
	switch {
	case err != nil:
		return "", 0, fmt.Errorf("%w: stat %s: %v", ErrIO, dest, err)
	case info.IsDir():
		return "", 0, fmt.Errorf("%w: %s", ErrIsDirectory, dest)
	}
	return dest, info.Mode().Perm(), nil
}

// Write stores content at target.Path. An existing file is replaced only
// when target.Overwrite is set, and keeps its permission bits; a symlink is
// followed and its target replaced. A new file is published with a hard
// link, so a file that appears concurrently is never clobbered. On failure
// the destination is left as it was and no temporary file remains.
func (w *Writer) Write(target OutputTarget, content []byte) error {
	dest, mode, err := w.check(target)
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(filepath.Dir(dest), "."+filepath.Base(dest)+"-*.tmp")
	if err != nil {
		return fmt.Errorf("%w: create temp file: %v", ErrIO, err)
	}
	tmpName := tmp.Name()

	committed := false
	defer func() {
		if !committed {
			_ = tmp.Close()
			_ = os.Remove(tmpName)
		}
	}()

	if _, err := tmp.Write(content); err != nil {
		return fmt.Errorf("%w: write temp file: %v", ErrIO, err)
	}
	if err := tmp.Sync(); err != nil {
		return fmt.Errorf("%w: sync temp file: %v", ErrIO, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("%w: close temp file: %v", ErrIO, err)
	}
	if err := os.Chmod(tmpName, mode); err != nil {
		return fmt.Errorf("%w: chmod temp file: %v", ErrIO, err)
	}

	if target.Overwrite {
		if err := w.rename(tmpName, dest); err != nil {
			return fmt.Errorf("%w: rename %s: %v", ErrIO, dest, err)
		}
		committed = true
	} else {
		if err := w.link(tmpName, dest); err != nil {
			if errors.Is(err, fs.ErrExist) {
				return fmt.Errorf("%w: %s", ErrAlreadyExists, dest)
			}
			return fmt.Errorf("%w: link %s: %v", ErrIO, dest, err)
		}
		committed = true
		if err := os.Remove(tmpName); err != nil {
			w.logger.Warn("failed to remove temp file", "path", tmpName, "error", err)
		}
	}

	w.logger.Debug("wrote file", "path", dest, "bytes", len(content), "mode", mode)
	return nil
}
