// Package header prepends SPDX license identifier comments to source files.
package header

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/modu-ai/license/internal/ui"
	"github.com/modu-ai/license/internal/writer"
)

// SPDXTag marks a line that already declares a license.
const SPDXTag = "SPDX-License-Identifier:"

const (
	// sniffLen is how much of a file is inspected for NUL bytes.
	sniffLen = 8 << 10
	// scanLines is how many leading lines are searched for an existing tag.
	scanLines = 5
)

// ErrEmptyLine indicates Stamp was called without a header line.
var ErrEmptyLine = errors.New("header: empty header line")

// Result summarizes one Stamp run.
type Result struct {
	Stamped []string
	Skipped int
}

// Stamper inserts a header line into files.
type Stamper struct {
	writer   *writer.Writer
	progress ui.Progress
	logger   *slog.Logger
}

// Option configures a Stamper.
type Option func(*Stamper)

// WithWriter sets the writer used to replace files.
func WithWriter(w *writer.Writer) Option {
	return func(s *Stamper) {
		if w != nil {
			s.writer = w
		}
	}
}

// WithProgress sets the progress reporter.
func WithProgress(p ui.Progress) Option {
	return func(s *Stamper) {
		if p != nil {
			s.progress = p
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Stamper) {
		if l != nil {
			s.logger = l
		}
	}
}

// NewStamper creates a Stamper.
func NewStamper(opts ...Option) *Stamper {
	s := &Stamper{
		writer:   writer.New(),
		progress: ui.NopProgress(),
		logger:   slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Stamp inserts line, followed by a blank line, at the top of path or of
// every regular file below it. Hidden directories are not entered. Binary
// files and files that already carry an SPDX tag are skipped.
func (s *Stamper) Stamp(ctx context.Context, path, line string) (Result, error) {
	line = strings.TrimSpace(line)
	if line == "" {
		return Result{}, ErrEmptyLine
	}
	return s.stamp(ctx, path, func(string) (string, bool) { return line, true })
}

// StampSPDX stamps "<comment> SPDX-License-Identifier: <id>". With
// AutoComment the prefix is chosen per file from its extension, and files
// of unknown type are skipped.
func (s *Stamper) StampSPDX(ctx context.Context, path, id, comment string) (Result, error) {
	comment = strings.TrimSpace(comment)
	if comment != AutoComment {
		return s.Stamp(ctx, path, SPDXLine(comment, id))
	}
	return s.stamp(ctx, path, func(f string) (string, bool) {
		prefix, ok := CommentFor(f)
		if !ok {
			return "", false
		}
		return SPDXLine(prefix, id), true
	})
}

// SPDXLine formats an SPDX identifier comment.
func SPDXLine(comment, id string) string {
	return comment + " " + SPDXTag + " " + id
}

func (s *Stamper) stamp(ctx context.Context, path string, lineFor func(string) (string, bool)) (Result, error) {
	var res Result

	files, err := collect(ctx, path)
	if err != nil {
		return res, err
	}

	bar := s.progress.Start("Adding license headers", len(files))
	defer bar.Done()

	for _, f := range files {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		bar.SetTitle(f)

		stamped := false
		if line, ok := lineFor(f); ok {
			stamped, err = s.stampFile(f, line)
			if err != nil {
				return res, err
			}
		} else {
			s.logger.Debug("no comment style for file", "path", f)
		}
		if stamped {
			res.Stamped = append(res.Stamped, f)
		} else {
			res.Skipped++
		}
		bar.Increment(1)
	}

	s.logger.Info("stamped license headers", "path", path, "stamped", len(res.Stamped), "skipped", res.Skipped)
	return res, nil
}

// collect lists the regular files to visit, in lexical order.
func collect(ctx context.Context, root string) ([]string, error) {
	info, err := os.Stat(root)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", writer.ErrPathNotFound, root)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: stat %s: %v", writer.ErrIO, root, err)
	}
	if !info.IsDir() {
		return []string{root}, nil
	}

	var files []string
	err = filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if d.IsDir() {
			if p != root && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}
		if d.Type().IsRegular() {
			files = append(files, p)
		}
		return nil
	})
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, fmt.Errorf("%w: walk %s: %v", writer.ErrIO, root, err)
	}
	return files, nil
}

func (s *Stamper) stampFile(path, line string) (bool, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return false, fmt.Errorf("%w: read %s: %v", writer.ErrIO, path, err)
	}

	if isBinary(content) {
		s.logger.Debug("skipping binary file", "path", path)
		return false, nil
	}
	if hasTag(content) {
		s.logger.Debug("header already present", "path", path)
		return false, nil
	}

	if err := s.writer.Write(writer.OutputTarget{Path: path, Overwrite: true}, Insert(content, line)); err != nil {
		return false, err
	}
	s.logger.Debug("stamped header", "path", path)
	return true, nil
}

// Insert returns content with line and a blank line placed after a leading
// shebang, or at the very top when there is none.
func Insert(content []byte, line string) []byte {
	header := line + "\n\n"
	if !bytes.HasPrefix(content, []byte("#!")) {
		return append([]byte(header), content...)
	}

	end := bytes.IndexByte(content, '\n')
	if end < 0 {
		return append(append(append([]byte{}, content...), '\n'), header...)
	}
	out := make([]byte, 0, len(content)+len(header))
	out = append(out, content[:end+1]...)
	out = append(out, header...)
	return append(out, content[end+1:]...)
}

func isBinary(content []byte) bool {
	return bytes.IndexByte(content[:min(len(content), sniffLen)], 0) >= 0
}

// hasTag reports whether one of the first lines already carries an SPDX tag.
func hasTag(content []byte) bool {
	for i, l := range bytes.SplitN(content, []byte("\n"), scanLines+1) {
		if i == scanLines {
			break
		}
		if bytes.Contains(l, []byte(SPDXTag)) {
			return true
		}
	}
	return false
}
