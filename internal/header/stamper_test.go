package header

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/modu-ai/license/internal/ui"
	"github.com/modu-ai/license/internal/writer"
)

const mitLine = "// SPDX-License-Identifier: MIT"

func writeFile(t *testing.T, path, content string, perm os.FileMode) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), perm))
	require.NoError(t, os.Chmod(path, perm))
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	b, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(b)
}

func TestInsert(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
	}{
		{name: "plain", content: "package main\n", want: mitLine + "\n\npackage main\n"},
		{name: "empty", content: "", want: mitLine + "\n\n"},
		{name: "shebang", content: "#!/bin/sh\necho hi\n", want: "#!/bin/sh\n" + mitLine + "\n\necho hi\n"},
		{name: "shebang_only", content: "#!/bin/sh", want: "#!/bin/sh\n" + mitLine + "\n\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, string(Insert([]byte(tt.content), mitLine)))
		})
	}
}

func TestStampDirectory(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "main.go"), "package main\n", 0o644)
	writeFile(t, filepath.Join(root, "sub", "run.sh"), "#!/bin/sh\necho hi\n", 0o755)
	writeFile(t, filepath.Join(root, "done.go"), "// SPDX-License-Identifier: Apache-2.0\n\npackage done\n", 0o644)
	writeFile(t, filepath.Join(root, "logo.png"), "\x89PNG\x00\x01", 0o644)
	writeFile(t, filepath.Join(root, ".git", "config"), "[core]\n", 0o644)

	res, err := NewStamper().Stamp(context.Background(), root, mitLine)
	require.NoError(t, err)

	assert.ElementsMatch(t, []string{
		filepath.Join(root, "main.go"),
		filepath.Join(root, "sub", "run.sh"),
	}, res.Stamped)
	assert.Equal(t, 2, res.Skipped)

	assert.Equal(t, mitLine+"\n\npackage main\n", readFile(t, filepath.Join(root, "main.go")))
	assert.Equal(t, "#!/bin/sh\n"+mitLine+"\n\necho hi\n", readFile(t, filepath.Join(root, "sub", "run.sh")))
	assert.Equal(t, "[core]\n", readFile(t, filepath.Join(root, ".git", "config")), "hidden dirs untouched")
	assert.Equal(t, "\x89PNG\x00\x01", readFile(t, filepath.Join(root, "logo.png")))

	info, err := os.Stat(filepath.Join(root, "sub", "run.sh"))
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o755), info.Mode().Perm(), "mode preserved")
}

func TestStampIdempotent(t *testing.T) {
	root := t.TempDir()
	path := filepath.Join(root, "main.go")
	writeFile(t, path, "package main\n", 0o644)
	s := NewStamper()

	_, err := s.Stamp(context.Background(), path, mitLine)
	require.NoError(t, err)
	first := readFile(t, path)

	res, err := s.Stamp(context.Background(), path, mitLine)
	require.NoError(t, err)
	assert.Empty(t, res.Stamped)
	assert.Equal(t, 1, res.Skipped)
	assert.Equal(t, first, readFile(t, path))
}

func TestStampSymlinkedFile(t *testing.T) {
	root := t.TempDir()
	realPath := filepath.Join(root, "real.go")
	link := filepath.Join(root, "main.go")
	writeFile(t, realPath, "package main\n", 0o644)
	require.NoError(t, os.Symlink("real.go", link))

	res, err := NewStamper().Stamp(context.Background(), link, mitLine)
	require.NoError(t, err)
	assert.Equal(t, []string{link}, res.Stamped)

	info, err := os.Lstat(link)
	require.NoError(t, err)
	assert.NotZero(t, info.Mode()&os.ModeSymlink)
	assert.Equal(t, mitLine+"\n\npackage main\n", readFile(t, realPath))

	rinfo, err := os.Stat(realPath)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o644), rinfo.Mode().Perm())
}

func TestStampErrors(t *testing.T) {
	t.Run("missing_path", func(t *testing.T) {
		_, err := NewStamper().Stamp(context.Background(), filepath.Join(t.TempDir(), "src"), mitLine)
		assert.ErrorIs(t, err, writer.ErrPathNotFound)
	})

	t.Run("empty_line", func(t *testing.T) {
		_, err := NewStamper().Stamp(context.Background(), t.TempDir(), "  ")
		assert.ErrorIs(t, err, ErrEmptyLine)
	})

	t.Run("cancelled", func(t *testing.T) {
		root := t.TempDir()
		writeFile(t, filepath.Join(root, "a.go"), "package a\n", 0o644)
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := NewStamper().Stamp(ctx, root, mitLine)
		assert.ErrorIs(t, err, context.Canceled)
		assert.Equal(t, "package a\n", readFile(t, filepath.Join(root, "a.go")))
	})

	t.Run("write_failure_propagates", func(t *testing.T) {
		root := t.TempDir()
		path := filepath.Join(root, "a.go")
		writeFile(t, path, "package a\n", 0o644)
		w := writer.New(writer.WithRename(func(string, string) error { return errors.New("read-only") }))

		_, err := NewStamper(WithWriter(w)).Stamp(context.Background(), root, mitLine)
		assert.ErrorIs(t, err, writer.ErrIO)
		assert.Equal(t, "package a\n", readFile(t, path))
	})
}

func TestStampProgress(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "a.go"), "package a\n", 0o644)
	writeFile(t, filepath.Join(root, "b.go"), "package b\n", 0o644)

	var buf strings.Builder
	hm := ui.NewHeadlessManager()
	hm.ForceHeadless(true)
	p := ui.NewProgress(ui.NewTheme(ui.ThemeConfig{NoColor: true}), hm, &buf)

	_, err := NewStamper(WithProgress(p)).Stamp(context.Background(), root, mitLine)
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "[1/2] "+filepath.Join(root, "a.go"))
	assert.Contains(t, out, "[2/2] "+filepath.Join(root, "b.go"))
	assert.Equal(t, 2, strings.Count(out, "\n"), "one line per file: %q", out)
}
