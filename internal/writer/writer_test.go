package writer

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tmpFiles(t *testing.T, dir string) []string {
	t.Helper()
	matches, err := filepath.Glob(filepath.Join(dir, ".*.tmp"))
	require.NoError(t, err)
	return matches
}

func TestWriteNewFile(t *testing.T) {
	dir := t.TempDir()
	target := OutputTarget{Path: filepath.Join(dir, "LICENSE")}

	require.NoError(t, New().Write(target, []byte("MIT License\n")))

	got, err := os.ReadFile(target.Path)
	require.NoError(t, err)
	assert.Equal(t, "MIT License\n", string(got))

	info, err := os.Stat(target.Path)
	require.NoError(t, err)
	assert.Equal(t, DefaultPerm, info.Mode().Perm())
	assert.Empty(t, tmpFiles(t, dir))
}

func TestWriteConflict(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "LICENSE")
	require.NoError(t, os.WriteFile(path, []byte("original"), 0o644))

	err := New().Write(OutputTarget{Path: path}, []byte("replacement"))
	require.ErrorIs(t, err, ErrAlreadyExists)

	got, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "original", string(got), "existing file must be untouched")
	assert.Empty(t, tmpFiles(t, dir))
}

func TestWriteOverwrite(t *testing.T) {
	t.Run("idempotent", func(t *testing.T) {
		dir := t.TempDir()
		target := OutputTarget{Path: filepath.Join(dir, "LICENSE"), Overwrite: true}
		w := New()

		require.NoError(t, w.Write(target, []byte("same bytes\n")))
		first, err := os.ReadFile(target.Path)
		require.NoError(t, err)

		require.NoError(t, w.Write(target, []byte("same bytes\n")))
		second, err := os.ReadFile(target.Path)
		require.NoError(t, err)

		assert.Equal(t, first, second)
	})

	t.Run("preserves_mode", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, "run.sh")
		require.NoError(t, os.WriteFile(path, []byte("#!/bin/sh\n"), 0o755))
		require.NoError(t, os.Chmod(path, 0o755))

		require.NoError(t, New().Write(OutputTarget{Path: path, Overwrite: true}, []byte("#!/bin/sh\n# x\n")))

		info, err := os.Stat(path)
		require.NoError(t, err)
		assert.Equal(t, os.FileMode(0o755), info.Mode().Perm())
	})

	t.Run("custom_perm_for_new_files", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, "LICENSE")

		require.NoError(t, New(WithPerm(0o600)).Write(OutputTarget{Path: path}, []byte("x")))

		info, err := os.Stat(path)
		require.NoError(t, err)
		assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
	})
}

func TestWritePublishFailure(t *testing.T) {
	failure := errors.New("disk on fire")
	failRename := WithRename(func(string, string) error { return failure })
	failLink := WithLink(func(string, string) error { return failure })

	t.Run("new_file_stays_absent", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, "LICENSE")

		err := New(failLink).Write(OutputTarget{Path: path}, []byte("content"))
		require.ErrorIs(t, err, ErrIO)
		assert.Contains(t, err.Error(), "disk on fire")

		_, statErr := os.Stat(path)
		assert.True(t, errors.Is(statErr, os.ErrNotExist))
		assert.Empty(t, tmpFiles(t, dir))
	})

	t.Run("existing_file_unchanged", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, "LICENSE")
		require.NoError(t, os.WriteFile(path, []byte("original"), 0o644))

		err := New(failRename).Write(OutputTarget{Path: path, Overwrite: true}, []byte("replacement"))
		require.ErrorIs(t, err, ErrIO)

		got, readErr := os.ReadFile(path)
		require.NoError(t, readErr)
		assert.Equal(t, "original", string(got))
		assert.Empty(t, tmpFiles(t, dir))
	})
}

func TestWriteNewFileRace(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "LICENSE")
	// Another process creates the file after the precondition check.
	racingLink := WithLink(func(oldpath, newpath string) error {
		require.NoError(t, os.WriteFile(newpath, []byte("theirs"), 0o644))
		return os.Link(oldpath, newpath)
	})

	err := New(racingLink).Write(OutputTarget{Path: path}, []byte("ours"))
	require.ErrorIs(t, err, ErrAlreadyExists)

	got, readErr := os.ReadFile(path)
	require.NoError(t, readErr)
	assert.Equal(t, "theirs", string(got))
	assert.Empty(t, tmpFiles(t, dir))
}

func TestWriteSymlink(t *testing.T) {
	setup := func(t *testing.T) (dir, link, realPath string) {
		t.Helper()
		dir = t.TempDir()
		realPath = filepath.Join(dir, "REAL")
		link = filepath.Join(dir, "LICENSE")
		require.NoError(t, os.WriteFile(realPath, []byte("old"), 0o644))
		require.NoError(t, os.Chmod(realPath, 0o644))
		require.NoError(t, os.Symlink("REAL", link))
		return dir, link, realPath
	}

	t.Run("overwrite_replaces_target", func(t *testing.T) {
		dir, link, realPath := setup(t)

		require.NoError(t, New().Write(OutputTarget{Path: link, Overwrite: true}, []byte("new")))

		info, err := os.Lstat(link)
		require.NoError(t, err)
		assert.NotZero(t, info.Mode()&os.ModeSymlink, "link must stay a symlink")

		got, err := os.ReadFile(realPath)
		require.NoError(t, err)
		assert.Equal(t, "new", string(got))

		rinfo, err := os.Stat(realPath)
		require.NoError(t, err)
		assert.Equal(t, os.FileMode(0o644), rinfo.Mode().Perm())
		assert.Empty(t, tmpFiles(t, dir))
	})

	t.Run("conflict_without_overwrite", func(t *testing.T) {
		_, link, realPath := setup(t)

		err := New().Write(OutputTarget{Path: link}, []byte("new"))
		require.ErrorIs(t, err, ErrAlreadyExists)

		got, readErr := os.ReadFile(realPath)
		require.NoError(t, readErr)
		assert.Equal(t, "old", string(got))
	})

	t.Run("dangling", func(t *testing.T) {
		dir := t.TempDir()
		link := filepath.Join(dir, "LICENSE")
		require.NoError(t, os.Symlink("missing", link))

		err := New().Write(OutputTarget{Path: link, Overwrite: true}, []byte("new"))
		require.ErrorIs(t, err, ErrIO)
		assert.Empty(t, tmpFiles(t, dir))
	})

	t.Run("points_at_directory", func(t *testing.T) {
		dir := t.TempDir()
		require.NoError(t, os.Mkdir(filepath.Join(dir, "sub"), 0o755))
		link := filepath.Join(dir, "LICENSE")
		require.NoError(t, os.Symlink("sub", link))

		err := New().Write(OutputTarget{Path: link, Overwrite: true}, []byte("new"))
		assert.ErrorIs(t, err, ErrIsDirectory)
	})
}

func TestWritePreconditions(t *testing.T) {
	t.Run("missing_parent", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "nope", "LICENSE")
		err := New().Write(OutputTarget{Path: path}, []byte("x"))
		assert.ErrorIs(t, err, ErrPathNotFound)
		_, statErr := os.Stat(filepath.Dir(path))
		assert.True(t, errors.Is(statErr, os.ErrNotExist), "parent must not be created")
	})

	t.Run("parent_is_file", func(t *testing.T) {
		dir := t.TempDir()
		file := filepath.Join(dir, "plain")
		require.NoError(t, os.WriteFile(file, nil, 0o644))

		err := New().Write(OutputTarget{Path: filepath.Join(file, "LICENSE")}, []byte("x"))
		assert.ErrorIs(t, err, ErrPathNotFound)
	})

	t.Run("destination_is_directory", func(t *testing.T) {
		dir := t.TempDir()
		err := New().Write(OutputTarget{Path: dir, Overwrite: true}, []byte("x"))
		assert.ErrorIs(t, err, ErrIsDirectory)
	})

	t.Run("check_matches_write", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, "LICENSE")
		w := New()

		assert.NoError(t, w.Check(OutputTarget{Path: path}))
		require.NoError(t, os.WriteFile(path, []byte("x"), 0o644))
		assert.ErrorIs(t, w.Check(OutputTarget{Path: path}), ErrAlreadyExists)
		assert.NoError(t, w.Check(OutputTarget{Path: path, Overwrite: true}))
	})
}

func TestResolveTarget(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		name string
		path string
		want string
	}{
		{name: "empty_uses_default", path: "", want: "LICENSE"},
		{name: "existing_directory", path: dir, want: filepath.Join(dir, "LICENSE")},
		{name: "trailing_separator", path: filepath.Join(dir, "new") + string(filepath.Separator), want: filepath.Join(dir, "new", "LICENSE")},
		{name: "explicit_file", path: filepath.Join(dir, "COPYING"), want: filepath.Join(dir, "COPYING")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ResolveTarget(tt.path, "LICENSE", true)
			assert.Equal(t, tt.want, got.Path)
			assert.True(t, got.Overwrite)
			assert.False(t, strings.HasSuffix(got.Path, string(filepath.Separator)))
		})
	}
}
