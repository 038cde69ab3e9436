package check

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func installTool(t *testing.T, dir, name, body string) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("shell script stand-ins need a POSIX shell")
	}
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte("#!/bin/sh\n"+body+"\n"), 0o755))
	return path
}

func TestJpegoptimFoundOnPath(t *testing.T) {
	dir := t.TempDir()
	want := installTool(t, dir, "jpegoptim", "exit 0")
	t.Setenv("PATH", dir)

	got, err := Jpegoptim("")
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestJpegoptimMissing(t *testing.T) {
	t.Setenv("PATH", t.TempDir())

	_, err := Jpegoptim("")
	require.Error(t, err)

	var notFound *ToolNotFoundError
	require.True(t, errors.As(err, &notFound))
	assert.Contains(t, err.Error(), "jpegoptim")
}

func TestJpegoptimExplicitPath(t *testing.T) {
	want := installTool(t, t.TempDir(), "my-jpegoptim", "exit 0")

	got, err := Jpegoptim(want)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestVersionFirstLine(t *testing.T) {
	tool := installTool(t, t.TempDir(), "jpegoptim", `echo "jpegoptim v1.5.5  x86_64-pc-linux-gnu"
echo "Copyright (C) 1996-2023"`)

	v, err := Version(context.Background(), tool)
	require.NoError(t, err)
	assert.Equal(t, "jpegoptim v1.5.5  x86_64-pc-linux-gnu", v)
}
