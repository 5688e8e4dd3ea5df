package platform

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/liangyou/protoncall/pkg/models"
)

func TestCheckerValidateHost(t *testing.T) {
	t.Parallel()

	checker := NewChecker()
	checker.goos = func() string { return "linux" }
	require.NoError(t, checker.ValidateHost())

	checker.goos = func() string { return "darwin" }
	err := checker.ValidateHost()
	require.Error(t, err)
	assert.True(t, errors.Is(err, models.ErrUsage))
}

func TestCheckerEnsureDataDir(t *testing.T) {
	t.Parallel()

	dir := filepath.Join(t.TempDir(), "env", "prefix")
	require.NoError(t, NewChecker().EnsureDataDir(dir))
	info, err := os.Stat(dir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestCheckerEnsureDataDirBlockedByFile(t *testing.T) {
	t.Parallel()

	file := filepath.Join(t.TempDir(), "file")
	require.NoError(t, os.WriteFile(file, []byte("content"), 0o644))

	assert.Error(t, NewChecker().EnsureDataDir(filepath.Join(file, "data")))
}

func TestCheckerValidateExecutable(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	exe := filepath.Join(root, "proton")
	require.NoError(t, os.WriteFile(exe, []byte("#!/bin/sh\n"), 0o755))
	plain := filepath.Join(root, "plain")
	require.NoError(t, os.WriteFile(plain, []byte("data"), 0o644))

	checker := NewChecker()
	assert.NoError(t, checker.ValidateExecutable(exe))
	assert.Error(t, checker.ValidateExecutable(filepath.Join(root, "missing")))
	assert.Error(t, checker.ValidateExecutable(root))

	checker.access = func(string, uint32) error { return os.ErrPermission }
	assert.ErrorIs(t, checker.ValidateExecutable(plain), os.ErrPermission)
}
