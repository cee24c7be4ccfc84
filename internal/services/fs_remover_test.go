package services

import (
	"os"
	"testing"

	"github.com/go-git/go-billy/v5/memfs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRemoverDeletesRegularFile(t *testing.T) {
	filesystem := memfs.New()
	writeFile(t, filesystem, "/r/a.bin", 4)

	require.NoError(t, NewFSRemover(filesystem, true).Remove("/r/a.bin"))
	_, err := filesystem.Stat("/r/a.bin")
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestRemoverRefusesDirectories(t *testing.T) {
	filesystem := memfs.New()
	require.NoError(t, filesystem.MkdirAll("/r/dir", 0o755))

	err := NewFSRemover(filesystem, false).Remove("/r/dir")
	assert.ErrorIs(t, err, ErrNotRegularFile)
}

func TestRemoverMissingFile(t *testing.T) {
	err := NewFSRemover(memfs.New(), false).Remove("/nope.bin")
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestRemoverSafeModeBlocksSystemPaths(t *testing.T) {
	filesystem := memfs.New()
	writeFile(t, filesystem, "/etc/hosts", 10)

	err := NewFSRemover(filesystem, true).Remove("/etc/hosts")
	assert.ErrorIs(t, err, ErrCriticalPath)
	_, statErr := filesystem.Stat("/etc/hosts")
	assert.NoError(t, statErr)

	assert.NoError(t, NewFSRemover(filesystem, false).Remove("/etc/hosts"))
}

func TestIsCriticalPath(t *testing.T) {
	assert.True(t, isCriticalPath("/usr/lib/libc.so"))
	assert.True(t, isCriticalPath("/etc"))
	assert.False(t, isCriticalPath("/etcetera/file"))
	assert.False(t, isCriticalPath("/home/user/file"))
}
