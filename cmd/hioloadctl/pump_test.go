package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/momentics/hioload-core/core/buffer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBufferSizeFromConfig(t *testing.T) {
	cfgFile := filepath.Join(t.TempDir(), "hioload.yaml")
	require.NoError(t, os.WriteFile(cfgFile, []byte("buffer:\n  initialSize: 8192\n"), 0o644))

	n, err := bufferSize(cfgFile, 0)
	require.NoError(t, err)
	assert.Equal(t, 8192, n)

	n, err = bufferSize(cfgFile, 256)
	require.NoError(t, err)
	assert.Equal(t, 256, n, "an explicit size wins")
}

func TestBufferSizeFromEnv(t *testing.T) {
	t.Setenv("HIOLOAD_BUFFER_INITIALSIZE", "2048")
	n, err := bufferSize("", 0)
	require.NoError(t, err)
	assert.Equal(t, 2048, n)

	t.Setenv("HIOLOAD_BUFFER_INITIALSIZE", "0")
	n, err = bufferSize("", 0)
	require.NoError(t, err)
	assert.Equal(t, buffer.DefaultSize, n)
}
