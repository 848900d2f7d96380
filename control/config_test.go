package control

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/momentics/hioload-core/api"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleYAML = `
logger:
  level: warn
  path: /var/log/hioload
  suffix: .txt
  maxQueueCapacity: 256
  maxLines: 10
buffer:
  initialSize: 4096
metrics:
  addr: ":9100"
`

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "hioload.yaml")
	require.NoError(t, os.WriteFile(p, []byte(body), 0o644))
	return p
}

func TestLoadFile(t *testing.T) {
	cfg, err := Load(writeConfig(t, sampleYAML))
	require.NoError(t, err)
	assert.Equal(t, "warn", cfg.Logger.Level)
	assert.Equal(t, "/var/log/hioload", cfg.Logger.Path)
	assert.Equal(t, ".txt", cfg.Logger.Suffix)
	assert.Equal(t, 256, cfg.Logger.MaxQueueCapacity)
	assert.Equal(t, 10, cfg.Logger.MaxLines)
	assert.Equal(t, 4096, cfg.Buffer.InitialSize)
	assert.Equal(t, ":9100", cfg.Metrics.Addr)

	lvl, err := cfg.Logger.ParsedLevel()
	require.NoError(t, err)
	assert.Equal(t, api.LevelWarn, lvl)
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "info", cfg.Logger.Level)
	assert.Equal(t, ".log", cfg.Logger.Suffix)
	assert.Equal(t, 1024, cfg.Logger.MaxQueueCapacity)
	assert.Equal(t, 50000, cfg.Logger.MaxLines)
}

func TestLoadEnvOverride(t *testing.T) {
	t.Setenv("HIOLOAD_LOGGER_LEVEL", "error")
	t.Setenv("HIOLOAD_LOGGER_MAXQUEUECAPACITY", "0")
	cfg, err := Load(writeConfig(t, sampleYAML))
	require.NoError(t, err)
	assert.Equal(t, "error", cfg.Logger.Level)
	assert.Equal(t, 0, cfg.Logger.MaxQueueCapacity)
}

func TestLoadRejectsBadLevel(t *testing.T) {
	_, err := Load(writeConfig(t, "logger:\n  level: loud\n"))
	assert.ErrorIs(t, err, api.ErrInvalidArgument)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

func TestWatchDispatchesReload(t *testing.T) {
	ResetReloadHooks()
	t.Cleanup(ResetReloadHooks)

	path := writeConfig(t, sampleYAML)
	got := make(chan string, 8)
	RegisterReloadHook(func(c *Config) { got <- c.Logger.Level })

	cfg, err := Watch(path, nil)
	require.NoError(t, err)
	require.Equal(t, "warn", cfg.Logger.Level)

	time.Sleep(100 * time.Millisecond)
	require.NoError(t, os.WriteFile(path, []byte("logger:\n  level: debug\n"), 0o644))

	deadline := time.After(5 * time.Second)
	for {
		select {
		case lvl := <-got:
			if lvl == "debug" {
				return
			}
		case <-deadline:
			t.Fatal("reload hook not invoked after config change")
		}
	}
}
