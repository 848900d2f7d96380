// control/config.go
// Author: momentics <momentics@gmail.com>
//
// Configuration loading through viper, with env overrides and hot reload.

package control

import (
	"fmt"
	"strings"

	"github.com/fsnotify/fsnotify"
	"github.com/momentics/hioload-core/api"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

// EnvPrefix prefixes environment overrides, e.g. HIOLOAD_LOGGER_LEVEL.
const EnvPrefix = "HIOLOAD"

// Config is the root configuration document.
type Config struct {
	Logger  LoggerConfig  `mapstructure:"logger"`
	Buffer  BufferConfig  `mapstructure:"buffer"`
	Metrics MetricsConfig `mapstructure:"metrics"`
}

// LoggerConfig binds the async logger.
type LoggerConfig struct {
	Level            string `mapstructure:"level"`
	Path             string `mapstructure:"path"`
	Suffix           string `mapstructure:"suffix"`
	MaxQueueCapacity int    `mapstructure:"maxQueueCapacity"` // 0 = synchronous
	MaxLines         int    `mapstructure:"maxLines"`
	FlushEachLine    bool   `mapstructure:"flushEachLine"`
}

// BufferConfig sizes per-connection byte buffers.
type BufferConfig struct {
	InitialSize int `mapstructure:"initialSize"`
}

// MetricsConfig controls the prometheus endpoint.
type MetricsConfig struct {
	Addr string `mapstructure:"addr"`
}

// ParsedLevel returns Level as an api.Level.
func (c LoggerConfig) ParsedLevel() (api.Level, error) {
	return api.ParseLevel(c.Level)
}

func newViper(configFile string) *viper.Viper {
	v := viper.New()
	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.path", "./log")
	v.SetDefault("logger.suffix", ".log")
	v.SetDefault("logger.maxQueueCapacity", 1024)
	v.SetDefault("logger.maxLines", 50000)
	v.SetDefault("logger.flushEachLine", false)
	v.SetDefault("buffer.initialSize", 1024)
	v.SetDefault("metrics.addr", "")

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	if configFile != "" {
		v.SetConfigFile(configFile)
	}
	return v
}

func decode(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if _, err := cfg.Logger.ParsedLevel(); err != nil {
		return nil, fmt.Errorf("invalid logger.level: %w", err)
	}
	if cfg.Logger.MaxQueueCapacity < 0 {
		return nil, fmt.Errorf("invalid logger.maxQueueCapacity %d: %w", cfg.Logger.MaxQueueCapacity, api.ErrInvalidArgument)
	}
	return &cfg, nil
}

// Load reads configFile (any format viper understands). An empty path yields
// defaults plus environment overrides.
func Load(configFile string) (*Config, error) {
	v := newViper(configFile)
	if configFile != "" {
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}
	return decode(v)
}

// Watch loads configFile and re-reads it whenever it changes on disk,
// dispatching the new Config to registered reload hooks. Invalid revisions
// are logged and skipped.
func Watch(configFile string, log *zap.Logger) (*Config, error) {
	if log == nil {
		log = zap.NewNop()
	}
	v := newViper(configFile)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	cfg, err := decode(v)
	if err != nil {
		return nil, err
	}
	v.OnConfigChange(func(ev fsnotify.Event) {
		if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) {
			return
		}
		next, err := decode(v)
		if err != nil {
			log.Warn("Ignoring invalid config revision", zap.String("file", ev.Name), zap.Error(err))
			return
		}
		log.Info("Configuration reloaded", zap.String("file", ev.Name), zap.String("op", ev.Op.String()))
		TriggerHotReloadSync(next)
	})
	v.WatchConfig()
	return cfg, nil
}
