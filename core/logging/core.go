// File: core/logging/core.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// zapcore adapter: typed-field logging through the same queue, level gate
// and rotating file as Logger.Write.

package logging

import (
	"github.com/momentics/hioload-core/api"
	"go.uber.org/zap/zapcore"
)

// EncoderConfig renders "msg<TAB>{fields}". Time and level are left to the
// Logger prefix so zap lines look like printf lines.
func EncoderConfig() zapcore.EncoderConfig {
	return zapcore.EncoderConfig{
		MessageKey:       "msg",
		NameKey:          "logger",
		CallerKey:        "caller",
		StacktraceKey:    "stacktrace",
		LineEnding:       zapcore.DefaultLineEnding,
		EncodeDuration:   zapcore.StringDurationEncoder,
		EncodeCaller:     zapcore.ShortCallerEncoder,
		EncodeName:       zapcore.FullNameEncoder,
		ConsoleSeparator: "\t",
	}
}

type core struct {
	l   *Logger
	enc zapcore.Encoder
}

// NewCore wraps l as a zapcore.Core:
//
//	zl := zap.New(logging.NewCore(l))
//	zl.Info("accepted", zap.String("peer", addr), zap.Int("fd", fd))
func NewCore(l *Logger) zapcore.Core {
	return &core{l: l, enc: zapcore.NewConsoleEncoder(EncoderConfig())}
}

func levelFromZap(lvl zapcore.Level) api.Level {
	switch {
	case lvl <= zapcore.DebugLevel:
		return api.LevelDebug
	case lvl == zapcore.InfoLevel:
		return api.LevelInfo
	case lvl == zapcore.WarnLevel:
		return api.LevelWarn
	default:
		return api.LevelError
	}
}

func (c *core) Enabled(lvl zapcore.Level) bool {
	return c.l.Enabled(levelFromZap(lvl))
}

func (c *core) With(fields []zapcore.Field) zapcore.Core {
	enc := c.enc.Clone()
	for _, f := range fields {
		f.AddTo(enc)
	}
	return &core{l: c.l, enc: enc}
}

func (c *core) Check(ent zapcore.Entry, ce *zapcore.CheckedEntry) *zapcore.CheckedEntry {
	if c.Enabled(ent.Level) {
		return ce.AddCore(ent, c)
	}
	return ce
}

func (c *core) Write(ent zapcore.Entry, fields []zapcore.Field) error {
	buf, err := c.enc.EncodeEntry(ent, fields)
	if err != nil {
		return err
	}
	c.l.WriteLine(levelFromZap(ent.Level), buf.Bytes())
	buf.Free()
	return nil
}

func (c *core) Sync() error {
	c.l.Flush()
	return nil
}
