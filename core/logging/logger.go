// File: core/logging/logger.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package logging

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/momentics/hioload-core/affinity"
	"github.com/momentics/hioload-core/api"
	"github.com/momentics/hioload-core/control"
	"github.com/momentics/hioload-core/core/concurrency"
	"github.com/valyala/bytebufferpool"
	"go.uber.org/zap"
)

// Severity levels, re-exported for callers that only import logging.
const (
	LevelDebug = api.LevelDebug
	LevelInfo  = api.LevelInfo
	LevelWarn  = api.LevelWarn
	LevelError = api.LevelError
)

// DefaultMaxLines is the per-file line limit before a same-day rollover.
const DefaultMaxLines = 50000

const timeLayout = "2006-01-02 15:04:05.000000 "

var errFileClosed = errors.New("log file is closed")

// Config binds a Logger to its output.
type Config struct {
	Level  api.Level
	Path   string // directory
	Suffix string // file extension, e.g. ".log"
	// MaxQueueCapacity > 0 enables asynchronous mode with that many buffered
	// lines; 0 writes synchronously on the calling goroutine.
	MaxQueueCapacity int
}

// ConfigFrom converts the file/env configuration.
func ConfigFrom(c control.LoggerConfig) (Config, error) {
	lvl, err := c.ParsedLevel()
	if err != nil {
		return Config{}, api.WrapError(api.ErrCodeInvalidArgument, "logging: level", err).
			WithContext("level", c.Level)
	}
	if c.MaxQueueCapacity < 0 {
		return Config{}, errQueueCapacity(c.MaxQueueCapacity)
	}
	return Config{
		Level:            lvl,
		Path:             c.Path,
		Suffix:           c.Suffix,
		MaxQueueCapacity: c.MaxQueueCapacity,
	}, nil
}

func errQueueCapacity(n int) error {
	return api.WrapError(api.ErrCodeInvalidArgument, "logging: queue capacity", api.ErrInvalidArgument).
		WithContext("maxQueueCapacity", n)
}

// Option customizes a Logger before Init.
type Option func(*Logger)

// WithZap routes internal diagnostics (failed writes, rotations) to zl.
func WithZap(zl *zap.Logger) Option {
	return func(l *Logger) {
		if zl != nil {
			l.zl = zl
		}
	}
}

// WithMetrics records pipeline counters on m.
func WithMetrics(m *control.Metrics) Option {
	return func(l *Logger) { l.metrics = m }
}

// WithClock replaces time.Now, used for timestamps and rotation.
func WithClock(now func() time.Time) Option {
	return func(l *Logger) {
		if now != nil {
			l.now = now
		}
	}
}

// WithMaxLines sets the line limit per file.
func WithMaxLines(n int) Option {
	return func(l *Logger) {
		if n > 0 {
			l.maxLines = n
		}
	}
}

// WithFlushEachLine flushes the file buffer after every line.
func WithFlushEachLine(on bool) Option {
	return func(l *Logger) { l.flushEach = on }
}

var _ api.LineLogger = (*Logger)(nil)

// WithWriterCPU pins the async writer goroutine's thread to cpu. A failed
// pin is logged and the writer runs unpinned.
func WithWriterCPU(cpu int) Option {
	return func(l *Logger) { l.writerCPU = cpu }
}

// Logger serializes log calls from any goroutine into a rotating file.
type Logger struct {
	level atomic.Int32

	// mu guards file state and lifecycle flags. It is distinct from the
	// queue's own lock.
	mu          sync.Mutex
	file        rotatingFile
	initialized bool
	closed      bool

	async  bool
	queue  *concurrency.BlockQueue[record]
	worker sync.WaitGroup

	now       func() time.Time
	maxLines  int
	flushEach bool
	writerCPU int // < 0 leaves the writer unpinned
	zl        *zap.Logger
	metrics   *control.Metrics
	afterPop  func() // test seam, runs in the writer goroutine

	written   atomic.Uint64
	dropped   atomic.Uint64
	fallbacks atomic.Uint64
	rotations atomic.Uint64
}

// record is one rendered line plus the time it was logged at, which decides
// the file it lands in.
type record struct {
	at   time.Time
	line string
}

// New creates an uninitialized logger; nothing is written until Init.
func New(opts ...Option) *Logger {
	l := &Logger{
		now:       time.Now,
		maxLines:  DefaultMaxLines,
		writerCPU: -1,
		zl:        zap.NewNop(),
	}
	l.level.Store(int32(LevelInfo))
	for _, o := range opts {
		o(l)
	}
	return l
}

// Init opens today's file and, for MaxQueueCapacity > 0, starts the writer
// goroutine. It may succeed only once per Logger.
func (l *Logger) Init(cfg Config) error {
	if cfg.MaxQueueCapacity < 0 {
		return errQueueCapacity(cfg.MaxQueueCapacity)
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.initialized {
		return fmt.Errorf("logging: %w", api.ErrAlreadyInitialized)
	}
	if l.closed {
		return fmt.Errorf("logging: %w", api.ErrLoggerClosed)
	}

	dir := cfg.Path
	if dir == "" {
		dir = "."
	}
	l.file = rotatingFile{dir: dir, suffix: cfg.Suffix}
	today := dayKey(l.now())
	name := l.file.fileName(today, 0)
	f, err := l.file.openFile(name)
	if err != nil {
		return api.WrapError(api.ErrCodeIO, "logging: init", err).WithContext("path", name)
	}
	l.file.install(f, name)
	l.file.day = today
	l.level.Store(int32(cfg.Level))

	if cfg.MaxQueueCapacity > 0 {
		l.async = true
		l.queue = concurrency.NewBlockQueue[record](cfg.MaxQueueCapacity)
		l.worker.Add(1)
		go l.asyncWrite()
	}
	l.initialized = true
	l.zl.Debug("Logger initialized",
		zap.String("file", l.file.name),
		zap.Stringer("level", cfg.Level),
		zap.Bool("async", l.async),
		zap.Int("queueCapacity", cfg.MaxQueueCapacity),
	)
	return nil
}

// GetLevel returns the minimum enabled severity.
func (l *Logger) GetLevel() api.Level { return api.Level(l.level.Load()) }

// SetLevel changes the minimum enabled severity.
func (l *Logger) SetLevel(level api.Level) { l.level.Store(int32(level)) }

// Enabled reports whether a line at level would be written.
func (l *Logger) Enabled(level api.Level) bool { return level >= l.GetLevel() }

// IsOpen reports whether Init succeeded and Close has not run.
func (l *Logger) IsOpen() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.initialized && !l.closed && l.file.isOpen()
}

// FileName returns the path of the current file.
func (l *Logger) FileName() string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.file.name
}

// Write formats a printf-style line at level. Lines below the minimum level,
// and lines logged before Init or after Close, are discarded.
func (l *Logger) Write(level api.Level, format string, args ...any) {
	if !l.Enabled(level) {
		return
	}
	l.emit(level, func(b *bytebufferpool.ByteBuffer) {
		fmt.Fprintf(b, format, args...)
	})
}

// WriteLine logs a pre-rendered payload; a trailing newline is dropped.
func (l *Logger) WriteLine(level api.Level, payload []byte) {
	if !l.Enabled(level) {
		return
	}
	if n := len(payload); n > 0 && payload[n-1] == '\n' {
		payload = payload[:n-1]
	}
	l.emit(level, func(b *bytebufferpool.ByteBuffer) {
		b.Write(payload)
	})
}

func (l *Logger) Debugf(format string, args ...any) { l.Write(LevelDebug, format, args...) }
func (l *Logger) Infof(format string, args ...any)  { l.Write(LevelInfo, format, args...) }
func (l *Logger) Warnf(format string, args ...any)  { l.Write(LevelWarn, format, args...) }
func (l *Logger) Errorf(format string, args ...any) { l.Write(LevelError, format, args...) }

func (l *Logger) emit(level api.Level, payload func(*bytebufferpool.ByteBuffer)) {
	l.mu.Lock()
	if !l.initialized || l.closed {
		l.mu.Unlock()
		return
	}
	now := l.now()
	buf := bytebufferpool.Get()
	buf.B = now.AppendFormat(buf.B, timeLayout)
	buf.WriteString(level.Tag())
	payload(buf)
	buf.WriteByte('\n')
	rec := record{at: now, line: buf.String()}
	bytebufferpool.Put(buf)

	if !l.async {
		l.writeLocked(rec)
		l.mu.Unlock()
		return
	}
	l.mu.Unlock()

	if l.queue.TryPushBack(rec) {
		l.metrics.SetQueueDepth(l.queue.Len())
		return
	}
	if l.queue.Closed() {
		// Close ran between the lifecycle check and the push.
		l.drop(1)
		return
	}
	// Queue full: write on the caller's goroutine rather than stall it.
	l.fallbacks.Add(1)
	l.metrics.IncSyncFallback()
	l.mu.Lock()
	l.writeLocked(rec)
	l.mu.Unlock()
}

func (l *Logger) drop(n int) {
	if n <= 0 {
		return
	}
	l.dropped.Add(uint64(n))
	l.metrics.AddDropped(n)
}

// rotateLocked switches files when a line is stamped with a later calendar
// day than the current file, or when the current day's file has reached
// maxLines. A line stamped with an earlier day stays in the current file.
func (l *Logger) rotateLocked(now time.Time) {
	today := dayKey(now)
	dayChanged := today > l.file.day
	if !dayChanged && (l.file.lineCount == 0 || l.file.lineCount%l.maxLines != 0) {
		return
	}

	var name, reason string
	if dayChanged {
		name, reason = l.file.fileName(today, 0), "day"
	} else {
		name, reason = l.file.fileName(l.file.day, l.file.lineCount/l.maxLines), "lines"
	}
	f, err := l.file.openFile(name)
	if err != nil {
		l.zl.Warn("Log rotation failed", zap.String("file", name), zap.Error(err))
		return
	}
	if lost, err := l.file.install(f, name); err != nil {
		l.drop(lost)
		l.zl.Warn("Closing rotated log file failed", zap.Int("lost", lost), zap.Error(err))
	}
	if dayChanged {
		l.file.day = today
		l.file.lineCount = 0
	}
	l.rotations.Add(1)
	l.metrics.IncRotation(reason)
	l.zl.Debug("Log file rotated", zap.String("file", name), zap.String("reason", reason))
}

// writeLocked rotates for rec's timestamp and appends it, so sync, async and
// fallback writes share one rotation path.
func (l *Logger) writeLocked(rec record) {
	l.rotateLocked(rec.at)
	l.file.lineCount++
	if err := l.file.write(rec.line); err != nil {
		l.drop(1)
		l.zl.Debug("Dropping log line", zap.Error(err))
		return
	}
	l.written.Add(1)
	l.metrics.IncWritten()
	if l.flushEach {
		if err := l.file.flushBuffered(); err != nil {
			l.zl.Debug("Log flush failed", zap.Error(err))
		}
	}
}

// asyncWrite drains the queue until it is closed and empty.
func (l *Logger) asyncWrite() {
	defer l.worker.Done()
	if l.writerCPU >= 0 {
		if err := affinity.PinCurrent(l.writerCPU); err != nil {
			l.zl.Warn("Log writer not pinned", zap.Int("cpu", l.writerCPU), zap.Error(err))
		}
	}
	for {
		rec, ok := l.queue.Pop()
		if !ok {
			return
		}
		if l.afterPop != nil {
			l.afterPop()
		}
		l.mu.Lock()
		l.writeLocked(rec)
		l.mu.Unlock()
		l.metrics.SetQueueDepth(l.queue.Len())
	}
}

// Flush wakes the writer goroutine and pushes buffered bytes to disk.
func (l *Logger) Flush() {
	l.mu.Lock()
	async, q := l.async, l.queue
	l.mu.Unlock()
	if async {
		q.Flush()
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	if err := l.file.flush(); err != nil {
		l.zl.Debug("Log flush failed", zap.Error(err))
	}
}

// Close stops accepting lines, waits for the writer goroutine to drain the
// queue, then flushes and closes the file. If ctx ends before the queue is
// drained the remaining lines are discarded and ctx.Err() is returned.
// Calling Close again is a no-op. Closing a Logger that was never
// initialized marks it closed and reports ErrNotInitialized.
func (l *Logger) Close(ctx context.Context) error {
	l.mu.Lock()
	if !l.initialized {
		l.closed = true
		l.mu.Unlock()
		return fmt.Errorf("logging: close: %w", api.ErrNotInitialized)
	}
	if l.closed {
		l.mu.Unlock()
		return nil
	}
	l.closed = true
	l.mu.Unlock()

	var drainErr error
	if l.async {
		drainErr = l.queue.Drain(ctx)
		l.worker.Wait()
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	if lost, err := l.file.close(); err != nil {
		l.drop(lost)
		return errors.Join(drainErr, fmt.Errorf("logging: close %s: %w", l.file.name, err))
	}
	if drainErr != nil {
		l.zl.Warn("Log queue not fully drained", zap.Error(drainErr))
	}
	return drainErr
}

// Stats returns counters for metrics endpoints and debug probes.
func (l *Logger) Stats() api.LoggerStats {
	l.mu.Lock()
	st := api.LoggerStats{
		Async:     l.async,
		File:      l.file.name,
		LineCount: l.file.lineCount,
	}
	q := l.queue
	l.mu.Unlock()
	st.Level = l.GetLevel()
	st.Written = l.written.Load()
	st.Dropped = l.dropped.Load()
	st.SyncFallbacks = l.fallbacks.Load()
	st.Rotations = l.rotations.Load()
	if q != nil {
		st.Queue = q.Stats()
	}
	return st
}

// ReloadHook returns a control reload listener applying level changes.
func (l *Logger) ReloadHook() func(*control.Config) {
	return func(c *control.Config) {
		lvl, err := c.Logger.ParsedLevel()
		if err != nil {
			l.zl.Warn("Ignoring reloaded log level", zap.Error(err))
			return
		}
		if lvl != l.GetLevel() {
			l.SetLevel(lvl)
			l.zl.Info("Log level changed", zap.Stringer("level", lvl))
		}
	}
}

// RegisterProbes exposes logger state on dp.
func (l *Logger) RegisterProbes(dp *control.DebugProbes) {
	dp.RegisterProbe("logger.file", func() any { return l.FileName() })
	dp.RegisterProbe("logger.level", func() any { return l.GetLevel().String() })
	dp.RegisterProbe("logger.written", func() any { return l.written.Load() })
	dp.RegisterProbe("logger.sync_fallbacks", func() any { return l.fallbacks.Load() })
	dp.RegisterProbe("logger.queue_len", func() any { return l.Stats().Queue.Len })
}
