// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package main

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"sync"
	"time"

	"github.com/momentics/hioload-core/api"
	"github.com/momentics/hioload-core/control"
	"github.com/momentics/hioload-core/core/logging"
	"github.com/momentics/hioload-core/pool"
	"github.com/olekukonko/tablewriter"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

type benchOptions struct {
	configFile  string
	watch       bool
	writers     int
	lines       int
	queue       int // < 0 keeps logger.maxQueueCapacity from config
	dir         string
	metricsAddr string
	dumpState   bool
	closeWait   time.Duration
	writerCPU   int
}

type benchResult struct {
	RunID    string
	Writers  int
	Lines    int
	Expected int
	Counted  int
	Files    []string
	Elapsed  time.Duration
	Stats    api.LoggerStats
	State    []byte // YAML probe dump, when requested
}

func newLogbenchCmd() *cobra.Command {
	opts := benchOptions{}
	cmd := &cobra.Command{
		Use:   "logbench",
		Short: "Write lines from concurrent goroutines and verify none were lost",
		RunE: func(cmd *cobra.Command, _ []string) error {
			zl, err := initLogger(logLevel)
			if err != nil {
				return fmt.Errorf("failed to init logger: %w", err)
			}
			defer zl.Sync()

			res, err := runBench(cmd.Context(), opts, zl)
			if err != nil {
				return err
			}
			if err := printSummary(cmd.OutOrStdout(), res); err != nil {
				return err
			}
			if res.State != nil {
				cmd.OutOrStdout().Write(res.State)
			}
			if res.Counted != res.Expected {
				return fmt.Errorf("lost lines: expected %d, found %d", res.Expected, res.Counted)
			}
			return nil
		},
	}

	f := cmd.Flags()
	f.StringVarP(&opts.configFile, "config", "c", "", "config file (yaml, json or toml)")
	f.BoolVar(&opts.watch, "watch", false, "reload the log level when the config file changes")
	f.IntVarP(&opts.writers, "writers", "w", 8, "concurrent writer goroutines")
	f.IntVarP(&opts.lines, "lines", "n", 10000, "lines per writer")
	f.IntVarP(&opts.queue, "queue", "q", -1, "queue capacity, 0 for synchronous (default from config)")
	f.StringVarP(&opts.dir, "dir", "d", "", "log directory (default from config)")
	f.StringVar(&opts.metricsAddr, "metrics-addr", "", "serve prometheus metrics on this address")
	f.BoolVar(&opts.dumpState, "dump-state", false, "print debug probes as YAML after the run")
	f.IntVar(&opts.writerCPU, "writer-cpu", -1, "pin the async writer goroutine to this CPU")
	f.DurationVar(&opts.closeWait, "close-timeout", 30*time.Second, "how long Close may wait for the queue to drain")
	return cmd
}

func loadConfig(opts benchOptions, zl *zap.Logger) (*control.Config, error) {
	if opts.watch && opts.configFile != "" {
		return control.Watch(opts.configFile, zl)
	}
	return control.Load(opts.configFile)
}

func runBench(ctx context.Context, opts benchOptions, zl *zap.Logger) (*benchResult, error) {
	if opts.writers <= 0 || opts.lines < 0 {
		return nil, fmt.Errorf("writers=%d lines=%d: %w", opts.writers, opts.lines, api.ErrInvalidArgument)
	}
	cfg, err := loadConfig(opts, zl)
	if err != nil {
		return nil, err
	}
	if opts.dir != "" {
		cfg.Logger.Path = opts.dir
	}
	if opts.queue >= 0 {
		cfg.Logger.MaxQueueCapacity = opts.queue
	}
	lcfg, err := logging.ConfigFrom(cfg.Logger)
	if err != nil {
		return nil, err
	}

	reg := prometheus.NewRegistry()
	l := logging.New(
		logging.WithZap(zl),
		logging.WithMetrics(control.NewMetrics(reg)),
		logging.WithMaxLines(cfg.Logger.MaxLines),
		logging.WithFlushEachLine(cfg.Logger.FlushEachLine),
		logging.WithWriterCPU(opts.writerCPU),
	)
	if err := l.Init(lcfg); err != nil {
		return nil, err
	}
	if opts.watch {
		control.RegisterReloadHook(l.ReloadHook())
	}

	addr := opts.metricsAddr
	if addr == "" {
		addr = cfg.Metrics.Addr
	}
	if addr != "" {
		srv := serveMetrics(addr, reg, zl)
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			srv.Shutdown(shutdownCtx)
		}()
	}

	res := &benchResult{
		RunID:   strconv.FormatInt(time.Now().UnixNano(), 36),
		Writers: opts.writers,
		Lines:   opts.lines,
	}
	level := l.GetLevel()
	res.Expected = opts.writers * opts.lines

	start := time.Now()
	var wg sync.WaitGroup
	for w := 0; w < opts.writers; w++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			for i := 0; i < opts.lines; i++ {
				l.Write(level, "run=%s writer=%d seq=%d", res.RunID, id, i)
			}
		}(w)
	}
	wg.Wait()

	closeCtx, cancel := context.WithTimeout(ctx, opts.closeWait)
	defer cancel()
	closeErr := l.Close(closeCtx)
	res.Elapsed = time.Since(start)
	res.Stats = l.Stats()

	if opts.dumpState {
		dp := control.NewDebugProbes()
		control.RegisterPlatformProbes(dp)
		l.RegisterProbes(dp)
		dp.RegisterProbe("pool.scratch", func() any { return pool.Scratch().Stats() })
		if res.State, err = dp.DumpYAML(); err != nil {
			return nil, err
		}
	}

	res.Files, res.Counted, err = countRunLines(lcfg.Path, lcfg.Suffix, res.RunID)
	if err != nil {
		return nil, errors.Join(closeErr, err)
	}
	zl.Info("Benchmark finished",
		zap.String("run", res.RunID),
		zap.Int("expected", res.Expected),
		zap.Int("counted", res.Counted),
		zap.Duration("elapsed", res.Elapsed),
	)
	return res, closeErr
}

func serveMetrics(addr string, reg *prometheus.Registry, zl *zap.Logger) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	go func() {
		zl.Info("Serving metrics", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zl.Error("Metrics server failed", zap.Error(err))
		}
	}()
	return srv
}

// countRunLines scans every <suffix> file in dir and counts the lines tagged
// with runID, returning the files that held any of them.
func countRunLines(dir, suffix, runID string) ([]string, int, error) {
	if dir == "" {
		dir = "."
	}
	matches, err := filepath.Glob(filepath.Join(dir, "*"+suffix))
	if err != nil {
		return nil, 0, err
	}
	tag := []byte("run=" + runID + " ")
	var files []string
	total := 0
	for _, name := range matches {
		n, err := countTagged(name, tag)
		if err != nil {
			return nil, 0, err
		}
		if n > 0 {
			files = append(files, name)
			total += n
		}
	}
	return files, total, nil
}

func countTagged(name string, tag []byte) (int, error) {
	f, err := os.Open(name)
	if err != nil {
		return 0, err
	}
	defer f.Close()
	n := 0
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		if bytes.Contains(sc.Bytes(), tag) {
			n++
		}
	}
	return n, sc.Err()
}

func printSummary(w io.Writer, res *benchResult) error {
	rate := 0.0
	if s := res.Elapsed.Seconds(); s > 0 {
		rate = float64(res.Counted) / s
	}
	table := tablewriter.NewTable(w)
	table.Header([]string{"Metric", "Value"})
	rows := [][]string{
		{"run", res.RunID},
		{"mode", modeName(res.Stats.Async)},
		{"writers", strconv.Itoa(res.Writers)},
		{"lines/writer", strconv.Itoa(res.Lines)},
		{"expected", strconv.Itoa(res.Expected)},
		{"counted", strconv.Itoa(res.Counted)},
		{"files", strconv.Itoa(len(res.Files))},
		{"rotations", strconv.FormatUint(res.Stats.Rotations, 10)},
		{"sync fallbacks", strconv.FormatUint(res.Stats.SyncFallbacks, 10)},
		{"dropped", strconv.FormatUint(res.Stats.Dropped, 10)},
		{"elapsed", res.Elapsed.Round(time.Millisecond).String()},
		{"lines/s", strconv.FormatFloat(rate, 'f', 0, 64)},
	}
	if err := table.Bulk(rows); err != nil {
		return err
	}
	return table.Render()
}

func modeName(async bool) string {
	if async {
		return "async"
	}
	return "sync"
}
