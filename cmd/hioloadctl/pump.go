// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/momentics/hioload-core/api"
	"github.com/momentics/hioload-core/control"
	"github.com/momentics/hioload-core/core/buffer"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newPumpCmd() *cobra.Command {
	var (
		size       int
		configFile string
	)
	cmd := &cobra.Command{
		Use:   "pump",
		Short: "Copy stdin to stdout through a Buffer using readv/write",
		RunE: func(cmd *cobra.Command, _ []string) error {
			zl, err := initLogger(logLevel)
			if err != nil {
				return fmt.Errorf("failed to init logger: %w", err)
			}
			defer zl.Sync()

			bufSize, err := bufferSize(configFile, size)
			if err != nil {
				return err
			}
			n, err := pump(int(os.Stdin.Fd()), int(os.Stdout.Fd()), bufSize)
			zl.Debug("Pump finished", zap.Int64("bytes", n), zap.Error(err))
			return err
		},
	}
	cmd.Flags().IntVarP(&size, "size", "s", 0, "initial buffer size (default buffer.initialSize from config)")
	cmd.Flags().StringVarP(&configFile, "config", "c", "", "config file (yaml, json or toml)")
	return cmd
}

// bufferSize returns size when set, else buffer.initialSize from the config
// file and environment.
func bufferSize(configFile string, size int) (int, error) {
	if size > 0 {
		return size, nil
	}
	cfg, err := control.Load(configFile)
	if err != nil {
		return 0, err
	}
	if cfg.Buffer.InitialSize <= 0 {
		return buffer.DefaultSize, nil
	}
	return cfg.Buffer.InitialSize, nil
}

// pump copies src to dst until EOF. Interrupted calls are retried; any other
// descriptor error ends the copy.
func pump(src, dst, size int) (int64, error) {
	buf := buffer.New(size)
	var total int64
	for {
		n, err := buf.ReadFd(src)
		if err != nil {
			if interrupted(err) {
				continue
			}
			return total, err
		}
		if n == 0 {
			return total, nil
		}
		for buf.ReadableBytes() > 0 {
			w, err := buf.WriteFd(dst)
			if err != nil {
				if interrupted(err) {
					continue
				}
				return total, err
			}
			total += int64(w)
		}
	}
}

func interrupted(err error) bool {
	var ioErr *api.IOError
	return errors.As(err, &ioErr) && ioErr.Kind == api.ErrCodeInterrupted
}
