// File: core/logging/file.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package logging

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

const fileBufferSize = 32 * 1024

// rotatingFile is the open log file plus the rotation bookkeeping that must
// stay consistent with its name. Guarded by Logger.mu.
type rotatingFile struct {
	dir    string
	suffix string

	f    *os.File
	w    *bufio.Writer
	name string

	day       int // yyyymmdd the file was opened for
	lineCount int
	pending   int // lines written to w since its last successful flush
}

func dayKey(t time.Time) int {
	y, m, d := t.Date()
	return y*10000 + int(m)*100 + d
}

// fileName builds <dir>/YYYY_MM_DD[-index]<suffix> for a dayKey value.
func (r *rotatingFile) fileName(day, index int) string {
	base := fmt.Sprintf("%04d_%02d_%02d", day/10000, day/100%100, day%100)
	if index > 0 {
		base = fmt.Sprintf("%s-%d", base, index)
	}
	return filepath.Join(r.dir, base+r.suffix)
}

// openFile creates the directory if needed and opens name for appending.
func (r *rotatingFile) openFile(name string) (*os.File, error) {
	if err := os.MkdirAll(r.dir, 0o777); err != nil {
		return nil, fmt.Errorf("create log dir %s: %w", r.dir, err)
	}
	f, err := os.OpenFile(name, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open log file %s: %w", name, err)
	}
	return f, nil
}

// install makes f the current file, closing the previous one. lost is the
// number of lines still buffered for the previous file when its final flush
// failed.
func (r *rotatingFile) install(f *os.File, name string) (lost int, err error) {
	if r.f != nil {
		lost, err = r.close()
	}
	r.f = f
	r.w = bufio.NewWriterSize(f, fileBufferSize)
	r.name = name
	return lost, err
}

func (r *rotatingFile) isOpen() bool { return r.f != nil }

func (r *rotatingFile) write(line string) error {
	if r.w == nil {
		return errFileClosed
	}
	if _, err := r.w.WriteString(line); err != nil {
		return err
	}
	r.pending++
	return nil
}

// flushBuffered hands buffered lines to the OS.
func (r *rotatingFile) flushBuffered() error {
	if r.w == nil {
		return nil
	}
	if err := r.w.Flush(); err != nil {
		return err
	}
	r.pending = 0
	return nil
}

// flush pushes buffered lines to the OS and syncs the file.
func (r *rotatingFile) flush() error {
	if r.w == nil {
		return nil
	}
	if err := r.flushBuffered(); err != nil {
		return err
	}
	return r.f.Sync()
}

// close flushes and closes the current file. On a failed flush the buffered
// lines are reported as lost.
func (r *rotatingFile) close() (lost int, err error) {
	if r.f == nil {
		return 0, nil
	}
	ferr := r.w.Flush()
	if ferr != nil {
		lost = r.pending
	}
	cerr := r.f.Close()
	r.f, r.w, r.pending = nil, nil, 0
	if ferr != nil {
		return lost, fmt.Errorf("flush %s: %w", r.name, ferr)
	}
	return 0, cerr
}
