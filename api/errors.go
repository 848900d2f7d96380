// Package api
// Author: momentics <momentics@gmail.com>
//
// Common error types and error handling utilities for hioload-core.

package api

import (
	"errors"
	"fmt"
	"syscall"
)

// Common errors used across the library.
var (
	ErrQueueClosed        = errors.New("queue is closed")
	ErrLoggerClosed       = errors.New("logger is closed")
	ErrAlreadyInitialized = errors.New("already initialized")
	ErrNotInitialized     = errors.New("not initialized")
	ErrInvalidArgument    = errors.New("invalid argument")
	ErrNotSupported       = errors.New("operation not supported")
)

// ErrorCode represents specific error conditions in the library.
type ErrorCode int

const (
	ErrCodeOK ErrorCode = iota
	ErrCodeInvalidArgument
	ErrCodeIO
	ErrCodeWouldBlock
	ErrCodeInterrupted
	ErrCodeClosed
	ErrCodeNotSupported
	ErrCodeInternal
)

func (c ErrorCode) String() string {
	switch c {
	case ErrCodeOK:
		return "ok"
	case ErrCodeInvalidArgument:
		return "invalid_argument"
	case ErrCodeIO:
		return "io"
	case ErrCodeWouldBlock:
		return "would_block"
	case ErrCodeInterrupted:
		return "interrupted"
	case ErrCodeClosed:
		return "closed"
	case ErrCodeNotSupported:
		return "not_supported"
	default:
		return "internal"
	}
}

// Error is a coded failure with key/value context, e.g. the file a logger
// could not open. Cause, when set, is reachable through errors.Is/As.
type Error struct {
	Code    ErrorCode
	Message string
	Cause   error
	Context map[string]any
}

func (e *Error) Error() string {
	msg := e.Message
	if e.Cause != nil {
		msg = msg + ": " + e.Cause.Error()
	}
	if len(e.Context) == 0 {
		return msg
	}
	return fmt.Sprintf("%s (%s, context: %v)", msg, e.Code, e.Context)
}

func (e *Error) Unwrap() error { return e.Cause }

// WrapError creates a coded error around cause.
func WrapError(code ErrorCode, message string, cause error) *Error {
	return &Error{Code: code, Message: message, Cause: cause}
}

// WithContext records key=value on e and returns e.
func (e *Error) WithContext(key string, value any) *Error {
	if e.Context == nil {
		e.Context = make(map[string]any)
	}
	e.Context[key] = value
	return e
}

// IOError reports a failed descriptor syscall. Errno keeps the platform
// error number so callers can decide between retry and teardown.
type IOError struct {
	Op    string
	Fd    int
	Kind  ErrorCode
	Errno syscall.Errno
}

// NewIOError classifies errno into a Kind.
func NewIOError(op string, fd int, errno syscall.Errno) *IOError {
	kind := ErrCodeIO
	switch errno {
	case syscall.EAGAIN:
		kind = ErrCodeWouldBlock
	case syscall.EINTR:
		kind = ErrCodeInterrupted
	case syscall.EBADF, syscall.EPIPE, syscall.ECONNRESET:
		kind = ErrCodeClosed
	case syscall.EINVAL, syscall.EFAULT:
		kind = ErrCodeInvalidArgument
	}
	return &IOError{Op: op, Fd: fd, Kind: kind, Errno: errno}
}

func (e *IOError) Error() string {
	return fmt.Sprintf("%s fd=%d: %s (%s)", e.Op, e.Fd, e.Errno.Error(), e.Kind)
}

// Unwrap exposes the errno so errors.Is(err, syscall.EAGAIN) works.
func (e *IOError) Unwrap() error { return e.Errno }

// Temporary reports whether the caller may retry the same call.
func (e *IOError) Temporary() bool {
	return e.Kind == ErrCodeWouldBlock || e.Kind == ErrCodeInterrupted
}
