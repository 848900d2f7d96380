package api

import (
	"errors"
	"syscall"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWrapErrorKeepsCause(t *testing.T) {
	err := WrapError(ErrCodeInvalidArgument, "logging: queue capacity", ErrInvalidArgument).
		WithContext("maxQueueCapacity", -1)

	assert.ErrorIs(t, err, ErrInvalidArgument)
	assert.Equal(t, -1, err.Context["maxQueueCapacity"])
	assert.Equal(t, "logging: queue capacity: invalid argument (invalid_argument, context: map[maxQueueCapacity:-1])", err.Error())

	var coded *Error
	assert.True(t, errors.As(error(err), &coded))
	assert.Equal(t, ErrCodeInvalidArgument, coded.Code)
}

func TestWrapErrorWithoutContext(t *testing.T) {
	err := WrapError(ErrCodeIO, "open", errors.New("denied"))
	assert.Equal(t, "open: denied", err.Error())
}

func TestIOErrorClassification(t *testing.T) {
	cases := map[syscall.Errno]ErrorCode{
		syscall.EAGAIN:     ErrCodeWouldBlock,
		syscall.EINTR:      ErrCodeInterrupted,
		syscall.EBADF:      ErrCodeClosed,
		syscall.ECONNRESET: ErrCodeClosed,
		syscall.EINVAL:     ErrCodeInvalidArgument,
		syscall.EIO:        ErrCodeIO,
	}
	for errno, kind := range cases {
		e := NewIOError("readv", 3, errno)
		assert.Equal(t, kind, e.Kind, errno.Error())
		assert.ErrorIs(t, e, errno)
	}
	assert.True(t, NewIOError("write", 3, syscall.EAGAIN).Temporary())
	assert.False(t, NewIOError("write", 3, syscall.EPIPE).Temporary())
}
