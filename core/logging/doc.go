// Package logging
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Asynchronous, day-rotating file logger.
//
// Callers format lines on their own goroutine; in asynchronous mode the lines
// are handed to a bounded queue and appended by a single writer goroutine.
// Rotation is decided as each line is written, from the time it was logged. When the queue is full the caller writes the line itself
// instead of waiting. Files are named <dir>/YYYY_MM_DD<suffix>, with a -N
// infix once a day's file reaches the line limit.
//
//	l := logging.New(logging.WithZap(zl))
//	if err := l.Init(logging.Config{Level: api.LevelInfo, Path: "./log", Suffix: ".log", MaxQueueCapacity: 1024}); err != nil {
//		return err
//	}
//	defer l.Close(context.Background())
//	l.Infof("accepted %s", addr)
//
// A zap logger sharing the same pipeline is available through NewCore.
package logging
