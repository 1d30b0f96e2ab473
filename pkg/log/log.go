// Copyright 2024 The kutil Authors.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package log provides leveled logging and a facility for duplicating the
// process's standard output and error streams into a log file.
//
// Log messages flow through an Emitter, which formats them, into a Writer,
// which delivers them and accounts for messages dropped on delivery errors.
// The package-level logger is safe for concurrent use.
package log

import (
	"fmt"
	"io"
	"os"
	"sync"
	"sync/atomic"
	"time"
)

// Level is the log level.
type Level uint32

// The set of levels, in decreasing order of severity. A logger at level L
// emits messages of severity L and higher.
const (
	// Error messages report failures the program cannot compensate for.
	Error Level = iota

	// Warning messages are likely problems.
	Warning

	// Info messages are normal operational messages.
	Info

	// Debug messages are for development only; they may be arbitrarily
	// expensive to produce.
	Debug
)

// String implements fmt.Stringer.
func (l Level) String() string {
	switch l {
	case Error:
		return "error"
	case Warning:
		return "warning"
	case Info:
		return "info"
	case Debug:
		return "debug"
	default:
		return fmt.Sprintf("invalid level: %d", uint32(l))
	}
}

// Emitter is the final destination for a formatted log message.
type Emitter interface {
	// Emit emits the message. depth is the depth at which to capture the
	// caller, where zero is the caller of Emit itself.
	Emit(depth int, level Level, timestamp time.Time, format string, v ...any)
}

// Writer writes log messages to an io.Writer, dropping messages the
// destination rejects rather than blocking or failing the caller. When
// delivery recovers, a single notice records how many messages were lost.
type Writer struct {
	// Next is the underlying destination.
	Next io.Writer

	// mu protects dropped.
	mu sync.Mutex

	// dropped is the number of messages lost since the last successful
	// write.
	dropped uint64
}

// Write implements io.Writer.Write.
func (w *Writer) Write(data []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.dropped > 0 {
		notice := fmt.Sprintf("\n*** Dropped %d log messages ***\n", w.dropped)
		if _, err := w.Next.Write([]byte(notice)); err != nil {
			// Still failing; the current message is lost too.
			w.dropped++
			return 0, err
		}
		w.dropped = 0
	}

	n, err := w.Next.Write(data)
	if err != nil {
		w.dropped++
	}
	return n, err
}

// Logger is the high-level logging interface implemented by BasicLogger and
// the rate-limited wrapper.
type Logger interface {
	// Debugf logs a debug statement.
	Debugf(format string, v ...any)

	// Infof logs at an info level.
	Infof(format string, v ...any)

	// Warningf logs at a warning level.
	Warningf(format string, v ...any)

	// Errorf logs at an error level.
	Errorf(format string, v ...any)

	// IsLogging returns true iff this level is being logged. This may be
	// used to short-circuit expensive operations for debugging calls.
	IsLogging(level Level) bool
}

// BasicLogger is the default implementation of Logger.
type BasicLogger struct {
	Level
	Emitter
}

// Debugf implements Logger.Debugf.
func (l *BasicLogger) Debugf(format string, v ...any) {
	l.DebugfAtDepth(1, format, v...)
}

// Infof implements Logger.Infof.
func (l *BasicLogger) Infof(format string, v ...any) {
	l.InfofAtDepth(1, format, v...)
}

// Warningf implements Logger.Warningf.
func (l *BasicLogger) Warningf(format string, v ...any) {
	l.WarningfAtDepth(1, format, v...)
}

// Errorf implements Logger.Errorf.
func (l *BasicLogger) Errorf(format string, v ...any) {
	l.ErrorfAtDepth(1, format, v...)
}

// DebugfAtDepth logs at a specific depth, skipping stack frames.
func (l *BasicLogger) DebugfAtDepth(depth int, format string, v ...any) {
	if l.IsLogging(Debug) {
		l.Emit(1+depth, Debug, time.Now(), format, v...)
	}
}

// InfofAtDepth logs at a specific depth, skipping stack frames.
func (l *BasicLogger) InfofAtDepth(depth int, format string, v ...any) {
	if l.IsLogging(Info) {
		l.Emit(1+depth, Info, time.Now(), format, v...)
	}
}

// WarningfAtDepth logs at a specific depth, skipping stack frames.
func (l *BasicLogger) WarningfAtDepth(depth int, format string, v ...any) {
	if l.IsLogging(Warning) {
		l.Emit(1+depth, Warning, time.Now(), format, v...)
	}
}

// ErrorfAtDepth logs at a specific depth, skipping stack frames.
func (l *BasicLogger) ErrorfAtDepth(depth int, format string, v ...any) {
	if l.IsLogging(Error) {
		l.Emit(1+depth, Error, time.Now(), format, v...)
	}
}

// IsLogging implements Logger.IsLogging.
func (l *BasicLogger) IsLogging(level Level) bool {
	return atomic.LoadUint32((*uint32)(&l.Level)) >= uint32(level)
}

// SetLevel sets the logging level.
func (l *BasicLogger) SetLevel(level Level) {
	atomic.StoreUint32((*uint32)(&l.Level), uint32(level))
}

// logMu protects the global log below against racing SetTarget/SetLevel.
var logMu sync.Mutex

// log is the global logger.
var log atomic.Pointer[BasicLogger]

func init() {
	log.Store(&BasicLogger{Level: Info, Emitter: TextEmitter{&Writer{Next: os.Stderr}}})
}

// Log retrieves the global logger.
func Log() *BasicLogger {
	return log.Load()
}

// SetTarget sets the log target, preserving the current level.
func SetTarget(target Emitter) {
	logMu.Lock()
	defer logMu.Unlock()
	oldLog := Log()
	log.Store(&BasicLogger{Level: oldLog.Level, Emitter: target})
}

// SetLevel sets the log level on the global logger.
func SetLevel(newLevel Level) {
	logMu.Lock()
	defer logMu.Unlock()
	Log().SetLevel(newLevel)
}

// Debugf logs to the global logger.
func Debugf(format string, v ...any) {
	Log().DebugfAtDepth(1, format, v...)
}

// Infof logs to the global logger.
func Infof(format string, v ...any) {
	Log().InfofAtDepth(1, format, v...)
}

// Warningf logs to the global logger.
func Warningf(format string, v ...any) {
	Log().WarningfAtDepth(1, format, v...)
}

// Errorf logs to the global logger.
func Errorf(format string, v ...any) {
	Log().ErrorfAtDepth(1, format, v...)
}

// Fatalf logs an error to the global logger and exits the process.
func Fatalf(format string, v ...any) {
	Log().ErrorfAtDepth(1, format, v...)
	os.Exit(1)
}
