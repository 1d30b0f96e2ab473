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

package log

import (
	"fmt"
	"runtime"
	"strings"
	"time"
)

// TextEmitter emits human-readable log lines. Each line carries a two-letter
// level tag; warnings, errors and debug messages additionally carry the
// caller's file and line.
//
// Lines have this form:
//
//	II some message
//	WW Warning(file.go:42): some message
type TextEmitter struct {
	*Writer
}

// Emit implements Emitter.Emit.
func (e TextEmitter) Emit(depth int, level Level, timestamp time.Time, format string, v ...any) {
	var b strings.Builder

	switch level {
	case Error:
		b.WriteString("EE ")
	case Warning:
		b.WriteString("WW ")
	case Info:
		b.WriteString("II ")
	case Debug:
		b.WriteString("DD ")
	}

	if label := levelLabel(level); label != "" {
		if file, line, ok := callerOf(depth + 1); ok {
			fmt.Fprintf(&b, "%s(%s:%d): ", label, file, line)
		} else {
			fmt.Fprintf(&b, "%s: ", label)
		}
	}

	fmt.Fprintf(&b, format, v...)
	b.WriteByte('\n')

	e.Writer.Write([]byte(b.String()))
}

// levelLabel returns the spelled-out label for levels that identify their
// call site, or "" for levels that do not.
func levelLabel(level Level) string {
	switch level {
	case Error:
		return "Error"
	case Warning:
		return "Warning"
	case Debug:
		return "Debug"
	default:
		return ""
	}
}

// callerOf resolves the file and line at the given depth, where zero is the
// caller of callerOf, with any directory path trimmed.
func callerOf(depth int) (string, int, bool) {
	_, file, line, ok := runtime.Caller(depth + 1)
	if !ok {
		return "", 0, false
	}
	if slash := strings.LastIndexByte(file, '/'); slash >= 0 {
		file = file[slash+1:]
	}
	return file, line, true
}
