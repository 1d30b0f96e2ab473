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
	"encoding/json"
	"errors"
	"regexp"
	"strings"
	"testing"
	"time"
)

// testWriter records everything written to it and can be made to fail.
type testWriter struct {
	lines []string
	fail  bool
}

func (w *testWriter) Write(b []byte) (int, error) {
	if w.fail {
		return 0, errors.New("simulated failure")
	}
	w.lines = append(w.lines, string(b))
	return len(b), nil
}

func TestWriterDroppedNotice(t *testing.T) {
	tw := &testWriter{}
	w := &Writer{Next: tw}

	if _, err := w.Write([]byte("first\n")); err != nil {
		t.Fatalf("Write failed: %v", err)
	}

	tw.fail = true
	for i := 0; i < 3; i++ {
		if _, err := w.Write([]byte("lost\n")); err == nil {
			t.Fatalf("Write %d: got nil error while destination failing", i)
		}
	}

	tw.fail = false
	if _, err := w.Write([]byte("second\n")); err != nil {
		t.Fatalf("Write after recovery failed: %v", err)
	}

	want := []string{
		"first\n",
		"\n*** Dropped 3 log messages ***\n",
		"second\n",
	}
	if len(tw.lines) != len(want) {
		t.Fatalf("got %d writes %q, want %d", len(tw.lines), tw.lines, len(want))
	}
	for i := range want {
		if tw.lines[i] != want[i] {
			t.Errorf("write %d: got %q, want %q", i, tw.lines[i], want[i])
		}
	}
}

func TestWriterNoticeFailureKeepsCounting(t *testing.T) {
	tw := &testWriter{fail: true}
	w := &Writer{Next: tw}

	w.Write([]byte("a\n")) // dropped: 1
	w.Write([]byte("b\n")) // notice fails, dropped: 2

	tw.fail = false
	if _, err := w.Write([]byte("c\n")); err != nil {
		t.Fatalf("Write after recovery failed: %v", err)
	}
	if got, want := tw.lines[0], "\n*** Dropped 2 log messages ***\n"; got != want {
		t.Errorf("notice: got %q, want %q", got, want)
	}
	if got, want := tw.lines[1], "c\n"; got != want {
		t.Errorf("message: got %q, want %q", got, want)
	}
}

func TestLevelString(t *testing.T) {
	for _, tc := range []struct {
		level Level
		want  string
	}{
		{Error, "error"},
		{Warning, "warning"},
		{Info, "info"},
		{Debug, "debug"},
		{Level(99), "invalid level: 99"},
	} {
		if got := tc.level.String(); got != tc.want {
			t.Errorf("Level(%d).String(): got %q, want %q", uint32(tc.level), got, tc.want)
		}
	}
}

func TestIsLoggingAndSetLevel(t *testing.T) {
	l := &BasicLogger{Level: Warning, Emitter: TextEmitter{&Writer{Next: &testWriter{}}}}

	if !l.IsLogging(Error) {
		t.Errorf("IsLogging(Error) at Warning: got false, want true")
	}
	if !l.IsLogging(Warning) {
		t.Errorf("IsLogging(Warning) at Warning: got false, want true")
	}
	if l.IsLogging(Info) {
		t.Errorf("IsLogging(Info) at Warning: got true, want false")
	}

	l.SetLevel(Debug)
	if !l.IsLogging(Debug) {
		t.Errorf("IsLogging(Debug) after SetLevel(Debug): got false, want true")
	}
}

func TestLevelFiltering(t *testing.T) {
	tw := &testWriter{}
	l := &BasicLogger{Level: Info, Emitter: TextEmitter{&Writer{Next: tw}}}

	l.Debugf("suppressed")
	l.Infof("kept")
	if len(tw.lines) != 1 {
		t.Fatalf("got %d lines %q, want 1", len(tw.lines), tw.lines)
	}
	if !strings.HasPrefix(tw.lines[0], "II ") {
		t.Errorf("got %q, want II prefix", tw.lines[0])
	}
}

func TestTextEmitterFormat(t *testing.T) {
	tw := &testWriter{}
	l := &BasicLogger{Level: Debug, Emitter: TextEmitter{&Writer{Next: tw}}}

	l.Infof("value %d", 7)
	l.Warningf("careful")
	l.Errorf("broken")
	l.Debugf("poke")

	if len(tw.lines) != 4 {
		t.Fatalf("got %d lines %q, want 4", len(tw.lines), tw.lines)
	}
	if got, want := tw.lines[0], "II value 7\n"; got != want {
		t.Errorf("info line: got %q, want %q", got, want)
	}
	for i, re := range []string{
		`^WW Warning\(log_test\.go:\d+\): careful\n$`,
		`^EE Error\(log_test\.go:\d+\): broken\n$`,
		`^DD Debug\(log_test\.go:\d+\): poke\n$`,
	} {
		line := tw.lines[i+1]
		if !regexp.MustCompile(re).MatchString(line) {
			t.Errorf("line %d: got %q, want match for %q", i+1, line, re)
		}
	}
}

func TestJSONEmitter(t *testing.T) {
	tw := &testWriter{}
	l := &BasicLogger{Level: Debug, Emitter: JSONEmitter{&Writer{Next: tw}}}

	l.Warningf("count %d", 3)
	if len(tw.lines) != 1 {
		t.Fatalf("got %d lines %q, want 1", len(tw.lines), tw.lines)
	}

	var entry jsonLog
	if err := json.Unmarshal([]byte(tw.lines[0]), &entry); err != nil {
		t.Fatalf("invalid JSON %q: %v", tw.lines[0], err)
	}
	if entry.Level != Warning {
		t.Errorf("level: got %v, want %v", entry.Level, Warning)
	}
	if !strings.HasSuffix(entry.Msg, "count 3") {
		t.Errorf("msg: got %q, want suffix %q", entry.Msg, "count 3")
	}
	if !strings.Contains(entry.Msg, "log_test.go:") {
		t.Errorf("msg: got %q, want caller info", entry.Msg)
	}
}

func TestLevelJSONRoundTrip(t *testing.T) {
	for _, level := range []Level{Error, Warning, Info, Debug} {
		b, err := json.Marshal(level)
		if err != nil {
			t.Fatalf("marshal %v: %v", level, err)
		}
		var got Level
		if err := json.Unmarshal(b, &got); err != nil {
			t.Fatalf("unmarshal %s: %v", b, err)
		}
		if got != level {
			t.Errorf("round trip: got %v, want %v", got, level)
		}
	}

	// Numeric forms are accepted too.
	var got Level
	if err := json.Unmarshal([]byte("2"), &got); err != nil || got != Info {
		t.Errorf("unmarshal 2: got (%v, %v), want (info, nil)", got, err)
	}
	if err := got.UnmarshalJSON([]byte(`"loud"`)); err == nil {
		t.Errorf("unmarshal loud: got nil error, want error")
	}
	if _, err := json.Marshal(Level(42)); err == nil {
		t.Errorf("marshal 42: got nil error, want error")
	}
}

func TestRateLimitedLogger(t *testing.T) {
	tw := &testWriter{}
	base := &BasicLogger{Level: Info, Emitter: TextEmitter{&Writer{Next: tw}}}
	rl := RateLimitedLogger(base, time.Hour)

	rl.Infof("one")
	rl.Infof("two")
	rl.Infof("three")

	if len(tw.lines) != 1 {
		t.Fatalf("got %d lines %q, want 1", len(tw.lines), tw.lines)
	}
	if got, want := tw.lines[0], "II one\n"; got != want {
		t.Errorf("got %q, want %q", got, want)
	}
	if !rl.IsLogging(Info) {
		t.Errorf("IsLogging(Info): got false, want true")
	}
}

func TestGlobalLogger(t *testing.T) {
	old := Log()
	defer func() {
		SetTarget(old.Emitter)
		SetLevel(old.Level)
	}()

	tw := &testWriter{}
	SetTarget(TextEmitter{&Writer{Next: tw}})
	SetLevel(Info)

	Infof("hello %s", "world")
	Debugf("hidden")

	if len(tw.lines) != 1 {
		t.Fatalf("got %d lines %q, want 1", len(tw.lines), tw.lines)
	}
	if got, want := tw.lines[0], "II hello world\n"; got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}
