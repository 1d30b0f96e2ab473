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
	"io"
	"os"
	"sync"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sys/unix"
)

// Streams selects which standard streams Duplicate tees.
type Streams uint8

// Stream selection bits.
const (
	Stdout Streams = 1 << iota
	Stderr
)

// A Duplicator tees one or both standard streams into a log file. Everything
// written to a selected stream still reaches its original destination; the
// log file only receives a copy.
//
// Each selected stream's file descriptor is replaced with the write end of a
// pipe, and a goroutine fans everything read from the pipe out to the saved
// original descriptor and the log file. Close restores the original
// descriptors and waits for the goroutines to drain.
type Duplicator struct {
	mu      sync.Mutex // serializes log file writes across streams
	file    *os.File
	eg      errgroup.Group
	streams []*dupStream
}

// dupStream is the per-stream redirection state.
type dupStream struct {
	fd    int      // the standard descriptor taken over (1 or 2)
	saved *os.File // dup of the original destination
	read  *os.File // read end of the interposed pipe
}

// Duplicate starts copying the selected standard streams to the log file at
// path. If appendFile is set the file is appended to, otherwise it is
// truncated. The returned Duplicator must be closed to restore the streams.
//
// Writes to the selected streams from other goroutines during Close are the
// caller's to quiesce; a write racing the restore may reach only one of the
// two destinations.
func Duplicate(path string, streams Streams, appendFile bool) (*Duplicator, error) {
	if streams == 0 || streams&^(Stdout|Stderr) != 0 {
		return nil, fmt.Errorf("invalid stream selection %#x", uint8(streams))
	}

	flags := os.O_CREATE | os.O_WRONLY
	if appendFile {
		flags |= os.O_APPEND
	} else {
		flags |= os.O_TRUNC
	}
	f, err := os.OpenFile(path, flags, 0700)
	if err != nil {
		return nil, fmt.Errorf("opening log file %q: %w", path, err)
	}

	d := &Duplicator{file: f}
	for _, std := range []struct {
		flag Streams
		fd   int
		name string
	}{
		{Stdout, int(os.Stdout.Fd()), "stdout"},
		{Stderr, int(os.Stderr.Fd()), "stderr"},
	} {
		if streams&std.flag == 0 {
			continue
		}
		if err := d.redirect(std.fd, std.name); err != nil {
			d.Close()
			return nil, fmt.Errorf("redirecting %s: %w", std.name, err)
		}
	}
	return d, nil
}

// redirect interposes a pipe on fd and starts the tee goroutine for it.
func (d *Duplicator) redirect(fd int, name string) error {
	var p [2]int
	if err := unix.Pipe2(p[:], unix.O_CLOEXEC); err != nil {
		return err
	}

	saved, err := unix.Dup(fd)
	if err != nil {
		unix.Close(p[0])
		unix.Close(p[1])
		return err
	}
	unix.CloseOnExec(saved)

	if err := unix.Dup3(p[1], fd, 0); err != nil {
		unix.Close(p[0])
		unix.Close(p[1])
		unix.Close(saved)
		return err
	}
	// fd now holds the only reference we keep to the write end.
	unix.Close(p[1])

	s := &dupStream{
		fd:    fd,
		saved: os.NewFile(uintptr(saved), name+" (saved)"),
		read:  os.NewFile(uintptr(p[0]), name+" (tee)"),
	}
	d.streams = append(d.streams, s)
	d.eg.Go(func() error {
		return d.tee(s)
	})
	return nil
}

// tee copies from the interposed pipe to the saved destination and the log
// file until the write end is gone.
func (d *Duplicator) tee(s *dupStream) error {
	buf := make([]byte, 4096)
	for {
		n, err := s.read.Read(buf)
		if n > 0 {
			if _, werr := s.saved.Write(buf[:n]); werr != nil {
				return werr
			}
			d.mu.Lock()
			_, werr := d.file.Write(buf[:n])
			d.mu.Unlock()
			if werr != nil {
				return werr
			}
		}
		if err != nil {
			if err == io.EOF {
				return nil
			}
			return err
		}
	}
}

// Close restores the original stream descriptors, drains whatever is still
// in flight, and closes the log file.
func (d *Duplicator) Close() error {
	if d.file == nil {
		return nil
	}
	// Restoring the descriptor drops the last reference to the pipe's
	// write end, so the tee sees EOF once the pipe is drained.
	for _, s := range d.streams {
		unix.Dup3(int(s.saved.Fd()), s.fd, 0)
	}
	err := d.eg.Wait()
	for _, s := range d.streams {
		s.read.Close()
		s.saved.Close()
	}
	d.streams = nil
	if cerr := d.file.Close(); err == nil {
		err = cerr
	}
	d.file = nil
	return err
}
