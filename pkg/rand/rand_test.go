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

package rand

import (
	"bytes"
	"testing"
)

func TestRead(t *testing.T) {
	b := make([]byte, 257)
	n, err := Read(b)
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	if n != len(b) {
		t.Errorf("short read: got %d bytes, want %d", n, len(b))
	}
}

func TestReadsDiffer(t *testing.T) {
	a := make([]byte, 32)
	b := make([]byte, 32)
	if _, err := Read(a); err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	if _, err := Read(b); err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	if bytes.Equal(a, b) {
		t.Errorf("two 32-byte reads returned identical data: %x", a)
	}
}

func TestUints(t *testing.T) {
	if _, err := Uint32(); err != nil {
		t.Errorf("Uint32 failed: %v", err)
	}
	if _, err := Uint64(); err != nil {
		t.Errorf("Uint64 failed: %v", err)
	}
}
