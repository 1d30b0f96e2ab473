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

package list

// A SafeCursor walks a list one element at a time while allowing the element
// most recently returned to be removed or relocated. The successor is
// captured before each element is handed out, so mutating the current
// element never derails the walk.
//
// Unlike the sequence returned by AllSafe, a cursor exposes ResetNext for
// the one pattern where the saved successor can itself go stale: a caller
// that drops its lock mid-walk.
type SafeCursor[T any] struct {
	head    *Node[T]
	pos     *Node[T]
	next    *Node[T]
	reverse bool
}

// SafeCursor returns a forward cursor over the list headed by h.
func (h *Node[T]) SafeCursor() *SafeCursor[T] {
	return &SafeCursor[T]{head: h, pos: h, next: h.next}
}

// SafeReverseCursor returns a backward cursor over the list headed by h.
func (h *Node[T]) SafeReverseCursor() *SafeCursor[T] {
	return &SafeCursor[T]{head: h, pos: h, next: h.prev, reverse: true}
}

// Next advances the cursor and returns the owner of the next element, or
// (nil, false) once the walk has returned to the head.
func (c *SafeCursor[T]) Next() (*T, bool) {
	pos := c.next
	if pos == c.head {
		return nil, false
	}
	c.pos = pos
	if c.reverse {
		c.next = pos.prev
	} else {
		c.next = pos.next
	}
	return pos.Owner, true
}

// ResetNext recomputes the saved successor from the current element.
//
// This exists for exactly one pattern: a caller that holds a lock over the
// list, drops it mid-iteration, and reacquires it before finishing the
// current step. While the lock is dropped the saved successor may be removed
// by others; provided the current element itself stays pinned in the list,
// calling ResetNext after reacquiring the lock makes the cursor valid again.
// Outside that pattern, with the list mutated concurrently, it is not safe
// and must not be used as a general repair mechanism.
func (c *SafeCursor[T]) ResetNext() {
	if c.reverse {
		c.next = c.pos.prev
	} else {
		c.next = c.pos.next
	}
}
