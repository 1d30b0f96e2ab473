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

// Package hlist provides an intrusive singly-headed linked list, built for
// hash table buckets where a two-pointer head per bucket is too wasteful.
//
// The head holds a single reference to the first node. Each node holds a
// reference to the next node and pprev, the address of the slot that
// references it: either the head's first slot or the previous node's next
// slot. That back-slot makes arbitrary removal O(1) without ever touching
// the head, at the cost of O(n) access to the tail.
//
// As with package list, nodes are embedded in their owning structures, no
// operation allocates, preconditions are caller obligations, and nothing
// here is safe against concurrent mutation without external exclusion.
package hlist

import "iter"

// A Head anchors a singly-headed list. The zero value is an empty list.
type Head[T any] struct {
	first *Node[T]
}

// A Node is a position in a singly-headed list.
//
// The zero value is a detached ("unhashed") node, ready for insertion.
type Node[T any] struct {
	next  *Node[T]
	pprev **Node[T]

	// Owner points back to the structure this node is embedded in.
	Owner *T
}

// Init resets h to an empty list.
func (h *Head[T]) Init() {
	h.first = nil
}

// Init resets n to the detached state.
func (n *Node[T]) Init() {
	n.next = nil
	n.pprev = nil
}

// Empty reports whether h has no members.
func (h *Head[T]) Empty() bool {
	return h.first == nil
}

// Unhashed reports whether n is detached. Note that plain Remove does not
// leave a node unhashed; RemoveInit does.
func (n *Node[T]) Unhashed() bool {
	return n.pprev == nil
}

// del unlinks n by writing its next into the slot that referenced it.
func (n *Node[T]) del() {
	next := n.next
	pprev := n.pprev

	*pprev = next
	if next != nil {
		next.pprev = pprev
	}
}

// Remove unlinks n from its list, leaving it poisoned: next references the
// node itself, a state no linked or detached node can be in, so stale use is
// detectable. n is not unhashed afterwards; use RemoveInit for that.
func (n *Node[T]) Remove() {
	n.del()
	n.next = n
	n.pprev = &n.next
}

// RemoveInit unlinks n, if linked, and resets it to the detached state.
func (n *Node[T]) RemoveInit() {
	if !n.Unhashed() {
		n.del()
		n.Init()
	}
}

// PushFront inserts n at the front of the list anchored at h.
func (h *Head[T]) PushFront(n *Node[T]) {
	first := h.first
	n.next = first
	if first != nil {
		first.pprev = &n.next
	}
	h.first = n
	n.pprev = &h.first
}

// InsertBefore inserts n immediately before next, which must be linked. A
// singly-headed list cannot express "before the head" without a real
// adjacent node, so next must be non-nil.
func (n *Node[T]) InsertBefore(next *Node[T]) {
	n.pprev = next.pprev
	n.next = next
	next.pprev = &n.next
	*n.pprev = n
}

// InsertAfter inserts n immediately after prev, which must be linked and
// non-nil.
func (n *Node[T]) InsertAfter(prev *Node[T]) {
	n.next = prev.next
	prev.next = n
	n.pprev = &prev.next

	if n.next != nil {
		n.next.pprev = &n.next
	}
}

// AddFake makes n a fake single-node headless list, its own referencing
// slot. Generic teardown code can then Remove it without caring whether a
// real list ever existed.
func (n *Node[T]) AddFake() {
	n.pprev = &n.next
}

// IsFake reports whether n is a fake headless list created by AddFake.
func (n *Node[T]) IsFake() bool {
	// A poisoned node is also self-referential through pprev, but only a
	// poisoned node has next pointing at itself.
	return n.pprev == &n.next && n.next != n
}

// IsSingularNode reports whether n is the only member of the list anchored
// at h, using only n's own fields so the (possibly cache-cold) head is never
// dereferenced.
func (n *Node[T]) IsSingularNode(h *Head[T]) bool {
	return n.next == nil && n.pprev == &h.first
}

// MoveTo transfers the entire chain anchored at h to the head newh, fixing
// up the first node's back-slot. h is left empty. Whatever newh referenced
// before is abandoned.
func (h *Head[T]) MoveTo(newh *Head[T]) {
	newh.first = h.first
	if newh.first != nil {
		newh.first.pprev = &newh.first
	}
	h.first = nil
}

// Front returns the first node of h, or nil if the list is empty.
func (h *Head[T]) Front() *Node[T] {
	return h.first
}

// FirstEntry returns the owner of the first member of h, or nil if the list
// is empty.
func (h *Head[T]) FirstEntry() *T {
	if n := h.first; n != nil {
		return n.Owner
	}
	return nil
}

// Next returns the node following n, or nil on the last member.
func (n *Node[T]) Next() *Node[T] {
	return n.next
}

// All returns a lazy, restartable sequence of the owners of the list
// anchored at h, front to back. The list must not be mutated during a pass;
// use AllSafe when the loop body removes the current element.
func (h *Head[T]) All() iter.Seq[*T] {
	return func(yield func(*T) bool) {
		for pos := h.first; pos != nil; pos = pos.next {
			if !yield(pos.Owner) {
				return
			}
		}
	}
}

// AllSafe is like All, but captures each element's successor before yielding
// it, so the loop body may remove the yielded element.
func (h *Head[T]) AllSafe() iter.Seq[*T] {
	return func(yield func(*T) bool) {
		pos := h.first
		for pos != nil {
			n := pos.next
			if !yield(pos.Owner) {
				return
			}
			pos = n
		}
	}
}
