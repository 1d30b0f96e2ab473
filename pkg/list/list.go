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

// Package list provides an intrusive circular doubly-linked list.
//
// A Node is embedded inside the structure that owns it; the list never
// allocates and never owns node memory, only the linkage fields. A list is
// anchored by a head, which is a Node of the same shape as every member: an
// empty list is a head whose next and prev reference itself.
//
// Entries can be added to or removed from the list in O(1) time and with no
// additional memory allocations. Splicing, cutting and bulk moves relink a
// fixed number of boundary pointers regardless of list length.
//
// None of the operations are safe against concurrent structural mutation;
// callers that share a list across goroutines must provide their own
// exclusion. The one narrow exception is the RemoveInitCareful /
// EmptyCareful pair, documented on those methods.
//
// Preconditions (a node passed to Remove must be linked, a node passed to
// PushFront must not be, BulkMoveTail's run must live on one list, and so
// on) are caller obligations and are not checked at runtime.
package list

import "iter"

// A Node is a position in a circular doubly-linked list. It must be
// initialized with Init before first use.
//
// The zero value is deliberately unusable: both links are nil, the same
// state Remove leaves behind, so walking from an uninitialized or removed
// node fails fast instead of corrupting a live list.
type Node[T any] struct {
	next *Node[T]
	prev *Node[T]

	// Owner points back to the structure this node is embedded in. It is
	// nil for list heads. The list itself never touches it beyond handing
	// it out during iteration.
	Owner *T
}

// Init makes n a self-referencing singleton. Applied to a head it produces a
// valid empty list; applied to a member-to-be it produces a valid detached
// node.
func (n *Node[T]) Init() {
	n.next = n
	n.prev = n
}

// insert links n between prev and next, which must be adjacent.
func insert[T any](n, prev, next *Node[T]) {
	next.prev = n
	n.next = next
	n.prev = prev
	prev.next = n
}

// del joins prev and next, unlinking whatever sat between them.
func del[T any](prev, next *Node[T]) {
	next.prev = prev
	prev.next = next
}

// PushFront inserts n immediately after h. h is usually a list head, but may
// be any linked node, in which case this is an insert-after.
//
// n must not currently be linked; its old neighbors are not repaired.
func (h *Node[T]) PushFront(n *Node[T]) {
	insert(n, h, h.next)
}

// PushBack inserts n immediately before h. h is usually a list head, but may
// be any linked node, in which case this is an insert-before.
//
// n must not currently be linked; its old neighbors are not repaired.
func (h *Node[T]) PushBack(n *Node[T]) {
	insert(n, h.prev, h)
}

// Remove unlinks n from its list and poisons it: both links are set to nil
// so that any further traversal through n panics rather than walking a stale
// chain. Use RemoveInit if n is to be reinserted.
func (n *Node[T]) Remove() {
	del(n.prev, n.next)
	n.next = nil
	n.prev = nil
}

// RemoveInit unlinks n and reinitializes it to a detached singleton, ready
// for immediate reinsertion.
func (n *Node[T]) RemoveInit() {
	del(n.prev, n.next)
	n.Init()
}

// RemoveInitCareful unlinks n and reinitializes it, writing each link in a
// fixed order so that it can be paired with EmptyCareful: one side only ever
// calls RemoveInitCareful, the other only ever tests EmptyCareful, and a
// torn observation of the two fields can never read as "empty" while the
// node is still linked. This supports exactly that single-producer /
// single-consumer pattern and nothing stronger; it is not a substitute for
// locking.
func (n *Node[T]) RemoveInitCareful() {
	del(n.prev, n.next)
	n.prev = n
	n.next = n
}

// Replace substitutes n for old at old's position. old is left untouched and
// should be reinitialized before reuse; see ReplaceInit.
func (old *Node[T]) Replace(n *Node[T]) {
	n.next = old.next
	n.next.prev = n
	n.prev = old.prev
	n.prev.next = n
}

// ReplaceInit substitutes n for old and reinitializes old as a detached
// singleton.
func (old *Node[T]) ReplaceInit(n *Node[T]) {
	old.Replace(n)
	old.Init()
}

// Swap exchanges the positions of a and b, which may live on the same list
// or on two different lists. Adjacency of the two nodes is handled.
func (a *Node[T]) Swap(b *Node[T]) {
	pos := b.prev
	del(b.prev, b.next)
	a.Replace(b)
	if pos == a {
		pos = b
	}
	pos.PushFront(a)
}

// Move unlinks n from its current list and inserts it at the front of the
// list headed by h.
func (n *Node[T]) Move(h *Node[T]) {
	del(n.prev, n.next)
	h.PushFront(n)
}

// MoveTail unlinks n from its current list and inserts it at the back of the
// list headed by h.
func (n *Node[T]) MoveTail(h *Node[T]) {
	del(n.prev, n.next)
	h.PushBack(n)
}

// BulkMoveTail relocates the contiguous run [first..last] to just before h,
// in O(1) regardless of the run's length. All of first, last and the nodes
// between them must belong to the same list, with first preceding last.
func (h *Node[T]) BulkMoveTail(first, last *Node[T]) {
	first.prev.next = last.next
	last.next.prev = first.prev

	h.prev.next = first
	first.prev = h.prev

	last.next = h
	h.prev = last
}

// IsFirst reports whether n is the first member of the list headed by h.
func (n *Node[T]) IsFirst(h *Node[T]) bool {
	return n.prev == h
}

// IsLast reports whether n is the last member of the list headed by h.
func (n *Node[T]) IsLast(h *Node[T]) bool {
	return n.next == h
}

// Empty reports whether the list headed by h has no members.
func (h *Node[T]) Empty() bool {
	return h.next == h
}

// EmptyCareful reports whether the list headed by h is empty, re-reading
// both links so that a head mid-way through a RemoveInitCareful on its only
// member is never misread as empty. See RemoveInitCareful for the exact,
// narrow pattern this supports; if another goroutine could concurrently
// re-add the node, this test proves nothing.
func (h *Node[T]) EmptyCareful() bool {
	next := h.next
	return next == h && next == h.prev
}

// IsSingular reports whether the list headed by h has exactly one member.
func (h *Node[T]) IsSingular() bool {
	return !h.Empty() && h.next == h.prev
}

// RotateLeft moves the first member of the list headed by h to its tail.
// No-op on an empty list.
func (h *Node[T]) RotateLeft() {
	if !h.Empty() {
		h.next.MoveTail(h)
	}
}

// RotateToFront rotates the list headed by h so that n becomes its first
// member. n must be a member of h's list.
func (n *Node[T]) RotateToFront(h *Node[T]) {
	// Moving the head itself to just before n leaves n first.
	h.MoveTail(n)
}

// cut moves the front of head, up to and including entry, onto l.
func cut[T any](l, head, entry *Node[T]) {
	first := entry.next
	l.next = head.next
	l.next.prev = l
	l.prev = entry
	entry.next = l
	head.next = first
	first.prev = head
}

// CutPosition splits the list headed by h in two: the members from the front
// up to and including entry move to the list headed by l, the rest stay on
// h. entry must be a member of h's list, or h itself, in which case nothing
// is cut.
//
// l should be empty, or a list whose contents the caller does not mind
// abandoning; it is overwritten, not spliced into.
func (h *Node[T]) CutPosition(l, entry *Node[T]) {
	if h.Empty() {
		return
	}
	if h.IsSingular() && h.next != entry && h != entry {
		return
	}
	if entry == h {
		l.Init()
	} else {
		cut(l, h, entry)
	}
}

// CutBefore splits the list headed by h in two: the members from the front
// up to but excluding entry move to the list headed by l. entry must be a
// member of h's list, or h itself, in which case all of h's members move.
//
// As with CutPosition, l's previous contents are abandoned.
func (h *Node[T]) CutBefore(l, entry *Node[T]) {
	if h.next == entry {
		l.Init()
		return
	}
	l.next = h.next
	l.next.prev = l
	l.prev = entry.prev
	l.prev.next = l
	h.next = entry
	entry.prev = h
}

// splice links l's members between prev and next, which must be adjacent.
func splice[T any](l, prev, next *Node[T]) {
	first := l.next
	last := l.prev

	first.prev = prev
	prev.next = first

	last.next = next
	next.prev = last
}

// Splice concatenates the members of the list headed by l onto the front of
// the list headed by h. l itself is left referencing its old members; use
// SpliceInit unless l is about to be discarded or reinitialized by the
// caller.
func (l *Node[T]) Splice(h *Node[T]) {
	if !l.Empty() {
		splice(l, h, h.next)
	}
}

// SpliceTail concatenates the members of the list headed by l onto the back
// of the list headed by h. See Splice for the caveat on l's state.
func (l *Node[T]) SpliceTail(h *Node[T]) {
	if !l.Empty() {
		splice(l, h.prev, h)
	}
}

// SpliceInit concatenates l's members onto the front of h and reinitializes
// l to an empty list.
func (l *Node[T]) SpliceInit(h *Node[T]) {
	if !l.Empty() {
		splice(l, h, h.next)
		l.Init()
	}
}

// SpliceTailInit concatenates l's members onto the back of h and
// reinitializes l to an empty list.
func (l *Node[T]) SpliceTailInit(h *Node[T]) {
	if !l.Empty() {
		splice(l, h.prev, h)
		l.Init()
	}
}

// Next returns the node following n. On the last member this is the head.
func (n *Node[T]) Next() *Node[T] {
	return n.next
}

// Prev returns the node preceding n. On the first member this is the head.
func (n *Node[T]) Prev() *Node[T] {
	return n.prev
}

// Front returns the first node of the list headed by h, or nil if the list
// is empty.
func (h *Node[T]) Front() *Node[T] {
	if n := h.next; n != h {
		return n
	}
	return nil
}

// Back returns the last node of the list headed by h, or nil if the list is
// empty.
func (h *Node[T]) Back() *Node[T] {
	if n := h.prev; n != h {
		return n
	}
	return nil
}

// FirstEntry returns the owner of the first member of the list headed by h,
// or nil if the list is empty.
func (h *Node[T]) FirstEntry() *T {
	if n := h.Front(); n != nil {
		return n.Owner
	}
	return nil
}

// LastEntry returns the owner of the last member of the list headed by h, or
// nil if the list is empty.
func (h *Node[T]) LastEntry() *T {
	if n := h.Back(); n != nil {
		return n.Owner
	}
	return nil
}

// Len counts the members of the list headed by h.
//
// NOTE: this is an O(n) operation.
func (h *Node[T]) Len() (count int) {
	for pos := h.next; pos != h; pos = pos.next {
		count++
	}
	return count
}

// All returns a sequence of the owners of the list headed by h, front to
// back. The sequence is lazy and restartable. The list must not be mutated
// while a pass is in progress; use AllSafe when the loop body removes or
// relocates the current element.
func (h *Node[T]) All() iter.Seq[*T] {
	return func(yield func(*T) bool) {
		for pos := h.next; pos != h; pos = pos.next {
			if !yield(pos.Owner) {
				return
			}
		}
	}
}

// Reverse returns a sequence of the owners of the list headed by h, back to
// front. The same mutation rules as All apply.
func (h *Node[T]) Reverse() iter.Seq[*T] {
	return func(yield func(*T) bool) {
		for pos := h.prev; pos != h; pos = pos.prev {
			if !yield(pos.Owner) {
				return
			}
		}
	}
}

// AllSafe is like All, but captures each element's successor before yielding
// it, so the loop body may remove or relocate the yielded element without
// derailing the walk. It is not safe against mutation of any other element.
func (h *Node[T]) AllSafe() iter.Seq[*T] {
	return func(yield func(*T) bool) {
		for pos, n := h.next, h.next.next; pos != h; pos, n = n, n.next {
			if !yield(pos.Owner) {
				return
			}
		}
	}
}

// ReverseSafe is like Reverse, but tolerates removal or relocation of the
// yielded element, as AllSafe does.
func (h *Node[T]) ReverseSafe() iter.Seq[*T] {
	return func(yield func(*T) bool) {
		for pos, n := h.prev, h.prev.prev; pos != h; pos, n = n, n.prev {
			if !yield(pos.Owner) {
				return
			}
		}
	}
}
