// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package batch

// DefaultCapacity is the initial capacity used when NewStore is given a
// non-positive value.
const DefaultCapacity = 1024

// Store is an append-only, auto-growing batch of quads for one frame.
//
// Insertion order is draw order. Clear empties the store in O(1) and keeps
// its capacity, so a steady-state frame performs no allocation. When a
// push would exceed capacity the capacity doubles and existing quads are
// copied over.
//
// A Store is not safe for concurrent use. Producers that work in parallel
// fill their own stores and combine them with AppendStore.
type Store struct {
	quads []Quad
}

// NewStore creates an empty store with room for initialCapacity quads.
func NewStore(initialCapacity int) *Store {
	if initialCapacity <= 0 {
		initialCapacity = DefaultCapacity
	}
	return &Store{quads: make([]Quad, 0, initialCapacity)}
}

// Clear resets the count to zero without releasing storage.
func (s *Store) Clear() {
	s.quads = s.quads[:0]
}

// Push appends q.
func (s *Store) Push(q Quad) {
	if len(s.quads) == cap(s.quads) {
		s.grow(len(s.quads) + 1)
	}
	s.quads = append(s.quads, q)
}

// AppendStore appends every quad of other, in order, applying the same
// growth policy as Push. other is left unchanged.
func (s *Store) AppendStore(other *Store) {
	if other == nil || len(other.quads) == 0 {
		return
	}
	need := len(s.quads) + len(other.quads)
	if need > cap(s.quads) {
		s.grow(need)
	}
	s.quads = append(s.quads, other.quads...)
}

// grow doubles capacity until it holds at least need quads.
// The builtin append growth factor is not used so capacity stays a
// power-of-two multiple of the initial capacity.
func (s *Store) grow(need int) {
	c := cap(s.quads)
	if c == 0 {
		c = 1
	}
	for c < need {
		c *= 2
	}
	next := make([]Quad, len(s.quads), c)
	copy(next, s.quads)
	s.quads = next
}

// Len returns the number of quads pushed since the last Clear.
func (s *Store) Len() int {
	return len(s.quads)
}

// Cap returns the number of quads the store can hold without growing.
func (s *Store) Cap() int {
	return cap(s.quads)
}

// At returns the quad at index i. It panics if i is out of range.
func (s *Store) At(i int) Quad {
	return s.quads[i]
}

// Quads returns the pushed quads in draw order. The slice aliases the
// store and is only valid until the next Push, AppendStore or Clear.
func (s *Store) Quads() []Quad {
	return s.quads
}

// ForEach calls fn for every quad in draw order.
func (s *Store) ForEach(fn func(i int, q Quad)) {
	for i, q := range s.quads {
		fn(i, q)
	}
}
