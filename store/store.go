// Package store implements the compacting entity container shared by every
// entity kind of a mesh. Ids are stable slot indices: disabling an entity keeps
// its slot and records the id in a sorted free list, and later inserts reuse
// the largest free id first. ContiguousID maps a raw id to its rank among live
// ids so consumers can treat the store as densely packed.
package store

import (
	"errors"
	"fmt"
	"iter"
	"slices"
)

// Flags is the per-entity state bitset
type Flags uint8

const (
	Disabled Flags = 1 << iota
	Marked
	Visited
	Blocked
)

func (f Flags) Has(mask Flags) bool { return f&mask != 0 }

// Label is the tag/flags pair carried by every stored entity
type Label struct {
	Tag   int8
	Flags Flags
}

// GetLabel returns l itself so records embedding a Label satisfy Labeled
func (l *Label) GetLabel() *Label { return l }

func (l *Label) IsDisabled() bool { return l.Flags.Has(Disabled) }

// Labeled constrains a store's pointer type to records embedding a Label
type Labeled[T any] interface {
	*T
	GetLabel() *Label
}

var ErrOutOfRange = errors.New("entity id out of range")

// Store is a disable-aware container of entities of one kind. It is not safe
// for concurrent mutation.
type Store[T any, P Labeled[T]] struct {
	items []T
	free  []int // disabled ids, sorted ascending, unique
	begin int   // first live id, or len(items) when none
}

// New creates an empty store with room for capacity entities
func New[T any, P Labeled[T]](capacity int) *Store[T, P] {
	return &Store[T, P]{items: make([]T, 0, capacity)}
}

// Insert stores v and returns its id. The most recently freed slot at the back
// of the free list is reused when one exists.
func (s *Store[T, P]) Insert(v T) int {
	P(&v).GetLabel().Flags &^= Disabled
	if n := len(s.free); n > 0 {
		id := s.free[n-1]
		s.free = s.free[:n-1]
		s.items[id] = v
		if id < s.begin {
			s.begin = id
		}
		return id
	}
	s.items = append(s.items, v)
	return len(s.items) - 1
}

// Disable marks id as disabled. Disabling an already disabled id is a no-op
// and returns false.
func (s *Store[T, P]) Disable(id int) bool {
	lbl := P(s.At(id)).GetLabel()
	if lbl.IsDisabled() {
		return false
	}
	lbl.Flags |= Disabled
	pos, _ := slices.BinarySearch(s.free, id)
	s.free = slices.Insert(s.free, pos, id)
	if id == s.begin {
		for s.begin < len(s.items) && s.isDisabled(s.begin) {
			s.begin++
		}
	}
	return true
}

// At returns the entity at id, disabled or not. An out-of-range id is a
// programming error and panics.
func (s *Store[T, P]) At(id int) *T {
	if id < 0 || id >= len(s.items) {
		panic(fmt.Errorf("%w: %d not in [0,%d)", ErrOutOfRange, id, len(s.items)))
	}
	return &s.items[id]
}

// Lookup is the checked form of At
func (s *Store[T, P]) Lookup(id int) (*T, error) {
	if id < 0 || id >= len(s.items) {
		return nil, fmt.Errorf("%w: %d not in [0,%d)", ErrOutOfRange, id, len(s.items))
	}
	return &s.items[id], nil
}

// InRange reports whether id addresses a slot of the store
func (s *Store[T, P]) InRange(id int) bool {
	return id >= 0 && id < len(s.items)
}

func (s *Store[T, P]) IsDisabled(id int) bool {
	return P(s.At(id)).GetLabel().IsDisabled()
}

func (s *Store[T, P]) isDisabled(id int) bool {
	return P(&s.items[id]).GetLabel().IsDisabled()
}

// Size returns the number of live entities
func (s *Store[T, P]) Size() int { return len(s.items) - len(s.free) }

// TotalSize returns the number of slots, disabled ones included
func (s *Store[T, P]) TotalSize() int { return len(s.items) }

// Begin returns the first live id, or TotalSize when the store has none
func (s *Store[T, P]) Begin() int { return s.begin }

// End returns one past the last slot
func (s *Store[T, P]) End() int { return len(s.items) }

// ContiguousID returns id minus the number of disabled ids below it, i.e. the
// rank of a live id among live ids. The result is meaningless for disabled ids.
func (s *Store[T, P]) ContiguousID(id int) int {
	n, _ := slices.BinarySearch(s.free, id)
	return id - n
}

// Compacted returns the raw id of every live entity indexed by contiguous id
func (s *Store[T, P]) Compacted() []int {
	ids := make([]int, 0, s.Size())
	for id := range s.IDs() {
		ids = append(ids, id)
	}
	return ids
}

// DisabledIDs returns a copy of the sorted free list
func (s *Store[T, P]) DisabledIDs() []int {
	return slices.Clone(s.free)
}

// All iterates live entities in id order
func (s *Store[T, P]) All() iter.Seq2[int, *T] {
	return func(yield func(int, *T) bool) {
		for id := s.begin; id < len(s.items); id++ {
			if s.isDisabled(id) {
				continue
			}
			if !yield(id, &s.items[id]) {
				return
			}
		}
	}
}

// IDs iterates live ids in ascending order
func (s *Store[T, P]) IDs() iter.Seq[int] {
	return func(yield func(int) bool) {
		for id := s.begin; id < len(s.items); id++ {
			if s.isDisabled(id) {
				continue
			}
			if !yield(id) {
				return
			}
		}
	}
}

// Reset drops every entity and keeps the allocated capacity
func (s *Store[T, P]) Reset() {
	clear(s.items)
	s.items = s.items[:0]
	s.free = s.free[:0]
	s.begin = 0
}
