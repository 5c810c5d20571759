// Copyright 2024 The Cockroach Authors
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


package openaddr

import (
	"fmt"

	"github.com/cockroachdb/errors"
)

type slotState uint8

const (
	// slotEmpty is the zero value so that a freshly allocated slice of slots
	// is an empty table.
	slotEmpty slotState = iota
	slotTombstone
	slotOccupied
)

func (s slotState) String() string {
	switch s {
	case slotEmpty:
		return "empty"
	case slotTombstone:
		return "deleted"
	case slotOccupied:
		return "occupied"
	default:
		return fmt.Sprintf("slotState(%d)", uint8(s))
	}
}

// Slot holds a key and value along with the state of the slot. The key and
// value are only meaningful when the slot is occupied.
type Slot[K comparable, V any] struct {
	state slotState
	key   K
	value V
}

// slotStore is the backing array of a Map. It has no probing logic of its
// own: it tracks the number of occupied and tombstoned slots and enforces
// that every access is within [0, capacity).
type slotStore[K comparable, V any] struct {
	slots []Slot[K, V]
	// The number of occupied slots.
	used int
	// The number of tombstones. Tombstones are only reclaimed when the store
	// is rebuilt by a grow or cleared.
	tombstones int
}

func makeSlotStore[K comparable, V any](allocator Allocator[K, V], capacity int) slotStore[K, V] {
	return slotStore[K, V]{slots: allocator.Alloc(capacity)}
}

func (s *slotStore[K, V]) capacity() int {
	return len(s.slots)
}

func (s *slotStore[K, V]) len() int {
	return s.used
}

// at returns a pointer to the slot at index i.
func (s *slotStore[K, V]) at(i int) *Slot[K, V] {
	if uint(i) >= uint(len(s.slots)) {
		panic(errors.WithAssertionFailure(errors.Wrapf(ErrIndexOutOfRange,
			"slot %d, capacity %d", i, len(s.slots))))
	}
	return &s.slots[i]
}

// setOccupied stores key and value at index i. The slot must not already be
// occupied.
func (s *slotStore[K, V]) setOccupied(i int, key K, value V) {
	slot := s.at(i)
	if slot.state == slotTombstone {
		s.tombstones--
	}
	*slot = Slot[K, V]{state: slotOccupied, key: key, value: value}
	s.used++
}

// setTombstone replaces the occupied slot at index i with a tombstone. The
// slot is never reset to empty as other keys may have probed through it.
func (s *slotStore[K, V]) setTombstone(i int) {
	slot := s.at(i)
	*slot = Slot[K, V]{state: slotTombstone}
	s.used--
	s.tombstones++
}

// clear resets every slot to empty.
func (s *slotStore[K, V]) clear() {
	clear(s.slots)
	s.used = 0
	s.tombstones = 0
}

// release returns the slots to the allocator. The store is unusable
// afterwards.
func (s *slotStore[K, V]) release(allocator Allocator[K, V]) {
	if s.slots != nil {
		allocator.Free(s.slots)
	}
	*s = slotStore[K, V]{}
}
