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


// Package openaddr implements a hash table using open addressing. See
// https://en.wikipedia.org/wiki/Open_addressing.
//
// # Open Addressing
//
// Every entry is stored directly in a single array of slots. A slot is
// either empty, occupied by a key/value pair, or a tombstone left behind by
// a deletion. To locate a key, hash(key) seeds a probe sequence: a
// deterministic ordering of the slot indices that is walked until the key is
// found or an empty slot proves the key absent. Three probe strategies are
// supported, selected with WithProbe when the map is constructed:
//
//	linear:    p(i) = (h + i) mod c
//	quadratic: p(i) = (h + i²) mod c
//	double:    p(i) = (h + i·(1 + h mod (c-1))) mod c
//
// Every sequence has exactly c elements so a probe is bounded by the table
// capacity. Linear and double hashing visit every slot (the latter because
// capacities are kept prime, making the step coprime with c). Quadratic
// probing only visits about half of the slots, so an insert can fail with
// ErrProbeFailure even though the table has room.
//
// # Deletion
//
// Deleting an entry replaces it with a tombstone rather than an empty slot.
// Another key may have probed through the deleted slot on its way to where
// it was stored, and an empty slot would terminate that key's lookups early.
// Lookups continue past tombstones; inserts reuse the first tombstone on the
// key's probe sequence once the key is known to be absent. Tombstones are
// only reclaimed when the table grows or is cleared.
//
// # Growth
//
// After an insert pushes the load factor (occupied slots / capacity) above
// the configured maximum, the table grows to the smallest prime at least
// 2c+1 and every live entry is re-inserted into the new slots. Growth stops
// at the capacity ceiling (see WithMaxCapacity); past that point inserts
// continue to succeed until the probe sequence of a key is exhausted, after
// which Insert reports ErrProbeFailure.
package openaddr

import (
	"fmt"
	"strings"

	"github.com/cockroachdb/errors"
)

const (
	debug = false

	// MaxCapacity is the largest capacity a Map can have and the default
	// capacity ceiling. 2^31-1 is prime.
	MaxCapacity = 1<<31 - 1

	// DefaultMaxLoadFactor is the maximum load factor used when none is
	// specified with WithMaxLoadFactor.
	DefaultMaxLoadFactor = 0.5

	// MinMaxLoadFactor is the smallest maximum load factor accepted by New
	// and Reset.
	MinMaxLoadFactor = 0.2
)

// InsertOutcome describes the effect of a successful Insert.
type InsertOutcome uint8

const (
	// Inserted indicates the key was not present and a new entry was added.
	Inserted InsertOutcome = iota + 1
	// Updated indicates the key was present and its value was overwritten.
	Updated
)

func (o InsertOutcome) String() string {
	switch o {
	case Inserted:
		return "inserted"
	case Updated:
		return "updated"
	default:
		return fmt.Sprintf("InsertOutcome(%d)", uint8(o))
	}
}

// Map is an unordered map from keys to values with Insert, Search, Delete,
// and All operations, implemented as an open-addressing hash table with a
// prime capacity.
//
// A Map is NOT goroutine-safe.
type Map[K comparable, V any] struct {
	// The hash function to each keys of type K. It is reduced modulo the
	// capacity by the probe sequence.
	hash  func(key K) uint64
	probe ProbeStrategy
	// The load factor above which an insert grows the table.
	maxLoadFactor float64
	// The capacity ceiling. Growth never exceeds it.
	maxCapacity int
	// The allocator to use for the slots.
	allocator Allocator[K, V]
	// store is replaced wholesale when the table grows.
	store slotStore[K, V]
}

// New constructs a new Map with the specified initial capacity, rounded up
// to the next prime (an initial capacity of 1 is kept as is and grows on the
// first insert). An error is returned if the capacity or any option is
// invalid.
func New[K comparable, V any](initialCapacity int, options ...option[K, V]) (*Map[K, V], error) {
	m := &Map[K, V]{}
	if err := m.Init(initialCapacity, options...); err != nil {
		return nil, err
	}
	return m, nil
}

// Init initializes a Map with the specified initial capacity and options,
// discarding any previous configuration and contents. It is used to reuse a
// Map without allocating a new one. On error the Map is left unchanged.
func (m *Map[K, V]) Init(initialCapacity int, options ...option[K, V]) error {
	n := Map[K, V]{
		probe:         LinearProbe,
		maxLoadFactor: DefaultMaxLoadFactor,
		maxCapacity:   MaxCapacity,
		allocator:     defaultAllocator[K, V]{},
	}
	for _, op := range options {
		op.apply(&n)
	}
	if n.hash == nil {
		n.hash = defaultHasher[K]()
	}
	if n.probe > DoubleHashProbe {
		return errors.Newf("unknown probe strategy %s", n.probe)
	}
	if err := n.validate(initialCapacity, n.maxLoadFactor); err != nil {
		return err
	}

	m.release()
	*m = n
	m.store = makeSlotStore(m.allocator, m.initialTableSize(initialCapacity))
	m.checkInvariants()
	return nil
}

// Reset replaces the contents of the map with a new, empty table of the
// specified initial capacity and maximum load factor. The hash function,
// probe strategy, capacity ceiling and allocator are retained. On error the
// map is left unchanged.
func (m *Map[K, V]) Reset(initialCapacity int, maxLoadFactor float64) error {
	if err := m.validate(initialCapacity, maxLoadFactor); err != nil {
		return err
	}
	m.release()
	m.maxLoadFactor = maxLoadFactor
	m.store = makeSlotStore(m.allocator, m.initialTableSize(initialCapacity))
	m.checkInvariants()
	return nil
}

func (m *Map[K, V]) validate(initialCapacity int, maxLoadFactor float64) error {
	if m.maxCapacity < 1 || m.maxCapacity > MaxCapacity {
		return errors.Wrapf(ErrInvalidCapacity,
			"maximum capacity %d not in [1, %d]", m.maxCapacity, MaxCapacity)
	}
	if initialCapacity < 1 || initialCapacity > m.maxCapacity {
		return errors.Wrapf(ErrInvalidCapacity,
			"initial capacity %d not in [1, %d]", initialCapacity, m.maxCapacity)
	}
	// Written to reject NaN.
	if !(maxLoadFactor >= MinMaxLoadFactor && maxLoadFactor < 1) {
		return errors.Wrapf(ErrInvalidLoadFactor,
			"%g not in [%g, 1)", maxLoadFactor, MinMaxLoadFactor)
	}
	return nil
}

func (m *Map[K, V]) initialTableSize(initialCapacity int) int {
	if initialCapacity == 1 {
		return 1
	}
	return nextTableSize(initialCapacity, m.maxCapacity)
}

// Close closes the map, releasing any memory back to its configured
// allocator. It is unnecessary to close a map using the default allocator. It
// is invalid to use a Map after it has been closed, though Close itself is
// idempotent.
func (m *Map[K, V]) Close() {
	m.release()
	m.allocator = nil
}

func (m *Map[K, V]) release() {
	if m.allocator != nil {
		m.store.release(m.allocator)
	}
}

// Insert inserts an entry into the map, overwriting the existing value if an
// entry with the same key already exists. If the insert pushes the load
// factor above the maximum load factor, the map grows before Insert returns.
//
// An error wrapping ErrProbeFailure is returned if the probe sequence for key
// is exhausted without finding the key or a free slot. The map is unchanged
// in that case.
func (m *Map[K, V]) Insert(key K, value V) (InsertOutcome, error) {
	h := m.hash(key)
	i, ok := m.find(key, h, true /* deletedOK */)
	if !ok {
		if debug {
			fmt.Printf("insert(%v): probe failure used=%d capacity=%d\n",
				key, m.store.len(), m.store.capacity())
		}
		return 0, errors.Wrapf(ErrProbeFailure, "inserting %v with %s probing over %d slots",
			key, m.probe, m.store.capacity())
	}

	slot := m.store.at(i)
	if slot.state == slotOccupied {
		if debug {
			fmt.Printf("insert(updating): index=%d key=%v\n", i, key)
		}
		slot.value = value
		m.checkInvariants()
		return Updated, nil
	}

	m.store.setOccupied(i, key, value)
	if debug {
		fmt.Printf("insert(inserting): index=%d used=%d tombstones=%d\n",
			i, m.store.len(), m.store.tombstones)
	}
	// Growing to 2c+1 does not always restore the bound for tiny tables
	// (1 entry in 1 slot with a max load factor below 1/3), hence the loop.
	for m.LoadFactor() > m.maxLoadFactor && m.grow() {
	}
	m.checkInvariants()
	return Inserted, nil
}

// Search retrieves the value from the map for the specified key, returning
// ok=false if the key is not present.
func (m *Map[K, V]) Search(key K) (value V, ok bool) {
	i, found := m.find(key, m.hash(key), false /* deletedOK */)
	if !found {
		// The entire probe sequence was occupied by other keys or
		// tombstones, so key cannot be present.
		return value, false
	}
	slot := m.store.at(i)
	if slot.state != slotOccupied || slot.key != key {
		return value, false
	}
	return slot.value, true
}

// Delete deletes the entry corresponding to the specified key from the map,
// returning true if an entry was deleted. If the key is not present Delete
// returns false, along with an error wrapping ErrKeyNotFound unless
// ignoreMissing is set.
func (m *Map[K, V]) Delete(key K, ignoreMissing bool) (bool, error) {
	i, found := m.find(key, m.hash(key), false /* deletedOK */)
	if !found || m.store.at(i).state != slotOccupied {
		if debug {
			fmt.Printf("delete(%v): not found\n", key)
		}
		if ignoreMissing {
			return false, nil
		}
		return false, errors.Wrapf(ErrKeyNotFound, "cannot delete %v", key)
	}

	m.store.setTombstone(i)
	if debug {
		fmt.Printf("delete(%v): index=%d used=%d tombstones=%d\n",
			key, i, m.store.len(), m.store.tombstones)
	}
	m.checkInvariants()
	return true, nil
}

// All calls yield sequentially for each key and value present in the map, in
// slot order. If yield returns false, iteration stops. The map can be
// mutated during iteration, though there is no guarantee that the mutations
// will be visible to the iteration.
//
//	for k, v := range m.All {
//	  fmt.Printf("%v: %v\n", k, v)
//	}
func (m *Map[K, V]) All(yield func(key K, value V) bool) {
	// Snapshot the slots so that iteration remains valid if the map grows
	// during iteration.
	slots := m.store.slots
	for i := range slots {
		s := &slots[i]
		if s.state != slotOccupied {
			continue
		}
		if !yield(s.key, s.value) {
			return
		}
	}
}

// Clear deletes all entries from the map, including tombstones, retaining
// the current capacity.
func (m *Map[K, V]) Clear() {
	m.store.clear()
	m.checkInvariants()
}

// Len returns the number of entries in the map.
func (m *Map[K, V]) Len() int {
	return m.store.len()
}

// Capacity returns the number of slots in the map.
func (m *Map[K, V]) Capacity() int {
	return m.store.capacity()
}

// LoadFactor returns the ratio of entries to slots.
func (m *Map[K, V]) LoadFactor() float64 {
	if m.store.capacity() == 0 {
		return 0
	}
	return float64(m.store.len()) / float64(m.store.capacity())
}

// MaxLoadFactor returns the load factor above which the map grows.
func (m *Map[K, V]) MaxLoadFactor() float64 {
	return m.maxLoadFactor
}

// Probe returns the probe strategy of the map.
func (m *Map[K, V]) Probe() ProbeStrategy {
	return m.probe
}

// find walks the probe sequence for key, whose hash is h. It returns the
// index of the slot holding key if present. Otherwise it returns the index
// of the empty slot that terminated the walk, or, if deletedOK, the first
// tombstone encountered before it (tombstones never terminate the walk, as
// key may be stored beyond them). ok=false indicates the probe sequence was
// exhausted.
func (m *Map[K, V]) find(key K, h uint64, deletedOK bool) (index int, ok bool) {
	reuse := -1
	seq := makeProbeSeq(m.probe, h, m.store.capacity())
	if debug {
		fmt.Printf("find(%v): %s\n", key, seq)
	}

	for ; !seq.done(); seq = seq.next() {
		i := int(seq.offset)
		slot := m.store.at(i)
		if debug {
			fmt.Printf("find(probing): index=%d state=%s\n", i, slot.state)
		}

		switch slot.state {
		case slotEmpty:
			if reuse >= 0 {
				return reuse, true
			}
			return i, true
		case slotTombstone:
			if deletedOK && reuse < 0 {
				reuse = i
			}
		case slotOccupied:
			if key == slot.key {
				return i, true
			}
		}
	}

	if reuse >= 0 {
		return reuse, true
	}
	return -1, false
}

// uncheckedPut inserts an entry known not to be in s, which must not
// contain tombstones. Used by grow to re-insert entries. Returns false if
// the probe sequence has no empty slot.
func (m *Map[K, V]) uncheckedPut(s *slotStore[K, V], h uint64, key K, value V) bool {
	for seq := makeProbeSeq(m.probe, h, s.capacity()); !seq.done(); seq = seq.next() {
		i := int(seq.offset)
		if s.at(i).state == slotEmpty {
			s.setOccupied(i, key, value)
			return true
		}
	}
	return false
}

// grow replaces the slots with a larger set of slots of the next prime size
// >= 2c+1, capped at the maximum capacity, re-inserting every entry in index
// order and dropping tombstones. It returns false, leaving the map
// unchanged, if the map is at its capacity ceiling or the entries cannot all
// be re-inserted (only possible with a non-prime ceiling).
func (m *Map[K, V]) grow() bool {
	oldCapacity := m.store.capacity()
	newCapacity := nextTableSize(2*oldCapacity+1, m.maxCapacity)
	if newCapacity <= oldCapacity {
		if debug {
			fmt.Printf("grow: capacity=%d at ceiling %d\n", oldCapacity, m.maxCapacity)
		}
		return false
	}

	newStore := makeSlotStore(m.allocator, newCapacity)
	for i := range m.store.slots {
		slot := &m.store.slots[i]
		if slot.state != slotOccupied {
			continue
		}
		if !m.uncheckedPut(&newStore, m.hash(slot.key), slot.key, slot.value) {
			if debug {
				fmt.Printf("grow: capacity=%d->%d abandoned at index=%d\n",
					oldCapacity, newCapacity, i)
			}
			newStore.release(m.allocator)
			return false
		}
	}

	if debug {
		fmt.Printf("grow: capacity=%d->%d used=%d dropped-tombstones=%d\n",
			oldCapacity, newCapacity, newStore.len(), m.store.tombstones)
	}
	m.store.release(m.allocator)
	m.store = newStore
	return true
}

func (m *Map[K, V]) checkInvariants() {
	if invariants {
		if c := m.store.capacity(); c != 1 && c != m.maxCapacity && !isPrime(c) {
			panic(fmt.Sprintf("invariant failed: capacity %d is not prime\n%s", c, m))
		}

		// For every occupied slot, verify that find locates the key at that
		// slot and that the key appears once. Count the number of used and
		// deleted slots.
		seen := make(map[K]int, m.store.len())
		var used, tombstones int
		for i := range m.store.slots {
			s := &m.store.slots[i]
			switch s.state {
			case slotEmpty:
			case slotTombstone:
				tombstones++
			case slotOccupied:
				if j, ok := seen[s.key]; ok {
					panic(fmt.Sprintf("invariant failed: slot(%d): %v duplicates slot(%d)\n%s",
						i, s.key, j, m))
				}
				seen[s.key] = i
				if j, ok := m.find(s.key, m.hash(s.key), false); !ok || j != i {
					panic(fmt.Sprintf("invariant failed: slot(%d): %v not found [h=%d]\n%s",
						i, s.key, m.hash(s.key), m))
				}
				used++
			default:
				panic(fmt.Sprintf("invariant failed: slot(%d): unexpected state %s", i, s.state))
			}
		}

		if used != m.store.used {
			panic(fmt.Sprintf("invariant failed: found %d used slots, but used count is %d\n%s",
				used, m.store.used, m))
		}
		if tombstones != m.store.tombstones {
			panic(fmt.Sprintf("invariant failed: found %d tombstones, but tombstone count is %d\n%s",
				tombstones, m.store.tombstones, m))
		}
	}
}

// String returns a description of the map and its slots, one per line.
func (m *Map[K, V]) String() string {
	var buf strings.Builder
	fmt.Fprintf(&buf, "capacity=%d  used=%d  tombstones=%d  probe=%s\n",
		m.store.capacity(), m.store.len(), m.store.tombstones, m.probe)
	for i := range m.store.slots {
		switch s := &m.store.slots[i]; s.state {
		case slotOccupied:
			fmt.Fprintf(&buf, "  %4d: %v=%v [h=%d]\n", i, s.key, s.value, m.hash(s.key))
		default:
			fmt.Fprintf(&buf, "  %4d: %s\n", i, s.state)
		}
	}
	return buf.String()
}
