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

// option provide an interface to do work on Map while it is being created.
type option[K comparable, V any] interface {
	apply(m *Map[K, V])
}

type hashOption[K comparable, V any] struct {
	hash func(key K) uint64
}

func (op hashOption[K, V]) apply(m *Map[K, V]) {
	m.hash = op.hash
}

// WithHash is an option to specify the hash function to use for a Map[K,V].
// The hash is reduced modulo the table capacity by the probe sequence, so a
// hash function need not produce values in any particular range.
func WithHash[K comparable, V any](hash func(key K) uint64) option[K, V] {
	return hashOption[K, V]{hash}
}

type probeOption[K comparable, V any] struct {
	probe ProbeStrategy
}

func (op probeOption[K, V]) apply(m *Map[K, V]) {
	m.probe = op.probe
}

// WithProbe is an option to specify the probe strategy of a Map[K,V]. The
// default is LinearProbe.
func WithProbe[K comparable, V any](probe ProbeStrategy) option[K, V] {
	return probeOption[K, V]{probe}
}

type maxLoadFactorOption[K comparable, V any] struct {
	maxLoadFactor float64
}

func (op maxLoadFactorOption[K, V]) apply(m *Map[K, V]) {
	m.maxLoadFactor = op.maxLoadFactor
}

// WithMaxLoadFactor is an option to specify the load factor above which a
// Map[K,V] grows. It must be in [MinMaxLoadFactor, 1). The default is
// DefaultMaxLoadFactor.
func WithMaxLoadFactor[K comparable, V any](maxLoadFactor float64) option[K, V] {
	return maxLoadFactorOption[K, V]{maxLoadFactor}
}

type maxCapacityOption[K comparable, V any] struct {
	maxCapacity int
}

func (op maxCapacityOption[K, V]) apply(m *Map[K, V]) {
	m.maxCapacity = op.maxCapacity
}

// WithMaxCapacity is an option to specify the capacity ceiling of a
// Map[K,V]. Once a map reaches the ceiling it stops growing and its load
// factor may exceed the maximum load factor. If the ceiling is not prime the
// final capacity may not be prime either. The default is MaxCapacity.
func WithMaxCapacity[K comparable, V any](maxCapacity int) option[K, V] {
	return maxCapacityOption[K, V]{maxCapacity}
}

// Allocator specifies an interface for allocating and releasing memory used
// by a Map. The default allocator utilizes Go's builtin make() and allows the
// GC to reclaim memory.
//
// If the allocator is manually managing memory and requires that slots be
// freed then Map.Close must be called in order to ensure Free is called for
// the final slots.
type Allocator[K comparable, V any] interface {
	// Alloc should return a slice equivalent to make([]Slot[K,V], n). Every
	// slot must be in its zero (empty) state.
	Alloc(n int) []Slot[K, V]

	// Free can optionally release the memory associated with the supplied
	// slice that is guaranteed to have been allocated by Alloc.
	Free(v []Slot[K, V])
}

type defaultAllocator[K comparable, V any] struct{}

func (defaultAllocator[K, V]) Alloc(n int) []Slot[K, V] {
	return make([]Slot[K, V], n)
}

func (defaultAllocator[K, V]) Free(v []Slot[K, V]) {
}

type allocatorOption[K comparable, V any] struct {
	allocator Allocator[K, V]
}

func (op allocatorOption[K, V]) apply(m *Map[K, V]) {
	m.allocator = op.allocator
}

// WithAllocator is an option for specify the Allocator to use for a Map[K,V].
func WithAllocator[K comparable, V any](allocator Allocator[K, V]) option[K, V] {
	return allocatorOption[K, V]{allocator}
}
