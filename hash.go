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
	"hash/maphash"

	"github.com/cespare/xxhash/v2"
)

// HashInt returns the integer itself. Paired with a prime capacity this is
// the classic textbook hash: the probe sequence reduces it modulo the
// capacity.
func HashInt[T ~int | ~int8 | ~int16 | ~int32 | ~int64 |
	~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64 | ~uintptr](key T) uint64 {
	return uint64(key)
}

// HashString returns Σ 19^i · s[i] over the runes of s, computed with
// wrapping arithmetic. It is deterministic across processes, which makes
// table layouts reproducible.
func HashString(s string) uint64 {
	var h, pow uint64 = 0, 1
	for _, r := range s {
		h += pow * uint64(r)
		pow *= 19
	}
	return h
}

// HashStringXX hashes s with xxhash. It distributes far better than
// HashString and is the better choice for large tables of string keys:
//
//	m, err := New[string, int](64, WithHash[string, int](HashStringXX))
func HashStringXX(s string) uint64 {
	return xxhash.Sum64String(s)
}

// defaultHasher returns the hash function used for keys of type K when none
// is supplied with WithHash. Builtin integer types hash to themselves and
// strings use HashString. Every other comparable type is hashed with
// hash/maphash using a seed private to the map.
func defaultHasher[K comparable]() func(key K) uint64 {
	var k K
	switch any(k).(type) {
	case int:
		return func(key K) uint64 { return HashInt(any(key).(int)) }
	case int8:
		return func(key K) uint64 { return HashInt(any(key).(int8)) }
	case int16:
		return func(key K) uint64 { return HashInt(any(key).(int16)) }
	case int32:
		return func(key K) uint64 { return HashInt(any(key).(int32)) }
	case int64:
		return func(key K) uint64 { return HashInt(any(key).(int64)) }
	case uint:
		return func(key K) uint64 { return HashInt(any(key).(uint)) }
	case uint8:
		return func(key K) uint64 { return HashInt(any(key).(uint8)) }
	case uint16:
		return func(key K) uint64 { return HashInt(any(key).(uint16)) }
	case uint32:
		return func(key K) uint64 { return HashInt(any(key).(uint32)) }
	case uint64:
		return func(key K) uint64 { return any(key).(uint64) }
	case uintptr:
		return func(key K) uint64 { return HashInt(any(key).(uintptr)) }
	case string:
		return func(key K) uint64 { return HashString(any(key).(string)) }
	default:
		seed := maphash.MakeSeed()
		return func(key K) uint64 { return maphash.Comparable(seed, key) }
	}
}
