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

import "github.com/cockroachdb/errors"

var (
	// ErrProbeFailure is returned by Insert when every candidate in the
	// probe sequence for a key is occupied by some other key. It only occurs
	// when the table cannot grow (it is at its capacity ceiling) or when the
	// probe strategy does not cover every slot (quadratic probing above a
	// load factor of 1/2, or double hashing over a non-prime capacity).
	ErrProbeFailure = errors.New("hash table probe sequence failed")

	// ErrKeyNotFound is returned by Delete when the key is absent and the
	// caller did not ask for missing keys to be ignored.
	ErrKeyNotFound = errors.New("hash table does not contain key")

	// ErrInvalidCapacity is returned by New and Reset for an initial capacity
	// below 1 or above the configured maximum capacity.
	ErrInvalidCapacity = errors.New("invalid hash table capacity")

	// ErrInvalidLoadFactor is returned by New and Reset for a maximum load
	// factor outside [MinMaxLoadFactor, 1).
	ErrInvalidLoadFactor = errors.New("invalid maximum load factor")

	// ErrIndexOutOfRange marks a probe index outside [0, capacity). It is
	// never returned: it is raised as an assertion failure panic because it
	// can only be caused by a bug in a probe strategy.
	ErrIndexOutOfRange = errors.New("slot index out of range")
)
