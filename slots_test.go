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
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSlotStore(t *testing.T) {
	s := makeSlotStore[string, int](defaultAllocator[string, int]{}, 5)
	require.Equal(t, 5, s.capacity())
	require.Equal(t, 0, s.len())
	for i := 0; i < s.capacity(); i++ {
		require.Equal(t, slotEmpty, s.at(i).state)
	}

	s.setOccupied(2, "a", 1)
	s.setOccupied(4, "b", 2)
	require.Equal(t, 2, s.len())
	require.Equal(t, Slot[string, int]{state: slotOccupied, key: "a", value: 1}, *s.at(2))

	s.setTombstone(2)
	require.Equal(t, 1, s.len())
	require.Equal(t, 1, s.tombstones)
	require.Equal(t, Slot[string, int]{state: slotTombstone}, *s.at(2))

	// Reusing a tombstone.
	s.setOccupied(2, "c", 3)
	require.Equal(t, 2, s.len())
	require.Equal(t, 0, s.tombstones)

	s.setTombstone(4)
	s.clear()
	require.Equal(t, 0, s.len())
	require.Equal(t, 0, s.tombstones)
	require.Equal(t, 5, s.capacity())
	require.Equal(t, slotEmpty, s.at(2).state)

	require.Panics(t, func() { s.at(-1) })
	require.Panics(t, func() { s.at(5) })

	s.release(defaultAllocator[string, int]{})
	require.Equal(t, 0, s.capacity())
}

func TestSlotStateString(t *testing.T) {
	require.Equal(t, "empty", slotEmpty.String())
	require.Equal(t, "deleted", slotTombstone.String())
	require.Equal(t, "occupied", slotOccupied.String())
	require.Equal(t, "slotState(7)", slotState(7).String())
}
