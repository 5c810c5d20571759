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
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestHashString(t *testing.T) {
	require.EqualValues(t, 0, HashString(""))
	require.EqualValues(t, 'a', HashString("a"))
	// 'a' + 19·'b'
	require.EqualValues(t, 97+19*98, HashString("ab"))
	require.NotEqual(t, HashString("ab"), HashString("ba"))
}

func TestHashStringXX(t *testing.T) {
	require.Equal(t, HashStringXX("openaddr"), HashStringXX("openaddr"))
	require.NotEqual(t, HashStringXX("a"), HashStringXX("b"))
}

func TestHashInt(t *testing.T) {
	require.EqualValues(t, 42, HashInt(42))
	require.EqualValues(t, uint64(math.MaxUint64), HashInt(-1))
	require.EqualValues(t, 7, HashInt(uint8(7)))
}

func TestDefaultHasher(t *testing.T) {
	require.EqualValues(t, 12, defaultHasher[int]()(12))
	require.EqualValues(t, 12, defaultHasher[int32]()(12))
	require.EqualValues(t, 12, defaultHasher[uint16]()(12))
	require.EqualValues(t, 12, defaultHasher[uint64]()(12))
	require.Equal(t, HashString("key"), defaultHasher[string]()("key"))

	type key struct {
		a int
		b string
	}
	h := defaultHasher[key]()
	require.Equal(t, h(key{1, "x"}), h(key{1, "x"}))
	require.NotEqual(t, h(key{1, "x"}), h(key{2, "x"}))

	// Named integer types are not special cased.
	type id int
	hid := defaultHasher[id]()
	require.Equal(t, hid(5), hid(5))
}
