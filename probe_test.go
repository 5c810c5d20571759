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
	"slices"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

func TestProbeSeq(t *testing.T) {
	genSeq := func(p ProbeStrategy, hash uint64, capacity int) []int {
		return slices.Collect(p.Sequence(hash, capacity))
	}

	testCases := []struct {
		probe    ProbeStrategy
		hash     uint64
		capacity int
		expected []int
	}{
		{LinearProbe, 3, 5, []int{3, 4, 0, 1, 2}},
		{LinearProbe, 13, 5, []int{3, 4, 0, 1, 2}},
		{QuadraticProbe, 0, 7, []int{0, 1, 4, 2, 2, 4, 1}},
		{QuadraticProbe, 3, 5, []int{3, 4, 2, 2, 4}},
		// step = 1 + 3 mod 6 = 4.
		{DoubleHashProbe, 3, 7, []int{3, 0, 4, 1, 5, 2, 6}},
		// step = 1 + 10 mod 4 = 3.
		{DoubleHashProbe, 10, 5, []int{0, 3, 1, 4, 2}},
		{LinearProbe, 12345, 1, []int{0}},
		{QuadraticProbe, 12345, 1, []int{0}},
		{DoubleHashProbe, 12345, 1, []int{0}},
		{DoubleHashProbe, 7, 2, []int{1, 0}},
	}
	for _, c := range testCases {
		t.Run(fmt.Sprintf("%s/h=%d/c=%d", c.probe, c.hash, c.capacity), func(t *testing.T) {
			if diff := cmp.Diff(c.expected, genSeq(c.probe, c.hash, c.capacity)); diff != "" {
				t.Fatalf("unexpected probe sequence (-want +got):\n%s", diff)
			}
		})
	}
}

func TestProbeSeqCoverage(t *testing.T) {
	genIndexes := func(n int) []int {
		vals := make([]int, n)
		for i := range vals {
			vals[i] = i
		}
		return vals
	}

	for _, capacity := range []int{2, 3, 5, 7, 11, 13, 97} {
		for h := uint64(0); h < 200; h++ {
			// Linear and double hashing visit every slot of a prime capacity
			// exactly once.
			for _, p := range []ProbeStrategy{LinearProbe, DoubleHashProbe} {
				vals := slices.Collect(p.Sequence(h, capacity))
				slices.Sort(vals)
				require.Equal(t, genIndexes(capacity), vals, "%s h=%d c=%d", p, h, capacity)
			}

			// Quadratic probing produces capacity candidates, but only
			// (capacity+1)/2 of them are distinct for an odd prime.
			vals := slices.Collect(QuadraticProbe.Sequence(h, capacity))
			require.Len(t, vals, capacity)
			distinct := make(map[int]struct{})
			for _, v := range vals {
				require.True(t, v >= 0 && v < capacity)
				distinct[v] = struct{}{}
			}
			if capacity > 2 {
				require.Len(t, distinct, (capacity+1)/2, "h=%d c=%d", h, capacity)
			}
		}
	}
}

func TestProbeSeqNonPrime(t *testing.T) {
	// With a non-prime capacity the double hashing step may share a factor
	// with the capacity. step = 1 + 4 mod 3 = 2.
	vals := slices.Collect(DoubleHashProbe.Sequence(4, 4))
	require.Equal(t, []int{0, 2, 0, 2}, vals)
}

func TestProbeSequenceEarlyExit(t *testing.T) {
	var vals []int
	for i := range LinearProbe.Sequence(9, 11) {
		vals = append(vals, i)
		if len(vals) == 3 {
			break
		}
	}
	require.Equal(t, []int{9, 10, 0}, vals)
	require.Empty(t, slices.Collect(LinearProbe.Sequence(9, 0)))
}

func TestParseProbeStrategy(t *testing.T) {
	for _, p := range []ProbeStrategy{LinearProbe, QuadraticProbe, DoubleHashProbe} {
		parsed, ok := ParseProbeStrategy(p.String())
		require.True(t, ok)
		require.Equal(t, p, parsed)
	}
	p, ok := ParseProbeStrategy("Quadratic")
	require.True(t, ok)
	require.Equal(t, QuadraticProbe, p)

	_, ok = ParseProbeStrategy("cuckoo")
	require.False(t, ok)
	require.Equal(t, "ProbeStrategy(9)", ProbeStrategy(9).String())
}
