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
	"iter"
	"strings"
)

// ProbeStrategy selects the order in which candidate slots are examined for
// a key. The strategy is fixed when a Map is constructed.
type ProbeStrategy uint8

const (
	// LinearProbe examines (h + i) mod c.
	LinearProbe ProbeStrategy = iota
	// QuadraticProbe examines (h + i²) mod c. Over a prime capacity it only
	// reaches (c+1)/2 distinct slots, so inserts can fail with
	// ErrProbeFailure above a load factor of 1/2.
	QuadraticProbe
	// DoubleHashProbe examines (h + i·step) mod c where
	// step = 1 + h mod (c-1). The step is coprime with a prime capacity so
	// every slot is reached.
	DoubleHashProbe
)

var probeStrategyNames = [...]string{
	LinearProbe:     "linear",
	QuadraticProbe:  "quadratic",
	DoubleHashProbe: "double",
}

func (p ProbeStrategy) String() string {
	if int(p) < len(probeStrategyNames) {
		return probeStrategyNames[p]
	}
	return fmt.Sprintf("ProbeStrategy(%d)", uint8(p))
}

// ParseProbeStrategy returns the strategy named by s ("linear", "quadratic"
// or "double"). The match is case insensitive.
func ParseProbeStrategy(s string) (ProbeStrategy, bool) {
	for i, name := range probeStrategyNames {
		if strings.EqualFold(s, name) {
			return ProbeStrategy(i), true
		}
	}
	return 0, false
}

// Sequence returns the probe sequence for hash over a table of the given
// capacity. The sequence always has exactly capacity elements, each in
// [0, capacity).
func (p ProbeStrategy) Sequence(hash uint64, capacity int) iter.Seq[int] {
	return func(yield func(int) bool) {
		if capacity <= 0 {
			return
		}
		for seq := makeProbeSeq(p, hash, capacity); !seq.done(); seq = seq.next() {
			if !yield(int(seq.offset)) {
				return
			}
		}
	}
}

// probeSeq maintains the state for a probe sequence. next returns the
// successor rather than mutating the receiver.
//
// Offsets are computed from the probe index rather than accumulated so that
// all three strategies share one representation:
//
//	linear:    p(i) = (h + i) mod c
//	quadratic: p(i) = (h + i²) mod c
//	double:    p(i) = (h + i·step) mod c
//
// Capacities never exceed MaxCapacity (2^31-1), so i² and i·step fit in a
// uint64 without overflow.
type probeSeq struct {
	strategy ProbeStrategy
	capacity uint64
	// start is hash mod capacity.
	start uint64
	// step is only used by DoubleHashProbe.
	step   uint64
	index  uint64
	offset uint64
}

func makeProbeSeq(strategy ProbeStrategy, hash uint64, capacity int) probeSeq {
	c := uint64(capacity)
	s := probeSeq{
		strategy: strategy,
		capacity: c,
		start:    hash % c,
		step:     1,
	}
	if strategy == DoubleHashProbe && c > 1 {
		s.step = 1 + hash%(c-1)
	}
	s.offset = s.start
	return s
}

func (s probeSeq) next() probeSeq {
	s.index++
	switch s.strategy {
	case QuadraticProbe:
		s.offset = (s.start + (s.index*s.index)%s.capacity) % s.capacity
	case DoubleHashProbe:
		s.offset = (s.start + (s.index*s.step)%s.capacity) % s.capacity
	default:
		s.offset = (s.start + s.index) % s.capacity
	}
	return s
}

// done reports whether all capacity candidates have been produced.
func (s probeSeq) done() bool {
	return s.index >= s.capacity
}

func (s probeSeq) String() string {
	return fmt.Sprintf("%s capacity=%d offset=%d index=%d step=%d",
		s.strategy, s.capacity, s.offset, s.index, s.step)
}
