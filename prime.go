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

// isPrime reports whether n is prime using trial division by odd numbers up
// to √n.
func isPrime(n int) bool {
	if n < 2 {
		return false
	}
	if n%2 == 0 {
		return n == 2
	}
	for d := 3; d <= n/d; d += 2 {
		if n%d == 0 {
			return false
		}
	}
	return true
}

// nextTableSize returns the smallest prime >= minSize, capped at maxSize. If
// maxSize is reached before a prime is found, maxSize is returned even though
// it may not be prime. Tables at the capacity ceiling accept that
// degradation.
func nextTableSize(minSize, maxSize int) int {
	if minSize <= 2 {
		return min(2, maxSize)
	}
	n := minSize
	if n%2 == 0 {
		n++
	}
	for n < maxSize && !isPrime(n) {
		n += 2
	}
	return min(n, maxSize)
}
