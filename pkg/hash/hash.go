// Copyright 2024 The kutil Authors.
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

// Package hash provides fast multiplicative hashing for integers.
//
// The input is multiplied by a large odd constant and the high bits of the
// product are kept. Multiplication propagates changes toward the most
// significant end only, so the high bits are the well-mixed ones. The
// constants are derived from the golden ratio, which distributes
// particularly evenly (Knuth vol. 3, section 6.4).
package hash

import "math/bits"

// Golden-ratio multipliers: 2^bits / phi, negated, rounded to odd.
const (
	GoldenRatio32 uint32 = 0x61C88647
	GoldenRatio64 uint64 = 0x61C8864680B583EB
)

// Mix32 multiplies val by the 32-bit golden-ratio constant without reducing
// the result. Callers that want a bucket index should use Hash32 instead.
func Mix32(val uint32) uint32 {
	return val * GoldenRatio32
}

// Hash32 hashes a 32-bit value down to n bits, n in [1, 32].
func Hash32(val uint32, n uint) uint32 {
	// High bits are more random, so use them.
	return Mix32(val) >> (32 - n)
}

// Hash64 hashes a 64-bit value down to n bits, n in [1, 32].
func Hash64(val uint64, n uint) uint32 {
	return uint32(val * GoldenRatio64 >> (64 - n))
}

// HashUint hashes a word-sized value down to n bits, dispatching to Hash32
// or Hash64 to match the platform word size.
func HashUint(val uint, n uint) uint32 {
	if bits.UintSize == 64 {
		return Hash64(uint64(val), n)
	}
	return Hash32(uint32(val), n)
}

// Fold32 reduces a 64-bit value to 32 bits by xor-folding the halves,
// preserving entropy from both.
func Fold32(val uint64) uint32 {
	return uint32(val ^ val>>32)
}
