// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package bq

// Sentinel is the reserved payload word a producer enqueues to signal the
// end of its stream into one consumer. It must never collide with a
// legitimately packed (hash, key) pair.
const Sentinel uint64 = 0xD221A6BE96E04673

// PackPayload packs a precomputed hash and a key into a single ring word:
// the hash occupies the high 32 bits, the key the low 32 bits.
func PackPayload(hash, key uint32) uint64 {
	return uint64(hash)<<32 | uint64(key)
}

// UnpackPayload splits a ring word back into its hash and key halves.
func UnpackPayload(w uint64) (hash, key uint32) {
	return uint32(w >> 32), uint32(w)
}

// IsSentinel reports whether w is the end-of-stream marker rather than a
// packed payload.
func IsSentinel(w uint64) bool {
	return w == Sentinel
}
