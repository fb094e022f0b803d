// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package keysource

// Xorwow is a synthetic 64-bit key generator built from two draws of a
// 32-bit xorwow PRNG, matching BQ_TESTS_INSERT_XORWOW in the original
// source: k = xorwow()<<32 | xorwow().
type Xorwow struct {
	state     [5]uint32
	counter   uint32
	remaining uint64
}

// NewXorwow creates a Xorwow source that yields count keys, seeded from
// seed (must be non-zero; a zero seed is replaced with a fixed default).
func NewXorwow(seed uint32, count uint64) *Xorwow {
	if seed == 0 {
		seed = 123456789
	}
	x := &Xorwow{remaining: count}
	x.state[0] = seed
	x.state[1] = 362436069
	x.state[2] = 521288629
	x.state[3] = 88675123
	x.state[4] = 5783321
	x.counter = 6615241
	return x
}

func (x *Xorwow) draw() uint32 {
	t := x.state[4]
	s := x.state[0]
	x.state[4] = x.state[3]
	x.state[3] = x.state[2]
	x.state[2] = x.state[1]
	x.state[1] = s

	t ^= t >> 2
	t ^= t << 1
	t ^= s ^ (s << 4)
	x.state[0] = t
	x.counter += 362437
	return t + x.counter
}

// Next implements Source.
func (x *Xorwow) Next() (uint64, bool) {
	if x.remaining == 0 {
		return 0, false
	}
	hi := uint64(x.draw())
	lo := uint64(x.draw())
	x.remaining--
	k := hi<<32 | lo
	if k == 0 {
		k = 1
	}
	return k, true
}
