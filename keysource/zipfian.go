// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package keysource

import "math/rand/v2"

// Zipfian draws keys from a Zipfian distribution over [1, span]. In bqtest it
// drives the UniformRandom modes and the post-insert find phase, the
// counterparts of the original source's do_zipfian_inserts /
// do_zipfian_gets. No third-party Zipf generator is carried by any example
// repo; math/rand/v2's own Zipf sampler is used instead (see DESIGN.md).
type Zipfian struct {
	z         *rand.Zipf
	remaining uint64
}

// NewZipfian creates a Zipfian source yielding count keys in [1, span],
// skewed by s (s > 1; higher values concentrate more mass on small keys).
func NewZipfian(rng *rand.Rand, s float64, span uint64, count uint64) *Zipfian {
	if span < 1 {
		span = 1
	}
	if s <= 1 {
		s = 1.1
	}
	if rng == nil {
		rng = rand.New(rand.NewPCG(1, 1))
	}
	return &Zipfian{
		z:         rand.NewZipf(rng, s, 1, span-1),
		remaining: count,
	}
}

// Next implements Source.
func (z *Zipfian) Next() (uint64, bool) {
	if z.remaining == 0 {
		return 0, false
	}
	z.remaining--
	return z.z.Uint64() + 1, true
}
