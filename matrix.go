// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package bq

// Matrix is an N_prod × N_cons grid of [Ring]s: exactly one Ring bridges
// each (producer, consumer) pair. Rings are stored flat, row-major, so that
// a producer's outbound row is contiguous.
//
// Grounded in the teacher's original C++ ancestor's init_queues, which
// allocates one flat queue_t array and builds prod_queues[i][j] and
// cons_queues[i][j] as two different index orderings over the same backing
// array.
type Matrix struct {
	rings    []Ring
	nProd    int
	nCons    int
	capacity int
}

// NewMatrix allocates a Matrix with nProd producers, nCons consumers, and a
// per-ring capacity of capacity (rounded up to a power of two by each Ring).
func NewMatrix(nProd, nCons, capacity int) (*Matrix, error) {
	if nProd < 1 {
		return nil, ErrNoProducers
	}
	if nCons < 1 {
		return nil, ErrNoConsumers
	}
	if capacity < 2 {
		return nil, ErrCapacityTooSmall
	}
	m := &Matrix{
		rings:    make([]Ring, nProd*nCons),
		nProd:    nProd,
		nCons:    nCons,
		capacity: capacity,
	}
	n := uint64(roundToPow2(capacity))
	for i := range m.rings {
		m.rings[i].data = make([]uint64, n)
		m.rings[i].mask = n - 1
	}
	return m, nil
}

// NumProducers returns N_prod.
func (m *Matrix) NumProducers() int { return m.nProd }

// NumConsumers returns N_cons.
func (m *Matrix) NumConsumers() int { return m.nCons }

// Ring returns the Ring bridging producer p to consumer c.
func (m *Matrix) Ring(p, c int) *Ring {
	return &m.rings[p*m.nCons+c]
}

// ProducerRow returns producer p's row: one Ring per consumer, indexed by
// consumer id. The slice aliases the Matrix's backing storage.
func (m *Matrix) ProducerRow(p int) []Ring {
	return m.rings[p*m.nCons : (p+1)*m.nCons]
}

// ConsumerColumn returns consumer c's column: one Ring per producer, indexed
// by producer id. Unlike ProducerRow this is not contiguous in the backing
// array, so a fresh slice of pointers is built on each call.
func (m *Matrix) ConsumerColumn(c int) []*Ring {
	col := make([]*Ring, m.nProd)
	for p := 0; p < m.nProd; p++ {
		col[p] = m.Ring(p, c)
	}
	return col
}
