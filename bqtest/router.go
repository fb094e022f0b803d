// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package bqtest

import (
	"github.com/cespare/xxhash/v2"

	"code.hybscloud.com/bq"
)

// BatchLength is the producer's micro-batch size per (producer,consumer)
// pair, matching BQ_TESTS_BATCH_LENGTH in the original source.
const BatchLength = 16

// Router owns one producer's outbound row of Rings and routes keys to the
// consumer that owns them.
type Router struct {
	row      []bq.Ring
	buffers  []producerBuffer
	unbuffered bool
}

// producerBuffer stages up to BatchLength payload words for one
// (producer,consumer) pair before draining them into the Ring together,
// matching cons_buffers/buf_idx in the original source.
type producerBuffer struct {
	words [BatchLength]uint64
	n     int
}

// NewRouter builds a Router over producer p's row of m.
func NewRouter(m *bq.Matrix, p int, unbuffered bool) *Router {
	return &Router{
		row:        m.ProducerRow(p),
		buffers:    make([]producerBuffer, m.NumConsumers()),
		unbuffered: unbuffered,
	}
}

// partitionOf returns the consumer id that owns key, under the same
// partitioning function used everywhere else in the fabric: consumer =
// key mod N_cons.
func (r *Router) partitionOf(key uint64) int {
	return int(key % uint64(len(r.row)))
}

// hashKey computes the 32-bit hash packed alongside key in the wire word.
// Uses xxhash, the idiomatic Go equivalent of the original's XXH64.
func hashKey(key uint64) uint32 {
	var buf [8]byte
	for i := 0; i < 8; i++ {
		buf[i] = byte(key >> (8 * i))
	}
	return uint32(xxhash.Sum64(buf[:]))
}

// RouteKey enqueues key into the buffer for its owning consumer, firing
// prefetch hints near the end of the batch and draining (retry-until-
// success) once the batch fills. This is the canonical, buffered path
// (spec.md §4.3).
func (r *Router) RouteKey(key uint64) {
	cons := r.partitionOf(key)
	buf := &r.buffers[cons]
	w := bq.PackPayload(hashKey(key), uint32(key))
	buf.words[buf.n] = w
	buf.n++

	switch buf.n {
	case BatchLength - 2:
		r.row[cons].PrefetchMetadata()
	case BatchLength - 1:
		r.row[cons].PrefetchDataForWrite()
	case BatchLength:
		r.drain(cons)
	}
}

// drain enqueues every staged word for consumer cons, retrying a full Ring
// until it succeeds (fullness is not fatal — spec.md §4.1).
func (r *Router) drain(cons int) {
	buf := &r.buffers[cons]
	for i := 0; i < buf.n; i++ {
		for r.row[cons].Enqueue(buf.words[i]) != nil {
		}
	}
	buf.n = 0
}

// RouteKeyDirect enqueues key immediately, one word at a time, with inline
// prefetch of the ring's next data slot every eighth key (by seq) and of the
// next consumer's ring metadata on every key. This is the unbuffered alternative
// original_source/bq_tests.cpp keeps behind #else of DOUBLE_BUFFERING.
func (r *Router) RouteKeyDirect(key uint64, seq int) {
	cons := r.partitionOf(key)
	w := bq.PackPayload(hashKey(key), uint32(key))
	for r.row[cons].Enqueue(w) != nil {
	}

	if seq%8 == 0 {
		r.row[cons].PrefetchDataForWrite()
	}
	next := cons + 1
	if next >= len(r.row) {
		next = 0
	}
	r.row[next].PrefetchMetadata()
}

// Finish drains any remaining buffered words for every consumer, sets each
// Ring's BacktrackFlag, and enqueues the sentinel, retrying until it
// succeeds. Called exactly once by a producer after it has routed every key
// in its share.
func (r *Router) Finish() {
	for cons := range r.row {
		if r.buffers[cons].n > 0 {
			r.drain(cons)
		}
		r.row[cons].BacktrackFlag.Store(true)
		for r.row[cons].Enqueue(bq.Sentinel) != nil {
		}
	}
}
