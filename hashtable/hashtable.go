// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package hashtable defines the external contract a consumer's partition
// insert/find pipeline drives, plus a reference open-addressing
// implementation.
//
// The wire fabric in package bq never looks inside a Partition; it only
// needs somewhere real to hand dequeued (hash, key) pairs to, so the
// benchmark harness in bqtest has an end-to-end path to exercise.
package hashtable

// QueueType selects which of a Partition's internal pipelines a prefetch
// hint targets.
type QueueType int

const (
	// InsertQueue is the pipeline fed by Insert/InsertBatch.
	InsertQueue QueueType = iota
	// FindQueue is the pipeline fed by FindBatch.
	FindQueue
)

// KeyPair is one (hash, key) item handed from the queue fabric to a
// Partition.
type KeyPair struct {
	Hash uint32
	Key  uint32
}

// FindResult is one (value, found) pair returned from FindBatch, aligned
// positionally with the KeyPair slice that produced it.
type FindResult struct {
	Value uint64
	Found bool
}

// Partition is the external contract the fan-out fabric's consumer loop
// drives. Implementations own one disjoint slice of the key space; the
// fabric guarantees every key routed to a given Partition hashes to it
// under the same partitioning function used everywhere else.
type Partition interface {
	// Insert adds or increments the count for key, prefetching nothing.
	Insert(kp KeyPair) error

	// InsertBatch adds or increments counts for a batch of keys, using the
	// partition's internal prefetch pipeline between consecutive entries.
	InsertBatch(kps []KeyPair) error

	// InsertNoPrefetch behaves like Insert but is the explicit entry point
	// used when prefetching is disabled end to end (Configuration.NoPrefetch).
	InsertNoPrefetch(kp KeyPair) error

	// FlushInsertQueue drains any entries staged internally by InsertBatch
	// that have not yet been committed. Called once the producer side of
	// the pipeline has signaled completion.
	FlushInsertQueue() error

	// FindBatch looks up a batch of keys, using the same staged-prefetch
	// pipeline as InsertBatch, and returns one FindResult per input key.
	FindBatch(kps []KeyPair) ([]FindResult, error)

	// FlushFindQueue drains any entries staged internally by FindBatch.
	FlushFindQueue() error

	// PrefetchQueue hints that the given pipeline's next staged entry
	// should be brought into cache. Safe and correct as a no-op.
	PrefetchQueue(qt QueueType)

	// PrintToFile writes one "key count" line per occupied slot to path.
	PrintToFile(path string) error

	// NumReprobes reports the cumulative number of probe-chain steps taken
	// across every Insert/InsertBatch/FindBatch call so far.
	NumReprobes() uint64

	// NumSoftReprobes reports the subset of NumReprobes that stayed within
	// the same cache line as the previous probe (cheaper than a hard
	// reprobe, which crosses a cache-line boundary).
	NumSoftReprobes() uint64
}
