// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package bq provides the single-producer/single-consumer queue fabric that
// routes fixed-width integer keys to the partition that owns them.
//
// A [Matrix] is an N_prod × N_cons grid of [Ring]s: producer p's outbound
// view is the row Matrix.ProducerRow(p), consumer c's inbound view is the
// column Matrix.ConsumerColumn(c), and exactly one Ring bridges each
// (producer, consumer) pair. Every Ring is a bounded Lamport ring buffer with
// a single designated writer and a single designated reader; packages
// bqtest, hashtable, keysource, and affinity build the rest of the
// benchmark harness (router, consumer pipeline, barrier, hash-table
// contract, CPU pinning) on top of this fabric.
//
// # Wire format
//
// Each queued word packs a 32-bit precomputed hash in its high bits and a
// 32-bit key in its low bits (see [PackPayload]). The reserved value
// [Sentinel] terminates one producer's stream into one consumer and must
// never occur as a legitimate key.
//
// # Memory ordering
//
// Ring.Enqueue is called by exactly one goroutine (the Ring's producer);
// Ring.Dequeue by exactly one goroutine (the Ring's consumer). The producer
// publishes a new head with a release store; the consumer observes it with
// an acquire load, and symmetrically for tail. Both sides cache the remote
// endpoint's index and only refresh it, via an acquire load, when their
// local view says the ring is full (producer) or empty (consumer).
//
// # Prefetch hints
//
// PrefetchMetadata and PrefetchDataForRead/Write are performance hints only.
// They never affect the sequence of values a Dequeue observes; an
// implementation is free to make them no-ops without affecting correctness
// (internal/prefetch implements them as a plain one-byte load on every
// platform).
package bq
