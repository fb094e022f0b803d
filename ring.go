// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package bq

import (
	"unsafe"

	"code.hybscloud.com/atomix"
	"code.hybscloud.com/bq/internal/prefetch"
)

// Ring is a fixed-capacity, cache-line-padded single-producer/single-consumer
// bounded FIFO of 64-bit payload words.
//
// Based on Lamport's ring buffer with the cached-index optimization: the
// writer caches the reader's last-observed tail, and the reader caches the
// writer's last-observed head, so that a steady-state Enqueue/Dequeue only
// touches the remote endpoint's cache line when the local view says the ring
// is full or empty respectively.
//
// Only the designated producer may call Enqueue; only the designated
// consumer may call Dequeue. Violating this (e.g. two goroutines enqueueing
// concurrently) is undefined behavior, same as the teacher's SPSC[T].
type Ring struct {
	_              pad
	head           atomix.Uint64 // producer-owned write index
	_              pad
	cachedTail     uint64 // producer's cached view of tail
	_              pad
	tail           atomix.Uint64 // consumer-owned read index
	_              pad
	cachedHead     uint64 // consumer's cached view of head
	_              pad
	BacktrackFlag  atomix.Bool // set by the producer just before its sentinel
	_              padShort
	data           []uint64
	mask           uint64
}

// NewRing creates a Ring with the given capacity, rounded up to the next
// power of two. Panics if capacity < 2.
func NewRing(capacity int) *Ring {
	if capacity < 2 {
		panic("bq: ring capacity must be >= 2")
	}
	n := uint64(roundToPow2(capacity))
	return &Ring{
		data: make([]uint64, n),
		mask: n - 1,
	}
}

// Cap returns the ring's capacity (always a power of two).
func (r *Ring) Cap() int {
	return int(r.mask + 1)
}

// Enqueue reserves the slot at the current head, stores v, and publishes the
// new head. Producer-only. Returns ErrWouldBlock if the ring is full; the
// caller retries (spec.md §4.1 Failure semantics — fullness is not fatal).
func (r *Ring) Enqueue(v uint64) error {
	head := r.head.LoadRelaxed()
	if head-r.cachedTail > r.mask {
		r.cachedTail = r.tail.LoadAcquire()
		if head-r.cachedTail > r.mask {
			return ErrWouldBlock
		}
	}
	r.data[head&r.mask] = v
	r.head.StoreRelease(head + 1)
	return nil
}

// Dequeue observes the current tail, reads the slot, and publishes the new
// tail. Consumer-only. Returns ErrWouldBlock if the ring is empty; the
// caller rotates to another producer's column rather than blocking.
func (r *Ring) Dequeue() (uint64, error) {
	tail := r.tail.LoadRelaxed()
	if tail >= r.cachedHead {
		r.cachedHead = r.head.LoadAcquire()
		if tail >= r.cachedHead {
			return 0, ErrWouldBlock
		}
	}
	v := r.data[tail&r.mask]
	r.tail.StoreRelease(tail + 1)
	return v, nil
}

// PrefetchMetadata hints that this ring's head/tail control words will be
// touched soon. Safe and correct as a no-op (spec.md §9).
func (r *Ring) PrefetchMetadata() {
	prefetch.Read(unsafe.Pointer(r))
}

// PrefetchDataForWrite hints that the data slot the next Enqueue will touch
// should be brought into cache in anticipation of a write.
func (r *Ring) PrefetchDataForWrite() {
	head := r.head.LoadRelaxed()
	prefetch.Write(unsafe.Pointer(&r.data[head&r.mask]))
}

// PrefetchDataForRead hints that the data slot the next Dequeue will touch
// should be brought into cache in anticipation of a read.
func (r *Ring) PrefetchDataForRead() {
	tail := r.tail.LoadRelaxed()
	prefetch.Read(unsafe.Pointer(&r.data[tail&r.mask]))
}

// roundToPow2 rounds n up to the next power of 2.
func roundToPow2(n int) int {
	if n < 2 {
		return 2
	}
	n--
	n |= n >> 1
	n |= n >> 2
	n |= n >> 4
	n |= n >> 8
	n |= n >> 16
	n |= n >> 32
	return n + 1
}

// pad is cache-line padding to prevent false sharing between fields that are
// touched by different goroutines (writer vs reader).
type pad [64]byte

// padShort pads out the remainder of a cache line after a short field.
type padShort [64 - 1]byte
