// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package bq

import (
	"errors"

	"code.hybscloud.com/iox"
)

// ErrWouldBlock indicates the operation cannot proceed immediately.
//
// For Enqueue: the ring is full (backpressure)
// For Dequeue: the ring is empty (no data available)
//
// ErrWouldBlock is a control flow signal, not a failure. The caller should
// retry the operation (the router retries Enqueue until it succeeds before
// moving on; the consumer treats Dequeue's ErrWouldBlock as "nothing from
// this producer right now" and rotates to the next column).
//
// This is an alias for [iox.ErrWouldBlock] for ecosystem consistency.
var ErrWouldBlock = iox.ErrWouldBlock

// IsWouldBlock reports whether err indicates the operation would block.
// Delegates to [iox.IsWouldBlock] for wrapped error support.
func IsWouldBlock(err error) bool {
	return iox.IsWouldBlock(err)
}

// IsSemantic reports whether err is a control flow signal (not a failure).
// Delegates to [iox.IsSemantic].
func IsSemantic(err error) bool {
	return iox.IsSemantic(err)
}

// IsNonFailure reports whether err represents a non-failure condition.
// Delegates to [iox.IsNonFailure].
func IsNonFailure(err error) bool {
	return iox.IsNonFailure(err)
}

// ErrCapacityTooSmall is returned by NewMatrix when a ring capacity below 2
// is requested.
var ErrCapacityTooSmall = errors.New("bq: ring capacity must be >= 2")

// ErrInsufficientCPUs is returned by the test controller when the assigned
// CPU list is too short to cover producers, consumers, and NUMA-reserved
// housekeeping cores.
var ErrInsufficientCPUs = errors.New("bq: assigned CPU list too short for n_prod+n_cons+reserved nodes")

// ErrNoProducers is returned when a Matrix or controller is configured with
// zero producers.
var ErrNoProducers = errors.New("bq: n_prod must be >= 1")

// ErrNoConsumers is returned when a Matrix or controller is configured with
// zero consumers.
var ErrNoConsumers = errors.New("bq: n_cons must be >= 1")
