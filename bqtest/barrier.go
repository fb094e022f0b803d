// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package bqtest

import (
	"code.hybscloud.com/atomix"
	"code.hybscloud.com/spin"
)

// Barrier is the small set of monotonically increasing counters the
// controller and every producer/consumer goroutine use to agree on when the
// test may start and when it has finished, replacing the original's
// fipc_test_FAI-incremented globals and its spin-on-fipc_test_pause loops.
type Barrier struct {
	readyProducers     atomix.Int64
	readyConsumers     atomix.Int64
	completedProducers atomix.Int64
	completedConsumers atomix.Int64
	testReady          atomix.Bool
}

// MarkProducerReady increments the ready-producer count. Called once by
// each producer goroutine before it waits on WaitUntilReady.
func (b *Barrier) MarkProducerReady() {
	b.readyProducers.Add(1)
}

// MarkConsumerReady increments the ready-consumer count.
func (b *Barrier) MarkConsumerReady() {
	b.readyConsumers.Add(1)
}

// MarkProducerCompleted increments the completed-producer count.
func (b *Barrier) MarkProducerCompleted() {
	b.completedProducers.Add(1)
}

// MarkConsumerCompleted increments the completed-consumer count.
func (b *Barrier) MarkConsumerCompleted() {
	b.completedConsumers.Add(1)
}

// WaitUntilReady spins until TestReady has been set by the controller. Every
// producer and consumer goroutine calls this immediately after marking
// itself ready, so no goroutine touches a Ring before the controller has
// observed that every goroutine has started.
func (b *Barrier) WaitUntilReady() {
	var sw spin.Wait
	for !b.testReady.Load() {
		sw.Once()
	}
}

// Open sets TestReady, releasing every goroutine blocked in WaitUntilReady.
// Called by the controller exactly once, after it has observed that
// ReadyProducers/ReadyConsumers match the configured counts.
func (b *Barrier) Open() {
	b.testReady.Store(true)
}

// waitFor spins until counter has reached n. The four exported WaitFor*
// methods below call it with one of the Barrier's counters.
func (b *Barrier) waitFor(counter *atomix.Int64, n int) {
	var sw spin.Wait
	for counter.Load() < int64(n) {
		sw.Once()
	}
}

// WaitForReadyProducers blocks until n producers have called
// MarkProducerReady.
func (b *Barrier) WaitForReadyProducers(n int) { b.waitFor(&b.readyProducers, n) }

// WaitForReadyConsumers blocks until n consumers have called
// MarkConsumerReady.
func (b *Barrier) WaitForReadyConsumers(n int) { b.waitFor(&b.readyConsumers, n) }

// WaitForCompletedProducers blocks until n producers have called
// MarkProducerCompleted.
func (b *Barrier) WaitForCompletedProducers(n int) { b.waitFor(&b.completedProducers, n) }

// WaitForCompletedConsumers blocks until n consumers have called
// MarkConsumerCompleted.
func (b *Barrier) WaitForCompletedConsumers(n int) { b.waitFor(&b.completedConsumers, n) }
