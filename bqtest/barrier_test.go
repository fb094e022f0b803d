// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package bqtest

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestBarrierBlocksUntilOpened(t *testing.T) {
	var b Barrier
	var proceeded atomic.Bool

	go func() {
		b.WaitUntilReady()
		proceeded.Store(true)
	}()

	time.Sleep(20 * time.Millisecond)
	assert.False(t, proceeded.Load(), "goroutine must not proceed before Open")

	b.Open()
	time.Sleep(20 * time.Millisecond)
	assert.True(t, proceeded.Load())
}

func TestBarrierWaitForReadyCounts(t *testing.T) {
	var b Barrier
	done := make(chan struct{})
	go func() {
		b.WaitForReadyProducers(3)
		close(done)
	}()

	b.MarkProducerReady()
	b.MarkProducerReady()
	select {
	case <-done:
		t.Fatal("WaitForReadyProducers returned before 3rd MarkProducerReady")
	case <-time.After(20 * time.Millisecond):
	}

	b.MarkProducerReady()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("WaitForReadyProducers did not return after 3rd MarkProducerReady")
	}
}
