// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package affinity

import (
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNodeCountIsAtLeastOne(t *testing.T) {
	assert.GreaterOrEqual(t, NodeCount(), 1)
}

func TestNewPlanDisjointAssignment(t *testing.T) {
	numCPU := runtime.NumCPU()
	reserved := NodeCount()
	if numCPU < reserved+2 {
		t.Skipf("not enough CPUs (%d) for this test (need >= %d)", numCPU, reserved+2)
	}

	p, err := NewPlan(1, 1)
	require.NoError(t, err)
	assert.Len(t, p.Producers, 1)
	assert.Len(t, p.Consumers, 1)
	assert.NotEqual(t, p.Producers[0], p.Consumers[0])
}

func TestNewPlanRejectsOverbudgetRequest(t *testing.T) {
	_, err := NewPlan(runtime.NumCPU()+10, runtime.NumCPU()+10)
	assert.Error(t, err)
}

func TestPinToCurrentCPUDoesNotPanic(t *testing.T) {
	done := make(chan error, 1)
	go func() {
		done <- Pin(0)
	}()
	err := <-done
	if err != nil {
		t.Logf("Pin returned non-fatal error in this sandbox: %v", err)
	}
}
