// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package bqtest

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"code.hybscloud.com/bq"
)

func TestRouterRoutesKeyToOwningConsumerRing(t *testing.T) {
	m, err := bq.NewMatrix(1, 4, 32)
	require.NoError(t, err)
	r := NewRouter(m, 0, false)

	for key := uint64(1); key <= 4; key++ {
		r.RouteKey(key)
	}
	r.Finish()

	for cons := 0; cons < 4; cons++ {
		ring := m.Ring(0, cons)
		var gotPayload bool
		for {
			w, err := ring.Dequeue()
			if err != nil {
				break
			}
			if bq.IsSentinel(w) {
				continue
			}
			_, key := bq.UnpackPayload(w)
			assert.EqualValues(t, cons, int(uint64(key)%4))
			gotPayload = true
		}
		assert.True(t, gotPayload, "consumer %d received no payload", cons)
	}
}

func TestRouterFinishSetsBacktrackFlagAndSentinel(t *testing.T) {
	m, err := bq.NewMatrix(1, 1, 4)
	require.NoError(t, err)
	r := NewRouter(m, 0, false)
	r.Finish()

	ring := m.Ring(0, 0)
	assert.True(t, ring.BacktrackFlag.Load())
	w, err := ring.Dequeue()
	require.NoError(t, err)
	assert.True(t, bq.IsSentinel(w))
}

func TestRouterDirectModeConservesKeys(t *testing.T) {
	m, err := bq.NewMatrix(1, 2, 64)
	require.NoError(t, err)
	r := NewRouter(m, 0, true)

	for i, key := 0, uint64(1); key <= 20; key++ {
		r.RouteKeyDirect(key, i)
		i++
	}
	r.Finish()

	var total int
	for cons := 0; cons < 2; cons++ {
		ring := m.Ring(0, cons)
		for {
			w, err := ring.Dequeue()
			if err != nil {
				break
			}
			if bq.IsSentinel(w) {
				continue
			}
			total++
		}
	}
	assert.Equal(t, 20, total)
}
