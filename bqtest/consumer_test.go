// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package bqtest

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"code.hybscloud.com/bq"
	"code.hybscloud.com/bq/hashtable"
)

func TestConsumerDrainsSingleProducerAndFlushes(t *testing.T) {
	m, err := bq.NewMatrix(1, 1, 32)
	require.NoError(t, err)

	router := NewRouter(m, 0, false)
	for key := uint64(1); key <= 10; key++ {
		router.RouteKey(key)
	}
	router.Finish()

	part := hashtable.NewOpenAddressing(64)
	c := NewConsumer(m, 0, part, false, false)
	require.NoError(t, c.Run())

	assert.EqualValues(t, 10, c.Inserted())
}

func TestConsumerNoPrefetchModeInsertsOneAtATime(t *testing.T) {
	m, err := bq.NewMatrix(1, 1, 32)
	require.NoError(t, err)

	router := NewRouter(m, 0, false)
	for key := uint64(1); key <= 5; key++ {
		router.RouteKey(key)
	}
	router.Finish()

	part := hashtable.NewOpenAddressing(64)
	c := NewConsumer(m, 0, part, true, false)
	require.NoError(t, c.Run())

	assert.EqualValues(t, 5, c.Inserted())
}

func TestConsumerHaltFlagPathTerminates(t *testing.T) {
	m, err := bq.NewMatrix(2, 1, 32)
	require.NoError(t, err)

	for p := 0; p < 2; p++ {
		router := NewRouter(m, p, false)
		router.RouteKey(uint64(p + 1))
		router.Finish()
	}

	assert.True(t, m.Ring(0, 0).BacktrackFlag.Load())
	assert.True(t, m.Ring(1, 0).BacktrackFlag.Load())

	part := hashtable.NewOpenAddressing(64)
	c := NewConsumer(m, 0, part, false, true)
	require.NoError(t, c.Run())
	assert.EqualValues(t, 2, c.Inserted())
}

func TestConsumerHaltFlagDrainsMoreThanStageLengthInOneVisit(t *testing.T) {
	m, err := bq.NewMatrix(1, 1, 64)
	require.NoError(t, err)

	router := NewRouter(m, 0, false)
	const numKeys = StageLength*2 + 5
	for key := uint64(1); key <= numKeys; key++ {
		router.RouteKey(key)
	}
	router.Finish()

	assert.True(t, m.Ring(0, 0).BacktrackFlag.Load())

	part := hashtable.NewOpenAddressing(256)
	c := NewConsumer(m, 0, part, false, true)
	require.NoError(t, c.Run())
	assert.EqualValues(t, numKeys, c.Inserted())
}
