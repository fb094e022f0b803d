// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package bq

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMatrixValidatesDimensions(t *testing.T) {
	_, err := NewMatrix(0, 1, 4)
	assert.ErrorIs(t, err, ErrNoProducers)

	_, err = NewMatrix(1, 0, 4)
	assert.ErrorIs(t, err, ErrNoConsumers)

	_, err = NewMatrix(1, 1, 1)
	assert.ErrorIs(t, err, ErrCapacityTooSmall)
}

func TestMatrixRingIsSharedBetweenRowAndColumnViews(t *testing.T) {
	m, err := NewMatrix(2, 3, 4)
	require.NoError(t, err)
	assert.Equal(t, 2, m.NumProducers())
	assert.Equal(t, 3, m.NumConsumers())

	row := m.ProducerRow(1)
	require.NoError(t, row[2].Enqueue(99))

	col := m.ConsumerColumn(2)
	v, err := col[1].Dequeue()
	require.NoError(t, err)
	assert.Equal(t, uint64(99), v)
}

func TestMatrixRingsAreIndependent(t *testing.T) {
	m, err := NewMatrix(2, 2, 4)
	require.NoError(t, err)

	require.NoError(t, m.Ring(0, 0).Enqueue(1))
	require.NoError(t, m.Ring(0, 1).Enqueue(2))
	require.NoError(t, m.Ring(1, 0).Enqueue(3))
	require.NoError(t, m.Ring(1, 1).Enqueue(4))

	v, err := m.Ring(0, 0).Dequeue()
	require.NoError(t, err)
	assert.Equal(t, uint64(1), v)

	v, err = m.Ring(1, 1).Dequeue()
	require.NoError(t, err)
	assert.Equal(t, uint64(4), v)

	_, err = m.Ring(0, 1).Dequeue()
	require.NoError(t, err)
	_, err = m.Ring(1, 0).Dequeue()
	require.NoError(t, err)
}
