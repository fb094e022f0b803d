// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package keysource

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDenseYieldsConsecutiveKeys(t *testing.T) {
	d := NewDense(5, 3)
	var got []uint64
	for {
		k, ok := d.Next()
		if !ok {
			break
		}
		got = append(got, k)
	}
	assert.Equal(t, []uint64{5, 6, 7}, got)
}

func TestDenseClampsZeroStartToOne(t *testing.T) {
	d := NewDense(0, 1)
	k, ok := d.Next()
	require.True(t, ok)
	assert.Equal(t, uint64(1), k)
}

func TestDenseExhausts(t *testing.T) {
	d := NewDense(1, 0)
	_, ok := d.Next()
	assert.False(t, ok)
}

func TestXorwowYieldsCountKeysNeverZero(t *testing.T) {
	x := NewXorwow(42, 1000)
	n := 0
	for {
		k, ok := x.Next()
		if !ok {
			break
		}
		assert.NotZero(t, k)
		n++
	}
	assert.Equal(t, 1000, n)
}

func TestXorwowIsDeterministicForSameSeed(t *testing.T) {
	a := NewXorwow(7, 10)
	b := NewXorwow(7, 10)
	for i := 0; i < 10; i++ {
		ka, _ := a.Next()
		kb, _ := b.Next()
		assert.Equal(t, ka, kb)
	}
}

func TestZipfianStaysInRangeAndCount(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 2))
	z := NewZipfian(rng, 1.5, 100, 500)
	n := 0
	for {
		k, ok := z.Next()
		if !ok {
			break
		}
		assert.GreaterOrEqual(t, k, uint64(1))
		assert.LessOrEqual(t, k, uint64(100))
		n++
	}
	assert.Equal(t, 500, n)
}
