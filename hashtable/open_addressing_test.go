// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package hashtable

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/cespare/xxhash/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func hashKey(key uint32) uint32 {
	var buf [4]byte
	buf[0] = byte(key)
	buf[1] = byte(key >> 8)
	buf[2] = byte(key >> 16)
	buf[3] = byte(key >> 24)
	return uint32(xxhash.Sum64(buf[:]))
}

func kp(key uint32) KeyPair {
	return KeyPair{Hash: hashKey(key), Key: key}
}

func TestOpenAddressingInsertAndGetRoundTrip(t *testing.T) {
	ht := NewOpenAddressing(64)
	require.NoError(t, ht.Insert(kp(1)))
	require.NoError(t, ht.Insert(kp(1)))
	require.NoError(t, ht.Insert(kp(2)))

	v, found := ht.Get(1, hashKey(1))
	require.True(t, found)
	assert.Equal(t, uint64(2), v)

	v, found = ht.Get(2, hashKey(2))
	require.True(t, found)
	assert.Equal(t, uint64(1), v)

	_, found = ht.Get(3, hashKey(3))
	assert.False(t, found)
}

func TestOpenAddressingInsertBatchCountsInsertFactor(t *testing.T) {
	ht := NewOpenAddressing(64)
	const insertFactor = 5
	batch := make([]KeyPair, 0, insertFactor)
	for i := 0; i < insertFactor; i++ {
		batch = append(batch, kp(7))
	}
	require.NoError(t, ht.InsertBatch(batch))
	require.NoError(t, ht.FlushInsertQueue())

	v, found := ht.Get(7, hashKey(7))
	require.True(t, found)
	assert.Equal(t, uint64(insertFactor), v)
}

func TestOpenAddressingFindBatchMatchesInsertedCounts(t *testing.T) {
	ht := NewOpenAddressing(64)
	keys := []uint32{10, 11, 12, 10, 11, 10}
	for _, k := range keys {
		require.NoError(t, ht.Insert(kp(k)))
	}

	queries := []KeyPair{kp(10), kp(11), kp(12), kp(999)}
	results, err := ht.FindBatch(queries)
	require.NoError(t, err)
	require.NoError(t, ht.FlushFindQueue())
	require.Len(t, results, 4)

	assert.Equal(t, FindResult{Value: 3, Found: true}, results[0])
	assert.Equal(t, FindResult{Value: 2, Found: true}, results[1])
	assert.Equal(t, FindResult{Value: 1, Found: true}, results[2])
	assert.Equal(t, FindResult{Found: false}, results[3])
}

func TestOpenAddressingReprobeCountersIncreaseUnderCollisions(t *testing.T) {
	ht := NewOpenAddressing(4)
	before := ht.NumReprobes()
	for i := uint32(1); i <= 4; i++ {
		require.NoError(t, ht.Insert(KeyPair{Hash: 0, Key: i}))
	}
	assert.Greater(t, ht.NumReprobes(), before)
}

func TestOpenAddressingPrintToFileWritesOccupiedSlots(t *testing.T) {
	ht := NewOpenAddressing(16)
	require.NoError(t, ht.Insert(kp(1)))
	require.NoError(t, ht.Insert(kp(1)))
	require.NoError(t, ht.Insert(kp(2)))

	path := filepath.Join(t.TempDir(), "ht.txt")
	require.NoError(t, ht.PrintToFile(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	assert.ElementsMatch(t, []string{"1 2", "2 1"}, lines)
}

func TestOpenAddressingRoundsSizeToPow2(t *testing.T) {
	ht := NewOpenAddressing(17)
	assert.Equal(t, uint64(31), ht.mask)
}
