// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package bq

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPackUnpackPayloadRoundTrip(t *testing.T) {
	cases := []struct {
		hash, key uint32
	}{
		{0, 0},
		{1, 1},
		{0xFFFFFFFF, 0xFFFFFFFF},
		{0xDEADBEEF, 0x12345678},
	}
	for _, c := range cases {
		w := PackPayload(c.hash, c.key)
		gotHash, gotKey := UnpackPayload(w)
		assert.Equal(t, c.hash, gotHash)
		assert.Equal(t, c.key, gotKey)
	}
}

func TestIsSentinel(t *testing.T) {
	assert.True(t, IsSentinel(Sentinel))
	assert.False(t, IsSentinel(PackPayload(0, 0)))
	assert.False(t, IsSentinel(0))
}
