// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package keysource

// Dense yields count consecutive keys starting at start. start is clamped
// to >= 1: key 0 is reserved as the hash table's empty-slot marker.
type Dense struct {
	next      uint64
	remaining uint64
}

// NewDense creates a Dense source producing count keys starting at start.
func NewDense(start uint64, count uint64) *Dense {
	if start == 0 {
		start = 1
	}
	return &Dense{next: start, remaining: count}
}

// Next implements Source.
func (d *Dense) Next() (uint64, bool) {
	if d.remaining == 0 {
		return 0, false
	}
	k := d.next
	d.next++
	d.remaining--
	return k, true
}
