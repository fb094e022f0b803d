// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package hashtable

import (
	"bufio"
	"fmt"
	"os"
	"unsafe"

	"code.hybscloud.com/atomix"
	"code.hybscloud.com/bq/internal/prefetch"
)

// slotSize is the size in bytes of one slot (two uint64 words), used to
// compute cache-line crossings for reprobe accounting.
const slotSize = 16

// cacheBlockMask masks an address down to its containing 64-byte cache
// line, mirroring CACHE_BLOCK_MASK in the original's ht_helper.hpp.
const cacheBlockMask = 1<<6 - 1

func cacheBlockAligned(addr uintptr) uintptr {
	return addr &^ cacheBlockMask
}

// PrefetchQueueSize bounds the internal staging pipeline InsertBatch and
// FindBatch pump entries through, mirroring PREFETCH_QUEUE_SIZE.
const PrefetchQueueSize = 4

type slot struct {
	key   uint64
	count uint64
}

// OpenAddressing is a linear-probed, power-of-two-sized reference
// implementation of Partition. A slot whose key is 0 is empty: the key
// space this package is driven with always starts at 1 (the fan-out
// fabric's key sources clamp their starting key to >= 1), so a stored key
// of 0 is unambiguous.
type OpenAddressing struct {
	slots []slot
	mask  uint64

	numReprobes     atomix.Int64
	numSoftReprobes atomix.Int64

	// staged/findStaged hold the previous entry's home slot index within
	// one InsertBatch/FindBatch call; before entry i is processed, a
	// prefetch hint is issued for entry i-1's home slot.
	staged     [PrefetchQueueSize]uint64
	stagedLen  int
	findStaged [PrefetchQueueSize]uint64
	findLen    int
}

// NewOpenAddressing allocates a table sized to the next power of two >= size.
func NewOpenAddressing(size int) *OpenAddressing {
	if size < 2 {
		size = 2
	}
	n := roundToPow2(size)
	return &OpenAddressing{
		slots: make([]slot, n),
		mask:  uint64(n) - 1,
	}
}

func roundToPow2(n int) int {
	if n < 2 {
		return 2
	}
	n--
	n |= n >> 1
	n |= n >> 2
	n |= n >> 4
	n |= n >> 8
	n |= n >> 16
	n |= n >> 32
	return n + 1
}

// probe walks the linear probe chain for key starting at its home slot,
// returning the index of the slot holding key or, if absent, the first
// empty slot that would receive it. Reprobe counters are incremented for
// every step past the home slot.
func (t *OpenAddressing) probe(key uint64, home uint64) uint64 {
	idx := home
	prevAddr := uintptr(unsafe.Pointer(&t.slots[idx]))
	for {
		s := &t.slots[idx]
		if s.key == 0 || s.key == key {
			return idx
		}
		next := (idx + 1) & t.mask
		nextAddr := uintptr(unsafe.Pointer(&t.slots[next]))
		t.numReprobes.Store(t.numReprobes.Load() + 1)
		if cacheBlockAligned(prevAddr) == cacheBlockAligned(nextAddr) {
			t.numSoftReprobes.Store(t.numSoftReprobes.Load() + 1)
		}
		prevAddr = nextAddr
		idx = next
	}
}

// Insert implements Partition.
func (t *OpenAddressing) Insert(kp KeyPair) error {
	key := uint64(kp.Key)
	home := uint64(kp.Hash) & t.mask
	idx := t.probe(key, home)
	s := &t.slots[idx]
	s.key = key
	s.count++
	return nil
}

// InsertNoPrefetch implements Partition; identical to Insert since the
// difference is only whether the caller warms the slot beforehand.
func (t *OpenAddressing) InsertNoPrefetch(kp KeyPair) error {
	return t.Insert(kp)
}

// InsertBatch implements Partition, issuing a write-prefetch hint for the
// previous entry's home slot before inserting each entry after the first.
func (t *OpenAddressing) InsertBatch(kps []KeyPair) error {
	t.stagedLen = 0
	for _, kp := range kps {
		home := uint64(kp.Hash) & t.mask
		if t.stagedLen > 0 {
			prefetch.Write(unsafe.Pointer(&t.slots[t.staged[t.stagedLen-1]]))
		}
		t.staged[0] = home
		t.stagedLen = 1
		if err := t.Insert(kp); err != nil {
			return err
		}
	}
	return nil
}

// FlushInsertQueue implements Partition. OpenAddressing's InsertBatch
// commits every entry synchronously, so there is nothing left to drain.
func (t *OpenAddressing) FlushInsertQueue() error {
	t.stagedLen = 0
	return nil
}

// FindBatch implements Partition.
func (t *OpenAddressing) FindBatch(kps []KeyPair) ([]FindResult, error) {
	results := make([]FindResult, len(kps))
	t.findLen = 0
	for i, kp := range kps {
		key := uint64(kp.Key)
		home := uint64(kp.Hash) & t.mask
		if t.findLen > 0 {
			prefetch.Read(unsafe.Pointer(&t.slots[t.findStaged[t.findLen-1]]))
		}
		t.findStaged[0] = home
		t.findLen = 1

		idx := t.probe(key, home)
		s := &t.slots[idx]
		if s.key == key {
			results[i] = FindResult{Value: s.count, Found: true}
		} else {
			results[i] = FindResult{Found: false}
		}
	}
	return results, nil
}

// FlushFindQueue implements Partition.
func (t *OpenAddressing) FlushFindQueue() error {
	t.findLen = 0
	return nil
}

// PrefetchQueue implements Partition as a no-op hint: OpenAddressing's
// staging already happens inline in InsertBatch/FindBatch.
func (t *OpenAddressing) PrefetchQueue(_ QueueType) {}

// PrintToFile implements Partition, writing one "key count" line per
// occupied slot.
func (t *OpenAddressing) PrintToFile(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("hashtable: create %s: %w", path, err)
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	for _, s := range t.slots {
		if s.key == 0 {
			continue
		}
		if _, err := fmt.Fprintf(w, "%d %d\n", s.key, s.count); err != nil {
			return fmt.Errorf("hashtable: write %s: %w", path, err)
		}
	}
	return w.Flush()
}

// NumReprobes implements Partition.
func (t *OpenAddressing) NumReprobes() uint64 {
	return uint64(t.numReprobes.Load())
}

// NumSoftReprobes implements Partition.
func (t *OpenAddressing) NumSoftReprobes() uint64 {
	return uint64(t.numSoftReprobes.Load())
}

// Get returns the stored count for key, mirroring what a FindBatch of one
// key would report. Convenience wrapper for tests.
func (t *OpenAddressing) Get(key uint64, hash uint32) (uint64, bool) {
	idx := t.probe(key, uint64(hash)&t.mask)
	s := &t.slots[idx]
	if s.key != key {
		return 0, false
	}
	return s.count, true
}

var _ Partition = (*OpenAddressing)(nil)
