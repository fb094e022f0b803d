// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package bqtest

import (
	"code.hybscloud.com/bq"
	"code.hybscloud.com/bq/hashtable"
)

// StageLength is the consumer's per-producer-visit dequeue count and the
// insert-batch size handed to a Partition, matching
// BQ_TESTS_DEQUEUE_ARR_LENGTH in the original source.
const StageLength = 16

// Consumer owns one consumer's inbound column of Rings, round-robins over
// producers dequeuing into a staging array, and drives a hashtable.Partition
// with it.
type Consumer struct {
	col           []*bq.Ring
	partition     hashtable.Partition
	noPrefetch    bool
	useHaltFlags  bool

	prodID   int
	stage    [StageLength]hashtable.KeyPair
	stageLen int

	finishedProducers int
	inserted          uint64
}

// Inserted reports the number of non-sentinel keys handed to the partition
// so far.
func (c *Consumer) Inserted() uint64 {
	return c.inserted
}

// NewConsumer builds a Consumer over consumer c's column of m, driving
// partition.
func NewConsumer(m *bq.Matrix, c int, partition hashtable.Partition, noPrefetch, useHaltFlags bool) *Consumer {
	return &Consumer{
		col:          m.ConsumerColumn(c),
		partition:    partition,
		noPrefetch:   noPrefetch,
		useHaltFlags: useHaltFlags,
	}
}

func (c *Consumer) nextProd(inc int) int {
	n := len(c.col)
	return (c.prodID + inc) % n
}

// submitBatch hands the staged entries to the partition, look-ahead
// prefetching the metadata of the producer two slots ahead and the data of
// the producer one slot ahead, matching submit_batch in the original
// source.
func (c *Consumer) submitBatch() error {
	if c.stageLen == 0 {
		return nil
	}
	c.col[c.nextProd(2)].PrefetchMetadata()
	c.col[c.nextProd(1)].PrefetchDataForRead()

	var err error
	if c.noPrefetch {
		for i := 0; i < c.stageLen; i++ {
			if e := c.partition.InsertNoPrefetch(c.stage[i]); e != nil {
				err = e
			}
		}
	} else {
		err = c.partition.InsertBatch(c.stage[:c.stageLen])
	}
	c.stageLen = 0
	return err
}

// allProducersFinished reports whether every producer's stream into this
// consumer has been fully drained (sentinel seen on every column Ring). This
// is the sole authoritative termination signal (spec.md §4.4): BacktrackFlag
// is only ever used as a non-authoritative hint inside the dequeue loop
// itself, never to decide when Run exits.
func (c *Consumer) allProducersFinished() bool {
	return c.finishedProducers >= len(c.col)
}

// Run drives the consumer loop to completion: round-robin over producer
// columns, StageLength dequeues per visit, submitBatch on a full stage or
// when the current column comes up empty (a partial stage is otherwise
// carried across a rotation), exit once every producer's sentinel has been observed,
// then a final FlushInsertQueue (spec.md §4.4 Termination condition).
//
// When useHaltFlags is set, a column whose Ring.BacktrackFlag has been
// observed true (set by the producer immediately before its sentinel,
// router.go's Router.Finish) is drained to exhaustion in one visit instead
// of being capped at StageLength dequeues and revisited later: the flag
// tells the consumer every item the producer will ever write to that column
// already sits in the ring, so there is nothing to gain from rationing this
// visit and rotating back to it. This never substitutes for the sentinel
// count above; it only changes how eagerly one visit drains a column that
// is already known to be winding down.
func (c *Consumer) Run() error {
	c.partition.PrefetchQueue(hashtable.InsertQueue)

	for !c.allProducersFinished() {
		draining := c.useHaltFlags && c.col[c.prodID].BacktrackFlag.Load()
		for i := 0; draining || i < StageLength; i++ {
			w, err := c.col[c.prodID].Dequeue()
			if err != nil {
				if c.stageLen > 0 {
					if e := c.submitBatch(); e != nil {
						return e
					}
				}
				break
			}

			if (i & 7) == 0 {
				c.col[c.prodID].PrefetchDataForRead()
			}

			if bq.IsSentinel(w) {
				c.finishedProducers++
				continue
			}

			hash, key := bq.UnpackPayload(w)
			c.stage[c.stageLen] = hashtable.KeyPair{Hash: hash, Key: key}
			c.stageLen++
			c.inserted++
			if c.stageLen == StageLength {
				if err := c.submitBatch(); err != nil {
					return err
				}
			}
		}
		c.prodID = c.nextProd(1)
	}

	if c.stageLen > 0 {
		if err := c.submitBatch(); err != nil {
			return err
		}
	}
	return c.partition.FlushInsertQueue()
}
