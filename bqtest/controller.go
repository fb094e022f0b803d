// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package bqtest

import (
	"fmt"
	"math/rand/v2"
	"runtime"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"code.hybscloud.com/bq"
	"code.hybscloud.com/bq/affinity"
	"code.hybscloud.com/bq/hashtable"
	"code.hybscloud.com/bq/keysource"
)

// Controller owns one test run end to end: CPU budget validation,
// shard/queue allocation, spawning and pinning producer and consumer
// goroutines, the ready/start/complete barrier, and a final statistics
// pass. Mirrors BQueueTest::run_test in the original source.
type Controller struct {
	cfg    Configuration
	logger *zap.Logger

	matrix  *bq.Matrix
	barrier Barrier
	shards  []Shard

	// runID tags the "controller starting" and "controller finished" log
	// lines of one Run call, so that concurrent runs (or repeated runs in
	// the same process, as in tests) can be told apart in aggregated log
	// output. The per-goroutine warning lines do not carry it.
	runID uuid.UUID
}

// NewController validates cfg and allocates the queue fabric. logger may be
// nil, in which case a no-op logger is used.
func NewController(cfg Configuration, logger *zap.Logger) (*Controller, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.NProd < 1 {
		return nil, bq.ErrNoProducers
	}
	if cfg.NCons < 1 {
		return nil, bq.ErrNoConsumers
	}
	m, err := bq.NewMatrix(cfg.NProd, cfg.NCons, cfg.QueueCapacity)
	if err != nil {
		return nil, fmt.Errorf("bqtest: allocate queue matrix: %w", err)
	}
	return &Controller{
		cfg:    cfg,
		logger: logger,
		matrix: m,
		shards: make([]Shard, cfg.NProd+cfg.NCons),
		runID:  uuid.New(),
	}, nil
}

// Run spawns every producer and consumer goroutine, pins them to the CPU
// plan affinity.NewPlan computes, releases them through the barrier, waits
// for completion, and returns the per-shard statistics gathered along the
// way.
func (c *Controller) Run() ([]Shard, error) {
	plan, err := affinity.NewPlan(c.cfg.NProd, c.cfg.NCons)
	if err != nil {
		return nil, fmt.Errorf("bqtest: %w", err)
	}

	c.logger.Info("controller starting",
		zap.String("run_id", c.runID.String()),
		zap.Int("n_prod", c.cfg.NProd),
		zap.Int("n_cons", c.cfg.NCons),
		zap.Uint64("num_messages", c.cfg.NumMessages),
	)

	var wg sync.WaitGroup
	multFactor := float64(c.cfg.NCons) / float64(c.cfg.NProd)
	perProducer := uint64(float64(c.cfg.NumMessages) * multFactor)

	for p := 0; p < c.cfg.NProd; p++ {
		p := p
		cpu := plan.Producers[p]
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := affinity.Pin(cpu); err != nil {
				c.logger.Warn("pin producer failed", zap.Int("producer", p), zap.Error(err))
			}
			c.runProducer(p, perProducer)
		}()
	}

	partitions := make([]hashtable.Partition, c.cfg.NCons)
	for cIdx := 0; cIdx < c.cfg.NCons; cIdx++ {
		partitions[cIdx] = hashtable.NewOpenAddressing(c.cfg.HTSize)
	}

	for cIdx := 0; cIdx < c.cfg.NCons; cIdx++ {
		cIdx := cIdx
		cpu := plan.Consumers[cIdx]
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := affinity.Pin(cpu); err != nil {
				c.logger.Warn("pin consumer failed", zap.Int("consumer", cIdx), zap.Error(err))
			}
			c.runConsumer(cIdx, partitions[cIdx])
		}()
	}

	c.barrier.WaitForReadyProducers(c.cfg.NProd)
	c.barrier.WaitForReadyConsumers(c.cfg.NCons)
	c.barrier.Open()

	c.barrier.WaitForCompletedProducers(c.cfg.NProd)
	c.barrier.WaitForCompletedConsumers(c.cfg.NCons)

	wg.Wait()

	if c.cfg.HTFile != "" {
		for cIdx, part := range partitions {
			path := fmt.Sprintf("%s%d", c.cfg.HTFile, c.cfg.NProd+cIdx)
			if err := part.PrintToFile(path); err != nil {
				c.logger.Warn("print to file failed", zap.String("path", path), zap.Error(err))
			}
		}
	}

	c.logger.Info("controller finished", zap.String("run_id", c.runID.String()))
	return c.shards, nil
}

// newKeySource builds the key source runProducer draws from, selected by
// Configuration.Mode: Dense for the canonical fan-out modes, Xorwow for
// Synthetic (BQ_TESTS_INSERT_XORWOW in the original source), and a
// cfg.Skew-shaped Zipfian for the uniform-random modes. This is what makes
// Mode, Skew, and the Xorwow/Zipfian generators reachable from a real run
// instead of only from their own package's tests.
func (c *Controller) newKeySource(p int, numMessages uint64) keysource.Source {
	switch c.cfg.Mode {
	case Synthetic:
		return keysource.NewXorwow(uint32(p+1), numMessages)
	case UniformRandom, UniformRandomMultiThreaded:
		span := numMessages
		if span < 1 {
			span = 1
		}
		rng := rand.New(rand.NewPCG(uint64(p+1), uint64(p+1)))
		return keysource.NewZipfian(rng, c.cfg.Skew, span, numMessages)
	default:
		keyStart := numMessages * uint64(p)
		if keyStart == 0 {
			keyStart = 1
		}
		return keysource.NewDense(keyStart, numMessages)
	}
}

func (c *Controller) runProducer(p int, numMessages uint64) {
	runtime.LockOSThread()

	c.barrier.MarkProducerReady()
	c.barrier.WaitUntilReady()

	router := NewRouter(c.matrix, p, c.cfg.Unbuffered)

	factor := c.cfg.InsertFactor
	if factor < 1 {
		factor = 1
	}

	start := time.Now()
	var n uint64
	seq := 0
	if c.cfg.Mode != DryRun {
		src := c.newKeySource(p, numMessages)
		for {
			k, ok := src.Next()
			if !ok {
				break
			}
			for i := 0; i < factor; i++ {
				if c.cfg.Unbuffered {
					router.RouteKeyDirect(k, seq)
				} else {
					router.RouteKey(k)
				}
				seq++
				n++
			}
		}
	}
	router.Finish()

	c.shards[p] = Shard{
		ShardIdx:          p,
		InsertionDuration: time.Since(start),
		NumInserts:        n,
	}

	c.barrier.MarkProducerCompleted()
}

func (c *Controller) runConsumer(cIdx int, partition hashtable.Partition) {
	runtime.LockOSThread()

	shardIdx := c.cfg.NProd + cIdx
	c.barrier.MarkConsumerReady()
	c.barrier.WaitUntilReady()

	start := time.Now()
	consumer := NewConsumer(c.matrix, cIdx, partition, c.cfg.NoPrefetch, c.cfg.UseHaltFlags)
	if err := consumer.Run(); err != nil {
		c.logger.Warn("consumer run failed", zap.Int("consumer", cIdx), zap.Error(err))
	}
	numInserts := consumer.Inserted()
	insertionDuration := time.Since(start)

	var findDuration time.Duration
	var numFinds uint64
	if c.cfg.RunFindPhase {
		findStart := time.Now()
		numFinds = c.runFindPhase(cIdx, partition)
		findDuration = time.Since(findStart)
	}

	c.shards[shardIdx] = Shard{
		ShardIdx:          shardIdx,
		InsertionDuration: insertionDuration,
		NumInserts:        numInserts,
		FindDuration:      findDuration,
		NumFinds:          numFinds,
		NumReprobes:       partition.NumReprobes(),
		NumSoftReprobes:   partition.NumSoftReprobes(),
	}

	c.barrier.MarkConsumerCompleted()
}

// runFindPhase drives partition.FindBatch/FlushFindQueue over a Zipfian
// query sequence shaped by cfg.Skew, mirroring hashtable_tests.cpp's
// do_zipfian_gets: a verification/benchmark pass run after the insert phase
// completes, against the same Partition the insert phase just populated.
// Returns the number of lookups issued.
func (c *Controller) runFindPhase(cIdx int, partition hashtable.Partition) uint64 {
	span := c.cfg.NumMessages
	if span < 1 {
		span = 1
	}
	rng := rand.New(rand.NewPCG(uint64(cIdx+1), uint64(cIdx+1)))
	src := keysource.NewZipfian(rng, c.cfg.Skew, span, c.cfg.NumMessages)

	var numFinds uint64
	batch := make([]hashtable.KeyPair, 0, StageLength)
	flush := func() {
		if len(batch) == 0 {
			return
		}
		if _, err := partition.FindBatch(batch); err != nil {
			c.logger.Warn("find batch failed", zap.Int("consumer", cIdx), zap.Error(err))
		}
		numFinds += uint64(len(batch))
		batch = batch[:0]
	}

	for {
		k, ok := src.Next()
		if !ok {
			break
		}
		batch = append(batch, hashtable.KeyPair{Hash: hashKey(k), Key: uint32(k)})
		if len(batch) == StageLength {
			flush()
		}
	}
	flush()
	if err := partition.FlushFindQueue(); err != nil {
		c.logger.Warn("flush find queue failed", zap.Int("consumer", cIdx), zap.Error(err))
	}
	return numFinds
}
