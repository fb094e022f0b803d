// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package bqtest wires package bq's ring fabric, package hashtable's
// partition contract, and package keysource's key generators into a runnable
// producer/consumer benchmark: a partition router, a consumer pipeline, a
// startup/completion barrier, and a controller that owns the whole
// lifecycle.
package bqtest

// Mode selects what a run actually exercises, mirroring run_mode_t in the
// original source's data_types.h.
type Mode int

const (
	// DryRun spins up the fabric and tears it down without moving keys.
	DryRun Mode = iota
	// ReadFromDisk is a documented non-goal: no input reader is built.
	ReadFromDisk
	// Synthetic drives keys from a keysource.Xorwow source.
	Synthetic
	// SumHashes is a documented non-goal of this package: the original
	// used this mode to benchmark the hash function alone.
	SumHashes
	// WriteToDisk draws Dense keys through the fan-out fabric exactly like
	// BQTestsYesBQ. Partitions are written out only when HTFile is set, as
	// in every other mode; this mode does not time PrintToFile.
	WriteToDisk
	// UniformRandom drives keys from a keysource.Zipfian shaped by Skew,
	// seeded per producer from an in-process RNG.
	UniformRandom
	// UniformRandomMultiThreaded is UniformRandom across multiple shards.
	UniformRandomMultiThreaded
	// BQTestsYesBQ runs the fan-out fabric end to end (the default mode).
	BQTestsYesBQ
	// BQTestsNoBQ is accepted as a mode value, but Controller.Run routes
	// Dense keys through the ring fabric in this mode exactly as in
	// BQTestsYesBQ; it has no path that bypasses the rings.
	BQTestsNoBQ
)

// Configuration carries every knob the original bq_tests.cpp /
// hashtable_tests.cpp harness reads from its Configuration/Shard globals.
type Configuration struct {
	// NProd is the number of producer goroutines.
	NProd int
	// NCons is the number of consumer goroutines.
	NCons int
	// NumMessages is the base message count: each producer generates
	// NumMessages * (NCons/NProd) keys, so NumMessages * NCons keys are
	// generated across all producers.
	NumMessages uint64
	// HTSize is the size hint passed to hashtable.NewOpenAddressing per
	// partition.
	HTSize int
	// Mode selects the run mode.
	Mode Mode
	// InsertFactor repeats each generated key this many times before
	// moving to the next (spec P8).
	InsertFactor int
	// NoPrefetch routes through Partition.InsertNoPrefetch one key at a
	// time instead of InsertBatch.
	NoPrefetch bool
	// HTFile, if non-empty, is the path prefix each consumer's
	// Partition.PrintToFile writes to, suffixed with its shard index.
	HTFile string
	// NumNops is unused by this reference consumer (the original used it
	// to pad per-key work with inline NOPs); kept for configuration
	// compatibility with the original's Configuration struct.
	NumNops uint32
	// QueueCapacity is the capacity of every Ring in the Matrix.
	QueueCapacity int
	// Unbuffered selects Router.RouteKeyDirect instead of Router.RouteKey.
	Unbuffered bool
	// UseHaltFlags enables the non-authoritative halt-flag shortcut
	// alongside sentinel-based termination.
	UseHaltFlags bool
	// Skew is the Zipfian skew parameter used when keys are generated via
	// keysource.Zipfian.
	Skew float64
	// RunFindPhase enables a post-insert lookup pass over a Zipfian query
	// sequence against each consumer's Partition, driving FindBatch and
	// FlushFindQueue, mirroring hashtable_tests.cpp's do_zipfian_gets.
	RunFindPhase bool
}

// DefaultConfiguration returns a small Configuration suitable for tests.
func DefaultConfiguration() Configuration {
	return Configuration{
		NProd:         1,
		NCons:         1,
		NumMessages:   1000,
		HTSize:        4096,
		Mode:          BQTestsYesBQ,
		InsertFactor:  1,
		QueueCapacity: 16,
		Skew:          1.5,
	}
}
