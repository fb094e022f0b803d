// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package bqtest

import "time"

// Shard carries one producer or consumer goroutine's identity and the
// statistics it accumulates, mirroring the __shard/thread_stats split in the
// original source's data_types.h. Cycle counts use wall-clock time.Duration;
// Go has no portable RDTSC/RDTSCP equivalent (see DESIGN.md).
type Shard struct {
	ShardIdx int

	InsertionDuration time.Duration
	NumInserts        uint64

	FindDuration    time.Duration
	NumFinds        uint64
	NumReprobes     uint64
	NumSoftReprobes uint64
}
