// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package bqtest

import "go.uber.org/zap"

// LogStats writes one structured log line per shard, replacing the
// original's print_stats. Separated from Controller.Run so callers can defer
// logging until after they've done their own aggregation.
func LogStats(logger *zap.Logger, shards []Shard) {
	var totalInserts uint64
	for _, s := range shards {
		totalInserts += s.NumInserts
		logger.Info("shard stats",
			zap.Int("shard", s.ShardIdx),
			zap.Uint64("num_inserts", s.NumInserts),
			zap.Duration("insertion_duration", s.InsertionDuration),
			zap.Uint64("num_reprobes", s.NumReprobes),
			zap.Uint64("num_soft_reprobes", s.NumSoftReprobes),
		)
	}
	logger.Info("run finished", zap.Uint64("total_inserts", totalInserts))
}
