// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Command bq runs the partitioned key-counting benchmark harness: a
// configurable number of producer and consumer goroutines exchanging keys
// through the bq ring fabric into a hashtable.Partition per consumer.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"code.hybscloud.com/bq/bqtest"
)

// modeFlagValues maps the --mode flag's accepted strings to bqtest.Mode.
var modeFlagValues = map[string]bqtest.Mode{
	"dry-run":                      bqtest.DryRun,
	"synthetic":                    bqtest.Synthetic,
	"uniform-random":               bqtest.UniformRandom,
	"uniform-random-multithreaded": bqtest.UniformRandomMultiThreaded,
	"bqtests-yes-bq":               bqtest.BQTestsYesBQ,
	"bqtests-no-bq":                bqtest.BQTestsNoBQ,
	"write-to-disk":                bqtest.WriteToDisk,
}

func newRootCmd() *cobra.Command {
	cfg := bqtest.DefaultConfiguration()

	cmd := &cobra.Command{
		Use:   "bq",
		Short: "Partitioned key-counting benchmark harness",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg.NProd = viper.GetInt("n-prod")
			cfg.NCons = viper.GetInt("n-cons")
			cfg.NumMessages = viper.GetUint64("num-messages")
			cfg.HTSize = viper.GetInt("ht-size")
			cfg.InsertFactor = viper.GetInt("insert-factor")
			cfg.NoPrefetch = viper.GetBool("no-prefetch")
			cfg.HTFile = viper.GetString("ht-file")
			cfg.QueueCapacity = viper.GetInt("queue-capacity")
			cfg.Unbuffered = viper.GetBool("unbuffered")
			cfg.UseHaltFlags = viper.GetBool("use-halt-flags")
			cfg.Skew = viper.GetFloat64("skew")
			cfg.RunFindPhase = viper.GetBool("run-find-phase")
			if mode, ok := modeFlagValues[viper.GetString("mode")]; ok {
				cfg.Mode = mode
			}

			logger, err := zap.NewProduction()
			if err != nil {
				return fmt.Errorf("bq: build logger: %w", err)
			}
			defer logger.Sync()

			ctrl, err := bqtest.NewController(cfg, logger)
			if err != nil {
				return fmt.Errorf("bq: %w", err)
			}
			shards, err := ctrl.Run()
			if err != nil {
				return fmt.Errorf("bq: %w", err)
			}
			bqtest.LogStats(logger, shards)
			return nil
		},
	}

	flags := cmd.Flags()
	flags.Int("n-prod", cfg.NProd, "number of producer goroutines")
	flags.Int("n-cons", cfg.NCons, "number of consumer goroutines")
	flags.Uint64("num-messages", cfg.NumMessages, "base message count; each producer generates num-messages*n-cons/n-prod keys")
	flags.Int("ht-size", cfg.HTSize, "hash table size hint per partition")
	flags.Int("insert-factor", cfg.InsertFactor, "repetitions per generated key")
	flags.Bool("no-prefetch", cfg.NoPrefetch, "disable insert batching/prefetch")
	flags.String("ht-file", cfg.HTFile, "path prefix to print each partition to")
	flags.Int("queue-capacity", cfg.QueueCapacity, "ring capacity per (producer,consumer) pair")
	flags.Bool("unbuffered", cfg.Unbuffered, "use the unbuffered producer routing path")
	flags.Bool("use-halt-flags", cfg.UseHaltFlags, "enable the non-authoritative halt-flag shortcut")
	flags.Float64("skew", cfg.Skew, "zipfian skew parameter")
	flags.Bool("run-find-phase", cfg.RunFindPhase, "run a post-insert zipfian lookup pass")
	flags.String("mode", "bqtests-yes-bq", "run mode: dry-run, synthetic, uniform-random, uniform-random-multithreaded, bqtests-yes-bq, bqtests-no-bq, write-to-disk")

	viper.BindPFlags(flags)
	viper.SetConfigName("bq")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			fmt.Fprintf(os.Stderr, "bq: reading config file: %v\n", err)
		}
	}

	return cmd
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
