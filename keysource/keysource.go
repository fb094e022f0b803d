// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package keysource provides the lazy 64-bit key generators a producer
// drives: dense sequential keys, a synthetic xorwow stream, and Zipfian
// sampling. None of this package parses real input (k-mers, files); it
// plays the role of "an external, lazy key source" the fan-out fabric
// itself never needs to understand.
package keysource

// Source yields a lazy, possibly unbounded sequence of 64-bit keys.
// Next returns ok == false once the source is exhausted.
type Source interface {
	Next() (key uint64, ok bool)
}
