// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

//go:build race

package bq

// RaceEnabled is true when the race detector is active. It lets a test tell
// whether acquire/release ordering the race detector cannot see may be
// flagged as a false positive; no test in this module reads it.
const RaceEnabled = true
