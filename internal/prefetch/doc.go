// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package prefetch provides cache prefetch hints for the ring and
// hash-table hot paths.
//
// Prefetching is a performance hint only: it never affects observable state,
// and callers must not depend on it for correctness. Every function here is
// implemented the same way on all architectures, as a plain load of the
// byte at the hinted address; no prefetch instruction is emitted.
package prefetch
