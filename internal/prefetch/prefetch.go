// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package prefetch

import "unsafe"

// Read hints that the cache line containing addr will be read soon.
//
// Go exposes no portable prefetch intrinsic, unlike the __builtin_prefetch
// the teacher's C++ ancestor relies on. This touches the byte at addr through
// a plain load, which is the same no-op-safe fallback the teacher's own
// internal/asm stubs use for architectures without a hand-written fast path:
// it costs one load and never changes observable state.
func Read(addr unsafe.Pointer) {
	if addr == nil {
		return
	}
	_ = *(*byte)(addr)
}

// Write hints that the cache line containing addr will be written soon.
func Write(addr unsafe.Pointer) {
	if addr == nil {
		return
	}
	_ = *(*byte)(addr)
}
