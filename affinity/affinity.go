// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package affinity computes CPU assignment plans and pins the calling OS
// thread to a specific CPU. It never discovers NUMA topology beyond a node
// count; the fan-out fabric itself only ever consumes "assigned CPU list"
// values built by Plan.
package affinity

import (
	"fmt"
	"os"
	"runtime"
	"strings"

	"golang.org/x/sys/unix"

	"code.hybscloud.com/bq"
)

// Plan holds the disjoint CPU id lists handed to producers, consumers, and
// the controller goroutine itself.
type Plan struct {
	Producers  []int
	Consumers  []int
	Controller int
}

// NewPlan builds a Plan from the first numCPU logical CPUs available to the
// process, reserving one CPU per NUMA node (NodeCount) for housekeeping
// before handing out nProd CPUs to producers and nCons to consumers, and the
// next free CPU to the controller goroutine (or, when none is left, the first
// reserved CPU). Returns an error if the available CPU list is too short.
func NewPlan(nProd, nCons int) (*Plan, error) {
	numCPU := runtime.NumCPU()
	reserved := NodeCount()
	need := nProd + nCons + reserved
	if need > numCPU {
		return nil, fmt.Errorf("bq/affinity: need %d CPUs (%d producers + %d consumers + %d reserved), have %d: %w", need, nProd, nCons, reserved, numCPU, bq.ErrInsufficientCPUs)
	}

	cpus := make([]int, numCPU)
	for i := range cpus {
		cpus[i] = i
	}
	cpus = cpus[reserved:]

	p := &Plan{
		Producers: append([]int(nil), cpus[:nProd]...),
		Consumers: append([]int(nil), cpus[nProd:nProd+nCons]...),
	}
	if nProd+nCons < len(cpus) {
		p.Controller = cpus[nProd+nCons]
	} else {
		p.Controller = 0
	}
	return p, nil
}

// Pin locks the calling goroutine to its current OS thread and restricts
// that thread's scheduling affinity to cpu. Callers that spawn one goroutine
// per pinned CPU must never let that goroutine's OS thread be reused for
// other work, so Pin calls runtime.LockOSThread(); it is the caller's
// responsibility to keep the goroutine alive for as long as the pin should
// hold (UnlockOSThread is never called — the thread, and its affinity, dies
// with the goroutine).
func Pin(cpu int) error {
	runtime.LockOSThread()

	var set unix.CPUSet
	set.Set(cpu)
	if err := unix.SchedSetaffinity(0, &set); err != nil {
		return fmt.Errorf("bq/affinity: SchedSetaffinity(%d): %w", cpu, err)
	}
	return nil
}

// NodeCount reports the number of NUMA nodes visible to the process by
// reading /sys/devices/system/node. It degrades to 1 when that path is
// unreadable, which is the common case off Linux or inside containers
// without the sysfs NUMA tree mounted.
func NodeCount() int {
	entries, err := os.ReadDir("/sys/devices/system/node")
	if err != nil {
		return 1
	}
	n := 0
	for _, e := range entries {
		if strings.HasPrefix(e.Name(), "node") {
			n++
		}
	}
	if n == 0 {
		return 1
	}
	return n
}
