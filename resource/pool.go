// resource/pool.go
// Copyright(c) 2026 monte-carlo-sub002 contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

// Package resource implements spec.md §3/§4.6/§4.7.3: the equipment
// pool algebra and crew queue state machine that the dispatcher
// contends over. Grounded on the teacher's pattern of small,
// independently testable state-holding types (aviation's db-backed
// lookup structures) generalized to pools with release-time tracking,
// and on spec.md §9's pattern-replacement note to keep the held-release
// list as a heap keyed by release time.
package resource

import "container/heap"

// EquipmentPool is a multiset of `total` identical resources (aircraft,
// or one payload type), tracking which are currently held via a
// min-heap of release timestamps so availableAt can prune in
// O(k log n) for k expired releases.
type EquipmentPool struct {
	Name    string
	Total   int
	held    releaseHeap
	Allocations int
	Denials     int
	BusyTime    float64
	ExpectedDurationSum float64
}

// NewEquipmentPool constructs a pool with total identical units and
// nothing currently held.
func NewEquipmentPool(name string, total int) *EquipmentPool {
	p := &EquipmentPool{Name: name, Total: total}
	heap.Init(&p.held)
	return p
}

// prune discards releases at or before t; those resources are free again.
func (p *EquipmentPool) prune(t float64) {
	for p.held.Len() > 0 && p.held[0] <= t {
		heap.Pop(&p.held)
	}
}

// AvailableAt returns total minus the count still held at t, per
// spec.md §3: `availableAt(t) = total - |{r in held : r > t}|`.
func (p *EquipmentPool) AvailableAt(t float64) int {
	p.prune(t)
	return p.Total - p.held.Len()
}

// Acquire reserves one unit of the pool for [t, t+duration), recording
// allocation/efficiency bookkeeping. Callers must have already
// confirmed AvailableAt(t) >= 1; Acquire does not itself check
// availability so batched multi-resource commits (spec.md §4.7.1 step
// 5) can acquire several pools after all admission checks pass.
func (p *EquipmentPool) Acquire(t, duration, expectedDuration float64) {
	heap.Push(&p.held, t+duration)
	p.Allocations++
	p.BusyTime += duration
	p.ExpectedDurationSum += expectedDuration
}

// Deny records a denial against this pool, for utilization reporting.
func (p *EquipmentPool) Deny() {
	p.Denials++
}

// Utilization is min(1, busy_time/(total*horizon)) per spec.md §4.8,
// with a zero denominator yielding 0 (spec.md §4.9).
func (p *EquipmentPool) Utilization(horizon float64) float64 {
	denom := float64(p.Total) * horizon
	if denom <= 0 {
		return 0
	}
	u := p.BusyTime / denom
	if u > 1 {
		return 1
	}
	return u
}

// Efficiency is busy_time/(allocations*mean_duration) per spec.md
// §4.8, approximated here as busy_time/expected_duration_sum, where
// each Acquire adds the caller's expected (mean) duration, so that
// sampling variance around the theoretical mean is visible instead of
// trivially equaling 1. Zero denominator yields 0.
func (p *EquipmentPool) Efficiency() float64 {
	if p.ExpectedDurationSum <= 0 {
		return 0
	}
	return p.BusyTime / p.ExpectedDurationSum
}

// releaseHeap is a min-heap of float64 release timestamps.
type releaseHeap []float64

func (h releaseHeap) Len() int            { return len(h) }
func (h releaseHeap) Less(i, j int) bool  { return h[i] < h[j] }
func (h releaseHeap) Swap(i, j int)       { h[i], h[j] = h[j], h[i] }
func (h *releaseHeap) Push(x any)         { *h = append(*h, x.(float64)) }
func (h *releaseHeap) Pop() any {
	old := *h
	n := len(old)
	v := old[n-1]
	*h = old[:n-1]
	return v
}
