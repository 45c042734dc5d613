// resource/resource_test.go
// Copyright(c) 2026 monte-carlo-sub002 contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package resource

import (
	"testing"

	"github.com/ColbySawyer7/monte-carlo-sub002/scenario"
)

func TestEquipmentPoolAvailableAtPrunes(t *testing.T) {
	p := NewEquipmentPool("x", 2)
	p.Acquire(0, 5, 5)
	p.Acquire(0, 3, 5)
	if got := p.AvailableAt(0); got != 0 {
		t.Errorf("got %d, want 0", got)
	}
	if got := p.AvailableAt(3.5); got != 1 {
		t.Errorf("got %d, want 1", got)
	}
	if got := p.AvailableAt(5); got != 2 {
		t.Errorf("got %d, want 2 at exact release time", got)
	}
}

func TestEquipmentPoolNeverExceedsTotal(t *testing.T) {
	p := NewEquipmentPool("x", 1)
	for t0 := 0.0; t0 < 10; t0++ {
		if p.AvailableAt(t0) < 0 || p.AvailableAt(t0) > p.Total {
			t.Fatalf("availableAt(%v) = %d out of [0,%d]", t0, p.AvailableAt(t0), p.Total)
		}
	}
}

func TestEquipmentPoolUtilizationZeroDenominator(t *testing.T) {
	p := NewEquipmentPool("x", 0)
	if u := p.Utilization(10); u != 0 {
		t.Errorf("got %v, want 0", u)
	}
}

func TestEquipmentPoolUtilizationClampedToOne(t *testing.T) {
	p := NewEquipmentPool("x", 1)
	p.Acquire(0, 100, 100)
	if u := p.Utilization(10); u != 1 {
		t.Errorf("got %v, want 1", u)
	}
}

func TestCrewQueueAvailableAtBasic(t *testing.T) {
	q := NewCrewQueue("U1", "pilot", 2, 12, scenario.WorkSchedule{})
	if got := q.AvailableAt(0, false); got != 2 {
		t.Errorf("got %d, want 2", got)
	}
	_, ok := q.TryAcquireShifts(0, []float64{2}, false, "", false, false, 0, DistributionDistribute, false, 2)
	if !ok {
		t.Fatalf("expected acquisition to succeed")
	}
	if got := q.AvailableAt(1, false); got != 1 {
		t.Errorf("got %d, want 1 while one member is busy", got)
	}
}

func TestCrewQueueExhaustion(t *testing.T) {
	q := NewCrewQueue("U1", "pilot", 1, 0, scenario.WorkSchedule{})
	_, ok := q.TryAcquireShifts(0, []float64{5}, false, "", false, false, 0, DistributionDistribute, false, 5)
	if !ok {
		t.Fatalf("first acquisition should succeed")
	}
	_, ok = q.TryAcquireShifts(1, []float64{5}, false, "", false, false, 0, DistributionDistribute, false, 5)
	if ok {
		t.Errorf("second overlapping acquisition should fail with only 1 member")
	}
}

func TestCrewQueueSequentialDistinctMembers(t *testing.T) {
	q := NewCrewQueue("U1", "pilot", 2, 0, scenario.WorkSchedule{})
	assignments, ok := q.TryAcquireShifts(0, []float64{4, 4}, false, "", true, false, 0, DistributionDistribute, false, 8)
	if !ok {
		t.Fatalf("expected sequential acquisition to succeed")
	}
	if assignments[0].ID == assignments[1].ID {
		t.Errorf("sequential shifts used the same member: %+v", assignments)
	}
	if assignments[1].Start != assignments[0].End {
		t.Errorf("sequential shift 2 should start at shift 1's end: %+v", assignments)
	}
}

func TestCrewQueueDayOffBlocksAssignment(t *testing.T) {
	q := NewCrewQueue("U1", "pilot", 1, 0, scenario.WorkSchedule{DaysOn: 1, DaysOff: 1})
	// Day index 0 is on, day index 1 is off (cycle = 2).
	if q.isDayOff(q.Members[0], 12) {
		t.Fatalf("day 0 should be on")
	}
	if !q.isDayOff(q.Members[0], 24+1) {
		t.Fatalf("day 1 should be off")
	}
	_, ok := q.TryAcquireShifts(24+1, []float64{2}, false, "", false, false, 0, DistributionDistribute, false, 2)
	if ok {
		t.Errorf("acquisition on a day-off should fail when schedule is respected")
	}
	_, ok = q.TryAcquireShifts(24+1, []float64{2}, false, "", false, true, 0, DistributionDistribute, false, 2)
	if !ok {
		t.Errorf("acquisition on a day-off should succeed when ignoreSchedule is set")
	}
}

func TestCrewQueueRotationPoolRestrictsSelection(t *testing.T) {
	q := NewCrewQueue("U1", "pilot", 2, 0, scenario.WorkSchedule{})
	q.SetRotationPool(1)
	assignments, ok := q.TryAcquireShifts(0, []float64{2}, true, "x", false, false, 0, DistributionDistribute, true, 2)
	if !ok {
		t.Fatalf("expected rotation-restricted acquisition to succeed")
	}
	if assignments[0].ID != q.Members[0].ID {
		t.Errorf("rotation pool should have selected the only rotation-eligible member")
	}
	_, ok = q.TryAcquireShifts(0, []float64{2}, true, "x", false, false, 0, DistributionDistribute, true, 2)
	if ok {
		t.Errorf("second rotation-restricted acquisition should fail: only one rotation-eligible member")
	}
}

func TestAssignMissionUnitsRoundRobinWithNoSplit(t *testing.T) {
	out := AssignMissionUnits([]string{"A", "B"}, nil, 4)
	want := []string{"A", "B", "A", "B"}
	for i := range want {
		if out[i] != want[i] {
			t.Fatalf("got %v, want %v", out, want)
		}
	}
}

func TestAssignMissionUnitsSplitProportions(t *testing.T) {
	out := AssignMissionUnits([]string{"A", "B"}, map[string]float64{"A": 0.75, "B": 0.25}, 100)
	if len(out) != 100 {
		t.Fatalf("got %d entries, want 100", len(out))
	}
	countA, countB := 0, 0
	maxRun, curRun := 0, 0
	for i, u := range out {
		if u == "A" {
			countA++
		} else {
			countB++
		}
		if i > 0 && out[i] == out[i-1] {
			curRun++
		} else {
			curRun = 1
		}
		if curRun > maxRun {
			maxRun = curRun
		}
	}
	if countA != 75 || countB != 25 {
		t.Errorf("got A=%d B=%d, want A=75 B=25", countA, countB)
	}
	if maxRun > 5 {
		t.Errorf("longest contiguous run = %d, want <= 5 per spec.md scenario 6", maxRun)
	}
}
