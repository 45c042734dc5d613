// demand/demand_test.go
// Copyright(c) 2026 monte-carlo-sub002 contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package demand

import (
	"testing"

	"github.com/ColbySawyer7/monte-carlo-sub002/distribution"
	"github.com/ColbySawyer7/monte-carlo-sub002/rand"
	"github.com/ColbySawyer7/monte-carlo-sub002/scenario"
)

func vf(v float64) *float64 { return &v }

func TestGenerateDeterministicBoundary(t *testing.T) {
	scn := &scenario.Scenario{
		HorizonHours: 24,
		MissionTypes: []scenario.MissionType{{Name: "ISR"}},
		Demand: []scenario.DemandSpec{
			{MissionType: "ISR", Kind: scenario.DemandDeterministic, StartAtHours: 0, EveryHours: 24},
		},
	}
	events, err := Generate(scn, []string{"U1"}, rand.NewFixed())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(events) != 1 {
		t.Fatalf("got %d events, want exactly 1 (t=horizon excluded)", len(events))
	}
	if events[0].Time != 0 {
		t.Errorf("got time %v, want 0", events[0].Time)
	}
}

func TestGenerateZeroHorizonYieldsNoEvents(t *testing.T) {
	scn := &scenario.Scenario{
		HorizonHours: 0,
		MissionTypes: []scenario.MissionType{{Name: "ISR"}},
		Demand: []scenario.DemandSpec{
			{MissionType: "ISR", Kind: scenario.DemandDeterministic, StartAtHours: 0, EveryHours: 1},
		},
	}
	events, err := Generate(scn, []string{"U1"}, rand.NewFixed())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(events) != 0 {
		t.Fatalf("got %d events, want 0", len(events))
	}
}

func TestGenerateMissionBeforeDutyAtSameTime(t *testing.T) {
	scn := &scenario.Scenario{
		HorizonHours: 2,
		MissionTypes: []scenario.MissionType{{Name: "ISR"}},
		Demand: []scenario.DemandSpec{
			{MissionType: "ISR", Kind: scenario.DemandDeterministic, StartAtHours: 0, EveryHours: 10},
		},
		DutyRequirements: scenario.DutyRequirements{
			SDO: &scenario.DutyTypeConfig{Enabled: true, ShiftsPerDay: 1, HoursPerShift: 24, StartHour: 0},
		},
	}
	events, err := Generate(scn, []string{"U1"}, rand.NewFixed())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(events) != 2 {
		t.Fatalf("got %d events, want 2", len(events))
	}
	if events[0].Kind != MissionDemand || events[1].Kind != DutyDemand {
		t.Errorf("got kinds %v, %v; want mission then duty at equal time", events[0].Kind, events[1].Kind)
	}
}

func TestGenerateODOOnlyWhenOverlapping(t *testing.T) {
	scn := &scenario.Scenario{
		HorizonHours: 24,
		MissionTypes: []scenario.MissionType{{
			Name:       "ISR",
			FlightTime: scenario.FlightTimeSpec{Dist: &distribution.Spec{Type: distribution.Deterministic, ValueHours: vf(4)}},
		}},
		Demand: []scenario.DemandSpec{
			{MissionType: "ISR", Kind: scenario.DemandDeterministic, StartAtHours: 10, EveryHours: 100},
		},
		DutyRequirements: scenario.DutyRequirements{
			ODO: &scenario.DutyTypeConfig{Enabled: true, ShiftsPerDay: 3, HoursPerShift: 8, StartHour: 0},
		},
	}
	events, err := Generate(scn, []string{"U1"}, rand.NewFixed())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var odoCount int
	for _, ev := range events {
		if ev.Kind == DutyDemand {
			odoCount++
			// mission span is [10,14); only the shift starting at 8
			// ([8,16)) should intersect.
			if ev.Time != 8 {
				t.Errorf("unexpected ODO shift at t=%v, want only t=8", ev.Time)
			}
		}
	}
	if odoCount != 1 {
		t.Errorf("got %d ODO events, want 1", odoCount)
	}
}

func TestGenerateODONoOverlapEmitsZero(t *testing.T) {
	scn := &scenario.Scenario{
		HorizonHours: 24,
		MissionTypes: []scenario.MissionType{{Name: "ISR"}}, // zero-duration mission
		Demand:       nil,
		DutyRequirements: scenario.DutyRequirements{
			ODO: &scenario.DutyTypeConfig{Enabled: true, ShiftsPerDay: 3, HoursPerShift: 8, StartHour: 0},
		},
	}
	events, err := Generate(scn, []string{"U1"}, rand.NewFixed())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, ev := range events {
		if ev.Kind == DutyDemand {
			t.Errorf("expected zero ODO entries with no mission demand, got one at t=%v", ev.Time)
		}
	}
}

func TestGenerateAssignsUnitsFromSplit(t *testing.T) {
	scn := &scenario.Scenario{
		HorizonHours: 100,
		MissionTypes: []scenario.MissionType{{Name: "ISR"}},
		Demand: []scenario.DemandSpec{
			{MissionType: "ISR", Kind: scenario.DemandDeterministic, StartAtHours: 0, EveryHours: 1},
		},
		UnitPolicy: scenario.UnitPolicy{MissionSplit: map[string]float64{"A": 0.75, "B": 0.25}},
	}
	events, err := Generate(scn, []string{"A", "B"}, rand.NewFixed())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	countA := 0
	for _, ev := range events {
		if ev.AssignedUnit == "A" {
			countA++
		}
	}
	if countA != 75 {
		t.Errorf("got %d A-assigned events out of 100, want 75", countA)
	}
}

