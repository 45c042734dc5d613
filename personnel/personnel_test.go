// personnel/personnel_test.go
// Copyright(c) 2026 monte-carlo-sub002 contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package personnel

import (
	"math"
	"testing"

	"github.com/ColbySawyer7/monte-carlo-sub002/scenario"
)

func TestProcessNilYieldsFullAvailability(t *testing.T) {
	f := Process(nil)
	if f.AvailabilityFactor != 1 {
		t.Errorf("got %v, want 1", f.AvailabilityFactor)
	}
}

func TestProcessZeroInputYieldsOne(t *testing.T) {
	f := Process(&scenario.PersonnelAvailability{})
	if f.AvailabilityFactor != 1 {
		t.Errorf("got %v, want 1 for all-zero input", f.AvailabilityFactor)
	}
}

func TestProcessReducesFactor(t *testing.T) {
	in := &scenario.PersonnelAvailability{
		AnnualLeaveDays:        30,
		QuarterlyStanddownDays: 2,
		MonthlyMedicalDays:     1,
		MonthlyTrainingDays:    2,
		AnnualRangeDays:        10,
		DailyCrewRestHours:     12,
		WorkSchedule:           scenario.WorkSchedule{DaysOn: 5, DaysOff: 2},
	}
	f := Process(in)
	if f.AvailabilityFactor <= 0 || f.AvailabilityFactor >= 1 {
		t.Errorf("factor %v out of (0,1)", f.AvailabilityFactor)
	}
	if f.DailyCrewRestHours != 12 {
		t.Errorf("rest hours not carried forward: got %v", f.DailyCrewRestHours)
	}
}

func TestProcessNeverZeroOrNegative(t *testing.T) {
	in := &scenario.PersonnelAvailability{
		AnnualLeaveDays:        365,
		QuarterlyStanddownDays: 365,
		MonthlyMedicalDays:     365,
		MonthlyTrainingDays:    365,
		AnnualRangeDays:        365,
		WorkSchedule:           scenario.WorkSchedule{DaysOn: 0, DaysOff: 1},
	}
	f := Process(in)
	if f.AvailabilityFactor <= 0 {
		t.Errorf("factor %v, want > 0", f.AvailabilityFactor)
	}
}

func TestEffectiveCrewFloors(t *testing.T) {
	f := Factors{AvailabilityFactor: 0.7}
	if got := f.EffectiveCrew(10); got != 7 {
		t.Errorf("got %d, want 7", got)
	}
}

func TestProcessAllKeysMatchInput(t *testing.T) {
	in := map[string]scenario.PersonnelAvailability{
		"pilot": {AnnualLeaveDays: 20},
		"so":    {AnnualLeaveDays: 10},
	}
	out := ProcessAll(in)
	if len(out) != 2 {
		t.Fatalf("got %d entries, want 2", len(out))
	}
	if math.Abs(out["pilot"].AvailabilityFactor-out["so"].AvailabilityFactor) < 1e-9 {
		t.Errorf("expected different factors for different leave inputs")
	}
}
