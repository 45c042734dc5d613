// personnel/personnel.go
// Copyright(c) 2026 monte-carlo-sub002 contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

// Package personnel implements spec.md §4.4: per-specialty availability
// factors and effective headcounts derived from leave, medical,
// training, standdown, and range-time inputs, plus the carried-forward
// work-schedule/rest parameters duty dispatch needs later.
//
// spec.md §9 Open Question 1 leaves the exact multiplicative
// composition unspecified and asks implementers to either take the
// factor directly or use a documented formula. SPEC_FULL.md §9 decision
// 1 adopts the documented formula below: each category of unavailable
// time is converted to a fraction of the year it removes from duty, and
// the factor is the product of (1 - fraction) terms, clamped to (0,1].
package personnel

import (
	"github.com/ColbySawyer7/monte-carlo-sub002/internal/xmath"
	"github.com/ColbySawyer7/monte-carlo-sub002/scenario"
)

const daysPerYear = 365.0

// Factors is the personnel processor's output for one specialty.
type Factors struct {
	AvailabilityFactor float64
	DailyCrewRestHours float64
	WorkSchedule       scenario.WorkSchedule
}

// EffectiveCrew applies the availability factor to total, flooring per
// spec.md §4.6 ("sized floor(total × availability_factor)").
func (f Factors) EffectiveCrew(total int) int {
	return int(xmath.ClampNonNegative(float64(total) * f.AvailabilityFactor))
}

// Process computes Factors for one specialty's availability input. A
// nil input (specialty absent from scenario.personnel_availability)
// yields a factor of 1 (fully available) and zero-value schedule
// parameters, so callers may unconditionally call Process per
// specialty without special-casing missing entries.
func Process(in *scenario.PersonnelAvailability) Factors {
	if in == nil {
		return Factors{AvailabilityFactor: 1}
	}

	leaveFraction := in.AnnualLeaveDays / daysPerYear
	standdownFraction := (in.QuarterlyStanddownDays * 4) / daysPerYear
	medicalFraction := (in.MonthlyMedicalDays * 12) / daysPerYear
	trainingFraction := (in.MonthlyTrainingDays * 12) / daysPerYear
	rangeFraction := in.AnnualRangeDays / daysPerYear

	workScheduleFraction := 0.0
	if total := in.WorkSchedule.DaysOn + in.WorkSchedule.DaysOff; total > 0 {
		workScheduleFraction = float64(in.WorkSchedule.DaysOff) / float64(total)
	}

	factor := (1 - xmath.Clamp(leaveFraction, 0, 1)) *
		(1 - xmath.Clamp(standdownFraction, 0, 1)) *
		(1 - xmath.Clamp(medicalFraction, 0, 1)) *
		(1 - xmath.Clamp(trainingFraction, 0, 1)) *
		(1 - xmath.Clamp(rangeFraction, 0, 1)) *
		(1 - xmath.Clamp(workScheduleFraction, 0, 1))

	factor = xmath.Clamp(factor, 0.0001, 1)

	return Factors{
		AvailabilityFactor: factor,
		DailyCrewRestHours: in.DailyCrewRestHours,
		WorkSchedule:       in.WorkSchedule,
	}
}

// ProcessAll runs Process over every specialty named in availability,
// keyed by MOS/specialty name as used in scenario.personnel_availability.
func ProcessAll(availability map[string]scenario.PersonnelAvailability) map[string]Factors {
	out := make(map[string]Factors, len(availability))
	for specialty, in := range availability {
		v := in
		out[specialty] = Process(&v)
	}
	return out
}
