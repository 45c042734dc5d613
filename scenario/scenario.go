// scenario/scenario.go
// Copyright(c) 2026 monte-carlo-sub002 contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

// Package scenario holds the read-only input data model of spec.md §3:
// the scenario, its mission types, demand specs, duty requirements, and
// process times. Field names mirror the JSON vocabulary spec.md uses so
// a scenario author's JSON maps onto these types with no translation
// layer, in the same spirit as the teacher's aviation.FlightPlan /
// av.Airport JSON-tagged structs.
package scenario

import "github.com/ColbySawyer7/monte-carlo-sub002/distribution"

// Scenario is the immutable configuration for one run. Only the fields
// listed here are recognized; extra JSON fields are ignored (spec.md §6).
type Scenario struct {
	HorizonHours          float64                          `json:"horizon_hours"`
	MissionTypes          []MissionType                     `json:"mission_types"`
	Demand                []DemandSpec                      `json:"demand"`
	DutyRequirements      DutyRequirements                  `json:"duty_requirements"`
	ProcessTimes          ProcessTimes                      `json:"process_times"`
	PersonnelAvailability map[string]PersonnelAvailability  `json:"personnel_availability"`
	UnitPolicy            UnitPolicy                        `json:"unit_policy"`
}

// MissionType describes one kind of sortie: its flight-time
// distribution, aircrew and payload requirements, and optional
// crew-rotation/distribution policy.
type MissionType struct {
	Name                 string         `json:"name"`
	FlightTime           FlightTimeSpec `json:"flight_time"`
	RequiredAircrew      Aircrew        `json:"required_aircrew"`
	RequiredPayloadTypes []string       `json:"required_payload_types"`
	CrewRotation         *CrewRotation  `json:"crew_rotation,omitempty"`
	CrewDistribution     string         `json:"crew_distribution,omitempty"` // "concentrate" | "distribute"

	// IgnoreWorkSchedule lets a mission type's crew be assigned across a
	// crew member's configured day off (spec.md §3 invariants: "unless
	// the demand's ignore_work_schedule flag is set").
	IgnoreWorkSchedule bool `json:"ignore_work_schedule,omitempty"`

	// DisableDutyLookahead opts a mission type out of the duty-lookahead
	// admission check described in spec.md §4.7.1 step 3 ("unless
	// disabled").
	DisableDutyLookahead bool `json:"disable_duty_lookahead,omitempty"`
}

const (
	CrewDistributionConcentrate = "concentrate"
	CrewDistributionDistribute  = "distribute"
)

// EffectiveCrewDistribution defaults to "distribute" (fair spreading)
// when unset, matching the duty-rotation MOS cycling default elsewhere
// in the dispatcher.
func (mt MissionType) EffectiveCrewDistribution() string {
	if mt.CrewDistribution == "" {
		return CrewDistributionDistribute
	}
	return mt.CrewDistribution
}

type FlightTimeSpec struct {
	Dist            *distribution.Spec `json:"dist"`
	TransitInHours  float64            `json:"transit_in_hours"`
	TransitOutHours float64            `json:"transit_out_hours"`
}

type Aircrew struct {
	Pilot int `json:"pilot"`
	SO    int `json:"so"`
	Intel int `json:"intel"`
}

// CrewRotation splits a mission's crew requirement into named shifts,
// sequential (hand-off) or concurrent, per specialty.
type CrewRotation struct {
	Enabled     bool      `json:"enabled"`
	Sequential  bool      `json:"sequential"`
	PilotShifts []float64 `json:"pilot_shifts"`
	SOShifts    []float64 `json:"so_shifts"`
	IntelShifts []float64 `json:"intel_shifts"`
}

// DemandSpec is one entry of scenario.demand: either a deterministic
// recurring demand or a Poisson-arrival process for a mission type.
type DemandSpec struct {
	MissionType   string  `json:"mission_type"`
	Kind          string  `json:"kind"` // "deterministic" | "poisson"
	StartAtHours  float64 `json:"start_at_hours"`
	EveryHours    float64 `json:"every_hours"`
	RatePerHour   float64 `json:"rate_per_hour"`
}

const (
	DemandDeterministic = "deterministic"
	DemandPoisson       = "poisson"
)

// DutyRequirements configures the three named recurring duty types plus
// the lookahead window used for mission admission control.
type DutyRequirements struct {
	ODO       *DutyTypeConfig `json:"odo,omitempty"`
	SDO       *DutyTypeConfig `json:"sdo,omitempty"`
	SDNCO     *DutyTypeConfig `json:"sdnco,omitempty"`
	Lookahead LookaheadConfig `json:"lookahead"`
}

// Types iterates the three named duty types paired with their
// canonical name, skipping any that are nil, in a fixed order so
// iteration (and therefore generated-event order before the final
// time/kind sort) is deterministic.
func (d DutyRequirements) Types() []NamedDutyType {
	var out []NamedDutyType
	if d.ODO != nil {
		out = append(out, NamedDutyType{"odo", d.ODO})
	}
	if d.SDO != nil {
		out = append(out, NamedDutyType{"sdo", d.SDO})
	}
	if d.SDNCO != nil {
		out = append(out, NamedDutyType{"sdnco", d.SDNCO})
	}
	return out
}

type NamedDutyType struct {
	Name string
	Cfg  *DutyTypeConfig
}

const DutyTypeODO = "odo"

type LookaheadConfig struct {
	Hours    float64 `json:"hours"`
	Disabled bool    `json:"disabled"`
}

// EffectiveHours defaults the lookahead window to 72 hours per spec.md §4.7.1.
func (l LookaheadConfig) EffectiveHours() float64 {
	if l.Hours <= 0 {
		return 72
	}
	return l.Hours
}

type DutyTypeConfig struct {
	Enabled             bool    `json:"enabled"`
	ShiftsPerDay        int     `json:"shifts_per_day"`
	HoursPerShift       float64 `json:"hours_per_shift"`
	StartHour           float64 `json:"start_hour"`
	RequiresPilot       int     `json:"requires_pilot"`
	RequiresSO          int     `json:"requires_so"`
	RequiresIntel       int     `json:"requires_intel"`
	DutyRecoveryHours   float64 `json:"duty_recovery_hours"`
	RespectWorkSchedule bool    `json:"respect_work_schedule"`
}

// ProcessTimes carries the shared preflight/postflight/turnaround/mount
// distributions and the crew-hold policy.
type ProcessTimes struct {
	Preflight                  *distribution.Spec            `json:"preflight"`
	Postflight                 *distribution.Spec            `json:"postflight"`
	Turnaround                 *distribution.Spec            `json:"turnaround"`
	MountTimes                 map[string]*distribution.Spec `json:"mount_times"`
	HoldCrewDuringProcessTimes *bool                         `json:"hold_crew_during_process_times,omitempty"`
}

// HoldCrew defaults to true (spec.md §4.7.1 step 2).
func (p ProcessTimes) HoldCrew() bool {
	if p.HoldCrewDuringProcessTimes == nil {
		return true
	}
	return *p.HoldCrewDuringProcessTimes
}

// PersonnelAvailability is the per-MOS input to the personnel processor
// (spec.md §4.4): leave/medical/training/standdown/range days and the
// work-schedule/rest parameters.
type PersonnelAvailability struct {
	AnnualLeaveDays        float64      `json:"annual_leave_days"`
	QuarterlyStanddownDays float64      `json:"quarterly_standdown_days"`
	MonthlyMedicalDays     float64      `json:"monthly_medical_days"`
	MonthlyTrainingDays    float64      `json:"monthly_training_days"`
	AnnualRangeDays        float64      `json:"annual_range_days"`
	WorkSchedule           WorkSchedule `json:"work_schedule"`
	DailyCrewRestHours     float64      `json:"daily_crew_rest_hours"`
}

type WorkSchedule struct {
	DaysOn            int     `json:"days_on"`
	DaysOff           int     `json:"days_off"`
	StartHour         float64 `json:"start_hour"`
	ShiftSplit        bool    `json:"shift_split"`
	ShiftSplitPercent float64 `json:"shift_split_percent"`
	StaggerDaysOff    int     `json:"stagger_days_off"`
}

// UnitPolicy carries the mission pre-assignment weights (spec.md §4.6).
type UnitPolicy struct {
	MissionSplit map[string]float64 `json:"mission_split"`
}
