// result/result.go
// Copyright(c) 2026 monte-carlo-sub002 contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

// Package result implements spec.md §4.8: tallying the dispatcher's
// timeline into completion counts, per-resource utilization/efficiency,
// and a per-MOS availability timeline. Grounded on the teacher's
// pattern of a single finalize pass over a flat event/timeline slice
// (sim/eventstream.go is read once per consumer, never mutated after
// generation) adapted to a statistics rollup instead of a replay feed.
package result

import (
	"sort"

	"github.com/ColbySawyer7/monte-carlo-sub002/dispatch"
	"github.com/ColbySawyer7/monte-carlo-sub002/personnel"
	"github.com/ColbySawyer7/monte-carlo-sub002/resource"
	"github.com/ColbySawyer7/monte-carlo-sub002/scenario"
	"github.com/ColbySawyer7/monte-carlo-sub002/snapshot"
)

// ResourceStats carries allocation/denial counts, and for crew queues a
// busy/idle member-count snapshot at the run's end (spec.md §4.8).
type ResourceStats struct {
	Allocations int  `json:"allocations"`
	Denials     int  `json:"denials"`
	Busy        *int `json:"busy,omitempty"`
	Idle        *int `json:"idle,omitempty"`
}

// UnitUtilization is one unit's row of the utilization table.
type UnitUtilization struct {
	Aircraft           float64            `json:"aircraft"`
	AircraftEfficiency float64            `json:"aircraft_efficiency"`
	AircraftStats      ResourceStats      `json:"aircraft_stats"`
	Pilot              float64            `json:"pilot"`
	PilotEfficiency    float64            `json:"pilot_efficiency"`
	PilotStats         ResourceStats      `json:"pilot_stats"`
	SO                 float64            `json:"so"`
	SOEfficiency       float64            `json:"so_efficiency"`
	SOStats            ResourceStats      `json:"so_stats"`
	Intel              float64            `json:"intel"`
	IntelEfficiency    float64            `json:"intel_efficiency"`
	IntelStats         ResourceStats      `json:"intel_stats"`
	AvailabilityFactors map[string]float64 `json:"availability_factors"`
	InitialCrew         map[string]int     `json:"initial_crew"`
	EffectiveCrew        map[string]int     `json:"effective_crew"`
}

// InitialResources mirrors the loader/override output for round-trip
// testing (spec.md §8 round-trip properties).
type InitialResources struct {
	Units            []string                  `json:"units"`
	AircraftByUnit   map[string]int             `json:"aircraftByUnit"`
	StaffingByUnit   map[string]map[string]int  `json:"staffingByUnit"`
	PayloadByUnit    map[string]map[string]int  `json:"payloadByUnit"`
	OverridesApplied bool                       `json:"overrides_applied"`
}

// AvailabilityPoint is one hour of one unit/specialty's availability
// timeline (spec.md §4.8).
type AvailabilityPoint struct {
	Time          float64        `json:"time"`
	Day           int            `json:"day"`
	Total         int            `json:"total"`
	Available     int            `json:"available"`
	Unavailable   UnavailableBuckets `json:"unavailable"`
}

type UnavailableBuckets struct {
	WorkSchedule int `json:"work_schedule"`
	Leave        int `json:"leave"`
	ODO          int `json:"odo"`
	SDO          int `json:"sdo"`
	SDNCO        int `json:"sdnco"`
	Range        int `json:"range"`
	Medical      int `json:"medical"`
	Training     int `json:"training"`
	Standdown    int `json:"standdown"`
}

func (b UnavailableBuckets) sum() int {
	return b.WorkSchedule + b.Leave + b.ODO + b.SDO + b.SDNCO + b.Range + b.Medical + b.Training + b.Standdown
}

// Results is the run's complete output (spec.md §6).
type Results struct {
	HorizonHours float64 `json:"horizon_hours"`

	Missions   dispatch.Counters               `json:"missions"`
	Rejections map[string]int                  `json:"rejections"`
	Duties     dispatch.DutyCounters            `json:"duties"`
	Utilization map[string]UnitUtilization      `json:"utilization"`
	ByType      map[string]dispatch.Counters    `json:"by_type"`
	Timeline    []dispatch.Entry                `json:"timeline"`

	InitialResources InitialResources `json:"initial_resources"`

	AvailabilityTimeline map[string]map[string][]AvailabilityPoint `json:"availability_timeline,omitempty"`
}

var rejectionOrder = []dispatch.RejectionReason{
	dispatch.ReasonPayload,
	dispatch.ReasonAircraft,
	dispatch.ReasonPilot,
	dispatch.ReasonSO,
	dispatch.ReasonIntel,
}

// Finalize builds Results from a completed dispatcher run.
func Finalize(
	d *dispatch.Dispatcher,
	scn *scenario.Scenario,
	units *resource.Units,
	derived *snapshot.Derived,
	overridesApplied bool,
	factors map[string]personnel.Factors,
) *Results {
	horizon := scn.HorizonHours

	completed := countCompleted(d.Timeline, horizon)

	rejections := map[string]int{}
	for _, reason := range rejectionOrder {
		rejections[string(reason)] = d.Rejections[reason]
	}

	utilization := map[string]UnitUtilization{}
	for _, unit := range units.Order {
		utilization[unit] = buildUnitUtilization(unit, units, horizon)
	}

	byType := map[string]dispatch.Counters{}
	for _, mt := range scn.MissionTypes {
		c := d.ByType[mt.Name]
		c.Completed = countCompletedByType(d.Timeline, mt.Name, horizon)
		byType[mt.Name] = c
	}

	missions := d.Missions
	missions.Completed = completed

	res := &Results{
		HorizonHours: horizon,
		Missions:     missions,
		Rejections:   rejections,
		Duties:       d.Duties,
		Utilization:  utilization,
		ByType:       byType,
		Timeline:     d.Timeline,
		InitialResources: InitialResources{
			Units:            append([]string(nil), derived.Units...),
			AircraftByUnit:   derived.AircraftByUnit,
			StaffingByUnit:   derived.StaffingByUnit,
			PayloadByUnit:    derived.PayloadByUnit,
			OverridesApplied: overridesApplied,
		},
	}

	if len(scn.PersonnelAvailability) > 0 {
		res.AvailabilityTimeline = buildAvailabilityTimeline(scn, units, factors, horizon)
	}

	return res
}

func countCompleted(timeline []dispatch.Entry, horizon float64) int {
	n := 0
	for _, e := range timeline {
		if m, ok := e.(dispatch.MissionEntry); ok && m.FinishTime <= horizon {
			n++
		}
	}
	return n
}

func countCompletedByType(timeline []dispatch.Entry, missionType string, horizon float64) int {
	n := 0
	for _, e := range timeline {
		if m, ok := e.(dispatch.MissionEntry); ok && m.MissionType == missionType && m.FinishTime <= horizon {
			n++
		}
	}
	return n
}

func buildUnitUtilization(unit string, units *resource.Units, horizon float64) UnitUtilization {
	aircraft := units.AircraftPool[unit]
	pilot := units.CrewQueues[unit]["pilot"]
	so := units.CrewQueues[unit]["so"]
	intel := units.CrewQueues[unit]["intel"]

	u := UnitUtilization{
		AvailabilityFactors: units.AvailabilityFactors[unit],
		InitialCrew:         units.InitialStaffing[unit],
		EffectiveCrew:       units.EffectiveCrew[unit],
	}

	if aircraft != nil {
		u.Aircraft = aircraft.Utilization(horizon)
		u.AircraftEfficiency = aircraft.Efficiency()
		u.AircraftStats = ResourceStats{Allocations: aircraft.Allocations, Denials: aircraft.Denials}
	}
	if pilot != nil {
		u.Pilot, u.PilotEfficiency, u.PilotStats = crewUtilization(pilot, horizon)
	}
	if so != nil {
		u.SO, u.SOEfficiency, u.SOStats = crewUtilization(so, horizon)
	}
	if intel != nil {
		u.Intel, u.IntelEfficiency, u.IntelStats = crewUtilization(intel, horizon)
	}
	return u
}

func crewUtilization(q *resource.CrewQueue, horizon float64) (float64, float64, ResourceStats) {
	busy := len(q.Members) - q.AvailableAt(horizon, true)
	idle := len(q.Members) - busy
	return q.Utilization(horizon), q.Efficiency(), ResourceStats{
		Allocations: q.Allocations,
		Denials:     q.Denials,
		Busy:        &busy,
		Idle:        &idle,
	}
}

// buildAvailabilityTimeline emits one point per simulated hour, per
// (unit, specialty) that has a personnel_availability entry. The five
// leave/medical/training/standdown/range-driven reductions were folded
// multiplicatively into each specialty's availability factor
// (personnel.Process); since no calendar of specific leave windows was
// ever modeled, their hourly share is a constant split of
// (initial_crew - effective_crew) proportional to each category's
// individual fraction (see the result entry in DESIGN.md). work_schedule
// and odo/sdo/sdnco come from the actually-simulated effective-crew
// queue and vary hour to hour.
func buildAvailabilityTimeline(scn *scenario.Scenario, units *resource.Units, factors map[string]personnel.Factors, horizon float64) map[string]map[string][]AvailabilityPoint {
	out := map[string]map[string][]AvailabilityPoint{}
	specialties := []string{"pilot", "so", "intel"}

	for specialty, avail := range scn.PersonnelAvailability {
		if !isTrackedSpecialty(specialty, specialties) {
			continue
		}
		perUnit := map[string][]AvailabilityPoint{}
		staticBuckets := staticUnavailableFractions(avail)

		for _, unit := range units.Order {
			q := units.CrewQueues[unit][specialty]
			if q == nil {
				continue
			}
			total := units.InitialStaffing[unit][specialty]
			effective := units.EffectiveCrew[unit][specialty]
			staticCounts := distributeStatic(total-effective, staticBuckets)

			var points []AvailabilityPoint
			for h := 0; h < int(horizon); h++ {
				t := float64(h)
				b := UnavailableBuckets{
					Leave:        staticCounts[0],
					Standdown:    staticCounts[1],
					Medical:      staticCounts[2],
					Training:     staticCounts[3],
					Range:        staticCounts[4],
					WorkSchedule: q.DayOffCountAt(t),
					ODO:          q.DutyCountAt(t, scenario.DutyTypeODO),
					SDO:          q.DutyCountAt(t, "sdo"),
					SDNCO:        q.DutyCountAt(t, "sdnco"),
				}
				available := total - b.sum()
				if available < 0 {
					available = 0
				}
				points = append(points, AvailabilityPoint{
					Time:        t,
					Day:         h/24 + 1,
					Total:       total,
					Available:   available,
					Unavailable: b,
				})
			}
			perUnit[unit] = points
		}
		out[specialty] = perUnit
	}
	return out
}

func isTrackedSpecialty(name string, tracked []string) bool {
	for _, t := range tracked {
		if t == name {
			return true
		}
	}
	return false
}

// staticUnavailableFractions returns the five leave/standdown/medical/
// training/range fractions (excluding work-schedule, tracked
// dynamically) in a fixed order.
func staticUnavailableFractions(avail scenario.PersonnelAvailability) [5]float64 {
	const daysPerYear = 365.0
	return [5]float64{
		avail.AnnualLeaveDays / daysPerYear,
		(avail.QuarterlyStanddownDays * 4) / daysPerYear,
		(avail.MonthlyMedicalDays * 12) / daysPerYear,
		(avail.MonthlyTrainingDays * 12) / daysPerYear,
		avail.AnnualRangeDays / daysPerYear,
	}
}

// distributeStatic splits total across len(fractions) buckets
// proportional to fractions, via the largest-remainder method so the
// parts sum exactly to total.
func distributeStatic(total int, fractions [5]float64) [5]int {
	var counts [5]int
	if total <= 0 {
		return counts
	}
	sum := 0.0
	for _, f := range fractions {
		sum += f
	}
	if sum <= 0 {
		return counts
	}

	type frac struct {
		idx       int
		remainder float64
	}
	var fracs []frac
	assigned := 0
	for i, f := range fractions {
		share := f / sum * float64(total)
		whole := int(share)
		counts[i] = whole
		assigned += whole
		fracs = append(fracs, frac{i, share - float64(whole)})
	}
	sort.SliceStable(fracs, func(i, j int) bool { return fracs[i].remainder > fracs[j].remainder })
	leftover := total - assigned
	for i := 0; i < leftover && i < len(fracs); i++ {
		counts[fracs[i].idx]++
	}
	return counts
}
