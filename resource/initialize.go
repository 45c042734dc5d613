// resource/initialize.go
// Copyright(c) 2026 monte-carlo-sub002 contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

// Initialize builds the per-unit pools and crew queues the dispatcher
// contends over (spec.md §4.6), from the loaded/overridden snapshot and
// the personnel processor's per-specialty factors.
package resource

import (
	"github.com/ColbySawyer7/monte-carlo-sub002/personnel"
	"github.com/ColbySawyer7/monte-carlo-sub002/scenario"
	"github.com/ColbySawyer7/monte-carlo-sub002/snapshot"
)

var specialties = []string{"pilot", "so", "intel"}

// Units is the ordered mapping keyed by unit name that owns every pool
// and queue for a run (spec.md §9 pattern: insertion-order-preserving
// per-unit map of sub-maps), built with iancoleman/orderedmap so
// iteration order matches snapshot.Derived.Units.
type Units struct {
	Order        []string
	AircraftPool map[string]*EquipmentPool
	PayloadPools map[string]map[string]*EquipmentPool // unit -> payload type -> pool
	CrewQueues   map[string]map[string]*CrewQueue      // unit -> specialty -> queue

	InitialAircraft map[string]int
	InitialStaffing map[string]map[string]int
	InitialPayload  map[string]map[string]int
	AvailabilityFactors map[string]map[string]float64 // unit -> specialty -> factor
	EffectiveCrew       map[string]map[string]int
}

// Initialize constructs Units from derived resource counts and
// per-specialty personnel factors. dutyReq is used to size each
// (unit, specialty) duty-rotation pool over a 30-day window with 20%
// slack (spec.md §4.6).
func Initialize(
	derived *snapshot.Derived,
	factors map[string]personnel.Factors,
	dutyReq scenario.DutyRequirements,
) *Units {
	om := snapshot.OrderedUnitMap(derived.Units)
	order := make([]string, 0, len(om.Keys()))
	order = append(order, om.Keys()...)

	u := &Units{
		Order:               order,
		AircraftPool:        map[string]*EquipmentPool{},
		PayloadPools:        map[string]map[string]*EquipmentPool{},
		CrewQueues:          map[string]map[string]*CrewQueue{},
		InitialAircraft:     map[string]int{},
		InitialStaffing:     map[string]map[string]int{},
		InitialPayload:      map[string]map[string]int{},
		AvailabilityFactors: map[string]map[string]float64{},
		EffectiveCrew:       map[string]map[string]int{},
	}

	rotationSlots := rotationPoolSlots(dutyReq)

	for _, unit := range order {
		aircraftTotal := derived.AircraftByUnit[unit]
		u.AircraftPool[unit] = NewEquipmentPool(unit+":aircraft", aircraftTotal)
		u.InitialAircraft[unit] = aircraftTotal

		u.PayloadPools[unit] = map[string]*EquipmentPool{}
		u.InitialPayload[unit] = map[string]int{}
		for typ, count := range derived.PayloadByUnit[unit] {
			u.PayloadPools[unit][typ] = NewEquipmentPool(unit+":payload:"+typ, count)
			u.InitialPayload[unit][typ] = count
		}

		u.CrewQueues[unit] = map[string]*CrewQueue{}
		u.InitialStaffing[unit] = map[string]int{}
		u.AvailabilityFactors[unit] = map[string]float64{}
		u.EffectiveCrew[unit] = map[string]int{}

		for _, specialty := range specialties {
			total := derived.StaffingByUnit[unit][specialty]
			u.InitialStaffing[unit][specialty] = total

			f, ok := factors[specialty]
			if !ok {
				f = personnel.Factors{AvailabilityFactor: 1}
			}
			u.AvailabilityFactors[unit][specialty] = f.AvailabilityFactor

			effective := f.EffectiveCrew(total)
			u.EffectiveCrew[unit][specialty] = effective

			q := NewCrewQueue(unit, specialty, effective, f.DailyCrewRestHours, f.WorkSchedule)
			q.SetRotationPool(clampInt(int(float64(rotationSlots[specialty])*1.2), effective))
			u.CrewQueues[unit][specialty] = q
		}
	}

	return u
}

// rotationPoolSlots sums the per-specialty crew-slots demanded by the
// non-continuous (rotating) duty type across a 30-day window
// (shifts_per_day * 30 * requires_<specialty>), the pre-slack figure
// that Initialize then multiplies by 1.2 and clamps to the effective
// crew size. SDO/SDNCO are continuous-shift duty types that staff from
// the standing crew directly rather than the rotation pool, so only
// ODO contributes here (spec.md §4.6).
func rotationPoolSlots(dutyReq scenario.DutyRequirements) map[string]int {
	slots := map[string]int{"pilot": 0, "so": 0, "intel": 0}
	for _, nd := range dutyReq.Types() {
		if nd.Name != scenario.DutyTypeODO {
			continue
		}
		cfg := nd.Cfg
		if cfg == nil || !cfg.Enabled {
			continue
		}
		perDay := cfg.ShiftsPerDay
		if perDay <= 0 {
			perDay = 1
		}
		windowShifts := perDay * 30
		if cfg.RequiresPilot > 0 {
			slots["pilot"] += windowShifts * cfg.RequiresPilot
		}
		if cfg.RequiresSO > 0 {
			slots["so"] += windowShifts * cfg.RequiresSO
		}
		if cfg.RequiresIntel > 0 {
			slots["intel"] += windowShifts * cfg.RequiresIntel
		}
	}
	return slots
}

func clampInt(v, max int) int {
	if v > max {
		return max
	}
	if v < 0 {
		return 0
	}
	return v
}
