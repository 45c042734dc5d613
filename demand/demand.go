// demand/demand.go
// Copyright(c) 2026 monte-carlo-sub002 contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

// Package demand implements spec.md §4.5: expanding scenario demand
// specs and duty requirements into a sorted list of timed events, with
// the ODO dynamic mission-alignment special case. Grounded on the
// teacher's event-stream pattern (sim/eventstream.go: a flat slice of
// timed records, generated up front and then walked in order) adapted
// from ATC events to mission/duty demand events.
package demand

import (
	"sort"

	"github.com/ColbySawyer7/monte-carlo-sub002/distribution"
	"github.com/ColbySawyer7/monte-carlo-sub002/rand"
	"github.com/ColbySawyer7/monte-carlo-sub002/resource"
	"github.com/ColbySawyer7/monte-carlo-sub002/scenario"
	"github.com/ColbySawyer7/monte-carlo-sub002/util"
)

type Kind string

const (
	MissionDemand Kind = "mission_demand"
	DutyDemand    Kind = "duty_demand"
)

// Event is one internal demand occurrence (spec.md §3). Mission and
// duty fields share one struct, tagged sum style, rather than an
// interface, since the dispatcher needs to sort a single homogeneous
// slice by (time, kind) before it ever branches on which fields apply.
type Event struct {
	Time float64
	Kind Kind

	// mission_demand fields
	MissionType          string
	MissionTypeIndex      int
	AssignedUnit         string
	IgnoreWorkSchedule   bool
	DisableDutyLookahead bool

	// duty_demand fields
	DutyType            string
	Duration             float64
	RequiresPilot        int
	RequiresSO           int
	RequiresIntel        int
	DutyRecoveryHours    float64
	RespectWorkSchedule  bool
	StartHour            float64
	ShiftsPerDay         int
}

// Generate expands scn's demand specs and duty requirements into a
// sorted event list over [0, horizon), pre-assigning mission units via
// resource.AssignMissionUnits. src supplies poisson-arrival draws.
func Generate(scn *scenario.Scenario, units []string, src rand.Source) ([]Event, error) {
	missionTypeIndex := map[string]int{}
	for i, mt := range scn.MissionTypes {
		missionTypeIndex[mt.Name] = i
	}

	var missionEvents []Event
	for _, spec := range scn.Demand {
		evs, err := generateMissionDemand(spec, scn.HorizonHours, src)
		if err != nil {
			return nil, err
		}
		for i := range evs {
			evs[i].MissionTypeIndex = missionTypeIndex[spec.MissionType]
			if idx, ok := missionTypeIndex[spec.MissionType]; ok {
				mt := scn.MissionTypes[idx]
				evs[i].IgnoreWorkSchedule = mt.IgnoreWorkSchedule
				evs[i].DisableDutyLookahead = mt.DisableDutyLookahead
			}
		}
		missionEvents = append(missionEvents, evs...)
	}

	sort.SliceStable(missionEvents, func(i, j int) bool { return missionEvents[i].Time < missionEvents[j].Time })

	if len(units) > 0 {
		split := scn.UnitPolicy.MissionSplit
		assigned := resource.AssignMissionUnits(units, split, len(missionEvents))
		for i := range missionEvents {
			missionEvents[i].AssignedUnit = assigned[i]
		}
	}

	var mergedMissionSpans []util.Interval
	needsODO := false
	for _, nd := range scn.DutyRequirements.Types() {
		if nd.Name == scenario.DutyTypeODO && nd.Cfg != nil && nd.Cfg.Enabled {
			needsODO = true
		}
	}
	if needsODO {
		spans := make([]util.Interval, 0, len(missionEvents))
		for _, ev := range missionEvents {
			mt := scn.MissionTypes[ev.MissionTypeIndex]
			spans = append(spans, missionSpan(ev.Time, mt, scn.ProcessTimes))
		}
		mergedMissionSpans = util.MergeIntervals(spans)
	}

	var dutyEvents []Event
	for _, nd := range scn.DutyRequirements.Types() {
		cfg := nd.Cfg
		if cfg == nil || !cfg.Enabled {
			continue
		}
		for _, ev := range generateDutyDemand(nd.Name, *cfg, scn.HorizonHours) {
			if nd.Name == scenario.DutyTypeODO {
				window := util.Interval{Start: ev.Time, End: ev.Time + ev.Duration}
				if _, ok := util.FirstIntersection(mergedMissionSpans, window); !ok {
					continue
				}
			}
			dutyEvents = append(dutyEvents, ev)
		}
	}

	all := make([]Event, 0, len(missionEvents)+len(dutyEvents))
	all = append(all, missionEvents...)
	all = append(all, dutyEvents...)

	sort.SliceStable(all, func(i, j int) bool {
		if all[i].Time != all[j].Time {
			return all[i].Time < all[j].Time
		}
		return all[i].Kind == MissionDemand && all[j].Kind == DutyDemand
	})

	return all, nil
}

func generateMissionDemand(spec scenario.DemandSpec, horizon float64, src rand.Source) ([]Event, error) {
	var events []Event
	switch spec.Kind {
	case scenario.DemandDeterministic:
		every := spec.EveryHours
		if every <= 0 {
			every = horizon + 1 // single occurrence only
		}
		for k := 0; ; k++ {
			t := spec.StartAtHours + float64(k)*every
			if t >= horizon {
				break
			}
			events = append(events, Event{Time: t, Kind: MissionDemand, MissionType: spec.MissionType})
		}
	case scenario.DemandPoisson:
		rate := spec.RatePerHour
		if rate <= 0 {
			rate = 1
		}
		t := 0.0
		for {
			dt, err := distribution.Sample(&distribution.Spec{Type: distribution.Exponential, RatePerHour: &rate}, src)
			if err != nil {
				return nil, err
			}
			t += dt
			if t > horizon {
				break
			}
			events = append(events, Event{Time: t, Kind: MissionDemand, MissionType: spec.MissionType})
		}
	}
	return events, nil
}

func generateDutyDemand(name string, cfg scenario.DutyTypeConfig, horizon float64) []Event {
	perDay := cfg.ShiftsPerDay
	if perDay <= 0 {
		perDay = 1
	}
	interval := 24.0 / float64(perDay)

	var events []Event
	for k := 0; ; k++ {
		t := cfg.StartHour + float64(k)*interval
		if t >= horizon {
			break
		}
		events = append(events, Event{
			Time:                t,
			Kind:                DutyDemand,
			DutyType:            name,
			Duration:            cfg.HoursPerShift,
			RequiresPilot:       cfg.RequiresPilot,
			RequiresSO:          cfg.RequiresSO,
			RequiresIntel:       cfg.RequiresIntel,
			DutyRecoveryHours:   cfg.DutyRecoveryHours,
			RespectWorkSchedule: cfg.RespectWorkSchedule,
			StartHour:           cfg.StartHour,
			ShiftsPerDay:        perDay,
		})
	}
	return events
}

// missionSpan estimates a mission's average-case occupied window using
// distribution means, per spec.md §4.5's ODO special case.
func missionSpan(start float64, mt scenario.MissionType, pt scenario.ProcessTimes) util.Interval {
	pre := distribution.Mean(pt.Preflight)
	post := distribution.Mean(pt.Postflight)
	mount := 0.0
	for _, payloadType := range mt.RequiredPayloadTypes {
		mount += distribution.Mean(pt.MountTimes[payloadType])
	}
	flight := distribution.Mean(mt.FlightTime.Dist)
	total := pre + mount + mt.FlightTime.TransitInHours + flight + mt.FlightTime.TransitOutHours + post
	return util.Interval{Start: start, End: start + total}
}
