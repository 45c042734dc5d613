// dispatch/dispatch.go
// Copyright(c) 2026 monte-carlo-sub002 contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

// Package dispatch implements spec.md §4.7: the single-pass event
// dispatcher that admits or rejects mission demands and fills or
// drops duty demands, with duty-lookahead admission control and ODO
// dynamic mission alignment. Grounded on the teacher's sim package (a
// single struct owning world state, walked by one central dispatch
// loop — see sim/sim.go's tick-driven aircraft state machine) adapted
// from per-tick aircraft state transitions to per-event resource
// admission checks.
package dispatch

import (
	"fmt"
	"sort"

	"github.com/ColbySawyer7/monte-carlo-sub002/demand"
	"github.com/ColbySawyer7/monte-carlo-sub002/distribution"
	"github.com/ColbySawyer7/monte-carlo-sub002/rand"
	"github.com/ColbySawyer7/monte-carlo-sub002/resource"
	"github.com/ColbySawyer7/monte-carlo-sub002/scenario"
	"github.com/ColbySawyer7/monte-carlo-sub002/squadlog"
	"github.com/ColbySawyer7/monte-carlo-sub002/util"
)

// Counters tallies requested/started/completed/rejected for the whole
// run or one mission type (spec.md §6 missions / by_type).
type Counters struct {
	Requested int
	Started   int
	Completed int
	Rejected  int
}

// DutyCounters tallies requested/filled/unfilled (spec.md §6 duties).
type DutyCounters struct {
	Requested int
	Filled    int
	Unfilled  int
}

type acceptedMission struct {
	Unit           string
	PreflightStart float64
	PostflightEnd  float64
	Type           string
}

// Dispatcher owns one run's mutable state: the accepted-mission record
// used for ODO alignment and the per-(unit,duty_type) rotating MOS
// index, plus the accumulating counters and timeline (spec.md §4.7).
type Dispatcher struct {
	Scenario *scenario.Scenario
	Units    *resource.Units
	Log      *squadlog.Logger

	Timeline   []Entry
	Missions   Counters
	ByType     map[string]Counters
	Rejections map[RejectionReason]int
	Duties     DutyCounters

	accepted       []acceptedMission
	dutyCycleIndex map[string]int
	missionCounter int
}

// New builds a Dispatcher over the given scenario and initialized
// resource pools/queues.
func New(scn *scenario.Scenario, units *resource.Units, log *squadlog.Logger) *Dispatcher {
	return &Dispatcher{
		Scenario:       scn,
		Units:          units,
		Log:            log,
		ByType:         map[string]Counters{},
		Rejections:     map[RejectionReason]int{},
		dutyCycleIndex: map[string]int{},
	}
}

// Run walks events in order, dispatching each mission or duty demand
// and aborting once event.Time exceeds the scenario horizon.
func (d *Dispatcher) Run(events []demand.Event, src rand.Source) error {
	for i, ev := range events {
		if ev.Time > d.Scenario.HorizonHours {
			break
		}
		switch ev.Kind {
		case demand.MissionDemand:
			if err := d.dispatchMission(ev, events, i, src); err != nil {
				return err
			}
		case demand.DutyDemand:
			d.dispatchDuty(ev, events, i, src)
		}
	}
	return nil
}

func (d *Dispatcher) missionType(ev demand.Event) (scenario.MissionType, bool) {
	if ev.MissionTypeIndex < 0 || ev.MissionTypeIndex >= len(d.Scenario.MissionTypes) {
		return scenario.MissionType{}, false
	}
	mt := d.Scenario.MissionTypes[ev.MissionTypeIndex]
	if mt.Name != ev.MissionType {
		// Defensive: name mismatch means the event wasn't resolved
		// against this scenario's mission type list; fall back to a
		// linear scan by name.
		for _, cand := range d.Scenario.MissionTypes {
			if cand.Name == ev.MissionType {
				return cand, true
			}
		}
		return scenario.MissionType{}, false
	}
	return mt, true
}

func (d *Dispatcher) dispatchMission(ev demand.Event, events []demand.Event, idx int, src rand.Source) error {
	d.Missions.Requested++
	byType := d.ByType[ev.MissionType]
	byType.Requested++
	d.ByType[ev.MissionType] = byType

	mt, ok := d.missionType(ev)
	if !ok {
		return fmt.Errorf("%w: unknown mission type %q", ErrInvalidScenario, ev.MissionType)
	}
	unit := ev.AssignedUnit
	pt := d.Scenario.ProcessTimes

	pre, err := distribution.Sample(pt.Preflight, src)
	if err != nil {
		return err
	}
	post, err := distribution.Sample(pt.Postflight, src)
	if err != nil {
		return err
	}
	turn, err := distribution.Sample(pt.Turnaround, src)
	if err != nil {
		return err
	}
	flight, err := distribution.Sample(mt.FlightTime.Dist, src)
	if err != nil {
		return err
	}
	mount := 0.0
	for _, payloadType := range mt.RequiredPayloadTypes {
		m, err := distribution.Sample(pt.MountTimes[payloadType], src)
		if err != nil {
			return err
		}
		mount += m
	}
	transitIn, transitOut := mt.FlightTime.TransitInHours, mt.FlightTime.TransitOutHours

	total := pre + mount + transitIn + flight + transitOut + post + turn

	var crewHoldStart, crewHoldEnd float64
	if pt.HoldCrew() {
		crewHoldStart, crewHoldEnd = ev.Time, ev.Time+total
	} else {
		crewHoldStart = ev.Time + pre + mount
		crewHoldEnd = crewHoldStart + transitIn + flight + transitOut
	}
	crewHoldDuration := crewHoldEnd - crewHoldStart

	reserved := map[string]int{}
	if !ev.DisableDutyLookahead && !d.Scenario.DutyRequirements.Lookahead.Disabled {
		reserved = d.lookaheadReservations(events, idx+1, ev.Time)
	}

	// Admission checks, in fixed order: payload -> aircraft -> pilot -> so -> intel.
	payloadPools := d.Units.PayloadPools[unit]
	for _, payloadType := range mt.RequiredPayloadTypes {
		pool := payloadPools[payloadType]
		if pool == nil || pool.AvailableAt(ev.Time) < 1 {
			return d.reject(ev, ReasonPayload, byType)
		}
	}
	aircraftPool := d.Units.AircraftPool[unit]
	if aircraftPool == nil || aircraftPool.AvailableAt(ev.Time) < 1 {
		return d.reject(ev, ReasonAircraft, byType)
	}
	crewQueues := d.Units.CrewQueues[unit]
	type specReq struct {
		name     string
		required int
		reason   RejectionReason
	}
	reqs := []specReq{
		{"pilot", mt.RequiredAircrew.Pilot, ReasonPilot},
		{"so", mt.RequiredAircrew.SO, ReasonSO},
		{"intel", mt.RequiredAircrew.Intel, ReasonIntel},
	}
	for _, r := range reqs {
		if r.required <= 0 {
			continue
		}
		q := crewQueues[r.name]
		if q == nil {
			return d.reject(ev, r.reason, byType)
		}
		if q.AvailableAt(ev.Time, ev.IgnoreWorkSchedule)-reserved[r.name] < r.required {
			return d.reject(ev, r.reason, byType)
		}
	}

	// Commit.
	for _, payloadType := range mt.RequiredPayloadTypes {
		payloadPools[payloadType].Acquire(ev.Time, total, distribution.Mean(pt.MountTimes[payloadType]))
	}
	aircraftPool.Acquire(ev.Time, total, expectedMissionDuration(mt, pt))

	mc := MissionCrew{}
	for _, r := range reqs {
		if r.required <= 0 {
			continue
		}
		q := crewQueues[r.name]
		shifts, sequential := crewShifts(mt, r.name, r.required, crewHoldDuration)
		assignments, ok := q.TryAcquireShifts(crewHoldStart, shifts, false, "", sequential, ev.IgnoreWorkSchedule, 0, mt.EffectiveCrewDistribution(), false, crewHoldDuration*float64(r.required))
		if !ok {
			return d.reject(ev, r.reason, byType)
		}
		out := make([]CrewAssignment, len(assignments))
		for i, a := range assignments {
			out[i] = CrewAssignment{ID: a.ID, Start: a.Start, End: a.End}
		}
		switch r.name {
		case "pilot":
			mc.Pilots = out
		case "so":
			mc.SOs = out
		case "intel":
			mc.Intel = out
		}
	}

	d.missionCounter++
	segStart := ev.Time
	segments := []Segment{
		{Name: "preflight", Start: segStart, End: segStart + pre},
	}
	segStart += pre
	segments = append(segments, Segment{Name: "mount", Start: segStart, End: segStart + mount})
	segStart += mount
	segments = append(segments, Segment{Name: "transit_in", Start: segStart, End: segStart + transitIn})
	segStart += transitIn
	segments = append(segments, Segment{Name: "flight", Start: segStart, End: segStart + flight})
	segStart += flight
	segments = append(segments, Segment{Name: "transit_out", Start: segStart, End: segStart + transitOut})
	segStart += transitOut
	segments = append(segments, Segment{Name: "postflight", Start: segStart, End: segStart + post})
	segStart += post
	segments = append(segments, Segment{Name: "turnaround", Start: segStart, End: segStart + turn})
	segStart += turn

	finish := segStart
	d.Timeline = append(d.Timeline, MissionEntry{
		Unit:          unit,
		MissionType:   ev.MissionType,
		MissionNumber: d.missionCounter,
		DemandTime:    ev.Time,
		FinishTime:    finish,
		CrewHoldStart: crewHoldStart,
		CrewHoldEnd:   crewHoldEnd,
		Segments:      segments,
		Crew:          mc,
	})

	d.accepted = append(d.accepted, acceptedMission{
		Unit:           unit,
		PreflightStart: ev.Time,
		PostflightEnd:  ev.Time + pre + mount + transitIn + flight + transitOut + post,
		Type:           ev.MissionType,
	})

	d.Missions.Started++
	byType.Started++
	d.ByType[ev.MissionType] = byType
	return nil
}

func (d *Dispatcher) reject(ev demand.Event, reason RejectionReason, byType Counters) error {
	d.Rejections[reason]++
	d.Missions.Rejected++
	byType.Rejected++
	d.ByType[ev.MissionType] = byType
	d.Timeline = append(d.Timeline, RejectionEntry{
		Time:        ev.Time,
		Unit:        ev.AssignedUnit,
		MissionType: ev.MissionType,
		Reason:      reason,
	})
	return nil
}

// lookaheadReservations counts, per specialty, non-ODO duty demands in
// events[from:] whose time is within [t, t+lookahead) and whose
// requires_<specialty> is exactly 1 (spec.md §4.7.1 step 3).
func (d *Dispatcher) lookaheadReservations(events []demand.Event, from int, t float64) map[string]int {
	window := d.Scenario.DutyRequirements.Lookahead.EffectiveHours()
	reserved := map[string]int{}
	for i := from; i < len(events); i++ {
		ev := events[i]
		if ev.Kind != demand.DutyDemand {
			continue
		}
		if ev.Time < t {
			continue
		}
		if ev.Time >= t+window {
			break
		}
		if ev.DutyType == scenario.DutyTypeODO {
			continue
		}
		if ev.RequiresPilot == 1 {
			reserved["pilot"]++
		}
		if ev.RequiresSO == 1 {
			reserved["so"]++
		}
		if ev.RequiresIntel == 1 {
			reserved["intel"]++
		}
	}
	return reserved
}

// crewShifts resolves the per-member shift durations for one
// specialty's crew acquisition: the mission type's crew_rotation shift
// list when enabled and populated, else `required` identical shifts of
// the full hold duration.
func crewShifts(mt scenario.MissionType, specialty string, required int, holdDuration float64) ([]float64, bool) {
	if mt.CrewRotation != nil && mt.CrewRotation.Enabled {
		var shifts []float64
		switch specialty {
		case "pilot":
			shifts = mt.CrewRotation.PilotShifts
		case "so":
			shifts = mt.CrewRotation.SOShifts
		case "intel":
			shifts = mt.CrewRotation.IntelShifts
		}
		if len(shifts) > 0 {
			return shifts, mt.CrewRotation.Sequential
		}
	}
	shifts := make([]float64, required)
	for i := range shifts {
		shifts[i] = holdDuration
	}
	return shifts, false
}

// expectedMissionDuration returns the theoretical-mean total duration
// used as the aircraft pool's efficiency denominator contribution.
func expectedMissionDuration(mt scenario.MissionType, pt scenario.ProcessTimes) float64 {
	mount := 0.0
	for _, payloadType := range mt.RequiredPayloadTypes {
		mount += distribution.Mean(pt.MountTimes[payloadType])
	}
	return distribution.Mean(pt.Preflight) + mount + mt.FlightTime.TransitInHours +
		distribution.Mean(mt.FlightTime.Dist) + mt.FlightTime.TransitOutHours +
		distribution.Mean(pt.Postflight) + distribution.Mean(pt.Turnaround)
}

// eligibleUnits returns the units that participate in duty dispatch:
// those named with a positive unit_policy.mission_split weight, or
// every known unit when no split is configured (spec.md §4.7.2: "Filter
// to units with nonzero split weight").
func (d *Dispatcher) eligibleUnits() []string {
	split := d.Scenario.UnitPolicy.MissionSplit
	if len(split) == 0 {
		return d.Units.Order
	}
	var out []string
	for _, u := range d.Units.Order {
		if split[u] > 0 {
			out = append(out, u)
		}
	}
	return out
}

func (d *Dispatcher) dispatchDuty(ev demand.Event, events []demand.Event, idx int, src rand.Source) {
	for _, unit := range d.eligibleUnits() {
		d.Duties.Requested++
		dutyID := formatDutyID(ev.Time, ev.StartHour, ev.ShiftsPerDay)

		start, end := ev.Time, ev.Time+ev.Duration
		var alignedPtr *bool
		var originalWindow *Window

		if ev.DutyType == scenario.DutyTypeODO {
			window, aligned, original := d.alignODOWindow(unit, ev, events, idx, src)
			if !aligned {
				d.Duties.Unfilled++
				continue
			}
			start, end = window.Start, window.End
			a := true
			alignedPtr = &a
			originalWindow = &Window{Start: original.Start, End: original.End}
		}

		eligible := eligibleSpecialties(ev)
		if len(eligible) == 0 {
			d.Duties.Unfilled++
			continue
		}

		key := unit + "|" + ev.DutyType
		cycleStart := d.dutyCycleIndex[key]

		filled := false
		var filledSpecialty string
		var assignment resource.Assignment
		ignoreSchedule := !ev.RespectWorkSchedule
		for step := 0; step < len(eligible); step++ {
			specialty := eligible[(cycleStart+step)%len(eligible)]
			q := d.Units.CrewQueues[unit][specialty]
			if q == nil {
				continue
			}
			assignments, ok := q.TryAcquireShifts(start, []float64{end - start}, true, ev.DutyType, false, ignoreSchedule, ev.DutyRecoveryHours, resource.DistributionDistribute, isRotatingDutyType(ev.DutyType), end-start)
			if !ok {
				continue
			}
			filled = true
			filledSpecialty = specialty
			assignment = resource.Assignment(assignments[0])
			d.dutyCycleIndex[key] = (cycleStart + step + 1) % len(eligible)
			break
		}

		if !filled {
			d.Duties.Unfilled++
			continue
		}

		d.Duties.Filled++
		mc := MissionCrew{}
		ca := CrewAssignment{ID: assignment.ID, Start: assignment.Start, End: assignment.End}
		switch filledSpecialty {
		case "pilot":
			mc.Pilots = []CrewAssignment{ca}
		case "so":
			mc.SOs = []CrewAssignment{ca}
		case "intel":
			mc.Intel = []CrewAssignment{ca}
		}

		d.Timeline = append(d.Timeline, DutyEntry{
			Unit:           unit,
			DutyType:       ev.DutyType,
			DutyID:         dutyID,
			Start:          start,
			End:            end,
			CanUsePilot:    ev.RequiresPilot == 1,
			CanUseSO:       ev.RequiresSO == 1,
			CanUseIntel:    ev.RequiresIntel == 1,
			Crew:           mc,
			MissionAligned: alignedPtr,
			OriginalWindow: originalWindow,
		})

		if ev.DutyRecoveryHours > 0 {
			d.Timeline = append(d.Timeline, DutyRecoveryEntry{
				Unit:     unit,
				CrewType: filledSpecialty,
				CrewID:   assignment.ID,
				Start:    assignment.End,
				End:      assignment.End + ev.DutyRecoveryHours,
				Reason:   ev.DutyType,
			})
		}
	}
}

func isRotatingDutyType(name string) bool {
	return name == scenario.DutyTypeODO
}

func eligibleSpecialties(ev demand.Event) []string {
	var out []string
	if ev.RequiresPilot == 1 {
		out = append(out, "pilot")
	}
	if ev.RequiresSO == 1 {
		out = append(out, "so")
	}
	if ev.RequiresIntel == 1 {
		out = append(out, "intel")
	}
	sort.Strings(out)
	return out
}

// formatDutyID derives day[-shift] using integer-minute arithmetic
// (SPEC_FULL.md §9 decision 4) rather than real-number division. The
// shift length is 1440/shifts_per_day minutes with integer division;
// whether shifts_per_day divides 1440 evenly is not checked.
func formatDutyID(t, startHour float64, shiftsPerDay int) string {
	const dayMinutes = 1440
	tMin := int(t*60 + 0.5)
	startMin := int(startHour*60 + 0.5)
	delta := tMin - startMin
	dayLen := dayMinutes
	day := floorDiv(delta, dayLen) + 1

	if shiftsPerDay <= 1 {
		return fmt.Sprintf("%d", day)
	}
	shiftLen := dayMinutes / shiftsPerDay
	if shiftLen <= 0 {
		shiftLen = 1
	}
	posInDay := mod(delta, dayLen)
	shiftIdx := posInDay/shiftLen + 1
	return fmt.Sprintf("%d-%d", day, shiftIdx)
}

func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}

func mod(a, b int) int {
	m := a % b
	if m < 0 {
		m += b
	}
	return m
}

// alignODOWindow implements spec.md §4.7.2 step 2: find accepted
// missions and upcoming mission demands for unit whose estimated span
// intersects [ev.Time, ev.Time+ev.Duration); shrink the window to the
// intersection, or report no alignment.
func (d *Dispatcher) alignODOWindow(unit string, ev demand.Event, events []demand.Event, idx int, src rand.Source) (util.Interval, bool, util.Interval) {
	shiftWindow := util.Interval{Start: ev.Time, End: ev.Time + ev.Duration}
	var spans []util.Interval

	for _, am := range d.accepted {
		if am.Unit != unit {
			continue
		}
		spans = append(spans, util.Interval{Start: am.PreflightStart, End: am.PostflightEnd})
	}

	for i := idx + 1; i < len(events); i++ {
		future := events[i]
		if future.Kind != demand.MissionDemand || future.AssignedUnit != unit {
			continue
		}
		mt, ok := d.missionType(future)
		if !ok {
			continue
		}
		span, err := d.estimateMissionSpan(mt, future.Time, src)
		if err != nil {
			continue
		}
		spans = append(spans, span)
	}

	merged := util.MergeIntervals(spans)
	var minStart, maxEnd float64
	found := false
	for _, s := range merged {
		if iv, ok := s.Intersect(shiftWindow); ok {
			if !found || iv.Start < minStart {
				minStart = iv.Start
			}
			if !found || iv.End > maxEnd {
				maxEnd = iv.End
			}
			found = true
		}
	}
	if !found {
		return util.Interval{}, false, util.Interval{}
	}
	return util.Interval{Start: minStart, End: maxEnd}, true, shiftWindow
}

// estimateMissionSpan samples (not averages) a mission's preflight
// through postflight duration, per spec.md §4.7.2 step 2's "duration
// estimated via a fresh sample".
func (d *Dispatcher) estimateMissionSpan(mt scenario.MissionType, start float64, src rand.Source) (util.Interval, error) {
	pt := d.Scenario.ProcessTimes
	pre, err := distribution.Sample(pt.Preflight, src)
	if err != nil {
		return util.Interval{}, err
	}
	post, err := distribution.Sample(pt.Postflight, src)
	if err != nil {
		return util.Interval{}, err
	}
	flight, err := distribution.Sample(mt.FlightTime.Dist, src)
	if err != nil {
		return util.Interval{}, err
	}
	mount := 0.0
	for _, payloadType := range mt.RequiredPayloadTypes {
		m, err := distribution.Sample(pt.MountTimes[payloadType], src)
		if err != nil {
			return util.Interval{}, err
		}
		mount += m
	}
	total := pre + mount + mt.FlightTime.TransitInHours + flight + mt.FlightTime.TransitOutHours + post
	return util.Interval{Start: start, End: start + total}, nil
}
