// resource/crew.go
// Copyright(c) 2026 monte-carlo-sub002 contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package resource

import (
	"sort"

	"github.com/ColbySawyer7/monte-carlo-sub002/scenario"
	"github.com/ColbySawyer7/monte-carlo-sub002/util"
)

// Distribution policy for member selection (spec.md §4.7.3).
const (
	DistributionConcentrate = "concentrate"
	DistributionDistribute  = "distribute"
)

// CrewMember is one numbered seat in a CrewQueue, tracking every
// interval during which it is unavailable. Lists are kept unsorted and
// scanned linearly; a run's per-member interval count stays small
// (bounded by the number of missions/duties a single member can be
// assigned across the horizon), so this trades a theoretically faster
// interval tree for the straightforward code the teacher favors
// elsewhere for small bounded collections.
type CrewMember struct {
	ID           int
	Busy         []util.Interval
	CrewRest     []util.Interval
	Duty         []dutyInterval
	DutyRecovery []util.Interval

	InRotationPool bool
	ShiftPhase     int // 0 or 1, meaningful only when the queue's shift split is enabled

	// LastUsed is the end time of this member's most recent assignment,
	// used to order candidates under the distribute/concentrate policies.
	LastUsed float64
}

// dutyInterval tags a duty interval with the duty type that reserved
// it, so the availability timeline can attribute unavailable hours to
// the right bucket (odo/sdo/sdnco).
type dutyInterval struct {
	util.Interval
	Kind string
}

func (m *CrewMember) busyAt(t float64) bool {
	for _, iv := range m.Busy {
		if iv.Contains(t) {
			return true
		}
	}
	for _, iv := range m.CrewRest {
		if iv.Contains(t) {
			return true
		}
	}
	for _, iv := range m.Duty {
		if iv.Contains(t) {
			return true
		}
	}
	for _, iv := range m.DutyRecovery {
		if iv.Contains(t) {
			return true
		}
	}
	return false
}

func (m *CrewMember) overlapsAny(start, end float64) bool {
	window := util.Interval{Start: start, End: end}
	for _, iv := range m.Busy {
		if iv.Overlaps(window) {
			return true
		}
	}
	for _, iv := range m.CrewRest {
		if iv.Overlaps(window) {
			return true
		}
	}
	for _, iv := range m.Duty {
		if iv.Overlaps(window) {
			return true
		}
	}
	for _, iv := range m.DutyRecovery {
		if iv.Overlaps(window) {
			return true
		}
	}
	return false
}

// CrewQueue is one (unit, specialty) pool of numbered crew members,
// plus the work-schedule/rest/shift-split/duty-rotation policy that
// governs their eligibility (spec.md §3, §4.7.3).
type CrewQueue struct {
	Unit      string
	Specialty string
	Members   []*CrewMember

	DailyCrewRestHours float64
	Schedule           scenario.WorkSchedule
	ShiftSplitEnabled  bool

	// The duty-rotation sub-pool sized by the resource initializer
	// (spec.md §4.6) is not kept as a count on the queue: SetRotationPool
	// marks the first n members (by ID) InRotationPool.

	Allocations         int
	Denials             int
	BusyTime            float64
	ExpectedDurationSum float64
}

// NewCrewQueue builds a queue of total members. With shift split
// enabled, the last int(total × ShiftSplitPercent) members by ID are put
// in shift phase 1 and the rest stay in phase 0.
func NewCrewQueue(unit, specialty string, total int, restHours float64, schedule scenario.WorkSchedule) *CrewQueue {
	q := &CrewQueue{
		Unit:               unit,
		Specialty:          specialty,
		DailyCrewRestHours: restHours,
		Schedule:           schedule,
		ShiftSplitEnabled:  schedule.ShiftSplit,
	}
	shift2Count := 0
	if schedule.ShiftSplit {
		shift2Count = int(float64(total) * schedule.ShiftSplitPercent)
	}
	for i := 0; i < total; i++ {
		m := &CrewMember{ID: i + 1}
		if schedule.ShiftSplit && i >= total-shift2Count {
			m.ShiftPhase = 1
		}
		q.Members = append(q.Members, m)
	}
	return q
}

// SetRotationPool marks the first n members (by ID) eligible for
// rotating duty assignments, clamped to the queue's size.
func (q *CrewQueue) SetRotationPool(n int) {
	if n > len(q.Members) {
		n = len(q.Members)
	}
	for i, m := range q.Members {
		m.InRotationPool = i < n
	}
}

// isDayOff evaluates the work-schedule cycle as a pure function of
// absolute simulation time rather than a precomputed interval list:
// day index mod (days_on+days_off),
// offset by the member's shift-split stagger.
func (q *CrewQueue) isDayOff(m *CrewMember, t float64) bool {
	cycle := q.Schedule.DaysOn + q.Schedule.DaysOff
	if cycle <= 0 {
		return false
	}
	dayIndex := int(t / 24)
	stagger := 0
	if m.ShiftPhase == 1 {
		stagger = q.Schedule.StaggerDaysOff
	}
	pos := (dayIndex + stagger) % cycle
	if pos < 0 {
		pos += cycle
	}
	return pos >= q.Schedule.DaysOn
}

// AvailableAt counts members unavailable at t by none of busy,
// crew-rest, duty, duty-recovery, or (unless ignoreSchedule) day-off.
func (q *CrewQueue) AvailableAt(t float64, ignoreSchedule bool) int {
	n := 0
	for _, m := range q.Members {
		if m.busyAt(t) {
			continue
		}
		if !ignoreSchedule && q.isDayOff(m, t) {
			continue
		}
		n++
	}
	return n
}

// DayOffCountAt counts members whose work-schedule cycle puts them on
// a day off at t, independent of other unavailability reasons, for the
// availability timeline's work_schedule bucket.
func (q *CrewQueue) DayOffCountAt(t float64) int {
	n := 0
	for _, m := range q.Members {
		if q.isDayOff(m, t) {
			n++
		}
	}
	return n
}

// DutyCountAt counts members with a duty interval of the given kind
// covering t, for the availability timeline's odo/sdo/sdnco buckets.
func (q *CrewQueue) DutyCountAt(t float64, kind string) int {
	n := 0
	for _, m := range q.Members {
		for _, d := range m.Duty {
			if d.Kind == kind && d.Contains(t) {
				n++
				break
			}
		}
	}
	return n
}

// Assignment is one crew member's committed interval, returned by
// TryAcquireShifts.
type Assignment struct {
	ID         int
	Start, End float64
}

// TryAcquireShifts implements spec.md §4.7.3: selects len(shifts)
// members (one per shift, sequential hand-off or concurrent start) and
// commits their busy/crew-rest/duty/duty-recovery intervals. Returns
// (nil, false) if insufficient eligible members exist for any shift,
// committing nothing in that case.
func (q *CrewQueue) TryAcquireShifts(
	start float64,
	shifts []float64,
	isDuty bool,
	dutyKind string,
	sequential bool,
	ignoreSchedule bool,
	recoveryHours float64,
	distributionPolicy string,
	rotationOnly bool,
	expectedDuration float64,
) ([]Assignment, bool) {
	type window struct{ start, end float64 }
	windows := make([]window, len(shifts))
	t := start
	for i, d := range shifts {
		if sequential {
			windows[i] = window{t, t + d}
			t += d
		} else {
			windows[i] = window{start, start + d}
		}
	}

	order := q.selectionOrder(distributionPolicy)

	used := map[int]bool{}
	chosen := make([]int, len(windows))
	for i, w := range windows {
		idx := -1
		for _, candidate := range order {
			if used[candidate] {
				continue
			}
			m := q.Members[candidate]
			if rotationOnly && !m.InRotationPool {
				continue
			}
			if !ignoreSchedule && q.isDayOff(m, w.start) {
				continue
			}
			if m.overlapsAny(w.start, w.end) {
				continue
			}
			idx = candidate
			break
		}
		if idx == -1 {
			return nil, false
		}
		used[idx] = true
		chosen[i] = idx
	}

	assignments := make([]Assignment, len(windows))
	for i, w := range windows {
		m := q.Members[chosen[i]]
		m.Busy = append(m.Busy, util.Interval{Start: w.start, End: w.end})
		m.LastUsed = w.end
		m.CrewRest = append(m.CrewRest, util.Interval{Start: w.end, End: w.end + q.DailyCrewRestHours})
		if isDuty {
			m.Duty = append(m.Duty, dutyInterval{Interval: util.Interval{Start: w.start, End: w.end}, Kind: dutyKind})
			if recoveryHours > 0 {
				m.DutyRecovery = append(m.DutyRecovery, util.Interval{Start: w.end, End: w.end + recoveryHours})
			}
		}
		q.Allocations++
		q.BusyTime += w.end - w.start
		q.ExpectedDurationSum += expectedDuration / float64(len(windows))
		assignments[i] = Assignment{ID: m.ID, Start: w.start, End: w.end}
	}
	return assignments, true
}

// selectionOrder returns member indices ordered by preference:
// "concentrate" favors members most recently used (descending
// LastUsed), "distribute" favors least-recently used (ascending
// LastUsed, spec.md §4.7.3 "fair spreading"). Ties break by ID for
// determinism.
func (q *CrewQueue) selectionOrder(policy string) []int {
	order := make([]int, len(q.Members))
	for i := range order {
		order[i] = i
	}
	distribute := policy != DistributionConcentrate
	sort.SliceStable(order, func(a, b int) bool {
		ma, mb := q.Members[order[a]], q.Members[order[b]]
		if ma.LastUsed != mb.LastUsed {
			if distribute {
				return ma.LastUsed < mb.LastUsed
			}
			return ma.LastUsed > mb.LastUsed
		}
		return ma.ID < mb.ID
	})
	return order
}

// Deny records a denial against this queue, for utilization reporting.
func (q *CrewQueue) Deny() {
	q.Denials++
}

// Utilization mirrors EquipmentPool.Utilization over the queue's member count.
func (q *CrewQueue) Utilization(horizon float64) float64 {
	denom := float64(len(q.Members)) * horizon
	if denom <= 0 {
		return 0
	}
	u := q.BusyTime / denom
	if u > 1 {
		return 1
	}
	return u
}

// Efficiency mirrors EquipmentPool.Efficiency.
func (q *CrewQueue) Efficiency() float64 {
	if q.ExpectedDurationSum <= 0 {
		return 0
	}
	return q.BusyTime / q.ExpectedDurationSum
}
