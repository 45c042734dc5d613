// dispatch/entry.go
// Copyright(c) 2026 monte-carlo-sub002 contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package dispatch

// Entry is the tagged-sum timeline entry (spec.md §9 pattern: "a tagged
// sum, not a heterogeneous map"). Each concrete type below implements
// it with an unexported marker method so only this package can add
// variants.
type Entry interface {
	entry()
}

// Segment is one leg of a mission's process-time breakdown (spec.md §6).
type Segment struct {
	Name       string
	Start, End float64
}

// CrewAssignment names one crew member's committed interval within a
// timeline entry, resolved by {unit, specialty, id} rather than a
// pointer back into the crew queue (spec.md §9's arena-and-index note).
type CrewAssignment struct {
	ID         int
	Start, End float64
}

type MissionCrew struct {
	Pilots []CrewAssignment
	SOs    []CrewAssignment
	Intel  []CrewAssignment
}

// MissionEntry records one accepted mission's full segment breakdown
// and assigned crew.
type MissionEntry struct {
	Unit          string
	MissionType   string
	MissionNumber int
	DemandTime    float64
	FinishTime    float64
	CrewHoldStart float64
	CrewHoldEnd   float64
	Segments      []Segment
	Crew          MissionCrew
}

func (MissionEntry) entry() {}

// RejectionReason is the closed enum of causes named in spec.md §9;
// ordering of the const block mirrors the first-cause accounting order
// payload -> aircraft -> pilot -> so -> intel (spec.md §4.7.4).
type RejectionReason string

const (
	ReasonPayload  RejectionReason = "payload"
	ReasonAircraft RejectionReason = "aircraft"
	ReasonPilot    RejectionReason = "pilot"
	ReasonSO       RejectionReason = "so"
	ReasonIntel    RejectionReason = "intel"
)

// RejectionEntry records one rejected mission demand.
type RejectionEntry struct {
	Time        float64
	Unit        string
	MissionType string
	Reason      RejectionReason
}

func (RejectionEntry) entry() {}

// DutyEntry records one filled duty shift.
type DutyEntry struct {
	Unit         string
	DutyType     string
	DutyID       string
	Start, End   float64
	CanUsePilot  bool
	CanUseSO     bool
	CanUseIntel  bool
	Crew         MissionCrew

	// MissionAligned/OriginalWindow are set only for odo entries
	// (spec.md §6: "last two only for ODO").
	MissionAligned *bool
	OriginalWindow *Window
}

func (DutyEntry) entry() {}

// Window mirrors util.Interval for JSON-facing timeline output, kept
// as a distinct type so the timeline entry types do not expose util's
// Interval in their shape.
type Window struct {
	Start, End float64
}

// DutyRecoveryEntry records one crew member's post-duty recovery window.
type DutyRecoveryEntry struct {
	Unit      string
	CrewType  string
	CrewID    int
	Start, End float64
	Reason    string
}

func (DutyRecoveryEntry) entry() {}
