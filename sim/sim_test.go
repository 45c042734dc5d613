// sim/sim_test.go
// Copyright(c) 2026 monte-carlo-sub002 contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package sim

import (
	"testing"

	"github.com/ColbySawyer7/monte-carlo-sub002/distribution"
	"github.com/ColbySawyer7/monte-carlo-sub002/dispatch"
	"github.com/ColbySawyer7/monte-carlo-sub002/scenario"
	"github.com/ColbySawyer7/monte-carlo-sub002/snapshot"
)

func det(hours float64) *distribution.Spec {
	return &distribution.Spec{Type: distribution.Deterministic, ValueHours: &hours}
}

func aircraftRows(unit string, n int) []snapshot.Row {
	rows := make([]snapshot.Row, n)
	for i := range rows {
		rows[i] = snapshot.Row{"Unit": unit, "Status": "FMC"}
	}
	return rows
}

func staffingRows(unit, mos string, n int) []snapshot.Row {
	rows := make([]snapshot.Row, n)
	for i := range rows {
		rows[i] = snapshot.Row{"Unit Name": unit, "MOS Number": mos}
	}
	return rows
}

func payloadRows(unit, typ string, n int) []snapshot.Row {
	rows := make([]snapshot.Row, n)
	for i := range rows {
		rows[i] = snapshot.Row{"Unit": unit, "Type": typ}
	}
	return rows
}

// TestScenario1SingleMissionFullCrew is spec.md §8 end-to-end scenario 1.
func TestScenario1SingleMissionFullCrew(t *testing.T) {
	raw := &snapshot.Raw{}
	raw.Tables.Aircraft.Rows = aircraftRows("U", 1)
	raw.Tables.Staffing.Rows = append(staffingRows("U", "7318", 2), staffingRows("U", "7314", 1)...)
	raw.Tables.Payload.Rows = payloadRows("U", "X", 1)

	scn := &scenario.Scenario{
		HorizonHours: 24,
		MissionTypes: []scenario.MissionType{{
			Name:                 "ISR",
			FlightTime:           scenario.FlightTimeSpec{Dist: det(2)},
			RequiredAircrew:      scenario.Aircrew{Pilot: 1, SO: 1},
			RequiredPayloadTypes: []string{"X"},
		}},
		Demand: []scenario.DemandSpec{{
			MissionType:  "ISR",
			Kind:         scenario.DemandDeterministic,
			StartAtHours: 0,
			EveryHours:   24,
		}},
	}

	res, err := Run(scn, raw, nil, 1, nil)
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	if res.Missions.Requested != 1 || res.Missions.Started != 1 || res.Missions.Completed != 1 || res.Missions.Rejected != 0 {
		t.Fatalf("got %+v, want requested=1 started=1 completed=1 rejected=0", res.Missions)
	}
	count := 0
	for _, e := range res.Timeline {
		if _, ok := e.(dispatch.MissionEntry); ok {
			count++
		}
	}
	if count != 1 {
		t.Errorf("got %d mission timeline entries, want exactly 1", count)
	}
}

// TestScenario2AircraftBottleneck is spec.md §8 end-to-end scenario 2.
func TestScenario2AircraftBottleneck(t *testing.T) {
	raw := &snapshot.Raw{}
	raw.Tables.Aircraft.Rows = aircraftRows("U", 1)
	raw.Tables.Staffing.Rows = append(staffingRows("U", "7318", 20), staffingRows("U", "7314", 20)...)
	raw.Tables.Payload.Rows = payloadRows("U", "X", 20)

	scn := &scenario.Scenario{
		HorizonHours: 24,
		MissionTypes: []scenario.MissionType{{
			Name:                 "ISR",
			FlightTime:           scenario.FlightTimeSpec{Dist: det(3)},
			RequiredAircrew:      scenario.Aircrew{Pilot: 1, SO: 1},
			RequiredPayloadTypes: []string{"X"},
		}},
		Demand: []scenario.DemandSpec{{
			MissionType:  "ISR",
			Kind:         scenario.DemandDeterministic,
			StartAtHours: 0,
			EveryHours:   1,
		}},
	}

	res, err := Run(scn, raw, nil, 1, nil)
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	if res.Missions.Started+res.Missions.Rejected != 24 {
		t.Fatalf("got started=%d rejected=%d, want sum=24", res.Missions.Started, res.Missions.Rejected)
	}
	if res.Missions.Started < 7 || res.Missions.Started > 9 {
		t.Errorf("got started=%d, want roughly 8 with a single 3h-duration aircraft and hourly demand", res.Missions.Started)
	}
}

// TestScenario3PayloadBottleneck is spec.md §8 end-to-end scenario 3.
func TestScenario3PayloadBottleneck(t *testing.T) {
	raw := &snapshot.Raw{}
	raw.Tables.Aircraft.Rows = aircraftRows("U", 5)
	raw.Tables.Staffing.Rows = append(staffingRows("U", "7318", 5), staffingRows("U", "7314", 5)...)
	// No payload of type Y exists anywhere in the snapshot.

	scn := &scenario.Scenario{
		HorizonHours: 24,
		MissionTypes: []scenario.MissionType{{
			Name:                 "ISR",
			FlightTime:           scenario.FlightTimeSpec{Dist: det(2)},
			RequiredAircrew:      scenario.Aircrew{Pilot: 1, SO: 1},
			RequiredPayloadTypes: []string{"Y"},
		}},
		Demand: []scenario.DemandSpec{{
			MissionType:  "ISR",
			Kind:         scenario.DemandDeterministic,
			StartAtHours: 0,
			EveryHours:   24,
		}},
	}

	res, err := Run(scn, raw, nil, 1, nil)
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	if res.Missions.Rejected != res.Missions.Requested || res.Missions.Rejected == 0 {
		t.Fatalf("got %+v, want every requested mission rejected", res.Missions)
	}
	if res.Rejections["payload"] != res.Missions.Rejected {
		t.Errorf("got rejections[payload]=%d, want %d", res.Rejections["payload"], res.Missions.Rejected)
	}
}

// TestScenario6MissionSplitPolicy is spec.md §8 end-to-end scenario 6.
func TestScenario6MissionSplitPolicy(t *testing.T) {
	raw := &snapshot.Raw{}
	raw.Tables.Aircraft.Rows = append(aircraftRows("A", 50), aircraftRows("B", 50)...)
	raw.Tables.Staffing.Rows = append(
		append(staffingRows("A", "7318", 50), staffingRows("A", "7314", 50)...),
		append(staffingRows("B", "7318", 50), staffingRows("B", "7314", 50)...)...,
	)
	raw.Tables.Payload.Rows = append(payloadRows("A", "X", 50), payloadRows("B", "X", 50)...)

	scn := &scenario.Scenario{
		HorizonHours: 100,
		MissionTypes: []scenario.MissionType{{
			Name:                 "ISR",
			FlightTime:           scenario.FlightTimeSpec{Dist: det(0.5)},
			RequiredAircrew:      scenario.Aircrew{Pilot: 1, SO: 1},
			RequiredPayloadTypes: []string{"X"},
		}},
		Demand: []scenario.DemandSpec{{
			MissionType:  "ISR",
			Kind:         scenario.DemandDeterministic,
			StartAtHours: 0,
			EveryHours:   1,
		}},
		UnitPolicy: scenario.UnitPolicy{MissionSplit: map[string]float64{"A": 0.75, "B": 0.25}},
	}

	res, err := Run(scn, raw, nil, 1, nil)
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	countA, countB := 0, 0
	maxRun, curRun, lastUnit := 0, 0, ""
	for _, e := range res.Timeline {
		me, ok := e.(dispatch.MissionEntry)
		if !ok {
			continue
		}
		switch me.Unit {
		case "A":
			countA++
		case "B":
			countB++
		}
		if me.Unit == lastUnit {
			curRun++
		} else {
			curRun = 1
			lastUnit = me.Unit
		}
		if curRun > maxRun {
			maxRun = curRun
		}
	}
	if countA != 75 || countB != 25 {
		t.Errorf("got A=%d B=%d, want A=75 B=25", countA, countB)
	}
	if maxRun > 5 {
		t.Errorf("longest contiguous run = %d, want <= 5", maxRun)
	}
}

func TestRunRejectsNegativeHorizon(t *testing.T) {
	scn := &scenario.Scenario{HorizonHours: -1}
	_, err := Run(scn, &snapshot.Raw{}, nil, 1, nil)
	if err == nil {
		t.Fatal("expected an error for a negative horizon")
	}
}

func TestRunRoundTripsInitialResourcesWhenNoOverrides(t *testing.T) {
	raw := &snapshot.Raw{}
	raw.Tables.Aircraft.Rows = aircraftRows("U", 3)
	raw.Tables.Staffing.Rows = staffingRows("U", "7318", 2)

	scn := &scenario.Scenario{HorizonHours: 1}
	res, err := Run(scn, raw, nil, 1, nil)
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	if res.InitialResources.OverridesApplied {
		t.Errorf("expected overrides_applied=false with nil overrides")
	}
	if res.InitialResources.AircraftByUnit["U"] != 3 {
		t.Errorf("got %d, want 3 aircraft for unit U", res.InitialResources.AircraftByUnit["U"])
	}
}
