// sim/sim.go
// Copyright(c) 2026 monte-carlo-sub002 contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

// Package sim wires the scheduler's components into the single pure
// entry point spec.md §5 describes: scenario + snapshot + overrides +
// seed in, Results out, with no hidden state carried between calls.
// Grounded on the teacher's sim/sim.go, which plays the same role for
// the ATC simulator (one Sim struct owning every subsystem, driven by
// a single Update loop) — reworked here from a long-lived stateful
// object into a one-shot pipeline, since spec.md §1 scopes out live
// simulation in favor of a single deterministic pass over a horizon.
package sim

import (
	"errors"
	"fmt"

	"github.com/brunoga/deep"
	"github.com/samber/lo"

	"github.com/ColbySawyer7/monte-carlo-sub002/demand"
	"github.com/ColbySawyer7/monte-carlo-sub002/dispatch"
	"github.com/ColbySawyer7/monte-carlo-sub002/distribution"
	"github.com/ColbySawyer7/monte-carlo-sub002/personnel"
	"github.com/ColbySawyer7/monte-carlo-sub002/rand"
	"github.com/ColbySawyer7/monte-carlo-sub002/resource"
	"github.com/ColbySawyer7/monte-carlo-sub002/result"
	"github.com/ColbySawyer7/monte-carlo-sub002/scenario"
	"github.com/ColbySawyer7/monte-carlo-sub002/snapshot"
	"github.com/ColbySawyer7/monte-carlo-sub002/squadlog"
)

// ErrInvalidScenario re-exports dispatch's sentinel so a caller of Run
// can errors.Is against it without importing dispatch directly.
var ErrInvalidScenario = dispatch.ErrInvalidScenario

// Run is the scheduler's one entry point. It loads raw into derived
// counts, applies overrides, processes personnel availability into
// per-specialty factors, initializes resource pools/queues, generates
// demand, dispatches it against those pools, and finalizes the run into
// Results. Two calls given the same scn, raw, overrides, and seed
// produce byte-identical Results (spec.md §1 determinism); log may be
// nil, in which case an error-level logger writing to stderr is used.
func Run(scn *scenario.Scenario, raw *snapshot.Raw, overrides *snapshot.Overrides, seed uint64, log *squadlog.Logger) (*result.Results, error) {
	if scn == nil || scn.HorizonHours < 0 {
		return nil, fmt.Errorf("%w: horizon_hours must not be negative", ErrInvalidScenario)
	}
	if log == nil {
		log = squadlog.New("error", "")
	}

	derived, err := snapshot.Load(raw, log)
	if err != nil {
		return nil, err
	}

	// Keep a deep copy of the loader's pristine counts for
	// Results.InitialResources: Apply below and the resource
	// initializer both build their own working copies, but the
	// reported "as loaded" snapshot must reflect neither.
	pristine, err := deep.Copy(derived)
	if err != nil {
		return nil, fmt.Errorf("snapshot: %w", err)
	}

	additionalPayload := lo.Uniq(lo.FlatMap(scn.MissionTypes, func(mt scenario.MissionType, _ int) []string {
		return mt.RequiredPayloadTypes
	}))
	applied := snapshot.Apply(derived, overrides, additionalPayload)

	factors := personnel.ProcessAll(scn.PersonnelAvailability)
	units := resource.Initialize(applied, factors, scn.DutyRequirements)

	// Demand generation's duty-alignment pass reads distribution means
	// from the scenario (spec.md §4.5 ODO case); it is given a deep copy
	// so the caller's scn stays untouched across the call.
	demandScenario, err := deep.Copy(scn)
	if err != nil {
		return nil, fmt.Errorf("scenario: %w", err)
	}

	src := rand.NewSeeded(seed)
	events, err := demand.Generate(demandScenario, units.Order, src)
	if err != nil {
		if errors.Is(err, distribution.ErrRandomnessExhausted) || errors.Is(err, distribution.ErrInvalidDistribution) {
			err = fmt.Errorf("%w: %w", ErrInvalidScenario, err)
		}
		return nil, err
	}
	log.Debug("demand generated", "events", len(events))

	d := dispatch.New(scn, units, log)
	if err := d.Run(events, src); err != nil {
		if errors.Is(err, distribution.ErrRandomnessExhausted) || errors.Is(err, distribution.ErrInvalidDistribution) {
			err = fmt.Errorf("%w: %w", ErrInvalidScenario, err)
		}
		return nil, err
	}

	res := result.Finalize(d, scn, units, pristine, overrides.Applied(), factors)
	log.Info("run complete", "missions_completed", res.Missions.Completed, "missions_rejected", res.Missions.Rejected)
	return res, nil
}
