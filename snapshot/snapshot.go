// snapshot/snapshot.go
// Copyright(c) 2026 monte-carlo-sub002 contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

// Package snapshot implements spec.md §4.2/§4.3: loading a tabular
// resource snapshot into per-unit counts and applying operator
// overrides on top of the derived counts. Grounded on the teacher's
// aviation.Database loader (table-of-rows -> indexed lookup structures)
// and on iancoleman/orderedmap (OrderedUnitMap) for deterministic unit
// iteration.
package snapshot

import (
	"math"
	"sort"

	"github.com/iancoleman/orderedmap"

	"github.com/ColbySawyer7/monte-carlo-sub002/squadlog"
)

// Row is one generic record from a snapshot table. Only the columns
// named in spec.md §4.2 are read; anything else is ignored.
type Row map[string]any

// Table is one named snapshot table: a flat list of rows.
type Table struct {
	Rows []Row `json:"rows"`
}

// Raw is the wire shape of Input 2 (spec.md §6): four named tables.
type Raw struct {
	Tables struct {
		Aircraft Table `json:"v_aircraft"`
		Payload  Table `json:"v_payload"`
		Staffing Table `json:"v_staffing"`
		Unit     Table `json:"v_unit"`
	} `json:"tables"`
}

// mosToSpecialty maps the three recognized MOS numbers (spec.md
// GLOSSARY) to specialty keys; anything else is ignored.
var mosToSpecialty = map[string]string{
	"7318": "pilot",
	"7314": "so",
	"0231": "intel",
}

const unknownUnit = "UNKNOWN"

// Derived is the loader's output: per-unit resource counts before any
// override is applied.
type Derived struct {
	Units         []string
	AircraftByUnit map[string]int
	PayloadByUnit  map[string]map[string]int // unit -> payload type -> count
	StaffingByUnit map[string]map[string]int // unit -> specialty -> count
}

// Load projects raw into Derived per spec.md §4.2. Returns
// ErrInvalidSnapshot if raw is nil or yields zero units.
func Load(raw *Raw, log *squadlog.Logger) (*Derived, error) {
	if raw == nil {
		return nil, ErrInvalidSnapshot
	}

	aircraftByUnit := map[string]int{}
	for _, r := range raw.Tables.Aircraft.Rows {
		if status, _ := r["Status"].(string); status != "FMC" {
			continue
		}
		unit, _ := r["Unit"].(string)
		if unit == "" {
			continue
		}
		aircraftByUnit[unit]++
	}

	payloadByUnit := map[string]map[string]int{}
	for _, r := range raw.Tables.Payload.Rows {
		typ, _ := r["Type"].(string)
		if typ == "" {
			continue
		}
		unit, _ := r["Unit"].(string)
		if unit == "" {
			unit = unknownUnit
		}
		if payloadByUnit[unit] == nil {
			payloadByUnit[unit] = map[string]int{}
		}
		payloadByUnit[unit][typ]++
	}

	staffingByUnit := map[string]map[string]int{}
	for _, r := range raw.Tables.Staffing.Rows {
		mos, _ := r["MOS Number"].(string)
		specialty, ok := mosToSpecialty[mos]
		if !ok {
			continue
		}
		unit, _ := r["Unit Name"].(string)
		if unit == "" {
			continue
		}
		if staffingByUnit[unit] == nil {
			staffingByUnit[unit] = map[string]int{}
		}
		staffingByUnit[unit][specialty]++
	}

	unitSet := map[string]bool{}
	for _, r := range raw.Tables.Unit.Rows {
		if name, ok := r["Name"].(string); ok && name != "" {
			unitSet[name] = true
		}
	}
	for u := range aircraftByUnit {
		unitSet[u] = true
	}
	for u := range payloadByUnit {
		unitSet[u] = true
	}
	for u := range staffingByUnit {
		unitSet[u] = true
	}

	units := make([]string, 0, len(unitSet))
	for u := range unitSet {
		units = append(units, u)
	}
	sort.Strings(units)

	if len(units) == 0 {
		return nil, ErrInvalidSnapshot
	}

	if log != nil {
		log.Debugf("loaded snapshot: %d units", len(units))
	}

	return &Derived{
		Units:          units,
		AircraftByUnit: aircraftByUnit,
		PayloadByUnit:  payloadByUnit,
		StaffingByUnit: staffingByUnit,
	}, nil
}

// UnitOverride is one entry of overrides.units (spec.md §6 Input 3).
type UnitOverride struct {
	Aircraft        *float64           `json:"aircraft,omitempty"`
	Pilot           *float64           `json:"pilot,omitempty"`
	SO              *float64           `json:"so,omitempty"`
	Intel           *float64           `json:"intel,omitempty"`
	PayloadByType   map[string]float64 `json:"payload_by_type,omitempty"`
	PayloadPerType  *float64           `json:"payload_per_type,omitempty"`
}

// Overrides is Input 3 in full.
type Overrides struct {
	Units map[string]UnitOverride `json:"units"`
}

// Applied reports whether o carries any override entries, mirroring
// the `overrides_applied` output flag (spec.md §6).
func (o *Overrides) Applied() bool {
	return o != nil && len(o.Units) > 0
}

// Apply folds overrides onto d's derived counts per spec.md §4.3,
// returning a new Derived and leaving d untouched. additionalPayloadTypes
// is the union of payload types required by any mission type, needed to
// implement the payload_per_type policy.
func Apply(d *Derived, o *Overrides, additionalPayloadTypes []string) *Derived {
	out := &Derived{
		Units:          append([]string(nil), d.Units...),
		AircraftByUnit: copyIntMap(d.AircraftByUnit),
		PayloadByUnit:  copyNestedIntMap(d.PayloadByUnit),
		StaffingByUnit: copyNestedIntMap(d.StaffingByUnit),
	}
	if o == nil {
		return out
	}

	seen := map[string]bool{}
	for _, u := range out.Units {
		seen[u] = true
	}

	// Deterministic iteration order over the override map for
	// reproducible unit-list append order (Go map iteration isn't).
	names := make([]string, 0, len(o.Units))
	for name := range o.Units {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, unit := range names {
		ov := o.Units[unit]
		if !seen[unit] {
			out.Units = append(out.Units, unit)
			seen[unit] = true
		}
		applyScalar(out.AircraftByUnit, unit, ov.Aircraft)
		applySpecialty(out.StaffingByUnit, unit, "pilot", ov.Pilot)
		applySpecialty(out.StaffingByUnit, unit, "so", ov.SO)
		applySpecialty(out.StaffingByUnit, unit, "intel", ov.Intel)

		if len(ov.PayloadByType) > 0 {
			if out.PayloadByUnit[unit] == nil {
				out.PayloadByUnit[unit] = map[string]int{}
			}
			for typ, v := range ov.PayloadByType {
				if !isFinite(v) {
					continue
				}
				out.PayloadByUnit[unit][typ] = clampFloor(v)
			}
		} else if ov.PayloadPerType != nil && isFinite(*ov.PayloadPerType) {
			types := unionPayloadTypes(out.PayloadByUnit[unit], additionalPayloadTypes)
			if out.PayloadByUnit[unit] == nil {
				out.PayloadByUnit[unit] = map[string]int{}
			}
			count := clampFloor(*ov.PayloadPerType)
			for _, typ := range types {
				out.PayloadByUnit[unit][typ] = count
			}
		}
	}

	sort.Strings(out.Units)
	return out
}

func applyScalar(m map[string]int, unit string, v *float64) {
	if v == nil || !isFinite(*v) {
		return
	}
	m[unit] = clampFloor(*v)
}

func applySpecialty(m map[string]map[string]int, unit, specialty string, v *float64) {
	if v == nil || !isFinite(*v) {
		return
	}
	if m[unit] == nil {
		m[unit] = map[string]int{}
	}
	m[unit][specialty] = clampFloor(*v)
}

func clampFloor(v float64) int {
	n := int(v)
	if n < 0 {
		return 0
	}
	return n
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

func unionPayloadTypes(existing map[string]int, required []string) []string {
	set := map[string]bool{}
	for t := range existing {
		set[t] = true
	}
	for _, t := range required {
		set[t] = true
	}
	out := make([]string, 0, len(set))
	for t := range set {
		out = append(out, t)
	}
	sort.Strings(out)
	return out
}

func copyIntMap(m map[string]int) map[string]int {
	out := make(map[string]int, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

func copyNestedIntMap(m map[string]map[string]int) map[string]map[string]int {
	out := make(map[string]map[string]int, len(m))
	for k, inner := range m {
		c := make(map[string]int, len(inner))
		for ik, iv := range inner {
			c[ik] = iv
		}
		out[k] = c
	}
	return out
}

// OrderedUnitMap builds an insertion-ordered mapping keyed by unit name
// (spec.md §9 pattern: "an ordered mapping keyed by unit name"), used by
// the resource initializer so pool iteration order matches Derived.Units.
func OrderedUnitMap(units []string) *orderedmap.OrderedMap {
	m := orderedmap.New()
	for _, u := range units {
		m.Set(u, struct{}{})
	}
	return m
}
