// util/interval.go
// Copyright(c) 2026 monte-carlo-sub002 contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

// Package util holds small generic helpers shared across the scheduler:
// half-open hour intervals (grounded on the teacher's util/time.go
// TimeInterval, reworked from time.Time to float64 hours-since-epoch
// since the core never reasons about wall-clock time) and strict JSON
// decoding (grounded on util/json.go).
package util

import "sort"

// Interval is a half-open span of hours [Start, End).
type Interval struct {
	Start, End float64
}

func (iv Interval) Duration() float64 {
	return iv.End - iv.Start
}

func (iv Interval) Contains(t float64) bool {
	return t >= iv.Start && t < iv.End
}

func (iv Interval) Overlaps(o Interval) bool {
	return iv.Start < o.End && o.Start < iv.End
}

// Intersect returns the overlap of iv and o, if any.
func (iv Interval) Intersect(o Interval) (Interval, bool) {
	s, e := max(iv.Start, o.Start), min(iv.End, o.End)
	if s < e {
		return Interval{s, e}, true
	}
	return Interval{}, false
}

// MergeIntervals sorts and coalesces overlapping or touching intervals,
// the building block for the ODO alignment window (spec.md §4.5).
func MergeIntervals(spans []Interval) []Interval {
	if len(spans) == 0 {
		return nil
	}
	sorted := append([]Interval(nil), spans...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Start < sorted[j].Start })

	merged := []Interval{sorted[0]}
	for _, s := range sorted[1:] {
		last := &merged[len(merged)-1]
		if s.Start <= last.End {
			if s.End > last.End {
				last.End = s.End
			}
		} else {
			merged = append(merged, s)
		}
	}
	return merged
}

// FirstIntersection returns the first interval in spans (assumed
// already merged/sorted) that overlaps window.
func FirstIntersection(spans []Interval, window Interval) (Interval, bool) {
	for _, s := range spans {
		if iv, ok := s.Intersect(window); ok {
			return iv, true
		}
	}
	return Interval{}, false
}
