// resource/assign.go
// Copyright(c) 2026 monte-carlo-sub002 contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package resource

import "sort"

// AssignMissionUnits builds a length-n sequence of unit names realizing
// unit_policy.mission_split with maximum interleaving (spec.md §4.6): a
// largest-remainder allocation fixes each unit's integer target count,
// then at each step the unit chosen is the one maximizing
// remaining_i/target_i, so every unit's share is spread evenly across
// its own run rather than front-loaded by whichever unit has the most
// slots left overall. If split is empty, round-robins over units in
// order.
func AssignMissionUnits(units []string, split map[string]float64, n int) []string {
	if n <= 0 {
		return nil
	}
	if len(split) == 0 {
		out := make([]string, n)
		for i := 0; i < n; i++ {
			out[i] = units[i%len(units)]
		}
		return out
	}

	names := make([]string, 0, len(split))
	for name, w := range split {
		if w > 0 {
			names = append(names, name)
		}
	}
	sort.Strings(names)

	totalWeight := 0.0
	for _, name := range names {
		totalWeight += split[name]
	}

	target := largestRemainderAllocation(names, split, totalWeight, n)
	counts := make(map[string]int, len(target))
	for name, v := range target {
		counts[name] = v
	}

	out := make([]string, 0, n)
	slotsLeft := n
	for slotsLeft > 0 {
		best := ""
		bestScore := -1.0
		for _, name := range names {
			if counts[name] <= 0 {
				continue
			}
			// Score against this unit's own target, not the global
			// slots remaining, so each unit's output is spread in
			// proportion to its own allocation rather than collapsing
			// to "whoever has the most units left overall."
			score := float64(counts[name]) / float64(target[name])
			if score > bestScore {
				bestScore = score
				best = name
			}
		}
		if best == "" {
			// Shouldn't happen given totalWeight > 0, but fall back to
			// round-robin over the named units rather than panicking.
			best = names[len(out)%len(names)]
		}
		out = append(out, best)
		counts[best]--
		slotsLeft--
	}
	return out
}

// largestRemainderAllocation rounds each unit's proportional share of n
// to an integer, distributing the leftover slots (from truncation) to
// the units with the largest fractional remainder, so the counts sum
// exactly to n.
func largestRemainderAllocation(names []string, split map[string]float64, totalWeight float64, n int) map[string]int {
	counts := make(map[string]int, len(names))
	if totalWeight <= 0 {
		return counts
	}

	type frac struct {
		name      string
		remainder float64
	}
	fracs := make([]frac, 0, len(names))
	assigned := 0
	for _, name := range names {
		share := split[name] / totalWeight * float64(n)
		whole := int(share)
		counts[name] = whole
		assigned += whole
		fracs = append(fracs, frac{name, share - float64(whole)})
	}

	sort.SliceStable(fracs, func(i, j int) bool {
		if fracs[i].remainder != fracs[j].remainder {
			return fracs[i].remainder > fracs[j].remainder
		}
		return fracs[i].name < fracs[j].name
	})

	leftover := n - assigned
	for i := 0; i < leftover && i < len(fracs); i++ {
		counts[fracs[i].name]++
	}
	return counts
}
