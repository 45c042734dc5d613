// distribution/errors.go
// Copyright(c) 2026 monte-carlo-sub002 contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package distribution

import "errors"

var (
	// ErrRandomnessExhausted is spec.md §7's RandomnessExhausted kind:
	// fatal only because the injected random source signaled it has no
	// more samples to give.
	ErrRandomnessExhausted = errors.New("random source exhausted")

	// ErrInvalidDistribution flags an unrecognized distribution Type,
	// one of the two InvalidScenario triggers named in spec.md §4.9.
	ErrInvalidDistribution = errors.New("unrecognized distribution type")
)
