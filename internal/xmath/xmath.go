// internal/xmath/xmath.go
// Copyright(c) 2026 monte-carlo-sub002 contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

// Package xmath holds the handful of generic numeric helpers the
// scheduler needs. The teacher's math package is almost entirely 2D
// vector/trig geometry for radar rendering, which has no home anywhere
// in this module's domain; this package replaces it with the small
// Ordered-constrained helpers util/generic.go leans on elsewhere in the
// corpus.
package xmath

import "golang.org/x/exp/constraints"

func Min[T constraints.Ordered](a, b T) T {
	if a < b {
		return a
	}
	return b
}

func Max[T constraints.Ordered](a, b T) T {
	if a > b {
		return a
	}
	return b
}

func Clamp[T constraints.Ordered](v, lo, hi T) T {
	return Min(Max(v, lo), hi)
}

// ClampNonNegative clamps NaN and negative floats to 0. Per SPEC_FULL.md
// §9 decision 2, distribution samplers never surface a negative or NaN
// duration to callers.
func ClampNonNegative(v float64) float64 {
	if v != v || v < 0 { // v != v is the idiomatic NaN check
		return 0
	}
	return v
}
