// distribution/distribution.go
// Copyright(c) 2026 monte-carlo-sub002 contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

// Package distribution implements spec.md §4.1: a pure sampler from a
// tagged-union distribution spec, with a single injectable uniform
// source so that a whole scheduler run is reproducible given a fixed
// seed. Grounded on the teacher's pattern of a small value type with a
// handful of named constructors (see aviation's STAR/Route specs) and
// on spec.md §9's explicit pattern-replacement note to avoid runtime
// string dispatch in favor of a tagged sum.
package distribution

import (
	"fmt"
	"math"

	"github.com/ColbySawyer7/monte-carlo-sub002/internal/xmath"
	"github.com/ColbySawyer7/monte-carlo-sub002/rand"
)

type Kind string

const (
	Deterministic Kind = "deterministic"
	Exponential   Kind = "exponential"
	Triangular    Kind = "triangular"
	Lognormal     Kind = "lognormal"
)

// Spec is the tagged sum over the four supported distributions. Only
// the fields relevant to Type are populated by a well-formed scenario;
// Sample and Mean look at Type to decide which to read.
type Spec struct {
	Type Kind `json:"type"`

	// deterministic
	ValueHours *float64 `json:"value_hours,omitempty"`
	Value      *float64 `json:"value,omitempty"`

	// exponential
	RatePerHour *float64 `json:"rate_per_hour,omitempty"`

	// triangular
	A *float64 `json:"a,omitempty"`
	M *float64 `json:"m,omitempty"`
	B *float64 `json:"b,omitempty"`

	// lognormal
	Mu    *float64 `json:"mu,omitempty"`
	Sigma *float64 `json:"sigma,omitempty"`
}

func deref(p *float64, def float64) float64 {
	if p == nil {
		return def
	}
	return *p
}

// Sample draws one value in hours from spec using src for uniform(0,1)
// draws. A nil spec returns 0, per spec.md §4.1. The returned error is
// non-nil only when src reports exhaustion (spec.md §7
// RandomnessExhausted) or spec declares an unrecognized Type
// (ErrInvalidDistribution; sim.Run reports both as InvalidScenario).
// Scenarios are not validated before sampling, so this is where an
// unrecognized Type is detected.
func Sample(spec *Spec, src rand.Source) (float64, error) {
	if spec == nil {
		return 0, nil
	}

	switch spec.Type {
	case Deterministic:
		if spec.ValueHours != nil {
			return xmath.ClampNonNegative(*spec.ValueHours), nil
		}
		return xmath.ClampNonNegative(deref(spec.Value, 0)), nil

	case Exponential:
		u, ok := src.Float64()
		if !ok {
			return 0, ErrRandomnessExhausted
		}
		rate := deref(spec.RatePerHour, 1)
		if rate <= 0 {
			rate = 1
		}
		// Guard u==1 so log(0) never surfaces.
		u = xmath.Clamp(u, 0, 0.9999999999)
		return xmath.ClampNonNegative(-math.Log(1-u) / rate), nil

	case Triangular:
		u, ok := src.Float64()
		if !ok {
			return 0, ErrRandomnessExhausted
		}
		a, m, b := deref(spec.A, 0), deref(spec.M, 0), deref(spec.B, 0)
		return xmath.ClampNonNegative(sampleTriangular(a, m, b, u)), nil

	case Lognormal:
		u1, ok1 := src.Float64()
		if !ok1 {
			return 0, ErrRandomnessExhausted
		}
		u2, ok2 := src.Float64()
		if !ok2 {
			return 0, ErrRandomnessExhausted
		}
		mu, sigma := deref(spec.Mu, 0), deref(spec.Sigma, 0)
		z := boxMuller(u1, u2)
		return xmath.ClampNonNegative(math.Exp(mu + sigma*z)), nil

	default:
		return 0, fmt.Errorf("%w: unrecognized distribution type %q", ErrInvalidDistribution, spec.Type)
	}
}

// sampleTriangular inverts the triangular CDF with mode m on [a,b].
// Degenerate parameters (b<=a) fall back to a rather than dividing by
// zero, per SPEC_FULL.md §9 decision 2.
func sampleTriangular(a, m, b, u float64) float64 {
	if b <= a {
		return a
	}
	if m < a {
		m = a
	}
	if m > b {
		m = b
	}
	fc := (m - a) / (b - a)
	if u < fc {
		if fc == 0 {
			return a
		}
		return a + math.Sqrt(u*(b-a)*(m-a))
	}
	if fc == 1 {
		return b
	}
	return b - math.Sqrt((1-u)*(b-a)*(b-m))
}

// boxMuller returns one standard-normal sample from two independent
// uniforms, guarding u1==0 so log(0) never surfaces.
func boxMuller(u1, u2 float64) float64 {
	if u1 <= 0 {
		u1 = 1e-12
	}
	return math.Sqrt(-2*math.Log(u1)) * math.Cos(2*math.Pi*u2)
}

// Mean returns the distribution's expected value in hours, used by the
// ODO average-case mission span estimate (spec.md §4.5) and by the
// dispatcher for the expected durations that pool and crew efficiency
// compare realized busy time against.
func Mean(spec *Spec) float64 {
	if spec == nil {
		return 0
	}
	switch spec.Type {
	case Deterministic:
		if spec.ValueHours != nil {
			return *spec.ValueHours
		}
		return deref(spec.Value, 0)
	case Exponential:
		rate := deref(spec.RatePerHour, 1)
		if rate <= 0 {
			rate = 1
		}
		return 1 / rate
	case Triangular:
		a, m, b := deref(spec.A, 0), deref(spec.M, 0), deref(spec.B, 0)
		return (a + m + b) / 3
	case Lognormal:
		mu, sigma := deref(spec.Mu, 0), deref(spec.Sigma, 0)
		return math.Exp(mu + sigma*sigma/2)
	default:
		return 0
	}
}
