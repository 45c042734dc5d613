// distribution/distribution_test.go
// Copyright(c) 2026 monte-carlo-sub002 contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package distribution

import (
	"errors"
	"math"
	"testing"

	"github.com/ColbySawyer7/monte-carlo-sub002/rand"
)

func vf(v float64) *float64 { return &v }

func TestSampleNil(t *testing.T) {
	v, err := Sample(nil, rand.NewFixed())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v != 0 {
		t.Errorf("Sample(nil) = %v, want 0", v)
	}
}

func TestSampleDeterministic(t *testing.T) {
	spec := &Spec{Type: Deterministic, ValueHours: vf(2.5)}
	v, err := Sample(spec, rand.NewFixed())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v != 2.5 {
		t.Errorf("got %v, want 2.5", v)
	}
}

func TestSampleDeterministicDefaultsToZero(t *testing.T) {
	spec := &Spec{Type: Deterministic}
	v, err := Sample(spec, rand.NewFixed())
	if err != nil || v != 0 {
		t.Errorf("got (%v, %v), want (0, nil)", v, err)
	}
}

func TestSampleExponential(t *testing.T) {
	spec := &Spec{Type: Exponential, RatePerHour: vf(2)}
	src := rand.NewFixed(0.5)
	v, err := Sample(spec, src)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := -math.Log(0.5) / 2
	if math.Abs(v-want) > 1e-9 {
		t.Errorf("got %v, want %v", v, want)
	}
}

func TestSampleTriangularBounds(t *testing.T) {
	spec := &Spec{Type: Triangular, A: vf(1), M: vf(2), B: vf(5)}
	for _, u := range []float64{0, 0.01, 0.33, 0.5, 0.99, 1} {
		v, err := Sample(spec, rand.NewFixed(u))
		if err != nil {
			t.Fatalf("u=%v: unexpected error: %v", u, err)
		}
		if v < 1 || v > 5 {
			t.Errorf("u=%v: sample %v outside [1,5]", u, v)
		}
	}
}

func TestSampleTriangularDegenerate(t *testing.T) {
	spec := &Spec{Type: Triangular, A: vf(3), M: vf(3), B: vf(3)}
	v, err := Sample(spec, rand.NewFixed(0.5))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v != 3 {
		t.Errorf("got %v, want 3 for degenerate triangular", v)
	}
}

func TestSampleLognormalNeverNegative(t *testing.T) {
	spec := &Spec{Type: Lognormal, Mu: vf(0), Sigma: vf(1)}
	for u1 := 0.01; u1 < 1; u1 += 0.1 {
		for u2 := 0.01; u2 < 1; u2 += 0.1 {
			v, err := Sample(spec, rand.NewFixed(u1, u2))
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if v < 0 {
				t.Errorf("lognormal sample %v < 0", v)
			}
		}
	}
}

func TestSampleExhaustedSource(t *testing.T) {
	spec := &Spec{Type: Exponential, RatePerHour: vf(1)}
	_, err := Sample(spec, rand.NewFixed())
	if !errors.Is(err, ErrRandomnessExhausted) {
		t.Errorf("got %v, want ErrRandomnessExhausted", err)
	}
}

func TestSampleUnknownType(t *testing.T) {
	spec := &Spec{Type: "bogus"}
	_, err := Sample(spec, rand.NewFixed(0.5))
	if !errors.Is(err, ErrInvalidDistribution) {
		t.Errorf("got %v, want ErrInvalidDistribution", err)
	}
}

func TestMeanMatchesFormulas(t *testing.T) {
	cases := []struct {
		spec *Spec
		want float64
	}{
		{&Spec{Type: Deterministic, ValueHours: vf(4)}, 4},
		{&Spec{Type: Exponential, RatePerHour: vf(2)}, 0.5},
		{&Spec{Type: Triangular, A: vf(0), M: vf(3), B: vf(9)}, 4},
		{nil, 0},
	}
	for _, c := range cases {
		got := Mean(c.spec)
		if math.Abs(got-c.want) > 1e-9 {
			t.Errorf("Mean(%v) = %v, want %v", c.spec, got, c.want)
		}
	}
}

func TestSampleNeverNaN(t *testing.T) {
	spec := &Spec{Type: Triangular, A: vf(0), M: vf(0), B: vf(0)}
	v, err := Sample(spec, rand.NewFixed(0))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if math.IsNaN(v) {
		t.Errorf("sample is NaN")
	}
}
