package main

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/optimize"

	"github.com/pthm-cable/sph/config"
	"github.com/pthm-cable/sph/telemetry"
)

func TestParamVectorRoundTrip(t *testing.T) {
	pv := NewParamVector()
	raw := []float64{2000, 200}

	unit := pv.Normalize(raw)
	for i, u := range unit {
		if u < 0 || u > 1 {
			t.Errorf("%s: normalized %v outside [0,1]", pv.Specs[i].Name, u)
		}
	}
	back := pv.Denormalize(unit)
	for i := range raw {
		if math.Abs(back[i]-raw[i]) > 1e-9 {
			t.Errorf("%s: got %v, want %v", pv.Specs[i].Name, back[i], raw[i])
		}
	}
}

func TestApplyToConfigClamps(t *testing.T) {
	cfg, err := config.Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	pv := NewParamVector()

	pv.ApplyToConfig(cfg, []float64{1e9, -5})

	if cfg.Physics.GasConstant != pv.Specs[0].Max {
		t.Errorf("gas_constant = %v, want %v", cfg.Physics.GasConstant, pv.Specs[0].Max)
	}
	if cfg.Physics.Viscosity != pv.Specs[1].Min {
		t.Errorf("viscosity = %v, want %v", cfg.Physics.Viscosity, pv.Specs[1].Min)
	}
}

func TestDefaultsInsideRanges(t *testing.T) {
	cfg, err := config.Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	pv := NewParamVector()

	got := pv.ExtractFromConfig(cfg)
	for i, s := range pv.Specs {
		if got[i] < s.Min || got[i] > s.Max {
			t.Errorf("%s default %v outside [%v, %v]", s.Name, got[i], s.Min, s.Max)
		}
	}
}

func TestComputeFitness(t *testing.T) {
	tests := []struct {
		name    string
		windows []telemetry.WindowStats
		want    float64
	}{
		{"no windows", nil, failedRunPenalty},
		{
			"settled tail only",
			[]telemetry.WindowStats{
				{DensityErr: 0.9, MaxSpeed: 500},
				{DensityErr: 0.9, MaxSpeed: 500},
				{DensityErr: -0.1, MaxSpeed: 10},
				{DensityErr: 0.1, MaxSpeed: 10},
			},
			0.1 + speedWeight*10,
		},
		{
			"non-finite penalized",
			[]telemetry.WindowStats{
				{DensityErr: 0.0, NonFinite: 2},
				{DensityErr: 0.0},
			},
			degeneratePenalty,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, _ := computeFitness(tt.windows)
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("computeFitness = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestNewMethod(t *testing.T) {
	for _, name := range []string{"cmaes", "neldermead"} {
		if _, err := newMethod(name, 2, 0); err != nil {
			t.Errorf("newMethod(%q): %v", name, err)
		}
	}
	if _, err := newMethod("sgd", 2, 0); err == nil {
		t.Error("expected error for unknown method")
	}
}

func TestDefaultPopulation(t *testing.T) {
	tests := []struct {
		dim  int
		want int
	}{
		{1, 4},
		{2, 6},
		{10, 10},
	}
	for _, tt := range tests {
		if got := defaultPopulation(tt.dim); got != tt.want {
			t.Errorf("defaultPopulation(%d) = %d, want %d", tt.dim, got, tt.want)
		}
	}

	m, err := newMethod("cmaes", 2, 0)
	if err != nil {
		t.Fatalf("newMethod: %v", err)
	}
	if pop := m.(*optimize.CmaEsChol).Population; pop != 6 {
		t.Errorf("cmaes population = %d, want 6", pop)
	}
}
