package water

import (
	"math"
	"testing"
)

func TestResidualAlkalinity(t *testing.T) {
	tests := []struct {
		name    string
		profile Profile
		want    float64
	}{
		{
			name:    "distilled water",
			profile: Profile{},
			want:    0,
		},
		{
			name:    "moderate bicarbonate water",
			profile: Profile{Calcium: 80, Magnesium: 10, Bicarbonate: 120},
			want:    120*0.82 - (80/1.4 + 10/1.7),
		},
		{
			name:    "soft low alkalinity water",
			profile: Profile{Calcium: 7, Magnesium: 2, Bicarbonate: 15},
			want:    15*0.82 - (7/1.4 + 2/1.7),
		},
		{
			name:    "undissolved carbonate counts at its own weight",
			profile: Profile{Carbonate: 30},
			want:    30 * 1.67,
		},
		{
			name:    "hardness ions push RA negative",
			profile: Profile{Calcium: 140, Magnesium: 30, Bicarbonate: 30},
			want:    30*0.82 - (140/1.4 + 30/1.7),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.profile.ResidualAlkalinity()
			if math.Abs(got-tt.want) > 0.01 {
				t.Errorf("ResidualAlkalinity() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSulfateChlorideRatio(t *testing.T) {
	ratio, defined := Profile{Sulfate: 100, Chloride: 50}.SulfateChlorideRatio()
	if !defined {
		t.Fatal("ratio should be defined with nonzero chloride")
	}
	if math.Abs(ratio-2.0) > 0.01 {
		t.Errorf("ratio = %v, want 2.0", ratio)
	}

	// Zero chloride: undefined, tagged rather than a sentinel.
	ratio, defined = Profile{Sulfate: 100}.SulfateChlorideRatio()
	if defined {
		t.Errorf("ratio = %v, want undefined with zero chloride", ratio)
	}
	if ratio != 0 {
		t.Errorf("undefined ratio value = %v, want 0", ratio)
	}
}

func TestHardness(t *testing.T) {
	p := Profile{Calcium: 80, Magnesium: 10}

	if got := p.TotalHardness(); math.Abs(got-241) > 0.01 {
		t.Errorf("TotalHardness() = %v, want 241", got)
	}
	if got := p.EffectiveHardness(); math.Abs(got-90) > 0.01 {
		t.Errorf("EffectiveHardness() = %v, want 90", got)
	}
}

func TestChargeBalanceCheck(t *testing.T) {
	tests := []struct {
		name        string
		profile     Profile
		wantPercent float64
		wantSuspect bool
	}{
		{
			name:    "all zero profile balances trivially",
			profile: Profile{},
		},
		{
			// 40.08 ppm Ca is 2 mEq/L, 70.9 ppm Cl is 2 mEq/L.
			name:    "perfectly balanced pair",
			profile: Profile{Calcium: 40.08, Chloride: 70.9},
		},
		{
			name:        "cations only",
			profile:     Profile{Calcium: 100},
			wantPercent: 100,
			wantSuspect: true,
		},
		{
			name: "realistic report slightly anion heavy",
			profile: Profile{
				Calcium: 80, Magnesium: 10, Sodium: 15,
				Sulfate: 100, Chloride: 60, Bicarbonate: 120,
			},
			wantPercent: -2.45,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.profile.ChargeBalanceCheck()
			if math.Abs(got.ImbalancePercent-tt.wantPercent) > 0.05 {
				t.Errorf("ImbalancePercent = %v, want %v", got.ImbalancePercent, tt.wantPercent)
			}
			if got.Suspect() != tt.wantSuspect {
				t.Errorf("Suspect() = %v, want %v", got.Suspect(), tt.wantSuspect)
			}
		})
	}
}
