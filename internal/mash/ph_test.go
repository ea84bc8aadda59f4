package mash

import (
	"math"
	"testing"

	"github.com/hopsmith/brewwater/internal/water"
)

// referenceBill is a pale ale grist using generic names so the models run on
// type and color estimates: 5 kg base at 2 SRM, 0.5 kg crystal at 60 SRM.
func referenceBill() water.GrainBill {
	return water.GrainBill{
		{Name: "base malt", WeightKG: 5.0, Color: 2, Type: water.GrainBase},
		{Name: "crystal malt", WeightKG: 0.5, Color: 60, Type: water.GrainCrystal},
	}
}

// referenceProfile is a moderately alkaline brewing water.
func referenceProfile() water.Profile {
	return water.Profile{
		Calcium: 80, Magnesium: 10, Sodium: 15,
		Sulfate: 100, Chloride: 60, Bicarbonate: 120,
	}
}

var referenceVolumes = water.Volumes{Total: 32.2, Mash: 17.0, Sparge: 15.2}

func TestEstimatePHUnknownModel(t *testing.T) {
	_, err := EstimatePH(Model("neural"), referenceProfile(), referenceBill(), referenceVolumes, 25)
	if err == nil {
		t.Fatal("expected an error for an unknown model")
	}
	_, err = EstimatePH(Model(""), referenceProfile(), referenceBill(), referenceVolumes, 25)
	if err == nil {
		t.Fatal("expected an error for an empty model")
	}
}

func TestEstimatePHEmptyBill(t *testing.T) {
	// An empty bill still produces an in-range estimate: the baseline shifted
	// by residual alkalinity, flagged with a diagnostic.
	want := 5.7 + referenceProfile().ResidualAlkalinity()*0.003
	for _, model := range []Model{ModelSimple, ModelKaiser, ModelAdvanced} {
		est, err := EstimatePH(model, referenceProfile(), nil, referenceVolumes, 25)
		if err != nil {
			t.Fatalf("%s: unexpected error: %v", model, err)
		}
		if math.Abs(est.PH-want) > 0.005 {
			t.Errorf("%s: PH = %v, want %v for empty bill", model, est.PH, want)
		}
		if est.Converged {
			t.Errorf("%s: Converged = true, want false for empty bill", model)
		}
		if len(est.Diagnostics) != 1 || est.Diagnostics[0].Code != water.DiagEmptyGrainBill {
			t.Errorf("%s: diagnostics = %v, want empty_grain_bill", model, est.Diagnostics)
		}
	}

	// Even absurd water stays inside the clamp range.
	extreme := water.Profile{Bicarbonate: 5000}
	est, err := EstimatePH(ModelKaiser, extreme, nil, referenceVolumes, 25)
	if err != nil {
		t.Fatal(err)
	}
	if est.PH != 6.5 {
		t.Errorf("PH = %v, want clamp ceiling 6.5", est.PH)
	}
}

func TestEstimateSimple(t *testing.T) {
	// Weighted distilled pH 5.700, RA 35.37 ppm, thickness 3.09 L/kg:
	// 5.700 + 35.37 × 0.003 × (3.09/3) = 5.809.
	est, err := EstimatePH(ModelSimple, referenceProfile(), referenceBill(), referenceVolumes, 25)
	if err != nil {
		t.Fatal(err)
	}
	if math.Abs(est.PH-5.809) > 0.005 {
		t.Errorf("PH = %v, want 5.809", est.PH)
	}
	if !est.Converged {
		t.Error("closed-form model must report converged")
	}
	if est.Iterations != 0 {
		t.Errorf("Iterations = %d, want 0", est.Iterations)
	}

	// Distilled water: no shift, pure weighted distilled pH.
	bill := water.GrainBill{{Name: "base malt", WeightKG: 5.0, Color: 2, Type: water.GrainBase}}
	est, err = EstimatePH(ModelSimple, water.Profile{}, bill, referenceVolumes, 25)
	if err != nil {
		t.Fatal(err)
	}
	if math.Abs(est.PH-5.796) > 0.005 {
		t.Errorf("distilled PH = %v, want 5.796", est.PH)
	}
}

func TestEstimateSimpleThicknessScaling(t *testing.T) {
	// The same water moves a thin mash further from the grist pH than a
	// thick one.
	thin := water.Volumes{Total: 40, Mash: 30, Sparge: 10}
	thick := water.Volumes{Total: 40, Mash: 12, Sparge: 28}

	estThin, err := EstimatePH(ModelSimple, referenceProfile(), referenceBill(), thin, 25)
	if err != nil {
		t.Fatal(err)
	}
	estThick, err := EstimatePH(ModelSimple, referenceProfile(), referenceBill(), thick, 25)
	if err != nil {
		t.Fatal(err)
	}
	if estThin.PH <= estThick.PH {
		t.Errorf("thin mash PH %v should exceed thick mash PH %v with alkaline water", estThin.PH, estThick.PH)
	}
}

func TestEstimateSimpleClamp(t *testing.T) {
	// An all-acidulated grist sits near pH 3.45 before clamping.
	bill := water.GrainBill{{Name: "sauer malt", WeightKG: 4, Color: 3, Type: water.GrainAcidulated}}
	est, err := EstimatePH(ModelSimple, water.Profile{}, bill, referenceVolumes, 25)
	if err != nil {
		t.Fatal(err)
	}
	if est.PH != 4.0 {
		t.Errorf("PH = %v, want clamped to 4.0", est.PH)
	}
}

func TestEstimateKaiser(t *testing.T) {
	// Buffer-weighted distilled pH 5.684 plus 12.03 mEq of residual
	// alkalinity over 212.5 mEq/pH of malt buffer: 5.741.
	est, err := EstimatePH(ModelKaiser, referenceProfile(), referenceBill(), referenceVolumes, 25)
	if err != nil {
		t.Fatal(err)
	}
	if math.Abs(est.PH-5.741) > 0.005 {
		t.Errorf("PH = %v, want 5.741", est.PH)
	}
	if !est.Converged {
		t.Error("closed-form model must report converged")
	}
}

func TestEstimateKaiserTemperature(t *testing.T) {
	at25, err := EstimatePH(ModelKaiser, referenceProfile(), referenceBill(), referenceVolumes, 25)
	if err != nil {
		t.Fatal(err)
	}
	at65, err := EstimatePH(ModelKaiser, referenceProfile(), referenceBill(), referenceVolumes, 65)
	if err != nil {
		t.Fatal(err)
	}
	// 0.003 pH per °C above 25.
	if want := at25.PH - 0.12; math.Abs(at65.PH-want) > 0.001 {
		t.Errorf("PH at 65 °C = %v, want %v", at65.PH, want)
	}

	// Zero temperature means unset and defaults to 25.
	unset, err := EstimatePH(ModelKaiser, referenceProfile(), referenceBill(), referenceVolumes, 0)
	if err != nil {
		t.Fatal(err)
	}
	if unset.PH != at25.PH {
		t.Errorf("PH with unset temperature = %v, want %v", unset.PH, at25.PH)
	}
}

func TestEstimateAdvanced(t *testing.T) {
	est, err := EstimatePH(ModelAdvanced, referenceProfile(), referenceBill(), referenceVolumes, 25)
	if err != nil {
		t.Fatal(err)
	}
	// Hand-solved root of the charge balance: about 5.707.
	if math.Abs(est.PH-5.707) > 0.02 {
		t.Errorf("PH = %v, want about 5.707", est.PH)
	}
	if !est.Converged {
		t.Error("solver should converge on a well-posed mash")
	}
	if est.Iterations == 0 || est.Iterations > maxIterations {
		t.Errorf("Iterations = %d, want within (0, %d]", est.Iterations, maxIterations)
	}
	if len(est.Diagnostics) != 0 {
		t.Errorf("unexpected diagnostics: %v", est.Diagnostics)
	}

	// Distilled water leaves the grist at its own pH.
	bill := water.GrainBill{{Name: "base malt", WeightKG: 5.0, Color: 2, Type: water.GrainBase}}
	est, err = EstimatePH(ModelAdvanced, water.Profile{}, bill, referenceVolumes, 25)
	if err != nil {
		t.Fatal(err)
	}
	if math.Abs(est.PH-5.796) > 0.01 {
		t.Errorf("distilled PH = %v, want 5.796", est.PH)
	}
}

func TestEstimateAdvancedTemperature(t *testing.T) {
	at25, err := EstimatePH(ModelAdvanced, referenceProfile(), referenceBill(), referenceVolumes, 25)
	if err != nil {
		t.Fatal(err)
	}
	at65, err := EstimatePH(ModelAdvanced, referenceProfile(), referenceBill(), referenceVolumes, 65)
	if err != nil {
		t.Fatal(err)
	}
	if at65.PH >= at25.PH {
		t.Errorf("PH at 65 °C (%v) should read below 25 °C (%v)", at65.PH, at25.PH)
	}
}

func TestEstimateAdvancedNoRootBelow(t *testing.T) {
	// An all-acidulated grist in distilled water solves below the bracket.
	bill := water.GrainBill{{Name: "sauer malt", WeightKG: 5, Color: 3, Type: water.GrainAcidulated}}
	est, err := EstimatePH(ModelAdvanced, water.Profile{}, bill, referenceVolumes, 25)
	if err != nil {
		t.Fatal(err)
	}
	if est.PH != 4.0 {
		t.Errorf("PH = %v, want bracket floor 4.0", est.PH)
	}
	if est.Converged {
		t.Error("Converged = true, want false without a bracketed root")
	}
	if len(est.Diagnostics) == 0 || est.Diagnostics[0].Code != water.DiagNotConverged {
		t.Errorf("diagnostics = %v, want not_converged", est.Diagnostics)
	}
}

func TestEstimateAdvancedNoRootAbove(t *testing.T) {
	// Heavily alkaline water against a token grist solves above the bracket
	// and clamps to the report ceiling.
	profile := water.Profile{Bicarbonate: 1000}
	bill := water.GrainBill{{Name: "base malt", WeightKG: 0.1, Color: 2, Type: water.GrainBase}}
	est, err := EstimatePH(ModelAdvanced, profile, bill, referenceVolumes, 25)
	if err != nil {
		t.Fatal(err)
	}
	if est.PH != 6.5 {
		t.Errorf("PH = %v, want clamp ceiling 6.5", est.PH)
	}
	if est.Converged {
		t.Error("Converged = true, want false without a bracketed root")
	}
}

func TestModelAgreement(t *testing.T) {
	// The three models disagree in the details but must stay within 0.3 pH
	// of each other on an ordinary mash.
	var estimates []Estimate
	for _, model := range []Model{ModelSimple, ModelKaiser, ModelAdvanced} {
		est, err := EstimatePH(model, referenceProfile(), referenceBill(), referenceVolumes, 25)
		if err != nil {
			t.Fatal(err)
		}
		estimates = append(estimates, est)
	}
	for i := range estimates {
		for j := i + 1; j < len(estimates); j++ {
			diff := math.Abs(estimates[i].PH - estimates[j].PH)
			if diff > 0.3 {
				t.Errorf("%s (%v) and %s (%v) differ by %v, want <= 0.3",
					estimates[i].Model, estimates[i].PH, estimates[j].Model, estimates[j].PH, diff)
			}
		}
	}
}

func TestModelsRespondToWater(t *testing.T) {
	alkaline := referenceProfile()
	alkaline.Bicarbonate = 250
	soft := referenceProfile()
	soft.Bicarbonate = 0
	hard := referenceProfile()
	hard.Calcium = 200

	for _, model := range []Model{ModelSimple, ModelKaiser, ModelAdvanced} {
		base, err := EstimatePH(model, referenceProfile(), referenceBill(), referenceVolumes, 25)
		if err != nil {
			t.Fatal(err)
		}
		up, err := EstimatePH(model, alkaline, referenceBill(), referenceVolumes, 25)
		if err != nil {
			t.Fatal(err)
		}
		down, err := EstimatePH(model, soft, referenceBill(), referenceVolumes, 25)
		if err != nil {
			t.Fatal(err)
		}
		harder, err := EstimatePH(model, hard, referenceBill(), referenceVolumes, 25)
		if err != nil {
			t.Fatal(err)
		}

		if up.PH <= base.PH {
			t.Errorf("%s: more bicarbonate should raise pH (%v vs %v)", model, up.PH, base.PH)
		}
		if down.PH >= base.PH {
			t.Errorf("%s: less bicarbonate should lower pH (%v vs %v)", model, down.PH, base.PH)
		}
		if harder.PH >= base.PH {
			t.Errorf("%s: more calcium should lower pH (%v vs %v)", model, harder.PH, base.PH)
		}
	}
}

func TestResolveBillUnknownUntyped(t *testing.T) {
	bill := water.GrainBill{
		{Name: "mystery grain", WeightKG: 1.0, Color: 5},
		{Name: "base malt", WeightKG: 4.0, Color: 2, Type: water.GrainBase},
	}
	grains, diags := resolveBill(bill)
	if len(grains) != 2 {
		t.Fatalf("resolved %d grains, want 2", len(grains))
	}
	if len(diags) != 1 || diags[0].Code != water.DiagUnknownGrain {
		t.Errorf("diagnostics = %v, want one unknown_grain", diags)
	}

	// Weightless items are dropped silently.
	grains, _ = resolveBill(water.GrainBill{{Name: "base malt", Color: 2, Type: water.GrainBase}})
	if len(grains) != 0 {
		t.Errorf("resolved %d grains from a weightless bill, want 0", len(grains))
	}
}
