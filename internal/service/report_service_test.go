package service

import (
	"context"
	"math"
	"strings"
	"testing"

	"github.com/hopsmith/brewwater/internal/water"
)

// balancedSource is electrically neutral, so reports built on it carry no
// suspect-report diagnostic.
var balancedSource = water.Profile{
	Calcium:     60,
	Magnesium:   10,
	Sodium:      15,
	Sulfate:     80,
	Chloride:    50,
	Bicarbonate: 85,
}

var testVolumes = water.Volumes{Total: 32.2, Mash: 17.0, Sparge: 15.2}

func testBill() water.GrainBill {
	return water.GrainBill{
		{Name: "pilsner malt", WeightKG: 5.0, Color: 1.6, Type: water.GrainBase},
		{Name: "crystal 60", WeightKG: 0.5, Color: 60, Type: water.GrainCrystal},
	}
}

func TestBuildReport_Manual(t *testing.T) {
	svc := NewReportService()

	src := balancedSource
	report, err := svc.BuildReport(context.Background(), ReportRequest{
		Source:     &src,
		Mode:       ModeManual,
		Additions:  water.Additions{"gypsum": 2.0, "canning_salt": 1.0},
		Volumes:    testVolumes,
		VolumeMode: "whole_batch",
		GrainBill:  testBill(),
	})
	if err != nil {
		t.Fatalf("BuildReport failed: %v", err)
	}

	if report.ReportID == "" {
		t.Error("expected non-empty report ID")
	}
	if report.Mode != ModeManual {
		t.Errorf("mode: expected manual, got %q", report.Mode)
	}
	if report.CreatedAt == 0 {
		t.Error("expected non-zero created_at")
	}

	// gypsum: 2 g x 232.5 / 32.2 L = +14.44 Ca, +34.64 SO4
	// canning salt: 1 g x 393.4 / 32.2 L = +12.22 Na, +18.84 Cl
	if math.Abs(report.Achieved.Calcium-74.44) > 0.1 {
		t.Errorf("achieved calcium: expected ~74.44, got %.2f", report.Achieved.Calcium)
	}
	if math.Abs(report.Achieved.Sulfate-114.64) > 0.1 {
		t.Errorf("achieved sulfate: expected ~114.64, got %.2f", report.Achieved.Sulfate)
	}
	if math.Abs(report.Achieved.Sodium-27.22) > 0.1 {
		t.Errorf("achieved sodium: expected ~27.22, got %.2f", report.Achieved.Sodium)
	}
	if math.Abs(report.Achieved.Chloride-68.84) > 0.1 {
		t.Errorf("achieved chloride: expected ~68.84, got %.2f", report.Achieved.Chloride)
	}

	// Source must come back untouched.
	if report.Source != balancedSource {
		t.Errorf("source mutated: %+v", report.Source)
	}

	if report.Metrics.SulfateChlorideRatio == nil {
		t.Fatal("expected defined sulfate:chloride ratio")
	}
	if math.Abs(*report.Metrics.SulfateChlorideRatio-114.64/68.84) > 0.01 {
		t.Errorf("ratio: expected ~1.67, got %.2f", *report.Metrics.SulfateChlorideRatio)
	}

	if report.PH == nil {
		t.Fatal("expected pH estimate with a grain bill present")
	}
	if report.PH.Model != "kaiser" {
		t.Errorf("default model: expected kaiser, got %q", report.PH.Model)
	}
	if report.PH.PH < 5.0 || report.PH.PH > 6.0 {
		t.Errorf("pH out of plausible range: %.3f", report.PH.PH)
	}

	// Balanced water plus neutral salts stays balanced.
	for _, d := range report.Diagnostics {
		t.Errorf("unexpected diagnostic: %s", d)
	}
	if report.AcidDose != nil {
		t.Error("expected no acid dose without a target pH")
	}
	if report.Optimizer != nil {
		t.Error("expected no optimizer summary in manual mode")
	}
}

func TestBuildReport_ManualRoundsBeforeComposing(t *testing.T) {
	svc := NewReportService()

	// Sub-0.1 g entries round away before composing, so the schedule the
	// report carries is exactly the one the achieved profile was built from.
	src := balancedSource
	report, err := svc.BuildReport(context.Background(), ReportRequest{
		Source:     &src,
		Mode:       ModeManual,
		Additions:  water.Additions{"gypsum": 0.04, "canning_salt": 1.04},
		Volumes:    testVolumes,
		VolumeMode: "whole_batch",
	})
	if err != nil {
		t.Fatalf("BuildReport failed: %v", err)
	}

	if _, ok := report.Additions["gypsum"]; ok {
		t.Errorf("additions = %v, want the 0.04 g entry dropped", report.Additions)
	}
	if report.Additions["canning_salt"] != 1.0 {
		t.Errorf("canning_salt = %v g, want 1.0 after rounding", report.Additions["canning_salt"])
	}
	if report.Achieved.Calcium != balancedSource.Calcium {
		t.Errorf("achieved calcium %.3f moved without gypsum in the schedule", report.Achieved.Calcium)
	}
	// canning salt: 1 g x 393.4 / 32.2 L = +12.22 Na
	if math.Abs(report.Achieved.Sodium-(balancedSource.Sodium+12.22)) > 0.1 {
		t.Errorf("achieved sodium: expected ~27.22, got %.2f", report.Achieved.Sodium)
	}
}

func TestBuildReport_ManualWithAcidDose(t *testing.T) {
	svc := NewReportService()

	src := balancedSource
	report, err := svc.BuildReport(context.Background(), ReportRequest{
		Source:     &src,
		Mode:       ModeManual,
		Volumes:    testVolumes,
		VolumeMode: "whole_batch",
		GrainBill:  testBill(),
		TargetPH:   5.4,
	})
	if err != nil {
		t.Fatalf("BuildReport failed: %v", err)
	}

	if report.AcidDose == nil {
		t.Fatal("expected acid dose with target_ph set")
	}
	if report.AcidDose.AcidID != "lactic" {
		t.Errorf("default acid: expected lactic, got %q", report.AcidDose.AcidID)
	}
	if report.AcidDose.Unit != "ml" {
		t.Errorf("lactic dose unit: expected ml, got %q", report.AcidDose.Unit)
	}
	if report.AcidDose.Amount <= 0 {
		t.Errorf("expected positive dose, estimate %.3f is above target 5.4, got %.2f",
			report.PH.PH, report.AcidDose.Amount)
	}
}

func TestBuildReport_Auto(t *testing.T) {
	svc := NewReportService()

	report, err := svc.BuildReport(context.Background(), ReportRequest{
		SourceWater: "distilled",
		Mode:        ModeAuto,
		TargetWater: "dublin",
		Strategy:    "exact",
		Volumes:     testVolumes,
		VolumeMode:  "whole_batch",
	})
	if err != nil {
		t.Fatalf("BuildReport failed: %v", err)
	}

	if report.Optimizer == nil {
		t.Fatal("expected optimizer summary in auto mode")
	}
	if report.Optimizer.Strategy != "exact" {
		t.Errorf("strategy: expected exact, got %q", report.Optimizer.Strategy)
	}
	if report.Optimizer.Infeasible {
		t.Error("distilled to dublin should not be infeasible")
	}
	if report.Optimizer.TotalDeviation >= 100 {
		t.Errorf("total deviation: expected < 100 ppm, got %.1f", report.Optimizer.TotalDeviation)
	}
	if len(report.Additions) == 0 {
		t.Error("expected salt additions")
	}
	for id, grams := range report.Additions {
		if grams < 0.1 {
			t.Errorf("addition %s: expected >= 0.1 g, got %.2f", id, grams)
		}
	}
	// Dublin's published profile is itself charge-imbalanced, so the report
	// should flag it as suspect.
	found := false
	for _, d := range report.Diagnostics {
		if d.Code == water.DiagSuspectReport {
			found = true
		}
	}
	if !found {
		t.Error("expected suspect-report diagnostic for the dublin target")
	}
}

func TestBuildReport_AutoDefaultsToBalanced(t *testing.T) {
	svc := NewReportService()

	target := water.Profile{Calcium: 80, Sulfate: 120, Chloride: 50}
	report, err := svc.BuildReport(context.Background(), ReportRequest{
		Mode:       ModeAuto,
		Target:     &target,
		Volumes:    testVolumes,
		VolumeMode: "whole_batch",
	})
	if err != nil {
		t.Fatalf("BuildReport failed: %v", err)
	}
	if report.Optimizer == nil || report.Optimizer.Strategy != "balanced" {
		t.Fatalf("expected balanced strategy by default, got %+v", report.Optimizer)
	}
}

func TestBuildReport_UnknownSaltIsDiagnosticNotError(t *testing.T) {
	svc := NewReportService()

	src := balancedSource
	report, err := svc.BuildReport(context.Background(), ReportRequest{
		Source:     &src,
		Mode:       ModeManual,
		Additions:  water.Additions{"unobtainium": 2.0, "gypsum": 1.0},
		Volumes:    testVolumes,
		VolumeMode: "whole_batch",
	})
	if err != nil {
		t.Fatalf("BuildReport failed: %v", err)
	}

	found := false
	for _, d := range report.Diagnostics {
		if d.Code == water.DiagUnknownSalt {
			found = true
		}
	}
	if !found {
		t.Error("expected unknown-salt diagnostic")
	}
	if report.Achieved.Calcium <= balancedSource.Calcium {
		t.Error("known salt should still contribute")
	}
}

func TestBuildReport_UnknownAcidIsDiagnosticNotError(t *testing.T) {
	svc := NewReportService()

	// The rest of the report is still useful when the acid is unknown: the
	// dose comes back zero with a diagnostic instead of failing the request.
	src := balancedSource
	report, err := svc.BuildReport(context.Background(), ReportRequest{
		Source:     &src,
		Mode:       ModeManual,
		Volumes:    testVolumes,
		VolumeMode: "whole_batch",
		GrainBill:  testBill(),
		TargetPH:   5.4,
		Acid:       "vinegar",
	})
	if err != nil {
		t.Fatalf("BuildReport failed: %v", err)
	}

	if report.AcidDose == nil {
		t.Fatal("expected an acid dose entry even for an unknown acid")
	}
	if report.AcidDose.Amount != 0 {
		t.Errorf("expected zero dose for unknown acid, got %.2f", report.AcidDose.Amount)
	}
	found := false
	for _, d := range report.Diagnostics {
		if d.Code == water.DiagUnknownAcid {
			found = true
		}
	}
	if !found {
		t.Error("expected unknown-acid diagnostic")
	}
	if report.PH == nil {
		t.Error("pH estimate should still be present")
	}
}

func TestBuildReport_ZeroChlorideRatioIsNull(t *testing.T) {
	svc := NewReportService()

	report, err := svc.BuildReport(context.Background(), ReportRequest{
		SourceWater: "distilled",
		Mode:        ModeManual,
		Additions:   water.Additions{"gypsum": 2.0},
		Volumes:     testVolumes,
		VolumeMode:  "whole_batch",
	})
	if err != nil {
		t.Fatalf("BuildReport failed: %v", err)
	}
	if report.Metrics.SulfateChlorideRatio != nil {
		t.Errorf("expected undefined ratio with zero chloride, got %.2f",
			*report.Metrics.SulfateChlorideRatio)
	}
}

func TestBuildReport_Rejections(t *testing.T) {
	svc := NewReportService()
	negative := water.Profile{Calcium: -5}
	src := balancedSource

	tests := []struct {
		name    string
		req     ReportRequest
		wantErr string
	}{
		{
			name:    "missing mode",
			req:     ReportRequest{Volumes: testVolumes},
			wantErr: "invalid request",
		},
		{
			name:    "bad mode",
			req:     ReportRequest{Mode: "psychic", Volumes: testVolumes},
			wantErr: "invalid request",
		},
		{
			name:    "bad strategy",
			req:     ReportRequest{Mode: ModeAuto, Strategy: "brute_force", Target: &src, Volumes: testVolumes},
			wantErr: "invalid request",
		},
		{
			name:    "bad ph model",
			req:     ReportRequest{Mode: ModeManual, PHModel: "divination", Volumes: testVolumes},
			wantErr: "invalid request",
		},
		{
			name:    "bad volume mode",
			req:     ReportRequest{Mode: ModeManual, VolumeMode: "imaginary", Volumes: testVolumes},
			wantErr: "invalid request",
		},
		{
			name:    "target ph too low",
			req:     ReportRequest{Mode: ModeManual, TargetPH: 3.0, Volumes: testVolumes},
			wantErr: "invalid request",
		},
		{
			name:    "temperature out of range",
			req:     ReportRequest{Mode: ModeManual, Temperature: 150, Volumes: testVolumes},
			wantErr: "invalid request",
		},
		{
			name:    "negative source ion",
			req:     ReportRequest{Mode: ModeManual, Source: &negative, Volumes: testVolumes},
			wantErr: "negative concentration",
		},
		{
			name:    "zero total volume",
			req:     ReportRequest{Mode: ModeManual, Volumes: water.Volumes{Mash: 17}},
			wantErr: "total must be positive",
		},
		{
			name:    "mash normalized without mash volume",
			req:     ReportRequest{Mode: ModeManual, Volumes: water.Volumes{Total: 32.2}},
			wantErr: "requires a mash volume",
		},
		{
			name: "staged volumes inconsistent",
			req: ReportRequest{
				Mode:       ModeManual,
				VolumeMode: "staged",
				Volumes:    water.Volumes{Total: 32.2, Mash: 10, Sparge: 10},
			},
			wantErr: "does not match total",
		},
		{
			name:    "auto without target",
			req:     ReportRequest{Mode: ModeAuto, Volumes: testVolumes},
			wantErr: "requires a target",
		},
		{
			name: "negative addition",
			req: ReportRequest{
				Mode:      ModeManual,
				Additions: water.Additions{"gypsum": -1},
				Volumes:   testVolumes,
			},
			wantErr: "negative grams",
		},
		{
			name: "negative grain weight",
			req: ReportRequest{
				Mode:      ModeManual,
				GrainBill: water.GrainBill{{Name: "pilsner malt", WeightKG: -1}},
				Volumes:   testVolumes,
			},
			wantErr: "negative weight",
		},
		{
			name:    "unknown source water",
			req:     ReportRequest{Mode: ModeManual, SourceWater: "atlantis", Volumes: testVolumes},
			wantErr: "unknown water profile",
		},
		{
			name:    "unknown target water",
			req:     ReportRequest{Mode: ModeAuto, TargetWater: "atlantis", Volumes: testVolumes},
			wantErr: "unknown water profile",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.BuildReport(context.Background(), tt.req)
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error %q does not contain %q", err.Error(), tt.wantErr)
			}
		})
	}
}
