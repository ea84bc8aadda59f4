// Package service glues the calculation core to the HTTP and CLI
// boundaries: request validation, report orchestration, and prometheus
// metrics live here so both boundaries stay thin.
package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/hopsmith/brewwater/internal/catalog"
	"github.com/hopsmith/brewwater/internal/compose"
	"github.com/hopsmith/brewwater/internal/mash"
	"github.com/hopsmith/brewwater/internal/optimizer"
	"github.com/hopsmith/brewwater/internal/water"
)

// Report modes.
const (
	ModeManual = "manual"
	ModeAuto   = "auto"
)

// defaultAcid is used when a dose is requested without naming an acid.
const defaultAcid = "lactic"

// validate checks the struct tags on incoming requests. Profile and volume
// checks that tags can't express are hand-rolled in validateRequest.
var validate = validator.New()

// ReportRequest is the payload both boundaries accept. Either boundary
// decodes into this struct (JSON over HTTP, YAML from the CLI) and hands it
// to BuildReport unchanged.
type ReportRequest struct {
	// Source water: an explicit ion profile, a named catalog profile, or
	// neither (reverse-osmosis water, all zeros). Explicit wins.
	Source      *water.Profile `json:"source,omitempty" yaml:"source"`
	SourceWater string         `json:"source_water,omitempty" yaml:"source_water"`

	// Mode picks how additions are determined: manual applies the given
	// salt schedule, auto solves for a target profile.
	Mode string `json:"mode" yaml:"mode" validate:"required,oneof=manual auto"`

	// Additions is the manual-mode salt schedule, grams by salt ID.
	Additions water.Additions `json:"additions,omitempty" yaml:"additions"`

	// Stages optionally routes each salt to a brewing stage. Only consulted
	// in staged volume mode; salts without an entry dissolve into the full
	// batch.
	Stages map[string]water.Stage `json:"stages,omitempty" yaml:"stages"`

	// Auto-mode target: explicit profile or named catalog water.
	Target      *water.Profile `json:"target,omitempty" yaml:"target"`
	TargetWater string         `json:"target_water,omitempty" yaml:"target_water"`

	// Strategy selects the optimizer; balanced when empty.
	Strategy    string                `json:"strategy,omitempty" yaml:"strategy" validate:"omitempty,oneof=minimal balanced exact"`
	Constraints optimizer.Constraints `json:"constraints,omitempty" yaml:"constraints"`

	Volumes    water.Volumes `json:"volumes" yaml:"volumes"`
	VolumeMode string        `json:"volume_mode,omitempty" yaml:"volume_mode" validate:"omitempty,oneof=mash_normalized whole_batch staged"`

	GrainBill water.GrainBill `json:"grain_bill,omitempty" yaml:"grain_bill"`

	// PHModel selects the mash pH estimator; kaiser when empty.
	PHModel string `json:"ph_model,omitempty" yaml:"ph_model" validate:"omitempty,oneof=simple kaiser advanced"`

	// Temperature is the mash temperature in °C; 25 when zero.
	Temperature float64 `json:"temperature_c,omitempty" yaml:"temperature_c" validate:"omitempty,gt=0,lte=100"`

	// TargetPH, when set, requests an acid dose bringing the estimated pH
	// down to this value.
	TargetPH          float64 `json:"target_ph,omitempty" yaml:"target_ph" validate:"omitempty,gte=4,lte=7"`
	Acid              string  `json:"acid,omitempty" yaml:"acid"`
	AcidConcentration float64 `json:"acid_concentration,omitempty" yaml:"acid_concentration" validate:"omitempty,gt=0,lte=100"`
}

// Metrics carries the derived water metrics of the achieved profile.
type Metrics struct {
	ResidualAlkalinity float64 `json:"residual_alkalinity"`

	// SulfateChlorideRatio is null when chloride is zero (the ratio is
	// undefined, not infinite).
	SulfateChlorideRatio *float64 `json:"sulfate_chloride_ratio"`

	TotalHardness     float64             `json:"total_hardness"`
	EffectiveHardness float64             `json:"effective_hardness"`
	ChargeBalance     water.ChargeBalance `json:"charge_balance"`
}

// OptimizerSummary is the strategy outcome attached to auto-mode reports.
// Additions and the achieved profile live at the report level.
type OptimizerSummary struct {
	Strategy       string                `json:"strategy"`
	Deviation      map[water.Ion]float64 `json:"deviation"`
	TotalDeviation float64               `json:"total_deviation"`
	Score          float64               `json:"score"`
	Converged      bool                  `json:"converged"`
	Infeasible     bool                  `json:"infeasible"`
}

// Report is the full water treatment report.
type Report struct {
	ReportID string `json:"report_id"`
	Mode     string `json:"mode"`

	Source    water.Profile   `json:"source"`
	Achieved  water.Profile   `json:"achieved"`
	Additions water.Additions `json:"additions"`

	Metrics   Metrics           `json:"metrics"`
	PH        *mash.Estimate    `json:"ph,omitempty"`
	AcidDose  *mash.Dose        `json:"acid_dose,omitempty"`
	Optimizer *OptimizerSummary `json:"optimizer,omitempty"`

	Diagnostics []water.Diagnostic `json:"diagnostics,omitempty"`
	CreatedAt   int64              `json:"created_at"`
}

// ReportService builds water treatment reports from validated requests.
type ReportService struct{}

// NewReportService creates a new ReportService.
func NewReportService() *ReportService {
	return &ReportService{}
}

// BuildReport validates the request, composes or optimizes the salt
// additions, estimates mash pH, derives water metrics, and doses acid when
// a target pH is set. Non-fatal findings come back as diagnostics on the
// report; structurally invalid requests come back as errors.
func (s *ReportService) BuildReport(ctx context.Context, req ReportRequest) (*Report, error) {
	start := time.Now()

	if err := validateRequest(req); err != nil {
		reportFailures.WithLabelValues("invalid_request").Inc()
		return nil, err
	}

	source, err := resolveProfile(req.SourceWater, req.Source)
	if err != nil {
		reportFailures.WithLabelValues("unknown_water").Inc()
		return nil, fmt.Errorf("source: %w", err)
	}

	mode := water.VolumeMode(req.VolumeMode)
	report := &Report{
		ReportID:  uuid.NewString(),
		Mode:      req.Mode,
		Source:    source,
		CreatedAt: time.Now().Unix(),
	}

	var diags []water.Diagnostic
	switch req.Mode {
	case ModeManual:
		// Achieved is composed from the same rounded schedule the report
		// carries, so the two never disagree about sub-0.1 g entries.
		additions := req.Additions.Rounded()
		result := compose.Apply(source, additions, req.Volumes, mode, req.Stages, compose.DefaultOptions())
		report.Achieved = result.Profile
		report.Additions = additions
		diags = append(diags, result.Diagnostics...)

	case ModeAuto:
		target, err := resolveProfile(req.TargetWater, req.Target)
		if err != nil {
			reportFailures.WithLabelValues("unknown_water").Inc()
			return nil, fmt.Errorf("target: %w", err)
		}

		strategy := optimizer.Strategy(req.Strategy)
		if req.Strategy == "" {
			strategy = optimizer.StrategyBalanced
		}
		result, err := optimizer.Optimize(strategy, source, target, req.Volumes, mode, req.Constraints)
		if err != nil {
			reportFailures.WithLabelValues("optimizer").Inc()
			return nil, fmt.Errorf("optimize: %w", err)
		}
		report.Achieved = result.Achieved
		report.Additions = result.Additions
		report.Optimizer = &OptimizerSummary{
			Strategy:       string(strategy),
			Deviation:      result.Deviation,
			TotalDeviation: result.TotalDeviation,
			Score:          result.Score,
			Converged:      result.Converged,
			Infeasible:     result.Infeasible,
		}
		diags = append(diags, result.Diagnostics...)
		optimizerRuns.WithLabelValues(string(strategy), optimizerOutcome(result)).Inc()
	}

	report.Metrics = buildMetrics(report.Achieved)

	model := mash.Model(req.PHModel)
	if req.PHModel == "" {
		model = mash.ModelKaiser
	}
	if len(req.GrainBill) > 0 {
		estimate, err := mash.EstimatePH(model, report.Achieved, req.GrainBill, req.Volumes, req.Temperature)
		if err != nil {
			reportFailures.WithLabelValues("ph_model").Inc()
			return nil, fmt.Errorf("estimate pH: %w", err)
		}
		report.PH = &estimate
		diags = append(diags, estimate.Diagnostics...)

		if req.TargetPH > 0 {
			acidID := req.Acid
			if acidID == "" {
				acidID = defaultAcid
			}
			dose := mash.AcidDose(estimate.PH, req.TargetPH, req.GrainBill, acidID, req.AcidConcentration)
			report.AcidDose = &dose
			diags = append(diags, dose.Diagnostics...)
		}
	}

	if report.Metrics.ChargeBalance.Suspect() {
		diags = append(diags, water.Diagf(water.DiagSuspectReport,
			"achieved profile charge imbalance is %.1f%%; the underlying water report may be incomplete",
			report.Metrics.ChargeBalance.ImbalancePercent))
	}
	report.Diagnostics = diags

	reportsBuilt.WithLabelValues(req.Mode, string(model)).Inc()
	reportDuration.Observe(time.Since(start).Seconds())
	slog.Info("report built",
		"report_id", report.ReportID,
		"mode", req.Mode,
		"model", model,
		"diagnostics", len(diags),
	)
	return report, nil
}

// validateRequest combines struct-tag validation with the profile and
// volume checks tags can't express.
func validateRequest(req ReportRequest) error {
	if err := validate.Struct(req); err != nil {
		return fmt.Errorf("invalid request: %w", err)
	}

	if req.Source != nil {
		if err := checkProfile(*req.Source); err != nil {
			return fmt.Errorf("source: %w", err)
		}
	}
	if req.Target != nil {
		if err := checkProfile(*req.Target); err != nil {
			return fmt.Errorf("target: %w", err)
		}
	}
	if err := checkVolumes(req.Volumes, water.VolumeMode(req.VolumeMode)); err != nil {
		return fmt.Errorf("volumes: %w", err)
	}

	if req.Mode == ModeAuto && req.Target == nil && req.TargetWater == "" {
		return fmt.Errorf("auto mode requires a target profile or target_water")
	}
	for id, grams := range req.Additions {
		if grams < 0 {
			return fmt.Errorf("addition %q: negative grams %.2f", id, grams)
		}
	}
	for _, item := range req.GrainBill {
		if item.WeightKG < 0 {
			return fmt.Errorf("grain %q: negative weight %.2f kg", item.Name, item.WeightKG)
		}
		if item.Color < 0 {
			return fmt.Errorf("grain %q: negative color %.1f SRM", item.Name, item.Color)
		}
	}
	return nil
}

// checkProfile rejects negative ion concentrations. The calculation core
// assumes non-negative inputs; this is the boundary that guarantees it.
func checkProfile(p water.Profile) error {
	for _, ion := range water.Ions {
		if p.Get(ion) < 0 {
			return fmt.Errorf("%s: negative concentration %.1f ppm", ion, p.Get(ion))
		}
	}
	return nil
}

// checkVolumes rejects volume sets the requested mode can't work with.
func checkVolumes(v water.Volumes, mode water.VolumeMode) error {
	if v.Total <= 0 {
		return fmt.Errorf("total must be positive, got %.1f L", v.Total)
	}
	if v.Mash < 0 || v.Sparge < 0 {
		return fmt.Errorf("stage volumes must be non-negative")
	}
	switch mode {
	case water.VolumeModeStaged:
		if v.Mash <= 0 {
			return fmt.Errorf("staged mode requires a mash volume")
		}
		if !v.StagesConsistent() {
			return fmt.Errorf("mash %.1f + sparge %.1f does not match total %.1f L", v.Mash, v.Sparge, v.Total)
		}
	case water.VolumeModeMashNormalized, "":
		if v.Mash <= 0 {
			return fmt.Errorf("mash-normalized mode requires a mash volume")
		}
	}
	return nil
}

// resolveProfile picks the explicit profile, the named catalog water, or
// reverse-osmosis water (all zeros), in that order.
func resolveProfile(named string, explicit *water.Profile) (water.Profile, error) {
	if explicit != nil {
		return *explicit, nil
	}
	if named == "" {
		return water.Profile{}, nil
	}
	w, ok := catalog.WaterByID(named)
	if !ok {
		return water.Profile{}, fmt.Errorf("unknown water profile %q", named)
	}
	return w.Profile, nil
}

func buildMetrics(p water.Profile) Metrics {
	m := Metrics{
		ResidualAlkalinity: p.ResidualAlkalinity(),
		TotalHardness:      p.TotalHardness(),
		EffectiveHardness:  p.EffectiveHardness(),
		ChargeBalance:      p.ChargeBalanceCheck(),
	}
	if ratio, defined := p.SulfateChlorideRatio(); defined {
		m.SulfateChlorideRatio = &ratio
	}
	return m
}

func optimizerOutcome(r optimizer.Result) string {
	switch {
	case r.Infeasible:
		return "infeasible"
	case !r.Converged:
		return "not_converged"
	default:
		return "converged"
	}
}
