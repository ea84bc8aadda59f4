// Package optimizer searches for salt additions that move a source water
// profile toward a target. Three strategies are available: minimal cares
// about calcium and the sulfate:chloride ratio only, balanced fills ion
// deficits along a fixed priority list, and exact runs a local search that
// minimizes total ion deviation. Salts only add ions, so targets below the
// source are structurally unreachable and get flagged rather than failed.
package optimizer

import (
	"fmt"
	"math"

	"github.com/hopsmith/brewwater/internal/catalog"
	"github.com/hopsmith/brewwater/internal/compose"
	"github.com/hopsmith/brewwater/internal/water"
)

// Strategy selects an optimization strategy.
type Strategy string

const (
	// StrategyMinimal hits a calcium floor and a style-driven
	// sulfate:chloride ratio with as few salts as possible.
	StrategyMinimal Strategy = "minimal"

	// StrategyBalanced fills per-ion deficits along a fixed salt priority
	// list with conservative damping.
	StrategyBalanced Strategy = "balanced"

	// StrategyExact minimizes total absolute ion deviation with a
	// decreasing-step local search.
	StrategyExact Strategy = "exact"
)

// Valid reports whether the strategy is one of the known optimizers.
func (s Strategy) Valid() bool {
	switch s {
	case StrategyMinimal, StrategyBalanced, StrategyExact:
		return true
	}
	return false
}

// Optimizer defaults.
const (
	defaultMaxSalts     = 4
	defaultTolerancePPM = 5.0

	// A result whose combined deviation is beyond this multiple of the
	// convergence threshold is reported as infeasible.
	infeasibleMultiple = 3.0
)

// Constraints bound an optimization run. The zero value means defaults.
type Constraints struct {
	// MaxSalts caps how many distinct salts a solution may use. Zero means
	// the default of 4.
	MaxSalts int `json:"max_salts,omitempty" yaml:"max_salts,omitempty"`

	// TolerancePPM is the per-ion tolerance convergence is judged against.
	// Zero means the default of 5 ppm.
	TolerancePPM float64 `json:"tolerance_ppm,omitempty" yaml:"tolerance_ppm,omitempty"`

	// Style is the flavor leaning the minimal strategy steers the
	// sulfate:chloride ratio toward. Empty means derive the ratio target
	// from the target profile itself.
	Style catalog.Style `json:"style,omitempty" yaml:"style,omitempty"`

	// AllowedSalts restricts the catalog subset the optimizer may use.
	// Empty means the default working set: every salt except pickling lime
	// and magnesium chloride, which are opt-in only.
	AllowedSalts []string `json:"allowed_salts,omitempty" yaml:"allowed_salts,omitempty"`
}

func (c Constraints) withDefaults() Constraints {
	if c.MaxSalts <= 0 {
		c.MaxSalts = defaultMaxSalts
	}
	if c.TolerancePPM <= 0 {
		c.TolerancePPM = defaultTolerancePPM
	}
	return c
}

// defaultSaltIDs is the solver's working set when AllowedSalts is empty,
// in catalog order. Pickling lime and magnesium chloride are excluded;
// both must be asked for by name.
var defaultSaltIDs = []string{
	"gypsum",
	"calcium_chloride",
	"epsom_salt",
	"canning_salt",
	"baking_soda",
	"chalk",
}

// allowed returns the salt IDs the run may use, in catalog order.
func (c Constraints) allowed() []string {
	if len(c.AllowedSalts) == 0 {
		out := make([]string, len(defaultSaltIDs))
		copy(out, defaultSaltIDs)
		return out
	}
	out := make([]string, 0, len(c.AllowedSalts))
	for _, id := range c.AllowedSalts {
		if _, ok := catalog.SaltByID(id); ok {
			out = append(out, id)
		}
	}
	return out
}

// optimizedIons are the channels deviation is scored over. Carbonate is
// excluded: under the dissolution assumption it always composes to zero.
var optimizedIons = []water.Ion{
	water.IonCalcium,
	water.IonMagnesium,
	water.IonSodium,
	water.IonSulfate,
	water.IonChloride,
	water.IonBicarbonate,
}

// Result is one optimization outcome.
type Result struct {
	// Additions is the recommended salt amounts in grams, rounded to one
	// decimal with sub-0.1 g entries dropped.
	Additions water.Additions `json:"additions"`

	// Achieved is the source profile with the additions applied.
	Achieved water.Profile `json:"achieved"`

	// Deviation is achieved minus target per ion, in ppm.
	Deviation map[water.Ion]float64 `json:"deviation"`

	// TotalDeviation is the sum of absolute per-ion deviations.
	TotalDeviation float64 `json:"total_deviation"`

	// Score grades the match from 0 to 100.
	Score float64 `json:"score"`

	// Converged reports whether the strategy met its own goal: combined
	// deviation under tolerance × ion count for balanced and exact, calcium
	// floor plus ratio proximity for minimal.
	Converged bool `json:"converged"`

	// Infeasible marks targets salts cannot reach: an ion below the source
	// level, or a final deviation far beyond the convergence threshold.
	Infeasible bool `json:"infeasible"`

	Diagnostics []water.Diagnostic `json:"diagnostics,omitempty"`
}

// Optimize runs the selected strategy. The volume mode decides which volume
// gram amounts dissolve into, exactly as in the composer.
func Optimize(strategy Strategy, source, target water.Profile, vol water.Volumes, mode water.VolumeMode, c Constraints) (Result, error) {
	if !strategy.Valid() {
		return Result{}, fmt.Errorf("unknown optimizer strategy %q", strategy)
	}
	c = c.withDefaults()

	var additions water.Additions
	switch strategy {
	case StrategyMinimal:
		additions = optimizeMinimal(source, target, vol, mode, c)
	case StrategyBalanced:
		additions = optimizeBalanced(source, target, vol, mode, c)
	case StrategyExact:
		additions = optimizeExact(source, target, vol, mode, c)
	}

	return finish(strategy, source, target, additions, vol, mode, c), nil
}

// finish rounds the raw gram amounts, composes the achieved profile, and
// grades the solution.
func finish(strategy Strategy, source, target water.Profile, additions water.Additions, vol water.Volumes, mode water.VolumeMode, c Constraints) Result {
	rounded := additions.Rounded()
	composed := compose.Apply(source, rounded, vol, mode, nil, compose.DefaultOptions())

	result := Result{
		Additions:   rounded,
		Achieved:    composed.Profile,
		Deviation:   make(map[water.Ion]float64, len(optimizedIons)),
		Diagnostics: composed.Diagnostics,
	}
	for _, ion := range optimizedIons {
		dev := composed.Profile.Get(ion) - target.Get(ion)
		result.Deviation[ion] = dev
		result.TotalDeviation += math.Abs(dev)
	}
	result.Score = score(composed.Profile, target, c)

	// Structurally unreachable ions: salts only add.
	for _, ion := range optimizedIons {
		if target.Get(ion) < source.Get(ion)-c.TolerancePPM {
			result.Infeasible = true
			result.Diagnostics = append(result.Diagnostics, water.Diagf(water.DiagInfeasibleTarget,
				"target %s %.0f ppm is below the source %.0f ppm; salts cannot remove ions",
				ion, target.Get(ion), source.Get(ion)))
		}
	}

	threshold := c.TolerancePPM * float64(len(optimizedIons))
	switch strategy {
	case StrategyMinimal:
		result.Converged = minimalConverged(composed.Profile, target, c)
	default:
		result.Converged = result.TotalDeviation <= threshold
	}
	// Only the exact strategy promises profile fidelity, so only it treats
	// a large final deviation as proof the target is out of reach.
	if strategy == StrategyExact && result.TotalDeviation > threshold*infeasibleMultiple {
		result.Infeasible = true
		result.Diagnostics = append(result.Diagnostics, water.Diagf(water.DiagInfeasibleTarget,
			"final deviation %.0f ppm exceeds %.0f ppm; the target is out of reach with the allowed salts",
			result.TotalDeviation, threshold*infeasibleMultiple))
	}

	return result
}

// allowedSet is the allowed list as a membership set.
func allowedSet(c Constraints) map[string]bool {
	out := make(map[string]bool)
	for _, id := range c.allowed() {
		out[id] = true
	}
	return out
}

// Score weights: profile proximity dominates, calcium adequacy and flavor
// ratio proximity contribute the rest.
const (
	scoreWeightDeviation = 0.5
	scoreWeightCalcium   = 0.3
	scoreWeightRatio     = 0.2
)

// minimumCalciumPPM is the floor below which yeast health and enzyme
// activity suffer.
const minimumCalciumPPM = 50.0

// score grades an achieved profile against the target from 0 to 100:
// per-ion relative deviation, calcium adequacy, and sulfate:chloride ratio
// proximity to the style (or target-derived) goal.
func score(achieved, target water.Profile, c Constraints) float64 {
	var devSum float64
	var devCount int
	for _, ion := range optimizedIons {
		want := target.Get(ion)
		if want <= 0 {
			continue
		}
		devCount++
		rel := math.Abs(achieved.Get(ion)-want) / want
		devSum += math.Min(1, rel)
	}
	devScore := 1.0
	if devCount > 0 {
		devScore = 1 - devSum/float64(devCount)
	}

	caScore := math.Min(1, achieved.Calcium/minimumCalciumPPM)

	ratioGoal := ratioTarget(target, c)
	ratioScore := 0.0
	if r, defined := achieved.SulfateChlorideRatio(); defined && ratioGoal > 0 {
		ratioScore = 1 - math.Min(1, math.Abs(r-ratioGoal)/ratioGoal)
	}

	total := scoreWeightDeviation*devScore + scoreWeightCalcium*caScore + scoreWeightRatio*ratioScore
	return math.Max(0, math.Min(100, total*100))
}

// ratioTarget resolves the sulfate:chloride goal: an explicit style wins,
// otherwise the target profile's own ratio, otherwise balanced.
func ratioTarget(target water.Profile, c Constraints) float64 {
	if c.Style != "" {
		return catalog.RatioForStyle(c.Style)
	}
	if r, defined := target.SulfateChlorideRatio(); defined {
		return r
	}
	return catalog.RatioForStyle(catalog.StyleBalanced)
}

// deficits returns max(0, target − achieved) per optimized ion.
func deficits(achieved, target water.Profile) map[water.Ion]float64 {
	out := make(map[water.Ion]float64, len(optimizedIons))
	for _, ion := range optimizedIons {
		if d := target.Get(ion) - achieved.Get(ion); d > 0 {
			out[ion] = d
		}
	}
	return out
}

// saltPPMYield returns what one gram of the salt adds to an ion, honoring
// the carbonate dissolution assumption the composer applies.
func saltPPMYield(salt catalog.Salt, ion water.Ion, vol water.Volumes, mode water.VolumeMode) float64 {
	yield := salt.Yields[ion]
	if ion == water.IonBicarbonate {
		yield += salt.Yields[water.IonCarbonate] * hco3PerCO3
		yield += salt.DissolvedHCO3Yield
	}
	return compose.Contribution(1.0, yield, vol, mode, "")
}

// hco3PerCO3 mirrors the composer's dissolution ratio.
const hco3PerCO3 = 61.016 / 60.008
