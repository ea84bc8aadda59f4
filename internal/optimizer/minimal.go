package optimizer

import (
	"math"

	"github.com/hopsmith/brewwater/internal/catalog"
	"github.com/hopsmith/brewwater/internal/compose"
	"github.com/hopsmith/brewwater/internal/water"
)

// Each minimal addition is capped to keep a single nudge from overshooting.
const minimalGramCap = 2.0

// The ratio is close enough within 10% of the goal.
const ratioRelTolerance = 0.10

const maxRatioNudges = 3

// optimizeMinimal ignores most of the target profile: it brings calcium up
// to an adequacy floor, then nudges the sulfate:chloride ratio toward the
// style goal with small capped additions of gypsum or calcium chloride,
// never using more distinct salts than the cap allows.
func optimizeMinimal(source, target water.Profile, vol water.Volumes, mode water.VolumeMode, c Constraints) water.Additions {
	allowed := allowedSet(c)
	additions := water.Additions{}
	ratioGoal := ratioTarget(target, c)

	achieved := func() water.Profile {
		return compose.Apply(source, additions, vol, mode, nil, compose.DefaultOptions()).Profile
	}

	// Calcium floor. A sulfate-forward goal reaches for gypsum, anything
	// else for calcium chloride.
	cur := achieved()
	if caGoal := minimalCalciumGoal(target, c); cur.Calcium < caGoal {
		id := "calcium_chloride"
		if ratioGoal >= catalog.RatioForStyle(catalog.StyleHoppy) {
			id = "gypsum"
		}
		if !allowed[id] {
			switch {
			case id == "gypsum" && allowed["calcium_chloride"]:
				id = "calcium_chloride"
			case id == "calcium_chloride" && allowed["gypsum"]:
				id = "gypsum"
			default:
				id = ""
			}
		}
		if id != "" {
			salt, _ := catalog.SaltByID(id)
			if perGram := saltPPMYield(salt, water.IonCalcium, vol, mode); perGram > 0 {
				additions[id] += math.Min((caGoal-cur.Calcium)/perGram, minimalGramCap)
			}
		}
	}

	for i := 0; i < maxRatioNudges; i++ {
		cur = achieved()
		ratio, defined := cur.SulfateChlorideRatio()

		var id string
		var ion water.Ion
		var needPPM float64
		switch {
		case defined && math.Abs(ratio-ratioGoal) <= ratioGoal*ratioRelTolerance:
			return additions
		case !defined || ratio > ratioGoal:
			// Sulfate-forward (or no chloride at all): add chloride.
			id, ion = "calcium_chloride", water.IonChloride
			needPPM = cur.Sulfate/ratioGoal - cur.Chloride
		default:
			id, ion = "gypsum", water.IonSulfate
			needPPM = ratioGoal*cur.Chloride - cur.Sulfate
		}

		if !allowed[id] {
			return additions
		}
		// A nudge may top up a salt already in the schedule, but introducing
		// a new one counts against the distinct-salt budget.
		if _, used := additions[id]; !used && len(additions) >= c.MaxSalts {
			return additions
		}
		salt, _ := catalog.SaltByID(id)
		perGram := saltPPMYield(salt, ion, vol, mode)
		if perGram <= 0 {
			return additions
		}
		grams := math.Min(needPPM/perGram, minimalGramCap)
		if grams < 0.05 {
			return additions
		}
		additions[id] += grams
	}
	return additions
}

// minimalCalciumGoal is the calcium level the minimal strategy drives
// toward. A target asking for less calcium than the adequacy floor is
// respected; a zero-calcium target with no style disables the floor
// entirely.
func minimalCalciumGoal(target water.Profile, c Constraints) float64 {
	switch {
	case target.Calcium >= minimumCalciumPPM || c.Style != "":
		return minimumCalciumPPM
	case target.Calcium > 0:
		return target.Calcium
	default:
		return 0
	}
}

// minimalConverged judges the minimal strategy against its own goal:
// calcium at the floor and the ratio near the style target.
func minimalConverged(achieved, target water.Profile, c Constraints) bool {
	if achieved.Calcium < minimalCalciumGoal(target, c)-c.TolerancePPM {
		return false
	}
	goal := ratioTarget(target, c)
	ratio, defined := achieved.SulfateChlorideRatio()
	if !defined {
		return achieved.Sulfate == 0
	}
	return math.Abs(ratio-goal) <= goal*ratioRelTolerance
}
