package optimizer

import (
	"math"

	"github.com/hopsmith/brewwater/internal/catalog"
	"github.com/hopsmith/brewwater/internal/compose"
	"github.com/hopsmith/brewwater/internal/water"
)

// balancedPriority is the order deficits get filled in: calcium and flavor
// ions first, alkalinity last.
var balancedPriority = []string{
	"gypsum",
	"calcium_chloride",
	"epsom_salt",
	"canning_salt",
	"baking_soda",
	"chalk",
}

// balancedDamping holds each addition to 80% of the full fill. Salts move
// several correlated ions at once, so filling one deficit completely tends
// to overshoot another.
const balancedDamping = 0.8

// optimizeBalanced walks the priority list once. For each salt it sizes the
// grams that would exactly fill the most constraining still-unmet deficit
// among the ions the salt yields (the one needing the fewest grams, so no
// yielded ion overshoots), applies 80% of that, and stops at the salt cap.
func optimizeBalanced(source, target water.Profile, vol water.Volumes, mode water.VolumeMode, c Constraints) water.Additions {
	allowed := allowedSet(c)
	additions := water.Additions{}
	used := 0

	achieved := source
	for _, id := range balancedPriority {
		if used >= c.MaxSalts {
			break
		}
		if !allowed[id] {
			continue
		}
		need := deficits(achieved, target)
		if len(need) == 0 {
			break
		}

		salt, _ := catalog.SaltByID(id)
		grams := math.Inf(1)
		for _, ion := range optimizedIons {
			d, ok := need[ion]
			if !ok {
				continue
			}
			perGram := saltPPMYield(salt, ion, vol, mode)
			if perGram <= 0 {
				continue
			}
			if g := d / perGram; g < grams {
				grams = g
			}
		}
		if math.IsInf(grams, 1) {
			continue
		}

		grams *= balancedDamping
		if grams < 0.05 {
			continue
		}
		additions[id] += grams
		used++
		achieved = compose.Apply(source, additions, vol, mode, nil, compose.DefaultOptions()).Profile
	}
	return additions
}
