package optimizer

import (
	"math"
	"sort"

	"github.com/hopsmith/brewwater/internal/catalog"
	"github.com/hopsmith/brewwater/internal/compose"
	"github.com/hopsmith/brewwater/internal/water"
)

// exactSteps is the decreasing step-size schedule of the local search.
var exactSteps = []float64{1.0, 0.5, 0.2, 0.1}

// exactMaxPasses bounds the total improvement sweeps across all step sizes.
const exactMaxPasses = 150

// exactInitialFraction sizes the starting guess at half of each salt's
// limiting deficit, leaving the search room on both sides.
const exactInitialFraction = 0.5

// optimizeExact seeds each allowed salt at half its limiting-deficit grams,
// trims the set to the salt cap, and then sweeps +step/-step adjustments
// per salt with decreasing steps, keeping any change that strictly reduces
// the total absolute ion deviation.
func optimizeExact(source, target water.Profile, vol water.Volumes, mode water.VolumeMode, c Constraints) water.Additions {
	allowed := c.allowed()
	additions := water.Additions{}

	achieved := source
	for _, id := range allowed {
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
		if math.IsInf(grams, 1) || grams <= 0 {
			continue
		}
		additions[id] = grams * exactInitialFraction
		achieved = compose.Apply(source, additions, vol, mode, nil, compose.DefaultOptions()).Profile
	}

	active := trimToMaxSalts(additions, allowed, c.MaxSalts)

	totalDev := func() float64 {
		p := compose.Apply(source, additions, vol, mode, nil, compose.DefaultOptions()).Profile
		var sum float64
		for _, ion := range optimizedIons {
			sum += math.Abs(p.Get(ion) - target.Get(ion))
		}
		return sum
	}

	best := totalDev()
	threshold := c.TolerancePPM * float64(len(optimizedIons))
	passes := 0
	for _, step := range exactSteps {
		if best <= threshold {
			break
		}
		for passes < exactMaxPasses {
			passes++
			improved := false
			for _, id := range active {
				for _, delta := range []float64{step, -step} {
					next := additions[id] + delta
					if next < 0 {
						if additions[id] == 0 {
							continue
						}
						next = 0
					}
					prev := additions[id]
					additions[id] = next
					if dev := totalDev(); dev < best-1e-9 {
						best = dev
						improved = true
					} else {
						additions[id] = prev
					}
				}
			}
			if !improved || best <= threshold {
				break
			}
		}
	}

	for id, grams := range additions {
		if grams <= 0 {
			delete(additions, id)
		}
	}
	return additions
}

// trimToMaxSalts keeps the maxSalts largest seed amounts and returns the
// active ID list the search may adjust, padded with unused allowed salts
// (at zero grams) when the seed used fewer than the cap.
func trimToMaxSalts(additions water.Additions, allowed []string, maxSalts int) []string {
	ids := make([]string, 0, len(additions))
	for id := range additions {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool {
		if additions[ids[i]] != additions[ids[j]] {
			return additions[ids[i]] > additions[ids[j]]
		}
		return ids[i] < ids[j]
	})

	for _, id := range ids[min(len(ids), maxSalts):] {
		delete(additions, id)
	}
	active := ids[:min(len(ids), maxSalts)]

	for _, id := range allowed {
		if len(active) >= maxSalts {
			break
		}
		if _, ok := additions[id]; !ok {
			active = append(active, id)
		}
	}
	return active
}
