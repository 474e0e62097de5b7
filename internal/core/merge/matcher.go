package merge

import (
	"github.com/Harshitkumar63/ai-ddr-builder/internal/core/model"
)

// NamePolicy picks the canonical name for a matched pair of areas.
type NamePolicy func(inspection, thermal string) string

// PreferLonger is the default policy: the longer label is assumed to be
// the more descriptive one. Equal lengths keep the inspection name.
func PreferLonger(inspection, thermal string) string {
	if len(thermal) > len(inspection) {
		return thermal
	}
	return inspection
}

// Pair couples at most one observation from each source. A Pair with one
// side nil is a singleton area present in only one report.
type Pair struct {
	Name       string
	Inspection *model.Observation
	Thermal    *model.Observation
	Score      float64
}

// Matcher pairs areas across the two documents by name similarity.
type Matcher struct {
	Threshold float64
	Name      NamePolicy
}

func NewMatcher(threshold float64) *Matcher {
	if threshold <= 0 {
		threshold = DefaultThreshold
	}
	return &Matcher{
		Threshold: threshold,
		Name:      PreferLonger,
	}
}

// Match greedily selects the globally highest-scoring unmatched pair at
// or above the threshold until none remains, then appends the leftover
// areas as singletons (inspection first, in input order, then thermal).
// Ties are broken by inspection input order, then thermal input order.
// Every input area ends up in exactly one Pair.
func (m *Matcher) Match(inspection, thermal []model.Observation) []Pair {
	matchedA := make([]bool, len(inspection))
	matchedB := make([]bool, len(thermal))

	var pairs []Pair
	for {
		bestI, bestJ := -1, -1
		bestScore := 0.0

		for i := range inspection {
			if matchedA[i] {
				continue
			}
			for j := range thermal {
				if matchedB[j] {
					continue
				}
				// Strict > keeps the earliest (i, j) on ties.
				if score := Similarity(inspection[i].Name, thermal[j].Name); score > bestScore {
					bestI, bestJ, bestScore = i, j, score
				}
			}
		}

		if bestI < 0 || bestScore < m.Threshold {
			break
		}

		matchedA[bestI] = true
		matchedB[bestJ] = true
		pairs = append(pairs, Pair{
			Name:       m.Name(inspection[bestI].Name, thermal[bestJ].Name),
			Inspection: &inspection[bestI],
			Thermal:    &thermal[bestJ],
			Score:      bestScore,
		})
	}

	for i := range inspection {
		if !matchedA[i] {
			pairs = append(pairs, Pair{Name: inspection[i].Name, Inspection: &inspection[i]})
		}
	}
	for j := range thermal {
		if !matchedB[j] {
			pairs = append(pairs, Pair{Name: thermal[j].Name, Thermal: &thermal[j]})
		}
	}

	return pairs
}
