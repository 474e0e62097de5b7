package merge

import (
	"fmt"

	"github.com/Harshitkumar63/ai-ddr-builder/internal/core/model"
)

// Engine merges the two document extractions into one canonical dataset.
// A single invocation is a pure function of its inputs and the configured
// thresholds: no retained state, no I/O, safe for concurrent use across
// independent document pairs.
type Engine struct {
	Threshold          float64
	DuplicateThreshold float64
	Matcher            *Matcher
}

func NewEngine(threshold float64) *Engine {
	if threshold <= 0 {
		threshold = DefaultThreshold
	}
	return &Engine{
		Threshold:          threshold,
		DuplicateThreshold: DefaultDuplicateThreshold,
		Matcher:            NewMatcher(threshold),
	}
}

// Merge matches areas across both extractions, merges each matched pair
// (or singleton) field by field, and returns the canonical area list
// together with the accumulated conflict registry. Matched areas come
// first in match order, then unmatched inspection areas, then unmatched
// thermal areas, all deterministically.
//
// A malformed input (an area without a name) rejects the whole run: a
// partial merge would silently drop data, which is worse than failing.
func (e *Engine) Merge(inspection, thermal model.DocumentExtraction) (*model.MergedData, error) {
	if err := validateAreas(inspection.Areas); err != nil {
		return nil, fmt.Errorf("inspection document: %w", err)
	}
	if err := validateAreas(thermal.Areas); err != nil {
		return nil, fmt.Errorf("thermal document: %w", err)
	}

	merged := &model.MergedData{}
	warn := func(w string) {
		merged.DuplicateWarnings = append(merged.DuplicateWarnings, w)
	}

	for _, pair := range e.Matcher.Match(inspection.Areas, thermal.Areas) {
		area, records := e.mergeArea(pair, warn)
		merged.Areas = append(merged.Areas, area)
		merged.Conflicts = append(merged.Conflicts, records...)
	}

	merged.GlobalNotes = e.dedupeStrings(
		append(append([]string{}, inspection.GlobalNotes...), thermal.GlobalNotes...),
		warn,
	)

	return merged, nil
}

// mergeArea builds the canonical area for one matched pair or singleton,
// returning the conflict records it contributed to the registry.
func (e *Engine) mergeArea(pair Pair, warn func(string)) (model.CanonicalArea, []model.ConflictRecord) {
	switch {
	case pair.Inspection != nil && pair.Thermal != nil:
		fields, records := e.mergeFields(pair.Name, pair.Inspection.Fields, pair.Thermal.Fields)

		area := model.CanonicalArea{
			Name:    pair.Name,
			Fields:  fields,
			Sources: []model.Source{model.SourceInspection, model.SourceThermal},
		}
		area.Notes = e.dedupeStrings(
			append(append([]string{}, pair.Inspection.Notes...), pair.Thermal.Notes...),
			warn,
		)
		for _, rec := range records {
			area.ConflictDetected = true
			area.Conflicts = append(area.Conflicts, rec.Description)
		}
		return area, records

	case pair.Inspection != nil:
		return e.singletonArea(pair.Name, pair.Inspection, model.SourceInspection, warn), nil

	default:
		return e.singletonArea(pair.Name, pair.Thermal, model.SourceThermal, warn), nil
	}
}

func (e *Engine) singletonArea(name string, obs *model.Observation, src model.Source, warn func(string)) model.CanonicalArea {
	return model.CanonicalArea{
		Name:    name,
		Fields:  singletonFields(obs.Fields),
		Notes:   e.dedupeStrings(obs.Notes, warn),
		Sources: []model.Source{src},
	}
}

func validateAreas(areas []model.Observation) error {
	for i, a := range areas {
		if normalize(a.Name) == "" {
			return fmt.Errorf("area %d has no name", i)
		}
	}
	return nil
}
