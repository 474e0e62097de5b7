package merge

import (
	"fmt"
	"sort"
	"strings"

	"github.com/Harshitkumar63/ai-ddr-builder/internal/core/model"
)

// mergeFields merges the field maps of a matched pair field by field.
// Returns the merged map plus one ConflictRecord per disagreement.
// Every output value is either model.NotAvailable, a verbatim (trimmed)
// source value, or a conflict marker that shows both source values.
func (e *Engine) mergeFields(areaName string, insp, therm map[string]string) (map[string]string, []model.ConflictRecord) {
	keys := make(map[string]bool)
	for k := range insp {
		keys[k] = true
	}
	for k := range therm {
		keys[k] = true
	}

	sorted := make([]string, 0, len(keys))
	for k := range keys {
		sorted = append(sorted, k)
	}
	sort.Strings(sorted)

	merged := make(map[string]string, len(sorted))
	var conflicts []model.ConflictRecord

	for _, key := range sorted {
		a := strings.TrimSpace(insp[key])
		b := strings.TrimSpace(therm[key])

		switch {
		case a == "" && b == "":
			merged[key] = model.NotAvailable

		case a == "":
			merged[key] = b

		case b == "":
			merged[key] = a

		case valueSimilarity(a, b) >= e.Threshold:
			// Same statement twice; keep the more detailed wording.
			if len(b) > len(a) {
				merged[key] = b
			} else {
				merged[key] = a
			}

		default:
			// Genuine disagreement. Never pick a side silently: the
			// stored value itself shows both claims.
			merged[key] = fmt.Sprintf("[CONFLICT] Inspection: %s | Thermal: %s", a, b)
			conflicts = append(conflicts, model.ConflictRecord{
				Area:        areaName,
				Field:       key,
				Inspection:  a,
				Thermal:     b,
				Description: fmt.Sprintf("%s conflict — Inspection: '%s' vs Thermal: '%s'", key, a, b),
			})
		}
	}

	return merged, conflicts
}

// singletonFields normalizes the field map of a single-source area.
// The missing source contributes nothing, so empty values become the
// explicit NotAvailable marker rather than silent blanks.
func singletonFields(fields map[string]string) map[string]string {
	out := make(map[string]string, len(fields))
	for k, v := range fields {
		v = strings.TrimSpace(v)
		if v == "" {
			v = model.NotAvailable
		}
		out[k] = v
	}
	return out
}

// dedupeStrings removes near-duplicate strings from items, preserving
// first-seen order. Each removal is reported through warn.
func (e *Engine) dedupeStrings(items []string, warn func(string)) []string {
	var unique []string
	for _, item := range items {
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}

		dup := false
		for _, existing := range unique {
			if sim := valueSimilarity(item, existing); sim >= e.DuplicateThreshold {
				dup = true
				warn(fmt.Sprintf("Duplicate removed (sim=%.2f): '%s' ~ '%s'", sim, item, existing))
				break
			}
		}
		if !dup {
			unique = append(unique, item)
		}
	}
	return unique
}
