package validation

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/Harshitkumar63/ai-ddr-builder/internal/core/merge"
	"github.com/Harshitkumar63/ai-ddr-builder/internal/core/model"
)

var (
	numberRe   = regexp.MustCompile(`\d+\.?\d*`)
	wordRe     = regexp.MustCompile(`[a-zA-Z]{4,}`)
	areaLineRe = regexp.MustCompile(`(?i)area(?:\s+name)?\s*:\s*(.+)`)
)

// Small numbers turn up in any prose and are not worth flagging.
var commonNumbers = map[string]bool{
	"0": true, "1": true, "2": true, "3": true, "4": true, "5": true,
	"6": true, "7": true, "8": true, "9": true, "10": true, "100": true,
}

// Everyday words that carry no grounding signal on their own.
var stopwords = map[string]bool{
	"that": true, "this": true, "with": true, "from": true, "have": true,
	"been": true, "were": true, "area": true, "based": true, "show": true,
	"shows": true, "found": true, "noted": true, "which": true, "their": true,
	"there": true, "should": true, "could": true, "would": true, "about": true,
	"more": true, "also": true, "into": true, "over": true, "such": true,
	"than": true, "them": true, "then": true, "these": true, "only": true,
	"some": true, "very": true, "when": true, "will": true, "each": true,
	"made": true, "like": true, "does": true, "done": true, "make": true,
	"many": true, "most": true, "much": true, "must": true, "near": true,
	"need": true, "next": true, "once": true, "part": true, "same": true,
	"take": true, "they": true, "what": true, "your": true, "report": true,
	"available": true,
}

// Validator cross-checks generated DDR text against the merged data it
// was supposed to be written from. Heuristic by design: it cannot prove
// the absence of hallucination, but it catches the common cases —
// invented numbers, fabricated area names, ungrounded claims.
type Validator struct {
	// AreaNameThreshold is the fuzzy score at which a narrative area
	// name counts as grounded in a known area.
	AreaNameThreshold float64
	// MaxPhraseWarnings caps the spot-check output.
	MaxPhraseWarnings int
}

func NewValidator() *Validator {
	return &Validator{
		AreaNameThreshold: 0.7,
		MaxPhraseWarnings: 5,
	}
}

// Validate runs three checks over the narrative: area-name grounding,
// number grounding, and a per-sentence token spot-check. Warnings never
// fail the run; only error-severity findings do.
func (v *Validator) Validate(ddrText string, merged *model.MergedData) model.ValidationResult {
	refNames := collectAreaNames(merged)
	refNumbers := collectNumbers(merged)
	refTokens := collectTokens(merged)

	var warnings []model.ValidationWarning

	for _, name := range extractAreaNames(ddrText) {
		if !v.grounded(name, refNames) {
			warnings = append(warnings, model.ValidationWarning{
				Category: "unknown_area",
				Detail:   fmt.Sprintf("Area name '%s' appears in DDR but was not found in merged data.", name),
				Severity: "warning",
			})
		}
	}

	for _, num := range sortedKeys(extractNumbers(ddrText)) {
		if !refNumbers[num] && !commonNumbers[num] {
			warnings = append(warnings, model.ValidationWarning{
				Category: "ungrounded_number",
				Detail:   fmt.Sprintf("Number '%s' in DDR not found in source data — possible hallucination.", num),
				Severity: "warning",
			})
		}
	}

	for _, phrase := range v.spotCheck(ddrText, refTokens) {
		warnings = append(warnings, model.ValidationWarning{
			Category: "hallucination",
			Detail:   fmt.Sprintf("Phrase may not be grounded in source data: '%s'", phrase),
			Severity: "warning",
		})
	}

	passed := true
	for _, w := range warnings {
		if w.Severity == "error" {
			passed = false
		}
	}

	info := "Validation complete: no issues detected."
	if len(warnings) > 0 {
		info = fmt.Sprintf("Validation complete: %d warning(s) found.", len(warnings))
	}

	return model.ValidationResult{Passed: passed, Warnings: warnings, Info: info}
}

func (v *Validator) grounded(name string, reference []string) bool {
	name = strings.ToLower(strings.TrimSpace(name))
	for _, ref := range reference {
		if strings.Contains(ref, name) || strings.Contains(name, ref) {
			return true
		}
		if merge.Similarity(name, ref) >= v.AreaNameThreshold {
			return true
		}
	}
	return false
}

// spotCheck flags sentences that make specific numeric claims whose key
// words barely overlap the source vocabulary.
func (v *Validator) spotCheck(ddrText string, refTokens map[string]bool) []string {
	var suspicious []string

	for _, sentence := range regexp.MustCompile(`[.!?\n]`).Split(ddrText, -1) {
		sentence = strings.TrimSpace(sentence)
		if len(sentence) < 20 {
			continue
		}
		// Only sentences with specific claims are worth checking
		if !strings.ContainsAny(sentence, "0123456789") {
			continue
		}

		var keyWords, ungrounded []string
		for _, w := range wordRe.FindAllString(strings.ToLower(sentence), -1) {
			if stopwords[w] {
				continue
			}
			keyWords = append(keyWords, w)
			if !refTokens[w] {
				ungrounded = append(ungrounded, w)
			}
		}
		if len(keyWords) == 0 {
			continue
		}

		groundedRatio := 1.0 - float64(len(ungrounded))/float64(len(keyWords))
		if groundedRatio < 0.4 && len(ungrounded) >= 3 {
			if len(sentence) > 120 {
				sentence = sentence[:120]
			}
			suspicious = append(suspicious, sentence)
			if len(suspicious) >= v.MaxPhraseWarnings {
				break
			}
		}
	}

	return suspicious
}

func collectAreaNames(merged *model.MergedData) []string {
	names := make([]string, 0, len(merged.Areas))
	for _, a := range merged.Areas {
		names = append(names, strings.ToLower(strings.TrimSpace(a.Name)))
	}
	return names
}

func collectNumbers(merged *model.MergedData) map[string]bool {
	numbers := make(map[string]bool)
	for _, s := range allStrings(merged) {
		for n := range extractNumbers(s) {
			numbers[n] = true
		}
	}
	return numbers
}

func collectTokens(merged *model.MergedData) map[string]bool {
	tokens := make(map[string]bool)
	for _, s := range allStrings(merged) {
		for _, w := range wordRe.FindAllString(strings.ToLower(s), -1) {
			tokens[w] = true
		}
	}
	return tokens
}

func allStrings(merged *model.MergedData) []string {
	var out []string
	for _, a := range merged.Areas {
		out = append(out, a.Name)
		// Field names count too: the narrative naturally reuses them
		for k, v := range a.Fields {
			out = append(out, k, v)
		}
		out = append(out, a.Notes...)
		out = append(out, a.Conflicts...)
	}
	out = append(out, merged.GlobalNotes...)
	return out
}

func extractNumbers(text string) map[string]bool {
	numbers := make(map[string]bool)
	for _, n := range numberRe.FindAllString(text, -1) {
		numbers[n] = true
	}
	return numbers
}

// extractAreaNames pulls "Area: <name>" style headings out of the DDR.
func extractAreaNames(ddrText string) []string {
	seen := make(map[string]bool)
	var names []string
	for _, m := range areaLineRe.FindAllStringSubmatch(ddrText, -1) {
		name := strings.ToLower(strings.TrimSuffix(strings.TrimSpace(m[1]), "."))
		if name != "" && !seen[name] {
			seen[name] = true
			names = append(names, name)
		}
	}
	return names
}

// sortedKeys gives a deterministic warning order for stable reports.
func sortedKeys(set map[string]bool) []string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
