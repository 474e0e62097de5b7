package merge

import (
	"sort"
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"
)

const (
	// DefaultThreshold drives both area matching and field-conflict
	// detection. One knob on purpose: two strings are "the same thing"
	// under the same definition everywhere.
	DefaultThreshold = 0.75

	// DefaultDuplicateThreshold controls near-duplicate note collapsing.
	DefaultDuplicateThreshold = 0.85
)

// Similarity scores two area labels in [0,1]. Case and surrounding
// whitespace are ignored. The score is the max of a character-level diff
// ratio and a token-set ratio, so reordered or partially overlapping
// labels ("Bedroom 2" vs "Rear Bedroom") still score high while
// unrelated strings stay low. Symmetric; identical strings score 1; an
// empty string scores 0 against anything non-empty.
//
// Label comparison only. Field values and notes go through
// valueSimilarity: the token-set shortcut would score "Dry" and
// "Not dry" as identical and mask a genuine disagreement.
func Similarity(a, b string) float64 {
	a = normalize(a)
	b = normalize(b)

	if a == b {
		return 1.0
	}
	if a == "" || b == "" {
		return 0.0
	}

	score := diffRatio(a, b)
	if ts := tokenSetRatio(a, b); ts > score {
		score = ts
	}
	return score
}

// valueSimilarity scores two field values or notes. Character-level
// only: a value whose tokens are a subset of the other's ("Dry" inside
// "Not dry") is a disagreement to surface, never a match.
func valueSimilarity(a, b string) float64 {
	a = normalize(a)
	b = normalize(b)

	if a == b {
		return 1.0
	}
	if a == "" || b == "" {
		return 0.0
	}
	return diffRatio(a, b)
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// diffRatio is the classic 2*M/T ratio over a character diff: M is the
// number of characters in common, T the total length of both strings.
func diffRatio(a, b string) float64 {
	// Canonical argument order keeps the score symmetric regardless of
	// which side the diff treats as "old" text.
	if a > b {
		a, b = b, a
	}

	dmp := diffmatchpatch.New()
	diffs := dmp.DiffMain(a, b, false)

	common := 0
	for _, d := range diffs {
		if d.Type == diffmatchpatch.DiffEqual {
			common += len([]rune(d.Text))
		}
	}

	total := len([]rune(a)) + len([]rune(b))
	if total == 0 {
		return 1.0
	}
	return 2.0 * float64(common) / float64(total)
}

// tokenSetRatio compares the shared tokens of both strings against each
// full token set. Returns 0 when the strings share no tokens at all.
func tokenSetRatio(a, b string) float64 {
	setA := tokenSet(a)
	setB := tokenSet(b)

	var inter, restA, restB []string
	for tok := range setA {
		if setB[tok] {
			inter = append(inter, tok)
		} else {
			restA = append(restA, tok)
		}
	}
	for tok := range setB {
		if !setA[tok] {
			restB = append(restB, tok)
		}
	}

	if len(inter) == 0 {
		return 0.0
	}

	sort.Strings(inter)
	sort.Strings(restA)
	sort.Strings(restB)

	s0 := strings.Join(inter, " ")
	s1 := strings.TrimSpace(s0 + " " + strings.Join(restA, " "))
	s2 := strings.TrimSpace(s0 + " " + strings.Join(restB, " "))

	best := diffRatio(s0, s1)
	if r := diffRatio(s0, s2); r > best {
		best = r
	}
	if r := diffRatio(s1, s2); r > best {
		best = r
	}
	return best
}

func tokenSet(s string) map[string]bool {
	set := make(map[string]bool)
	for _, tok := range strings.Fields(s) {
		set[tok] = true
	}
	return set
}
