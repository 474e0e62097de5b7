package model

// NotAvailable is the literal marker for a field neither source supplied.
// It must survive serialization as-is so downstream consumers can tell a
// genuine gap from an empty value.
const NotAvailable = "Not Available"

// CanonicalArea is the merged representation of one physical area.
// Every non-NotAvailable field value is copied verbatim (modulo trimming)
// from one of the source observations — the merge never invents data.
type CanonicalArea struct {
	Name             string            `json:"area_name"`
	Fields           map[string]string `json:"fields"`
	Notes            []string          `json:"notes,omitempty"`
	Sources          []Source          `json:"sources"`
	ConflictDetected bool              `json:"conflict_detected"`
	Conflicts        []string          `json:"conflict_descriptions,omitempty"`
}

// HasSource reports whether the area carries data from the given source.
func (a CanonicalArea) HasSource(s Source) bool {
	for _, src := range a.Sources {
		if src == s {
			return true
		}
	}
	return false
}

// ConflictRecord is one field-level disagreement between the two sources.
type ConflictRecord struct {
	Area        string `json:"area"`
	Field       string `json:"field"`
	Inspection  string `json:"inspection"`
	Thermal     string `json:"thermal"`
	Description string `json:"description"`
}

// MergedData is the full output of one merge run.
type MergedData struct {
	Areas             []CanonicalArea  `json:"areas"`
	GlobalNotes       []string         `json:"global_notes,omitempty"`
	DuplicateWarnings []string         `json:"duplicate_warnings,omitempty"`
	Conflicts         []ConflictRecord `json:"conflicts,omitempty"`
}

// Area returns the canonical area with the given name, if present.
func (m *MergedData) Area(name string) (CanonicalArea, bool) {
	for _, a := range m.Areas {
		if a.Name == name {
			return a, true
		}
	}
	return CanonicalArea{}, false
}
