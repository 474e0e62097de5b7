package model

// Source identifies which report a piece of data came from.
type Source string

const (
	SourceInspection Source = "inspection_report"
	SourceThermal    Source = "thermal_report"
)

// Observation is a single extracted area/location from one source document.
// Fields holds scalar readings (condition, moisture, temperature, ...) keyed
// by field name; Notes holds free-form bullet findings.
type Observation struct {
	Name   string            `json:"area_name"`
	Fields map[string]string `json:"fields,omitempty"`
	Notes  []string          `json:"notes,omitempty"`
}

// DocumentExtraction is the top-level extraction result for one document.
type DocumentExtraction struct {
	Areas       []Observation `json:"areas"`
	GlobalNotes []string      `json:"global_notes,omitempty"`
}
