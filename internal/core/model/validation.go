package model

// ValidationWarning flags a passage of generated text that may not be
// grounded in the merged data.
type ValidationWarning struct {
	Category string `json:"category"` // unknown_area | ungrounded_number | hallucination
	Detail   string `json:"detail"`
	Severity string `json:"severity"` // warning | error
}

// ValidationResult is the full grounding report for one generated DDR.
type ValidationResult struct {
	Passed   bool                `json:"passed"`
	Warnings []ValidationWarning `json:"warnings"`
	Info     string              `json:"info"`
}
