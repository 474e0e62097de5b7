package common

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type sample struct {
	Areas []string `json:"areas"`
}

func TestParseJSON_MarkdownFences(t *testing.T) {
	response := "```json\n{\"areas\": [\"Kitchen\", \"Attic\"]}\n```"
	result, err := ParseJSON[sample](response)
	assert.NoError(t, err)
	assert.Equal(t, []string{"Kitchen", "Attic"}, result.Areas)
}

func TestParseJSON_SurroundingProse(t *testing.T) {
	response := `Here is the extraction you asked for: {"areas": ["Garage"]} Let me know if you need more.`
	result, err := ParseJSON[sample](response)
	assert.NoError(t, err)
	assert.Equal(t, []string{"Garage"}, result.Areas)
}

func TestParseJSON_Truncated(t *testing.T) {
	// Cut off mid-string: repair closes the string, array and object
	response := `{"areas": ["Kitchen", "Att`
	result, err := ParseJSON[sample](response)
	assert.NoError(t, err)
	assert.Equal(t, []string{"Kitchen", "Att"}, result.Areas)
}

func TestParseJSON_NoObject(t *testing.T) {
	_, err := ParseJSON[sample]("I could not produce any output.")
	assert.Error(t, err)
}

func TestRepairTruncatedJSON_ValidUntouched(t *testing.T) {
	valid := `{"areas": []}`
	assert.Equal(t, valid, RepairTruncatedJSON(valid))
}

func TestRepairTruncatedJSON_EscapedQuotes(t *testing.T) {
	truncated := `{"note": "he said \"dry\" but`
	repaired := RepairTruncatedJSON(truncated)
	assert.Equal(t, `{"note": "he said \"dry\" but"}`, repaired)
}
