package common

import (
	"encoding/json"
	"fmt"
	"strings"
)

// ParseJSON cleans and unmarshals a JSON object from an LLM response.
// It handles common LLM quirks: markdown fences, surrounding prose, and
// output that was truncated mid-object.
func ParseJSON[T any](response string) (T, error) {
	var zero T
	jsonStr := response

	start := strings.Index(jsonStr, "{")
	if start == -1 {
		return zero, fmt.Errorf("no JSON object found in response (missing '{')")
	}
	if end := strings.LastIndex(jsonStr, "}"); end > start {
		jsonStr = jsonStr[start : end+1]
	} else {
		// No closing brace at all: the response was cut off
		jsonStr = jsonStr[start:]
	}

	var result T
	if err := json.Unmarshal([]byte(jsonStr), &result); err == nil {
		return result, nil
	}

	repaired := RepairTruncatedJSON(jsonStr)
	if err := json.Unmarshal([]byte(repaired), &result); err != nil {
		return zero, fmt.Errorf("failed to unmarshal JSON: %w\nData: %s", err, jsonStr)
	}
	return result, nil
}

// RepairTruncatedJSON closes unterminated strings, arrays and objects in
// JSON that was cut off mid-response. Already-valid input is returned
// unchanged.
func RepairTruncatedJSON(text string) string {
	text = strings.TrimRight(text, " \t\r\n,")
	if json.Valid([]byte(text)) {
		return text
	}

	inString := false
	escaped := false
	var open []byte

	for i := 0; i < len(text); i++ {
		c := text[i]
		if escaped {
			escaped = false
			continue
		}
		switch {
		case c == '\\' && inString:
			escaped = true
		case c == '"':
			inString = !inString
		case inString:
			// Brackets inside string literals don't count
		case c == '{' || c == '[':
			open = append(open, c)
		case c == '}' && len(open) > 0 && open[len(open)-1] == '{':
			open = open[:len(open)-1]
		case c == ']' && len(open) > 0 && open[len(open)-1] == '[':
			open = open[:len(open)-1]
		}
	}

	var repair []byte
	if inString {
		repair = append(repair, '"')
	}
	for i := len(open) - 1; i >= 0; i-- {
		if open[i] == '{' {
			repair = append(repair, '}')
		} else {
			repair = append(repair, ']')
		}
	}

	return text + string(repair)
}
