package common

import (
	"encoding/json"
	"fmt"
	"strings"
)

// ParseJSON extracts and unmarshals the JSON object embedded in an LLM
// response, tolerating surrounding markdown fences or extra prose.
func ParseJSON[T any](response string) (T, error) {
	var zero T

	start := strings.Index(response, "{")
	end := strings.LastIndex(response, "}")
	if start == -1 || end == -1 || end < start {
		return zero, fmt.Errorf("no JSON object found in response")
	}

	var result T
	if err := json.Unmarshal([]byte(response[start:end+1]), &result); err != nil {
		return zero, fmt.Errorf("failed to unmarshal JSON: %w\nData: %s", err, response[start:end+1])
	}
	return result, nil
}

// CleanValue normalizes a single-value LLM reply: strips code fences, quotes,
// label prefixes, and whitespace. Returns "" for refusal-style answers so
// callers treat them as "no confident fix".
func CleanValue(response string) string {
	s := strings.TrimSpace(response)
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	s = strings.TrimSpace(s)

	// Keep only the first line; models sometimes append an explanation.
	if i := strings.IndexAny(s, "\r\n"); i >= 0 {
		s = s[:i]
	}
	s = strings.Trim(s, "\"'` ")

	switch strings.ToUpper(s) {
	case "", "NONE", "NULL", "N/A", "UNKNOWN", "CANNOT FIX":
		return ""
	}
	return s
}
