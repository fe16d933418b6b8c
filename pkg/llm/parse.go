package llm

import (
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"
)

var (
	ErrNoJSONArray   = errors.New("no JSON array in response")
	ErrMalformedJSON = errors.New("malformed JSON array in response")
)

var fencePattern = regexp.MustCompile("(?s)```(?:json)?\\s*(.*?)```")

// extractJSONArray strips a markdown fence if there is one and returns the
// span from the first '[' to the last ']'.
func extractJSONArray(content string) (string, bool) {
	content = strings.TrimSpace(content)

	if m := fencePattern.FindStringSubmatch(content); m != nil {
		content = strings.TrimSpace(m[1])
	}

	start := strings.Index(content, "[")
	end := strings.LastIndex(content, "]")
	if start < 0 || end <= start {
		return "", false
	}
	return content[start : end+1], true
}

// ParseAnalyses decodes the per-article analysis array out of free model text.
// A null element keeps its position and comes back with default labels.
func ParseAnalyses(content string) ([]ArticleAnalysis, error) {
	raw, ok := extractJSONArray(content)
	if !ok {
		return nil, ErrNoJSONArray
	}

	var analyses []ArticleAnalysis
	if err := json.Unmarshal([]byte(raw), &analyses); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedJSON, err)
	}
	for i := range analyses {
		analyses[i] = analyses[i].Normalize()
	}
	return analyses, nil
}
