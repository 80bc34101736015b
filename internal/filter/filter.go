package filter

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/jmespath/go-jmespath"
	"github.com/sahilm/fuzzy"
	"github.com/studiowebux/blogdesk/internal/types"
)

// Apply runs a JMESPath query over a JSON document and returns indented JSON.
// An empty query returns body unchanged.
func Apply(body string, query string) (string, error) {
	if strings.TrimSpace(query) == "" {
		return body, nil
	}
	result, err := applyJMESPath(body, query)
	if err != nil {
		return "", fmt.Errorf("failed to apply query: %w", err)
	}
	return result, nil
}

// applyJMESPath applies a JMESPath expression to a JSON string
func applyJMESPath(jsonStr string, expression string) (string, error) {
	var data interface{}
	if err := json.Unmarshal([]byte(jsonStr), &data); err != nil {
		return "", fmt.Errorf("invalid JSON: %w", err)
	}

	jp, err := jmespath.Compile(expression)
	if err != nil {
		return "", fmt.Errorf("invalid JMESPath expression '%s': %w", expression, err)
	}

	result, err := jp.Search(data)
	if err != nil {
		return "", fmt.Errorf("JMESPath search failed: %w", err)
	}

	if result == nil {
		return "null", nil
	}

	output, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal result: %w", err)
	}

	return string(output), nil
}

// IsValidJMESPath checks if an expression is valid JMESPath syntax
func IsValidJMESPath(expression string) bool {
	_, err := jmespath.Compile(expression)
	return err == nil
}

// ByAuthor keeps posts written by ANY of the given authors (case-insensitive)
func ByAuthor(posts types.Posts, authors []string) types.Posts {
	if len(authors) == 0 {
		return posts
	}

	var filtered types.Posts
	for _, p := range posts {
		for _, a := range authors {
			if strings.EqualFold(strings.TrimSpace(p.Author), strings.TrimSpace(a)) {
				filtered = append(filtered, p)
				break
			}
		}
	}
	return filtered
}

type titleSource types.Posts

func (s titleSource) String(i int) string { return s[i].Title }
func (s titleSource) Len() int            { return len(s) }

// Fuzzy matches pattern against post titles. Results keep the input order
// so a newest-first list stays newest-first.
func Fuzzy(posts types.Posts, pattern string) types.Posts {
	if strings.TrimSpace(pattern) == "" {
		return posts
	}

	matches := fuzzy.FindFrom(pattern, titleSource(posts))
	keep := make(map[int]bool, len(matches))
	for _, m := range matches {
		keep[m.Index] = true
	}

	filtered := make(types.Posts, 0, len(matches))
	for i, p := range posts {
		if keep[i] {
			filtered = append(filtered, p)
		}
	}
	return filtered
}
