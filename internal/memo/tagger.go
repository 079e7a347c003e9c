package memo

import "strings"

// DefaultTag is applied when no rule matches; tags are never empty.
const DefaultTag = "#memo"

// tagRules is evaluated in order; output order is rule order, not the
// order markers appear in the input.
var tagRules = []struct {
	tag     string
	markers []string
}{
	{"#meeting", []string{"meeting"}},
	{"#schedule", []string{"schedule", "tomorrow"}},
	{"#todo", []string{"todo", "to-do"}},
	{"#idea", []string{"idea"}},
}

// Tag derives categorical labels from text via case-insensitive substring
// presence. Deterministic and order-independent with respect to the input.
func Tag(text string) []string {
	lower := strings.ToLower(text)

	var tags []string
	for _, rule := range tagRules {
		for _, marker := range rule.markers {
			if strings.Contains(lower, marker) {
				tags = append(tags, rule.tag)
				break
			}
		}
	}

	if len(tags) == 0 {
		return []string{DefaultTag}
	}
	return tags
}
