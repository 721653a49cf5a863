package planner

import (
	"fmt"
	"strings"
)

// extractJSON locates the JSON payload inside raw model output.
//
// Models often wrap JSON in a Markdown code fence, sometimes with a language
// tag, sometimes with surrounding prose. Instead of splitting on fence
// delimiters, this scans for the first '[' or '{' and returns the balanced
// substring starting there, which tolerates any fence dialect and leading
// text while leaving the payload itself untouched.
func extractJSON(raw string) (string, error) {
	start := strings.IndexAny(raw, "[{")
	if start < 0 {
		return "", fmt.Errorf("no JSON payload found in model output")
	}

	open := raw[start]
	var closer byte
	if open == '[' {
		closer = ']'
	} else {
		closer = '}'
	}

	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(raw); i++ {
		c := raw[i]
		switch {
		case escaped:
			escaped = false
		case c == '\\' && inString:
			escaped = true
		case c == '"':
			inString = !inString
		case inString:
			// string contents are opaque
		case c == open:
			depth++
		case c == closer:
			depth--
			if depth == 0 {
				return raw[start : i+1], nil
			}
		}
	}

	return "", fmt.Errorf("unterminated JSON payload in model output")
}
