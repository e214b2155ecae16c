package utils

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
)

var (
	trailingCommaPattern = regexp.MustCompile(`,\s*([}\]])`)
	controlCharPattern   = regexp.MustCompile(`[\x00-\x08\x0B\x0C\x0E-\x1F]`)
)

// DecodeLenientJSON decodes a provider payload that may carry:
// - a UTF-8 byte order mark
// - an anti-hijacking prefix or other text around the JSON document
// - trailing commas or stray control characters
func DecodeLenientJSON(data []byte, target interface{}) error {
	input := strings.TrimSpace(string(data))
	if input == "" {
		return fmt.Errorf("empty input")
	}

	// Try direct parsing first (most common case)
	if err := json.Unmarshal([]byte(input), target); err == nil {
		return nil
	}

	// Try to find JSON object/array in text
	if extracted := extractJSONFromText(input); extracted != "" {
		if err := json.Unmarshal([]byte(extracted), target); err == nil {
			return nil
		}
	}

	// Try to clean and fix common JSON issues
	if cleaned := cleanAndFixJSON(input); cleaned != "" {
		if err := json.Unmarshal([]byte(cleaned), target); err == nil {
			return nil
		}
		if extracted := extractJSONFromText(cleaned); extracted != "" {
			if err := json.Unmarshal([]byte(extracted), target); err == nil {
				return nil
			}
		}
	}

	return fmt.Errorf("failed to parse JSON from input: %s", Truncate(input, 100))
}

// extractJSONFromText finds JSON object or array in surrounding text
func extractJSONFromText(input string) string {
	objStart := strings.Index(input, "{")
	arrStart := strings.Index(input, "[")

	// Whichever document opens first wins
	if arrStart >= 0 && (objStart < 0 || arrStart < objStart) {
		if extracted := extractBalancedBraces(input[arrStart:], '[', ']'); extracted != "" {
			return extracted
		}
	}

	if objStart >= 0 {
		if extracted := extractBalancedBraces(input[objStart:], '{', '}'); extracted != "" {
			return extracted
		}
	}

	return ""
}

// extractBalancedBraces extracts content with balanced braces
func extractBalancedBraces(input string, open, close rune) string {
	if len(input) == 0 {
		return ""
	}

	depth := 0
	inString := false
	escape := false
	start := 0

	for i, ch := range input {
		if escape {
			escape = false
			continue
		}

		if ch == '\\' {
			escape = true
			continue
		}

		if ch == '"' {
			inString = !inString
			continue
		}

		if inString {
			continue
		}

		if ch == open {
			if depth == 0 {
				start = i
			}
			depth++
		} else if ch == close {
			depth--
			if depth == 0 {
				return input[start : i+1]
			}
		}
	}

	return ""
}

// cleanAndFixJSON attempts to fix common JSON formatting issues
func cleanAndFixJSON(input string) string {
	s := strings.TrimSpace(input)

	// Remove BOM if present
	s = strings.TrimPrefix(s, "\ufeff")

	// Remove trailing commas before closing braces/brackets
	s = trailingCommaPattern.ReplaceAllString(s, "$1")

	// Remove control characters
	s = controlCharPattern.ReplaceAllString(s, "")

	return s
}

// Truncate shortens s to at most maxLen runes
func Truncate(s string, maxLen int) string {
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	return string(runes[:maxLen]) + "..."
}
