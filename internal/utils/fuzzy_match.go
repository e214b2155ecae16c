package utils

import (
	"regexp"
	"strconv"
	"strings"
	"unicode"
)

var integerPattern = regexp.MustCompile(`\d+`)

// arabicFolding maps letter variants that users type interchangeably
var arabicFolding = map[rune]rune{
	'أ': 'ا',
	'إ': 'ا',
	'آ': 'ا',
	'ٱ': 'ا',
	'ى': 'ي',
	'ة': 'ه',
	'ؤ': 'و',
	'ئ': 'ي',
}

// NormalizeText lower-cases, trims and folds Arabic text so that spelling
// variants compare equal: diacritics and tatweel are dropped, alef/yaa/taa
// marbuta forms are unified and Arabic-Indic digits become ASCII digits.
func NormalizeText(s string) string {
	var b strings.Builder
	b.Grow(len(s))

	for _, r := range strings.ToLower(strings.TrimSpace(s)) {
		switch {
		case r >= 'ً' && r <= 'ٟ', r == 'ٰ', r == 'ـ':
			// harakat, superscript alef, tatweel
			continue
		case r >= '٠' && r <= '٩':
			b.WriteRune('0' + (r - '٠'))
		case r >= '۰' && r <= '۹':
			b.WriteRune('0' + (r - '۰'))
		default:
			if folded, ok := arabicFolding[r]; ok {
				r = folded
			}
			if unicode.IsSpace(r) {
				r = ' '
			}
			b.WriteRune(r)
		}
	}

	return b.String()
}

// ContainsFold reports whether needle occurs in haystack after normalization
func ContainsFold(haystack, needle string) bool {
	n := NormalizeText(needle)
	if n == "" {
		return false
	}
	return strings.Contains(NormalizeText(haystack), n)
}

// FirstContained returns the first candidate contained in text, in candidate order
func FirstContained(text string, candidates []string) (string, bool) {
	normalized := NormalizeText(text)
	if normalized == "" {
		return "", false
	}
	for _, candidate := range candidates {
		c := NormalizeText(candidate)
		if c != "" && strings.Contains(normalized, c) {
			return candidate, true
		}
	}
	return "", false
}

// ContainsAny reports whether text contains any of the terms
func ContainsAny(text string, terms []string) bool {
	_, ok := FirstContained(text, terms)
	return ok
}

// Integers returns the standalone integers in text, in order of appearance
func Integers(text string) []int {
	matches := integerPattern.FindAllString(NormalizeText(text), -1)
	numbers := make([]int, 0, len(matches))
	for _, m := range matches {
		n, err := strconv.Atoi(m)
		if err != nil {
			continue
		}
		numbers = append(numbers, n)
	}
	return numbers
}
