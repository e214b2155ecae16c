package service

import (
	"travelbot/internal/utils"
)

const (
	defaultGuestCount = 2
	maxGuestCount     = 8
)

// guestKeywords is scanned in order; the first count whose keyword appears
// or whose digit stands alone in the text wins
var guestKeywords = []struct {
	count    int
	keywords []string
}{
	{1, []string{"شخص واحد", "واحد", "وحدي", "بمفردي"}},
	{2, []string{"شخصين", "شخصان", "اثنين", "اثنان", "زوجين"}},
	{3, []string{"ثلاثة", "ثلاث أشخاص"}},
	{4, []string{"أربعة", "أربع أشخاص"}},
	{5, []string{"خمسة", "خمس أشخاص"}},
	{6, []string{"ستة", "ست أشخاص"}},
}

// ParseGuestCount extracts a head count from free text. Counts 1 to 6 are
// recognized by keyword or digit; any other integer is capped at 8; text
// without a usable number defaults to 2.
func ParseGuestCount(text string) int {
	normalized := utils.NormalizeText(text)
	if normalized == "" {
		return defaultGuestCount
	}

	numbers := utils.Integers(normalized)

	for _, g := range guestKeywords {
		if utils.ContainsAny(normalized, g.keywords) || containsInt(numbers, g.count) {
			return g.count
		}
	}

	for _, n := range numbers {
		if n < 1 {
			continue
		}
		if n > maxGuestCount {
			return maxGuestCount
		}
		return n
	}

	return defaultGuestCount
}

func containsInt(list []int, v int) bool {
	for _, n := range list {
		if n == v {
			return true
		}
	}
	return false
}
