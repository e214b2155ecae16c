package service

import (
	"sort"
	"strings"
	"time"
	"unicode"

	"travelbot/internal/utils"
)

// ISODate is the machine date layout sent to providers
const ISODate = "2006-01-02"

const (
	defaultTravelOffset = 7
	defaultMonthDay     = 15
)

type relativeDate struct {
	keywords []string
	days     int
}

// Checked in order: "بعد غد" must win over its substring "غد".
var relativeDates = []relativeDate{
	{keywords: []string{"بعد غد", "day after tomorrow"}, days: 2},
	{keywords: []string{"غداً", "غدا", "tomorrow"}, days: 1},
	{keywords: []string{"الأسبوع القادم", "الأسبوع المقبل", "next week"}, days: 7},
	{keywords: []string{"الشهر القادم", "الشهر المقبل", "next month"}, days: 30},
}

type monthName struct {
	name  string
	month time.Month
}

// monthNames covers Levantine, Egyptian and Maghrebi spellings, longest
// first so that multi-word names match before their fragments
var monthNames = func() []monthName {
	names := map[time.Month][]string{
		time.January:   {"يناير", "جانفي", "كانون الثاني"},
		time.February:  {"فبراير", "فيفري", "شباط"},
		time.March:     {"مارس", "آذار"},
		time.April:     {"أبريل", "ابريل", "أفريل", "نيسان"},
		time.May:       {"مايو", "ماي", "أيار"},
		time.June:      {"يونيو", "يونيه", "جوان", "حزيران"},
		time.July:      {"يوليو", "يوليوز", "جويلية", "تموز"},
		time.August:    {"أغسطس", "غشت", "أوت", "آب"},
		time.September: {"سبتمبر", "شتنبر", "أيلول"},
		time.October:   {"أكتوبر", "تشرين الأول"},
		time.November:  {"نوفمبر", "نونبر", "تشرين الثاني"},
		time.December:  {"ديسمبر", "دجنبر", "كانون الأول"},
	}

	var list []monthName
	for month, spellings := range names {
		for _, s := range spellings {
			list = append(list, monthName{name: utils.NormalizeText(s), month: month})
		}
	}
	sort.Slice(list, func(i, j int) bool {
		if len(list[i].name) != len(list[j].name) {
			return len(list[i].name) > len(list[j].name)
		}
		return list[i].name < list[j].name
	})
	return list
}()

// ParseTravelDate converts a free-form date phrase to a calendar date:
// relative keywords first, then a month name with a day number (default
// 15), then the first two integers as day/month. Anything else is a week
// from now. Dates without a year use the current year.
func ParseTravelDate(text string, now time.Time) time.Time {
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	normalized := utils.NormalizeText(text)

	if normalized == "" {
		return today.AddDate(0, 0, defaultTravelOffset)
	}

	for _, rel := range relativeDates {
		if utils.ContainsAny(normalized, rel.keywords) {
			return today.AddDate(0, 0, rel.days)
		}
	}

	numbers := utils.Integers(normalized)

	if month, ok := findMonth(normalized); ok {
		day := defaultMonthDay
		for _, n := range numbers {
			if n >= 1 && n <= 31 {
				day = n
				break
			}
		}
		return time.Date(now.Year(), month, day, 0, 0, 0, 0, now.Location())
	}

	if len(numbers) >= 2 {
		day, month := numbers[0], numbers[1]
		if day >= 1 && day <= 31 && month >= 1 && month <= 12 {
			return time.Date(now.Year(), time.Month(month), day, 0, 0, 0, 0, now.Location())
		}
	}

	return today.AddDate(0, 0, defaultTravelOffset)
}

// FormatTravelDate parses text and renders it as YYYY-MM-DD
func FormatTravelDate(text string, now time.Time) string {
	return ParseTravelDate(text, now).Format(ISODate)
}

// findMonth matches month names as whole words within normalized text
func findMonth(normalized string) (time.Month, bool) {
	padded := " " + wordsOnly(normalized) + " "
	for _, m := range monthNames {
		if strings.Contains(padded, " "+m.name+" ") {
			return m.month, true
		}
	}
	return 0, false
}

// wordsOnly replaces punctuation with spaces so month names split cleanly
// from digits and separators
func wordsOnly(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return r
		}
		return ' '
	}, s)
}
