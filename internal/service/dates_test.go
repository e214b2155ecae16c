package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestParseTravelDate(t *testing.T) {
	now := time.Date(2026, time.March, 10, 14, 30, 0, 0, time.UTC)

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "Tomorrow", input: "غداً", want: "2026-03-11"},
		{name: "Tomorrow without tanween", input: "غدا صباحاً", want: "2026-03-11"},
		{name: "Day after tomorrow", input: "بعد غد", want: "2026-03-12"},
		{name: "Day after tomorrow with tanween", input: "بعد غداً", want: "2026-03-12"},
		{name: "Next week", input: "الأسبوع القادم", want: "2026-03-17"},
		{name: "Next month", input: "الشهر القادم", want: "2026-04-09"},
		{name: "English keyword", input: "tomorrow", want: "2026-03-11"},
		{name: "Day and month name", input: "15 مايو", want: "2026-05-15"},
		{name: "Month name only", input: "في مايو", want: "2026-05-15"},
		{name: "Maghrebi month", input: "25 دجنبر", want: "2026-12-25"},
		{name: "Levantine month", input: "3 آب", want: "2026-08-03"},
		{name: "Arabic-Indic digits", input: "٢٠ يوليو", want: "2026-07-20"},
		{name: "Short month not inside longer one", input: "10 مايو", want: "2026-05-10"},
		{name: "Numeric day and month", input: "3/4", want: "2026-04-03"},
		{name: "Numeric with year", input: "20-06-2026", want: "2026-06-20"},
		{name: "Invalid numeric", input: "45/13", want: "2026-03-17"},
		{name: "Unparseable", input: "في أقرب وقت", want: "2026-03-17"},
		{name: "Empty", input: "", want: "2026-03-17"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatTravelDate(tt.input, now))
		})
	}
}

// Any input yields a valid ISO date.
func TestParseTravelDateAlwaysISO(t *testing.T) {
	now := time.Date(2026, time.January, 31, 0, 0, 0, 0, time.UTC)

	for _, input := range []string{"", "؟؟", "31 فبراير", "0/0", "مايو مايو", "غدا بعد غد"} {
		got := FormatTravelDate(input, now)
		_, err := time.Parse(ISODate, got)
		assert.NoError(t, err, input)
	}
}
