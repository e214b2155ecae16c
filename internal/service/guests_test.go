package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseGuestCount(t *testing.T) {
	tests := []struct {
		input string
		want  int
	}{
		{input: "شخص واحد", want: 1},
		{input: "وحدي", want: 1},
		{input: "1", want: 1},
		{input: "شخصين", want: 2},
		{input: "نحن اثنان", want: 2},
		{input: "ثلاثة", want: 3},
		{input: "4 أشخاص", want: 4},
		{input: "٥", want: 5},
		{input: "ستة أشخاص", want: 6},
		{input: "7 أشخاص", want: 7},
		{input: "10", want: 8},
		{input: "عائلة كبيرة", want: 2},
		{input: "0", want: 2},
		{input: "", want: 2},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got := ParseGuestCount(tt.input)
			assert.Equal(t, tt.want, got)
			assert.GreaterOrEqual(t, got, 1)
			assert.LessOrEqual(t, got, 8)
		})
	}
}
