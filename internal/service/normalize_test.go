package service

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"travelbot/internal/catalog"
	"travelbot/internal/model"
)

func TestDepartureCity(t *testing.T) {
	n := NewSlotNormalizer(catalog.Default())

	tests := []struct {
		name     string
		raw      string
		entities []model.Entity
		want     string
	}{
		{name: "Raw value", raw: "الرباط", want: "الرباط"},
		{name: "City inside phrase", raw: "أسافر من مراكش", want: "مراكش"},
		{name: "Entity wins over raw", raw: "فاس", entities: []model.Entity{{Value: "طنجة", EntityType: model.SlotDepartureCity}}, want: "طنجة"},
		{name: "Untyped entity", raw: "", entities: []model.Entity{{Value: "أكادير", EntityType: "city"}}, want: "أكادير"},
		{name: "Destination entity skipped", raw: "من الرباط", entities: []model.Entity{{Value: "الدار البيضاء", EntityType: model.SlotDestinationCity}}, want: "الرباط"},
		{name: "Alias spelling", raw: "الدارالبيضاء", want: "الدار البيضاء"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := n.DepartureCity(tt.raw, tt.entities)
			assert.True(t, got.OK())
			assert.Equal(t, tt.want, got.Value)
			assert.Empty(t, got.Rejection)
		})
	}
}

func TestCityRejections(t *testing.T) {
	n := NewSlotNormalizer(catalog.Default())

	got := n.DepartureCity("باريس", nil)
	assert.False(t, got.OK())
	assert.Equal(t, msgInvalidDeparture, got.Rejection)

	got = n.HotelCity("لندن", nil)
	assert.False(t, got.OK())
	assert.Equal(t, msgInvalidHotelCity, got.Rejection)

	got = n.DestinationCity("المريخ", nil)
	assert.False(t, got.OK())
	assert.Equal(t, msgInvalidDestination, got.Rejection)
}

func TestDestinationCity(t *testing.T) {
	n := NewSlotNormalizer(catalog.Default())

	assert.Equal(t, "باريس", n.DestinationCity("إلى باريس", nil).Value)
	assert.Equal(t, "دبي", n.DestinationCity("", []model.Entity{{Value: "دبي", EntityType: model.SlotDestinationCity}}).Value)
	assert.Equal(t, "فاس", n.DestinationCity("فاس", nil).Value, "domestic destinations are allowed")

	origin := []model.Entity{{Value: "الرباط", EntityType: model.SlotDepartureCity}}
	assert.Equal(t, "لندن", n.DestinationCity("لندن", origin).Value)
}

// Every canonical value normalizes to itself.
func TestNormalizersAreIdempotent(t *testing.T) {
	n := NewSlotNormalizer(catalog.Default())

	for _, city := range catalog.Default().DomesticCities() {
		first := n.DepartureCity(city, nil)
		assert.True(t, first.OK(), city)
		assert.Equal(t, first.Value, n.DepartureCity(first.Value, nil).Value)
		assert.Equal(t, first.Value, n.HotelCity(first.Value, nil).Value)
	}
	for _, city := range catalog.Default().InternationalDestinations() {
		first := n.DestinationCity(city, nil)
		assert.Equal(t, city, first.Value)
	}

	for _, class := range []string{catalog.ClassEconomy, catalog.ClassBusiness, catalog.ClassFirst} {
		assert.Equal(t, class, NormalizeClass(class).Value)
	}
	for _, cat := range []string{catalog.CategoryThree, catalog.CategoryFour, catalog.CategoryFive, catalog.CategoryLuxury} {
		assert.Equal(t, cat, NormalizeHotelCategory(cat).Value)
	}
	for _, g := range []string{"1", "2", "5", "8"} {
		assert.Equal(t, g, NormalizeGuests(g).Value)
	}
}

func TestNormalizeClass(t *testing.T) {
	tests := []struct {
		input      string
		want       string
		rejection  string
	}{
		{input: "اقتصادية", want: catalog.ClassEconomy},
		{input: "  Economy ", want: catalog.ClassEconomy},
		{input: "درجة عادية", want: catalog.ClassEconomy},
		{input: "بزنس", want: catalog.ClassBusiness},
		{input: "BUSINESS", want: catalog.ClassBusiness},
		{input: "الدرجة الأولى", want: catalog.ClassFirst},
		{input: "first", want: catalog.ClassFirst},
		{input: "فاخرة", want: catalog.ClassFirst},
		{input: "premium", rejection: msgInvalidClass},
		{input: "", rejection: msgAskClass},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got := NormalizeClass(tt.input)
			assert.Equal(t, tt.want, got.Value)
			assert.Equal(t, tt.rejection, got.Rejection)
		})
	}
}

func TestNormalizeHotelCategory(t *testing.T) {
	tests := []struct {
		input     string
		want      string
		rejection string
	}{
		{input: "3", want: catalog.CategoryThree},
		{input: "ثلاث نجوم", want: catalog.CategoryThree},
		{input: "4 نجوم", want: catalog.CategoryFour},
		{input: "أربع نجوم", want: catalog.CategoryFour},
		{input: "٥ نجوم", want: catalog.CategoryFive},
		{input: "خمس نجوم", want: catalog.CategoryFive},
		{input: "فاخر", want: catalog.CategoryLuxury},
		{input: "Luxury", want: catalog.CategoryLuxury},
		{input: "5 نجوم فاخر", want: catalog.CategoryFive},
		{input: "رخيص", rejection: msgInvalidCategory},
		{input: " ", rejection: msgAskCategory},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got := NormalizeHotelCategory(tt.input)
			assert.Equal(t, tt.want, got.Value)
			assert.Equal(t, tt.rejection, got.Rejection)
		})
	}
}

func TestNormalizeDateAndGuests(t *testing.T) {
	assert.Equal(t, "15 مايو", NormalizeDate(" 15 مايو ").Value)
	assert.Equal(t, msgAskDate, NormalizeDate("").Rejection)

	assert.Equal(t, "4", NormalizeGuests("4 أشخاص").Value)
	assert.Equal(t, "2", NormalizeGuests("شخصين").Value)
	assert.Equal(t, msgAskGuests, NormalizeGuests("").Rejection)

}

func TestNormalizeDistrict(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{input: " جليز ", want: "جليز"},
		{input: "Hivernage", want: "Hivernage"},
		{input: "", want: ""},
		{input: "لا يهم", want: ""},
		{input: "لا يهمني", want: ""},
		{input: "اي مكان", want: ""},
		{input: "أي منطقة", want: ""},
		{input: "Any", want: ""},
		{input: "doesn't matter", want: ""},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got := NormalizeDistrict(tt.input)
			assert.Equal(t, tt.want, got.Value)
			assert.Empty(t, got.Rejection)
		})
	}
}
