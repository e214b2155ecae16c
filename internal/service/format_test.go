package service

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"travelbot/internal/model"
)

func TestFormatPrice(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{0, "0"},
		{850, "850"},
		{3500, "3,500"},
		{12345.6, "12,346"},
		{1000000, "1,000,000"},
		{-2500, "-2,500"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatPrice(tt.in))
	}
}

func TestFormatDuration(t *testing.T) {
	assert.Equal(t, "45 دقيقة", FormatDuration(45))
	assert.Equal(t, "3 س", FormatDuration(180))
	assert.Equal(t, "4 س 15 د", FormatDuration(255))
}

func TestFormatFlightResults(t *testing.T) {
	criteria := model.FlightCriteria{Origin: "الرباط", Destination: "باريس", DateText: "15 مايو", Class: "اقتصادية"}
	result := model.FormattedResult{
		Kind:     model.OfferFlight,
		Currency: model.DisplayCurrency,
		Source:   model.SourceFallback,
		Offers: []model.Offer{
			{Name: "الخطوط الملكية المغربية", Departure: "08:30", Arrival: "12:45", DurationMinutes: 255, Price: 3500, Rating: 4.2, Features: []string{"وجبة مجانية", "أمتعة 23 كغ"}},
			{Name: "العربية للطيران", Departure: "14:20", Arrival: "18:35", Price: 2800, Stops: 1, DurationMinutes: 255},
		},
	}

	text := FormatFlightResults(criteria, result)

	assert.True(t, strings.HasPrefix(text, "🛫 تم العثور على رحلات من الرباط إلى باريس\n"))
	assert.Contains(t, text, "📅 تاريخ السفر: 15 مايو")
	assert.Contains(t, text, "✈️ **الخيار الأول: الخطوط الملكية المغربية**")
	assert.Contains(t, text, "💰 السعر: 3,500 درهم")
	assert.Contains(t, text, "⭐ التقييم: 4.2/5")
	assert.Contains(t, text, "🎯 المميزات: وجبة مجانية، أمتعة 23 كغ")
	assert.Contains(t, text, "(توقف واحد)")
	assert.Contains(t, text, "الأسعار تقديرية")
	assert.True(t, strings.HasSuffix(text, "قل **'الخيار الأول'** أو **'الخيار الثاني'**"))

	result.Source = model.SourceLive
	assert.NotContains(t, FormatFlightResults(criteria, result), "الأسعار تقديرية")
}

func TestFormatHotelResults(t *testing.T) {
	criteria := model.HotelCriteria{City: "مراكش", Category: "5 نجوم", Guests: 2, District: "جليز"}
	result := model.FormattedResult{
		Kind:     model.OfferHotel,
		Currency: model.DisplayCurrency,
		Source:   model.SourceLive,
		Offers: []model.Offer{
			{Name: "فندق المامونية الشهير", Price: 1200, PriceUnit: PerNight, Rating: 4.8, Location: "وسط المدينة القديمة"},
		},
	}

	text := FormatHotelResults(criteria, result)

	assert.Contains(t, text, "🏨 تم العثور على فنادق مميزة في مراكش")
	assert.Contains(t, text, "👥 عدد الأشخاص: 2")
	assert.Contains(t, text, "📍 المنطقة المفضلة: جليز")
	assert.Contains(t, text, "💰 السعر: 1,200 درهم/ليلة")
	assert.Contains(t, text, "📍 الموقع: وسط المدينة القديمة")
	assert.NotContains(t, text, "الخيار الثاني:")
}

func TestFormatReceipt(t *testing.T) {
	text := FormatReceipt(Receipt{
		Reference: "RSV004217",
		Hotel: &HotelBooking{
			City:     "الرباط",
			Category: "4 نجوم",
			Guests:   "3",
			Offer:    model.Offer{Name: "فندق تور حسان", Price: 900, PriceUnit: PerNight},
		},
	})

	assert.Contains(t, text, "🔖 رقم الحجز: **RSV004217**")
	assert.Contains(t, text, "🏨 الفندق: فندق تور حسان")
	assert.Contains(t, text, "💰 السعر: 900 درهم/ليلة")
	assert.NotContains(t, text, "رحلة الطيران")
	assert.Contains(t, text, "خدمة العملاء")
}

func TestFormatChangeMenu(t *testing.T) {
	flight := FormatChangeMenu(true, false)
	assert.Contains(t, flight, "غير الوجهة")
	assert.NotContains(t, flight, "غير الفئة")

	none := FormatChangeMenu(false, false)
	assert.Contains(t, none, "يمكنك بدء حجز جديد")
}

func TestFallbackPrompt(t *testing.T) {
	tests := []struct {
		name      string
		form      string
		requested string
		want      string
	}{
		{name: "Flight origin", form: model.FlightForm, requested: model.SlotDepartureCity, want: "من أي مدينة تريد السفر؟"},
		{name: "Flight date", form: model.FlightForm, requested: model.SlotDepartureDate, want: "لم أفهم التاريخ"},
		{name: "Flight other", form: model.FlightForm, requested: "", want: "حجز رحلة طيران"},
		{name: "Hotel guests", form: model.HotelForm, requested: model.SlotGuestCount, want: "كم عدد الأشخاص؟"},
		{name: "Hotel unknown slot", form: model.HotelForm, requested: "something", want: "حجز فندق"},
		{name: "No form", form: "", requested: "", want: "يمكنني مساعدتك في"},
		{name: "Unknown form", form: "survey_form", requested: model.SlotHotelCity, want: "يمكنني مساعدتك في"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Contains(t, FallbackPrompt(tt.form, tt.requested), tt.want)
		})
	}
}
