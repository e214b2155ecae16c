package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"travelbot/internal/catalog"
	"travelbot/internal/model"
	"travelbot/internal/store"
)

type stubFlights struct {
	result model.FormattedResult
	calls  int
}

func (s *stubFlights) Search(_ context.Context, _ model.FlightCriteria) model.FormattedResult {
	s.calls++
	return s.result
}

type stubStatus struct {
	report      *model.StatusReport
	origin      string
	destination string
}

func (s *stubStatus) Lookup(_ context.Context, origin, destination string) *model.StatusReport {
	s.origin, s.destination = origin, destination
	return s.report
}

type recordingLog struct {
	mu      sync.Mutex
	entries []model.SearchLogEntry
}

func (r *recordingLog) LogSearch(_ context.Context, e model.SearchLogEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append(r.entries, e)
	return nil
}

func newTestFlow(t *testing.T, deps BookingDeps) (*BookingFlow, *store.MemoryOfferStore) {
	t.Helper()
	offers := store.NewMemoryOfferStore(time.Hour)
	deps.Catalog = catalog.Default()
	deps.Offers = offers
	if deps.Random == nil {
		deps.Random = edgeRand{}
	}
	deps.Now = func() time.Time { return time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC) }
	return NewBookingFlow(deps), offers
}

func turn(slots model.Slots, text string) *model.TurnContext {
	return &model.TurnContext{ConversationID: "conv-1", Slots: slots, LatestText: text}
}

func slotValue(t *testing.T, e model.Effect, name string) (string, bool) {
	t.Helper()
	m, ok := e.Mutation(name)
	if !ok {
		return "", false
	}
	if m.Value == nil {
		return "", true
	}
	return *m.Value, true
}

func assertAllBookingSlotsCleared(t *testing.T, e model.Effect) {
	t.Helper()
	for _, name := range model.BookingSlots {
		m, ok := e.Mutation(name)
		require.True(t, ok, "missing reset for %s", name)
		assert.Nil(t, m.Value, name)
	}
}

func flightSlots() model.Slots {
	return model.Slots{
		model.SlotDepartureCity:   "الرباط",
		model.SlotDestinationCity: "باريس",
		model.SlotDepartureDate:   "15 مايو",
		model.SlotTravelClass:     catalog.ClassEconomy,
	}
}

func TestFlightBookingEndToEnd(t *testing.T) {
	ctx := context.Background()
	log := &recordingLog{}
	flow, offers := newTestFlow(t, BookingDeps{SearchLog: log})

	slots := flightSlots()

	search := flow.SearchFlights(ctx, turn(slots, "ابحث"))
	require.Len(t, search.Messages, 1)
	assert.Contains(t, search.Messages[0], "الخيار الأول: الخطوط الملكية المغربية")
	assert.Contains(t, search.Messages[0], "الخيار الثاني: العربية للطيران")
	assert.Equal(t, 1, offers.Len())

	require.Len(t, log.entries, 1)
	assert.Equal(t, model.OfferFlight, log.entries[0].Kind)
	assert.Equal(t, model.SourceFallback, log.entries[0].Source)
	assert.Equal(t, "2026-05-15", log.entries[0].Criteria["date"])

	selection := flow.SelectOption(ctx, turn(slots, "الخيار الثاني"))
	value, ok := slotValue(t, selection, model.SlotSelectedOption)
	require.True(t, ok)
	assert.Equal(t, "2", value)
	assert.Contains(t, selection.Messages[0], "لقد اخترت **الخيار الثاني**")
	assert.Contains(t, selection.Messages[0], "🛫 رحلة العربية للطيران")
	assert.Contains(t, selection.Messages[0], "💰 السعر: 2,800 درهم")

	slots[model.SlotSelectedOption] = value
	confirm := flow.ConfirmReservation(ctx, turn(slots, "نعم أؤكد"))
	require.Len(t, confirm.Messages, 1)
	receipt := confirm.Messages[0]
	assert.Contains(t, receipt, "🔖 رقم الحجز: **RSV000000**")
	assert.Contains(t, receipt, "📍 من: الرباط")
	assert.Contains(t, receipt, "📍 إلى: باريس")
	assert.Contains(t, receipt, "🛫 الناقل: العربية للطيران")
	assert.Contains(t, receipt, "💰 السعر: 2,800 درهم")
	assert.Contains(t, receipt, "🔢 رقم الرحلة: 3O100")
	assert.NotContains(t, receipt, "حجز الفندق")

	assertAllBookingSlotsCleared(t, confirm)
	assert.Equal(t, 0, offers.Len())
}

func TestHotelBookingEndToEnd(t *testing.T) {
	ctx := context.Background()
	flow, _ := newTestFlow(t, BookingDeps{})

	slots := model.Slots{
		model.SlotHotelCity:     "مراكش",
		model.SlotHotelCategory: catalog.CategoryThree,
		model.SlotGuestCount:    "2",
		model.SlotDistrict:      "جليز",
	}

	search := flow.SearchHotels(ctx, turn(slots, ""))
	assert.Contains(t, search.Messages[0], "فندق المامونية الشهير")
	assert.Contains(t, search.Messages[0], "📍 المنطقة المفضلة: جليز")

	selection := flow.SelectOption(ctx, turn(slots, "رقم 1"))
	value, _ := slotValue(t, selection, model.SlotSelectedOption)
	assert.Equal(t, "1", value)
	assert.Contains(t, selection.Messages[0], "🏨 فندق المامونية الشهير")
	assert.Contains(t, selection.Messages[0], "1,200 درهم/ليلة")

	slots[model.SlotSelectedOption] = value
	confirm := flow.ConfirmReservation(ctx, turn(slots, "نعم"))
	assert.Contains(t, confirm.Messages[0], "🏨 الفندق: فندق المامونية الشهير")
	assert.Contains(t, confirm.Messages[0], "🗺️ المنطقة: جليز")
	assertAllBookingSlotsCleared(t, confirm)
}

func TestSearchPreconditions(t *testing.T) {
	ctx := context.Background()
	flow, offers := newTestFlow(t, BookingDeps{})

	e := flow.SearchFlights(ctx, turn(model.Slots{model.SlotDepartureCity: "الرباط"}, ""))
	assert.Equal(t, []string{MsgNeedFlightCities}, e.Messages)
	assert.Empty(t, e.SlotMutations)

	tests := []struct {
		name  string
		slots model.Slots
		want  string
	}{
		{name: "No city", slots: model.Slots{}, want: MsgNeedHotelCity},
		{name: "No category", slots: model.Slots{model.SlotHotelCity: "فاس"}, want: MsgNeedHotelCat},
		{name: "No guests", slots: model.Slots{model.SlotHotelCity: "فاس", model.SlotHotelCategory: catalog.CategoryFour}, want: MsgNeedGuests},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := flow.SearchHotels(ctx, turn(tt.slots, ""))
			assert.Equal(t, []string{tt.want}, e.Messages)
			assert.Empty(t, e.SlotMutations)
		})
	}

	assert.Equal(t, 0, offers.Len())
}

func TestNewSearchResetsSelection(t *testing.T) {
	flow, _ := newTestFlow(t, BookingDeps{})

	slots := flightSlots()
	slots[model.SlotSelectedOption] = "1"

	e := flow.SearchFlights(context.Background(), turn(slots, ""))
	value, ok := slotValue(t, e, model.SlotSelectedOption)
	assert.True(t, ok)
	assert.Empty(t, value)
}

func TestParseOption(t *testing.T) {
	tests := []struct {
		text string
		want int
	}{
		{"الخيار الأول", 1},
		{"أريد الأول من فضلك", 1},
		{"رقم 1", 1},
		{"١", 1},
		{"الخيار الثاني", 2},
		{"خيار 2", 2},
		{"٢", 2},
		{"الثاني وليس الأول", 1},
		{"الخيار الثاني الساعة 10", 2},
		{"رحلة الساعة 10", 0},
		{"10", 0},
		{"12 ثم 2", 2},
		{"لا أعرف", 0},
		{"", 0},
	}
	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseOption(tt.text))
		})
	}
}

func TestSelectOptionGuards(t *testing.T) {
	ctx := context.Background()

	t.Run("Unclear choice keeps state", func(t *testing.T) {
		flow, _ := newTestFlow(t, BookingDeps{})
		e := flow.SelectOption(ctx, turn(flightSlots(), "ربما"))
		assert.Equal(t, []string{MsgOptionUnclear}, e.Messages)
		assert.Empty(t, e.SlotMutations)
	})

	t.Run("No search context", func(t *testing.T) {
		flow, _ := newTestFlow(t, BookingDeps{})
		e := flow.SelectOption(ctx, turn(model.Slots{}, "الخيار الأول"))
		assert.Equal(t, []string{MsgNoSearchYet}, e.Messages)
		_, set := e.Mutation(model.SlotSelectedOption)
		assert.False(t, set, "selection requires a booking context")
	})

	t.Run("Option beyond shown offers", func(t *testing.T) {
		single := &stubFlights{result: model.FormattedResult{
			Kind:     model.OfferFlight,
			Currency: model.DisplayCurrency,
			Source:   model.SourceLive,
			Offers:   []model.Offer{{Kind: model.OfferFlight, Name: "Royal Air Maroc", Price: 3500}},
		}}
		flow, _ := newTestFlow(t, BookingDeps{Flights: single})

		flow.SearchFlights(ctx, turn(flightSlots(), ""))
		e := flow.SelectOption(ctx, turn(flightSlots(), "الخيار الثاني"))

		assert.Equal(t, []string{FormatOptionOutOfRange(1)}, e.Messages)
		assert.Empty(t, e.SlotMutations)

		e = flow.SelectOption(ctx, turn(flightSlots(), "الخيار الأول"))
		value, _ := slotValue(t, e, model.SlotSelectedOption)
		assert.Equal(t, "1", value)
		assert.Contains(t, e.Messages[0], "Royal Air Maroc")
	})

	t.Run("Without snapshot any listed option proceeds", func(t *testing.T) {
		flow, _ := newTestFlow(t, BookingDeps{})
		e := flow.SelectOption(ctx, turn(flightSlots(), "الخيار الثاني"))
		value, _ := slotValue(t, e, model.SlotSelectedOption)
		assert.Equal(t, "2", value)
		assert.Contains(t, e.Messages[0], "العربية للطيران")
	})
}

func TestConfirmReservation(t *testing.T) {
	ctx := context.Background()

	t.Run("Nothing selected redirects", func(t *testing.T) {
		flow, _ := newTestFlow(t, BookingDeps{})
		e := flow.ConfirmReservation(ctx, turn(flightSlots(), "نعم"))
		assert.Equal(t, []string{MsgNothingSelected}, e.Messages)
		assert.Empty(t, e.SlotMutations)
	})

	t.Run("Selection without booking context", func(t *testing.T) {
		flow, _ := newTestFlow(t, BookingDeps{})
		e := flow.ConfirmReservation(ctx, turn(model.Slots{model.SlotSelectedOption: "1"}, "نعم"))
		assert.Equal(t, []string{MsgNoSearchYet}, e.Messages)
		value, ok := slotValue(t, e, model.SlotSelectedOption)
		assert.True(t, ok)
		assert.Empty(t, value)
	})

	t.Run("Reference data without snapshot", func(t *testing.T) {
		flow, _ := newTestFlow(t, BookingDeps{Random: edgeRand{high: true}})

		slots := flightSlots()
		slots[model.SlotHotelCity] = "الرباط"
		slots[model.SlotHotelCategory] = catalog.CategoryThree
		slots[model.SlotGuestCount] = "2"
		slots[model.SlotSelectedOption] = "1"

		e := flow.ConfirmReservation(ctx, turn(slots, "أؤكد"))
		receipt := e.Messages[0]

		assert.Contains(t, receipt, "RSV999999")
		assert.Contains(t, receipt, "🛫 الناقل: الخطوط الملكية المغربية")
		assert.Contains(t, receipt, "💰 السعر: 3,500 درهم")
		assert.Contains(t, receipt, "🕐 التوقيت: 08:30 - 12:45")
		assert.Contains(t, receipt, "🏨 الفندق: فندق تور حسان")
		assert.Contains(t, receipt, "💰 السعر: 900 درهم/ليلة")
		assertAllBookingSlotsCleared(t, e)
	})

	t.Run("Custom reference prefix", func(t *testing.T) {
		flow, _ := newTestFlow(t, BookingDeps{ReferencePrefix: "TRV"})
		slots := flightSlots()
		slots[model.SlotSelectedOption] = "2"
		e := flow.ConfirmReservation(ctx, turn(slots, "نعم"))
		assert.Contains(t, e.Messages[0], "TRV000000")
	})
}

func TestCancelReservation(t *testing.T) {
	ctx := context.Background()
	flow, offers := newTestFlow(t, BookingDeps{})

	slots := flightSlots()
	flow.SearchFlights(ctx, turn(slots, ""))
	require.Equal(t, 1, offers.Len())

	e := flow.CancelReservation(ctx, turn(slots, "ألغ الحجز"))
	assert.Equal(t, []string{MsgCancelled}, e.Messages)
	assertAllBookingSlotsCleared(t, e)
	assert.Equal(t, 0, offers.Len())
}

func TestChangeOption(t *testing.T) {
	flow, _ := newTestFlow(t, BookingDeps{})

	slots := flightSlots()
	slots[model.SlotSelectedOption] = "1"

	e := flow.ChangeOption(context.Background(), turn(slots, "غير"))
	assert.Contains(t, e.Messages[0], "للرحلات الجوية")
	assert.NotContains(t, e.Messages[0], "للفنادق")

	require.Len(t, e.SlotMutations, 1)
	assert.Equal(t, model.SlotSelectedOption, e.SlotMutations[0].Name)
	assert.Nil(t, e.SlotMutations[0].Value)
}

func TestCheckFlightStatus(t *testing.T) {
	ctx := context.Background()

	t.Run("Report from entities", func(t *testing.T) {
		status := &stubStatus{report: &model.StatusReport{
			Origin:      "الدار البيضاء",
			Destination: "دبي",
			Flights:     []model.FlightStatus{{Airline: "Emirates", FlightNumber: "EK752", Status: "مجدولة"}},
		}}
		flow, _ := newTestFlow(t, BookingDeps{Status: status})

		tc := turn(model.Slots{}, "حالة الرحلات من الدار البيضاء إلى دبي")
		tc.LatestEntities = []model.Entity{
			{Value: "الدار البيضاء", EntityType: model.SlotDepartureCity},
			{Value: "دبي", EntityType: model.SlotDestinationCity},
		}

		e := flow.CheckFlightStatus(ctx, tc)
		assert.Equal(t, "الدار البيضاء", status.origin)
		assert.Equal(t, "دبي", status.destination)
		assert.Contains(t, e.Messages[0], "EK752")
		assert.Empty(t, e.SlotMutations)
	})

	t.Run("Untyped entities", func(t *testing.T) {
		status := &stubStatus{}
		flow, _ := newTestFlow(t, BookingDeps{Status: status})

		tc := turn(model.Slots{}, "")
		tc.LatestEntities = []model.Entity{{Value: "الرباط", EntityType: "city"}, {Value: "فاس", EntityType: "city"}}

		flow.CheckFlightStatus(ctx, tc)
		assert.Equal(t, "الرباط", status.origin)
		assert.Equal(t, "فاس", status.destination)
	})

	t.Run("No data apologizes", func(t *testing.T) {
		flow, _ := newTestFlow(t, BookingDeps{Status: &stubStatus{}})
		e := flow.CheckFlightStatus(ctx, turn(flightSlots(), ""))
		assert.Equal(t, []string{FormatStatusUnavailable("الرباط", "باريس")}, e.Messages)
	})

	t.Run("Missing route", func(t *testing.T) {
		flow, _ := newTestFlow(t, BookingDeps{})
		e := flow.CheckFlightStatus(ctx, turn(model.Slots{model.SlotDepartureCity: "الرباط"}, ""))
		assert.Equal(t, []string{MsgStatusNeedsRoute}, e.Messages)
	})
}

func TestValidateFlightForm(t *testing.T) {
	flow, _ := newTestFlow(t, BookingDeps{})

	tc := turn(model.Slots{
		model.SlotDepartureCity:   "من مراكش",
		model.SlotDestinationCity: "طوكيو",
		model.SlotDepartureDate:   "غدا",
		model.SlotTravelClass:     "بزنس",
	}, "")

	e := flow.ValidateFlightForm(context.Background(), tc)

	origin, _ := slotValue(t, e, model.SlotDepartureCity)
	assert.Equal(t, "مراكش", origin)

	destination, ok := slotValue(t, e, model.SlotDestinationCity)
	assert.True(t, ok)
	assert.Empty(t, destination)

	class, _ := slotValue(t, e, model.SlotTravelClass)
	assert.Equal(t, catalog.ClassBusiness, class)

	_, touched := e.Mutation(model.SlotDepartureDate)
	assert.False(t, touched, "valid dates are kept as typed")

	assert.Equal(t, []string{msgInvalidDestination}, e.Messages)
}

func TestValidateFlightFormKeepsEarlierSlots(t *testing.T) {
	ctx := context.Background()
	flow, _ := newTestFlow(t, BookingDeps{})

	// turn 1: the destination is given
	first := turn(model.Slots{model.SlotDestinationCity: "باريس"}, "إلى باريس")
	first.LatestEntities = []model.Entity{{Value: "باريس", EntityType: "city"}}
	first.SlotsToValidate = map[string]bool{model.SlotDestinationCity: true}

	e := flow.ValidateFlightForm(ctx, first)
	assert.Empty(t, e.SlotMutations)
	assert.Empty(t, e.Messages)

	// turn 2: only the origin is filled, with an untyped city entity
	second := turn(model.Slots{
		model.SlotDestinationCity: "باريس",
		model.SlotDepartureCity:   "من طنجة",
	}, "من طنجة")
	second.LatestEntities = []model.Entity{{Value: "طنجة", EntityType: "city"}}
	second.SlotsToValidate = map[string]bool{model.SlotDepartureCity: true}

	e = flow.ValidateFlightForm(ctx, second)
	_, touched := e.Mutation(model.SlotDestinationCity)
	assert.False(t, touched, "destination was filled in an earlier turn")
	origin, _ := slotValue(t, e, model.SlotDepartureCity)
	assert.Equal(t, "طنجة", origin)
}

func TestValidateFlightFormWithoutEventHistory(t *testing.T) {
	flow, _ := newTestFlow(t, BookingDeps{})

	tc := turn(model.Slots{
		model.SlotDestinationCity: "باريس",
		model.SlotDepartureCity:   "طنجة",
	}, "من طنجة")
	tc.LatestEntities = []model.Entity{{Value: "طنجة", EntityType: "city"}}

	e := flow.ValidateFlightForm(context.Background(), tc)
	assert.Empty(t, e.SlotMutations)
	assert.Empty(t, e.Messages)
}

func TestValidateHotelFormClearsNoPreferenceDistrict(t *testing.T) {
	ctx := context.Background()
	flow, _ := newTestFlow(t, BookingDeps{})

	slots := model.Slots{
		model.SlotHotelCity:     "مراكش",
		model.SlotHotelCategory: catalog.CategoryFour,
		model.SlotGuestCount:    "2",
		model.SlotDistrict:      "لا يهم",
	}
	tc := turn(slots, "لا يهم")
	tc.SlotsToValidate = map[string]bool{model.SlotDistrict: true}

	e := flow.ValidateHotelForm(ctx, tc)
	require.Len(t, e.SlotMutations, 1)
	assert.Equal(t, model.SlotDistrict, e.SlotMutations[0].Name)
	assert.Nil(t, e.SlotMutations[0].Value)
	assert.Empty(t, e.Messages)

	delete(slots, model.SlotDistrict)
	slots[model.SlotSelectedOption] = "1"
	confirm := flow.ConfirmReservation(ctx, turn(slots, "نعم"))
	assert.NotContains(t, confirm.Messages[0], "🗺️ المنطقة")
}

func TestValidateHotelForm(t *testing.T) {
	flow, _ := newTestFlow(t, BookingDeps{})

	tc := turn(model.Slots{
		model.SlotHotelCity:     "باريس",
		model.SlotHotelCategory: "خمس نجوم",
		model.SlotGuestCount:    "نحن ثلاثة",
	}, "")
	tc.LatestEntities = []model.Entity{{Value: "أكادير", EntityType: model.SlotHotelCity}}

	e := flow.ValidateHotelForm(context.Background(), tc)

	city, _ := slotValue(t, e, model.SlotHotelCity)
	assert.Equal(t, "أكادير", city)
	category, _ := slotValue(t, e, model.SlotHotelCategory)
	assert.Equal(t, catalog.CategoryFive, category)
	guests, _ := slotValue(t, e, model.SlotGuestCount)
	assert.Equal(t, "3", guests)
	assert.Empty(t, e.Messages)

	_, touched := e.Mutation(model.SlotDistrict)
	assert.False(t, touched)
}

func TestDefaultFallbackAndRestart(t *testing.T) {
	ctx := context.Background()
	flow, offers := newTestFlow(t, BookingDeps{})

	tc := turn(model.Slots{}, "؟")
	tc.ActiveForm = model.HotelForm
	tc.RequestedSlot = model.SlotHotelCategory

	e := flow.DefaultFallback(ctx, tc)
	assert.Equal(t, []string{FallbackPrompt(model.HotelForm, model.SlotHotelCategory)}, e.Messages)
	assert.Empty(t, e.SlotMutations)

	flow.SearchFlights(ctx, turn(flightSlots(), ""))
	e = flow.Restart(ctx, turn(flightSlots(), "إعادة"))
	assert.True(t, e.Restart)
	assert.Equal(t, []string{MsgRestart}, e.Messages)
	assert.Equal(t, 0, offers.Len())
}
