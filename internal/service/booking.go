package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"travelbot/internal/catalog"
	"travelbot/internal/model"
	"travelbot/internal/store"
	"travelbot/internal/utils"
)

// DefaultReferencePrefix starts every booking reference
const DefaultReferencePrefix = "RSV"

// Option words, checked in order; the first family wins
var (
	firstOptionWords  = []string{"أول", "الأول"}
	secondOptionWords = []string{"ثان", "الثاني"}
)

// SearchLogger records searches for analytics
type SearchLogger interface {
	LogSearch(ctx context.Context, entry model.SearchLogEntry) error
}

// BookingDeps are the collaborators of a BookingFlow. Only Catalog is
// required; missing adapters get fallback-only defaults.
type BookingDeps struct {
	Catalog         *catalog.Catalog
	Flights         FlightSearcher
	Hotels          HotelSearcher
	Status          StatusLookup
	Fallback        *FallbackGenerator
	Offers          store.OfferStore
	SearchLog       SearchLogger
	Random          RandomSource
	ReferencePrefix string
	Now             func() time.Time
}

// BookingFlow implements the conversation actions. It keeps no
// conversation state of its own: everything lives in slots, plus the
// offer snapshots.
type BookingFlow struct {
	normalizer      *SlotNormalizer
	flights         FlightSearcher
	hotels          HotelSearcher
	status          StatusLookup
	fallback        *FallbackGenerator
	offers          store.OfferStore
	searchLog       SearchLogger
	rnd             RandomSource
	referencePrefix string
	now             func() time.Time
}

// NewBookingFlow creates the flow controller
func NewBookingFlow(deps BookingDeps) *BookingFlow {
	f := &BookingFlow{
		normalizer:      NewSlotNormalizer(deps.Catalog),
		flights:         deps.Flights,
		hotels:          deps.Hotels,
		status:          deps.Status,
		fallback:        deps.Fallback,
		offers:          deps.Offers,
		searchLog:       deps.SearchLog,
		rnd:             deps.Random,
		referencePrefix: deps.ReferencePrefix,
		now:             deps.Now,
	}

	if f.rnd == nil {
		f.rnd = NewRandomSource()
	}
	if f.fallback == nil {
		f.fallback = NewFallbackGenerator(deps.Catalog, f.rnd)
	}
	if f.flights == nil {
		f.flights = fallbackFlights{f.fallback}
	}
	if f.hotels == nil {
		f.hotels = fallbackHotels{f.fallback}
	}
	if f.status == nil {
		f.status = noStatus{}
	}
	if f.offers == nil {
		f.offers = store.NewMemoryOfferStore(0)
	}
	if f.referencePrefix == "" {
		f.referencePrefix = DefaultReferencePrefix
	}
	if f.now == nil {
		f.now = time.Now
	}

	return f
}

// ValidateFlightForm normalizes every flight slot present in the tracker
func (f *BookingFlow) ValidateFlightForm(_ context.Context, turn *model.TurnContext) model.Effect {
	var effect model.Effect

	f.validateSlot(&effect, turn, model.SlotDepartureCity, func(raw string) Normalized {
		return f.normalizer.DepartureCity(raw, cityEntities(turn, raw, f.normalizer.DepartureCity))
	})
	f.validateSlot(&effect, turn, model.SlotDestinationCity, func(raw string) Normalized {
		return f.normalizer.DestinationCity(raw, cityEntities(turn, raw, f.normalizer.DestinationCity))
	})
	f.validateSlot(&effect, turn, model.SlotDepartureDate, NormalizeDate)
	f.validateSlot(&effect, turn, model.SlotTravelClass, NormalizeClass)

	return effect
}

// ValidateHotelForm normalizes every hotel slot present in the tracker
func (f *BookingFlow) ValidateHotelForm(_ context.Context, turn *model.TurnContext) model.Effect {
	var effect model.Effect

	f.validateSlot(&effect, turn, model.SlotHotelCity, func(raw string) Normalized {
		return f.normalizer.HotelCity(raw, cityEntities(turn, raw, f.normalizer.HotelCity))
	})
	f.validateSlot(&effect, turn, model.SlotHotelCategory, NormalizeHotelCategory)
	f.validateSlot(&effect, turn, model.SlotGuestCount, NormalizeGuests)
	f.validateSlot(&effect, turn, model.SlotDistrict, NormalizeDistrict)

	return effect
}

// validateSlot only looks at slots filled this turn that the tracker holds;
// accepted values are written back only when normalization changed them
func (f *BookingFlow) validateSlot(effect *model.Effect, turn *model.TurnContext, slot string, normalize func(string) Normalized) {
	raw, present := turn.Slots[slot]
	if !present || strings.TrimSpace(raw) == "" || !turn.ShouldValidate(slot) {
		return
	}

	n := normalize(raw)
	switch {
	case n.OK():
		if n.Value != raw {
			effect.Set(slot, n.Value)
		}
	case n.Rejection != "":
		effect.Say(n.Rejection)
		effect.Clear(slot)
	default:
		effect.Clear(slot)
	}
}

// SearchFlights shows two flight offers for the collected route
func (f *BookingFlow) SearchFlights(ctx context.Context, turn *model.TurnContext) model.Effect {
	var effect model.Effect

	origin := turn.Slots.Get(model.SlotDepartureCity)
	destination := turn.Slots.Get(model.SlotDestinationCity)
	if origin == "" || destination == "" {
		effect.Say(MsgNeedFlightCities)
		return effect
	}

	criteria := f.flightCriteria(turn)

	zap.L().Info("Flight search",
		zap.String("conversation_id", turn.ConversationID),
		zap.String("origin", criteria.Origin),
		zap.String("destination", criteria.Destination),
		zap.String("date", criteria.Date.Format(ISODate)),
		zap.String("class", criteria.Class),
	)

	start := time.Now()
	result := f.flights.Search(ctx, criteria)
	f.recordSearch(ctx, turn.ConversationID, result, time.Since(start), model.JSONMap{
		"origin":      criteria.Origin,
		"destination": criteria.Destination,
		"date":        criteria.Date.Format(ISODate),
		"class":       criteria.Class,
	})

	effect.Say(FormatFlightResults(criteria, result))
	if turn.Slots.Has(model.SlotSelectedOption) {
		effect.Clear(model.SlotSelectedOption)
	}
	return effect
}

// SearchHotels shows two hotel offers once city, category and guests are known
func (f *BookingFlow) SearchHotels(ctx context.Context, turn *model.TurnContext) model.Effect {
	var effect model.Effect

	switch {
	case !turn.Slots.Has(model.SlotHotelCity):
		effect.Say(MsgNeedHotelCity)
		return effect
	case !turn.Slots.Has(model.SlotHotelCategory):
		effect.Say(MsgNeedHotelCat)
		return effect
	case !turn.Slots.Has(model.SlotGuestCount):
		effect.Say(MsgNeedGuests)
		return effect
	}

	criteria := f.hotelCriteria(turn)

	zap.L().Info("Hotel search",
		zap.String("conversation_id", turn.ConversationID),
		zap.String("city", criteria.City),
		zap.String("category", criteria.Category),
		zap.Int("guests", criteria.Guests),
	)

	start := time.Now()
	result := f.hotels.Search(ctx, criteria)
	f.recordSearch(ctx, turn.ConversationID, result, time.Since(start), model.JSONMap{
		"city":     criteria.City,
		"category": criteria.Category,
		"guests":   criteria.Guests,
		"district": criteria.District,
	})

	effect.Say(FormatHotelResults(criteria, result))
	if turn.Slots.Has(model.SlotSelectedOption) {
		effect.Clear(model.SlotSelectedOption)
	}
	return effect
}

// SelectOption records which of the shown offers the user picked
func (f *BookingFlow) SelectOption(ctx context.Context, turn *model.TurnContext) model.Effect {
	var effect model.Effect

	option := ParseOption(turn.LatestText)
	if option == 0 {
		effect.Say(MsgOptionUnclear)
		return effect
	}

	kind, ok := bookingKind(turn)
	if !ok {
		effect.Say(MsgNoSearchYet)
		return effect
	}

	offer, available, ok := f.selectedOffer(ctx, turn, kind, option)
	if !ok {
		effect.Say(FormatOptionOutOfRange(available))
		return effect
	}

	zap.L().Info("Option selected",
		zap.String("conversation_id", turn.ConversationID),
		zap.Int("option", option),
		zap.String("kind", string(kind)),
	)

	effect.Set(model.SlotSelectedOption, strconv.Itoa(option))
	effect.Say(FormatSelection(option, offer))
	return effect
}

// ConfirmReservation prints the receipt and resets the booking
func (f *BookingFlow) ConfirmReservation(ctx context.Context, turn *model.TurnContext) model.Effect {
	var effect model.Effect

	option, err := strconv.Atoi(turn.Slots.Get(model.SlotSelectedOption))
	if err != nil || option < 1 {
		effect.Say(MsgNothingSelected)
		if turn.Slots.Has(model.SlotSelectedOption) {
			effect.Clear(model.SlotSelectedOption)
		}
		return effect
	}

	receipt := Receipt{Reference: f.newReference()}

	origin := turn.Slots.Get(model.SlotDepartureCity)
	destination := turn.Slots.Get(model.SlotDestinationCity)
	if origin != "" && destination != "" {
		offer := f.confirmedOffer(ctx, turn, model.OfferFlight, option)
		receipt.Flight = &FlightBooking{
			Origin:      origin,
			Destination: destination,
			Date:        turn.Slots.Get(model.SlotDepartureDate),
			Class:       turn.Slots.Get(model.SlotTravelClass),
			Offer:       offer,
		}
	}

	if city := turn.Slots.Get(model.SlotHotelCity); city != "" {
		offer := f.confirmedOffer(ctx, turn, model.OfferHotel, option)
		receipt.Hotel = &HotelBooking{
			City:     city,
			Category: turn.Slots.Get(model.SlotHotelCategory),
			Guests:   turn.Slots.Get(model.SlotGuestCount),
			District: turn.Slots.Get(model.SlotDistrict),
			Offer:    offer,
		}
	}

	if receipt.Flight == nil && receipt.Hotel == nil {
		effect.Say(MsgNoSearchYet)
		effect.Clear(model.SlotSelectedOption)
		return effect
	}

	zap.L().Info("Reservation confirmed",
		zap.String("conversation_id", turn.ConversationID),
		zap.String("reference", receipt.Reference),
		zap.Int("option", option),
		zap.Bool("flight", receipt.Flight != nil),
		zap.Bool("hotel", receipt.Hotel != nil),
	)

	effect.Say(FormatReceipt(receipt))
	effect.Clear(model.BookingSlots...)
	f.clearOffers(ctx, turn.ConversationID)
	return effect
}

// CancelReservation abandons the booking at any stage
func (f *BookingFlow) CancelReservation(ctx context.Context, turn *model.TurnContext) model.Effect {
	var effect model.Effect

	zap.L().Info("Reservation cancelled", zap.String("conversation_id", turn.ConversationID))

	effect.Say(MsgCancelled)
	effect.Clear(model.BookingSlots...)
	f.clearOffers(ctx, turn.ConversationID)
	return effect
}

// ChangeOption lists what can be changed and drops the current selection
func (f *BookingFlow) ChangeOption(_ context.Context, turn *model.TurnContext) model.Effect {
	var effect model.Effect
	effect.Say(FormatChangeMenu(turn.HasFlightContext(), turn.HasHotelContext()))
	effect.Clear(model.SlotSelectedOption)
	return effect
}

// CheckFlightStatus reports live status for the route in the utterance or
// the flight slots
func (f *BookingFlow) CheckFlightStatus(ctx context.Context, turn *model.TurnContext) model.Effect {
	var effect model.Effect

	origin := f.normalizer.DepartureCity(turn.Slots.Get(model.SlotDepartureCity), turn.LatestEntities)
	destination := f.normalizer.DestinationCity(turn.Slots.Get(model.SlotDestinationCity), turn.LatestEntities)
	if origin.OK() && destination.Value == origin.Value {
		// untyped city entities: the first one is the origin
		rest := entitiesWithout(turn.LatestEntities, origin.Value)
		destination = f.normalizer.DestinationCity(turn.Slots.Get(model.SlotDestinationCity), rest)
	}
	if !origin.OK() || !destination.OK() || destination.Value == origin.Value {
		effect.Say(MsgStatusNeedsRoute)
		return effect
	}

	report := f.status.Lookup(ctx, origin.Value, destination.Value)
	if report == nil || len(report.Flights) == 0 {
		effect.Say(FormatStatusUnavailable(origin.Value, destination.Value))
		return effect
	}

	effect.Say(FormatStatusReport(report))
	return effect
}

// DefaultFallback re-prompts for the slot being collected, or lists what
// the assistant can do
func (f *BookingFlow) DefaultFallback(_ context.Context, turn *model.TurnContext) model.Effect {
	var effect model.Effect
	effect.Say(FallbackPrompt(turn.ActiveForm, turn.RequestedSlot))
	return effect
}

// Restart greets the user and asks the engine to reset the conversation
func (f *BookingFlow) Restart(ctx context.Context, turn *model.TurnContext) model.Effect {
	f.clearOffers(ctx, turn.ConversationID)
	return model.Effect{
		Messages: []string{MsgRestart},
		Restart:  true,
	}
}

// ParseOption returns 1 or 2 for an option phrase, or 0. Ordinal words
// take precedence; otherwise the first standalone number 1 or 2 counts, so
// digits inside larger numbers such as "10" or "2026" never select.
func ParseOption(text string) int {
	lowered := strings.ToLower(text)
	for _, w := range firstOptionWords {
		if strings.Contains(lowered, w) {
			return 1
		}
	}
	for _, w := range secondOptionWords {
		if strings.Contains(lowered, w) {
			return 2
		}
	}
	for _, n := range utils.Integers(text) {
		if n == 1 || n == 2 {
			return n
		}
	}
	return 0
}

// bookingKind reports which booking the selection refers to; flights win
// when both contexts exist
func bookingKind(turn *model.TurnContext) (model.OfferKind, bool) {
	switch {
	case turn.HasFlightContext():
		return model.OfferFlight, true
	case turn.HasHotelContext():
		return model.OfferHotel, true
	default:
		return "", false
	}
}

// cityEntities returns the entities a city slot may be refined from. Without
// event history a stored value that is already canonical is kept as is, so
// a city named in a later turn cannot overwrite it.
func cityEntities(turn *model.TurnContext, raw string, normalize func(string, []model.Entity) Normalized) []model.Entity {
	if turn.SlotsToValidate == nil {
		if n := normalize(raw, nil); n.OK() && n.Value == strings.TrimSpace(raw) {
			return nil
		}
	}
	return turn.LatestEntities
}

func entitiesWithout(entities []model.Entity, city string) []model.Entity {
	rest := make([]model.Entity, 0, len(entities))
	for _, e := range entities {
		if !utils.ContainsFold(e.Value, city) {
			rest = append(rest, e)
		}
	}
	return rest
}

func (f *BookingFlow) flightCriteria(turn *model.TurnContext) model.FlightCriteria {
	dateText := turn.Slots.Get(model.SlotDepartureDate)
	return model.FlightCriteria{
		Origin:      turn.Slots.Get(model.SlotDepartureCity),
		Destination: turn.Slots.Get(model.SlotDestinationCity),
		DateText:    dateText,
		Date:        ParseTravelDate(dateText, f.now()),
		Class:       turn.Slots.Get(model.SlotTravelClass),
	}
}

func (f *BookingFlow) hotelCriteria(turn *model.TurnContext) model.HotelCriteria {
	raw := turn.Slots.Get(model.SlotGuestCount)
	guests, err := strconv.Atoi(raw)
	if err != nil || guests < 1 {
		guests = ParseGuestCount(raw)
	}
	return model.HotelCriteria{
		City:     turn.Slots.Get(model.SlotHotelCity),
		Category: turn.Slots.Get(model.SlotHotelCategory),
		Guests:   guests,
		District: turn.Slots.Get(model.SlotDistrict),
	}
}

// selectedOffer looks the option up in the last shown offers. ok is false
// only when a snapshot exists and holds fewer offers than option; without
// a snapshot the offer is re-derived from reference data.
func (f *BookingFlow) selectedOffer(ctx context.Context, turn *model.TurnContext, kind model.OfferKind, option int) (model.Offer, int, bool) {
	if snap := f.loadOffers(ctx, turn.ConversationID, kind); snap != nil {
		offer, ok := snap.Result.Offer(option)
		return offer, len(snap.Result.Offers), ok
	}
	offer := f.derivedOffer(turn, kind, option)
	return offer, model.MaxOffers, true
}

// confirmedOffer never fails: an option missing from the snapshot falls
// back to reference data
func (f *BookingFlow) confirmedOffer(ctx context.Context, turn *model.TurnContext, kind model.OfferKind, option int) model.Offer {
	offer, _, ok := f.selectedOffer(ctx, turn, kind, option)
	if !ok {
		return f.derivedOffer(turn, kind, option)
	}
	return offer
}

func (f *BookingFlow) derivedOffer(turn *model.TurnContext, kind model.OfferKind, option int) model.Offer {
	idx := option - 1
	if kind == model.OfferFlight {
		if idx < 0 || idx >= len(catalog.ReferenceFlights) {
			idx = 0
		}
		ref := catalog.ReferenceFlights[idx]
		return model.Offer{
			Kind:      model.OfferFlight,
			Name:      ref.Airline,
			Departure: ref.Departure,
			Arrival:   ref.Arrival,
			Price:     ref.Price,
		}
	}

	result := f.fallback.Hotels(f.hotelCriteria(turn))
	if offer, ok := result.Offer(option); ok {
		return offer
	}
	offer, _ := result.Offer(1)
	return offer
}

func (f *BookingFlow) newReference() string {
	return fmt.Sprintf("%s%06d", f.referencePrefix, f.rnd.Intn(1000000))
}

func (f *BookingFlow) recordSearch(ctx context.Context, conversationID string, result model.FormattedResult, elapsed time.Duration, criteria model.JSONMap) {
	if _, err := f.offers.Save(ctx, conversationID, result); err != nil {
		zap.L().Warn("Failed to save offer snapshot",
			zap.String("conversation_id", conversationID),
			zap.Error(err),
		)
	}

	if f.searchLog == nil {
		return
	}
	entry := model.SearchLogEntry{
		ConversationID: conversationID,
		Kind:           result.Kind,
		Criteria:       criteria,
		Source:         result.Source,
		OfferCount:     len(result.Offers),
		ResponseTimeMs: int(elapsed.Milliseconds()),
		CreatedAt:      f.now(),
	}
	if err := f.searchLog.LogSearch(ctx, entry); err != nil {
		zap.L().Warn("Failed to log search", zap.Error(err))
	}
}

func (f *BookingFlow) loadOffers(ctx context.Context, conversationID string, kind model.OfferKind) *store.Snapshot {
	snap, err := f.offers.Load(ctx, conversationID, kind)
	if err != nil {
		zap.L().Warn("Failed to load offer snapshot",
			zap.String("conversation_id", conversationID),
			zap.Error(err),
		)
		return nil
	}
	return snap
}

func (f *BookingFlow) clearOffers(ctx context.Context, conversationID string) {
	if err := f.offers.Clear(ctx, conversationID); err != nil {
		zap.L().Warn("Failed to clear offer snapshots",
			zap.String("conversation_id", conversationID),
			zap.Error(err),
		)
	}
}

// Fallback-only adapters used when no provider is wired

type fallbackFlights struct{ gen *FallbackGenerator }

func (a fallbackFlights) Search(_ context.Context, c model.FlightCriteria) model.FormattedResult {
	return a.gen.Flights(c)
}

type fallbackHotels struct{ gen *FallbackGenerator }

func (a fallbackHotels) Search(_ context.Context, c model.HotelCriteria) model.FormattedResult {
	return a.gen.Hotels(c)
}

type noStatus struct{}

func (noStatus) Lookup(context.Context, string, string) *model.StatusReport { return nil }
