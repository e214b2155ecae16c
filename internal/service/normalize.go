package service

import (
	"strconv"
	"strings"

	"travelbot/internal/catalog"
	"travelbot/internal/model"
	"travelbot/internal/utils"
)

// Re-prompt and rejection texts
const (
	msgInvalidDeparture = "عذراً، يرجى اختيار مدينة مغربية صحيحة للمغادرة.\n" +
		"المدن المتاحة: الرباط، الدار البيضاء، مراكش، فاس، أكادير، طنجة"
	msgInvalidDestination = "يرجى تحديد مدينة الوجهة.\n" +
		"الوجهات المتاحة: باريس، لندن، مدريد، دبي، القاهرة، تونس، إسطنبول، وغيرها"
	msgInvalidHotelCity = "عذراً، يرجى اختيار مدينة صحيحة للإقامة.\n" +
		"المدن المتاحة: الرباط، الدار البيضاء، مراكش، فاس، أكادير، طنجة"
	msgAskDate         = "متى تريد السفر؟ مثال: 15 مايو، غداً، الأسبوع القادم"
	msgAskClass        = "أي درجة تفضل؟ (اقتصادية، أعمال، أولى)"
	msgInvalidClass    = "الدرجات المتاحة: اقتصادية، أعمال، أولى"
	msgAskCategory     = "كم نجمة تريد للفندق؟ (3، 4، 5 نجوم)"
	msgInvalidCategory = "الفئات المتاحة: 3 نجوم، 4 نجوم، 5 نجوم، فاخر"
	msgAskGuests       = "كم عدد الأشخاص؟ مثال: شخصين، 4 أشخاص"
)

var (
	economyKeywords  = []string{"اقتصادية", "عادية", "عاديه", "economy", "eco"}
	businessKeywords = []string{"أعمال", "بزنس", "business"}
	firstKeywords    = []string{"أولى", "فاخرة", "first", "فيرست"}

	luxuryKeywords = []string{"فاخر", "luxury"}

	noPreferenceKeywords = []string{
		"لا يهم", "مش مهم", "ماشي مهم", "لا فرق", "أي مكان", "أي حي", "أي منطقة",
		"كيفما كان", "anywhere", "no preference", "doesn't matter",
	}
)

// Normalized is the outcome of validating one slot value. An empty Value
// with a Rejection means the form must ask for the slot again.
type Normalized struct {
	Value     string
	Rejection string
}

// OK reports whether a canonical value was produced
func (n Normalized) OK() bool {
	return n.Value != ""
}

func accept(value string) Normalized {
	return Normalized{Value: value}
}

func reject(message string) Normalized {
	return Normalized{Rejection: message}
}

// SlotNormalizer validates city slots against the reference catalog
type SlotNormalizer struct {
	catalog *catalog.Catalog
}

// NewSlotNormalizer creates a normalizer backed by the given catalog
func NewSlotNormalizer(c *catalog.Catalog) *SlotNormalizer {
	return &SlotNormalizer{catalog: c}
}

// DepartureCity accepts domestic cities only
func (n *SlotNormalizer) DepartureCity(raw string, entities []model.Entity) Normalized {
	return n.city(model.SlotDepartureCity, raw, entities, n.catalog.MatchDomestic, msgInvalidDeparture)
}

// DestinationCity accepts international destinations and domestic cities
func (n *SlotNormalizer) DestinationCity(raw string, entities []model.Entity) Normalized {
	return n.city(model.SlotDestinationCity, raw, entities, n.catalog.MatchDestination, msgInvalidDestination)
}

// HotelCity accepts domestic cities only
func (n *SlotNormalizer) HotelCity(raw string, entities []model.Entity) Normalized {
	return n.city(model.SlotHotelCity, raw, entities, n.catalog.MatchDomestic, msgInvalidHotelCity)
}

// city scans entities in arrival order, then the raw slot value. Entities
// explicitly typed for another booking slot are skipped so that the origin
// of "من الرباط إلى باريس" never lands in the destination slot.
func (n *SlotNormalizer) city(
	slot string,
	raw string,
	entities []model.Entity,
	match func(string) (string, bool),
	rejection string,
) Normalized {
	for _, e := range entities {
		if isOtherBookingSlot(e.EntityType, slot) {
			continue
		}
		if city, ok := match(e.Value); ok {
			return accept(city)
		}
	}

	if city, ok := match(raw); ok {
		return accept(city)
	}

	return reject(rejection)
}

func isOtherBookingSlot(entityType, slot string) bool {
	if entityType == "" || entityType == slot {
		return false
	}
	for _, name := range model.BookingSlots {
		if name == entityType {
			return true
		}
	}
	return false
}

// NormalizeClass maps free text to اقتصادية, أعمال or أولى
func NormalizeClass(raw string) Normalized {
	value := strings.ToLower(strings.TrimSpace(raw))
	if value == "" {
		return reject(msgAskClass)
	}

	switch {
	case utils.ContainsAny(value, economyKeywords):
		return accept(catalog.ClassEconomy)
	case utils.ContainsAny(value, businessKeywords):
		return accept(catalog.ClassBusiness)
	case utils.ContainsAny(value, firstKeywords):
		return accept(catalog.ClassFirst)
	default:
		return reject(msgInvalidClass)
	}
}

// NormalizeHotelCategory maps free text to "{N} نجوم" or فاخر. Star digits
// and number words win over the luxury keyword.
func NormalizeHotelCategory(raw string) Normalized {
	value := strings.TrimSpace(raw)
	if value == "" {
		return reject(msgAskCategory)
	}

	switch {
	case utils.ContainsFold(value, "3") || utils.ContainsFold(value, "ثلاث"):
		return accept(catalog.CategoryThree)
	case utils.ContainsFold(value, "4") || utils.ContainsFold(value, "أربع"):
		return accept(catalog.CategoryFour)
	case utils.ContainsFold(value, "5") || utils.ContainsFold(value, "خمس"):
		return accept(catalog.CategoryFive)
	case utils.ContainsAny(value, luxuryKeywords):
		return accept(catalog.CategoryLuxury)
	default:
		return reject(msgInvalidCategory)
	}
}

// NormalizeDate accepts any non-empty phrase; the search adapters parse it
// with ParseTravelDate
func NormalizeDate(raw string) Normalized {
	value := strings.TrimSpace(raw)
	if value == "" {
		return reject(msgAskDate)
	}
	return accept(value)
}

// NormalizeGuests stores the parsed head count
func NormalizeGuests(raw string) Normalized {
	if strings.TrimSpace(raw) == "" {
		return reject(msgAskGuests)
	}
	return accept(strconv.Itoa(ParseGuestCount(raw)))
}

// NormalizeDistrict accepts any named district. An empty value or a
// no-preference answer such as "لا يهم" clears the optional slot without a
// rejection.
func NormalizeDistrict(raw string) Normalized {
	value := strings.TrimSpace(raw)
	if strings.EqualFold(value, "any") || utils.ContainsAny(value, noPreferenceKeywords) {
		return Normalized{}
	}
	return Normalized{Value: value}
}
