package catalog

import (
	"strings"

	"travelbot/internal/utils"
)

// Canonical travel classes
const (
	ClassEconomy  = "اقتصادية"
	ClassBusiness = "أعمال"
	ClassFirst    = "أولى"
)

// Canonical hotel categories
const (
	CategoryThree  = "3 نجوم"
	CategoryFour   = "4 نجوم"
	CategoryFive   = "5 نجوم"
	CategoryLuxury = "فاخر"
)

// DefaultAmenityLabel is returned for amenities missing from the table
const DefaultAmenityLabel = "فندق"

// Airline is one carrier used by the fallback generator
type Airline struct {
	Name     string
	Code     string
	Features []string
}

// Airlines is the fixed carrier rotation for fallback flights
var Airlines = []Airline{
	{Name: "الخطوط الملكية المغربية", Code: "AT", Features: []string{"وجبة مجانية", "أمتعة 23 كغ"}},
	{Name: "العربية للطيران", Code: "3O", Features: []string{"سعر اقتصادي", "أمتعة يد فقط"}},
	{Name: "الخطوط الجوية الفرنسية", Code: "AF", Features: []string{"وجبة مجانية", "ترفيه على متن الطائرة"}},
	{Name: "الخطوط الجوية التركية", Code: "TK", Features: []string{"وجبة ساخنة", "أمتعة 30 كغ"}},
	{Name: "طيران الإمارات", Code: "EK", Features: []string{"شاشات ترفيه", "واي فاي على متن الطائرة"}},
	{Name: "رايان إير", Code: "FR", Features: []string{"سعر منخفض", "حقيبة صغيرة فقط"}},
}

// ReferenceFlight is the fixed description used when a confirmed flight
// option can no longer be matched to the offers shown during search
type ReferenceFlight struct {
	Airline   string
	Price     float64
	Departure string
	Arrival   string
}

// ReferenceFlights are indexed by option number minus one
var ReferenceFlights = []ReferenceFlight{
	{Airline: "الخطوط الملكية المغربية", Price: 3500, Departure: "08:30", Arrival: "12:45"},
	{Airline: "العربية للطيران", Price: 2800, Departure: "14:20", Arrival: "18:35"},
}

// ClassMultiplier returns the fare multiplier for a canonical class
func ClassMultiplier(class string) float64 {
	switch strings.TrimSpace(class) {
	case ClassBusiness:
		return 2.5
	case ClassFirst:
		return 4
	default:
		return 1
	}
}

// CategoryMultiplier returns the nightly price multiplier for a category
func CategoryMultiplier(category string) float64 {
	switch strings.TrimSpace(category) {
	case CategoryFour:
		return 1.3
	case CategoryFive, CategoryLuxury:
		return 1.8
	default:
		return 1
	}
}

// CategoryStars returns the star count implied by a category label
func CategoryStars(category string) int {
	switch strings.TrimSpace(category) {
	case CategoryFour:
		return 4
	case CategoryFive, CategoryLuxury:
		return 5
	default:
		return 3
	}
}

// amenityAliases maps provider amenity wording to an Arabic label
var amenityAliases = []struct {
	label   string
	aliases []string
}{
	{"واي فاي مجاني", []string{"free wi-fi", "free wifi", "wi-fi", "wifi"}},
	{"إفطار مجاني", []string{"free breakfast", "breakfast"}},
	{"مسبح", []string{"swimming pool", "outdoor pool", "indoor pool", "pool"}},
	{"سبا", []string{"spa", "hot tub", "hammam"}},
	{"نادي رياضي", []string{"fitness", "gym"}},
	{"مطعم", []string{"restaurant"}},
	{"موقف سيارات", []string{"free parking", "parking"}},
	{"تكييف", []string{"air conditioning", "air-conditioned"}},
	{"نقل من المطار", []string{"airport shuttle"}},
	{"خدمة الغرف", []string{"room service"}},
	{"شاطئ", []string{"beach access", "beach"}},
	{"مناسب للأطفال", []string{"kid-friendly", "child-friendly", "kids"}},
	{"مركز أعمال", []string{"business centre", "business center"}},
	{"غسيل الملابس", []string{"laundry"}},
}

// TranslateAmenity maps a provider amenity to Arabic; unknown amenities get
// the generic hotel label
func TranslateAmenity(amenity string) string {
	if strings.TrimSpace(amenity) == "" {
		return DefaultAmenityLabel
	}
	for _, entry := range amenityAliases {
		if utils.ContainsAny(amenity, entry.aliases) {
			return entry.label
		}
	}
	return DefaultAmenityLabel
}

// statusLabels maps provider flight status codes to Arabic
var statusLabels = map[string]string{
	"scheduled": "مجدولة",
	"active":    "في الجو",
	"landed":    "هبطت",
	"cancelled": "ملغاة",
	"incident":  "حادث",
	"diverted":  "تم تحويل مسارها",
	"delayed":   "متأخرة",
}

// TranslateStatus maps a flight status to Arabic; unknown values pass through
func TranslateStatus(status string) string {
	if label, ok := statusLabels[strings.ToLower(strings.TrimSpace(status))]; ok {
		return label
	}
	return status
}
