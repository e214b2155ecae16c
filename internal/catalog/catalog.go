package catalog

import (
	"sort"
	"strings"
	"sync"

	"travelbot/internal/model"
	"travelbot/internal/utils"
)

// PriceTier groups destinations by flight distance and price
type PriceTier int

const (
	TierDomestic PriceTier = iota
	TierGulfNorthAfrica
	TierEurope
	TierMediterranean // Turkey, Italy, Germany
	TierTransatlantic
)

// DefaultAirportCode is used for any city without a known airport
const DefaultAirportCode = "CMN"

// DefaultHotelBasePrice applies to cities missing from the base price table
const DefaultHotelBasePrice = 650.0

// HotelEntry is one hotel of a per-city fallback catalog
type HotelEntry struct {
	Name        string
	PriceFactor float64
	Rating      float64
	Features    []string
	Location    string
}

// Catalog holds the city and hotel reference data. The zero value is not
// usable; start from Default and optionally overlay database records.
type Catalog struct {
	mu            sync.RWMutex
	domestic      []string
	international []string
	aliases       map[string]string
	airports      map[string]string
	tiers         map[string]PriceTier
	hotelBase     map[string]float64
	hotels        map[string][]HotelEntry
}

// Default returns a catalog populated with the built-in reference data
func Default() *Catalog {
	c := &Catalog{
		domestic: []string{
			"الرباط", "الدار البيضاء", "الدارالبيضاء", "مراكش", "فاس",
			"أكادير", "طنجة", "وجدة", "تطوان", "الحسيمة", "القنيطرة", "سلا",
		},
		international: []string{
			"باريس", "لندن", "مدريد", "دبي", "القاهرة", "تونس",
			"إسطنبول", "روما", "برلين", "أمستردام", "بروكسل", "نيويورك",
			"تورنتو", "مونتريال", "جنيف", "زيوريخ",
		},
		aliases: map[string]string{
			"الدارالبيضاء": "الدار البيضاء",
		},
		airports: map[string]string{
			"الرباط":        "RBA",
			"الدار البيضاء": "CMN",
			"مراكش":         "RAK",
			"فاس":           "FEZ",
			"أكادير":        "AGA",
			"طنجة":          "TNG",
			"وجدة":          "OUD",
			"تطوان":         "TTU",
			"الحسيمة":       "AHU",
			"القنيطرة":      "RBA",
			"سلا":           "RBA",
			"باريس":         "CDG",
			"لندن":          "LHR",
			"مدريد":         "MAD",
			"دبي":           "DXB",
			"القاهرة":       "CAI",
			"تونس":          "TUN",
			"إسطنبول":       "IST",
			"روما":          "FCO",
			"برلين":         "BER",
			"أمستردام":      "AMS",
			"بروكسل":        "BRU",
			"نيويورك":       "JFK",
			"تورنتو":        "YYZ",
			"مونتريال":      "YUL",
			"جنيف":          "GVA",
			"زيوريخ":        "ZRH",
		},
		tiers: map[string]PriceTier{
			"دبي":      TierGulfNorthAfrica,
			"القاهرة":  TierGulfNorthAfrica,
			"تونس":     TierGulfNorthAfrica,
			"باريس":    TierEurope,
			"لندن":     TierEurope,
			"مدريد":    TierEurope,
			"أمستردام": TierEurope,
			"بروكسل":   TierEurope,
			"جنيف":     TierEurope,
			"زيوريخ":   TierEurope,
			"إسطنبول":  TierMediterranean,
			"روما":     TierMediterranean,
			"برلين":    TierMediterranean,
			"نيويورك":  TierTransatlantic,
			"تورنتو":   TierTransatlantic,
			"مونتريال": TierTransatlantic,
		},
		hotelBase: map[string]float64{
			"مراكش":         950,
			"الرباط":        850,
			"الدار البيضاء": 900,
			"فاس":           700,
			"أكادير":        800,
			"طنجة":          750,
		},
		hotels: map[string][]HotelEntry{
			"مراكش": {
				{Name: "فندق المامونية الشهير", PriceFactor: 1.26, Rating: 4.8, Features: []string{"سبا فاخر", "3 مطاعم", "حدائق تاريخية"}, Location: "وسط المدينة القديمة"},
				{Name: "فندق أطلس مراكش", PriceFactor: 0.9, Rating: 4.5, Features: []string{"مسبح", "إفطار مجاني", "واي فاي"}, Location: "المدينة الجديدة"},
			},
			"الرباط": {
				{Name: "فندق تور حسان", PriceFactor: 1.06, Rating: 4.6, Features: []string{"إطلالة على البحر", "مطعم راقي"}, Location: "قرب صومعة حسان"},
				{Name: "فندق هيلتون الرباط", PriceFactor: 1.3, Rating: 4.7, Features: []string{"مركز أعمال", "نادي رياضي"}, Location: "وسط المدينة"},
			},
			"الدار البيضاء": {
				{Name: "فندق حياة ريجنسي", PriceFactor: 1.2, Rating: 4.6, Features: []string{"مسبح", "إطلالة على ساحة الأمم المتحدة"}, Location: "وسط المدينة"},
				{Name: "فندق كنزي تاور", PriceFactor: 1.0, Rating: 4.4, Features: []string{"مركز تسوق قريب", "واي فاي"}, Location: "شارع الزرقطوني"},
			},
			"فاس": {
				{Name: "فندق رياض فاس", PriceFactor: 1.3, Rating: 4.7, Features: []string{"فناء تقليدي", "سبا"}, Location: "المدينة القديمة"},
				{Name: "فندق المرينيين", PriceFactor: 1.0, Rating: 4.3, Features: []string{"إطلالة بانورامية", "مسبح"}, Location: "قرب قبور المرينيين"},
			},
		},
	}
	return c
}

// genericHotels is the template used for cities without a dedicated catalog
var genericHotels = []HotelEntry{
	{Name: "فندق الأطلس الكبير", PriceFactor: 1.23, Rating: 4.5, Features: []string{"مسبح", "إفطار مجاني", "واي فاي"}, Location: "وسط المدينة"},
	{Name: "فندق النخيل الذهبي", PriceFactor: 1.0, Rating: 4.2, Features: []string{"موقع ممتاز", "خدمة 24/7"}, Location: "قرب المعالم السياحية"},
}

// DomesticCities returns the supported Moroccan cities
func (c *Catalog) DomesticCities() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append([]string(nil), c.domestic...)
}

// InternationalDestinations returns the supported foreign destinations
func (c *Catalog) InternationalDestinations() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append([]string(nil), c.international...)
}

// MatchDomestic finds the first domestic city contained in text
func (c *Catalog) MatchDomestic(text string) (string, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	city, ok := utils.FirstContained(text, c.domestic)
	if !ok {
		return "", false
	}
	return c.canonical(city), true
}

// MatchDestination finds the first international destination, then the
// first domestic city, contained in text
func (c *Catalog) MatchDestination(text string) (string, bool) {
	c.mu.RLock()
	if city, ok := utils.FirstContained(text, c.international); ok {
		c.mu.RUnlock()
		return city, true
	}
	c.mu.RUnlock()
	return c.MatchDomestic(text)
}

// IsDomestic reports whether city is a supported Moroccan city
func (c *Catalog) IsDomestic(city string) bool {
	_, ok := c.MatchDomestic(city)
	return ok
}

// AirportCode maps a city to its IATA code, defaulting to CMN
func (c *Catalog) AirportCode(city string) string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if code, ok := c.airports[c.canonical(strings.TrimSpace(city))]; ok {
		return code
	}
	for name, code := range c.airports {
		if utils.ContainsFold(city, name) {
			return code
		}
	}
	return DefaultAirportCode
}

// Tier returns the price tier of a destination. Domestic cities are always
// TierDomestic; unknown destinations are priced as Europe.
func (c *Catalog) Tier(destination string) PriceTier {
	if c.IsDomestic(destination) {
		return TierDomestic
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	if tier, ok := c.tiers[strings.TrimSpace(destination)]; ok {
		return tier
	}
	for name, tier := range c.tiers {
		if utils.ContainsFold(destination, name) {
			return tier
		}
	}
	return TierEurope
}

// HotelBasePrice returns the per-night base price for a 3-star hotel in city
func (c *Catalog) HotelBasePrice(city string) float64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if key, ok := c.lookupKey(city, c.hotelBaseKeys()); ok {
		return c.hotelBase[key]
	}
	return DefaultHotelBasePrice
}

// Hotels returns the two catalog hotels for city, or the generic template
func (c *Catalog) Hotels(city string) []HotelEntry {
	c.mu.RLock()
	defer c.mu.RUnlock()
	keys := make([]string, 0, len(c.hotels))
	for k := range c.hotels {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	if key, ok := c.lookupKey(city, keys); ok {
		return c.hotels[key]
	}
	return genericHotels
}

// ApplyCities overlays city records loaded from the reference database
func (c *Catalog) ApplyCities(records []model.CityRecord) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, r := range records {
		name := strings.TrimSpace(r.Name)
		if name == "" {
			continue
		}
		if r.Domestic {
			c.domestic = appendUnique(c.domestic, name)
		} else {
			c.international = appendUnique(c.international, name)
		}
		if r.AirportCode != nil && *r.AirportCode != "" {
			c.airports[name] = strings.ToUpper(*r.AirportCode)
		}
		if r.PriceTier != nil && *r.PriceTier >= int(TierDomestic) && *r.PriceTier <= int(TierTransatlantic) {
			c.tiers[name] = PriceTier(*r.PriceTier)
		}
		if r.HotelBasePrice != nil && *r.HotelBasePrice > 0 {
			c.hotelBase[name] = *r.HotelBasePrice
		}
	}
}

// ApplyHotels replaces per-city catalogs with database records. A city is
// only replaced when it has at least two records.
func (c *Catalog) ApplyHotels(records []model.HotelRecord) {
	byCity := make(map[string][]model.HotelRecord)
	for _, r := range records {
		if strings.TrimSpace(r.City) == "" || strings.TrimSpace(r.Name) == "" {
			continue
		}
		byCity[r.City] = append(byCity[r.City], r)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	for city, rs := range byCity {
		if len(rs) < model.MaxOffers {
			continue
		}
		sort.SliceStable(rs, func(i, j int) bool { return rs[i].Position < rs[j].Position })
		entries := make([]HotelEntry, 0, model.MaxOffers)
		for _, r := range rs[:model.MaxOffers] {
			factor := r.PriceFactor
			if factor <= 0 {
				factor = 1
			}
			entries = append(entries, HotelEntry{
				Name:        r.Name,
				PriceFactor: factor,
				Rating:      r.Rating,
				Features:    []string(r.Features),
				Location:    r.Location,
			})
		}
		c.hotels[city] = entries
	}
}

// canonical resolves spelling aliases; callers hold the lock
func (c *Catalog) canonical(city string) string {
	if alias, ok := c.aliases[city]; ok {
		return alias
	}
	return city
}

// lookupKey finds the key matching city exactly, or contained in it;
// callers hold the lock
func (c *Catalog) lookupKey(city string, keys []string) (string, bool) {
	name := c.canonical(strings.TrimSpace(city))
	for _, k := range keys {
		if k == name {
			return k, true
		}
	}
	for _, k := range keys {
		if utils.ContainsFold(name, k) {
			return k, true
		}
	}
	return "", false
}

func (c *Catalog) hotelBaseKeys() []string {
	keys := make([]string, 0, len(c.hotelBase))
	for k := range c.hotelBase {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func appendUnique(list []string, value string) []string {
	for _, v := range list {
		if v == value {
			return list
		}
	}
	return append(list, value)
}
