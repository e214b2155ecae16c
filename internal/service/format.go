package service

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"travelbot/internal/model"
)

// User-facing texts that do not depend on search results
const (
	MsgNeedFlightCities = "عذراً، أحتاج إلى معرفة مدينة المغادرة والوجهة أولاً."
	MsgNeedHotelCity    = "أحتاج إلى معرفة المدينة أولاً. في أي مدينة تريد الإقامة؟"
	MsgNeedHotelCat     = "أحتاج إلى معرفة فئة الفندق. كم نجمة تريد؟ (3، 4، 5 نجوم)"
	MsgNeedGuests       = "أحتاج إلى معرفة عدد الأشخاص. كم شخص؟"

	MsgOptionUnclear = "لم أتمكن من فهم اختيارك بوضوح.\n" +
		"يرجى قول 'الخيار الأول' أو 'الخيار الثاني'"
	MsgNoSearchYet = "🔍 لم أعرض عليك أي خيارات بعد.\n" +
		"قل 'أريد حجز رحلة' أو 'أريد حجز فندق' لنبدأ البحث معاً."
	MsgNothingSelected = "يبدو أنك تريد التأكيد، لكن لم تختر خياراً بعد.\n" +
		"دعني أكمل مساعدتك في الحجز أولاً!"

	MsgCancelled = "❌ تم إلغاء الحجز الحالي ومسح جميع التفاصيل.\n\n" +
		"💡 يمكنك بدء حجز جديد في أي وقت:\n" +
		"   ✈️ قل 'أريد حجز رحلة طيران'\n" +
		"   🏨 قل 'أريد حجز فندق'"

	MsgStatusNeedsRoute = "✈️ لمعرفة حالة الرحلات أخبرني بمدينة المغادرة والوجهة.\n" +
		"مثال: حالة الرحلات من الرباط إلى باريس"

	MsgRestart = "🔄 تم إعادة تشغيل النظام بنجاح!\n\n" +
		"🌟 مرحباً بك مجدداً في وكالة السفر الذكية!\n\n" +
		"💡 كيف يمكنني مساعدتك اليوم؟\n" +
		"   ✈️ حجز رحلة طيران\n" +
		"   🏨 حجز فندق\n" +
		"   🎯 تخطيط رحلة"
)

const (
	resultsRule = 40
	receiptRule = 50
)

var optionLabels = []string{"الخيار الأول", "الخيار الثاني"}

// OptionLabel returns the spoken name of a 1-based option
func OptionLabel(option int) string {
	if option < 1 || option > len(optionLabels) {
		return "الخيار " + strconv.Itoa(option)
	}
	return optionLabels[option-1]
}

// FormatPrice renders an amount with thousands separators, e.g. 3,500
func FormatPrice(amount float64) string {
	n := int64(math.Round(amount))
	sign := ""
	if n < 0 {
		sign = "-"
		n = -n
	}

	digits := strconv.FormatInt(n, 10)
	var b strings.Builder
	for i, d := range digits {
		if i > 0 && (len(digits)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(d)
	}
	return sign + b.String()
}

// FormatDuration renders minutes as hours and minutes in Arabic
func FormatDuration(minutes int) string {
	h, m := minutes/60, minutes%60
	switch {
	case h == 0:
		return fmt.Sprintf("%d دقيقة", m)
	case m == 0:
		return fmt.Sprintf("%d س", h)
	default:
		return fmt.Sprintf("%d س %d د", h, m)
	}
}

func stopsLabel(stops int) string {
	switch stops {
	case 0:
		return "مباشرة"
	case 1:
		return "توقف واحد"
	default:
		return fmt.Sprintf("%d توقفات", stops)
	}
}

func priceText(o model.Offer, currency string) string {
	if currency == "" {
		currency = model.DisplayCurrency
	}
	return FormatPrice(o.Price) + " " + currency + o.PriceUnit
}

func rule(n int) string {
	return strings.Repeat("=", n)
}

// FormatFlightResults renders the flight offers block
func FormatFlightResults(criteria model.FlightCriteria, result model.FormattedResult) string {
	var b strings.Builder

	fmt.Fprintf(&b, "🛫 تم العثور على رحلات من %s إلى %s\n", criteria.Origin, criteria.Destination)
	if criteria.DateText != "" {
		fmt.Fprintf(&b, "📅 تاريخ السفر: %s\n", criteria.DateText)
	}
	if criteria.Class != "" {
		fmt.Fprintf(&b, "💺 الدرجة: %s\n", criteria.Class)
	}
	b.WriteString("\n" + rule(resultsRule) + "\n\n")

	for i, o := range result.Offers {
		fmt.Fprintf(&b, "✈️ **%s: %s**\n", OptionLabel(i+1), o.Name)
		if o.FlightNumber != "" {
			fmt.Fprintf(&b, "   🔢 رقم الرحلة: %s\n", o.FlightNumber)
		}
		fmt.Fprintf(&b, "   🕐 المغادرة: %s - الوصول: %s\n", o.Departure, o.Arrival)
		if o.DurationMinutes > 0 {
			fmt.Fprintf(&b, "   ⏱️ المدة: %s (%s)\n", FormatDuration(o.DurationMinutes), stopsLabel(o.Stops))
		}
		fmt.Fprintf(&b, "   💰 السعر: %s\n", priceText(o, result.Currency))
		if o.Rating > 0 {
			fmt.Fprintf(&b, "   ⭐ التقييم: %.1f/5\n", o.Rating)
		}
		if len(o.Features) > 0 {
			fmt.Fprintf(&b, "   🎯 المميزات: %s\n", strings.Join(o.Features, "، "))
		}
		b.WriteString("\n")
	}

	if result.Source == model.SourceFallback {
		b.WriteString("ℹ️ الأسعار تقديرية وقد تتغير عند الحجز\n\n")
	}
	b.WriteString("🔹 أي خيار تفضل؟ قل **'الخيار الأول'** أو **'الخيار الثاني'**")

	return b.String()
}

// FormatHotelResults renders the hotel offers block
func FormatHotelResults(criteria model.HotelCriteria, result model.FormattedResult) string {
	var b strings.Builder

	fmt.Fprintf(&b, "🏨 تم العثور على فنادق مميزة في %s\n", criteria.City)
	fmt.Fprintf(&b, "⭐ الفئة: %s\n", criteria.Category)
	fmt.Fprintf(&b, "👥 عدد الأشخاص: %d\n", criteria.Guests)
	if criteria.District != "" {
		fmt.Fprintf(&b, "📍 المنطقة المفضلة: %s\n", criteria.District)
	}
	b.WriteString("\n" + rule(resultsRule) + "\n\n")

	for i, o := range result.Offers {
		fmt.Fprintf(&b, "🏨 **%s: %s**\n", OptionLabel(i+1), o.Name)
		fmt.Fprintf(&b, "   💰 السعر: %s\n", priceText(o, result.Currency))
		if o.Rating > 0 {
			fmt.Fprintf(&b, "   ⭐ التقييم: %.1f/5\n", o.Rating)
		}
		if len(o.Features) > 0 {
			fmt.Fprintf(&b, "   🎯 المميزات: %s\n", strings.Join(o.Features, "، "))
		}
		if o.Location != "" {
			fmt.Fprintf(&b, "   📍 الموقع: %s\n", o.Location)
		}
		b.WriteString("\n")
	}

	if result.Source == model.SourceFallback {
		b.WriteString("ℹ️ الأسعار تقديرية وقد تتغير عند الحجز\n\n")
	}
	b.WriteString("🔹 أي فندق تفضل؟ قل **'الخيار الأول'** أو **'الخيار الثاني'**")

	return b.String()
}

// FormatOptionOutOfRange asks again when the option exceeds the offers shown
func FormatOptionOutOfRange(available int) string {
	return fmt.Sprintf("⚠️ هذا الخيار غير متاح، عرضت عليك %d من الخيارات فقط.\n", available) +
		"يرجى قول 'الخيار الأول' أو 'الخيار الثاني'"
}

// FormatSelection confirms the chosen option and asks to confirm or change
func FormatSelection(option int, offer model.Offer) string {
	var b strings.Builder

	fmt.Fprintf(&b, "✅ ممتاز! لقد اخترت **%s**\n\n", OptionLabel(option))

	switch offer.Kind {
	case model.OfferFlight:
		fmt.Fprintf(&b, "🛫 رحلة %s\n", offer.Name)
	default:
		fmt.Fprintf(&b, "🏨 %s\n", offer.Name)
	}
	fmt.Fprintf(&b, "💰 السعر: %s\n", priceText(offer, model.DisplayCurrency))

	b.WriteString("\n🤝 هل تريد المتابعة مع هذا الاختيار؟\n")
	b.WriteString("• قل **'نعم'** أو **'أؤكد'** للمتابعة\n")
	b.WriteString("• قل **'لا'** أو **'غير'** للتغيير")

	return b.String()
}

// FlightBooking is the flight half of a receipt
type FlightBooking struct {
	Origin      string
	Destination string
	Date        string
	Class       string
	Offer       model.Offer
}

// HotelBooking is the hotel half of a receipt
type HotelBooking struct {
	City     string
	Category string
	Guests   string
	District string
	Offer    model.Offer
}

// Receipt is everything printed on confirmation
type Receipt struct {
	Reference string
	Flight    *FlightBooking
	Hotel     *HotelBooking
}

// FormatReceipt renders the confirmation message
func FormatReceipt(r Receipt) string {
	var b strings.Builder

	b.WriteString("🎉 **تهانينا! تم تأكيد حجزك بنجاح!** 🎉\n\n")
	b.WriteString(rule(receiptRule) + "\n")
	b.WriteString("📋 **تفاصيل حجزك:**\n")
	b.WriteString(rule(receiptRule) + "\n\n")
	fmt.Fprintf(&b, "🔖 رقم الحجز: **%s**\n\n", r.Reference)

	if f := r.Flight; f != nil {
		b.WriteString("✈️ **رحلة الطيران:**\n")
		fmt.Fprintf(&b, "   📍 من: %s\n", f.Origin)
		fmt.Fprintf(&b, "   📍 إلى: %s\n", f.Destination)
		if f.Date != "" {
			fmt.Fprintf(&b, "   📅 تاريخ السفر: %s\n", f.Date)
		}
		if f.Class != "" {
			fmt.Fprintf(&b, "   💺 الدرجة: %s\n", f.Class)
		}
		fmt.Fprintf(&b, "   🛫 الناقل: %s\n", f.Offer.Name)
		if f.Offer.FlightNumber != "" {
			fmt.Fprintf(&b, "   🔢 رقم الرحلة: %s\n", f.Offer.FlightNumber)
		}
		fmt.Fprintf(&b, "   💰 السعر: %s\n", priceText(f.Offer, model.DisplayCurrency))
		fmt.Fprintf(&b, "   🕐 التوقيت: %s - %s\n\n", f.Offer.Departure, f.Offer.Arrival)
	}

	if h := r.Hotel; h != nil {
		b.WriteString("🏨 **حجز الفندق:**\n")
		fmt.Fprintf(&b, "   📍 المدينة: %s\n", h.City)
		if h.District != "" {
			fmt.Fprintf(&b, "   🗺️ المنطقة: %s\n", h.District)
		}
		if h.Category != "" {
			fmt.Fprintf(&b, "   ⭐ الفئة: %s\n", h.Category)
		}
		if h.Guests != "" {
			fmt.Fprintf(&b, "   👥 عدد الأشخاص: %s\n", h.Guests)
		}
		fmt.Fprintf(&b, "   🏨 الفندق: %s\n", h.Offer.Name)
		fmt.Fprintf(&b, "   💰 السعر: %s\n\n", priceText(h.Offer, model.DisplayCurrency))
	}

	b.WriteString(rule(receiptRule) + "\n")
	b.WriteString("📧 **ستصلك تفاصيل الحجز عبر البريد الإلكتروني خلال 10 دقائق**\n\n")
	b.WriteString("📱 **خدمة العملاء:**\n")
	b.WriteString("   📞 الهاتف: +212-5XX-XXXXXX\n")
	b.WriteString("   💬 واتساب: +212-6XX-XXXXXX\n")
	b.WriteString("   ⏰ متاح 24/7\n\n")
	b.WriteString("🎯 **نصائح مهمة:**\n")
	b.WriteString("   • احتفظ برقم الحجز للمراجعة\n")
	b.WriteString("   • تأكد من صحة جواز السفر (للطيران الدولي)\n")
	b.WriteString("   • اوصل للمطار قبل 3 ساعات (دولي) أو 2 ساعة (محلي)\n")
	b.WriteString("   • تحقق من شروط الإلغاء والتعديل\n\n")
	b.WriteString("🔄 **لحجز جديد، قل 'مرحبا' أو اضغط إعادة التشغيل**\n\n")
	b.WriteString("🌟 **شكراً لثقتك بوكالة السفر الذكية!**\n")
	b.WriteString("✈️🏨 نتمنى لك رحلة سعيدة وإقامة ممتعة! ✨")

	return b.String()
}

// FormatChangeMenu lists what the user can change for the active booking
func FormatChangeMenu(isFlight, isHotel bool) string {
	var b strings.Builder

	b.WriteString("🔄 **لا مشكلة! يمكنك تغيير أي شيء تريده**\n\n")

	if isFlight {
		b.WriteString("✈️ **للرحلات الجوية، يمكنك تغيير:**\n")
		b.WriteString("   📍 مدينة المغادرة - قل 'غير المغادرة'\n")
		b.WriteString("   📍 مدينة الوجهة - قل 'غير الوجهة'\n")
		b.WriteString("   📅 تاريخ السفر - قل 'غير التاريخ'\n")
		b.WriteString("   💺 درجة السفر - قل 'غير الدرجة'\n\n")
	}
	if isHotel {
		b.WriteString("🏨 **للفنادق، يمكنك تغيير:**\n")
		b.WriteString("   📍 المدينة - قل 'غير المدينة'\n")
		b.WriteString("   ⭐ فئة الفندق - قل 'غير الفئة'\n")
		b.WriteString("   👥 عدد الأشخاص - قل 'غير العدد'\n\n")
	}
	if !isFlight && !isHotel {
		b.WriteString("🎯 **يمكنك بدء حجز جديد:**\n")
		b.WriteString("   ✈️ قل 'أريد حجز رحلة طيران'\n")
		b.WriteString("   🏨 قل 'أريد حجز فندق'\n\n")
	}

	b.WriteString("💡 **أو أخبرني مباشرة بما تريد تعديله**")
	return b.String()
}

// FormatStatusReport renders live flight status for a route
func FormatStatusReport(report *model.StatusReport) string {
	var b strings.Builder

	fmt.Fprintf(&b, "📡 حالة الرحلات من %s إلى %s:\n\n", report.Origin, report.Destination)
	for _, f := range report.Flights {
		fmt.Fprintf(&b, "✈️ **%s %s**\n", f.Airline, f.FlightNumber)
		fmt.Fprintf(&b, "   📌 الحالة: %s\n", f.Status)
		if f.Departure != "" || f.Arrival != "" {
			fmt.Fprintf(&b, "   🕐 المغادرة: %s - الوصول: %s\n", f.Departure, f.Arrival)
		}
		if f.DelayMinutes > 0 {
			fmt.Fprintf(&b, "   ⏳ التأخير: %d دقيقة\n", f.DelayMinutes)
		}
		b.WriteString("\n")
	}
	b.WriteString("🔹 هل تريد حجز رحلة على هذا المسار؟ قل 'أريد حجز رحلة'")

	return b.String()
}

// FormatStatusUnavailable apologizes when no status data exists
func FormatStatusUnavailable(origin, destination string) string {
	return fmt.Sprintf("😔 عذراً، لا تتوفر حالياً معلومات عن حالة الرحلات من %s إلى %s.\n", origin, destination) +
		"💡 يمكنني البحث لك عن رحلات متاحة بدلاً من ذلك، قل 'أريد حجز رحلة'"
}

// fallbackPrompts holds re-prompts keyed by form and requested slot
var fallbackPrompts = map[string]map[string]string{
	model.FlightForm: {
		model.SlotDepartureCity: "🤔 لم أفهم المدينة. من أي مدينة تريد السفر؟\n" +
			"المدن المتاحة: الرباط، الدار البيضاء، مراكش، فاس، أكادير، طنجة",
		model.SlotDestinationCity: "🤔 لم أفهم الوجهة. إلى أي مدينة تريد السفر؟\n" +
			"مثال: باريس، لندن، مدريد، دبي",
		model.SlotDepartureDate: "🤔 لم أفهم التاريخ. متى تريد السفر؟\n" +
			"مثال: 15 مايو، غداً، الأسبوع القادم",
		model.SlotTravelClass: "🤔 لم أفهم الدرجة. أي درجة تفضل؟\n" +
			"الخيارات: اقتصادية، أعمال، أولى",
		"": "🤔 لم أفهم ردك. يمكنني مساعدتك في حجز رحلة طيران.",
	},
	model.HotelForm: {
		model.SlotHotelCity: "🤔 لم أفهم المدينة. في أي مدينة تريد الإقامة؟\n" +
			"المدن المتاحة: الرباط، الدار البيضاء، مراكش، فاس، أكادير، طنجة",
		model.SlotHotelCategory: "🤔 لم أفهم فئة الفندق. كم نجمة تريد؟\n" +
			"الخيارات: 3 نجوم، 4 نجوم، 5 نجوم",
		model.SlotGuestCount: "🤔 لم أفهم العدد. كم عدد الأشخاص؟\n" +
			"مثال: شخصين، 4 أشخاص",
		model.SlotDistrict: "🤔 لم أفهم المنطقة. في أي حي تفضل الإقامة؟\n" +
			"يمكنك أيضاً قول 'لا يهم'",
		"": "🤔 لم أفهم ردك. يمكنني مساعدتك في حجز فندق.",
	},
}

// msgGenericFallback is the capability menu used outside any form
const msgGenericFallback = "🤔 عذراً، لم أتمكن من فهم طلبك بوضوح.\n\n" +
	"💡 **يمكنني مساعدتك في:**\n" +
	"   ✈️ حجز رحلات طيران - قل 'أريد حجز رحلة'\n" +
	"   🏨 حجز فنادق - قل 'أريد حجز فندق'\n" +
	"   📡 معرفة حالة الرحلات - قل 'حالة الرحلات من الرباط إلى باريس'\n" +
	"   ❓ الحصول على مساعدة - قل 'مساعدة'\n\n" +
	"🗣️ **أو اكتب ما تريده بكلمات بسيطة**"

// FallbackPrompt picks the re-prompt for the active form and requested slot
func FallbackPrompt(activeForm, requestedSlot string) string {
	prompts, ok := fallbackPrompts[activeForm]
	if !ok {
		return msgGenericFallback
	}
	if msg, ok := prompts[requestedSlot]; ok {
		return msg
	}
	return prompts[""]
}
