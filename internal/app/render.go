package app

import (
	"fmt"
	"strings"

	"immobot/internal/domain"
	"immobot/internal/language"
)

// layout holds the per-language labels of a listing block. Positional
// literals below so every language must fill every label.
type layout struct {
	roomsIn, address, price, amenities, description, photos, agent string
}

var layouts = map[language.Language]layout{
	language.French:  {"chambre(s) à", "Adresse", "Prix", "Équipements", "Description", "Photos", "Agent"},
	language.English: {"room(s) in", "Address", "Price", "Amenities", "Description", "Photos", "Agent"},
	language.Arabic:  {"غرف في", "العنوان", "السعر", "المرافق", "الوصف", "الصور", "الوكيل"},
	language.Darija:  {"byot f", "L3enwan", "Taman", "Chno fiha", "Wasf", "Tsawer", "Samsar"},
}

func currencySymbol(code string) string {
	if strings.EqualFold(strings.TrimSpace(code), "MAD") {
		return "DH"
	}
	return "$"
}

// RenderProperty formats one listing. Fields and their order are the same in
// every language.
func RenderProperty(p domain.Property, lang language.Language) string {
	l, ok := layouts[lang]
	if !ok {
		l = layouts[language.English]
	}
	code := lang.Code()

	var b strings.Builder
	fmt.Fprintf(&b, "🏠 %s %s %s\n", p.Rooms.String(), l.roomsIn, p.City)
	fmt.Fprintf(&b, "📍 %s: %s\n", l.address, p.Address.For(code))
	fmt.Fprintf(&b, "💰 %s: %s %s\n", l.price, p.Price.String(), currencySymbol(p.Currency))
	fmt.Fprintf(&b, "✨ %s: %s\n", l.amenities, strings.Join(p.Amenities.For(code), ", "))
	fmt.Fprintf(&b, "📝 %s: %s\n", l.description, p.Description.For(code))
	fmt.Fprintf(&b, "📸 %s: %s\n", l.photos, strings.Join(p.Photos, ", "))
	fmt.Fprintf(&b, "👤 %s: %s", l.agent, p.Agent.String())
	return b.String()
}

// RenderSearchResults builds the whole reply for a finished search.
func RenderSearchResults(ps []domain.Property, lang language.Language) string {
	if len(ps) == 0 {
		return language.Message(language.NoResults, lang)
	}
	blocks := make([]string, 0, len(ps)+2)
	blocks = append(blocks, fmt.Sprintf(language.Message(language.ResultsHeader, lang), len(ps)))
	for _, p := range ps {
		blocks = append(blocks, RenderProperty(p, lang))
	}
	blocks = append(blocks, language.Message(language.ResultsFooter, lang))
	return strings.Join(blocks, "\n\n")
}
