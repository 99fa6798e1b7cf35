package language

import (
	"regexp"
	"strconv"
	"strings"
)

var roomPatterns = [count]*regexp.Regexp{
	French:  regexp.MustCompile(`(\d+)\s*(chambre?|chambres?|pièces?)`),
	English: regexp.MustCompile(`(\d+)\s*(for|rooms?|bedrooms?|bedroom?|room?|pieces?)`),
	Arabic:  regexp.MustCompile(`(\d+)\s*(غرف|غرفة)`),
	Darija:  regexp.MustCompile(`(\d+)\s*(bit|biyout|byout|byot|chombrat|chambre|غرفة)`),
}

var budgetPattern = regexp.MustCompile(`(\d+)\s*(dollars?|dirhams?|dh|derham|drahm|usd|\$|درهم|دولار)`)

// The preposition has to start the message or follow a separator, otherwise
// "ana f casa" would read the "a" of "ana" as a preposition. Only Latin
// letters are captured: Arabic-script city names are not recognised.
var cityPattern = regexp.MustCompile(`(?:^|[\s,.;:!?'"(])(?:in|at|a|à|for|dans|fi|fmdint|fmdinat|f|في|فى|ف)\s+([A-Za-z]+)`)

// ExtractRoomCount returns the number in front of a room noun, e.g. "2 chambres".
func ExtractRoomCount(text string, lang Language) (int, bool) {
	if lang < 0 || lang >= count {
		return 0, false
	}
	return leadingInt(roomPatterns[lang], text)
}

// ExtractBudget returns the amount in front of a currency word or symbol,
// whatever the conversation language: "1500dh", "800 $", "3000 درهم".
func ExtractBudget(text string) (int, bool) {
	return leadingInt(budgetPattern, text)
}

// ExtractCity returns the lower-cased word following a preposition such as
// "à", "in", "dans" or "f".
func ExtractCity(text string, _ Language) (string, bool) {
	m := cityPattern.FindStringSubmatch(strings.ToLower(text))
	if m == nil {
		return "", false
	}
	city := strings.TrimSpace(m[1])
	return city, city != ""
}

func leadingInt(re *regexp.Regexp, text string) (int, bool) {
	m := re.FindStringSubmatch(strings.ToLower(text))
	if m == nil {
		return 0, false
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, false
	}
	return n, true
}
