package language

import (
	"errors"
	"fmt"
)

// ErrMissingTemplate signals a hole in the template table. It is a programming
// error, never a user-facing condition.
var ErrMissingTemplate = errors.New("missing template")

type Key int

const (
	Greeting Key = iota
	ClarifyRooms
	AskBudget
	ClarifyBudget
	AskCity
	ClarifyCity
	NoResults
	Error
	ResultsHeader // takes the number of matches
	ResultsFooter
	keyCount
)

var keyNames = [keyCount]string{
	"greeting", "clarify_rooms", "ask_budget", "clarify_budget", "ask_city",
	"clarify_city", "no_results", "error", "results_header", "results_footer",
}

func (k Key) String() string {
	if k < 0 || k >= keyCount {
		return fmt.Sprintf("key(%d)", int(k))
	}
	return keyNames[k]
}

// Keys lists every template key.
func Keys() []Key {
	out := make([]Key, 0, keyCount)
	for k := Key(0); k < keyCount; k++ {
		out = append(out, k)
	}
	return out
}

// texts holds one template in every language. Literals are positional so a
// missing translation does not compile.
type texts struct{ fr, en, ar, da string }

func (t texts) in(l Language) string {
	switch l {
	case French:
		return t.fr
	case English:
		return t.en
	case Arabic:
		return t.ar
	case Darija:
		return t.da
	}
	return ""
}

var templates = [keyCount]texts{
	Greeting: {
		"Bonjour! Je suis un bot qui peut vous aider à trouver une chambre selon vos critères. Pour commencer, combien de chambres recherchez-vous?",
		"Hello! I'm a bot that can help you find a room according to your criteria. To start with, how many rooms are you looking for?",
		"مرحبا! أنا بوت يمكنني مساعدتك في العثور على غرفة وفقًا لمعاييرك. للبدء، كم عدد الغرف التي تبحث عنها؟",
		"salam m3ak immobot ana n9der n3awnek tl9a dar ila knti baghi tkri. bach nbdaw golya 3afak chhal mn bit bghiti fdar?",
	},
	ClarifyRooms: {
		"Je n'ai pas compris le nombre de chambres. Veuillez indiquer un nombre (exemple: 2 chambres).",
		"I didn't understand the number of rooms. Please indicate a number (example: 2 rooms).",
		"لم أفهم عدد الغرف. يرجى تحديد عدد (مثال: 2 غرف).",
		"Mafahmtch 3afak chhal mn bit bghiti fdar. 3awd 9olya men 3afak (matalan: 2 byot).",
	},
	AskBudget: {
		"Quel est votre budget maximum (en dirham ou dollars)?",
		"What is your maximum budget (in dirhams or dollars)?",
		"ما هي ميزانيتك القصوى (بالدرهم أو الدولار)؟",
		"Ch7al 3ndek f budget dyalek (b derham wla dollar)?",
	},
	ClarifyBudget: {
		"Je n'ai pas compris le budget. Veuillez l'indiquer en dirham (exemple: 1500 dh).",
		"I didn't understand the budget. Please indicate it in dirham (example: 1500 dh).",
		"لم أفهم الميزانية. يرجى تحديدها بالدرهم (مثال: 1500 درهم).",
		"Mafahmtch lbudget li 9lti. 3awd 9olya men fadlek b derham (matalan: 1500 dh).",
	},
	AskCity: {
		"Dans quelle ville recherchez-vous?",
		"In which city are you looking?",
		"في أي مدينة تبحث؟",
		"F ina mdina katqalleb?",
	},
	ClarifyCity: {
		"Je n'ai pas compris la ville. Veuillez réessayer (exemple: à Casablanca).",
		"I didn't understand the city. Please try again (example: in Casablanca).",
		"لم أفهم المدينة. يرجى المحاولة مرة أخرى (مثال: في casablanca).",
		"Mafahmtch ina mdina 9sdti. 3awd 9olya men fadlek (matalan: f casablanca).",
	},
	NoResults: {
		"Désolé, aucun logement ne correspond à vos critères.",
		"Sorry, no accommodation matches your criteria.",
		"عذراً، لا يوجد سكن يطابق معاييرك.",
		"Smeh liya, mal9ina 7ta chi dar kifma bghiti.",
	},
	Error: {
		"Une erreur s'est produite. Veuillez réessayer.",
		"An error occurred. Please try again.",
		"حدث خطأ. يرجى المحاولة مرة أخرى.",
		"Kayn chi mochkil. 3awd men fadlek.",
	},
	ResultsHeader: {
		"J'ai trouvé %d logement(s) qui correspondent à vos critères:",
		"I found %d place(s) matching your criteria:",
		"وجدت %d سكن(ات) تطابق معاييرك:",
		"l9it lik %d dar(at) kifma bghiti:",
	},
	ResultsFooter: {
		"Pour lancer une nouvelle recherche, dites simplement bonjour.",
		"To start a new search, just say hi.",
		"لبدء بحث جديد، قل مرحبا.",
		"Ila bghiti t9alleb mn jdid, golya salam.",
	},
}

// Lookup returns the template for (k, l) or ErrMissingTemplate.
func Lookup(k Key, l Language) (string, error) {
	if k < 0 || k >= keyCount {
		return "", fmt.Errorf("%w: %s/%s", ErrMissingTemplate, k, l)
	}
	s := templates[k].in(l)
	if s == "" {
		return "", fmt.Errorf("%w: %s/%s", ErrMissingTemplate, k, l)
	}
	return s, nil
}

// Message is Lookup for callers that treat a missing template as a bug.
func Message(k Key, l Language) string {
	s, err := Lookup(k, l)
	if err != nil {
		panic(err)
	}
	return s
}
