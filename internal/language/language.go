// Package language detects the language of a message, pulls search fields out
// of free text and holds the canned replies for every supported language.
package language

import (
	"fmt"
	"regexp"
	"strings"
)

type Language int

const (
	French Language = iota
	English
	Arabic
	Darija // Moroccan Arabic written in Latin script
	count
)

var codes = [count]string{"fr", "en", "ar", "da"}

// All lists the supported languages in table order.
func All() []Language { return []Language{French, English, Arabic, Darija} }

func (l Language) Code() string {
	if l < 0 || l >= count {
		return "unknown"
	}
	return codes[l]
}

func (l Language) String() string { return l.Code() }

func Parse(code string) (Language, bool) {
	code = strings.ToLower(strings.TrimSpace(code))
	for i, c := range codes {
		if c == code {
			return Language(i), true
		}
	}
	return French, false
}

func (l Language) MarshalText() ([]byte, error) { return []byte(l.Code()), nil }

func (l *Language) UnmarshalText(b []byte) error {
	v, ok := Parse(string(b))
	if !ok {
		return fmt.Errorf("unknown language %q", string(b))
	}
	*l = v
	return nil
}

// darijaKeywords must be checked before anything else: Darija is written in
// Latin script and would otherwise come out as French or English.
var darijaKeywords = []string{
	"ch7al", "wa9t", "bghit", "kanqalleb", "kan9lb", "3nd", "m3a", "dyal", "dyalk",
	"slm", "khasni", "kayn", "zwin", "zwina", "kbir", "kbira", "sghir", "sghira",
	"salam", "sabah lkhir", "labas", "ok", "wakha", "safi", "ana",
}

var (
	darijaRe = keywordRegexp(darijaKeywords)
	frenchRe = regexp.MustCompile(`\b(bonjour|salut|recherche|chambre|prix|slt|bnj|oui|je|tu|peut|jai)\b`)
)

// keywordRegexp matches any of words as a whole token, case-insensitively.
// Token edges are any non letter/digit rune, so digit-spelled words like
// "ch7al" keep working.
func keywordRegexp(words []string) *regexp.Regexp {
	quoted := make([]string, len(words))
	for i, w := range words {
		quoted[i] = regexp.QuoteMeta(w)
	}
	return regexp.MustCompile(`(?i)(?:^|[^\p{L}\p{N}])(?:` + strings.Join(quoted, "|") + `)(?:$|[^\p{L}\p{N}])`)
}

// Detect picks the language of text: Darija keyword, then Arabic script, then
// French keyword, else English.
func Detect(text string) Language {
	if darijaRe.MatchString(text) {
		return Darija
	}
	if hasArabicScript(text) {
		return Arabic
	}
	if frenchRe.MatchString(strings.ToLower(text)) {
		return French
	}
	return English
}

func hasArabicScript(s string) bool {
	for _, r := range s {
		if r >= 0x0600 && r <= 0x06FF {
			return true
		}
	}
	return false
}

var greetings = [count][]string{
	French:  {"bonjour", "salut", "bonsoir", "bnj", "oui", "ok"},
	English: {"hi", "hello", "hey", "good morning", "yes", "yeah", "ok", "okay", "sure"},
	Arabic:  {"مرحبا", "السلام عليكم", "صباح الخير", "سلام", "السلام", "حسنا", "نعم"},
	Darija:  {"salam", "slm", "sabah lkhir", "labas", "ok", "wakha", "safi"},
}

var greetingSet = func() map[string]struct{} {
	set := make(map[string]struct{}, 32)
	for _, ws := range greetings {
		for _, w := range ws {
			set[w] = struct{}{}
		}
	}
	return set
}()

// IsGreeting reports whether the whole message is a greeting word in any
// supported language. "hi there" is not a greeting.
func IsGreeting(text string) bool {
	_, ok := greetingSet[strings.ToLower(strings.TrimSpace(text))]
	return ok
}
