package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
)

type Property struct {
	ID          string        `json:"id"`
	Rooms       Number        `json:"rooms"`
	Price       Number        `json:"price"`
	Currency    string        `json:"currency"`
	City        string        `json:"city"`
	Available   bool          `json:"available"`
	Address     Localized     `json:"address"`
	Amenities   LocalizedList `json:"amenities"`
	Photos      []string      `json:"photos"`
	Description Localized     `json:"description"`
	Agent       AgentRef      `json:"agent"`
	CreatedAt   string        `json:"created_at"` // ISO-8601
}

// Number is a stored numeric field. It accepts JSON numbers and numeric strings
// ("4500", "4 500,50"). Anything else is kept verbatim and reported by Float/Int
// as ErrNotNumber, so a single bad record never breaks decoding of the file.
type Number struct {
	raw   json.RawMessage
	value float64
	ok    bool
}

func NewNumber(v float64) Number {
	return Number{raw: json.RawMessage(strconv.FormatFloat(v, 'f', -1, 64)), value: v, ok: true}
}

func (n Number) Float() (float64, error) {
	if !n.ok {
		return 0, fmt.Errorf("%w: %s", ErrNotNumber, n.String())
	}
	return n.value, nil
}

// Int returns the value when it is integral.
func (n Number) Int() (int, error) {
	f, err := n.Float()
	if err != nil {
		return 0, err
	}
	if f != math.Trunc(f) {
		return 0, fmt.Errorf("%w: %s is not an integer", ErrNotNumber, n.String())
	}
	return int(f), nil
}

// String renders the coerced value, or the stored text when it is not numeric.
func (n Number) String() string {
	if n.ok {
		return strconv.FormatFloat(n.value, 'f', -1, 64)
	}
	var s string
	if json.Unmarshal(n.raw, &s) == nil {
		return s
	}
	return string(n.raw)
}

func (n *Number) UnmarshalJSON(b []byte) error {
	n.raw = append(json.RawMessage(nil), b...)
	n.value, n.ok = coerceFloat(b)
	return nil
}

func (n Number) MarshalJSON() ([]byte, error) {
	if len(n.raw) == 0 {
		return []byte("null"), nil
	}
	return n.raw, nil
}

// coerceFloat: number from a JSON number or a string like "8,0" / "4 500".
func coerceFloat(b []byte) (float64, bool) {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		return 0, false
	}
	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return 0, false
		}
		s = strings.ReplaceAll(strings.TrimSpace(s), ",", ".")
		s = strings.ReplaceAll(s, " ", "")
		if s == "" {
			return 0, false
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
			return 0, false
		}
		return f, true
	}
	f, err := strconv.ParseFloat(string(b), 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

// AgentRef is the listing agent, stored either as a number or a string.
type AgentRef struct{ raw json.RawMessage }

func NewAgentRef(v any) AgentRef {
	b, err := json.Marshal(v)
	if err != nil {
		return AgentRef{}
	}
	return AgentRef{raw: b}
}

func (a AgentRef) String() string {
	if len(a.raw) == 0 || bytes.Equal(a.raw, []byte("null")) {
		return ""
	}
	var s string
	if json.Unmarshal(a.raw, &s) == nil {
		return s
	}
	return string(a.raw)
}

func (a *AgentRef) UnmarshalJSON(b []byte) error {
	a.raw = append(json.RawMessage(nil), b...)
	return nil
}

func (a AgentRef) MarshalJSON() ([]byte, error) {
	if len(a.raw) == 0 {
		return []byte("null"), nil
	}
	return a.raw, nil
}

// Localized maps a language code (fr, en, ar, da) to text.
type Localized map[string]string

// For returns the text for lang, falling back to en, fr, then any entry.
func (l Localized) For(lang string) string {
	for _, k := range []string{lang, "en", "fr"} {
		if v, ok := l[k]; ok && v != "" {
			return v
		}
	}
	for _, k := range sortedKeys(l) {
		if l[k] != "" {
			return l[k]
		}
	}
	return ""
}

type LocalizedList map[string][]string

func (l LocalizedList) For(lang string) []string {
	for _, k := range []string{lang, "en", "fr"} {
		if v, ok := l[k]; ok && len(v) > 0 {
			return v
		}
	}
	for _, k := range sortedKeys(l) {
		if len(l[k]) > 0 {
			return l[k]
		}
	}
	return nil
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
