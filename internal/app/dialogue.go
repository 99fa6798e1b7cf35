package app

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"

	"immobot/internal/adapters/observability"
	"immobot/internal/domain"
	"immobot/internal/language"
)

type State string

const (
	StateGreeting  State = "GREETING"
	StateAskRooms  State = "ASK_ROOMS"
	StateAskBudget State = "ASK_BUDGET"
	StateAskCity   State = "ASK_CITY"
)

func (s State) valid() bool {
	switch s {
	case StateGreeting, StateAskRooms, StateAskBudget, StateAskCity:
		return true
	}
	return false
}

// Finder is the query side of the property store.
type Finder interface {
	Find(ctx context.Context, c domain.Criteria) ([]domain.Property, error)
}

// Snapshot is the resumable part of a conversation.
type Snapshot struct {
	State    State             `json:"state"`
	Language language.Language `json:"language"`
	Criteria domain.Criteria   `json:"criteria"`
}

// Engine drives a single conversation: greeting, rooms, budget, city, then
// search. It is not safe for concurrent use; Sessions serializes access.
type Engine struct {
	finder   Finder
	state    State
	lang     language.Language
	criteria domain.Criteria
}

func NewEngine(f Finder) *Engine {
	return &Engine{finder: f, state: StateGreeting, lang: language.French}
}

func (e *Engine) State() State                { return e.state }
func (e *Engine) Language() language.Language { return e.lang }

// Criteria returns a deep copy of the criteria collected so far.
func (e *Engine) Criteria() domain.Criteria {
	return e.criteria.Clone()
}

func (e *Engine) Snapshot() Snapshot {
	return Snapshot{State: e.state, Language: e.lang, Criteria: e.Criteria()}
}

// Restore resumes a conversation. An unknown state starts over.
func (e *Engine) Restore(s Snapshot) {
	if !s.State.valid() {
		e.reset()
		return
	}
	e.state = s.State
	e.lang = s.Language
	e.criteria = s.Criteria
}

var darijaFallback = strings.NewReplacer("Error", "Mochkil 🤔", "Sorry", "Smeh liya 😕")

// ProcessMessage handles one inbound message and returns the reply. Failures
// never escape: they are logged and answered with the localized error
// message, leaving the conversation where it was.
func (e *Engine) ProcessMessage(ctx context.Context, text string) (reply string) {
	if e.state == StateGreeting {
		e.lang = language.Detect(text)
	}
	from, before := e.state, e.criteria

	defer func() {
		if r := recover(); r != nil {
			log.Error().Interface("panic", r).Str("state", string(from)).Msg("dialogue handler panicked")
			e.state, e.criteria = from, before
			reply = language.Message(language.Error, e.lang)
		}
		if e.lang == language.Darija {
			reply = darijaFallback.Replace(reply)
		}
		observability.ObserveDialogue(string(from), string(e.state), e.lang.Code())
	}()

	reply, err := e.handle(ctx, text)
	if err != nil {
		log.Error().Err(err).Str("state", string(from)).Str("lang", e.lang.Code()).Msg("dialogue handling failed")
		e.state, e.criteria = from, before
		return language.Message(language.Error, e.lang)
	}
	return reply
}

func (e *Engine) handle(ctx context.Context, text string) (string, error) {
	switch e.state {
	case StateGreeting:
		return e.greeting(text), nil
	case StateAskRooms:
		return e.rooms(text), nil
	case StateAskBudget:
		return e.budget(text), nil
	case StateAskCity:
		return e.city(ctx, text)
	}
	return "", fmt.Errorf("unknown state %q", e.state)
}

// A non-greeting first message gets the room clarification on purpose: the
// user is nudged straight to the first question.
func (e *Engine) greeting(text string) string {
	if !language.IsGreeting(text) {
		return language.Message(language.ClarifyRooms, e.lang)
	}
	e.state = StateAskRooms
	return language.Message(language.Greeting, e.lang)
}

func (e *Engine) rooms(text string) string {
	n, ok := language.ExtractRoomCount(text, e.lang)
	if !ok {
		return language.Message(language.ClarifyRooms, e.lang)
	}
	e.criteria.Rooms = &n
	e.state = StateAskBudget
	return language.Message(language.AskBudget, e.lang)
}

func (e *Engine) budget(text string) string {
	n, ok := language.ExtractBudget(text)
	if !ok {
		return language.Message(language.ClarifyBudget, e.lang)
	}
	b := float64(n)
	e.criteria.Budget = &b
	e.state = StateAskCity
	return language.Message(language.AskCity, e.lang)
}

func (e *Engine) city(ctx context.Context, text string) (string, error) {
	city, ok := language.ExtractCity(text, e.lang)
	if !ok {
		return language.Message(language.ClarifyCity, e.lang), nil
	}
	e.criteria.City = &city

	results, err := e.finder.Find(ctx, e.criteria)
	if err != nil {
		observability.ObserveSearch("error")
		return "", fmt.Errorf("find properties: %w", err)
	}
	if len(results) == 0 {
		observability.ObserveSearch("empty")
	} else {
		observability.ObserveSearch("found")
	}
	log.Debug().
		Interface("criteria", e.criteria).
		Int("results", len(results)).
		Str("lang", e.lang.Code()).
		Msg("search completed")

	reply := RenderSearchResults(results, e.lang)
	e.reset()
	return reply, nil
}

func (e *Engine) reset() {
	e.state = StateGreeting
	e.criteria = domain.Criteria{}
}
