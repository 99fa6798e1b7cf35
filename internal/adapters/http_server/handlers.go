package httpserver

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/semaphore"

	"immobot/internal/adapters/whatsapp"
	"immobot/internal/app"
	"immobot/internal/domain"
)

type Handlers struct {
	Chat        *app.ChatService
	Store       *app.PropertyStore
	VerifyToken string // WhatsApp webhook verify token
	Workers     int    // users handled in parallel per webhook delivery
}

type problem struct {
	Type   string `json:"type"`
	Title  string `json:"title"`
	Status int    `json:"status"`
	Detail string `json:"detail,omitempty"`
}

func (s *Server) MountHandlers(h *Handlers) {
	s.mux.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200); _, _ = w.Write([]byte("ok")) })
	s.mux.Get("/webhook", h.verifyWebhook)
	s.mux.Post("/webhook", h.receiveWebhook)
	s.mux.Post("/v1/chat", h.chat)
	s.mux.Get("/v1/properties", h.listProperties)
	s.mux.Post("/v1/properties", h.addProperty)
	s.mux.Delete("/v1/properties/{id}", h.removeProperty)
}

func writeProblem(w http.ResponseWriter, status int, title, detail string) {
	w.Header().Set("Content-Type", "application/problem+json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(problem{Type: "about:blank", Title: title, Status: status, Detail: detail}); err != nil {
		log.Error().Err(err).Msg("write JSON problem response failed")
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("write JSON response failed")
	}
}

// calcETagAndBody marshals once and hashes once, returning both ETag and body.
func calcETagAndBody(v any) (string, []byte) {
	body, err := json.Marshal(v)
	if err != nil {
		log.Error().Err(err).Msg("failed to marshal object for ETag/body")
		return "", nil
	}
	sum := sha1.Sum(body)
	return `W/"` + hex.EncodeToString(sum[:]) + `"`, body
}

// verifyWebhook answers the subscription handshake Meta sends when the
// webhook URL is registered.
func (h *Handlers) verifyWebhook(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	if q.Get("hub.mode") != "subscribe" || h.VerifyToken == "" || q.Get("hub.verify_token") != h.VerifyToken {
		writeProblem(w, http.StatusForbidden, "Forbidden", "verification failed")
		return
	}
	w.Header().Set("Content-Type", "text/plain")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(q.Get("hub.challenge")))
}

// receiveWebhook runs every text message of a delivery. Messages of one user
// stay in order; different users run in parallel, bounded by Workers.
func (h *Handlers) receiveWebhook(w http.ResponseWriter, r *http.Request) {
	var payload whatsapp.Webhook
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeProblem(w, http.StatusBadRequest, "Invalid payload", "body must be a WhatsApp webhook notification")
		return
	}

	var order []string
	byUser := map[string][]whatsapp.Inbound{}
	for _, m := range payload.TextMessages() {
		if _, seen := byUser[m.From]; !seen {
			order = append(order, m.From)
		}
		byUser[m.From] = append(byUser[m.From], m)
	}

	ctx := context.WithoutCancel(r.Context())
	workers := h.Workers
	if workers <= 0 {
		workers = 1
	}
	sem := semaphore.NewWeighted(int64(workers))
	var wg sync.WaitGroup
	for _, user := range order {
		if err := sem.Acquire(ctx, 1); err != nil {
			log.Error().Err(err).Msg("semaphore acquire failed")
			break
		}
		wg.Add(1)
		go func(msgs []whatsapp.Inbound) {
			defer wg.Done()
			defer sem.Release(1)
			for _, m := range msgs {
				h.Chat.HandleDelivery(ctx, m.ID, m.From, m.Text)
			}
		}(byUser[user])
	}
	wg.Wait()

	w.WriteHeader(http.StatusOK)
}

type chatRequest struct {
	UserID string `json:"user_id"`
	Text   string `json:"text"`
}

type chatResponse struct {
	UserID string `json:"user_id"`
	Reply  string `json:"reply"`
}

// chat runs one turn and returns the reply instead of sending it.
func (h *Handlers) chat(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeProblem(w, http.StatusBadRequest, "Invalid body", "expected {\"user_id\":..., \"text\":...}")
		return
	}
	if strings.TrimSpace(req.UserID) == "" || strings.TrimSpace(req.Text) == "" {
		writeProblem(w, http.StatusBadRequest, "Invalid body", "user_id and text are required")
		return
	}
	reply := h.Chat.Reply(r.Context(), req.UserID, req.Text)
	writeJSON(w, http.StatusOK, chatResponse{UserID: req.UserID, Reply: reply})
}

func parseCriteria(r *http.Request) (domain.Criteria, error) {
	var c domain.Criteria
	q := r.URL.Query()
	if v := q.Get("rooms"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return c, errors.New("rooms must be a non-negative integer")
		}
		c.Rooms = &n
	}
	if v := q.Get("budget"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil || f < 0 {
			return c, errors.New("budget must be a non-negative number")
		}
		c.Budget = &f
	}
	if v := strings.TrimSpace(q.Get("city")); v != "" {
		c.City = &v
	}
	return c, nil
}

func (h *Handlers) listProperties(w http.ResponseWriter, r *http.Request) {
	c, err := parseCriteria(r)
	if err != nil {
		writeProblem(w, http.StatusBadRequest, "Invalid query", err.Error())
		return
	}
	ps, err := h.Store.Find(r.Context(), c)
	if err != nil {
		writeProblem(w, http.StatusServiceUnavailable, "Store unavailable", "property store is not loaded")
		return
	}
	if ps == nil {
		ps = []domain.Property{}
	}

	etag, body := calcETagAndBody(map[string]any{"items": ps})
	if inm := r.Header.Get("If-None-Match"); inm != "" && inm == etag {
		w.Header().Set("ETag", etag)
		w.WriteHeader(http.StatusNotModified)
		return
	}
	w.Header().Set("ETag", etag)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(body); err != nil {
		log.Error().Err(err).Msg("failed to write listProperties body")
	}
}

func (h *Handlers) addProperty(w http.ResponseWriter, r *http.Request) {
	var p domain.Property
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		writeProblem(w, http.StatusBadRequest, "Invalid body", "body must be a property object")
		return
	}
	if strings.TrimSpace(p.City) == "" {
		writeProblem(w, http.StatusBadRequest, "Invalid property", "city is required")
		return
	}
	if n, err := p.Rooms.Int(); err != nil || n < 0 {
		writeProblem(w, http.StatusBadRequest, "Invalid property", "rooms must be a non-negative integer")
		return
	}
	if f, err := p.Price.Float(); err != nil || f < 0 {
		writeProblem(w, http.StatusBadRequest, "Invalid property", "price must be a non-negative number")
		return
	}

	out, err := h.Store.Add(r.Context(), p)
	switch {
	case errors.Is(err, domain.ErrConflict):
		writeProblem(w, http.StatusConflict, "Conflict", err.Error())
		return
	case err != nil:
		log.Error().Err(err).Msg("add property failed")
		writeProblem(w, http.StatusInternalServerError, "Internal error", "could not save property")
		return
	}
	writeJSON(w, http.StatusCreated, out)
}

func (h *Handlers) removeProperty(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	ok, err := h.Store.Remove(r.Context(), id)
	if err != nil {
		log.Error().Err(err).Str("id", id).Msg("remove property failed")
		writeProblem(w, http.StatusInternalServerError, "Internal error", "could not save properties")
		return
	}
	if !ok {
		writeProblem(w, http.StatusNotFound, "Not Found", "property not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
