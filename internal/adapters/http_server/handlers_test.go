package httpserver_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/rs/zerolog"

	httpserver "immobot/internal/adapters/http_server"
	"immobot/internal/app"
	"immobot/internal/domain"
	"immobot/internal/language"
)

// ---- fakes ----

type memStore struct {
	mu    sync.Mutex
	ps    []domain.Property
	saves int
}

func (m *memStore) Load(ctx context.Context) ([]domain.Property, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.ps == nil {
		return nil, domain.ErrNoRecords
	}
	return append([]domain.Property(nil), m.ps...), nil
}

func (m *memStore) Save(ctx context.Context, ps []domain.Property) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ps = append([]domain.Property(nil), ps...)
	m.saves++
	return nil
}

type sent struct{ to, text string }

type fakeSender struct {
	mu  sync.Mutex
	out []sent
}

func (f *fakeSender) Send(ctx context.Context, to, text string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.out = append(f.out, sent{to, text})
	return nil
}

func (f *fakeSender) to(user string) []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []string
	for _, s := range f.out {
		if s.to == user {
			out = append(out, s.text)
		}
	}
	return out
}

type fixture struct {
	srv    *httptest.Server
	sender *fakeSender
	repo   *memStore
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	repo := &memStore{}
	store := app.NewPropertyStore(repo)
	if err := store.Load(context.Background()); err != nil {
		t.Fatalf("load: %v", err)
	}
	sender := &fakeSender{}
	chat := app.NewChatService(app.NewSessions(store, nil, 0), sender)

	s := httpserver.New(zerolog.Nop(), 0)
	s.MountHandlers(&httpserver.Handlers{Chat: chat, Store: store, VerifyToken: "s3cret", Workers: 2})
	srv := httptest.NewServer(s.Mux())
	t.Cleanup(srv.Close)
	return fixture{srv: srv, sender: sender, repo: repo}
}

func do(t *testing.T, method, url, body string, hdr map[string]string) *http.Response {
	t.Helper()
	req, err := http.NewRequest(method, url, strings.NewReader(body))
	if err != nil {
		t.Fatal(err)
	}
	for k, v := range hdr {
		req.Header.Set(k, v)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

// ---- tests ----

func TestHealthz(t *testing.T) {
	f := newFixture(t)
	resp := do(t, http.MethodGet, f.srv.URL+"/healthz", "", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
}

func TestVerifyWebhook(t *testing.T) {
	f := newFixture(t)

	resp := do(t, http.MethodGet, f.srv.URL+"/webhook?hub.mode=subscribe&hub.verify_token=s3cret&hub.challenge=42", "", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	b, _ := io.ReadAll(resp.Body)
	if string(b) != "42" {
		t.Fatalf("challenge echo = %q", b)
	}

	resp = do(t, http.MethodGet, f.srv.URL+"/webhook?hub.mode=subscribe&hub.verify_token=nope&hub.challenge=42", "", nil)
	if resp.StatusCode != http.StatusForbidden {
		t.Fatalf("wrong token status = %d", resp.StatusCode)
	}
}

func textPayload(msgs ...[2]string) string {
	type text struct {
		Body string `json:"body"`
	}
	type msg struct {
		From string `json:"from"`
		ID   string `json:"id"`
		Type string `json:"type"`
		Text text   `json:"text"`
	}
	var ms []msg
	for i, m := range msgs {
		ms = append(ms, msg{From: m[0], ID: "wamid." + string(rune('a'+i)), Type: "text", Text: text{m[1]}})
	}
	b, _ := json.Marshal(map[string]any{
		"object": "whatsapp_business_account",
		"entry": []any{map[string]any{
			"id": "1",
			"changes": []any{map[string]any{
				"field": "messages",
				"value": map[string]any{"messaging_product": "whatsapp", "messages": ms},
			}},
		}},
	})
	return string(b)
}

func TestReceiveWebhook_RunsConversationsPerUser(t *testing.T) {
	f := newFixture(t)

	body := textPayload(
		[2]string{"212600000001", "bonjour"},
		[2]string{"212600000002", "hi"},
		[2]string{"212600000001", "2 chambres"},
	)
	resp := do(t, http.MethodPost, f.srv.URL+"/webhook", body, map[string]string{"Content-Type": "application/json"})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}

	fr := f.sender.to("212600000001")
	if len(fr) != 2 {
		t.Fatalf("user 1 replies = %d, want 2", len(fr))
	}
	if fr[0] != language.Message(language.Greeting, language.French) || fr[1] != language.Message(language.AskBudget, language.French) {
		t.Fatalf("user 1 replies out of order: %q", fr)
	}
	en := f.sender.to("212600000002")
	if len(en) != 1 || en[0] != language.Message(language.Greeting, language.English) {
		t.Fatalf("user 2 replies: %q", en)
	}
}

func TestReceiveWebhook_RedeliveryIsIgnored(t *testing.T) {
	f := newFixture(t)
	body := textPayload(
		[2]string{"212600000001", "hello"},
		[2]string{"212600000001", "2 rooms"},
	)
	hdr := map[string]string{"Content-Type": "application/json"}

	for i := 0; i < 2; i++ { // provider retries the same notification
		if resp := do(t, http.MethodPost, f.srv.URL+"/webhook", body, hdr); resp.StatusCode != http.StatusOK {
			t.Fatalf("delivery %d status = %d", i, resp.StatusCode)
		}
	}

	got := f.sender.to("212600000001")
	want := []string{
		language.Message(language.Greeting, language.English),
		language.Message(language.AskBudget, language.English),
	}
	if len(got) != len(want) || got[0] != want[0] || got[1] != want[1] {
		t.Fatalf("replies after redelivery = %q", got)
	}
}

func TestReceiveWebhook_BadPayload(t *testing.T) {
	f := newFixture(t)
	resp := do(t, http.MethodPost, f.srv.URL+"/webhook", "{not json", nil)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("status = %d", resp.StatusCode)
	}
}

func TestChat_FullSearch(t *testing.T) {
	f := newFixture(t)

	var last string
	for _, msg := range []string{"hello", "2 rooms", "5000 dh", "in Casablanca"} {
		b, _ := json.Marshal(map[string]string{"user_id": "u1", "text": msg})
		resp := do(t, http.MethodPost, f.srv.URL+"/v1/chat", string(b), nil)
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("%q: status = %d", msg, resp.StatusCode)
		}
		var out struct {
			Reply string `json:"reply"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
			t.Fatal(err)
		}
		last = out.Reply
	}
	if !strings.Contains(last, "Casablanca") || !strings.Contains(last, "4500 DH") {
		t.Fatalf("search reply missing listing: %q", last)
	}
	if len(f.sender.out) != 0 {
		t.Fatalf("chat endpoint must not send, got %d", len(f.sender.out))
	}
}

func TestChat_Validation(t *testing.T) {
	f := newFixture(t)
	resp := do(t, http.MethodPost, f.srv.URL+"/v1/chat", `{"user_id":"","text":"hi"}`, nil)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); ct != "application/problem+json" {
		t.Fatalf("content-type = %q", ct)
	}
}

func TestListProperties_FiltersAndETag(t *testing.T) {
	f := newFixture(t)

	resp := do(t, http.MethodGet, f.srv.URL+"/v1/properties?city=rabat&rooms=3", "", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	var page struct {
		Items []domain.Property `json:"items"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&page); err != nil {
		t.Fatal(err)
	}
	if len(page.Items) != 1 || page.Items[0].ID != "prop_002" {
		t.Fatalf("items = %+v", page.Items)
	}

	etag := resp.Header.Get("ETag")
	if etag == "" {
		t.Fatal("missing ETag")
	}
	resp = do(t, http.MethodGet, f.srv.URL+"/v1/properties?city=rabat&rooms=3", "", map[string]string{"If-None-Match": etag})
	if resp.StatusCode != http.StatusNotModified {
		t.Fatalf("conditional status = %d", resp.StatusCode)
	}

	resp = do(t, http.MethodGet, f.srv.URL+"/v1/properties?budget=cheap", "", nil)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("bad budget status = %d", resp.StatusCode)
	}
}

func TestAddAndRemoveProperty(t *testing.T) {
	f := newFixture(t)
	savesBefore := f.repo.saves

	body := `{"id":"prop_100","rooms":1,"price":"3000","currency":"MAD","city":"Fes","available":true}`
	resp := do(t, http.MethodPost, f.srv.URL+"/v1/properties", body, nil)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("add status = %d", resp.StatusCode)
	}
	var created domain.Property
	if err := json.NewDecoder(resp.Body).Decode(&created); err != nil {
		t.Fatal(err)
	}
	if created.CreatedAt == "" {
		t.Fatal("created_at not filled")
	}

	resp = do(t, http.MethodPost, f.srv.URL+"/v1/properties", body, nil)
	if resp.StatusCode != http.StatusConflict {
		t.Fatalf("duplicate status = %d", resp.StatusCode)
	}

	resp = do(t, http.MethodDelete, f.srv.URL+"/v1/properties/prop_100", "", nil)
	if resp.StatusCode != http.StatusNoContent {
		t.Fatalf("delete status = %d", resp.StatusCode)
	}
	resp = do(t, http.MethodDelete, f.srv.URL+"/v1/properties/prop_100", "", nil)
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("second delete status = %d", resp.StatusCode)
	}

	if got := f.repo.saves - savesBefore; got != 2 {
		t.Fatalf("saves = %d, want 2 (add + one remove)", got)
	}
}

func TestAddProperty_RejectsInvalid(t *testing.T) {
	f := newFixture(t)
	resp := do(t, http.MethodPost, f.srv.URL+"/v1/properties", `{"rooms":"many","price":100,"city":"Fes"}`, nil)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("status = %d", resp.StatusCode)
	}
}
