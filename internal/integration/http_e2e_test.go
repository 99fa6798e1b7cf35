//go:build integration || !unit

package integration

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/rs/zerolog"

	server "immobot/internal/adapters/http_server"
	redisad "immobot/internal/adapters/redis"
	"immobot/internal/app"
	"immobot/internal/language"
	"immobot/internal/storage/jsonfile"
)

// ---------- helpers ----------

type stack struct {
	ts       *httptest.Server
	sessions *app.Sessions
}

// boot wires the production graph: JSON file store, Redis snapshots, chi router.
func boot(t *testing.T, path, redisAddr string) stack {
	t.Helper()
	ctx := context.Background()

	store := app.NewPropertyStore(jsonfile.New(path))
	if err := store.Load(ctx); err != nil {
		t.Fatalf("load store: %v", err)
	}
	cache := redisad.New(redisAddr, "", 0)
	t.Cleanup(func() { _ = cache.Close() })

	sessions := app.NewSessions(store, cache, time.Hour)
	chat := app.NewChatService(sessions, nil)

	srv := server.New(zerolog.Nop(), 5*time.Second)
	srv.MountHandlers(&server.Handlers{Chat: chat, Store: store, Workers: 4})
	ts := httptest.NewServer(srv.Mux())
	t.Cleanup(ts.Close)
	return stack{ts: ts, sessions: sessions}
}

func say(t *testing.T, base, user, text string) string {
	t.Helper()
	b, _ := json.Marshal(map[string]string{"user_id": user, "text": text})
	res, err := http.Post(base+"/v1/chat", "application/json", strings.NewReader(string(b)))
	if err != nil {
		t.Fatalf("POST /v1/chat: %v", err)
	}
	defer res.Body.Close()
	if res.StatusCode != http.StatusOK {
		t.Fatalf("status %d for %q", res.StatusCode, text)
	}
	var out struct {
		Reply string `json:"reply"`
	}
	if err := json.NewDecoder(res.Body).Decode(&out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	return out.Reply
}

// ---------- the tests ----------

func TestHTTP_EndToEnd_FrenchSearch(t *testing.T) {
	mr := miniredis.RunT(t)
	path := filepath.Join(t.TempDir(), "rooms_database.json")
	s := boot(t, path, mr.Addr())

	// first load seeds the file
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("store file not created: %v", err)
	}

	replies := []string{}
	for _, msg := range []string{"bonjour", "2 chambres", "5000 dh", "à Casablanca"} {
		replies = append(replies, say(t, s.ts.URL, "212600000001", msg))
	}
	if replies[0] != language.Message(language.Greeting, language.French) {
		t.Fatalf("greeting = %q", replies[0])
	}
	if replies[2] != language.Message(language.AskCity, language.French) {
		t.Fatalf("after budget = %q", replies[2])
	}
	final := replies[3]
	for _, want := range []string{"Casablanca", "4500 DH", "Adresse", "Wifi"} {
		if !strings.Contains(final, want) {
			t.Fatalf("final reply missing %q:\n%s", want, final)
		}
	}
	if strings.Contains(final, "Rabat") {
		t.Fatalf("final reply includes a non-matching listing:\n%s", final)
	}
}

func TestHTTP_EndToEnd_ConversationSurvivesRestart(t *testing.T) {
	mr := miniredis.RunT(t)
	path := filepath.Join(t.TempDir(), "rooms_database.json")

	first := boot(t, path, mr.Addr())
	say(t, first.ts.URL, "u-42", "hello")
	say(t, first.ts.URL, "u-42", "3 rooms")
	first.ts.Close()

	// a fresh process: empty session table, same Redis and file
	second := boot(t, path, mr.Addr())
	if second.sessions.Len() != 0 {
		t.Fatalf("new process should start with no sessions")
	}
	if got := say(t, second.ts.URL, "u-42", "8000 dollars"); got != language.Message(language.AskCity, language.English) {
		t.Fatalf("conversation did not resume: %q", got)
	}
	final := say(t, second.ts.URL, "u-42", "in Rabat")
	if !strings.Contains(final, "Rabat") || !strings.Contains(final, "7000 DH") {
		t.Fatalf("final reply:\n%s", final)
	}
}
