package jsonfile_test

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"immobot/internal/domain"
	"immobot/internal/storage/jsonfile"
)

const fixture = `[
  {
    "id": "p1",
    "rooms": 2,
    "price": 4500.5,
    "currency": "MAD",
    "city": "Casablanca",
    "available": true,
    "address": {"fr": "Rue des Fleurs", "ar": "شارع الزهور"},
    "amenities": {"fr": ["Wifi", "Balcon"]},
    "photos": ["a.jpg"],
    "description": {"fr": "Très lumineux"},
    "agent": 7,
    "created_at": "2024-01-15T10:00:00"
  },
  {
    "id": "p2",
    "rooms": "3",
    "price": "n/a",
    "currency": "USD",
    "city": "Rabat",
    "available": false,
    "address": {},
    "amenities": {},
    "photos": [],
    "description": {},
    "agent": "agent-x",
    "created_at": "2024-01-16T10:00:00"
  }
]`

func writeFile(t *testing.T, content string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "rooms_database.json")
	if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return p
}

func TestLoad_MissingFile(t *testing.T) {
	r := jsonfile.New(filepath.Join(t.TempDir(), "absent.json"))
	if _, err := r.Load(context.Background()); !errors.Is(err, domain.ErrNoRecords) {
		t.Fatalf("expected ErrNoRecords, got %v", err)
	}
}

func TestLoad_Corrupt(t *testing.T) {
	r := jsonfile.New(writeFile(t, `{"id": "not an array"`))
	if _, err := r.Load(context.Background()); !errors.Is(err, domain.ErrStoreUnavailable) {
		t.Fatalf("expected ErrStoreUnavailable, got %v", err)
	}
}

func TestLoad_LenientNumbers(t *testing.T) {
	r := jsonfile.New(writeFile(t, fixture))
	ps, err := r.Load(context.Background())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(ps) != 2 {
		t.Fatalf("want 2 records, got %d", len(ps))
	}
	if n, err := ps[1].Rooms.Int(); err != nil || n != 3 {
		t.Fatalf("rooms from string: %d %v", n, err)
	}
	if _, err := ps[1].Price.Float(); !errors.Is(err, domain.ErrNotNumber) {
		t.Fatalf("expected ErrNotNumber for price, got %v", err)
	}
	if ps[0].Agent.String() != "7" || ps[1].Agent.String() != "agent-x" {
		t.Fatalf("agents: %q %q", ps[0].Agent.String(), ps[1].Agent.String())
	}
}

func TestSaveLoad_RoundTrip(t *testing.T) {
	path := writeFile(t, fixture)
	r := jsonfile.New(path)
	ctx := context.Background()

	ps, err := r.Load(ctx)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if err := r.Save(ctx, ps); err != nil {
		t.Fatalf("save: %v", err)
	}

	after, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	var want, got any
	if err := json.Unmarshal([]byte(fixture), &want); err != nil {
		t.Fatal(err)
	}
	if err := json.Unmarshal(after, &got); err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(want, got) {
		t.Fatalf("round trip changed content:\nwant %v\ngot  %v", want, got)
	}

	text := string(after)
	if !strings.Contains(text, "شارع الزهور") || !strings.Contains(text, "Très lumineux") {
		t.Fatal("non-ASCII text should be written literally")
	}
	if !strings.Contains(text, "\n  {\n    \"id\"") {
		t.Fatalf("expected 2-space indentation, got:\n%s", text)
	}
}

func TestSave_CreatesFileAndLeavesNoTemp(t *testing.T) {
	dir := t.TempDir()
	r := jsonfile.New(filepath.Join(dir, "data", "props.json"))
	ctx := context.Background()

	if err := r.Save(ctx, nil); err != nil {
		t.Fatalf("save: %v", err)
	}
	ps, err := r.Load(ctx)
	if err != nil || len(ps) != 0 {
		t.Fatalf("load after empty save: %v %v", ps, err)
	}
	entries, err := os.ReadDir(filepath.Join(dir, "data"))
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected only the data file, got %d entries", len(entries))
	}
}
