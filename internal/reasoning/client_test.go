package reasoning

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"tokenarena.gg/internal/sim/arena"
)

func testSummary() arena.StrategySummary {
	return arena.StrategySummary{
		MatchID: "m-1", AgentID: "A03", Name: "TITAN",
		Archetype: "berserker", Health: 40, MaxHealth: 100,
		Tokens: 250, Weapon: "plasma", AliveFoes: 3,
	}
}

func TestExplain(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("expected POST, got %s", r.Method)
		}
		var sum arena.StrategySummary
		if err := json.NewDecoder(r.Body).Decode(&sum); err != nil {
			t.Errorf("decode summary: %v", err)
		}
		if sum.AgentID != "A03" || sum.Archetype != "berserker" {
			t.Errorf("unexpected summary: %+v", sum)
		}
		_ = json.NewEncoder(w).Encode(map[string]string{"text": "TITAN closes in for the kill"})
	}))
	defer srv.Close()

	c, err := NewClient(Config{Endpoint: srv.URL})
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	text, err := c.Explain(context.Background(), testSummary())
	if err != nil {
		t.Fatalf("explain: %v", err)
	}
	if text != "TITAN closes in for the kill" {
		t.Fatalf("unexpected text: %q", text)
	}
}

func TestExplainTruncatesLongText(t *testing.T) {
	long := strings.Repeat("x", 5000)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]string{"text": long})
	}))
	defer srv.Close()

	c, err := NewClient(Config{Endpoint: srv.URL, MaxTextLen: 64})
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	text, err := c.Explain(context.Background(), testSummary())
	if err != nil {
		t.Fatalf("explain: %v", err)
	}
	if len(text) != 64 {
		t.Fatalf("text not truncated: %d chars", len(text))
	}
}

func TestExplainErrors(t *testing.T) {
	cases := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{"non-200", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
		}},
		{"empty text", func(w http.ResponseWriter, r *http.Request) {
			_ = json.NewEncoder(w).Encode(map[string]string{"text": ""})
		}},
		{"bad json", func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte("not json"))
		}},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			srv := httptest.NewServer(c.handler)
			defer srv.Close()

			cl, err := NewClient(Config{Endpoint: srv.URL})
			if err != nil {
				t.Fatalf("new client: %v", err)
			}
			if _, err := cl.Explain(context.Background(), testSummary()); err == nil {
				t.Fatalf("expected error")
			}
		})
	}
}

func TestNewClientValidation(t *testing.T) {
	if _, err := NewClient(Config{}); err == nil {
		t.Fatalf("empty endpoint must be rejected")
	}
}
