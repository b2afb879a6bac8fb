package viz

import (
	"context"
	"encoding/json"
	"log"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"tokenarena.gg/internal/protocol"
	"tokenarena.gg/internal/sim/arena"
)

func startTestServer(t *testing.T, human bool) (*httptest.Server, *arena.Runner) {
	t.Helper()
	roster := []arena.AgentSpec{
		{Name: "ONE", Archetype: arena.ArchetypeBerserker},
		{Name: "TWO", Archetype: arena.ArchetypeSniper},
	}
	if human {
		roster = append(roster, arena.AgentSpec{Name: "PILOT", Human: true, Archetype: arena.ArchetypeTactician})
	}
	m, err := arena.NewMatch(arena.MatchConfig{ID: "m-viz", Seed: 5, CountdownMs: 50, TickRateHz: 60}, roster)
	if err != nil {
		t.Fatalf("new match: %v", err)
	}
	r := arena.NewRunner(m, arena.RunnerConfig{}, nil, log.Default())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- r.Run(ctx) }()
	r.Begin()

	srv := httptest.NewServer(NewServer(r, log.Default()).Handler())
	t.Cleanup(func() {
		srv.Close()
		cancel()
		<-done
	})
	return srv, r
}

func dial(t *testing.T, srv *httptest.Server) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func handshake(t *testing.T, conn *websocket.Conn, role string) map[string]any {
	t.Helper()
	hello := protocol.HelloMsg{Type: protocol.TypeHello, ProtocolVersion: protocol.Version, Role: role}
	if err := conn.WriteJSON(hello); err != nil {
		t.Fatalf("write hello: %v", err)
	}
	_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	_, msg, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("read response: %v", err)
	}
	var out map[string]any
	if err := json.Unmarshal(msg, &out); err != nil {
		t.Fatalf("bad response: %v", err)
	}
	return out
}

func TestSpectatorHandshakeAndFrames(t *testing.T) {
	srv, _ := startTestServer(t, false)
	conn := dial(t, srv)

	welcome := handshake(t, conn, "spectator")
	if welcome["type"] != protocol.TypeWelcome {
		t.Fatalf("expected WELCOME, got %v", welcome)
	}
	if welcome["session_id"] == "" || welcome["role"] != "spectator" {
		t.Fatalf("welcome fields wrong: %v", welcome)
	}
	params, _ := welcome["match_params"].(map[string]any)
	if params == nil || params["tick_rate_hz"] != float64(60) {
		t.Fatalf("match params missing: %v", welcome)
	}

	// Frames follow; event messages may interleave.
	deadline := time.Now().Add(5 * time.Second)
	for {
		_ = conn.SetReadDeadline(deadline)
		_, msg, err := conn.ReadMessage()
		if err != nil {
			t.Fatalf("no frame before deadline: %v", err)
		}
		if strings.Contains(string(msg), `"type":"FRAME"`) {
			return
		}
	}
}

func TestPilotSeat(t *testing.T) {
	srv, _ := startTestServer(t, true)

	first := dial(t, srv)
	welcome := handshake(t, first, "pilot")
	if welcome["type"] != protocol.TypeWelcome || welcome["role"] != "pilot" {
		t.Fatalf("pilot handshake failed: %v", welcome)
	}
	if welcome["agent_id"] == "" || welcome["agent_id"] == nil {
		t.Fatalf("pilot must be bound to the human agent: %v", welcome)
	}

	// The seat is single occupancy.
	second := dial(t, srv)
	resp := handshake(t, second, "pilot")
	if resp["type"] != "ERROR" || resp["code"] != protocol.ErrPilotTaken {
		t.Fatalf("expected pilot taken error, got %v", resp)
	}
}

func TestPilotRejectedWithoutHumanSlot(t *testing.T) {
	srv, _ := startTestServer(t, false)
	conn := dial(t, srv)
	resp := handshake(t, conn, "pilot")
	if resp["type"] != "ERROR" || resp["code"] != protocol.ErrPilotTaken {
		t.Fatalf("expected rejection, got %v", resp)
	}
}

func TestBadRoleRejected(t *testing.T) {
	srv, _ := startTestServer(t, false)
	conn := dial(t, srv)
	resp := handshake(t, conn, "referee")
	if resp["type"] != "ERROR" || resp["code"] != protocol.ErrBadRole {
		t.Fatalf("expected bad role error, got %v", resp)
	}
}
