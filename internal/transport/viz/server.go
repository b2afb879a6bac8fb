// Package viz streams match frames to websocket spectators and accepts input
// from at most one human pilot. It is plumbing around the arena runner; the
// simulation itself has no transport awareness.
package viz

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"tokenarena.gg/internal/protocol"
	"tokenarena.gg/internal/sim/arena"
)

type Server struct {
	runner *arena.Runner
	log    *log.Logger

	upgrader websocket.Upgrader

	mu      sync.Mutex
	pilotID string // session holding the pilot seat, "" when free
}

func NewServer(r *arena.Runner, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.Default()
	}
	return &Server{
		runner: r,
		log:    logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  64 * 1024,
			WriteBufferSize: 64 * 1024,
			CheckOrigin:     func(r *http.Request) bool { return true }, // dev default
		},
	}
}

func (s *Server) Handler() http.HandlerFunc {
	return func(rw http.ResponseWriter, r *http.Request) {
		conn, err := s.upgrader.Upgrade(rw, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()

		sessionID, role := s.handshake(conn)
		if sessionID == "" {
			return
		}

		ctx, cancel := context.WithCancel(r.Context())
		defer cancel()

		out := s.runner.AttachSpectator(sessionID)
		defer s.runner.DetachSpectator(sessionID)
		if role == "pilot" {
			defer s.releasePilot(sessionID)
		}

		// Writer goroutine.
		go func() {
			for {
				select {
				case <-ctx.Done():
					return
				case b, ok := <-out:
					if !ok {
						return
					}
					_ = conn.SetWriteDeadline(time.Now().Add(5 * time.Second))
					if err := conn.WriteMessage(websocket.TextMessage, b); err != nil {
						cancel()
						return
					}
				}
			}
		}()

		// Reader loop.
		for {
			_ = conn.SetReadDeadline(time.Now().Add(60 * time.Second))
			_, msg, err := conn.ReadMessage()
			if err != nil {
				cancel()
				return
			}
			base, err := protocol.DecodeBase(msg)
			if err != nil || base.Type != protocol.TypeAct {
				continue
			}
			if role != "pilot" {
				continue
			}
			var act protocol.ActMsg
			if err := json.Unmarshal(msg, &act); err != nil {
				continue
			}
			s.runner.SubmitInput(arena.PilotInput{
				Move:   arena.Vec3{X: act.MoveX, Z: act.MoveZ},
				Fire:   act.Fire,
				Aim:    arena.Vec3{X: act.AimX, Y: act.AimY, Z: act.AimZ},
				Weapon: arena.WeaponType(act.Weapon),
			})
		}
	}
}

// handshake expects a HELLO and answers WELCOME (or an error event). Returns
// the session id and granted role, or "" on failure.
func (s *Server) handshake(conn *websocket.Conn) (string, string) {
	_ = conn.SetReadDeadline(time.Now().Add(10 * time.Second))
	_, msg, err := conn.ReadMessage()
	if err != nil {
		return "", ""
	}
	var hello protocol.HelloMsg
	if err := json.Unmarshal(msg, &hello); err != nil || hello.Type != protocol.TypeHello {
		s.reject(conn, protocol.ErrProtoBadRequest)
		return "", ""
	}

	role := hello.Role
	if role == "" {
		role = "spectator"
	}
	if role != "spectator" && role != "pilot" {
		s.reject(conn, protocol.ErrBadRole)
		return "", ""
	}

	sessionID := uuid.NewString()

	m := s.runner.Match()
	agentID := ""
	if role == "pilot" {
		agentID = m.HumanID()
		if agentID == "" || !s.claimPilot(sessionID) {
			s.reject(conn, protocol.ErrPilotTaken)
			return "", ""
		}
	}

	cfg := m.Config()
	welcome := protocol.WelcomeMsg{
		Type:            protocol.TypeWelcome,
		ProtocolVersion: protocol.Version,
		SessionID:       sessionID,
		Role:            role,
		MatchID:         m.ID(),
		AgentID:         agentID,
		MatchParams: protocol.MatchParams{
			TickRateHz:  cfg.TickRateHz,
			ArenaRadius: cfg.ArenaRadius,
			Seed:        cfg.Seed,
		},
	}
	b, err := json.Marshal(welcome)
	if err != nil {
		return "", ""
	}
	_ = conn.SetWriteDeadline(time.Now().Add(5 * time.Second))
	if err := conn.WriteMessage(websocket.TextMessage, b); err != nil {
		if role == "pilot" {
			s.releasePilot(sessionID)
		}
		return "", ""
	}
	return sessionID, role
}

func (s *Server) claimPilot(sessionID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.pilotID != "" {
		return false
	}
	s.pilotID = sessionID
	return true
}

func (s *Server) releasePilot(sessionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.pilotID == sessionID {
		s.pilotID = ""
	}
}

func (s *Server) reject(conn *websocket.Conn, code string) {
	b, err := json.Marshal(map[string]string{"type": "ERROR", "code": code})
	if err != nil {
		return
	}
	_ = conn.SetWriteDeadline(time.Now().Add(5 * time.Second))
	_ = conn.WriteMessage(websocket.TextMessage, b)
}
