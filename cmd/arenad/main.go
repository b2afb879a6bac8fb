package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"net/http"
	"net/http/pprof"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/google/uuid"

	"tokenarena.gg/internal/persistence/indexdb"
	"tokenarena.gg/internal/persistence/replay"
	"tokenarena.gg/internal/protocol"
	"tokenarena.gg/internal/reasoning"
	"tokenarena.gg/internal/sim/arena"
	"tokenarena.gg/internal/sim/tuning"
	"tokenarena.gg/internal/transport/viz"
)

func main() {
	var (
		addr       = flag.String("addr", ":8080", "http listen address")
		dataDir    = flag.String("data", "./data", "runtime data directory")
		tuningPath = flag.String("tuning", "./configs/tuning.yaml", "path to tuning.yaml")
		seed       = flag.Int64("seed", time.Now().UnixNano(), "match seed")
		pilot      = flag.Bool("pilot", false, "reserve a human pilot slot")
		loop       = flag.Bool("loop", false, "start a new match when one ends")
		disableDB  = flag.Bool("disable_db", false, "disable the sqlite match index")
		reasonURL  = flag.String("reasoning", "", "reasoning service endpoint (overrides tuning)")
	)
	flag.Parse()

	logger := log.New(os.Stdout, "[arenad] ", log.LstdFlags|log.Lmicroseconds)

	tune, err := tuning.Load(*tuningPath)
	if err != nil {
		if os.IsNotExist(err) {
			logger.Printf("tuning not found (%s); using defaults", *tuningPath)
			tune = tuning.Defaults()
		} else {
			logger.Fatalf("load tuning: %v", err)
		}
	}

	roster := arena.DefaultRoster()
	if *pilot {
		roster = append(roster, arena.AgentSpec{Name: "PILOT", Human: true, Archetype: arena.ArchetypeTactician})
	}

	srv := &server{
		logger:  logger,
		dataDir: *dataDir,
		tune:    tune,
		roster:  roster,
		doneCh:  make(chan struct{}, 1),
	}

	if !*disableDB {
		idx, err := indexdb.OpenSQLite(filepath.Join(*dataDir, "index.db"))
		if err != nil {
			logger.Fatalf("open match index: %v", err)
		}
		defer idx.Close()
		srv.index = idx
	}

	endpoint := strings.TrimSpace(*reasonURL)
	if endpoint == "" {
		endpoint = strings.TrimSpace(tune.Reasoning.Endpoint)
	}
	var strategist arena.Strategist
	if endpoint != "" {
		c, err := reasoning.NewClient(reasoning.Config{
			Endpoint:    endpoint,
			HTTPTimeout: time.Duration(tune.Reasoning.TimeoutMs) * time.Millisecond,
		})
		if err != nil {
			logger.Fatalf("reasoning client: %v", err)
		}
		strategist = c
	}

	match, rec, err := srv.newMatch(*seed)
	if err != nil {
		logger.Fatalf("new match: %v", err)
	}
	srv.recorder = rec

	runner := arena.NewRunner(match, arena.RunnerConfig{
		ReasonEveryMs: tune.Reasoning.EveryMs,
		ReasonTimeout: time.Duration(tune.Reasoning.TimeoutMs) * time.Millisecond,
	}, strategist, logger)
	srv.runner = runner
	runner.SetEventSink(srv.onEvent)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	done := make(chan error, 1)
	go func() { done <- runner.Run(ctx) }()
	runner.Begin()
	logger.Printf("match %s started (seed %d, %d agents)", match.ID(), match.Seed(), len(roster))

	mux := http.NewServeMux()
	vizSrv := viz.NewServer(runner, logger)
	mux.HandleFunc("/v1/ws", vizSrv.Handler())
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	mux.HandleFunc("/v1/matches", srv.handleMatches)
	mux.HandleFunc("/debug/pprof/", pprof.Index)
	mux.HandleFunc("/debug/pprof/profile", pprof.Profile)

	httpSrv := &http.Server{Addr: *addr, Handler: mux}
	go func() {
		logger.Printf("listening on %s", *addr)
		if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Printf("http: %v", err)
			cancel()
		}
	}()

	// Match lifecycle loop.
	nextSeed := *seed
	for {
		select {
		case <-ctx.Done():
			shutdown(httpSrv, runner, srv, logger)
			<-done
			return
		case <-srv.matchDone():
			if !*loop {
				logger.Printf("match complete; shutting down")
				shutdown(httpSrv, runner, srv, logger)
				<-done
				return
			}
			nextSeed++
			if err := srv.rollMatch(nextSeed); err != nil {
				logger.Printf("roll match: %v", err)
				shutdown(httpSrv, runner, srv, logger)
				<-done
				return
			}
			logger.Printf("next match started (seed %d)", nextSeed)
		}
	}
}

func shutdown(httpSrv *http.Server, runner *arena.Runner, srv *server, logger *log.Logger) {
	sctx, scancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer scancel()
	_ = httpSrv.Shutdown(sctx)
	runner.Stop()
	srv.closeRecorder()
}

type server struct {
	logger  *log.Logger
	dataDir string
	tune    tuning.Tuning
	roster  []arena.AgentSpec

	runner   *arena.Runner
	index    *indexdb.SQLiteIndex
	recorder *replay.Writer

	doneCh chan struct{}

	// Guards the per-match metadata shared with the tick-goroutine sink.
	mu         sync.Mutex
	replayPath string
	kills      int
	startedAt  time.Time
}

// newMatch builds a match plus its replay writer from the tuning file.
func (s *server) newMatch(seed int64) (*arena.Match, *replay.Writer, error) {
	id := uuid.NewString()
	cfg := arena.MatchConfig{
		ID:              id,
		Seed:            seed,
		ArenaRadius:     s.tune.ArenaRadius,
		BaseSpeed:       s.tune.BaseSpeed,
		TickRateHz:      s.tune.TickRateHz,
		CountdownMs:     s.tune.CountdownMs,
		MaxDurationMs:   s.tune.MaxDurationMs,
		StartingTokens:  s.tune.Economy.StartingTokens,
		KillBounty:      s.tune.Economy.KillBounty,
		MaintenanceCost: s.tune.Economy.MaintenanceCost,
		EconomyPeriodMs: s.tune.Economy.PeriodMs,
	}
	m, err := arena.NewMatch(cfg, s.roster)
	if err != nil {
		return nil, nil, err
	}

	s.mu.Lock()
	s.replayPath = filepath.Join(s.dataDir, "replays", id+".jsonl.zst")
	s.startedAt = time.Now().UTC()
	s.kills = 0
	path, started := s.replayPath, s.startedAt
	s.mu.Unlock()

	rec, err := replay.NewWriter(path, replay.Header{
		MatchID:   id,
		Seed:      seed,
		Config:    m.Config(),
		Roster:    replay.RosterFromSpecs(s.roster),
		StartedAt: started.Format(time.RFC3339),
	})
	if err != nil {
		return nil, nil, fmt.Errorf("open replay: %w", err)
	}
	m.SetRecorder(rec)
	return m, rec, nil
}

// rollMatch resets the running match for a new seed and swaps in a fresh
// replay file.
func (s *server) rollMatch(seed int64) error {
	s.closeRecorder()

	m := s.runner.Match()
	id := uuid.NewString()
	s.runner.SwapRecorder(nil)
	s.runner.Reset(id, seed)

	s.mu.Lock()
	s.replayPath = filepath.Join(s.dataDir, "replays", id+".jsonl.zst")
	s.startedAt = time.Now().UTC()
	s.kills = 0
	path, started := s.replayPath, s.startedAt
	s.mu.Unlock()

	rec, err := replay.NewWriter(path, replay.Header{
		MatchID:   id,
		Seed:      seed,
		Config:    m.Config(),
		Roster:    replay.RosterFromSpecs(s.roster),
		StartedAt: started.Format(time.RFC3339),
	})
	if err != nil {
		return err
	}
	s.recorder = rec
	s.runner.SwapRecorder(rec)
	s.runner.Begin()
	return nil
}

func (s *server) closeRecorder() {
	if s.recorder != nil {
		_ = s.recorder.Close()
		s.recorder = nil
	}
}

func (s *server) matchDone() <-chan struct{} { return s.doneCh }

// onEvent runs on the tick goroutine; it only queues non-blocking writes.
func (s *server) onEvent(e protocol.Event) {
	m := s.runner.Match()
	switch e.Type() {
	case protocol.EventKill:
		s.mu.Lock()
		s.kills++
		s.mu.Unlock()
		if s.index != nil {
			killer, _ := e["killer"].(string)
			victim, _ := e["victim"].(string)
			weapon, _ := e["weapon"].(string)
			t, _ := e["t"].(float64)
			s.index.RecordKill(indexdb.KillRow{
				MatchID: m.ID(), TMs: t, Killer: killer, Victim: victim, Weapon: weapon,
			})
		}
	case protocol.EventMatchEnd:
		if s.index != nil {
			result, _ := e["result"].(string)
			winner, _ := e["winner"].(string)
			winnerName := ""
			if a := m.Agent(winner); a != nil {
				winnerName = a.Name
			}
			t, _ := e["t"].(float64)
			s.mu.Lock()
			started, kills, path := s.startedAt, s.kills, s.replayPath
			s.mu.Unlock()
			s.index.RecordMatch(indexdb.MatchRow{
				ID:         m.ID(),
				Seed:       m.Seed(),
				StartedAt:  started.Format(time.RFC3339),
				DurationMs: t,
				Result:     result,
				WinnerID:   winner,
				WinnerName: winnerName,
				TotalKills: kills,
				ReplayPath: path,
			})
		}
		select {
		case s.doneCh <- struct{}{}:
		default:
		}
	}
}

func (s *server) handleMatches(w http.ResponseWriter, r *http.Request) {
	if s.index == nil {
		http.Error(w, `{"error":"index disabled"}`, http.StatusServiceUnavailable)
		return
	}
	rows, err := s.index.RecentMatches(50)
	if err != nil {
		http.Error(w, `{"error":"query failed"}`, http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(rows)
}
