package indexdb

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	_ "modernc.org/sqlite"
)

// SQLiteIndex is the match-history read model. Writes go through a single
// background goroutine; the sim never waits on it and dropped rows are
// acceptable (the replay files remain the source of truth).
type SQLiteIndex struct {
	db *sql.DB

	ch   chan req
	wg   sync.WaitGroup
	once sync.Once

	closed atomic.Bool
}

type reqKind int

const (
	reqMatch reqKind = iota + 1
	reqKill
	reqFlush
)

type req struct {
	kind  reqKind
	match MatchRow
	kill  KillRow
	ack   chan struct{}
}

type MatchRow struct {
	ID         string
	Seed       int64
	StartedAt  string
	DurationMs float64
	Result     string
	WinnerID   string
	WinnerName string
	TotalKills int
	ReplayPath string
}

type KillRow struct {
	MatchID string
	TMs     float64
	Killer  string
	Victim  string
	Weapon  string
}

func OpenSQLite(path string) (*SQLiteIndex, error) {
	if path == "" {
		return nil, fmt.Errorf("empty db path")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if err := initPragmas(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	if err := initSchema(db); err != nil {
		_ = db.Close()
		return nil, err
	}

	s := &SQLiteIndex{
		db: db,
		ch: make(chan req, 4096),
	}
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.loop()
	}()
	return s, nil
}

func initPragmas(db *sql.DB) error {
	// WAL is much faster for append-style workloads.
	pragmas := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA synchronous=NORMAL;",
		"PRAGMA busy_timeout=5000;",
		"PRAGMA temp_store=MEMORY;",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			return err
		}
	}
	return nil
}

func initSchema(db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS matches (
			id TEXT PRIMARY KEY,
			seed INTEGER NOT NULL,
			started_at TEXT NOT NULL,
			duration_ms REAL NOT NULL,
			result TEXT NOT NULL,
			winner_id TEXT NOT NULL,
			winner_name TEXT NOT NULL,
			total_kills INTEGER NOT NULL,
			replay_path TEXT NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_matches_started_at ON matches(started_at);`,
		`CREATE TABLE IF NOT EXISTS kills (
			match_id TEXT NOT NULL,
			t_ms REAL NOT NULL,
			killer TEXT NOT NULL,
			victim TEXT NOT NULL,
			weapon TEXT NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_kills_match ON kills(match_id, t_ms);`,
	}
	for _, s := range stmts {
		if _, err := db.Exec(s); err != nil {
			return err
		}
	}
	return nil
}

func (s *SQLiteIndex) Close() error {
	var err error
	s.once.Do(func() {
		s.closed.Store(true)
		close(s.ch)
		s.wg.Wait()
		err = s.db.Close()
	})
	return err
}

// RecordMatch queues a completed-match summary.
func (s *SQLiteIndex) RecordMatch(row MatchRow) {
	if s == nil || s.closed.Load() {
		return
	}
	if row.StartedAt == "" {
		row.StartedAt = time.Now().UTC().Format(time.RFC3339)
	}
	select {
	case s.ch <- req{kind: reqMatch, match: row}:
	default:
	}
}

// RecordKill queues one kill log row.
func (s *SQLiteIndex) RecordKill(row KillRow) {
	if s == nil || s.closed.Load() {
		return
	}
	select {
	case s.ch <- req{kind: reqKill, kill: row}:
	default:
	}
}

func (s *SQLiteIndex) loop() {
	for r := range s.ch {
		switch r.kind {
		case reqMatch:
			_, _ = s.db.Exec(
				`INSERT OR REPLACE INTO matches
				 (id, seed, started_at, duration_ms, result, winner_id, winner_name, total_kills, replay_path)
				 VALUES (?,?,?,?,?,?,?,?,?)`,
				r.match.ID, r.match.Seed, r.match.StartedAt, r.match.DurationMs,
				r.match.Result, r.match.WinnerID, r.match.WinnerName,
				r.match.TotalKills, r.match.ReplayPath,
			)
		case reqKill:
			_, _ = s.db.Exec(
				`INSERT INTO kills (match_id, t_ms, killer, victim, weapon) VALUES (?,?,?,?,?)`,
				r.kill.MatchID, r.kill.TMs, r.kill.Killer, r.kill.Victim, r.kill.Weapon,
			)
		case reqFlush:
			close(r.ack)
		}
	}
}

// Flush blocks until every write queued before the call has been committed,
// by round-tripping a marker through the writer goroutine. Test and shutdown
// helper.
func (s *SQLiteIndex) Flush() {
	if s == nil || s.closed.Load() {
		return
	}
	ack := make(chan struct{})
	s.ch <- req{kind: reqFlush, ack: ack}
	<-ack
}

// RecentMatches returns summaries ordered most recent first.
func (s *SQLiteIndex) RecentMatches(limit int) ([]MatchRow, error) {
	if limit <= 0 || limit > 500 {
		limit = 50
	}
	rows, err := s.db.Query(
		`SELECT id, seed, started_at, duration_ms, result, winner_id, winner_name, total_kills, replay_path
		 FROM matches ORDER BY started_at DESC, id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []MatchRow
	for rows.Next() {
		var m MatchRow
		if err := rows.Scan(&m.ID, &m.Seed, &m.StartedAt, &m.DurationMs, &m.Result,
			&m.WinnerID, &m.WinnerName, &m.TotalKills, &m.ReplayPath); err != nil {
			return out, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

// MatchKills returns the kill log for one match in clock order.
func (s *SQLiteIndex) MatchKills(matchID string) ([]KillRow, error) {
	rows, err := s.db.Query(
		`SELECT match_id, t_ms, killer, victim, weapon FROM kills WHERE match_id = ? ORDER BY t_ms`, matchID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []KillRow
	for rows.Next() {
		var k KillRow
		if err := rows.Scan(&k.MatchID, &k.TMs, &k.Killer, &k.Victim, &k.Weapon); err != nil {
			return out, err
		}
		out = append(out, k)
	}
	return out, rows.Err()
}
