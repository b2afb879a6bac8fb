package indexdb

import (
	"path/filepath"
	"testing"
)

func openTestIndex(t *testing.T) *SQLiteIndex {
	t.Helper()
	s, err := OpenSQLite(filepath.Join(t.TempDir(), "index.db"))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestRecordAndQueryMatches(t *testing.T) {
	s := openTestIndex(t)

	s.RecordMatch(MatchRow{
		ID: "m-1", Seed: 42, StartedAt: "2026-08-27T10:00:00Z",
		DurationMs: 95000, Result: "victory", WinnerID: "A03",
		WinnerName: "TITAN", TotalKills: 5, ReplayPath: "replays/m-1.jsonl.zst",
	})
	s.RecordMatch(MatchRow{
		ID: "m-2", Seed: 43, StartedAt: "2026-08-27T11:00:00Z",
		DurationMs: 180000, Result: "victory", WinnerID: "A01",
		WinnerName: "PHANTOM", TotalKills: 2, ReplayPath: "replays/m-2.jsonl.zst",
	})
	s.Flush()

	// Flush guarantees the rows have landed; no polling needed.
	rows, err := s.RecentMatches(10)
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows after flush, got %d", len(rows))
	}
	if rows[0].ID != "m-2" {
		t.Fatalf("most recent first, got %s", rows[0].ID)
	}
	if rows[1].WinnerName != "TITAN" || rows[1].TotalKills != 5 {
		t.Fatalf("row mismatch: %+v", rows[1])
	}

	// Re-recording the same match id replaces the row.
	s.RecordMatch(MatchRow{
		ID: "m-2", Seed: 43, StartedAt: "2026-08-27T11:00:00Z",
		Result: "victory", WinnerID: "A05", WinnerName: "WRAITH",
	})
	s.Flush()
	rows, err = s.RecentMatches(10)
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(rows) != 2 || rows[0].WinnerName != "WRAITH" {
		t.Fatalf("replace failed: %+v", rows)
	}
}

func TestRecordAndQueryKills(t *testing.T) {
	s := openTestIndex(t)

	s.RecordKill(KillRow{MatchID: "m-1", TMs: 42000, Killer: "A01", Victim: "A02", Weapon: "plasma"})
	s.RecordKill(KillRow{MatchID: "m-1", TMs: 9000, Killer: "A03", Victim: "A04", Weapon: "railgun"})
	s.RecordKill(KillRow{MatchID: "m-9", TMs: 1000, Killer: "A05", Victim: "A06", Weapon: "beam"})
	s.Flush()

	kills, err := s.MatchKills("m-1")
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(kills) != 2 {
		t.Fatalf("expected 2 kills after flush, got %d", len(kills))
	}
	if kills[0].TMs != 9000 || kills[1].TMs != 42000 {
		t.Fatalf("kills must come back in clock order: %+v", kills)
	}
	if kills[0].Weapon != "railgun" {
		t.Fatalf("kill row mismatch: %+v", kills[0])
	}
}

func TestWritesAfterCloseAreDropped(t *testing.T) {
	s, err := OpenSQLite(filepath.Join(t.TempDir(), "index.db"))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	// Must not panic on the closed channel.
	s.RecordMatch(MatchRow{ID: "m-x"})
	s.RecordKill(KillRow{MatchID: "m-x"})
	s.Flush()
	if err := s.Close(); err != nil {
		t.Fatalf("double close: %v", err)
	}
}
