package replay

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/klauspost/compress/zstd"

	"tokenarena.gg/internal/protocol"
	"tokenarena.gg/internal/sim/arena"
)

// Record kinds in a replay file. One JSON object per line, zstd-compressed;
// the header is always the first line.
const (
	KindHeader = "header"
	KindFrame  = "frame"
	KindEvent  = "event"
)

// Header carries everything needed to re-simulate the match: the full match
// config and the roster. Digest-per-frame lets the verifier detect
// divergence.
type Header struct {
	MatchID   string            `json:"match_id"`
	Seed      int64             `json:"seed"`
	Config    arena.MatchConfig `json:"config"`
	Roster    []RosterEntry     `json:"roster"`
	StartedAt string            `json:"started_at"`
}

type RosterEntry struct {
	Name      string  `json:"name"`
	Model     string  `json:"model,omitempty"`
	Archetype string  `json:"archetype"`
	Human     bool    `json:"human,omitempty"`
	Armor     float64 `json:"armor"`
	MemoryKB  int     `json:"memory_kb"`
}

// RosterFromSpecs converts match roster specs into header entries.
func RosterFromSpecs(specs []arena.AgentSpec) []RosterEntry {
	out := make([]RosterEntry, 0, len(specs))
	for _, s := range specs {
		out = append(out, RosterEntry{
			Name:      s.Name,
			Model:     s.Model,
			Archetype: string(s.Archetype),
			Human:     s.Human,
			Armor:     s.Armor,
			MemoryKB:  s.MemoryKB,
		})
	}
	return out
}

// Specs converts header roster entries back into match specs.
func (h Header) Specs() []arena.AgentSpec {
	out := make([]arena.AgentSpec, 0, len(h.Roster))
	for _, r := range h.Roster {
		out = append(out, arena.AgentSpec{
			Name:      r.Name,
			Model:     r.Model,
			Archetype: arena.Archetype(r.Archetype),
			Human:     r.Human,
			Armor:     r.Armor,
			MemoryKB:  r.MemoryKB,
		})
	}
	return out
}

type Record struct {
	Kind   string          `json:"kind"`
	Header *Header         `json:"header,omitempty"`
	Frame  *protocol.Frame `json:"frame,omitempty"`
	Event  protocol.Event  `json:"event,omitempty"`
	Digest string          `json:"digest,omitempty"`
}

// Writer appends replay records to a single zstd-compressed JSONL file. It
// is safe for concurrent use, though the match writes from one goroutine.
type Writer struct {
	mu  sync.Mutex
	f   *os.File
	enc *zstd.Encoder
	w   *bufio.Writer
}

func NewWriter(path string, hdr Header) (*Writer, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return nil, err
	}
	enc, err := zstd.NewWriter(f, zstd.WithEncoderLevel(zstd.SpeedFastest))
	if err != nil {
		_ = f.Close()
		return nil, err
	}
	w := &Writer{f: f, enc: enc, w: bufio.NewWriterSize(enc, 128*1024)}
	if err := w.write(Record{Kind: KindHeader, Header: &hdr}); err != nil {
		_ = w.Close()
		return nil, err
	}
	return w, nil
}

func (w *Writer) WriteFrame(f protocol.Frame, digest string) error {
	return w.write(Record{Kind: KindFrame, Frame: &f, Digest: digest})
}

func (w *Writer) WriteEvent(e protocol.Event) error {
	return w.write(Record{Kind: KindEvent, Event: e})
}

// Recorder-facing methods. Errors are swallowed: the match never blocks or
// fails on persistence.
func (w *Writer) RecordFrame(f protocol.Frame, digest string) { _ = w.WriteFrame(f, digest) }
func (w *Writer) RecordEvent(e protocol.Event)                { _ = w.WriteEvent(e) }

func (w *Writer) write(rec Record) error {
	b, err := json.Marshal(rec)
	if err != nil {
		return err
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.w == nil {
		return fmt.Errorf("replay: writer closed")
	}
	if _, err := w.w.Write(b); err != nil {
		return err
	}
	if err := w.w.WriteByte('\n'); err != nil {
		return err
	}
	return w.w.Flush()
}

func (w *Writer) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	var err error
	if w.w != nil {
		_ = w.w.Flush()
		w.w = nil
	}
	if w.enc != nil {
		err = w.enc.Close()
		w.enc = nil
	}
	if w.f != nil {
		if cerr := w.f.Close(); err == nil {
			err = cerr
		}
		w.f = nil
	}
	return err
}
