package arena

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"tokenarena.gg/internal/protocol"
)

// Strategist is the opaque reasoning service: it turns an agent summary into
// a free-text strategy rationale. Calls are dispatched off the tick path and
// any failure is replaced by a deterministic heuristic.
type Strategist interface {
	Explain(ctx context.Context, sum StrategySummary) (string, error)
}

type RunnerConfig struct {
	// How often a strategy line is requested per agent.
	ReasonEveryMs float64
	// Per-call budget for the reasoning service.
	ReasonTimeout time.Duration
}

func (c *RunnerConfig) applyDefaults() {
	if c.ReasonEveryMs <= 0 {
		c.ReasonEveryMs = 8000
	}
	if c.ReasonTimeout <= 0 {
		c.ReasonTimeout = 3 * time.Second
	}
}

type attachReq struct {
	id   string
	resp chan chan []byte
}

type reasonResult struct {
	agentID string
	text    string
}

type ctrlKind int

const (
	ctrlPause ctrlKind = iota
	ctrlResume
	ctrlBegin
	ctrlReset
	ctrlSetRecorder
)

type ctrlMsg struct {
	kind     ctrlKind
	id       string
	seed     int64
	recorder Recorder
}

// Runner owns the match goroutine: a ticker drives Tick, and channels carry
// pilot input, spectator attach/detach, control, and reasoning results.
// Everything is drained at tick boundaries, so the match stays single-writer.
type Runner struct {
	match      *Match
	cfg        RunnerConfig
	strategist Strategist
	logger     *log.Logger

	interval time.Duration

	input    chan PilotInput
	attach   chan attachReq
	detach   chan string
	ctrl     chan ctrlMsg
	reason   chan reasonResult
	stop     chan struct{}

	spectators map[string]chan []byte
	sink       func(protocol.Event)

	lastReasonMs float64
	inflight     map[string]bool
}

func NewRunner(m *Match, cfg RunnerConfig, strategist Strategist, logger *log.Logger) *Runner {
	cfg.applyDefaults()
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		match:      m,
		cfg:        cfg,
		strategist: strategist,
		logger:     logger,
		interval:   time.Second / time.Duration(m.cfg.TickRateHz),
		input:      make(chan PilotInput, 16),
		attach:     make(chan attachReq),
		detach:     make(chan string),
		ctrl:       make(chan ctrlMsg, 4),
		reason:     make(chan reasonResult, 64),
		stop:       make(chan struct{}),
		spectators: map[string]chan []byte{},
		inflight:   map[string]bool{},
	}
}

func (r *Runner) Match() *Match { return r.match }

// SetEventSink registers a callback invoked on the tick goroutine for every
// emitted event. Must be set before Run; the callback must not block.
func (r *Runner) SetEventSink(fn func(protocol.Event)) { r.sink = fn }

// Run drives the match until the context ends or Stop is called. The match
// is stepped with the wall-clock delta, clamped inside Tick.
func (r *Runner) Run(ctx context.Context) error {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	var pendingInput *PilotInput
	var pendingReason []reasonResult
	last := time.Now()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-r.stop:
			return nil
		case in := <-r.input:
			pendingInput = &in
		case req := <-r.attach:
			out := make(chan []byte, 1)
			r.spectators[req.id] = out
			req.resp <- out
		case id := <-r.detach:
			delete(r.spectators, id)
		case res := <-r.reason:
			pendingReason = append(pendingReason, res)
		case c := <-r.ctrl:
			r.applyCtrl(c)
		case now := <-ticker.C:
			dtMs := float64(now.Sub(last).Microseconds()) / 1000
			last = now

			if pendingInput != nil {
				r.match.SubmitInput(*pendingInput)
				pendingInput = nil
			}
			for _, res := range pendingReason {
				delete(r.inflight, res.agentID)
				r.match.SetRationale(res.agentID, res.text)
			}
			pendingReason = pendingReason[:0]

			events := r.match.Tick(dtMs)
			r.broadcast(events)
			r.maybeRequestReasoning(ctx)
		}
	}
}

func (r *Runner) Stop() { close(r.stop) }

func (r *Runner) SubmitInput(in PilotInput) {
	select {
	case r.input <- in:
	default:
	}
}

// AttachSpectator registers a frame stream. The returned channel drops stale
// frames rather than blocking the tick loop.
func (r *Runner) AttachSpectator(id string) chan []byte {
	req := attachReq{id: id, resp: make(chan chan []byte, 1)}
	select {
	case r.attach <- req:
		return <-req.resp
	case <-r.stop:
		ch := make(chan []byte)
		close(ch)
		return ch
	}
}

func (r *Runner) DetachSpectator(id string) {
	select {
	case r.detach <- id:
	case <-r.stop:
	}
}

func (r *Runner) Begin()  { r.sendCtrl(ctrlMsg{kind: ctrlBegin}) }
func (r *Runner) Pause()  { r.sendCtrl(ctrlMsg{kind: ctrlPause}) }
func (r *Runner) Resume() { r.sendCtrl(ctrlMsg{kind: ctrlResume}) }

// Reset rolls the match over to a new id and seed at the next tick boundary.
func (r *Runner) Reset(id string, seed int64) {
	r.sendCtrl(ctrlMsg{kind: ctrlReset, id: id, seed: seed})
}

// SwapRecorder installs a new recorder at the next tick boundary (used when
// a fresh replay file is opened between matches).
func (r *Runner) SwapRecorder(rec Recorder) {
	r.sendCtrl(ctrlMsg{kind: ctrlSetRecorder, recorder: rec})
}

func (r *Runner) sendCtrl(c ctrlMsg) {
	select {
	case r.ctrl <- c:
	case <-r.stop:
	}
}

func (r *Runner) applyCtrl(c ctrlMsg) {
	switch c.kind {
	case ctrlBegin:
		r.match.Begin()
	case ctrlPause:
		r.match.Pause()
	case ctrlResume:
		r.match.Resume()
	case ctrlReset:
		r.match.Reset(c.id, c.seed)
	case ctrlSetRecorder:
		r.match.SetRecorder(c.recorder)
	}
}

func (r *Runner) broadcast(events []protocol.Event) {
	if r.sink != nil {
		for _, e := range events {
			r.sink(e)
		}
	}
	if len(r.spectators) == 0 {
		return
	}
	frame, err := json.Marshal(r.match.Frame())
	if err != nil {
		return
	}
	for _, out := range r.spectators {
		sendLatest(out, frame)
	}
	for _, e := range events {
		b, err := json.Marshal(protocol.EventMsg{
			Type:            protocol.TypeEvent,
			ProtocolVersion: protocol.Version,
			MatchID:         r.match.ID(),
			Event:           e,
		})
		if err != nil {
			continue
		}
		for _, out := range r.spectators {
			sendLatest(out, b)
		}
	}
}

// maybeRequestReasoning fires one background reasoning call per alive AI
// agent on the configured cadence. Results fold back in on a later tick; a
// failed or missing service falls back to the deterministic heuristic.
func (r *Runner) maybeRequestReasoning(ctx context.Context) {
	m := r.match
	if m.Phase() != PhaseCombat {
		return
	}
	if m.ClockMs()-r.lastReasonMs < r.cfg.ReasonEveryMs {
		return
	}
	r.lastReasonMs = m.ClockMs()

	for _, id := range m.AgentIDs() {
		a := m.Agent(id)
		if a == nil || a.Human || !a.CombatReady() || r.inflight[id] {
			continue
		}
		sum, ok := m.StrategySummaryFor(id)
		if !ok {
			continue
		}
		r.inflight[id] = true
		if r.strategist == nil {
			r.deliverReason(id, HeuristicRationale(sum))
			continue
		}
		go func(id string, sum StrategySummary) {
			cctx, cancel := context.WithTimeout(ctx, r.cfg.ReasonTimeout)
			defer cancel()
			text, err := r.strategist.Explain(cctx, sum)
			if err != nil || text == "" {
				text = HeuristicRationale(sum)
			}
			r.deliverReason(id, text)
		}(id, sum)
	}
}

func (r *Runner) deliverReason(agentID, text string) {
	select {
	case r.reason <- reasonResult{agentID: agentID, text: text}:
	default:
		// Reasoning is best-effort; drop rather than block.
	}
}

// HeuristicRationale is the deterministic fallback strategy line used when
// the reasoning service is unavailable.
func HeuristicRationale(sum StrategySummary) string {
	switch {
	case sum.Retreating:
		return fmt.Sprintf("%s falls back to recover, %d HP left", sum.Name, sum.Health)
	case sum.Tokens < lowBalance:
		return fmt.Sprintf("%s conserves tokens and picks cheap shots", sum.Name)
	case sum.AliveFoes == 1:
		return fmt.Sprintf("%s commits everything to the last duel", sum.Name)
	case sum.TargetID != "":
		return fmt.Sprintf("%s presses the attack on %s with the %s", sum.Name, sum.TargetID, sum.Weapon)
	default:
		return fmt.Sprintf("%s holds position and scans for a target", sum.Name)
	}
}

// sendLatest delivers b without blocking, displacing one stale element when
// the channel is full.
func sendLatest(ch chan []byte, b []byte) {
	select {
	case ch <- b:
		return
	default:
	}
	// Drop one.
	select {
	case <-ch:
	default:
	}
	select {
	case ch <- b:
	default:
	}
}
