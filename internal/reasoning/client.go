// Package reasoning talks to the strategy-rationale service. The service
// returns a one-line free-text rationale for an agent's current situation;
// the sim treats it as a log line only, and the arena runner substitutes a
// deterministic heuristic whenever a call fails.
package reasoning

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"tokenarena.gg/internal/sim/arena"
)

type Config struct {
	Endpoint    string
	HTTPTimeout time.Duration
	MaxTextLen  int
}

// Client implements arena.Strategist over HTTP: POST the summary, get back
// {"text": "..."}.
type Client struct {
	cfg        Config
	httpClient *http.Client
}

func NewClient(cfg Config) (*Client, error) {
	if cfg.Endpoint == "" {
		return nil, fmt.Errorf("reasoning: empty endpoint")
	}
	if cfg.HTTPTimeout <= 0 {
		cfg.HTTPTimeout = 3 * time.Second
	}
	if cfg.MaxTextLen <= 0 {
		cfg.MaxTextLen = 200
	}
	return &Client{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: cfg.HTTPTimeout},
	}, nil
}

type explainResponse struct {
	Text string `json:"text"`
}

func (c *Client) Explain(ctx context.Context, sum arena.StrategySummary) (string, error) {
	body, err := json.Marshal(sum)
	if err != nil {
		return "", err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.Endpoint, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("reasoning: status %d", resp.StatusCode)
	}

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 64*1024))
	if err != nil {
		return "", err
	}
	var out explainResponse
	if err := json.Unmarshal(raw, &out); err != nil {
		return "", fmt.Errorf("reasoning: bad response: %w", err)
	}
	if out.Text == "" {
		return "", fmt.Errorf("reasoning: empty text")
	}
	if len(out.Text) > c.cfg.MaxTextLen {
		out.Text = out.Text[:c.cfg.MaxTextLen]
	}
	return out.Text, nil
}
