package enrich

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog/log"
)

// ---------------------------------------------------------------------------
// Enrichment collaborators — optional network calls. A timeout or failure
// here never fails an analysis; the caller falls back to local assignment.
// ---------------------------------------------------------------------------

// Summary is the stat bundle sent to the generative collaborator.
type Summary struct {
	Address           string   `json:"address"`
	SurveillanceScore int      `json:"surveillance_score"`
	DegenScore        int      `json:"degen_score"`
	RiskLevel         string   `json:"risk_level"`
	NetWorthUSD       string   `json:"net_worth_usd"`
	TotalTransactions int      `json:"total_transactions"`
	SwapCount         int      `json:"swap_count"`
	MistakeTypes      []string `json:"mistake_types"`
	CEXNames          []string `json:"cex_names"`
}

// RoastProvider produces the free-text roast/personality/verdict block.
type RoastProvider interface {
	Roast(ctx context.Context, s Summary) (string, error)
}

// SocialSearcher returns the count of public mentions for an address.
type SocialSearcher interface {
	Mentions(ctx context.Context, address string) (int, error)
}

const breakerThreshold = 5

// RoastClient calls the generative-text collaborator over HTTP.
type RoastClient struct {
	endpoint   string
	apiKey     string
	httpClient *http.Client

	consecutiveErrors atomic.Int64
	circuitOpen       atomic.Bool
	callCount         atomic.Int64
	errorCount        atomic.Int64
}

// NewRoastClient creates a roast client. Timeout bounds each call end to end.
func NewRoastClient(endpoint, apiKey string, timeout time.Duration) *RoastClient {
	return &RoastClient{
		endpoint:   endpoint,
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: timeout},
	}
}

type roastRequest struct {
	Summary Summary `json:"summary"`
}

type roastResponse struct {
	Text string `json:"text"`
}

// Roast requests the labeled free-text block. Returns an error on any
// network, status, or decode failure; the caller handles the fallback.
func (c *RoastClient) Roast(ctx context.Context, s Summary) (string, error) {
	if c.circuitOpen.Load() {
		return "", fmt.Errorf("enrich: roast circuit breaker open")
	}
	c.callCount.Add(1)

	body, err := json.Marshal(roastRequest{Summary: s})
	if err != nil {
		return "", fmt.Errorf("enrich: marshal summary: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("enrich: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.recordError()
		return "", fmt.Errorf("enrich: roast request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.recordError()
		return "", fmt.Errorf("enrich: roast status %d", resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	if err != nil {
		c.recordError()
		return "", fmt.Errorf("enrich: read roast body: %w", err)
	}
	var rr roastResponse
	if err := json.Unmarshal(data, &rr); err != nil {
		c.recordError()
		return "", fmt.Errorf("enrich: decode roast body: %w", err)
	}

	c.consecutiveErrors.Store(0)
	return rr.Text, nil
}

func (c *RoastClient) recordError() {
	c.errorCount.Add(1)
	if c.consecutiveErrors.Add(1) >= breakerThreshold && c.circuitOpen.CompareAndSwap(false, true) {
		log.Warn().Str("endpoint", c.endpoint).Msg("roast collaborator circuit breaker opened")
		time.AfterFunc(30*time.Second, func() {
			c.consecutiveErrors.Store(0)
			c.circuitOpen.Store(false)
		})
	}
}
