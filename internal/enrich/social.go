package enrich

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog/log"
)

// SocialClient queries the social-search collaborator for public mentions of
// an address. Purely additive signal: never required for a score.
type SocialClient struct {
	endpoint   string
	httpClient *http.Client

	consecutiveErrors atomic.Int64
	circuitOpen       atomic.Bool
}

// NewSocialClient creates a social search client.
func NewSocialClient(endpoint string, timeout time.Duration) *SocialClient {
	return &SocialClient{
		endpoint:   endpoint,
		httpClient: &http.Client{Timeout: timeout},
	}
}

type socialResponse struct {
	Count int `json:"count"`
}

// Mentions returns the public mention count for an address.
func (c *SocialClient) Mentions(ctx context.Context, address string) (int, error) {
	if c.circuitOpen.Load() {
		return 0, fmt.Errorf("enrich: social circuit breaker open")
	}

	u, err := url.Parse(c.endpoint)
	if err != nil {
		return 0, fmt.Errorf("enrich: parse social endpoint: %w", err)
	}
	q := u.Query()
	q.Set("address", address)
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return 0, fmt.Errorf("enrich: build social request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.recordError()
		return 0, fmt.Errorf("enrich: social request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.recordError()
		return 0, fmt.Errorf("enrich: social status %d", resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, 16<<10))
	if err != nil {
		c.recordError()
		return 0, fmt.Errorf("enrich: read social body: %w", err)
	}
	var sr socialResponse
	if err := json.Unmarshal(data, &sr); err != nil {
		c.recordError()
		return 0, fmt.Errorf("enrich: decode social body: %w", err)
	}

	c.consecutiveErrors.Store(0)
	if sr.Count < 0 {
		return 0, nil
	}
	return sr.Count, nil
}

func (c *SocialClient) recordError() {
	if c.consecutiveErrors.Add(1) >= breakerThreshold && c.circuitOpen.CompareAndSwap(false, true) {
		log.Warn().Str("endpoint", c.endpoint).Msg("social collaborator circuit breaker opened")
		time.AfterFunc(30*time.Second, func() {
			c.consecutiveErrors.Store(0)
			c.circuitOpen.Store(false)
		})
	}
}
