// Package narrative provides the HTTP client for the external narrative
// service that turns twin states into free-text analysis, plus the prompt
// builders the twin service feeds it. Narration is advisory: every caller
// substitutes a deterministic fallback when the service is down, and the
// returned text never feeds back into engine state.
package narrative

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/sirupsen/logrus"
	"github.com/sony/gobreaker"
	"golang.org/x/time/rate"

	"github.com/healthtwin-engine/internal/domain"
)

// Config represents configuration for the narrative client
type Config struct {
	BaseURL          string        `json:"base_url"`
	APIKey           string        `json:"api_key"`
	Model            string        `json:"model"`
	Timeout          time.Duration `json:"timeout"`
	RateLimit        int           `json:"rate_limit"` // requests per second
	Burst            int           `json:"burst"`
	MaxRetries       int           `json:"max_retries"`
	FailureThreshold uint32        `json:"failure_threshold"` // requests before the breaker may trip
	CacheSize        int           `json:"cache_size"`
	CacheTTL         time.Duration `json:"cache_ttl"`
}

// Client calls the narrative service with rate limiting, a circuit
// breaker, bounded retries, and an expiring response cache keyed by
// prompt hash.
type Client struct {
	baseURL    string
	apiKey     string
	model      string
	httpClient *http.Client
	limiter    *rate.Limiter
	breaker    *gobreaker.CircuitBreaker
	cache      *expirable.LRU[string, string]
	maxRetries int
	logger     *logrus.Logger
}

var _ domain.Narrator = (*Client)(nil)

// NewClient creates a new narrative service client
func NewClient(config Config, logger *logrus.Logger) *Client {
	if config.Timeout == 0 {
		config.Timeout = 30 * time.Second
	}
	if config.RateLimit == 0 {
		config.RateLimit = 2
	}
	if config.Burst == 0 {
		config.Burst = 1
	}
	if config.MaxRetries == 0 {
		config.MaxRetries = 3
	}
	if config.FailureThreshold == 0 {
		config.FailureThreshold = 3
	}
	if config.CacheSize == 0 {
		config.CacheSize = 256
	}
	if config.CacheTTL == 0 {
		config.CacheTTL = 15 * time.Minute
	}

	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "narrative",
		MaxRequests: 5,
		Interval:    30 * time.Second,
		Timeout:     60 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return counts.Requests >= config.FailureThreshold && failureRatio >= 0.6
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			logger.WithFields(logrus.Fields{
				"breaker": name,
				"from":    from.String(),
				"to":      to.String(),
			}).Warn("Circuit breaker state changed")
		},
	})

	return &Client{
		baseURL: config.BaseURL,
		apiKey:  config.APIKey,
		model:   config.Model,
		httpClient: &http.Client{
			Timeout: config.Timeout,
		},
		limiter:    rate.NewLimiter(rate.Limit(config.RateLimit), config.Burst),
		breaker:    breaker,
		cache:      expirable.NewLRU[string, string](config.CacheSize, nil, config.CacheTTL),
		maxRetries: config.MaxRetries,
		logger:     logger,
	}
}

type narrateRequest struct {
	Model  string `json:"model,omitempty"`
	Prompt string `json:"prompt"`
}

type narrateResponse struct {
	Text string `json:"text"`
}

// Narrate sends a prompt to the narrative service and returns its text.
// Identical prompts within the cache TTL are served from memory without
// touching the service.
func (c *Client) Narrate(ctx context.Context, prompt string) (string, error) {
	key := promptHash(prompt)
	if text, ok := c.cache.Get(key); ok {
		c.logger.WithField("prompt_hash", key[:12]).Debug("Narrative served from cache")
		return text, nil
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return "", fmt.Errorf("rate limit wait failed: %w", err)
	}

	result, err := c.breaker.Execute(func() (interface{}, error) {
		return c.narrateWithRetry(ctx, prompt)
	})
	if err != nil {
		if err == gobreaker.ErrOpenState || err == gobreaker.ErrTooManyRequests {
			return "", fmt.Errorf("%w: circuit breaker open", domain.ErrNarrativeUnavailable)
		}
		return "", err
	}

	text := result.(string)
	c.cache.Add(key, text)
	return text, nil
}

// narrateWithRetry performs the request with exponential backoff on 429
// and 5xx responses.
func (c *Client) narrateWithRetry(ctx context.Context, prompt string) (string, error) {
	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if attempt > 0 {
			backoff := time.Duration(1<<(attempt-1)) * 500 * time.Millisecond
			select {
			case <-time.After(backoff):
			case <-ctx.Done():
				return "", ctx.Err()
			}
			c.logger.WithFields(logrus.Fields{
				"attempt": attempt,
				"backoff": backoff,
			}).Debug("Retrying narrative request")
		}

		text, retryable, err := c.doNarrate(ctx, prompt)
		if err == nil {
			return text, nil
		}
		lastErr = err
		if !retryable {
			return "", err
		}
	}
	return "", fmt.Errorf("narrative request failed after %d retries: %w", c.maxRetries, lastErr)
}

func (c *Client) doNarrate(ctx context.Context, prompt string) (text string, retryable bool, err error) {
	payload, err := json.Marshal(narrateRequest{Model: c.model, Prompt: prompt})
	if err != nil {
		return "", false, fmt.Errorf("encoding narrative request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/narrate", bytes.NewReader(payload))
	if err != nil {
		return "", false, fmt.Errorf("building narrative request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", true, fmt.Errorf("calling narrative service: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", true, fmt.Errorf("reading narrative response: %w", err)
	}

	switch {
	case resp.StatusCode == http.StatusOK:
	case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500:
		return "", true, fmt.Errorf("narrative service returned status %d", resp.StatusCode)
	default:
		return "", false, fmt.Errorf("narrative service returned status %d: %s", resp.StatusCode, string(body))
	}

	var parsed narrateResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", false, fmt.Errorf("decoding narrative response: %w", err)
	}
	if parsed.Text == "" {
		return "", false, fmt.Errorf("narrative service returned an empty text")
	}
	return parsed.Text, false, nil
}

func promptHash(prompt string) string {
	sum := sha256.Sum256([]byte(prompt))
	return hex.EncodeToString(sum[:])
}
