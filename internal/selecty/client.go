// Package selecty is a read-only client for the Selecty ATS vacancy API.
package selecty

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"vagas-go/internal/config"
	"vagas-go/internal/vagas"
)

// ErrNoToken is returned when no API token is configured.
var ErrNoToken = errors.New("selecty token not configured (set VAGAS_ATS_TOKEN or ats.token)")

// statusError is a non-200 response.
type statusError struct {
	code int
	body string
}

func (e *statusError) Error() string {
	if e.body == "" {
		return fmt.Sprintf("unexpected status: %d", e.code)
	}
	return fmt.Sprintf("unexpected status: %d: %s", e.code, e.body)
}

// retryable reports whether another attempt may succeed.
func (e *statusError) retryable() bool {
	return e.code == http.StatusTooManyRequests || e.code >= 500
}

// Client implements vagas.JobDirectory against Selecty.
type Client struct {
	httpClient     *http.Client
	baseURL        string
	token          string
	maxAttempts    int
	initialBackoff time.Duration
	maxBackoff     time.Duration
	logger         vagas.Logger
}

var _ vagas.JobDirectory = (*Client)(nil)

// New creates a client from the ats config section.
func New(cfg config.ATSConfig, logger vagas.Logger) *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: cfg.Timeout.Duration,
		},
		baseURL:        cfg.BaseURL,
		token:          cfg.Token,
		maxAttempts:    max(1, cfg.MaxAttempts),
		initialBackoff: cfg.InitialBackoff.Duration,
		maxBackoff:     cfg.MaxBackoff.Duration,
		logger:         logger,
	}
}

// ListJobs fetches the 100 most recent active vacancies.
func (c *Client) ListJobs(ctx context.Context) ([]vagas.JobPosting, error) {
	q := url.Values{}
	q.Set("sort", "-creation_date")
	q.Set("per_page", "100")
	q.Set("status", "active")

	body, err := c.get(ctx, "/vacancy?"+q.Encode())
	if err != nil {
		return nil, fmt.Errorf("listing vacancies: %w", err)
	}

	items, err := decodeList(body)
	if err != nil {
		return nil, fmt.Errorf("listing vacancies: %w", err)
	}

	jobs := make([]vagas.JobPosting, 0, len(items))
	for _, v := range items {
		j := v.posting()
		if j.ID == "" {
			c.logger.Warn("skipping vacancy without id", "title", j.Title)
			continue
		}
		jobs = append(jobs, j)
	}
	c.logger.Debug("vacancies fetched", "count", len(jobs))
	return jobs, nil
}

// GetJob fetches a single vacancy. Unknown IDs return vagas.ErrNotFound.
func (c *Client) GetJob(ctx context.Context, id string) (*vagas.JobPosting, error) {
	body, err := c.get(ctx, "/vacancy/"+url.PathEscape(id))
	if err != nil {
		var se *statusError
		if errors.As(err, &se) && se.code == http.StatusNotFound {
			return nil, fmt.Errorf("vacancy %s: %w", id, vagas.ErrNotFound)
		}
		return nil, fmt.Errorf("fetching vacancy %s: %w", id, err)
	}

	var v vacancy
	if err := json.Unmarshal(body, &v); err != nil {
		return nil, fmt.Errorf("decode vacancy %s: %w", id, err)
	}
	if v.Error {
		msg := string(v.Message)
		if msg == "" {
			msg = "vaga não encontrada"
		}
		return nil, fmt.Errorf("vacancy %s: %s: %w", id, msg, vagas.ErrNotFound)
	}

	j := v.posting()
	if j.ID == "" {
		j.ID = id
	}
	return &j, nil
}

func decodeList(body []byte) ([]vacancy, error) {
	body = bytes.TrimSpace(body)
	if len(body) > 0 && body[0] == '[' {
		var items []vacancy
		if err := json.Unmarshal(body, &items); err != nil {
			return nil, fmt.Errorf("decode response: %w", err)
		}
		return items, nil
	}

	var env listEnvelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	if env.Data != nil {
		return env.Data, nil
	}
	return env.Items, nil
}

// get performs a GET with retries on transport errors, 429 and 5xx.
func (c *Client) get(ctx context.Context, path string) ([]byte, error) {
	if c.token == "" {
		return nil, ErrNoToken
	}

	var body []byte
	var err error

	for attempt := 1; attempt <= c.maxAttempts; attempt++ {
		body, err = c.doRequest(ctx, c.baseURL+path)
		if err == nil {
			return body, nil
		}

		var se *statusError
		if errors.As(err, &se) && !se.retryable() {
			return nil, err
		}
		if attempt == c.maxAttempts || ctx.Err() != nil {
			break
		}

		backoff := c.calculateBackoff(attempt)
		c.logger.Warn("request failed, retrying",
			"attempt", attempt,
			"backoff", backoff,
			"error", err,
		)

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(backoff):
		}
	}

	if c.maxAttempts == 1 {
		return nil, err
	}
	return nil, fmt.Errorf("after %d attempts: %w", c.maxAttempts, err)
}

func (c *Client) doRequest(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("User-Agent", "vagas-go/1.0")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 16<<20))
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, &statusError{code: resp.StatusCode, body: snippet(body)}
	}
	return body, nil
}

func (c *Client) calculateBackoff(attempt int) time.Duration {
	backoff := c.initialBackoff
	for i := 1; i < attempt; i++ {
		backoff *= 2
	}
	if backoff > c.maxBackoff {
		backoff = c.maxBackoff
	}
	return backoff
}

func snippet(body []byte) string {
	const limit = 200
	s := string(bytes.TrimSpace(body))
	if len(s) > limit {
		s = s[:limit] + "..."
	}
	return s
}
