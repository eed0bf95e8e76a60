// Package persist is the client side of POST /api/save-resume.
package persist

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"resume-builder/internal/domain"
)

// Client posts flattened resumes to a save endpoint.
type Client struct {
	url      string
	client   *http.Client
	attempts int
	backoff  time.Duration
	logger   *slog.Logger
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option { return func(c *Client) { c.client = hc } }

// WithRetry sets how many times a transport failure or 5xx is tried and the
// base of the exponential backoff between tries.
func WithRetry(attempts int, backoff time.Duration) Option {
	return func(c *Client) {
		if attempts > 0 {
			c.attempts = attempts
		}
		c.backoff = backoff
	}
}

func WithLogger(l *slog.Logger) Option { return func(c *Client) { c.logger = l } }

func NewClient(url string, opts ...Option) *Client {
	c := &Client{
		url:      url,
		client:   &http.Client{Timeout: 10 * time.Second},
		attempts: 1,
		backoff:  500 * time.Millisecond,
		logger:   slog.Default(),
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

type saveResponse struct {
	Success  bool   `json:"success"`
	Message  string `json:"message"`
	ResumeID any    `json:"resume_id"`
	Error    string `json:"error"`
}

// errRetryable marks failures worth another attempt.
var errRetryable = errors.New("retryable")

// Save posts p. Every failure comes back as a *domain.CollaboratorError.
func (c *Client) Save(ctx context.Context, p domain.SavePayload) (domain.SaveResult, error) {
	body, err := json.Marshal(p)
	if err != nil {
		return domain.SaveResult{}, &domain.CollaboratorError{Op: "save resume", Err: fmt.Errorf("marshaling request: %w", err)}
	}

	var lastErr error
	for i := 0; i < c.attempts; i++ {
		res, err := c.post(ctx, body)
		if err == nil {
			return res, nil
		}
		lastErr = err
		if !errors.Is(err, errRetryable) || i == c.attempts-1 {
			break
		}
		c.logger.Warn("save attempt failed", "attempt", i+1, "error", err)
		select {
		case <-time.After(c.backoff * time.Duration(1<<i)):
		case <-ctx.Done():
			return domain.SaveResult{}, &domain.CollaboratorError{Op: "save resume", Err: ctx.Err()}
		}
	}
	return domain.SaveResult{}, &domain.CollaboratorError{Op: "save resume", Err: lastErr}
}

func (c *Client) post(ctx context.Context, body []byte) (domain.SaveResult, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return domain.SaveResult{}, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return domain.SaveResult{}, err
		}
		return domain.SaveResult{}, fmt.Errorf("%w: %v", errRetryable, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return domain.SaveResult{}, fmt.Errorf("%w: reading response: %v", errRetryable, err)
	}

	var sr saveResponse
	decodeErr := json.Unmarshal(raw, &sr)
	switch {
	case resp.StatusCode >= 500:
		msg := sr.Error
		if decodeErr != nil || msg == "" {
			msg = http.StatusText(resp.StatusCode)
		}
		return domain.SaveResult{}, fmt.Errorf("%w: API error %d: %s", errRetryable, resp.StatusCode, msg)
	case decodeErr != nil:
		return domain.SaveResult{}, fmt.Errorf("decoding response: %w", decodeErr)
	case resp.StatusCode >= 400 || !sr.Success:
		msg := sr.Error
		if msg == "" {
			msg = sr.Message
		}
		return domain.SaveResult{}, fmt.Errorf("API error %d: %s", resp.StatusCode, msg)
	}

	out := domain.SaveResult{Success: true, Message: sr.Message}
	if sr.ResumeID != nil {
		out.ResumeID = fmt.Sprint(sr.ResumeID)
	}
	return out, nil
}
