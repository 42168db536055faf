// Package webhook posts résumés to the remote matching workflow.
package webhook

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/spigell/cv-matcher/internal/candidate"
	"go.uber.org/zap"
)

const (
	userAgent = "spigell/cv-matcher"
	// FormField is the multipart part carrying the document.
	FormField = "cv"
	// Max characters of an error body kept in ServerError.
	bodyExcerptLen = 100
	maxLogLength   = 300
)

// Auth describes optional header authentication expected by the webhook.
type Auth struct {
	Header string
	Value  string
}

type Client struct {
	logger     *zap.Logger
	url        string
	HTTPClient *http.Client
	UserAgent  string
	Auth       *Auth
}

// New creates a client for the webhook at rawURL. A zero timeout keeps the
// transport default.
func New(rawURL string, timeout time.Duration, logger *zap.Logger) (*Client, error) {
	rawURL = strings.TrimSpace(rawURL)
	if rawURL == "" {
		return nil, errors.New("webhook url is required")
	}

	parsed, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("parse webhook url: %w", err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return nil, fmt.Errorf("webhook url must be http or https, got %q", rawURL)
	}

	if logger == nil {
		logger = zap.NewNop()
	}

	return &Client{
		logger:     logger,
		url:        parsed.String(),
		HTTPClient: &http.Client{Timeout: timeout},
		UserAgent:  userAgent,
	}, nil
}

// Host returns the webhook host, handy for log fields.
func (c *Client) Host() string {
	parsed, err := url.Parse(c.url)
	if err != nil {
		return ""
	}
	return parsed.Host
}

// Submit uploads the file and returns the decoded JSON payload.
func (c *Client) Submit(ctx context.Context, file *candidate.File, submissionID string) (any, error) {
	if file == nil {
		return nil, candidate.ErrMissing
	}

	body, contentType, err := buildForm(file)
	if err != nil {
		return nil, fmt.Errorf("build form: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, body)
	if err != nil {
		return nil, err
	}

	req = c.setHeaders(req)
	req.Header.Set("Content-Type", contentType)
	if submissionID != "" {
		req.Header.Set("X-Submission-ID", submissionID)
	}

	resp, err := c.request(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	return c.parseResponse(resp)
}
