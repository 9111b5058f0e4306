package integration

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// URLStatus is what a HEAD request learned about a stored document URL.
type URLStatus struct {
	Reachable     bool   `json:"accesible"`
	StatusCode    int    `json:"codigo_estado"`
	ContentType   string `json:"content_type"`
	ContentLength int64  `json:"content_length"`
	IsPDF         bool   `json:"es_pdf"`
	Warning       string `json:"advertencia,omitempty"`
}

type URLChecker interface {
	Check(ctx context.Context, rawURL string) (*URLStatus, error)
}

type httpURLChecker struct {
	client *http.Client
	logger zerolog.Logger
}

func NewURLChecker(timeout time.Duration, logger zerolog.Logger) URLChecker {
	return &httpURLChecker{
		client: &http.Client{
			Timeout: timeout,
		},
		logger: logger,
	}
}

// ValidateURL requires an absolute http(s) URL with a host.
func ValidateURL(rawURL string) error {
	u, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("invalid URL: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("invalid URL scheme %q", u.Scheme)
	}
	if u.Host == "" {
		return fmt.Errorf("URL has no host")
	}
	return nil
}

// Check issues a HEAD request following redirects. A transport failure is
// returned as an error; any HTTP answer, including 4xx/5xx, is a status.
func (c *httpURLChecker) Check(ctx context.Context, rawURL string) (*URLStatus, error) {
	if err := ValidateURL(rawURL); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodHead, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		c.logger.Warn().Err(err).Str("url", rawURL).Msg("URL check failed")
		return nil, fmt.Errorf("failed to reach URL: %w", err)
	}
	defer resp.Body.Close()

	contentType := resp.Header.Get("Content-Type")
	status := &URLStatus{
		Reachable:     resp.StatusCode == http.StatusOK,
		StatusCode:    resp.StatusCode,
		ContentType:   contentType,
		ContentLength: resp.ContentLength,
		IsPDF:         strings.Contains(strings.ToLower(contentType), "pdf"),
	}
	if status.ContentLength < 0 {
		status.ContentLength = 0
	}
	if status.Reachable && !status.IsPDF {
		status.Warning = "the file may not be a valid PDF"
	}

	c.logger.Debug().
		Str("url", rawURL).
		Int("status", resp.StatusCode).
		Str("content_type", contentType).
		Msg("URL checked")

	return status, nil
}
