package signal

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"fundflow/internal/apperrors"
	"fundflow/internal/logging"
)

const userAgent = "fundflow/0.3"

// maxBodyBytes bounds how much of a response we are willing to read.
// Forensic scrapes hit arbitrary sites; a page larger than this is not a
// project homepage.
const maxBodyBytes = 4 << 20

// Client is the shared HTTP helper behind every adapter. Each call carries
// its own timeout; non-2xx statuses and decode errors come back as
// apperrors so adapters can map them onto result statuses.
type Client struct {
	http   *http.Client
	logger *logging.Logger
}

// NewClient builds a client with a per-call timeout
func NewClient(timeout time.Duration, logger *logging.Logger) *Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		http:   &http.Client{Timeout: timeout},
		logger: logger,
	}
}

func (c *Client) do(ctx context.Context, rawURL string, query url.Values, headers map[string]string) (*http.Response, error) {
	if len(query) > 0 {
		u, err := url.Parse(rawURL)
		if err != nil {
			return nil, apperrors.Wrap(apperrors.TransportFailure, "invalid request URL", err)
		}
		q := u.Query()
		for k, vs := range query {
			for _, v := range vs {
				q.Add(k, v)
			}
		}
		u.RawQuery = q.Encode()
		rawURL = u.String()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.TransportFailure, "failed to build request", err)
	}
	req.Header.Set("User-Agent", userAgent)
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.TransportFailure, "request failed", err)
	}
	return resp, nil
}

// GetJSON performs a GET and decodes the JSON body into out.
// 429 maps to RATE_LIMITED, 404 to NOT_FOUND, other non-2xx to
// TRANSPORT_FAILURE.
func (c *Client) GetJSON(ctx context.Context, rawURL string, query url.Values, headers map[string]string, out interface{}) error {
	resp, err := c.do(ctx, rawURL, query, headers)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusTooManyRequests:
		return apperrors.New(apperrors.RateLimited, fmt.Sprintf("rate limited by %s", resp.Request.URL.Host))
	case resp.StatusCode == http.StatusNotFound:
		return apperrors.New(apperrors.NotFound, fmt.Sprintf("%s returned 404", resp.Request.URL.Host))
	case resp.StatusCode < 200 || resp.StatusCode >= 300:
		return apperrors.New(apperrors.TransportFailure, fmt.Sprintf("%s returned status %d", resp.Request.URL.Host, resp.StatusCode))
	}

	body := io.LimitReader(resp.Body, maxBodyBytes)
	if err := json.NewDecoder(body).Decode(out); err != nil {
		return apperrors.Wrap(apperrors.TransportFailure, "malformed response body", err)
	}
	return nil
}

// GetHTML performs a GET and returns the raw body for page parsing
func (c *Client) GetHTML(ctx context.Context, rawURL string) ([]byte, error) {
	resp, err := c.do(ctx, rawURL, nil, nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, apperrors.New(apperrors.TransportFailure, fmt.Sprintf("%s returned status %d", resp.Request.URL.Host, resp.StatusCode))
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, apperrors.Wrap(apperrors.TransportFailure, "failed to read response body", err)
	}
	return data, nil
}
