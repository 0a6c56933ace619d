// Package echonest is a client for the Echonest taste profile and playlist
// endpoints.
package echonest

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/goccy/go-json"

	kerrors "github.com/tessro/kodictl/internal/errors"
	"github.com/tessro/kodictl/internal/logging"
)

// Status codes carried in the response envelope.
const (
	StatusSuccess      = 0
	StatusInvalidKey   = 1
	StatusAccessDenied = 2
	StatusRateLimited  = 3
	StatusMissingParam = 4
	StatusInvalidParam = 5
)

// Client calls the Echonest v4 API.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// New creates a client for baseURL authenticated with apiKey.
func New(baseURL, apiKey string) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

// Status is the status block of every response.
type Status struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Version string `json:"version"`
}

// APIError is a non-success response.
type APIError struct {
	Endpoint   string
	HTTPStatus int
	Status     Status
}

func (e *APIError) Error() string {
	if e.Status.Message != "" {
		return fmt.Sprintf("echonest %s: status %d: %s", e.Endpoint, e.Status.Code, e.Status.Message)
	}
	return fmt.Sprintf("echonest %s: HTTP %d", e.Endpoint, e.HTTPStatus)
}

// Unwrap maps well-known status codes to sentinel errors.
func (e *APIError) Unwrap() error {
	switch {
	case e.Status.Code == StatusRateLimited || e.HTTPStatus == http.StatusTooManyRequests:
		return kerrors.ErrRateLimited
	case e.Status.Code == StatusInvalidKey || e.Status.Code == StatusAccessDenied:
		return kerrors.ErrUnauthorized
	}
	return nil
}

// IsNotFound reports whether the error means the requested object does not exist.
func (e *APIError) IsNotFound() bool {
	return e.HTTPStatus == http.StatusBadRequest || e.Status.Code == StatusInvalidParam
}

type envelope struct {
	Response json.RawMessage `json:"response"`
}

type statusOnly struct {
	Status Status `json:"status"`
}

// get issues a GET to endpoint with params and decodes the response object into out.
func (c *Client) get(ctx context.Context, endpoint string, params url.Values, out any) error {
	q := c.query(params)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/"+endpoint+"?"+q.Encode(), nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	return c.do(req, endpoint, out)
}

// post issues a multipart POST carrying fields as form parts.
func (c *Client) post(ctx context.Context, endpoint string, fields url.Values, out any) error {
	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	for k, vs := range fields {
		for _, v := range vs {
			if err := w.WriteField(k, v); err != nil {
				return fmt.Errorf("failed to encode form: %w", err)
			}
		}
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("failed to encode form: %w", err)
	}

	q := c.query(nil)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/"+endpoint+"?"+q.Encode(), &body)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", w.FormDataContentType())
	return c.do(req, endpoint, out)
}

func (c *Client) query(params url.Values) url.Values {
	q := url.Values{}
	for k, vs := range params {
		q[k] = append([]string(nil), vs...)
	}
	q.Set("api_key", c.apiKey)
	q.Set("format", "json")
	return q
}

func (c *Client) do(req *http.Request, endpoint string, out any) error {
	log := logging.Ctx(req.Context())
	log.Debug().Str("endpoint", endpoint).Str("method", req.Method).Msg("echonest request")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("echonest %s: %w: %v", endpoint, kerrors.ErrNetworkError, err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("echonest %s: failed to read response: %w", endpoint, err)
	}
	log.Debug().Int("status", resp.StatusCode).Int("bytes", len(body)).Msg("echonest response")

	apiErr := &APIError{Endpoint: endpoint, HTTPStatus: resp.StatusCode}

	var env envelope
	if err := json.Unmarshal(body, &env); err != nil || len(env.Response) == 0 {
		if resp.StatusCode >= 300 {
			return apiErr
		}
		return fmt.Errorf("echonest %s: malformed response: %s", endpoint, truncate(body, 200))
	}

	var st statusOnly
	if err := json.Unmarshal(env.Response, &st); err != nil {
		return fmt.Errorf("echonest %s: malformed status: %w", endpoint, err)
	}
	apiErr.Status = st.Status
	if resp.StatusCode >= 300 || st.Status.Code != StatusSuccess {
		return apiErr
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(env.Response, out); err != nil {
		return fmt.Errorf("echonest %s: failed to parse response: %w", endpoint, err)
	}
	return nil
}

func truncate(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return string(b[:n]) + "..."
}
