package rpc

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/goccy/go-json"

	"github.com/tessro/kodictl/internal/logging"
)

// HTTPTransport posts each request to Kodi's /jsonrpc endpoint.
type HTTPTransport struct {
	url        string
	user       string
	password   string
	httpClient *http.Client
}

// NewHTTPTransport creates a transport for http://host:port/jsonrpc.
func NewHTTPTransport(host string, port int, user, password string, timeout time.Duration) *HTTPTransport {
	return &HTTPTransport{
		url:        fmt.Sprintf("http://%s/jsonrpc", net.JoinHostPort(host, fmt.Sprint(port))),
		user:       user,
		password:   password,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// Call implements Transport.
func (t *HTTPTransport) Call(ctx context.Context, req *Request) (*Response, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	logging.Ctx(ctx).Debug().Str("method", req.Method).Str("url", t.url).RawJSON("body", body).Msg("rpc request")

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, t.url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if t.user != "" {
		httpReq.SetBasicAuth(t.user, t.password)
	}

	resp, err := t.httpClient.Do(httpReq)
	if err != nil {
		return nil, classifyNetError("POST "+t.url, err)
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &TransportError{Op: "read response", Err: err, Retryable: true}
	}

	logging.Ctx(ctx).Debug().Int("status", resp.StatusCode).Int("bytes", len(respBody)).Msg("rpc response")

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return nil, &TransportError{
			Op:  "POST " + t.url,
			Err: fmt.Errorf("status %d: check kodi.user and kodi.password", resp.StatusCode),
		}
	case resp.StatusCode >= 500:
		return nil, &TransportError{
			Op:        "POST " + t.url,
			Err:       fmt.Errorf("status %d", resp.StatusCode),
			Retryable: true,
		}
	case resp.StatusCode >= 400:
		return nil, &TransportError{
			Op:  "POST " + t.url,
			Err: fmt.Errorf("status %d: %s", resp.StatusCode, string(respBody)),
		}
	}

	var out Response
	if err := json.Unmarshal(respBody, &out); err != nil {
		return nil, &TransportError{Op: "decode response", Err: err, Retryable: true}
	}
	return &out, nil
}

// Close implements Transport.
func (t *HTTPTransport) Close() error {
	t.httpClient.CloseIdleConnections()
	return nil
}

// classifyNetError marks timeouts and refused connections as retryable and
// name resolution failures as fatal.
func classifyNetError(op string, err error) error {
	if errors.Is(err, context.Canceled) {
		return err
	}
	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) && !dnsErr.IsTimeout && !dnsErr.IsTemporary {
		return &TransportError{Op: op, Err: err}
	}
	return &TransportError{Op: op, Err: err, Retryable: true}
}
