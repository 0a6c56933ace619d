// Package rpc implements the Kodi JSON-RPC 2.0 wire protocol over HTTP, raw
// TCP and WebSocket connections.
package rpc

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"

	"github.com/goccy/go-json"
)

// Version is the JSON-RPC protocol version sent with every request.
const Version = "2.0"

// Transport sends a request and waits for the matching response.
type Transport interface {
	Call(ctx context.Context, req *Request) (*Response, error)
	Close() error
}

// Request is a JSON-RPC request envelope.
type Request struct {
	JSONRPC string `json:"jsonrpc"`
	Method  string `json:"method"`
	Params  any    `json:"params,omitempty"`
	ID      int64  `json:"id"`
}

// Response is a JSON-RPC response envelope. Notifications pushed by the
// server carry a method and no id.
type Response struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      *int64          `json:"id,omitempty"`
	Method  string          `json:"method,omitempty"`
	Result  json.RawMessage `json:"result,omitempty"`
	Error   *Error          `json:"error,omitempty"`
}

// IsNotification reports whether the message is a server push rather than a reply.
func (r *Response) IsNotification() bool {
	return r.ID == nil && r.Method != ""
}

var nextID atomic.Int64

// NewRequest builds a request with a fresh id.
func NewRequest(method string, params any) *Request {
	return &Request{
		JSONRPC: Version,
		Method:  method,
		Params:  params,
		ID:      nextID.Add(1),
	}
}

// Error is a JSON-RPC error object returned by the server.
type Error struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data,omitempty"`
}

func (e *Error) Error() string {
	return fmt.Sprintf("kodi error %d: %s", e.Code, e.Message)
}

// ShapeError reports a response that lacks an expected key. A server still
// scanning its library answers this way, so callers may retry.
type ShapeError struct {
	Method string
	Key    string
}

func (e *ShapeError) Error() string {
	return fmt.Sprintf("%s: response missing %q", e.Method, e.Key)
}

// TransportError wraps a network-level failure.
type TransportError struct {
	Op        string
	Err       error
	Retryable bool
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// IsRetryable reports whether err is worth another attempt.
func IsRetryable(err error) bool {
	var shapeErr *ShapeError
	if errors.As(err, &shapeErr) {
		return true
	}
	var tErr *TransportError
	if errors.As(err, &tErr) {
		return tErr.Retryable
	}
	return false
}

// Decode unmarshals result[key] of resp into out. A missing result or key
// yields a *ShapeError; a server error object is returned as *Error.
func Decode(method string, resp *Response, key string, out any) error {
	if resp.Error != nil {
		return resp.Error
	}
	if len(resp.Result) == 0 || string(resp.Result) == "null" {
		return &ShapeError{Method: method, Key: "result"}
	}
	if key == "" {
		if out == nil {
			return nil
		}
		if err := json.Unmarshal(resp.Result, out); err != nil {
			return fmt.Errorf("%s: failed to parse result: %w", method, err)
		}
		return nil
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(resp.Result, &fields); err != nil {
		return &ShapeError{Method: method, Key: key}
	}
	raw, ok := fields[key]
	if !ok {
		return &ShapeError{Method: method, Key: key}
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("%s: failed to parse %q: %w", method, key, err)
	}
	return nil
}
