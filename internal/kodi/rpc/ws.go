package rpc

import (
	"context"
	"fmt"
	"net"
	"sync"
	"time"

	"github.com/coder/websocket"
	"github.com/goccy/go-json"

	"github.com/tessro/kodictl/internal/logging"
)

// WSTransport carries one JSON-RPC message per WebSocket text frame.
type WSTransport struct {
	url     string
	timeout time.Duration

	mu   sync.Mutex
	conn *websocket.Conn
}

// NewWSTransport creates a transport for ws://host:port/jsonrpc.
func NewWSTransport(host string, port int, timeout time.Duration) *WSTransport {
	return &WSTransport{
		url:     fmt.Sprintf("ws://%s/jsonrpc", net.JoinHostPort(host, fmt.Sprint(port))),
		timeout: timeout,
	}
}

// Call implements Transport.
func (t *WSTransport) Call(ctx context.Context, req *Request) (*Response, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()

	t.mu.Lock()
	defer t.mu.Unlock()

	if t.conn == nil {
		conn, _, err := websocket.Dial(ctx, t.url, nil)
		if err != nil {
			return nil, classifyNetError("dial "+t.url, err)
		}
		t.conn = conn
	}

	log := logging.Ctx(ctx)
	log.Debug().Str("method", req.Method).Str("url", t.url).RawJSON("body", body).Msg("rpc request")

	if err := t.conn.Write(ctx, websocket.MessageText, body); err != nil {
		t.reset()
		return nil, &TransportError{Op: "write " + t.url, Err: err, Retryable: true}
	}

	for {
		_, msg, err := t.conn.Read(ctx)
		if err != nil {
			t.reset()
			return nil, &TransportError{Op: "read " + t.url, Err: err, Retryable: true}
		}

		var resp Response
		if err := json.Unmarshal(msg, &resp); err != nil {
			return nil, &TransportError{Op: "decode response", Err: err, Retryable: true}
		}
		if resp.IsNotification() {
			log.Debug().Str("notification", resp.Method).Msg("skipping server notification")
			continue
		}
		if resp.ID != nil && *resp.ID != req.ID {
			continue
		}
		return &resp, nil
	}
}

func (t *WSTransport) reset() {
	if t.conn != nil {
		_ = t.conn.CloseNow()
	}
	t.conn = nil
}

// Close implements Transport.
func (t *WSTransport) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.conn == nil {
		return nil
	}
	err := t.conn.Close(websocket.StatusNormalClosure, "bye")
	t.conn = nil
	return err
}
