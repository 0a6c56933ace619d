package rpc

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"sync"
	"time"

	"github.com/goccy/go-json"

	"github.com/tessro/kodictl/internal/logging"
)

const readBufferSize = 4096

// TCPTransport speaks raw JSON-RPC on Kodi's TCP port. Responses are not
// length-prefixed, so the reader collects bytes until the braces balance.
type TCPTransport struct {
	addr    string
	timeout time.Duration
	dialer  net.Dialer

	mu      sync.Mutex
	conn    net.Conn
	pending []byte
}

// NewTCPTransport creates a transport for host:port. The connection is
// opened lazily and re-dialed after a failure.
func NewTCPTransport(host string, port int, timeout time.Duration) *TCPTransport {
	return &TCPTransport{
		addr:    net.JoinHostPort(host, fmt.Sprint(port)),
		timeout: timeout,
		dialer:  net.Dialer{Timeout: timeout},
	}
}

// Call implements Transport.
func (t *TCPTransport) Call(ctx context.Context, req *Request) (*Response, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	if t.conn == nil {
		conn, err := t.dialer.DialContext(ctx, "tcp", t.addr)
		if err != nil {
			return nil, classifyNetError("dial "+t.addr, err)
		}
		t.conn = conn
		t.pending = nil
	}

	deadline := time.Now().Add(t.timeout)
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		deadline = d
	}
	_ = t.conn.SetDeadline(deadline)

	log := logging.Ctx(ctx)
	log.Debug().Str("method", req.Method).Str("addr", t.addr).RawJSON("body", body).Msg("rpc request")

	if _, err := t.conn.Write(body); err != nil {
		t.reset()
		return nil, &TransportError{Op: "write " + t.addr, Err: err, Retryable: true}
	}

	for {
		msg, err := t.readObject()
		if err != nil {
			t.reset()
			return nil, err
		}

		var resp Response
		if err := json.Unmarshal(msg, &resp); err != nil {
			t.reset()
			return nil, &TransportError{Op: "decode response", Err: err, Retryable: true}
		}
		if resp.IsNotification() {
			log.Debug().Str("notification", resp.Method).Msg("skipping server notification")
			continue
		}
		if resp.ID != nil && *resp.ID != req.ID {
			log.Debug().Int64("id", *resp.ID).Int64("want", req.ID).Msg("skipping stale response")
			continue
		}
		log.Debug().Int("bytes", len(msg)).Msg("rpc response")
		return &resp, nil
	}
}

// readObject returns the next complete JSON object from the connection.
func (t *TCPTransport) readObject() ([]byte, error) {
	var sc objectScanner
	scanned := 0
	buf := make([]byte, readBufferSize)
	for {
		if end := sc.scan(t.pending[scanned:]); end >= 0 {
			end += scanned
			msg := t.pending[:end]
			t.pending = append([]byte(nil), t.pending[end:]...)
			return msg, nil
		}
		scanned = len(t.pending)

		n, err := t.conn.Read(buf)
		t.pending = append(t.pending, buf[:n]...)
		if err != nil {
			if n > 0 {
				continue
			}
			if errors.Is(err, io.EOF) {
				return nil, &TransportError{
					Op:        "read " + t.addr,
					Err:       fmt.Errorf("connection closed with %d bytes of incomplete response", len(t.pending)),
					Retryable: true,
				}
			}
			return nil, classifyNetError("read "+t.addr, err)
		}
	}
}

func (t *TCPTransport) reset() {
	if t.conn != nil {
		_ = t.conn.Close()
	}
	t.conn = nil
	t.pending = nil
}

// Close implements Transport.
func (t *TCPTransport) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.conn == nil {
		return nil
	}
	err := t.conn.Close()
	t.conn = nil
	return err
}
