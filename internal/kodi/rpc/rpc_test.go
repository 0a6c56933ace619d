package rpc

import (
	"errors"
	"testing"

	"github.com/goccy/go-json"
)

func TestDecode(t *testing.T) {
	tests := []struct {
		name      string
		result    string
		key       string
		wantShape bool
	}{
		{"key present", `{"songs":[{"songid":1}],"limits":{"total":1}}`, "songs", false},
		{"key missing", `{"limits":{"total":0}}`, "songs", true},
		{"no result", ``, "songs", true},
		{"null result", `null`, "songs", true},
		{"whole result", `"OK"`, "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := &Response{Result: json.RawMessage(tt.result)}
			var out any
			err := Decode("AudioLibrary.GetSongs", resp, tt.key, &out)

			var shapeErr *ShapeError
			if got := errors.As(err, &shapeErr); got != tt.wantShape {
				t.Fatalf("Decode() err = %v, want shape error %v", err, tt.wantShape)
			}
			if !tt.wantShape && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}

func TestDecodeServerError(t *testing.T) {
	resp := &Response{Error: &Error{Code: -32601, Message: "Method not found."}}
	err := Decode("Foo.Bar", resp, "x", nil)

	var rpcErr *Error
	if !errors.As(err, &rpcErr) {
		t.Fatalf("expected *Error, got %T", err)
	}
	if IsRetryable(err) {
		t.Error("server errors should not be retryable")
	}
}

func TestIsRetryable(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"shape", &ShapeError{Method: "m", Key: "k"}, true},
		{"retryable transport", &TransportError{Op: "dial", Err: errors.New("refused"), Retryable: true}, true},
		{"fatal transport", &TransportError{Op: "POST", Err: errors.New("401")}, false},
		{"plain", errors.New("boom"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsRetryable(tt.err); got != tt.want {
				t.Errorf("IsRetryable() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestNewRequestIDsIncrease(t *testing.T) {
	a := NewRequest("JSONRPC.Ping", nil)
	b := NewRequest("JSONRPC.Ping", nil)
	if b.ID <= a.ID {
		t.Errorf("ids not increasing: %d then %d", a.ID, b.ID)
	}
	if a.JSONRPC != Version {
		t.Errorf("JSONRPC = %q, want %q", a.JSONRPC, Version)
	}
}
