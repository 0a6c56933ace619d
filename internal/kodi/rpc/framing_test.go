package rpc

import "testing"

func TestObjectScanner(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  int
	}{
		{"simple", `{"a":1}`, 7},
		{"nested", `{"a":{"b":{}}}`, 14},
		{"braces in string", `{"title":"}{ weird {"}`, 22},
		{"escaped quote", `{"t":"a\"}"}`, 12},
		{"trailing data", `{"a":1}{"b":2}`, 7},
		{"incomplete", `{"a":{"b":1}`, -1},
		{"leading whitespace", "  \n{}", 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var sc objectScanner
			if got := sc.scan([]byte(tt.input)); got != tt.want {
				t.Errorf("scan(%q) = %d, want %d", tt.input, got, tt.want)
			}
		})
	}
}

func TestObjectScannerAcrossChunks(t *testing.T) {
	var sc objectScanner
	if got := sc.scan([]byte(`{"songs":[{"ti`)); got != -1 {
		t.Fatalf("first chunk = %d, want -1", got)
	}
	if got := sc.scan([]byte(`tle":"{"}]`)); got != -1 {
		t.Fatalf("second chunk = %d, want -1", got)
	}
	if got := sc.scan([]byte(`}tail`)); got != 1 {
		t.Fatalf("third chunk = %d, want 1", got)
	}
}
