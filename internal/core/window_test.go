package core

import (
	"reflect"
	"testing"
)

func TestWindows(t *testing.T) {
	tests := []struct {
		name string
		n    int
		size int
		want []Window
	}{
		{"empty", 0, 20, nil},
		{"smaller than size", 7, 20, []Window{{0, 7}}},
		{"exact", 40, 20, []Window{{0, 20}, {20, 40}}},
		{"clipped tail", 25, 20, []Window{{0, 20}, {20, 25}}},
		{"albums", 23, 10, []Window{{0, 10}, {10, 20}, {20, 23}}},
		{"zero size", 10, 0, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Windows(tt.n, tt.size)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Windows(%d, %d) = %v, want %v", tt.n, tt.size, got, tt.want)
			}
		})
	}
}

func TestWindowsTileRange(t *testing.T) {
	for n := 0; n < 100; n++ {
		for _, size := range []int{1, 3, 10, 20, 30} {
			next := 0
			for _, w := range Windows(n, size) {
				if w.Start != next {
					t.Fatalf("Windows(%d, %d): gap or overlap at %v", n, size, w)
				}
				if w.Len() <= 0 || w.Len() > size {
					t.Fatalf("Windows(%d, %d): bad window %v", n, size, w)
				}
				next = w.End
			}
			if next != n {
				t.Fatalf("Windows(%d, %d) covered [0,%d)", n, size, next)
			}
		}
	}
}

func TestChunk(t *testing.T) {
	items := make([]int, 45)
	batches := Chunk(items, 30)
	if len(batches) != 2 {
		t.Fatalf("expected 2 batches, got %d", len(batches))
	}
	if len(batches[0]) != 30 || len(batches[1]) != 15 {
		t.Errorf("batch sizes = %d, %d; want 30, 15", len(batches[0]), len(batches[1]))
	}
}
