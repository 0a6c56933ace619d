package core

import "fmt"

// Window is a half-open index range [Start, End) bounding one remote request.
type Window struct {
	Start int
	End   int
}

// Len returns the number of items covered by the window.
func (w Window) Len() int {
	return w.End - w.Start
}

func (w Window) String() string {
	return fmt.Sprintf("[%d,%d)", w.Start, w.End)
}

// Windows tiles [0, n) into consecutive windows of the given size. The final
// window is clipped to n. A non-positive n or size yields no windows.
func Windows(n, size int) []Window {
	if n <= 0 || size <= 0 {
		return nil
	}
	windows := make([]Window, 0, (n+size-1)/size)
	for start := 0; start < n; start += size {
		end := start + size
		if end > n {
			end = n
		}
		windows = append(windows, Window{Start: start, End: end})
	}
	return windows
}

// Chunk splits items into consecutive batches of at most size elements.
func Chunk[T any](items []T, size int) [][]T {
	if size <= 0 {
		return nil
	}
	var batches [][]T
	for _, w := range Windows(len(items), size) {
		batches = append(batches, items[w.Start:w.End])
	}
	return batches
}
