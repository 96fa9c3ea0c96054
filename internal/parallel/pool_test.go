package parallel

import (
	"sync"
	"testing"
)

func TestForRowsCoversEveryRowOnce(t *testing.T) {
	tests := []struct {
		name   string
		pool   *Pool
		height int
	}{
		{"nil pool", nil, 37},
		{"single band", NewPool(4, 64), 37},
		{"many bands", NewPool(4, 5), 103},
		{"one worker", NewPool(1, 2), 9},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var mu sync.Mutex
			hits := make([]int, tt.height)

			tt.pool.ForRows(tt.height, func(y0, y1 int) {
				mu.Lock()
				defer mu.Unlock()
				for y := y0; y < y1; y++ {
					hits[y]++
				}
			})

			for y, n := range hits {
				if n != 1 {
					t.Errorf("row %d visited %d times, want 1", y, n)
				}
			}
		})
	}
}

func TestForRowsEmpty(t *testing.T) {
	called := false
	NewPool(2, 4).ForRows(0, func(int, int) { called = true })
	if called {
		t.Error("fn should not run for an empty range")
	}
}
