package parallel

import (
	"runtime"
	"sync"
	"time"

	"github.com/Carmen-Shannon/automation/tools/worker"
)

// queueSize bounds the pending band count. A 4K target split into 16-row
// bands fits comfortably.
const queueSize = 256

// Pool splits row ranges into bands and runs them on a reusable set of
// worker goroutines. A nil *Pool runs everything on the caller goroutine.
type Pool struct {
	workers  int
	bandRows int
	pool     worker.DynamicWorkerPool

	mu     sync.Mutex
	nextID int
}

// NewPool creates a pool of n workers that processes bandRows rows per task.
// n <= 0 uses GOMAXPROCS; bandRows <= 0 defaults to 16.
func NewPool(n, bandRows int) *Pool {
	if n <= 0 {
		n = runtime.GOMAXPROCS(0)
	}
	if bandRows <= 0 {
		bandRows = 16
	}
	return &Pool{
		workers:  n,
		bandRows: bandRows,
		pool:     worker.NewDynamicWorkerPool(n, queueSize, time.Second),
	}
}

// Workers returns the configured worker count, 1 for a nil pool.
func (p *Pool) Workers() int {
	if p == nil {
		return 1
	}
	return p.workers
}

// ForRows calls fn over [0, height) in disjoint [y0, y1) bands and returns
// once every band has finished.
func (p *Pool) ForRows(height int, fn func(y0, y1 int)) {
	if height <= 0 {
		return
	}
	if p == nil || p.workers == 1 || height <= p.bandRows {
		fn(0, height)
		return
	}

	// Per-call barrier: workers stay alive between frames.
	var wg sync.WaitGroup
	for y0 := 0; y0 < height; y0 += p.bandRows {
		y1 := y0 + p.bandRows
		if y1 > height {
			y1 = height
		}

		wg.Add(1)
		start, end := y0, y1
		p.pool.SubmitTask(worker.Task{
			ID: p.taskID(),
			Do: func() (any, error) {
				defer wg.Done()
				fn(start, end)
				return nil, nil
			},
		})
	}
	wg.Wait()
}

func (p *Pool) taskID() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	id := p.nextID
	p.nextID++
	return id
}
