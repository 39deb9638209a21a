package utils

import (
	"math/rand"
	"sync"
	"time"
)

// WorkerPool manages a pool of goroutines with a randomized minimum pause
// between job starts. The text-generation backend throttles aggressive
// callers, so every job waits between minPause and maxPause after the
// previous one started.
type WorkerPool struct {
	maxWorkers int
	minPause   time.Duration
	maxPause   time.Duration
	semaphore  chan struct{}
	wg         sync.WaitGroup
	mu         sync.Mutex
	lastStart  time.Time
}

// NewWorkerPool creates a WorkerPool with the given concurrency and pause
// window. A zero window disables pacing.
func NewWorkerPool(maxWorkers int, minPause, maxPause time.Duration) *WorkerPool {
	if maxWorkers < 1 {
		maxWorkers = 1
	}
	if maxPause < minPause {
		maxPause = minPause
	}
	return &WorkerPool{
		maxWorkers: maxWorkers,
		minPause:   minPause,
		maxPause:   maxPause,
		semaphore:  make(chan struct{}, maxWorkers),
	}
}

// Submit enqueues a job for execution in the pool.
func (wp *WorkerPool) Submit(job func()) {
	wp.wg.Add(1)
	wp.semaphore <- struct{}{}

	go func() {
		defer wp.wg.Done()
		defer func() { <-wp.semaphore }()

		wp.pace()
		job()
	}()
}

// Wait blocks until all submitted jobs have completed.
func (wp *WorkerPool) Wait() {
	wp.wg.Wait()
}

// pace enforces the randomized pause between consecutive job starts.
func (wp *WorkerPool) pace() {
	wp.mu.Lock()
	defer wp.mu.Unlock()

	if wp.maxPause <= 0 {
		return
	}

	pause := wp.minPause
	if span := wp.maxPause - wp.minPause; span > 0 {
		pause += time.Duration(rand.Int63n(int64(span)))
	}

	if elapsed := time.Since(wp.lastStart); elapsed < pause {
		time.Sleep(pause - elapsed)
	}
	wp.lastStart = time.Now()
}
