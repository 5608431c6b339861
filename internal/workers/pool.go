package workers

import (
	"errors"
	"sync"

	"preview-engine/internal/logging"
	"preview-engine/internal/metrics"
)

// ErrPoolClosed is returned by Submit after Shutdown.
var ErrPoolClosed = errors.New("worker pool is shut down")

// Pool is a fixed-size worker pool with a bounded job queue. At most size
// tasks execute simultaneously; Submit blocks once the queue is full.
type Pool struct {
	jobs chan func()
	wg   sync.WaitGroup

	mu     sync.RWMutex
	closed bool
}

// NewPool starts size workers with a queue of queueDepth pending tasks.
func NewPool(size, queueDepth int) *Pool {
	if size < 1 {
		size = 1
	}
	if queueDepth < 0 {
		queueDepth = 0
	}

	p := &Pool{
		jobs: make(chan func(), queueDepth),
	}

	for i := 0; i < size; i++ {
		p.wg.Add(1)
		go p.worker(i)
	}

	logging.Debug("worker pool started with %d workers (queue depth %d)", size, queueDepth)
	return p
}

func (p *Pool) worker(id int) {
	defer p.wg.Done()

	for task := range p.jobs {
		metrics.PoolTasksInFlight.Inc()
		task()
		metrics.PoolTasksInFlight.Dec()
		metrics.PoolTasksTotal.WithLabelValues("completed").Inc()
	}

	logging.Debug("worker %d finished", id)
}

// Submit queues a task for execution, blocking while the queue is full.
// Returns ErrPoolClosed after Shutdown.
func (p *Pool) Submit(task func()) error {
	p.mu.RLock()
	defer p.mu.RUnlock()

	if p.closed {
		metrics.PoolTasksTotal.WithLabelValues("rejected").Inc()
		return ErrPoolClosed
	}

	p.jobs <- task
	return nil
}

// Shutdown stops accepting tasks and waits for queued and in-flight work to
// drain. In-flight tasks are never interrupted.
func (p *Pool) Shutdown() {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return
	}
	p.closed = true
	close(p.jobs)
	p.mu.Unlock()

	p.wg.Wait()
	logging.Debug("worker pool drained")
}
