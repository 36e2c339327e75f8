package filter

import (
	"context"
	"errors"
	"sync"
)

// ErrPoolStopped is returned when work is submitted to a stopped pool
var ErrPoolStopped = errors.New("worker pool is stopped")

// workerPool implements WorkerPool with a fixed number of goroutines
type workerPool struct {
	work     chan func()
	quit     chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
}

// NewWorkerPool starts a pool with the given number of workers (at least one)
func NewWorkerPool(workers int) WorkerPool {
	workers = max(workers, 1)

	p := &workerPool{
		work: make(chan func(), workers*2),
		quit: make(chan struct{}),
	}

	p.wg.Add(workers)
	for range workers {
		go p.worker()
	}

	return p
}

func (p *workerPool) worker() {
	defer p.wg.Done()

	for {
		select {
		case fn := <-p.work:
			fn()
		case <-p.quit:
			// Drain what was accepted before Stop.
			for {
				select {
				case fn := <-p.work:
					fn()
				default:
					return
				}
			}
		}
	}
}

// Submit blocks until a worker accepts the work, the context ends, or the pool stops.
func (p *workerPool) Submit(ctx context.Context, work func()) error {
	select {
	case <-p.quit:
		return ErrPoolStopped
	default:
	}

	select {
	case p.work <- work:
		return nil
	case <-p.quit:
		return ErrPoolStopped
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Stop refuses new work and waits for accepted work to finish
func (p *workerPool) Stop(ctx context.Context) error {
	p.stopOnce.Do(func() {
		close(p.quit)
	})

	done := make(chan struct{})
	go func() {
		p.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
