package scraper

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
)

var (
	ErrPoolFull   = errors.New("worker pool queue is full")
	ErrPoolClosed = errors.New("worker pool is closed")
)

type Task struct {
	Name string
	Run  func(ctx context.Context) error
}

type Result struct {
	Name string
	Err  error
}

// WorkerPool runs submitted tasks on a fixed number of goroutines. A task
// that panics reports the panic as its error; the worker keeps running.
type WorkerPool struct {
	workers int
	tasks   chan Task
	wg      sync.WaitGroup
	logger  *log.Logger

	mu     sync.RWMutex
	closed bool
}

func NewWorkerPool(workers, buffer int, logger *log.Logger) *WorkerPool {
	if workers <= 0 {
		workers = 1
	}
	if buffer < 0 {
		buffer = 0
	}
	if logger == nil {
		logger = log.Default()
	}
	return &WorkerPool{
		workers: workers,
		tasks:   make(chan Task, buffer),
		logger:  logger,
	}
}

// Submit blocks until the task is queued or ctx is done.
func (p *WorkerPool) Submit(ctx context.Context, t Task) error {
	if p == nil || t.Run == nil {
		return nil
	}
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.closed {
		return ErrPoolClosed
	}
	select {
	case p.tasks <- t:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// TrySubmit queues t without blocking.
func (p *WorkerPool) TrySubmit(t Task) error {
	if p == nil || t.Run == nil {
		return nil
	}
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.closed {
		return ErrPoolClosed
	}
	select {
	case p.tasks <- t:
		return nil
	default:
		return ErrPoolFull
	}
}

func (p *WorkerPool) Close() {
	if p == nil {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return
	}
	p.closed = true
	close(p.tasks)
}

// Run starts the workers. The returned channel is closed once the queue is
// drained after Close, or when ctx is cancelled. Tasks still queued at
// cancellation are run with the cancelled ctx so each one can record its
// own outcome.
func (p *WorkerPool) Run(ctx context.Context) <-chan Result {
	buf := p.workers * 16
	out := make(chan Result, buf)

	p.wg.Add(p.workers)
	for i := 0; i < p.workers; i++ {
		go func() {
			defer p.wg.Done()
			for {
				select {
				case <-ctx.Done():
					p.drain(ctx, out)
					return
				case t, ok := <-p.tasks:
					if !ok {
						return
					}
					p.deliver(ctx, t, out)
				}
			}
		}()
	}

	go func() {
		p.wg.Wait()
		close(out)
	}()

	return out
}

// Wait blocks until every worker started by Run has returned.
func (p *WorkerPool) Wait() {
	if p == nil {
		return
	}
	p.wg.Wait()
}

func (p *WorkerPool) drain(ctx context.Context, out chan<- Result) {
	for {
		select {
		case t, ok := <-p.tasks:
			if !ok {
				return
			}
			p.deliver(ctx, t, out)
		default:
			return
		}
	}
}

func (p *WorkerPool) deliver(ctx context.Context, t Task, out chan<- Result) {
	res := Result{Name: t.Name, Err: p.exec(ctx, t)}
	select {
	case out <- res:
	default:
		// nobody is draining; results are advisory
	}
}

func (p *WorkerPool) exec(ctx context.Context, t Task) (err error) {
	defer func() {
		if r := recover(); r != nil {
			p.logger.Printf("Worker task panic | task=%s panic=%v", t.Name, r)
			err = fmt.Errorf("task %s panicked: %v", t.Name, r)
		}
	}()
	return t.Run(ctx)
}
