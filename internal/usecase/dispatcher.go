package usecase

import (
	"context"
	"log"

	"petromatch/internal/scraper"
)

// Dispatcher runs a unit of work outside the calling request. run receives a
// context owned by the dispatcher, not by the caller.
type Dispatcher interface {
	Dispatch(name string, run func(ctx context.Context) error) error
}

type PoolDispatcher struct {
	pool   *scraper.WorkerPool
	logger *log.Logger
}

func NewPoolDispatcher(pool *scraper.WorkerPool, logger *log.Logger) *PoolDispatcher {
	if logger == nil {
		logger = log.Default()
	}
	return &PoolDispatcher{pool: pool, logger: logger}
}

// Start launches the workers and logs every finished unit until ctx is done
// or the pool is closed.
func (d *PoolDispatcher) Start(ctx context.Context) {
	results := d.pool.Run(ctx)
	go func() {
		for res := range results {
			if res.Err != nil {
				d.logger.Printf("Dispatcher job failed | job=%s error=%v", res.Name, res.Err)
				continue
			}
			d.logger.Printf("Dispatcher job done | job=%s", res.Name)
		}
	}()
}

func (d *PoolDispatcher) Dispatch(name string, run func(ctx context.Context) error) error {
	return d.pool.TrySubmit(scraper.Task{Name: name, Run: run})
}

// Close stops accepting work. Already queued units still run.
func (d *PoolDispatcher) Close() {
	d.pool.Close()
}

// Wait blocks until every worker has returned. Call it after Close or after
// cancelling the Start context, and before closing what the units depend on.
func (d *PoolDispatcher) Wait() {
	d.pool.Wait()
}
