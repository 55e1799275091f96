package scraper

import (
	"context"
	"errors"
	"io"
	"log"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"petromatch/internal/domain/job"
)

func TestRegistry_FetcherStrategyFollowsFlag(t *testing.T) {
	r := NewRegistry(RegistryConfig{FetchTimeout: time.Second}, log.New(io.Discard, "", 0))

	_, isHTTP := r.FetcherFor(job.Board{}).(*HTTPFetcher)
	assert.True(t, isHTTP)

	bf, isBrowser := r.FetcherFor(job.Board{Selectors: job.Selectors{UsePlaywright: true, JobContainer: "div.card"}}).(*BrowserFetcher)
	require.True(t, isBrowser)
	assert.Equal(t, "div.card", bf.cfg.WaitSelector)
	assert.NoError(t, bf.Close())
}

func TestRegistry_OpenAndMaxPages(t *testing.T) {
	r := NewRegistry(RegistryConfig{DefaultMaxPages: 3}, log.New(io.Discard, "", 0))

	a, err := r.Open(job.Board{ID: 1})
	require.NoError(t, err)
	require.NoError(t, a.Close())

	a, err = r.Open(job.Board{ID: 2, Selectors: job.Selectors{Adapter: "RigZone"}})
	require.NoError(t, err)
	require.NoError(t, a.Close())

	_, err = r.Open(job.Board{ID: 3, Selectors: job.Selectors{Adapter: "mystery"}})
	assert.ErrorIs(t, err, ErrUnknownAdapter)

	assert.Equal(t, 3, r.MaxPages(job.Board{}))
	assert.Equal(t, 8, r.MaxPages(job.Board{Selectors: job.Selectors{MaxPages: 8}}))
}

func TestWorkerPool_RunsTasksAndRecoversPanics(t *testing.T) {
	p := NewWorkerPool(2, 4, log.New(io.Discard, "", 0))
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	results := p.Run(ctx)

	var ran atomic.Int32
	boom := errors.New("boom")
	require.NoError(t, p.Submit(ctx, Task{Name: "ok", Run: func(context.Context) error { ran.Add(1); return nil }}))
	require.NoError(t, p.Submit(ctx, Task{Name: "err", Run: func(context.Context) error { ran.Add(1); return boom }}))
	require.NoError(t, p.Submit(ctx, Task{Name: "panic", Run: func(context.Context) error { ran.Add(1); panic("bad") }}))
	p.Close()

	got := map[string]error{}
	for r := range results {
		got[r.Name] = r.Err
	}
	assert.Equal(t, int32(3), ran.Load())
	assert.NoError(t, got["ok"])
	assert.ErrorIs(t, got["err"], boom)
	assert.ErrorContains(t, got["panic"], "panicked")

	assert.ErrorIs(t, p.TrySubmit(Task{Name: "late", Run: func(context.Context) error { return nil }}), ErrPoolClosed)
}

func TestWorkerPool_TrySubmitFull(t *testing.T) {
	p := NewWorkerPool(1, 1, log.New(io.Discard, "", 0))
	noop := Task{Name: "noop", Run: func(context.Context) error { return nil }}

	require.NoError(t, p.TrySubmit(noop))
	assert.ErrorIs(t, p.TrySubmit(noop), ErrPoolFull)
	p.Close()
}

func TestWorkerPool_CancelRunsQueuedTasksWithDoneContext(t *testing.T) {
	p := NewWorkerPool(1, 4, log.New(io.Discard, "", 0))
	ctx, cancel := context.WithCancel(context.Background())
	p.Run(ctx)

	entered := make(chan struct{})
	require.NoError(t, p.Submit(ctx, Task{Name: "running", Run: func(ctx context.Context) error {
		close(entered)
		<-ctx.Done()
		return ctx.Err()
	}}))
	<-entered

	var queued atomic.Int32
	for i := 0; i < 3; i++ {
		require.NoError(t, p.Submit(ctx, Task{Name: "queued", Run: func(ctx context.Context) error {
			if ctx.Err() != nil {
				queued.Add(1)
			}
			return ctx.Err()
		}}))
	}

	cancel()
	p.Wait()
	assert.Equal(t, int32(3), queued.Load())
	p.Close()
}
