package scraper

import (
	"context"
	"errors"
	"log"
	"time"

	"petromatch/internal/domain/job"
)

type StopReason string

const (
	StopEmptyPage  StopReason = "empty_page"
	StopMaxPages   StopReason = "max_pages"
	StopFetchError StopReason = "fetch_error"
)

// Sleeper waits for d or until ctx is done.
type Sleeper func(ctx context.Context, d time.Duration) error

func ContextSleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// PageSink receives the records of every non-empty page as soon as it is
// extracted. A sink error aborts pagination.
type PageSink func(ctx context.Context, page int, records []RawJobRecord) error

type PaginateResult struct {
	Records []RawJobRecord
	Pages   int
	Skipped int
	Stop    StopReason
}

type Paginator struct {
	Delay  time.Duration
	Sleep  Sleeper
	Logger *log.Logger
}

func NewPaginator(delay time.Duration, logger *log.Logger) *Paginator {
	if logger == nil {
		logger = log.Default()
	}
	return &Paginator{Delay: delay, Sleep: ContextSleep, Logger: logger}
}

// Paginate requests pages 1..maxPages from adapter. It stops at the first
// page without containers, at maxPages, or when a fetch fails; a fetch
// failure only ends this board and is not returned. The courtesy delay runs
// between non-empty pages only.
func (p *Paginator) Paginate(ctx context.Context, board job.Board, adapter Adapter, maxPages int, sink PageSink) (PaginateResult, error) {
	if maxPages < 1 {
		maxPages = 1
	}
	sleep := p.Sleep
	if sleep == nil {
		sleep = ContextSleep
	}

	res := PaginateResult{Stop: StopMaxPages}
	for page := 1; page <= maxPages; page++ {
		if page > 1 {
			if err := sleep(ctx, p.Delay); err != nil {
				return res, err
			}
		}

		pg, err := adapter.FetchPage(ctx, page)
		if err != nil {
			if ctx.Err() != nil {
				return res, ctx.Err()
			}
			var fe *FetchError
			if errors.As(err, &fe) {
				p.Logger.Printf("Scraper page fetch failed | board_id=%d page=%d status=%d error=%v", board.ID, page, fe.Status, fe.Err)
				res.Stop = StopFetchError
				return res, nil
			}
			return res, err
		}

		if len(pg.Items) == 0 {
			res.Stop = StopEmptyPage
			return res, nil
		}

		res.Pages++
		records := pg.Records()
		res.Skipped += pg.SkippedCount()
		res.Records = append(res.Records, records...)
		p.Logger.Printf("Scraper page done | board_id=%d page=%d records=%d skipped=%d", board.ID, page, len(records), pg.SkippedCount())

		if sink != nil && len(records) > 0 {
			if err := sink(ctx, page, records); err != nil {
				return res, err
			}
		}
	}
	return res, nil
}
