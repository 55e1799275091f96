package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	"petromatch/internal/domain/job"
	"petromatch/internal/scraper"
	"petromatch/internal/ws"
)

// Cache is the subset of the Redis cache used by usecases. Implementations
// must treat an unreachable backend as a miss.
type Cache interface {
	GetJSON(ctx context.Context, key string, out any) (bool, error)
	SetJSON(ctx context.Context, key string, value any, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

type Locker interface {
	TryLock(ctx context.Context, key string, ttl time.Duration) (bool, error)
}

// AdapterOpener resolves a board to its adapter and page ceiling.
type AdapterOpener interface {
	Open(board job.Board) (scraper.Adapter, error)
	MaxPages(board job.Board) int
}

type PageDriver interface {
	Paginate(ctx context.Context, board job.Board, adapter scraper.Adapter, maxPages int, sink scraper.PageSink) (scraper.PaginateResult, error)
}

type TaskEvents interface {
	TaskUpdated(userID uuid.UUID, evt ws.TaskUpdated)
}

type MatchEvents interface {
	MatchesReady(userID uuid.UUID, evt ws.MatchesReady)
}

// ScheduleReloader is told when a user's digest schedule changes.
type ScheduleReloader interface {
	Reload(ctx context.Context) error
}
