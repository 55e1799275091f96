package usecase

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strconv"
	"time"

	"github.com/google/uuid"

	"petromatch/internal/domain/match"
	"petromatch/internal/domain/matching"
	"petromatch/internal/domain/user"
	"petromatch/internal/repository"
	"petromatch/internal/ws"
)

const matchCacheTTL = 10 * time.Minute

type MatchingUsecase interface {
	Run(ctx context.Context, userID uuid.UUID, taskID int64) (int, error)
	List(ctx context.Context, userID uuid.UUID, taskID int64) ([]match.WithListing, error)
}

type MatchingDeps struct {
	Engine      *matching.Engine
	Tasks       repository.TaskRepository
	Listings    repository.ListingRepository
	CVs         repository.CVRepository
	Preferences repository.LocationPreferenceRepository
	Matches     repository.MatchRepository
	Cache       Cache
	Events      MatchEvents
	Logger      *log.Logger
}

type Matching struct {
	engine   *matching.Engine
	tasks    repository.TaskRepository
	listings repository.ListingRepository
	cvs      repository.CVRepository
	prefs    repository.LocationPreferenceRepository
	matches  repository.MatchRepository
	cache    Cache
	events   MatchEvents
	logger   *log.Logger
	now      func() time.Time
}

func NewMatching(d MatchingDeps) *Matching {
	if d.Logger == nil {
		d.Logger = log.Default()
	}
	if d.Engine == nil {
		d.Engine = matching.NewEngine(matching.DefaultConfig(), matching.DefaultTables())
	}
	return &Matching{
		engine:   d.Engine,
		tasks:    d.Tasks,
		listings: d.Listings,
		cvs:      d.CVs,
		prefs:    d.Preferences,
		matches:  d.Matches,
		cache:    d.Cache,
		events:   d.Events,
		logger:   d.Logger,
		now:      time.Now,
	}
}

// Run scores every listing of the task against the caller's CV and replaces
// the task's previous match set. Zero matches is a valid result.
func (m *Matching) Run(ctx context.Context, userID uuid.UUID, taskID int64) (int, error) {
	if _, err := ownedTask(ctx, m.tasks, userID, taskID); err != nil {
		return 0, err
	}

	cv, err := m.cvs.GetByUser(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return 0, ErrCVNotFound
		}
		return 0, fmt.Errorf("%w: get cv: %v", ErrInternal, err)
	}

	listings, err := m.listings.ListByTask(ctx, taskID)
	if err != nil {
		return 0, fmt.Errorf("%w: list listings: %v", ErrInternal, err)
	}
	if len(listings) == 0 {
		return 0, ErrNoListings
	}

	prefs, err := m.prefs.List(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("%w: list location preferences: %v", ErrInternal, err)
	}
	locations := make([]string, 0, len(prefs))
	for _, p := range prefs {
		locations = append(locations, p.Location)
	}

	mode := cvMode(cv)
	scored := m.engine.MatchAllAs(mode, cv.Content, listings, locations)
	at := m.now().UTC()
	ms := make([]match.Match, 0, len(scored))
	for _, s := range scored {
		ms = append(ms, match.Match{
			UserID:    userID,
			TaskID:    taskID,
			ListingID: s.Listing.ID,
			Score:     s.Score,
			MatchedAt: at,
		})
	}

	created, err := m.matches.ReplaceForTask(ctx, userID, taskID, ms)
	if err != nil {
		return 0, fmt.Errorf("%w: store matches: %v", ErrInternal, err)
	}

	if m.cache != nil {
		if err := m.cache.Delete(ctx, matchCacheKey(userID, taskID)); err != nil {
			m.logger.Printf("Matching cache invalidate error | task_id=%d error=%v", taskID, err)
		}
	}

	m.logger.Printf("Matching done | task_id=%d user_id=%s mode=%s listings=%d matches=%d", taskID, userID, mode, len(listings), created)
	if m.events != nil {
		m.events.MatchesReady(userID, ws.MatchesReady{TaskID: taskID, MatchesCreated: created})
	}
	return created, nil
}

// List returns the stored matches of the task at or above the engine's
// minimum score, best first.
func (m *Matching) List(ctx context.Context, userID uuid.UUID, taskID int64) ([]match.WithListing, error) {
	if _, err := ownedTask(ctx, m.tasks, userID, taskID); err != nil {
		return nil, err
	}

	key := matchCacheKey(userID, taskID)
	if m.cache != nil {
		var cached []match.WithListing
		if ok, err := m.cache.GetJSON(ctx, key, &cached); err == nil && ok {
			return cached, nil
		}
	}

	out, err := m.matches.ListByTask(ctx, userID, taskID, m.engine.Config().MinScore)
	if err != nil {
		return nil, fmt.Errorf("%w: list matches: %v", ErrInternal, err)
	}

	if m.cache != nil {
		if err := m.cache.SetJSON(ctx, key, out, matchCacheTTL); err != nil {
			m.logger.Printf("Matching cache set error | task_id=%d error=%v", taskID, err)
		}
	}
	return out, nil
}

func matchCacheKey(userID uuid.UUID, taskID int64) string {
	return "matches:" + userID.String() + ":" + strconv.FormatInt(taskID, 10)
}

// cvMode trusts the flag recorded at upload time. Real CV text that happens
// to look like the placeholder still gets full scoring.
func cvMode(cv user.CV) matching.Mode {
	if cv.Degraded {
		return matching.ModeDegraded
	}
	return matching.ModeFull
}
