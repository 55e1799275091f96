package usecase

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"petromatch/internal/domain/job"
	"petromatch/internal/domain/task"
	"petromatch/internal/repository"
	"petromatch/internal/scraper"
	"petromatch/internal/ws"
)

const (
	defaultSubmitWindow = 10 * time.Second
	defaultTaskListSize = 50
	maxBoardsPerTask    = 50
	finalizeTimeout     = 10 * time.Second
)

type ScrapeUsecase interface {
	Submit(ctx context.Context, userID uuid.UUID, boardIDs []int64) (task.ScrapeTask, error)
	Status(ctx context.Context, userID uuid.UUID, taskID int64) (task.ScrapeTask, error)
	Results(ctx context.Context, userID uuid.UUID, taskID int64) ([]job.Listing, error)
	List(ctx context.Context, userID uuid.UUID) ([]task.ScrapeTask, error)
}

type ScrapeDeps struct {
	Tasks      repository.TaskRepository
	Boards     repository.BoardRepository
	Listings   repository.ListingRepository
	Adapters   AdapterOpener
	Pages      PageDriver
	Dispatcher Dispatcher
	Locker     Locker
	Events     TaskEvents
	Logger     *log.Logger

	// SubmitWindow is how long an identical (user, boards) submission is
	// rejected as a duplicate.
	SubmitWindow time.Duration
}

// Scrape owns the task lifecycle: pending on submit, running while boards are
// paginated, then completed or failed.
type Scrape struct {
	tasks      repository.TaskRepository
	boards     repository.BoardRepository
	listings   repository.ListingRepository
	adapters   AdapterOpener
	pages      PageDriver
	dispatcher Dispatcher
	locker     Locker
	events     TaskEvents
	logger     *log.Logger
	window     time.Duration
}

func NewScrape(d ScrapeDeps) *Scrape {
	if d.Logger == nil {
		d.Logger = log.Default()
	}
	if d.SubmitWindow <= 0 {
		d.SubmitWindow = defaultSubmitWindow
	}
	return &Scrape{
		tasks:      d.Tasks,
		boards:     d.Boards,
		listings:   d.Listings,
		adapters:   d.Adapters,
		pages:      d.Pages,
		dispatcher: d.Dispatcher,
		locker:     d.Locker,
		events:     d.Events,
		logger:     d.Logger,
		window:     d.SubmitWindow,
	}
}

// Submit creates a pending task and hands it to the dispatcher. It never
// waits for scraping. A task that cannot be queued is returned already failed.
func (s *Scrape) Submit(ctx context.Context, userID uuid.UUID, boardIDs []int64) (task.ScrapeTask, error) {
	ids, err := normalizeBoardIDs(boardIDs)
	if err != nil {
		return task.ScrapeTask{}, err
	}

	if s.locker != nil {
		ok, lockErr := s.locker.TryLock(ctx, submitLockKey(userID, ids), s.window)
		if lockErr != nil {
			s.logger.Printf("Scrape submit lock error | user_id=%s error=%v", userID, lockErr)
		}
		if !ok {
			return task.ScrapeTask{}, ErrDuplicateScrape
		}
	}

	t, err := s.tasks.Create(ctx, userID, ids)
	if err != nil {
		return task.ScrapeTask{}, fmt.Errorf("%w: create task: %v", ErrInternal, err)
	}
	s.logger.Printf("Scrape task created | task_id=%d user_id=%s boards=%v", t.ID, userID, ids)

	taskID := t.ID
	name := "scrape-task-" + strconv.FormatInt(taskID, 10)
	if err := s.dispatcher.Dispatch(name, func(ctx context.Context) error {
		return s.Run(ctx, taskID)
	}); err != nil {
		s.logger.Printf("Scrape dispatch failed | task_id=%d error=%v", taskID, err)
		return s.failUndispatched(ctx, t, err), nil
	}

	return t, nil
}

// failUndispatched walks the task through running to failed so the
// lifecycle stays forward-only.
func (s *Scrape) failUndispatched(ctx context.Context, t task.ScrapeTask, cause error) task.ScrapeTask {
	msg := "dispatch: " + cause.Error()
	if err := s.tasks.Transition(ctx, t.ID, task.StatusPending, task.StatusRunning, ""); err == nil {
		if err := s.tasks.Transition(ctx, t.ID, task.StatusRunning, task.StatusFailed, msg); err == nil {
			t.Status = task.StatusFailed
			t.Error = msg
		}
	}
	return t
}

// Run executes one task end to end. Listings are stored page by page, so
// boards finished before a failure keep their rows.
func (s *Scrape) Run(ctx context.Context, taskID int64) error {
	// Bookkeeping runs detached: a task dequeued during shutdown still has
	// to be loaded and started before it can be marked failed.
	bctx, bcancel := detached(ctx)
	t, err := s.tasks.Get(bctx, taskID)
	if err != nil {
		bcancel()
		return fmt.Errorf("load task %d: %w", taskID, err)
	}
	err = s.tasks.Transition(bctx, taskID, task.StatusPending, task.StatusRunning, "")
	bcancel()
	if err != nil {
		return fmt.Errorf("start task %d: %w", taskID, err)
	}
	s.publish(t.UserID, taskID, task.StatusRunning, 0)
	started := time.Now()
	s.logger.Printf("Scrape task started | task_id=%d boards=%v", taskID, t.BoardIDs)

	created, runErr := s.scrapeBoards(ctx, t)

	final, msg := task.StatusCompleted, ""
	if runErr != nil {
		final, msg = task.StatusFailed, runErr.Error()
	}

	// The run context may already be cancelled by shutdown; the terminal
	// status still has to be written.
	fctx, cancel := detached(ctx)
	defer cancel()
	if err := s.tasks.Transition(fctx, taskID, task.StatusRunning, final, msg); err != nil {
		s.logger.Printf("Scrape task finalize error | task_id=%d status=%s error=%v", taskID, final, err)
		return fmt.Errorf("finish task %d: %w", taskID, err)
	}

	s.logger.Printf("Scrape task finished | task_id=%d status=%s listings=%d duration=%s", taskID, final, created, time.Since(started).Round(time.Millisecond))
	s.publish(t.UserID, taskID, final, created)
	return runErr
}

func detached(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.WithoutCancel(ctx), finalizeTimeout)
}

func (s *Scrape) scrapeBoards(ctx context.Context, t task.ScrapeTask) (created int, err error) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Printf("Scrape task panic | task_id=%d panic=%v", t.ID, r)
			err = fmt.Errorf("panic: %v", r)
		}
	}()

	boards, err := s.boards.GetByIDs(ctx, t.BoardIDs)
	if err != nil {
		return 0, fmt.Errorf("load boards: %w", err)
	}

	for _, id := range t.BoardIDs {
		b, ok := boards[id]
		if !ok {
			s.logger.Printf("Scrape board skipped | task_id=%d board_id=%d reason=not_found", t.ID, id)
			continue
		}
		n, err := s.scrapeBoard(ctx, t.ID, b)
		created += n
		if err != nil {
			return created, fmt.Errorf("board %d (%s): %w", b.ID, b.Name, err)
		}
	}
	return created, nil
}

func (s *Scrape) scrapeBoard(ctx context.Context, taskID int64, b job.Board) (int, error) {
	adapter, err := s.adapters.Open(b)
	if err != nil {
		return 0, err
	}
	defer func() {
		if err := adapter.Close(); err != nil {
			s.logger.Printf("Scrape adapter close error | board_id=%d error=%v", b.ID, err)
		}
	}()

	created := 0
	res, err := s.pages.Paginate(ctx, b, adapter, s.adapters.MaxPages(b), func(ctx context.Context, page int, records []scraper.RawJobRecord) error {
		n, err := s.listings.InsertBatch(ctx, taskID, toListings(taskID, b.ID, records))
		created += n
		if err != nil {
			return fmt.Errorf("store page %d: %w", page, err)
		}
		return nil
	})
	if err != nil {
		return created, err
	}

	s.logger.Printf("Scrape board done | task_id=%d board_id=%d pages=%d listings=%d skipped=%d stop=%s", taskID, b.ID, res.Pages, created, res.Skipped, res.Stop)
	return created, nil
}

func (s *Scrape) publish(userID uuid.UUID, taskID int64, st task.Status, listings int) {
	if s.events == nil {
		return
	}
	s.events.TaskUpdated(userID, ws.TaskUpdated{TaskID: taskID, Status: string(st), Listings: listings})
}

func (s *Scrape) Status(ctx context.Context, userID uuid.UUID, taskID int64) (task.ScrapeTask, error) {
	return ownedTask(ctx, s.tasks, userID, taskID)
}

func (s *Scrape) Results(ctx context.Context, userID uuid.UUID, taskID int64) ([]job.Listing, error) {
	if _, err := ownedTask(ctx, s.tasks, userID, taskID); err != nil {
		return nil, err
	}
	listings, err := s.listings.ListByTask(ctx, taskID)
	if err != nil {
		return nil, fmt.Errorf("%w: list listings: %v", ErrInternal, err)
	}
	return listings, nil
}

func (s *Scrape) List(ctx context.Context, userID uuid.UUID) ([]task.ScrapeTask, error) {
	tasks, err := s.tasks.ListByUser(ctx, userID, defaultTaskListSize)
	if err != nil {
		return nil, fmt.Errorf("%w: list tasks: %v", ErrInternal, err)
	}
	return tasks, nil
}

func ownedTask(ctx context.Context, tasks repository.TaskRepository, userID uuid.UUID, taskID int64) (task.ScrapeTask, error) {
	if taskID <= 0 {
		return task.ScrapeTask{}, ErrTaskNotFound
	}
	t, err := tasks.Get(ctx, taskID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return task.ScrapeTask{}, ErrTaskNotFound
		}
		return task.ScrapeTask{}, fmt.Errorf("%w: get task: %v", ErrInternal, err)
	}
	if t.UserID != userID {
		return task.ScrapeTask{}, ErrForbidden
	}
	return t, nil
}

// normalizeBoardIDs drops repeats while keeping submission order.
func normalizeBoardIDs(in []int64) ([]int64, error) {
	if len(in) == 0 || len(in) > maxBoardsPerTask {
		return nil, ErrInvalidInput
	}
	seen := make(map[int64]struct{}, len(in))
	out := make([]int64, 0, len(in))
	for _, id := range in {
		if id <= 0 {
			return nil, ErrInvalidInput
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out, nil
}

func submitLockKey(userID uuid.UUID, ids []int64) string {
	sorted := append([]int64(nil), ids...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })
	parts := make([]string, len(sorted))
	for i, id := range sorted {
		parts[i] = strconv.FormatInt(id, 10)
	}
	return "scrape:submit:" + userID.String() + ":" + strings.Join(parts, ",")
}

func toListings(taskID, boardID int64, records []scraper.RawJobRecord) []job.Listing {
	out := make([]job.Listing, 0, len(records))
	for _, r := range records {
		out = append(out, job.Listing{
			TaskID:      taskID,
			BoardID:     boardID,
			Title:       r.Title,
			Company:     r.Company,
			Location:    r.Location,
			URL:         r.URL,
			Description: r.Description,
		}.WithDefaults())
	}
	return out
}
