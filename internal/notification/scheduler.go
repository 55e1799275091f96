// Package notification runs the per-user match digest schedules.
package notification

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"

	"petromatch/internal/domain/task"
	"petromatch/internal/repository"
	"petromatch/internal/ws"
)

const recentTasks = 20

type DigestPublisher interface {
	MatchDigest(userID uuid.UUID, evt ws.MatchDigest)
}

type entry struct {
	id   cron.EntryID
	spec string
}

// Scheduler keeps one cron entry per stored schedule. Each firing pushes a
// digest of the user's latest completed task and stamps last_sent.
type Scheduler struct {
	cron     *cron.Cron
	repo     repository.NotificationRepository
	tasks    repository.TaskRepository
	matches  repository.MatchRepository
	events   DigestPublisher
	minScore float64
	logger   *log.Logger
	now      func() time.Time

	mu      sync.Mutex
	entries map[uuid.UUID]entry
	ctx     context.Context
}

func NewScheduler(repo repository.NotificationRepository, tasks repository.TaskRepository, matches repository.MatchRepository, events DigestPublisher, minScore float64, logger *log.Logger) *Scheduler {
	if logger == nil {
		logger = log.Default()
	}
	cronLogger := cron.PrintfLogger(logger)
	return &Scheduler{
		cron:     cron.New(cron.WithLogger(cronLogger), cron.WithChain(cron.Recover(cronLogger))),
		repo:     repo,
		tasks:    tasks,
		matches:  matches,
		events:   events,
		minScore: minScore,
		logger:   logger,
		now:      time.Now,
		entries:  make(map[uuid.UUID]entry),
		ctx:      context.Background(),
	}
}

// Start loads the stored schedules and starts the cron loop. Jobs run with
// ctx.
func (s *Scheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	s.ctx = ctx
	s.mu.Unlock()

	if err := s.Reload(ctx); err != nil {
		return err
	}
	s.cron.Start()
	s.logger.Printf("[scheduler] Digest cron started | schedules=%d", s.Len())
	return nil
}

func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
	s.logger.Println("[scheduler] Digest cron stopped")
}

// Reload brings the cron entries in line with the stored schedules.
func (s *Scheduler) Reload(ctx context.Context) error {
	all, err := s.repo.ListAll(ctx)
	if err != nil {
		return fmt.Errorf("list schedules: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	wanted := make(map[uuid.UUID]string, len(all))
	for _, n := range all {
		wanted[n.UserID] = n.CronSchedule
	}

	for userID, e := range s.entries {
		if spec, ok := wanted[userID]; !ok || spec != e.spec {
			s.cron.Remove(e.id)
			delete(s.entries, userID)
		}
	}

	for userID, spec := range wanted {
		if _, ok := s.entries[userID]; ok {
			continue
		}
		uid := userID
		id, err := s.cron.AddFunc(spec, func() { s.fire(uid) })
		if err != nil {
			s.logger.Printf("[scheduler] Invalid digest schedule | user_id=%s spec=%q error=%v", uid, spec, err)
			continue
		}
		s.entries[uid] = entry{id: id, spec: spec}
	}
	return nil
}

func (s *Scheduler) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

func (s *Scheduler) fire(userID uuid.UUID) {
	s.mu.Lock()
	ctx := s.ctx
	s.mu.Unlock()
	if err := s.SendDigest(ctx, userID); err != nil {
		s.logger.Printf("[scheduler] Digest error | user_id=%s error=%v", userID, err)
	}
}

// SendDigest publishes the digest of the user's most recent completed task.
// Users without one are skipped and last_sent is left untouched.
func (s *Scheduler) SendDigest(ctx context.Context, userID uuid.UUID) error {
	tasks, err := s.tasks.ListByUser(ctx, userID, recentTasks)
	if err != nil {
		return fmt.Errorf("list tasks: %w", err)
	}

	var latest *task.ScrapeTask
	for i := range tasks {
		if tasks[i].Status == task.StatusCompleted {
			latest = &tasks[i]
			break
		}
	}
	if latest == nil {
		return nil
	}

	ms, err := s.matches.ListByTask(ctx, userID, latest.ID, s.minScore)
	if err != nil {
		return fmt.Errorf("list matches: %w", err)
	}

	digest := ws.MatchDigest{TaskID: latest.ID, Matches: len(ms)}
	if len(ms) > 0 {
		digest.BestScore = ms[0].Score
	}
	if s.events != nil {
		s.events.MatchDigest(userID, digest)
	}

	if err := s.repo.MarkSent(ctx, userID, s.now().UTC()); err != nil {
		return fmt.Errorf("mark sent: %w", err)
	}
	s.logger.Printf("[scheduler] Digest sent | user_id=%s task_id=%d matches=%d", userID, latest.ID, len(ms))
	return nil
}
