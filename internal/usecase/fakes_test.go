package usecase

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"petromatch/internal/domain/job"
	"petromatch/internal/domain/match"
	"petromatch/internal/domain/task"
	"petromatch/internal/domain/user"
	"petromatch/internal/repository"
	"petromatch/internal/scraper"
	"petromatch/internal/ws"
)

func quietLogger() *log.Logger { return log.New(io.Discard, "", 0) }

type fakeTasks struct {
	mu     sync.Mutex
	nextID int64
	tasks  map[int64]task.ScrapeTask
}

func newFakeTasks() *fakeTasks { return &fakeTasks{tasks: map[int64]task.ScrapeTask{}} }

func (f *fakeTasks) Create(_ context.Context, userID uuid.UUID, boardIDs []int64) (task.ScrapeTask, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	t := task.ScrapeTask{ID: f.nextID, UserID: userID, Status: task.StatusPending, BoardIDs: boardIDs, CreatedAt: time.Now()}
	f.tasks[t.ID] = t
	return t, nil
}

// Get and Transition fail on a done ctx the way a pgx query would.
func (f *fakeTasks) Get(ctx context.Context, id int64) (task.ScrapeTask, error) {
	if err := ctx.Err(); err != nil {
		return task.ScrapeTask{}, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	t, ok := f.tasks[id]
	if !ok {
		return task.ScrapeTask{}, repository.ErrNotFound
	}
	return t, nil
}

func (f *fakeTasks) ListByUser(_ context.Context, userID uuid.UUID, _ int) ([]task.ScrapeTask, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []task.ScrapeTask
	for _, t := range f.tasks {
		if t.UserID == userID {
			out = append(out, t)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

func (f *fakeTasks) Transition(ctx context.Context, id int64, from, to task.Status, errMsg string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := task.CheckTransition(from, to); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	t, ok := f.tasks[id]
	if !ok || t.Status != from {
		return fmt.Errorf("%w: task %d is not %s", task.ErrInvalidTransition, id, from)
	}
	t.Status = to
	t.Error = errMsg
	f.tasks[id] = t
	return nil
}

func (f *fakeTasks) status(id int64) task.Status {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.tasks[id].Status
}

type fakeBoards struct {
	boards map[int64]job.Board
}

func (f *fakeBoards) List(context.Context) ([]job.Board, error) {
	out := make([]job.Board, 0, len(f.boards))
	for _, b := range f.boards {
		out = append(out, b)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeBoards) GetByID(_ context.Context, id int64) (job.Board, error) {
	b, ok := f.boards[id]
	if !ok {
		return job.Board{}, repository.ErrNotFound
	}
	return b, nil
}

func (f *fakeBoards) GetByIDs(_ context.Context, ids []int64) (map[int64]job.Board, error) {
	out := map[int64]job.Board{}
	for _, id := range ids {
		if b, ok := f.boards[id]; ok {
			out[id] = b
		}
	}
	return out, nil
}

func (f *fakeBoards) UpsertByName(context.Context, job.Board) (int64, error) {
	return 0, errors.New("not implemented")
}

type fakeListings struct {
	mu       sync.Mutex
	nextID   int64
	byTask   map[int64][]job.Listing
	failNext error
}

func newFakeListings() *fakeListings { return &fakeListings{byTask: map[int64][]job.Listing{}} }

func (f *fakeListings) InsertBatch(_ context.Context, taskID int64, ls []job.Listing) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failNext != nil {
		err := f.failNext
		f.failNext = nil
		return 0, err
	}
	for _, l := range ls {
		f.nextID++
		l.ID = f.nextID
		l.TaskID = taskID
		f.byTask[taskID] = append(f.byTask[taskID], l)
	}
	return len(ls), nil
}

func (f *fakeListings) ListByTask(_ context.Context, taskID int64) ([]job.Listing, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]job.Listing(nil), f.byTask[taskID]...), nil
}

func (f *fakeListings) CountByTask(_ context.Context, taskID int64) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.byTask[taskID]), nil
}

type fakeCVs struct {
	byUser map[uuid.UUID]user.CV
	nextID int64
}

func newFakeCVs() *fakeCVs { return &fakeCVs{byUser: map[uuid.UUID]user.CV{}} }

func (f *fakeCVs) Replace(_ context.Context, cv user.CV) (user.CV, error) {
	f.nextID++
	cv.ID = f.nextID
	cv.CreatedAt = time.Now()
	f.byUser[cv.UserID] = cv
	return cv, nil
}

func (f *fakeCVs) GetByUser(_ context.Context, userID uuid.UUID) (user.CV, error) {
	cv, ok := f.byUser[userID]
	if !ok {
		return user.CV{}, repository.ErrNotFound
	}
	return cv, nil
}

type fakePrefs struct {
	byUser map[uuid.UUID][]user.LocationPreference
	nextID int64
}

func newFakePrefs() *fakePrefs { return &fakePrefs{byUser: map[uuid.UUID][]user.LocationPreference{}} }

func (f *fakePrefs) Replace(_ context.Context, userID uuid.UUID, locations []string) ([]user.LocationPreference, error) {
	out := make([]user.LocationPreference, 0, len(locations))
	for _, loc := range locations {
		f.nextID++
		out = append(out, user.LocationPreference{ID: f.nextID, UserID: userID, Location: loc})
	}
	f.byUser[userID] = out
	return out, nil
}

func (f *fakePrefs) List(_ context.Context, userID uuid.UUID) ([]user.LocationPreference, error) {
	return f.byUser[userID], nil
}

// fakeMatches mirrors the repository contract: a replace drops every match
// of the task and ignores listings of other tasks.
type fakeMatches struct {
	listings *fakeListings
	byTask   map[int64][]match.Match
	nextID   int64
}

func newFakeMatches(listings *fakeListings) *fakeMatches {
	return &fakeMatches{listings: listings, byTask: map[int64][]match.Match{}}
}

func (f *fakeMatches) ReplaceForTask(ctx context.Context, userID uuid.UUID, taskID int64, ms []match.Match) (int, error) {
	own, _ := f.listings.ListByTask(ctx, taskID)
	ids := map[int64]bool{}
	for _, l := range own {
		ids[l.ID] = true
	}
	kept := make([]match.Match, 0, len(ms))
	for _, m := range ms {
		if !ids[m.ListingID] {
			continue
		}
		f.nextID++
		m.ID = f.nextID
		m.UserID = userID
		m.TaskID = taskID
		kept = append(kept, m)
	}
	f.byTask[taskID] = kept
	return len(kept), nil
}

func (f *fakeMatches) ListByTask(ctx context.Context, _ uuid.UUID, taskID int64, minScore float64) ([]match.WithListing, error) {
	own, _ := f.listings.ListByTask(ctx, taskID)
	byID := map[int64]job.Listing{}
	for _, l := range own {
		byID[l.ID] = l
	}
	var out []match.WithListing
	for _, m := range f.byTask[taskID] {
		if m.Score >= minScore {
			out = append(out, match.WithListing{Match: m, Listing: byID[m.ListingID]})
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Score > out[j].Score })
	return out, nil
}

type fakeNotifications struct {
	byUser map[uuid.UUID]user.EmailNotification
	sent   map[uuid.UUID]time.Time
}

func newFakeNotifications() *fakeNotifications {
	return &fakeNotifications{byUser: map[uuid.UUID]user.EmailNotification{}, sent: map[uuid.UUID]time.Time{}}
}

func (f *fakeNotifications) Upsert(_ context.Context, userID uuid.UUID, cronSchedule string) (user.EmailNotification, error) {
	n := user.EmailNotification{ID: int64(len(f.byUser) + 1), UserID: userID, CronSchedule: cronSchedule}
	f.byUser[userID] = n
	return n, nil
}

func (f *fakeNotifications) GetByUser(_ context.Context, userID uuid.UUID) (user.EmailNotification, error) {
	n, ok := f.byUser[userID]
	if !ok {
		return user.EmailNotification{}, repository.ErrNotFound
	}
	return n, nil
}

func (f *fakeNotifications) Delete(_ context.Context, userID uuid.UUID) error {
	if _, ok := f.byUser[userID]; !ok {
		return repository.ErrNotFound
	}
	delete(f.byUser, userID)
	return nil
}

func (f *fakeNotifications) ListAll(context.Context) ([]user.EmailNotification, error) {
	out := make([]user.EmailNotification, 0, len(f.byUser))
	for _, n := range f.byUser {
		out = append(out, n)
	}
	return out, nil
}

func (f *fakeNotifications) MarkSent(_ context.Context, userID uuid.UUID, at time.Time) error {
	f.sent[userID] = at
	return nil
}

type fakeLocker struct {
	held map[string]bool
	keys []string
}

func (f *fakeLocker) TryLock(_ context.Context, key string, _ time.Duration) (bool, error) {
	if f.held == nil {
		f.held = map[string]bool{}
	}
	f.keys = append(f.keys, key)
	if f.held[key] {
		return false, nil
	}
	f.held[key] = true
	return true, nil
}

type fakeCache struct {
	data    map[string]any
	deletes []string
}

func newFakeCache() *fakeCache { return &fakeCache{data: map[string]any{}} }

func (f *fakeCache) GetJSON(_ context.Context, key string, out any) (bool, error) {
	v, ok := f.data[key]
	if !ok {
		return false, nil
	}
	dst, ok := out.(*[]match.WithListing)
	if !ok {
		return false, nil
	}
	*dst = v.([]match.WithListing)
	return true, nil
}

func (f *fakeCache) SetJSON(_ context.Context, key string, value any, _ time.Duration) error {
	f.data[key] = value
	return nil
}

func (f *fakeCache) Delete(_ context.Context, key string) error {
	f.deletes = append(f.deletes, key)
	delete(f.data, key)
	return nil
}

// captureDispatcher keeps dispatched work for the test to run by hand.
type captureDispatcher struct {
	jobs []func(ctx context.Context) error
	err  error
}

func (d *captureDispatcher) Dispatch(_ string, run func(ctx context.Context) error) error {
	if d.err != nil {
		return d.err
	}
	d.jobs = append(d.jobs, run)
	return nil
}

type recordingEvents struct {
	mu      sync.Mutex
	updates []ws.TaskUpdated
	ready   []ws.MatchesReady
}

func (e *recordingEvents) TaskUpdated(_ uuid.UUID, evt ws.TaskUpdated) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.updates = append(e.updates, evt)
}

func (e *recordingEvents) MatchesReady(_ uuid.UUID, evt ws.MatchesReady) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.ready = append(e.ready, evt)
}

// pagedAdapter serves fixed pages; pages past the end are empty.
type pagedAdapter struct {
	pages  [][]scraper.RawJobRecord
	err    error
	panics bool
	closed bool

	// started, when set, is signalled on each fetch, which then blocks
	// until ctx is done.
	started chan struct{}
}

func (a *pagedAdapter) FetchPage(ctx context.Context, page int) (scraper.Page, error) {
	if a.started != nil {
		select {
		case a.started <- struct{}{}:
		default:
		}
		<-ctx.Done()
		return scraper.Page{}, ctx.Err()
	}
	if a.panics {
		panic("selector exploded")
	}
	if a.err != nil {
		return scraper.Page{}, a.err
	}
	pg := scraper.Page{Number: page}
	if page-1 < len(a.pages) {
		for _, r := range a.pages[page-1] {
			pg.Items = append(pg.Items, scraper.Ok(r))
		}
	}
	return pg, nil
}

func (a *pagedAdapter) Close() error {
	a.closed = true
	return nil
}

type fakeOpener struct {
	adapters map[int64]*pagedAdapter
	openErr  map[int64]error
	opened   []int64
	maxPages int
}

func (o *fakeOpener) Open(b job.Board) (scraper.Adapter, error) {
	o.opened = append(o.opened, b.ID)
	if err := o.openErr[b.ID]; err != nil {
		return nil, err
	}
	a, ok := o.adapters[b.ID]
	if !ok {
		a = &pagedAdapter{}
	}
	return a, nil
}

func (o *fakeOpener) MaxPages(job.Board) int {
	if o.maxPages <= 0 {
		return 5
	}
	return o.maxPages
}

type fakeUsers struct {
	mu      sync.Mutex
	byID    map[uuid.UUID]user.User
	byEmail map[string]uuid.UUID
}

func newFakeUsers() *fakeUsers {
	return &fakeUsers{byID: map[uuid.UUID]user.User{}, byEmail: map[string]uuid.UUID{}}
}

func (f *fakeUsers) Create(_ context.Context, u user.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.byEmail[u.Email]; ok {
		return user.ErrEmailTaken
	}
	f.byID[u.ID] = u
	f.byEmail[u.Email] = u.ID
	return nil
}

func (f *fakeUsers) GetByID(_ context.Context, id uuid.UUID) (user.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.byID[id]
	if !ok {
		return user.User{}, user.ErrNotFound
	}
	return u, nil
}

func (f *fakeUsers) GetByEmail(_ context.Context, email string) (user.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	id, ok := f.byEmail[email]
	if !ok {
		return user.User{}, user.ErrNotFound
	}
	return f.byID[id], nil
}
