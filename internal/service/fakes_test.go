package service

import (
	"context"
	"sync"
	"time"

	"codestreak/internal/models"
)

// fakeChallengeStore is an in-memory ChallengeStore
type fakeChallengeStore struct {
	mu      sync.Mutex
	records []*models.DailyChallenge
	streaks map[string]models.ChallengeStreak
}

func newFakeChallengeStore() *fakeChallengeStore {
	return &fakeChallengeStore{streaks: map[string]models.ChallengeStreak{}}
}

func (f *fakeChallengeStore) Create(_ context.Context, ch *models.DailyChallenge) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	cp := *ch
	f.records = append(f.records, &cp)
	return nil
}

func (f *fakeChallengeStore) GetCurrent(_ context.Context, userID, day string) (*models.DailyChallenge, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := len(f.records) - 1; i >= 0; i-- {
		r := f.records[i]
		if r.UserID == userID && r.Day == day {
			cp := *r
			return &cp, nil
		}
	}
	return nil, nil
}

func (f *fakeChallengeStore) MarkCompleted(_ context.Context, id string, auto bool, completedAt time.Time) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, r := range f.records {
		if r.ID == id && r.Status == models.ChallengeAssigned {
			r.Status = models.ChallengeCompleted
			r.AutoCompleted = auto
			t := completedAt
			r.CompletedAt = &t
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeChallengeStore) MarkSkipped(_ context.Context, id string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, r := range f.records {
		if r.ID == id && r.Status == models.ChallengeAssigned {
			r.Status = models.ChallengeSkipped
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeChallengeStore) History(_ context.Context, userID string, limit int) ([]models.DailyChallenge, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.DailyChallenge
	for i := len(f.records) - 1; i >= 0 && len(out) < limit; i-- {
		if f.records[i].UserID == userID {
			out = append(out, *f.records[i])
		}
	}
	return out, nil
}

func (f *fakeChallengeStore) CompletedProblemIDs(_ context.Context, userID, sinceDay string) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []string
	for _, r := range f.records {
		if r.UserID == userID && r.Day >= sinceDay && r.Status == models.ChallengeCompleted {
			out = append(out, r.ProblemID)
		}
	}
	return out, nil
}

func (f *fakeChallengeStore) DayProblemIDs(_ context.Context, userID, day string) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []string
	for _, r := range f.records {
		if r.UserID == userID && r.Day == day {
			out = append(out, r.ProblemID)
		}
	}
	return out, nil
}

func (f *fakeChallengeStore) TopicStats(_ context.Context, userID string) (map[string]models.TopicStat, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	stats := map[string]models.TopicStat{}
	for _, r := range f.records {
		if r.UserID != userID || r.Status == models.ChallengeSkipped {
			continue
		}
		st := stats[r.Topic]
		st.Total++
		if r.Status == models.ChallengeCompleted {
			st.Completed++
		}
		stats[r.Topic] = st
	}
	return stats, nil
}

func (f *fakeChallengeStore) GetStreak(_ context.Context, userID string) (*models.ChallengeStreak, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if st, ok := f.streaks[userID]; ok {
		cp := st
		return &cp, nil
	}
	return &models.ChallengeStreak{UserID: userID}, nil
}

func (f *fakeChallengeStore) SaveStreak(_ context.Context, streak *models.ChallengeStreak) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.streaks[streak.UserID] = *streak
	return nil
}

// fakeProblemStore serves a fixed pool
type fakeProblemStore struct {
	pool []models.Problem
}

func (f *fakeProblemStore) List(_ context.Context) ([]models.Problem, error) {
	return f.pool, nil
}

// fakeSubmissions returns canned submissions or a canned error
type fakeSubmissions struct {
	subs []models.Submission
	err  error
}

func (f *fakeSubmissions) Submissions(_ context.Context, _ models.Platform, _ string, _ time.Time) ([]models.Submission, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.subs, nil
}

// fakeReminderStore is an in-memory ReminderStore with a mutex-guarded
// MarkFired compare-and-set
type fakeReminderStore struct {
	mu        sync.Mutex
	contests  map[int64]models.Contest
	reminders map[string]models.ContestReminder
}

func newFakeReminderStore() *fakeReminderStore {
	return &fakeReminderStore{
		contests:  map[int64]models.Contest{},
		reminders: map[string]models.ContestReminder{},
	}
}

func (f *fakeReminderStore) GetContest(_ context.Context, id int64) (*models.Contest, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if c, ok := f.contests[id]; ok {
		return &c, nil
	}
	return nil, nil
}

func (f *fakeReminderStore) GetReminder(_ context.Context, userID string, contestID int64) (*models.ContestReminder, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, r := range f.reminders {
		if r.UserID == userID && r.ContestID == contestID {
			cp := r
			return &cp, nil
		}
	}
	return nil, nil
}

func (f *fakeReminderStore) CreateReminder(_ context.Context, rem *models.ContestReminder) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.reminders[rem.ID] = *rem
	return nil
}

func (f *fakeReminderStore) DeleteReminder(_ context.Context, userID string, contestID int64) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for id, r := range f.reminders {
		if r.UserID == userID && r.ContestID == contestID && !r.Fired {
			delete(f.reminders, id)
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeReminderStore) ListUserReminders(_ context.Context, userID string) ([]models.ContestReminder, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.ContestReminder
	for _, r := range f.reminders {
		if r.UserID == userID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeReminderStore) DueReminders(_ context.Context, now time.Time) ([]models.ContestReminder, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.ContestReminder
	for _, r := range f.reminders {
		if r.Due(now) {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeReminderStore) MarkFired(_ context.Context, reminderID string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	r, ok := f.reminders[reminderID]
	if !ok || r.Fired {
		return false, nil
	}
	r.Fired = true
	f.reminders[reminderID] = r
	return true, nil
}

// fakeUserSource resolves users from a map
type fakeUserSource struct {
	users map[string]models.User
}

func (f *fakeUserSource) GetByID(_ context.Context, userID string) (*models.User, error) {
	if u, ok := f.users[userID]; ok {
		return &u, nil
	}
	return nil, nil
}

// countingNotifier counts dispatches
type countingNotifier struct {
	mu    sync.Mutex
	count int
}

func (n *countingNotifier) ContestReminder(_ context.Context, _ *models.User, _ *models.Contest) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.count++
	return nil
}

func (n *countingNotifier) sent() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.count
}

// fakeSnapshotStore is an in-memory SnapshotStore
type fakeSnapshotStore struct {
	mu       sync.Mutex
	snaps    map[string]map[models.Platform]models.PlatformSnapshot
	activity map[string]map[models.Platform][]models.DayCount
}

func newFakeSnapshotStore() *fakeSnapshotStore {
	return &fakeSnapshotStore{
		snaps:    map[string]map[models.Platform]models.PlatformSnapshot{},
		activity: map[string]map[models.Platform][]models.DayCount{},
	}
}

func (f *fakeSnapshotStore) SaveSnapshot(_ context.Context, snap *models.PlatformSnapshot) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.snaps[snap.UserID] == nil {
		f.snaps[snap.UserID] = map[models.Platform]models.PlatformSnapshot{}
	}
	f.snaps[snap.UserID][snap.Platform] = *snap
	return nil
}

func (f *fakeSnapshotStore) GetSnapshots(_ context.Context, userID string) ([]models.PlatformSnapshot, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.PlatformSnapshot
	for _, p := range models.AllPlatforms() {
		if snap, ok := f.snaps[userID][p]; ok {
			out = append(out, snap)
		}
	}
	return out, nil
}

func (f *fakeSnapshotStore) SaveDailyActivity(_ context.Context, userID string, p models.Platform, series []models.DayCount) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.activity[userID] == nil {
		f.activity[userID] = map[models.Platform][]models.DayCount{}
	}
	f.activity[userID][p] = append([]models.DayCount(nil), series...)
	return nil
}

func (f *fakeSnapshotStore) GetDailyActivity(_ context.Context, userID string, start, end time.Time) (map[models.Platform][]models.DayCount, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := map[models.Platform][]models.DayCount{}
	for p, series := range f.activity[userID] {
		for _, dc := range series {
			if dc.Date.Before(start) || dc.Date.After(end) {
				continue
			}
			out[p] = append(out[p], dc)
		}
	}
	return out, nil
}
