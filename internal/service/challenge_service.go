package service

import (
	"context"
	"math/rand"
	"time"

	"github.com/google/uuid"

	"codestreak/internal/logger"
	"codestreak/internal/models"
	"codestreak/internal/platform"
)

// ChallengeStore persists daily challenge records and challenge streaks
type ChallengeStore interface {
	Create(ctx context.Context, ch *models.DailyChallenge) error
	GetCurrent(ctx context.Context, userID, day string) (*models.DailyChallenge, error)
	MarkCompleted(ctx context.Context, id string, auto bool, completedAt time.Time) (bool, error)
	MarkSkipped(ctx context.Context, id string) (bool, error)
	History(ctx context.Context, userID string, limit int) ([]models.DailyChallenge, error)
	CompletedProblemIDs(ctx context.Context, userID, sinceDay string) ([]string, error)
	DayProblemIDs(ctx context.Context, userID, day string) ([]string, error)
	TopicStats(ctx context.Context, userID string) (map[string]models.TopicStat, error)
	GetStreak(ctx context.Context, userID string) (*models.ChallengeStreak, error)
	SaveStreak(ctx context.Context, streak *models.ChallengeStreak) error
}

// ProblemStore exposes the selectable problem pool
type ProblemStore interface {
	List(ctx context.Context) ([]models.Problem, error)
}

// SubmissionSource answers the single external read the verification step
// performs: accepted submissions for a handle since an instant
type SubmissionSource interface {
	Submissions(ctx context.Context, p models.Platform, handle string, since time.Time) ([]models.Submission, error)
}

// RegistrySubmissions adapts the platform adapter registry to the
// SubmissionSource contract
type RegistrySubmissions struct {
	Registry *platform.Registry
}

// Submissions queries the platform's adapter for accepted submissions
func (r RegistrySubmissions) Submissions(ctx context.Context, p models.Platform, handle string, since time.Time) ([]models.Submission, error) {
	adapter, err := r.Registry.Get(p)
	if err != nil {
		return nil, err
	}
	return adapter.Submissions(ctx, handle, since)
}

// ChallengeState is the combined result of a challenge read or transition
type ChallengeState struct {
	Challenge *models.DailyChallenge
	Streak    *models.ChallengeStreak
}

// ChallengeService runs the per-user daily challenge state machine:
// NONE → ASSIGNED → {COMPLETED, SKIPPED} per calendar day
type ChallengeService struct {
	store       ChallengeStore
	problems    ProblemStore
	submissions SubmissionSource

	exclusionDays int
	maxDifficulty models.Difficulty

	now func() time.Time
}

// NewChallengeService creates a new challenge service. exclusionDays is the
// trailing window within which completed problems are not reselected;
// maxDifficulty is the ceiling the streak-scaled difficulty never exceeds.
func NewChallengeService(store ChallengeStore, problems ProblemStore, submissions SubmissionSource, exclusionDays int, maxDifficulty models.Difficulty) *ChallengeService {
	return &ChallengeService{
		store:         store,
		problems:      problems,
		submissions:   submissions,
		exclusionDays: exclusionDays,
		maxDifficulty: maxDifficulty,
		now:           time.Now,
	}
}

// GetToday returns today's challenge, assigning one if this is the first read
// of the day. While the challenge is ASSIGNED each read performs one passive
// verification against platform submission history; a failed lookup is
// tolerated as not-yet-verified.
func (s *ChallengeService) GetToday(ctx context.Context, user *models.User) (*ChallengeState, error) {
	ch, err := s.ensureToday(ctx, user)
	if err != nil {
		return nil, err
	}

	if ch.Status == models.ChallengeAssigned {
		verified, err := s.verify(ctx, user, ch)
		if err != nil {
			return nil, err
		}
		if verified {
			if err := s.complete(ctx, ch, true); err != nil {
				return nil, err
			}
		}
	}

	streak, err := s.store.GetStreak(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	return &ChallengeState{Challenge: ch, Streak: streak}, nil
}

// Complete explicitly completes today's challenge. The same verification runs
// as on reads; without an accepted submission it fails with
// ErrVerificationFailed rather than trusting the self-report.
func (s *ChallengeService) Complete(ctx context.Context, user *models.User) (*ChallengeState, error) {
	day := s.today()
	ch, err := s.store.GetCurrent(ctx, user.ID, day)
	if err != nil {
		return nil, err
	}
	if ch == nil {
		return nil, ErrChallengeNotFound
	}

	if ch.Status == models.ChallengeAssigned {
		verified, err := s.verify(ctx, user, ch)
		if err != nil {
			return nil, err
		}
		if !verified {
			return nil, ErrVerificationFailed
		}
		if err := s.complete(ctx, ch, false); err != nil {
			return nil, err
		}
	}

	streak, err := s.store.GetStreak(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	return &ChallengeState{Challenge: ch, Streak: streak}, nil
}

// Skip marks today's assigned challenge SKIPPED and immediately assigns a
// fresh problem for the same day. Skipped problems stay out of the solve
// history and never touch the streak.
func (s *ChallengeService) Skip(ctx context.Context, user *models.User) (*ChallengeState, error) {
	day := s.today()
	ch, err := s.store.GetCurrent(ctx, user.ID, day)
	if err != nil {
		return nil, err
	}
	if ch == nil || ch.Status != models.ChallengeAssigned {
		return nil, ErrChallengeNotFound
	}

	ok, err := s.store.MarkSkipped(ctx, ch.ID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrChallengeNotFound
	}

	next, err := s.assign(ctx, user, day)
	if err != nil {
		return nil, err
	}

	streak, err := s.store.GetStreak(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	return &ChallengeState{Challenge: next, Streak: streak}, nil
}

// Topics returns per-topic completed/total counts
func (s *ChallengeService) Topics(ctx context.Context, userID string) (map[string]models.TopicStat, error) {
	return s.store.TopicStats(ctx, userID)
}

// History returns the last limit challenge records, newest first
func (s *ChallengeService) History(ctx context.Context, userID string, limit int) ([]models.DailyChallenge, error) {
	return s.store.History(ctx, userID, limit)
}

// Streak returns the user's challenge streak
func (s *ChallengeService) Streak(ctx context.Context, userID string) (*models.ChallengeStreak, error) {
	return s.store.GetStreak(ctx, userID)
}

func (s *ChallengeService) today() string {
	return s.now().Format(models.DateFormat)
}

// ensureToday returns today's current record, running the rollover when the
// day has none yet
func (s *ChallengeService) ensureToday(ctx context.Context, user *models.User) (*models.DailyChallenge, error) {
	day := s.today()

	ch, err := s.store.GetCurrent(ctx, user.ID, day)
	if err != nil {
		return nil, err
	}
	if ch != nil {
		return ch, nil
	}

	// First read of a new day: a streak not extended yesterday is broken
	// here, lazily, rather than by a background job.
	if err := s.breakStaleStreak(ctx, user.ID, day); err != nil {
		return nil, err
	}

	return s.assign(ctx, user, day)
}

// breakStaleStreak zeroes the current streak when the last completion is
// older than yesterday
func (s *ChallengeService) breakStaleStreak(ctx context.Context, userID, day string) error {
	streak, err := s.store.GetStreak(ctx, userID)
	if err != nil {
		return err
	}
	if streak.Current == 0 || streak.LastCompletedDay == "" {
		return nil
	}
	if streak.LastCompletedDay >= previousDay(day) {
		return nil
	}

	streak.Current = 0
	return s.store.SaveStreak(ctx, streak)
}

// assign selects and records a fresh ASSIGNED challenge for (user, day)
func (s *ChallengeService) assign(ctx context.Context, user *models.User, day string) (*models.DailyChallenge, error) {
	streak, err := s.store.GetStreak(ctx, user.ID)
	if err != nil {
		return nil, err
	}

	problem, err := s.selectProblem(ctx, user.ID, day, streak.Current)
	if err != nil {
		return nil, err
	}

	ch := &models.DailyChallenge{
		ID:         uuid.NewString(),
		UserID:     user.ID,
		Day:        day,
		Platform:   problem.Platform,
		ProblemID:  problem.ID,
		Difficulty: problem.Difficulty,
		Topic:      problem.Topic,
		Status:     models.ChallengeAssigned,
		AssignedAt: s.now(),
	}
	if err := s.store.Create(ctx, ch); err != nil {
		return nil, err
	}

	logger.Info("assigned challenge %s (%s/%s) to %s for %s",
		problem.ID, problem.Difficulty, problem.Topic, user.Username, day)
	return ch, nil
}

// selectProblem picks a problem the user has not completed in the exclusion
// window, at the streak-scaled difficulty, biased toward the least-practiced
// topic
func (s *ChallengeService) selectProblem(ctx context.Context, userID, day string, streak int) (*models.Problem, error) {
	pool, err := s.problems.List(ctx)
	if err != nil {
		return nil, err
	}

	excluded := map[string]bool{}

	sinceDay := previousDays(day, s.exclusionDays)
	completed, err := s.store.CompletedProblemIDs(ctx, userID, sinceDay)
	if err != nil {
		return nil, err
	}
	for _, id := range completed {
		excluded[id] = true
	}

	// Anything already offered today, including skips, is off the table for
	// the rest of the day.
	used, err := s.store.DayProblemIDs(ctx, userID, day)
	if err != nil {
		return nil, err
	}
	for _, id := range used {
		excluded[id] = true
	}

	target := s.difficultyFor(streak)
	candidates := filterProblems(pool, excluded, target)
	if len(candidates) == 0 {
		// Relax the difficulty rather than leave the day unassigned.
		candidates = filterProblems(pool, excluded, "")
	}
	if len(candidates) == 0 {
		return nil, ErrNoEligibleProblems
	}

	stats, err := s.store.TopicStats(ctx, userID)
	if err != nil {
		return nil, err
	}

	return pickWeighted(candidates, stats), nil
}

// difficultyFor scales difficulty with the current streak, saturating at the
// configured ceiling
func (s *ChallengeService) difficultyFor(streak int) models.Difficulty {
	var d models.Difficulty
	switch {
	case streak < 3:
		d = models.DifficultyEasy
	case streak < 10:
		d = models.DifficultyMedium
	default:
		d = models.DifficultyHard
	}
	if difficultyRank(d) > difficultyRank(s.maxDifficulty) {
		d = s.maxDifficulty
	}
	return d
}

func difficultyRank(d models.Difficulty) int {
	switch d {
	case models.DifficultyMedium:
		return 1
	case models.DifficultyHard:
		return 2
	}
	return 0
}

func filterProblems(pool []models.Problem, excluded map[string]bool, difficulty models.Difficulty) []models.Problem {
	var out []models.Problem
	for _, p := range pool {
		if excluded[p.ID] {
			continue
		}
		if difficulty != "" && p.Difficulty != difficulty {
			continue
		}
		out = append(out, p)
	}
	return out
}

// pickWeighted draws one problem with weight inversely proportional to how
// often its topic has been completed, biasing selection toward the
// least-practiced topic
func pickWeighted(candidates []models.Problem, stats map[string]models.TopicStat) *models.Problem {
	weights := make([]float64, len(candidates))
	total := 0.0
	for i, p := range candidates {
		w := 1.0 / float64(1+stats[p.Topic].Completed)
		weights[i] = w
		total += w
	}

	r := rand.Float64() * total
	for i := range candidates {
		r -= weights[i]
		if r <= 0 {
			return &candidates[i]
		}
	}
	return &candidates[len(candidates)-1]
}

// verify performs the single external submission lookup for an assigned
// challenge. Lookup failure is not an error to the caller, just "not yet
// verified".
func (s *ChallengeService) verify(ctx context.Context, user *models.User, ch *models.DailyChallenge) (bool, error) {
	handle, ok := user.Links[ch.Platform]
	if !ok {
		return false, nil
	}

	since, err := time.Parse(models.DateFormat, ch.Day)
	if err != nil {
		return false, err
	}

	subs, err := s.submissions.Submissions(ctx, ch.Platform, handle, since)
	if err != nil {
		logger.Warning("challenge verification for %s deferred: %v", user.Username, err)
		return false, nil
	}

	for _, sub := range subs {
		if sub.Accepted && sub.ProblemID == ch.ProblemID {
			return true, nil
		}
	}
	return false, nil
}

// complete transitions the record to COMPLETED and extends the streak. The
// store-level status guard makes the transition run at most once.
func (s *ChallengeService) complete(ctx context.Context, ch *models.DailyChallenge, auto bool) error {
	completedAt := s.now()
	ok, err := s.store.MarkCompleted(ctx, ch.ID, auto, completedAt)
	if err != nil {
		return err
	}
	if !ok {
		return nil // lost the transition to a concurrent caller
	}

	ch.Status = models.ChallengeCompleted
	ch.AutoCompleted = auto
	ch.CompletedAt = &completedAt

	return s.extendStreak(ctx, ch.UserID, ch.Day)
}

// extendStreak increments the challenge streak for a completion on day
func (s *ChallengeService) extendStreak(ctx context.Context, userID, day string) error {
	streak, err := s.store.GetStreak(ctx, userID)
	if err != nil {
		return err
	}
	if streak.LastCompletedDay == day {
		return nil // already counted today
	}

	if streak.LastCompletedDay == previousDay(day) {
		streak.Current++
	} else {
		streak.Current = 1
	}
	if streak.Current > streak.Longest {
		streak.Longest = streak.Current
	}
	streak.TotalCompleted++
	streak.LastCompletedDay = day
	streak.UserID = userID

	return s.store.SaveStreak(ctx, streak)
}

func previousDay(day string) string {
	return previousDays(day, 1)
}

func previousDays(day string, n int) string {
	t, err := time.Parse(models.DateFormat, day)
	if err != nil {
		return day
	}
	return t.AddDate(0, 0, -n).Format(models.DateFormat)
}
