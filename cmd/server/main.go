package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"codestreak/internal/config"
	"codestreak/internal/database"
	"codestreak/internal/logger"
	"codestreak/internal/models"
	"codestreak/internal/notify"
	"codestreak/internal/platform"
	"codestreak/internal/repository"
	"codestreak/internal/service"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Initialize database with config (supports sqlite, postgres, mysql)
	db, err := database.InitializeWithConfig(cfg)
	if err != nil {
		logger.Error("failed to initialize database: %v", err)
		os.Exit(1)
	}
	defer db.Close()

	logger.Info("database connection established (type: %s)", cfg.DatabaseType)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Run migrations
	if err := db.RunMigrations(ctx); err != nil {
		logger.Error("failed to run migrations: %v", err)
		os.Exit(1)
	}
	logger.Success("migrations completed")

	// Platform adapters
	httpClient := &http.Client{Timeout: 15 * time.Second}
	registry, err := platform.NewRegistry(
		platform.NewLeetCodeAdapter(httpClient),
		platform.NewCodeforcesAdapter(httpClient),
		platform.NewCodeChefAdapter(httpClient),
		platform.NewGitHubAdapter(cfg.GitHubToken),
	)
	if err != nil {
		logger.Error("failed to build adapter registry: %v", err)
		os.Exit(1)
	}

	// Repositories
	userRepo := repository.NewUserRepository(db)
	snapshotRepo := repository.NewSnapshotRepository(db)
	problemRepo := repository.NewProblemRepository(db)
	challengeRepo := repository.NewChallengeRepository(db)
	contestRepo := repository.NewContestRepository(db)

	// Notifier: SES when configured, console otherwise
	var notifier notify.Notifier
	ses, err := notify.NewSESNotifier(cfg.AWSRegion, cfg.SESFromEmail, cfg.SESFromName)
	if err != nil {
		logger.Error("failed to initialize SES notifier: %v", err)
		os.Exit(1)
	}
	if ses.IsEnabled() {
		notifier = ses
	} else {
		notifier = notify.LogNotifier{}
	}

	// Services
	syncService := service.NewSyncService(snapshotRepo, registry, cfg.WindowDays, cfg.SnapshotMaxAge)
	contestService := service.NewContestService(contestRepo, registry)
	reminderService := service.NewReminderService(contestRepo, userRepo, notifier, cfg.ReminderOffset)
	challengeService := service.NewChallengeService(
		challengeRepo, problemRepo,
		service.RegistrySubmissions{Registry: registry},
		cfg.ChallengeExclusionDays,
		models.Difficulty(cfg.ChallengeMaxDifficulty),
	)
	leaderboard := service.NewLeaderboardService(userRepo, syncService)

	app := &app{
		users:      userRepo,
		sync:       syncService,
		contests:   contestService,
		challenges: challengeService,
		board:      leaderboard,
	}

	// Background loops
	go app.syncLoop(ctx, cfg.SyncInterval)
	go reminderLoop(ctx, reminderService, cfg.ReminderScanInterval)

	logger.Success("codestreak running: sync every %s, reminder scan every %s",
		cfg.SyncInterval, cfg.ReminderScanInterval)

	// Block until shutdown
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig

	logger.Info("shutting down")
	cancel()
	time.Sleep(time.Second) // let in-flight ticks finish
}

// app groups the long-running services the sync loop drives
type app struct {
	users      *repository.UserRepository
	sync       *service.SyncService
	contests   *service.ContestService
	challenges *service.ChallengeService
	board      *service.LeaderboardService
}

// syncLoop periodically refreshes every user's platform data, rolls daily
// challenges forward, and refreshes the contest catalog
func (a *app) syncLoop(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	a.runSync(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			a.runSync(ctx)
		}
	}
}

func (a *app) runSync(ctx context.Context) {
	list, err := a.users.List(ctx)
	if err != nil {
		logger.Error("sync: listing users failed: %v", err)
		return
	}

	for i := range list {
		user, err := a.users.GetByID(ctx, list[i].ID)
		if err != nil || user == nil {
			logger.Warning("sync: loading user %s failed: %v", list[i].ID, err)
			continue
		}
		if _, err := a.sync.SyncUser(ctx, user); err != nil {
			logger.Error("sync: %s failed: %v", user.Username, err)
			continue
		}
		// Roll the daily challenge forward and auto-verify against the
		// freshly synced submission history.
		if _, err := a.challenges.GetToday(ctx, user); err != nil {
			logger.Warning("challenge rollover for %s failed: %v", user.Username, err)
		}
	}

	if err := a.contests.Refresh(ctx); err != nil {
		logger.Error("contest refresh failed: %v", err)
	}

	board, err := a.board.Build(ctx, "", service.RankByScore, 1)
	if err != nil {
		logger.Error("leaderboard build failed: %v", err)
		return
	}
	for _, entry := range board.Top {
		logger.Info("leaderboard #%d: %s (%d)", entry.Rank, entry.Username, entry.Value)
	}
}

// reminderLoop runs the due-reminder scan on a fixed tick
func reminderLoop(ctx context.Context, reminders *service.ReminderService, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			fired, err := reminders.Scan(ctx)
			if err != nil {
				logger.Error("reminder scan failed: %v", err)
				continue
			}
			if fired > 0 {
				logger.Success("fired %d contest reminders", fired)
			}
		}
	}
}
