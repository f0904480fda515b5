// Command backfill is the admin CLI: create users, link platform handles,
// seed the problem pool, and run a one-shot sync for a single user.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/google/uuid"

	"codestreak/internal/config"
	"codestreak/internal/database"
	"codestreak/internal/logger"
	"codestreak/internal/models"
	"codestreak/internal/platform"
	"codestreak/internal/repository"
	"codestreak/internal/service"
)

func main() {
	addCmd := flag.NewFlagSet("adduser", flag.ExitOnError)
	addUsername := addCmd.String("username", "", "Username (required)")
	addEmail := addCmd.String("email", "", "Email address (required)")

	linkCmd := flag.NewFlagSet("link", flag.ExitOnError)
	linkUser := linkCmd.String("user", "", "Username (required)")
	linkPlatform := linkCmd.String("platform", "", "Platform: leetcode, codeforces, codechef, github (required)")
	linkHandle := linkCmd.String("handle", "", "Handle on the platform (required)")

	seedCmd := flag.NewFlagSet("seed", flag.ExitOnError)
	seedInput := seedCmd.String("input", "", "JSON file with the problem pool (required)")

	syncCmd := flag.NewFlagSet("sync", flag.ExitOnError)
	syncUser := syncCmd.String("user", "", "Username (required)")

	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	cfg := config.Load()

	db, err := database.InitializeWithConfig(cfg)
	if err != nil {
		logger.Error("failed to initialize database: %v", err)
		os.Exit(1)
	}
	defer db.Close()

	ctx := context.Background()
	if err := db.RunMigrations(ctx); err != nil {
		logger.Error("failed to run migrations: %v", err)
		os.Exit(1)
	}

	users := repository.NewUserRepository(db)

	switch os.Args[1] {
	case "adduser":
		addCmd.Parse(os.Args[2:])
		if *addUsername == "" || *addEmail == "" {
			addCmd.PrintDefaults()
			os.Exit(1)
		}
		handleAddUser(ctx, users, *addUsername, *addEmail)

	case "link":
		linkCmd.Parse(os.Args[2:])
		if *linkUser == "" || *linkPlatform == "" || *linkHandle == "" {
			linkCmd.PrintDefaults()
			os.Exit(1)
		}
		handleLink(ctx, users, *linkUser, *linkPlatform, *linkHandle)

	case "seed":
		seedCmd.Parse(os.Args[2:])
		if *seedInput == "" {
			seedCmd.PrintDefaults()
			os.Exit(1)
		}
		handleSeed(ctx, repository.NewProblemRepository(db), *seedInput)

	case "sync":
		syncCmd.Parse(os.Args[2:])
		if *syncUser == "" {
			syncCmd.PrintDefaults()
			os.Exit(1)
		}
		handleSync(ctx, cfg, db, users, *syncUser)

	default:
		printUsage()
		os.Exit(1)
	}
}

func handleAddUser(ctx context.Context, users *repository.UserRepository, username, email string) {
	user := &models.User{
		ID:        uuid.NewString(),
		Username:  username,
		Email:     email,
		CreatedAt: time.Now(),
	}
	if err := users.Create(ctx, user); err != nil {
		logger.Error("creating user failed: %v", err)
		os.Exit(1)
	}
	logger.Success("created user %s (%s)", username, user.ID)
}

func handleLink(ctx context.Context, users *repository.UserRepository, username, platformName, handle string) {
	p, err := models.ParsePlatform(platformName)
	if err != nil {
		logger.Error("%v", err)
		os.Exit(1)
	}

	user, err := users.GetByUsername(ctx, username)
	if err != nil {
		logger.Error("loading user failed: %v", err)
		os.Exit(1)
	}
	if user == nil {
		logger.Error("no such user: %s", username)
		os.Exit(1)
	}

	if err := users.SetLink(ctx, user.ID, p, handle); err != nil {
		logger.Error("linking failed: %v", err)
		os.Exit(1)
	}
	logger.Success("linked %s to %s as %s", username, p, handle)
}

func handleSeed(ctx context.Context, problems *repository.ProblemRepository, path string) {
	data, err := os.ReadFile(path)
	if err != nil {
		logger.Error("reading %s failed: %v", path, err)
		os.Exit(1)
	}

	var pool []models.Problem
	if err := json.Unmarshal(data, &pool); err != nil {
		logger.Error("parsing %s failed: %v", path, err)
		os.Exit(1)
	}

	for i := range pool {
		if _, err := models.ParsePlatform(string(pool[i].Platform)); err != nil {
			logger.Error("problem %s: %v", pool[i].ID, err)
			os.Exit(1)
		}
		if err := problems.Upsert(ctx, &pool[i]); err != nil {
			logger.Error("seeding problem %s failed: %v", pool[i].ID, err)
			os.Exit(1)
		}
	}
	logger.Success("seeded %d problems", len(pool))
}

func handleSync(ctx context.Context, cfg *config.Config, db *database.DB, users *repository.UserRepository, username string) {
	user, err := users.GetByUsername(ctx, username)
	if err != nil {
		logger.Error("loading user failed: %v", err)
		os.Exit(1)
	}
	if user == nil {
		logger.Error("no such user: %s", username)
		os.Exit(1)
	}

	httpClient := &http.Client{Timeout: 15 * time.Second}
	registry, err := platform.NewRegistry(
		platform.NewLeetCodeAdapter(httpClient),
		platform.NewCodeforcesAdapter(httpClient),
		platform.NewCodeChefAdapter(httpClient),
		platform.NewGitHubAdapter(cfg.GitHubToken),
	)
	if err != nil {
		logger.Error("building adapter registry failed: %v", err)
		os.Exit(1)
	}

	syncService := service.NewSyncService(
		repository.NewSnapshotRepository(db), registry, cfg.WindowDays, cfg.SnapshotMaxAge)

	report, err := syncService.SyncUser(ctx, user)
	if err != nil {
		logger.Error("sync failed: %v", err)
		os.Exit(1)
	}
	logger.Success("synced %s: ok=%v degraded=%v", username, report.Synced, report.Failed)

	cal, err := syncService.Calendar(ctx, user.ID)
	if err != nil {
		logger.Error("building calendar failed: %v", err)
		os.Exit(1)
	}
	userScore, err := syncService.Score(ctx, user.ID)
	if err != nil {
		logger.Error("computing score failed: %v", err)
		os.Exit(1)
	}

	logger.Info("activity: %d contributions over %d active days, streak %d (longest %d)",
		cal.Stats.TotalContributions, cal.Stats.ActiveDays,
		cal.Stats.CurrentStreak, cal.Stats.LongestStreak)
	logger.Info("score: %d (problems %d, ratings %d, activity %d, consistency %d)",
		userScore.Total, userScore.Problems, userScore.Ratings,
		userScore.Activity, userScore.Consistency)
}

func printUsage() {
	fmt.Println("Usage: backfill <command> [flags]")
	fmt.Println()
	fmt.Println("Commands:")
	fmt.Println("  adduser  -username <name> -email <addr>")
	fmt.Println("  link     -user <name> -platform <p> -handle <h>")
	fmt.Println("  seed     -input <problems.json>")
	fmt.Println("  sync     -user <name>")
}
