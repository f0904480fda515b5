package database

// migration is one named schema step. The default SQL is written in the
// portable subset all three dialects accept; the rare statement that cannot
// be expressed portably carries per-driver overrides.
type migration struct {
	name     string
	sql      string
	variants map[string]string // driver name -> override SQL
}

// migrations run in order exactly once each, tracked by name
var migrations = []migration{
	{
		name: "001_users",
		sql: `
			CREATE TABLE IF NOT EXISTS users (
				id VARCHAR(64) PRIMARY KEY,
				username VARCHAR(128) UNIQUE NOT NULL,
				email VARCHAR(255) NOT NULL,
				created_at TIMESTAMP NOT NULL
			);
		`,
	},
	{
		name: "002_platform_links",
		sql: `
			CREATE TABLE IF NOT EXISTS platform_links (
				user_id VARCHAR(64) NOT NULL,
				platform VARCHAR(32) NOT NULL,
				handle VARCHAR(128) NOT NULL,
				PRIMARY KEY (user_id, platform)
			);
		`,
	},
	{
		name: "003_platform_snapshots",
		sql: `
			CREATE TABLE IF NOT EXISTS platform_snapshots (
				user_id VARCHAR(64) NOT NULL,
				platform VARCHAR(32) NOT NULL,
				handle VARCHAR(128) NOT NULL,
				problems_solved INTEGER NOT NULL DEFAULT 0,
				rating INTEGER NOT NULL DEFAULT 0,
				contests INTEGER NOT NULL DEFAULT 0,
				contributions INTEGER NOT NULL DEFAULT 0,
				fetched_at TIMESTAMP NOT NULL,
				PRIMARY KEY (user_id, platform)
			);
		`,
	},
	{
		name: "004_daily_activity",
		sql: `
			CREATE TABLE IF NOT EXISTS daily_activity (
				user_id VARCHAR(64) NOT NULL,
				platform VARCHAR(32) NOT NULL,
				day VARCHAR(10) NOT NULL,
				count INTEGER NOT NULL DEFAULT 0,
				PRIMARY KEY (user_id, platform, day)
			);
		`,
	},
	{
		name: "005_problems",
		sql: `
			CREATE TABLE IF NOT EXISTS problems (
				id VARCHAR(128) PRIMARY KEY,
				platform VARCHAR(32) NOT NULL,
				title TEXT NOT NULL,
				difficulty VARCHAR(16) NOT NULL,
				topic VARCHAR(64) NOT NULL,
				url TEXT
			);
		`,
	},
	{
		name: "006_daily_challenges",
		sql: `
			CREATE TABLE IF NOT EXISTS daily_challenges (
				id VARCHAR(64) PRIMARY KEY,
				user_id VARCHAR(64) NOT NULL,
				day VARCHAR(10) NOT NULL,
				platform VARCHAR(32) NOT NULL,
				problem_id VARCHAR(128) NOT NULL,
				difficulty VARCHAR(16) NOT NULL,
				topic VARCHAR(64) NOT NULL,
				status VARCHAR(16) NOT NULL,
				auto_completed BOOLEAN NOT NULL DEFAULT FALSE,
				assigned_at TIMESTAMP NOT NULL,
				completed_at TIMESTAMP NULL
			);
		`,
	},
	{
		name: "007_daily_challenges_day_index",
		sql: `
			CREATE INDEX idx_daily_challenges_user_day
			ON daily_challenges (user_id, day);
		`,
	},
	{
		name: "008_challenge_streaks",
		sql: `
			CREATE TABLE IF NOT EXISTS challenge_streaks (
				user_id VARCHAR(64) PRIMARY KEY,
				current INTEGER NOT NULL DEFAULT 0,
				longest INTEGER NOT NULL DEFAULT 0,
				total_completed INTEGER NOT NULL DEFAULT 0,
				last_completed_day VARCHAR(10) NOT NULL DEFAULT ''
			);
		`,
	},
	{
		name: "009_contests",
		sql: `
			CREATE TABLE IF NOT EXISTS contests (
				id INTEGER PRIMARY KEY AUTOINCREMENT,
				platform VARCHAR(32) NOT NULL,
				name VARCHAR(255) NOT NULL,
				starts_at TIMESTAMP NOT NULL,
				duration_seconds INTEGER NOT NULL DEFAULT 0,
				url TEXT,
				UNIQUE (platform, name, starts_at)
			);
		`,
		variants: map[string]string{
			"postgres": `
				CREATE TABLE IF NOT EXISTS contests (
					id BIGSERIAL PRIMARY KEY,
					platform VARCHAR(32) NOT NULL,
					name VARCHAR(255) NOT NULL,
					starts_at TIMESTAMP NOT NULL,
					duration_seconds INTEGER NOT NULL DEFAULT 0,
					url TEXT,
					UNIQUE (platform, name, starts_at)
				);
			`,
			"mysql": `
				CREATE TABLE IF NOT EXISTS contests (
					id BIGINT AUTO_INCREMENT PRIMARY KEY,
					platform VARCHAR(32) NOT NULL,
					name VARCHAR(255) NOT NULL,
					starts_at TIMESTAMP NOT NULL,
					duration_seconds INTEGER NOT NULL DEFAULT 0,
					url TEXT,
					UNIQUE (platform, name, starts_at)
				);
			`,
		},
	},
	{
		name: "010_contest_reminders",
		sql: `
			CREATE TABLE IF NOT EXISTS contest_reminders (
				id VARCHAR(64) PRIMARY KEY,
				user_id VARCHAR(64) NOT NULL,
				contest_id BIGINT NOT NULL,
				reminder_time TIMESTAMP NOT NULL,
				fired BOOLEAN NOT NULL DEFAULT FALSE,
				created_at TIMESTAMP NOT NULL,
				UNIQUE (user_id, contest_id)
			);
		`,
	},
}
