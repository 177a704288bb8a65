package database

import (
	"database/sql"
	"log"
	"time"

	"potd_board/internal/platform/config"

	_ "github.com/jackc/pgx/v5/stdlib" // PostgreSQL driver
)

var DB *sql.DB

func Connect() {
	var err error
	DB, err = sql.Open("pgx", config.AppConfig.DBConnStr)
	if err != nil {
		log.Fatalf("Error opening database: %v", err)
	}

	DB.SetMaxOpenConns(25)
	DB.SetMaxIdleConns(25)
	DB.SetConnMaxLifetime(5 * time.Minute)

	if err = DB.Ping(); err != nil {
		log.Fatalf("Error connecting to database: %v", err)
	}
}

// Migrate creates the schema when it does not exist yet. The service owns
// three small tables, so plain DDL beats a migration tool here.
func Migrate() {
	ddl := `
	CREATE TABLE IF NOT EXISTS users (
		id              UUID PRIMARY KEY,
		username        TEXT NOT NULL UNIQUE,
		email           TEXT NOT NULL UNIQUE,
		hashed_password TEXT NOT NULL,
		created_at      TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at      TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS leetcode_sessions (
		user_id       UUID PRIMARY KEY REFERENCES users(id) ON DELETE CASCADE,
		session_token TEXT NOT NULL,
		csrf_token    TEXT NOT NULL,
		updated_at    TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS submission_archive (
		id                   UUID PRIMARY KEY,
		user_id              UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		slug                 TEXT NOT NULL,
		language             TEXT NOT NULL,
		upstream_id          BIGINT,
		state                TEXT,
		status_msg           TEXT,
		runtime              TEXT,
		memory               TEXT,
		total_correct        INT,
		total_testcases      INT,
		ok                   BOOLEAN NOT NULL DEFAULT FALSE,
		error                TEXT,
		steps                JSONB NOT NULL DEFAULT '[]',
		created_at           TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at           TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP
	);
	CREATE INDEX IF NOT EXISTS idx_submission_archive_user_slug
		ON submission_archive(user_id, slug, created_at DESC);
	`
	if _, err := DB.Exec(ddl); err != nil {
		log.Fatalf("Error migrating database schema: %v", err)
	}
}

func Close() {
	if DB != nil {
		DB.Close()
	}
}
