package db

import (
	"database/sql"
	_ "embed"
	"fmt"
	"log/slog"
	"os"
	"time"

	_ "github.com/lib/pq"
)

var DB *sql.DB

//go:embed schema.sql
var schema string

func Connect() error {
	connStr := os.Getenv("DATABASE_URL")
	if connStr == "" {
		slog.Warn("DATABASE_URL environment variable is not set")
	}

	var err error
	DB, err = sql.Open("postgres", connStr)
	if err != nil {
		return err
	}

	DB.SetMaxOpenConns(25)
	DB.SetMaxIdleConns(25)
	DB.SetConnMaxLifetime(5 * time.Minute)

	return DB.Ping()
}

// Migrate applies the embedded schema. Every statement is guarded with
// IF NOT EXISTS so it is safe to run on each start.
func Migrate() error {
	if DB == nil {
		return fmt.Errorf("migrate: database not connected")
	}
	if _, err := DB.Exec(schema); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	return nil
}

func Close() {
	if DB != nil {
		DB.Close()
	}
}
