package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"go.uber.org/zap"

	"github.com/seuros/ecodash/internal/logging"
)

// DB is the process-wide connection pool. It stays nil when the dashboard
// runs without a database.
var DB *sql.DB

var pingDatabase = func(ctx context.Context, db *sql.DB) error {
	return db.PingContext(ctx)
}

// Connect opens the pool for databaseURL, falling back to DATABASE_URL.
func Connect(databaseURL string) error {
	if databaseURL == "" {
		databaseURL = os.Getenv("DATABASE_URL")
	}
	if databaseURL == "" {
		return errors.New("DATABASE_URL environment variable not set")
	}

	db, err := sql.Open("pgx", databaseURL)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(30 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := pingDatabase(ctx, db); err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to reach database: %w", err)
	}

	DB = db
	logging.L().Info("database connected", zap.Int("max_open_conns", 10))
	return nil
}

// Close closes the pool if one is open.
func Close() error {
	if DB == nil {
		return nil
	}
	err := DB.Close()
	DB = nil
	return err
}
