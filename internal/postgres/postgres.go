// Package postgres implements the player and score store contracts on
// PostgreSQL via pgx.
package postgres

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mazescore/internal/config"
)

// DB wraps a pgx connection pool shared by the stores
type DB struct {
	pool   *pgxpool.Pool
	logger *slog.Logger
}

// Connect creates a connection pool and verifies connectivity
func Connect(ctx context.Context, cfg *config.PostgresConfig, logger *slog.Logger) (*DB, error) {
	poolConfig, err := pgxpool.ParseConfig(cfg.ConnectionString())
	if err != nil {
		return nil, fmt.Errorf("parsing connection string: %w", err)
	}

	poolConfig.MaxConns = int32(cfg.MaxConnections)
	poolConfig.MinConns = int32(cfg.MinConnections)
	poolConfig.MaxConnLifetime = cfg.MaxConnLifetime
	poolConfig.MaxConnIdleTime = cfg.MaxConnIdleTime

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("creating connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("connecting to database: %w", err)
	}

	return &DB{pool: pool, logger: logger}, nil
}

// Close closes the connection pool
func (db *DB) Close() {
	db.pool.Close()
}

// Pool returns the underlying connection pool
func (db *DB) Pool() *pgxpool.Pool {
	return db.pool
}

// RunMigrations executes database migrations
func (db *DB) RunMigrations(ctx context.Context) error {
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS players (
			id BIGSERIAL PRIMARY KEY,
			username VARCHAR(255) NOT NULL,
			email VARCHAR(255),
			created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE TABLE IF NOT EXISTS scores (
			id BIGSERIAL PRIMARY KEY,
			player_id BIGINT NOT NULL REFERENCES players(id),
			score INT NOT NULL,
			level INT NOT NULL,
			time INT NOT NULL,
			steps INT NOT NULL,
			player_name VARCHAR(255) NOT NULL,
			score_value INT NOT NULL,
			created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE INDEX IF NOT EXISTS idx_scores_rank ON scores(score DESC, id ASC)`,
		`CREATE INDEX IF NOT EXISTS idx_scores_level_rank ON scores(level, score DESC, id ASC)`,
		`CREATE INDEX IF NOT EXISTS idx_scores_player ON scores(player_id)`,
		`CREATE INDEX IF NOT EXISTS idx_scores_player_name ON scores(player_name, score_value DESC)`,
		`CREATE INDEX IF NOT EXISTS idx_players_username ON players(username)`,
	}

	for _, migration := range migrations {
		if _, err := db.pool.Exec(ctx, migration); err != nil {
			return fmt.Errorf("executing migration: %w", err)
		}
	}

	db.logger.Info("database migrations completed")
	return nil
}

// Players returns the player store backed by this pool
func (db *DB) Players() *PlayerStore {
	return &PlayerStore{db: db}
}

// Scores returns the score store backed by this pool
func (db *DB) Scores() *ScoreStore {
	return &ScoreStore{db: db}
}
