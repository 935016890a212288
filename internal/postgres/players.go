package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/mazescore/internal/domain"
)

// PlayerStore provides PostgreSQL-backed player persistence
type PlayerStore struct {
	db *DB
}

// Create assigns an identifier and creation timestamp and persists the player
func (s *PlayerStore) Create(ctx context.Context, player *domain.Player) (*domain.Player, error) {
	query := `
		INSERT INTO players (username, email, created_at)
		VALUES ($1, $2, $3)
		RETURNING id
	`
	stored := *player
	stored.CreatedAt = time.Now()

	err := s.db.pool.QueryRow(ctx, query, stored.Username, stored.Email, stored.CreatedAt).Scan(&stored.ID)
	if err != nil {
		return nil, domain.NewStoreError("creating player", err)
	}
	return &stored, nil
}

// GetByID returns the player or nil when no such id exists
func (s *PlayerStore) GetByID(ctx context.Context, id int64) (*domain.Player, error) {
	query := `SELECT id, username, COALESCE(email, ''), created_at FROM players WHERE id = $1`
	return s.queryOne(ctx, query, id)
}

// GetByUsername returns the player with the exact username, or nil
func (s *PlayerStore) GetByUsername(ctx context.Context, username string) (*domain.Player, error) {
	query := `SELECT id, username, COALESCE(email, ''), created_at FROM players WHERE username = $1 ORDER BY id LIMIT 1`
	return s.queryOne(ctx, query, username)
}

func (s *PlayerStore) queryOne(ctx context.Context, query string, arg any) (*domain.Player, error) {
	var player domain.Player
	err := s.db.pool.QueryRow(ctx, query, arg).Scan(
		&player.ID,
		&player.Username,
		&player.Email,
		&player.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, domain.NewStoreError("getting player", err)
	}
	return &player, nil
}

// Update overwrites the fields of an existing player. It fails with
// ErrNotFound when the identifier does not exist and never inserts.
func (s *PlayerStore) Update(ctx context.Context, player *domain.Player) (*domain.Player, error) {
	query := `
		UPDATE players
		SET username = $2, email = $3
		WHERE id = $1
		RETURNING id, username, COALESCE(email, ''), created_at
	`
	var stored domain.Player
	err := s.db.pool.QueryRow(ctx, query, player.ID, player.Username, player.Email).Scan(
		&stored.ID,
		&stored.Username,
		&stored.Email,
		&stored.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, domain.NewStoreError("updating player", err)
	}
	return &stored, nil
}

// ListAll returns every player in insertion order
func (s *PlayerStore) ListAll(ctx context.Context) ([]*domain.Player, error) {
	query := `SELECT id, username, COALESCE(email, ''), created_at FROM players ORDER BY id`
	rows, err := s.db.pool.Query(ctx, query)
	if err != nil {
		return nil, domain.NewStoreError("listing players", err)
	}
	defer rows.Close()

	var players []*domain.Player
	for rows.Next() {
		var player domain.Player
		err := rows.Scan(&player.ID, &player.Username, &player.Email, &player.CreatedAt)
		if err != nil {
			return nil, domain.NewStoreError("scanning player", err)
		}
		players = append(players, &player)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.NewStoreError("listing players", err)
	}
	return players, nil
}
