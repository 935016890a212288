package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/mazescore/internal/domain"
)

// ScoreStore provides PostgreSQL-backed score persistence.
//
// Ranking queries order by score descending with ties broken by identifier
// ascending, so the same rows always come back in the same order.
type ScoreStore struct {
	db *DB
}

const scoreColumns = `id, player_id, score, level, time, steps, player_name, score_value, created_at`

// Save persists the record. A record without an identifier is inserted and
// gets its id and creation timestamp assigned; a record with one is
// overwritten in place.
func (s *ScoreStore) Save(ctx context.Context, record *domain.ScoreRecord) (*domain.ScoreRecord, error) {
	stored := *record

	if stored.ID == 0 {
		if stored.CreatedAt.IsZero() {
			stored.CreatedAt = time.Now()
		}
		query := `
			INSERT INTO scores (player_id, score, level, time, steps, player_name, score_value, created_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
			RETURNING id
		`
		err := s.db.pool.QueryRow(ctx, query,
			stored.PlayerID,
			stored.Score,
			stored.Level,
			stored.Time,
			stored.Steps,
			stored.PlayerName,
			stored.ScoreValue,
			stored.CreatedAt,
		).Scan(&stored.ID)
		if err != nil {
			return nil, domain.NewStoreError("inserting score", err)
		}
		return &stored, nil
	}

	query := `
		INSERT INTO scores (id, player_id, score, level, time, steps, player_name, score_value, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (id) DO UPDATE SET
			player_id = EXCLUDED.player_id,
			score = EXCLUDED.score,
			level = EXCLUDED.level,
			time = EXCLUDED.time,
			steps = EXCLUDED.steps,
			player_name = EXCLUDED.player_name,
			score_value = EXCLUDED.score_value,
			created_at = EXCLUDED.created_at
	`
	_, err := s.db.pool.Exec(ctx, query,
		stored.ID,
		stored.PlayerID,
		stored.Score,
		stored.Level,
		stored.Time,
		stored.Steps,
		stored.PlayerName,
		stored.ScoreValue,
		stored.CreatedAt,
	)
	if err != nil {
		return nil, domain.NewStoreError("upserting score", err)
	}
	return &stored, nil
}

// GetByID returns the record or nil when no such id exists
func (s *ScoreStore) GetByID(ctx context.Context, id int64) (*domain.ScoreRecord, error) {
	query := `SELECT ` + scoreColumns + ` FROM scores WHERE id = $1`
	var record domain.ScoreRecord
	err := s.db.pool.QueryRow(ctx, query, id).Scan(
		&record.ID,
		&record.PlayerID,
		&record.Score,
		&record.Level,
		&record.Time,
		&record.Steps,
		&record.PlayerName,
		&record.ScoreValue,
		&record.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, domain.NewStoreError("getting score", err)
	}
	return &record, nil
}

// ListByPlayerID returns the player's records, best score first
func (s *ScoreStore) ListByPlayerID(ctx context.Context, playerID int64) ([]*domain.ScoreRecord, error) {
	query := `SELECT ` + scoreColumns + ` FROM scores WHERE player_id = $1 ORDER BY score DESC, id ASC`
	return s.queryMany(ctx, query, playerID)
}

// ListTop returns the limit highest scores globally. A non-positive limit
// yields an empty result without touching the database.
func (s *ScoreStore) ListTop(ctx context.Context, limit int) ([]*domain.ScoreRecord, error) {
	if limit <= 0 {
		return []*domain.ScoreRecord{}, nil
	}
	query := `SELECT ` + scoreColumns + ` FROM scores ORDER BY score DESC, id ASC LIMIT $1`
	return s.queryMany(ctx, query, limit)
}

// ListTopByLevel returns the limit highest scores for one difficulty level
func (s *ScoreStore) ListTopByLevel(ctx context.Context, level, limit int) ([]*domain.ScoreRecord, error) {
	if limit <= 0 {
		return []*domain.ScoreRecord{}, nil
	}
	query := `SELECT ` + scoreColumns + ` FROM scores WHERE level = $1 ORDER BY score DESC, id ASC LIMIT $2`
	return s.queryMany(ctx, query, level, limit)
}

// ListByPlayerName returns records matching the denormalized player name,
// ordered by the legacy score mirror descending. The mirror is kept in sync
// with the score, so this matches the canonical ordering.
func (s *ScoreStore) ListByPlayerName(ctx context.Context, name string) ([]*domain.ScoreRecord, error) {
	query := `SELECT ` + scoreColumns + ` FROM scores WHERE player_name = $1 ORDER BY score_value DESC, id ASC`
	return s.queryMany(ctx, query, name)
}

func (s *ScoreStore) queryMany(ctx context.Context, query string, args ...any) ([]*domain.ScoreRecord, error) {
	rows, err := s.db.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, domain.NewStoreError("listing scores", err)
	}
	defer rows.Close()

	var records []*domain.ScoreRecord
	for rows.Next() {
		var record domain.ScoreRecord
		err := rows.Scan(
			&record.ID,
			&record.PlayerID,
			&record.Score,
			&record.Level,
			&record.Time,
			&record.Steps,
			&record.PlayerName,
			&record.ScoreValue,
			&record.CreatedAt,
		)
		if err != nil {
			return nil, domain.NewStoreError("scanning score", err)
		}
		records = append(records, &record)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.NewStoreError("listing scores", err)
	}
	return records, nil
}
