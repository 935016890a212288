package domain

import "context"

// PlayerStore persists player identity records.
//
// Lookups by id or username report absence as a nil record with a nil error;
// absence on a read is an expected outcome, not a failure.
type PlayerStore interface {
	// Create assigns an identifier and creation timestamp, persists the
	// player and returns the stored record.
	Create(ctx context.Context, player *Player) (*Player, error)

	// GetByID returns the player or nil when no such id exists.
	GetByID(ctx context.Context, id int64) (*Player, error)

	// GetByUsername returns the player with the exact username, or nil.
	GetByUsername(ctx context.Context, username string) (*Player, error)

	// Update overwrites the fields of an existing player. It fails with
	// ErrNotFound when the identifier does not exist and never creates a
	// new record.
	Update(ctx context.Context, player *Player) (*Player, error)

	// ListAll returns every player in insertion order.
	ListAll(ctx context.Context) ([]*Player, error)
}

// ScoreStore persists score records.
//
// Every ranking query orders by score descending with ties broken by
// identifier ascending, so results are deterministic. A non-positive limit
// yields an empty result rather than an error.
type ScoreStore interface {
	// Save persists the record. A record without an identifier gets one
	// assigned along with a creation timestamp; a record with an
	// identifier is overwritten in place.
	Save(ctx context.Context, record *ScoreRecord) (*ScoreRecord, error)

	// GetByID returns the record or nil when no such id exists.
	GetByID(ctx context.Context, id int64) (*ScoreRecord, error)

	// ListByPlayerID returns the player's records, best score first.
	ListByPlayerID(ctx context.Context, playerID int64) ([]*ScoreRecord, error)

	// ListTop returns the limit highest scores globally.
	ListTop(ctx context.Context, limit int) ([]*ScoreRecord, error)

	// ListTopByLevel returns the limit highest scores for one level.
	ListTopByLevel(ctx context.Context, level, limit int) ([]*ScoreRecord, error)

	// ListByPlayerName returns records matching the denormalized player
	// name, ordered by the legacy score mirror descending. Since the
	// mirror is kept in sync with the score this matches the canonical
	// ordering.
	ListByPlayerName(ctx context.Context, name string) ([]*ScoreRecord, error)
}
