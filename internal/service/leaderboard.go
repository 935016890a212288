// Package service contains the leaderboard business logic: player management,
// score submission with its player-existence check, and ranking queries.
package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/mazescore/internal/domain"
)

// Broadcaster pushes leaderboard updates to connected clients. The global
// channel is "global"; per-level channels are "level:<n>".
type Broadcaster interface {
	BroadcastLeaderboardUpdate(channel string, records []*domain.ScoreRecord)
}

// LeaderboardService validates score submissions against the player store
// and answers ranking queries from the score store. It holds no state of its
// own; every operation is a single read-or-write against the stores, so
// concurrent calls are safe.
type LeaderboardService struct {
	players domain.PlayerStore
	scores  domain.ScoreStore
	hub     Broadcaster
	logger  *slog.Logger
}

// NewLeaderboardService creates a new leaderboard service
func NewLeaderboardService(players domain.PlayerStore, scores domain.ScoreStore, logger *slog.Logger) *LeaderboardService {
	return &LeaderboardService{
		players: players,
		scores:  scores,
		logger:  logger,
	}
}

// SetHub attaches a broadcaster notified after each accepted submission
func (s *LeaderboardService) SetHub(hub Broadcaster) {
	s.hub = hub
}

// SubmitScore records a game session result. The referenced player must
// exist; otherwise it fails with ErrPlayerNotFound and writes nothing.
func (s *LeaderboardService) SubmitScore(ctx context.Context, submission domain.ScoreSubmission) (*domain.ScoreRecord, error) {
	player, err := s.players.GetByID(ctx, submission.PlayerID)
	if err != nil {
		return nil, fmt.Errorf("looking up player: %w", err)
	}
	if player == nil {
		return nil, domain.ErrPlayerNotFound
	}

	record := domain.NewScoreRecord(player, submission.Score, submission.Level, submission.Time, submission.Steps)

	saved, err := s.scores.Save(ctx, record)
	if err != nil {
		return nil, fmt.Errorf("saving score: %w", err)
	}

	s.logger.Info("score recorded",
		"score_id", saved.ID,
		"player_id", player.ID,
		"username", player.Username,
		"score", saved.Score,
		"level", saved.Level,
	)

	s.broadcastUpdates(ctx, saved.Level)

	return saved, nil
}

// SubmitScoreBatch records multiple game session results, continuing past
// individual failures. Used by the Kafka ingestion path.
func (s *LeaderboardService) SubmitScoreBatch(ctx context.Context, submissions []domain.ScoreSubmission) error {
	for _, submission := range submissions {
		if _, err := s.SubmitScore(ctx, submission); err != nil {
			s.logger.Error("failed to submit score in batch",
				"player_id", submission.PlayerID,
				"error", err,
			)
		}
	}
	return nil
}

// GetScore returns a score record by id; absence is a nil result
func (s *LeaderboardService) GetScore(ctx context.Context, id int64) (*domain.ScoreRecord, error) {
	return s.scores.GetByID(ctx, id)
}

// GetPlayerScores returns a player's records, best score first. It fails
// with ErrPlayerNotFound when the player id does not exist.
func (s *LeaderboardService) GetPlayerScores(ctx context.Context, playerID int64) ([]*domain.ScoreRecord, error) {
	player, err := s.players.GetByID(ctx, playerID)
	if err != nil {
		return nil, fmt.Errorf("looking up player: %w", err)
	}
	if player == nil {
		return nil, domain.ErrPlayerNotFound
	}
	return s.scores.ListByPlayerID(ctx, playerID)
}

// GetTopScores returns the limit highest scores globally
func (s *LeaderboardService) GetTopScores(ctx context.Context, limit int) ([]*domain.ScoreRecord, error) {
	return s.scores.ListTop(ctx, limit)
}

// GetTopScoresByLevel returns the limit highest scores for one level
func (s *LeaderboardService) GetTopScoresByLevel(ctx context.Context, level, limit int) ([]*domain.ScoreRecord, error) {
	return s.scores.ListTopByLevel(ctx, level, limit)
}

// GetScoresByPlayerName returns records by denormalized player name. A
// nonexistent name yields an empty result, not an error.
func (s *LeaderboardService) GetScoresByPlayerName(ctx context.Context, name string) ([]*domain.ScoreRecord, error) {
	return s.scores.ListByPlayerName(ctx, name)
}

// CreatePlayer registers a new player
func (s *LeaderboardService) CreatePlayer(ctx context.Context, player *domain.Player) (*domain.Player, error) {
	created, err := s.players.Create(ctx, player)
	if err != nil {
		return nil, fmt.Errorf("creating player: %w", err)
	}
	s.logger.Info("player created", "player_id", created.ID, "username", created.Username)
	return created, nil
}

// GetPlayer returns a player by id; absence is a nil result
func (s *LeaderboardService) GetPlayer(ctx context.Context, id int64) (*domain.Player, error) {
	return s.players.GetByID(ctx, id)
}

// GetPlayerByUsername returns a player by exact username; absence is nil
func (s *LeaderboardService) GetPlayerByUsername(ctx context.Context, username string) (*domain.Player, error) {
	return s.players.GetByUsername(ctx, username)
}

// UpdatePlayer overwrites username and email of an existing player. It fails
// with ErrNotFound when the id does not exist; no record is created.
func (s *LeaderboardService) UpdatePlayer(ctx context.Context, player *domain.Player) (*domain.Player, error) {
	existing, err := s.players.GetByID(ctx, player.ID)
	if err != nil {
		return nil, fmt.Errorf("looking up player: %w", err)
	}
	if existing == nil {
		return nil, domain.ErrNotFound
	}

	updated := *existing
	updated.Username = player.Username
	if player.Email != "" {
		updated.Email = player.Email
	}

	return s.players.Update(ctx, &updated)
}

// ListPlayers returns all registered players
func (s *LeaderboardService) ListPlayers(ctx context.Context) ([]*domain.Player, error) {
	return s.players.ListAll(ctx)
}

// broadcastUpdates pushes the refreshed global and per-level top-10 to
// websocket subscribers. Failures only cost the push, never the request.
func (s *LeaderboardService) broadcastUpdates(ctx context.Context, level int) {
	if s.hub == nil {
		return
	}

	top, err := s.scores.ListTop(ctx, 10)
	if err != nil {
		s.logger.Warn("failed to load top scores for broadcast", "error", err)
	} else {
		s.hub.BroadcastLeaderboardUpdate("global", top)
	}

	byLevel, err := s.scores.ListTopByLevel(ctx, level, 10)
	if err != nil {
		s.logger.Warn("failed to load level scores for broadcast", "level", level, "error", err)
		return
	}
	s.hub.BroadcastLeaderboardUpdate(fmt.Sprintf("level:%d", level), byLevel)
}
