package domain

import "time"

// ScoreRecord represents one completed game session for a player.
//
// ScoreValue mirrors Score and PlayerName mirrors the owning player's
// username. Both exist for consumers still reading the legacy shape and are
// written only by NewScoreRecord, SetScore and SetPlayer; treat Score and
// PlayerID as the source of truth.
type ScoreRecord struct {
	ID         int64     `json:"id"`
	PlayerID   int64     `json:"player_id"`
	Score      int       `json:"score"`
	Level      int       `json:"level"`
	Time       int       `json:"time"`
	Steps      int       `json:"steps"`
	PlayerName string    `json:"player_name"`
	ScoreValue int       `json:"score_value"`
	CreatedAt  time.Time `json:"created_at"`
}

// NewScoreRecord builds a record for a game session, keeping the legacy
// mirror fields in sync with the canonical ones.
func NewScoreRecord(player *Player, score, level, elapsed, steps int) *ScoreRecord {
	r := &ScoreRecord{
		Level: level,
		Time:  elapsed,
		Steps: steps,
	}
	r.SetPlayer(player)
	r.SetScore(score)
	return r
}

// SetScore sets the score and resyncs the legacy score mirror.
func (r *ScoreRecord) SetScore(score int) {
	r.Score = score
	r.ScoreValue = score
}

// SetPlayer sets the owning player and resyncs the denormalized player name.
func (r *ScoreRecord) SetPlayer(player *Player) {
	if player == nil {
		return
	}
	r.PlayerID = player.ID
	r.PlayerName = player.Username
}

// ScoreSubmission represents a request to record a game session result
type ScoreSubmission struct {
	PlayerID int64 `json:"player_id"`
	Score    int   `json:"score"`
	Level    int   `json:"level"`
	Time     int   `json:"time"`
	Steps    int   `json:"steps"`
}
