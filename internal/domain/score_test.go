package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewScoreRecordSyncsMirrors(t *testing.T) {
	player := &Player{ID: 7, Username: "alice"}
	record := NewScoreRecord(player, 100, 2, 30, 15)

	assert.Equal(t, int64(7), record.PlayerID)
	assert.Equal(t, 100, record.Score)
	assert.Equal(t, 2, record.Level)
	assert.Equal(t, 30, record.Time)
	assert.Equal(t, 15, record.Steps)
	assert.Equal(t, 100, record.ScoreValue, "legacy mirror must equal score")
	assert.Equal(t, "alice", record.PlayerName, "name mirror must equal username")
}

func TestSetScoreResyncsLegacyMirror(t *testing.T) {
	record := NewScoreRecord(&Player{ID: 1, Username: "bob"}, 50, 1, 10, 5)

	record.SetScore(80)
	assert.Equal(t, 80, record.Score)
	assert.Equal(t, 80, record.ScoreValue)
}

func TestSetPlayerResyncsNameMirror(t *testing.T) {
	record := NewScoreRecord(&Player{ID: 1, Username: "bob"}, 50, 1, 10, 5)

	record.SetPlayer(&Player{ID: 2, Username: "carol"})
	assert.Equal(t, int64(2), record.PlayerID)
	assert.Equal(t, "carol", record.PlayerName)

	// A nil player leaves the record untouched.
	record.SetPlayer(nil)
	assert.Equal(t, int64(2), record.PlayerID)
	assert.Equal(t, "carol", record.PlayerName)
}

func TestIsNotFound(t *testing.T) {
	require.True(t, IsNotFound(ErrPlayerNotFound))
	require.True(t, IsNotFound(ErrNotFound))
	require.False(t, IsNotFound(ErrInvalidRequest))
	require.False(t, IsNotFound(nil))
}

func TestStoreErrorUnwrap(t *testing.T) {
	inner := ErrInternalError
	err := NewStoreError("saving score", inner)

	require.True(t, IsStoreError(err))
	assert.ErrorIs(t, err, inner)
	assert.Contains(t, err.Error(), "saving score")
	assert.False(t, IsStoreError(ErrPlayerNotFound))
}
