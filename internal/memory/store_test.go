package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mazescore/internal/domain"
)

// The memory package must satisfy the store contracts.
var (
	_ domain.PlayerStore = (*PlayerStore)(nil)
	_ domain.ScoreStore  = (*ScoreStore)(nil)
)

func TestPlayerStoreCreateAndLookup(t *testing.T) {
	ctx := context.Background()
	store := NewPlayerStore()

	created, err := store.Create(ctx, &domain.Player{Username: "alice", Email: "alice@example.com"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), created.ID)
	assert.False(t, created.CreatedAt.IsZero())

	byID, err := store.GetByID(ctx, created.ID)
	require.NoError(t, err)
	require.NotNil(t, byID)
	assert.Equal(t, "alice", byID.Username)

	byName, err := store.GetByUsername(ctx, "alice")
	require.NoError(t, err)
	require.NotNil(t, byName)
	assert.Equal(t, created.ID, byName.ID)

	// Absence is a nil result, not an error.
	missing, err := store.GetByID(ctx, 999)
	require.NoError(t, err)
	assert.Nil(t, missing)

	missing, err = store.GetByUsername(ctx, "nobody")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestPlayerStoreUpdateMissingCreatesNothing(t *testing.T) {
	ctx := context.Background()
	store := NewPlayerStore()

	_, err := store.Update(ctx, &domain.Player{ID: 42, Username: "ghost"})
	require.ErrorIs(t, err, domain.ErrNotFound)

	players, err := store.ListAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, players)
}

func TestPlayerStoreUpdateKeepsCreatedAt(t *testing.T) {
	ctx := context.Background()
	store := NewPlayerStore()

	created, err := store.Create(ctx, &domain.Player{Username: "alice"})
	require.NoError(t, err)

	updated, err := store.Update(ctx, &domain.Player{ID: created.ID, Username: "alice2", Email: "a2@example.com"})
	require.NoError(t, err)
	assert.Equal(t, "alice2", updated.Username)
	assert.Equal(t, created.CreatedAt, updated.CreatedAt)
}

func TestPlayerStoreListAllInsertionOrder(t *testing.T) {
	ctx := context.Background()
	store := NewPlayerStore()

	for _, name := range []string{"alice", "bob", "carol"} {
		_, err := store.Create(ctx, &domain.Player{Username: name})
		require.NoError(t, err)
	}

	players, err := store.ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, players, 3)
	assert.Equal(t, "alice", players[0].Username)
	assert.Equal(t, "bob", players[1].Username)
	assert.Equal(t, "carol", players[2].Username)
}

func saveRecord(t *testing.T, store *ScoreStore, player *domain.Player, score, level int) *domain.ScoreRecord {
	t.Helper()
	record := domain.NewScoreRecord(player, score, level, 30, 15)
	saved, err := store.Save(context.Background(), record)
	require.NoError(t, err)
	return saved
}

func TestScoreStoreSaveAssignsIDAndTimestamp(t *testing.T) {
	store := NewScoreStore()
	player := &domain.Player{ID: 1, Username: "alice"}

	saved := saveRecord(t, store, player, 100, 2)
	assert.Equal(t, int64(1), saved.ID)
	assert.False(t, saved.CreatedAt.IsZero())
	assert.Equal(t, 100, saved.ScoreValue)
	assert.Equal(t, "alice", saved.PlayerName)

	// Saving with an identifier overwrites in place.
	saved.SetScore(120)
	again, err := store.Save(context.Background(), saved)
	require.NoError(t, err)
	assert.Equal(t, saved.ID, again.ID)

	got, err := store.GetByID(context.Background(), saved.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, 120, got.Score)
	assert.Equal(t, 1, store.Count())
}

func TestScoreStoreListTopOrderingAndTieBreak(t *testing.T) {
	ctx := context.Background()
	store := NewScoreStore()
	alice := &domain.Player{ID: 1, Username: "alice"}
	bob := &domain.Player{ID: 2, Username: "bob"}

	first := saveRecord(t, store, alice, 200, 1)  // id 1
	second := saveRecord(t, store, bob, 300, 1)   // id 2
	third := saveRecord(t, store, alice, 200, 2)  // id 3, ties with first
	fourth := saveRecord(t, store, bob, 100, 2)   // id 4

	top, err := store.ListTop(ctx, 10)
	require.NoError(t, err)
	require.Len(t, top, 4)

	assert.Equal(t, second.ID, top[0].ID)
	// Equal scores rank by identifier ascending.
	assert.Equal(t, first.ID, top[1].ID)
	assert.Equal(t, third.ID, top[2].ID)
	assert.Equal(t, fourth.ID, top[3].ID)

	for i := 1; i < len(top); i++ {
		assert.GreaterOrEqual(t, top[i-1].Score, top[i].Score)
	}

	// The limit caps the result.
	top, err = store.ListTop(ctx, 2)
	require.NoError(t, err)
	require.Len(t, top, 2)
	assert.Equal(t, second.ID, top[0].ID)
}

func TestScoreStoreListTopNonPositiveLimit(t *testing.T) {
	ctx := context.Background()
	store := NewScoreStore()
	saveRecord(t, store, &domain.Player{ID: 1, Username: "alice"}, 100, 1)

	for _, limit := range []int{0, -1, -100} {
		top, err := store.ListTop(ctx, limit)
		require.NoError(t, err)
		assert.Empty(t, top)

		byLevel, err := store.ListTopByLevel(ctx, 1, limit)
		require.NoError(t, err)
		assert.Empty(t, byLevel)
	}
}

func TestScoreStoreListTopByLevelFilters(t *testing.T) {
	ctx := context.Background()
	store := NewScoreStore()
	alice := &domain.Player{ID: 1, Username: "alice"}

	saveRecord(t, store, alice, 100, 2)
	saveRecord(t, store, alice, 300, 2)
	saveRecord(t, store, alice, 200, 1)

	records, err := store.ListTopByLevel(ctx, 2, 10)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, 300, records[0].Score)
	assert.Equal(t, 100, records[1].Score)
	for _, r := range records {
		assert.Equal(t, 2, r.Level)
	}

	empty, err := store.ListTopByLevel(ctx, 3, 10)
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestScoreStoreListByPlayerIDOrdering(t *testing.T) {
	ctx := context.Background()
	store := NewScoreStore()
	alice := &domain.Player{ID: 1, Username: "alice"}
	bob := &domain.Player{ID: 2, Username: "bob"}

	saveRecord(t, store, alice, 150, 1)
	saveRecord(t, store, bob, 500, 1)
	saveRecord(t, store, alice, 250, 2)

	records, err := store.ListByPlayerID(ctx, alice.ID)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, 250, records[0].Score)
	assert.Equal(t, 150, records[1].Score)
}

// The legacy-mirror query must order the same rows identically to the
// canonical score ordering, since the mirror is kept in sync.
func TestScoreStoreByNameMatchesByIDOrdering(t *testing.T) {
	ctx := context.Background()
	store := NewScoreStore()
	alice := &domain.Player{ID: 1, Username: "alice"}

	saveRecord(t, store, alice, 150, 1)
	saveRecord(t, store, alice, 400, 2)
	saveRecord(t, store, alice, 150, 3) // tie with the first record
	saveRecord(t, store, alice, 275, 1)

	byID, err := store.ListByPlayerID(ctx, alice.ID)
	require.NoError(t, err)
	byName, err := store.ListByPlayerName(ctx, "alice")
	require.NoError(t, err)

	require.Equal(t, len(byID), len(byName))
	for i := range byID {
		assert.Equal(t, byID[i].ID, byName[i].ID)
		assert.Equal(t, byID[i].Score, byName[i].ScoreValue)
	}

	unknown, err := store.ListByPlayerName(ctx, "nobody")
	require.NoError(t, err)
	assert.Empty(t, unknown)
}
