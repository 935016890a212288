// Package memory provides in-memory implementations of the store contracts.
// It mirrors the ordering semantics of the postgres package exactly and backs
// the service and handler tests.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/mazescore/internal/domain"
)

// PlayerStore keeps player records in process memory
type PlayerStore struct {
	mu     sync.RWMutex
	byID   map[int64]*domain.Player
	order  []int64
	nextID int64
}

// NewPlayerStore creates an empty in-memory player store
func NewPlayerStore() *PlayerStore {
	return &PlayerStore{byID: make(map[int64]*domain.Player)}
}

// Create assigns an identifier and creation timestamp and stores the player
func (s *PlayerStore) Create(ctx context.Context, player *domain.Player) (*domain.Player, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextID++
	stored := *player
	stored.ID = s.nextID
	stored.CreatedAt = time.Now()

	s.byID[stored.ID] = &stored
	s.order = append(s.order, stored.ID)

	result := stored
	return &result, nil
}

// GetByID returns the player or nil when absent
func (s *PlayerStore) GetByID(ctx context.Context, id int64) (*domain.Player, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	player, ok := s.byID[id]
	if !ok {
		return nil, nil
	}
	result := *player
	return &result, nil
}

// GetByUsername returns the player with the exact username, or nil
func (s *PlayerStore) GetByUsername(ctx context.Context, username string) (*domain.Player, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, id := range s.order {
		if s.byID[id].Username == username {
			result := *s.byID[id]
			return &result, nil
		}
	}
	return nil, nil
}

// Update overwrites an existing player, failing with ErrNotFound when the
// identifier is unknown. It never creates a new record.
func (s *PlayerStore) Update(ctx context.Context, player *domain.Player) (*domain.Player, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.byID[player.ID]
	if !ok {
		return nil, domain.ErrNotFound
	}

	stored := *player
	stored.CreatedAt = existing.CreatedAt
	s.byID[stored.ID] = &stored

	result := stored
	return &result, nil
}

// ListAll returns every player in insertion order
func (s *PlayerStore) ListAll(ctx context.Context) ([]*domain.Player, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	players := make([]*domain.Player, 0, len(s.order))
	for _, id := range s.order {
		result := *s.byID[id]
		players = append(players, &result)
	}
	return players, nil
}

// ScoreStore keeps score records in process memory
type ScoreStore struct {
	mu     sync.RWMutex
	byID   map[int64]*domain.ScoreRecord
	order  []int64
	nextID int64
}

// NewScoreStore creates an empty in-memory score store
func NewScoreStore() *ScoreStore {
	return &ScoreStore{byID: make(map[int64]*domain.ScoreRecord)}
}

// Save stores a score record. A record without an identifier gets one
// assigned and its creation timestamp set; a record with one is overwritten
// in place.
func (s *ScoreStore) Save(ctx context.Context, record *domain.ScoreRecord) (*domain.ScoreRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored := *record
	if stored.ID == 0 {
		s.nextID++
		stored.ID = s.nextID
		if stored.CreatedAt.IsZero() {
			stored.CreatedAt = time.Now()
		}
		s.order = append(s.order, stored.ID)
	} else if _, ok := s.byID[stored.ID]; !ok {
		if stored.ID > s.nextID {
			s.nextID = stored.ID
		}
		s.order = append(s.order, stored.ID)
	}

	s.byID[stored.ID] = &stored

	result := stored
	return &result, nil
}

// GetByID returns the score record or nil when absent
func (s *ScoreStore) GetByID(ctx context.Context, id int64) (*domain.ScoreRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	record, ok := s.byID[id]
	if !ok {
		return nil, nil
	}
	result := *record
	return &result, nil
}

// ListByPlayerID returns the player's records, best score first
func (s *ScoreStore) ListByPlayerID(ctx context.Context, playerID int64) ([]*domain.ScoreRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var records []*domain.ScoreRecord
	for _, id := range s.order {
		if s.byID[id].PlayerID == playerID {
			result := *s.byID[id]
			records = append(records, &result)
		}
	}
	sortByScore(records)
	return records, nil
}

// ListTop returns the limit highest scores globally, score descending with
// ties broken by identifier ascending. A non-positive limit yields an empty
// result.
func (s *ScoreStore) ListTop(ctx context.Context, limit int) ([]*domain.ScoreRecord, error) {
	if limit <= 0 {
		return []*domain.ScoreRecord{}, nil
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	records := make([]*domain.ScoreRecord, 0, len(s.order))
	for _, id := range s.order {
		result := *s.byID[id]
		records = append(records, &result)
	}
	sortByScore(records)
	if len(records) > limit {
		records = records[:limit]
	}
	return records, nil
}

// ListTopByLevel returns the limit highest scores for one difficulty level
func (s *ScoreStore) ListTopByLevel(ctx context.Context, level, limit int) ([]*domain.ScoreRecord, error) {
	if limit <= 0 {
		return []*domain.ScoreRecord{}, nil
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	var records []*domain.ScoreRecord
	for _, id := range s.order {
		if s.byID[id].Level == level {
			result := *s.byID[id]
			records = append(records, &result)
		}
	}
	sortByScore(records)
	if len(records) > limit {
		records = records[:limit]
	}
	return records, nil
}

// ListByPlayerName returns records matching the denormalized player name,
// ordered by the legacy score mirror descending with ties broken by
// identifier ascending
func (s *ScoreStore) ListByPlayerName(ctx context.Context, name string) ([]*domain.ScoreRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var records []*domain.ScoreRecord
	for _, id := range s.order {
		if s.byID[id].PlayerName == name {
			result := *s.byID[id]
			records = append(records, &result)
		}
	}
	sort.SliceStable(records, func(i, j int) bool {
		if records[i].ScoreValue != records[j].ScoreValue {
			return records[i].ScoreValue > records[j].ScoreValue
		}
		return records[i].ID < records[j].ID
	})
	return records, nil
}

// Count returns the total number of stored score records
func (s *ScoreStore) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.byID)
}

func sortByScore(records []*domain.ScoreRecord) {
	sort.SliceStable(records, func(i, j int) bool {
		if records[i].Score != records[j].Score {
			return records[i].Score > records[j].Score
		}
		return records[i].ID < records[j].ID
	})
}
