// Package readstate persists the set of notification ids a user has seen.
package readstate

import (
	"context"
	"encoding/json"
	"errors"
	"sort"
	"sync"

	"go.uber.org/zap"
	"livefeed/internal/domain"
	"livefeed/internal/metrics"
	"livefeed/internal/repository"
)

const keyPrefix = "notifications:read:"

// Set is a user's read notification ids.
type Set map[string]struct{}

func NewSet(ids ...string) Set {
	set := make(Set, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set
}

func (s Set) Has(id string) bool {
	_, ok := s[id]
	return ok
}

// Slice returns the ids sorted.
func (s Set) Slice() []string {
	ids := make([]string, 0, len(s))
	for id := range s {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Key is the per-user storage key.
func Key(userID string) string {
	return keyPrefix + userID
}

type Store struct {
	kv      repository.KV
	log     *zap.Logger
	metrics *metrics.Metrics
	mu      sync.Mutex
}

func New(kv repository.KV, logger *zap.Logger, m *metrics.Metrics) *Store {
	return &Store{kv: kv, log: logger, metrics: m}
}

// Load never fails: a missing, unreadable or corrupt record is an empty set.
func (s *Store) Load(ctx context.Context, userID string) Set {
	set, _ := s.load(ctx, userID)
	return set
}

// Save is best-effort; failures are logged and dropped.
func (s *Store) Save(ctx context.Context, userID string, set Set) {
	_ = s.save(ctx, userID, set)
}

// MarkRead adds ids to the user's set and returns how many were new and
// stored. A failed write reports 0.
func (s *Store) MarkRead(ctx context.Context, userID string, ids []string) int {
	if userID == "" || len(ids) == 0 {
		return 0
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	set, err := s.load(ctx, userID)
	if err != nil {
		// Saving now would overwrite the stored set with a partial one.
		s.log.Warn("read state mark skipped", zap.String("user_id", userID), zap.Int("ids", len(ids)), zap.Error(err))
		return 0
	}
	added := 0
	for _, id := range ids {
		if id == "" || set.Has(id) {
			continue
		}
		set[id] = struct{}{}
		added++
	}
	if added == 0 {
		return 0
	}
	if err := s.save(ctx, userID, set); err != nil {
		return 0
	}
	s.metrics.ReadMarked(added)
	return added
}

func (s *Store) save(ctx context.Context, userID string, set Set) error {
	if userID == "" {
		return nil
	}
	payload, err := json.Marshal(set.Slice())
	if err != nil {
		s.log.Error("read state marshal failed", zap.String("user_id", userID), zap.Error(err))
		return err
	}
	if err := s.kv.Set(ctx, Key(userID), string(payload)); err != nil {
		s.metrics.ReadStateFailed("save")
		s.log.Warn("read state save failed", zap.String("user_id", userID), zap.Error(err))
		return err
	}
	return nil
}

// load returns an error only when the store itself could not be read.
func (s *Store) load(ctx context.Context, userID string) (Set, error) {
	if userID == "" {
		return Set{}, nil
	}
	raw, err := s.kv.Get(ctx, Key(userID))
	if errors.Is(err, domain.ErrKeyNotFound) {
		return Set{}, nil
	}
	if err != nil {
		s.metrics.ReadStateFailed("load")
		s.log.Warn("read state load failed", zap.String("user_id", userID), zap.Error(err))
		return Set{}, err
	}
	var ids []string
	if err := json.Unmarshal([]byte(raw), &ids); err != nil {
		s.metrics.ReadStateFailed("decode")
		s.log.Warn("read state payload corrupt", zap.String("user_id", userID), zap.Error(err))
		return Set{}, nil
	}
	return NewSet(ids...), nil
}
