package memory

import (
	"context"
	"sort"

	"livefeed/internal/domain"
	"livefeed/internal/model"
)

func (s *Store) ListFollowers(_ context.Context, userID string, limit int) ([]model.Follow, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var result []model.Follow
	for _, follow := range s.follows {
		if follow.FollowingID == userID {
			result = append(result, follow)
		}
	}
	sort.SliceStable(result, func(i, j int) bool { return result[i].CreatedAt.After(result[j].CreatedAt) })
	return capped(result, limit), nil
}

func (s *Store) ListFolloweeLiveStreams(_ context.Context, userID string, limit int) ([]model.LiveStream, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	followees := make(map[string]struct{})
	for _, follow := range s.follows {
		if follow.FollowerID == userID {
			followees[follow.FollowingID] = struct{}{}
		}
	}
	var result []model.LiveStream
	for _, stream := range s.streams {
		if _, ok := followees[stream.HostID]; ok && stream.IsLive {
			result = append(result, stream)
		}
	}
	sort.SliceStable(result, func(i, j int) bool { return result[i].StartedAt.After(result[j].StartedAt) })
	return capped(result, limit), nil
}

func (s *Store) ListLedgerEntries(_ context.Context, userID, entryType string, limit int) ([]model.LedgerEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var result []model.LedgerEntry
	for _, entry := range s.ledger {
		if entry.UserID == userID && entry.EntryType == entryType {
			result = append(result, entry)
		}
	}
	sort.SliceStable(result, func(i, j int) bool { return result[i].CreatedAt.After(result[j].CreatedAt) })
	return capped(result, limit), nil
}

func (s *Store) ListDiamondConversions(_ context.Context, userID string, limit int) ([]model.DiamondConversion, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var result []model.DiamondConversion
	for _, conversion := range s.conversions {
		if conversion.UserID == userID && domain.IsCompletedConversion(conversion.Status) {
			result = append(result, conversion)
		}
	}
	sort.SliceStable(result, func(i, j int) bool { return result[i].CreatedAt.After(result[j].CreatedAt) })
	return capped(result, limit), nil
}

func (s *Store) ProfilesByIDs(_ context.Context, ids []string) (map[string]model.Profile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	result := make(map[string]model.Profile, len(ids))
	for _, id := range ids {
		if profile, ok := s.profiles[id]; ok {
			result[id] = profile
		}
	}
	return result, nil
}

func (s *Store) GiftsByIDs(_ context.Context, ids []string) (map[string]model.Gift, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	result := make(map[string]model.Gift, len(ids))
	for _, id := range ids {
		if gift, ok := s.gifts[id]; ok {
			result[id] = gift
		}
	}
	return result, nil
}

func capped[T any](rows []T, limit int) []T {
	if limit > 0 && len(rows) > limit {
		return rows[:limit]
	}
	return rows
}
