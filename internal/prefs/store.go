// Package prefs stores small per-user UI preferences in the KV store.
package prefs

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"livefeed/internal/domain"
	"livefeed/internal/model"
	"livefeed/internal/repository"
)

const (
	liveFiltersPrefix = "prefs:live_filters:"

	SortPopular  = "popular"
	SortRecent   = "recent"
	SortTrending = "trending"

	maxLanguages = 10
)

func DefaultLiveFilters() model.LiveFilters {
	return model.LiveFilters{Category: "all", Region: "global", Sort: SortPopular}
}

func LiveFiltersKey(userID string) string {
	return liveFiltersPrefix + userID
}

type Store struct {
	kv  repository.KV
	log *zap.Logger
}

func New(kv repository.KV, logger *zap.Logger) *Store {
	return &Store{kv: kv, log: logger}
}

// LiveFilters returns the saved filters, or the defaults when nothing usable
// is stored.
func (s *Store) LiveFilters(ctx context.Context, userID string) model.LiveFilters {
	if userID == "" {
		return DefaultLiveFilters()
	}
	raw, err := s.kv.Get(ctx, LiveFiltersKey(userID))
	if err != nil {
		if !errors.Is(err, domain.ErrKeyNotFound) {
			s.log.Warn("live filters load failed", zap.String("user_id", userID), zap.Error(err))
		}
		return DefaultLiveFilters()
	}
	var f model.LiveFilters
	if err := json.Unmarshal([]byte(raw), &f); err != nil {
		s.log.Warn("live filters payload corrupt", zap.String("user_id", userID), zap.Error(err))
		return DefaultLiveFilters()
	}
	return withDefaults(f)
}

// SaveLiveFilters validates f, stores it best-effort and returns what was
// stored.
func (s *Store) SaveLiveFilters(ctx context.Context, userID string, f model.LiveFilters) (model.LiveFilters, error) {
	if userID == "" {
		return model.LiveFilters{}, domain.ErrMissingUser
	}
	f = withDefaults(normalize(f))
	if err := validate(f); err != nil {
		return model.LiveFilters{}, err
	}
	payload, err := json.Marshal(f)
	if err != nil {
		return model.LiveFilters{}, fmt.Errorf("marshal live filters: %w", err)
	}
	if err := s.kv.Set(ctx, LiveFiltersKey(userID), string(payload)); err != nil {
		s.log.Warn("live filters save failed", zap.String("user_id", userID), zap.Error(err))
	}
	return f, nil
}

func normalize(f model.LiveFilters) model.LiveFilters {
	f.Category = strings.ToLower(strings.TrimSpace(f.Category))
	f.Region = strings.ToLower(strings.TrimSpace(f.Region))
	f.Sort = strings.ToLower(strings.TrimSpace(f.Sort))
	var langs []string
	seen := make(map[string]struct{}, len(f.Languages))
	for _, l := range f.Languages {
		l = strings.ToLower(strings.TrimSpace(l))
		if l == "" {
			continue
		}
		if _, ok := seen[l]; ok {
			continue
		}
		seen[l] = struct{}{}
		langs = append(langs, l)
	}
	f.Languages = langs
	return f
}

func withDefaults(f model.LiveFilters) model.LiveFilters {
	def := DefaultLiveFilters()
	if f.Category == "" {
		f.Category = def.Category
	}
	if f.Region == "" {
		f.Region = def.Region
	}
	if f.Sort == "" {
		f.Sort = def.Sort
	}
	return f
}

func validate(f model.LiveFilters) error {
	switch f.Sort {
	case SortPopular, SortRecent, SortTrending:
	default:
		return fmt.Errorf("%w: sort %q", domain.ErrInvalidFilters, f.Sort)
	}
	if len(f.Languages) > maxLanguages {
		return fmt.Errorf("%w: at most %d languages", domain.ErrInvalidFilters, maxLanguages)
	}
	return nil
}
