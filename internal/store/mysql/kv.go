package mysql

import (
	"context"
	"database/sql"
	"errors"

	"go.uber.org/zap"
	"livefeed/internal/db"
	"livefeed/internal/domain"
)

func (s *Store) Get(ctx context.Context, key string) (string, error) {
	value, err := s.queries.GetValue(ctx, key)
	if errors.Is(err, sql.ErrNoRows) {
		return "", domain.ErrKeyNotFound
	}
	if err != nil {
		s.log.Error("sql get value failed", zap.String("key", key), zap.Error(err))
		return "", err
	}
	return value, nil
}

func (s *Store) Set(ctx context.Context, key, value string) error {
	if err := s.queries.UpsertValue(ctx, db.UpsertValueParams{K: key, V: value}); err != nil {
		s.log.Error("sql upsert value failed", zap.String("key", key), zap.Int("size", len(value)), zap.Error(err))
		return err
	}
	return nil
}
