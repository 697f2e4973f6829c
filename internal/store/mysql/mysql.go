package mysql

import (
	"go.uber.org/zap"
	"livefeed/internal/db"
)

// Store keeps per-user client state in the kv_store table.
type Store struct {
	queries *db.Queries
	log     *zap.Logger
}

func New(queries *db.Queries, logger *zap.Logger) *Store {
	return &Store{queries: queries, log: logger}
}
