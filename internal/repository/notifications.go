package repository

import (
	"context"

	"livefeed/internal/model"
)

// SourceRepository reads the backend tables notifications are built from.
// List methods return rows newest first and honour limit.
type SourceRepository interface {
	ListFollowers(ctx context.Context, userID string, limit int) ([]model.Follow, error)
	ListFolloweeLiveStreams(ctx context.Context, userID string, limit int) ([]model.LiveStream, error)
	ListLedgerEntries(ctx context.Context, userID, entryType string, limit int) ([]model.LedgerEntry, error)
	ListDiamondConversions(ctx context.Context, userID string, limit int) ([]model.DiamondConversion, error)
	ProfilesByIDs(ctx context.Context, ids []string) (map[string]model.Profile, error)
	GiftsByIDs(ctx context.Context, ids []string) (map[string]model.Gift, error)
}

type SocialRepository interface {
	InsertReaction(ctx context.Context, reaction model.Reaction) error
	DeleteReaction(ctx context.Context, reaction model.Reaction) error
	CountReactions(ctx context.Context, targetKind, targetID string) (int, error)
	CreateComment(ctx context.Context, comment model.Comment) (model.Comment, error)
	GetComment(ctx context.Context, id string) (model.Comment, error)
}

// Backend is the hosted backend as seen by this service.
type Backend interface {
	SourceRepository
	SocialRepository
}

// KV is a small string store for per-user client state.
// Get returns domain.ErrKeyNotFound for a missing key.
type KV interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
}
