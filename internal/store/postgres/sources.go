package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
	"livefeed/internal/model"
)

func (s *Store) ListFollowers(ctx context.Context, userID string, limit int) ([]model.Follow, error) {
	const query = `
		SELECT id, follower_id, following_id, created_at
		FROM follows
		WHERE following_id = $1
		ORDER BY created_at DESC
		LIMIT $2
	`
	rows, err := s.pool.Query(ctx, query, userID, limit)
	if err != nil {
		s.log.Error("pg list followers failed", zap.String("user_id", userID), zap.Error(err))
		return nil, err
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (model.Follow, error) {
		var f model.Follow
		err := row.Scan(&f.ID, &f.FollowerID, &f.FollowingID, &f.CreatedAt)
		return f, err
	})
}

func (s *Store) ListFolloweeLiveStreams(ctx context.Context, userID string, limit int) ([]model.LiveStream, error) {
	const query = `
		SELECT ls.id, ls.host_id, ls.title, ls.started_at, ls.is_live
		FROM live_streams ls
		JOIN follows f ON f.following_id = ls.host_id
		WHERE f.follower_id = $1
		  AND ls.is_live = true
		ORDER BY ls.started_at DESC
		LIMIT $2
	`
	rows, err := s.pool.Query(ctx, query, userID, limit)
	if err != nil {
		s.log.Error("pg list live streams failed", zap.String("user_id", userID), zap.Error(err))
		return nil, err
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (model.LiveStream, error) {
		var ls model.LiveStream
		err := row.Scan(&ls.ID, &ls.HostID, &ls.Title, &ls.StartedAt, &ls.IsLive)
		return ls, err
	})
}

func (s *Store) ListLedgerEntries(ctx context.Context, userID, entryType string, limit int) ([]model.LedgerEntry, error) {
	const query = `
		SELECT id, user_id, entry_type, coins, diamonds, sender_id, gift_id, created_at
		FROM ledger_entries
		WHERE user_id = $1
		  AND entry_type = $2
		ORDER BY created_at DESC
		LIMIT $3
	`
	rows, err := s.pool.Query(ctx, query, userID, entryType, limit)
	if err != nil {
		s.log.Error("pg list ledger entries failed",
			zap.String("user_id", userID),
			zap.String("entry_type", entryType),
			zap.Error(err),
		)
		return nil, err
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (model.LedgerEntry, error) {
		var (
			e        model.LedgerEntry
			senderID *string
			giftID   *string
		)
		err := row.Scan(&e.ID, &e.UserID, &e.EntryType, &e.Coins, &e.Diamonds, &senderID, &giftID, &e.CreatedAt)
		e.SenderID = deref(senderID)
		e.GiftID = deref(giftID)
		return e, err
	})
}

func (s *Store) ListDiamondConversions(ctx context.Context, userID string, limit int) ([]model.DiamondConversion, error) {
	const query = `
		SELECT id, user_id, diamonds, coins, status, created_at
		FROM diamond_conversions
		WHERE user_id = $1
		  AND (status IS NULL OR btrim(status, E' \t\r\n') IN ('', 'completed'))
		ORDER BY created_at DESC
		LIMIT $2
	`
	rows, err := s.pool.Query(ctx, query, userID, limit)
	if err != nil {
		s.log.Error("pg list conversions failed", zap.String("user_id", userID), zap.Error(err))
		return nil, err
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (model.DiamondConversion, error) {
		var (
			c      model.DiamondConversion
			status *string
		)
		err := row.Scan(&c.ID, &c.UserID, &c.Diamonds, &c.Coins, &status, &c.CreatedAt)
		c.Status = deref(status)
		return c, err
	})
}

func (s *Store) ProfilesByIDs(ctx context.Context, ids []string) (map[string]model.Profile, error) {
	result := make(map[string]model.Profile, len(ids))
	if len(ids) == 0 {
		return result, nil
	}
	const query = `
		SELECT id, username, display_name, avatar_url
		FROM profiles
		WHERE id = ANY($1)
	`
	rows, err := s.pool.Query(ctx, query, ids)
	if err != nil {
		s.log.Error("pg profiles by ids failed", zap.Int("count", len(ids)), zap.Error(err))
		return nil, err
	}
	profiles, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (model.Profile, error) {
		var p model.Profile
		err := row.Scan(&p.ID, &p.Username, &p.DisplayName, &p.AvatarURL)
		return p, err
	})
	if err != nil {
		return nil, err
	}
	for _, p := range profiles {
		result[p.ID] = p
	}
	return result, nil
}

func (s *Store) GiftsByIDs(ctx context.Context, ids []string) (map[string]model.Gift, error) {
	result := make(map[string]model.Gift, len(ids))
	if len(ids) == 0 {
		return result, nil
	}
	const query = `
		SELECT id, name, coin_cost
		FROM gifts
		WHERE id = ANY($1)
	`
	rows, err := s.pool.Query(ctx, query, ids)
	if err != nil {
		s.log.Error("pg gifts by ids failed", zap.Int("count", len(ids)), zap.Error(err))
		return nil, err
	}
	gifts, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (model.Gift, error) {
		var g model.Gift
		err := row.Scan(&g.ID, &g.Name, &g.CoinCost)
		return g, err
	})
	if err != nil {
		return nil, err
	}
	for _, g := range gifts {
		result[g.ID] = g
	}
	return result, nil
}
