// Package aggregate builds a user's notification list from the backend's
// follow, live stream, ledger and conversion tables.
package aggregate

import (
	"context"
	"slices"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"livefeed/internal/config"
	"livefeed/internal/domain"
	"livefeed/internal/metrics"
	"livefeed/internal/model"
	"livefeed/internal/readstate"
	"livefeed/internal/repository"
)

// Per-source windows.
const (
	FollowLimit     = 50
	LiveLimit       = 50
	GiftLimit       = 50
	PurchaseLimit   = 20
	ConversionLimit = 20
	DefaultLimit    = 100
)

type Aggregator struct {
	sources repository.SourceRepository
	reads   *readstate.Store
	metrics *metrics.Metrics
	log     *zap.Logger
	limit   int
}

func New(cfg *config.Config, sources repository.SourceRepository, reads *readstate.Store, m *metrics.Metrics, logger *zap.Logger) *Aggregator {
	// The list is never longer than DefaultLimit; config can only shorten it.
	limit := cfg.AggregateLimit
	if limit <= 0 || limit > DefaultLimit {
		limit = DefaultLimit
	}
	return &Aggregator{sources: sources, reads: reads, metrics: m, log: logger, limit: limit}
}

type sourceRows struct {
	follows     []model.Follow
	streams     []model.LiveStream
	gifts       []model.LedgerEntry
	purchases   []model.LedgerEntry
	conversions []model.DiamondConversion
}

// Aggregate returns the user's notifications newest first. It never fails:
// a source that errors contributes no items.
func (a *Aggregator) Aggregate(ctx context.Context, userID string) []model.NotificationItem {
	if userID == "" {
		return []model.NotificationItem{}
	}
	ctx, span := otel.Tracer("aggregate").Start(ctx, "notifications.aggregate")
	defer span.End()
	start := time.Now()

	read := a.reads.Load(ctx, userID)
	rows := a.fetch(ctx, userID)
	profiles, gifts := a.resolve(ctx, rows)

	items := make([]model.NotificationItem, 0,
		len(rows.follows)+len(rows.streams)+len(rows.gifts)+len(rows.purchases)+len(rows.conversions))
	for _, f := range rows.follows {
		items = append(items, followItem(f, profiles[f.FollowerID]))
	}
	for _, ls := range rows.streams {
		items = append(items, liveItem(ls, profiles[ls.HostID]))
	}
	for _, e := range rows.gifts {
		gift, known := gifts[e.GiftID]
		items = append(items, giftItem(e, profiles[e.SenderID], gift, known))
	}
	for _, e := range rows.purchases {
		items = append(items, purchaseItem(e))
	}
	for _, c := range rows.conversions {
		if !domain.IsCompletedConversion(c.Status) {
			continue
		}
		items = append(items, conversionItem(c))
	}

	items = dedupe(items)
	for i := range items {
		items[i].IsRead = read.Has(items[i].ID)
	}
	slices.SortStableFunc(items, func(x, y model.NotificationItem) int {
		if c := y.CreatedAt.Compare(x.CreatedAt); c != 0 {
			return c
		}
		return strings.Compare(x.ID, y.ID)
	})
	if len(items) > a.limit {
		items = items[:a.limit]
	}

	span.SetAttributes(attribute.Int("notifications.count", len(items)))
	a.metrics.ObserveAggregate(time.Since(start).Seconds(), len(items))
	return items
}

// UnreadCount is the badge value for the user.
func (a *Aggregator) UnreadCount(ctx context.Context, userID string) int {
	count := 0
	for _, item := range a.Aggregate(ctx, userID) {
		if !item.IsRead {
			count++
		}
	}
	return count
}

// MarkAllRead marks every unread item of the current list and returns their ids.
func (a *Aggregator) MarkAllRead(ctx context.Context, userID string) []string {
	var unread []string
	for _, item := range a.Aggregate(ctx, userID) {
		if !item.IsRead {
			unread = append(unread, item.ID)
		}
	}
	if len(unread) == 0 {
		return []string{}
	}
	a.reads.MarkRead(ctx, userID, unread)
	return unread
}

func (a *Aggregator) fetch(ctx context.Context, userID string) sourceRows {
	var (
		rows sourceRows
		g    errgroup.Group
	)
	g.Go(func() error {
		follows, err := a.sources.ListFollowers(ctx, userID, FollowLimit)
		if !a.failed(ctx, "follows", userID, err) {
			rows.follows = follows
		}
		return nil
	})
	g.Go(func() error {
		streams, err := a.sources.ListFolloweeLiveStreams(ctx, userID, LiveLimit)
		if !a.failed(ctx, "live_streams", userID, err) {
			rows.streams = streams
		}
		return nil
	})
	g.Go(func() error {
		entries, err := a.sources.ListLedgerEntries(ctx, userID, domain.LedgerEntryDiamondEarn, GiftLimit)
		if !a.failed(ctx, "gifts", userID, err) {
			rows.gifts = entries
		}
		return nil
	})
	g.Go(func() error {
		entries, err := a.sources.ListLedgerEntries(ctx, userID, domain.LedgerEntryCoinPurchase, PurchaseLimit)
		if !a.failed(ctx, "purchases", userID, err) {
			rows.purchases = entries
		}
		return nil
	})
	g.Go(func() error {
		conversions, err := a.sources.ListDiamondConversions(ctx, userID, ConversionLimit)
		if !a.failed(ctx, "conversions", userID, err) {
			rows.conversions = conversions
		}
		return nil
	})
	_ = g.Wait()
	return rows
}

// resolve batch-loads every referenced profile and gift, one query each.
func (a *Aggregator) resolve(ctx context.Context, rows sourceRows) (map[string]model.Profile, map[string]model.Gift) {
	profileIDs := newIDSet()
	giftIDs := newIDSet()
	for _, f := range rows.follows {
		profileIDs.add(f.FollowerID)
	}
	for _, ls := range rows.streams {
		profileIDs.add(ls.HostID)
	}
	for _, e := range rows.gifts {
		profileIDs.add(e.SenderID)
		giftIDs.add(e.GiftID)
	}

	profiles := map[string]model.Profile{}
	gifts := map[string]model.Gift{}
	var g errgroup.Group
	if len(profileIDs.ids) > 0 {
		g.Go(func() error {
			found, err := a.sources.ProfilesByIDs(ctx, profileIDs.ids)
			if !a.failed(ctx, "profiles", "", err) && found != nil {
				profiles = found
			}
			return nil
		})
	}
	if len(giftIDs.ids) > 0 {
		g.Go(func() error {
			found, err := a.sources.GiftsByIDs(ctx, giftIDs.ids)
			if !a.failed(ctx, "gift_catalog", "", err) && found != nil {
				gifts = found
			}
			return nil
		})
	}
	_ = g.Wait()
	return profiles, gifts
}

func (a *Aggregator) failed(ctx context.Context, source, userID string, err error) bool {
	if err == nil {
		return false
	}
	trace.SpanFromContext(ctx).AddEvent("source failed", trace.WithAttributes(
		attribute.String("source", source),
		attribute.String("error", err.Error()),
	))
	a.metrics.SourceFailed(source)
	a.log.Warn("notification source failed",
		zap.String("source", source),
		zap.String("user_id", userID),
		zap.Error(err),
	)
	return true
}

// dedupe keeps the first item for each id.
func dedupe(items []model.NotificationItem) []model.NotificationItem {
	seen := make(map[string]struct{}, len(items))
	out := items[:0]
	for _, item := range items {
		if _, ok := seen[item.ID]; ok {
			continue
		}
		seen[item.ID] = struct{}{}
		out = append(out, item)
	}
	return out
}

type idSet struct {
	seen map[string]struct{}
	ids  []string
}

func newIDSet() *idSet {
	return &idSet{seen: make(map[string]struct{})}
}

func (s *idSet) add(id string) {
	if id == "" {
		return
	}
	if _, ok := s.seen[id]; ok {
		return
	}
	s.seen[id] = struct{}{}
	s.ids = append(s.ids, id)
}
