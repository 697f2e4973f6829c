package aggregate

import (
	"context"
	"errors"
	"math/rand"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"livefeed/internal/config"
	"livefeed/internal/domain"
	"livefeed/internal/metrics"
	"livefeed/internal/model"
	"livefeed/internal/readstate"
	"livefeed/internal/store/memory"
)

type sourcesMock struct {
	mock.Mock
}

func (m *sourcesMock) ListFollowers(ctx context.Context, userID string, limit int) ([]model.Follow, error) {
	args := m.Called(ctx, userID, limit)
	return args.Get(0).([]model.Follow), args.Error(1)
}

func (m *sourcesMock) ListFolloweeLiveStreams(ctx context.Context, userID string, limit int) ([]model.LiveStream, error) {
	args := m.Called(ctx, userID, limit)
	return args.Get(0).([]model.LiveStream), args.Error(1)
}

func (m *sourcesMock) ListLedgerEntries(ctx context.Context, userID, entryType string, limit int) ([]model.LedgerEntry, error) {
	args := m.Called(ctx, userID, entryType, limit)
	return args.Get(0).([]model.LedgerEntry), args.Error(1)
}

func (m *sourcesMock) ListDiamondConversions(ctx context.Context, userID string, limit int) ([]model.DiamondConversion, error) {
	args := m.Called(ctx, userID, limit)
	return args.Get(0).([]model.DiamondConversion), args.Error(1)
}

func (m *sourcesMock) ProfilesByIDs(ctx context.Context, ids []string) (map[string]model.Profile, error) {
	args := m.Called(ctx, ids)
	return args.Get(0).(map[string]model.Profile), args.Error(1)
}

func (m *sourcesMock) GiftsByIDs(ctx context.Context, ids []string) (map[string]model.Gift, error) {
	args := m.Called(ctx, ids)
	return args.Get(0).(map[string]model.Gift), args.Error(1)
}

var base = time.Date(2026, 4, 10, 8, 0, 0, 0, time.UTC)

type fixture struct {
	store *memory.Store
	reads *readstate.Store
	agg   *Aggregator
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	logger := zap.NewNop()
	m := metrics.New()
	store := memory.New(logger)
	reads := readstate.New(memory.NewKV(), logger, m)
	agg := New(&config.Config{AggregateLimit: DefaultLimit}, store, reads, m, logger)
	return fixture{store: store, reads: reads, agg: agg}
}

func TestAggregateScenario(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	for i := 1; i <= 3; i++ {
		id := strconv.Itoa(i)
		f.store.AddFollow(model.Follow{ID: "f" + id, FollowerID: "fan-" + id, FollowingID: "user-a", CreatedAt: base.Add(time.Duration(i) * time.Minute)})
	}
	f.store.AddLedgerEntry(model.LedgerEntry{ID: "g1", UserID: "user-a", EntryType: domain.LedgerEntryDiamondEarn, Diamonds: 5, SenderID: "fan-1", CreatedAt: base})
	f.store.AddLedgerEntry(model.LedgerEntry{ID: "g2", UserID: "user-a", EntryType: domain.LedgerEntryDiamondEarn, Diamonds: 7, SenderID: "fan-2", CreatedAt: base.Add(time.Hour)})
	f.reads.MarkRead(ctx, "user-a", []string{domain.GiftID("g1"), domain.GiftID("g2")})

	items := f.agg.Aggregate(ctx, "user-a")
	require.Len(t, items, 5)

	unread := 0
	for _, item := range items {
		if !item.IsRead {
			unread++
			require.Equal(t, domain.KindFollow, item.Kind)
		}
	}
	require.Equal(t, 3, unread)
	require.Equal(t, 3, f.agg.UnreadCount(ctx, "user-a"))
}

func TestAggregateLimitFromConfig(t *testing.T) {
	ctx := context.Background()
	logger := zap.NewNop()
	m := metrics.New()
	store := memory.New(logger)
	for i := 0; i < 60; i++ {
		id := strconv.Itoa(i)
		at := base.Add(time.Duration(i) * time.Second)
		store.AddFollow(model.Follow{ID: "f" + id, FollowerID: "fan-" + id, FollowingID: "user-a", CreatedAt: at})
		store.AddLedgerEntry(model.LedgerEntry{ID: "g" + id, UserID: "user-a", EntryType: domain.LedgerEntryDiamondEarn, CreatedAt: at})
		store.AddLedgerEntry(model.LedgerEntry{ID: "p" + id, UserID: "user-a", EntryType: domain.LedgerEntryCoinPurchase, CreatedAt: at})
	}

	cases := []struct {
		name  string
		limit int
		want  int
	}{
		{name: "unset", limit: 0, want: DefaultLimit},
		{name: "lower", limit: 10, want: 10},
		{name: "above cap", limit: 500, want: DefaultLimit},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			reads := readstate.New(memory.NewKV(), logger, m)
			agg := New(&config.Config{AggregateLimit: tc.limit}, store, reads, m, logger)
			require.Len(t, agg.Aggregate(ctx, "user-a"), tc.want)
		})
	}
}

func TestAggregateEmptyReadSet(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	seedAll(f.store, "user-a", 10)

	items := f.agg.Aggregate(ctx, "user-a")
	require.NotEmpty(t, items)
	for _, item := range items {
		require.False(t, item.IsRead, item.ID)
	}
}

func TestAggregateSortedAndCapped(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	rng := rand.New(rand.NewSource(7))

	f.store.AddProfile(model.Profile{ID: "host", DisplayName: "Host"})
	for i := 0; i < 60; i++ {
		id := strconv.Itoa(i)
		at := base.Add(time.Duration(rng.Intn(10_000)) * time.Second)
		f.store.AddFollow(model.Follow{ID: "f" + id, FollowerID: "fan-" + id, FollowingID: "user-a", CreatedAt: at})
		f.store.AddLedgerEntry(model.LedgerEntry{ID: "g" + id, UserID: "user-a", EntryType: domain.LedgerEntryDiamondEarn, CreatedAt: at})
		f.store.AddLedgerEntry(model.LedgerEntry{ID: "p" + id, UserID: "user-a", EntryType: domain.LedgerEntryCoinPurchase, CreatedAt: base.Add(time.Duration(rng.Intn(10_000)) * time.Second)})
	}

	items := f.agg.Aggregate(ctx, "user-a")
	require.Len(t, items, DefaultLimit)
	for i := 1; i < len(items); i++ {
		require.False(t, items[i].CreatedAt.After(items[i-1].CreatedAt), "item %d newer than %d", i, i-1)
	}

	ids := make(map[string]struct{}, len(items))
	for _, item := range items {
		_, dup := ids[item.ID]
		require.False(t, dup, item.ID)
		ids[item.ID] = struct{}{}
	}
}

func TestAggregateLiveRestartsAreDistinct(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	t1 := base
	t2 := base.Add(3 * time.Hour)

	f.store.AddFollow(model.Follow{ID: "f1", FollowerID: "user-a", FollowingID: "host", CreatedAt: base.Add(-time.Hour)})
	f.store.AddProfile(model.Profile{ID: "host", Username: "hostname"})
	f.store.AddLiveStream(model.LiveStream{ID: "42", HostID: "host", StartedAt: t1, IsLive: true})
	f.store.AddLiveStream(model.LiveStream{ID: "42", HostID: "host", StartedAt: t2, IsLive: true, Title: "round two"})
	f.reads.MarkRead(ctx, "user-a", []string{domain.LiveID("42", t1)})

	items := f.agg.Aggregate(ctx, "user-a")
	require.Len(t, items, 2)
	require.Equal(t, domain.LiveID("42", t2), items[0].ID)
	require.False(t, items[0].IsRead)
	require.Equal(t, "round two", items[0].Message)
	require.Equal(t, "hostname is live", items[0].Title)
	require.Equal(t, domain.LiveID("42", t1), items[1].ID)
	require.True(t, items[1].IsRead)
}

func TestAggregateMessages(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.store.AddProfile(model.Profile{ID: "fan", DisplayName: "Fan"})
	f.store.AddGift(model.Gift{ID: "rose", Name: "Rose"})
	f.store.AddLedgerEntry(model.LedgerEntry{ID: "1", UserID: "user-a", EntryType: domain.LedgerEntryDiamondEarn, Diamonds: 5, SenderID: "fan", GiftID: "rose", CreatedAt: base.Add(3 * time.Minute)})
	f.store.AddLedgerEntry(model.LedgerEntry{ID: "2", UserID: "user-a", EntryType: domain.LedgerEntryCoinPurchase, Coins: 100, CreatedAt: base.Add(2 * time.Minute)})
	f.store.AddDiamondConversion(model.DiamondConversion{ID: "3", UserID: "user-a", Diamonds: 50, Coins: 25, CreatedAt: base.Add(time.Minute)})
	f.store.AddDiamondConversion(model.DiamondConversion{ID: "4", UserID: "user-a", Diamonds: 50, Coins: 25, Status: "pending", CreatedAt: base})

	items := f.agg.Aggregate(ctx, "user-a")
	require.Len(t, items, 3)

	require.Equal(t, "gift:le:1", items[0].ID)
	require.Equal(t, "Fan sent you Rose (+5 diamonds)", items[0].Message)
	require.Equal(t, "fan", items[0].Metadata["sender_id"])
	require.Equal(t, "rose", items[0].Metadata["gift_id"])

	require.Equal(t, "purchase:le:2", items[1].ID)
	require.Equal(t, "You purchased 100 coins", items[1].Message)

	require.Equal(t, "conversion:3", items[2].ID)
	require.Equal(t, "25", items[2].Metadata["coins"])
}

func TestAggregatePartialFailure(t *testing.T) {
	ctx := context.Background()
	src := &sourcesMock{}
	src.On("ListFollowers", mock.Anything, "user-a", FollowLimit).Return([]model.Follow{
		{ID: "f1", FollowerID: "fan", FollowingID: "user-a", CreatedAt: base},
	}, nil).Once()
	src.On("ListFolloweeLiveStreams", mock.Anything, "user-a", LiveLimit).Return([]model.LiveStream(nil), errors.New("timeout")).Once()
	src.On("ListLedgerEntries", mock.Anything, "user-a", domain.LedgerEntryDiamondEarn, GiftLimit).Return([]model.LedgerEntry(nil), errors.New("boom")).Once()
	src.On("ListLedgerEntries", mock.Anything, "user-a", domain.LedgerEntryCoinPurchase, PurchaseLimit).Return([]model.LedgerEntry{
		{ID: "p1", UserID: "user-a", EntryType: domain.LedgerEntryCoinPurchase, Coins: 10, CreatedAt: base.Add(time.Minute)},
	}, nil).Once()
	src.On("ListDiamondConversions", mock.Anything, "user-a", ConversionLimit).Return([]model.DiamondConversion(nil), errors.New("denied")).Once()
	src.On("ProfilesByIDs", mock.Anything, []string{"fan"}).Return(map[string]model.Profile(nil), errors.New("profiles down")).Once()

	m := metrics.New()
	reads := readstate.New(memory.NewKV(), zap.NewNop(), m)
	agg := New(&config.Config{}, src, reads, m, zap.NewNop())

	items := agg.Aggregate(ctx, "user-a")
	require.Len(t, items, 2)
	require.Equal(t, "purchase:le:p1", items[0].ID)
	require.Equal(t, "follow:f1", items[1].ID)
	require.Equal(t, "Someone started following you", items[1].Message)
	src.AssertExpectations(t)
	src.AssertNotCalled(t, "GiftsByIDs", mock.Anything, mock.Anything)
}

func TestAggregateBatchesLookups(t *testing.T) {
	ctx := context.Background()
	src := &sourcesMock{}
	var follows []model.Follow
	var gifts []model.LedgerEntry
	for i := 0; i < 30; i++ {
		id := strconv.Itoa(i)
		follows = append(follows, model.Follow{ID: "f" + id, FollowerID: "fan-" + strconv.Itoa(i%3), FollowingID: "user-a", CreatedAt: base})
		gifts = append(gifts, model.LedgerEntry{ID: "g" + id, UserID: "user-a", EntryType: domain.LedgerEntryDiamondEarn, SenderID: "fan-0", GiftID: "rose", CreatedAt: base})
	}
	src.On("ListFollowers", mock.Anything, "user-a", FollowLimit).Return(follows, nil).Once()
	src.On("ListFolloweeLiveStreams", mock.Anything, "user-a", LiveLimit).Return([]model.LiveStream(nil), nil).Once()
	src.On("ListLedgerEntries", mock.Anything, "user-a", domain.LedgerEntryDiamondEarn, GiftLimit).Return(gifts, nil).Once()
	src.On("ListLedgerEntries", mock.Anything, "user-a", domain.LedgerEntryCoinPurchase, PurchaseLimit).Return([]model.LedgerEntry(nil), nil).Once()
	src.On("ListDiamondConversions", mock.Anything, "user-a", ConversionLimit).Return([]model.DiamondConversion(nil), nil).Once()
	src.On("ProfilesByIDs", mock.Anything, mock.MatchedBy(func(ids []string) bool {
		return len(ids) == 3
	})).Return(map[string]model.Profile{"fan-0": {ID: "fan-0", Username: "zero"}}, nil).Once()
	src.On("GiftsByIDs", mock.Anything, []string{"rose"}).Return(map[string]model.Gift{"rose": {ID: "rose", Name: "Rose"}}, nil).Once()

	m := metrics.New()
	agg := New(&config.Config{}, src, readstate.New(memory.NewKV(), zap.NewNop(), m), m, zap.NewNop())

	items := agg.Aggregate(ctx, "user-a")
	require.Len(t, items, 60)
	src.AssertExpectations(t)
}

func TestAggregateAnonymous(t *testing.T) {
	src := &sourcesMock{}
	m := metrics.New()
	agg := New(&config.Config{}, src, readstate.New(memory.NewKV(), zap.NewNop(), m), m, zap.NewNop())

	items := agg.Aggregate(context.Background(), "")
	require.NotNil(t, items)
	require.Empty(t, items)
	src.AssertNotCalled(t, "ListFollowers", mock.Anything, mock.Anything, mock.Anything)
}

func TestMarkAllRead(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	seedAll(f.store, "user-a", 4)
	f.reads.MarkRead(ctx, "user-a", []string{domain.FollowID("f0")})

	marked := f.agg.MarkAllRead(ctx, "user-a")
	require.NotContains(t, marked, domain.FollowID("f0"))
	require.NotEmpty(t, marked)
	require.Zero(t, f.agg.UnreadCount(ctx, "user-a"))
	require.Empty(t, f.agg.MarkAllRead(ctx, "user-a"))
}

func TestDedupe(t *testing.T) {
	items := dedupe([]model.NotificationItem{
		{ID: "follow:1", Title: "first"},
		{ID: "follow:2"},
		{ID: "follow:1", Title: "second"},
	})
	require.Len(t, items, 2)
	require.Equal(t, "first", items[0].Title)
}

func seedAll(store *memory.Store, userID string, n int) {
	for i := 0; i < n; i++ {
		id := strconv.Itoa(i)
		at := base.Add(time.Duration(i) * time.Minute)
		store.AddFollow(model.Follow{ID: "f" + id, FollowerID: "fan-" + id, FollowingID: userID, CreatedAt: at})
		store.AddLedgerEntry(model.LedgerEntry{ID: "g" + id, UserID: userID, EntryType: domain.LedgerEntryDiamondEarn, CreatedAt: at})
		store.AddLedgerEntry(model.LedgerEntry{ID: "p" + id, UserID: userID, EntryType: domain.LedgerEntryCoinPurchase, CreatedAt: at})
		store.AddDiamondConversion(model.DiamondConversion{ID: "c" + id, UserID: userID, CreatedAt: at})
	}
}
