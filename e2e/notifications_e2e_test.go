package e2e

import (
	"encoding/json"
	"net/http"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"livefeed/internal/domain"
	"livefeed/internal/http/dto"
	"livefeed/internal/model"
	"livefeed/internal/sse"
)

var base = time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

func TestNotificationFlow(t *testing.T) {
	srv, store := newMemoryServer(t)

	for i := 1; i <= 3; i++ {
		id := strconv.Itoa(i)
		store.AddProfile(model.Profile{ID: "fan-" + id, Username: "fan" + id})
		store.AddFollow(model.Follow{ID: "f" + id, FollowerID: "fan-" + id, FollowingID: "user-a", CreatedAt: base.Add(time.Duration(i) * time.Hour)})
	}
	store.AddLedgerEntry(model.LedgerEntry{ID: "g1", UserID: "user-a", EntryType: domain.LedgerEntryDiamondEarn, Diamonds: 10, SenderID: "fan-1", CreatedAt: base})
	store.AddLedgerEntry(model.LedgerEntry{ID: "g2", UserID: "user-a", EntryType: domain.LedgerEntryDiamondEarn, Diamonds: 20, SenderID: "fan-2", CreatedAt: base.Add(time.Minute)})

	stream := srv.openStream(t, "user-a")

	var marked dto.MarkReadResponse
	status := srv.call(t, "user-a", http.MethodPost, "/v1/notifications/read",
		dto.MarkReadRequest{IDs: []string{domain.GiftID("g1"), domain.GiftID("g2")}}, &marked)
	require.Equal(t, http.StatusOK, status)
	require.Equal(t, 2, marked.Marked)

	data, err := readSSEData(stream.Body, 2*time.Second)
	require.NoError(t, err)
	var event sse.Event
	require.NoError(t, json.Unmarshal([]byte(data), &event))
	require.Equal(t, sse.EventRefresh, event.Type)
	require.Equal(t, sse.ReasonReadState, event.Reason)

	var list dto.NotificationsResponse
	require.Equal(t, http.StatusOK, srv.call(t, "user-a", http.MethodGet, "/v1/notifications", nil, &list))
	require.Len(t, list.Items, 5)
	require.Equal(t, 3, list.UnreadCount)
	for i, item := range list.Items {
		if i > 0 {
			require.False(t, item.CreatedAt.After(list.Items[i-1].CreatedAt))
		}
		require.Equal(t, item.Kind == domain.KindGift, item.IsRead, item.ID)
	}
	require.Equal(t, "fan3 started following you", list.Items[0].Message)

	// Marking the same ids again changes nothing.
	require.Equal(t, http.StatusOK, srv.call(t, "user-a", http.MethodPost, "/v1/notifications/read",
		dto.MarkReadRequest{IDs: []string{domain.GiftID("g1")}}, &marked))
	require.Zero(t, marked.Marked)

	require.Equal(t, http.StatusOK, srv.call(t, "user-a", http.MethodPost, "/v1/notifications/read-all", nil, &marked))
	require.Equal(t, 3, marked.Marked)

	var count dto.UnreadCountResponse
	require.Equal(t, http.StatusOK, srv.call(t, "user-a", http.MethodGet, "/v1/notifications/unread-count", nil, &count))
	require.Zero(t, count.UnreadCount)
}

func TestLiveRestartsAreSeparateNotifications(t *testing.T) {
	srv, store := newMemoryServer(t)
	store.AddProfile(model.Profile{ID: "host", DisplayName: "Host"})
	store.AddFollow(model.Follow{ID: "f1", FollowerID: "user-a", FollowingID: "host", CreatedAt: base.Add(-time.Hour)})
	store.AddLiveStream(model.LiveStream{ID: "42", HostID: "host", StartedAt: base, IsLive: true})
	store.AddLiveStream(model.LiveStream{ID: "42", HostID: "host", StartedAt: base.Add(2 * time.Hour), IsLive: true})

	var list dto.NotificationsResponse
	require.Equal(t, http.StatusOK, srv.call(t, "user-a", http.MethodGet, "/v1/notifications", nil, &list))
	require.Len(t, list.Items, 2)
	require.Equal(t, "live:42:1772366400000", list.Items[0].ID)
	require.Equal(t, "live:42:1772359200000", list.Items[1].ID)
	require.Equal(t, "Host is live", list.Items[0].Title)
}

func TestMetricsAndHealth(t *testing.T) {
	srv, _ := newMemoryServer(t)

	var list dto.NotificationsResponse
	srv.call(t, "user-a", http.MethodGet, "/v1/notifications", nil, &list)

	res, err := http.Get(srv.URL + "/health")
	require.NoError(t, err)
	_ = res.Body.Close()
	require.Equal(t, http.StatusOK, res.StatusCode)

	res, err = http.Get(srv.URL + "/metrics")
	require.NoError(t, err)
	defer func() { _ = res.Body.Close() }()
	require.Equal(t, http.StatusOK, res.StatusCode)

	res, err = http.Get(srv.URL + "/v1/notifications")
	require.NoError(t, err)
	_ = res.Body.Close()
	require.Equal(t, http.StatusUnauthorized, res.StatusCode)
}
