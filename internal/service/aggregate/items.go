package aggregate

import (
	"fmt"
	"strconv"

	"livefeed/internal/domain"
	"livefeed/internal/model"
)

func followItem(f model.Follow, follower model.Profile) model.NotificationItem {
	return model.NotificationItem{
		ID:        domain.FollowID(f.ID),
		Kind:      domain.KindFollow,
		Title:     "New follower",
		Message:   fmt.Sprintf("%s started following you", follower.Name()),
		CreatedAt: f.CreatedAt,
		Metadata: map[string]string{
			"follow_id":   f.ID,
			"follower_id": f.FollowerID,
		},
	}
}

func liveItem(ls model.LiveStream, host model.Profile) model.NotificationItem {
	message := ls.Title
	if message == "" {
		message = "Tap to join the stream"
	}
	return model.NotificationItem{
		ID:        domain.LiveID(ls.ID, ls.StartedAt),
		Kind:      domain.KindLive,
		Title:     fmt.Sprintf("%s is live", host.Name()),
		Message:   message,
		CreatedAt: ls.StartedAt,
		Metadata: map[string]string{
			"stream_id": ls.ID,
			"host_id":   ls.HostID,
		},
	}
}

func giftItem(e model.LedgerEntry, sender model.Profile, gift model.Gift, known bool) model.NotificationItem {
	what := "a gift"
	if known && gift.Name != "" {
		what = gift.Name
	}
	metadata := map[string]string{
		"ledger_id": e.ID,
		"diamonds":  strconv.FormatInt(e.Diamonds, 10),
	}
	if e.SenderID != "" {
		metadata["sender_id"] = e.SenderID
	}
	if e.GiftID != "" {
		metadata["gift_id"] = e.GiftID
	}
	return model.NotificationItem{
		ID:        domain.GiftID(e.ID),
		Kind:      domain.KindGift,
		Title:     "Gift received",
		Message:   fmt.Sprintf("%s sent you %s (+%d diamonds)", sender.Name(), what, e.Diamonds),
		CreatedAt: e.CreatedAt,
		Metadata:  metadata,
	}
}

func purchaseItem(e model.LedgerEntry) model.NotificationItem {
	return model.NotificationItem{
		ID:        domain.PurchaseID(e.ID),
		Kind:      domain.KindPurchase,
		Title:     "Coins added",
		Message:   fmt.Sprintf("You purchased %d coins", e.Coins),
		CreatedAt: e.CreatedAt,
		Metadata: map[string]string{
			"ledger_id": e.ID,
			"coins":     strconv.FormatInt(e.Coins, 10),
		},
	}
}

func conversionItem(c model.DiamondConversion) model.NotificationItem {
	return model.NotificationItem{
		ID:        domain.ConversionID(c.ID),
		Kind:      domain.KindConversion,
		Title:     "Diamonds converted",
		Message:   fmt.Sprintf("You converted %d diamonds into %d coins", c.Diamonds, c.Coins),
		CreatedAt: c.CreatedAt,
		Metadata: map[string]string{
			"conversion_id": c.ID,
			"diamonds":      strconv.FormatInt(c.Diamonds, 10),
			"coins":         strconv.FormatInt(c.Coins, 10),
		},
	}
}
