package domain

import (
	"errors"
	"strconv"
	"strings"
	"time"
)

type Kind string

const (
	KindFollow     Kind = "follow"
	KindLive       Kind = "live"
	KindGift       Kind = "gift"
	KindPurchase   Kind = "purchase"
	KindConversion Kind = "conversion"
	KindMention    Kind = "mention"
	KindComment    Kind = "comment"
	KindLevelUp    Kind = "level_up"
	KindSystem     Kind = "system"
)

const (
	LedgerEntryCoinPurchase = "coin_purchase"
	LedgerEntryDiamondEarn  = "diamond_earn"

	ConversionStatusCompleted = "completed"
)

var (
	ErrInvalidKind     = errors.New("invalid notification kind")
	ErrKeyNotFound     = errors.New("key not found")
	ErrMissingUser     = errors.New("user id required")
	ErrInvalidIDs      = errors.New("notification ids required")
	ErrTooManyIDs      = errors.New("too many notification ids")
	ErrInvalidFilters  = errors.New("invalid live filters")
	ErrNotFound        = errors.New("not found")
	ErrMissingPost     = errors.New("post id required")
	ErrEmptyComment    = errors.New("comment body is empty")
	ErrCommentTooLong  = errors.New("comment body too long")
	ErrInvalidParent   = errors.New("parent comment does not belong to post")
	ErrInvalidReaction = errors.New("invalid reaction target")
)

func IsValidKind(value string) bool {
	switch Kind(value) {
	case KindFollow, KindLive, KindGift, KindPurchase, KindConversion,
		KindMention, KindComment, KindLevelUp, KindSystem:
		return true
	default:
		return false
	}
}

// IsCompletedConversion accepts rows without a status as completed.
func IsCompletedConversion(status string) bool {
	status = strings.TrimSpace(status)
	return status == "" || status == ConversionStatusCompleted
}

// Notification ids follow "{kind}:{sourceRecordId}[:subkey]".

func FollowID(rowID string) string {
	return string(KindFollow) + ":" + rowID
}

func LiveID(streamID string, startedAt time.Time) string {
	return string(KindLive) + ":" + streamID + ":" + strconv.FormatInt(startedAt.UTC().UnixMilli(), 10)
}

func GiftID(ledgerID string) string {
	return string(KindGift) + ":le:" + ledgerID
}

func PurchaseID(ledgerID string) string {
	return string(KindPurchase) + ":le:" + ledgerID
}

func ConversionID(rowID string) string {
	return string(KindConversion) + ":" + rowID
}

// KindOf returns the kind prefix of a notification id.
func KindOf(id string) (Kind, bool) {
	prefix, _, ok := strings.Cut(id, ":")
	if !ok || !IsValidKind(prefix) {
		return "", false
	}
	return Kind(prefix), true
}
