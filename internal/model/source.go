package model

import "time"

type Follow struct {
	ID          string    `json:"id"`
	FollowerID  string    `json:"follower_id"`
	FollowingID string    `json:"following_id"`
	CreatedAt   time.Time `json:"created_at"`
}

type LiveStream struct {
	ID        string    `json:"id"`
	HostID    string    `json:"host_id"`
	Title     string    `json:"title"`
	StartedAt time.Time `json:"started_at"`
	IsLive    bool      `json:"is_live"`
}

type LedgerEntry struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	EntryType string    `json:"entry_type"`
	Coins     int64     `json:"coins"`
	Diamonds  int64     `json:"diamonds"`
	SenderID  string    `json:"sender_id,omitempty"`
	GiftID    string    `json:"gift_id,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

type DiamondConversion struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Diamonds  int64     `json:"diamonds"`
	Coins     int64     `json:"coins"`
	Status    string    `json:"status,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

type Profile struct {
	ID          string `json:"id"`
	Username    string `json:"username"`
	DisplayName string `json:"display_name"`
	AvatarURL   string `json:"avatar_url,omitempty"`
}

// Name is the label shown in notification text.
func (p Profile) Name() string {
	switch {
	case p.DisplayName != "":
		return p.DisplayName
	case p.Username != "":
		return p.Username
	default:
		return "Someone"
	}
}

type Gift struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	CoinCost int64  `json:"coin_cost"`
}
