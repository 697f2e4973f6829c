package model

import "time"

const (
	TargetComment  = "comment"
	TargetPost     = "post"
	TargetTeamPost = "team_post"
)

type Reaction struct {
	TargetKind string `json:"target_kind"`
	TargetID   string `json:"target_id"`
	UserID     string `json:"user_id"`
}

type Comment struct {
	ID        string    `json:"id"`
	PostID    string    `json:"post_id"`
	ParentID  string    `json:"parent_id,omitempty"`
	UserID    string    `json:"user_id"`
	Body      string    `json:"body"`
	LikeCount int       `json:"like_count"`
	CreatedAt time.Time `json:"created_at"`
	Replies   []Comment `json:"replies,omitempty"`
	Pending   bool      `json:"-"`
}

// LiveFilters is the persisted live-browse filter selection.
type LiveFilters struct {
	Category  string   `json:"category"`
	Region    string   `json:"region"`
	Sort      string   `json:"sort"`
	Languages []string `json:"languages,omitempty"`
}
