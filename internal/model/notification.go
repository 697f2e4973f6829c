package model

import (
	"time"

	"livefeed/internal/domain"
)

type NotificationItem struct {
	ID        string            `json:"id"`
	Kind      domain.Kind       `json:"kind"`
	Title     string            `json:"title"`
	Message   string            `json:"message"`
	CreatedAt time.Time         `json:"created_at"`
	IsRead    bool              `json:"is_read"`
	Metadata  map[string]string `json:"metadata,omitempty"`
}
