package dto

import "livefeed/internal/model"

type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type StatusResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type NotificationsResponse struct {
	Items       []model.NotificationItem `json:"items"`
	UnreadCount int                      `json:"unread_count"`
}

type UnreadCountResponse struct {
	UnreadCount int `json:"unread_count"`
}

type MarkReadRequest struct {
	IDs []string `json:"ids"`
}

type MarkReadResponse struct {
	Marked int      `json:"marked"`
	IDs    []string `json:"ids,omitempty"`
}
