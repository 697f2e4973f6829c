package dto

import "livefeed/internal/model"

type ReactionResponse struct {
	TargetKind string `json:"target_kind"`
	TargetID   string `json:"target_id"`
	Active     bool   `json:"active"`
	Count      int    `json:"count"`
}

type CreateCommentRequest struct {
	Body     string `json:"body"`
	ParentID string `json:"parent_id"`
}

type LiveFiltersRequest = model.LiveFilters
