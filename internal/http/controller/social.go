package controller

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"livefeed/internal/domain"
	"livefeed/internal/http/dto"
	"livefeed/internal/http/middleware"
	"livefeed/internal/http/resp"
	"livefeed/internal/model"
)

// SetReaction handles PUT (react) and DELETE (unreact) on a target.
func (h *Handler) SetReaction(c *gin.Context) {
	active := c.Request.Method == http.MethodPut
	reaction := model.Reaction{
		TargetKind: c.Param("kind"),
		TargetID:   c.Param("id"),
		UserID:     middleware.UserID(c),
	}
	ctx, cancel := h.mutationContext(c)
	defer cancel()
	count, err := h.social.SetReaction(ctx, reaction, active)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidReaction) {
			c.JSON(http.StatusBadRequest, dto.ErrorResponse{Code: resp.CodeBadRequest, Message: "kind must be one of: comment, post, team_post"})
			return
		}
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Code: resp.CodeInternalError, Message: "failed to update reaction"})
		return
	}
	c.JSON(http.StatusOK, dto.ReactionResponse{
		TargetKind: reaction.TargetKind,
		TargetID:   reaction.TargetID,
		Active:     active,
		Count:      count,
	})
}

func (h *Handler) CreateComment(c *gin.Context) {
	var req dto.CreateCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Code: resp.CodeBadRequest, Message: "invalid json"})
		return
	}
	ctx, cancel := h.mutationContext(c)
	defer cancel()
	created, err := h.social.CreateComment(ctx, model.Comment{
		PostID:   c.Param("id"),
		ParentID: req.ParentID,
		UserID:   middleware.UserID(c),
		Body:     req.Body,
	})
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrEmptyComment),
			errors.Is(err, domain.ErrCommentTooLong),
			errors.Is(err, domain.ErrMissingPost):
			c.JSON(http.StatusBadRequest, dto.ErrorResponse{Code: resp.CodeBadRequest, Message: err.Error()})
		case errors.Is(err, domain.ErrInvalidParent):
			c.JSON(http.StatusNotFound, dto.ErrorResponse{Code: resp.CodeNotFound, Message: err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Code: resp.CodeInternalError, Message: "failed to post comment"})
		}
		return
	}
	c.JSON(http.StatusCreated, created)
}

func (h *Handler) mutationContext(c *gin.Context) (context.Context, context.CancelFunc) {
	if h.cfg.MutationTimeout <= 0 {
		return context.WithCancel(c.Request.Context())
	}
	return context.WithTimeout(c.Request.Context(), h.cfg.MutationTimeout)
}
