package controller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"livefeed/internal/domain"
	"livefeed/internal/http/dto"
	"livefeed/internal/http/middleware"
	"livefeed/internal/http/resp"
)

func (h *Handler) GetLiveFilters(c *gin.Context) {
	c.JSON(http.StatusOK, h.prefs.LiveFilters(c.Request.Context(), middleware.UserID(c)))
}

func (h *Handler) PutLiveFilters(c *gin.Context) {
	var req dto.LiveFiltersRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Code: resp.CodeBadRequest, Message: "invalid json"})
		return
	}
	saved, err := h.prefs.SaveLiveFilters(c.Request.Context(), middleware.UserID(c), req)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidFilters) {
			c.JSON(http.StatusBadRequest, dto.ErrorResponse{Code: resp.CodeBadRequest, Message: err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Code: resp.CodeInternalError, Message: "failed to save filters"})
		return
	}
	c.JSON(http.StatusOK, saved)
}
