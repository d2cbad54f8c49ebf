package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/d60-Lab/stockfeed/internal/api/middleware"
	"github.com/d60-Lab/stockfeed/internal/service"
	"github.com/d60-Lab/stockfeed/pkg/response"
)

type feedRequest struct {
	Mode   string `form:"mode" binding:"omitempty,feedmode"`
	Cursor string `form:"cursor"`
	Limit  int    `form:"limit"`
}

// GetFeed 获取个性化或关注流
// @Summary 获取 Feed
// @Tags Feed
// @Produce json
// @Param mode query string false "for_you / following" default(for_you)
// @Param cursor query string false "上一页返回的游标"
// @Param limit query int false "页大小" default(20)
// @Success 200 {object} response.Response{data=service.FeedPage}
// @Failure 400 {object} response.Response
// @Failure 500 {object} response.Response
// @Security BearerAuth
// @Router /api/v1/feed [get]
func (h *Handler) GetFeed(c *gin.Context) {
	var req feedRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	if req.Mode == "" {
		req.Mode = service.FeedModeForYou
	}

	userID := middleware.UserID(c)
	page, err := h.feedService.GetFeed(c.Request.Context(), userID, req.Mode, req.Cursor, req.Limit)
	if err != nil {
		if errors.Is(err, service.ErrInvalidFeedMode) || errors.Is(err, service.ErrInvalidPageSize) {
			response.BadRequest(c, err.Error())
			return
		}
		response.InternalError(c, err)
		return
	}
	response.Success(c, page)
}
