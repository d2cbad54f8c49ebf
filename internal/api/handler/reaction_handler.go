package handler

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/d60-Lab/stockfeed/internal/api/middleware"
	"github.com/d60-Lab/stockfeed/internal/service"
	"github.com/d60-Lab/stockfeed/pkg/response"
)

type toggleReactionRequest struct {
	Type string `json:"type" binding:"required,oneof=LIKE BOOST BOOKMARK"`
}

// ToggleReaction 反应开关：同类型重复提交即取消
// @Summary 点亮/取消反应
// @Tags 反应
// @Accept json
// @Produce json
// @Param post_id path int true "帖子ID"
// @Param request body toggleReactionRequest true "反应类型"
// @Success 200 {object} response.Response{data=map[string]bool}
// @Failure 400 {object} response.Response
// @Security BearerAuth
// @Router /api/v1/posts/{post_id}/reactions [post]
func (h *Handler) ToggleReaction(c *gin.Context) {
	postID, err := strconv.ParseInt(c.Param("post_id"), 10, 64)
	if err != nil {
		response.BadRequest(c, "invalid post id")
		return
	}
	var req toggleReactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	active, err := h.reactionService.Toggle(c.Request.Context(), postID, middleware.UserID(c), req.Type)
	if err != nil {
		if errors.Is(err, service.ErrInvalidReactionType) {
			response.BadRequest(c, err.Error())
			return
		}
		response.InternalError(c, err)
		return
	}
	response.Success(c, gin.H{"active": active})
}
