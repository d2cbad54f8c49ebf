package handler

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/d60-Lab/stockfeed/internal/api/middleware"
	"github.com/d60-Lab/stockfeed/internal/service"
	"github.com/d60-Lab/stockfeed/pkg/response"
)

type createPostRequest struct {
	Body    string `json:"body" binding:"required,max=4096"`
	ReplyTo *int64 `json:"reply_to,omitempty"`
}

// CreatePost 发帖（正文中的标的符号自动提取关联）
// @Summary 发帖
// @Tags 帖子
// @Accept json
// @Produce json
// @Param request body createPostRequest true "帖子内容"
// @Success 200 {object} response.Response{data=model.Post}
// @Failure 400 {object} response.Response
// @Security BearerAuth
// @Router /api/v1/posts [post]
func (h *Handler) CreatePost(c *gin.Context) {
	var req createPostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	post, err := h.postService.Create(c.Request.Context(), middleware.UserID(c), req.Body, req.ReplyTo)
	if err != nil {
		if errors.Is(err, service.ErrEmptyBody) || errors.Is(err, service.ErrParentMissing) {
			response.BadRequest(c, err.Error())
			return
		}
		response.InternalError(c, err)
		return
	}
	response.Success(c, post)
}

// GetPost 查询单帖
// @Summary 查询帖子
// @Tags 帖子
// @Param post_id path int true "帖子ID"
// @Success 200 {object} response.Response{data=model.Post}
// @Failure 404 {object} response.Response
// @Router /api/v1/posts/{post_id} [get]
func (h *Handler) GetPost(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("post_id"), 10, 64)
	if err != nil {
		response.BadRequest(c, "invalid post id")
		return
	}
	post, err := h.postService.Get(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			response.NotFound(c, "post not found")
			return
		}
		response.InternalError(c, err)
		return
	}
	response.Success(c, post)
}

type hidePostRequest struct {
	Hidden bool `json:"hidden"`
}

// HidePost 下架/恢复帖子（下架后不进入任何候选）
// @Summary 下架帖子
// @Tags 帖子
// @Accept json
// @Param post_id path int true "帖子ID"
// @Param request body hidePostRequest true "是否下架"
// @Success 200 {object} response.Response
// @Security BearerAuth
// @Router /api/v1/posts/{post_id}/hidden [put]
func (h *Handler) HidePost(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("post_id"), 10, 64)
	if err != nil {
		response.BadRequest(c, "invalid post id")
		return
	}
	var req hidePostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	if err := h.postService.Hide(c.Request.Context(), id, req.Hidden); err != nil {
		response.InternalError(c, err)
		return
	}
	response.Success(c, nil)
}
