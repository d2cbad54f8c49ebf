package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/d60-Lab/stockfeed/internal/service"
	"github.com/d60-Lab/stockfeed/pkg/response"
)

type registerRequest struct {
	Username string `json:"username" binding:"required,min=2,max=64"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8,max=72"`
}

// Register 注册
// @Summary 注册用户
// @Tags 用户
// @Accept json
// @Produce json
// @Param request body registerRequest true "注册信息"
// @Success 200 {object} response.Response{data=model.User}
// @Failure 400 {object} response.Response
// @Router /api/v1/auth/register [post]
func (h *Handler) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	u, err := h.userService.Register(c.Request.Context(), req.Username, req.Email, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrUsernameTaken) {
			response.BadRequest(c, err.Error())
			return
		}
		response.InternalError(c, err)
		return
	}
	response.Success(c, u)
}

type loginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Login 登录换取 token
// @Summary 登录
// @Tags 用户
// @Accept json
// @Produce json
// @Param request body loginRequest true "登录信息"
// @Success 200 {object} response.Response{data=map[string]interface{}}
// @Failure 401 {object} response.Response
// @Router /api/v1/auth/login [post]
func (h *Handler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	token, u, err := h.userService.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			response.Unauthorized(c, err.Error())
			return
		}
		response.InternalError(c, err)
		return
	}
	response.Success(c, gin.H{"token": token, "user": u})
}
