package api

import (
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/d60-Lab/stockfeed/config"
	_ "github.com/d60-Lab/stockfeed/docs"
	"github.com/d60-Lab/stockfeed/internal/api/handler"
	"github.com/d60-Lab/stockfeed/internal/api/middleware"
	"github.com/d60-Lab/stockfeed/internal/service"
)

// NewRouter 装配路由与中间件
func NewRouter(cfg *config.Config, h *handler.Handler) *gin.Engine {
	gin.SetMode(cfg.Server.Mode)
	registerValidations()

	r := gin.New()
	r.Use(
		middleware.Recovery(),
		middleware.AccessLog(),
		middleware.RateLimit(cfg.Server.RateLimitRPS, cfg.Server.RateLimitBurst),
		otelgin.Middleware(cfg.Trace.ServiceName),
		gzip.Gzip(gzip.DefaultCompression),
	)

	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	v1 := r.Group("/api/v1")
	{
		auth := v1.Group("/auth")
		{
			auth.POST("/register", h.Register)
			auth.POST("/login", h.Login)
		}

		v1.GET("/posts/:post_id", h.GetPost)
		v1.GET("/relations/:user_id/following", h.ListFollowing)
		v1.GET("/relations/:user_id/followers", h.ListFollowers)

		authed := v1.Group("", middleware.Auth(cfg.JWT))
		{
			authed.GET("/feed", h.GetFeed)
			authed.POST("/posts", h.CreatePost)
			authed.PUT("/posts/:post_id/hidden", h.HidePost)
			authed.POST("/posts/:post_id/reactions", h.ToggleReaction)
			authed.POST("/relations/follow", h.Follow)
			authed.POST("/relations/unfollow", h.Unfollow)
		}
	}
	return r
}

func registerValidations() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		_ = v.RegisterValidation("feedmode", func(fl validator.FieldLevel) bool {
			m := fl.Field().String()
			return m == service.FeedModeForYou || m == service.FeedModeFollowing
		})
	}
}
