package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/d60-Lab/stockfeed/config"
	"github.com/d60-Lab/stockfeed/internal/api"
	"github.com/d60-Lab/stockfeed/internal/api/handler"
	"github.com/d60-Lab/stockfeed/internal/cache"
	"github.com/d60-Lab/stockfeed/internal/model"
	"github.com/d60-Lab/stockfeed/internal/repository"
	"github.com/d60-Lab/stockfeed/internal/service"
	"github.com/d60-Lab/stockfeed/pkg/database"
	"github.com/d60-Lab/stockfeed/pkg/logger"
	"github.com/d60-Lab/stockfeed/pkg/tracing"
)

// @title stockfeed API
// @version 1.0
// @description 社交 Feed 服务：发帖、关注、反应与个性化排序
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}
	if err := logger.Init(cfg.Log); err != nil {
		panic(err)
	}
	defer logger.Sync()

	if cfg.Sentry.DSN != "" {
		if err := sentry.Init(sentry.ClientOptions{
			Dsn:         cfg.Sentry.DSN,
			Environment: cfg.Sentry.Environment,
			SampleRate:  cfg.Sentry.SampleRate,
		}); err != nil {
			logger.Warn("sentry init failed", zap.Error(err))
		}
		defer sentry.Flush(2 * time.Second)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := tracing.Init(ctx, cfg.Trace)
	if err != nil {
		logger.Warn("tracing init failed", zap.Error(err))
		shutdownTracing = func(context.Context) error { return nil }
	}

	db, err := database.InitDB(cfg)
	if err != nil {
		logger.Error("open database", zap.Error(err))
		return
	}
	if err := db.AutoMigrate(
		&model.User{}, &model.Post{}, &model.Symbol{},
		&model.Reaction{}, &model.Follow{}, &model.Follower{},
	); err != nil {
		logger.Error("migrate", zap.Error(err))
		return
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	userRepo := repository.NewUserRepository(db)
	postRepo := repository.NewPostRepository(db)
	reactionRepo := repository.NewReactionRepository(db)
	followRepo := repository.NewFollowRepository(db)
	followerRepo := repository.NewFollowerRepository(db)

	countCache := cache.NewReactionCountCache(reactionRepo, rdb, cfg.Redis.CountTTL)

	replicator := service.NewFollowerReplicator(followerRepo, 0)
	stopReplicator := replicator.Start(4)

	userService := service.NewUserService(userRepo, cfg.JWT)
	postService := service.NewPostService(db, postRepo)
	reactionService := service.NewReactionService(reactionRepo, countCache)
	relService := service.NewRelationshipService(followRepo, followerRepo, replicator)
	interestService := service.NewInterestService(postRepo, reactionRepo, cfg.Feed)
	feedService := service.NewFeedService(postRepo, countCache, interestService, cfg.Feed)

	h := handler.New(userService, postService, reactionService, relService, feedService)
	router := api.NewRouter(cfg, h)

	srv := &http.Server{Addr: cfg.Server.Addr, Handler: router}
	go func() {
		logger.Info("server listening", zap.String("addr", cfg.Server.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("listen", zap.Error(err))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Warn("server shutdown", zap.Error(err))
	}
	_ = stopReplicator(shutdownCtx)
	_ = shutdownTracing(shutdownCtx)
	_ = rdb.Close()
}
