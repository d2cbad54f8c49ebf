package service

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/d60-Lab/stockfeed/internal/cache"
	"github.com/d60-Lab/stockfeed/internal/model"
	"github.com/d60-Lab/stockfeed/internal/repository"
	"github.com/d60-Lab/stockfeed/pkg/logger"
)

var ErrInvalidReactionType = errors.New("invalid reaction type")

// ReactionService 反应开关服务
type ReactionService interface {
	// Toggle 同一 (post, user, type) 再次提交即取消；返回操作后是否点亮
	Toggle(ctx context.Context, postID int64, userID, reactionType string) (bool, error)
}

type reactionService struct {
	reactionRepo repository.ReactionRepository
	countCache   *cache.ReactionCountCache
}

func NewReactionService(reactionRepo repository.ReactionRepository, countCache *cache.ReactionCountCache) ReactionService {
	return &reactionService{reactionRepo: reactionRepo, countCache: countCache}
}

func (s *reactionService) Toggle(ctx context.Context, postID int64, userID, reactionType string) (bool, error) {
	if !model.ValidReactionType(reactionType) {
		return false, ErrInvalidReactionType
	}
	active, err := s.reactionRepo.Toggle(ctx, postID, userID, reactionType)
	if err != nil {
		return false, err
	}
	if s.countCache != nil {
		if err := s.countCache.Invalidate(ctx, postID); err != nil {
			// 缓存失效失败只影响计数新鲜度，不影响写入结果
			logger.Warn("invalidate reaction counts failed", zap.Int64("post", postID), zap.Error(err))
		}
	}
	return active, nil
}
