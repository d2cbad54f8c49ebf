package service

import (
	"context"
	"errors"

	"github.com/d60-Lab/stockfeed/internal/repository"
)

var ErrFollowSelf = errors.New("cannot follow self")

// RelationshipService 关系链服务：写 follows 主表，粉丝冗余异步回填
type RelationshipService interface {
	Follow(ctx context.Context, fromUserID, toUserID string) error
	Unfollow(ctx context.Context, fromUserID, toUserID string) error
	ListFollowing(ctx context.Context, userID string, page, pageSize int) ([]string, error)
	ListFollowers(ctx context.Context, userID string, page, pageSize int) ([]string, error)
	FollowerCount(ctx context.Context, userID string) (int64, error)
}

type relationshipService struct {
	followRepo   repository.FollowRepository
	followerRepo repository.FollowerRepository
	replicator   *FollowerReplicator
}

func NewRelationshipService(followRepo repository.FollowRepository, followerRepo repository.FollowerRepository, replicator *FollowerReplicator) RelationshipService {
	return &relationshipService{followRepo: followRepo, followerRepo: followerRepo, replicator: replicator}
}

func (s *relationshipService) Follow(ctx context.Context, fromUserID, toUserID string) error {
	if fromUserID == toUserID {
		return ErrFollowSelf
	}
	if err := s.followRepo.Create(ctx, fromUserID, toUserID); err != nil {
		return err
	}
	if s.replicator != nil {
		s.replicator.EnqueueAdd(toUserID, fromUserID)
	}
	return nil
}

func (s *relationshipService) Unfollow(ctx context.Context, fromUserID, toUserID string) error {
	if err := s.followRepo.Delete(ctx, fromUserID, toUserID); err != nil {
		return err
	}
	if s.replicator != nil {
		s.replicator.EnqueueRemove(toUserID, fromUserID)
	}
	return nil
}

func (s *relationshipService) ListFollowing(ctx context.Context, userID string, page, pageSize int) ([]string, error) {
	offset, pageSize := normalizePage(page, pageSize)
	items, err := s.followRepo.ListFollowings(ctx, userID, offset, pageSize)
	if err != nil {
		return nil, err
	}
	res := make([]string, len(items))
	for i, it := range items {
		res[i] = it.FolloweeID
	}
	return res, nil
}

func (s *relationshipService) ListFollowers(ctx context.Context, userID string, page, pageSize int) ([]string, error) {
	offset, pageSize := normalizePage(page, pageSize)
	items, err := s.followerRepo.ListFollowers(ctx, userID, offset, pageSize)
	if err != nil {
		return nil, err
	}
	res := make([]string, len(items))
	for i, it := range items {
		res[i] = it.FollowerID
	}
	return res, nil
}

func (s *relationshipService) FollowerCount(ctx context.Context, userID string) (int64, error) {
	return s.followerRepo.CountFollowers(ctx, userID)
}

func normalizePage(page, pageSize int) (offset, size int) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 10
	}
	return (page - 1) * pageSize, pageSize
}
