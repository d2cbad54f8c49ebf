package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/d60-Lab/stockfeed/internal/model"
)

// FollowerRepository 粉丝冗余表仓储（由 FollowerReplicator 异步回填）
type FollowerRepository interface {
	Create(ctx context.Context, userID, followerID string) error
	Delete(ctx context.Context, userID, followerID string) error
	ListFollowers(ctx context.Context, userID string, offset, limit int) ([]*model.Follower, error)
	CountFollowers(ctx context.Context, userID string) (int64, error)
}

type followerRepository struct{ db *gorm.DB }

func NewFollowerRepository(db *gorm.DB) FollowerRepository { return &followerRepository{db: db} }

func (r *followerRepository) Create(ctx context.Context, userID, followerID string) error {
	f := &model.Follower{ID: uuid.New().String(), UserID: userID, FollowerID: followerID}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(f).Error
}

func (r *followerRepository) Delete(ctx context.Context, userID, followerID string) error {
	return r.db.WithContext(ctx).
		Where("user_id = ? AND follower_id = ?", userID, followerID).
		Delete(&model.Follower{}).Error
}

func (r *followerRepository) ListFollowers(ctx context.Context, userID string, offset, limit int) ([]*model.Follower, error) {
	var res []*model.Follower
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Offset(offset).Limit(limit).
		Find(&res).Error
	return res, err
}

func (r *followerRepository) CountFollowers(ctx context.Context, userID string) (int64, error) {
	var cnt int64
	err := r.db.WithContext(ctx).
		Model(&model.Follower{}).
		Where("user_id = ?", userID).
		Count(&cnt).Error
	return cnt, err
}
