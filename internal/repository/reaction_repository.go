package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/d60-Lab/stockfeed/internal/model"
)

// ReactionRepository 反应仓储
type ReactionRepository interface {
	// Toggle 开关式反应：已存在则删除，不存在则创建；返回操作后是否存在
	Toggle(ctx context.Context, postID int64, userID, reactionType string) (bool, error)
	// CountsForPosts 批量聚合各帖子的分类型计数
	CountsForPosts(ctx context.Context, postIDs []int64) (map[int64]model.ReactionCounts, error)
	// FetchUserRecent 兴趣挖掘用：用户最近的反应（带被反应帖的符号）
	FetchUserRecent(ctx context.Context, userID string, maxRows int) ([]*model.Reaction, error)
}

type reactionRepository struct {
	db *gorm.DB
}

func NewReactionRepository(db *gorm.DB) ReactionRepository { return &reactionRepository{db: db} }

func (r *reactionRepository) Toggle(ctx context.Context, postID int64, userID, reactionType string) (bool, error) {
	var active bool
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Where("post_id = ? AND user_id = ? AND type = ?", postID, userID, reactionType).
			Delete(&model.Reaction{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected > 0 {
			active = false
			return nil
		}
		rec := &model.Reaction{ID: uuid.New().String(), PostID: postID, UserID: userID, Type: reactionType}
		// 幂等：并发重复创建不报错
		if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(rec).Error; err != nil {
			return err
		}
		active = true
		return nil
	})
	return active, err
}

func (r *reactionRepository) CountsForPosts(ctx context.Context, postIDs []int64) (map[int64]model.ReactionCounts, error) {
	out := make(map[int64]model.ReactionCounts, len(postIDs))
	if len(postIDs) == 0 {
		return out, nil
	}
	type row struct {
		PostID int64
		Type   string
		Cnt    int64
	}
	var rows []row
	err := r.db.WithContext(ctx).
		Model(&model.Reaction{}).
		Select("post_id, type, COUNT(*) AS cnt").
		Where("post_id IN ?", postIDs).
		Group("post_id, type").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	for _, rw := range rows {
		c := out[rw.PostID]
		switch rw.Type {
		case model.ReactionLike:
			c.Likes = rw.Cnt
		case model.ReactionBoost:
			c.Boosts = rw.Cnt
		case model.ReactionBookmark:
			c.Bookmarks = rw.Cnt
		}
		out[rw.PostID] = c
	}
	return out, nil
}

func (r *reactionRepository) FetchUserRecent(ctx context.Context, userID string, maxRows int) ([]*model.Reaction, error) {
	var res []*model.Reaction
	err := r.db.WithContext(ctx).
		Preload("Post.Symbols").
		Where("user_id = ?", userID).
		Order("created_at DESC, id DESC").
		Limit(maxRows).
		Find(&res).Error
	return res, err
}
