package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/d60-Lab/stockfeed/internal/model"
)

// PostRepository 帖子仓储；候选查询只取可见帖，排序固定 created_at DESC, id DESC
type PostRepository interface {
	Create(ctx context.Context, post *model.Post) error
	GetByID(ctx context.Context, id int64) (*model.Post, error)
	SetHidden(ctx context.Context, id int64, hidden bool) error

	// FetchFollowingCandidates 关注流候选：关注对象的可见帖，before 非空时取 created_at 严格小于
	FetchFollowingCandidates(ctx context.Context, userID string, before *time.Time, limit int) ([]*model.Post, error)
	// FetchRecentCandidates 算法流候选：窗口内可见非回复帖
	FetchRecentCandidates(ctx context.Context, since time.Time, maxRows int) ([]*model.Post, error)
	// FetchUserRecentPosts 兴趣挖掘用：用户近期自己的帖子（带符号）
	FetchUserRecentPosts(ctx context.Context, userID string, since time.Time, maxRows int) ([]*model.Post, error)
}

type postRepository struct {
	db *gorm.DB
}

func NewPostRepository(db *gorm.DB) PostRepository { return &postRepository{db: db} }

func (r *postRepository) Create(ctx context.Context, post *model.Post) error {
	return r.db.WithContext(ctx).Create(post).Error
}

func (r *postRepository) GetByID(ctx context.Context, id int64) (*model.Post, error) {
	var post model.Post
	err := r.db.WithContext(ctx).
		Preload("Author").
		Preload("Symbols").
		First(&post, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &post, nil
}

func (r *postRepository) SetHidden(ctx context.Context, id int64, hidden bool) error {
	return r.db.WithContext(ctx).
		Model(&model.Post{}).
		Where("id = ?", id).
		Update("hidden", hidden).Error
}

func (r *postRepository) FetchFollowingCandidates(ctx context.Context, userID string, before *time.Time, limit int) ([]*model.Post, error) {
	q := r.db.WithContext(ctx).
		Preload("Author").
		Preload("Symbols").
		Where("hidden = ?", false).
		Where("author_id IN (?)",
			r.db.Model(&model.Follow{}).Select("followee_id").Where("follower_id = ?", userID))
	if before != nil {
		q = q.Where("created_at < ?", *before)
	}
	var posts []*model.Post
	err := q.Order("created_at DESC, id DESC").Limit(limit).Find(&posts).Error
	return posts, err
}

func (r *postRepository) FetchRecentCandidates(ctx context.Context, since time.Time, maxRows int) ([]*model.Post, error) {
	var posts []*model.Post
	err := r.db.WithContext(ctx).
		Preload("Author").
		Preload("Symbols").
		Where("hidden = ?", false).
		Where("reply_to_id IS NULL").
		Where("created_at >= ?", since).
		Order("created_at DESC, id DESC").
		Limit(maxRows).
		Find(&posts).Error
	return posts, err
}

func (r *postRepository) FetchUserRecentPosts(ctx context.Context, userID string, since time.Time, maxRows int) ([]*model.Post, error) {
	var posts []*model.Post
	err := r.db.WithContext(ctx).
		Preload("Symbols").
		Where("author_id = ? AND created_at >= ?", userID, since).
		Order("created_at DESC, id DESC").
		Limit(maxRows).
		Find(&posts).Error
	return posts, err
}
