package service

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/d60-Lab/stockfeed/internal/model"
	"github.com/d60-Lab/stockfeed/internal/repository"
)

var (
	ErrEmptyBody     = errors.New("post body is empty")
	ErrParentMissing = errors.New("reply parent not found")
)

// PostService 发帖服务
type PostService interface {
	// Create 在一个事务内落地帖子与其符号关联（符号从正文提取）
	Create(ctx context.Context, authorID, body string, replyTo *int64) (*model.Post, error)
	Get(ctx context.Context, id int64) (*model.Post, error)
	// Hide 下架/恢复帖子（下架后不再进入任何候选）
	Hide(ctx context.Context, id int64, hidden bool) error
}

type postService struct {
	db       *gorm.DB
	postRepo repository.PostRepository
}

func NewPostService(db *gorm.DB, postRepo repository.PostRepository) PostService {
	return &postService{db: db, postRepo: postRepo}
}

func (s *postService) Create(ctx context.Context, authorID, body string, replyTo *int64) (*model.Post, error) {
	if body == "" {
		return nil, ErrEmptyBody
	}
	symbols := ExtractSymbols(body)
	now := time.Now()
	post := &model.Post{AuthorID: authorID, Body: body, ReplyToID: replyTo, CreatedAt: now, UpdatedAt: now}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if replyTo != nil {
			var cnt int64
			if err := tx.Model(&model.Post{}).Where("id = ?", *replyTo).Count(&cnt).Error; err != nil {
				return err
			}
			if cnt == 0 {
				return ErrParentMissing
			}
		}
		// 符号按 ticker 幂等 upsert，再挂关联
		for i := range symbols {
			if err := tx.Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "ticker"}},
				DoNothing: true,
			}).Create(&symbols[i]).Error; err != nil {
				return err
			}
			if symbols[i].ID == 0 {
				if err := tx.Where("ticker = ?", symbols[i].Ticker).First(&symbols[i]).Error; err != nil {
					return err
				}
			}
		}
		post.Symbols = symbols
		return tx.Create(post).Error
	})
	if err != nil {
		return nil, err
	}
	return post, nil
}

func (s *postService) Get(ctx context.Context, id int64) (*model.Post, error) {
	return s.postRepo.GetByID(ctx, id)
}

func (s *postService) Hide(ctx context.Context, id int64, hidden bool) error {
	return s.postRepo.SetHidden(ctx, id, hidden)
}
