package repository

import (
	"context"
	"fmt"
	"math/rand"
	"testing"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/d60-Lab/stockfeed/internal/model"
)

func setupRelBenchDB(b *testing.B) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		b.Fatalf("open db: %v", err)
	}
	if err := db.AutoMigrate(&model.User{}, &model.Post{}, &model.Follow{}, &model.Follower{}); err != nil {
		b.Fatalf("migrate: %v", err)
	}
	return db
}

func BenchmarkFollowWrite_And_FollowerRedundancy(b *testing.B) {
	db := setupRelBenchDB(b)
	followRepo := NewFollowRepository(db)
	followerRepo := NewFollowerRepository(db)
	ctx := context.Background()

	// 预创建部分用户
	users := make([]model.User, 1000)
	for i := range users {
		users[i] = model.User{ID: fmt.Sprintf("u%04d", i), Username: fmt.Sprintf("u%04d", i), Email: fmt.Sprintf("u%04d@example.com", i), Password: "p"}
	}
	if err := db.Create(&users).Error; err != nil {
		b.Fatalf("seed users: %v", err)
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		from := users[rand.Intn(len(users))].ID
		to := users[rand.Intn(len(users))].ID
		if from == to {
			continue
		}
		_ = followRepo.Create(ctx, from, to)
		_ = followerRepo.Create(ctx, to, from)
	}
}

func BenchmarkFetchFollowingCandidates(b *testing.B) {
	db := setupRelBenchDB(b)
	followRepo := NewFollowRepository(db)
	postRepo := NewPostRepository(db)
	ctx := context.Background()

	// 构造：u0 关注 200 个作者，每个作者 50 帖
	const authors = 200
	const postsPer = 50
	u0 := model.User{ID: "u0", Username: "u0", Email: "u0@example.com", Password: "p"}
	_ = db.Create(&u0).Error
	now := time.Now()
	for i := 1; i <= authors; i++ {
		uid := fmt.Sprintf("u%v", i)
		_ = db.Create(&model.User{ID: uid, Username: uid, Email: uid + "@example.com", Password: "p"}).Error
		_ = followRepo.Create(ctx, u0.ID, uid)
		posts := make([]model.Post, postsPer)
		for j := range posts {
			at := now.Add(-time.Duration(rand.Intn(86400)) * time.Second)
			posts[j] = model.Post{AuthorID: uid, Body: "p", CreatedAt: at, UpdatedAt: at}
		}
		_ = db.Create(&posts).Error
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = postRepo.FetchFollowingCandidates(ctx, u0.ID, nil, 50)
	}
}
