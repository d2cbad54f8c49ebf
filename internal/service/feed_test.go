package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/d60-Lab/stockfeed/internal/model"
	"github.com/d60-Lab/stockfeed/internal/repository"
)

func newTestFeedService(t *testing.T, db *gorm.DB, now time.Time) FeedService {
	t.Helper()
	postRepo := repository.NewPostRepository(db)
	reactionRepo := repository.NewReactionRepository(db)
	interests := NewInterestService(postRepo, reactionRepo, testFeedConfig())
	fs := NewFeedService(postRepo, reactionRepo, interests, testFeedConfig()).(*feedService)
	fs.now = func() time.Time { return now }
	return fs
}

func TestGetFeedValidation(t *testing.T) {
	db := setupFeedDB(t)
	now := time.UnixMilli(1700000000000)
	svc := newTestFeedService(t, db, now)
	ctx := context.Background()

	_, err := svc.GetFeed(ctx, "u1", "trending", "", 10)
	assert.ErrorIs(t, err, ErrInvalidFeedMode)

	_, err = svc.GetFeed(ctx, "u1", FeedModeForYou, "", 51)
	assert.ErrorIs(t, err, ErrInvalidPageSize)

	_, err = svc.GetFeed(ctx, "u1", FeedModeForYou, "", -1)
	assert.ErrorIs(t, err, ErrInvalidPageSize)
}

func TestFollowingFeed(t *testing.T) {
	db := setupFeedDB(t)
	ctx := context.Background()
	now := time.UnixMilli(1700000000000)
	svc := newTestFeedService(t, db, now)

	alice := seedUser(t, db, "alice")
	bob := seedUser(t, db, "bob")
	carol := seedUser(t, db, "carol")
	require.NoError(t, db.Create(&model.Follow{ID: "f1", FollowerID: alice.ID, FolloweeID: bob.ID}).Error)

	var bobPosts []*model.Post
	for i := 1; i <= 5; i++ {
		bobPosts = append(bobPosts, seedPost(t, db, bob, now.Add(-time.Duration(i)*time.Minute)))
	}
	// 未关注作者的帖子不应出现
	seedPost(t, db, carol, now.Add(-30*time.Second))
	// 下架帖不应出现
	hidden := seedPost(t, db, bob, now.Add(-10*time.Second))
	require.NoError(t, db.Model(hidden).Update("hidden", true).Error)

	t.Run("newest first, no extra sort", func(t *testing.T) {
		page, err := svc.GetFeed(ctx, alice.ID, FeedModeFollowing, "", 10)
		require.NoError(t, err)
		require.Len(t, page.Items, 5)
		assert.False(t, page.HasMore)
		assert.Nil(t, page.NextCursor)
		for i, item := range page.Items {
			assert.Equal(t, bobPosts[i].ID, item.ID)
			assert.Nil(t, item.Score, "chronological items carry no breakdown")
		}
	})

	t.Run("cursor walk enumerates all exactly once", func(t *testing.T) {
		var got []int64
		cursor := ""
		for {
			page, err := svc.GetFeed(ctx, alice.ID, FeedModeFollowing, cursor, 2)
			require.NoError(t, err)
			for _, item := range page.Items {
				got = append(got, item.ID)
			}
			if !page.HasMore {
				break
			}
			require.NotNil(t, page.NextCursor)
			cursor = *page.NextCursor
		}
		require.Len(t, got, 5)
		seen := make(map[int64]bool)
		for _, id := range got {
			assert.False(t, seen[id], "post %d returned twice", id)
			seen[id] = true
		}
	})

	t.Run("malformed cursor behaves as no cursor", func(t *testing.T) {
		fresh, err := svc.GetFeed(ctx, alice.ID, FeedModeFollowing, "", 2)
		require.NoError(t, err)
		garbled, err := svc.GetFeed(ctx, alice.ID, FeedModeFollowing, "!!!not-a-cursor!!!", 2)
		require.NoError(t, err)
		require.Len(t, garbled.Items, len(fresh.Items))
		for i := range fresh.Items {
			assert.Equal(t, fresh.Items[i].ID, garbled.Items[i].ID)
		}
	})
}

func TestForYouFeed(t *testing.T) {
	db := setupFeedDB(t)
	ctx := context.Background()
	now := time.UnixMilli(1700000000000)
	svc := newTestFeedService(t, db, now)

	alice := seedUser(t, db, "alice")
	bob := seedUser(t, db, "bob")

	fresh := seedPost(t, db, bob, now.Add(-10*time.Minute))
	old := seedPost(t, db, bob, now.Add(-20*time.Hour))
	boosted := seedPost(t, db, bob, now.Add(-5*time.Hour))
	for i := 0; i < 10; i++ {
		u := seedUser(t, db, "fan"+string(rune('a'+i)))
		seedReaction(t, db, boosted, u, model.ReactionBoost, now.Add(-time.Hour))
	}
	// 回复与超窗帖不进入候选
	reply := seedPost(t, db, bob, now.Add(-time.Minute))
	require.NoError(t, db.Model(reply).Update("reply_to_id", fresh.ID).Error)
	seedPost(t, db, bob, now.Add(-30*time.Hour))

	page, err := svc.GetFeed(ctx, alice.ID, FeedModeForYou, "", 10)
	require.NoError(t, err)
	require.Len(t, page.Items, 3)
	gotIDs := []int64{page.Items[0].ID, page.Items[1].ID, page.Items[2].ID}
	assert.ElementsMatch(t, []int64{fresh.ID, old.ID, boosted.ID}, gotIDs)

	t.Run("every item carries a breakdown", func(t *testing.T) {
		for _, item := range page.Items {
			require.NotNil(t, item.Score)
			assert.Equal(t, item.Score.TotalScore, round4(item.Score.TotalScore))
		}
	})

	t.Run("sorted by total score descending", func(t *testing.T) {
		for i := 1; i < len(page.Items); i++ {
			assert.GreaterOrEqual(t, page.Items[i-1].Score.TotalScore, page.Items[i].Score.TotalScore)
		}
		// 高反应帖排在低反应新帖之上
		assert.Equal(t, boosted.ID, page.Items[0].ID)
	})

	t.Run("zero-signal post still scores from decay", func(t *testing.T) {
		for _, item := range page.Items {
			assert.Greater(t, item.Score.TotalScore, 0.0)
		}
	})
}

func TestForYouFeedEmptyWindow(t *testing.T) {
	db := setupFeedDB(t)
	now := time.UnixMilli(1700000000000)
	svc := newTestFeedService(t, db, now)

	page, err := svc.GetFeed(context.Background(), "nobody", FeedModeForYou, "", 10)
	require.NoError(t, err)
	assert.Empty(t, page.Items)
	assert.False(t, page.HasMore)
	assert.Nil(t, page.NextCursor)
}

// walkForYou 以给定页大小走完 for_you 全部分页，返回条目 ID 与分数
func walkForYou(t *testing.T, svc FeedService, userID string, limit int) ([]int64, []float64) {
	t.Helper()
	ctx := context.Background()
	var ids []int64
	var scores []float64
	cursor := ""
	for steps := 0; ; steps++ {
		require.Less(t, steps, 10, "pagination must terminate")
		page, err := svc.GetFeed(ctx, userID, FeedModeForYou, cursor, limit)
		require.NoError(t, err)
		for _, item := range page.Items {
			ids = append(ids, item.ID)
			scores = append(scores, item.Score.TotalScore)
		}
		if !page.HasMore {
			assert.Nil(t, page.NextCursor)
			return ids, scores
		}
		require.NotNil(t, page.NextCursor)
		cursor = *page.NextCursor
	}
}

func assertWalkCoversExactly(t *testing.T, ids []int64, posts []*model.Post) {
	t.Helper()
	require.Len(t, ids, len(posts))
	seen := make(map[int64]bool)
	for _, id := range ids {
		assert.False(t, seen[id], "post %d returned twice", id)
		seen[id] = true
	}
	for _, p := range posts {
		assert.True(t, seen[p.ID], "post %d missing from walk", p.ID)
	}
}

func TestForYouFeedPaginationExhaustive(t *testing.T) {
	now := time.UnixMilli(1700000000000)

	t.Run("distinct scores", func(t *testing.T) {
		db := setupFeedDB(t)
		svc := newTestFeedService(t, db, now)
		alice := seedUser(t, db, "alice")
		bob := seedUser(t, db, "bob")

		// 5 候选帖：反应数与新旧交错，保证分数顺序 != 时间顺序
		posts := make([]*model.Post, 5)
		for i := range posts {
			posts[i] = seedPost(t, db, bob, now.Add(-time.Duration(i+1)*time.Hour))
		}
		for i := 0; i < 6; i++ {
			u := seedUser(t, db, "fanx"+string(rune('a'+i)))
			seedReaction(t, db, posts[3], u, model.ReactionBoost, now.Add(-time.Hour))
			if i < 2 {
				seedReaction(t, db, posts[1], u, model.ReactionLike, now.Add(-time.Hour))
			}
		}

		ids, scores := walkForYou(t, svc, alice.ID, 2)
		assertWalkCoversExactly(t, ids, posts)
		// 全程分数不增
		for i := 1; i < len(scores); i++ {
			assert.GreaterOrEqual(t, scores[i-1], scores[i])
		}
	})

	t.Run("fully tied scores", func(t *testing.T) {
		db := setupFeedDB(t)
		svc := newTestFeedService(t, db, now)
		alice := seedUser(t, db, "alice")
		bob := seedUser(t, db, "bob")

		// 同一毫秒批量落的零反应帖：分数与时间都相同，续页只能靠 id 区分
		at := now.Add(-time.Hour)
		posts := make([]*model.Post, 5)
		for i := range posts {
			posts[i] = seedPost(t, db, bob, at)
		}

		ids, scores := walkForYou(t, svc, alice.ID, 2)
		assertWalkCoversExactly(t, ids, posts)
		for i := 1; i < len(scores); i++ {
			assert.Equal(t, scores[i-1], scores[i])
		}
		// 同分同毫秒按 id 降序稳定输出
		for i := 1; i < len(ids); i++ {
			assert.Greater(t, ids[i-1], ids[i])
		}
	})
}
