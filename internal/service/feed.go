package service

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/d60-Lab/stockfeed/config"
	"github.com/d60-Lab/stockfeed/internal/cache"
	"github.com/d60-Lab/stockfeed/internal/model"
	"github.com/d60-Lab/stockfeed/internal/repository"
)

// Feed 模式
const (
	FeedModeForYou    = "for_you"
	FeedModeFollowing = "following"
)

var (
	ErrInvalidFeedMode = errors.New("invalid feed mode")
	ErrInvalidPageSize = errors.New("page size out of range")
)

// ScoredPost 响应条目：帖子 + 实时反应计数；for_you 模式附带打分明细
type ScoredPost struct {
	*model.Post
	ReactionCounts model.ReactionCounts `json:"reaction_counts"`
	Score          *ScoreBreakdown      `json:"score,omitempty"`
}

// FeedPage 分页响应封装
type FeedPage struct {
	Items      []*ScoredPost `json:"items"`
	NextCursor *string       `json:"next_cursor"`
	HasMore    bool          `json:"has_more"`
}

// FeedService Feed 组装：模式分发 → 候选获取 → 打分排序 → 分页
type FeedService interface {
	GetFeed(ctx context.Context, userID, mode, cursor string, limit int) (*FeedPage, error)
}

type feedService struct {
	postRepo  repository.PostRepository
	counts    cache.ReactionCountSource
	interests InterestService
	scorer    Scorer
	cfg       config.FeedConfig
	now       func() time.Time
}

func NewFeedService(postRepo repository.PostRepository, counts cache.ReactionCountSource, interests InterestService, cfg config.FeedConfig) FeedService {
	return &feedService{
		postRepo:  postRepo,
		counts:    counts,
		interests: interests,
		scorer:    NewScorer(cfg),
		cfg:       cfg,
		now:       time.Now,
	}
}

func (s *feedService) GetFeed(ctx context.Context, userID, mode, cursor string, limit int) (*FeedPage, error) {
	if limit == 0 {
		limit = s.cfg.DefaultPageSize
	}
	if limit < s.cfg.MinPageSize || limit > s.cfg.MaxPageSize {
		return nil, ErrInvalidPageSize
	}

	// 坏游标按无游标处理（从最新开始），不报错
	cur := decodeCursor(cursor)

	switch mode {
	case FeedModeFollowing:
		return s.followingFeed(ctx, userID, cur, limit)
	case FeedModeForYou:
		return s.forYouFeed(ctx, userID, cur, limit)
	default:
		return nil, ErrInvalidFeedMode
	}
}

// followingFeed 关注流：候选本身就是最终顺序，多取 1 条探测下一页
func (s *feedService) followingFeed(ctx context.Context, userID string, cur *feedCursor, limit int) (*FeedPage, error) {
	var before *time.Time
	if cur != nil && !cur.hasScore {
		t := time.UnixMilli(cur.createdMs)
		before = &t
	}

	posts, err := s.postRepo.FetchFollowingCandidates(ctx, userID, before, limit+1)
	if err != nil {
		return nil, err
	}
	hasMore := len(posts) > limit
	if hasMore {
		posts = posts[:limit]
	}

	items, err := s.attachCounts(ctx, posts)
	if err != nil {
		return nil, err
	}

	page := &FeedPage{Items: items, HasMore: hasMore}
	if hasMore && len(items) > 0 {
		c := encodeChronoCursor(items[len(items)-1].CreatedAt)
		page.NextCursor = &c
	}
	return page, nil
}

// forYouFeed 算法流：窗口内候选统一打分重排。候选池按 3×limit 封顶截取，
// 只保证池内排序正确，不保证全窗口 top-limit（池外低热度新帖可能漏掉）。
func (s *feedService) forYouFeed(ctx context.Context, userID string, cur *feedCursor, limit int) (*FeedPage, error) {
	now := s.now()

	interests, err := s.interests.GetUserInterestSymbols(ctx, userID, now)
	if err != nil {
		return nil, err
	}

	maxRows := s.cfg.OverfetchFactor * limit
	if maxRows > s.cfg.MaxCandidateRows {
		maxRows = s.cfg.MaxCandidateRows
	}
	since := now.Add(-s.cfg.MaxCandidateAge)

	// 续页不加时间上界：时间上界会漏掉“更新但分更低”的帖子，
	// 续页位置由打分后的 (score, created_at, id) 过滤决定
	posts, err := s.postRepo.FetchRecentCandidates(ctx, since, maxRows)
	if err != nil {
		return nil, err
	}
	if len(posts) == 0 {
		return &FeedPage{Items: []*ScoredPost{}, HasMore: false}, nil
	}

	scored, err := s.attachCounts(ctx, posts)
	if err != nil {
		return nil, err
	}
	for _, item := range scored {
		b := s.scorer.Score(item.CreatedAt, item.ReactionCounts, item.Symbols, interests, now)
		item.Score = &b
	}

	// 稳定排序：同分保持取数顺序（created_at DESC, id DESC）
	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Score.TotalScore > scored[j].Score.TotalScore
	})

	if cur != nil && cur.hasScore {
		scored = afterRankedCursor(scored, cur)
	}

	hasMore := len(scored) > limit
	if hasMore {
		scored = scored[:limit]
	}

	page := &FeedPage{Items: scored, HasMore: hasMore}
	if hasMore && len(scored) > 0 {
		last := scored[len(scored)-1]
		c := encodeRankedCursor(last.Score.TotalScore, last.CreatedAt, last.ID)
		page.NextCursor = &c
	}
	return page, nil
}

// afterRankedCursor 保留排序中严格位于游标之后的条目；
// 同分同毫秒靠 id 区分（与取数顺序 created_at DESC, id DESC 一致）
func afterRankedCursor(scored []*ScoredPost, cur *feedCursor) []*ScoredPost {
	out := scored[:0:0]
	for _, item := range scored {
		if item.Score.TotalScore > cur.score {
			continue
		}
		if item.Score.TotalScore == cur.score {
			ms := item.CreatedAt.UnixMilli()
			if ms > cur.createdMs || (ms == cur.createdMs && item.ID >= cur.postID) {
				continue
			}
		}
		out = append(out, item)
	}
	return out
}

func (s *feedService) attachCounts(ctx context.Context, posts []*model.Post) ([]*ScoredPost, error) {
	ids := make([]int64, len(posts))
	for i, p := range posts {
		ids[i] = p.ID
	}
	counts, err := s.counts.CountsForPosts(ctx, ids)
	if err != nil {
		return nil, err
	}
	items := make([]*ScoredPost, len(posts))
	for i, p := range posts {
		items[i] = &ScoredPost{Post: p, ReactionCounts: counts[p.ID]}
	}
	return items, nil
}
