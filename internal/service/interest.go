package service

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/d60-Lab/stockfeed/config"
	"github.com/d60-Lab/stockfeed/internal/repository"
)

// InterestService 兴趣画像提取：每次请求现算，不持久化
type InterestService interface {
	// GetUserInterestSymbols 返回按权重降序的 ticker 列表；无活动返回空列表（非错误）
	GetUserInterestSymbols(ctx context.Context, userID string, now time.Time) ([]string, error)
}

type interestService struct {
	postRepo     repository.PostRepository
	reactionRepo repository.ReactionRepository
	cfg          config.FeedConfig
}

func NewInterestService(postRepo repository.PostRepository, reactionRepo repository.ReactionRepository, cfg config.FeedConfig) InterestService {
	return &interestService{postRepo: postRepo, reactionRepo: reactionRepo, cfg: cfg}
}

func (s *interestService) GetUserInterestSymbols(ctx context.Context, userID string, now time.Time) ([]string, error) {
	since := now.Add(-s.cfg.InterestLookback)

	ownPosts, err := s.postRepo.FetchUserRecentPosts(ctx, userID, since, s.cfg.InterestMaxPosts)
	if err != nil {
		return nil, err
	}
	reactions, err := s.reactionRepo.FetchUserRecent(ctx, userID, s.cfg.InterestMaxReactions)
	if err != nil {
		return nil, err
	}

	// weights 累加出现次数权重；firstSeen 记录首次出现序，保证同权重时排序稳定
	weights := make(map[string]int)
	firstSeen := make(map[string]int)
	order := 0
	add := func(ticker string, w int) {
		t := strings.ToUpper(ticker)
		if _, ok := weights[t]; !ok {
			firstSeen[t] = order
			order++
		}
		weights[t] += w
	}

	for _, p := range ownPosts {
		for _, sym := range p.Symbols {
			add(sym.Ticker, s.cfg.OwnPostSymbolWeight)
		}
	}
	for _, r := range reactions {
		if r.Post == nil {
			continue
		}
		for _, sym := range r.Post.Symbols {
			add(sym.Ticker, s.cfg.ReactedSymbolWeight)
		}
	}

	tickers := make([]string, 0, len(weights))
	for t := range weights {
		tickers = append(tickers, t)
	}
	sort.Slice(tickers, func(i, j int) bool {
		if weights[tickers[i]] != weights[tickers[j]] {
			return weights[tickers[i]] > weights[tickers[j]]
		}
		return firstSeen[tickers[i]] < firstSeen[tickers[j]]
	})

	if len(tickers) > s.cfg.InterestMaxSymbols {
		tickers = tickers[:s.cfg.InterestMaxSymbols]
	}
	return tickers, nil
}
