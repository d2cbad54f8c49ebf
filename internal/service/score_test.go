package service

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/d60-Lab/stockfeed/config"
	"github.com/d60-Lab/stockfeed/internal/model"
)

func testFeedConfig() config.FeedConfig {
	return config.FeedConfig{
		LikeWeight:           1,
		BoostWeight:          3,
		BookmarkWeight:       2,
		ReactionScoreWeight:  0.4,
		TimeDecayWeight:      0.3,
		SymbolMatchWeight:    0.3,
		RecentReactionWindow: 2 * time.Hour,
		MaxCandidateAge:      24 * time.Hour,
		InterestLookback:     7 * 24 * time.Hour,
		InterestMaxPosts:     20,
		InterestMaxReactions: 50,
		InterestMaxSymbols:   10,
		OwnPostSymbolWeight:  3,
		ReactedSymbolWeight:  1,
		DefaultPageSize:      20,
		MinPageSize:          1,
		MaxPageSize:          50,
		OverfetchFactor:      3,
		MaxCandidateRows:     100,
	}
}

func TestTimeDecay(t *testing.T) {
	s := NewScorer(testFeedConfig())
	now := time.Now()

	assert.Equal(t, 1.0, s.TimeDecay(now, now))
	assert.InDelta(t, math.Exp(-1), s.TimeDecay(now.Add(-6*time.Hour), now), 1e-9)

	// 越旧衰减越多，严格单调
	prev := s.TimeDecay(now, now)
	for h := 1; h <= 48; h++ {
		d := s.TimeDecay(now.Add(-time.Duration(h)*time.Hour), now)
		assert.Less(t, d, prev, "decay must strictly decrease with age (h=%d)", h)
		prev = d
	}
}

func TestInitialReactionScore(t *testing.T) {
	s := NewScorer(testFeedConfig())
	now := time.Now()

	t.Run("zero reactions", func(t *testing.T) {
		assert.Equal(t, 0.0, s.InitialReactionScore(now, model.ReactionCounts{}, now))
	})

	t.Run("outside recent window", func(t *testing.T) {
		got := s.InitialReactionScore(now.Add(-6*time.Hour), model.ReactionCounts{Likes: 10}, now)
		assert.InDelta(t, 2.3979, got, 1e-9)
	})

	t.Run("inside recent window gets 1.5x", func(t *testing.T) {
		got := s.InitialReactionScore(now.Add(-time.Hour), model.ReactionCounts{Likes: 10}, now)
		assert.InDelta(t, round4(math.Log(11)*1.5), got, 1e-9)
	})

	t.Run("boundary counts as early", func(t *testing.T) {
		got := s.InitialReactionScore(now.Add(-2*time.Hour), model.ReactionCounts{Likes: 10}, now)
		assert.InDelta(t, round4(math.Log(11)*1.5), got, 1e-9)
	})

	t.Run("type weights", func(t *testing.T) {
		// 1*1 + 3*2 + 2*3 = 13
		got := s.InitialReactionScore(now.Add(-6*time.Hour), model.ReactionCounts{Likes: 1, Boosts: 2, Bookmarks: 3}, now)
		assert.InDelta(t, round4(math.Log(14)), got, 1e-9)
	})
}

func TestSymbolMatchBonus(t *testing.T) {
	s := NewScorer(testFeedConfig())
	syms := func(tickers ...string) []model.Symbol {
		out := make([]model.Symbol, len(tickers))
		for i, tk := range tickers {
			out[i] = model.Symbol{Ticker: tk}
		}
		return out
	}

	t.Run("empty interests always zero", func(t *testing.T) {
		assert.Equal(t, 0.0, s.SymbolMatchBonus(syms("TSLA", "NVDA"), nil))
		assert.Equal(t, 0.0, s.SymbolMatchBonus(nil, nil))
	})

	t.Run("full match", func(t *testing.T) {
		assert.Equal(t, 1.0, s.SymbolMatchBonus(syms("TSLA"), []string{"TSLA"}))
	})

	t.Run("partial match", func(t *testing.T) {
		assert.InDelta(t, 0.5, s.SymbolMatchBonus(syms("TSLA"), []string{"TSLA", "NVDA"}), 1e-9)
	})

	t.Run("bounded to 1", func(t *testing.T) {
		got := s.SymbolMatchBonus(syms("TSLA", "NVDA", "AAPL"), []string{"TSLA", "NVDA"})
		assert.LessOrEqual(t, got, 1.0)
		assert.Equal(t, 1.0, got)
	})

	t.Run("case normalized", func(t *testing.T) {
		assert.Equal(t, 1.0, s.SymbolMatchBonus(syms("tsla"), []string{"TSLA"}))
	})
}

func TestScoreScenarios(t *testing.T) {
	s := NewScorer(testFeedConfig())
	now := time.Now()

	t.Run("fresh post, no reactions, no interests", func(t *testing.T) {
		b := s.Score(now, model.ReactionCounts{}, nil, nil, now)
		assert.Equal(t, 1.0, b.TimeDecayScore)
		assert.Equal(t, 0.0, b.InitialReactionScore)
		assert.Equal(t, 0.0, b.SymbolMatchScore)
		assert.Equal(t, 0.3, b.TotalScore)
	})

	t.Run("6h old, 10 likes, matching symbol", func(t *testing.T) {
		b := s.Score(now.Add(-6*time.Hour), model.ReactionCounts{Likes: 10},
			[]model.Symbol{{Ticker: "TSLA"}}, []string{"TSLA"}, now)
		assert.InDelta(t, 0.3679, b.TimeDecayScore, 1e-4)
		assert.InDelta(t, 2.3979, b.InitialReactionScore, 1e-9)
		assert.Equal(t, 1.0, b.SymbolMatchScore)
		assert.InDelta(t, 1.3695, b.TotalScore, 1e-4)
	})
}

func TestScoreDeterminism(t *testing.T) {
	s := NewScorer(testFeedConfig())
	now := time.Unix(1700000000, 0)
	createdAt := now.Add(-3 * time.Hour)
	counts := model.ReactionCounts{Likes: 7, Boosts: 2, Bookmarks: 1}
	postSyms := []model.Symbol{{Ticker: "NVDA"}, {Ticker: "BTC"}}
	interests := []string{"NVDA", "AAPL", "BTC"}

	first := s.Score(createdAt, counts, postSyms, interests, now)
	for i := 0; i < 100; i++ {
		require.Equal(t, first, s.Score(createdAt, counts, postSyms, interests, now))
	}
}
