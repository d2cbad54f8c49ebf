package service

import (
	"math"
	"strings"
	"time"

	"github.com/d60-Lab/stockfeed/config"
	"github.com/d60-Lab/stockfeed/internal/model"
)

// ScoreBreakdown 单帖打分明细，随 for_you 响应返回便于排查，不落库
type ScoreBreakdown struct {
	InitialReactionScore float64 `json:"initial_reaction_score"`
	TimeDecayScore       float64 `json:"time_decay_score"`
	SymbolMatchScore     float64 `json:"symbol_match_score"`
	TotalScore           float64 `json:"total_score"`
}

// Scorer 纯函数打分器：无共享状态，now 显式传入，同输入必同输出
type Scorer struct {
	cfg config.FeedConfig
}

func NewScorer(cfg config.FeedConfig) Scorer { return Scorer{cfg: cfg} }

func round4(v float64) float64 { return math.Round(v*10000) / 10000 }

// TimeDecay 时间衰减 exp(-ageHours/6)：0 龄为 1.0，随帖龄单调递减
func (s Scorer) TimeDecay(createdAt, now time.Time) float64 {
	ageHours := now.Sub(createdAt).Seconds() / 3600
	return math.Exp(-ageHours / 6)
}

// InitialReactionScore 早期反应分：对加权计数取 ln 压缩，窗口内（含边界）加成 1.5 倍
func (s Scorer) InitialReactionScore(createdAt time.Time, counts model.ReactionCounts, now time.Time) float64 {
	base := float64(counts.Likes)*s.cfg.LikeWeight +
		float64(counts.Boosts)*s.cfg.BoostWeight +
		float64(counts.Bookmarks)*s.cfg.BookmarkWeight
	multiplier := 1.0
	if now.Sub(createdAt) <= s.cfg.RecentReactionWindow {
		multiplier = 1.5
	}
	// +1 避免 ln(0)
	return round4(math.Log(base+1) * multiplier)
}

// SymbolMatchBonus 兴趣匹配分 [0,1]；兴趣为空时恒为 0
func (s Scorer) SymbolMatchBonus(postSymbols []model.Symbol, interestSymbols []string) float64 {
	if len(interestSymbols) == 0 {
		return 0
	}
	interests := make(map[string]struct{}, len(interestSymbols))
	for _, t := range interestSymbols {
		interests[strings.ToUpper(t)] = struct{}{}
	}
	matches := 0
	for _, sym := range postSymbols {
		// kind 不参与匹配，裸 ticker 的类型歧义在这里无关紧要
		if _, ok := interests[strings.ToUpper(sym.Ticker)]; ok {
			matches++
		}
	}
	bonus := float64(matches) / float64(max(len(interestSymbols), 1))
	return math.Min(bonus, 1)
}

// Score 计算总分：α*反应分 + β*衰减分 + γ*匹配分，保留 4 位小数
func (s Scorer) Score(createdAt time.Time, counts model.ReactionCounts, postSymbols []model.Symbol, interestSymbols []string, now time.Time) ScoreBreakdown {
	b := ScoreBreakdown{
		InitialReactionScore: s.InitialReactionScore(createdAt, counts, now),
		TimeDecayScore:       s.TimeDecay(createdAt, now),
		SymbolMatchScore:     s.SymbolMatchBonus(postSymbols, interestSymbols),
	}
	b.TotalScore = round4(s.cfg.ReactionScoreWeight*b.InitialReactionScore +
		s.cfg.TimeDecayWeight*b.TimeDecayScore +
		s.cfg.SymbolMatchWeight*b.SymbolMatchScore)
	return b
}
