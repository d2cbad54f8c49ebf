package main

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"os"
	"sort"
	"strconv"
	"time"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/d60-Lab/stockfeed/config"
	"github.com/d60-Lab/stockfeed/internal/model"
	"github.com/d60-Lab/stockfeed/internal/repository"
	"github.com/d60-Lab/stockfeed/internal/service"
)

func must[T any](v T, err error) T { if err != nil { panic(err) }; return v }

func pct(vs []time.Duration, p float64) time.Duration {
	if len(vs) == 0 { return 0 }
	xs := append([]time.Duration(nil), vs...)
	sort.Slice(xs, func(i, j int) bool { return xs[i] < xs[j] })
	k := int(math.Ceil(p*float64(len(xs)))) - 1
	if k < 0 { k = 0 }
	if k >= len(xs) { k = len(xs)-1 }
	return xs[k]
}

func main() {
	cfg := must(config.Load())

	// local bench runs against in-memory sqlite, no external deps
	db := must(gorm.Open(sqlite.Open(":memory:"), &gorm.Config{Logger: gormlogger.Default.LogMode(gormlogger.Silent)}))
	must(0, db.AutoMigrate(&model.User{}, &model.Post{}, &model.Symbol{}, &model.Reaction{}, &model.Follow{}, &model.Follower{}))

	postRepo := repository.NewPostRepository(db)
	reactionRepo := repository.NewReactionRepository(db)

	// params
	POSTS := 2000   // candidate posts within the window
	USERS := 200    // reacting users
	REQS := 500     // feed requests to measure
	if s := os.Getenv("POSTS"); s != "" { if v, e := strconv.Atoi(s); e == nil && v > 0 { POSTS = v } }
	if s := os.Getenv("USERS"); s != "" { if v, e := strconv.Atoi(s); e == nil && v > 0 { USERS = v } }
	if s := os.Getenv("REQS"); s != "" { if v, e := strconv.Atoi(s); e == nil && v > 0 { REQS = v } }

	ctx := context.Background()
	now := time.Now()
	tickers := []string{"TSLA", "AAPL", "NVDA", "BTC", "ETH", "AMD", "MSFT", "GOOG"}

	// seed users
	users := make([]model.User, USERS)
	for i := range users {
		id := uuid.New().String()
		users[i] = model.User{ID: id, Username: "u" + id[:8], Email: id[:8] + "@example.com", Password: "p"}
	}
	must(0, db.CreateInBatches(&users, 500).Error)

	// seed symbols
	symbols := make([]model.Symbol, len(tickers))
	for i, t := range tickers {
		symbols[i] = model.Symbol{Ticker: t, Kind: model.SymbolKindStock}
	}
	must(0, db.Create(&symbols).Error)

	// seed posts spread over the candidate window, each tagged with 1-2 symbols
	for i := 0; i < POSTS; i++ {
		author := users[rand.Intn(len(users))]
		age := time.Duration(rand.Int63n(int64(cfg.Feed.MaxCandidateAge)))
		p := model.Post{
			AuthorID:  author.ID,
			Body:      "bench post " + strconv.Itoa(i),
			CreatedAt: now.Add(-age),
			UpdatedAt: now.Add(-age),
			Symbols:   []model.Symbol{symbols[rand.Intn(len(symbols))]},
		}
		must(0, db.Create(&p).Error)
	}

	// seed reactions
	types := []string{model.ReactionLike, model.ReactionBoost, model.ReactionBookmark}
	for i := 0; i < POSTS*3; i++ {
		_, _ = reactionRepo.Toggle(ctx, int64(rand.Intn(POSTS)+1), users[rand.Intn(len(users))].ID, types[rand.Intn(len(types))])
	}

	interestService := service.NewInterestService(postRepo, reactionRepo, cfg.Feed)
	feedService := service.NewFeedService(postRepo, reactionRepo, interestService, cfg.Feed)

	durations := make([]time.Duration, 0, REQS)
	for i := 0; i < REQS; i++ {
		u := users[rand.Intn(len(users))]
		start := time.Now()
		page := must(feedService.GetFeed(ctx, u.ID, service.FeedModeForYou, "", cfg.Feed.DefaultPageSize))
		durations = append(durations, time.Since(start))
		if i == 0 {
			fmt.Printf("first page: %d items, has_more=%v\n", len(page.Items), page.HasMore)
		}
	}

	fmt.Printf("for_you feed over %d posts, %d requests\n", POSTS, REQS)
	fmt.Printf("p50=%v p95=%v p99=%v max=%v\n",
		pct(durations, 0.50), pct(durations, 0.95), pct(durations, 0.99), pct(durations, 1.0))
}
