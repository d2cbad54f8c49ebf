package handler

import (
	"github.com/d60-Lab/stockfeed/internal/service"
)

// Handler API 处理器集合
type Handler struct {
	userService     service.UserService
	postService     service.PostService
	reactionService service.ReactionService
	relService      service.RelationshipService
	feedService     service.FeedService
}

func New(
	userService service.UserService,
	postService service.PostService,
	reactionService service.ReactionService,
	relService service.RelationshipService,
	feedService service.FeedService,
) *Handler {
	return &Handler{
		userService:     userService,
		postService:     postService,
		reactionService: reactionService,
		relService:      relService,
		feedService:     feedService,
	}
}
