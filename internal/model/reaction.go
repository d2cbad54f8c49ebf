package model

import "time"

// 反应类型
const (
	ReactionLike     = "LIKE"
	ReactionBoost    = "BOOST"
	ReactionBookmark = "BOOKMARK"
)

// ValidReactionType 校验反应类型取值
func ValidReactionType(t string) bool {
	switch t {
	case ReactionLike, ReactionBoost, ReactionBookmark:
		return true
	}
	return false
}

// Reaction 用户对帖子的反应，每个 (post, user, type) 至多一行
type Reaction struct {
	ID     string `gorm:"primaryKey;type:varchar(36)"`
	PostID int64  `gorm:"index:idx_reaction_post;uniqueIndex:ux_reaction_triple;not null"`
	Post   *Post  `gorm:"foreignKey:PostID"`
	UserID string `gorm:"type:varchar(36);index:idx_reaction_user;uniqueIndex:ux_reaction_triple;not null"`
	Type   string `gorm:"type:varchar(16);uniqueIndex:ux_reaction_triple;not null"`
	// 复合唯一键，保证同类型反应是开关而非累加
	// ux_reaction_triple = (post_id, user_id, type)
	CreatedAt time.Time
}

func (Reaction) TableName() string { return "reactions" }

// ReactionCounts 单帖各类型反应的聚合计数（打分时实时读取）
type ReactionCounts struct {
	Likes     int64 `json:"likes"`
	Boosts    int64 `json:"boosts"`
	Bookmarks int64 `json:"bookmarks"`
}
