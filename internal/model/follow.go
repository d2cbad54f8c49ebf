package model

import "time"

// Follow 关注关系（A 关注 B）；关注流候选按 followee_id 取帖
type Follow struct {
	ID         string `gorm:"primaryKey;type:varchar(36)"`
	FollowerID string `gorm:"type:varchar(36);index:idx_follow_follower;index:idx_follow_pair,unique;not null"`
	FolloweeID string `gorm:"type:varchar(36);not null;index:idx_follow_pair,unique"`
	// 复合唯一键，避免重复关注
	// idx_follow_pair = (follower_id, followee_id)
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (Follow) TableName() string { return "follows" }

// Follower 粉丝关系（B 的粉丝是 A）冗余自 Follow，异步回填
type Follower struct {
	ID         string `gorm:"primaryKey;type:varchar(36)"`
	UserID     string `gorm:"type:varchar(36);index:idx_follower_user;index:idx_follower_pair,unique;not null"`
	FollowerID string `gorm:"type:varchar(36);not null;index:idx_follower_pair,unique"`
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

func (Follower) TableName() string { return "followers" }
