package model

import "time"

// Post 内容主体；ID 自增保证单调递增（分页顺序依赖该性质）
type Post struct {
	ID       int64  `gorm:"primaryKey;autoIncrement" json:"id"`
	AuthorID string `gorm:"type:varchar(36);index:idx_post_author;not null" json:"author_id"`
	Author   *User  `gorm:"foreignKey:AuthorID" json:"author,omitempty"`
	Body     string `gorm:"type:text" json:"body"`
	// 回复帖带上级引用；for_you 候选排除回复
	ReplyToID *int64    `gorm:"index:idx_post_reply" json:"reply_to_id,omitempty"`
	Hidden    bool      `gorm:"not null;default:false" json:"-"`
	Symbols   []Symbol  `gorm:"many2many:post_symbols;" json:"symbols"`
	CreatedAt time.Time `gorm:"index:idx_post_created;not null" json:"created_at"`
	UpdatedAt time.Time `json:"-"`
}

func (Post) TableName() string { return "posts" }
