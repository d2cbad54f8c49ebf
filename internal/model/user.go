package model

import "time"

// User 用户
type User struct {
	ID        string    `gorm:"primaryKey;type:varchar(36)" json:"id"`
	Username  string    `gorm:"type:varchar(64);uniqueIndex:ux_user_username;not null" json:"username"`
	Email     string    `gorm:"type:varchar(128);uniqueIndex:ux_user_email;not null" json:"email"`
	Password  string    `gorm:"type:varchar(128);not null" json:"-"`
	Age       int       `json:"age,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"-"`
}

func (User) TableName() string { return "users" }
