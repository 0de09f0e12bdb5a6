package model

import "time"

// UserFollow 关注关系
type UserFollow struct {
	FollowerID  string    `gorm:"primaryKey;type:varchar(36)" json:"follower_id"`
	FollowingID string    `gorm:"primaryKey;type:varchar(36);index" json:"following_id"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (UserFollow) TableName() string {
	return "user_follows"
}
