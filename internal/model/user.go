package model

import (
	"time"
)

type UserRole string

const (
	Learner UserRole = "learner"
	Admin   UserRole = "admin"
)

// swagger:model User
type User struct {
	UUIDBase
	DisplayName   *string    `gorm:"size:100" json:"display_name"`
	FullName      string     `gorm:"size:100" json:"full_name"` // 注册时填写的姓名
	Email         string     `gorm:"size:100;uniqueIndex;not null" json:"email"`
	Password      string     `gorm:"size:100;not null" json:"-"`
	Role          UserRole   `gorm:"size:20;default:'learner'" json:"role"`
	AvatarURL     string     `gorm:"size:255" json:"avatar_url"`
	XP            int        `gorm:"default:0" json:"xp_points"`
	StreakCount   int        `gorm:"default:0" json:"streak_count"`
	LongestStreak int        `gorm:"default:0" json:"longest_streak"`
	LastActiveOn  *string    `gorm:"size:10" json:"last_active_on"` // 最近一次有效学习的日期 2006-01-02
	LastSeen      *time.Time `json:"last_seen,omitempty"`
}

func (User) TableName() string {
	return "users"
}
