package model

import (
	"time"

	"gorm.io/datatypes"
)

type BadgeCategory string

const (
	BadgeBronze      BadgeCategory = "bronze"
	BadgeSilver      BadgeCategory = "silver"
	BadgeGold        BadgeCategory = "gold"
	BadgeStreak      BadgeCategory = "streak"
	BadgeMastery     BadgeCategory = "mastery"
	BadgeHelper      BadgeCategory = "helper"
	BadgeContributor BadgeCategory = "contributor"
	BadgeEvent       BadgeCategory = "event"
	BadgeCommunity   BadgeCategory = "community"
	BadgeSocial      BadgeCategory = "social"
)

func (c BadgeCategory) Valid() bool {
	switch c {
	case BadgeBronze, BadgeSilver, BadgeGold, BadgeStreak, BadgeMastery,
		BadgeHelper, BadgeContributor, BadgeEvent, BadgeCommunity, BadgeSocial:
		return true
	}
	return false
}

// 徽章获取条件类型
const (
	RequirementStreakDays         = "streak_days"
	RequirementResourcesCompleted = "resources_completed"
	RequirementRoadmapsCompleted  = "roadmaps_completed"
	RequirementXPTotal            = "xp_total"
	RequirementFollowingCount     = "following_count"
)

type BadgeRequirement struct {
	Kind      string `json:"kind" yaml:"kind"`
	Threshold int    `json:"threshold" yaml:"threshold"`
}

// swagger:model Badge
type Badge struct {
	UUIDBase
	Code        string                               `gorm:"size:64;uniqueIndex;not null" json:"code"`
	Name        string                               `gorm:"size:100;not null" json:"name"`
	Description string                               `gorm:"size:255" json:"description"`
	Category    BadgeCategory                        `gorm:"size:20;not null" json:"category"`
	Tier        BadgeCategory                        `gorm:"size:10;default:'bronze'" json:"tier"`
	ImageURL    string                               `gorm:"size:255" json:"image_url"`
	Requirement datatypes.JSONType[BadgeRequirement] `json:"requirement"`
}

func (Badge) TableName() string {
	return "badges"
}

// UserBadge 记录存在即表示已获得
// swagger:model UserBadge
type UserBadge struct {
	ID        string    `gorm:"primaryKey;type:varchar(36)" json:"id"`
	UserID    string    `gorm:"type:varchar(36);uniqueIndex:idx_user_badge;not null" json:"user_id"`
	BadgeID   string    `gorm:"type:varchar(36);uniqueIndex:idx_user_badge;not null" json:"badge_id"`
	AwardedAt time.Time `gorm:"not null" json:"awarded_at"`
	Badge     Badge     `gorm:"foreignKey:BadgeID;constraint:false" json:"badge"`
}

func (UserBadge) TableName() string {
	return "user_badges"
}
