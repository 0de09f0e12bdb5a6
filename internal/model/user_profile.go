package model

import (
	"gorm.io/datatypes"
)

type PrimaryGoal string

const (
	GoalCareerChange     PrimaryGoal = "career-change"
	GoalSkillImprovement PrimaryGoal = "skill-improvement"
	GoalHobby            PrimaryGoal = "hobby"
	GoalAcademic         PrimaryGoal = "academic"
)

func (g PrimaryGoal) Valid() bool {
	switch g {
	case GoalCareerChange, GoalSkillImprovement, GoalHobby, GoalAcademic:
		return true
	}
	return false
}

const (
	MinWeeklyHours     = 1
	MaxWeeklyHours     = 40
	DefaultWeeklyHours = 5
)

// UserProfile 用户学习偏好，首次进入仪表盘时完成设置
// swagger:model UserProfile
type UserProfile struct {
	UUIDBase
	UserID          string                      `gorm:"type:varchar(36);uniqueIndex;not null" json:"user_id"`
	Interests       datatypes.JSONSlice[string] `json:"interests"`
	PrimaryGoal     PrimaryGoal                 `gorm:"size:32;not null" json:"primary_goal"`
	WeeklyHours     int                         `gorm:"not null;default:5" json:"weekly_hours"`
	AdditionalGoals *string                     `gorm:"type:text" json:"additional_goals,omitempty"`
}

func (UserProfile) TableName() string {
	return "user_profiles"
}
