package model

import (
	"time"
)

type ProgressStatus string

const (
	StatusNotStarted ProgressStatus = "not_started"
	StatusInProgress ProgressStatus = "in_progress"
	StatusCompleted  ProgressStatus = "completed"
)

// Rank 状态只能前进，数值越大越靠后
func (s ProgressStatus) Rank() int {
	switch s {
	case StatusInProgress:
		return 1
	case StatusCompleted:
		return 2
	default:
		return 0
	}
}

type ResourceType string

const (
	ResourceVideo ResourceType = "video"
	ResourceQuiz  ResourceType = "quiz"
	ResourceBlog  ResourceType = "blog"
	ResourceOther ResourceType = "other"
)

func (t ResourceType) Valid() bool {
	switch t {
	case ResourceVideo, ResourceQuiz, ResourceBlog, ResourceOther:
		return true
	}
	return false
}

// Roadmap 学习路线。UserID 为空表示平台维护的公共模板；
// 同一用户对同一公共路线只能有一份副本
// swagger:model Roadmap
type Roadmap struct {
	UUIDBase
	UserID          string         `gorm:"type:varchar(36);uniqueIndex:idx_roadmap_user_source,priority:1" json:"user_id"`
	SourceRoadmapID *string        `gorm:"type:varchar(36);uniqueIndex:idx_roadmap_user_source,priority:2" json:"source_roadmap_id,omitempty"`
	Title           string         `gorm:"size:255;not null" json:"title"`
	Description     string         `gorm:"type:text" json:"description"`
	SkillTag        string         `gorm:"size:64;index;not null" json:"skill_tag"`
	TotalWeeks      int            `gorm:"not null" json:"total_weeks"`
	CurrentWeek     int            `gorm:"not null;default:1" json:"current_week"`
	Progress        int            `gorm:"not null;default:0" json:"progress"`
	Status          ProgressStatus `gorm:"size:20;default:'not_started'" json:"status"`
	IsPublic        bool           `gorm:"default:false;index" json:"is_public"`
	Weeks           []RoadmapWeek  `gorm:"foreignKey:RoadmapID" json:"weeks,omitempty"`
}

func (Roadmap) TableName() string {
	return "roadmaps"
}

// swagger:model RoadmapWeek
type RoadmapWeek struct {
	UUIDBase
	RoadmapID   string         `gorm:"type:varchar(36);index;not null" json:"roadmap_id"`
	WeekNumber  int            `gorm:"not null" json:"week_number"`
	Title       string         `gorm:"size:255;not null" json:"title"`
	Description string         `gorm:"type:text" json:"description"`
	Status      ProgressStatus `gorm:"size:20;default:'not_started'" json:"status"`
	XPReward    int            `gorm:"not null;default:50" json:"xp_reward"`
	Steps       []RoadmapStep  `gorm:"foreignKey:WeekID" json:"steps,omitempty"`
}

func (RoadmapWeek) TableName() string {
	return "roadmap_weeks"
}

// swagger:model RoadmapStep
type RoadmapStep struct {
	UUIDBase
	WeekID    string         `gorm:"type:varchar(36);index;not null" json:"week_id"`
	Position  int            `gorm:"default:0" json:"position"`
	Title     string         `gorm:"size:255;not null" json:"title"`
	Status    ProgressStatus `gorm:"size:20;default:'not_started'" json:"status"`
	Resources []Resource     `gorm:"foreignKey:StepID" json:"resources,omitempty"`
}

func (RoadmapStep) TableName() string {
	return "roadmap_steps"
}

// swagger:model Resource
type Resource struct {
	UUIDBase
	StepID           string       `gorm:"type:varchar(36);index;not null" json:"step_id"`
	Position         int          `gorm:"default:0" json:"position"`
	Title            string       `gorm:"size:255;not null" json:"title"`
	URL              string       `gorm:"size:512" json:"url"`
	Type             ResourceType `gorm:"size:16;default:'other'" json:"type"`
	EstimatedMinutes int          `gorm:"default:0" json:"estimated_minutes"`
	Completed        bool         `gorm:"default:false" json:"completed"`
	CompletedAt      *time.Time   `json:"completed_at,omitempty"`
}

func (Resource) TableName() string {
	return "roadmap_resources"
}
