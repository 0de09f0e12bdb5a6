package model

type ActivityKind string

const (
	ActivityResourceCompleted ActivityKind = "resource_completed"
	ActivityWeekCompleted     ActivityKind = "week_completed"
	ActivityRoadmapCreated    ActivityKind = "roadmap_created"
	ActivityRoadmapCompleted  ActivityKind = "roadmap_completed"
	ActivityBadgeEarned       ActivityKind = "badge_earned"
	ActivityManualAward       ActivityKind = "manual_award"
)

// ActivityLog 学习行为流水，用于每日目标与周统计
// swagger:model ActivityLog
type ActivityLog struct {
	UUIDBase
	UserID      string       `gorm:"type:varchar(36);index:idx_activity_user_day;not null" json:"user_id"`
	Kind        ActivityKind `gorm:"size:32;not null" json:"kind"`
	XP          int          `gorm:"default:0" json:"xp"`
	Minutes     int          `gorm:"default:0" json:"minutes"`
	ReferenceID string       `gorm:"type:varchar(36)" json:"reference_id"`
	OccurredOn  string       `gorm:"size:10;index:idx_activity_user_day;not null" json:"occurred_on"`
}

func (ActivityLog) TableName() string {
	return "activity_logs"
}
