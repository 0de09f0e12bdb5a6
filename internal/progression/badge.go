package progression

import (
	"fmt"

	"skillkart_backend/internal/model"
)

// Stats 徽章判定所需的用户统计快照
type Stats struct {
	StreakDays         int
	ResourcesCompleted int
	RoadmapsCompleted  int
	XP                 int
	FollowingCount     int
}

func (s Stats) value(kind string) (int, bool) {
	switch kind {
	case model.RequirementStreakDays:
		return s.StreakDays, true
	case model.RequirementResourcesCompleted:
		return s.ResourcesCompleted, true
	case model.RequirementRoadmapsCompleted:
		return s.RoadmapsCompleted, true
	case model.RequirementXPTotal:
		return s.XP, true
	case model.RequirementFollowingCount:
		return s.FollowingCount, true
	}
	return 0, false
}

// ValidateRequirement 检查徽章条件是否可以被判定
func ValidateRequirement(req model.BadgeRequirement) error {
	if _, ok := (Stats{}).value(req.Kind); !ok {
		return fmt.Errorf("%w: unknown badge requirement kind %q", ErrValidation, req.Kind)
	}
	if req.Threshold <= 0 {
		return fmt.Errorf("%w: badge requirement threshold must be positive", ErrValidation)
	}
	return nil
}

// Satisfies 判断统计是否满足徽章条件，未知条件类型永不满足
func Satisfies(stats Stats, req model.BadgeRequirement) bool {
	v, ok := stats.value(req.Kind)
	if !ok || req.Threshold <= 0 {
		return false
	}
	return v >= req.Threshold
}

// EligibleBadges 返回新满足条件且尚未获得的徽章，保持目录顺序
func EligibleBadges(catalog []model.Badge, owned map[string]bool, stats Stats) []model.Badge {
	var earned []model.Badge
	for _, b := range catalog {
		if owned[b.ID] {
			continue
		}
		if Satisfies(stats, b.Requirement.Data()) {
			earned = append(earned, b)
		}
	}
	return earned
}
