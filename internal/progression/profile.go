package progression

import (
	"fmt"
	"strings"

	"skillkart_backend/internal/model"
)

// ValidateWeeklyHours 每周学习时长必须在 [1,40]
func ValidateWeeklyHours(hours int) error {
	if hours < model.MinWeeklyHours || hours > model.MaxWeeklyHours {
		return fmt.Errorf("%w: weekly hours must be between %d and %d, got %d",
			ErrValidation, model.MinWeeklyHours, model.MaxWeeklyHours, hours)
	}
	return nil
}

// NormalizeSkillTag 技能标签统一为去空白的小写形式
func NormalizeSkillTag(tag string) string {
	return strings.ToLower(strings.TrimSpace(tag))
}

// NormalizeInterests 去掉空白与重复项，保留首次出现的顺序
func NormalizeInterests(interests []string) []string {
	seen := make(map[string]struct{}, len(interests))
	out := make([]string, 0, len(interests))
	for _, tag := range interests {
		tag = NormalizeSkillTag(tag)
		if tag == "" {
			continue
		}
		if _, ok := seen[tag]; ok {
			continue
		}
		seen[tag] = struct{}{}
		out = append(out, tag)
	}
	return out
}

// ValidateProfile 规范化兴趣列表并校验档案字段
func ValidateProfile(p *model.UserProfile) error {
	if p.UserID == "" {
		return fmt.Errorf("%w: profile user id is required", ErrValidation)
	}
	p.Interests = NormalizeInterests(p.Interests)
	if len(p.Interests) == 0 {
		return fmt.Errorf("%w: at least one interest is required", ErrValidation)
	}
	if !p.PrimaryGoal.Valid() {
		return fmt.Errorf("%w: unknown primary goal %q", ErrValidation, p.PrimaryGoal)
	}
	if err := ValidateWeeklyHours(p.WeeklyHours); err != nil {
		return err
	}
	if p.AdditionalGoals != nil && strings.TrimSpace(*p.AdditionalGoals) == "" {
		p.AdditionalGoals = nil
	}
	return nil
}
