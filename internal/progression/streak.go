package progression

import (
	"fmt"
	"math"
	"time"
)

const (
	DateFormat = "2006-01-02"

	// DefaultDailyGoalMinutes 没有学习档案时的每日目标
	DefaultDailyGoalMinutes = 30

	BronzeStreakDays = 7
	SilverStreakDays = 30
)

// DailyGoalTarget 由每周可用小时数换算每日目标分钟数；weeklyHours 为 nil 表示尚未设置档案。
func DailyGoalTarget(weeklyHours *int, fallback int) (int, error) {
	if fallback <= 0 {
		fallback = DefaultDailyGoalMinutes
	}
	if weeklyHours == nil {
		return fallback, nil
	}
	if err := ValidateWeeklyHours(*weeklyHours); err != nil {
		return 0, err
	}
	return int(math.Round(float64(*weeklyHours) * 60 / 7)), nil
}

// DailyGoal 今日学习目标完成情况
type DailyGoal struct {
	TargetMinutes   int `json:"target_minutes"`
	ProgressMinutes int `json:"progress_minutes"`
	Percentage      int `json:"percentage"`
}

// NewDailyGoal 展示比例最高 100%
func NewDailyGoal(progressMinutes, targetMinutes int) (DailyGoal, error) {
	if targetMinutes <= 0 {
		return DailyGoal{}, fmt.Errorf("%w: daily goal target must be positive, got %d", ErrConfiguration, targetMinutes)
	}
	if progressMinutes < 0 {
		progressMinutes = 0
	}
	pct := int(math.Round(float64(progressMinutes) / float64(targetMinutes) * 100))
	if pct > 100 {
		pct = 100
	}
	return DailyGoal{
		TargetMinutes:   targetMinutes,
		ProgressMinutes: progressMinutes,
		Percentage:      pct,
	}, nil
}

// StreakState 持久化在用户记录上的连续学习状态
type StreakState struct {
	Count        int
	Longest      int
	LastActiveOn string
}

// LocalDate 返回 t 在 loc 时区下的日历日期
func LocalDate(t time.Time, loc *time.Location) string {
	if loc == nil {
		loc = time.UTC
	}
	return t.In(loc).Format(DateFormat)
}

func previousDate(t time.Time, loc *time.Location) string {
	if loc == nil {
		loc = time.UTC
	}
	local := t.In(loc)
	day := time.Date(local.Year(), local.Month(), local.Day(), 12, 0, 0, 0, loc)
	return day.AddDate(0, 0, -1).Format(DateFormat)
}

// AdvanceStreak 处理一次有效学习事件。
// 同一天内只计一次；前一天有学习则加一；中断超过一天则从 1 重新开始。
// 第二个返回值表示这是当天的第一次有效事件。
func AdvanceStreak(state StreakState, at time.Time, loc *time.Location) (StreakState, bool) {
	today := LocalDate(at, loc)
	if state.LastActiveOn == today {
		return state, false
	}

	next := state
	if state.LastActiveOn == previousDate(at, loc) && state.Count > 0 {
		next.Count = state.Count + 1
	} else {
		next.Count = 1
	}
	if next.Count > next.Longest {
		next.Longest = next.Count
	}
	next.LastActiveOn = today
	return next, true
}

// EffectiveStreak 读取时的连续天数：最后一次学习早于昨天则视为已中断
func EffectiveStreak(state StreakState, now time.Time, loc *time.Location) int {
	if state.LastActiveOn == "" {
		return 0
	}
	if state.LastActiveOn == LocalDate(now, loc) || state.LastActiveOn == previousDate(now, loc) {
		return state.Count
	}
	return 0
}

// StreakTier 连续天数对应的徽章档位，未达到时返回空串
func StreakTier(days int) string {
	switch {
	case days >= SilverStreakDays:
		return "silver"
	case days >= BronzeStreakDays:
		return "bronze"
	default:
		return ""
	}
}

// DailyGoalRatio 今日进度占目标的比例，最高 1.0
func DailyGoalRatio(progressMinutes, targetMinutes int) float64 {
	if targetMinutes <= 0 || progressMinutes <= 0 {
		return 0
	}
	r := float64(progressMinutes) / float64(targetMinutes)
	if r > 1 {
		return 1
	}
	return r
}
