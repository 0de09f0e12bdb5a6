package progression

import (
	"fmt"
	"math"
)

// LevelProgress 当前经验值相对下一级门槛的进度
type LevelProgress struct {
	CurrentXP          int `json:"current_xp"`
	RequiredXP         int `json:"required_xp"`
	ProgressPercentage int `json:"progress_percentage"`
	RemainingXP        int `json:"remaining_xp"`
}

// CalculateLevelProgress 计算升级进度。是否升级由调用方根据等级表决定，这里不会自动提升等级。
func CalculateLevelProgress(currentXP, requiredXP int) (LevelProgress, error) {
	if requiredXP <= 0 {
		return LevelProgress{}, fmt.Errorf("%w: required xp must be positive, got %d", ErrConfiguration, requiredXP)
	}
	if currentXP < 0 {
		return LevelProgress{}, fmt.Errorf("%w: current xp must not be negative, got %d", ErrValidation, currentXP)
	}

	pct := int(math.Round(float64(currentXP) / float64(requiredXP) * 100))
	if pct > 100 {
		pct = 100
	}
	remaining := requiredXP - currentXP
	if remaining < 0 {
		remaining = 0
	}

	return LevelProgress{
		CurrentXP:          currentXP,
		RequiredXP:         requiredXP,
		ProgressPercentage: pct,
		RemainingXP:        remaining,
	}, nil
}

// LevelTier 等级表中的一级。RequiredXP 是离开该等级所需的累计经验值。
type LevelTier struct {
	Level      int    `json:"level"`
	RequiredXP int    `json:"required_xp"`
	Title      string `json:"title"`
}

type LevelLadder []LevelTier

// DefaultLevelTiers 未配置等级表时使用
var DefaultLevelTiers = []LevelTier{
	{Level: 1, RequiredXP: 250, Title: "Beginner"},
	{Level: 2, RequiredXP: 500, Title: "Avid Learner"},
	{Level: 3, RequiredXP: 1000, Title: "Expert Learner"},
	{Level: 4, RequiredXP: 2000, Title: "Master"},
}

// NewLevelLadder 校验等级表：非空，门槛为正且严格递增。Level 为 0 时按顺序补齐。
func NewLevelLadder(tiers []LevelTier) (LevelLadder, error) {
	if len(tiers) == 0 {
		return nil, fmt.Errorf("%w: level ladder is empty", ErrConfiguration)
	}

	ladder := make(LevelLadder, len(tiers))
	prev := 0
	for i, t := range tiers {
		if t.RequiredXP <= prev {
			return nil, fmt.Errorf("%w: level %d threshold %d must be greater than %d", ErrConfiguration, i+1, t.RequiredXP, prev)
		}
		if t.Level == 0 {
			t.Level = i + 1
		}
		if i > 0 && t.Level <= ladder[i-1].Level {
			return nil, fmt.Errorf("%w: level numbers must increase, got %d after %d", ErrConfiguration, t.Level, ladder[i-1].Level)
		}
		ladder[i] = t
		prev = t.RequiredXP
	}
	return ladder, nil
}

// LevelState 用户当前所处等级及升级进度
type LevelState struct {
	Level    int    `json:"level"`
	Title    string `json:"title"`
	MaxLevel bool   `json:"max_level"`
	LevelProgress
}

// Resolve 根据累计经验值定位等级。超过最高门槛后停留在最高等级，进度为 100%。
func (l LevelLadder) Resolve(totalXP int) (LevelState, error) {
	if len(l) == 0 {
		return LevelState{}, fmt.Errorf("%w: level ladder is empty", ErrConfiguration)
	}
	if totalXP < 0 {
		return LevelState{}, fmt.Errorf("%w: total xp must not be negative, got %d", ErrValidation, totalXP)
	}

	tier := l[len(l)-1]
	maxLevel := true
	for _, t := range l {
		if totalXP < t.RequiredXP {
			tier = t
			maxLevel = false
			break
		}
	}

	progress, err := CalculateLevelProgress(totalXP, tier.RequiredXP)
	if err != nil {
		return LevelState{}, err
	}

	return LevelState{
		Level:         tier.Level,
		Title:         tier.Title,
		MaxLevel:      maxLevel,
		LevelProgress: progress,
	}, nil
}
