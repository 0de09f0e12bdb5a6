package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"skillkart_backend/internal/config"
	"skillkart_backend/internal/model"
	"skillkart_backend/internal/progression"
	"skillkart_backend/internal/repository"
	"skillkart_backend/internal/util"
	"skillkart_backend/pkg/logger"
	"skillkart_backend/pkg/monitoring"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// GamificationSettings 运行时使用的游戏化参数，配置热更新时整体替换
type GamificationSettings struct {
	Ladder           progression.LevelLadder
	Location         *time.Location
	Rewards          config.RewardConfig
	DailyGoalMinutes int
}

func NewGamificationSettings(cfg config.GamificationConfig) (GamificationSettings, error) {
	ladder, err := progression.NewLevelLadder(cfg.Tiers())
	if err != nil {
		return GamificationSettings{}, err
	}
	loc, err := cfg.Location()
	if err != nil {
		return GamificationSettings{}, err
	}
	if cfg.Rewards.ResourceCompleted <= 0 || cfg.Rewards.RoadmapCreated <= 0 {
		return GamificationSettings{}, fmt.Errorf("%w: xp rewards must be positive", progression.ErrConfiguration)
	}
	daily := cfg.DailyGoalMinutes
	if daily <= 0 {
		daily = progression.DefaultDailyGoalMinutes
	}
	return GamificationSettings{
		Ladder:           ladder,
		Location:         loc,
		Rewards:          cfg.Rewards,
		DailyGoalMinutes: daily,
	}, nil
}

type GamificationService struct {
	DB           *gorm.DB
	UserRepo     *repository.UserRepository
	BadgeRepo    *repository.BadgeRepository
	ActivityRepo *repository.ActivityRepository
	RoadmapRepo  *repository.RoadmapRepository
	FollowRepo   *repository.FollowRepository

	// Now 测试中可替换
	Now func() time.Time

	mu       sync.RWMutex
	settings GamificationSettings
}

func NewGamificationService(
	db *gorm.DB,
	userRepo *repository.UserRepository,
	badgeRepo *repository.BadgeRepository,
	activityRepo *repository.ActivityRepository,
	roadmapRepo *repository.RoadmapRepository,
	followRepo *repository.FollowRepository,
	cfg config.GamificationConfig,
) (*GamificationService, error) {
	settings, err := NewGamificationSettings(cfg)
	if err != nil {
		return nil, err
	}
	return &GamificationService{
		DB:           db,
		UserRepo:     userRepo,
		BadgeRepo:    badgeRepo,
		ActivityRepo: activityRepo,
		RoadmapRepo:  roadmapRepo,
		FollowRepo:   followRepo,
		Now:          time.Now,
		settings:     settings,
	}, nil
}

// ApplyConfig 热更新等级表、奖励与时区，校验失败时保留旧配置
func (s *GamificationService) ApplyConfig(cfg config.GamificationConfig) error {
	settings, err := NewGamificationSettings(cfg)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.settings = settings
	s.mu.Unlock()
	return nil
}

func (s *GamificationService) Settings() GamificationSettings {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.settings
}

// Today 配置时区下的当前日期
func (s *GamificationService) Today() string {
	return progression.LocalDate(s.Now(), s.Settings().Location)
}

// AwardXP 单独发放经验值，amount 必须为正
func (s *GamificationService) AwardXP(ctx context.Context, userID string, amount int, reason model.ActivityKind) (*model.User, error) {
	if amount <= 0 {
		return nil, util.ErrInvalidXPAmount
	}
	if reason == "" {
		reason = model.ActivityManualAward
	}

	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return s.awardInTx(ctx, tx, userID, amount, reason, "", 0)
	})
	if err != nil {
		return nil, err
	}

	user, err := s.UserRepo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrUserNotFound
		}
		return nil, err
	}
	s.evaluateQuietly(ctx, userID)
	return user, nil
}

// awardInTx 在事务中累加经验值并记录流水
func (s *GamificationService) awardInTx(ctx context.Context, tx *gorm.DB, userID string, amount int, kind model.ActivityKind, refID string, minutes int) error {
	if amount < 0 {
		return util.ErrInvalidXPAmount
	}
	if amount > 0 {
		if err := s.UserRepo.WithTx(tx).AddXP(ctx, userID, amount); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return util.ErrUserNotFound
			}
			return err
		}
	}

	entry := &model.ActivityLog{
		UserID:      userID,
		Kind:        kind,
		XP:          amount,
		Minutes:     minutes,
		ReferenceID: refID,
		OccurredOn:  s.Today(),
	}
	if err := s.ActivityRepo.WithTx(tx).Create(ctx, entry); err != nil {
		return err
	}

	if amount > 0 {
		monitoring.XPAwarded.WithLabelValues(string(kind)).Add(float64(amount))
	}
	return nil
}

// advanceStreakInTx 记录一次有效学习，返回更新后的连续天数
func (s *GamificationService) advanceStreakInTx(ctx context.Context, tx *gorm.DB, userID string) (progression.StreakState, error) {
	users := s.UserRepo.WithTx(tx)
	user, err := users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return progression.StreakState{}, util.ErrUserNotFound
		}
		return progression.StreakState{}, err
	}

	next, first := progression.AdvanceStreak(streakState(user), s.Now(), s.Settings().Location)
	if !first {
		return next, nil
	}
	if err := users.UpdateStreak(ctx, userID, next); err != nil {
		return progression.StreakState{}, err
	}
	return next, nil
}

func streakState(u *model.User) progression.StreakState {
	state := progression.StreakState{Count: u.StreakCount, Longest: u.LongestStreak}
	if u.LastActiveOn != nil {
		state.LastActiveOn = *u.LastActiveOn
	}
	return state
}

// StreakSummary 连续学习概况
type StreakSummary struct {
	Current int    `json:"current"`
	Longest int    `json:"longest"`
	Tier    string `json:"tier,omitempty"`
	Today   bool   `json:"active_today"`
}

// Streak 读取时对已中断的连续天数归零
func (s *GamificationService) Streak(u *model.User) StreakSummary {
	settings := s.Settings()
	state := streakState(u)
	current := progression.EffectiveStreak(state, s.Now(), settings.Location)
	return StreakSummary{
		Current: current,
		Longest: state.Longest,
		Tier:    progression.StreakTier(current),
		Today:   state.LastActiveOn == progression.LocalDate(s.Now(), settings.Location),
	}
}

func (s *GamificationService) Level(u *model.User) (progression.LevelState, error) {
	return s.Settings().Ladder.Resolve(u.XP)
}

// Stats 徽章判定用的统计快照
func (s *GamificationService) Stats(ctx context.Context, userID string) (progression.Stats, error) {
	user, err := s.UserRepo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return progression.Stats{}, util.ErrUserNotFound
		}
		return progression.Stats{}, err
	}
	resources, err := s.RoadmapRepo.CountCompletedResources(ctx, userID)
	if err != nil {
		return progression.Stats{}, err
	}
	roadmaps, err := s.RoadmapRepo.CountCompletedRoadmaps(ctx, userID)
	if err != nil {
		return progression.Stats{}, err
	}
	following, err := s.FollowRepo.CountFollowing(ctx, userID)
	if err != nil {
		return progression.Stats{}, err
	}

	streak := user.LongestStreak
	if user.StreakCount > streak {
		streak = user.StreakCount
	}
	return progression.Stats{
		StreakDays:         streak,
		ResourcesCompleted: int(resources),
		RoadmapsCompleted:  int(roadmaps),
		XP:                 user.XP,
		FollowingCount:     int(following),
	}, nil
}

// EvaluateBadges 发放用户新满足条件的徽章，同一徽章只会发放一次
func (s *GamificationService) EvaluateBadges(ctx context.Context, userID string) ([]model.Badge, error) {
	stats, err := s.Stats(ctx, userID)
	if err != nil {
		return nil, err
	}
	catalog, err := s.BadgeRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	owned, err := s.BadgeRepo.OwnedBadgeIDs(ctx, userID)
	if err != nil {
		return nil, err
	}

	awarded := []model.Badge{}
	for _, badge := range progression.EligibleBadges(catalog, owned, stats) {
		created, err := s.BadgeRepo.Award(ctx, userID, badge.ID, s.Now())
		if err != nil {
			return awarded, err
		}
		if !created {
			continue
		}
		monitoring.BadgesAwarded.WithLabelValues(badge.Code).Inc()
		logger.Log.Info("badge awarded",
			zap.String("user_id", userID),
			zap.String("badge", badge.Code))
		if err := s.ActivityRepo.Create(ctx, &model.ActivityLog{
			UserID:      userID,
			Kind:        model.ActivityBadgeEarned,
			ReferenceID: badge.ID,
			OccurredOn:  s.Today(),
		}); err != nil {
			logger.Log.Warn("record badge activity failed",
				zap.String("user_id", userID),
				zap.String("badge", badge.Code),
				zap.Error(err))
		}
		awarded = append(awarded, badge)
	}
	return awarded, nil
}

// evaluateQuietly 徽章判定失败不影响主流程
func (s *GamificationService) evaluateQuietly(ctx context.Context, userID string) []model.Badge {
	badges, err := s.EvaluateBadges(ctx, userID)
	if err != nil {
		logger.Log.Error("badge evaluation failed", zap.String("user_id", userID), zap.Error(err))
	}
	return badges
}

type LeaderboardEntry struct {
	Rank        int    `json:"rank"`
	UserID      string `json:"user_id"`
	DisplayName string `json:"display_name"`
	AvatarURL   string `json:"avatar_url,omitempty"`
	XP          int    `json:"xp_points"`
	Level       int    `json:"level"`
	Title       string `json:"title"`
}

func (s *GamificationService) GetLeaderboard(ctx context.Context, limit int) ([]LeaderboardEntry, error) {
	if limit <= 0 || limit > 100 {
		limit = 10
	}
	users, err := s.UserRepo.FindTopByXP(ctx, limit)
	if err != nil {
		return nil, err
	}

	ladder := s.Settings().Ladder
	leaderboard := make([]LeaderboardEntry, len(users))
	for i, user := range users {
		lvl, err := ladder.Resolve(user.XP)
		if err != nil {
			return nil, err
		}
		leaderboard[i] = LeaderboardEntry{
			Rank:        i + 1,
			UserID:      user.ID,
			DisplayName: progression.DisplayName(user),
			AvatarURL:   user.AvatarURL,
			XP:          user.XP,
			Level:       lvl.Level,
			Title:       lvl.Title,
		}
	}

	return leaderboard, nil
}
