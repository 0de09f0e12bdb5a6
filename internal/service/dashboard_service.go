package service

import (
	"context"
	"errors"
	"time"

	"skillkart_backend/internal/model"
	"skillkart_backend/internal/progression"
	"skillkart_backend/internal/repository"
	"skillkart_backend/internal/util"
	"skillkart_backend/pkg/logger"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
)

type DashboardService struct {
	UserRepo     *repository.UserRepository
	ProfileRepo  *repository.ProfileRepository
	RoadmapRepo  *repository.RoadmapRepository
	ActivityRepo *repository.ActivityRepository
	Gamification *GamificationService
	Roadmaps     *RoadmapService
}

func NewDashboardService(
	userRepo *repository.UserRepository,
	profileRepo *repository.ProfileRepository,
	roadmapRepo *repository.RoadmapRepository,
	activityRepo *repository.ActivityRepository,
	gamification *GamificationService,
	roadmaps *RoadmapService,
) *DashboardService {
	return &DashboardService{
		UserRepo:     userRepo,
		ProfileRepo:  profileRepo,
		RoadmapRepo:  roadmapRepo,
		ActivityRepo: activityRepo,
		Gamification: gamification,
		Roadmaps:     roadmaps,
	}
}

type DashboardUser struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
	Email       string `json:"email"`
	AvatarURL   string `json:"avatar_url"`
	XP          int    `json:"xp_points"`
}

type Dashboard struct {
	User            DashboardUser                `json:"user"`
	Level           progression.LevelState       `json:"level"`
	Streak          StreakSummary                `json:"streak"`
	DailyGoal       progression.DailyGoal        `json:"daily_goal"`
	WeeklyActivity  []repository.DayTotal        `json:"weekly_activity"`
	CurrentRoadmaps []model.Roadmap              `json:"current_roadmaps"`
	Recommendations []progression.Recommendation `json:"recommendations"`
	ProfileRequired bool                         `json:"profile_required"`
	Bootstrapped    *model.Roadmap               `json:"bootstrapped,omitempty"`
}

// GetDashboard 并发读取用户、档案、路线与目录，再计算等级、连续天数与推荐。
// 用户没有进行中的路线时，会自动报名排名第一的推荐路线。
func (s *DashboardService) GetDashboard(ctx context.Context, session util.Session) (*Dashboard, error) {
	var (
		user     *model.User
		profile  *model.UserProfile
		owned    []model.Roadmap
		catalog  []model.Roadmap
		enrolled []string
		weekly   []repository.DayTotal
	)

	settings := s.Gamification.Settings()
	now := s.Gamification.Now()
	today := progression.LocalDate(now, settings.Location)
	weekStart := progression.LocalDate(now.AddDate(0, 0, -6), settings.Location)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		u, err := s.UserRepo.FindByID(gctx, session.UserID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return util.ErrUserNotFound
			}
			return err
		}
		user = u
		return nil
	})
	g.Go(func() error {
		p, err := s.ProfileRepo.FindByUserID(gctx, session.UserID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil
			}
			return err
		}
		profile = p
		return nil
	})
	g.Go(func() error {
		var err error
		owned, err = s.RoadmapRepo.FindByUser(gctx, session.UserID)
		return err
	})
	g.Go(func() error {
		var err error
		catalog, err = s.RoadmapRepo.FindPublic(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		enrolled, err = s.RoadmapRepo.SourceIDsByUser(gctx, session.UserID)
		return err
	})
	g.Go(func() error {
		var err error
		weekly, err = s.ActivityRepo.DailyTotals(gctx, session.UserID, weekStart, today)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	level, err := settings.Ladder.Resolve(user.XP)
	if err != nil {
		return nil, err
	}

	var weeklyHours *int
	var interests []string
	if profile != nil {
		weeklyHours = &profile.WeeklyHours
		interests = profile.Interests
	}
	target, err := progression.DailyGoalTarget(weeklyHours, settings.DailyGoalMinutes)
	if err != nil {
		return nil, err
	}
	chart := fillWeek(weekly, now, settings.Location)
	daily, err := progression.NewDailyGoal(chart[len(chart)-1].Minutes, target)
	if err != nil {
		return nil, err
	}

	current := make([]model.Roadmap, 0, len(owned))
	for _, r := range owned {
		if r.Progress < 100 {
			current = append(current, r)
		}
	}

	recs := progression.Rank(interests, s.Roadmaps.candidates(catalog, enrolled), s.Roadmaps.limit())

	dash := &Dashboard{
		User: DashboardUser{
			ID:          user.ID,
			DisplayName: progression.DisplayName(*user),
			Email:       user.Email,
			AvatarURL:   user.AvatarURL,
			XP:          user.XP,
		},
		Level:           level,
		Streak:          s.Gamification.Streak(user),
		DailyGoal:       daily,
		WeeklyActivity:  chart,
		CurrentRoadmaps: current,
		Recommendations: recs,
		ProfileRequired: profile == nil,
	}

	if len(current) == 0 && len(recs) > 0 && s.Roadmaps.Recommendation.BootstrapEnrollment {
		top := recs[0].Roadmap
		enrolledRoadmap, err := s.Roadmaps.Enroll(ctx, session, top.ID)
		switch {
		case err == nil:
			enrolledRoadmap.Weeks = nil
			dash.Bootstrapped = enrolledRoadmap
			dash.CurrentRoadmaps = append(dash.CurrentRoadmaps, *enrolledRoadmap)
			dash.Recommendations = recs[1:]
		case errors.Is(err, util.ErrAlreadyEnrolled):
		default:
			logger.Log.Warn("bootstrap enrollment failed",
				zap.String("user_id", session.UserID),
				zap.String("roadmap_id", top.ID),
				zap.Error(err))
		}
	}

	return dash, nil
}

// fillWeek 补齐最近七天中没有记录的日期
func fillWeek(totals []repository.DayTotal, now time.Time, loc *time.Location) []repository.DayTotal {
	byDay := make(map[string]repository.DayTotal, len(totals))
	for _, t := range totals {
		byDay[t.Day] = t
	}
	chart := make([]repository.DayTotal, 0, 7)
	for i := 6; i >= 0; i-- {
		day := progression.LocalDate(now.AddDate(0, 0, -i), loc)
		t, ok := byDay[day]
		if !ok {
			t = repository.DayTotal{Day: day}
		}
		chart = append(chart, t)
	}
	return chart
}
