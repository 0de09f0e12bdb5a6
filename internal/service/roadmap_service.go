package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"skillkart_backend/internal/config"
	"skillkart_backend/internal/model"
	"skillkart_backend/internal/progression"
	"skillkart_backend/internal/repository"
	"skillkart_backend/internal/util"
	"skillkart_backend/pkg/logger"
	"skillkart_backend/pkg/monitoring"
	"skillkart_backend/pkg/tracing"

	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	DefaultRoadmapWeeks = 8
	MaxRoadmapWeeks     = 52
)

type RoadmapService struct {
	DB             *gorm.DB
	RoadmapRepo    *repository.RoadmapRepository
	ProfileRepo    *repository.ProfileRepository
	Gamification   *GamificationService
	Recommendation config.RecommendationConfig
}

func NewRoadmapService(
	db *gorm.DB,
	roadmapRepo *repository.RoadmapRepository,
	profileRepo *repository.ProfileRepository,
	gamification *GamificationService,
	recommendation config.RecommendationConfig,
) *RoadmapService {
	return &RoadmapService{
		DB:             db,
		RoadmapRepo:    roadmapRepo,
		ProfileRepo:    profileRepo,
		Gamification:   gamification,
		Recommendation: recommendation,
	}
}

type ResourceInput struct {
	Title            string             `json:"title" binding:"required"`
	URL              string             `json:"url"`
	Type             model.ResourceType `json:"type"`
	EstimatedMinutes int                `json:"estimated_minutes"`
}

type StepInput struct {
	Title     string          `json:"title" binding:"required"`
	Resources []ResourceInput `json:"resources"`
}

type WeekInput struct {
	Title       string      `json:"title"`
	Description string      `json:"description"`
	XPReward    int         `json:"xp_reward"`
	Steps       []StepInput `json:"steps"`
}

// CreateRoadmapInput 未给出的周使用默认标题与奖励
type CreateRoadmapInput struct {
	Title       string      `json:"title" binding:"required"`
	Description string      `json:"description"`
	SkillTag    string      `json:"skill_tag" binding:"required"`
	TotalWeeks  int         `json:"total_weeks"`
	Weeks       []WeekInput `json:"weeks"`
}

func (in *CreateRoadmapInput) normalize() error {
	in.Title = strings.TrimSpace(in.Title)
	in.SkillTag = progression.NormalizeSkillTag(in.SkillTag)
	if in.Title == "" {
		return fmt.Errorf("%w: title is required", progression.ErrValidation)
	}
	if in.SkillTag == "" {
		return fmt.Errorf("%w: skill tag is required", progression.ErrValidation)
	}
	if in.TotalWeeks == 0 {
		in.TotalWeeks = DefaultRoadmapWeeks
		if len(in.Weeks) > 0 {
			in.TotalWeeks = len(in.Weeks)
		}
	}
	if in.TotalWeeks < 1 || in.TotalWeeks > MaxRoadmapWeeks {
		return fmt.Errorf("%w: total weeks must be between 1 and %d", progression.ErrValidation, MaxRoadmapWeeks)
	}
	if len(in.Weeks) > in.TotalWeeks {
		return fmt.Errorf("%w: %d weeks given for a %d week roadmap", progression.ErrValidation, len(in.Weeks), in.TotalWeeks)
	}
	for _, w := range in.Weeks {
		if w.XPReward < 0 {
			return fmt.Errorf("%w: week xp reward must be positive", progression.ErrValidation)
		}
		for _, st := range w.Steps {
			if strings.TrimSpace(st.Title) == "" {
				return fmt.Errorf("%w: step title is required", progression.ErrValidation)
			}
			for _, r := range st.Resources {
				if strings.TrimSpace(r.Title) == "" {
					return fmt.Errorf("%w: resource title is required", progression.ErrValidation)
				}
				if r.Type != "" && !r.Type.Valid() {
					return fmt.Errorf("%w: unknown resource type %q", progression.ErrValidation, r.Type)
				}
				if r.EstimatedMinutes < 0 {
					return fmt.Errorf("%w: estimated minutes must not be negative", progression.ErrValidation)
				}
			}
		}
	}
	return nil
}

func (s *RoadmapService) buildRoadmap(userID string, in CreateRoadmapInput) model.Roadmap {
	rewards := s.Gamification.Settings().Rewards
	roadmap := model.Roadmap{
		UserID:      userID,
		Title:       in.Title,
		Description: in.Description,
		SkillTag:    in.SkillTag,
		TotalWeeks:  in.TotalWeeks,
		CurrentWeek: 1,
		Progress:    0,
		Status:      model.StatusNotStarted,
	}
	for n := 1; n <= in.TotalWeeks; n++ {
		week := model.RoadmapWeek{
			WeekNumber: n,
			Title:      fmt.Sprintf("Week %d", n),
			Status:     model.StatusNotStarted,
			XPReward:   rewards.WeekReward(n),
		}
		if n <= len(in.Weeks) {
			w := in.Weeks[n-1]
			if t := strings.TrimSpace(w.Title); t != "" {
				week.Title = t
			}
			week.Description = w.Description
			if w.XPReward > 0 {
				week.XPReward = w.XPReward
			}
			for i, st := range w.Steps {
				step := model.RoadmapStep{Position: i + 1, Title: strings.TrimSpace(st.Title), Status: model.StatusNotStarted}
				for j, r := range st.Resources {
					rt := r.Type
					if rt == "" {
						rt = model.ResourceOther
					}
					step.Resources = append(step.Resources, model.Resource{
						Position:         j + 1,
						Title:            strings.TrimSpace(r.Title),
						URL:              r.URL,
						Type:             rt,
						EstimatedMinutes: r.EstimatedMinutes,
					})
				}
				week.Steps = append(week.Steps, step)
			}
		}
		roadmap.Weeks = append(roadmap.Weeks, week)
	}
	return roadmap
}

// CreateRoadmap 创建路线并发放创建奖励
func (s *RoadmapService) CreateRoadmap(ctx context.Context, session util.Session, in CreateRoadmapInput) (*model.Roadmap, error) {
	if err := in.normalize(); err != nil {
		return nil, err
	}

	roadmap := s.buildRoadmap(session.UserID, in)
	reward := s.Gamification.Settings().Rewards.RoadmapCreated

	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.RoadmapRepo.WithTx(tx).Create(ctx, &roadmap); err != nil {
			return err
		}
		return s.Gamification.awardInTx(ctx, tx, session.UserID, reward, model.ActivityRoadmapCreated, roadmap.ID, 0)
	})
	if err != nil {
		return nil, err
	}

	s.Gamification.evaluateQuietly(ctx, session.UserID)
	return s.RoadmapRepo.FindTree(ctx, roadmap.ID)
}

func (s *RoadmapService) ListUserRoadmaps(ctx context.Context, session util.Session) ([]model.Roadmap, error) {
	return s.RoadmapRepo.FindByUser(ctx, session.UserID)
}

// GetRoadmap 只能查看自己的路线或公共路线
func (s *RoadmapService) GetRoadmap(ctx context.Context, session util.Session, id string) (*model.Roadmap, error) {
	roadmap, err := s.RoadmapRepo.FindTree(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrRoadmapNotFound
		}
		return nil, err
	}
	if !roadmap.IsPublic && roadmap.UserID != session.UserID {
		return nil, util.ErrRoadmapNotFound
	}
	return roadmap, nil
}

func (s *RoadmapService) Catalog(ctx context.Context) ([]model.Roadmap, error) {
	return s.RoadmapRepo.FindPublic(ctx)
}

// candidates 排除用户已报名的公共路线
func (s *RoadmapService) candidates(catalog []model.Roadmap, enrolled []string) []model.Roadmap {
	skip := make(map[string]bool, len(enrolled))
	for _, id := range enrolled {
		skip[id] = true
	}
	out := make([]model.Roadmap, 0, len(catalog))
	for _, r := range catalog {
		if !skip[r.ID] {
			out = append(out, r)
		}
	}
	return out
}

func (s *RoadmapService) limit() int {
	if s.Recommendation.Limit > 0 {
		return s.Recommendation.Limit
	}
	return progression.DefaultRecommendationLimit
}

// Recommend 根据档案兴趣推荐尚未报名的公共路线，没有档案时返回空列表
func (s *RoadmapService) Recommend(ctx context.Context, session util.Session) ([]progression.Recommendation, error) {
	profile, err := s.ProfileRepo.FindByUserID(ctx, session.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return []progression.Recommendation{}, nil
		}
		return nil, err
	}
	catalog, err := s.Catalog(ctx)
	if err != nil {
		return nil, err
	}
	enrolled, err := s.RoadmapRepo.SourceIDsByUser(ctx, session.UserID)
	if err != nil {
		return nil, err
	}
	return progression.Rank(profile.Interests, s.candidates(catalog, enrolled), s.limit()), nil
}

// Enroll 将公共路线复制为用户自己的路线，不发放经验值
func (s *RoadmapService) Enroll(ctx context.Context, session util.Session, sourceID string) (*model.Roadmap, error) {
	source, err := s.RoadmapRepo.FindTree(ctx, sourceID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrRoadmapNotFound
		}
		return nil, err
	}
	if !source.IsPublic {
		return nil, util.ErrRoadmapNotFound
	}

	clone := cloneRoadmap(source, session.UserID)
	if err := s.RoadmapRepo.Create(ctx, &clone); err != nil {
		// (user_id, source_roadmap_id) 唯一索引兜住并发的重复报名
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, util.ErrAlreadyEnrolled
		}
		return nil, err
	}
	monitoring.RoadmapsEnrolled.WithLabelValues(source.SkillTag).Inc()
	return s.RoadmapRepo.FindTree(ctx, clone.ID)
}

func cloneRoadmap(src *model.Roadmap, userID string) model.Roadmap {
	sourceID := src.ID
	clone := model.Roadmap{
		UserID:          userID,
		SourceRoadmapID: &sourceID,
		Title:           src.Title,
		Description:     src.Description,
		SkillTag:        src.SkillTag,
		TotalWeeks:      src.TotalWeeks,
		CurrentWeek:     1,
		Progress:        0,
		Status:          model.StatusNotStarted,
	}
	for _, w := range src.Weeks {
		week := model.RoadmapWeek{
			WeekNumber:  w.WeekNumber,
			Title:       w.Title,
			Description: w.Description,
			Status:      model.StatusNotStarted,
			XPReward:    w.XPReward,
		}
		for _, st := range w.Steps {
			step := model.RoadmapStep{Position: st.Position, Title: st.Title, Status: model.StatusNotStarted}
			for _, r := range st.Resources {
				step.Resources = append(step.Resources, model.Resource{
					Position:         r.Position,
					Title:            r.Title,
					URL:              r.URL,
					Type:             r.Type,
					EstimatedMinutes: r.EstimatedMinutes,
				})
			}
			week.Steps = append(week.Steps, step)
		}
		clone.Weeks = append(clone.Weeks, week)
	}
	return clone
}

// CompletionResult 完成资源后的结果
type CompletionResult struct {
	Roadmap          *model.Roadmap `json:"roadmap"`
	XPAwarded        int            `json:"xp_awarded"`
	StepCompleted    bool           `json:"step_completed"`
	WeekCompleted    bool           `json:"week_completed"`
	RoadmapCompleted bool           `json:"roadmap_completed"`
	StreakCount      int            `json:"streak_count"`
	NewBadges        []model.Badge  `json:"new_badges"`
	Unchanged        bool           `json:"unchanged"`
}

// MarkResourceComplete 标记资源完成并向上汇总步骤、周、路线的状态。
// 完成不可撤销；重复完成不会再次发放经验值。
func (s *RoadmapService) MarkResourceComplete(ctx context.Context, session util.Session, roadmapID, weekID, stepID, resourceID string, completed bool) (result *CompletionResult, err error) {
	ctx, span := tracing.StartSpan(ctx, "roadmap.mark_resource_complete",
		attribute.String("roadmap.id", roadmapID),
		attribute.String("resource.id", resourceID))
	defer func() { tracing.EndSpan(span, err) }()

	roadmap, err := s.RoadmapRepo.FindByID(ctx, roadmapID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrRoadmapNotFound
		}
		return nil, err
	}
	if roadmap.UserID != session.UserID {
		return nil, util.ErrRoadmapNotFound
	}

	week, step, resource, err := s.RoadmapRepo.FindResource(ctx, roadmapID, weekID, stepID, resourceID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			switch {
			case week == nil:
				return nil, util.ErrWeekNotFound
			case step == nil:
				return nil, util.ErrStepNotFound
			default:
				return nil, util.ErrResourceNotFound
			}
		}
		return nil, err
	}

	if !completed {
		if resource.Completed {
			return nil, util.ErrCompletionLocked
		}
		return s.unchanged(ctx, roadmapID)
	}
	if resource.Completed {
		return s.unchanged(ctx, roadmapID)
	}

	rewards := s.Gamification.Settings().Rewards
	result = &CompletionResult{NewBadges: []model.Badge{}}
	changed := false

	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		roadmaps := s.RoadmapRepo.WithTx(tx)

		updated, err := roadmaps.MarkResourceCompleted(ctx, resource.ID, s.Gamification.Now())
		if err != nil || !updated {
			return err
		}
		changed = true

		if err := s.Gamification.awardInTx(ctx, tx, session.UserID, rewards.ResourceCompleted,
			model.ActivityResourceCompleted, resource.ID, resource.EstimatedMinutes); err != nil {
			return err
		}
		result.XPAwarded += rewards.ResourceCompleted

		tree, err := roadmaps.FindTree(ctx, roadmapID)
		if err != nil {
			return err
		}
		if err := s.cascade(ctx, tx, session.UserID, tree, step.ID, week.ID, result); err != nil {
			return err
		}

		streak, err := s.Gamification.advanceStreakInTx(ctx, tx, session.UserID)
		if err != nil {
			return err
		}
		result.StreakCount = streak.Count
		return nil
	})
	if err != nil {
		return nil, err
	}
	if !changed {
		return s.unchanged(ctx, roadmapID)
	}

	monitoring.ResourcesCompleted.Inc()
	logger.Log.Debug("resource completed",
		zap.String("user_id", session.UserID),
		zap.String("resource_id", resourceID),
		zap.Int("xp", result.XPAwarded))

	if badges := s.Gamification.evaluateQuietly(ctx, session.UserID); len(badges) > 0 {
		result.NewBadges = badges
	}

	result.Roadmap, err = s.RoadmapRepo.FindTree(ctx, roadmapID)
	if err != nil {
		return nil, err
	}
	return result, nil
}

// cascade 在事务内重新计算步骤、周与路线状态，并为新完成的周发放奖励
func (s *RoadmapService) cascade(ctx context.Context, tx *gorm.DB, userID string, tree *model.Roadmap, stepID, weekID string, result *CompletionResult) error {
	roadmaps := s.RoadmapRepo.WithTx(tx)

	for wi := range tree.Weeks {
		week := &tree.Weeks[wi]
		if week.ID != weekID {
			continue
		}
		for si := range week.Steps {
			step := &week.Steps[si]
			if step.ID != stepID {
				continue
			}
			next := progression.StepStatus(*step)
			if next != step.Status {
				if err := roadmaps.UpdateStepStatus(ctx, step.ID, next); err != nil {
					return err
				}
				result.StepCompleted = next == model.StatusCompleted
				step.Status = next
			}
		}

		next := progression.WeekStatus(*week)
		if next == week.Status {
			continue
		}
		if err := roadmaps.UpdateWeekStatus(ctx, week.ID, next); err != nil {
			return err
		}
		if next == model.StatusCompleted {
			result.WeekCompleted = true
			if err := s.Gamification.awardInTx(ctx, tx, userID, week.XPReward, model.ActivityWeekCompleted, week.ID, 0); err != nil {
				return err
			}
			result.XPAwarded += week.XPReward
		}
		week.Status = next
	}

	wasCompleted := tree.Status == model.StatusCompleted
	rollup := progression.RollupRoadmap(*tree)
	if err := roadmaps.UpdateProgress(ctx, tree.ID, rollup.Status, rollup.Progress, rollup.CurrentWeek); err != nil {
		return err
	}
	if rollup.Status == model.StatusCompleted && !wasCompleted {
		result.RoadmapCompleted = true
		return s.Gamification.awardInTx(ctx, tx, userID, 0, model.ActivityRoadmapCompleted, tree.ID, 0)
	}
	return nil
}

func (s *RoadmapService) unchanged(ctx context.Context, roadmapID string) (*CompletionResult, error) {
	tree, err := s.RoadmapRepo.FindTree(ctx, roadmapID)
	if err != nil {
		return nil, err
	}
	return &CompletionResult{Roadmap: tree, NewBadges: []model.Badge{}, Unchanged: true}, nil
}
