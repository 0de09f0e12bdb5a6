package service

import (
	"context"

	"skillkart_backend/internal/model"
	"skillkart_backend/internal/util"
)

// ProgressionStore 进度引擎对外的数据访问契约
type ProgressionStore interface {
	FetchUser(ctx context.Context, userID string) (*model.User, error)
	FetchProfile(ctx context.Context, userID string) (*model.UserProfile, error)
	UpsertProfile(ctx context.Context, profile *model.UserProfile) (*model.UserProfile, error)
	FetchRoadmapCatalog(ctx context.Context) ([]model.Roadmap, error)
	CreateRoadmap(ctx context.Context, session util.Session, in CreateRoadmapInput) (*model.Roadmap, error)
	MarkResourceComplete(ctx context.Context, session util.Session, roadmapID, weekID, stepID, resourceID string, completed bool) (*CompletionResult, error)
	AwardXP(ctx context.Context, userID string, amount int, reason model.ActivityKind) (*model.User, error)
}

// Engine 组合各服务实现 ProgressionStore
type Engine struct {
	Users        *UserService
	Profiles     *ProfileService
	Roadmaps     *RoadmapService
	Gamification *GamificationService
}

var _ ProgressionStore = (*Engine)(nil)

func NewEngine(users *UserService, profiles *ProfileService, roadmaps *RoadmapService, gamification *GamificationService) *Engine {
	return &Engine{
		Users:        users,
		Profiles:     profiles,
		Roadmaps:     roadmaps,
		Gamification: gamification,
	}
}

func (e *Engine) FetchUser(ctx context.Context, userID string) (*model.User, error) {
	return e.Users.GetUserByID(ctx, userID)
}

func (e *Engine) FetchProfile(ctx context.Context, userID string) (*model.UserProfile, error) {
	return e.Profiles.GetProfile(ctx, userID)
}

func (e *Engine) UpsertProfile(ctx context.Context, profile *model.UserProfile) (*model.UserProfile, error) {
	return e.Profiles.Upsert(ctx, profile)
}

func (e *Engine) FetchRoadmapCatalog(ctx context.Context) ([]model.Roadmap, error) {
	return e.Roadmaps.Catalog(ctx)
}

func (e *Engine) CreateRoadmap(ctx context.Context, session util.Session, in CreateRoadmapInput) (*model.Roadmap, error) {
	return e.Roadmaps.CreateRoadmap(ctx, session, in)
}

func (e *Engine) MarkResourceComplete(ctx context.Context, session util.Session, roadmapID, weekID, stepID, resourceID string, completed bool) (*CompletionResult, error) {
	return e.Roadmaps.MarkResourceComplete(ctx, session, roadmapID, weekID, stepID, resourceID, completed)
}

func (e *Engine) AwardXP(ctx context.Context, userID string, amount int, reason model.ActivityKind) (*model.User, error) {
	return e.Gamification.AwardXP(ctx, userID, amount, reason)
}
