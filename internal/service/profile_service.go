package service

import (
	"context"
	"errors"
	"strings"

	"skillkart_backend/internal/model"
	"skillkart_backend/internal/progression"
	"skillkart_backend/internal/repository"
	"skillkart_backend/internal/util"

	"gorm.io/gorm"
)

type ProfileService struct {
	ProfileRepo *repository.ProfileRepository
}

func NewProfileService(profileRepo *repository.ProfileRepository) *ProfileService {
	return &ProfileService{ProfileRepo: profileRepo}
}

type ProfileInput struct {
	Interests       []string          `json:"interests" binding:"required"`
	PrimaryGoal     model.PrimaryGoal `json:"primary_goal" binding:"required"`
	WeeklyHours     int               `json:"weekly_hours" binding:"required"`
	AdditionalGoals *string           `json:"additional_goals"`
}

// GetProfile 未设置档案时返回 ErrProfileNotFound，前端据此弹出设置向导
func (s *ProfileService) GetProfile(ctx context.Context, userID string) (*model.UserProfile, error) {
	profile, err := s.ProfileRepo.FindByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrProfileNotFound
		}
		return nil, err
	}
	return profile, nil
}

// Upsert 先插入，唯一约束冲突时改为按用户更新
func (s *ProfileService) Upsert(ctx context.Context, profile *model.UserProfile) (*model.UserProfile, error) {
	if profile.AdditionalGoals != nil {
		trimmed := strings.TrimSpace(*profile.AdditionalGoals)
		profile.AdditionalGoals = &trimmed
	}
	if err := progression.ValidateProfile(profile); err != nil {
		return nil, err
	}

	err := s.insert(ctx, profile)
	if errors.Is(err, util.ErrProfileExists) {
		err = s.ProfileRepo.UpdateByUserID(ctx, profile)
	}
	if err != nil {
		return nil, err
	}
	return s.GetProfile(ctx, profile.UserID)
}

func (s *ProfileService) insert(ctx context.Context, profile *model.UserProfile) error {
	row := *profile
	row.ID = ""
	err := s.ProfileRepo.Create(ctx, &row)
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return util.ErrProfileExists
	}
	return err
}

func (s *ProfileService) Save(ctx context.Context, session util.Session, in ProfileInput) (*model.UserProfile, error) {
	return s.Upsert(ctx, &model.UserProfile{
		UserID:          session.UserID,
		Interests:       in.Interests,
		PrimaryGoal:     in.PrimaryGoal,
		WeeklyHours:     in.WeeklyHours,
		AdditionalGoals: in.AdditionalGoals,
	})
}
