package repository

import (
	"context"

	"skillkart_backend/internal/model"

	"gorm.io/gorm"
)

type ProfileRepository struct {
	DB *gorm.DB
}

func NewProfileRepository(db *gorm.DB) *ProfileRepository {
	return &ProfileRepository{DB: db}
}

func (r *ProfileRepository) FindByUserID(ctx context.Context, userID string) (*model.UserProfile, error) {
	var profile model.UserProfile
	err := r.DB.WithContext(ctx).Where("user_id = ?", userID).First(&profile).Error
	return &profile, err
}

// Create 唯一约束冲突时返回 gorm.ErrDuplicatedKey（需要开启 TranslateError）
func (r *ProfileRepository) Create(ctx context.Context, profile *model.UserProfile) error {
	return r.DB.WithContext(ctx).Create(profile).Error
}

// UpdateByUserID 按用户覆盖档案字段
func (r *ProfileRepository) UpdateByUserID(ctx context.Context, profile *model.UserProfile) error {
	res := r.DB.WithContext(ctx).Model(&model.UserProfile{}).
		Where("user_id = ?", profile.UserID).
		Updates(map[string]interface{}{
			"interests":        profile.Interests,
			"primary_goal":     profile.PrimaryGoal,
			"weekly_hours":     profile.WeeklyHours,
			"additional_goals": profile.AdditionalGoals,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
