package repository

import (
	"context"
	"time"

	"skillkart_backend/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type BadgeRepository struct {
	DB *gorm.DB
}

func NewBadgeRepository(db *gorm.DB) *BadgeRepository {
	return &BadgeRepository{DB: db}
}

func (r *BadgeRepository) List(ctx context.Context) ([]model.Badge, error) {
	badges := []model.Badge{}
	err := r.DB.WithContext(ctx).Order("created_at ASC").Find(&badges).Error
	return badges, err
}

func (r *BadgeRepository) FindByID(ctx context.Context, id string) (*model.Badge, error) {
	var badge model.Badge
	err := r.DB.WithContext(ctx).First(&badge, "id = ?", id).Error
	return &badge, err
}

func (r *BadgeRepository) Create(ctx context.Context, badge *model.Badge) error {
	return r.DB.WithContext(ctx).Create(badge).Error
}

func (r *BadgeRepository) UpdateImage(ctx context.Context, id, url string) error {
	return r.DB.WithContext(ctx).Model(&model.Badge{}).
		Where("id = ?", id).
		Update("image_url", url).Error
}

// FindByUser 用户已获得的徽章，最新获得的在前
func (r *BadgeRepository) FindByUser(ctx context.Context, userID string) ([]model.UserBadge, error) {
	earned := []model.UserBadge{}
	err := r.DB.WithContext(ctx).
		Preload("Badge").
		Where("user_id = ?", userID).
		Order("awarded_at DESC").
		Find(&earned).Error
	return earned, err
}

func (r *BadgeRepository) OwnedBadgeIDs(ctx context.Context, userID string) (map[string]bool, error) {
	var ids []string
	err := r.DB.WithContext(ctx).Model(&model.UserBadge{}).
		Where("user_id = ?", userID).
		Pluck("badge_id", &ids).Error
	if err != nil {
		return nil, err
	}
	owned := make(map[string]bool, len(ids))
	for _, id := range ids {
		owned[id] = true
	}
	return owned, nil
}

// Award 发放徽章，(user_id, badge_id) 已存在时不做任何事并返回 false
func (r *BadgeRepository) Award(ctx context.Context, userID, badgeID string, at time.Time) (bool, error) {
	ub := model.UserBadge{
		ID:        model.GenerateUUID(),
		UserID:    userID,
		BadgeID:   badgeID,
		AwardedAt: at,
	}
	res := r.DB.WithContext(ctx).
		Omit("Badge").
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&ub)
	return res.RowsAffected > 0, res.Error
}
